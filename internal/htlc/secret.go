package htlc

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/pkg/errors"

	"github.com/dwarvesf/htlc-backend/internal/model"
)

const secretBytes = 32

// Secret is a freshly generated preimage and the hashlock committing to it.
type Secret struct {
	Secret   string `json:"secret"`
	Hashlock string `json:"hashlock"`
}

// GenerateSecret returns 32 random bytes, hex encoded, as the preimage. The
// hashlock is taken over the hex string, which is what Withdraw will hash.
func GenerateSecret() (*Secret, error) {
	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, errors.Wrap(err, "read random secret")
	}

	secret := hex.EncodeToString(buf)
	return &Secret{Secret: secret, Hashlock: Hashlock(secret)}, nil
}

func Hashlock(secret string) string {
	return model.HashlockOf(secret)
}
