package htlc

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/dwarvesf/htlc-backend/internal/model"
)

// GenerateSwapID hashes the creation parameters joined by ':' and returns
// the lowercase hex digest. Integers are plain base-10.
func GenerateSwapID(sender, receiver, denom string, amount model.Amount, hashlock string, timelock, createdAt uint64) string {
	preimage := strings.Join([]string{
		sender,
		receiver,
		denom,
		amount.String(),
		hashlock,
		strconv.FormatUint(timelock, 10),
		strconv.FormatUint(createdAt, 10),
	}, ":")

	sum := sha256.Sum256([]byte(preimage))
	return hex.EncodeToString(sum[:])
}
