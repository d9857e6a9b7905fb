package swap_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/mock"

	"github.com/dwarvesf/htlc-backend/internal/handler/swap"
	"github.com/dwarvesf/htlc-backend/internal/htlc"
	"github.com/dwarvesf/htlc-backend/internal/model"
	"github.com/dwarvesf/htlc-backend/internal/utils/config"
	"github.com/dwarvesf/htlc-backend/internal/utils/logger"
)

const (
	alice  = "cosmos1alice"
	bob    = "cosmos1bob"
	swapID = "f3a1"
)

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *struct {
		Code    string `json:"code"`
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"error"`
}

var _ = Describe("Swap handler", func() {
	var (
		ctrl   *MockController
		router *gin.Engine
	)

	hashlock := model.HashlockOf("secret")

	do := func(method, path, caller, body string) (*httptest.ResponseRecorder, envelope) {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, path, nil)
		} else {
			req = httptest.NewRequest(method, path, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
		}
		if caller != "" {
			req.Header.Set(swap.CallerHeader, caller)
		}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var env envelope
		Expect(json.Unmarshal(w.Body.Bytes(), &env)).To(Succeed())
		return w, env
	}

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		ctrl = &MockController{}
		h := swap.New(ctrl, logger.NewNop(), &config.AppConfig{})

		router = gin.New()
		router.POST("/htlc/swaps", h.Initiate)
		router.POST("/htlc/swaps/:id/withdraw", h.Withdraw)
		router.POST("/htlc/swaps/:id/refund", h.Refund)
		router.GET("/htlc/swaps/:id", h.GetSwap)
		router.GET("/htlc/swaps/:id/withdrawable", h.IsWithdrawable)
		router.GET("/htlc/swaps/:id/refundable", h.IsRefundable)
		router.GET("/htlc/users/:address/swaps", h.GetUserSwaps)
		router.POST("/htlc/secrets", h.GenerateSecret)
		router.POST("/htlc/hashlocks", h.Hashlock)
	})

	AfterEach(func() {
		ctrl.AssertExpectations(GinkgoT())
	})

	Describe("Initiate", func() {
		body := func(hashlock string, extra string) string {
			return `{"hashlock":"` + hashlock + `","timelock":1700007200,"receiver":"` + bob + `","denom":"uatom","amount":"100"` + extra + `}`
		}

		It("escrows exactly the amount when no funds are attached", func() {
			result := &htlc.Result{SwapID: swapID, Attributes: []htlc.Attribute{{Key: "method", Value: "initiate_swap"}}}
			ctrl.On("Initiate", mock.Anything, alice, mock.MatchedBy(func(req htlc.InitiateRequest) bool {
				return req.Receiver == bob &&
					req.Hashlock == hashlock &&
					req.Timelock == 1700007200 &&
					req.Amount.String() == "100" &&
					req.Funds.String() == "100uatom"
			})).Return(result, nil)

			w, env := do(http.MethodPost, "/htlc/swaps", alice, body(hashlock, ""))
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(env.Error).To(BeNil())

			var got htlc.Result
			Expect(json.Unmarshal(env.Data, &got)).To(Succeed())
			Expect(got.SwapID).To(Equal(swapID))
			Expect(got.Attribute("method")).To(Equal("initiate_swap"))
		})

		It("passes attached funds through", func() {
			ctrl.On("Initiate", mock.Anything, alice, mock.MatchedBy(func(req htlc.InitiateRequest) bool {
				return req.Funds.String() == "150uatom,5stake"
			})).Return(&htlc.Result{SwapID: swapID}, nil)

			funds := `,"funds":[{"denom":"uatom","amount":"150"},{"denom":"stake","amount":"5"}]`
			w, _ := do(http.MethodPost, "/htlc/swaps", alice, body(hashlock, funds))
			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("requires the caller header", func() {
			w, env := do(http.MethodPost, "/htlc/swaps", "", body(hashlock, ""))
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(env.Error.Message).To(ContainSubstring(swap.CallerHeader))
		})

		It("rejects a hashlock that is not lowercase hex sha256", func() {
			w, _ := do(http.MethodPost, "/htlc/swaps", alice, body(strings.ToUpper(hashlock), ""))
			Expect(w.Code).To(Equal(http.StatusBadRequest))

			w, _ = do(http.MethodPost, "/htlc/swaps", alice, body("abc", ""))
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("rejects a negative amount", func() {
			w, _ := do(http.MethodPost, "/htlc/swaps", alice,
				`{"hashlock":"`+hashlock+`","timelock":1700007200,"receiver":"`+bob+`","denom":"uatom","amount":"-1"}`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("maps insufficient funds to 422", func() {
			ctrl.On("Initiate", mock.Anything, alice, mock.Anything).Return(nil, htlc.ErrInsufficientFunds)

			w, env := do(http.MethodPost, "/htlc/swaps", alice, body(hashlock, ""))
			Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
			Expect(env.Error.Code).To(Equal("InsufficientFunds"))
		})

		It("maps an invalid timelock to 400", func() {
			ctrl.On("Initiate", mock.Anything, alice, mock.Anything).Return(nil, htlc.ErrInvalidTimelock)

			w, env := do(http.MethodPost, "/htlc/swaps", alice, body(hashlock, ""))
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(env.Error.Message).To(Equal("Invalid timelock"))
		})
	})

	Describe("Withdraw and Refund", func() {
		It("withdraws with the preimage", func() {
			ctrl.On("Withdraw", mock.Anything, bob, swapID, "secret").
				Return(&htlc.Result{SwapID: swapID}, nil)

			w, _ := do(http.MethodPost, "/htlc/swaps/"+swapID+"/withdraw", bob, `{"preimage":"secret"}`)
			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("maps a foreign caller to 403", func() {
			ctrl.On("Withdraw", mock.Anything, alice, swapID, "secret").Return(nil, htlc.ErrUnauthorized)

			w, env := do(http.MethodPost, "/htlc/swaps/"+swapID+"/withdraw", alice, `{"preimage":"secret"}`)
			Expect(w.Code).To(Equal(http.StatusForbidden))
			Expect(env.Error.Kind).To(Equal("authorization"))
		})

		It("requires the preimage field", func() {
			w, _ := do(http.MethodPost, "/htlc/swaps/"+swapID+"/withdraw", bob, `{}`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			ctrl.AssertNotCalled(GinkgoT(), "Withdraw", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})

		It("accepts an empty preimage", func() {
			ctrl.On("Withdraw", mock.Anything, bob, swapID, "").
				Return(&htlc.Result{SwapID: swapID}, nil)

			w, _ := do(http.MethodPost, "/htlc/swaps/"+swapID+"/withdraw", bob, `{"preimage":""}`)
			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("maps an early refund to 409", func() {
			ctrl.On("Refund", mock.Anything, alice, swapID).Return(nil, htlc.ErrTimelockNotExpired)

			w, env := do(http.MethodPost, "/htlc/swaps/"+swapID+"/refund", alice, "")
			Expect(w.Code).To(Equal(http.StatusConflict))
			Expect(env.Error.Code).To(Equal("TimelockNotExpired"))
		})

		It("maps storage failures to 500", func() {
			ctrl.On("Refund", mock.Anything, alice, swapID).Return(nil, errors.New("bolt: database not open"))

			w, _ := do(http.MethodPost, "/htlc/swaps/"+swapID+"/refund", alice, "")
			Expect(w.Code).To(Equal(http.StatusInternalServerError))
		})
	})

	Describe("Queries", func() {
		It("returns a swap with its status", func() {
			ctrl.On("GetSwap", mock.Anything, swapID).Return(&model.Swap{
				Hashlock: hashlock,
				Timelock: 1700007200,
				Sender:   alice,
				Receiver: bob,
				Denom:    "uatom",
				Amount:   model.NewAmount(100),
			}, nil)

			w, env := do(http.MethodGet, "/htlc/swaps/"+swapID, "", "")
			Expect(w.Code).To(Equal(http.StatusOK))

			var got map[string]interface{}
			Expect(json.Unmarshal(env.Data, &got)).To(Succeed())
			Expect(got["id"]).To(Equal(swapID))
			Expect(got["status"]).To(Equal("pending"))
			Expect(got["amount"]).To(Equal("100"))
			Expect(got["preimage"]).To(BeNil())
		})

		It("maps a missing swap to 404", func() {
			ctrl.On("GetSwap", mock.Anything, "missing").Return(nil, htlc.ErrSwapNotFound)

			w, env := do(http.MethodGet, "/htlc/swaps/missing", "", "")
			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(env.Error.Message).To(Equal("Swap does not exist"))
		})

		It("lists an address without swaps as empty", func() {
			ctrl.On("GetUserSwaps", mock.Anything, alice).Return([]string{}, nil)

			w, env := do(http.MethodGet, "/htlc/users/"+alice+"/swaps", "", "")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(string(env.Data)).To(ContainSubstring(`"swap_ids":[]`))
		})

		It("reports eligibility", func() {
			ctrl.On("IsWithdrawable", mock.Anything, swapID).Return(true, nil)
			ctrl.On("IsRefundable", mock.Anything, swapID).Return(false, nil)

			_, env := do(http.MethodGet, "/htlc/swaps/"+swapID+"/withdrawable", "", "")
			Expect(string(env.Data)).To(ContainSubstring(`"withdrawable":true`))

			_, env = do(http.MethodGet, "/htlc/swaps/"+swapID+"/refundable", "", "")
			Expect(string(env.Data)).To(ContainSubstring(`"refundable":false`))
		})
	})

	Describe("Secrets", func() {
		It("generates a secret", func() {
			ctrl.On("GenerateSecret").Return(&htlc.Secret{Secret: "ab", Hashlock: "cd"}, nil)

			w, env := do(http.MethodPost, "/htlc/secrets", "", "")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(string(env.Data)).To(Equal(`{"secret":"ab","hashlock":"cd"}`))
		})

		It("computes a hashlock", func() {
			ctrl.On("Hashlock", "secret").Return(hashlock)

			w, env := do(http.MethodPost, "/htlc/hashlocks", "", `{"secret":"secret"}`)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(string(env.Data)).To(ContainSubstring(hashlock))
		})
	})
})
