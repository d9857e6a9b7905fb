package view

import (
	"net/http"

	"github.com/dwarvesf/htlc-backend/internal/htlc"
)

// Response is the envelope of every API reply.
type Response[T any] struct {
	Data    T           `json:"data"`
	Message string      `json:"message,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Request interface{} `json:"request,omitempty"`
}

// ErrorInfo carries the protocol error code when there is one, so clients
// can branch without parsing the message.
type ErrorInfo struct {
	Code    string `json:"code,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Data    string `json:"data"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string    `json:"message"`
	Error   ErrorInfo `json:"error"`
}

func CreateResponse[T any](data T, err error, req interface{}, message string) Response[T] {
	resp := Response[T]{
		Data:    data,
		Message: message,
	}
	if err != nil {
		resp.Error = errorInfo(err)
		resp.Request = req
	}
	return resp
}

func errorInfo(err error) *ErrorInfo {
	if e, ok := htlc.AsError(err); ok {
		return &ErrorInfo{Code: e.Code, Kind: string(e.Kind), Message: e.Message}
	}
	return &ErrorInfo{Message: err.Error()}
}

// HTTPStatus maps a failed operation to its status code. Anything that is
// not a protocol error is an infrastructure failure.
func HTTPStatus(err error) int {
	e, ok := htlc.AsError(err)
	if !ok {
		return http.StatusInternalServerError
	}

	switch e.Kind {
	case htlc.KindValidation, htlc.KindIntegrity:
		return http.StatusBadRequest
	case htlc.KindAuthorization:
		return http.StatusForbidden
	case htlc.KindLookup:
		return http.StatusNotFound
	case htlc.KindConflict, htlc.KindState:
		return http.StatusConflict
	case htlc.KindResource:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
