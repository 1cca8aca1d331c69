package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"jobboard/internal/common"
)

// ErrorCollector lets the metrics collector count error responses
// without the response package depending on it.
type ErrorCollector interface {
	IncErrors()
}

var errorCollector ErrorCollector

func SetErrorCollector(collector ErrorCollector) {
	errorCollector = collector
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

type errorBody struct {
	Code    common.Code       `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// Error writes a coded error with a stable machine-checkable code.
// Internal causes are never leaked to the client.
func Error(w http.ResponseWriter, err error) {
	code := common.CodeInternal
	message := "internal error"
	var fields map[string]string
	var coded *common.Error
	if errors.As(err, &coded) {
		code = coded.Code
		message = coded.Message
		fields = coded.Fields
	}
	status := statusFor(code)
	if status >= http.StatusInternalServerError && errorCollector != nil {
		errorCollector.IncErrors()
	}
	JSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message, Fields: fields}})
}

func statusFor(code common.Code) int {
	switch code {
	case common.CodeValidation:
		return http.StatusBadRequest
	case common.CodeUnauthorized:
		return http.StatusUnauthorized
	case common.CodeForbidden:
		return http.StatusForbidden
	case common.CodeNotFound:
		return http.StatusNotFound
	case common.CodeConflict:
		return http.StatusConflict
	case common.CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
