package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/screenhall/web/pkg/errors"
)

// backendErrorBody mirrors the error envelope the ticketing backend returns
// on non-2xx responses.
type backendErrorBody struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ParseResponseError reads the body of a non-2xx response and translates it
// into an AppError that preserves the backend's status and message. The
// response body is consumed and closed. Call it only when resp.StatusCode
// already indicates a failure.
func ParseResponseError(resp *http.Response, operation string) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s: backend returned status %d (read body: %w)", operation, resp.StatusCode, err)
	}

	var envelope backendErrorBody
	if json.Unmarshal(body, &envelope) == nil && envelope.Error != nil {
		return mapBackendError(resp.StatusCode, envelope.Error.Code, envelope.Error.Message, operation)
	}

	return fmt.Errorf("%s: backend returned status %d: %s", operation, resp.StatusCode, string(body))
}

func mapBackendError(status int, code, message, operation string) error {
	qualified := fmt.Sprintf("%s: %s", operation, message)

	switch {
	case status == http.StatusNotFound:
		return apperrors.NotFound(operation, message)
	case status == http.StatusBadRequest:
		return apperrors.InvalidInput(qualified)
	case status == http.StatusUnauthorized:
		return apperrors.Unauthorized(qualified)
	case status == http.StatusForbidden:
		return apperrors.Forbidden(qualified)
	case status == http.StatusConflict:
		return apperrors.Conflict(qualified)
	case status == http.StatusUnprocessableEntity:
		return apperrors.BookingFailed(qualified)
	case status == http.StatusServiceUnavailable:
		return apperrors.Unavailable(qualified)
	case status >= 500:
		return fmt.Errorf("%s: backend server error (%d/%s): %s", operation, status, code, message)
	default:
		return &apperrors.AppError{Code: code, Message: qualified, Status: status}
	}
}
