package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/fragen-dev/fragen/pkg/api"
)

// ErrorFromResponse converts an HTTP response with a non-2xx status code
// into an APIError. If the body carries a structured error response, its
// type, code, param, and message are preserved; otherwise a generic error
// for the status class is returned.
func ErrorFromResponse(resp *http.Response) *api.APIError {
	if apiErr := extractAPIError(resp.Body); apiErr != nil {
		apiErr.StatusCode = resp.StatusCode
		return apiErr
	}

	var apiErr *api.APIError
	switch {
	case resp.StatusCode == http.StatusBadRequest:
		apiErr = api.NewInvalidRequestError("", "invalid request")

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		apiErr = api.NewAuthenticationError("authentication failed")

	case resp.StatusCode == http.StatusNotFound:
		apiErr = api.NewNotFoundError("resource not found")

	case resp.StatusCode == http.StatusTooManyRequests:
		apiErr = api.NewTooManyRequestsError("rate limit exceeded")

	case resp.StatusCode >= http.StatusInternalServerError:
		apiErr = api.NewServerError(fmt.Sprintf("server error (HTTP %d)", resp.StatusCode))

	default:
		apiErr = api.NewServerError(fmt.Sprintf("unexpected error (HTTP %d)", resp.StatusCode))
	}
	apiErr.StatusCode = resp.StatusCode
	return apiErr
}

// MapNetworkError converts a network-level error (connection refused,
// timeout, DNS resolution failure) into an APIError.
func MapNetworkError(err error) *api.APIError {
	return api.NewServerError(fmt.Sprintf("connection error: %s", err.Error()))
}

// extractAPIError tries to parse the response body as an api.ErrorResponse.
// Returns nil if the body does not carry a usable structured error.
func extractAPIError(body io.Reader) *api.APIError {
	if body == nil {
		return nil
	}

	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return nil
	}

	var errResp api.ErrorResponse
	if err := json.Unmarshal(data, &errResp); err == nil && errResp.Error != nil && errResp.Error.Message != "" {
		return errResp.Error
	}
	return nil
}
