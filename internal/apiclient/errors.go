package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// FieldError is one entry of a validation error list:
// {"detail": [{"loc": [...], "msg": "...", "type": "..."}]}.
type FieldError struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

// Field returns the last element of Loc, which names the offending field.
func (f FieldError) Field() string {
	if len(f.Loc) == 0 {
		return ""
	}
	return fmt.Sprint(f.Loc[len(f.Loc)-1])
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Detail     string       // {"detail": "message"}
	Fields     []FieldError // {"detail": [...]}
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			if name := f.Field(); name != "" {
				parts = append(parts, name+": "+f.Msg)
			} else {
				parts = append(parts, f.Msg)
			}
		}
		return fmt.Sprintf("%d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), strings.Join(parts, "; "))
	}
	if e.Detail != "" {
		return fmt.Sprintf("%d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Detail)
	}
	return fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Message is the text a caller would show a user.
func (e *APIError) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	if len(e.Fields) > 0 {
		return e.Fields[0].Msg
	}
	return http.StatusText(e.StatusCode)
}

// IsUnauthorized reports a 401.
func (e *APIError) IsUnauthorized() bool { return e.StatusCode == http.StatusUnauthorized }

// IsNotFound reports a 404.
func (e *APIError) IsNotFound() bool { return e.StatusCode == http.StatusNotFound }

// decodeAPIError builds an APIError from a response body, accepting both
// detail shapes. Bodies that are not JSON leave Detail empty.
func decodeAPIError(status int, method, path string, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Method: method, Path: path}

	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return apiErr
	}

	var msg string
	if err := json.Unmarshal(envelope.Detail, &msg); err == nil {
		apiErr.Detail = msg
		return apiErr
	}
	var fields []FieldError
	if err := json.Unmarshal(envelope.Detail, &fields); err == nil {
		apiErr.Fields = fields
	}
	return apiErr
}

// NetworkError is a transport failure: no HTTP response was received.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Timeout reports whether the failure was a timeout.
func (e *NetworkError) Timeout() bool {
	var t interface{ Timeout() bool }
	return errors.As(e.Err, &t) && t.Timeout()
}

// IsNetwork reports whether err is a transport failure.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsUnauthorized reports whether err is a 401 response.
func IsUnauthorized(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.IsUnauthorized()
}
