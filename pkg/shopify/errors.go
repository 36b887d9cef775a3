package shopify

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

type ErrorKind string

const (
	KindUnauthorized ErrorKind = "unauthorized"
	KindNotFound     ErrorKind = "not_found"
	KindRateLimited  ErrorKind = "rate_limited"
	KindUpstream     ErrorKind = "upstream"
	KindTransport    ErrorKind = "transport"
	KindDecode       ErrorKind = "decode"
)

// APIError is returned for every failed call. Status is 0 for transport and
// decode failures.
type APIError struct {
	Op         string
	Status     int
	Kind       ErrorKind
	Message    string
	RetryAfter string
	Err        error
}

func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString("shopify ")
	b.WriteString(e.Op)
	if e.Status != 0 {
		fmt.Fprintf(&b, ": %d", e.Status)
	}
	b.WriteString(" ")
	b.WriteString(string(e.Kind))
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	} else if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *APIError) Unwrap() error { return e.Err }

// AsAPIError is errors.As for *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

func kindForStatus(status int) ErrorKind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindUnauthorized
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusTooManyRequests:
		return KindRateLimited
	}
	return KindUpstream
}

const maxBodyMessage = 200

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// errorMessage pulls the "errors" member out of a Shopify error body, which
// is either a string or an object of field -> messages.
func errorMessage(body []byte) string {
	var env struct {
		Errors json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(body, &env); err != nil || len(env.Errors) == 0 {
		return truncate(strings.TrimSpace(string(body)), maxBodyMessage)
	}
	var s string
	if err := json.Unmarshal(env.Errors, &s); err == nil {
		return s
	}
	return string(env.Errors)
}
