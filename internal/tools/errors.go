package tools

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"shopifymcp/pkg/problems"
	"shopifymcp/pkg/shopify"
)

var (
	ErrUnknownTool     = errors.New("unknown tool")
	ErrInvalidArgument = errors.New("invalid argument")
)

func invalidArg(name, msg string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidArgument, name, msg)
}

// Problem maps any dispatcher error onto a structured problem body.
func Problem(err error) problems.Problem {
	if ae, ok := shopify.AsAPIError(err); ok {
		switch ae.Kind {
		case shopify.KindUnauthorized:
			return problems.New("unauthorized", "Shopify rejected the credentials", http.StatusUnauthorized, ae.Error())
		case shopify.KindNotFound:
			return problems.New("not_found", "Resource not found", http.StatusNotFound, ae.Error())
		case shopify.KindRateLimited:
			p := problems.New("rate_limited", "Shopify rate limit exceeded", http.StatusTooManyRequests, ae.Error())
			p.RetryAfter = ae.RetryAfter
			return p
		case shopify.KindTransport:
			return problems.New("transport", "Shopify unreachable", http.StatusBadGateway, ae.Error())
		default:
			return problems.New("upstream", "Shopify API error", http.StatusBadGateway, ae.Error())
		}
	}
	switch {
	case errors.Is(err, ErrUnknownTool):
		return problems.New("unknown_tool", "Unknown tool", http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidArgument):
		return problems.New("invalid_argument", "Invalid argument", http.StatusBadRequest, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return problems.New("transport", "Request cancelled", http.StatusGatewayTimeout, err.Error())
	}
	return problems.New("internal", "Internal error", http.StatusInternalServerError, err.Error())
}
