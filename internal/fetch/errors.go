package fetch

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"

	"github.com/xenking/shopcart/internal/decode"
	"github.com/xenking/shopcart/internal/domain/pricing"
	"github.com/xenking/shopcart/internal/transport"
)

// HTTPError is an application-level failure reported by the server, either
// through an envelope with status false or through a non-2xx response
// without a readable envelope.
type HTTPError struct {
	Code    int
	Message string
	// Cause is set when the envelope itself could not be decoded.
	Cause error
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http error %d", e.Code)
	}
	return fmt.Sprintf("http error %d: %s", e.Code, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return e.Cause
}

// Reason classifies a fetch failure.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonTimeout          Reason = "timeout"
	ReasonEmptyResponse    Reason = "empty_response"
	ReasonMalformedPayload Reason = "malformed_payload"
	ReasonHTTPError        Reason = "http_error"
	ReasonInvalidDiscount  Reason = "invalid_discount"
	ReasonCanceled         Reason = "canceled"
	ReasonTransport        Reason = "transport"
)

// ReasonOf classifies err. A nil error has ReasonNone; anything unrecognized,
// such as a refused connection, is ReasonTransport.
func ReasonOf(err error) Reason {
	var httpErr *HTTPError
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, context.Canceled), errors.Is(err, ErrPoolClosed):
		return ReasonCanceled
	case errors.Is(err, transport.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.Is(err, transport.ErrEmptyResponse):
		return ReasonEmptyResponse
	case errors.Is(err, pricing.ErrInvalidDiscount):
		return ReasonInvalidDiscount
	case errors.As(err, &httpErr):
		return ReasonHTTPError
	case errors.Is(err, decode.ErrMalformedPayload):
		return ReasonMalformedPayload
	default:
		return ReasonTransport
	}
}
