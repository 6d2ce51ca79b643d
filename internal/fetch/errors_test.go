package fetch

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"

	"github.com/xenking/shopcart/internal/decode"
	"github.com/xenking/shopcart/internal/domain/pricing"
	"github.com/xenking/shopcart/internal/transport"
)

func TestReasonOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Reason
	}{
		{name: "nil", err: nil, want: ReasonNone},
		{name: "timeout", err: errors.Wrap(transport.ErrTimeout, "get"), want: ReasonTimeout},
		{name: "deadline", err: context.DeadlineExceeded, want: ReasonTimeout},
		{name: "canceled", err: errors.Wrap(context.Canceled, "get"), want: ReasonCanceled},
		{name: "pool closed", err: ErrPoolClosed, want: ReasonCanceled},
		{name: "empty", err: errors.Wrap(transport.ErrEmptyResponse, "get"), want: ReasonEmptyResponse},
		{name: "malformed", err: errors.Wrap(decode.ErrMalformedPayload, "decode"), want: ReasonMalformedPayload},
		{name: "invalid discount", err: errors.Wrap(pricing.ErrInvalidDiscount, "price"), want: ReasonInvalidDiscount},
		{name: "http", err: errors.Wrap(&HTTPError{Code: 404, Message: "not found"}, "detail"), want: ReasonHTTPError},
		{
			name: "http with malformed cause",
			err:  &HTTPError{Code: 502, Message: "Bad Gateway", Cause: decode.ErrMalformedPayload},
			want: ReasonHTTPError,
		},
		{name: "other", err: errors.New("connection refused"), want: ReasonTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReasonOf(tt.err))
		})
	}
}

func TestHTTPError(t *testing.T) {
	err := &HTTPError{Code: 404, Message: "not found"}
	assert.Equal(t, "http error 404: not found", err.Error())
	assert.Equal(t, "http error 500", (&HTTPError{Code: 500}).Error())

	wrapped := &HTTPError{Code: 502, Cause: decode.ErrMalformedPayload}
	assert.ErrorIs(t, wrapped, decode.ErrMalformedPayload)
}
