// Package decode turns response bodies of the remote catalog service into
// domain records.
//
// Decoding is lenient at field level: missing, null or mistyped fields
// become zero values and unknown keys are skipped. Only a body that is not a
// JSON object at the root fails, with ErrMalformedPayload.
package decode

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// ErrMalformedPayload is returned when the body cannot be parsed as an
// envelope object at all.
var ErrMalformedPayload = errors.New("malformed payload")

// Envelope is the response wrapper shared by every endpoint.
type Envelope[T any] struct {
	Data T
	// HasData reports whether data was present with the expected JSON kind.
	HasData bool
	Status  bool
	Message string
	Code    int
}

// Shape selects how the envelope's data member is read. Data of any other
// JSON kind is skipped and leaves Envelope.HasData false.
type Shape[T any] struct {
	Kind jx.Type
	Read func(d *jx.Decoder) (T, error)
}

// Decode parses body as an envelope whose data member has the given shape.
// statusCode is the transport status, used as the default envelope code.
func Decode[T any](body []byte, statusCode int, shape Shape[T]) (Envelope[T], error) {
	env := Envelope[T]{Code: statusCode}
	if !jx.Valid(body) {
		return env, errors.Wrap(ErrMalformedPayload, "invalid json")
	}

	d := jx.DecodeBytes(body)
	if tt := d.Next(); tt != jx.Object {
		return env, errors.Wrapf(ErrMalformedPayload, "root is %s, want object", tt)
	}

	if err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "data":
			if d.Next() != shape.Kind {
				return d.Skip()
			}
			env.Data, err = shape.Read(d)
			if err != nil {
				return errors.Wrap(err, "data")
			}
			env.HasData = true
		case "status":
			env.Status, err = readBool(d)
		case "message":
			env.Message, err = readString(d)
		case "code":
			var (
				code int
				ok   bool
			)
			code, ok, err = readOptInt(d)
			if ok {
				env.Code = code
			}
		default:
			err = d.Skip()
		}
		return err
	}); err != nil {
		return env, errors.Wrapf(ErrMalformedPayload, "decode envelope: %v", err)
	}

	return env, nil
}

// EachObject reads an array, calling fn for every element that is an object
// and skipping the rest.
func EachObject(d *jx.Decoder, fn func(d *jx.Decoder) error) error {
	return d.Arr(func(d *jx.Decoder) error {
		if d.Next() != jx.Object {
			return d.Skip()
		}
		return fn(d)
	})
}
