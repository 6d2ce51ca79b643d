package fetch

import (
	"github.com/go-faster/jx"

	"github.com/xenking/shopcart/internal/domain/user"
)

func encodeCredentials(c user.Credentials) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("username", func(e *jx.Encoder) { e.Str(c.Username) })
		e.Field("password", func(e *jx.Encoder) { e.Str(c.Password) })
	})
	return e.Bytes()
}

// encodeProfileUpdate writes role only when p carries one.
func encodeProfileUpdate(p user.ProfileUpdate) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Int(p.ID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(p.Name) })
		e.Field("lastname", func(e *jx.Encoder) { e.Str(p.Lastname) })
		e.Field("dni", func(e *jx.Encoder) { e.Str(p.DNI) })
		e.Field("address", func(e *jx.Encoder) { e.Str(p.Address) })
		e.Field("email", func(e *jx.Encoder) { e.Str(p.Email) })
		e.Field("username", func(e *jx.Encoder) { e.Str(p.Username) })
		e.Field("password", func(e *jx.Encoder) { e.Str(p.Password) })
		e.Field("avatar", func(e *jx.Encoder) { e.Str(p.Avatar) })
		if p.Role != nil {
			e.Field("role", func(e *jx.Encoder) {
				e.Obj(func(e *jx.Encoder) {
					e.Field("id", func(e *jx.Encoder) { e.Int(p.Role.ID) })
					e.Field("description", func(e *jx.Encoder) { e.Str(p.Role.Description) })
				})
			})
		}
	})
	return e.Bytes()
}
