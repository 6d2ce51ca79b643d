package decode

import (
	"github.com/go-faster/jx"

	"github.com/xenking/shopcart/internal/domain/user"
)

// UserShape reads a single user record.
var UserShape = Shape[user.User]{
	Kind: jx.Object,
	Read: ReadUser,
}

// User decodes a user envelope.
func User(body []byte, statusCode int) (Envelope[user.User], error) {
	return Decode(body, statusCode, UserShape)
}

// ReadUser reads a user object with the envelope's field leniency.
func ReadUser(d *jx.Decoder) (user.User, error) {
	var u user.User
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			u.ID, err = readInt(d)
		case "name":
			u.Name, err = readString(d)
		case "lastname":
			u.Lastname, err = readString(d)
		case "dni":
			u.DNI, err = readString(d)
		case "address":
			u.Address, err = readString(d)
		case "email":
			u.Email, err = readString(d)
		case "username":
			u.Username, err = readString(d)
		case "password":
			u.Password, err = readString(d)
		case "role":
			if d.Next() != jx.Object {
				return d.Skip()
			}
			var r user.Role
			r.ID, r.Description, err = readLabel(d)
			u.Role = &r
		case "avatar":
			u.Avatar, err = readString(d)
		default:
			err = d.Skip()
		}
		return err
	})
	return u, err
}
