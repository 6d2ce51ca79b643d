// Package fixture loads catalog and account data from a JSON file and serves
// it from memory.
//
// The file is an object with "games" (detail records plus a "state" field)
// and "users" (user records with plain-text passwords). Files ending in .gz
// are gzip-compressed. Active promotions of discounted games must be whole
// percentages.
package fixture

import (
	"io"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"

	"github.com/xenking/shopcart/internal/decode"
	"github.com/xenking/shopcart/internal/domain/game"
	"github.com/xenking/shopcart/internal/domain/user"
)

// ErrFractionalPercent is returned for a discounted game whose active
// promotion is not a whole percentage. The catalog listing carries discounts
// as integer percents, so such a game would list and detail at different prices.
var ErrFractionalPercent = errors.New("promotion discount is not a whole percent")

var hundred = decimal.NewFromInt(100)

// Data is the parsed content of a fixture file.
type Data struct {
	Games    []game.Detail
	Accounts []user.Account
}

// Load reads and parses the fixture at path. Passwords are hashed with pepper.
func Load(path string, pepper []byte) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open fixture")
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if filepath.Ext(path) == ".gz" {
		zr, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, "open gzip stream")
		}
		defer func() { _ = zr.Close() }()
		r = zr
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read fixture")
	}
	data, err := Parse(b, pepper)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return data, nil
}

// Parse decodes fixture bytes. Records are read as leniently as server
// responses; only a non-object root fails.
func Parse(b []byte, pepper []byte) (*Data, error) {
	if !jx.Valid(b) {
		return nil, errors.Wrap(decode.ErrMalformedPayload, "invalid json")
	}
	d := jx.DecodeBytes(b)
	if d.Next() != jx.Object {
		return nil, errors.Wrap(decode.ErrMalformedPayload, "root is not an object")
	}

	var data Data
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if d.Next() != jx.Array {
			return d.Skip()
		}
		switch key {
		case "games":
			return decode.EachObject(d, func(d *jx.Decoder) error {
				g, err := decode.ReadDetail(d)
				if err != nil {
					return err
				}
				data.Games = append(data.Games, g)
				return nil
			})
		case "users":
			return decode.EachObject(d, func(d *jx.Decoder) error {
				u, err := decode.ReadUser(d)
				if err != nil {
					return err
				}
				data.Accounts = append(data.Accounts, user.Account{
					User:         u,
					PasswordHash: user.HashPassword(pepper, u.Password),
				})
				return nil
			})
		default:
			return d.Skip()
		}
	}); err != nil {
		return nil, errors.Wrap(err, "decode fixture")
	}

	for _, g := range data.Games {
		if err := checkListable(g); err != nil {
			return nil, err
		}
	}
	for i := range data.Accounts {
		data.Accounts[i].User.Password = ""
	}
	return &data, nil
}

func checkListable(g game.Detail) error {
	promo, ok := g.ActivePromotion()
	if !ok || !g.HasDiscount {
		return nil
	}
	if p := promo.Discount.Mul(hundred); !p.Equal(p.Truncate(0)) {
		return errors.Wrapf(ErrFractionalPercent, "videogame %d discount %s", g.ID, promo.Discount)
	}
	return nil
}
