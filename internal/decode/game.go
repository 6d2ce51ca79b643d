package decode

import (
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/shopcart/internal/domain/game"
	"github.com/xenking/shopcart/internal/domain/pricing"
)

// CatalogShape reads the catalog list. Elements that are not objects are
// skipped.
var CatalogShape = Shape[[]game.Videogame]{
	Kind: jx.Array,
	Read: readCatalog,
}

// DetailShape reads a single videogame detail record.
var DetailShape = Shape[game.Detail]{
	Kind: jx.Object,
	Read: ReadDetail,
}

// Catalog decodes a catalog envelope.
func Catalog(body []byte, statusCode int) (Envelope[[]game.Videogame], error) {
	return Decode(body, statusCode, CatalogShape)
}

// Detail decodes a detail envelope.
func Detail(body []byte, statusCode int) (Envelope[game.Detail], error) {
	return Decode(body, statusCode, DetailShape)
}

func readCatalog(d *jx.Decoder) ([]game.Videogame, error) {
	var out []game.Videogame
	err := EachObject(d, func(d *jx.Decoder) error {
		v, err := readVideogame(d)
		if err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

// readVideogame normalizes the integer percentage in hasDiscount to a
// fraction.
func readVideogame(d *jx.Decoder) (game.Videogame, error) {
	v := game.Videogame{Discount: decimal.Zero, Price: decimal.Zero}
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			v.ID, err = readInt(d)
		case "consoleId":
			var (
				id int
				ok bool
			)
			id, ok, err = readOptInt(d)
			if ok {
				v.ConsoleID = &id
			}
		case "title":
			v.Title, err = readString(d)
		case "hasDiscount":
			var percent decimal.Decimal
			percent, err = readDecimal(d)
			v.Discount = pricing.PercentOf(percent)
		case "price":
			v.Price, err = readDecimal(d)
		case "state":
			v.State, err = readString(d)
		case "mini":
			v.Mini, err = readString(d)
		default:
			err = d.Skip()
		}
		return err
	})
	return v, err
}

// ReadDetail reads a detail object with the envelope's field leniency.
func ReadDetail(d *jx.Decoder) (game.Detail, error) {
	g := game.Detail{Price: decimal.Zero}
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			g.ID, err = readInt(d)
		case "title":
			g.Title, err = readString(d)
		case "description":
			g.Description, err = readString(d)
		case "console":
			if d.Next() != jx.Object {
				return d.Skip()
			}
			var c game.Console
			c.ID, c.Description, err = readLabel(d)
			g.Console = &c
		case "hasDiscount":
			g.HasDiscount, err = readBool(d)
		case "price":
			g.Price, err = readDecimal(d)
		case "state":
			g.State, err = readString(d)
		case "image":
			g.Image, err = readString(d)
		case "image2":
			g.Image2, err = readString(d)
		case "image3":
			g.Image3, err = readString(d)
		case "mini":
			g.Mini, err = readString(d)
		case "detailsPromo":
			if d.Next() != jx.Array {
				return d.Skip()
			}
			err = EachObject(d, func(d *jx.Decoder) error {
				p, err := readPromotion(d)
				g.Promotions = append(g.Promotions, p)
				return err
			})
		case "detailsCategories":
			if d.Next() != jx.Array {
				return d.Skip()
			}
			err = EachObject(d, func(d *jx.Decoder) error {
				var c game.Category
				var err error
				c.ID, c.Description, err = readLabel(d)
				g.Categories = append(g.Categories, c)
				return err
			})
		default:
			err = d.Skip()
		}
		return err
	})
	return g, err
}

func readPromotion(d *jx.Decoder) (game.Promotion, error) {
	p := game.Promotion{Discount: decimal.Zero}
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			p.ID, err = readInt(d)
		case "description":
			p.Description, err = readString(d)
		case "discount":
			p.Discount, err = readDecimal(d)
		case "startDate":
			p.StartDate, err = readString(d)
		case "endDate":
			p.EndDate, err = readString(d)
		case "state":
			p.Active, err = readBool(d)
		case "imagePromo":
			p.Image, err = readString(d)
		default:
			err = d.Skip()
		}
		return err
	})
	return p, err
}

// readLabel reads an {id, description} object such as a console, category or
// role.
func readLabel(d *jx.Decoder) (id int, description string, err error) {
	err = d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			id, err = readInt(d)
		case "description":
			description, err = readString(d)
		default:
			err = d.Skip()
		}
		return err
	})
	return id, description, err
}
