package handler

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/shopcart/internal/domain/game"
	"github.com/xenking/shopcart/internal/domain/pricing"
	"github.com/xenking/shopcart/internal/domain/user"
)

// writeData sends a successful envelope with data written by fn.
func writeData(w http.ResponseWriter, message string, fn func(e *jx.Encoder)) {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("data", fn)
		e.Field("status", func(e *jx.Encoder) { e.Bool(true) })
		e.Field("message", func(e *jx.Encoder) { e.Str(message) })
		e.Field("code", func(e *jx.Encoder) { e.Int(http.StatusOK) })
	})
	write(w, http.StatusOK, e.Bytes())
}

// writeFailure sends {"status":false,...}. httpStatus and code differ for
// application-level failures reported with HTTP 200.
func writeFailure(w http.ResponseWriter, httpStatus, code int, message string) {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("status", func(e *jx.Encoder) { e.Bool(false) })
		e.Field("message", func(e *jx.Encoder) { e.Str(message) })
		e.Field("code", func(e *jx.Encoder) { e.Int(code) })
	})
	write(w, httpStatus, e.Bytes())
}

func write(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func encodeDecimal(e *jx.Encoder, v decimal.Decimal) {
	e.RawStr(v.String())
}

func encodeLabel(e *jx.Encoder, id int, description string) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Int(id) })
		e.Field("description", func(e *jx.Encoder) { e.Str(description) })
	})
}

// encodeVideogame writes a catalog item. hasDiscount goes out as a whole
// percentage.
func encodeVideogame(e *jx.Encoder, v game.Videogame) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Int(v.ID) })
		if v.ConsoleID != nil {
			e.Field("consoleId", func(e *jx.Encoder) { e.Int(*v.ConsoleID) })
		}
		e.Field("title", func(e *jx.Encoder) { e.Str(v.Title) })
		e.Field("hasDiscount", func(e *jx.Encoder) { e.Int64(pricing.ToPercent(v.Discount)) })
		e.Field("price", func(e *jx.Encoder) { encodeDecimal(e, v.Price) })
		e.Field("state", func(e *jx.Encoder) { e.Str(v.State) })
		if v.Mini != "" {
			e.Field("mini", func(e *jx.Encoder) { e.Str(v.Mini) })
		}
	})
}

func encodeDetail(e *jx.Encoder, g game.Detail) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Int(g.ID) })
		e.Field("title", func(e *jx.Encoder) { e.Str(g.Title) })
		e.Field("description", func(e *jx.Encoder) { e.Str(g.Description) })
		if g.Console != nil {
			e.Field("console", func(e *jx.Encoder) { encodeLabel(e, g.Console.ID, g.Console.Description) })
		}
		e.Field("hasDiscount", func(e *jx.Encoder) { e.Bool(g.HasDiscount) })
		e.Field("price", func(e *jx.Encoder) { encodeDecimal(e, g.Price) })
		e.Field("state", func(e *jx.Encoder) { e.Str(g.State) })
		for _, img := range []struct{ key, value string }{
			{"image", g.Image},
			{"image2", g.Image2},
			{"image3", g.Image3},
			{"mini", g.Mini},
		} {
			if img.value != "" {
				e.Field(img.key, func(e *jx.Encoder) { e.Str(img.value) })
			}
		}
		e.Field("detailsPromo", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, p := range g.Promotions {
					encodePromotion(e, p)
				}
			})
		})
		e.Field("detailsCategories", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, c := range g.Categories {
					encodeLabel(e, c.ID, c.Description)
				}
			})
		})
	})
}

func encodePromotion(e *jx.Encoder, p game.Promotion) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Int(p.ID) })
		e.Field("description", func(e *jx.Encoder) { e.Str(p.Description) })
		e.Field("discount", func(e *jx.Encoder) { encodeDecimal(e, p.Discount) })
		e.Field("startDate", func(e *jx.Encoder) { e.Str(p.StartDate) })
		e.Field("endDate", func(e *jx.Encoder) { e.Str(p.EndDate) })
		e.Field("state", func(e *jx.Encoder) { e.Bool(p.Active) })
		if p.Image != "" {
			e.Field("imagePromo", func(e *jx.Encoder) { e.Str(p.Image) })
		}
	})
}

// encodeUser never writes the password.
func encodeUser(e *jx.Encoder, u user.User) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Int(u.ID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(u.Name) })
		e.Field("lastname", func(e *jx.Encoder) { e.Str(u.Lastname) })
		e.Field("dni", func(e *jx.Encoder) { e.Str(u.DNI) })
		e.Field("address", func(e *jx.Encoder) { e.Str(u.Address) })
		e.Field("email", func(e *jx.Encoder) { e.Str(u.Email) })
		e.Field("username", func(e *jx.Encoder) { e.Str(u.Username) })
		if u.Role != nil {
			e.Field("role", func(e *jx.Encoder) { encodeLabel(e, u.Role.ID, u.Role.Description) })
		}
		e.Field("avatar", func(e *jx.Encoder) { e.Str(u.Avatar) })
	})
}
