// Package handler serves the catalog stub's four envelope endpoints.
package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/xenking/shopcart/internal/decode"
	"github.com/xenking/shopcart/internal/domain/game"
	"github.com/xenking/shopcart/internal/domain/user"
)

const maxRequestBody = 1 << 20

// Paths mounted by Routes. They match the client's default endpoints.
const (
	CatalogPath = "/api/videogame/findCatalog"
	DetailPath  = "/api/videogame/findById/{id}"
	LoginPath   = "/api/auth/profile"
	UpdatePath  = "/api/user/update"
)

// Handler answers the stub endpoints from a game and a user repository.
type Handler struct {
	games    game.Repository
	users    user.Repository
	validate *validator.Validate
}

// New returns a Handler over the given repositories.
func New(games game.Repository, users user.Repository) *Handler {
	return &Handler{
		games:    games,
		users:    users,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Routes mounts the endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get(CatalogPath, h.FindCatalog)
	r.Get(DetailPath, h.FindByID)
	r.Post(LoginPath, h.Authenticate)
	r.Post(UpdatePath, h.UpdateUser)
}

// FindCatalog lists every videogame.
func (h *Handler) FindCatalog(w http.ResponseWriter, r *http.Request) {
	items, err := h.games.List(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	message := "ok"
	if len(items) == 0 {
		message = "no videogames available"
	}
	writeData(w, message, func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for _, v := range items {
				encodeVideogame(e, v)
			}
		})
	})
}

// FindByID returns one videogame detail, 404 for unknown ids.
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, http.StatusBadRequest, http.StatusBadRequest, "invalid videogame id")
		return
	}

	g, err := h.games.GetByID(r.Context(), id)
	switch {
	case errors.Is(err, game.ErrNotFound):
		writeFailure(w, http.StatusNotFound, http.StatusNotFound, "not found")
		return
	case err != nil:
		h.internalError(w, r, err)
		return
	}
	writeData(w, "ok", func(e *jx.Encoder) { encodeDetail(e, *g) })
}

// Authenticate checks a username and password. Rejected credentials are an
// application-level failure: HTTP 200 with status false and code 401.
func (h *Handler) Authenticate(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readUser(w, r)
	if !ok {
		return
	}
	c := user.Credentials{Username: body.Username, Password: body.Password}
	if !h.valid(w, c) {
		return
	}

	u, err := h.users.Authenticate(r.Context(), c)
	switch {
	case errors.Is(err, user.ErrInvalidCredentials):
		writeFailure(w, http.StatusOK, http.StatusUnauthorized, "invalid credentials")
		return
	case err != nil:
		h.internalError(w, r, err)
		return
	}
	writeData(w, "ok", func(e *jx.Encoder) { encodeUser(e, *u) })
}

// UpdateUser stores a submitted profile and returns it.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readUser(w, r)
	if !ok {
		return
	}
	p := user.NewProfileUpdate(body)
	if !h.valid(w, p) {
		return
	}

	u, err := h.users.Update(r.Context(), p)
	switch {
	case errors.Is(err, user.ErrNotFound):
		writeFailure(w, http.StatusNotFound, http.StatusNotFound, "user not found")
		return
	case err != nil:
		h.internalError(w, r, err)
		return
	}
	writeData(w, "profile updated", func(e *jx.Encoder) { encodeUser(e, *u) })
}

// readUser decodes a request body shaped like a user record. Both request
// bodies are subsets of it.
func (h *Handler) readUser(w http.ResponseWriter, r *http.Request) (user.User, bool) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		writeFailure(w, http.StatusBadRequest, http.StatusBadRequest, "unreadable body")
		return user.User{}, false
	}
	if !jx.Valid(raw) || jx.DecodeBytes(raw).Next() != jx.Object {
		writeFailure(w, http.StatusBadRequest, http.StatusBadRequest, "body must be a JSON object")
		return user.User{}, false
	}
	u, err := decode.ReadUser(jx.DecodeBytes(raw))
	if err != nil {
		writeFailure(w, http.StatusBadRequest, http.StatusBadRequest, "malformed body")
		return user.User{}, false
	}
	return u, true
}

func (h *Handler) valid(w http.ResponseWriter, v any) bool {
	err := h.validate.Struct(v)
	if err == nil {
		return true
	}
	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 {
		f := fields[0]
		writeFailure(w, http.StatusBadRequest, http.StatusBadRequest, "invalid "+f.Field()+": "+f.Tag())
		return false
	}
	writeFailure(w, http.StatusBadRequest, http.StatusBadRequest, "invalid request")
	return false
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("Request failed", zap.Error(err))
	writeFailure(w, http.StatusInternalServerError, http.StatusInternalServerError, "internal error")
}
