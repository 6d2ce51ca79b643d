package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xenking/shopcart/internal/domain/game"
	"github.com/xenking/shopcart/internal/domain/user"
	"github.com/xenking/shopcart/internal/fetch"
	"github.com/xenking/shopcart/internal/storage/fixture"
	"github.com/xenking/shopcart/internal/transport"
)

var pepper = []byte("handler-test")

const fixtureJSON = `{
  "games": [
    {"id": 1, "title": "Game A", "hasDiscount": true, "price": 100, "state": "ACTIVO",
     "console": {"id": 5, "description": "Switch"},
     "detailsPromo": [{"id": 9, "description": "Veinte", "discount": 0.20, "state": true}]},
    {"id": 2, "title": "Game B", "hasDiscount": true, "price": 40,
     "detailsPromo": [{"id": 3, "description": "Cuarto", "discount": 0.25, "state": true}],
     "detailsCategories": [{"id": 1, "description": "RPG"}]}
  ],
  "users": [
    {"id": 7, "name": "Lucia", "lastname": "Quispe", "dni": "12345678", "email": "lucia@example.com",
     "username": "lucia", "password": "lucia123", "role": {"id": 2, "description": "CLIENTE"}}
  ]
}`

func newRouter(t *testing.T, games game.Repository, users user.Repository) http.Handler {
	t.Helper()
	r := chi.NewRouter()
	New(games, users).Routes(r)
	return r
}

func newFixtureRouter(t *testing.T) http.Handler {
	t.Helper()
	data, err := fixture.Parse([]byte(fixtureJSON), pepper)
	require.NoError(t, err)
	s := fixture.NewStore(data, pepper)
	return newRouter(t, s, s)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestFindCatalog(t *testing.T) {
	w := do(t, newFixtureRouter(t), http.MethodGet, "/api/videogame/findCatalog", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{
		"data": [
			{"id":1,"consoleId":5,"title":"Game A","hasDiscount":20,"price":100,"state":"ACTIVO"},
			{"id":2,"title":"Game B","hasDiscount":25,"price":40,"state":""}
		],
		"status": true, "message": "ok", "code": 200
	}`, w.Body.String())
}

func TestFindCatalog_Empty(t *testing.T) {
	s := fixture.NewStore(&fixture.Data{}, pepper)
	w := do(t, newRouter(t, s, s), http.MethodGet, "/api/videogame/findCatalog", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[],"status":true,"message":"no videogames available","code":200}`, w.Body.String())
}

func TestFindByID(t *testing.T) {
	h := newFixtureRouter(t)

	tests := []struct {
		name     string
		path     string
		wantCode int
		wantBody string
	}{
		{
			name:     "found",
			path:     "/api/videogame/findById/2",
			wantCode: http.StatusOK,
			wantBody: `{"data":{"id":2,"title":"Game B","description":"","hasDiscount":true,"price":40,"state":"",
				"detailsPromo":[{"id":3,"description":"Cuarto","discount":0.25,"startDate":"","endDate":"","state":true}],
				"detailsCategories":[{"id":1,"description":"RPG"}]},
				"status":true,"message":"ok","code":200}`,
		},
		{
			name:     "unknown",
			path:     "/api/videogame/findById/99",
			wantCode: http.StatusNotFound,
			wantBody: `{"status":false,"message":"not found","code":404}`,
		},
		{
			name:     "not a number",
			path:     "/api/videogame/findById/abc",
			wantCode: http.StatusBadRequest,
			wantBody: `{"status":false,"message":"invalid videogame id","code":400}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodGet, tt.path, "")
			assert.Equal(t, tt.wantCode, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestAuthenticate(t *testing.T) {
	h := newFixtureRouter(t)

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantBody string
	}{
		{
			name:     "valid",
			body:     `{"username":"lucia","password":"lucia123"}`,
			wantCode: http.StatusOK,
			wantBody: `{"data":{"id":7,"name":"Lucia","lastname":"Quispe","dni":"12345678","address":"",
				"email":"lucia@example.com","username":"lucia","role":{"id":2,"description":"CLIENTE"},"avatar":""},
				"status":true,"message":"ok","code":200}`,
		},
		{
			name:     "wrong password",
			body:     `{"username":"lucia","password":"nope"}`,
			wantCode: http.StatusOK,
			wantBody: `{"status":false,"message":"invalid credentials","code":401}`,
		},
		{
			name:     "missing password",
			body:     `{"username":"lucia"}`,
			wantCode: http.StatusBadRequest,
			wantBody: `{"status":false,"message":"invalid Password: required","code":400}`,
		},
		{
			name:     "array body",
			body:     `[]`,
			wantCode: http.StatusBadRequest,
			wantBody: `{"status":false,"message":"body must be a JSON object","code":400}`,
		},
		{
			name:     "not json",
			body:     `username=lucia`,
			wantCode: http.StatusBadRequest,
			wantBody: `{"status":false,"message":"body must be a JSON object","code":400}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/api/auth/profile", tt.body)
			assert.Equal(t, tt.wantCode, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestUpdateUser(t *testing.T) {
	h := newFixtureRouter(t)

	const update = `{"id":7,"name":"Lucia","lastname":"Quispe","dni":"12345678","address":"Av. Sol 1",
		"email":"lucia@example.com","username":"lucia","password":"nueva","avatar":""}`
	w := do(t, h, http.MethodPost, "/api/user/update", update)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"address":"Av. Sol 1"`)
	assert.Contains(t, w.Body.String(), `"role":{"id":2,"description":"CLIENTE"}`)
	assert.NotContains(t, w.Body.String(), "nueva")

	w = do(t, h, http.MethodPost, "/api/auth/profile", `{"username":"lucia","password":"nueva"}`)
	assert.Contains(t, w.Body.String(), `"status":true`)

	w = do(t, h, http.MethodPost, "/api/user/update", strings.Replace(update, `"id":7`, `"id":70`, 1))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"status":false,"message":"user not found","code":404}`, w.Body.String())

	w = do(t, h, http.MethodPost, "/api/user/update", strings.Replace(update, "lucia@example.com", "lucia", 1))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"status":false,"message":"invalid Email: email","code":400}`, w.Body.String())
}

func TestStoreFailure(t *testing.T) {
	h := newRouter(t, failingGames{}, failingUsers{})

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/api/videogame/findCatalog", ""},
		{http.MethodGet, "/api/videogame/findById/1", ""},
		{http.MethodPost, "/api/auth/profile", `{"username":"a","password":"b"}`},
	} {
		w := do(t, h, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusInternalServerError, w.Code, tc.path)
		assert.JSONEq(t, `{"status":false,"message":"internal error","code":500}`, w.Body.String())
	}
}

// TestClientRoundTrip drives the stub through the real fetch client.
func TestClientRoundTrip(t *testing.T) {
	srv := httptest.NewServer(newFixtureRouter(t))
	t.Cleanup(srv.Close)

	pool := fetch.NewPool(2, 4)
	t.Cleanup(func() { _ = pool.Close() })

	client := transport.New(transport.Config{
		ConnectTimeout: time.Second,
		ReadTimeout:    time.Second,
		MaxBodyBytes:   1 << 20,
	})
	o, err := fetch.New(client, pool, fetch.Endpoints{
		BaseURL:     srv.URL,
		CatalogPath: CatalogPath,
		DetailPath:  "/api/videogame/findById/",
		LoginPath:   LoginPath,
		UpdatePath:  UpdatePath,
	}, fetch.WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)

	ctx := context.Background()

	catalog, err := o.Catalog(ctx).Wait(ctx)
	require.NoError(t, err)
	require.Len(t, catalog.Items, 2)
	assert.True(t, decimal.NewFromInt(80).Equal(catalog.Items[0].Effective))
	assert.True(t, decimal.NewFromInt(30).Equal(catalog.Items[1].Effective))

	offer, err := o.Detail(ctx, 2).Wait(ctx)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(30).Equal(offer.Effective))

	_, err = o.Detail(ctx, 99).Wait(ctx)
	var httpErr *fetch.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 404, httpErr.Code)
	assert.Equal(t, "not found", httpErr.Message)

	_, err = o.Authenticate(ctx, user.Credentials{Username: "lucia", Password: "bad"}).Wait(ctx)
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 401, httpErr.Code)

	u, err := o.Authenticate(ctx, user.Credentials{Username: "lucia", Password: "lucia123"}).Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Lucia", u.Name)
	require.NotNil(t, u.Role)

	u.Password = "lucia123"
	p := user.NewProfileUpdate(u)
	p.Address = "Jr. Lima 2"
	updated, err := o.UpdateProfile(ctx, p).Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Jr. Lima 2", updated.Address)
}

// --- Mock implementations ---

var errStore = errors.New("store unavailable")

type failingGames struct{}

func (failingGames) List(context.Context) ([]game.Videogame, error) { return nil, errStore }

func (failingGames) GetByID(context.Context, int) (*game.Detail, error) { return nil, errStore }

type failingUsers struct{}

func (failingUsers) Authenticate(context.Context, user.Credentials) (*user.User, error) {
	return nil, errStore
}

func (failingUsers) Update(context.Context, user.ProfileUpdate) (*user.User, error) {
	return nil, errStore
}
