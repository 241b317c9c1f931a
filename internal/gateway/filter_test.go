package gateway

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PepeePB/proyecto-asee/pkg/constant"
)

// verifierStub plays the identity service's verification endpoint and
// records the token it was handed.
type verifierStub struct {
	status    int
	lastToken string
}

func (v *verifierStub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(constant.TokenCookie); err == nil {
			v.lastToken = cookie.Value
		}

		w.WriteHeader(v.status)
	}
}

func newFilterApp(t *testing.T, verifierURL string) *fiber.App {
	t.Helper()

	filter := NewTokenFilter(verifierURL, 2*time.Second, zerolog.Nop())

	app := fiber.New()
	app.Use(filter.Middleware())
	app.All("/content/*", func(c *fiber.Ctx) error { return c.SendString("forwarded") })
	app.All("/access/*", func(c *fiber.Ctx) error { return c.SendString("forwarded") })

	return app
}

func TestTokenFilter_ForwardsVerifiedRequest(t *testing.T) {
	stub := &verifierStub{status: http.StatusOK}
	backend := httptest.NewServer(stub.handler())
	defer backend.Close()

	app := newFilterApp(t, backend.URL)

	req := httptest.NewRequest(http.MethodGet, "/content/songs/42", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer some.jwt.token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The bearer prefix is stripped before delegation.
	assert.Equal(t, "some.jwt.token", stub.lastToken)
}

func TestTokenFilter_TokenFromCookie(t *testing.T) {
	stub := &verifierStub{status: http.StatusOK}
	backend := httptest.NewServer(stub.handler())
	defer backend.Close()

	app := newFilterApp(t, backend.URL)

	req := httptest.NewRequest(http.MethodGet, "/content/songs/42", nil)
	req.AddCookie(&http.Cookie{Name: constant.TokenCookie, Value: "cookie.jwt.token"})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "cookie.jwt.token", stub.lastToken)
}

func TestTokenFilter_MissingToken(t *testing.T) {
	stub := &verifierStub{status: http.StatusOK}
	backend := httptest.NewServer(stub.handler())
	defer backend.Close()

	app := newFilterApp(t, backend.URL)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/content/songs/42", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTokenFilter_RejectedToken(t *testing.T) {
	stub := &verifierStub{status: http.StatusUnauthorized}
	backend := httptest.NewServer(stub.handler())
	defer backend.Close()

	app := newFilterApp(t, backend.URL)

	req := httptest.NewRequest(http.MethodGet, "/content/songs/42", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer revoked.jwt.token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTokenFilter_VerifierUnreachableFailsClosed(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	backend.Close() // nothing listens anymore

	app := newFilterApp(t, backend.URL)

	req := httptest.NewRequest(http.MethodGet, "/content/songs/42", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer some.jwt.token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestTokenFilter_BypassesPreflightAndAccessPaths(t *testing.T) {
	// No backend at all: exempt requests must never call the verifier.
	app := newFilterApp(t, "http://127.0.0.1:1")

	t.Run("options preflight", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodOptions, "/content/songs/42", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("access path family", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/access/login", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
