package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func cartIdentityRouter(captured *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", CartIdentity(), func(c *gin.Context) {
		*captured = CartIDFrom(c)
		c.Status(http.StatusOK)
	})
	return r
}

func TestCartIdentity(t *testing.T) {
	t.Run("header takes precedence over cookie", func(t *testing.T) {
		headerID := uuid.NewString()
		cookieID := uuid.NewString()

		var got string
		r := cartIdentityRouter(&got)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(CartHeaderName, headerID)
		req.AddCookie(&http.Cookie{Name: CartCookieName, Value: cookieID})
		r.ServeHTTP(httptest.NewRecorder(), req)

		if got != headerID {
			t.Fatalf("cart id = %q, want header value %q", got, headerID)
		}
	})

	t.Run("falls back to cookie", func(t *testing.T) {
		cookieID := uuid.NewString()

		var got string
		r := cartIdentityRouter(&got)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CartCookieName, Value: cookieID})
		r.ServeHTTP(httptest.NewRecorder(), req)

		if got != cookieID {
			t.Fatalf("cart id = %q, want cookie value %q", got, cookieID)
		}
	})

	t.Run("mints a fresh identity and sets the cookie", func(t *testing.T) {
		var got string
		r := cartIdentityRouter(&got)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		if _, err := uuid.Parse(got); err != nil {
			t.Fatalf("minted cart id %q is not a uuid: %v", got, err)
		}
		setCookie := w.Header().Get("Set-Cookie")
		if !strings.Contains(setCookie, CartCookieName+"="+got) {
			t.Fatalf("Set-Cookie %q does not carry the minted identity", setCookie)
		}
	})

	t.Run("rejects a malformed identity and mints a new one", func(t *testing.T) {
		var got string
		r := cartIdentityRouter(&got)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(CartHeaderName, "not-a-uuid")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if got == "not-a-uuid" {
			t.Fatal("malformed cart id was accepted")
		}
		if _, err := uuid.Parse(got); err != nil {
			t.Fatalf("replacement cart id %q is not a uuid: %v", got, err)
		}
	})
}
