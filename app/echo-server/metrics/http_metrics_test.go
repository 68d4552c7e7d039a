//go:build !integration

package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareCountsByRoute(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/api/v1/customers/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
	e.GET("/api/v1/fail", func(c echo.Context) error {
		return errors.New("boom")
	})

	for _, path := range []string{"/api/v1/customers/1", "/api/v1/customers/2", "/api/v1/fail"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := testutil.ToFloat64(RequestTotal.WithLabelValues("GET", "/api/v1/customers/:id", "204")); got != 2 {
		t.Errorf("customer requests = %v, want 2", got)
	}
	if got := testutil.ToFloat64(RequestTotal.WithLabelValues("GET", "/api/v1/fail", "500")); got != 1 {
		t.Errorf("failed requests = %v, want 1", got)
	}
}
