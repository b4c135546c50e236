package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_CountsByRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"ORD001", "ORD002"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/"+id, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/orders/{id}", http.MethodGet, "404")))
}

func TestDomainCounters(t *testing.T) {
	m := New()
	m.OrderPlaced()
	m.OrderStatusChanged("unused")
	m.OrderStatusChanged("unused")
	m.Verification(true)
	m.Verification(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ordersPlaced))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.statusChanges.WithLabelValues("unused")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.verifications.WithLabelValues("rejected")))
}

func TestHandler_ExposesCollectors(t *testing.T) {
	m := New()
	m.OrderPlaced()

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "travelbook_orders_placed_total 1")
}
