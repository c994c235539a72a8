package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew_IndependentRegistries(t *testing.T) {
	// Two instances must not collide on registration.
	a := New("")
	b := New("")
	a.SaleInitialized()
	if got := testutil.ToFloat64(b.SalesInitialized); got != 0 {
		t.Fatalf("second registry saw %v sales", got)
	}
	if got := testutil.ToFloat64(a.SalesInitialized); got != 1 {
		t.Fatalf("SalesInitialized = %v, want 1", got)
	}
}

func TestPurchase(t *testing.T) {
	m := New("test")
	m.Purchase(100, 200)
	m.Purchase(5, 10)
	if got := testutil.ToFloat64(m.TokensSold); got != 105 {
		t.Errorf("TokensSold = %v, want 105", got)
	}
	if got := testutil.ToFloat64(m.PaymentRaised); got != 210 {
		t.Errorf("PaymentRaised = %v, want 210", got)
	}
	m.PurchaseFailed("insufficient")
	if got := testutil.ToFloat64(m.PurchasesFailed.WithLabelValues("insufficient")); got != 1 {
		t.Errorf("PurchasesFailed = %v, want 1", got)
	}
}

func TestObserveTx(t *testing.T) {
	m := New("test")
	m.ObserveTx("buy_token", nil, time.Millisecond)
	m.ObserveTx("buy_token", errors.New("boom"), time.Millisecond)
	if got := testutil.ToFloat64(m.TxTotal.WithLabelValues("buy_token", "ok")); got != 1 {
		t.Errorf("ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.TxTotal.WithLabelValues("buy_token", "error")); got != 1 {
		t.Errorf("error = %v, want 1", got)
	}
}

func TestNilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveTx("x", nil, 0)
	m.SaleInitialized()
	m.Purchase(1, 1)
	m.PurchaseFailed("x")
	m.RPCRequest("x", "ok")
}

func TestHandler(t *testing.T) {
	m := New("test")
	m.RPCRequest("launchpad_get", "ok")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `test_rpc_requests_total{method="launchpad_get",outcome="ok"} 1`) {
		t.Fatalf("metrics output missing rpc counter:\n%s", body)
	}
}
