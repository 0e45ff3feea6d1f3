package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegistry_Counters(t *testing.T) {
	r := New()

	r.Mutation("user", "add", "ok")
	r.Mutation("user", "add", "ok")
	r.Mutation("guest", "delete", "cancelled")
	r.AuthAttempt("signin", "auth/wrong-password")

	if got := testutil.ToFloat64(r.Mutations.WithLabelValues("user", "add", "ok")); got != 2 {
		t.Errorf("Expected 2 user adds, got %v", got)
	}
	if got := testutil.ToFloat64(r.Mutations.WithLabelValues("guest", "delete", "cancelled")); got != 1 {
		t.Errorf("Expected 1 cancelled delete, got %v", got)
	}
	if got := testutil.ToFloat64(r.AuthAttempts.WithLabelValues("signin", "auth/wrong-password")); got != 1 {
		t.Errorf("Expected 1 failed sign-in, got %v", got)
	}
}

func TestRegistry_SetMounted(t *testing.T) {
	r := New()

	r.SetMounted("budget", 3)
	r.SetMounted("budget", 1)

	if got := testutil.ToFloat64(r.MountedScreens.WithLabelValues("budget")); got != 1 {
		t.Errorf("Expected gauge 1, got %v", got)
	}
}

func TestRegistry_ObserveRequest(t *testing.T) {
	r := New()

	r.ObserveRequest("GET", "/v1/screens/:id", 200, 5*time.Millisecond)
	r.ObserveRequest("GET", "", 404, time.Millisecond)

	if got := testutil.ToFloat64(r.Requests.WithLabelValues("GET", "/v1/screens/:id", "200")); got != 1 {
		t.Errorf("Expected 1 request, got %v", got)
	}
	if got := testutil.ToFloat64(r.Requests.WithLabelValues("GET", "unmatched", "404")); got != 1 {
		t.Errorf("Expected unmatched route label, got %v", got)
	}
}

func TestRegistry_Handler(t *testing.T) {
	r := New()
	r.Mutation("vendor", "toggle", "ok")

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != 200 {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `planner_mutations_total{op="toggle",outcome="ok",record="vendor"} 1`) {
		t.Errorf("Expected mutation counter in output, got:\n%s", body)
	}
}
