package observability

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersAreExposed(t *testing.T) {
	IntakeCommitted.WithLabelValues("running").Inc()
	if got := testutil.ToFloat64(IntakeCommitted.WithLabelValues("running")); got < 1 {
		t.Fatalf("expected committed counter to be incremented, got %v", got)
	}

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "exlog_intake_committed_total") {
		t.Fatalf("metrics output missing committed counter")
	}
}

func TestRestoreHelpNamesRecordedOutcomes(t *testing.T) {
	t.Parallel()
	desc := Restores.WithLabelValues(OutcomeRestored).Desc().String()
	for _, outcome := range []string{OutcomeEmpty, OutcomeRestored, OutcomeCorrupt} {
		if !strings.Contains(desc, outcome) {
			t.Fatalf("restore help should mention %q: %s", outcome, desc)
		}
	}
	if strings.Contains(desc, "(ok,") {
		t.Fatalf("restore help names an outcome that is never recorded: %s", desc)
	}
}
