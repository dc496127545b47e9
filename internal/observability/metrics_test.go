package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveResult(t *testing.T) {
	m := NewMetricsForTesting()
	m.ObserveResult(100, 20, 5)
	m.ObserveResult(50, 0, 1)

	if got := testutil.ToFloat64(m.ScansClassified); got != 2 {
		t.Fatalf("scans_classified_total: want 2, got %v", got)
	}
	if got := testutil.ToFloat64(m.GatesClassified.WithLabelValues("met")); got != 150 {
		t.Fatalf("met gates: want 150, got %v", got)
	}
	if got := testutil.ToFloat64(m.GatesClassified.WithLabelValues("non_met")); got != 20 {
		t.Fatalf("non_met gates: want 20, got %v", got)
	}
	if got := testutil.ToFloat64(m.GatesClassified.WithLabelValues("masked")); got != 6 {
		t.Fatalf("masked gates: want 6, got %v", got)
	}
}
