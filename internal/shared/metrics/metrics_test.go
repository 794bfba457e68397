package metrics

import (
	"strings"
	"testing"
)

func TestHistogramBucketsAreCumulativeOnce(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	snap := h.Snapshot()
	if snap.counts[0] != 1 || snap.counts[1] != 1 {
		t.Fatalf("expected one observation per bucket, got %v", snap.counts)
	}
	if snap.count != 3 || snap.sum != 555 {
		t.Fatalf("unexpected count/sum: %d %v", snap.count, snap.sum)
	}
}

func TestRenderIncludesFailureKinds(t *testing.T) {
	IncParseStarted()
	IncParseFailed("recovery")
	IncParseFailed("")

	out := Render()
	for _, want := range []string{
		"parse_started_total",
		`parse_failed_total{kind="recovery"}`,
		`parse_failed_total{kind="unknown"}`,
		`parse_duration_ms_bucket{le="+Inf"}`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}
