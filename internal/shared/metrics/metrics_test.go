package metrics

import (
	"strings"
	"testing"
)

func TestRenderIncludesIntakeCounters(t *testing.T) {
	before := referralsStoredTotal.Load()
	IncReferralStored()
	ObserveReferralDurationMs(120)

	out := Render()
	for _, name := range []string{
		"referrals_received_total",
		"referrals_rejected_total",
		"referrals_stored_total",
		"referrals_failed_total",
		"referral_notifications_failed_total",
		"referral_notifications_queued_total",
		"notify_jobs_deleted_unrecoverable_total",
		"referral_duration_ms_bucket{le=\"250\"}",
		"referral_duration_ms_count",
	} {
		if !strings.Contains(out, name) {
			t.Fatalf("expected %s in output:\n%s", name, out)
		}
	}
	if referralsStoredTotal.Load() != before+1 {
		t.Fatalf("expected stored counter to increment")
	}
}

func TestHistogramCumulativeBuckets(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	snap := h.Snapshot()
	if snap.count != 3 {
		t.Fatalf("expected count 3, got %d", snap.count)
	}
	if snap.counts[0] != 1 || snap.counts[1] != 1 {
		t.Fatalf("unexpected bucket counts %v", snap.counts)
	}
}
