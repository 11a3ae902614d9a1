package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	referralsReceivedTotal       atomic.Uint64
	referralsRejectedTotal       atomic.Uint64
	referralsStoredTotal         atomic.Uint64
	referralsFailedTotal         atomic.Uint64
	notificationsFailedTotal     atomic.Uint64
	notificationsQueuedTotal     atomic.Uint64
	contentOverrideFailuresTotal atomic.Uint64

	notifyJobsReceivedTotal      atomic.Uint64
	notifyJobsCompletedTotal     atomic.Uint64
	notifyJobsFailedTotal        atomic.Uint64
	notifyJobsUnrecoverableTotal atomic.Uint64

	referralDuration = newHistogram([]float64{50, 100, 250, 500, 1000, 2500, 5000, 10000})
)

// IncReferralReceived counts an intake request that reached parsing.
func IncReferralReceived() {
	referralsReceivedTotal.Add(1)
}

// IncReferralRejected counts a submission refused by validation.
func IncReferralRejected() {
	referralsRejectedTotal.Add(1)
}

// IncReferralStored counts a submission whose blob and row were both written.
func IncReferralStored() {
	referralsStoredTotal.Add(1)
}

// IncReferralFailed counts a configuration, storage or database failure.
func IncReferralFailed() {
	referralsFailedTotal.Add(1)
}

// IncNotificationFailed counts a swallowed notification error.
func IncNotificationFailed() {
	notificationsFailedTotal.Add(1)
}

// IncNotificationQueued counts a notification handed to the queue.
func IncNotificationQueued() {
	notificationsQueuedTotal.Add(1)
}

func IncNotifyJobsReceived() {
	notifyJobsReceivedTotal.Add(1)
}

func IncNotifyJobsCompleted() {
	notifyJobsCompletedTotal.Add(1)
}

func IncNotifyJobsFailed() {
	notifyJobsFailedTotal.Add(1)
}

// IncNotifyJobsDeletedUnrecoverable counts messages dropped without delivery.
func IncNotifyJobsDeletedUnrecoverable() {
	notifyJobsUnrecoverableTotal.Add(1)
}

// IncContentOverrideFailure counts content loads that fell back to defaults.
func IncContentOverrideFailure() {
	contentOverrideFailuresTotal.Add(1)
}

// ObserveReferralDurationMs records an intake duration in milliseconds.
func ObserveReferralDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	referralDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "referrals_received_total", "Referral submissions received", referralsReceivedTotal.Load())
	writeCounter(&buf, "referrals_rejected_total", "Referral submissions rejected by validation", referralsRejectedTotal.Load())
	writeCounter(&buf, "referrals_stored_total", "Referral submissions stored", referralsStoredTotal.Load())
	writeCounter(&buf, "referrals_failed_total", "Referral submissions failed on storage, database or configuration", referralsFailedTotal.Load())
	writeCounter(&buf, "referral_notifications_failed_total", "Referral notification e-mails that failed", notificationsFailedTotal.Load())
	writeCounter(&buf, "referral_notifications_queued_total", "Referral notifications handed to the queue", notificationsQueuedTotal.Load())
	writeCounter(&buf, "notify_jobs_received_total", "Notification jobs received by the worker", notifyJobsReceivedTotal.Load())
	writeCounter(&buf, "notify_jobs_completed_total", "Notification jobs delivered", notifyJobsCompletedTotal.Load())
	writeCounter(&buf, "notify_jobs_failed_total", "Notification jobs left for redelivery", notifyJobsFailedTotal.Load())
	writeCounter(&buf, "notify_jobs_deleted_unrecoverable_total", "Notification jobs dropped as unrecoverable", notifyJobsUnrecoverableTotal.Load())
	writeCounter(&buf, "content_override_failures_total", "Content loads that fell back to defaults", contentOverrideFailuresTotal.Load())
	writeHistogram(&buf, "referral_duration_ms", "Referral intake duration in milliseconds", referralDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
