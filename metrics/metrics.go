package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Kết quả áp dụng / sử dụng voucher
const (
	VoucherApplied      = "applied"
	VoucherNotFound     = "not_found"
	VoucherExpired      = "expired"
	VoucherExhausted    = "exhausted"
	VoucherBelowMinimum = "below_minimum"
	VoucherUsed         = "used"
	VoucherReplayed     = "replayed"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookingtour",
		Name:      "http_requests_total",
		Help:      "Số request HTTP theo method, route và status.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bookingtour",
		Name:      "http_request_duration_seconds",
		Help:      "Thời gian xử lý request HTTP.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	VoucherOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookingtour",
		Name:      "voucher_outcomes_total",
		Help:      "Kết quả áp dụng và sử dụng voucher.",
	}, []string{"operation", "outcome"})

	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bookingtour",
		Name:      "bookings_created_total",
		Help:      "Số booking đã tạo.",
	})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bookingtour",
		Name:      "cache_lookups_total",
		Help:      "Số lần đọc cache Redis theo kết quả hit/miss.",
	}, []string{"cache", "result"})
)

// ObserveVoucher ghi nhận kết quả một thao tác voucher
func ObserveVoucher(operation, outcome string) {
	VoucherOutcomes.WithLabelValues(operation, outcome).Inc()
}
