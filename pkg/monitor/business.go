package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics 定义业务监控指标
type BusinessMetrics struct {
	DonationsRecordedTotal *prometheus.CounterVec
	DonationRefAmountTotal *prometheus.CounterVec
	NotificationsRejected  *prometheus.CounterVec
	VotesTotal             *prometheus.CounterVec
	ResolutionsTotal       *prometheus.CounterVec
	PendingOperations      prometheus.Gauge
	OutboxRelayedTotal     *prometheus.CounterVec
}

// Business 全局业务指标; 未 Init 时为 nil，调用方需判空
var Business *BusinessMetrics

// InitBusinessMetrics 初始化业务指标
func InitBusinessMetrics() {
	Business = &BusinessMetrics{
		DonationsRecordedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "donation_recorded_total",
			Help: "The total number of donations appended to the ledger",
		}, []string{"target_kind", "source"}),
		DonationRefAmountTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "donation_reference_amount_total",
			Help: "Sum of donation amounts in the reference currency",
		}, []string{"target_kind"}),
		NotificationsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "custody_notification_rejected_total",
			Help: "Transfer notifications rejected before any state mutation",
		}, []string{"reason"}),
		VotesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "voting_cast_total",
			Help: "Vote attempts by resulting status",
		}, []string{"status"}),
		ResolutionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "custody_resolution_total",
			Help: "Pending custody operations resolved, by kind and terminal state",
		}, []string{"kind", "state"}),
		PendingOperations: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "custody_pending_operations",
			Help: "Custody operations issued and not yet resolved",
		}),
		OutboxRelayedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "outbox_relayed_total",
			Help: "Outbox messages delivered to the message queue",
		}, []string{"topic"}),
	}
}

// 以下辅助函数在指标未初始化时静默跳过 (测试/CLI 场景)

func RecordDonation(kind, source string, ref float64) {
	if Business == nil {
		return
	}
	Business.DonationsRecordedTotal.WithLabelValues(kind, source).Inc()
	Business.DonationRefAmountTotal.WithLabelValues(kind).Add(ref)
}

func RecordRejectedNotification(reason string) {
	if Business == nil {
		return
	}
	Business.NotificationsRejected.WithLabelValues(reason).Inc()
}

func RecordVote(status string) {
	if Business == nil {
		return
	}
	Business.VotesTotal.WithLabelValues(status).Inc()
}

func RecordResolution(kind, state string) {
	if Business == nil {
		return
	}
	Business.ResolutionsTotal.WithLabelValues(kind, state).Inc()
}

func SetPending(n int) {
	if Business == nil {
		return
	}
	Business.PendingOperations.Set(float64(n))
}

func RecordRelayed(topic string) {
	if Business == nil {
		return
	}
	Business.OutboxRelayedTotal.WithLabelValues(topic).Inc()
}
