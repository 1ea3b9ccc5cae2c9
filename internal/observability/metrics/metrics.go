package metrics

import "github.com/prometheus/client_golang/prometheus"

// BotMetrics exposes counters/histograms for the webhook-to-reply flow.
type BotMetrics struct {
	inboundTotal     *prometheus.CounterVec
	intentTotal      *prometheus.CounterVec
	providerFailures *prometheus.CounterVec
	webhookLatency   *prometheus.HistogramVec
}

func NewBotMetrics(reg prometheus.Registerer) *BotMetrics {
	m := &BotMetrics{
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mombot",
			Subsystem: "bot",
			Name:      "inbound_events_total",
			Help:      "Total inbound LINE message events",
		}, []string{"event_type", "status"}),
		intentTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mombot",
			Subsystem: "bot",
			Name:      "intent_total",
			Help:      "Dispatch outcomes by classified intent",
		}, []string{"intent"}),
		providerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mombot",
			Subsystem: "bot",
			Name:      "provider_failures_total",
			Help:      "Failures downgraded to user-facing text, by provider",
		}, []string{"provider"}),
		webhookLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mombot",
			Subsystem: "bot",
			Name:      "webhook_latency_seconds",
			Help:      "Latency of LINE webhook event processing",
			Buckets:   prometheus.DefBuckets,
		}, []string{"event_type"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.inboundTotal, m.intentTotal, m.providerFailures, m.webhookLatency)
	return m
}

func (m *BotMetrics) ObserveInbound(eventType, status string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(eventType, status).Inc()
}

func (m *BotMetrics) ObserveIntent(intent string) {
	if m == nil {
		return
	}
	m.intentTotal.WithLabelValues(intent).Inc()
}

func (m *BotMetrics) ObserveProviderFailure(provider string) {
	if m == nil {
		return
	}
	m.providerFailures.WithLabelValues(provider).Inc()
}

func (m *BotMetrics) ObserveWebhookLatency(eventType string, seconds float64) {
	if m == nil {
		return
	}
	m.webhookLatency.WithLabelValues(eventType).Observe(seconds)
}
