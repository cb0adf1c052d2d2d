package metrics

import "github.com/prometheus/client_golang/prometheus"

// ChatMetrics exposes counters/histograms for the inbound-message flow and
// the daily check-in job.
type ChatMetrics struct {
	inboundTotal     *prometheus.CounterVec
	upstreamFailures *prometheus.CounterVec
	checkinTotal     *prometheus.CounterVec
	flowLatency      *prometheus.HistogramVec
}

func NewChatMetrics(reg prometheus.Registerer) *ChatMetrics {
	m := &ChatMetrics{
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "caremate",
			Subsystem: "chat",
			Name:      "inbound_total",
			Help:      "Total inbound messages by origin and outcome",
		}, []string{"origin", "status"}),
		upstreamFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "caremate",
			Subsystem: "chat",
			Name:      "upstream_failures_total",
			Help:      "Completion-service failures by kind",
		}, []string{"kind"}),
		checkinTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "caremate",
			Subsystem: "checkin",
			Name:      "sends_total",
			Help:      "Daily check-in sends by outcome",
		}, []string{"status"}),
		flowLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "caremate",
			Subsystem: "chat",
			Name:      "flow_latency_seconds",
			Help:      "Latency of the inbound-message flow",
			Buckets:   prometheus.DefBuckets,
		}, []string{"origin"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.inboundTotal, m.upstreamFailures, m.checkinTotal, m.flowLatency)
	return m
}

func (m *ChatMetrics) ObserveInbound(origin, status string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(origin, status).Inc()
}

func (m *ChatMetrics) ObserveUpstreamFailure(kind string) {
	if m == nil {
		return
	}
	m.upstreamFailures.WithLabelValues(kind).Inc()
}

func (m *ChatMetrics) ObserveCheckin(status string) {
	if m == nil {
		return
	}
	m.checkinTotal.WithLabelValues(status).Inc()
}

func (m *ChatMetrics) ObserveFlowLatency(origin string, seconds float64) {
	if m == nil {
		return
	}
	m.flowLatency.WithLabelValues(origin).Observe(seconds)
}
