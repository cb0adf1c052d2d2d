package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestChatMetricsRegisterAndCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewChatMetrics(reg)

	m.ObserveInbound("api", "ok")
	m.ObserveInbound("api", "ok")
	m.ObserveInbound("whatsapp", "upstream_error")
	m.ObserveUpstreamFailure("rate_limited")
	m.ObserveCheckin("sent")
	m.ObserveCheckin("failed")
	m.ObserveFlowLatency("api", 0.25)

	if got := testutil.ToFloat64(m.inboundTotal.WithLabelValues("api", "ok")); got != 2 {
		t.Errorf("expected 2 api/ok inbound, got %v", got)
	}
	if got := testutil.ToFloat64(m.upstreamFailures.WithLabelValues("rate_limited")); got != 1 {
		t.Errorf("expected 1 rate_limited failure, got %v", got)
	}
	if got := testutil.ToFloat64(m.checkinTotal.WithLabelValues("failed")); got != 1 {
		t.Errorf("expected 1 failed checkin, got %v", got)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *ChatMetrics
	m.ObserveInbound("api", "ok")
	m.ObserveUpstreamFailure("auth")
	m.ObserveCheckin("sent")
	m.ObserveFlowLatency("api", 0.1)
}
