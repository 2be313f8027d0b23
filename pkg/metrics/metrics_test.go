package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func readValue(t *testing.T, m prometheus.Metric) *dto.Metric {
	t.Helper()
	var metric dto.Metric
	if err := m.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return &metric
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if r.SimulationTicksTotal == nil || r.GraphNodes == nil || r.SimilarityPairsTotal == nil {
		t.Error("metrics not initialized")
	}
	if r.GetPrometheusRegistry() == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	if DefaultRegistry() != DefaultRegistry() {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestRecordTick(t *testing.T) {
	r := NewRegistry()
	r.RecordTick(0.9, time.Millisecond)
	r.RecordTick(0.8, time.Millisecond)

	if got := readValue(t, r.SimulationTicksTotal).Counter.GetValue(); got != 2 {
		t.Errorf("ticks = %v, want 2", got)
	}
	if got := readValue(t, r.SimulationAlpha).Gauge.GetValue(); got != 0.8 {
		t.Errorf("alpha = %v, want 0.8", got)
	}
	if got := readValue(t, r.SimulationTickDuration).Histogram.GetSampleCount(); got != 2 {
		t.Errorf("tick samples = %v, want 2", got)
	}
}

func TestSetSimulationState(t *testing.T) {
	r := NewRegistry()
	r.SetSimulationState("running")
	r.SetSimulationState("converged")

	running, _ := r.SimulationState.GetMetricWithLabelValues("running")
	converged, _ := r.SimulationState.GetMetricWithLabelValues("converged")
	if readValue(t, running).Gauge.GetValue() != 0 {
		t.Error("running should be cleared")
	}
	if readValue(t, converged).Gauge.GetValue() != 1 {
		t.Error("converged should be set")
	}
}

func TestRecordReheatAndDrops(t *testing.T) {
	r := NewRegistry()
	r.RecordReheat("drag")
	r.RecordReheat("drag")
	r.RecordReheat("structure")
	r.RecordDroppedLinks("dangling", 3)
	r.RecordDroppedLinks("below_threshold", 0)
	r.RecordCoercion(2)
	r.RecordConvergence()
	r.SetGraphSize(5, 4)
	r.RecordSimilarity(10, time.Microsecond)

	drag, _ := r.SimulationReheatsTotal.GetMetricWithLabelValues("drag")
	if got := readValue(t, drag).Counter.GetValue(); got != 2 {
		t.Errorf("drag reheats = %v, want 2", got)
	}
	dangling, _ := r.GraphLinksDroppedTotal.GetMetricWithLabelValues("dangling")
	if got := readValue(t, dangling).Counter.GetValue(); got != 3 {
		t.Errorf("dangling drops = %v, want 3", got)
	}
	if got := readValue(t, r.SimulationCoercionsTotal).Counter.GetValue(); got != 2 {
		t.Errorf("coercions = %v, want 2", got)
	}
	if got := readValue(t, r.GraphLinks).Gauge.GetValue(); got != 4 {
		t.Errorf("links = %v, want 4", got)
	}
	if got := readValue(t, r.SimilarityPairsTotal).Counter.GetValue(); got != 10 {
		t.Errorf("pairs = %v, want 10", got)
	}

	families, err := r.GetPrometheusRegistry().Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	if len(families) == 0 {
		t.Error("expected gathered metric families")
	}
}

func TestNilRegistryIsSafe(t *testing.T) {
	var r *Registry
	r.RecordTick(1, time.Second)
	r.SetSimulationState("running")
	r.RecordReheat("drag")
	r.RecordConvergence()
	r.RecordCoercion(1)
	r.SetGraphSize(1, 1)
	r.RecordDroppedLinks("dangling", 1)
	r.RecordSimilarity(1, time.Second)
}
