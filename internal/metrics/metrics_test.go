package metrics

import (
	"testing"

	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c interface {
	Write(*dto.Metric) error
}) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if m.Counter != nil {
		return m.Counter.GetValue()
	}
	return m.Gauge.GetValue()
}

func TestMetrics_CountersIncrement(t *testing.T) {
	m := New()
	m.ConnectionsTotal.Inc()
	m.ConnectionsTotal.Inc()
	m.WordsChecked.Inc()
	m.MisspelledTotal.Inc()

	if got := counterValue(t, m.ConnectionsTotal); got != 2 {
		t.Errorf("ConnectionsTotal = %v, want 2", got)
	}
	if got := counterValue(t, m.WordsChecked); got != 1 {
		t.Errorf("WordsChecked = %v, want 1", got)
	}
	if got := counterValue(t, m.MisspelledTotal); got != 1 {
		t.Errorf("MisspelledTotal = %v, want 1", got)
	}
}

func TestMetrics_RegisterQueueDepth(t *testing.T) {
	m := New()
	depth := 3.0
	m.RegisterQueueDepth("test_queue_depth", "test", func() float64 { return depth })

	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	var found bool
	for _, f := range families {
		if f.GetName() == "test_queue_depth" {
			found = true
			if got := f.Metric[0].GetGauge().GetValue(); got != 3 {
				t.Errorf("test_queue_depth = %v, want 3", got)
			}
		}
	}
	if !found {
		t.Fatal("test_queue_depth not found in registry")
	}
}
