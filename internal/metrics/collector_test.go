package bpmetrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	bpmetrics "github.com/fzengin19/bitpack/internal/metrics"
)

func TestNewCollector(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := bpmetrics.NewCollector(reg)

	if c.PacketsRelayed == nil {
		t.Error("PacketsRelayed is nil")
	}
	if c.PacketsDropped == nil {
		t.Error("PacketsDropped is nil")
	}
	if c.PacketsDecrypted == nil {
		t.Error("PacketsDecrypted is nil")
	}
	if c.DecryptFailures == nil {
		t.Error("DecryptFailures is nil")
	}
	if c.InFlight == nil {
		t.Error("InFlight is nil")
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	_ = families
}

func TestNewCollectorNilRegisterer(t *testing.T) {
	t.Parallel()

	// A nil Registerer falls back to prometheus.DefaultRegisterer, so
	// registering twice in the same test binary would panic on duplicate
	// collectors -- only exercise the nil-fallback branch once here.
	c := bpmetrics.NewCollector(nil)
	if c.PacketsRelayed == nil {
		t.Error("PacketsRelayed is nil")
	}
}

func TestPacketCounters(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := bpmetrics.NewCollector(reg)

	c.IncRelayed("location", "compact")
	c.IncRelayed("location", "compact")
	c.IncRelayed("location", "standard")

	if got := counterValue(t, c.PacketsRelayed, "location", "compact"); got != 2 {
		t.Errorf("PacketsRelayed(location,compact) = %v, want 2", got)
	}
	if got := counterValue(t, c.PacketsRelayed, "location", "standard"); got != 1 {
		t.Errorf("PacketsRelayed(location,standard) = %v, want 1", got)
	}

	c.IncDropped("sos_beacon", "hop_limit")

	if got := counterValue(t, c.PacketsDropped, "sos_beacon", "hop_limit"); got != 1 {
		t.Errorf("PacketsDropped(sos_beacon,hop_limit) = %v, want 1", got)
	}
}

func TestDecryptCounters(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := bpmetrics.NewCollector(reg)

	c.IncDecrypted("text_short", "standard")
	if got := counterValue(t, c.PacketsDecrypted, "text_short", "standard"); got != 1 {
		t.Errorf("PacketsDecrypted(text_short,standard) = %v, want 1", got)
	}

	c.IncDecryptFailure("text_short")
	c.IncDecryptFailure("text_short")
	if got := counterValueSingle(t, c.DecryptFailures, "text_short"); got != 2 {
		t.Errorf("DecryptFailures(text_short) = %v, want 2", got)
	}
}

func TestSetInFlight(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := bpmetrics.NewCollector(reg)

	c.SetInFlight(7)

	m := &dto.Metric{}
	if err := c.InFlight.Write(m); err != nil {
		t.Fatalf("Write gauge: %v", err)
	}
	if got := m.GetGauge().GetValue(); got != 7 {
		t.Errorf("InFlight = %v, want 7", got)
	}
}

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()

	counter, err := vec.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("GetMetricWithLabelValues(%v): %v", labels, err)
	}

	m := &dto.Metric{}
	if err := counter.Write(m); err != nil {
		t.Fatalf("Write metric: %v", err)
	}

	return m.GetCounter().GetValue()
}

func counterValueSingle(t *testing.T, vec *prometheus.CounterVec, label string) float64 {
	t.Helper()
	return counterValue(t, vec, label)
}
