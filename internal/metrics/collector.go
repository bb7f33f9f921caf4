// Package bpmetrics exposes Prometheus metrics for the bitpack-relay
// daemon.
package bpmetrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "bitpack"
	subsystem = "relay"
)

// Label names for relay metrics.
const (
	labelMessageType = "message_type"
	labelMode        = "mode"
	labelReason      = "reason"
)

// Collector holds all bitpack-relay Prometheus metrics.
//
//   - PacketsRelayed/PacketsDropped track forwarding volume per message
//     type and the reason a packet was dropped.
//   - PacketsDecrypted/DecryptFailures track the crypto envelope.
//   - InFlight tracks packets currently held in the dedup/hold-time window.
type Collector struct {
	PacketsRelayed   *prometheus.CounterVec
	PacketsDropped   *prometheus.CounterVec
	PacketsDecrypted *prometheus.CounterVec
	DecryptFailures  *prometheus.CounterVec
	InFlight         prometheus.Gauge
}

// NewCollector creates a Collector with all relay metrics registered
// against reg. If reg is nil, prometheus.DefaultRegisterer is used.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := newMetrics()

	reg.MustRegister(
		c.PacketsRelayed,
		c.PacketsDropped,
		c.PacketsDecrypted,
		c.DecryptFailures,
		c.InFlight,
	)

	return c
}

func newMetrics() *Collector {
	typeModeLabels := []string{labelMessageType, labelMode}
	dropLabels := []string{labelMessageType, labelReason}

	return &Collector{
		PacketsRelayed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "packets_relayed_total",
			Help:      "Total packets accepted and forwarded by the relay.",
		}, typeModeLabels),

		PacketsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "packets_dropped_total",
			Help:      "Total packets dropped by the relay, labeled with the drop reason.",
		}, dropLabels),

		PacketsDecrypted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "packets_decrypted_total",
			Help:      "Total encrypted payloads successfully opened.",
		}, typeModeLabels),

		DecryptFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "decrypt_failures_total",
			Help:      "Total encrypted payloads that failed to open (wrong key or tampered ciphertext).",
		}, []string{labelMessageType}),

		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "inflight_messages",
			Help:      "Number of message IDs currently held in the dedup window.",
		}),
	}
}

// IncRelayed increments the relayed-packet counter for a message type and
// header mode.
func (c *Collector) IncRelayed(messageType, mode string) {
	c.PacketsRelayed.WithLabelValues(messageType, mode).Inc()
}

// IncDropped increments the dropped-packet counter for a message type and
// drop reason (bitpack-relay passes duplicate, hop_limit, expired and
// decode_error).
func (c *Collector) IncDropped(messageType, reason string) {
	c.PacketsDropped.WithLabelValues(messageType, reason).Inc()
}

// IncDecrypted increments the decrypted-payload counter.
func (c *Collector) IncDecrypted(messageType, mode string) {
	c.PacketsDecrypted.WithLabelValues(messageType, mode).Inc()
}

// IncDecryptFailure increments the decrypt-failure counter.
func (c *Collector) IncDecryptFailure(messageType string) {
	c.DecryptFailures.WithLabelValues(messageType).Inc()
}

// SetInFlight sets the dedup-window gauge to n.
func (c *Collector) SetInFlight(n int) {
	c.InFlight.Set(float64(n))
}
