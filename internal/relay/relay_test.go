package relay

import (
	"testing"
	"time"

	"github.com/fzengin19/bitpack/bitpack/header"
	"github.com/fzengin19/bitpack/bitpack/packet"
)

func newTestRelay() *Relay {
	return New(Config{DedupWindow: time.Minute}, nil)
}

func TestIngestForwardsAndDecrementsCompactHops(t *testing.T) {
	h, err := header.NewCompactHeader(header.MessageTypeLocation, header.PacketFlags{}, 5, 10)
	if err != nil {
		t.Fatalf("NewCompactHeader: %v", err)
	}
	pkt := packet.New(h, []byte{1, 2, 3})

	r := newTestRelay()
	decision, err := r.Ingest(pkt, time.Now())
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if !decision.Forward {
		t.Fatalf("expected forward, got drop reason %q", decision.Reason)
	}
	if decision.Packet.Header.TTL() != 4 {
		t.Fatalf("hop TTL = %d, want 4", decision.Packet.Header.TTL())
	}
}

func TestIngestDropsExhaustedCompactHops(t *testing.T) {
	h, err := header.NewCompactHeader(header.MessageTypeLocation, header.PacketFlags{}, 0, 11)
	if err != nil {
		t.Fatalf("NewCompactHeader: %v", err)
	}
	pkt := packet.New(h, nil)

	r := newTestRelay()
	decision, err := r.Ingest(pkt, time.Now())
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if decision.Forward {
		t.Fatalf("expected drop, got forward")
	}
	if decision.Reason != "hop_limit" {
		t.Fatalf("reason = %q, want hop_limit", decision.Reason)
	}
}

func TestIngestDropsDuplicateMessageID(t *testing.T) {
	h, _ := header.NewCompactHeader(header.MessageTypeLocation, header.PacketFlags{}, 5, 99)
	pkt := packet.New(h, nil)

	r := newTestRelay()
	now := time.Now()
	if d, err := r.Ingest(pkt, now); err != nil || !d.Forward {
		t.Fatalf("first Ingest: decision=%+v err=%v", d, err)
	}

	h2, _ := header.NewCompactHeader(header.MessageTypeLocation, header.PacketFlags{}, 5, 99)
	pkt2 := packet.New(h2, nil)
	decision, err := r.Ingest(pkt2, now.Add(time.Second))
	if err != nil {
		t.Fatalf("second Ingest: %v", err)
	}
	if decision.Forward {
		t.Fatalf("expected duplicate drop, got forward")
	}
	if decision.Reason != "duplicate" {
		t.Fatalf("reason = %q, want duplicate", decision.Reason)
	}
}

func TestIngestStandardHeaderAgeExpiry(t *testing.T) {
	h, err := header.NewStandardHeader(header.MessageTypeTextShort, header.PacketFlags{}, 5, 42,
		header.SecurityModeNone, 0, header.ExpiryThresholdMinutes)
	if err != nil {
		t.Fatalf("NewStandardHeader: %v", err)
	}
	pkt := packet.New(&h, nil)

	r := newTestRelay()
	decision, err := r.Ingest(pkt, time.Now())
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if decision.Forward {
		t.Fatalf("expected drop due to age expiry, got forward")
	}
	if decision.Reason != "expired" {
		t.Fatalf("reason = %q, want expired", decision.Reason)
	}
}

func TestIngestStandardHeaderAccumulatesAge(t *testing.T) {
	h, err := header.NewStandardHeader(header.MessageTypeTextShort, header.PacketFlags{}, 5, 43,
		header.SecurityModeNone, 0, 0)
	if err != nil {
		t.Fatalf("NewStandardHeader: %v", err)
	}
	pkt := packet.New(&h, nil)

	r := newTestRelay()
	now := time.Now()
	decision, err := r.Ingest(pkt, now)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if !decision.Forward {
		t.Fatalf("expected forward, got drop reason %q", decision.Reason)
	}
	sh, ok := decision.Packet.Header.(*header.StandardHeader)
	if !ok {
		t.Fatalf("expected *header.StandardHeader, got %T", decision.Packet.Header)
	}
	if sh.HopTTL != 4 {
		t.Fatalf("hop TTL = %d, want 4", sh.HopTTL)
	}
}

func TestInFlightReflectsDedupWindow(t *testing.T) {
	r := newTestRelay()
	h, _ := header.NewCompactHeader(header.MessageTypeLocation, header.PacketFlags{}, 5, 1)
	if _, err := r.Ingest(packet.New(h, nil), time.Now()); err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if got := r.InFlight(); got != 1 {
		t.Fatalf("InFlight() = %d, want 1", got)
	}
}
