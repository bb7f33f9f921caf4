// Package relay implements the bitpack-relay daemon's forwarding
// decision: hop/TTL and age bookkeeping on Standard headers, and
// message-ID deduplication so a mesh relay never re-forwards a packet it
// has already seen within its dedup window.
package relay

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fzengin19/bitpack/bitpack/bperrors"
	"github.com/fzengin19/bitpack/bitpack/header"
	"github.com/fzengin19/bitpack/bitpack/packet"
)

// Config holds the parameters a Relay enforces on every ingested packet.
type Config struct {
	// DedupWindow is how long a message ID is remembered after first
	// being seen.
	DedupWindow time.Duration
}

// Relay holds relay-local dedup state across packets. It is safe for
// concurrent use by multiple reader goroutines.
type Relay struct {
	cfg Config
	log *slog.Logger

	mu   sync.Mutex
	seen map[uint32]time.Time
}

// New builds a Relay.
func New(cfg Config, log *slog.Logger) *Relay {
	if log == nil {
		log = slog.Default()
	}
	return &Relay{cfg: cfg, log: log, seen: make(map[uint32]time.Time)}
}

// Decision is the outcome of Ingest: whether to forward the packet, and
// with what hop count decremented, or why it was dropped.
type Decision struct {
	Forward bool
	Packet  packet.Packet // hop-decremented packet, only meaningful if Forward; a Standard header is updated in place through the input's pointer
	Reason  string        // drop reason, only meaningful if !Forward
}

// Ingest applies the relay's forwarding rules to pkt as observed at now:
//  1. Compact headers carry no age field; only the hop TTL is checked.
//  2. Standard headers get MarkReceived(now) and their current age
//     checked against the 24h expiry threshold.
//  3. A message ID already in the dedup window is silently dropped
//     (mesh-loop suppression) without touching TTL/age at all.
//  4. A surviving packet's hop count is decremented by one and returned
//     for re-transmission; a hop count that reaches zero here is itself
//     a drop (last hop).
func (r *Relay) Ingest(pkt packet.Packet, now time.Time) (Decision, error) {
	msgID := pkt.Header.MessageID()

	if r.isDuplicate(msgID, now) {
		return Decision{Reason: "duplicate"}, nil
	}
	r.markSeen(msgID, now)

	if sh, ok := pkt.Header.(*header.StandardHeader); ok {
		sh.MarkReceived(now)
		if sh.IsExpiredAt(now) {
			if sh.HopTTL == 0 {
				return Decision{Reason: "hop_limit"}, nil
			}
			return Decision{Reason: "expired"}, nil
		}
		sh.AgeMinutes = sh.CurrentAgeMinutes(now)
		sh.HopTTL--
		if sh.HopTTL == 0 {
			return Decision{Reason: "hop_limit"}, nil
		}
		return Decision{Forward: true, Packet: packet.New(sh, pkt.Payload)}, nil
	}

	ch, ok := pkt.Header.(header.CompactHeader)
	if !ok {
		return Decision{}, fmt.Errorf("relay: unrecognized header type %T: %w", pkt.Header, bperrors.InvalidMode)
	}
	if ch.IsExpired() {
		return Decision{Reason: "hop_limit"}, nil
	}
	ch.Hops--
	if ch.Hops == 0 {
		return Decision{Reason: "hop_limit"}, nil
	}
	return Decision{Forward: true, Packet: packet.New(ch, pkt.Payload)}, nil
}

// isDuplicate reports whether msgID was already seen within the dedup
// window as of now.
func (r *Relay) isDuplicate(msgID uint32, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	seenAt, ok := r.seen[msgID]
	if !ok {
		return false
	}
	return now.Sub(seenAt) < r.cfg.DedupWindow
}

// markSeen records msgID as seen at now, and opportunistically evicts
// entries that have aged out of the dedup window.
func (r *Relay) markSeen(msgID uint32, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen[msgID] = now
	for id, seenAt := range r.seen {
		if now.Sub(seenAt) >= r.cfg.DedupWindow {
			delete(r.seen, id)
		}
	}
}

// InFlight returns the number of message IDs currently held in the dedup
// window, for metrics reporting.
func (r *Relay) InFlight() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}
