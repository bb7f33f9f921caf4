// Command bitpack-relay is a BitPack mesh relay node. It reads framed
// packets from stdin (a stand-in for the BLE transport a real relay node
// would bridge to a radio), applies hop/TTL and age bookkeeping plus
// message-ID deduplication, and writes surviving packets to stdout.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/fzengin19/bitpack/bitpack/bperrors"
	"github.com/fzengin19/bitpack/bitpack/header"
	"github.com/fzengin19/bitpack/bitpack/packet"
	"github.com/fzengin19/bitpack/internal/config"
	bpmetrics "github.com/fzengin19/bitpack/internal/metrics"
	"github.com/fzengin19/bitpack/internal/relay"
)

const shutdownTimeout = 10 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to configuration file (YAML)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("failed to load configuration",
			slog.String("error", err.Error()))
		return 1
	}

	logLevel := new(slog.LevelVar)
	logLevel.Set(config.ParseLogLevel(cfg.Log.Level))
	logger := newLogger(cfg.Log, logLevel)

	logger.Info("bitpack-relay starting",
		slog.String("metrics_addr", cfg.Metrics.Addr),
		slog.Duration("dedup_window", cfg.Relay.DedupWindow),
	)

	reg := prometheus.NewRegistry()
	collector := bpmetrics.NewCollector(reg)
	rl := relay.New(relay.Config{DedupWindow: cfg.Relay.DedupWindow}, logger)

	if err := runServers(cfg, rl, collector, reg, logger); err != nil {
		logger.Error("bitpack-relay exited with error", slog.String("error", err.Error()))
		return 1
	}

	logger.Info("bitpack-relay stopped")
	return 0
}

func runServers(cfg *config.Config, rl *relay.Relay, collector *bpmetrics.Collector, reg *prometheus.Registry, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	metricsSrv := newMetricsServer(cfg.Metrics)
	g.Go(func() error {
		logger.Info("metrics server listening", slog.String("addr", cfg.Metrics.Addr), slog.String("path", cfg.Metrics.Path))
		return listenAndServe(gCtx, metricsSrv, cfg.Metrics.Addr)
	})

	g.Go(func() error {
		return relayLoop(gCtx, rl, collector, logger, os.Stdin, os.Stdout)
	})

	g.Go(func() error {
		<-gCtx.Done()
		return shutdown(metricsSrv)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("run servers: %w", err)
	}
	return nil
}

// relayLoop reads length-delimited frames from r (a 2-byte big-endian
// length prefix followed by a complete BitPack frame), ingests each
// through rl, and writes the forwarded frame to w. It returns when ctx is
// cancelled or r reaches EOF.
func relayLoop(ctx context.Context, rl *relay.Relay, collector *bpmetrics.Collector, logger *slog.Logger, r io.Reader, w io.Writer) error {
	reader := bufio.NewReader(r)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		frame, err := readFrame(reader)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read frame: %w", err)
		}

		pkt, err := packet.Decode(frame)
		if err != nil {
			logger.Warn("dropping unparseable frame", slog.String("error", err.Error()))
			collector.IncDropped("unknown", "decode_error")
			continue
		}

		decision, err := rl.Ingest(pkt, time.Now())
		if err != nil {
			logger.Warn("relay ingest error", slog.String("error", err.Error()))
			continue
		}
		collector.SetInFlight(rl.InFlight())

		typeName := pkt.Header.Type().String()
		if !decision.Forward {
			collector.IncDropped(typeName, decision.Reason)
			continue
		}

		collector.IncRelayed(typeName, decision.Packet.Header.Mode().String())
		if err := writeFrame(w, decision.Packet.Encode()); err != nil {
			return fmt.Errorf("write frame: %w", err)
		}
	}
}

func readFrame(r *bufio.Reader) ([]byte, error) {
	var lenBuf [2]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	n := int(lenBuf[0])<<8 | int(lenBuf[1])
	if n < header.CompactHeaderSize {
		return nil, fmt.Errorf("relay: frame length %d below minimum header size: %w", n, bperrors.InsufficientData)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func writeFrame(w io.Writer, frame []byte) error {
	if len(frame) > 0xFFFF {
		return fmt.Errorf("relay: frame length %d exceeds 16-bit prefix: %w", len(frame), bperrors.ArgumentOutOfRange)
	}
	lenBuf := [2]byte{byte(len(frame) >> 8), byte(len(frame))}
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(frame)
	return err
}

func shutdown(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown metrics server: %w", err)
	}
	return nil
}

func listenAndServe(ctx context.Context, srv *http.Server, addr string) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve on %s: %w", addr, err)
	}
	return nil
}

func newMetricsServer(cfg config.MetricsConfig) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.Handler())
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func newLogger(cfg config.LogConfig, level *slog.LevelVar) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch cfg.Format {
	case "text":
		handler = slog.NewTextHandler(os.Stderr, opts)
	default:
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
