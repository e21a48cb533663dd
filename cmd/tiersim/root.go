package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/IvanBrykalov/tiercache/hierarchy"
	pmet "github.com/IvanBrykalov/tiercache/metrics/prom"
	"github.com/IvanBrykalov/tiercache/trace"
)

type options struct {
	tiers      string
	l1, l2, l3 int
	demote     bool

	accesses int
	space    int
	dist     string
	zipfS    float64
	zipfV    float64
	seed     int64

	traceList string
	traceFile string

	showState bool
	quiet     bool
	flush     bool

	metricsAddr string
	logLevel    string
}

func newRootCmd() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:   "tiersim",
		Short: "Simulate a multi-tier cache hierarchy over an address trace",
		Long: `tiersim builds a cache hierarchy (by default: L1 recency/deferred,
L2 insertion-order/immediate, L3 frequency/deferred), replays an address
trace through it and prints every access, the final tier contents and
per-tier statistics.

Tiers can be given explicitly as capacity:policy[:write] specs, e.g.
  --tiers 4:lru:back,8:fifo:through,16:lfu:back`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), cmd.InOrStdin(), o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.tiers, "tiers", "", "explicit tier specs, fastest first (overrides --l1/--l2/--l3)")
	f.IntVar(&o.l1, "l1", 4, "L1 capacity (recency, deferred writes)")
	f.IntVar(&o.l2, "l2", 8, "L2 capacity (insertion order, immediate writes)")
	f.IntVar(&o.l3, "l3", 16, "L3 capacity (frequency, deferred writes)")
	f.BoolVar(&o.demote, "demote", false, "move evicted blocks down one tier instead of discarding them")

	f.IntVarP(&o.accesses, "accesses", "n", 20, "number of generated accesses")
	f.IntVar(&o.space, "space", 100, "generated addresses are drawn from [0, space)")
	f.StringVar(&o.dist, "dist", "uniform", "address distribution: uniform | zipf")
	f.Float64Var(&o.zipfS, "zipf-s", 1.1, "Zipf s > 1 (skew)")
	f.Float64Var(&o.zipfV, "zipf-v", 1.0, "Zipf v >= 1")
	f.Int64Var(&o.seed, "seed", time.Now().UnixNano(), "random seed")

	f.StringVar(&o.traceList, "trace", "", "explicit trace, e.g. \"1,2,1,3\" (overrides generation)")
	f.StringVar(&o.traceFile, "trace-file", "", "read the trace from a file (\"-\" for stdin)")

	f.BoolVar(&o.showState, "show-state", false, "print tier contents after every access")
	f.BoolVarP(&o.quiet, "quiet", "q", false, "do not print per-access events")
	f.BoolVar(&o.flush, "flush", false, "write dirty blocks back to the store at the end of the run")

	f.StringVar(&o.metricsAddr, "metrics", "", "serve Prometheus metrics at addr (e.g. :8080) and wait for interrupt")
	f.StringVar(&o.logLevel, "log-level", "warn", "log level: debug | info | warn | error")

	cmd.MarkFlagsMutuallyExclusive("trace", "trace-file")
	return cmd
}

func run(ctx context.Context, out io.Writer, in io.Reader, o *options) error {
	log, err := newLogger(o.logLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	specs := hierarchy.DefaultTiers(o.l1, o.l2, o.l3)
	if o.tiers != "" {
		if specs, err = hierarchy.ParseTierSpecs(o.tiers); err != nil {
			return err
		}
	}

	opt := hierarchy.Options[int]{Tiers: specs, Demote: o.demote, Logger: log}
	var reg *prometheus.Registry
	if o.metricsAddr != "" {
		reg = prometheus.NewRegistry()
		opt.Metrics = pmet.New(reg, "tiercache", "sim", nil)
	}

	h, err := hierarchy.New[int](opt)
	if err != nil {
		return err
	}

	addrs, err := o.trace(in)
	if err != nil {
		return err
	}

	for ev := range h.Replay(addrs) {
		if !o.quiet {
			renderEvent(out, ev)
		}
		if o.showState {
			renderSnapshot(out, h.Snapshot())
		}
	}
	if o.flush {
		n := h.Flush()
		fmt.Fprintf(out, "flushed %d dirty block(s)\n", n)
	}

	fmt.Fprintln(out)
	renderSnapshot(out, h.Snapshot())
	fmt.Fprintln(out)
	renderStats(out, h.Stats())

	if reg != nil {
		return serveMetrics(ctx, log, o.metricsAddr, reg)
	}
	return nil
}

// trace picks the address source: explicit list, file, or generator.
func (o *options) trace(in io.Reader) (iter.Seq[int], error) {
	switch {
	case o.traceList != "":
		addrs, err := trace.ParseString(o.traceList)
		if err != nil {
			return nil, err
		}
		return slices.Values(addrs), nil
	case o.traceFile != "":
		r := in
		if o.traceFile != "-" {
			f, err := os.Open(o.traceFile)
			if err != nil {
				return nil, fmt.Errorf("open trace: %w", err)
			}
			defer f.Close()
			r = f
		}
		addrs, err := trace.Parse(r)
		if err != nil {
			return nil, err
		}
		return slices.Values(addrs), nil
	}

	if o.accesses < 0 {
		return nil, fmt.Errorf("--accesses must be >= 0, got %d", o.accesses)
	}
	if o.space <= 0 {
		return nil, fmt.Errorf("--space must be > 0, got %d", o.space)
	}
	switch o.dist {
	case "uniform":
		return trace.Uniform(o.seed, o.accesses, o.space), nil
	case "zipf":
		return trace.Zipf(o.seed, o.accesses, o.space, o.zipfS, o.zipfV)
	default:
		return nil, fmt.Errorf("unknown distribution %q (use uniform or zipf)", o.dist)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("--log-level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	if lvl == zapcore.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// serveMetrics exposes reg at /metrics until ctx is cancelled or SIGINT arrives.
func serveMetrics(ctx context.Context, log *zap.Logger, addr string, reg *prometheus.Registry) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	log.Info("serving metrics", zap.String("addr", addr))

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
