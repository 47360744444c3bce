package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lintang-b-s/Negotiatorx/pkg/config"
	"github.com/lintang-b-s/Negotiatorx/pkg/dbu"
	"github.com/lintang-b-s/Negotiatorx/pkg/generator"
	apphttp "github.com/lintang-b-s/Negotiatorx/pkg/http"
	"github.com/lintang-b-s/Negotiatorx/pkg/logger"
	"github.com/lintang-b-s/Negotiatorx/pkg/metrics"
	"github.com/lintang-b-s/Negotiatorx/pkg/scheduler"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newRunCmd(v *viper.Viper) *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Generate an instance and negotiate it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFunc(cmd.Context(), v)
		},
	}

	def := generator.DefaultParams()
	flags := runCmd.Flags()
	flags.Uint64("seed", def.Seed, "generator seed")
	flags.Int("regions", def.Regions, "number of independent regions")
	flags.Int("nets", def.Nets, "nets per region")
	flags.Int("tracks", def.Tracks, "tracks per routing plane")
	flags.Float64("split-ratio", def.SplitRatio, "share of nets with a split vertical wire")
	flags.Float64("unrouted-ratio", def.UnroutedRatio, "share of split wires whose canonical is unrouted")
	flags.Int("ring-nets", def.RingNets, "ring nets per region")
	cfg := config.Default()
	flags.Int("workers", cfg.Workers, "regions negotiated concurrently")
	flags.Int("max-events", cfg.MaxEvents, "event budget per region")
	flags.String("log-level", cfg.LogLevel, "debug, info, warn or error")
	flags.String("initial-state", cfg.InitialState, "strategy segments start in, see the states command")
	flags.String("status-addr", "", "serve /metrics and /api/stats on this address until interrupted")

	for key, name := range map[string]string{
		"seed":           "seed",
		"regions":        "regions",
		"nets":           "nets",
		"tracks":         "tracks",
		"split_ratio":    "split-ratio",
		"unrouted_ratio": "unrouted-ratio",
		"ring_nets":      "ring-nets",
		"workers":        "workers",
		"max_events":     "max-events",
		"log_level":      "log-level",
		"initial_state":  "initial-state",
		"status_addr":    "status-addr",
	} {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
	return runCmd
}

func runFunc(ctx context.Context, v *viper.Viper) error {
	cfg, err := config.ReadConfig(v)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if err := dbu.SetUnitsPerLambda(cfg.UnitsPerLambda); err != nil {
		return err
	}

	params := generator.Params{
		Seed:          v.GetUint64("seed"),
		Regions:       v.GetInt("regions"),
		Nets:          v.GetInt("nets"),
		Tracks:        v.GetInt("tracks"),
		Pitch:         dbu.Lambda(cfg.TrackPitchLambda),
		SplitRatio:    v.GetFloat64("split_ratio"),
		UnroutedRatio: v.GetFloat64("unrouted_ratio"),
		RingNets:      v.GetInt("ring_nets"),
	}
	regions, err := generator.Generate(params)
	if err != nil {
		return err
	}
	log.Sugar().Infof("Generated %d regions of %d nets each (seed %d)", params.Regions, params.Nets, params.Seed)

	reg := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(reg)
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	status := apphttp.NewServer(log)
	addr := v.GetString("status_addr")
	if addr != "" {
		g.Go(func() error {
			return status.Serve(gctx, v, addr, reg)
		})
	}

	status.Stats.Start()
	stats, err := scheduler.RunRegions(gctx, cfg, log, collector, regions)
	status.Stats.Set(stats)
	for _, st := range stats {
		log.Info("region negotiated", zap.Object("stats", st))
	}
	if err != nil {
		log.Error("negotiation failed", zap.Error(err))
		stop()
		_ = g.Wait()
		return err
	}

	placed, unrouted := 0, 0
	for _, st := range stats {
		placed += st.Placed
		unrouted += st.Unrouted
	}
	log.Info("Negotiator done", zap.Int("placed", placed), zap.Int("unrouted", unrouted))

	if addr != "" {
		log.Sugar().Infof("Serving results on %s, interrupt to exit", addr)
	}
	return g.Wait()
}
