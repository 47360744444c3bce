package scheduler

import (
	"context"

	"github.com/lintang-b-s/Negotiatorx/pkg/config"
	"github.com/lintang-b-s/Negotiatorx/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RunRegions negotiates every region on its own goroutine, at most
// cfg.Workers at a time. The first failing region cancels the others. The
// unrouted gauge ends up holding the sum over all regions.
func RunRegions(ctx context.Context, cfg config.Config, log *zap.Logger, collector *metrics.Collector,
	regions []*Region) ([]Stats, error) {
	if log == nil {
		log = zap.NewNop()
	}

	if collector != nil {
		collector.SetUnrouted(0)
	}

	stats := make([]Stats, len(regions))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for i, region := range regions {
		g.Go(func() error {
			neg := NewNegotiator(cfg, region, collector, log)
			st, err := neg.Run(gctx)
			stats[i] = st
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return stats, err
	}
	return stats, nil
}
