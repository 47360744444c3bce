package http

import (
	"context"

	http_router "github.com/lintang-b-s/Negotiatorx/pkg/http/router"
	"github.com/lintang-b-s/Negotiatorx/pkg/http/router/controllers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Server struct {
	Log   *zap.Logger
	Stats *controllers.StatsStore
}

func NewServer(log *zap.Logger) *Server {
	return &Server{Log: log, Stats: controllers.NewStatsStore()}
}

// Serve exposes gatherer and the negotiation results on addr until ctx is
// done. Timeouts come from STATUS_READ_TIMEOUT and STATUS_WRITE_TIMEOUT.
func (s *Server) Serve(ctx context.Context, v *viper.Viper, addr string, gatherer prometheus.Gatherer) error {
	v.SetDefault("STATUS_READ_TIMEOUT", "5s")
	v.SetDefault("STATUS_WRITE_TIMEOUT", "10s")

	config := http_router.Config{
		Addr:         addr,
		ReadTimeout:  v.GetDuration("STATUS_READ_TIMEOUT"),
		WriteTimeout: v.GetDuration("STATUS_WRITE_TIMEOUT"),
	}

	api := http_router.NewAPI(s.Log)
	return api.Run(ctx, config, api.Handler(gatherer, s.Stats))
}
