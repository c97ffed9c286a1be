package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/njtax/internal/api"
	"github.com/rgehrsitz/njtax/internal/compare"
	"github.com/rgehrsitz/njtax/internal/domain"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the estimator and overviews over HTTP",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, ds, logger := mustLoad()

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Address = addr
		}
		if cfg.Debug {
			cfg.Server.Mode = "debug"
		}

		if missing := missingOverviews(ds.State); missing > 0 {
			logger.Infof("%d towns have no stored overview; building in memory", missing)
			newBuilder(cfg, logger).BuildAll(ds.State)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		server := api.NewServer(ds, compare.NewDeriverWithThreshold(cfg.Comparison.ThresholdPct), logger)
		if err := server.Run(ctx, cfg.Server.Address, cfg.Server.Mode, cfg.Server.ShutdownTimeout); err != nil {
			log.Fatal(err)
		}
	},
}

// missingOverviews counts towns without a stored overview
func missingOverviews(state *domain.StateData) int {
	n := 0
	for _, c := range state.Counties {
		for _, t := range c.Towns {
			if t.Overview == nil {
				n++
			}
		}
	}
	return n
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.address and NJTAX_ADDR)")
	rootCmd.AddCommand(serveCmd)
}
