package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/esg-insight/internal/archive"
	"github.com/sells-group/esg-insight/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis engine over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store, _, err := loadStore()
		if err != nil {
			return err
		}

		arch, err := archive.Open(ctx, cfg.Archive)
		if err != nil {
			return err
		}
		defer arch.Close()
		if err := arch.Migrate(ctx); err != nil {
			return err
		}

		serverCfg := cfg.Server
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			serverCfg.Port = port
		}

		zap.L().Info("dataset ready",
			zap.Int("rows", store.Size()),
			zap.Int("companies", store.Companies()))

		return server.New(store, arch, serverCfg, cfg.Accuracy).Run(ctx)
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
