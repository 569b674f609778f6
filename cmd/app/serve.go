package main

import (
	"context"
	"time"

	"github.com/PedroAlbaladejoLopez/Face-recognition/internal/config"
	"github.com/PedroAlbaladejoLopez/Face-recognition/pkg/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the console HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	logger := log.NewLogger()

	server, err := config.NewServer(
		config.WithConfig(appConfig),
		config.WithFiber(config.NewFiber(appConfig)),
		config.WithLogger(logger),
		config.WithValidator(config.NewValidator()),
		config.WithGateway(newGateway()),
		config.WithViewStore(),
		config.WithMiddleware(),
		config.WithS3Archive(),
		config.WithUtils(),
	)
	if err != nil {
		return err
	}

	server.RegisterHandler()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Run()
	}()

	logger.Infof("Server started on port %s, backend %s", appConfig.Port, appConfig.BackendRoot)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	return server.Shutdown(10 * time.Second)
}
