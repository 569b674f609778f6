package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/PedroAlbaladejoLopez/Face-recognition/internal/config"
	"github.com/PedroAlbaladejoLopez/Face-recognition/internal/entity"
	"github.com/PedroAlbaladejoLopez/Face-recognition/pkg/gateway"
	"github.com/PedroAlbaladejoLopez/Face-recognition/pkg/log"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

const Version = "0.1.0"

var (
	appConfig   config.AppConfig
	backendRoot string
)

var rootCmd = &cobra.Command{
	Use:           "faceconsole",
	Short:         "Operator console for the face detection backend",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadEnv(log.NewLogger())
		appConfig = config.NewAppConfig()
		if backendRoot != "" {
			appConfig.BackendRoot = backendRoot
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&backendRoot, "backend", "", "detection backend root URL (default: BACKEND_ROOT or "+gateway.DefaultRoot+")")
}

func newGateway() gateway.IGateway {
	return gateway.New(gateway.Options{
		Root:    appConfig.BackendRoot,
		Timeout: appConfig.BackendTimeout,
		Logger:  log.NewLogger(),
	})
}

func readUpload(path string) (*entity.Upload, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return &entity.Upload{
		FileName:    filepath.Base(path),
		ContentType: http.DetectContentType(content),
		Content:     content,
	}, nil
}

func printJSON(w io.Writer, v interface{}) error {
	out, err := jsoniter.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
