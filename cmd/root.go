package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/soundleaf/audioconv/internal/config"
	"github.com/soundleaf/audioconv/internal/fetch"
	"github.com/soundleaf/audioconv/internal/ingest"
	"github.com/soundleaf/audioconv/internal/logging"
	"github.com/soundleaf/audioconv/internal/meta"
	"github.com/soundleaf/audioconv/internal/pipeline"
	"github.com/soundleaf/audioconv/internal/server"
	"github.com/soundleaf/audioconv/internal/transcode"
	"github.com/soundleaf/audioconv/internal/workspace"
)

var (
	configPath string
	listenAddr string
	ffmpegPath string
	debug      bool
)

var Version = "dev"

var rootCmd = &cobra.Command{
	Use:     "audioconv",
	Short:   "Audioconv converts uploaded or direct-link audio to WAV/AIFF over HTTP",
	Version: Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(debug)
		log := logging.Get("main")

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if listenAddr != "" {
			cfg.Listen = listenAddr
		}
		if ffmpegPath != "" {
			cfg.FFmpegPath = ffmpegPath
		}

		headClient := fetch.NewClient(fetch.ClientConfig{
			Timeout:   cfg.HeadTimeout.Std(),
			UserAgent: cfg.UserAgent,
			Headers:   cfg.Headers,
		})
		getClient := fetch.NewClient(fetch.ClientConfig{
			HeaderTimeout: cfg.GetTimeout.Std(),
			UserAgent:     cfg.UserAgent,
			Headers:       cfg.Headers,
		})
		metaClient := fetch.NewClient(fetch.ClientConfig{
			Timeout:   cfg.HeadTimeout.Std(),
			UserAgent: cfg.UserAgent,
		})

		runner := &pipeline.Runner{
			Workspaces: workspace.NewManager(cfg.TempDir),
			Acquirer: ingest.NewAcquirer(headClient, getClient, ingest.Options{
				Blocked:  ingest.NewHostBlocklist(cfg.BlockedHosts),
				MaxBytes: cfg.MaxBytes,
			}),
			Transcoder: transcode.New(cfg.FFmpegPath),
		}
		srv := server.New(cfg.Listen, runner, meta.NewClient(metaClient, meta.DefaultEndpoints()))

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.ListenAndServe()
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case err := <-errCh:
			return err
		case sig := <-sigCh:
			log.Info().Str("signal", sig.String()).Msg("Shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to yaml config file")
	rootCmd.Flags().StringVarP(&listenAddr, "listen", "l", "", "Listen address (overrides config)")
	rootCmd.Flags().StringVar(&ffmpegPath, "ffmpeg", "", "Path to the ffmpeg binary (overrides config)")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")
}
