package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/dipdup-io/order-tracker/internal/caller"
	"github.com/dipdup-io/order-tracker/internal/metrics"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const defaultDatasource = "order_service"

var (
	rootCmd = &cobra.Command{
		Use:   "orders",
		Short: "Sends orders to the order service and tracks their processing",
	}
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "2006-01-02 15:04:05",
	}).Level(zerolog.InfoLevel)

	configPath := rootCmd.PersistentFlags().StringP("config", "c", "orders.yml", "path to YAML config file")
	envPath := rootCmd.PersistentFlags().String("env", ".env", "path to optional .env file")
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return run(*configPath, *envPath)
	}

	if err := rootCmd.Execute(); err != nil {
		log.Err(err).Msg("command line execute")
		os.Exit(1)
	}
}

func run(configPath, envPath string) error {
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", envPath).Msg("loading .env")
	}

	cfg, err := Load(configPath)
	if err != nil {
		return err
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = zerolog.LevelInfoValue
	}

	logLevel, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(logLevel)
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		short := file
		for i := len(file) - 1; i > 0; i-- {
			if file[i] == '/' {
				short = file[i+1:]
				break
			}
		}
		file = short
		return file + ":" + strconv.Itoa(line)
	}
	log.Logger = log.Logger.With().Caller().Logger()

	ds, err := cfg.DataSource()
	if err != nil {
		return err
	}
	orderService, err := caller.NewHTTPCaller(ds)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	m := metrics.New()
	console := NewConsole(os.Stdout)
	tracker := NewTracker(cfg.Orders, orderService, console, m)
	tracker.Start(ctx)

	log.Info().Str("url", ds.URL).Msg("tracking orders")

	g, gCtx := errgroup.WithContext(ctx)
	if cfg.Prometheus != nil && cfg.Prometheus.URL != "" {
		g.Go(func() error {
			return m.Serve(gCtx, cfg.Prometheus.URL)
		})
	}
	g.Go(func() error {
		defer cancel()
		return console.Run(gCtx, os.Stdin, tracker)
	})

	runErr := g.Wait()

	if err := tracker.Close(); err != nil {
		log.Err(err).Msg("closing tracker")
	}
	return runErr
}
