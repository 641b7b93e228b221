package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dipdup-io/order-tracker/internal/mockservice"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	rootCmd = &cobra.Command{
		Use:   "mockservice",
		Short: "In-memory order service for manual runs of the order tracker",
	}
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "2006-01-02 15:04:05",
	}).Level(zerolog.InfoLevel)

	listen := rootCmd.Flags().StringP("listen", "l", ":8080", "listen address")
	prefix := rootCmd.Flags().String("prefix", "/api/pedidos", "order API path prefix")
	delay := rootCmd.Flags().Duration("delay", 10*time.Second, "time until order gets its result")
	result := rootCmd.Flags().String("result", mockservice.LabelSuccess, "result label reported after delay")

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return serve(*listen, mockservice.Config{
			Prefix: *prefix,
			Delay:  *delay,
			Result: *result,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		log.Err(err).Msg("command line execute")
		os.Exit(1)
	}
}

func serve(address string, cfg mockservice.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	srv := &http.Server{
		Addr:              address,
		Handler:           mockservice.New(cfg).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("address", address).Str("prefix", cfg.Prefix).Msg("order service started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
