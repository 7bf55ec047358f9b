package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"

	"github.com/linknk/satellite-payments/internal/logging"
	"github.com/linknk/satellite-payments/internal/poller"
)

var (
	baseURL  string
	interval time.Duration
	deadline time.Duration
	timeout  time.Duration
	verbose  bool
	rootCmd  *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "stkpoll",
		Short: "stkpoll - start and follow M-Pesa STK push payments",
		Long: `stkpoll talks to the satellite bundle payment API.

It can send an STK push to a phone and then follow the payment until the
customer approves or declines it, or until the wait times out.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", envOr("APP_BASE_URL", "http://localhost:8080"), "Payment API base URL")
	rootCmd.PersistentFlags().DurationVar(&interval, "interval", poller.DefaultInterval, "Time between status checks")
	rootCmd.PersistentFlags().DurationVar(&deadline, "timeout", poller.DefaultDeadline, "Give up after this long")
	rootCmd.PersistentFlags().DurationVar(&timeout, "request-timeout", 15*time.Second, "Per-request HTTP timeout")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(pushCmd)
}

// Execute runs the root command
func Execute(version string) error {
	// Ctrl+C stops a running poll
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd.Version = version
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func newLogger() *log.Logger {
	level := "warn"
	if verbose {
		level = "debug"
	}
	return logging.New("stkpoll", level)
}

func newPoller(client poller.StatusFetcher) *poller.Poller {
	return poller.New(client, newLogger()).WithTiming(interval, deadline)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
