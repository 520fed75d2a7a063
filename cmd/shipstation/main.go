// Command shipstation fetches current orders from the ShipStation API,
// tracks which ones have been reported in previous runs, and optionally
// forwards new orders to Slack. It is designed for non-overlapping
// cron-style execution: one fetch, one report, exit.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tbourn/shipstation-cli/internal/app"
	"github.com/tbourn/shipstation-cli/internal/config"
	"github.com/tbourn/shipstation-cli/internal/repo"
	"github.com/tbourn/shipstation-cli/internal/shipstation"
	"github.com/tbourn/shipstation-cli/internal/slack"
	"github.com/tbourn/shipstation-cli/internal/sysutil"
)

// validStatuses are the order statuses ShipStation accepts as a filter,
// plus "all" to disable the filter.
var validStatuses = []string{
	"awaiting_payment", "awaiting_shipment", "pending_fulfillment",
	"shipped", "on_hold", "cancelled", "all",
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Msg(err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts app.Options
	var debug bool

	cmd := &cobra.Command{
		Use:   "shipstation",
		Short: "Fetch current orders from ShipStation",
		Long: `Fetch current orders from ShipStation.

Environment Variables:
  SHIPSTATION_API_KEY      Your ShipStation API key
  SHIPSTATION_API_SECRET   Your ShipStation API secret
  SLACK_BOT_TOKEN          Slack bot token (for --slack)
  SLACK_CHANNEL            Slack channel ID (for --slack)`,
		Example: `  shipstation --stores "My Store"              Fetch unshipped orders from a store
  shipstation --stores "My Store" --country US Filter by store and country
  shipstation --stores "My Store" --new-only   Show only new orders since last run
  shipstation --order 12345                    Fetch a specific order by number
  shipstation --list-stores                    List available stores`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Bare invocation prints help, like the usual first contact
			// with a cron tool.
			if cmd.Flags().NFlag() == 0 {
				return cmd.Help()
			}
			return run(cmd, opts, debug)
		},
	}

	f := cmd.Flags()
	f.StringSliceVar(&opts.Stores, "stores", nil, "comma-separated list of store names to filter by")
	f.StringVar(&opts.Country, "country", "", "filter by shipping country code (e.g., US, CA, GB)")
	f.StringVarP(&opts.Status, "status", "s", "awaiting_shipment",
		fmt.Sprintf("filter by order status (one of: %s)", strings.Join(validStatuses, ", ")))
	f.BoolVarP(&opts.NewOnly, "new-only", "n", false, "only show orders not seen in previous runs")
	f.StringVar(&opts.OrderNumber, "order", "", "fetch a specific order by order number (for debugging)")
	f.BoolVar(&opts.ListStores, "list-stores", false, "list all stores and their IDs")
	f.BoolVar(&opts.Slack, "slack", false, "send each order to Slack (requires SLACK_BOT_TOKEN and SLACK_CHANNEL)")
	f.BoolVarP(&opts.Verbose, "verbose", "v", false, "show detailed order information")
	f.BoolVarP(&opts.JSON, "json", "j", false, "output raw JSON response")
	f.BoolVar(&debug, "debug", false, "show debug info for filtering")

	return cmd
}

func run(cmd *cobra.Command, opts app.Options, debug bool) error {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg, debug)

	if !isValidStatus(opts.Status) {
		return fmt.Errorf("invalid status %q (expected one of: %s)",
			opts.Status, strings.Join(validStatuses, ", "))
	}
	if opts.Slack && !cfg.SlackConfigured() {
		return errors.New("--slack requires SLACK_BOT_TOKEN and SLACK_CHANNEL environment variables")
	}

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		return err
	}
	if err := repo.AutoMigrate(db); err != nil {
		return fmt.Errorf("seen-order store: %w", err)
	}

	a := &app.App{
		Source:   shipstation.New(cfg, logger),
		Seen:     &repo.SeenStore{DB: db},
		Notifier: slack.New(cfg),
		Out:      cmd.OutOrStdout(),
		Log:      logger,
	}
	return a.Run(cmd.Context(), opts)
}

// newLogger builds the process logger on stderr so that stdout stays
// parseable (--json). --debug wins over LOG_LEVEL.
func newLogger(cfg config.Config, debug bool) zerolog.Logger {
	if debug {
		sysutil.SetLogLevel("debug")
	} else {
		sysutil.SetLogLevel(cfg.LogLevel)
	}

	var logger zerolog.Logger
	if cfg.LogPretty && !sysutil.IsTruthy(os.Getenv("NO_COLOR")) {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	log.Logger = logger
	return logger
}

func isValidStatus(s string) bool {
	for _, v := range validStatuses {
		if s == v {
			return true
		}
	}
	return false
}
