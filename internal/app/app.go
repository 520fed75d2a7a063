// Package app implements the command orchestrator: it interprets the
// invocation options, sequences the ShipStation client, the seen-order
// store, and the Slack notifier, and renders the result to the console.
// The orchestrator holds no state of its own.
//
// Dependencies are interfaces so tests can substitute fakes for the API
// client and the notifier while exercising the real store.
package app

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/tbourn/shipstation-cli/internal/domain"
	"github.com/tbourn/shipstation-cli/internal/shipstation"
)

// OrderSource fetches stores and orders from the order-management API.
// *shipstation.Client is the production implementation.
type OrderSource interface {
	ListStores(ctx context.Context) ([]domain.Store, error)
	FetchOrders(ctx context.Context, q shipstation.OrderQuery) ([]domain.Order, error)
	FetchOrderByNumber(ctx context.Context, number string) (*domain.Order, error)
}

// SeenStore is the durable record of previously reported orders.
// *repo.SeenStore is the production implementation.
type SeenStore interface {
	SeenIDs(ctx context.Context, orders []domain.Order) (map[int64]bool, error)
	FilterNew(ctx context.Context, orders []domain.Order) ([]domain.Order, error)
	MarkSeen(ctx context.Context, orders []domain.Order, now time.Time) error
}

// Notifier delivers one order notification. *slack.Notifier is the
// production implementation.
type Notifier interface {
	Notify(ctx context.Context, order domain.Order, storeName string) error
}

// Options are the interpreted command-line flags for a single run.
type Options struct {
	Stores      []string // store names to filter by (case-insensitive)
	Country     string   // ship-to country code filter (e.g. "US")
	Status      string   // order status filter; "all" disables it
	OrderNumber string   // fetch a single order by number
	NewOnly     bool     // suppress previously seen orders
	ListStores  bool     // list stores and exit
	Slack       bool     // send each displayed order to Slack
	Verbose     bool     // per-order detail in console output
	JSON        bool     // structured output instead of the summary
}

// App wires the components for one invocation.
type App struct {
	Source   OrderSource
	Seen     SeenStore
	Notifier Notifier
	Out      io.Writer
	Log      zerolog.Logger

	// Now supplies the first-seen timestamp; defaults to time.Now.
	Now func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}
