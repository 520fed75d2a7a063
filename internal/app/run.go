// Package app – run sequence
//
// The overall control flow mirrors the tool's contract: fetch, then filter,
// then notify, then print, then record. Fatal errors (API, credentials,
// store) propagate to the caller; per-order notification failures are
// logged and never stop the remaining orders.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tbourn/shipstation-cli/internal/domain"
	"github.com/tbourn/shipstation-cli/internal/shipstation"
)

// Run executes one invocation with the given options.
//
// A missed --order lookup is reported on the console but is not an error:
// the run still succeeds. Every other failure is returned to the caller.
func (a *App) Run(ctx context.Context, opts Options) error {
	if opts.ListStores {
		return a.runListStores(ctx)
	}
	if opts.OrderNumber != "" {
		return a.runOrderLookup(ctx, opts.OrderNumber)
	}
	return a.runFetch(ctx, opts)
}

// runListStores prints all stores as "id: name", sorted by name.
func (a *App) runListStores(ctx context.Context) error {
	stores, err := a.Source.ListStores(ctx)
	if err != nil {
		return err
	}
	sort.Slice(stores, func(i, j int) bool {
		return stores[i].StoreName < stores[j].StoreName
	})
	fmt.Fprintln(a.Out, "Available stores:")
	fmt.Fprintln(a.Out, strings.Repeat("-", 50))
	for _, s := range stores {
		fmt.Fprintf(a.Out, "  %d: %s\n", s.StoreID, s.StoreName)
	}
	return nil
}

// runOrderLookup fetches one order by number and dumps it as JSON.
func (a *App) runOrderLookup(ctx context.Context, number string) error {
	order, err := a.Source.FetchOrderByNumber(ctx, number)
	if errors.Is(err, shipstation.ErrOrderNotFound) {
		fmt.Fprintf(a.Out, "Order %s not found.\n", number)
		return nil
	}
	if err != nil {
		return err
	}
	buf, err := json.MarshalIndent(order, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(a.Out, string(buf))
	return nil
}

// runFetch is the main path: fetch orders, filter, render, notify, record.
func (a *App) runFetch(ctx context.Context, opts Options) error {
	status := opts.Status
	if status == "all" {
		status = ""
	}

	// Resolve store names to IDs for server-side filtering. The store map
	// is also needed to label Slack messages.
	var storeMap map[int64]string
	if len(opts.Stores) > 0 || opts.Slack {
		stores, err := a.Source.ListStores(ctx)
		if err != nil {
			return err
		}
		storeMap = make(map[int64]string, len(stores))
		for _, s := range stores {
			storeMap[s.StoreID] = s.StoreName
		}
	}
	storeIDs := a.resolveStoreNames(opts.Stores, storeMap)

	orders, err := a.fetchOrders(ctx, status, storeIDs)
	if err != nil {
		return err
	}

	if opts.Country != "" {
		orders = a.filterCountry(orders, opts.Country)
	}

	// Seen-set handling. With --new-only everything left is new by
	// construction; otherwise the map drives the [NEW] markers.
	var seen map[int64]bool
	if opts.NewOnly {
		orders, err = a.Seen.FilterNew(ctx, orders)
		if err != nil {
			return err
		}
		seen = map[int64]bool{}
	} else {
		seen, err = a.Seen.SeenIDs(ctx, orders)
		if err != nil {
			return err
		}
	}

	if opts.JSON {
		if err := a.printJSON(orders, seen); err != nil {
			return err
		}
		return a.Seen.MarkSeen(ctx, orders, a.now())
	}

	newCount := 0
	for _, o := range orders {
		if !seen[o.OrderID] {
			newCount++
		}
	}
	header := fmt.Sprintf("Found %d order(s)", len(orders))
	if newCount > 0 {
		header += fmt.Sprintf(" (%d new)", newCount)
	}
	fmt.Fprintln(a.Out, header)
	fmt.Fprintln(a.Out, strings.Repeat("-", 80))

	if len(orders) == 0 {
		fmt.Fprintln(a.Out, "No orders found.")
		return nil
	}

	sent := 0
	for _, o := range orders {
		fmt.Fprintln(a.Out, FormatOrder(o, opts.Verbose, !seen[o.OrderID]))
		if opts.Verbose {
			fmt.Fprintln(a.Out)
		}
		if opts.Slack {
			storeName := storeMap[o.StoreID()]
			if storeName == "" {
				storeName = "Unknown"
			}
			if err := a.Notifier.Notify(ctx, o, storeName); err != nil {
				a.Log.Error().Err(err).Str("order", o.OrderNumber).Msg("notification failed")
				continue
			}
			sent++
		}
	}
	if opts.Slack {
		fmt.Fprintf(a.Out, "Sent %d order(s) to Slack\n", sent)
	}

	return a.Seen.MarkSeen(ctx, orders, a.now())
}

// resolveStoreNames maps user-supplied store names to IDs, matching
// case-insensitively. Unknown names are warned about and skipped.
func (a *App) resolveStoreNames(names []string, storeMap map[int64]string) []int64 {
	if len(names) == 0 {
		return nil
	}
	nameToID := make(map[string]int64, len(storeMap))
	for id, name := range storeMap {
		nameToID[strings.ToLower(name)] = id
	}
	var ids []int64
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if id, ok := nameToID[name]; ok {
			ids = append(ids, id)
		} else {
			a.Log.Warn().Str("store", strings.TrimSpace(raw)).
				Msg("store not found; use --list-stores to see available stores")
		}
	}
	a.Log.Debug().Strs("names", names).Ints64("store_ids", ids).Msg("resolved store filter")
	return ids
}

// fetchOrders queries the source once per resolved store ID (or once with
// no store filter) and merges the results newest-first.
func (a *App) fetchOrders(ctx context.Context, status string, storeIDs []int64) ([]domain.Order, error) {
	a.Log.Debug().Str("status", status).Msg("fetching orders")

	if len(storeIDs) == 0 {
		return a.Source.FetchOrders(ctx, shipstation.OrderQuery{Status: status})
	}

	var merged []domain.Order
	for _, id := range storeIDs {
		orders, err := a.Source.FetchOrders(ctx, shipstation.OrderQuery{Status: status, StoreID: id})
		if err != nil {
			return nil, err
		}
		merged = append(merged, orders...)
	}
	if len(storeIDs) > 1 {
		// ISO-8601 strings order lexicographically.
		sort.SliceStable(merged, func(i, j int) bool {
			return merged[i].CreateDate > merged[j].CreateDate
		})
	}
	return merged, nil
}

// filterCountry keeps orders shipping to the given country code,
// case-insensitively.
func (a *App) filterCountry(orders []domain.Order, country string) []domain.Order {
	want := strings.ToUpper(country)
	a.Log.Debug().Str("country", want).Msg("filtering by country")

	kept := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		got := strings.ToUpper(o.ShipTo.Country)
		if got == want {
			kept = append(kept, o)
			continue
		}
		a.Log.Debug().Str("order", o.OrderNumber).Str("country", got).Msg("order excluded by country filter")
	}
	a.Log.Debug().Int("before", len(orders)).Int("after", len(kept)).Msg("country filter applied")
	return kept
}

// orderJSON decorates an order with its seen status for --json output.
type orderJSON struct {
	domain.Order
	IsNew bool `json:"_isNew"`
}

// printJSON emits the structured dump: all orders plus a total, each order
// annotated with _isNew.
func (a *App) printJSON(orders []domain.Order, seen map[int64]bool) error {
	out := struct {
		Orders []orderJSON `json:"orders"`
		Total  int         `json:"total"`
	}{
		Orders: make([]orderJSON, 0, len(orders)),
		Total:  len(orders),
	}
	for _, o := range orders {
		out.Orders = append(out.Orders, orderJSON{Order: o, IsNew: !seen[o.OrderID]})
	}
	buf, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(a.Out, string(buf))
	return nil
}
