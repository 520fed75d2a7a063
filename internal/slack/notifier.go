// Package slack delivers per-order notifications through Slack's
// chat.postMessage API. Each order is rendered as a small Block Kit
// message: a header line with order number, store, and total, the customer
// name, the ship-to location as a Google Maps link, and one line per order
// item, followed by a divider.
//
// Delivery is best-effort per order; errors are returned to the caller,
// which logs them and continues with the remaining orders.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tbourn/shipstation-cli/internal/config"
	"github.com/tbourn/shipstation-cli/internal/domain"
)

// ErrMissingConfig is returned without a network call when the bot token
// or the channel is not configured.
var ErrMissingConfig = errors.New("slack: SLACK_BOT_TOKEN and SLACK_CHANNEL must be set")

// Notifier posts order notifications to a single configured channel.
// Construct it with New; the zero value fails every Notify call with
// ErrMissingConfig.
type Notifier struct {
	token   string
	channel string
	apiURL  string
	http    *http.Client
}

// New builds a Notifier from the given configuration.
func New(cfg config.Config) *Notifier {
	return &Notifier{
		token:   cfg.Slack.Token,
		channel: cfg.Slack.Channel,
		apiURL:  cfg.Slack.APIURL,
		http:    &http.Client{Timeout: cfg.HTTPTimeout},
	}
}

type textObject struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type block struct {
	Type string      `json:"type"`
	Text *textObject `json:"text,omitempty"`
}

type message struct {
	Channel     string  `json:"channel"`
	UnfurlLinks bool    `json:"unfurl_links"`
	UnfurlMedia bool    `json:"unfurl_media"`
	Blocks      []block `json:"blocks"`
}

type apiResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// Notify renders order as a Block Kit message and posts it to the
// configured channel. storeName labels the order's sales channel and may
// be "Unknown" when the store map is unavailable.
func (n *Notifier) Notify(ctx context.Context, order domain.Order, storeName string) error {
	if n.token == "" || n.channel == "" {
		return ErrMissingConfig
	}

	msg := message{
		Channel: n.channel,
		Blocks: []block{
			{Type: "section", Text: &textObject{Type: "mrkdwn", Text: renderText(order, storeName)}},
			{Type: "divider"},
		},
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("slack: encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("slack: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+n.token)

	resp, err := n.http.Do(req)
	if err != nil {
		return fmt.Errorf("slack: send: %w", err)
	}
	defer resp.Body.Close()

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("slack: decode response: %w", err)
	}
	if !out.OK {
		return fmt.Errorf("slack: API error: %s", out.Error)
	}
	return nil
}

// titleCaser normalizes shouty ship-to cities ("LONDON" -> "London").
var titleCaser = cases.Title(language.English)

// renderText builds the mrkdwn body of the notification.
func renderText(order domain.Order, storeName string) string {
	ship := order.ShipTo
	city := titleCaser.String(strings.ToLower(ship.City))

	display := joinNonEmpty(", ", city, ship.State, ship.Country)
	full := joinNonEmpty(", ", ship.Street1, city, ship.State, ship.PostalCode, ship.Country)
	mapsURL := "https://www.google.com/maps/search/?api=1&query=" + url.QueryEscape(full)
	location := fmt.Sprintf("<%s|%s>", mapsURL, display)

	var items strings.Builder
	for i, item := range order.Items {
		if i > 0 {
			items.WriteByte('\n')
		}
		name := item.Name
		if name == "" {
			name = "Item"
		}
		fmt.Fprintf(&items, "%dx %s", item.Quantity, name)
	}

	return fmt.Sprintf("\U0001F4E6 *#%s* · %s · $%.2f\n\n%s\n%s\n\n%s",
		order.OrderNumber, storeName, order.OrderTotal, ship.Name, location, items.String())
}

// joinNonEmpty joins the non-blank parts with sep.
func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
