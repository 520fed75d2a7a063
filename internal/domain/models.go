// Package domain defines the data types exchanged with the ShipStation API
// and the single persistence model of the tool. The API types are decoded
// straight from ShipStation's JSON and are treated as immutable snapshots;
// SeenOrder is mapped with GORM and backs the local seen-order store.
package domain

import (
	"strings"
	"time"
)

// Store represents a ShipStation sales channel (e.g. a Shopify shop or an
// Amazon seller account). Stores are fetched on demand to resolve
// user-supplied store names into IDs and are never persisted.
type Store struct {
	StoreID   int64  `json:"storeId"`
	StoreName string `json:"storeName"`
}

// Address is the ship-to block attached to an order.
type Address struct {
	Name       string `json:"name"`
	Street1    string `json:"street1"`
	Street2    string `json:"street2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// OrderItem is a single line item on an order.
type OrderItem struct {
	SKU       string  `json:"sku"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// AdvancedOptions carries the subset of ShipStation's advancedOptions block
// this tool cares about (the owning store).
type AdvancedOptions struct {
	StoreID int64 `json:"storeId"`
}

// Order is a purchase record as returned by the ShipStation orders API.
// Orders are owned and mutated by ShipStation; this tool only reads them.
//
// Fields:
//   - OrderID: ShipStation's internal numeric identifier; the key used by
//     the seen-order store.
//   - OrderNumber: the merchant-facing order number shown to users.
//   - OrderDate / CreateDate: ISO-8601 timestamps as raw strings; they are
//     only split and compared, never parsed into time.Time.
//   - OrderStatus: e.g. "awaiting_shipment", "shipped".
//   - ShipTo: destination address, also the source of the customer name.
//   - Items: line items, rendered in verbose output and Slack messages.
type Order struct {
	OrderID                  int64           `json:"orderId"`
	OrderNumber              string          `json:"orderNumber"`
	OrderKey                 string          `json:"orderKey"`
	OrderDate                string          `json:"orderDate"`
	CreateDate               string          `json:"createDate"`
	OrderStatus              string          `json:"orderStatus"`
	OrderTotal               float64         `json:"orderTotal"`
	RequestedShippingService string          `json:"requestedShippingService"`
	ShipTo                   Address         `json:"shipTo"`
	Items                    []OrderItem     `json:"items"`
	AdvancedOptions          AdvancedOptions `json:"advancedOptions"`
}

// StoreID returns the sales channel the order belongs to.
func (o Order) StoreID() int64 { return o.AdvancedOptions.StoreID }

// DateOnly returns the calendar-date part of OrderDate ("2024-01-02" from
// "2024-01-02T15:04:05"), or the raw value if there is no time component.
func (o Order) DateOnly() string {
	if i := strings.IndexByte(o.OrderDate, 'T'); i >= 0 {
		return o.OrderDate[:i]
	}
	return o.OrderDate
}

// SeenOrder records that an order has been reported in a previous run.
// Rows are inserted the first time an order is displayed and are never
// updated or deleted; OrderID is the natural primary key, so re-inserting
// the same order is a no-op.
//
// Besides the identifier the row keeps a small snapshot (number, dates,
// store, customer, total) so the database is inspectable on its own.
type SeenOrder struct {
	OrderID      int64     `gorm:"column:order_id;primaryKey;autoIncrement:false"`
	OrderNumber  string    `gorm:"column:order_number;type:TEXT"`
	FirstSeenAt  time.Time `gorm:"column:first_seen_at;type:DATETIME"`
	OrderDate    string    `gorm:"column:order_date;type:TEXT"`
	StoreID      int64     `gorm:"column:store_id;type:INTEGER"`
	CustomerName string    `gorm:"column:customer_name;type:TEXT"`
	OrderTotal   float64   `gorm:"column:order_total;type:REAL"`
}

// TableName implements the GORM tabler interface.
func (SeenOrder) TableName() string { return "seen_orders" }
