package app

import (
	"strings"
	"testing"

	"github.com/tbourn/shipstation-cli/internal/domain"
)

func formatFixture() domain.Order {
	return domain.Order{
		OrderNumber:              "1001",
		OrderStatus:              "awaiting_shipment",
		OrderDate:                "2024-05-01T09:30:00",
		OrderTotal:               42.5,
		RequestedShippingService: "USPS Priority Mail",
		ShipTo: domain.Address{
			Name:       "Jane Doe",
			Street1:    "1 Main St",
			City:       "Springfield",
			State:      "IL",
			PostalCode: "62701",
			Country:    "US",
		},
		Items: []domain.OrderItem{
			{SKU: "W-1", Name: "Widget", Quantity: 2},
		},
	}
}

func TestFormatOrder_Summary(t *testing.T) {
	got := FormatOrder(formatFixture(), false, false)
	want := "#1001 | awaiting_shipment | 2024-05-01 | Jane Doe | $42.50 | 1 item(s)"
	if got != want {
		t.Fatalf("FormatOrder = %q; want %q", got, want)
	}
}

func TestFormatOrder_NewMarker(t *testing.T) {
	got := FormatOrder(formatFixture(), false, true)
	if !strings.HasPrefix(got, "[NEW] #1001") {
		t.Fatalf("FormatOrder = %q; want [NEW] prefix", got)
	}
}

func TestFormatOrder_Verbose(t *testing.T) {
	got := FormatOrder(formatFixture(), true, false)

	for _, want := range []string{
		"  Items:",
		"- [W-1] Widget x2",
		"  Shipping: USPS Priority Mail",
		"  Ship To: 1 Main St, Springfield, IL 62701, US",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("verbose output missing %q:\n%s", want, got)
		}
	}
}

func TestFormatOrder_Verbose_SparseAddress(t *testing.T) {
	o := formatFixture()
	o.ShipTo.Street1 = ""
	o.ShipTo.Street2 = ""
	o.ShipTo.PostalCode = ""

	got := FormatOrder(o, true, false)
	if !strings.Contains(got, "  Ship To: Springfield, IL, US") {
		t.Fatalf("sparse address rendering:\n%s", got)
	}
}
