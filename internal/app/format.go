package app

import (
	"fmt"
	"strings"

	"github.com/tbourn/shipstation-cli/internal/domain"
)

// FormatOrder renders one order as a console line. New orders get a [NEW]
// prefix; verbose adds the line items, the requested shipping service, and
// the ship-to address on indented follow-up lines.
func FormatOrder(o domain.Order, verbose, isNew bool) string {
	marker := ""
	if isNew {
		marker = "[NEW] "
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s#%s | %s | %s | %s | $%.2f | %d item(s)",
		marker, o.OrderNumber, o.OrderStatus, o.DateOnly(),
		o.ShipTo.Name, o.OrderTotal, len(o.Items))

	if !verbose {
		return b.String()
	}

	b.WriteString("\n  Items:")
	for _, item := range o.Items {
		fmt.Fprintf(&b, "\n    - [%s] %s x%d", item.SKU, item.Name, item.Quantity)
	}

	fmt.Fprintf(&b, "\n  Shipping: %s", o.RequestedShippingService)

	addr := o.ShipTo
	parts := []string{
		addr.Street1,
		addr.Street2,
		strings.TrimSpace(fmt.Sprintf("%s, %s %s", addr.City, addr.State, addr.PostalCode)),
		addr.Country,
	}
	kept := parts[:0:0]
	for _, p := range parts {
		if strings.TrimSpace(strings.Trim(p, ",")) != "" {
			kept = append(kept, p)
		}
	}
	fmt.Fprintf(&b, "\n  Ship To: %s", strings.Join(kept, ", "))

	return b.String()
}
