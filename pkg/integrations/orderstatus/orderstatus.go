package orderstatus

import (
	"context"
	"fmt"
	"strings"

	"github.com/flowbaker/order-assistant/pkg/ai-sdk/tool"
)

const (
	ToolName        = "Order_Status"
	ToolDescription = "Track order status using order_id"

	NotFoundMessage = "❌ Order not found"
)

type Status string

const (
	StatusShipped   Status = "Shipped"
	StatusInTransit Status = "In Transit"
	StatusDelivered Status = "Delivered"
)

var orders = map[string]Status{
	"ORD123": StatusShipped,
	"ORD456": StatusInTransit,
	"ORD789": StatusDelivered,
}

type Args struct {
	OrderID string `json:"order_id" jsonschema:"The order identifier, for example ORD123"`
}

// FindStatus looks an order up by its identifier, ignoring case.
func FindStatus(orderID string) (Status, bool) {
	status, ok := orders[strings.ToUpper(orderID)]
	return status, ok
}

// LookupOrderStatus returns the user-facing status line for an order.
// An unknown identifier is a normal answer, not an error.
func LookupOrderStatus(orderID string) string {
	status, ok := FindStatus(orderID)
	if !ok {
		return NotFoundMessage
	}

	return fmt.Sprintf("📦 Your order status: %s", status)
}

func NewTool() tool.Tool {
	return tool.MustDefineTyped(ToolName, ToolDescription, func(ctx context.Context, args Args) (string, error) {
		return LookupOrderStatus(args.OrderID), nil
	})
}
