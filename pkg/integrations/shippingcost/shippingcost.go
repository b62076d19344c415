package shippingcost

import (
	"context"
	"strconv"
	"strings"

	"github.com/flowbaker/order-assistant/pkg/ai-sdk/tool"
)

const (
	ToolName        = "Shipping_Cost"
	ToolDescription = "Calculate shipping cost"

	UnknownDestinationMessage = "❌ Unknown destination"
)

// Destination categories are matched exactly after trimming and lower-casing.
// Only these two exist.
const (
	DestinationIndia        = "india"
	DestinationOutsideIndia = "out side india"
)

var ratesPerUnit = map[string]float64{
	DestinationIndia:        50,
	DestinationOutsideIndia: 120,
}

type Args struct {
	Destination string  `json:"destination" jsonschema:"Either 'india' or 'out side india'"`
	Weight      float64 `json:"weight" jsonschema:"Parcel weight in units"`
}

// Rate returns the per-unit rate for a destination.
func Rate(destination string) (float64, bool) {
	rate, ok := ratesPerUnit[strings.ToLower(strings.TrimSpace(destination))]
	return rate, ok
}

// CalculateShippingCost returns the user-facing cost line. An unrecognized
// destination yields the unknown-destination message whatever the weight.
func CalculateShippingCost(destination string, weight float64) string {
	rate, ok := Rate(destination)
	if !ok {
		return UnknownDestinationMessage
	}

	return "💰 Shipping Cost: ₹ " + strconv.FormatFloat(weight*rate, 'f', -1, 64)
}

func NewTool() tool.Tool {
	return tool.MustDefineTyped(ToolName, ToolDescription, func(ctx context.Context, args Args) (string, error) {
		return CalculateShippingCost(args.Destination, args.Weight), nil
	})
}
