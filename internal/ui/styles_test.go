package ui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuccess(t *testing.T) {
	out := Success("💰 Shipping Cost: ₹ 100", "Shipping_Cost")

	assert.Contains(t, out, "💰 Shipping Cost: ₹ 100")
	assert.Contains(t, out, "via Shipping_Cost")

	assert.NotContains(t, Success("Hello", ""), "via")
}

func TestWarningAndError(t *testing.T) {
	assert.Contains(t, Warning("Please enter a query."), "Please enter a query.")
	assert.Contains(t, Error(errors.New("boom")), "Error: boom")
}
