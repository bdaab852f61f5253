package notify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatOrderMessageStripsMarkup(t *testing.T) {
	msg := FormatOrderMessage(OrderNotification{
		OrderID:       "42",
		CustomerName:  `<script>alert("x")</script>Ali`,
		CustomerEmail: "ali@example.com",
		CustomerPhone: "0550123456",
		ProductName:   "FUNCAM",
		ProductPrice:  "1800 DA",
	})

	assert.NotContains(t, msg, "<")
	assert.NotContains(t, msg, ">")
	assert.NotContains(t, msg, `"`)
	assert.Contains(t, msg, "Ali")
	assert.Contains(t, msg, "FUNCAM")
	assert.Contains(t, msg, "1800 DA")
}

func TestFormatOrderMessagePreservesPlainFields(t *testing.T) {
	msg := FormatOrderMessage(OrderNotification{
		OrderID:      "7",
		CustomerName: "Fatima Zohra",
		ProductName:  "IPTV Premium 12 mois",
		ProductPrice: "3500 DA",
	})

	for _, want := range []string{"Fatima Zohra", "IPTV Premium 12 mois", "3500 DA"} {
		assert.True(t, strings.Contains(msg, want), "message should contain %q", want)
	}
}
