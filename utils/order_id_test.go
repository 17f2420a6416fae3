package utils

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOrderIDShape(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 30, 5, 0, time.UTC)
	date := regexp.MustCompile(`^\d{8}$`)
	clock := regexp.MustCompile(`^\d{6}$`)

	users := []string{"0991234567", "42", "", "user_abc", "cliente-000123456789", "___"}
	tags := []string{"ORD", "PWA", "", "WEB_SHOP"}

	for _, tag := range tags {
		for _, user := range users {
			id := GenerateOrderID(tag, user, now)
			parts := strings.Split(id, "_")
			if assert.Len(t, parts, 4, id) {
				assert.Len(t, parts[1], 9, id)
				assert.Regexp(t, date, parts[2], id)
				assert.Regexp(t, clock, parts[3], id)
			}
			assert.True(t, ValidOrderID(id), id)
		}
	}
}

func TestGenerateOrderID(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 30, 5, 0, time.UTC)
	assert.Equal(t, "ORD_000234567_20260115_103005", GenerateOrderID("ORD", "0991234567", now))
	assert.Equal(t, "ORD_000000042_20260115_103005", GenerateOrderID("", "42", now))
}

func TestInvoiceNumber(t *testing.T) {
	tests := map[string]string{
		"0991234567": "000234567",
		"123":        "000000123",
		"":           "000000000",
		"anonymous":  "000000000",
		"u-12-34":    "000001234",
	}
	for user, want := range tests {
		assert.Equal(t, want, InvoiceNumber(user), user)
	}
}

func TestValidOrderID(t *testing.T) {
	assert.True(t, ValidOrderID("ORD_000234567_20260115_103005"))
	assert.False(t, ValidOrderID("ORD_000234567_20260115"))
	assert.False(t, ValidOrderID("ORD_234567_20260115_103005"))
	assert.False(t, ValidOrderID("ORD_000234567_2026011_103005"))
	assert.False(t, ValidOrderID("_000234567_20260115_103005"))
	assert.False(t, ValidOrderID("ORD_000234567_20260115_10300a"))
}

func TestComprobante(t *testing.T) {
	assert.Equal(t, "001-002-000234567", Comprobante("ORD_000234567_20260115_103005"))
	assert.Equal(t, "001-002-000000000", Comprobante("broken"))
}
