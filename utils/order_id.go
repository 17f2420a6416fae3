package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DefaultOrderSourceTag is used when the configured tag is empty or unusable
const DefaultOrderSourceTag = "ORD"

const (
	invoiceDigits     = 9
	invoiceKeep       = 6
	fallbackInvoice   = "000000000"
	comprobantePrefix = "001-002-"
)

var (
	dateSegment = regexp.MustCompile(`^\d{8}$`)
	timeSegment = regexp.MustCompile(`^\d{6}$`)
	digitsOnly  = regexp.MustCompile(`\D`)
)

// GenerateOrderID builds an order id of the form {tag}_{invoice}_{YYYYMMDD}_{HHMMSS}
// Example: GenerateOrderID("ORD", "0991234567", t) -> "ORD_000234567_20260115_103000"
// Two checkouts by the same user within the same second produce the same id.
func GenerateOrderID(tag, userID string, now time.Time) string {
	return fmt.Sprintf("%s_%s_%s_%s", sanitizeTag(tag), InvoiceNumber(userID), now.Format("20060102"), now.Format("150405"))
}

// InvoiceNumber derives the 9 digit invoice number from a user id.
// Only the digits of the id are considered; the last 6 are kept and left-padded with zeros.
// Ids without digits yield "000000000".
func InvoiceNumber(userID string) string {
	digits := digitsOnly.ReplaceAllString(userID, "")
	if digits == "" {
		return fallbackInvoice
	}
	if len(digits) > invoiceKeep {
		digits = digits[len(digits)-invoiceKeep:]
	}
	return strings.Repeat("0", invoiceDigits-len(digits)) + digits
}

// ValidOrderID checks the 4 segment shape produced by GenerateOrderID
func ValidOrderID(orderID string) bool {
	parts := strings.Split(orderID, "_")
	if len(parts) != 4 {
		return false
	}
	return parts[0] != "" && len(parts[1]) == invoiceDigits &&
		dateSegment.MatchString(parts[2]) && timeSegment.MatchString(parts[3])
}

// InvoiceFromOrderID returns the invoice segment of an order id, or the fallback invoice
func InvoiceFromOrderID(orderID string) string {
	parts := strings.Split(orderID, "_")
	if len(parts) != 4 || len(parts[1]) != invoiceDigits {
		return fallbackInvoice
	}
	return parts[1]
}

// Comprobante returns the receipt number printed for an order: 001-002-{invoice}
func Comprobante(orderID string) string {
	return comprobantePrefix + InvoiceFromOrderID(orderID)
}

func sanitizeTag(tag string) string {
	tag = strings.ReplaceAll(strings.TrimSpace(tag), "_", "")
	if tag == "" {
		return DefaultOrderSourceTag
	}
	return tag
}
