package utils

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// GenerateInvoiceNo builds an invoice number without the remote sequence:
// INV-<yyyymmddhhmmss>-<first 8 hex digits of id>.
func GenerateInvoiceNo(id uuid.UUID, at time.Time) string {
	hex := strings.ReplaceAll(id.String(), "-", "")
	return fmt.Sprintf("INV-%s-%s", at.UTC().Format("20060102150405"), strings.ToUpper(hex[:8]))
}

// LineItemID derives a stable id for the line at position of an invoice, so
// that re-sending the same sale produces the same rows.
func LineItemID(invoiceID uuid.UUID, position int) uuid.UUID {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(position))
	return uuid.NewSHA1(invoiceID, b[:])
}
