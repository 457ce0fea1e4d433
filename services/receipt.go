package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewReceiptNo returns an identifier like RCPT-20260829T101530-1a2b3c4d:
// a UTC time component for human-sortable reference plus a random
// suffix against collisions within the same second.
func NewReceiptNo() string {
	return fmt.Sprintf("RCPT-%s-%s",
		time.Now().UTC().Format("20060102T150405"),
		uuid.NewString()[:8])
}

// NewTransactionRef is used when the payer did not supply a gateway
// reference of their own.
func NewTransactionRef() string {
	return fmt.Sprintf("TXN-%s-%s",
		time.Now().UTC().Format("20060102T150405"),
		uuid.NewString()[:8])
}
