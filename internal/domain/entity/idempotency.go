package entity

import (
	"time"
)

// IdempotencyKey stores the response of a processed request so that a retried
// request replays it instead of creating a second record.
type IdempotencyKey struct {
	Key          string    `json:"key"`
	Scope        string    `json:"scope"`    // user id or "anonymous"
	Endpoint     string    `json:"endpoint"` // e.g. "POST /api/v1/sales"
	ResponseCode int       `json:"response_code"`
	ResponseBody string    `json:"response_body"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// IsExpired checks if the idempotency key has expired
func (i *IdempotencyKey) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}
