package payout

import (
	"context"
	"errors"
	"time"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrUnsupportedMethod   = errors.New("unsupported payout method")
	ErrInvalidInput        = errors.New("invalid payout input")
	ErrInvalidTransaction  = errors.New("malformed transaction")
)

// Status is a transaction's lifecycle state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// statusOrder supports monotonicity checks: pending < processing < completed.
var statusOrder = map[Status]int{
	StatusPending:    0,
	StatusProcessing: 1,
	StatusCompleted:  2,
}

// AtLeast reports whether s is at or past other in the normal
// progression. Failed is terminal and outside the ordering.
func (s Status) AtLeast(other Status) bool {
	return statusOrder[s] >= statusOrder[other]
}

// Transaction is a single simulated payout attempt.
//
// ID, method, amount, currency, initiated_at, recipient, and
// estimated_arrival are fixed at initiation. Status, completed_at, and
// confirmation_code are recomputed in place on each status check as a
// pure function of elapsed time.
type Transaction struct {
	ID               string     `json:"id"`
	Method           Method     `json:"method"`
	Amount           float64    `json:"amount"`
	Currency         string     `json:"currency"`
	Status           Status     `json:"status"`
	InitiatedAt      time.Time  `json:"initiatedAt"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
	ConfirmationCode string     `json:"confirmationCode,omitempty"`
	RecipientAddress string     `json:"recipientAddress,omitempty"`
	EstimatedArrival *time.Time `json:"estimatedArrival,omitempty"`
}

// ProgressPercentage maps status to a coarse display bucket.
// Fixed buckets, not a continuous interpolation of elapsed time.
func (t *Transaction) ProgressPercentage() int {
	switch t.Status {
	case StatusCompleted:
		return 100
	case StatusProcessing:
		return 60
	case StatusPending:
		return 20
	default:
		return 0
	}
}

// Store holds transactions keyed by ID. Each transaction lives in its
// own slot; there is no single "current transaction".
type Store interface {
	Create(ctx context.Context, tx *Transaction) error
	Get(ctx context.Context, id string) (*Transaction, error)
	Update(ctx context.Context, tx *Transaction) error
	List(ctx context.Context) ([]*Transaction, error)
}
