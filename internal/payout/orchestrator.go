package payout

import (
	"context"
	"fmt"
	"time"

	"github.com/ankitlade12/SafePassage/internal/idgen"
	"github.com/ankitlade12/SafePassage/internal/logging"
	"github.com/ankitlade12/SafePassage/internal/traces"
)

// Default recipient placeholders used in demo mode when the caller
// supplies none.
const (
	defaultWalletAddress = "0x742d35Cc6634C0532925a3b844Bc9e7595f0bEb1"
	defaultCashPhone     = "+15550100"
	defaultMobilePhone   = "+254700000000"
)

// Recipient carries the per-method delivery details for a payout.
// Only the fields relevant to the chosen method are read.
type Recipient struct {
	WalletAddress string `json:"walletAddress,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
	RoutingNumber string `json:"routingNumber,omitempty"`
	Name          string `json:"name,omitempty"`
	Phone         string `json:"phone,omitempty"`
}

// Orchestrator fronts the per-method payout machines. The clock is
// injectable so tests can drive state transitions without sleeping.
type Orchestrator struct {
	store Store
	now   func() time.Time
}

// NewOrchestrator creates an orchestrator over the given store.
func NewOrchestrator(store Store) *Orchestrator {
	return &Orchestrator{store: store, now: time.Now}
}

// WithClock overrides the orchestrator's time source.
func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

// Initiate creates a new transaction for the given method and persists
// it in pending state. Amount must be positive and the method known.
func (o *Orchestrator) Initiate(ctx context.Context, method Method, amount float64, currency string, recipient Recipient) (*Transaction, error) {
	ctx, span := traces.StartSpan(ctx, "payout.Initiate",
		traces.PayoutMethod(string(method)))
	defer span.End()

	if !method.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if currency == "" {
		return nil, fmt.Errorf("%w: currency is required", ErrInvalidInput)
	}

	now := o.now()
	arrival := now.Add(estimatedArrival[method])

	tx := &Transaction{
		Method:           method,
		Amount:           amount,
		Currency:         currency,
		Status:           StatusPending,
		InitiatedAt:      now,
		EstimatedArrival: &arrival,
	}

	switch method {
	case MethodCrypto:
		tx.ID = "0x" + idgen.Hex(32)
		tx.RecipientAddress = recipient.WalletAddress
		if tx.RecipientAddress == "" {
			tx.RecipientAddress = defaultWalletAddress
		}
	case MethodWire:
		tx.ID = "WIRE" + idgen.Digits(6)
		tx.ConfirmationCode = tx.ID
	case MethodCash:
		tx.ID = idgen.Digits(10) // MTCN
		tx.ConfirmationCode = "MTCN: " + tx.ID
		tx.RecipientAddress = recipient.Phone
		if tx.RecipientAddress == "" {
			tx.RecipientAddress = defaultCashPhone
		}
	case MethodMobile:
		tx.ID = "MM" + idgen.Digits(9)
		tx.ConfirmationCode = tx.ID
		tx.RecipientAddress = recipient.Phone
		if tx.RecipientAddress == "" {
			tx.RecipientAddress = defaultMobilePhone
		}
	}

	if err := o.store.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("storing transaction: %w", err)
	}

	logging.L(ctx).Info("payout initiated",
		"transaction_id", tx.ID,
		"method", method,
		"amount", amount,
		"currency", currency)

	return tx, nil
}

// CheckStatus recomputes and persists a transaction's status from
// elapsed time. Time-pure: the result depends only on now minus
// initiated_at, never on prior call history.
func (o *Orchestrator) CheckStatus(ctx context.Context, id string) (*Transaction, error) {
	ctx, span := traces.StartSpan(ctx, "payout.CheckStatus",
		traces.PayoutID(id))
	defer span.End()

	tx, err := o.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := o.refresh(tx); err != nil {
		return nil, err
	}
	if err := o.store.Update(ctx, tx); err != nil {
		return nil, fmt.Errorf("updating transaction: %w", err)
	}
	return tx, nil
}

// refresh recomputes status, confirmation code, and completion time in
// place.
func (o *Orchestrator) refresh(tx *Transaction) error {
	if tx.InitiatedAt.IsZero() {
		return fmt.Errorf("%w: missing initiation time", ErrInvalidTransaction)
	}

	th, ok := methodThresholds[tx.Method]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedMethod, tx.Method)
	}

	now := o.now()
	elapsed := now.Sub(tx.InitiatedAt)

	switch {
	case elapsed < th.processing:
		tx.Status = StatusPending
	case elapsed < th.completed:
		tx.Status = StatusProcessing
		if tx.Method == MethodCrypto {
			tx.ConfirmationCode = fmt.Sprintf("Confirmations: %d/12", int(elapsed.Minutes()))
		}
	default:
		tx.Status = StatusCompleted
		// Completion is detected, not scheduled: completed_at is the
		// time of the poll that first observed it, which can drift past
		// the threshold when polling is infrequent.
		if tx.CompletedAt == nil {
			completed := now
			tx.CompletedAt = &completed
		}
		if tx.Method == MethodCrypto {
			tx.ConfirmationCode = "12/12 Confirmations"
		}
	}

	return nil
}

// Get returns a transaction without refreshing its status.
func (o *Orchestrator) Get(ctx context.Context, id string) (*Transaction, error) {
	return o.store.Get(ctx, id)
}

// List returns all tracked transactions without refreshing them.
func (o *Orchestrator) List(ctx context.Context) ([]*Transaction, error) {
	return o.store.List(ctx)
}
