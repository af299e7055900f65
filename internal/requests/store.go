// server/internal/requests/store.go
package requests

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"pharmacy-refill-dispatch/internal/directory"
	"pharmacy-refill-dispatch/internal/models"
)

// ErrNotFound is returned when a request id does not exist.
var ErrNotFound = errors.New("refill request not found")

// ValidationError rejects a submission before anything is stored. It is the
// only failure a submitter ever sees.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewRefill is the submission payload after HTTP binding.
type NewRefill struct {
	RxNumber    string
	StoreID     string
	PatientName string
}

// Store owns the refill request state machine. All mutation goes through
// Submit, ClaimPending, MarkPrinted and MarkPrintFailed; nothing else
// writes status.
//
// ClaimPending must be atomic with respect to concurrent callers for the
// same store: two calls never both claim the same record. MarkPrinted and
// MarkPrintFailed are idempotent; calling them on an unknown id or on a
// record no longer in the printing state is a no-op, because the agent
// cannot tell an already-confirmed report from a duplicate one.
type Store interface {
	// Submit validates the payload and inserts a new pending request.
	Submit(ctx context.Context, in NewRefill) (*models.RefillRequest, error)
	// ClaimPending transitions every pending request for the store to
	// printing, oldest first, and returns the pre-transition snapshots.
	ClaimPending(ctx context.Context, storeID string) ([]models.RefillRequest, error)
	// MarkPrinted transitions printing -> printed.
	MarkPrinted(ctx context.Context, requestID string) error
	// MarkPrintFailed transitions printing -> pending and clears printedAt,
	// making the request eligible for the next claim cycle.
	MarkPrintFailed(ctx context.Context, requestID string) error
	// GetByID fetches one request by its public id.
	GetByID(ctx context.Context, requestID string) (*models.RefillRequest, error)
	// ListByStore returns all requests for a store, oldest first.
	ListByStore(ctx context.Context, storeID string) ([]models.RefillRequest, error)
}

// ValidateRxNumber checks the prescription number format: exactly 7 digits,
// first digit one of 2, 4, 6, 8. Enforced once, at submission; downstream
// components trust it.
func ValidateRxNumber(rx string) *ValidationError {
	rx = strings.TrimSpace(rx)
	for _, r := range rx {
		if r < '0' || r > '9' {
			return &ValidationError{Field: "rx_number", Reason: "must contain only digits"}
		}
	}
	if len(rx) != 7 {
		return &ValidationError{Field: "rx_number", Reason: "must be exactly 7 digits"}
	}
	switch rx[0] {
	case '2', '4', '6', '8':
	default:
		return &ValidationError{Field: "rx_number", Reason: "must start with 2, 4, 6, or 8"}
	}
	return nil
}

func newRequestID() string {
	return fmt.Sprintf("RX-%s", strings.ToUpper(uuid.New().String()[:8]))
}

// validateSubmission trims the payload and applies the creation-time checks
// shared by every Store implementation.
func validateSubmission(dir *directory.Directory, in NewRefill) (NewRefill, error) {
	in.RxNumber = strings.TrimSpace(in.RxNumber)
	in.StoreID = strings.TrimSpace(in.StoreID)
	in.PatientName = strings.TrimSpace(in.PatientName)

	if ve := ValidateRxNumber(in.RxNumber); ve != nil {
		return in, ve
	}
	if _, ok := dir.Lookup(in.StoreID); !ok {
		return in, &ValidationError{Field: "store_id", Reason: fmt.Sprintf("unknown store %q", in.StoreID)}
	}
	return in, nil
}
