package redemptionlog

import (
	"context"
	"time"

	"github.com/avril-atelier/storefront-api/internal/domain"
)

// Event records one successful access-code redemption. The log is
// append-only and purely observational: nothing reads it to gate behavior
// (codes stay multi-use).
type Event struct {
	ID         string
	Subject    domain.SubjectID
	Code       string
	RedeemedAt time.Time
}

type Log interface {
	Append(ctx context.Context, ev Event) error
	// ListBySubject returns events for one subject, oldest first.
	ListBySubject(ctx context.Context, subject domain.SubjectID) ([]Event, error)
}
