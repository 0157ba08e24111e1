package ports

import (
	"context"
	"trip-wizard-service/internal/domain"
)

// Port: a boundary for persisting order drafts.
type OrderRepository interface {
	// Store draft as the latest draft of its wizard kind.
	SaveDraft(ctx context.Context, draft domain.OrderDraft) error
	// Return the latest draft of kind, or nil when none exists.
	LatestDraft(ctx context.Context, kind domain.WizardKind) (*domain.OrderDraft, error)
}

// Contract for the external order service that receives drafts.
type OrderService interface {
	// Accept reports whether the order service took the draft.
	Accept(ctx context.Context, draft domain.OrderDraft) (bool, error)
}
