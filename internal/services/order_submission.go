package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
	"trip-wizard-service/internal/domain"
	"trip-wizard-service/internal/platform/obs"
	"trip-wizard-service/internal/ports"

	"github.com/sirupsen/logrus"
)

var ErrOrderRejected = errors.New("order rejected by order service")

// OrderSubmission turns validated wizard data into a draft order.
type OrderSubmission struct {
	Orders ports.OrderRepository
	// Service is optional; when nil drafts are only persisted.
	Service ports.OrderService
	Now     func() time.Time
}

func NewOrderSubmission(orders ports.OrderRepository, service ports.OrderService) *OrderSubmission {
	return &OrderSubmission{Orders: orders, Service: service, Now: time.Now}
}

// Submit validates addr and, if it passes, creates a draft order.
//
// A failed validation returns a nil draft and the result; nothing is sent
// or stored. An order service failure or rejection is returned as err.
// A storage failure is logged and the draft is still returned.
func (s *OrderSubmission) Submit(
	ctx context.Context,
	kind domain.WizardKind,
	addr domain.AddressData,
	sched *domain.ScheduleData,
) (_ *domain.OrderDraft, _ domain.ValidationResult, err error) {
	defer obs.Time(ctx, "orders.Submit")(&err)

	res := domain.Validate(addr)
	if !res.IsValid {
		return nil, res, nil
	}
	if err := domain.CheckRoles(addr.Addresses); err != nil {
		return nil, domain.ValidationResult{IsValid: false, Errors: []string{err.Error()}}, nil
	}

	now := s.Now()
	draft := domain.OrderDraft{
		ID:          "ORD-" + strconv.FormatInt(now.UnixMilli(), 10),
		WizardKind:  kind,
		AddressData: addr,
		Status:      domain.OrderDraftStatus,
		CreatedAt:   now.UTC(),
	}
	if sched != nil {
		sd := *sched
		draft.ScheduleData = &sd
	}

	if s.Service != nil {
		ok, err := s.Service.Accept(ctx, draft)
		if err != nil {
			return nil, res, fmt.Errorf("submit order %s: %w", draft.ID, err)
		}
		if !ok {
			return nil, res, fmt.Errorf("submit order %s: %w", draft.ID, ErrOrderRejected)
		}
	}

	if err := s.Orders.SaveDraft(ctx, draft); err != nil {
		logrus.WithFields(logrus.Fields{
			"wizard":   kind,
			"order_id": draft.ID,
		}).WithError(err).Warn("draft persistence failed")
	}

	return &draft, res, nil
}
