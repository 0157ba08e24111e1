package orders

import (
	"context"
	"sync"
	"trip-wizard-service/internal/domain"
)

// MockOrderService stands in for the external order service. It accepts
// every draft unless a rejection rule matches, and records what it saw.
type MockOrderService struct {
	mu       sync.Mutex
	reject   func(domain.OrderDraft) bool
	received []domain.OrderDraft
}

func NewMockOrderService(reject func(domain.OrderDraft) bool) *MockOrderService {
	return &MockOrderService{reject: reject}
}

func (m *MockOrderService) Accept(ctx context.Context, draft domain.OrderDraft) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.received = append(m.received, draft)
	if m.reject != nil && m.reject(draft) {
		return false, nil
	}
	return true, nil
}

// Received returns the drafts submitted so far, oldest first.
func (m *MockOrderService) Received() []domain.OrderDraft {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.OrderDraft, len(m.received))
	copy(out, m.received)
	return out
}
