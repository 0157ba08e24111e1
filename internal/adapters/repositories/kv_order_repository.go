package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"trip-wizard-service/internal/domain"
	"trip-wizard-service/internal/ports"
)

// KVOrderRepository keeps the latest draft of each wizard kind under the
// "{kind}_order" key of a KeyValueStore.
type KVOrderRepository struct {
	Store ports.KeyValueStore
}

func NewKVOrderRepository(store ports.KeyValueStore) *KVOrderRepository {
	return &KVOrderRepository{Store: store}
}

func (r *KVOrderRepository) SaveDraft(ctx context.Context, draft domain.OrderDraft) error {
	if r.Store == nil {
		return errors.New("kv order repository: store is nil")
	}

	b, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("save draft %s: encode: %w", draft.ID, err)
	}

	if err := r.Store.Set(ctx, draft.WizardKind.OrderKey(), string(b)); err != nil {
		return fmt.Errorf("save draft %s: %w", draft.ID, err)
	}
	return nil
}

func (r *KVOrderRepository) LatestDraft(ctx context.Context, kind domain.WizardKind) (*domain.OrderDraft, error) {
	if r.Store == nil {
		return nil, errors.New("kv order repository: store is nil")
	}

	raw, ok, err := r.Store.Get(ctx, kind.OrderKey())
	if err != nil {
		return nil, fmt.Errorf("latest draft %s: %w", kind, err)
	}
	if !ok {
		return nil, nil
	}

	var draft domain.OrderDraft
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		return nil, fmt.Errorf("latest draft %s: decode: %w", kind, err)
	}
	return &draft, nil
}
