package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"trip-wizard-service/internal/domain"
	"trip-wizard-service/internal/platform/obs"
)

// SQL-backed implementation of the OrderRepository port. Every saved draft
// is kept; the latest one per wizard kind is served by LatestDraft.
type SQLOrderRepository struct{ DB *sql.DB }

func NewSQLOrderRepository(db *sql.DB) *SQLOrderRepository {
	return &SQLOrderRepository{DB: db}
}

func (s *SQLOrderRepository) SaveDraft(ctx context.Context, draft domain.OrderDraft) (err error) {
	defer obs.Time(ctx, "orders.sql.SaveDraft")(&err)

	if s.DB == nil {
		return errors.New("sql order repository: DB is nil")
	}

	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("save draft %s: encode payload: %w", draft.ID, err)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO order_drafts (
		order_id,
		wizard_kind,
		status,
		payload,
		created_at_ms
	)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (order_id) DO UPDATE
	SET status = EXCLUDED.status,
		payload = EXCLUDED.payload;
	`, draft.ID, string(draft.WizardKind), string(draft.Status), string(payload), draft.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("save draft %s: insert: %w", draft.ID, err)
	}

	return nil
}

func (s *SQLOrderRepository) LatestDraft(ctx context.Context, kind domain.WizardKind) (*domain.OrderDraft, error) {
	drafts, err := s.ListDrafts(ctx, kind, 1)
	if err != nil {
		return nil, err
	}
	if len(drafts) == 0 {
		return nil, nil
	}
	return drafts[0], nil
}

// Return up to limit drafts of kind, newest first.
func (s *SQLOrderRepository) ListDrafts(ctx context.Context, kind domain.WizardKind, limit int) ([]*domain.OrderDraft, error) {
	if s.DB == nil {
		return nil, errors.New("sql order repository: DB is nil")
	}

	if limit <= 0 {
		limit = 50
	}

	query := `
	SELECT
		payload
	FROM order_drafts
	WHERE wizard_kind = $1
	ORDER BY created_at_ms DESC, order_id DESC
	LIMIT $2;
	`
	rows, err := s.DB.QueryContext(ctx, query, string(kind), limit)
	if err != nil {
		return nil, fmt.Errorf("list drafts: query order_drafts table: %w", err)
	}
	defer rows.Close()

	drafts := make([]*domain.OrderDraft, 0, limit)
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("list drafts: scan row: %w", err)
		}

		var d domain.OrderDraft
		if err := json.Unmarshal([]byte(payload), &d); err != nil {
			return nil, fmt.Errorf("list drafts: decode payload: %w", err)
		}
		drafts = append(drafts, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list drafts: row iteration: %w", err)
	}

	return drafts, nil
}
