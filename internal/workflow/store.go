package workflow

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/relayhq/relay/internal/db"
)

// Store provides CRUD operations for persisted workflows.
type Store struct {
	db *db.DB
}

// NewStore creates a new workflow store.
func NewStore(d *db.DB) *Store {
	return &Store{db: d}
}

// Create inserts a new workflow, assigning an id if none is set.
func (s *Store) Create(ctx context.Context, w *Workflow) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	w.CreatedAt = now
	w.UpdatedAt = now

	triggerJSON, reactionsJSON, err := marshalParts(w)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO workflows (id, toggle, trigger_def, reactions, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		w.ID, w.Toggle, triggerJSON, reactionsJSON, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating workflow: %w", err)
	}
	return nil
}

// Get retrieves a workflow by id.
func (s *Store) Get(ctx context.Context, id string) (*Workflow, error) {
	w := &Workflow{}
	var triggerJSON, reactionsJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, toggle, trigger_def, reactions, created_at, updated_at
		 FROM workflows WHERE id = ?`, id,
	).Scan(&w.ID, &w.Toggle, &triggerJSON, &reactionsJSON, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("getting workflow: %w", err)
	}
	if err := unmarshalParts(w, triggerJSON, reactionsJSON); err != nil {
		return nil, err
	}
	return w, nil
}

// List returns all workflows, newest first.
func (s *Store) List(ctx context.Context) ([]Workflow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, toggle, trigger_def, reactions, created_at, updated_at
		 FROM workflows ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing workflows: %w", err)
	}
	defer rows.Close()

	var result []Workflow
	for rows.Next() {
		var w Workflow
		var triggerJSON, reactionsJSON string
		if err := rows.Scan(&w.ID, &w.Toggle, &triggerJSON, &reactionsJSON, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning workflow: %w", err)
		}
		if err := unmarshalParts(&w, triggerJSON, reactionsJSON); err != nil {
			return nil, err
		}
		result = append(result, w)
	}
	return result, rows.Err()
}

// Update replaces a workflow's trigger, reactions and toggle.
func (s *Store) Update(ctx context.Context, w *Workflow) error {
	w.UpdatedAt = time.Now().UTC()

	triggerJSON, reactionsJSON, err := marshalParts(w)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE workflows SET toggle=?, trigger_def=?, reactions=?, updated_at=? WHERE id=?`,
		w.Toggle, triggerJSON, reactionsJSON, w.UpdatedAt, w.ID,
	)
	if err != nil {
		return fmt.Errorf("updating workflow: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetToggle flips a workflow's active state.
func (s *Store) SetToggle(ctx context.Context, id string, toggle bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE workflows SET toggle=?, updated_at=? WHERE id=?`,
		toggle, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("toggling workflow: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a workflow by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM workflows WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("deleting workflow: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func marshalParts(w *Workflow) (triggerJSON, reactionsJSON string, err error) {
	if w.Reactions == nil {
		w.Reactions = []Reaction{}
	}
	t, err := json.Marshal(w.Trigger)
	if err != nil {
		return "", "", fmt.Errorf("marshaling trigger: %w", err)
	}
	r, err := json.Marshal(w.Reactions)
	if err != nil {
		return "", "", fmt.Errorf("marshaling reactions: %w", err)
	}
	return string(t), string(r), nil
}

func unmarshalParts(w *Workflow, triggerJSON, reactionsJSON string) error {
	if err := json.Unmarshal([]byte(triggerJSON), &w.Trigger); err != nil {
		return fmt.Errorf("unmarshaling trigger: %w", err)
	}
	if err := json.Unmarshal([]byte(reactionsJSON), &w.Reactions); err != nil {
		return fmt.Errorf("unmarshaling reactions: %w", err)
	}
	return nil
}
