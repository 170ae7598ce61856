package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/relayhq/relay/internal/db"
)

// Store provides CRUD operations for the service catalog.
type Store struct {
	db *db.DB
}

// NewStore creates a new catalog store.
func NewStore(d *db.DB) *Store {
	return &Store{db: d}
}

// UpsertService inserts or replaces a service descriptor.
func (s *Store) UpsertService(ctx context.Context, svc Service) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO services (id, name, color, description, connect_url)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name=excluded.name, color=excluded.color,
		   description=excluded.description, connect_url=excluded.connect_url`,
		svc.ID, svc.Name, svc.Color, svc.Description, svc.ConnectURL,
	)
	if err != nil {
		return fmt.Errorf("upserting service: %w", err)
	}
	return nil
}

// UpsertItem inserts or replaces a catalog item for a service. The position
// preserves the seed file's declaration order for listing.
func (s *Store) UpsertItem(ctx context.Context, serviceID string, item Item, position int) error {
	fieldsJSON, err := json.Marshal(item.Fields)
	if err != nil {
		return fmt.Errorf("marshaling fields: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO catalog_items (service_id, id, name, description, kind, fields, position)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(service_id, id, kind) DO UPDATE SET
		   name=excluded.name, description=excluded.description,
		   fields=excluded.fields, position=excluded.position`,
		serviceID, item.ID, item.Name, item.Description, string(item.Kind), string(fieldsJSON), position,
	)
	if err != nil {
		return fmt.Errorf("upserting catalog item: %w", err)
	}
	return nil
}

// GetService retrieves a service by id.
func (s *Store) GetService(ctx context.Context, id string) (*Service, error) {
	svc := &Service{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, color, description, connect_url FROM services WHERE id = ?`, id,
	).Scan(&svc.ID, &svc.Name, &svc.Color, &svc.Description, &svc.ConnectURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting service: %w", err)
	}
	return svc, nil
}

// ListServices returns all services ordered by name.
func (s *Store) ListServices(ctx context.Context) ([]Service, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, color, description, connect_url FROM services ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing services: %w", err)
	}
	defer rows.Close()

	var result []Service
	for rows.Next() {
		var svc Service
		if err := rows.Scan(&svc.ID, &svc.Name, &svc.Color, &svc.Description, &svc.ConnectURL); err != nil {
			return nil, fmt.Errorf("scanning service: %w", err)
		}
		result = append(result, svc)
	}
	return result, rows.Err()
}

// ListItems returns a service's catalog items in seed order, optionally
// filtered by kind (empty kind means both).
func (s *Store) ListItems(ctx context.Context, serviceID string, kind Kind) ([]Item, error) {
	query := `SELECT id, name, description, kind, fields FROM catalog_items
		 WHERE service_id = ?`
	args := []any{serviceID}
	if kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY position`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing catalog items: %w", err)
	}
	defer rows.Close()

	var result []Item
	for rows.Next() {
		var item Item
		var fieldsJSON string
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Kind, &fieldsJSON); err != nil {
			return nil, fmt.Errorf("scanning catalog item: %w", err)
		}
		if err := json.Unmarshal([]byte(fieldsJSON), &item.Fields); err != nil {
			return nil, fmt.Errorf("unmarshaling fields: %w", err)
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

// GetItem retrieves one catalog item by service, id and kind.
func (s *Store) GetItem(ctx context.Context, serviceID, itemID string, kind Kind) (*Item, error) {
	item := &Item{}
	var fieldsJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, kind, fields FROM catalog_items
		 WHERE service_id = ? AND id = ? AND kind = ?`,
		serviceID, itemID, string(kind),
	).Scan(&item.ID, &item.Name, &item.Description, &item.Kind, &fieldsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting catalog item: %w", err)
	}
	if err := json.Unmarshal([]byte(fieldsJSON), &item.Fields); err != nil {
		return nil, fmt.Errorf("unmarshaling fields: %w", err)
	}
	return item, nil
}

// StoreResolver adapts a Store to the Resolver interface for server-side
// use, where the catalog lives in the local database.
type StoreResolver struct {
	store *Store
}

// NewStoreResolver wraps a catalog store.
func NewStoreResolver(store *Store) *StoreResolver {
	return &StoreResolver{store: store}
}

func (r *StoreResolver) Service(ctx context.Context, id string) (*Service, error) {
	return r.store.GetService(ctx, id)
}

func (r *StoreResolver) Item(ctx context.Context, serviceID, itemID string, kind Kind) (*Item, error) {
	return r.store.GetItem(ctx, serviceID, itemID, kind)
}
