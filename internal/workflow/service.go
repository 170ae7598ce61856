package workflow

import "context"

// StoreService adapts a Store to the create/update/get surface the builder
// depends on, for builders running in the server process.
type StoreService struct {
	store *Store
}

// NewStoreService wraps a workflow store.
func NewStoreService(store *Store) *StoreService {
	return &StoreService{store: store}
}

// Create persists a new workflow.
func (s *StoreService) Create(ctx context.Context, w *Workflow) (*Workflow, error) {
	if err := s.store.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// Update replaces an existing workflow.
func (s *StoreService) Update(ctx context.Context, id string, w *Workflow) (*Workflow, error) {
	w.ID = id
	if err := s.store.Update(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// Get fetches a workflow by id.
func (s *StoreService) Get(ctx context.Context, id string) (*Workflow, error) {
	return s.store.Get(ctx, id)
}
