package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"fishmarket/internal/domain"
)

// document is the persisted layout: two flat collections in a single JSON file.
type document struct {
	Fish   []domain.Fish  `json:"fish"`
	Orders []domain.Order `json:"orders"`
}

// FileStore owns the catalog and order collections. The whole document lives in
// memory and the backing file is rewritten wholesale on every mutation, so the
// file always reflects the last committed state.
type FileStore struct {
	mu     sync.RWMutex
	path   string
	fish   []domain.Fish
	orders []domain.Order
}

// Open loads the document at path, creating an empty one on first run.
func Open(path string) (*FileStore, error) {
	s := &FileStore{path: path}
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := s.persistLocked(); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		var doc document
		if err := json.Unmarshal(b, &doc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		s.fish, s.orders = doc.Fish, doc.Orders
	}
	return s, nil
}

// persistLocked rewrites the backing file. Callers must hold the write lock
// (or be inside a transaction, which holds it for them).
func (s *FileStore) persistLocked() error {
	b, err := json.MarshalIndent(document{Fish: s.fish, Orders: s.orders}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o644)
}

// transaction-aware locking helpers
type txKey struct{}

func isTx(ctx context.Context) bool {
	v, ok := ctx.Value(txKey{}).(bool)
	return ok && v
}

func (s *FileStore) rlock(ctx context.Context) {
	if !isTx(ctx) {
		s.mu.RLock()
	}
}

func (s *FileStore) runlock(ctx context.Context) {
	if !isTx(ctx) {
		s.mu.RUnlock()
	}
}

func (s *FileStore) wlock(ctx context.Context) {
	if !isTx(ctx) {
		s.mu.Lock()
	}
}

func (s *FileStore) wunlock(ctx context.Context) {
	if !isTx(ctx) {
		s.mu.Unlock()
	}
}

// persistUnlessTx flushes immediately for standalone mutations; inside a
// transaction the flush happens once at commit instead.
func (s *FileStore) persistUnlessTx(ctx context.Context) error {
	if isTx(ctx) {
		return nil
	}
	return s.persistLocked()
}

var _ FishRepository = (*FileStore)(nil)

// FishRepository implementation

func (s *FileStore) Create(ctx context.Context, f *domain.Fish) error {
	s.wlock(ctx)
	defer s.wunlock(ctx)
	f.ID = s.nextFishIDLocked()
	s.fish = append(s.fish, *f)
	return s.persistUnlessTx(ctx)
}

func (s *FileStore) GetByID(ctx context.Context, id int64) (*domain.Fish, error) {
	s.rlock(ctx)
	defer s.runlock(ctx)
	for i := range s.fish {
		if s.fish[i].ID == id {
			cp := s.fish[i]
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *FileStore) Update(ctx context.Context, f *domain.Fish) error {
	s.wlock(ctx)
	defer s.wunlock(ctx)
	for i := range s.fish {
		if s.fish[i].ID == f.ID {
			s.fish[i] = *f
			return s.persistUnlessTx(ctx)
		}
	}
	return ErrNotFound
}

func (s *FileStore) List(ctx context.Context) ([]domain.Fish, error) {
	s.rlock(ctx)
	defer s.runlock(ctx)
	out := make([]domain.Fish, len(s.fish))
	copy(out, s.fish)
	return out, nil
}

// ids are max(existing)+1, starting at 1; nothing is ever deleted, so they are
// strictly increasing with no reuse.
func (s *FileStore) nextFishIDLocked() int64 {
	var max int64
	for i := range s.fish {
		if s.fish[i].ID > max {
			max = s.fish[i].ID
		}
	}
	return max + 1
}

// FileOrders implements OrderRepository on top of the shared store.
type FileOrders struct{ store *FileStore }

func NewFileOrders(store *FileStore) *FileOrders { return &FileOrders{store: store} }

var _ OrderRepository = (*FileOrders)(nil)

func (fo *FileOrders) Create(ctx context.Context, o *domain.Order) error {
	s := fo.store
	s.wlock(ctx)
	defer s.wunlock(ctx)
	var max int64
	for i := range s.orders {
		if s.orders[i].ID > max {
			max = s.orders[i].ID
		}
	}
	o.ID = max + 1
	o.CreatedAt = time.Now().UTC()
	s.orders = append(s.orders, *o)
	return s.persistUnlessTx(ctx)
}

func (fo *FileOrders) List(ctx context.Context) ([]domain.Order, error) {
	s := fo.store
	s.rlock(ctx)
	defer s.runlock(ctx)
	out := make([]domain.Order, len(s.orders))
	copy(out, s.orders)
	return out, nil
}

// FileTx serializes a multi-step mutation under the store write lock and
// rewrites the document once on success. Repository calls inside fn skip their
// own locks via the context marker.
type FileTx struct{ store *FileStore }

func NewFileTx(store *FileStore) *FileTx { return &FileTx{store: store} }

var _ TxManager = (*FileTx)(nil)

func (tx *FileTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	ctx = context.WithValue(ctx, txKey{}, true)
	if err := fn(ctx); err != nil {
		return err
	}
	return tx.store.persistLocked()
}
