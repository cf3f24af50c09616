package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"blocktree/internal/model"
)

// MemStore is an in-memory BlockStore. Payloads are deep-copied in both
// directions so callers can never alias stored state.
type MemStore struct {
	mu     sync.Mutex
	blocks map[string]model.Block
	seq    map[string]int64
	next   int64
	now    func() time.Time
}

func NewMemStore() *MemStore {
	return &MemStore{
		blocks: map[string]model.Block{},
		seq:    map[string]int64{},
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Seed inserts blocks verbatim (ids included). It is meant for fixtures.
func (m *MemStore) Seed(blocks ...model.Block) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range blocks {
		m.next++
		m.seq[b.ID] = m.next
		m.blocks[b.ID] = b.Clone()
	}
}

func (m *MemStore) FetchBlocksByOwner(ctx context.Context, ownerID string) ([]model.Block, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []model.Block{}
	for _, b := range m.blocks {
		if b.OwnerID == ownerID {
			out = append(out, b.Clone())
		}
	}
	// Insertion order keeps fetches deterministic.
	sort.Slice(out, func(i, j int) bool { return m.seq[out[i].ID] < m.seq[out[j].ID] })
	return out, nil
}

func (m *MemStore) CreateBlock(ctx context.Context, in model.NewBlock) (model.Block, error) {
	if err := ctx.Err(); err != nil {
		return model.Block{}, err
	}
	if err := validateNew(in); err != nil {
		return model.Block{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	b := model.Block{
		ID:        newBlockID(),
		OwnerID:   in.OwnerID,
		Type:      in.Type,
		Content:   in.Content.Clone(),
		Style:     in.Style.Clone(),
		Config:    in.Config.Clone(),
		Depth:     in.Depth,
		Order:     in.Order,
		IsVisible: in.IsVisible,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.ParentID != nil && *in.ParentID != "" {
		b.ParentID = model.StrPtr(*in.ParentID)
	}
	m.next++
	m.seq[b.ID] = m.next
	m.blocks[b.ID] = b
	return b.Clone(), nil
}

func (m *MemStore) UpdateBlock(ctx context.Context, id string, patch model.Patch) (model.Block, error) {
	if err := ctx.Err(); err != nil {
		return model.Block{}, err
	}
	if err := validatePatch(patch); err != nil {
		return model.Block{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.blocks[id]
	if !ok {
		return model.Block{}, notFound(id)
	}
	patch.Apply(&b)
	b.UpdatedAt = m.now()
	m.blocks[id] = b
	return b.Clone(), nil
}

func (m *MemStore) DeleteBlock(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.blocks[id]; !ok {
		return notFound(id)
	}
	delete(m.blocks, id)
	delete(m.seq, id)
	return nil
}

// Len returns the number of stored blocks across all owners.
func (m *MemStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.blocks)
}
