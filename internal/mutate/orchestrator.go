package mutate

import (
	"context"
	"sync"

	"blocktree/internal/model"
	"blocktree/internal/store"
	"blocktree/internal/tree"

	"github.com/rs/zerolog"
)

type Options struct {
	// EnforceContainment rejects children under non-container blocks.
	EnforceContainment bool
	Logger             zerolog.Logger
}

type Option func(*Options)

func WithContainment(enforce bool) Option {
	return func(o *Options) { o.EnforceContainment = enforce }
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// Orchestrator applies tree mutations for one owning collection.
//
// Preconditions are checked against the in-memory snapshot and fail before
// any store call. Store calls are issued one at a time; the snapshot is
// refreshed once after each operation. The snapshot is advisory between
// operations: other writers may have changed the store.
type Orchestrator struct {
	store   store.BlockStore
	ownerID string
	opts    Options
	log     zerolog.Logger

	mu   sync.RWMutex
	snap *tree.Snapshot
}

func New(s store.BlockStore, ownerID string, opts ...Option) *Orchestrator {
	o := Options{Logger: zerolog.Nop()}
	for _, fn := range opts {
		fn(&o)
	}
	return &Orchestrator{
		store:   s,
		ownerID: ownerID,
		opts:    o,
		log:     o.Logger.With().Str("owner", ownerID).Logger(),
		snap:    tree.NewSnapshot(nil),
	}
}

// Load builds an orchestrator and fetches its first snapshot.
func Load(ctx context.Context, s store.BlockStore, ownerID string, opts ...Option) (*Orchestrator, error) {
	o := New(s, ownerID, opts...)
	if err := o.Refresh(ctx); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *Orchestrator) OwnerID() string { return o.ownerID }

// Snapshot returns the snapshot taken after the last completed operation.
func (o *Orchestrator) Snapshot() *tree.Snapshot {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.snap
}

// Tree builds the forest of the current snapshot.
func (o *Orchestrator) Tree() []*model.BlockNode {
	return o.Snapshot().Tree()
}

// Refresh replaces the snapshot with the store's current state.
func (o *Orchestrator) Refresh(ctx context.Context) error {
	blocks, err := o.store.FetchBlocksByOwner(ctx, o.ownerID)
	if err != nil {
		return storeErr("fetch", o.ownerID, err)
	}
	snap := tree.NewSnapshot(blocks)
	o.mu.Lock()
	o.snap = snap
	o.mu.Unlock()
	return nil
}

// finish refreshes after an operation. A failed operation still refreshes
// (best effort) because the store may hold partial work; its error wins.
func (o *Orchestrator) finish(ctx context.Context, op string, opErr error) error {
	refreshErr := o.Refresh(ctx)
	if opErr != nil {
		ev := o.log.Warn().Str("op", op).Err(opErr)
		if refreshErr != nil {
			ev = ev.AnErr("refresh", refreshErr)
		}
		ev.Msg("operation failed; store may hold partial changes")
		return opErr
	}
	return refreshErr
}

func (o *Orchestrator) checkContainment(parent model.Block) error {
	if model.IsContainer(parent.Type) {
		return nil
	}
	if o.opts.EnforceContainment {
		return ContainmentError{ParentID: parent.ID, Type: parent.Type}
	}
	o.log.Debug().Str("parent", parent.ID).Str("type", string(parent.Type)).Msg("child added under non-container")
	return nil
}

// resolveParent looks up an optional parent id. A nil or empty id means the root level.
func (o *Orchestrator) resolveParent(snap *tree.Snapshot, parentID *string) (*model.Block, error) {
	if parentID == nil || *parentID == "" {
		return nil, nil
	}
	p, ok := snap.Get(*parentID)
	if !ok {
		return nil, parentNotFound(*parentID)
	}
	return &p, nil
}

// siblingsAt lists the blocks under parentID ("" for roots), excluding skipID.
func siblingsAt(snap *tree.Snapshot, parentID, skipID string) []model.Block {
	var sibs []model.Block
	if parentID == "" {
		sibs = snap.Roots()
	} else {
		sibs = snap.ChildrenOf(parentID)
	}
	out := sibs[:0:0]
	for _, b := range sibs {
		if b.ID != skipID {
			out = append(out, b)
		}
	}
	return out
}

// appendOrder is the order that places a block after sibs. It is the sibling
// count unless earlier moves left higher orders behind.
func appendOrder(sibs []model.Block) int {
	n := len(sibs)
	for _, b := range sibs {
		if b.Order >= n {
			n = b.Order + 1
		}
	}
	return n
}

// openSlot shifts every sibling at or after pos one place down so pos is free.
func (o *Orchestrator) openSlot(ctx context.Context, sibs []model.Block, pos int) error {
	for i := len(sibs) - 1; i >= 0; i-- {
		b := sibs[i]
		if b.Order < pos {
			continue
		}
		if _, err := o.store.UpdateBlock(ctx, b.ID, model.Patch{Order: model.IntPtr(b.Order + 1)}); err != nil {
			return storeErr("update", b.ID, err)
		}
	}
	return nil
}

func parentKey(p *model.Block) string {
	if p == nil {
		return ""
	}
	return p.ID
}

func childDepth(p *model.Block) int {
	if p == nil {
		return 0
	}
	return p.Depth + 1
}
