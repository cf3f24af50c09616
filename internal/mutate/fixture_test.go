package mutate

import (
	"context"
	"errors"
	"testing"

	"blocktree/internal/model"
	"blocktree/internal/store"

	"github.com/stretchr/testify/require"
)

const testOwner = "page-1"

var errInjected = errors.New("injected failure")

// recordingStore wraps MemStore, records write calls and can fail the n-th
// call of one operation.
type recordingStore struct {
	*store.MemStore

	writes  []string
	fetches int

	failOp    string
	failAfter int
	seen      map[string]int
}

func newRecordingStore() *recordingStore {
	return &recordingStore{MemStore: store.NewMemStore(), seen: map[string]int{}}
}

func (r *recordingStore) failOnNth(op string, okCalls int) {
	r.failOp = op
	r.failAfter = okCalls
}

func (r *recordingStore) shouldFail(op string) bool {
	if r.failOp != op {
		return false
	}
	r.seen[op]++
	return r.seen[op] > r.failAfter
}

func (r *recordingStore) FetchBlocksByOwner(ctx context.Context, ownerID string) ([]model.Block, error) {
	r.fetches++
	return r.MemStore.FetchBlocksByOwner(ctx, ownerID)
}

func (r *recordingStore) CreateBlock(ctx context.Context, in model.NewBlock) (model.Block, error) {
	if r.shouldFail("create") {
		return model.Block{}, errInjected
	}
	b, err := r.MemStore.CreateBlock(ctx, in)
	if err == nil {
		r.writes = append(r.writes, "create:"+b.ID)
	}
	return b, err
}

func (r *recordingStore) UpdateBlock(ctx context.Context, id string, patch model.Patch) (model.Block, error) {
	if r.shouldFail("update") {
		return model.Block{}, errInjected
	}
	b, err := r.MemStore.UpdateBlock(ctx, id, patch)
	if err == nil {
		r.writes = append(r.writes, "update:"+id)
	}
	return b, err
}

func (r *recordingStore) DeleteBlock(ctx context.Context, id string) error {
	if r.shouldFail("delete") {
		return errInjected
	}
	err := r.MemStore.DeleteBlock(ctx, id)
	if err == nil {
		r.writes = append(r.writes, "delete:"+id)
	}
	return err
}

func blk(id, parent string, depth, order int, typ model.BlockType) model.Block {
	b := model.Block{ID: id, OwnerID: testOwner, Type: typ, Depth: depth, Order: order, IsVisible: true}
	if parent != "" {
		b.ParentID = model.StrPtr(parent)
	}
	return b
}

func newFixture(t *testing.T, blocks []model.Block, opts ...Option) (*Orchestrator, *recordingStore) {
	t.Helper()
	rec := newRecordingStore()
	rec.Seed(blocks...)
	o, err := Load(context.Background(), rec, testOwner, opts...)
	require.NoError(t, err)
	rec.fetches = 0
	return o, rec
}

func mustGet(t *testing.T, o *Orchestrator, id string) model.Block {
	t.Helper()
	b, ok := o.Snapshot().Get(id)
	require.True(t, ok, "block %s missing from snapshot", id)
	return b
}

func parentOf(b model.Block) string {
	return b.ParentKey()
}

// pageFixture: s1{ g1{ h1, i1 }, t1 }, s2{ t2 }
func pageFixture() []model.Block {
	return []model.Block{
		blk("s1", "", 0, 0, model.BlockTypeSection),
		blk("g1", "s1", 1, 0, model.BlockTypeGrid),
		blk("h1", "g1", 2, 0, model.BlockTypeHeading),
		blk("i1", "g1", 2, 1, model.BlockTypeImage),
		blk("t1", "s1", 1, 1, model.BlockTypeText),
		blk("s2", "", 0, 1, model.BlockTypeSection),
		blk("t2", "s2", 1, 0, model.BlockTypeText),
	}
}
