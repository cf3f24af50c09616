package tree

import (
	"sort"
	"testing"

	"blocktree/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blk(id string, parent string, depth, order int, typ model.BlockType) model.Block {
	b := model.Block{ID: id, OwnerID: "page-1", Type: typ, Depth: depth, Order: order, IsVisible: true}
	if parent != "" {
		b.ParentID = model.StrPtr(parent)
	}
	return b
}

// sampleFlat is a well-formed page: two sections, nested grid, leaf blocks,
// listed deliberately out of order.
func sampleFlat() []model.Block {
	return []model.Block{
		blk("t2", "s1", 1, 1, model.BlockTypeText),
		blk("s2", "", 0, 1, model.BlockTypeSection),
		blk("g1", "s1", 1, 0, model.BlockTypeGrid),
		blk("s1", "", 0, 0, model.BlockTypeSection),
		blk("i1", "g1", 2, 1, model.BlockTypeImage),
		blk("h1", "g1", 2, 0, model.BlockTypeHeading),
		blk("t3", "s2", 1, 0, model.BlockTypeText),
	}
}

func ids(bs []model.Block) []string {
	out := make([]string, 0, len(bs))
	for _, b := range bs {
		out = append(out, b.ID)
	}
	return out
}

func TestBuildTree_OrdersRootsAndChildren(t *testing.T) {
	roots := BuildTree(sampleFlat())
	require.Len(t, roots, 2)
	assert.Equal(t, "s1", roots[0].ID)
	assert.Equal(t, "s2", roots[1].ID)

	require.Len(t, roots[0].Children, 2)
	assert.Equal(t, "g1", roots[0].Children[0].ID)
	assert.Equal(t, "t2", roots[0].Children[1].ID)

	grid := roots[0].Children[0]
	require.Len(t, grid.Children, 2)
	assert.Equal(t, "h1", grid.Children[0].ID)
	assert.Equal(t, "i1", grid.Children[1].ID)
	assert.Empty(t, grid.Children[0].Children)
}

func TestBuildTree_Empty(t *testing.T) {
	assert.Empty(t, BuildTree(nil))
	assert.Empty(t, FlattenTree(nil))
}

func TestFlattenTree_RoundTripIsPermutationInPreOrder(t *testing.T) {
	flat := sampleFlat()
	got := FlattenTree(BuildTree(flat))

	assert.Equal(t, []string{"s1", "g1", "h1", "i1", "t2", "s2", "t3"}, ids(got))

	byID := map[string]model.Block{}
	for _, b := range flat {
		byID[b.ID] = b
	}
	require.Len(t, got, len(flat))
	for _, b := range got {
		assert.Equal(t, byID[b.ID], b)
	}
}

func TestBuildTree_DepthInvariantHolds(t *testing.T) {
	var walk func(n *model.BlockNode, want int)
	walk = func(n *model.BlockNode, want int) {
		assert.Equal(t, want, n.Depth, n.ID)
		for _, ch := range n.Children {
			walk(ch, want+1)
		}
	}
	for _, r := range BuildTree(sampleFlat()) {
		walk(r, 0)
	}
}

func TestBuildTree_PromotesOrphans(t *testing.T) {
	flat := []model.Block{
		blk("a", "", 0, 0, model.BlockTypeContainer),
		blk("orphan", "deleted", 1, 0, model.BlockTypeText),
	}
	roots := BuildTree(flat)
	require.Len(t, roots, 2)
	assert.ElementsMatch(t, []string{"a", "orphan"}, []string{roots[0].ID, roots[1].ID})
}

func TestBuildTree_BreaksCycles(t *testing.T) {
	flat := []model.Block{
		blk("a", "b", 1, 0, model.BlockTypeContainer),
		blk("b", "a", 1, 0, model.BlockTypeContainer),
		blk("c", "c", 1, 0, model.BlockTypeContainer),
		blk("d", "a", 2, 0, model.BlockTypeText),
	}
	roots := BuildTree(flat)
	got := FlattenTree(roots)
	require.Len(t, got, len(flat))

	seen := ids(got)
	sort.Strings(seen)
	assert.Equal(t, []string{"a", "b", "c", "d"}, seen)
}

func TestFlattenTree_SkipsSharedNodes(t *testing.T) {
	shared := &model.BlockNode{Block: blk("x", "", 0, 0, model.BlockTypeText)}
	roots := []*model.BlockNode{
		{Block: blk("a", "", 0, 0, model.BlockTypeContainer), Children: []*model.BlockNode{shared}},
		shared,
	}
	assert.Equal(t, []string{"a", "x"}, ids(FlattenTree(roots)))
}
