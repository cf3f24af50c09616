package mutate

import (
	"context"
	"testing"

	"blocktree/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddChild_FirstChildOfContainer(t *testing.T) {
	o, rec := newFixture(t, []model.Block{blk("p", "", 0, 0, model.BlockTypeContainer)})

	b, err := o.AddChild(context.Background(), "p", model.BlockTypeText, model.Payload{}, model.Payload{})
	require.NoError(t, err)
	require.NotNil(t, b.ParentID)
	assert.Equal(t, "p", *b.ParentID)
	assert.Equal(t, 1, b.Depth)
	assert.Equal(t, 0, b.Order)
	assert.True(t, b.IsVisible)
	assert.Equal(t, testOwner, b.OwnerID)

	assert.Len(t, rec.writes, 1)
	assert.Equal(t, 1, rec.fetches)
	got := mustGet(t, o, b.ID)
	assert.Equal(t, "p", parentOf(got))
}

func TestAddChild_AppendsAfterSiblings(t *testing.T) {
	o, _ := newFixture(t, pageFixture())
	b, err := o.AddChild(context.Background(), "g1", model.BlockTypeButton, model.Payload{"label": "Buy"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, b.Depth)
	assert.Equal(t, 2, b.Order)

	kids := o.Snapshot().ChildrenOf("g1")
	require.Len(t, kids, 3)
	assert.Equal(t, b.ID, kids[2].ID)
}

func TestAddChild_DoesNotAliasPayloads(t *testing.T) {
	o, _ := newFixture(t, []model.Block{blk("p", "", 0, 0, model.BlockTypeContainer)})
	content := model.Payload{"text": "hello", "marks": []any{"bold"}}
	b, err := o.AddChild(context.Background(), "p", model.BlockTypeText, content, nil)
	require.NoError(t, err)

	content["marks"].([]any)[0] = "italic"
	got := mustGet(t, o, b.ID)
	assert.Equal(t, []any{"bold"}, got.Content["marks"])
}

func TestAddChild_ParentNotFoundMakesNoStoreCalls(t *testing.T) {
	o, rec := newFixture(t, pageFixture())
	_, err := o.AddChild(context.Background(), "nope", model.BlockTypeText, nil, nil)
	require.ErrorIs(t, err, ErrParentNotFound)
	var nf NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "nope", nf.ID)
	assert.Empty(t, rec.writes)
	assert.Zero(t, rec.fetches)

	_, err = o.AddChild(context.Background(), "", model.BlockTypeText, nil, nil)
	require.ErrorIs(t, err, ErrParentNotFound)
}

func TestAddChild_Containment(t *testing.T) {
	t.Run("enforced", func(t *testing.T) {
		o, rec := newFixture(t, pageFixture(), WithContainment(true))
		_, err := o.AddChild(context.Background(), "t1", model.BlockTypeText, nil, nil)
		require.ErrorIs(t, err, ErrContainmentViolation)
		assert.Empty(t, rec.writes)
	})
	t.Run("not enforced", func(t *testing.T) {
		o, _ := newFixture(t, pageFixture())
		b, err := o.AddChild(context.Background(), "t1", model.BlockTypeText, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, 2, b.Depth)
	})
}

func TestAddBlock_RootAndExplicitPosition(t *testing.T) {
	o, _ := newFixture(t, pageFixture())
	ctx := context.Background()

	root, err := o.AddRoot(ctx, model.BlockTypeSection, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, root.ParentID)
	assert.Equal(t, 0, root.Depth)
	assert.Equal(t, 2, root.Order)

	first, err := o.AddBlock(ctx, NewBlockInput{
		ParentID: model.StrPtr("s1"),
		Type:     model.BlockTypeDivider,
		Position: model.IntPtr(0),
		Hidden:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, first.Order)
	assert.False(t, first.IsVisible)

	kids := o.Snapshot().ChildrenOf("s1")
	require.Len(t, kids, 3)
	assert.Equal(t, []string{first.ID, "g1", "t1"}, []string{kids[0].ID, kids[1].ID, kids[2].ID})
	assert.Equal(t, []int{0, 1, 2}, []int{kids[0].Order, kids[1].Order, kids[2].Order})
}

func TestAddBlock_RejectsBadInput(t *testing.T) {
	o, rec := newFixture(t, pageFixture())
	_, err := o.AddBlock(context.Background(), NewBlockInput{ParentID: model.StrPtr("s1")})
	require.ErrorIs(t, err, ErrInvalidArgument)
	_, err = o.AddBlock(context.Background(), NewBlockInput{Type: model.BlockTypeText, Position: model.IntPtr(-1)})
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.Empty(t, rec.writes)
}

func TestAddChild_StoreFailure(t *testing.T) {
	o, rec := newFixture(t, pageFixture())
	rec.failOnNth("create", 0)

	_, err := o.AddChild(context.Background(), "s1", model.BlockTypeText, nil, nil)
	require.ErrorIs(t, err, ErrStoreFailure)
	require.ErrorIs(t, err, errInjected)
	var se *StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "create", se.Op)
	assert.Equal(t, 1, rec.fetches, "snapshot is refreshed after a failure")
}
