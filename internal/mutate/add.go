package mutate

import (
	"context"

	"blocktree/internal/model"
)

// NewBlockInput describes a block to insert. A nil ParentID inserts at the
// root level; a nil Position appends after the existing siblings.
type NewBlockInput struct {
	ParentID *string
	Type     model.BlockType
	Content  model.Payload
	Style    model.Payload
	Config   model.Payload
	Position *int
	Hidden   bool
}

// AddChild appends a new block of type typ under parentID.
func (o *Orchestrator) AddChild(ctx context.Context, parentID string, typ model.BlockType, content, style model.Payload) (model.Block, error) {
	return o.AddBlock(ctx, NewBlockInput{
		ParentID: &parentID,
		Type:     typ,
		Content:  content,
		Style:    style,
	})
}

// AddRoot appends a new top-level block.
func (o *Orchestrator) AddRoot(ctx context.Context, typ model.BlockType, content, style model.Payload) (model.Block, error) {
	return o.AddBlock(ctx, NewBlockInput{Type: typ, Content: content, Style: style})
}

// AddBlock inserts a block, computing depth and order from the snapshot. With
// an explicit Position, siblings at or after it are shifted down first.
func (o *Orchestrator) AddBlock(ctx context.Context, in NewBlockInput) (model.Block, error) {
	if in.Type == "" {
		return model.Block{}, invalidArg("missing block type")
	}
	if in.Position != nil && *in.Position < 0 {
		return model.Block{}, invalidArg("negative position %d", *in.Position)
	}
	if in.ParentID != nil && *in.ParentID == "" {
		return model.Block{}, parentNotFound("")
	}

	snap := o.Snapshot()
	parent, err := o.resolveParent(snap, in.ParentID)
	if err != nil {
		return model.Block{}, err
	}
	if parent != nil {
		if err := o.checkContainment(*parent); err != nil {
			return model.Block{}, err
		}
	}

	sibs := siblingsAt(snap, parentKey(parent), "")
	order := appendOrder(sibs)
	if in.Position != nil {
		order = *in.Position
		if err := o.openSlot(ctx, sibs, order); err != nil {
			return model.Block{}, o.finish(ctx, "add", err)
		}
	}

	nb := model.NewBlock{
		OwnerID:   o.ownerID,
		Type:      in.Type,
		Content:   in.Content.Clone(),
		Style:     in.Style.Clone(),
		Config:    in.Config.Clone(),
		Depth:     childDepth(parent),
		Order:     order,
		IsVisible: !in.Hidden,
	}
	if parent != nil {
		nb.ParentID = model.StrPtr(parent.ID)
	}

	created, err := o.store.CreateBlock(ctx, nb)
	if err != nil {
		return model.Block{}, o.finish(ctx, "add", storeErr("create", "", err))
	}
	o.log.Debug().Str("op", "add").Str("block", created.ID).Str("parent", parentKey(parent)).
		Int("depth", created.Depth).Int("order", created.Order).Msg("block created")
	return created, o.finish(ctx, "add", nil)
}
