package mutate

import (
	"context"

	"blocktree/internal/model"
)

// PayloadPatch carries opaque payload edits. Nil fields are left untouched.
type PayloadPatch struct {
	Content *model.Payload
	Style   *model.Payload
	Config  *model.Payload
}

// UpdatePayload replaces the given payloads of blockID.
func (o *Orchestrator) UpdatePayload(ctx context.Context, blockID string, p PayloadPatch) (model.Block, error) {
	if _, ok := o.Snapshot().Get(blockID); !ok {
		return model.Block{}, blockNotFound(blockID)
	}
	patch := model.Patch{}
	if p.Content != nil {
		c := p.Content.Clone()
		patch.Content = &c
	}
	if p.Style != nil {
		s := p.Style.Clone()
		patch.Style = &s
	}
	if p.Config != nil {
		c := p.Config.Clone()
		patch.Config = &c
	}
	return o.update(ctx, "edit", blockID, patch)
}

// SetVisible toggles whether blockID renders.
func (o *Orchestrator) SetVisible(ctx context.Context, blockID string, visible bool) (model.Block, error) {
	if _, ok := o.Snapshot().Get(blockID); !ok {
		return model.Block{}, blockNotFound(blockID)
	}
	return o.update(ctx, "visible", blockID, model.Patch{IsVisible: model.BoolPtr(visible)})
}

func (o *Orchestrator) update(ctx context.Context, op, blockID string, patch model.Patch) (model.Block, error) {
	if patch.IsEmpty() {
		b, _ := o.Snapshot().Get(blockID)
		return b, nil
	}
	b, err := o.store.UpdateBlock(ctx, blockID, patch)
	if err != nil {
		return model.Block{}, o.finish(ctx, op, storeErr("update", blockID, err))
	}
	return b, o.finish(ctx, op, nil)
}
