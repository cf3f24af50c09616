package model

import "time"

type Block struct {
	ID      string    `json:"id"`
	OwnerID string    `json:"ownerId"`
	Type    BlockType `json:"type"`

	Content Payload `json:"content,omitempty"`
	Style   Payload `json:"style,omitempty"`
	Config  Payload `json:"config,omitempty"`

	ParentID  *string `json:"parentId,omitempty"`
	Depth     int     `json:"depth"`
	Order     int     `json:"order"`
	IsVisible bool    `json:"isVisible"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BlockNode is a Block with its children attached. Children is a view computed
// from ParentID; it is never persisted.
type BlockNode struct {
	Block
	Children []*BlockNode `json:"children"`
}

// HasParent reports whether the block references a parent.
func (b Block) HasParent() bool {
	return b.ParentID != nil && *b.ParentID != ""
}

// ParentKey returns the parent id, or "" for a root block.
func (b Block) ParentKey() string {
	if b.ParentID == nil {
		return ""
	}
	return *b.ParentID
}

// Clone returns a copy of b that shares no payload or pointer state with it.
func (b Block) Clone() Block {
	out := b
	out.Content = b.Content.Clone()
	out.Style = b.Style.Clone()
	out.Config = b.Config.Clone()
	if b.ParentID != nil {
		p := *b.ParentID
		out.ParentID = &p
	}
	return out
}

// NewBlock is the input to a store create call. The store assigns ID and
// timestamps; everything positional is precomputed by the caller.
type NewBlock struct {
	OwnerID   string    `json:"ownerId"`
	Type      BlockType `json:"type"`
	Content   Payload   `json:"content,omitempty"`
	Style     Payload   `json:"style,omitempty"`
	Config    Payload   `json:"config,omitempty"`
	ParentID  *string   `json:"parentId,omitempty"`
	Depth     int       `json:"depth"`
	Order     int       `json:"order"`
	IsVisible bool      `json:"isVisible"`
}

// Patch is a partial update. Nil fields are left untouched. ParentID is only
// applied when SetParent is true, so a block can be moved to the root level.
type Patch struct {
	Content   *Payload `json:"content,omitempty"`
	Style     *Payload `json:"style,omitempty"`
	Config    *Payload `json:"config,omitempty"`
	SetParent bool     `json:"setParent,omitempty"`
	ParentID  *string  `json:"parentId,omitempty"`
	Depth     *int     `json:"depth,omitempty"`
	Order     *int     `json:"order,omitempty"`
	IsVisible *bool    `json:"isVisible,omitempty"`
}

// IsEmpty reports whether applying p would change nothing.
func (p Patch) IsEmpty() bool {
	return p.Content == nil && p.Style == nil && p.Config == nil && !p.SetParent &&
		p.Depth == nil && p.Order == nil && p.IsVisible == nil
}

// Apply writes the set fields of p onto b. Payloads are deep-copied.
func (p Patch) Apply(b *Block) {
	if b == nil {
		return
	}
	if p.Content != nil {
		b.Content = p.Content.Clone()
	}
	if p.Style != nil {
		b.Style = p.Style.Clone()
	}
	if p.Config != nil {
		b.Config = p.Config.Clone()
	}
	if p.SetParent {
		if p.ParentID == nil || *p.ParentID == "" {
			b.ParentID = nil
		} else {
			id := *p.ParentID
			b.ParentID = &id
		}
	}
	if p.Depth != nil {
		b.Depth = *p.Depth
	}
	if p.Order != nil {
		b.Order = *p.Order
	}
	if p.IsVisible != nil {
		b.IsVisible = *p.IsVisible
	}
}

func StrPtr(s string) *string { return &s }
func IntPtr(n int) *int       { return &n }
func BoolPtr(v bool) *bool    { return &v }
