package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsContainer(t *testing.T) {
	for _, typ := range []BlockType{BlockTypeContainer, BlockTypeSection, BlockTypeGrid, BlockTypeFlexRow, BlockTypeFlexColumn} {
		assert.True(t, IsContainer(typ), typ)
	}
	for _, typ := range []BlockType{BlockTypeText, BlockTypeHeading, BlockTypeImage, BlockTypeButton, BlockTypeVideo, BlockTypeSpacer, BlockTypeDivider, BlockTypeHTML, "", "UNKNOWN"} {
		assert.False(t, IsContainer(typ), typ)
	}
}

func TestParseBlockType(t *testing.T) {
	got, err := ParseBlockType(" flex-row ")
	require.NoError(t, err)
	assert.Equal(t, BlockTypeFlexRow, got)

	got, err = ParseBlockType("text")
	require.NoError(t, err)
	assert.Equal(t, BlockTypeText, got)

	_, err = ParseBlockType("carousel")
	require.Error(t, err)
}

func TestPayloadCloneIsDeep(t *testing.T) {
	orig := Payload{
		"text":  "hello",
		"marks": []any{"bold", map[string]any{"href": "x"}},
		"attrs": map[string]any{"level": float64(2)},
	}
	cp := orig.Clone()
	require.Equal(t, orig, cp)

	cp["text"] = "changed"
	cp["marks"].([]any)[1].(map[string]any)["href"] = "y"
	cp["attrs"].(map[string]any)["level"] = float64(3)

	assert.Equal(t, "hello", orig["text"])
	assert.Equal(t, "x", orig["marks"].([]any)[1].(map[string]any)["href"])
	assert.Equal(t, float64(2), orig["attrs"].(map[string]any)["level"])

	assert.Nil(t, Payload(nil).Clone())
}

func TestPayloadCloneCopiesTypedValues(t *testing.T) {
	type link struct {
		Href string
		Tags []string
	}
	n := 7
	orig := Payload{
		"tags":  []int{1, 2},
		"attrs": map[string]string{"k": "v"},
		"grid":  [2][]float64{{1}, {2}},
		"link":  link{Href: "x", Tags: []string{"a"}},
		"span":  &n,
		"none":  nil,
	}
	cp := orig.Clone()
	require.Equal(t, orig, cp)

	cp["tags"].([]int)[0] = 99
	cp["attrs"].(map[string]string)["k"] = "changed"
	cp["grid"].([2][]float64)[0][0] = 5
	cp["link"].(link).Tags[0] = "b"
	*cp["span"].(*int) = 8

	assert.Equal(t, []int{1, 2}, orig["tags"])
	assert.Equal(t, map[string]string{"k": "v"}, orig["attrs"])
	assert.Equal(t, float64(1), orig["grid"].([2][]float64)[0][0])
	assert.Equal(t, "a", orig["link"].(link).Tags[0])
	assert.Equal(t, 7, n)
	assert.Nil(t, cp["none"])
}

func TestPayloadScanValue(t *testing.T) {
	p := Payload{"a": "b"}
	v, err := p.Value()
	require.NoError(t, err)

	var back Payload
	require.NoError(t, back.Scan(v))
	assert.Equal(t, p, back)

	require.NoError(t, back.Scan(nil))
	assert.Nil(t, back)
	require.Error(t, back.Scan(42))
}

func TestPatchApply(t *testing.T) {
	b := Block{ID: "b", ParentID: StrPtr("p"), Depth: 1, Order: 3, IsVisible: true}

	Patch{SetParent: true}.Apply(&b)
	assert.Nil(t, b.ParentID)
	assert.Equal(t, 1, b.Depth)

	content := Payload{"text": "hi"}
	Patch{Content: &content, Depth: IntPtr(0), IsVisible: BoolPtr(false)}.Apply(&b)
	assert.Equal(t, 0, b.Depth)
	assert.False(t, b.IsVisible)
	content["text"] = "mutated"
	assert.Equal(t, "hi", b.Content["text"])

	assert.True(t, Patch{}.IsEmpty())
	assert.False(t, Patch{SetParent: true}.IsEmpty())
}

func TestBlockCloneDoesNotAlias(t *testing.T) {
	b := Block{ID: "b", ParentID: StrPtr("p"), Style: Payload{"color": "red"}}
	cp := b.Clone()
	*cp.ParentID = "q"
	cp.Style["color"] = "blue"
	assert.Equal(t, "p", *b.ParentID)
	assert.Equal(t, "red", b.Style["color"])
}
