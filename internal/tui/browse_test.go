package tui

import (
	"context"
	"strings"
	"testing"

	"blocktree/internal/model"
	"blocktree/internal/mutate"
	"blocktree/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blk(id, parent string, depth, order int, typ model.BlockType, text string) model.Block {
	b := model.Block{ID: id, OwnerID: "page-1", Type: typ, Depth: depth, Order: order, IsVisible: true}
	if parent != "" {
		b.ParentID = model.StrPtr(parent)
	}
	if text != "" {
		b.Content = model.Payload{"text": text}
	}
	return b
}

func newTestModel(t *testing.T) browseModel {
	t.Helper()
	t.Setenv("BLOCKTREE_TUI_MD_STYLE", "notty")
	st := store.NewMemStore()
	st.Seed(
		blk("s1", "", 0, 0, model.BlockTypeSection, ""),
		blk("g1", "s1", 1, 0, model.BlockTypeGrid, ""),
		blk("h1", "g1", 2, 0, model.BlockTypeHeading, "Welcome"),
		blk("t1", "s1", 1, 1, model.BlockTypeText, "Body copy"),
		blk("s2", "", 0, 1, model.BlockTypeSection, ""),
	)
	o, err := mutate.Load(context.Background(), st, "page-1", mutate.WithContainment(true))
	require.NoError(t, err)
	return newBrowseModel(context.Background(), o)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds a key and, if it produced a command, delivers that command's
// message too.
func press(t *testing.T, m browseModel, msg tea.KeyMsg) browseModel {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(browseModel)
	if cmd != nil {
		out := cmd()
		if _, quit := out.(tea.QuitMsg); !quit {
			next, _ = m.Update(out)
			m = next.(browseModel)
		}
	}
	return m
}

func rowIDs(rows []blockRow) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.block.ID)
	}
	return out
}

func TestFlattenRowsHonorsCollapse(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, []string{"s1", "g1", "h1", "t1", "s2"}, rowIDs(m.rows))
	assert.Equal(t, 2, m.rows[2].depth)
	assert.True(t, m.rows[0].hasChildren)

	rows := flattenRows(m.o.Tree(), map[string]bool{"g1": true})
	assert.Equal(t, []string{"s1", "g1", "t1", "s2"}, rowIDs(rows))
	assert.True(t, rows[1].collapsed)
}

func TestNavigationAndFolding(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, runes("j"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	b, _ := m.selected()
	assert.Equal(t, "h1", b.ID)

	// h is a leaf: collapse jumps to the parent.
	m = press(t, m, runes("h"))
	b, _ = m.selected()
	assert.Equal(t, "g1", b.ID)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{"s1", "g1", "t1", "s2"}, rowIDs(m.rows))

	m = press(t, m, runes("l"))
	assert.Len(t, m.rows, 5)

	m = press(t, m, runes("k"))
	m = press(t, m, runes("k"))
	m = press(t, m, runes("k"))
	assert.Equal(t, 0, m.cursor, "cursor clamps at the top")
}

func TestToggleVisibility(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, runes("j"))
	m = press(t, m, runes("j"))

	m = press(t, m, runes("v"))
	require.NoError(t, m.err)
	b, _ := m.o.Snapshot().Get("h1")
	assert.False(t, b.IsVisible)
	assert.Contains(t, m.status, "hidden")

	m = press(t, m, runes("v"))
	b, _ = m.o.Snapshot().Get("h1")
	assert.True(t, b.IsVisible)
}

func TestDuplicateFocusesCopy(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, runes("j"))

	m = press(t, m, runes("d"))
	require.NoError(t, m.err)
	sel, _ := m.selected()
	assert.NotEqual(t, "g1", sel.ID)
	assert.Equal(t, model.BlockTypeGrid, sel.Type)
	assert.Equal(t, 7, m.o.Snapshot().Len())
}

func TestMarkAndMove(t *testing.T) {
	m := newTestModel(t)

	// Mark t1 (row 3) and move it into s2 (row 4).
	for i := 0; i < 3; i++ {
		m = press(t, m, runes("j"))
	}
	m = press(t, m, runes("m"))
	assert.Equal(t, "t1", m.marked)
	m = press(t, m, runes("j"))
	m = press(t, m, runes("p"))
	require.NoError(t, m.err)

	t1, _ := m.o.Snapshot().Get("t1")
	assert.Equal(t, "s2", t1.ParentKey())
	sel, _ := m.selected()
	assert.Equal(t, "t1", sel.ID)
	assert.Empty(t, m.marked)
}

func TestMoveErrorsSurfaceInStatus(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, runes("m")) // s1
	m = press(t, m, runes("j")) // g1, a descendant
	m = press(t, m, runes("p"))
	require.ErrorIs(t, m.err, mutate.ErrCycleDetected)
	assert.Contains(t, ansi.Strip(m.View()), "error:")

	m = press(t, m, runes("p"))
	assert.Contains(t, m.status, "nothing marked")
}

func TestViewRendersTreeAndPreview(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	m = next.(browseModel)
	m = press(t, m, runes("j"))
	m = press(t, m, runes("j"))

	out := ansi.Strip(m.View())
	assert.Contains(t, out, "page-1 · 5 blocks")
	assert.Contains(t, out, "SECTION")
	assert.Contains(t, out, "HEADING Welcome")
	assert.Contains(t, out, "depth 2 · order 0")
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, ansi.StringWidth(line), 100)
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestRefreshIgnoredWhileMutationRuns(t *testing.T) {
	m := newTestModel(t)

	next, cmd := m.Update(runes("v"))
	m = next.(browseModel)
	require.NotNil(t, cmd)
	require.True(t, m.busy)

	next, refresh := m.Update(runes("r"))
	m = next.(browseModel)
	assert.Nil(t, refresh)
	assert.True(t, m.busy)
	assert.Equal(t, "busy…", m.status)

	next, _ = m.Update(cmd())
	m = next.(browseModel)
	assert.False(t, m.busy)
	assert.False(t, m.rows[0].block.IsVisible)

	next, refresh = m.Update(runes("r"))
	m = next.(browseModel)
	require.NotNil(t, refresh)
	assert.True(t, m.busy, "a running refresh blocks mutations too")
	next, cmd = m.Update(runes("d"))
	m = next.(browseModel)
	assert.Nil(t, cmd)

	next, _ = m.Update(refresh())
	m = next.(browseModel)
	assert.False(t, m.busy)
	assert.Equal(t, "reloaded", m.status)
}
