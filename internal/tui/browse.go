package tui

import (
	"context"
	"fmt"

	"blocktree/internal/model"
	"blocktree/internal/mutate"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// mutationDoneMsg reports a finished orchestrator call. focusID, when set,
// moves the cursor to that block after the reload.
type mutationDoneMsg struct {
	status  string
	focusID string
	err     error
}

type browseModel struct {
	ctx context.Context
	o   *mutate.Orchestrator

	rows      []blockRow
	cursor    int
	offset    int
	collapsed map[string]bool
	marked    string

	keys    keyMap
	help    help.Model
	preview viewport.Model

	width  int
	height int

	status string
	err    error
	busy   bool
}

func newBrowseModel(ctx context.Context, o *mutate.Orchestrator) browseModel {
	m := browseModel{
		ctx:       ctx,
		o:         o,
		collapsed: map[string]bool{},
		keys:      defaultKeyMap(),
		help:      help.New(),
		preview:   viewport.New(40, 10),
		width:     100,
		height:    30,
	}
	m.layoutPreview()
	m.reload("")
	return m
}

func (m browseModel) Init() tea.Cmd { return nil }

func (m *browseModel) reload(focusID string) {
	keep := focusID
	if keep == "" {
		if b, ok := m.selected(); ok {
			keep = b.ID
		}
	}
	m.rows = flattenRows(m.o.Tree(), m.collapsed)
	if i := rowIndex(m.rows, keep); i >= 0 {
		m.cursor = i
	}
	m.clampCursor()
	m.syncPreview()
}

func (m browseModel) selected() (model.Block, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return model.Block{}, false
	}
	return m.rows[m.cursor].block, true
}

func (m *browseModel) clampCursor() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	visible := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if visible > 0 && m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.layoutPreview()
		m.clampCursor()
		m.syncPreview()
		return m, nil

	case mutationDoneMsg:
		m.busy = false
		m.err = msg.err
		m.status = msg.status
		m.reload(msg.focusID)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.preview, cmd = m.preview.Update(msg)
	return m, cmd
}

func (m browseModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.clampCursor()
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.cursor--
		m.clampCursor()
		m.syncPreview()
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.cursor++
		m.clampCursor()
		m.syncPreview()
		return m, nil
	}

	// Refreshes and mutations never overlap.
	if m.busy && key.Matches(msg, m.keys.Refresh) {
		m.status = "busy…"
		return m, nil
	}

	row, ok := m.selectedRow()
	if !ok {
		if key.Matches(msg, m.keys.Refresh) {
			m.busy = true
			return m, m.refresh()
		}
		return m, nil
	}
	id := row.block.ID

	switch {
	case key.Matches(msg, m.keys.Collapse):
		if row.hasChildren && !row.collapsed {
			m.collapsed[id] = true
		} else if p := m.o.Snapshot().ParentOf(id); p != nil {
			// Already folded (or a leaf): jump to the parent like an outliner.
			m.reload(p.ID)
			return m, nil
		}
		m.reload(id)
	case key.Matches(msg, m.keys.Expand):
		delete(m.collapsed, id)
		m.reload(id)
	case key.Matches(msg, m.keys.Toggle):
		if row.hasChildren {
			m.collapsed[id] = !m.collapsed[id]
			m.reload(id)
		}
	case key.Matches(msg, m.keys.Refresh):
		m.busy = true
		return m, m.refresh()
	case key.Matches(msg, m.keys.Mark):
		if m.marked == id {
			m.marked = ""
			m.status = "mark cleared"
		} else {
			m.marked = id
			m.status = "marked " + id + "; press p on a container to move it there"
		}
	case m.busy:
		m.status = "busy…"
	case key.Matches(msg, m.keys.Visible):
		return m.mutate(func(ctx context.Context) mutationDoneMsg {
			b, err := m.o.SetVisible(ctx, id, !row.block.IsVisible)
			state := "shown"
			if !b.IsVisible {
				state = "hidden"
			}
			return mutationDoneMsg{status: id + " " + state, focusID: id, err: err}
		})
	case key.Matches(msg, m.keys.Duplicate):
		return m.mutate(func(ctx context.Context) mutationDoneMsg {
			cp, err := m.o.DuplicateBlock(ctx, id)
			return mutationDoneMsg{status: "duplicated " + id + " as " + cp.ID, focusID: cp.ID, err: err}
		})
	case key.Matches(msg, m.keys.MoveInto), key.Matches(msg, m.keys.MoveRoot):
		if m.marked == "" {
			m.status = "nothing marked; press m on a block first"
			return m, nil
		}
		src := m.marked
		var parent *string
		where := "top level"
		if key.Matches(msg, m.keys.MoveInto) {
			parent = model.StrPtr(id)
			where = id
		}
		m.marked = ""
		return m.mutate(func(ctx context.Context) mutationDoneMsg {
			err := m.o.MoveBlockToContainer(ctx, src, parent, nil)
			return mutationDoneMsg{status: fmt.Sprintf("moved %s to %s", src, where), focusID: src, err: err}
		})
	}
	return m, nil
}

func (m browseModel) selectedRow() (blockRow, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return blockRow{}, false
	}
	return m.rows[m.cursor], true
}

// mutate runs fn off the update loop; its result comes back as a mutationDoneMsg.
func (m browseModel) mutate(fn func(ctx context.Context) mutationDoneMsg) (tea.Model, tea.Cmd) {
	m.busy = true
	m.err = nil
	ctx := m.ctx
	return m, func() tea.Msg {
		msg := fn(ctx)
		if msg.err != nil {
			msg.status = ""
		}
		return msg
	}
}

func (m browseModel) refresh() tea.Cmd {
	ctx := m.ctx
	o := m.o
	return func() tea.Msg {
		if err := o.Refresh(ctx); err != nil {
			return mutationDoneMsg{err: err}
		}
		return mutationDoneMsg{status: "reloaded"}
	}
}
