package tui

import (
	"fmt"
	"sort"
	"strings"

	"blocktree/internal/format"
	"blocktree/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const minPreviewWidth = 24

// listWidth is the width of the tree pane; the preview takes the rest.
func (m browseModel) listWidth() int {
	w := m.width * 3 / 5
	if m.width-w < minPreviewWidth+4 {
		w = m.width
	}
	return w
}

func (m browseModel) showPreview() bool { return m.listWidth() < m.width }

func (m browseModel) listHeight() int {
	// Header, status line and help.
	h := m.height - 3
	if m.help.ShowAll {
		h -= 3
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (m *browseModel) layoutPreview() {
	w := m.width - m.listWidth() - 4
	if w < minPreviewWidth {
		w = minPreviewWidth
	}
	m.preview.Width = w
	m.preview.Height = m.listHeight() - 2
	if m.preview.Height < 1 {
		m.preview.Height = 1
	}
}

func (m *browseModel) syncPreview() {
	b, ok := m.selected()
	if !ok {
		m.preview.SetContent(styleMuted.Render("no blocks for " + m.o.OwnerID()))
		return
	}
	m.preview.SetContent(previewContent(b, m.o.Snapshot().ChildCount(b.ID), m.preview.Width))
	m.preview.GotoTop()
}

func previewContent(b model.Block, children, width int) string {
	var sb strings.Builder
	sb.WriteString(styleTitle.Render(string(b.Type)) + " " + styleMuted.Render(b.ID) + "\n")
	meta := fmt.Sprintf("depth %d · order %d · %d children", b.Depth, b.Order, children)
	if !b.IsVisible {
		meta += " · hidden"
	}
	sb.WriteString(styleMuted.Render(meta) + "\n")

	if text, ok := b.Content["text"].(string); ok && strings.TrimSpace(text) != "" {
		md := text
		if b.Type == model.BlockTypeHeading && !strings.HasPrefix(strings.TrimSpace(text), "#") {
			md = "# " + text
		}
		sb.WriteString("\n" + renderMarkdown(md, width) + "\n")
	}
	for _, p := range []struct {
		name string
		val  model.Payload
	}{{"content", b.Content}, {"style", b.Style}, {"config", b.Config}} {
		if len(p.val) == 0 {
			continue
		}
		sb.WriteString("\n" + styleMuted.Render(p.name) + "\n")
		keys := make([]string, 0, len(p.val))
		for k := range p.val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteString(ansi.Truncate(fmt.Sprintf("  %s: %v", k, p.val[k]), width, "…") + "\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (m browseModel) View() string {
	header := styleTitle.Render("blocktree") + styleMuted.Render(fmt.Sprintf("  %s · %d blocks", m.o.OwnerID(), m.o.Snapshot().Len()))

	list := m.renderList()
	body := list
	if m.showPreview() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, list, stylePane.Render(m.preview.View()))
	}

	status := styleStatus.Render(m.status)
	if m.err != nil {
		status = styleError.Render("error: " + m.err.Error())
	}
	status = ansi.Truncate(status, m.width, "…")

	return lipgloss.JoinVertical(lipgloss.Left, header, body, status, m.help.View(m.keys))
}

func (m browseModel) renderList() string {
	w := m.listWidth()
	h := m.listHeight()
	if len(m.rows) == 0 {
		return lipgloss.NewStyle().Width(w).Height(h).Render(styleMuted.Render("(empty) add blocks with `blocktree add-root`"))
	}
	end := m.offset + h
	if end > len(m.rows) {
		end = len(m.rows)
	}
	lines := make([]string, 0, h)
	for i := m.offset; i < end; i++ {
		lines = append(lines, m.renderRow(m.rows[i], i == m.cursor, w))
	}
	return lipgloss.NewStyle().Width(w).Height(h).Render(strings.Join(lines, "\n"))
}

func (m browseModel) renderRow(r blockRow, selected bool, width int) string {
	glyph := "  "
	if r.hasChildren {
		glyph = "▾ "
		if r.collapsed {
			glyph = "▸ "
		}
	}
	typ := styleLeaf
	if model.IsContainer(r.block.Type) {
		typ = styleContainer
	}
	label := typ.Render(string(r.block.Type))
	if s := format.Summary(r.block.Content); s != "" {
		label += " " + s
	}
	if !r.block.IsVisible {
		label = styleHidden.Render(ansi.Strip(label) + " (hidden)")
	}
	if r.block.ID == m.marked {
		label += " " + styleMarked.Render("[marked]")
	}
	line := strings.Repeat("  ", r.depth) + glyph + label
	line = ansi.Truncate(line, width-1, "…")
	if selected {
		return styleSelected.Render(ansi.Strip(line))
	}
	return line
}
