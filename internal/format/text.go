package format

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"blocktree/internal/model"
	"blocktree/internal/tree"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// summaryKeys are the content fields shown next to a block, first match wins.
var summaryKeys = []string{"text", "title", "label", "alt", "src", "url", "html"}

const summaryWidth = 48

type textStyles struct {
	typ    lipgloss.Style
	id     lipgloss.Style
	muted  lipgloss.Style
	hidden lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
}

// newTextStyles colors output for terminals only; anything else gets plain text.
func newTextStyles(w io.Writer) textStyles {
	profile := termenv.Ascii
	if f, ok := w.(*os.File); ok {
		profile = termenv.NewOutput(f).EnvColorProfile()
	}
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)
	return textStyles{
		typ:    r.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "27", Dark: "75"}),
		id:     r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "245"}),
		muted:  r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "243"}),
		hidden: r.NewStyle().Italic(true).Foreground(lipgloss.AdaptiveColor{Light: "166", Dark: "214"}),
		err:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("160")),
		warn:   r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "136", Dark: "178"}),
	}
}

// WriteText renders CLI payloads for humans. Envelopes are unwrapped to their
// data; forests print as an indented tree.
func WriteText(w io.Writer, v any) error {
	if env, ok := v.(map[string]any); ok {
		if data, ok := env["data"]; ok {
			v = data
		}
	}
	st := newTextStyles(w)

	var lines []string
	switch t := v.(type) {
	case nil:
		lines = []string{st.muted.Render("(none)")}
	case []*model.BlockNode:
		lines = treeLines(st, t)
	case []model.Block:
		for _, b := range t {
			lines = append(lines, blockLine(st, b))
		}
		if len(lines) == 0 {
			lines = []string{st.muted.Render("(none)")}
		}
	case model.Block:
		lines = blockDetail(st, t)
	case *model.Block:
		if t == nil {
			lines = []string{st.muted.Render("(none)")}
		} else {
			lines = blockDetail(st, *t)
		}
	case tree.Report:
		lines = reportLines(st, t)
	case []string:
		lines = t
	case string:
		lines = []string{t}
	default:
		return WriteJSON(w, v, true)
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

// RenderTree returns the forest as box-drawn lines without colors.
func RenderTree(nodes []*model.BlockNode) string {
	st := newTextStyles(io.Discard)
	return strings.Join(treeLines(st, nodes), "\n")
}

func treeLines(st textStyles, roots []*model.BlockNode) []string {
	if len(roots) == 0 {
		return []string{st.muted.Render("(empty)")}
	}
	type frame struct {
		node   *model.BlockNode
		prefix string
		last   bool
		top    bool
	}
	var out []string
	stack := make([]frame, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: roots[i], top: true})
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		branch, childPrefix := "", ""
		if !f.top {
			if f.last {
				branch, childPrefix = "└── ", f.prefix+"    "
			} else {
				branch, childPrefix = "├── ", f.prefix+"│   "
			}
		}
		out = append(out, f.prefix+branch+blockLine(st, f.node.Block))

		kids := f.node.Children
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: kids[i], prefix: childPrefix, last: i == len(kids)-1})
		}
	}
	return out
}

func blockLine(st textStyles, b model.Block) string {
	parts := []string{st.typ.Render(string(b.Type)), st.id.Render(b.ID)}
	if !b.IsVisible {
		parts = append(parts, st.hidden.Render("(hidden)"))
	}
	if s := Summary(b.Content); s != "" {
		parts = append(parts, st.muted.Render(fmt.Sprintf("%q", s)))
	}
	return strings.Join(parts, " ")
}

// Summary picks a short human label out of a content payload.
func Summary(content model.Payload) string {
	for _, k := range summaryKeys {
		s, ok := content[k].(string)
		if !ok {
			continue
		}
		s = strings.Join(strings.Fields(s), " ")
		if s == "" {
			continue
		}
		if r := []rune(s); len(r) > summaryWidth {
			s = string(r[:summaryWidth-1]) + "…"
		}
		return s
	}
	return ""
}

func blockDetail(st textStyles, b model.Block) []string {
	parent := "-"
	if b.ParentID != nil {
		parent = *b.ParentID
	}
	row := func(k, v string) string {
		return st.muted.Render(fmt.Sprintf("%-9s", k)) + " " + v
	}
	lines := []string{
		row("id", b.ID),
		row("type", st.typ.Render(string(b.Type))),
		row("owner", b.OwnerID),
		row("parent", parent),
		row("depth", fmt.Sprint(b.Depth)),
		row("order", fmt.Sprint(b.Order)),
		row("visible", fmt.Sprint(b.IsVisible)),
	}
	for _, p := range []struct {
		name string
		val  model.Payload
	}{{"content", b.Content}, {"style", b.Style}, {"config", b.Config}} {
		if len(p.val) == 0 {
			continue
		}
		keys := make([]string, 0, len(p.val))
		for k := range p.val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			lines = append(lines, row(p.name, fmt.Sprintf("%s=%v", k, p.val[k])))
		}
	}
	return lines
}

func reportLines(st textStyles, r tree.Report) []string {
	if len(r.Issues) == 0 {
		return []string{"ok: no issues"}
	}
	lines := make([]string, 0, len(r.Issues))
	for _, is := range r.Issues {
		level := st.warn.Render(string(is.Level))
		if is.Level == tree.IssueLevelError {
			level = st.err.Render(string(is.Level))
		}
		lines = append(lines, fmt.Sprintf("%s %s %s: %s", level, is.Code, is.BlockID, is.Message))
	}
	return lines
}
