package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowmap/pkg/flowchart"
)

// Editor styles
var (
	editSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	editNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	editDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	editErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
	editBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorGreen)
	editManualStyle   = editBoxStyle.BorderForeground(colorYellow)
)

const (
	resizeStep  = 20  // pixels per +/- keystroke
	newNodeGap  = 40  // vertical gap below the selected node for new nodes
	pxPerColumn = 8.0 // preview scale
	pxPerRow    = 20.0
)

// editCommand opens the interactive editor.
func (c *CLI) editCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Edit the document interactively",
		Long: `Edit the document in a terminal UI. Labels are typed in place and the node
box is resized after every keystroke, exactly as the HTTP API and the other
commands size it.

Keys: ↑/↓ select, enter edit label (alt+enter for a new line, enter or esc to
finish), space toggle done, a/s add task/simple node, +/- resize, d delete,
q save and quit, ctrl+c quit without saving.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			fc, ws, err := c.load(ctx)
			if err != nil {
				return err
			}
			defer ws.Close()

			m := newEditorModel(ctx, c.doc, ws.editor(fc))
			final, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()
			if err != nil {
				return err
			}

			m = final.(editorModel)
			if !m.save || !m.dirty {
				printInfo("No changes saved")
				return nil
			}
			out := m.ed.Flowchart()
			if c.save(ctx, ws, out) {
				printSuccess("Saved %s", StyleHighlight.Render(c.doc))
				printCounts(out)
			}
			return nil
		},
	}
}

// =============================================================================
// editorModel
// =============================================================================

// editorModel is the bubbletea model of the edit command. Every change goes
// through the flowchart editor so sizing matches the rest of the tool.
type editorModel struct {
	ctx context.Context
	doc string
	ed  *flowchart.Editor

	// Snapshot of the editor's document, refreshed after every change.
	title string
	nodes []flowchart.Node
	stats flowchart.Stats

	cursor int
	offset int
	height int

	editing bool
	draft   []rune

	dirty     bool
	save      bool
	status    string
	statusErr bool
}

func newEditorModel(ctx context.Context, doc string, ed *flowchart.Editor) editorModel {
	m := editorModel{ctx: ctx, doc: doc, ed: ed, height: 12}
	m.refresh()
	return m
}

func (m *editorModel) refresh() {
	fc := m.ed.Flowchart()
	m.title = fc.DisplayTitle()
	m.nodes = fc.Nodes
	m.stats = fc.Stats()
	m.cursor = max(0, min(m.cursor, len(m.nodes)-1))
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m *editorModel) selected() (flowchart.Node, bool) {
	if len(m.nodes) == 0 {
		return flowchart.Node{}, false
	}
	return m.nodes[m.cursor], true
}

func (m *editorModel) report(err error, format string, args ...any) {
	if err != nil {
		m.status, m.statusErr = err.Error(), true
		return
	}
	m.status, m.statusErr = fmt.Sprintf(format, args...), false
	m.dirty = true
	m.refresh()
}

func (m editorModel) Init() tea.Cmd {
	return nil
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-16, 3)
		m.refresh()
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.save = false
			return m, tea.Quit
		}
		if m.editing {
			return m.updateLabel(msg), nil
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m editorModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n, ok := m.selected()

	switch msg.String() {
	case "q", "esc":
		m.save = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.refresh()
		}
	case "down", "j":
		if m.cursor < len(m.nodes)-1 {
			m.cursor++
			m.refresh()
		}
	case "enter", "e":
		if ok {
			m.editing = true
			m.draft = []rune(n.Label)
		}
	case " ", "x":
		if ok {
			_, err := m.ed.ToggleCompleted(n.ID)
			m.report(err, "Toggled %s", n.ID)
		}
	case "a":
		m.add(flowchart.KindTask)
	case "s":
		m.add(flowchart.KindSimple)
	case "+", "=":
		if ok {
			_, err := m.ed.Resize(m.ctx, n.ID, n.Width+resizeStep, n.Height+resizeStep)
			m.report(err, "Resized %s", n.ID)
		}
	case "-":
		if ok {
			_, err := m.ed.Resize(m.ctx, n.ID, n.Width-resizeStep, n.Height-resizeStep)
			m.report(err, "Resized %s", n.ID)
		}
	case "d", "delete":
		if ok {
			err := m.ed.DeleteNodes(n.ID)
			m.report(err, "Deleted %s", n.ID)
		}
	}
	return m, nil
}

// add creates a node below the selected one and starts editing its label.
func (m *editorModel) add(kind flowchart.Kind) {
	var pos flowchart.Position
	if sel, ok := m.selected(); ok {
		pos = flowchart.Position{X: sel.Position.X, Y: sel.Position.Y + sel.Height + newNodeGap}
	}
	n, err := m.ed.AddNode(kind, pos)
	m.report(err, "Added %s", n.ID)
	if err != nil {
		return
	}
	m.cursor = len(m.nodes) - 1
	m.refresh()
	m.editing = true
	m.draft = nil
}

// updateLabel handles a keystroke while a label is being typed. The node is
// relabelled, and so resized, after every keystroke.
func (m editorModel) updateLabel(msg tea.KeyMsg) editorModel {
	prev := m.draft
	switch msg.Type {
	case tea.KeyEsc:
		m.editing = false
		return m
	case tea.KeyEnter:
		if !msg.Alt {
			m.editing = false
			return m
		}
		m.draft = append(clone(m.draft), '\n')
	case tea.KeyBackspace:
		if len(m.draft) == 0 {
			return m
		}
		m.draft = clone(m.draft[:len(m.draft)-1])
	case tea.KeySpace:
		m.draft = append(clone(m.draft), ' ')
	case tea.KeyTab:
		m.draft = append(clone(m.draft), '\t')
	case tea.KeyRunes:
		m.draft = append(clone(m.draft), msg.Runes...)
	default:
		return m
	}

	n, _ := m.selected()
	updated, err := m.ed.SetLabel(m.ctx, n.ID, string(m.draft))
	if err != nil {
		m.draft = prev
	}
	m.report(err, "%s %s", n.ID, sizeText(updated))
	return m
}

func clone(r []rune) []rune { return append([]rune(nil), r...) }

func (m editorModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.title))
	b.WriteString(" " + editDimStyle.Render("("+m.doc+")"))
	b.WriteString("\n")
	b.WriteString(progressBar(m.stats, 20))
	b.WriteString("\n\n")

	if len(m.nodes) == 0 {
		b.WriteString(editDimStyle.Render("  No nodes yet. Press a to add a task."))
		b.WriteString("\n")
	}
	end := min(m.offset+m.height, len(m.nodes))
	for i := m.offset; i < end; i++ {
		n := m.nodes[i]
		cursor := "  "
		style := editNormalStyle
		if i == m.cursor {
			cursor = "▸ "
			style = editSelectedStyle
		}
		line := fmt.Sprintf("%s%s %-8s %s", cursor, completionMarkOr(n, " "), n.ID, oneLine(n.DisplayLabel(), 40))
		b.WriteString(style.Render(line))
		b.WriteString("  " + editDimStyle.Render(sizeText(n)))
		b.WriteString("\n")
	}

	if n, ok := m.selected(); ok {
		b.WriteString("\n")
		b.WriteString(m.preview(n))
		b.WriteString("\n")
	}

	if m.status != "" {
		if m.statusErr {
			b.WriteString(editErrorStyle.Render(iconError + " " + m.status))
		} else {
			b.WriteString(editDimStyle.Render(m.status))
		}
		b.WriteString("\n")
	}

	help := "↑/↓ select  ⏎ edit  space done  a/s add  +/- size  d delete  q save+quit"
	if m.editing {
		help = "type to edit  alt+⏎ new line  ⏎/esc done  ctrl+c discard"
	}
	b.WriteString(editDimStyle.Render(help))
	return b.String()
}

// preview draws n as a box scaled down from its pixel size, so resizes are
// visible while typing.
func (m editorModel) preview(n flowchart.Node) string {
	text := n.Label
	if m.editing {
		text = string(m.draft) + "▏"
	}
	style := editBoxStyle
	if n.ManuallyResized {
		style = editManualStyle
	}
	return style.
		Width(max(int(n.Width/pxPerColumn), 4)).
		Height(max(int(n.Height/pxPerRow), 1)).
		Render(text)
}
