package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/planforge/internal/cli/formatter"
	"github.com/alexanderramin/planforge/internal/domain"
	"github.com/alexanderramin/planforge/internal/tree"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// planSaver persists an edited plan.
type planSaver interface {
	Save(ctx context.Context, p *domain.Plan) error
}

type editorMode int

const (
	modeBrowse editorMode = iota
	modeAdd
	modeRename
	modeConfirmRemove
	modeMove
	modeConfirmQuit
)

// planSavedMsg reports the outcome of a save. gen is the edit generation
// the saved tree was taken from.
type planSavedMsg struct {
	plan *domain.Plan
	gen  int
	err  error
}

// editorModel edits one plan's tree in memory. Every engine call returns a
// new tree and the model swaps its reference; nothing is written until save.
type editorModel struct {
	ctx   context.Context
	saver  planSaver
	limits domain.Limits
	plan   *domain.Plan
	nodes  tree.Tree
	// gen counts edits; a save only clears dirty if no edit followed it.
	gen int

	cursor int
	mode   editorMode
	dirty  bool
	// moving is the id of the node picked with the move key.
	moving string

	input  textinput.Model
	keys   editorKeyMap
	help   help.Model
	status string
	err    error
	width  int

	quitting bool
}

func newEditorModel(ctx context.Context, saver planSaver, limits domain.Limits, p *domain.Plan) editorModel {
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Prompt = "› "
	ti.Cursor.SetMode(cursor.CursorStatic)

	return editorModel{
		ctx:    ctx,
		saver:  saver,
		limits: limits,
		plan:   p,
		nodes:  p.Nodes,
		input:  ti,
		keys:   newEditorKeyMap(),
		help:   help.New(),
	}
}

func (m editorModel) Init() tea.Cmd {
	return nil
}

func (m editorModel) rows() []formatter.TreeItem {
	return formatter.TreeItems(m.nodes, true)
}

// current returns the node under the cursor, or nil for an empty tree.
func (m editorModel) current() *domain.Node {
	rows := m.rows()
	if len(rows) == 0 {
		return nil
	}
	idx := min(m.cursor, len(rows)-1)
	n, _ := tree.Find(m.nodes, rows[idx].ID)
	return n
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case planSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.plan = msg.plan
		m.err = nil
		m.status = fmt.Sprintf("Saved %s (%d nodes, %d%% done)", m.plan.Name, m.plan.NodeCount, m.plan.Completion)
		if msg.gen != m.gen {
			m.status += "; newer edits not saved"
			return m, nil
		}
		m.nodes = msg.plan.Nodes
		m.dirty = false
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeAdd, modeRename:
			return m.updateInput(msg)
		case modeConfirmRemove:
			return m.updateConfirmRemove(msg)
		case modeConfirmQuit:
			return m.updateConfirmQuit(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	return m, nil
}

func (m editorModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.rows()
	m.err = nil

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Toggle):
		if n := m.current(); n != nil && len(n.Children) > 0 {
			expanded := !n.Expanded
			m.apply(tree.Update(m.nodes, n.ID, tree.Patch{Expanded: &expanded}))
		}
	case key.Matches(msg, m.keys.Add):
		n := m.current()
		if n == nil {
			break
		}
		if n.Kind.IsLeaf() {
			m.err = fmt.Errorf("cannot add under %q: %w", n.Title, tree.ErrLeafParent)
			break
		}
		m.startInput(modeAdd, "")
	case key.Matches(msg, m.keys.Rename):
		if n := m.current(); n != nil {
			m.startInput(modeRename, n.Title)
		}
	case key.Matches(msg, m.keys.Remove):
		if m.current() != nil {
			m.mode = modeConfirmRemove
		}
	case key.Matches(msg, m.keys.Pick):
		if n := m.current(); n != nil {
			m.moving = n.ID
			m.mode = modeMove
			m.status = fmt.Sprintf("Moving %q: select a new parent and press p", n.Title)
		}
	case key.Matches(msg, m.keys.Drop):
		m.drop()
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeBrowse
		m.moving = ""
		m.status = ""
	case key.Matches(msg, m.keys.Complete):
		m.toggleComplete()
	case key.Matches(msg, m.keys.Save):
		return m, m.save()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Quit):
		if m.dirty && msg.String() != "ctrl+c" {
			m.mode = modeConfirmQuit
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *editorModel) startInput(mode editorMode, value string) {
	m.mode = mode
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m editorModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		title := strings.TrimSpace(m.input.Value())
		mode := m.mode
		m.mode = modeBrowse
		m.input.Blur()
		if title == "" {
			return m, nil
		}
		if mode == modeAdd {
			m.addChild(title)
		} else {
			m.rename(title)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m editorModel) updateConfirmRemove(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeBrowse
	if msg.String() != "y" {
		return m, nil
	}
	n := m.current()
	if n == nil {
		return m, nil
	}
	removed := 1 + tree.CountDescendants(n)
	m.apply(tree.Remove(m.nodes, n.ID))
	m.status = fmt.Sprintf("Removed %d node(s)", removed)
	if rows := m.rows(); m.cursor >= len(rows) {
		m.cursor = max(len(rows)-1, 0)
	}
	return m, nil
}

func (m editorModel) updateConfirmQuit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "y" {
		m.quitting = true
		return m, tea.Quit
	}
	m.mode = modeBrowse
	return m, nil
}

func (m *editorModel) addChild(title string) {
	parent := m.current()
	if parent == nil {
		return
	}
	kind, ok := parent.Kind.ChildKind()
	if !ok {
		m.err = tree.ErrLeafParent
		return
	}
	child := tree.NewNode(kind, title)
	if kind.IsLeaf() {
		child.Properties.Status = domain.StatusPlanning
	}
	if errs := domain.ValidateNode(child, m.limits); len(errs) > 0 {
		m.err = errors.Join(errs...)
		return
	}
	next, err := tree.AddChild(m.nodes, parent.ID, child)
	if err != nil {
		m.err = err
		return
	}
	m.apply(next)
	m.status = fmt.Sprintf("Added %s %q", kind, title)
}

func (m *editorModel) rename(title string) {
	n := m.current()
	if n == nil || n.Title == title {
		return
	}
	m.apply(tree.Update(m.nodes, n.ID, tree.Patch{Title: &title}))
}

func (m *editorModel) drop() {
	if m.mode != modeMove || m.moving == "" {
		return
	}
	target := m.current()
	if target == nil {
		return
	}
	next, err := tree.Move(m.nodes, m.moving, target.ID)
	if err != nil {
		m.err = err
		return
	}
	m.apply(next)
	m.mode = modeBrowse
	m.moving = ""
	m.status = fmt.Sprintf("Moved under %q", target.Title)
}

func (m *editorModel) toggleComplete() {
	n := m.current()
	if n == nil || !n.Kind.IsLeaf() {
		return
	}
	props := n.Properties
	if props.Status.IsCompleted() {
		props.Status = domain.StatusPlanning
	} else {
		props.Status = domain.StatusReleased
	}
	m.apply(tree.Update(m.nodes, n.ID, tree.Patch{Properties: &props}))
}

func (m *editorModel) apply(next tree.Tree) {
	m.nodes = next
	m.dirty = true
	m.gen++
}

func (m editorModel) save() tea.Cmd {
	p := *m.plan
	p.Nodes = m.nodes
	ctx, saver, gen := m.ctx, m.saver, m.gen
	return func() tea.Msg {
		if err := saver.Save(ctx, &p); err != nil {
			return planSavedMsg{gen: gen, err: err}
		}
		return planSavedMsg{plan: &p, gen: gen}
	}
}

func (m editorModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	title := formatter.Bold(m.plan.Name) + " " + formatter.Dim("v"+m.plan.Version)
	title += "  " + formatter.RenderProgress(tree.Completion(m.nodes), 10)
	if m.dirty {
		title += "  " + formatter.StyleYellow.Render("● modified")
	}
	b.WriteString(title + "\n\n")

	rows := m.rows()
	if len(rows) == 0 {
		b.WriteString(formatter.Dim("  Empty plan") + "\n")
	}
	for i, row := range rows {
		b.WriteString(m.renderRow(i, row) + "\n")
	}
	b.WriteString("\n" + m.footer())
	return b.String()
}

func (m editorModel) renderRow(i int, row formatter.TreeItem) string {
	marker := "  "
	if i == m.cursor {
		marker = formatter.StyleHeader.Render("› ")
	}

	n, _ := tree.Find(m.nodes, row.ID)
	fold := "  "
	if n != nil && len(n.Children) > 0 {
		if n.Expanded {
			fold = "▾ "
		} else {
			fold = "▸ "
		}
	}

	label := row.Title
	if row.Kind.IsLeaf() {
		label += " " + formatter.StatusPill(row.Status)
	}

	line := formatter.TreePrefix(row) + fold + label
	switch {
	case m.mode == modeMove && row.ID == m.moving:
		line = formatter.StyleBlue.Render(line)
	case m.mode == modeMove && tree.CanMove(m.nodes, m.moving, row.ID) != nil:
		line = formatter.Dim(line)
	case i == m.cursor:
		line = formatter.Bold(line)
	}
	return marker + line
}

func (m editorModel) footer() string {
	var b strings.Builder
	switch m.mode {
	case modeAdd:
		b.WriteString(formatter.Dim("New child title:") + "\n" + m.input.View() + "\n")
	case modeRename:
		b.WriteString(formatter.Dim("Rename to:") + "\n" + m.input.View() + "\n")
	case modeConfirmRemove:
		if n := m.current(); n != nil {
			b.WriteString(formatter.StyleRed.Render(fmt.Sprintf(
				"Remove %q and %d descendant(s)? (y/n)", n.Title, tree.CountDescendants(n))) + "\n")
		}
	case modeConfirmQuit:
		b.WriteString(formatter.StyleYellow.Render("Unsaved changes. Quit anyway? (y/n)") + "\n")
	}
	if m.err != nil {
		b.WriteString(formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n")
	} else if m.status != "" {
		b.WriteString(formatter.Dim(m.status) + "\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
