package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gravitrone/shelf/cli/internal/controller"
	"github.com/gravitrone/shelf/cli/internal/ui/components"
)

// --- Messages ---

type savedMsg[T controller.Entity] struct {
	closed bool
	err    error
}

type deletedMsg[T controller.Entity] struct {
	deleted bool
	err     error
}

// crudPane is the list plus create/edit form shared by the dashboard and the
// collection screen.
type crudPane[T controller.Entity, D controller.Draft[D]] struct {
	ctx    context.Context
	list   *controller.List[T, D]
	form   *controller.Form[T, D]
	cursor *components.List
	fields fieldSet
	noun   string

	// newFields builds the inputs for a draft; row renders one list line.
	newFields func(D) fieldSet
	row       func(T) string

	// When cells is set the rows render as a grid under columns.
	columns []components.GridColumn
	cells   func(T) []string
}

func (p crudPane[T, D]) formOpen() bool {
	return p.form.State().Open()
}

// refresh rebuilds the visible rows from the controller list.
func (p crudPane[T, D]) refresh() crudPane[T, D] {
	items := p.list.Items()
	rows := make([]string, len(items))
	for i, it := range items {
		rows[i] = p.row(it)
	}
	p.cursor.Replace(rows)
	return p
}

func (p crudPane[T, D]) selected() (T, bool) {
	items := p.list.Items()
	idx := p.cursor.Selected()
	if idx < 0 || idx >= len(items) {
		var zero T
		return zero, false
	}
	return items[idx], true
}

// update handles pane messages and the list/form keys. handled is false for
// keys the owning screen should see.
func (p crudPane[T, D]) update(msg tea.Msg) (crudPane[T, D], tea.Cmd, bool) {
	switch msg := msg.(type) {
	case savedMsg[T]:
		if !msg.closed {
			return p, nil, true
		}
		p = p.refresh()
		return p, toast("success", fmt.Sprintf("%s saved", p.noun)), true

	case deletedMsg[T]:
		p = p.refresh()
		if msg.err != nil {
			return p, reportErr(msg.err), true
		}
		if msg.deleted {
			return p, toast("success", fmt.Sprintf("%s deleted", p.noun)), true
		}
		return p, nil, true

	case tea.KeyMsg:
		if p.formOpen() {
			return p.updateForm(msg)
		}
		switch {
		case isUp(msg):
			p.cursor.Up()
		case isDown(msg):
			p.cursor.Down()
		case isKey(msg, "n"):
			p.form.OpenCreate()
			p.fields = p.newFields(p.form.Draft())
		case isKey(msg, "e"):
			target, ok := p.selected()
			if !ok {
				return p, nil, true
			}
			p.form.OpenEdit(target)
			p.fields = p.newFields(p.form.Draft())
		case isKey(msg, "d"):
			target, ok := p.selected()
			if !ok {
				return p, nil, true
			}
			return p, p.deleteCmd(target), true
		default:
			return p, nil, false
		}
		return p, nil, true
	}
	return p, nil, false
}

func (p crudPane[T, D]) updateForm(msg tea.KeyMsg) (crudPane[T, D], tea.Cmd, bool) {
	switch {
	case isBack(msg):
		p.form.Close()
		return p, nil, true
	case isEnter(msg):
		if p.form.Submitting() {
			return p, nil, true
		}
		return p, p.submitCmd(), true
	}
	var change *fieldChange
	var cmd tea.Cmd
	p.fields, change, cmd = p.fields.update(msg)
	if change != nil {
		p.form.ChangeField(change.key, change.value)
	}
	return p, cmd, true
}

func (p crudPane[T, D]) submitCmd() tea.Cmd {
	ctx, form := p.ctx, p.form
	return func() tea.Msg {
		closed, err := form.Submit(ctx)
		if ctx.Err() != nil {
			return nil
		}
		return savedMsg[T]{closed: closed, err: err}
	}
}

func (p crudPane[T, D]) deleteCmd(target T) tea.Cmd {
	ctx, list := p.ctx, p.list
	return func() tea.Msg {
		deleted, err := list.Delete(ctx, target.EntityID())
		if ctx.Err() != nil {
			return nil
		}
		return deletedMsg[T]{deleted: deleted, err: err}
	}
}

func (p crudPane[T, D]) viewForm(width int) string {
	title := "New " + p.noun
	if p.form.State() == controller.FormOpenEdit {
		title = "Edit " + p.noun
	}
	body := p.fields.view(fieldErrors(p.form.Err()))
	if p.form.Submitting() {
		body += "\n\n" + MutedStyle.Render("Saving...")
	}
	return renderForm(title, body, fieldErrors(p.form.Err()), width)
}

func (p crudPane[T, D]) viewRows(empty string, width int) string {
	if len(p.cursor.Items) == 0 {
		return MutedStyle.Render(empty)
	}
	if p.cells != nil {
		return gridView(p.columns, p.list.Items(), p.cells, p.cursor, width) + "\n"
	}
	lines := ""
	for i, line := range p.cursor.Visible() {
		abs := p.cursor.RelToAbs(i)
		if p.cursor.IsSelected(abs) {
			lines += SelectedStyle.Render("› "+line) + "\n"
		} else {
			lines += NormalStyle.Render("  "+line) + "\n"
		}
	}
	return lines
}

// gridView renders the cursor's visible page of entities as a grid with the
// selected row highlighted.
func gridView[T any](columns []components.GridColumn, entities []T, cells func(T) []string, cursor *components.List, width int) string {
	gridWidth := components.BoxContentWidth(width)
	active := -1
	var rows [][]string
	for i := range cursor.Visible() {
		abs := cursor.RelToAbs(i)
		if abs >= len(entities) {
			break
		}
		if cursor.IsSelected(abs) {
			active = len(rows)
		}
		rows = append(rows, cells(entities[abs]))
	}
	return components.Grid(columns, rows, gridWidth, active)
}

func (p crudPane[T, D]) hints() []string {
	if p.formOpen() {
		return []string{
			components.Hint("tab", "Next"),
			components.Hint("enter", "Save"),
			components.Hint("esc", "Cancel"),
		}
	}
	return []string{
		components.Hint("↑/↓", "Move"),
		components.Hint("n", "New"),
		components.Hint("e", "Edit"),
		components.Hint("d", "Delete"),
	}
}
