package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gravitrone/shelf/cli/internal/api"
	"github.com/gravitrone/shelf/cli/internal/controller"
	"github.com/gravitrone/shelf/cli/internal/ui/components"
)

type collectionLoadedMsg struct {
	route controller.Route
	err   error
}

// --- Collection Model ---

// CollectionModel shows one of the user's own collections and its items.
type CollectionModel struct {
	deps
	id      api.ID
	ctrl    *controller.CollectionDetails
	pane    crudPane[api.Item, controller.ItemDraft]
	loading bool
	width   int
}

func NewCollectionModel(d deps, id api.ID) CollectionModel {
	ctrl := controller.NewCollectionDetails(d.client, d.gate, d.confirm, d.log)
	return CollectionModel{
		deps: d,
		id:   id,
		ctrl: ctrl,
		pane: crudPane[api.Item, controller.ItemDraft]{
			ctx:       d.ctx,
			list:      ctrl.Items,
			form:      ctrl.Form,
			cursor:    components.NewList(12),
			noun:      "Item",
			newFields: itemFields,
			row:       formatItemRow,
			columns:   itemColumns,
			cells:     itemCells,
		},
		loading: true,
	}
}

func itemFields(d controller.ItemDraft) fieldSet {
	fs := newFieldSet(
		textField(controller.FieldName, "Name", "", 0),
		textField(controller.FieldDescription, "Description", "", 0),
		textField(controller.FieldQuantity, "Quantity", "1", 9),
		textField(controller.FieldEstimatedValue, "Estimated value", "0.00", 16),
		textField(controller.FieldImageURL, "Image URL", "https://", 0),
	)
	fs.set(controller.FieldName, d.Name)
	fs.set(controller.FieldDescription, d.Description)
	fs.set(controller.FieldQuantity, d.Quantity)
	fs.set(controller.FieldEstimatedValue, d.EstimatedValue)
	fs.set(controller.FieldImageURL, d.ImageURL)
	return fs
}

var itemColumns = []components.GridColumn{
	{Header: "Name", Width: 24},
	{Header: "Qty", Width: 5, Align: lipgloss.Right},
	{Header: "Value", Width: 10, Align: lipgloss.Right},
	{Header: "Description", Width: 10},
}

func itemCells(it api.Item) []string {
	return []string{it.Name, fmt.Sprintf("%d", it.Quantity), formatMoney(it.EstimatedValue), it.Description}
}

func formatItemRow(it api.Item) string {
	return fmt.Sprintf("%s  ×%d  %s", components.SanitizeOneLine(it.Name), it.Quantity, formatMoney(it.EstimatedValue))
}

func formatMoney(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func (m CollectionModel) Init() tea.Cmd {
	ctx, ctrl, id := m.ctx, m.ctrl, m.id
	return func() tea.Msg {
		route, err := ctrl.Mount(ctx, id)
		if ctx.Err() != nil {
			return nil
		}
		return collectionLoadedMsg{route: route, err: err}
	}
}

func (m CollectionModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	if msg, ok := msg.(collectionLoadedMsg); ok {
		m.loading = false
		if msg.route != controller.RouteNone {
			return m, tea.Batch(navigateTo(msg.route), reportErr(msg.err))
		}
		m.pane = m.pane.refresh()
		return m, reportErr(msg.err)
	}

	pane, cmd, handled := m.pane.update(msg)
	m.pane = pane
	if handled {
		return m, cmd
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch {
		case isBack(key):
			return m, navigateTo(controller.RouteDashboard)
		case isKey(key, "r"):
			m.loading = true
			return m, m.Init()
		}
	}
	return m, nil
}

func (m CollectionModel) View() string {
	if m.pane.formOpen() {
		return m.pane.viewForm(m.width)
	}
	c := m.ctrl.Collection()
	title := "Collection"
	if c.Name != "" {
		title = components.SanitizeOneLine(c.Name)
	}
	if m.loading {
		return components.TitledBox(title, MutedStyle.Render("Loading..."), m.width)
	}

	var b strings.Builder
	if c.Description != "" {
		b.WriteString(MutedStyle.Render(components.SanitizeText(c.Description)) + "\n\n")
	}
	b.WriteString(m.pane.viewRows("No items yet. Press n to add one.", m.width))
	b.WriteString("\n" + components.InfoRow("Total value", formatMoney(m.ctrl.TotalValue())))
	return components.TitledBox(title, b.String(), m.width)
}

func (m CollectionModel) Hints() []string {
	hints := m.pane.hints()
	if m.pane.formOpen() {
		return hints
	}
	return append(hints,
		components.Hint("r", "Refresh"),
		components.Hint("esc", "Back"),
	)
}

func (m CollectionModel) Capturing() bool { return m.pane.formOpen() }

func (m CollectionModel) Resize(width, height int) screenModel {
	m.width = width
	return m
}
