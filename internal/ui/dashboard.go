package ui

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gravitrone/shelf/cli/internal/api"
	"github.com/gravitrone/shelf/cli/internal/controller"
	"github.com/gravitrone/shelf/cli/internal/ui/components"
)

type dashboardLoadedMsg struct {
	route controller.Route
	err   error
}

// --- Dashboard Model ---

// DashboardModel lists the logged-in user's collections.
type DashboardModel struct {
	deps
	ctrl    *controller.Dashboard
	pane    crudPane[api.Collection, controller.CollectionDraft]
	loading bool
	width   int
}

func NewDashboardModel(d deps) DashboardModel {
	ctrl := controller.NewDashboard(d.client, d.gate, d.confirm, d.log)
	return DashboardModel{
		deps: d,
		ctrl: ctrl,
		pane: crudPane[api.Collection, controller.CollectionDraft]{
			ctx:       d.ctx,
			list:      ctrl.Collections,
			form:      ctrl.Form,
			cursor:    components.NewList(12),
			noun:      "Collection",
			newFields: collectionFields,
			row:       formatCollectionRow,
		},
		loading: true,
	}
}

func collectionFields(d controller.CollectionDraft) fieldSet {
	fs := newFieldSet(
		textField(controller.FieldName, "Name", "", 0),
		textField(controller.FieldDescription, "Description", "", 0),
		textField(controller.FieldImageURL, "Image URL", "https://", 0),
		toggleField(controller.FieldIsPublic, "Public"),
	)
	fs.set(controller.FieldName, d.Name)
	fs.set(controller.FieldDescription, d.Description)
	fs.set(controller.FieldImageURL, d.ImageURL)
	fs.set(controller.FieldIsPublic, strconv.FormatBool(d.IsPublic))
	return fs
}

func formatCollectionRow(c api.Collection) string {
	visibility := "private"
	if c.IsPublic {
		visibility = "public"
	}
	return fmt.Sprintf("%s  (%d items, %s)", components.SanitizeOneLine(c.Name), c.ItemCount, visibility)
}

func (m DashboardModel) Init() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		route, err := ctrl.Mount(ctx)
		if ctx.Err() != nil {
			return nil
		}
		return dashboardLoadedMsg{route: route, err: err}
	}
}

func (m DashboardModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	if msg, ok := msg.(dashboardLoadedMsg); ok {
		m.loading = false
		if msg.route != controller.RouteNone {
			return m, navigateTo(msg.route)
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
		case isEnter(key):
			if c, ok := m.pane.selected(); ok {
				return m, navigateTo(controller.CollectionRoute(c.ID))
			}
		case isKey(key, "r"):
			m.loading = true
			return m, m.Init()
		case isKey(key, "s"):
			return m, navigateTo(controller.RouteSocial)
		case isKey(key, "p"):
			return m, navigateTo(controller.RouteProfile)
		}
	}
	return m, nil
}

func (m DashboardModel) View() string {
	if m.pane.formOpen() {
		return m.pane.viewForm(m.width)
	}
	title := fmt.Sprintf("My collections (%d)", m.ctrl.Collections.Len())
	if name := m.ctrl.User().Name; name != "" {
		title = fmt.Sprintf("%s · %s", title, components.SanitizeOneLine(name))
	}
	if m.loading {
		return components.TitledBox(title, MutedStyle.Render("Loading..."), m.width)
	}
	return components.TitledBox(title, m.pane.viewRows("No collections yet. Press n to create one.", m.width), m.width)
}

func (m DashboardModel) Hints() []string {
	hints := m.pane.hints()
	if m.pane.formOpen() {
		return hints
	}
	return append(hints,
		components.Hint("enter", "Open"),
		components.Hint("r", "Refresh"),
	)
}

func (m DashboardModel) Capturing() bool { return m.pane.formOpen() }

func (m DashboardModel) Resize(width, height int) screenModel {
	m.width = width
	return m
}
