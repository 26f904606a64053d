package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gravitrone/shelf/cli/internal/api"
	"github.com/gravitrone/shelf/cli/internal/controller"
	"github.com/gravitrone/shelf/cli/internal/ui/components"
)

const searchDebounce = 300 * time.Millisecond

// --- Messages ---

type searchTickMsg struct{ seq int }
type usersLoadedMsg struct {
	seq   int
	users []api.User
	err   error
	route controller.Route
}
type socialProfileLoadedMsg struct {
	route controller.Route
	err   error
}
type socialCollectionLoadedMsg struct {
	route controller.Route
	err   error
}

// --- User search ---

// SocialModel searches other users. Typing restarts a short debounce and
// only the newest search is allowed to fill the list.
type SocialModel struct {
	deps
	ctrl    *controller.SocialUsers
	search  textinput.Model
	list    *components.List
	users   []api.User
	seq     int
	loading bool
	err     error
	width   int
}

func NewSocialModel(d deps) SocialModel {
	in := textinput.New()
	in.Cursor.SetMode(cursor.CursorStatic)
	in.Prompt = "search > "
	in.Placeholder = "name"
	in.Focus()
	return SocialModel{
		deps:    d,
		ctrl:    controller.NewSocialUsers(d.client, d.log),
		search:  in,
		list:    components.NewList(12),
		loading: true,
	}
}

func (m SocialModel) Init() tea.Cmd {
	return m.searchCmd(m.seq, "", true)
}

// searchCmd runs a search tagged with seq. withSession checks the session
// first, which only the first load needs.
func (m SocialModel) searchCmd(seq int, query string, withSession bool) tea.Cmd {
	ctx, ctrl, gate := m.ctx, m.ctrl, m.gate
	return func() tea.Msg {
		if withSession {
			if _, err := gate.Require(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return usersLoadedMsg{seq: seq, route: controller.RouteLogin}
			}
		}
		users, err := ctrl.Search(ctx, query)
		if ctx.Err() != nil {
			return nil
		}
		return usersLoadedMsg{seq: seq, users: users, err: err}
	}
}

func (m SocialModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case usersLoadedMsg:
		if msg.route != controller.RouteNone {
			return m, navigateTo(msg.route)
		}
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		m.users = msg.users
		rows := make([]string, len(msg.users))
		for i, u := range msg.users {
			rows[i] = formatUserRow(u)
		}
		m.list.SetItems(rows)
		return m, nil

	case searchTickMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.loading = true
		return m, m.searchCmd(msg.seq, m.search.Value(), false)

	case tea.KeyMsg:
		switch {
		case isBack(msg):
			return m, navigateTo(controller.RouteDashboard)
		case isUp(msg):
			m.list.Up()
			return m, nil
		case isDown(msg):
			m.list.Down()
			return m, nil
		case isEnter(msg):
			idx := m.list.Selected()
			if idx >= 0 && idx < len(m.users) {
				return m, navigateTo(controller.SocialUserRoute(m.users[idx].ID))
			}
			return m, nil
		}
		before := m.search.Value()
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if m.search.Value() == before {
			return m, cmd
		}
		m.seq++
		seq := m.seq
		return m, tea.Batch(cmd, tea.Tick(searchDebounce, func(time.Time) tea.Msg {
			return searchTickMsg{seq: seq}
		}))
	}
	return m, nil
}

func formatUserRow(u api.User) string {
	return fmt.Sprintf("%s  %s", components.SanitizeOneLine(u.Name), MutedStyle.Render(components.SanitizeOneLine(u.Email)))
}

func (m SocialModel) View() string {
	var b strings.Builder
	b.WriteString(m.search.View() + "\n\n")
	switch {
	case m.err != nil:
		b.WriteString(ErrorStyle.Render(components.SanitizeOneLine(errorText(m.err))))
	case m.loading && len(m.users) == 0:
		b.WriteString(MutedStyle.Render("Searching..."))
	case len(m.users) == 0:
		b.WriteString(MutedStyle.Render("No users found."))
	default:
		for i, line := range m.list.Visible() {
			abs := m.list.RelToAbs(i)
			if m.list.IsSelected(abs) {
				b.WriteString(SelectedStyle.Render("› ") + line + "\n")
			} else {
				b.WriteString("  " + line + "\n")
			}
		}
	}
	return components.TitledBox("Find collectors", b.String(), m.width)
}

func (m SocialModel) Hints() []string {
	return []string{
		components.Hint("type", "Search"),
		components.Hint("↑/↓", "Move"),
		components.Hint("enter", "Open"),
		components.Hint("esc", "Back"),
	}
}

func (m SocialModel) Capturing() bool { return true }

func (m SocialModel) Resize(width, height int) screenModel {
	m.width = width
	return m
}

// --- Another user's profile ---

type SocialUserModel struct {
	deps
	userID  api.ID
	ctrl    *controller.SocialProfile
	list    *components.List
	loading bool
	width   int
}

func NewSocialUserModel(d deps, userID api.ID) SocialUserModel {
	return SocialUserModel{
		deps:    d,
		userID:  userID,
		ctrl:    controller.NewSocialProfile(d.client, d.gate, d.log),
		list:    components.NewList(10),
		loading: true,
	}
}

func (m SocialUserModel) Init() tea.Cmd {
	ctx, ctrl, id := m.ctx, m.ctrl, m.userID
	return func() tea.Msg {
		route, err := ctrl.Mount(ctx, id)
		if ctx.Err() != nil {
			return nil
		}
		return socialProfileLoadedMsg{route: route, err: err}
	}
}

func (m SocialUserModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case socialProfileLoadedMsg:
		m.loading = false
		if msg.route != controller.RouteNone {
			return m, tea.Batch(navigateTo(msg.route), reportErr(msg.err))
		}
		cols := m.ctrl.Collections()
		rows := make([]string, len(cols))
		for i, c := range cols {
			rows[i] = formatCollectionRow(c)
		}
		m.list.SetItems(rows)
		return m, nil

	case tea.KeyMsg:
		switch {
		case isBack(msg):
			return m, navigateTo(controller.RouteSocial)
		case isUp(msg):
			m.list.Up()
		case isDown(msg):
			m.list.Down()
		case isEnter(msg):
			cols := m.ctrl.Collections()
			idx := m.list.Selected()
			if idx >= 0 && idx < len(cols) {
				return m, navigateTo(controller.SocialCollectionRoute(m.userID, cols[idx].ID))
			}
		}
	}
	return m, nil
}

func (m SocialUserModel) View() string {
	if m.loading {
		return components.TitledBox("Profile", MutedStyle.Render("Loading..."), m.width)
	}
	u := m.ctrl.Profile()
	var b strings.Builder
	b.WriteString(components.InfoRow("Email", components.SanitizeOneLine(u.Email)) + "\n")
	if u.Bio != "" {
		b.WriteString(components.InfoRow("Bio", components.SanitizeOneLine(u.Bio)) + "\n")
	}
	if u.CreatedAt != "" {
		b.WriteString(components.InfoRow("Member since", formatDate(u.CreatedAt)) + "\n")
	}
	b.WriteString("\n" + HeaderStyle.Render("Collections") + "\n")
	if len(m.list.Items) == 0 {
		b.WriteString(MutedStyle.Render("No collections to show."))
	}
	for i, line := range m.list.Visible() {
		abs := m.list.RelToAbs(i)
		if m.list.IsSelected(abs) {
			b.WriteString(SelectedStyle.Render("› "+line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	return components.TitledBox(components.SanitizeOneLine(u.Name), b.String(), m.width)
}

func (m SocialUserModel) Hints() []string {
	return []string{
		components.Hint("↑/↓", "Move"),
		components.Hint("enter", "Open"),
		components.Hint("esc", "Back"),
	}
}

func (m SocialUserModel) Capturing() bool { return false }

func (m SocialUserModel) Resize(width, height int) screenModel {
	m.width = width
	return m
}

// --- Another user's collection ---

type SocialCollectionModel struct {
	deps
	ownerID      api.ID
	collectionID api.ID
	ctrl         *controller.SocialCollection
	list         *components.List
	loading      bool
	width        int
}

func NewSocialCollectionModel(d deps, ownerID, collectionID api.ID) SocialCollectionModel {
	return SocialCollectionModel{
		deps:         d,
		ownerID:      ownerID,
		collectionID: collectionID,
		ctrl:         controller.NewSocialCollection(d.client, d.gate, d.log),
		list:         components.NewList(12),
		loading:      true,
	}
}

func (m SocialCollectionModel) Init() tea.Cmd {
	ctx, ctrl, owner, id := m.ctx, m.ctrl, m.ownerID, m.collectionID
	return func() tea.Msg {
		route, err := ctrl.Mount(ctx, owner, id)
		if ctx.Err() != nil {
			return nil
		}
		return socialCollectionLoadedMsg{route: route, err: err}
	}
}

func (m SocialCollectionModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case socialCollectionLoadedMsg:
		m.loading = false
		if msg.route != controller.RouteNone {
			return m, tea.Batch(navigateTo(msg.route), reportErr(msg.err))
		}
		items := m.ctrl.Items()
		rows := make([]string, len(items))
		for i, it := range items {
			rows[i] = formatItemRow(it)
		}
		m.list.SetItems(rows)
		return m, nil

	case tea.KeyMsg:
		switch {
		case isBack(msg):
			return m, navigateTo(controller.SocialUserRoute(m.ownerID))
		case isUp(msg):
			m.list.Up()
		case isDown(msg):
			m.list.Down()
		}
	}
	return m, nil
}

func (m SocialCollectionModel) View() string {
	if m.loading {
		return components.TitledBox("Collection", MutedStyle.Render("Loading..."), m.width)
	}
	c := m.ctrl.Collection()
	owner := m.ctrl.Owner()
	var b strings.Builder
	b.WriteString(MutedStyle.Render("by "+components.SanitizeOneLine(owner.Name)) + "\n")
	if c.Description != "" {
		b.WriteString(MutedStyle.Render(components.SanitizeText(c.Description)) + "\n")
	}
	b.WriteString("\n")
	if len(m.list.Items) == 0 {
		b.WriteString(MutedStyle.Render("This collection is empty."))
	} else {
		b.WriteString(gridView(itemColumns, m.ctrl.Items(), itemCells, m.list, m.width) + "\n")
	}
	b.WriteString("\n" + components.InfoRow("Total value", formatMoney(controller.TotalValue(m.ctrl.Items()))))
	return components.TitledBox(components.SanitizeOneLine(c.Name), b.String(), m.width)
}

func (m SocialCollectionModel) Hints() []string {
	return []string{
		components.Hint("↑/↓", "Move"),
		components.Hint("esc", "Back"),
	}
}

func (m SocialCollectionModel) Capturing() bool { return false }

func (m SocialCollectionModel) Resize(width, height int) screenModel {
	m.width = width
	return m
}

// formatDate shortens an ISO timestamp to its date.
func formatDate(ts string) string {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02"} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.Format("Jan 2, 2006")
		}
	}
	return components.SanitizeOneLine(ts)
}
