package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gravitrone/shelf/cli/internal/controller"
	"github.com/gravitrone/shelf/cli/internal/ui/components"
)

// --- Messages ---

type profileLoadedMsg struct {
	route controller.Route
	err   error
}
type profileSavedMsg struct {
	ok  bool
	err error
}

// --- Profile Model ---

// ProfileModel edits the logged-in user and shows a summary of their shelf.
type ProfileModel struct {
	deps
	ctrl       *controller.Profile
	fields     fieldSet
	loading    bool
	submitting bool
	width      int
}

func NewProfileModel(d deps) ProfileModel {
	return ProfileModel{
		deps:    d,
		ctrl:    controller.NewProfile(d.client, d.gate, d.log),
		fields:  profileFields(controller.ProfileDraft{}),
		loading: true,
	}
}

func profileFields(d controller.ProfileDraft) fieldSet {
	fs := newFieldSet(
		textField(controller.FieldName, "Name", "", 0),
		textField(controller.FieldEmail, "Email", "", 0),
		textField(controller.FieldBio, fmt.Sprintf("Bio (max %d)", controller.BioMaxLen), "a line about you", controller.BioMaxLen),
	)
	fs.set(controller.FieldName, d.Name)
	fs.set(controller.FieldEmail, d.Email)
	fs.set(controller.FieldBio, d.Bio)
	return fs
}

func (m ProfileModel) Init() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		route, err := ctrl.Mount(ctx)
		if ctx.Err() != nil {
			return nil
		}
		return profileLoadedMsg{route: route, err: err}
	}
}

func (m ProfileModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case profileLoadedMsg:
		m.loading = false
		if msg.route != controller.RouteNone {
			return m, navigateTo(msg.route)
		}
		m.fields = profileFields(m.ctrl.Draft())
		return m, reportErr(msg.err)

	case profileSavedMsg:
		m.submitting = false
		if !msg.ok {
			return m, nil
		}
		focus := m.fields.focus
		m.fields = profileFields(m.ctrl.Draft())
		m.fields.focusAt(focus)
		return m, toast("success", m.ctrl.Notice())

	case tea.KeyMsg:
		switch {
		case isBack(msg):
			return m, navigateTo(controller.RouteDashboard)
		case isEnter(msg):
			if m.loading || m.submitting {
				return m, nil
			}
			m.submitting = true
			return m, m.submit()
		}
		var change *fieldChange
		var cmd tea.Cmd
		m.fields, change, cmd = m.fields.update(msg)
		if change != nil {
			m.ctrl.ChangeField(change.key, change.value)
		}
		return m, cmd
	}
	return m, nil
}

func (m ProfileModel) submit() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		ok, err := ctrl.Submit(ctx)
		if ctx.Err() != nil {
			return nil
		}
		return profileSavedMsg{ok: ok, err: err}
	}
}

func (m ProfileModel) View() string {
	if m.loading {
		return components.TitledBox("Profile", MutedStyle.Render("Loading..."), m.width)
	}
	errs := fieldErrors(m.ctrl.Err())
	body := m.fields.view(errs)
	body += "\n" + MutedStyle.Render(fmt.Sprintf("  %d/%d", len([]rune(m.fields.value(controller.FieldBio))), controller.BioMaxLen))
	if m.submitting {
		body += "\n\n" + MutedStyle.Render("Saving...")
	} else if notice := m.ctrl.Notice(); notice != "" {
		body += "\n\n" + SuccessStyle.Render(notice)
	}
	form := renderForm("Profile", body, errs, m.width)
	return form + "\n" + m.renderStats()
}

func (m ProfileModel) renderStats() string {
	stats := m.ctrl.Stats()
	rows := []components.TableRow{
		{Label: "Collections", Value: fmt.Sprintf("%d", stats.Collections)},
		{Label: "Items", Value: fmt.Sprintf("%d", stats.Items)},
	}
	if stats.MostRecent != nil {
		rows = append(rows, components.TableRow{Label: "Newest", Value: components.SanitizeOneLine(stats.MostRecent.Name)})
	}
	if created := m.ctrl.User().CreatedAt; created != "" {
		rows = append(rows, components.TableRow{Label: "Member since", Value: formatDate(created)})
	}
	return strings.TrimRight(components.Table("Your shelf", rows, m.width), "\n")
}

func (m ProfileModel) Hints() []string {
	return []string{
		components.Hint("tab", "Next"),
		components.Hint("enter", "Save"),
		components.Hint("esc", "Back"),
	}
}

func (m ProfileModel) Capturing() bool { return true }

func (m ProfileModel) Resize(width, height int) screenModel {
	m.width = width
	return m
}
