package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gravitrone/shelf/cli/internal/ui/components"
)

// --- Form Fields ---

type formField struct {
	key    string
	label  string
	input  textinput.Model
	toggle bool
	on     bool
}

func textField(key, label, placeholder string, limit int) formField {
	in := textinput.New()
	in.Cursor.SetMode(cursor.CursorStatic)
	in.Prompt = "> "
	in.Placeholder = placeholder
	if limit > 0 {
		in.CharLimit = limit
	}
	return formField{key: key, label: label, input: in}
}

func passwordField(key, label string) formField {
	f := textField(key, label, "", 0)
	f.input.EchoMode = textinput.EchoPassword
	f.input.EchoCharacter = '•'
	return f
}

func toggleField(key, label string) formField {
	return formField{key: key, label: label, toggle: true}
}

func (f formField) value() string {
	if f.toggle {
		return strconv.FormatBool(f.on)
	}
	return f.input.Value()
}

// fieldSet is a vertical stack of inputs with one focused at a time.
type fieldSet struct {
	fields []formField
	focus  int
}

func newFieldSet(fields ...formField) fieldSet {
	fs := fieldSet{fields: fields}
	fs.focusAt(0)
	return fs
}

func (fs *fieldSet) focusAt(i int) {
	if len(fs.fields) == 0 {
		return
	}
	if i < 0 {
		i = len(fs.fields) - 1
	}
	if i >= len(fs.fields) {
		i = 0
	}
	fs.focus = i
	for idx := range fs.fields {
		if fs.fields[idx].toggle {
			continue
		}
		if idx == i {
			fs.fields[idx].input.Focus()
		} else {
			fs.fields[idx].input.Blur()
		}
	}
}

func (fs fieldSet) focused() string {
	if len(fs.fields) == 0 {
		return ""
	}
	return fs.fields[fs.focus].key
}

func (fs fieldSet) value(key string) string {
	for _, f := range fs.fields {
		if f.key == key {
			return f.value()
		}
	}
	return ""
}

// set fills a field without reporting a change.
func (fs *fieldSet) set(key, value string) {
	for i := range fs.fields {
		if fs.fields[i].key != key {
			continue
		}
		if fs.fields[i].toggle {
			fs.fields[i].on, _ = strconv.ParseBool(value)
		} else {
			fs.fields[i].input.SetValue(value)
		}
	}
}

// fieldChange reports which field an update edited.
type fieldChange struct {
	key   string
	value string
}

// update moves focus on tab/shift+tab/up/down, flips toggles on space, and
// forwards everything else to the focused input. It returns the edit, if any.
func (fs fieldSet) update(msg tea.KeyMsg) (fieldSet, *fieldChange, tea.Cmd) {
	if len(fs.fields) == 0 {
		return fs, nil, nil
	}
	switch {
	case isKey(msg, "tab") || isDown(msg):
		fs.focusAt(fs.focus + 1)
		return fs, nil, nil
	case isKey(msg, "shift+tab") || isUp(msg):
		fs.focusAt(fs.focus - 1)
		return fs, nil, nil
	}

	f := &fs.fields[fs.focus]
	if f.toggle {
		if isSpace(msg) {
			f.on = !f.on
			return fs, &fieldChange{key: f.key, value: f.value()}, nil
		}
		return fs, nil, nil
	}

	before := f.input.Value()
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	if f.input.Value() == before {
		return fs, nil, cmd
	}
	return fs, &fieldChange{key: f.key, value: f.input.Value()}, cmd
}

func (fs fieldSet) view(errs map[string]string) string {
	var b strings.Builder
	for i, f := range fs.fields {
		label := MutedStyle.Render(f.label)
		if i == fs.focus {
			label = SelectedStyle.Render(f.label)
		}
		b.WriteString(label)
		b.WriteString("\n")
		if f.toggle {
			box := "[ ]"
			if f.on {
				box = "[x]"
			}
			if i == fs.focus {
				box = SelectedStyle.Render(box)
			}
			b.WriteString("  " + box)
		} else {
			b.WriteString(f.input.View())
		}
		if msg := errs[f.key]; msg != "" {
			b.WriteString("\n" + ErrorStyle.Render("  "+components.SanitizeOneLine(msg)))
		}
		if i < len(fs.fields)-1 {
			b.WriteString("\n\n")
		}
	}
	return b.String()
}
