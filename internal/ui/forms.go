package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sims-ims/sims-client/internal/edit"
	uistate "github.com/sims-ims/sims-client/internal/ui/state"
)

const maxSuggestions = 5

// editForm mirrors the live draft in text inputs. Like the login form it
// never owns the values: every keystroke becomes a FieldChangedMsg.
type editForm struct {
	fields []edit.Field
	inputs []textinput.Model
	focus  int
}

func newEditForm(target edit.Target) *editForm {
	fields := edit.Fields(target)
	f := &editForm{
		fields: fields,
		inputs: make([]textinput.Model, len(fields)),
	}
	for i, field := range fields {
		f.inputs[i] = newTextInput(fieldLabel(target, field))
	}
	f.sync(target)
	f.setFocus(0)
	return f
}

func fieldLabel(target edit.Target, field edit.Field) string {
	switch field {
	case edit.FieldName:
		if _, ok := target.(edit.NewShelf); ok {
			return "shelf id"
		}
		return "item name"
	case edit.FieldCount:
		if _, ok := target.(edit.NewShelf); ok {
			return "slots"
		}
		return "count"
	case edit.FieldShelf:
		return "shelf id"
	}
	return field.String()
}

// sync copies the draft values into the inputs.
func (f *editForm) sync(target edit.Target) {
	for i, field := range f.fields {
		value, _ := edit.Value(target, field)
		if f.inputs[i].Value() != value {
			f.inputs[i].SetValue(value)
			f.inputs[i].CursorEnd()
		}
	}
}

func (f *editForm) setFocus(idx int) {
	if len(f.inputs) == 0 {
		return
	}
	idx = (idx + len(f.inputs)) % len(f.inputs)
	f.focus = idx
	for i := range f.inputs {
		if i == idx {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
}

func (f *editForm) focusedField() (edit.Field, bool) {
	if f.focus < 0 || f.focus >= len(f.fields) {
		return 0, false
	}
	return f.fields[f.focus], true
}

func (f *editForm) update(msg tea.KeyMsg) (tea.Msg, tea.Cmd) {
	field, ok := f.focusedField()
	if !ok {
		return nil, nil
	}
	before := f.inputs[f.focus].Value()
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	if after := f.inputs[f.focus].Value(); after != before {
		return FieldChangedMsg{Field: field, Value: after}, cmd
	}
	return nil, cmd
}

// suggestions lists cached shelf ids matching the shelf field of a NewItem
// draft while that field has focus.
func (m *Model) suggestions() []string {
	if m.form == nil {
		return nil
	}
	draft, ok := m.edits.Current().(edit.NewItem)
	if !ok {
		return nil
	}
	if field, ok := m.form.focusedField(); !ok || field != edit.FieldShelf {
		return nil
	}
	matches := uistate.Suggest(m.shelves.IDs(), draft.ShelfID)
	if len(matches) > maxSuggestions {
		matches = matches[:maxSuggestions]
	}
	return matches
}

// completeShelf replaces the shelf field with the best cached match. It
// reports false when there is nothing to change.
func (m *Model) completeShelf() (tea.Cmd, bool) {
	draft, ok := m.edits.Current().(edit.NewItem)
	if !ok {
		return nil, false
	}
	best, ok := uistate.Complete(m.shelves.IDs(), draft.ShelfID)
	if !ok || best == draft.ShelfID {
		return nil, false
	}
	return m.apply(FieldChangedMsg{Field: edit.FieldShelf, Value: best}), true
}

func (m *Model) handleStartEditingMsg(msg tea.Msg) tea.Cmd {
	start, ok := msg.(StartEditingMsg)
	if !ok || start.Target == nil {
		return nil
	}
	m.edits.Start(start.Target)
	m.form = newEditForm(start.Target)
	return nil
}

func (m *Model) handleStopEditingMsg(msg tea.Msg) tea.Cmd {
	m.edits.Stop()
	m.form = nil
	return nil
}

func (m *Model) handleFieldChangedMsg(msg tea.Msg) tea.Cmd {
	change, ok := msg.(FieldChangedMsg)
	if !ok {
		return nil
	}
	if m.edits.Update(change.Field, change.Value) && m.form != nil {
		m.form.sync(m.edits.Current())
	}
	return nil
}

func (m *Model) handleSubmitEditMsg(msg tea.Msg) tea.Cmd {
	creds, ok := m.session.Credentials()
	if !ok {
		return nil
	}
	sub, ok := m.edits.Submit()
	if !ok {
		if !m.edits.Active() {
			m.form = nil
		}
		return nil
	}
	m.form = nil
	guard := m.guard
	label := sub.Mutation.String()
	return m.launch("edit.submit", label, func() tea.Msg {
		err := edit.Apply(context.Background(), guard, creds, sub.Mutation)
		return mutationResultMsg{label: label, err: err, refresh: sub.Refresh}
	})
}
