package component

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rovshanmuradov/cryptocalc/internal/ui/style"
)

// FieldType represents the type of form field
type FieldType int

const (
	FieldTypeText FieldType = iota
	FieldTypeNumber
	FieldTypeSelect
)

// SelectChangedMsg is emitted when the value of a select field changes.
type SelectChangedMsg struct {
	Field string
	Value string
}

// FormField represents a single form field
type FormField struct {
	Name        string
	Label       string
	Type        FieldType
	Value       string
	Options     []string // For select fields
	Placeholder string
	Error       string

	textInput   textinput.Model
	selectedIdx int
}

func (f *FormField) isText() bool {
	return f.Type == FieldTypeText || f.Type == FieldTypeNumber
}

// Form is a vertical list of labelled inputs. Values are kept as raw text;
// parsing happens in the calculators.
type Form struct {
	fields     []FormField
	focusIndex int
	width      int
	height     int

	labelStyle   lipgloss.Style
	inputStyle   lipgloss.Style
	focusedStyle lipgloss.Style
	errorStyle   lipgloss.Style
}

// NewForm creates a new form component
func NewForm() *Form {
	palette := style.DefaultPalette()

	return &Form{
		labelStyle: lipgloss.NewStyle().
			Foreground(palette.Text).
			Bold(true).
			MarginRight(1),

		inputStyle: lipgloss.NewStyle().
			Foreground(palette.Text).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.TextMuted),

		focusedStyle: lipgloss.NewStyle().
			Foreground(palette.Text).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.Primary),

		errorStyle: lipgloss.NewStyle().
			Foreground(palette.Error),
	}
}

// AddField adds a field to the form
func (f *Form) AddField(name string, fieldType FieldType, label, placeholder string) *Form {
	ti := textinput.New()
	ti.Width = 30
	ti.Placeholder = placeholder
	if fieldType == FieldTypeNumber {
		ti.CharLimit = 32
	}

	f.fields = append(f.fields, FormField{
		Name:        name,
		Label:       label,
		Type:        fieldType,
		Placeholder: placeholder,
		textInput:   ti,
	})

	if len(f.fields) == 1 {
		f.focus(0)
	}
	return f
}

func (f *Form) field(name string) *FormField {
	for i := range f.fields {
		if f.fields[i].Name == name {
			return &f.fields[i]
		}
	}
	return nil
}

// SetFieldValue sets the value of a field. For select fields the value must
// be one of the options.
func (f *Form) SetFieldValue(name, value string) *Form {
	field := f.field(name)
	if field == nil {
		return f
	}
	if field.Type == FieldTypeSelect {
		for i, opt := range field.Options {
			if opt == value {
				field.selectedIdx = i
				field.Value = value
			}
		}
		return f
	}
	field.Value = value
	field.textInput.SetValue(value)
	return f
}

// SetFieldPlaceholder sets the placeholder for a field
func (f *Form) SetFieldPlaceholder(name, placeholder string) *Form {
	if field := f.field(name); field != nil {
		field.Placeholder = placeholder
		field.textInput.Placeholder = placeholder
	}
	return f
}

// SetFieldOptions replaces the options of a select field, keeping the
// current value when it is still offered.
func (f *Form) SetFieldOptions(name string, options []string) *Form {
	field := f.field(name)
	if field == nil || field.Type != FieldTypeSelect {
		return f
	}

	field.Options = options
	field.selectedIdx = 0
	for i, opt := range options {
		if opt == field.Value {
			field.selectedIdx = i
		}
	}
	field.Value = ""
	if len(options) > 0 {
		field.Value = options[field.selectedIdx]
	}
	return f
}

// SetFieldError shows msg under the named field.
func (f *Form) SetFieldError(name, msg string) *Form {
	if field := f.field(name); field != nil {
		field.Error = msg
	}
	return f
}

// ClearErrors removes all field errors.
func (f *Form) ClearErrors() *Form {
	for i := range f.fields {
		f.fields[i].Error = ""
	}
	return f
}

// Focused returns the name of the focused field.
func (f *Form) Focused() string {
	if len(f.fields) == 0 {
		return ""
	}
	return f.fields[f.focusIndex].Name
}

// Init initializes the form (for compatibility with tea.Model interface)
func (f *Form) Init() tea.Cmd {
	return nil
}

// Update handles form input and updates
func (f *Form) Update(msg tea.Msg) (*Form, tea.Cmd) {
	if len(f.fields) == 0 {
		return f, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "tab":
			f.nextField()
			return f, nil
		case "shift+tab":
			f.prevField()
			return f, nil
		case "enter":
			if f.fields[f.focusIndex].Type == FieldTypeSelect {
				return f, f.cycleSelect(1)
			}
			f.nextField()
			return f, nil
		case "up":
			if f.fields[f.focusIndex].Type == FieldTypeSelect {
				return f, f.cycleSelect(-1)
			}
			f.prevField()
			return f, nil
		case "down":
			if f.fields[f.focusIndex].Type == FieldTypeSelect {
				return f, f.cycleSelect(1)
			}
			f.nextField()
			return f, nil
		}
	}

	field := &f.fields[f.focusIndex]
	if !field.isText() {
		return f, nil
	}

	var cmd tea.Cmd
	field.textInput, cmd = field.textInput.Update(msg)
	if v := field.textInput.Value(); v != field.Value {
		field.Value = v
		field.Error = ""
	}
	return f, cmd
}

// View renders the form
func (f *Form) View() string {
	if len(f.fields) == 0 {
		return "No fields defined"
	}

	var content strings.Builder

	for i, field := range f.fields {
		content.WriteString(f.labelStyle.Render(field.Label))
		content.WriteString("\n")

		fieldStyle := f.inputStyle
		if i == f.focusIndex {
			fieldStyle = f.focusedStyle
		}

		switch field.Type {
		case FieldTypeSelect:
			selectText := field.Value
			if selectText == "" {
				selectText = field.Placeholder
			}
			if i == f.focusIndex && len(field.Options) > 1 {
				selectText = "◀ " + selectText + " ▶"
			}
			content.WriteString(fieldStyle.Render(selectText))
		default:
			content.WriteString(fieldStyle.Render(field.textInput.View()))
		}
		content.WriteString("\n")

		if field.Error != "" {
			content.WriteString(f.errorStyle.Render("⚠ " + field.Error))
			content.WriteString("\n")
		}
	}

	return content.String()
}

func (f *Form) focus(i int) {
	f.fields[f.focusIndex].textInput.Blur()
	f.focusIndex = i
	if f.fields[i].isText() {
		f.fields[i].textInput.Focus()
	}
}

func (f *Form) nextField() {
	f.focus((f.focusIndex + 1) % len(f.fields))
}

func (f *Form) prevField() {
	f.focus((f.focusIndex - 1 + len(f.fields)) % len(f.fields))
}

// cycleSelect moves the focused select field by delta and reports the change.
func (f *Form) cycleSelect(delta int) tea.Cmd {
	field := &f.fields[f.focusIndex]
	if len(field.Options) == 0 {
		return nil
	}

	n := len(field.Options)
	field.selectedIdx = ((field.selectedIdx+delta)%n + n) % n
	field.Value = field.Options[field.selectedIdx]

	changed := SelectChangedMsg{Field: field.Name, Value: field.Value}
	return func() tea.Msg { return changed }
}

// GetValues returns all form field values as a map
func (f *Form) GetValues() map[string]string {
	values := make(map[string]string, len(f.fields))
	for _, field := range f.fields {
		values[field.Name] = field.Value
	}
	return values
}

// GetValue returns the value of a specific field
func (f *Form) GetValue(name string) string {
	if field := f.field(name); field != nil {
		return field.Value
	}
	return ""
}

// Reset clears all text fields
func (f *Form) Reset() *Form {
	for i := range f.fields {
		f.fields[i].Error = ""
		if f.fields[i].isText() {
			f.fields[i].Value = ""
			f.fields[i].textInput.SetValue("")
		}
	}
	if len(f.fields) > 0 {
		f.focus(0)
	}
	return f
}

// SetSize sets the form dimensions
func (f *Form) SetSize(width, height int) *Form {
	f.width = width
	f.height = height

	inputWidth := width - 6 // padding and borders
	if inputWidth > 10 {
		for i := range f.fields {
			f.fields[i].textInput.Width = inputWidth
		}
	}
	return f
}
