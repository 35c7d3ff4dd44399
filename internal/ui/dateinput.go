package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nissyi-gh/worklist/internal/model"
)

var errDayRequired = errors.New("day is required")

const (
	partYear = iota
	partMonth
	partDay
)

var dateParts = [3]struct {
	placeholder string
	width       int
}{
	partYear:  {"YYYY", 4},
	partMonth: {"MM", 2},
	partDay:   {"DD", 2},
}

// dateInput edits a due date as three numeric fields.
type dateInput struct {
	fields [3]textinput.Model
	focus  int
}

func digitsOnly(s string) error {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return fmt.Errorf("digits only")
		}
	}
	return nil
}

func newDateInput() dateInput {
	var d dateInput
	for i, part := range dateParts {
		ti := textinput.New()
		ti.Placeholder = part.placeholder
		ti.CharLimit = part.width
		ti.Width = part.width + 2
		ti.Validate = digitsOnly
		d.fields[i] = ti
	}
	return d
}

func (d *dateInput) Focus() tea.Cmd {
	return d.focusField(partYear)
}

func (d *dateInput) FocusLast() tea.Cmd {
	return d.focusField(partDay)
}

func (d *dateInput) Blur() {
	for i := range d.fields {
		d.fields[i].Blur()
	}
}

// SetValue fills the fields from date; nil clears them.
func (d *dateInput) SetValue(date *model.Date) {
	if date == nil {
		for i := range d.fields {
			d.fields[i].SetValue("")
		}
		return
	}
	d.fields[partYear].SetValue(fmt.Sprintf("%04d", date.Year))
	d.fields[partMonth].SetValue(fmt.Sprintf("%02d", int(date.Month)))
	d.fields[partDay].SetValue(fmt.Sprintf("%02d", date.Day))
}

// Value parses the fields. A blank year or month falls back to now's.
func (d *dateInput) Value(now time.Time) (model.Date, error) {
	day := d.part(partDay)
	if day == "" {
		return model.Date{}, errDayRequired
	}
	year, month := d.part(partYear), d.part(partMonth)
	if year == "" {
		year = strconv.Itoa(now.Year())
	}
	if month == "" {
		month = strconv.Itoa(int(now.Month()))
	}

	return model.ParseDate(year + "-" + zeroPad(month) + "-" + zeroPad(day))
}

func (d *dateInput) part(i int) string {
	return strings.TrimSpace(d.fields[i].Value())
}

func zeroPad(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

func (d *dateInput) IsEmpty() bool {
	for i := range d.fields {
		if d.fields[i].Value() != "" {
			return false
		}
	}
	return true
}

func (d *dateInput) atFirst() bool { return d.focus == partYear }
func (d *dateInput) atLast() bool  { return d.focus == partDay }

func (d *dateInput) focusField(idx int) tea.Cmd {
	d.focus = idx
	var cmds []tea.Cmd
	for i := range d.fields {
		if i == idx {
			cmds = append(cmds, d.fields[i].Focus())
		} else {
			d.fields[i].Blur()
		}
	}
	return tea.Batch(cmds...)
}

func (d dateInput) Update(msg tea.Msg) (dateInput, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "tab", "right":
			if d.atLast() {
				return d, nil
			}
			cmd := d.focusField(d.focus + 1)
			return d, cmd
		case "shift+tab", "left":
			if d.atFirst() {
				return d, nil
			}
			cmd := d.focusField(d.focus - 1)
			return d, cmd
		}
	}

	var cmd tea.Cmd
	d.fields[d.focus], cmd = d.fields[d.focus].Update(msg)
	return d, cmd
}

func (d dateInput) View() string {
	return d.fields[partYear].View() + " - " + d.fields[partMonth].View() + " - " + d.fields[partDay].View()
}
