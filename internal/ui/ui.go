package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nissyi-gh/worklist/internal/importer"
	"github.com/nissyi-gh/worklist/internal/model"
	"github.com/nissyi-gh/worklist/internal/prompt"
	"github.com/nissyi-gh/worklist/internal/stats"
	"github.com/nissyi-gh/worklist/internal/tasks"
	"github.com/nissyi-gh/worklist/internal/view"
)

type appState int

const (
	stateList appState = iota
	stateForm
	stateConfirm
	stateSearch
	stateStats
)

var (
	appStyle     = lipgloss.NewStyle().Padding(1, 2)
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("170")).Bold(true)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	confirmStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	tabStyle     = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("241"))
	activeTab    = tabStyle.Foreground(lipgloss.Color("170")).Bold(true).Underline(true)
	highStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	mediumStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	lowStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	detailStyle  = lipgloss.NewStyle().
			Padding(1, 2).
			BorderLeft(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("241"))
	notesBoxStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241"))
)

type extraKeyMap struct {
	Add       key.Binding
	Edit      key.Binding
	Toggle    key.Binding
	Delete    key.Binding
	Notes     key.Binding
	Search    key.Binding
	Sort      key.Binding
	Reverse   key.Binding
	Tab       key.Binding
	Stats     key.Binding
	Prompt    key.Binding
	NewPrompt key.Binding
	Import    key.Binding
}

func newExtraKeyMap() extraKeyMap {
	return extraKeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", "x"),
			key.WithHelp("enter/x", "toggle"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Notes: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "notes"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		Reverse: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reverse"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		Stats: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "stats"),
		),
		Prompt: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "copy prompt"),
		),
		NewPrompt: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "copy new-task prompt"),
		),
		Import: key.NewBinding(
			key.WithKeys("I"),
			key.WithHelp("I", "import clipboard"),
		),
	}
}

func (k extraKeyMap) short() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.Toggle, k.Delete, k.Search, k.Sort, k.Tab}
}

func (k extraKeyMap) full() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.Toggle, k.Delete, k.Notes, k.Search, k.Sort, k.Reverse, k.Tab, k.Stats, k.Prompt, k.NewPrompt, k.Import}
}

// Clipboard is the subset of the system clipboard the TUI uses.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error)   { return clipboard.ReadAll() }
func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// Option configures a Model.
type Option func(*Model)

// WithClipboard replaces the system clipboard.
func WithClipboard(c Clipboard) Option {
	return func(m *Model) { m.clipboard = c }
}

// WithTab selects the initial tab.
func WithTab(t view.Tab) Option {
	return func(m *Model) { m.tab = t }
}

// Model is the top-level BubbleTea model for the worklist TUI.
type Model struct {
	ctx       context.Context
	state     appState
	list      list.Model
	form      taskForm
	search    textinput.Model
	progress  progress.Model
	notes     *glamour.TermRenderer
	store     *tasks.Store
	query     view.Query
	tab       view.Tab
	lists     view.Lists
	keys      extraKeyMap
	clipboard Clipboard
	logger    zerolog.Logger
	notice    string
	err       error
	width     int
	height    int
}

// NewModel creates a new TUI model over s. q supplies the initial search and sort.
func NewModel(ctx context.Context, s *tasks.Store, q view.Query, opts ...Option) Model {
	keys := newExtraKeyMap()

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetHeight(1)
	delegate.SetSpacing(0)
	l := list.New(nil, delegate, 0, 0)
	l.Title = "worklist"
	l.Styles.Title = titleStyle
	l.SetShowHelp(true)
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("task", "tasks")
	l.AdditionalShortHelpKeys = keys.short
	l.AdditionalFullHelpKeys = keys.full

	si := textinput.New()
	si.Placeholder = "Search text and notes..."
	si.Prompt = "/ "
	si.CharLimit = 128
	si.SetValue(q.Search)

	if q.Sort == "" {
		q.Sort = view.SortCreatedAt
	}
	if q.Direction == "" {
		q.Direction = view.Descending
	}

	m := Model{
		ctx:       ctx,
		state:     stateList,
		list:      l,
		form:      newTaskForm(),
		search:    si,
		progress:  progress.New(progress.WithDefaultGradient()),
		store:     s,
		query:     q,
		keys:      keys,
		clipboard: systemClipboard{},
		logger:    log.With().Str("cmp", "ui").Logger(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// refresh re-derives the visible lists from the store.
func (m *Model) refresh() {
	m.lists = view.Derive(m.store.Tasks(), m.query)
	m.list.SetItems(toItems(m.lists.Select(m.tab), m.store.Now()))
	m.list.Title = m.listTitle()
}

func (m Model) listTitle() string {
	arrow := "↓"
	if m.query.Direction == view.Ascending {
		arrow = "↑"
	}
	return fmt.Sprintf("worklist · %s %s", m.query.Sort.Label(), arrow)
}

// setErr records err for display. Missing tasks and blank text are silent no-ops.
func (m *Model) setErr(err error) {
	if errors.Is(err, tasks.ErrNotFound) || errors.Is(err, tasks.ErrEmptyText) {
		return
	}
	m.err = err
}

func (m Model) selected() (model.Task, bool) {
	item, ok := m.list.SelectedItem().(TaskItem)
	if !ok {
		return model.Task{}, false
	}
	return item.Task, true
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h, v := appStyle.GetFrameSize()
		contentWidth := msg.Width - h
		leftWidth := contentWidth * 60 / 100
		rightWidth := contentWidth - leftWidth
		m.list.SetSize(leftWidth, msg.Height-v-2)
		m.form.setWidth(max(contentWidth-4, 20))
		m.search.Width = max(leftWidth-4, 10)
		m.progress.Width = max(contentWidth/2, 10)
		m.notes = newNotesRenderer(rightWidth - 6)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	switch m.state {
	case stateList:
		return m.updateList(msg)
	case stateForm:
		return m.updateForm(msg)
	case stateConfirm:
		return m.updateConfirm(msg)
	case stateSearch:
		return m.updateSearch(msg)
	case stateStats:
		return m.updateStats(msg)
	}

	return m, nil
}

func newNotesRenderer(width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(max(width, 20)),
	)
	if err != nil {
		return nil
	}
	return r
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	m.notice = ""
	switch keyMsg.String() {
	case "q":
		return m, tea.Quit
	case "a":
		m.err = nil
		m.state = stateForm
		m.form = newTaskForm()
		m.form.setWidth(max(m.width-8, 20))
		cmd := m.form.load(0, tasks.Draft{Priority: model.PriorityMedium})
		return m, cmd
	case "e":
		if t, ok := m.selected(); ok {
			d, err := m.store.BeginEdit(t.ID)
			if err != nil {
				m.setErr(err)
				return m, nil
			}
			m.err = nil
			m.state = stateForm
			m.form = newTaskForm()
			m.form.setWidth(max(m.width-8, 20))
			cmd := m.form.load(t.ID, d)
			return m, cmd
		}
		return m, nil
	case "enter", "x":
		if t, ok := m.selected(); ok {
			if _, err := m.store.ToggleComplete(m.ctx, t.ID); err != nil {
				m.setErr(err)
			}
			m.refresh()
		}
		return m, nil
	case "n":
		if t, ok := m.selected(); ok {
			if _, err := m.store.ToggleNotesVisibility(m.ctx, t.ID); err != nil {
				m.setErr(err)
			}
			m.refresh()
		}
		return m, nil
	case "d":
		if _, ok := m.selected(); ok {
			m.state = stateConfirm
		}
		return m, nil
	case "/":
		m.state = stateSearch
		cmd := m.search.Focus()
		return m, cmd
	case "s":
		m.query.Sort = m.query.Sort.Next()
		m.refresh()
		return m, nil
	case "r":
		m.query.Direction = m.query.Direction.Toggle()
		m.refresh()
		return m, nil
	case "tab":
		m.tab = m.tab.Next()
		m.list.Select(0)
		m.refresh()
		return m, nil
	case "S":
		m.state = stateStats
		return m, nil
	case "p":
		if t, ok := m.selected(); ok {
			text := prompt.GenerateFromTask(t, prompt.Related(t, m.store.Tasks()), m.store.Now())
			m.copy(text, "Prompt copied to clipboard")
		}
		return m, nil
	case "P":
		m.copy(prompt.GenerateNew(), "New-task prompt copied to clipboard")
		return m, nil
	case "I":
		m.importClipboard()
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) copy(text, notice string) {
	if err := m.clipboard.WriteAll(text); err != nil {
		m.logger.Warn().Err(err).Msg("clipboard write failed")
		m.err = fmt.Errorf("copy to clipboard: %w", err)
		return
	}
	m.err = nil
	m.notice = notice
}

func (m *Model) importClipboard() {
	text, err := m.clipboard.ReadAll()
	if err != nil {
		m.logger.Warn().Err(err).Msg("clipboard read failed")
		m.err = fmt.Errorf("read clipboard: %w", err)
		return
	}
	n, err := importer.Import(m.ctx, m.store, text)
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.notice = fmt.Sprintf("Imported %d tasks", n)
	m.refresh()
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "ctrl+s":
			return m.submitForm()
		case "enter":
			if m.form.focus != fieldNotes {
				return m.submitForm()
			}
		case "esc":
			if m.form.editing() {
				m.store.CancelEdit(m.form.editID)
			}
			m.err = nil
			m.state = stateList
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

// submitForm adds or commits the form. Blank text keeps the form open.
func (m Model) submitForm() (tea.Model, tea.Cmd) {
	d, err := m.form.draft(m.store.Now())
	if err != nil {
		m.err = err
		return m, nil
	}

	if m.form.editing() {
		_, err = m.store.CommitEdit(m.ctx, m.form.editID, d)
	} else {
		_, err = m.store.Add(m.ctx, d)
	}
	switch {
	case errors.Is(err, tasks.ErrEmptyText):
		return m, nil
	case err != nil:
		m.setErr(err)
	default:
		m.err = nil
	}

	m.state = stateList
	m.refresh()
	return m, nil
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "y":
			if t, ok := m.selected(); ok {
				if err := m.store.Delete(m.ctx, t.ID); err != nil {
					m.setErr(err)
				}
			}
			m.state = stateList
			m.refresh()
			return m, nil
		case "n", "esc":
			m.state = stateList
			return m, nil
		}
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			m.search.Blur()
			m.state = stateList
			return m, nil
		case "esc":
			m.search.Blur()
			m.search.SetValue("")
			m.query.Search = ""
			m.state = stateList
			m.refresh()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != m.query.Search {
		m.query.Search = m.search.Value()
		m.list.Select(0)
		m.refresh()
	}
	return m, cmd
}

func (m Model) updateStats(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		m.state = stateList
	}
	return m, nil
}

func (m Model) renderTabs() string {
	var tabs []string
	for _, t := range view.Tabs {
		label := fmt.Sprintf("%s (%d)", t, len(m.lists.Select(t)))
		if t == m.tab {
			tabs = append(tabs, activeTab.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if m.state == stateSearch {
		return line + "\n" + m.search.View()
	}
	if m.query.Search != "" {
		return line + "\n" + statusStyle.Render("search: "+m.query.Search)
	}
	return line + "\n"
}

func (m Model) renderDetail() string {
	t, ok := m.selected()
	if !ok {
		return statusStyle.Render("No tasks. Press a to add one.")
	}
	now := m.store.Now()

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(t.Text))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("priority:     %s %s\n", priorityBadge(t.Priority), t.Priority))
	sb.WriteString(fmt.Sprintf("created_at:   %s\n", t.CreatedAt.Local().Format("2006-01-02 15:04")))
	if t.CompletedAt != nil {
		sb.WriteString(fmt.Sprintf("completed_at: %s\n", t.CompletedAt.Local().Format("2006-01-02 15:04")))
	}
	if status, ok := t.DueStatus(now); ok {
		label := fmt.Sprintf("due_date:     %s (%s)", t.DueDate, status)
		if t.IsOverdue(now) {
			label = errorStyle.Render(label)
		}
		sb.WriteString(label + "\n")
	}

	switch {
	case !t.HasNotes():
		sb.WriteString("\n" + statusStyle.Render("(no notes)"))
	case t.ShowNotes:
		sb.WriteString("\n" + notesBoxStyle.Render(m.renderNotes(t.Notes)))
	default:
		sb.WriteString("\n" + statusStyle.Render("(notes hidden, n to show)"))
	}
	return sb.String()
}

func (m Model) renderNotes(notes string) string {
	if m.notes == nil {
		return notes
	}
	out, err := m.notes.Render(notes)
	if err != nil {
		return notes
	}
	return strings.Trim(out, "\n")
}

func (m Model) renderStats() string {
	s := stats.Compute(m.store.Tasks(), m.store.Now())

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Statistics") + "\n\n")
	sb.WriteString(m.progress.ViewAs(s.CompletionRate/100) + "\n\n")
	sb.WriteString(fmt.Sprintf("total:        %d\n", s.Total))
	sb.WriteString(fmt.Sprintf("completed:    %d\n", s.Completed))
	sb.WriteString(fmt.Sprintf("pending:      %d\n", s.Pending))
	sb.WriteString(fmt.Sprintf("overdue:      %s\n", errorStyle.Render(fmt.Sprint(s.Overdue))))
	sb.WriteString(fmt.Sprintf("avg to done:  %.1f days\n\n", s.AvgCompletionDays))
	sb.WriteString(fmt.Sprintf("%s high  %s medium  %s low\n",
		highStyle.Render(fmt.Sprint(s.Priorities.High)),
		mediumStyle.Render(fmt.Sprint(s.Priorities.Medium)),
		lowStyle.Render(fmt.Sprint(s.Priorities.Low)),
	))
	sb.WriteString("\n" + statusStyle.Render("any key: back"))
	return sb.String()
}

func (m Model) View() string {
	var errView string
	if m.err != nil {
		errView = "\n" + errorStyle.Render("Error: "+m.err.Error()) + "\n"
	} else if m.notice != "" {
		errView = "\n" + noticeStyle.Render(m.notice) + "\n"
	}

	switch m.state {
	case stateForm:
		header := "New Task"
		if m.form.editing() {
			header = "Edit Task"
		}
		return appStyle.Render(
			titleStyle.Render(header) + "\n\n" +
				m.form.View() + "\n\n" +
				statusStyle.Render("tab: next field • enter/ctrl+s: save • esc: cancel") +
				errView,
		)
	case stateConfirm:
		t, _ := m.selected()
		return appStyle.Render(
			confirmStyle.Render("Delete Task?") + "\n\n" +
				"  " + t.Text + "\n\n" +
				statusStyle.Render("y: delete • n/esc: cancel") +
				errView,
		)
	case stateStats:
		return appStyle.Render(m.renderStats() + errView)
	default:
		h, v := appStyle.GetFrameSize()
		contentWidth := m.width - h
		contentHeight := m.height - v
		leftWidth := contentWidth * 60 / 100
		rightWidth := contentWidth - leftWidth

		leftPane := m.renderTabs() + "\n" + m.list.View()
		rightPane := detailStyle.
			Width(rightWidth).
			Height(contentHeight).
			Render(m.renderDetail())
		content := lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)
		return appStyle.Render(content + errView)
	}
}
