package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"daybook/internal/calendar"
	"daybook/internal/config"
	"daybook/internal/storage"
)

type mode int

const (
	modeBrowse mode = iota
	modeForm
	modeConfirmDelete
)

type focus int

const (
	focusCalendar focus = iota
	focusList
)

// Cursor is the visible month and the selected day. Month is 1-12.
type Cursor struct {
	Year     int
	Month    int
	Selected time.Time
}

func (c Cursor) SelectedDate() string {
	return c.Selected.Format(storage.DateLayout)
}

type formState struct {
	editingID string
	category  storage.Category
	hour      int
	date      string
}

type Model struct {
	store      *storage.Store
	cfg        config.Config
	tasks      []storage.Task
	cursor     Cursor
	today      time.Time
	focus      focus
	listIdx    int
	mode       mode
	input      textinput.Model
	form       *formState
	pendingDel *storage.Task
	status     string
}

func Run(store *storage.Store, cfg config.Config) error {
	tasks, loaded := store.Load()
	m := New(store, cfg, tasks, time.Now())
	if loaded == storage.LoadCorrupt {
		m.status = "Saved tasks were unreadable; starting empty."
	}

	program := tea.NewProgram(m)
	_, err := program.Run()
	return err
}

func New(store *storage.Store, cfg config.Config, tasks []storage.Task, today time.Time) Model {
	ti := textinput.New()
	ti.Placeholder = "Title"
	ti.CharLimit = 256
	ti.Width = 40

	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return Model{
		store: store,
		cfg:   cfg,
		tasks: tasks,
		cursor: Cursor{
			Year:     today.Year(),
			Month:    int(today.Month()),
			Selected: today,
		},
		today:  today,
		input:  ti,
		mode:   modeBrowse,
		status: fmt.Sprintf("Press '%s' to add, '%s'/'%s' to change month.", cfg.Keys.Add, cfg.Keys.PrevMonth, cfg.Keys.NextMonth),
	}
}

func (m Model) Tasks() []storage.Task {
	return m.tasks
}

func (m Model) Cursor() Cursor {
	return m.cursor
}

func (m Model) Status() string {
	return m.status
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case modeForm:
			return m.updateForm(msg.String(), msg)
		case modeConfirmDelete:
			return m.updateDeleteConfirm(msg.String())
		}
		return m.updateBrowse(msg.String())
	case tea.WindowSizeMsg:
		m.input.Width = max(msg.Width-10, 10)
	}
	return m, nil
}

func (m Model) dayTasks() []storage.Task {
	return storage.QueryByDate(m.tasks, m.cursor.SelectedDate())
}

func (m Model) selectedTask() (storage.Task, bool) {
	day := m.dayTasks()
	if len(day) == 0 {
		return storage.Task{}, false
	}
	return day[clampCursor(m.listIdx, len(day))], true
}

func (m Model) updateBrowse(key string) (tea.Model, tea.Cmd) {
	k := m.cfg.Keys
	switch key {
	case "ctrl+c", k.Quit:
		return m, tea.Quit
	case k.Focus:
		if m.focus == focusCalendar && len(m.dayTasks()) > 0 {
			m.focus = focusList
			m.listIdx = 0
		} else {
			m.focus = focusCalendar
		}
	case k.Left, "left":
		m = m.selectDate(m.cursor.Selected.AddDate(0, 0, -1))
	case k.Right, "right":
		m = m.selectDate(m.cursor.Selected.AddDate(0, 0, 1))
	case k.Up, "up":
		if m.focus == focusList {
			m.listIdx = clampCursor(m.listIdx-1, len(m.dayTasks()))
		} else {
			m = m.selectDate(m.cursor.Selected.AddDate(0, 0, -7))
		}
	case k.Down, "down":
		if m.focus == focusList {
			m.listIdx = clampCursor(m.listIdx+1, len(m.dayTasks()))
		} else {
			m = m.selectDate(m.cursor.Selected.AddDate(0, 0, 7))
		}
	case k.PrevMonth:
		m = m.moveMonth(-1)
	case k.NextMonth:
		m = m.moveMonth(1)
	case k.Today:
		m = m.selectDate(m.today)
	case k.Add:
		return m.startForm(nil)
	case k.Edit:
		t, ok := m.selectedTask()
		if !ok {
			m.status = "No task to edit"
			return m, nil
		}
		return m.startForm(&t)
	case k.Delete:
		t, ok := m.selectedTask()
		if !ok {
			m.status = "No task to delete"
			return m, nil
		}
		m.mode = modeConfirmDelete
		m.pendingDel = &t
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", t.Title)
	}
	return m, nil
}

func (m Model) selectDate(d time.Time) Model {
	m.cursor.Selected = d
	m.cursor.Year = d.Year()
	m.cursor.Month = int(d.Month())
	m.listIdx = 0
	if len(m.dayTasks()) == 0 {
		m.focus = focusCalendar
	}
	return m
}

// moveMonth shifts the view and keeps the selected day of month, clamped to
// the new month's length.
func (m Model) moveMonth(delta int) Model {
	y, mon := calendar.AdvanceMonth(m.cursor.Year, m.cursor.Month, delta)
	day := min(m.cursor.Selected.Day(), calendar.DaysIn(y, mon))
	return m.selectDate(time.Date(y, time.Month(mon), day, 0, 0, 0, 0, time.UTC))
}

func (m Model) startForm(t *storage.Task) (tea.Model, tea.Cmd) {
	f := &formState{
		category: storage.ParseCategory(m.cfg.DefaultCategory),
		hour:     m.cfg.DefaultHour,
		date:     m.cursor.SelectedDate(),
	}
	m.input.SetValue("")
	m.status = "New task: type a title, enter to save, esc to cancel"
	if t != nil {
		f.editingID = t.ID
		f.category = t.Category
		f.date = t.Date
		if h, err := storage.ParseHour(t.Time); err == nil {
			f.hour = h
		}
		m.input.SetValue(t.Title)
		m.status = "Edit task: enter to save, esc to cancel"
	}
	m.form = f
	m.mode = modeForm
	cmd := m.input.Focus()
	return m, cmd
}

func (m Model) closeForm() Model {
	m.form = nil
	m.mode = modeBrowse
	m.input.SetValue("")
	m.input.Blur()
	return m
}

func (m Model) updateForm(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.cfg.Keys
	switch key {
	case k.Cancel, "esc":
		m = m.closeForm()
		m.status = "Cancelled"
		return m, nil
	case k.Category:
		m.form.category = m.form.category.Next()
		return m, nil
	case k.HourUp:
		m.form.hour = wrapIndex(m.form.hour+1, 24)
		return m, nil
	case k.HourDown:
		m.form.hour = wrapIndex(m.form.hour-1, 24)
		return m, nil
	case k.DateBack:
		m.form.date = shiftDate(m.form.date, -1)
		return m, nil
	case k.DateForward:
		m.form.date = shiftDate(m.form.date, 1)
		return m, nil
	case k.Confirm, "enter":
		return m.submitForm()
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	f := m.form
	title := m.input.Value()
	at := storage.FormatHour(f.hour)

	var (
		tasks   []storage.Task
		outcome storage.Outcome
		err     error
		verb    string
	)
	if f.editingID == "" {
		verb = "Added"
		tasks, outcome, err = m.store.Add(m.tasks, storage.Draft{
			Title:    title,
			Category: f.category,
			Date:     f.date,
			Time:     at,
		})
	} else {
		verb = "Updated"
		cat := f.category
		tasks, outcome, err = m.store.Update(m.tasks, f.editingID, storage.Patch{
			Title:    &title,
			Category: &cat,
			Date:     &f.date,
			Time:     &at,
		})
	}
	m.tasks = tasks

	switch {
	case outcome == storage.Rejected:
		m.status = "Title cannot be empty"
		return m, nil
	case outcome == storage.NotFound:
		m = m.closeForm()
		m.status = "Task no longer exists"
		return m, nil
	case err != nil:
		m.status = fmt.Sprintf("save failed: %v", err)
	default:
		m.status = verb + " task"
	}
	m = m.closeForm()
	if d, err := calendar.ParseDate(f.date); err == nil && f.date != m.cursor.SelectedDate() {
		m = m.selectDate(d)
	}
	return m, nil
}

// shiftDate moves a YYYY-MM-DD string by days, leaving it alone if it does
// not parse.
func shiftDate(date string, days int) string {
	d, err := calendar.ParseDate(date)
	if err != nil {
		return date
	}
	return d.AddDate(0, 0, days).Format(storage.DateLayout)
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", m.cfg.Keys.Cancel:
		m.status = "Delete cancelled"
	case "y", "Y":
		if m.pendingDel == nil {
			m.status = "Nothing to delete"
			break
		}
		tasks, outcome, err := m.store.Remove(m.tasks, m.pendingDel.ID)
		m.tasks = tasks
		switch {
		case outcome == storage.NotFound:
			m.status = "Task no longer exists"
		case err != nil:
			m.status = fmt.Sprintf("delete failed: %v", err)
		default:
			m.status = "Deleted task"
		}
		m.listIdx = clampCursor(m.listIdx, len(m.dayTasks()))
		if len(m.dayTasks()) == 0 {
			m.focus = focusCalendar
		}
	default:
		return m, nil
	}
	m.mode = modeBrowse
	m.pendingDel = nil
	return m, nil
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func renderHelp(k config.Keymap) string {
	return strings.Join([]string{
		fmt.Sprintf("%s/%s/%s/%s move", k.Left, k.Down, k.Up, k.Right),
		fmt.Sprintf("%s/%s month", k.PrevMonth, k.NextMonth),
		k.Today + " today",
		k.Focus + " list",
		k.Add + " add",
		k.Edit + " edit",
		k.Delete + " delete",
		k.Quit + " quit",
	}, " • ")
}
