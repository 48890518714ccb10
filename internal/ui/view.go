package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"daybook/internal/calendar"
	"daybook/internal/storage"
)

const dotGlyph = "●"

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	blankStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(calendar.WeekdayColor))
	todayStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color(calendar.ColorOf(storage.Red)))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#FFFFFF"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%d년 %d월", m.cursor.Year, m.cursor.Month)))
	b.WriteString("\n\n")
	b.WriteString(m.renderGrid())
	b.WriteString("\n")
	b.WriteString(m.renderDay())
	b.WriteString("\n---\n")

	if m.mode == modeForm {
		b.WriteString(m.renderForm())
		b.WriteString("\n")
	}

	b.WriteString(statusStyle.Render(m.status))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(renderHelp(m.cfg.Keys)))
	return b.String()
}

func cellWidth(maxDots int) int {
	return 3 + maxDots
}

func (m Model) renderGrid() string {
	var b strings.Builder
	width := cellWidth(m.cfg.MaxDots)

	for i, label := range calendar.WeekdayLabels() {
		color := calendar.WeekdayColor
		switch i {
		case 0:
			color = calendar.SundayColor
		case 6:
			color = calendar.SaturdayColor
		}
		// Hangul labels are double width.
		cell := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(label)
		b.WriteString(cell + strings.Repeat(" ", max(width-2, 1)))
	}
	b.WriteString("\n")

	selected := m.cursor.SelectedDate()
	todayStr := m.today.Format(storage.DateLayout)
	for _, week := range calendar.MonthGrid(m.cursor.Year, m.cursor.Month) {
		for _, cell := range week {
			if cell.Blank() {
				b.WriteString(blankStyle.Render(strings.Repeat(" ", width)))
				continue
			}
			b.WriteString(m.renderCell(cell.Day, selected, todayStr, width))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderCell(day int, selected, today string, width int) string {
	date := calendar.DateString(m.cursor.Year, m.cursor.Month, day)
	num := fmt.Sprintf("%2d", day)
	switch {
	case date == selected:
		num = selectedStyle.Render(num)
	case date == today:
		num = todayStyle.Render(num)
	}

	dots := calendar.DayIndicators(storage.QueryByDate(m.tasks, date), m.cfg.MaxDots)
	var d strings.Builder
	for _, c := range dots {
		d.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(calendar.ColorOf(c))).Render(dotGlyph))
	}
	pad := width - 2 - len(dots)
	return num + d.String() + strings.Repeat(" ", max(pad, 0))
}

func (m Model) renderDay() string {
	var b strings.Builder
	sel := m.cursor.Selected
	b.WriteString(titleStyle.Render(fmt.Sprintf("%02d월 %02d일", int(sel.Month()), sel.Day())))
	b.WriteString("\n")

	day := m.dayTasks()
	if len(day) == 0 {
		b.WriteString(fmt.Sprintf("No tasks. Press '%s' to add one.\n", m.cfg.Keys.Add))
		return b.String()
	}
	for i, t := range day {
		cursor := " "
		if m.focus == focusList && i == clampCursor(m.listIdx, len(day)) {
			cursor = ">"
		}
		accent := lipgloss.NewStyle().Foreground(lipgloss.Color(calendar.ColorOf(t.Category)))
		b.WriteString(fmt.Sprintf("%s %s %s %s\n", cursor, accent.Render("▌"), accent.Bold(true).Render(t.Time), t.Title))
	}
	return b.String()
}

func (m Model) renderForm() string {
	if m.form == nil {
		return ""
	}
	k := m.cfg.Keys
	heading := "New task"
	if m.form.editingID != "" {
		heading = "Edit task"
	}
	dot := lipgloss.NewStyle().Foreground(lipgloss.Color(calendar.ColorOf(m.form.category))).Render(dotGlyph)

	var b strings.Builder
	b.WriteString(titleStyle.Render(heading))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Category : %s %s (%s)\n", dot, m.form.category, k.Category))
	b.WriteString(fmt.Sprintf("Time     : %s (%s/%s)\n", storage.FormatHour(m.form.hour), k.HourUp, k.HourDown))
	b.WriteString(fmt.Sprintf("Date     : %s (%s/%s)\n", m.form.date, k.DateBack, k.DateForward))
	return b.String()
}
