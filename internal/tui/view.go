package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mark31d/OlympusAirDiary/internal/views"
)

var weekdays = []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.helpView()
	}

	var body string
	switch m.tab {
	case TabCalendar:
		body = m.calendarView()
	case TabRewards:
		body = m.rewardsView()
	default:
		body = m.memoriesView()
	}

	parts := []string{m.renderHeader(), PanelStyle.Width(max(m.width-2, 20)).Render(body)}
	if m.adding {
		parts = append(parts, m.input.View())
	}
	parts = append(parts, m.renderStatusBar())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderHeader renders the title and tab strip
func (m Model) renderHeader() string {
	title := HeaderStyle.Render("AIR MOMENTS")
	points := DimStyle.Render(fmt.Sprintf("  %d pts", m.snap.Points))

	tabs := make([]string, len(tabNames))
	for i, name := range tabNames {
		if Tab(i) == m.tab {
			tabs[i] = ActiveTabStyle.Render(name)
		} else {
			tabs[i] = TabStyle.Render(name)
		}
	}
	return title + points + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) memoriesView() string {
	var b strings.Builder

	label := "All"
	if m.filter != "" {
		label = string(m.filter)
	}
	b.WriteString(PanelTitleStyle.Render("Memories · "+label) + "\n\n")

	list := m.visibleMemories()
	if len(list) == 0 {
		b.WriteString(DimStyle.Render("No memories yet. Press a to add one."))
		return b.String()
	}
	for i, mem := range list {
		line := fmt.Sprintf("%-10s  %s  %s",
			views.FormatDate(mem.DateISO),
			categoryStyle(string(mem.Category)).Render(fmt.Sprintf("%-10s", mem.Category)),
			truncate(mem.Title, max(m.width-34, 10)),
		)
		if i == m.cursor {
			line = SelectedStyle.Render("› ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	if content := m.detail.View(); strings.TrimSpace(content) != "" {
		b.WriteString("\n" + content)
	}
	return b.String()
}

func (m Model) calendarView() string {
	grid := views.MonthGrid(m.month)
	index := views.MonthIndex(m.snap.Memories, grid.Year, grid.Month)
	selected := m.selectedDate()

	var b strings.Builder
	b.WriteString(PanelTitleStyle.Render(grid.Title) + "\n\n")

	header := make([]string, len(weekdays))
	for i, d := range weekdays {
		header[i] = WeekdayStyle.Render(d)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, header...) + "\n")

	for _, row := range grid.Rows() {
		cells := make([]string, len(row))
		for i, c := range row {
			switch {
			case c.Blank:
				cells[i] = DayStyle.Render("")
			case c.Key == selected:
				cells[i] = SelectedDayStyle.Render(fmt.Sprint(c.Day))
			case index.Has(c.Key):
				cells[i] = MarkedDayStyle.Render(fmt.Sprint(c.Day))
			default:
				cells[i] = DayStyle.Render(fmt.Sprint(c.Day))
			}
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...) + "\n")
	}

	b.WriteString("\n" + PanelTitleStyle.Render(views.FormatDate(selected)) + "\n")
	day := views.DayList(m.snap.Memories, selected)
	if len(day) == 0 {
		b.WriteString(DimStyle.Render("Nothing recorded on this day."))
	}
	for _, mem := range day {
		b.WriteString(categoryStyle(string(mem.Category)).Render("● ") + mem.Title + "\n")
	}
	return b.String()
}

func (m Model) rewardsView() string {
	var b strings.Builder
	b.WriteString(PanelTitleStyle.Render(fmt.Sprintf("Rewards · %d points", m.snap.Points)) + "\n\n")

	all := m.catalog.All()
	if len(all) == 0 {
		b.WriteString(DimStyle.Render("The tip catalog is empty."))
		return b.String()
	}

	purchased := make(map[string]bool, len(m.snap.PurchasedTips))
	for _, id := range m.snap.PurchasedTips {
		purchased[id] = true
	}
	for i, tip := range all {
		mark := DimStyle.Render("○")
		if purchased[tip.ID] {
			mark = SuccessStyle.Render("●")
		}
		line := fmt.Sprintf("%s %-28s %4d pts", mark, truncate(tip.Title, 28), tip.Cost)
		if i == m.tipCursor {
			line = SelectedStyle.Render("› ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	if content := m.detail.View(); strings.TrimSpace(content) != "" {
		b.WriteString("\n" + content)
	}
	return b.String()
}

func (m Model) renderStatusBar() string {
	var status string
	switch {
	case m.status == "":
	case m.statusErr:
		status = ErrorStyle.Render(m.status) + " │ "
	default:
		status = SuccessStyle.Render(m.status) + " │ "
	}

	mutedStyle := lipgloss.NewStyle().Foreground(ColorFgMuted)
	keyStyle := lipgloss.NewStyle().Foreground(ColorFgPrimary)

	var hint string
	switch {
	case m.adding:
		hint = keyStyle.Render("Enter") + mutedStyle.Render(" save │ ") +
			keyStyle.Render("Esc") + mutedStyle.Render(" cancel")
	case m.tab == TabCalendar:
		hint = keyStyle.Render("←→↑↓") + mutedStyle.Render(" day │ ") +
			keyStyle.Render("[ ]") + mutedStyle.Render(" month │ ") +
			keyStyle.Render("a") + mutedStyle.Render(" add │ ") +
			keyStyle.Render("?") + mutedStyle.Render(" help")
	case m.tab == TabRewards:
		hint = keyStyle.Render("b") + mutedStyle.Render(" buy │ ") +
			keyStyle.Render("+") + mutedStyle.Render(" points │ ") +
			keyStyle.Render("?") + mutedStyle.Render(" help")
	default:
		hint = keyStyle.Render("a") + mutedStyle.Render(" add │ ") +
			keyStyle.Render("d") + mutedStyle.Render(" delete │ ") +
			keyStyle.Render("c") + mutedStyle.Render(" category │ ") +
			keyStyle.Render("s") + mutedStyle.Render(" share │ ") +
			keyStyle.Render("?") + mutedStyle.Render(" help")
	}

	return StatusBarStyle.Render(status + hint)
}

// helpView renders the help overlay
func (m Model) helpView() string {
	var b strings.Builder
	b.WriteString(HelpTitleStyle.Render("Keyboard Shortcuts") + "\n\n")
	for _, group := range m.keys.FullHelp() {
		for _, k := range group {
			h := k.Help()
			b.WriteString(HelpKeyStyle.Render(fmt.Sprintf("%-10s", h.Key)) + HelpDescStyle.Render(h.Desc) + "\n")
		}
	}
	b.WriteString("\n" + HelpDescStyle.Render("Press ? or Esc to close"))

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		HelpStyle.Render(b.String()),
	)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
