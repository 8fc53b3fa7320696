package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitquest/internal/constants"
	"github.com/julianstephens/habitquest/internal/stats"
)

var tabNames = []string{"Daily", "Weekly", "Monthly", "Stats"}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.state == StateAddHabit {
		var b strings.Builder
		b.WriteString(titleStyle.Render("Add a habit"))
		b.WriteString("\n\n")
		b.WriteString(m.form.View())
		if m.formErr != nil {
			b.WriteString("\n" + warnStyle.Render(m.formErr.Error()))
		}
		b.WriteString("\n" + mutedStyle.Render("esc to cancel"))
		return docStyle.Render(b.String())
	}

	var b strings.Builder
	b.WriteString(m.viewTabs())
	b.WriteString("\n\n")
	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")

	switch m.state {
	case StateDaily:
		b.WriteString(m.viewDaily())
	case StateWeekly:
		b.WriteString(m.viewWeekly())
	case StateMonthly:
		b.WriteString(m.viewMonthly())
	case StateStats:
		b.WriteString(m.viewStats())
	}

	if m.writeErr != nil {
		b.WriteString("\n\n" + warnStyle.Render(fmt.Sprintf("warning: save failed: %v", m.writeErr)))
	}

	b.WriteString("\n\n" + m.help.View(m.keys))
	return docStyle.Render(b.String())
}

func (m Model) viewTabs() string {
	rendered := make([]string, 0, len(tabNames))
	for i, name := range tabNames {
		if SessionState(i) == m.state {
			rendered = append(rendered, activeTabStyle.Render(name))
		} else {
			rendered = append(rendered, inactiveTabStyle.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// viewHeader shows the level, the XP progress bar, and any live gain toasts
func (m Model) viewHeader() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Level %d", m.snap.Level)))
	b.WriteString("  ")
	b.WriteString(progressBar(m.snap.XP, constants.XPPerLevel, 20))
	b.WriteString(mutedStyle.Render(fmt.Sprintf(" %d/%d XP", m.snap.XP, constants.XPPerLevel)))

	for _, g := range m.snap.Gains {
		b.WriteString("  ")
		if g.Amount >= 0 {
			b.WriteString(gainStyle.Render(fmt.Sprintf("+%d XP", g.Amount)))
		} else {
			b.WriteString(lossStyle.Render(fmt.Sprintf("%d XP", g.Amount)))
		}
	}
	return b.String()
}

func (m Model) viewDaily() string {
	if len(m.snap.Habits) == 0 {
		return mutedStyle.Render("No habits yet. Press 'a' to add one.")
	}

	today := time.Now().Format("2006-01-02")
	var b strings.Builder
	for i, h := range m.snap.Habits {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}

		box := "[ ]"
		name := h.Name
		if h.History[today] {
			box = doneStyle.Render("[x]")
			name = doneStyle.Render(name)
		}

		run := stats.CurrentRun(h.History, time.Now())
		meta := mutedStyle.Render(fmt.Sprintf("  %s · run %d · %d days total", h.Frequency, run, h.Streak))
		b.WriteString(fmt.Sprintf("%s%s %s%s\n", cursor, box, name, meta))
	}
	return strings.TrimRight(b.String(), "\n")
}

// viewWeekly shows the last seven days of each habit as a mini grid
func (m Model) viewWeekly() string {
	if len(m.snap.Habits) == 0 {
		return mutedStyle.Render("No habits yet. Press 'a' to add one.")
	}

	now := time.Now()
	var b strings.Builder

	b.WriteString(mutedStyle.Render(padName("", 20)))
	for i := 6; i >= 0; i-- {
		b.WriteString(mutedStyle.Render(fmt.Sprintf(" %2s", now.AddDate(0, 0, -i).Format("02"))))
	}
	b.WriteString("\n")

	for _, h := range m.snap.Habits {
		b.WriteString(padName(h.Name, 20))
		for i := 6; i >= 0; i-- {
			day := now.AddDate(0, 0, -i).Format("2006-01-02")
			if h.History[day] {
				b.WriteString(doneStyle.Render("  x"))
			} else {
				b.WriteString(mutedStyle.Render("  ."))
			}
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) viewMonthly() string {
	series := stats.XPByMonth(m.snap.XPHistory, time.Now(), 6)

	max := 1
	for _, t := range series {
		if t.XP > max {
			max = t.XP
		}
	}

	var b strings.Builder
	for _, t := range series {
		label := fmt.Sprintf("%s %d", t.Month.String()[:3], t.Year)
		b.WriteString(fmt.Sprintf("%-9s %s %d\n", label, chartBar(t.XP, max, 24), t.XP))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) viewStats() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Lifetime XP: %d\n\n", stats.TotalXP(m.snap.XPHistory)))

	now := time.Now()
	for _, h := range m.snap.Habits {
		rate := stats.CompletionRate(h, now, 30)
		run := stats.CurrentRun(h.History, now)
		b.WriteString(fmt.Sprintf("%s %s %3.0f%% of last 30 days", padName(h.Name, 20), chartBar(int(rate*100), 100, 20), rate*100))
		b.WriteString(mutedStyle.Render(fmt.Sprintf(" · run %d", run)))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func progressBar(value, max, width int) string {
	if max <= 0 {
		max = 1
	}
	filled := value * width / max
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return doneStyle.Render(strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", width-filled))
}

func chartBar(value, max, width int) string {
	if max <= 0 {
		max = 1
	}
	filled := value * width / max
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return doneStyle.Render(strings.Repeat("▇", filled)) + strings.Repeat(" ", width-filled)
}

func padName(name string, width int) string {
	if len(name) > width {
		return name[:width-1] + "…"
	}
	return name + strings.Repeat(" ", width-len(name))
}
