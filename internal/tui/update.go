package tui

import (
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/google/uuid"

	"github.com/julianstephens/habitquest/internal/models"
	"github.com/julianstephens/habitquest/internal/validation"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case changeMsg:
		m.snap = m.ledger.Snapshot()
		m.clampCursor()
		return m, waitForChange(m.ledger)

	case writeErrMsg:
		m.writeErr = msg.err
		return m, waitForWriteError(m.ledger)
	}

	if m.state == StateAddHabit {
		return m.updateAddHabit(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % 4
			return m, nil

		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state + 3) % 4
			return m, nil

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.snap.Habits)-1 {
				m.cursor++
			}
			return m, nil

		case key.Matches(msg, m.keys.Toggle):
			if m.state == StateDaily && m.cursor < len(m.snap.Habits) {
				today := time.Now().Format("2006-01-02")
				m.ledger.ToggleHabit(m.snap.Habits[m.cursor].ID, today)
			}
			return m, nil

		case key.Matches(msg, m.keys.Add):
			m.habitForm = &HabitFormModel{Frequency: "daily", XP: "10"}
			m.form = newHabitForm(m.habitForm)
			m.formErr = nil
			m.state = StateAddHabit
			return m, m.form.Init()

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	return m, nil
}

func (m Model) updateAddHabit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateDaily
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		habit := models.Habit{
			ID:        uuid.New().String(),
			Name:      m.habitForm.Name,
			Category:  m.habitForm.Category,
			Frequency: models.Frequency(m.habitForm.Frequency),
			CreatedAt: time.Now(),
		}
		if xp, err := strconv.Atoi(m.habitForm.XP); err == nil {
			habit.XPPerTick = xp
		}
		habit.ApplyDefaults()

		if err := validation.ValidateHabit(habit); err != nil {
			m.formErr = err
			m.form = newHabitForm(m.habitForm)
			return m, m.form.Init()
		}

		if err := m.ledger.AddHabit(habit); err != nil {
			m.formErr = err
			m.form = newHabitForm(m.habitForm)
			return m, m.form.Init()
		}

		m.formErr = nil
		m.state = StateDaily
		return m, nil
	}

	return m, cmd
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.snap.Habits) {
		m.cursor = len(m.snap.Habits) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
