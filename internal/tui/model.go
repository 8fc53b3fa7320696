package tui

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitquest/internal/ledger"
)

type SessionState int

const (
	StateDaily SessionState = iota
	StateWeekly
	StateMonthly
	StateStats
	StateAddHabit
)

type HabitFormModel struct {
	Name      string
	Category  string
	Frequency string
	XP        string
}

// Model renders ledger state and issues commands; it never mutates habit or
// progress records itself
type Model struct {
	ledger    *ledger.Ledger
	snap      ledger.Snapshot
	state     SessionState
	keys      KeyMap
	help      help.Model
	form      *huh.Form
	habitForm *HabitFormModel
	cursor    int
	width     int
	height    int
	quitting  bool
	writeErr  error
	formErr   error
}

func New(l *ledger.Ledger) Model {
	return Model{
		ledger: l,
		snap:   l.Snapshot(),
		state:  StateDaily,
		keys:   DefaultKeyMap(),
		help:   help.New(),
	}
}

type changeMsg struct{}

type writeErrMsg struct{ err error }

// waitForChange re-renders when the ledger signals a state change. This is
// the reactive subscription: the UI never polls.
func waitForChange(l *ledger.Ledger) tea.Cmd {
	return func() tea.Msg {
		<-l.Changes()
		return changeMsg{}
	}
}

func waitForWriteError(l *ledger.Ledger) tea.Cmd {
	return func() tea.Msg {
		return writeErrMsg{err: <-l.Errors()}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForChange(m.ledger), waitForWriteError(m.ledger))
}

func newHabitForm(f *HabitFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(&f.Name),
			huh.NewInput().Title("Category (optional)").Value(&f.Category),
			huh.NewSelect[string]().
				Title("Frequency").
				Options(huh.NewOptions("daily", "weekly", "monthly")...).
				Value(&f.Frequency),
			huh.NewInput().Title("XP per completion").Value(&f.XP),
		),
	)
}
