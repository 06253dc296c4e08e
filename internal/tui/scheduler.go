package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/revolution-of-the-dispossessed/Columbine/internal/engine"
)

type timerMsg struct {
	id uint64
}

type teaTask struct {
	s  *Scheduler
	id uint64
}

func (t teaTask) Stop() bool {
	if _, ok := t.s.tasks[t.id]; !ok {
		return false
	}
	delete(t.s.tasks, t.id)
	return true
}

// Scheduler turns engine delays into tea.Tick commands. Callbacks run from
// Update when the tick message arrives, so the engine is only ever touched
// on the program's event loop.
type Scheduler struct {
	next  uint64
	tasks map[uint64]func()
	cmds  []tea.Cmd
}

var _ engine.Scheduler = (*Scheduler)(nil)

func NewScheduler() *Scheduler {
	return &Scheduler{tasks: make(map[uint64]func())}
}

func (s *Scheduler) Schedule(delay time.Duration, fn func()) engine.Task {
	s.next++
	id := s.next
	s.tasks[id] = fn
	s.cmds = append(s.cmds, tea.Tick(delay, func(time.Time) tea.Msg {
		return timerMsg{id: id}
	}))
	return teaTask{s: s, id: id}
}

// Fire runs the task if it is still live.
func (s *Scheduler) Fire(id uint64) {
	fn, ok := s.tasks[id]
	if !ok {
		return
	}
	delete(s.tasks, id)
	fn()
}

// Drain returns the ticks scheduled since the last call.
func (s *Scheduler) Drain() tea.Cmd {
	if len(s.cmds) == 0 {
		return nil
	}
	cmds := s.cmds
	s.cmds = nil
	return tea.Batch(cmds...)
}
