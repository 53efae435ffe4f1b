package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/holdem-mcts/internal/mcts"
)

type progressMsg struct {
	done, total int
}

type finishedMsg struct{}

// progressModel renders a search's completion as a progress bar
type progressModel struct {
	bar      progress.Model
	done     int
	total    int
	quitting bool
}

func newProgressModel(total int) progressModel {
	return progressModel{
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		total: total,
	}
}

func (m progressModel) Init() tea.Cmd {
	return nil
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.bar.Width = max(10, min(msg.Width-20, 60))
	case progressMsg:
		m.done, m.total = msg.done, msg.total
	case finishedMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m progressModel) View() string {
	return fmt.Sprintf("\n  %s  %d/%d\n", m.bar.ViewAs(m.percent()), m.done, m.total)
}

func (m progressModel) percent() float64 {
	if m.total <= 0 {
		return 1
	}
	return min(1, float64(m.done)/float64(m.total))
}

// runWithProgress runs search while a bubbletea program draws its progress.
// Quitting the program cancels the search.
func runWithProgress(ctx context.Context, total int,
	search func(context.Context, mcts.ProgressFunc) (mcts.Result, error)) (mcts.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newProgressModel(total), tea.WithOutput(os.Stderr), tea.WithContext(ctx))

	var (
		result mcts.Result
		err    error
	)
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		result, err = search(ctx, func(done, total int) {
			p.Send(progressMsg{done: done, total: total})
		})
		p.Send(finishedMsg{})
	}()

	if _, runErr := p.Run(); runErr != nil && ctx.Err() == nil {
		cancel()
		<-finished
		return result, runErr
	}
	cancel()
	<-finished
	return result, err
}
