package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/holdem-mcts/internal/deck"
	"github.com/lox/holdem-mcts/internal/evaluator"
	"github.com/lox/holdem-mcts/internal/mcts"
	"github.com/lox/holdem-mcts/internal/statistics"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	handStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	equityStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10"))

	tieStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	lossStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
)

func pct(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// renderResult writes the equity table for hero
func renderResult(out io.Writer, hero [2]deck.Card, result mcts.Result, seed int64, showPossibilities bool) {
	stats := &result.Stats
	lo, hi := stats.ConfidenceInterval95()

	fmt.Fprintf(out, "%s %s\n\n", headerStyle.Render("hand"), handStyle.Render(deck.FormatCards(hero[:], " ")))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", headerStyle.Render("equity"), equityStyle.Render(pct(result.Equity)))
	fmt.Fprintf(w, "%s\t%s\n", headerStyle.Render("win"), equityStyle.Render(pct(stats.WinRate())))
	fmt.Fprintf(w, "%s\t%s\n", headerStyle.Render("tie"), tieStyle.Render(pct(stats.TieRate())))
	fmt.Fprintf(w, "%s\t%s\n", headerStyle.Render("loss"), lossStyle.Render(pct(stats.LossRate())))
	fmt.Fprintf(w, "%s\t%s\n", headerStyle.Render("95% ci"), mutedStyle.Render(pct(lo)+" - "+pct(hi)))
	_ = w.Flush()

	if showPossibilities && stats.Samples > 0 {
		fmt.Fprintln(out)
		renderPossibilities(out, stats)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%d iterations, %d nodes in %v (seed %d)\n",
		result.Iterations, result.Nodes, result.Elapsed.Truncate(time.Millisecond), seed)
}

func renderPossibilities(out io.Writer, stats *statistics.Statistics) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\n", categoryStyle.Render("hand type"), categoryStyle.Render("freq"))
	for c := evaluator.StraightFlush; ; c-- {
		freq := stats.CategoryFrequency(c)
		value := "."
		if freq > 0 {
			value = pct(freq)
		}
		fmt.Fprintf(w, "%s\t%s\n", categoryStyle.Render(c.String()), lossStyle.Render(value))
		if c == evaluator.HighCard {
			break
		}
	}
	_ = w.Flush()
}
