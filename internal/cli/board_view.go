package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/drapaimern/lumina/internal/core"
	"github.com/drapaimern/lumina/pkg/models"
)

// boardStyles holds the lipgloss styles for one theme. Rebuilt on render
// so the theme toggle takes effect immediately.
type boardStyles struct {
	header    lipgloss.Style
	statLabel lipgloss.Style
	statValue lipgloss.Style
	tab       lipgloss.Style
	tabActive lipgloss.Style
	card      lipgloss.Style
	cardFocus lipgloss.Style
	title     lipgloss.Style
	titleDone lipgloss.Style
	desc      lipgloss.Style
	faint     lipgloss.Style
	accent    lipgloss.Style
	proposal  lipgloss.Style
	warn      lipgloss.Style
	hint      lipgloss.Style
	help      lipgloss.Style
}

func newBoardStyles(dark bool) boardStyles {
	var accent, text, muted, warn lipgloss.Color
	if dark {
		accent, text, muted, warn = lipgloss.Color("105"), lipgloss.Color("252"), lipgloss.Color("243"), lipgloss.Color("203")
	} else {
		accent, text, muted, warn = lipgloss.Color("62"), lipgloss.Color("235"), lipgloss.Color("245"), lipgloss.Color("160")
	}

	border := lipgloss.RoundedBorder()
	return boardStyles{
		header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(accent).Padding(0, 1),
		statLabel: lipgloss.NewStyle().Foreground(muted),
		statValue: lipgloss.NewStyle().Bold(true).Foreground(text),
		tab:       lipgloss.NewStyle().Foreground(muted).Padding(0, 1),
		tabActive: lipgloss.NewStyle().Bold(true).Foreground(accent).Padding(0, 1).Underline(true),
		card:      lipgloss.NewStyle().BorderStyle(border).BorderForeground(muted).Padding(0, 1),
		cardFocus: lipgloss.NewStyle().BorderStyle(border).BorderForeground(accent).Padding(0, 1),
		title:     lipgloss.NewStyle().Bold(true).Foreground(text),
		titleDone: lipgloss.NewStyle().Bold(true).Foreground(muted).Strikethrough(true),
		desc:      lipgloss.NewStyle().Foreground(text),
		faint:     lipgloss.NewStyle().Foreground(muted),
		accent:    lipgloss.NewStyle().Foreground(accent),
		proposal:  lipgloss.NewStyle().Italic(true).Foreground(accent),
		warn:      lipgloss.NewStyle().Foreground(warn),
		hint:      lipgloss.NewStyle().Foreground(warn),
		help:      lipgloss.NewStyle().Foreground(muted),
	}
}

func (m boardModel) View() string {
	st := newBoardStyles(m.dark)

	if !m.loaded {
		return st.faint.Render("Loading tasks...")
	}

	var b strings.Builder
	b.WriteString(st.header.Render("✦ Lumina"))
	b.WriteString("\n\n")
	b.WriteString(m.renderStats(st))
	b.WriteString("\n")
	b.WriteString(m.renderTabs(st))
	b.WriteString("\n\n")

	if m.form != nil {
		b.WriteString(m.renderForm(st))
		b.WriteString("\n")
	}

	visible := m.visible()
	if len(visible) == 0 {
		b.WriteString(m.renderEmptyState(st))
	} else {
		for i, task := range visible {
			b.WriteString(m.renderCard(st, task, i == m.cursor))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(st.help.Render(m.helpLine()))
	return b.String()
}

func (m boardModel) renderStats(st boardStyles) string {
	stats := core.Tally(m.tasks)
	return fmt.Sprintf("%s %s   %s %s   %s %s",
		st.statLabel.Render("Total"), st.statValue.Render(fmt.Sprintf("%d", stats.Total)),
		st.statLabel.Render("Pending"), st.statValue.Render(fmt.Sprintf("%d", stats.Pending)),
		st.statLabel.Render("Done"), st.statValue.Render(fmt.Sprintf("%d", stats.Completed)),
	)
}

func (m boardModel) renderTabs(st boardStyles) string {
	tabs := []struct {
		filter models.Filter
		label  string
	}{
		{models.FilterAll, "All"},
		{models.FilterPending, "Pending"},
		{models.FilterCompleted, "Completed"},
	}
	parts := make([]string, len(tabs))
	for i, tab := range tabs {
		if tab.filter == m.filter {
			parts[i] = st.tabActive.Render(tab.label)
		} else {
			parts[i] = st.tab.Render(tab.label)
		}
	}
	return strings.Join(parts, " ")
}

func (m boardModel) renderEmptyState(st boardStyles) string {
	msg := "No tasks found\n"
	switch m.filter {
	case models.FilterPending:
		msg += st.faint.Render("No pending tasks.")
	case models.FilterCompleted:
		msg += st.faint.Render("No completed tasks.")
	default:
		msg += st.faint.Render("Ready to start something new? Press a to add a task.")
	}
	return st.card.Render(msg) + "\n"
}

func (m boardModel) renderCard(st boardStyles, task models.Task, focused bool) string {
	card := m.cards[task.ID]
	if card == nil {
		card = &cardState{}
	}

	checkbox := "[ ]"
	titleStyle := st.title
	if task.Completed() {
		checkbox = "[x]"
		titleStyle = st.titleDone
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", st.accent.Render(checkbox), titleStyle.Render(task.Title))

	desc := task.Description
	if desc == "" {
		desc = "No description provided."
	}
	b.WriteString(st.desc.Render(desc))
	b.WriteString("\n")

	switch {
	case card.confirmDelete:
		b.WriteString(st.warn.Render("Delete this task? (y/n)"))
		b.WriteString("\n")
	case card.phase == cardEnhancing:
		b.WriteString(st.accent.Render("✨ Enhancing..."))
		b.WriteString("\n")
	case card.phase == cardSuggesting:
		b.WriteString(st.accent.Render("✨ Suggesting subtasks..."))
		b.WriteString("\n")
	case card.phase == cardAwaiting:
		fmt.Fprintf(&b, "%s %s\n%s\n",
			st.accent.Render("AI suggestion:"),
			st.proposal.Render(fmt.Sprintf("%q", card.proposal)),
			st.faint.Render("y accept · n reject"))
	}

	if card.showSubtasks {
		for _, sub := range card.subtasks {
			fmt.Fprintf(&b, "%s %s\n", st.accent.Render("•"), st.desc.Render(sub))
		}
	}

	b.WriteString(st.faint.Render("Added " + formatCreated(task.CreatedAt)))

	if focused {
		return st.cardFocus.Render(b.String())
	}
	return st.card.Render(b.String())
}

func (m boardModel) renderForm(st boardStyles) string {
	f := m.form
	heading := "New task"
	if f.editingID != "" {
		heading = "Edit task"
	}

	var b strings.Builder
	b.WriteString(st.accent.Render(heading))
	b.WriteString("\n")
	b.WriteString(f.title.View())
	b.WriteString("\n")
	b.WriteString(f.desc.View())
	b.WriteString("\n")
	if f.hint != "" {
		b.WriteString(st.hint.Render(f.hint))
		b.WriteString("\n")
	}
	b.WriteString(st.help.Render("enter save · tab switch field · esc cancel"))
	return st.cardFocus.Render(b.String()) + "\n"
}

func (m boardModel) helpLine() string {
	if m.form != nil {
		return "enter save · tab switch field · esc cancel"
	}
	return "a add · e edit · space toggle · d delete · E enhance · w preview · s subtasks · f filter · t theme · q quit"
}
