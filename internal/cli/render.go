package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/ticketboard/internal/model"
)

const columnWidth = 28

var (
	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Width(columnWidth)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	emptyStyle  = lipgloss.NewStyle().Faint(true)
)

// RenderBoard draws the projection as side-by-side columns. Tickets whose
// list has no column are drawn in extra columns after the board's own.
func RenderBoard(p model.Projection) string {
	type column struct {
		title   string
		tickets []model.Ticket
	}

	var cols []column
	for _, l := range p.Lists {
		cols = append(cols, column{title: l.Name, tickets: p.Tickets(l.ID)})
	}
	var orphans []string
	for id := range p.TicketsByList {
		if !p.HasList(id) {
			orphans = append(orphans, id)
		}
	}
	sort.Strings(orphans)
	for _, id := range orphans {
		cols = append(cols, column{title: id + " (no column)", tickets: p.Tickets(id)})
	}

	rendered := make([]string, len(cols))
	for i, c := range cols {
		lines := []string{headerStyle.Render(fmt.Sprintf("%s (%d)", c.title, len(c.tickets)))}
		if len(c.tickets) == 0 {
			lines = append(lines, emptyStyle.Render("(empty)"))
		}
		for _, t := range c.tickets {
			lines = append(lines, ticketLine(t))
		}
		rendered[i] = columnStyle.Render(strings.Join(lines, "\n"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// ticketLine renders "#id title", cut to fit one column row.
func ticketLine(t model.Ticket) string {
	line := fmt.Sprintf("#%d %s", t.ID, t.Title)
	limit := columnWidth - 2
	if lipgloss.Width(line) <= limit {
		return line
	}
	runes := []rune(line)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > limit {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
