package board

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Ruhithpasha/emsfrontend/internal/model"
	"github.com/Ruhithpasha/emsfrontend/internal/theme"
)

// StalenessThreshold defines how old FetchedAt can be before a task is
// flagged as stale. Defaults to 5 minutes.
var StalenessThreshold = 5 * time.Minute

// TaskItem wraps a model.Task so it can be used in a bubbles/list.
type TaskItem struct {
	Task model.Task
}

// FilterValue returns the string used for fuzzy filtering.
func (i TaskItem) FilterValue() string { return i.Task.Title }

// Title returns the task title for the list.
func (i TaskItem) Title() string { return i.Task.Title }

// Description returns a short summary line for the list.
func (i TaskItem) Description() string {
	return fmt.Sprintf(
		"%s | %s | %s",
		i.Task.Status.Display(), i.Task.Category,
		relativeTime(i.Task.UpdatedAt),
	)
}

// TaskDelegate implements list.ItemDelegate for board rows.
type TaskDelegate struct {
	// ShowAssignee is enabled on admin boards where rows belong to
	// different employees.
	ShowAssignee bool

	// Stale is set while the last refresh failed, so rows render a
	// warning marker.
	Stale bool
}

// Height returns the number of lines each item takes.
func (d TaskDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d TaskDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d TaskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single board line.
func (d TaskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TaskItem)
	if !ok {
		return
	}

	t := ti.Task

	statusBadge := theme.StatusStyle(t.Status).Render(t.Status.Display())
	priBadge := theme.PriorityStyle(t.Priority).Render(priorityLabel(t.Priority))
	title := t.Title

	category := ""
	if t.Category != "" {
		category = lipgloss.NewStyle().
			Foreground(theme.ColorMagenta).
			Render(" #" + t.Category)
	}

	assignee := ""
	if d.ShowAssignee && t.AssigneeName != "" {
		assignee = lipgloss.NewStyle().
			Foreground(theme.ColorBlue).
			Render(" @" + t.AssigneeName)
	}

	dueStr := ""
	if !t.DueDate.IsZero() {
		dueStr = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render(" due " + t.DueDate.Format("Jan 02"))
	}

	overdueStr := ""
	if t.Overdue() {
		overdueStr = theme.OverdueStyle.Render(" OVERDUE")
	}

	staleIndicator := ""
	if d.Stale {
		staleIndicator = lipgloss.NewStyle().
			Foreground(theme.ColorYellow).
			Render(" ⚠")
	} else if time.Since(t.FetchedAt) > StalenessThreshold {
		staleIndicator = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render(" ●")
	}

	line := fmt.Sprintf(
		"● %s %s %s%s%s%s%s%s",
		statusBadge, priBadge, title,
		category, assignee, dueStr, overdueStr, staleIndicator,
	)

	if t.Status == model.StatusCompleted {
		line = theme.DimmedStyle.Render(line)
	}

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// relativeTime returns a human-friendly relative time string.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		mins := int(d.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	case d < 24*time.Hour:
		hrs := int(d.Hours())
		if hrs == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hrs)
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	default:
		weeks := int(d.Hours() / 24 / 7)
		if weeks == 1 {
			return "1w ago"
		}
		return fmt.Sprintf("%dw ago", weeks)
	}
}

// priorityLabel returns a short label for the given priority.
func priorityLabel(p string) string {
	switch p {
	case model.PriorityHigh:
		return "HI"
	case model.PriorityMedium:
		return "MD"
	case model.PriorityLow:
		return "LO"
	default:
		return "--"
	}
}
