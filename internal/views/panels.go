package views

import (
	"fmt"
	"strings"
)

type TaskCardData struct {
	ID        string
	Title     string
	Schedule  string
	Remaining string
	Completed bool
	Repeats   bool
	Selected  bool
}

type DashboardData struct {
	Filter        string
	Search        string
	MicroCards    []TaskCardData
	FollowUpCards []TaskCardData
}

type FormData struct {
	TypeLabel    string
	TitleView    string
	DescView     string
	ScheduleView string
	RepeatView   string
	ErrorText    string
}

type DetailData struct {
	Title         string
	Schedule      string
	Status        string
	LastTriggered string
	RepeatNote    string
	DescriptionMD string
}

type ToastData struct {
	Title string
	At    string
}

func RenderDashboard(data DashboardData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "filter: %s", data.Filter)
	if data.Search != "" {
		fmt.Fprintf(&b, " | search: %s", data.Search)
	}
	b.WriteString("\n\nMicro Tasks\n")
	renderCards(&b, data.MicroCards, "no micro tasks yet, create one to get started")
	b.WriteString("\nFollow-Up Tasks\n")
	renderCards(&b, data.FollowUpCards, "no follow-up tasks yet, create one for daily reminders")
	return strings.TrimRight(b.String(), "\n")
}

func renderCards(b *strings.Builder, cards []TaskCardData, empty string) {
	if len(cards) == 0 {
		b.WriteString("  " + empty + "\n")
		return
	}
	for _, c := range cards {
		b.WriteString(renderCard(c) + "\n")
	}
}

func renderCard(c TaskCardData) string {
	cursor := "  "
	if c.Selected {
		cursor = "> "
	}
	title := c.Title
	if c.Completed {
		title = doneStyle.Render(title)
	}
	tail := c.Remaining
	if tail == "Triggered!" {
		tail = dueStyle.Render(tail)
	}
	repeats := ""
	if c.Repeats {
		repeats = " ↻"
	}
	return fmt.Sprintf("%s%s%s  (%s)  %s", cursor, title, repeats, c.Schedule, tail)
}

func RenderForm(data FormData) string {
	var b strings.Builder
	b.WriteString("new task: " + data.TypeLabel + "  (tab: next field, ctrl+t: toggle type, enter: save, esc: cancel)\n\n")
	b.WriteString("title:       " + data.TitleView + "\n")
	b.WriteString("description: " + data.DescView + "\n")
	b.WriteString("schedule:    " + data.ScheduleView + "\n")
	b.WriteString("repeat:      " + data.RepeatView + "\n")
	if data.ErrorText != "" {
		b.WriteString("\n" + errorStyle.Render(data.ErrorText))
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderDetail(data DetailData) string {
	if data.Title == "" {
		return "no task selected"
	}
	var b strings.Builder
	b.WriteString(data.Title + "\n")
	fmt.Fprintf(&b, "schedule: %s | %s\n", data.Schedule, data.Status)
	if data.LastTriggered != "" {
		fmt.Fprintf(&b, "last triggered: %s\n", data.LastTriggered)
	}
	if data.RepeatNote != "" {
		b.WriteString(data.RepeatNote + "\n")
	}
	if data.DescriptionMD != "" {
		b.WriteString("\n" + RenderMarkdown(data.DescriptionMD))
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderToasts(toasts []ToastData) string {
	if len(toasts) == 0 {
		return ""
	}
	lines := make([]string, 0, len(toasts))
	for _, t := range toasts {
		lines = append(lines, fmt.Sprintf("⚡ %s @ %s", t.Title, t.At))
	}
	return strings.Join(lines, "\n")
}
