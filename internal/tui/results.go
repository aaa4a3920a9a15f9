package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize/english"

	"github.com/advait-mulye/medner/internal/render"
)

// renderResults lays out the three result views for the viewport
func renderResults(res render.Results, width int) string {
	var content []string

	content = append(content, titleStyle.Render(fmt.Sprintf("%s across %s",
		english.Plural(res.Total, "entity", "entities"),
		english.Plural(res.TypeCount, "type", "types"))))

	content = append(content, sectionStyle.Render("Summary"))
	if len(res.Groups) == 0 {
		content = append(content, hintStyle.Render("No entity groups"))
	}
	for _, g := range res.Groups {
		header := labelStyle(g.Label).Render(fmt.Sprintf("%s %s (%d)", g.Style.Icon, g.Title, g.Count))
		tags := make([]string, len(g.Tags))
		for i, t := range g.Tags {
			tags[i] = tagStyle(g.Label).Render(t)
		}
		content = append(content, header, wrapJoin(tags, width))
	}

	content = append(content, sectionStyle.Render("Detected entities"))
	if res.List.Empty {
		content = append(content, hintStyle.Render(res.List.Placeholder))
	}
	for _, item := range res.List.Items {
		line := fmt.Sprintf("%s  %s  %s",
			lipgloss.NewStyle().Bold(true).Render(item.Text),
			labelStyle(item.Label).Render(item.Label),
			hintStyle.Render(item.Position))
		if item.Confidence != "" {
			line += "  " + hintStyle.Render(item.Confidence)
		}
		content = append(content, line)
	}

	content = append(content, sectionStyle.Render("Annotated text"))
	content = append(content, lipgloss.NewStyle().Width(width).Render(annotated(res)))

	return strings.Join(content, "\n")
}

// annotated colors [surface|LABEL] runs of the service's annotated text
func annotated(res render.Results) string {
	var b strings.Builder
	for _, seg := range render.Segments(string(res.Annotated)) {
		if seg.Label == "" {
			b.WriteString(seg.Text)
			continue
		}
		b.WriteString(labelStyle(seg.Label).Render(seg.Text))
	}
	return b.String()
}

// wrapJoin joins chips with spaces, breaking lines before width
func wrapJoin(parts []string, width int) string {
	if width <= 0 {
		return strings.Join(parts, " ")
	}

	var lines []string
	var line string
	for _, p := range parts {
		switch {
		case line == "":
			line = p
		case lipgloss.Width(line)+1+lipgloss.Width(p) > width:
			lines = append(lines, line)
			line = p
		default:
			line += " " + p
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
