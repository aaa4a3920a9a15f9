package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/advait-mulye/medner/internal/model"
)

// WriteSummary prints a plain-text overview for terminals
func WriteSummary(w io.Writer, res Results) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Found %s across %s\n",
		english.Plural(res.Total, "entity", "entities"),
		english.Plural(res.TypeCount, "type", "types"))

	for _, g := range res.Groups {
		fmt.Fprintf(&b, "  %s %s (%d): %s\n", g.Style.Icon, g.Title, g.Count, strings.Join(g.Tags, ", "))
	}

	if res.List.Empty {
		fmt.Fprintf(&b, "\n%s\n", res.List.Placeholder)
	} else {
		b.WriteString("\n")
		for _, item := range res.List.Items {
			fmt.Fprintf(&b, "  %-24s %-12s %s", item.Text, item.Label, item.Position)
			if item.Confidence != "" {
				fmt.Fprintf(&b, "  %s", item.Confidence)
			}
			b.WriteString("\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Markdown renders res as a Markdown report
func Markdown(res Results, at time.Time) string {
	var b strings.Builder

	b.WriteString("# Medical NER Results\n\n")
	fmt.Fprintf(&b, "- **Analyzed:** %s\n", at.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "- **Entities:** %s\n", humanize.Comma(int64(res.Total)))
	fmt.Fprintf(&b, "- **Entity types:** %d\n", res.TypeCount)
	fmt.Fprintf(&b, "- **Text length:** %s characters\n\n", humanize.Comma(int64(len([]rune(res.Original)))))

	b.WriteString("## Summary\n\n")
	if len(res.Groups) == 0 {
		b.WriteString("_No entity groups._\n\n")
	}
	for _, g := range res.Groups {
		fmt.Fprintf(&b, "### %s %s (%d)\n\n", g.Style.Icon, g.Title, g.Count)
		for _, tag := range g.Tags {
			fmt.Fprintf(&b, "- %s\n", escapeMarkdown(tag))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Entities\n\n")
	if res.List.Empty {
		fmt.Fprintf(&b, "_%s._\n\n", res.List.Placeholder)
	} else {
		b.WriteString("| Entity | Label | Position | Confidence |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, item := range res.List.Items {
			conf := item.Confidence
			if conf == "" {
				conf = "-"
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				escapeMarkdown(item.Text), escapeMarkdown(item.Label), item.Position, conf)
		}
		b.WriteString("\n")
	}

	if res.Response != nil && res.Response.AnnotatedText != "" {
		b.WriteString("## Annotated Text\n\n")
		fmt.Fprintf(&b, "```\n%s\n```\n", res.Response.AnnotatedText)
	}

	return b.String()
}

// WriteJSON writes the raw service response, indented
func WriteJSON(w io.Writer, resp *model.AnalysisResponse) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	return nil
}

var markdownEscaper = strings.NewReplacer(
	`|`, `\|`,
	`*`, `\*`,
	`_`, `\_`,
	"`", "\\`",
	"\n", " ",
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
