// Package render turns an analysis response into the views shown to the
// user: per-label summary groups, the detailed entity list and the
// annotated text.
package render

import (
	"fmt"
	"html/template"
	"strconv"

	"github.com/advait-mulye/medner/internal/model"
)

// Placeholder is shown in place of the entity list when nothing was found
const Placeholder = "No medical entities detected"

// GroupView is one summary group: a label and the surface strings found for it
type GroupView struct {
	Label string
	Title string
	Count int
	Style model.LabelStyle
	Tags  []string
}

// ItemView is one row of the detailed entity list
type ItemView struct {
	Text       string
	Position   string
	Label      string
	Confidence string // empty when the service sent none
	Style      model.LabelStyle
}

// ListView is the detailed entity list, or its placeholder when Empty
type ListView struct {
	Empty       bool
	Placeholder string
	Items       []ItemView
}

// Summary emits one group per label with at least one entry, in the order
// the service sent them. Empty groups are dropped.
func Summary(summary model.Summary) []GroupView {
	groups := make([]GroupView, 0, len(summary))
	for _, g := range summary {
		if len(g.Texts) == 0 {
			continue
		}
		groups = append(groups, GroupView{
			Label: g.Label,
			Title: model.DisplayTitle(g.Label),
			Count: len(g.Texts),
			Style: model.StyleFor(g.Label),
			Tags:  append([]string(nil), g.Texts...),
		})
	}
	return groups
}

// EntityList emits one item per entity in response order
func EntityList(entities []model.Entity) ListView {
	if len(entities) == 0 {
		return ListView{Empty: true, Placeholder: Placeholder}
	}

	items := make([]ItemView, len(entities))
	for i, e := range entities {
		items[i] = ItemView{
			Text:       e.Text,
			Position:   Position(e),
			Label:      e.Label,
			Confidence: confidence(e.Confidence),
			Style:      model.StyleFor(e.Label),
		}
	}
	return ListView{Items: items}
}

// Position formats an entity's character span
func Position(e model.Entity) string {
	return fmt.Sprintf("Position: %d-%d", e.Start, e.End)
}

// AnnotatedText hands the service's annotated markup to the view unescaped.
// The service is a trusted collaborator; with sanitize set the markup is
// first reduced to inline highlighting elements.
func AnnotatedText(annotated string, sanitize bool) template.HTML {
	if sanitize {
		annotated = Sanitize(annotated)
	}
	return template.HTML(annotated) //nolint:gosec
}

func confidence(c *float64) string {
	if c == nil {
		return ""
	}
	return strconv.FormatFloat(*c*100, 'f', 0, 64) + "%"
}
