package render

import (
	"encoding/json"
	"html/template"

	"github.com/advait-mulye/medner/internal/model"
)

// Options controls Build
type Options struct {
	Sanitize bool
}

// Results bundles everything a host shows after a successful analysis
type Results struct {
	Total     int // total_entities as reported by the service
	TypeCount int // number of non-empty label groups
	Groups    []GroupView
	List      ListView
	Annotated template.HTML
	Original  string

	// ExportPayload is the response as JSON, posted back by hosts that
	// stamp the export artifact when the user asks for it
	ExportPayload string
	Response      *model.AnalysisResponse
}

// Build renders resp into Results
func Build(resp *model.AnalysisResponse, opts Options) Results {
	groups := Summary(resp.Summary)

	res := Results{
		Total:     resp.TotalEntities,
		TypeCount: len(groups),
		Groups:    groups,
		List:      EntityList(resp.Entities),
		Annotated: AnnotatedText(resp.AnnotatedText, opts.Sanitize),
		Original:  resp.OriginalText,
		Response:  resp,
	}

	if data, err := json.Marshal(resp); err == nil {
		res.ExportPayload = string(data)
	}

	return res
}
