package web

import (
	"html/template"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/csrf"

	"github.com/advait-mulye/medner/internal/model"
	"github.com/advait-mulye/medner/internal/render"
	"github.com/advait-mulye/medner/internal/ui"
)

// pageView is the ui.View for one request; the controller fills it and the
// templates render it
type pageView struct {
	Text          string
	Focus         bool
	Busy          bool
	Results       *render.Results
	Error         string
	Scroll        bool
	ScrollDelayMS int64
}

func (v *pageView) InputText() string              { return v.Text }
func (v *pageView) SetInputText(text string)       { v.Text = text }
func (v *pageView) FocusInput()                    { v.Focus = true }
func (v *pageView) SetBusy(busy bool)              { v.Busy = busy }
func (v *pageView) ShowResults(res render.Results) { v.Results = &res }
func (v *pageView) HideResults()                   { v.Results = nil }
func (v *pageView) ShowError(message string)       { v.Error = message }
func (v *pageView) HideError()                     { v.Error = "" }
func (v *pageView) ScrollToResults()               { v.Scroll = true }

// schedule hands the delay to the browser, which performs the scroll
func (v *pageView) schedule(d time.Duration, fn func()) {
	v.ScrollDelayMS = d.Milliseconds()
	fn()
}

type legendEntry struct {
	Label       string
	Title       string
	Description string
	Style       model.LabelStyle
}

type pageData struct {
	Title      string
	View       *pageView
	State      ui.State
	NextSample int
	MaxLength  int
	Legend     []legendEntry
	Keymap     []ui.Binding
	CSRFField  template.HTML
}

func (s *Server) newPageData(r *http.Request, view *pageView, state ui.State, nextSample int) pageData {
	return pageData{
		Title:      "Medical NER",
		View:       view,
		State:      state,
		NextSample: nextSample,
		MaxLength:  s.cfg.Input.MaxLength,
		Legend:     s.legend(r),
		Keymap:     ui.Keymap(),
		CSRFField:  csrf.TemplateField(r),
	}
}

// legend lists the known labels first, then any extra labels the service
// reports. Descriptions come from the service when it answers.
func (s *Server) legend(r *http.Request) []legendEntry {
	types, err := s.svc.EntityTypes(r.Context())
	if err != nil {
		s.log.WithError(err).Warn("entity types unavailable, using built-in legend")
		types = nil
	}

	entries := make([]legendEntry, 0, len(model.KnownLabels)+len(types))
	for _, label := range model.KnownLabels {
		entries = append(entries, newLegendEntry(label, types[label]))
	}

	var extra []string
	for label := range types {
		if !model.IsKnownLabel(label) {
			extra = append(extra, label)
		}
	}
	slices.Sort(extra)
	for _, label := range extra {
		entries = append(entries, newLegendEntry(label, types[label]))
	}

	return entries
}

func newLegendEntry(label, description string) legendEntry {
	style := model.StyleFor(label)
	if description == "" {
		description = style.Description
	}
	return legendEntry{
		Label:       label,
		Title:       model.DisplayTitle(label),
		Description: description,
		Style:       style,
	}
}

// renderPage writes the workspace fragment for partial requests (the page
// script sets X-Partial) and the full layout otherwise
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, data pageData) {
	name := "layout"
	if r.Header.Get("X-Partial") == "true" {
		name = "workspace"
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.pages.ExecuteTemplate(w, name, data); err != nil {
		s.log.WithError(err).Errorf("failed to execute %s template", name)
		http.Error(w, "Failed to execute template", http.StatusInternalServerError)
	}
}
