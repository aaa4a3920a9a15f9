package web

import (
	"encoding/json"
	"mime"
	"net/http"
	"strconv"

	"github.com/advait-mulye/medner/internal/input"
	"github.com/advait-mulye/medner/internal/model"
	"github.com/advait-mulye/medner/internal/render"
	"github.com/advait-mulye/medner/internal/ui"
)

// maxFormBytes bounds POST / bodies; export posts carry the whole response
const maxFormBytes = 4 << 20

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	view := &pageView{Focus: true}
	s.renderPage(w, r, s.newPageData(r, view, ui.Idle, 0))
}

// handleAction runs one trigger through a fresh controller bound to a
// page view built from the posted form
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		renderError(w, err, http.StatusBadRequest)
		return
	}

	trigger := ui.Trigger(r.PostFormValue("trigger"))
	if trigger == "" {
		trigger = ui.ClickAnalyze
	}
	if trigger == ui.ClickExport {
		s.handleExport(w, r)
		return
	}

	nextSample, _ := strconv.Atoi(r.PostFormValue("sample"))

	view := &pageView{Text: r.PostFormValue("text")}
	ctrl := ui.New(view, s.svc,
		ui.WithValidator(input.Validator{
			MinLength: s.cfg.Input.MinLength,
			MaxLength: s.cfg.Input.MaxLength,
		}),
		ui.WithScrollDelay(s.cfg.Server.ScrollDelay),
		ui.WithScheduler(view.schedule),
		ui.WithSanitize(s.cfg.Render.SanitizeAnnotated),
		ui.WithSamples(ui.DefaultSamples, nextSample),
		ui.WithLogger(s.log),
	)

	ev := ui.Event{
		Trigger:      trigger,
		InputFocused: r.PostFormValue("focus") == "1",
	}
	action, ok, err := ctrl.Dispatch(r.Context(), ev)
	if !ok {
		s.log.WithField("trigger", trigger).Debug("trigger matched no binding")
	} else if err != nil {
		// already rendered into the page as the error modal
		s.log.WithError(err).WithField("action", action).Debug("action failed")
	}

	s.renderPage(w, r, s.newPageData(r, view, ctrl.State(), ctrl.NextSample()))
}

// handleExport stamps the posted results at request time and sends the
// artifact as a download
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	resp, err := render.ParsePayload(r.PostFormValue("payload"))
	if err != nil {
		renderError(w, err, http.StatusBadRequest)
		return
	}

	at := s.now()
	data, err := render.ExportJSON(resp, at)
	if err != nil {
		renderError(w, err, http.StatusInternalServerError)
		return
	}

	name := model.ExportFilename(at)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	if _, err := w.Write(data); err != nil {
		s.log.WithError(err).Warn("failed to write export")
		return
	}
	s.log.WithField("file", name).Info("results exported")
}

func (s *Server) handleEntityTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.svc.EntityTypes(r.Context())
	if err != nil {
		s.log.WithError(err).Warn("entity types request failed")
		writeJSON(w, http.StatusBadGateway, model.ErrorBody{
			Error:   "Service unavailable",
			Message: err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, model.EntityTypesResponse{Success: true, EntityTypes: types})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status, err := s.svc.Health(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, model.HealthStatus{
			Status:  "unhealthy",
			Message: err.Error(),
		})
		return
	}

	code := http.StatusOK
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.WithError(err).Error("failed to encode response")
	}
}

func renderError(w http.ResponseWriter, err error, status int) {
	if status >= http.StatusInternalServerError {
		log.Error(err)
	} else {
		log.Debug(err)
	}
	http.Error(w, err.Error(), status)
}
