package model

// AnalysisRequest is the body posted to the analysis service
type AnalysisRequest struct {
	Text string `json:"text"`
}

// Entity is a labeled span the analysis service found in the submitted text.
// Start and End are character offsets into the original text.
type Entity struct {
	Text       string   `json:"text"`
	Label      string   `json:"label"`
	Start      int      `json:"start"`
	End        int      `json:"end"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// AnalysisResponse is the success body of POST /analyze.
// TotalEntities is reported by the service and not checked against Entities.
type AnalysisResponse struct {
	Success       bool     `json:"success,omitempty"`
	TotalEntities int      `json:"total_entities"`
	Entities      []Entity `json:"entities"`
	Summary       Summary  `json:"summary"`
	AnnotatedText string   `json:"annotated_text"`
	OriginalText  string   `json:"original_text"`
}

// ErrorBody is the payload the service sends with a non-2xx status
type ErrorBody struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// EntityTypes maps each label the service knows to a description
type EntityTypes map[string]string

// EntityTypesResponse is the body of GET /entity_types
type EntityTypesResponse struct {
	Success     bool        `json:"success"`
	EntityTypes EntityTypes `json:"entity_types"`
}

// HealthStatus is the body of GET /health
type HealthStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Healthy reports whether the service declared itself healthy
func (h HealthStatus) Healthy() bool {
	return h.Status == "healthy" || h.Status == "ok"
}
