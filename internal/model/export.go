package model

import (
	"fmt"
	"time"
)

// ExportArtifact is the downloadable snapshot of one analysis
type ExportArtifact struct {
	Timestamp     time.Time `json:"timestamp"`
	OriginalText  string    `json:"originalText"`
	TotalEntities int       `json:"totalEntities"`
	Entities      []Entity  `json:"entities"`
	Summary       Summary   `json:"summary"`
}

// NewExportArtifact snapshots resp at time at
func NewExportArtifact(resp *AnalysisResponse, at time.Time) ExportArtifact {
	entities := resp.Entities
	if entities == nil {
		entities = []Entity{}
	}
	return ExportArtifact{
		Timestamp:     at.UTC(),
		OriginalText:  resp.OriginalText,
		TotalEntities: resp.TotalEntities,
		Entities:      entities,
		Summary:       resp.Summary,
	}
}

// ExportFilename names the artifact file after the export instant in epoch milliseconds
func ExportFilename(at time.Time) string {
	return fmt.Sprintf("medical-ner-results-%d.json", at.UnixMilli())
}
