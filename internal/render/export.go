package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/advait-mulye/medner/internal/model"
)

// ExportJSON encodes the export artifact for resp taken at at
func ExportJSON(resp *model.AnalysisResponse, at time.Time) ([]byte, error) {
	data, err := json.MarshalIndent(model.NewExportArtifact(resp, at), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}
	return data, nil
}

// WriteExport writes the artifact into dir and returns its path
func WriteExport(dir string, resp *model.AnalysisResponse, at time.Time) (string, error) {
	data, err := ExportJSON(resp, at)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	path := filepath.Join(dir, model.ExportFilename(at))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

// ParsePayload decodes a Results.ExportPayload posted back by a browser
func ParsePayload(payload string) (*model.AnalysisResponse, error) {
	if payload == "" {
		return nil, errors.New("no results to export")
	}

	var resp model.AnalysisResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return nil, fmt.Errorf("decode export payload: %w", err)
	}
	return &resp, nil
}
