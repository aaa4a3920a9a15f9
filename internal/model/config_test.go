package model

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Input.MinLength != 1 || cfg.Input.MaxLength != 0 {
		t.Errorf("default input bounds should be the shipped empty-check, got %+v", cfg.Input)
	}
	if cfg.Server.ScrollDelay != 100*time.Millisecond {
		t.Errorf("unexpected scroll delay %v", cfg.Server.ScrollDelay)
	}
}

func TestConfig_ValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing base url", func(c *Config) { c.API.BaseURL = "" }, "BaseURL"},
		{"bad base url", func(c *Config) { c.API.BaseURL = "not a url" }, "BaseURL"},
		{"negative min length", func(c *Config) { c.Input.MinLength = -1 }, "MinLength"},
		{"max below min", func(c *Config) { c.Input.MinLength = 10; c.Input.MaxLength = 5 }, "max_length"},
		{"short csrf key", func(c *Config) { c.Server.CSRFKey = "short" }, "CSRFKey"},
		{"unknown log level", func(c *Config) { c.Log.Level = "loud" }, "Level"},
		{"bad proxy", func(c *Config) { c.API.HTTPProxy = "::" }, "HTTPProxy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestConfig_StrictBoundsValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Input.MinLength = 10
	cfg.Input.MaxLength = 10000
	if err := cfg.Validate(); err != nil {
		t.Errorf("strict bounds should validate: %v", err)
	}
}

func TestExportFilename(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	if got := ExportFilename(at); got != "medical-ner-results-1700000000123.json" {
		t.Errorf("ExportFilename = %s", got)
	}
}

func TestNewExportArtifact_NilEntities(t *testing.T) {
	resp := &AnalysisResponse{OriginalText: "nothing here", TotalEntities: 0}
	art := NewExportArtifact(resp, time.Unix(0, 0))
	if art.Entities == nil {
		t.Error("expected empty, non-nil entities")
	}
	if art.OriginalText != "nothing here" {
		t.Errorf("unexpected original text %q", art.OriginalText)
	}
}
