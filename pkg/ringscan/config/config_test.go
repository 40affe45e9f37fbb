package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/ringscan/pkg/ringscan/internalerr"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ringscan.yaml")
	data := "batch_size: 50\nreport_every: 10\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BatchSize != 50 {
		t.Errorf("batch_size not applied: %d", cfg.BatchSize)
	}
	if cfg.ReportEvery != 10 {
		t.Errorf("report_every not applied: %d", cfg.ReportEvery)
	}
	// Unset fields keep defaults.
	if cfg.MaxLineBytes != Default().MaxLineBytes {
		t.Errorf("max_line_bytes should default, got %d", cfg.MaxLineBytes)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ringscan.yaml")
	if err := os.WriteFile(path, []byte("batch_size: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("missing file should error")
	}
}
