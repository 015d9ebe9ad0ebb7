package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if s.Classifier.Threshold != 0.75 {
		t.Errorf("default threshold = %v, want 0.75", s.Classifier.Threshold)
	}
	if !s.Classifier.Propagate {
		t.Error("label propagation should default to enabled")
	}
	if s.Scraper.BaseURL != "https://business.perdidochamber.com" {
		t.Errorf("default base URL = %v", s.Scraper.BaseURL)
	}
	if s.Scraper.MonthsAhead != 2 {
		t.Errorf("default months ahead = %v, want 2", s.Scraper.MonthsAhead)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
classifier:
  threshold: 0.9
  propagate: false
wordpress:
  siteurl: https://calendar.example.com
  username: bot
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if s.Classifier.Threshold != 0.9 {
		t.Errorf("threshold = %v, want 0.9", s.Classifier.Threshold)
	}
	if s.Classifier.Propagate {
		t.Error("propagate should be disabled by config file")
	}
	if s.WordPress.SiteURL != "https://calendar.example.com" {
		t.Errorf("site URL = %v", s.WordPress.SiteURL)
	}
	// untouched values keep their defaults
	if s.Data.Dir != "~/.perdido-events" {
		t.Errorf("data dir = %v, want default", s.Data.Dir)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for explicitly named missing config file")
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("PERDIDO_WORDPRESS_APPPASSWORD", "s3cret")
	t.Setenv("PERDIDO_CLASSIFIER_THRESHOLD", "0.8")

	s, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.WordPress.AppPassword != "s3cret" {
		t.Errorf("app password = %q, want env override", s.WordPress.AppPassword)
	}
	if s.Classifier.Threshold != 0.8 {
		t.Errorf("threshold = %v, want env override 0.8", s.Classifier.Threshold)
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.yaml")

	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	for _, want := range []string{"threshold: 0.75", "baseurl: https://business.perdidochamber.com", "PERDIDO_"} {
		if !strings.Contains(text, want) {
			t.Errorf("default config missing %q:\n%s", want, text)
		}
	}

	// Written defaults must round-trip through Load
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() of written defaults error = %v", err)
	}
	if s.Classifier.Threshold != 0.75 {
		t.Errorf("round-tripped threshold = %v", s.Classifier.Threshold)
	}

	if err := WriteDefault(path); err == nil {
		t.Error("expected error when overwriting existing config")
	}
}
