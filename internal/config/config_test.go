package config

import (
	"testing"
	"time"
)

func TestLoadServerConfigDefaults(t *testing.T) {
	cfg, err := LoadServerConfig()
	if err != nil {
		t.Fatalf("LoadServerConfig failed: %v", err)
	}
	if cfg.HTTPAddr != ":9020" {
		t.Fatalf("HTTPAddr=%s", cfg.HTTPAddr)
	}
	if cfg.IntentsPath != "data/bale_mountains.json" {
		t.Fatalf("IntentsPath=%s", cfg.IntentsPath)
	}
	if cfg.Threshold != 0.7 {
		t.Fatalf("Threshold=%v", cfg.Threshold)
	}
	if cfg.ClassifierTimeout != 2*time.Second {
		t.Fatalf("ClassifierTimeout=%v", cfg.ClassifierTimeout)
	}
	if cfg.CacheMaxEntries != 1024 {
		t.Fatalf("CacheMaxEntries=%d", cfg.CacheMaxEntries)
	}
	if cfg.MQTTClientID != "parkchat-server" || cfg.MQTTTopicPrefix != "parkchat" {
		t.Fatalf("mqtt defaults=%s/%s", cfg.MQTTClientID, cfg.MQTTTopicPrefix)
	}
}

func TestLoadServerConfigOverrides(t *testing.T) {
	t.Setenv("PARKCHAT_HTTP_ADDR", ":8000")
	t.Setenv("CONFIDENCE_THRESHOLD", "0.5")
	t.Setenv("CLASSIFIER_TIMEOUT_MS", "500")
	t.Setenv("CLASSIFIER_BASE_URL", "http://localhost:9100")
	t.Setenv("VOCABULARY_PATH", "data/vocabulary.json")

	cfg, err := LoadServerConfig()
	if err != nil {
		t.Fatalf("LoadServerConfig failed: %v", err)
	}
	if cfg.HTTPAddr != ":8000" || cfg.Threshold != 0.5 {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.ClassifierTimeout != 500*time.Millisecond {
		t.Fatalf("ClassifierTimeout=%v", cfg.ClassifierTimeout)
	}
}

func TestLoadServerConfigRejectsInvalid(t *testing.T) {
	t.Setenv("CLASSIFIER_BASE_URL", "http://localhost:9100")
	if _, err := LoadServerConfig(); err == nil {
		t.Fatal("expected error when CLASSIFIER_BASE_URL is set without VOCABULARY_PATH")
	}

	t.Setenv("CLASSIFIER_BASE_URL", "")
	t.Setenv("CONFIDENCE_THRESHOLD", "1.5")
	if _, err := LoadServerConfig(); err == nil {
		t.Fatal("expected error for out-of-range threshold")
	}
}
