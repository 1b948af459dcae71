package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.NodeBaseURL != "http://localhost:58080" {
		t.Fatalf("NodeBaseURL = %q", cfg.NodeBaseURL)
	}
	if cfg.SenderID != "id0" {
		t.Fatalf("SenderID = %q", cfg.SenderID)
	}
	if cfg.FallbackBalance != 55 {
		t.Fatalf("FallbackBalance = %v", cfg.FallbackBalance)
	}
	if cfg.StorageType != "none" {
		t.Fatalf("StorageType = %q", cfg.StorageType)
	}
	if cfg.ShutdownTimeout != 20*time.Second {
		t.Fatalf("ShutdownTimeout = %v", cfg.ShutdownTimeout)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("NODE_BASE_URL", "http://83.212.80.139:58080/")
	t.Setenv("SENDER_ID", "id3")
	t.Setenv("FALLBACK_BALANCE", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.NodeBaseURL != "http://83.212.80.139:58080" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.NodeBaseURL)
	}
	if cfg.SenderID != "id3" {
		t.Fatalf("SenderID = %q", cfg.SenderID)
	}
	if cfg.FallbackBalance != 0 {
		t.Fatalf("FallbackBalance = %v", cfg.FallbackBalance)
	}
}

func TestLoadRejectsInvalidNodeURL(t *testing.T) {
	t.Setenv("NODE_BASE_URL", "not a url")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid node_base_url")
	}
}

func TestLoadRejectsUnknownStorage(t *testing.T) {
	t.Setenv("STORAGE_TYPE", "redis")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unsupported storage type")
	}
}
