package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.StorageRegion != "us-east-1" {
		t.Errorf("expected default region us-east-1, got %q", cfg.StorageRegion)
	}
	if cfg.PresignExpiry != 900*time.Second {
		t.Errorf("expected 900s presign expiry, got %s", cfg.PresignExpiry)
	}
	if cfg.StorageTimeout != 10*time.Second {
		t.Errorf("expected 10s storage timeout, got %s", cfg.StorageTimeout)
	}
	if ext := cfg.ContentTypes["audio/mpeg"]; ext != "mp3" {
		t.Errorf("expected audio/mpeg -> mp3 by default, got %q", ext)
	}
	if cfg.DefaultContentType != "audio/mpeg" {
		t.Errorf("expected default content type audio/mpeg, got %q", cfg.DefaultContentType)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("STORAGE_BUCKET", "prod-audio")
	t.Setenv("STORAGE_REGION", "eu-west-1")
	t.Setenv("PRESIGN_EXPIRY_SECONDS", "300")
	t.Setenv("API_KEYS", "k1=alice, k2=bob")
	t.Setenv("CONTENT_TYPES", "audio/mpeg=mp3,audio/wav=wav")

	cfg := Load()

	if cfg.StorageBucket != "prod-audio" {
		t.Errorf("expected bucket prod-audio, got %q", cfg.StorageBucket)
	}
	if cfg.StorageRegion != "eu-west-1" {
		t.Errorf("expected region eu-west-1, got %q", cfg.StorageRegion)
	}
	if cfg.PresignExpiry != 5*time.Minute {
		t.Errorf("expected 5m presign expiry, got %s", cfg.PresignExpiry)
	}
	if cfg.APIKeys["k1"] != "alice" || cfg.APIKeys["k2"] != "bob" {
		t.Errorf("unexpected API key map: %v", cfg.APIKeys)
	}
	if cfg.ContentTypes["audio/wav"] != "wav" {
		t.Errorf("expected audio/wav accepted, got %v", cfg.ContentTypes)
	}
}

func TestLoadInvalidExpiryFallsBack(t *testing.T) {
	t.Setenv("PRESIGN_EXPIRY_SECONDS", "not-a-number")

	cfg := Load()
	if cfg.PresignExpiry != 900*time.Second {
		t.Errorf("expected fallback 900s, got %s", cfg.PresignExpiry)
	}
}

func TestParsePairs(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]string
	}{
		{"empty", "", map[string]string{}},
		{"single", "k=v", map[string]string{"k": "v"}},
		{"multiple with spaces", " a=1 , b=2 ", map[string]string{"a": "1", "b": "2"}},
		{"malformed entries skipped", "a=1,broken,=x,y=", map[string]string{"a": "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parsePairs(tt.raw)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("expected %s=%s, got %s", k, v, got[k])
				}
			}
		})
	}
}

func TestExtensionsSortedAndDeduplicated(t *testing.T) {
	cfg := &Config{ContentTypes: map[string]string{
		"audio/wav":  "wav",
		"audio/mpeg": "mp3",
		"audio/mp3":  "mp3",
	}}

	exts := cfg.Extensions()
	if len(exts) != 2 || exts[0] != "mp3" || exts[1] != "wav" {
		t.Errorf("expected [mp3 wav], got %v", exts)
	}
}
