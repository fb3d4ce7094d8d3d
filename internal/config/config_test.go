package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var envKeys = []string{
	"PORT", "LOG_LEVEL", "TEMPLATE_BASE_URL", "SUPABASE_IMAGE_BASE", "PUBLIC_BASE_URL",
	"STORAGE_TYPE", "LOCAL_STORAGE_PATH", "S3_BUCKET", "SUPABASE_IMAGE_BUCKET", "S3_ENDPOINT",
	"S3_REGION", "S3_ACCESS_KEY_ID", "S3_SECRET_ACCESS_KEY", "FONT_PATH",
	"OUTPUT_WIDTH", "OUTPUT_HEIGHT", "FETCH_TIMEOUT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.ListenAddr != ":8080" || cfg.LogLevel != "info" || cfg.StorageType != StorageMemory {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.OutputWidth != 1080 || cfg.OutputHeight != 1080 || !cfg.HasOutputSize() {
		t.Errorf("output size = %dx%d", cfg.OutputWidth, cfg.OutputHeight)
	}
	if cfg.FetchTimeout != 12*time.Second {
		t.Errorf("FetchTimeout = %v", cfg.FetchTimeout)
	}
}

func TestFromEnv_SupabaseFallbacks(t *testing.T) {
	clearEnv(t)
	t.Setenv("SUPABASE_IMAGE_BASE", "https://x.supabase.co/storage/v1/object/public/img/")
	t.Setenv("SUPABASE_IMAGE_BUCKET", "img")
	t.Setenv("STORAGE_TYPE", "S3")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.TemplateBaseURL != "https://x.supabase.co/storage/v1/object/public/img/" {
		t.Errorf("TemplateBaseURL = %q", cfg.TemplateBaseURL)
	}
	if cfg.PublicBaseURL != cfg.TemplateBaseURL {
		t.Errorf("PublicBaseURL = %q, want template base", cfg.PublicBaseURL)
	}
	if cfg.S3Bucket != "img" || cfg.StorageType != StorageS3 {
		t.Errorf("bucket %q type %q", cfg.S3Bucket, cfg.StorageType)
	}
}

func TestFromEnv_Errors(t *testing.T) {
	tests := map[string]map[string]string{
		"bad width":     {"OUTPUT_WIDTH": "wide"},
		"negative":      {"OUTPUT_HEIGHT": "-1"},
		"bad timeout":   {"FETCH_TIMEOUT": "soon"},
		"s3 no bucket":  {"STORAGE_TYPE": "s3"},
		"unknown store": {"STORAGE_TYPE": "ftp"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := FromEnv(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestFromEnv_ZeroSizeDisablesResize(t *testing.T) {
	clearEnv(t)
	t.Setenv("OUTPUT_WIDTH", "0")
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.HasOutputSize() {
		t.Error("expected resize to be disabled")
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("PORT")
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("PORT=9999\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr != ":9999" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
}

func TestLoad_MissingEnvFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("missing env file should be ignored: %v", err)
	}
}
