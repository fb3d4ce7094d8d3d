package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/youruser/templatecomposer/internal/config"
)

func TestValidKey(t *testing.T) {
	for _, key := range []string{"output.png", "01HZX3.png", "my file.png"} {
		if err := ValidKey(key); err != nil {
			t.Errorf("ValidKey(%q) = %v", key, err)
		}
	}
	for _, key := range []string{"", ".", "..", "a/b.png", "../x.png", `a\b.png`} {
		if err := ValidKey(key); err == nil {
			t.Errorf("ValidKey(%q) accepted", key)
		}
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore("https://cdn.example.com/public/")
	if err := s.Put(context.Background(), "a b.png", []byte("png"), "image/png"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	obj, ok := s.Get("a b.png")
	if !ok || string(obj.Data) != "png" || obj.ContentType != "image/png" {
		t.Errorf("Get = %+v, %v", obj, ok)
	}
	if got := s.PublicURL("a b.png"); got != "https://cdn.example.com/public/a%20b.png" {
		t.Errorf("PublicURL = %q", got)
	}
	if err := s.Put(context.Background(), "../escape.png", nil, "image/png"); err == nil {
		t.Error("expected invalid key error")
	}
}

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	s, err := NewFileStore(dir, "http://localhost/")
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx := context.Background()
	if err := s.Put(ctx, "out.png", []byte("first"), "image/png"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, "out.png", []byte("second"), "image/png"); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(dir, "out.png"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "second" {
		t.Errorf("file = %q, want second", got)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("dir has %d entries, want 1 (temp files left behind?)", len(entries))
	}
	if err := s.Put(ctx, "sub/out.png", nil, "image/png"); err == nil {
		t.Error("expected invalid key error")
	}
}

func TestS3Store_Put(t *testing.T) {
	var (
		gotMethod, gotPath, gotType string
		gotBody                     []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath, gotType = r.Method, r.URL.Path, r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("ETag", `"abc"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := &config.Config{
		S3Bucket:          "images",
		S3Endpoint:        srv.URL,
		S3Region:          "us-east-1",
		S3AccessKeyID:     "key",
		S3SecretAccessKey: "secret",
		PublicBaseURL:     "https://project.supabase.co/storage/v1/object/public/images/",
	}
	s, err := NewS3Store(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewS3Store: %v", err)
	}
	if err := s.Put(context.Background(), "card.png", []byte("pngdata"), "image/png"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/images/card.png" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
	if gotType != "image/png" || string(gotBody) != "pngdata" {
		t.Errorf("content-type %q body %q", gotType, gotBody)
	}
	if got := s.PublicURL("card.png"); got != cfg.PublicBaseURL+"card.png" {
		t.Errorf("PublicURL = %q", got)
	}
}

func TestS3Store_PutError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	cfg := &config.Config{S3Bucket: "images", S3Endpoint: srv.URL, S3Region: "us-east-1", S3AccessKeyID: "k", S3SecretAccessKey: "s"}
	s, err := NewS3Store(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewS3Store: %v", err)
	}
	if err := s.Put(context.Background(), "card.png", []byte("x"), "image/png"); err == nil {
		t.Error("expected upload error")
	}
}

func TestNew(t *testing.T) {
	log, _ := test.NewNullLogger()
	ctx := context.Background()

	mem, err := New(ctx, &config.Config{StorageType: config.StorageMemory}, log)
	if err != nil {
		t.Fatalf("New memory: %v", err)
	}
	if _, ok := mem.(*MemoryStore); !ok {
		t.Errorf("got %T, want *MemoryStore", mem)
	}

	fs, err := New(ctx, &config.Config{StorageType: config.StorageFilesystem, LocalStoragePath: t.TempDir()}, log)
	if err != nil {
		t.Fatalf("New filesystem: %v", err)
	}
	if _, ok := fs.(*FileStore); !ok {
		t.Errorf("got %T, want *FileStore", fs)
	}
}
