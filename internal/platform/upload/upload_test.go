package upload

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"testing"
)

func multipartFile(t *testing.T, field, filename, content string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fw.Write([]byte(content))
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("parse multipart: %v", err)
	}
	return req.MultipartForm.File[field][0]
}

func TestStore_SaveGeneratesName(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	fh := multipartFile(t, "image", "photo.PNG", "fake image bytes")
	name, err := store.Save(fh)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	pattern := regexp.MustCompile(`^\d+-[0-9a-f]{8}\.png$`)
	if !pattern.MatchString(name) {
		t.Errorf("unexpected generated name %q", name)
	}

	data, err := os.ReadFile(filepath.Join(store.Dir(), name))
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if string(data) != "fake image bytes" {
		t.Errorf("saved content mismatch: %q", data)
	}
}

func TestStore_SaveDistinctNames(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		fh := multipartFile(t, "image", "photo.jpg", "bytes")
		name, err := store.Save(fh)
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
		if seen[name] {
			t.Fatalf("duplicate generated name %q", name)
		}
		seen[name] = true
	}
}

func TestStore_Remove(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	fh := multipartFile(t, "image", "photo.jpg", "bytes")
	name, err := store.Save(fh)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := store.Remove(name); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(store.Dir(), name)); !os.IsNotExist(err) {
		t.Error("expected file to be removed")
	}
}

func TestStore_RemoveMissing(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.Remove("does-not-exist.png"); err != nil {
		t.Errorf("remove missing file: %v", err)
	}
	if err := store.Remove(""); err != nil {
		t.Errorf("remove empty name: %v", err)
	}
}
