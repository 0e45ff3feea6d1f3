package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/wedding-planner-api/internal/models"
)

const samplePDF = "%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestDirPicker_Pick(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "invitation.pdf", samplePDF)
	picker := NewDirPicker(dir, zerolog.Nop())

	ref, err := picker.Pick(context.Background(), PickRequest{Name: "invitation.pdf", Accept: []string{"application/pdf"}})
	if err != nil {
		t.Fatalf("Pick failed: %v", err)
	}
	if ref.Name != "invitation.pdf" {
		t.Errorf("Expected name invitation.pdf, got %s", ref.Name)
	}
	if ref.MIMEType != "application/pdf" {
		t.Errorf("Expected application/pdf, got %s", ref.MIMEType)
	}
	if ref.Size != int64(len(samplePDF)) {
		t.Errorf("Expected size %d, got %d", len(samplePDF), ref.Size)
	}
	if !strings.HasPrefix(ref.URI, "file://") {
		t.Errorf("Expected file uri, got %s", ref.URI)
	}
}

func TestDirPicker_Errors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", "plain text notes")
	picker := NewDirPicker(dir, zerolog.Nop())
	ctx := context.Background()

	tests := []struct {
		name     string
		req      PickRequest
		expected error
	}{
		{"dismissed", PickRequest{}, ErrCancelled},
		{"missing file", PickRequest{Name: "missing.pdf"}, ErrNotFound},
		{"escapes directory", PickRequest{Name: "../secret.pdf"}, ErrNotFound},
		{"wrong type", PickRequest{Name: "notes.txt", Accept: []string{"application/pdf"}}, ErrUnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := picker.Pick(ctx, tt.req)
			if !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestDirPicker_AcceptIgnoresParameters(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", "plain text notes")

	ref, err := NewDirPicker(dir, zerolog.Nop()).Pick(context.Background(), PickRequest{Name: "notes.txt", Accept: []string{"text/plain"}})
	if err != nil {
		t.Fatalf("Pick failed: %v", err)
	}
	if !strings.HasPrefix(ref.MIMEType, "text/plain") {
		t.Errorf("Expected text/plain, got %s", ref.MIMEType)
	}
}

func TestDirSharer_Unavailable(t *testing.T) {
	sharer := NewDirSharer("", nil, zerolog.Nop())
	if sharer.Available() {
		t.Error("Expected sharing to be unavailable")
	}

	_, err := sharer.Share(context.Background(), models.FileRef{URI: "file:///tmp/x.pdf"}, ShareOptions{})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable, got %v", err)
	}
}

func TestDirSharer_Share(t *testing.T) {
	exportDir := t.TempDir()
	src := writeFile(t, exportDir, "card.pdf", samplePDF)
	shareDir := filepath.Join(t.TempDir(), "shared")
	sharer := NewDirSharer(shareDir, []string{exportDir}, zerolog.Nop())

	shared, err := sharer.Share(context.Background(), models.FileRef{URI: FileURI(src), Name: "card.pdf"}, ShareOptions{
		DialogTitle: "Share Wedding Invitation",
	})
	if err != nil {
		t.Fatalf("Share failed: %v", err)
	}

	if !strings.HasSuffix(shared.Name, "-card.pdf") {
		t.Errorf("Expected shared name to end with -card.pdf, got %s", shared.Name)
	}
	if shared.MIMEType != "application/pdf" {
		t.Errorf("Expected detected application/pdf, got %s", shared.MIMEType)
	}

	data, err := os.ReadFile(filepath.Join(shareDir, shared.Name))
	if err != nil {
		t.Fatalf("Shared copy missing: %v", err)
	}
	if string(data) != samplePDF {
		t.Error("Shared copy differs from source")
	}
}

func TestDirSharer_MissingSource(t *testing.T) {
	exportDir := t.TempDir()
	sharer := NewDirSharer(t.TempDir(), []string{exportDir}, zerolog.Nop())
	_, err := sharer.Share(context.Background(), models.FileRef{URI: FileURI(filepath.Join(exportDir, "gone.pdf"))}, ShareOptions{})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestDirSharer_RejectsOutsideSources(t *testing.T) {
	pickDir := t.TempDir()
	exportDir := t.TempDir()
	outside := t.TempDir()
	secret := writeFile(t, outside, "passwd", "root:x:0:0")
	if err := os.Symlink(secret, filepath.Join(pickDir, "link.pdf")); err != nil {
		t.Fatalf("Failed to create symlink: %v", err)
	}

	shareDir := filepath.Join(t.TempDir(), "shared")
	sharer := NewDirSharer(shareDir, []string{pickDir, exportDir}, zerolog.Nop())

	tests := []struct {
		name string
		uri  string
	}{
		{"absolute path outside", FileURI(secret)},
		{"dot-dot escape", "file://" + filepath.ToSlash(filepath.Join(exportDir, "..", filepath.Base(outside), "passwd"))},
		{"symlink out of pick dir", FileURI(filepath.Join(pickDir, "link.pdf"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sharer.Share(context.Background(), models.FileRef{URI: tt.uri}, ShareOptions{})
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("Expected ErrNotFound, got %v", err)
			}
		})
	}

	entries, _ := os.ReadDir(shareDir)
	if len(entries) != 0 {
		t.Errorf("Expected nothing copied into share dir, got %d files", len(entries))
	}
}

func TestFileRef_SizeMB(t *testing.T) {
	ref := models.FileRef{Size: 3 * 1024 * 1024}
	if ref.SizeMB() != 3 {
		t.Errorf("Expected 3 MB, got %v", ref.SizeMB())
	}
}
