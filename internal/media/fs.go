package media

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wedding-planner-api/internal/models"
)

// DirPicker picks files from one directory
type DirPicker struct {
	dir string
	log zerolog.Logger
}

// NewDirPicker creates a picker rooted at dir
func NewDirPicker(dir string, log zerolog.Logger) *DirPicker {
	return &DirPicker{
		dir: dir,
		log: log.With().Str("component", "picker").Logger(),
	}
}

// Pick resolves req.Name inside the picker directory and detects its type
func (p *DirPicker) Pick(ctx context.Context, req PickRequest) (models.FileRef, error) {
	if err := ctx.Err(); err != nil {
		return models.FileRef{}, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return models.FileRef{}, ErrCancelled
	}

	path, err := resolve(p.dir, req.Name)
	if err != nil {
		return models.FileRef{}, err
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return models.FileRef{}, fmt.Errorf("%w: %s", ErrNotFound, req.Name)
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return models.FileRef{}, fmt.Errorf("failed to detect file type: %w", err)
	}
	if len(req.Accept) > 0 && !accepts(mt, req.Accept) {
		return models.FileRef{}, fmt.Errorf("%w: %s", ErrUnsupportedType, mt.String())
	}

	ref := models.FileRef{
		URI:      FileURI(path),
		Name:     filepath.Base(path),
		Size:     info.Size(),
		MIMEType: mt.String(),
	}
	p.log.Debug().Str("name", ref.Name).Str("mime_type", ref.MIMEType).Int64("size", ref.Size).Msg("File picked")
	return ref, nil
}

// DirSharer shares files by copying them into a share directory. With no
// directory configured sharing is unavailable. Only files inside one of the
// source directories may be shared.
type DirSharer struct {
	dir     string
	sources []string
	log     zerolog.Logger
}

// NewDirSharer creates a sharer writing into dir and reading from sources
func NewDirSharer(dir string, sources []string, log zerolog.Logger) *DirSharer {
	return &DirSharer{
		dir:     dir,
		sources: sources,
		log:     log.With().Str("component", "sharer").Logger(),
	}
}

// Available reports whether a share directory is configured
func (s *DirSharer) Available() bool {
	return s.dir != ""
}

// Share copies the file behind file.URI into the share directory and returns
// the shared copy
func (s *DirSharer) Share(ctx context.Context, file models.FileRef, opts ShareOptions) (models.FileRef, error) {
	if !s.Available() {
		return models.FileRef{}, ErrUnavailable
	}
	if err := ctx.Err(); err != nil {
		return models.FileRef{}, err
	}

	src, err := pathFromURI(file.URI)
	if err != nil {
		return models.FileRef{}, err
	}
	src, err = s.source(src)
	if err != nil {
		s.log.Warn().Str("uri", file.URI).Msg("Share outside source directories refused")
		return models.FileRef{}, err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return models.FileRef{}, fmt.Errorf("failed to create share directory: %w", err)
	}

	name := file.Name
	if name == "" {
		name = filepath.Base(src)
	}
	dst := filepath.Join(s.dir, uuid.New().String()[:8]+"-"+filepath.Base(name))

	size, err := copyFile(src, dst)
	if err != nil {
		return models.FileRef{}, err
	}

	mimeType := opts.MIMEType
	if mimeType == "" {
		mimeType = file.MIMEType
	}
	if mimeType == "" {
		if mt, err := mimetype.DetectFile(dst); err == nil {
			mimeType = mt.String()
		}
	}

	shared := models.FileRef{
		URI:      FileURI(dst),
		Name:     filepath.Base(dst),
		Size:     size,
		MIMEType: mimeType,
	}
	s.log.Info().Str("name", shared.Name).Str("title", opts.DialogTitle).Msg("File shared")
	return shared, nil
}

// source resolves src with symlinks followed and checks it lies inside a
// source directory
func (s *DirSharer) source(src string) (string, error) {
	target, err := filepath.EvalSymlinks(src)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, filepath.Base(src))
	}
	for _, dir := range s.sources {
		if dir == "" {
			continue
		}
		root, err := filepath.Abs(dir)
		if err != nil {
			continue
		}
		if r, err := filepath.EvalSymlinks(root); err == nil {
			root = r
		}
		rel, err := filepath.Rel(root, target)
		if err != nil {
			continue
		}
		if path, err := resolve(root, filepath.ToSlash(rel)); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, filepath.Base(src))
}

func accepts(mt *mimetype.MIME, accept []string) bool {
	for m := mt; m != nil; m = m.Parent() {
		for _, a := range accept {
			if m.Is(a) {
				return true
			}
		}
	}
	return false
}

// resolve joins name onto dir, refusing names that escape it
func resolve(dir, name string) (string, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve media directory: %w", err)
	}
	path := filepath.Join(root, filepath.FromSlash(name))
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return path, nil
}

// FileURI returns the file:// URI of path
func FileURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
}

func pathFromURI(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("invalid file uri %q: %w", uri, err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("unsupported uri scheme %q", u.Scheme)
	}
	return filepath.FromSlash(u.Path), nil
}

func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, filepath.Base(src))
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("failed to create shared file: %w", err)
	}

	n, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		os.Remove(dst)
		return 0, fmt.Errorf("failed to copy shared file: %w", err)
	}
	if err := out.Close(); err != nil {
		return 0, fmt.Errorf("failed to close shared file: %w", err)
	}
	return n, nil
}
