package media

import (
	"os"
	"path/filepath"
	"strings"
)

// Store resolves image references against the server's base URL and media
// directory. References under <baseURL>/media/ (or scheme-less relative refs)
// are locally managed; anything else is an external URL this server does not own.
type Store struct {
	BaseURL  string // e.g. http://localhost:8080, no trailing slash
	MediaDir string
}

func NewStore(baseURL, mediaDir string) *Store {
	return &Store{BaseURL: strings.TrimRight(baseURL, "/"), MediaDir: mediaDir}
}

func hasScheme(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// Qualify turns a scheme-less reference into a fully-qualified media URL.
// Already-qualified references pass through untouched.
func (s *Store) Qualify(ref string) string {
	if ref == "" || hasScheme(ref) {
		return ref
	}
	p := strings.TrimLeft(ref, "/")
	if !strings.HasPrefix(p, "media/") {
		p = "media/" + p
	}
	return s.BaseURL + "/" + p
}

// QualifyAll maps Qualify over a reference list, preserving order.
func (s *Store) QualifyAll(refs []string) []string {
	if refs == nil {
		return nil
	}
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = s.Qualify(r)
	}
	return out
}

// LocalPath resolves a reference to a file under MediaDir. ok is false for
// external URLs and for anything that escapes the media root.
func (s *Store) LocalPath(ref string) (string, bool) {
	rel := ""
	switch {
	case hasScheme(ref):
		if !strings.HasPrefix(ref, s.BaseURL+"/media/") {
			return "", false
		}
		rel = strings.TrimPrefix(ref, s.BaseURL+"/media/")
	default:
		rel = strings.TrimPrefix(strings.TrimLeft(ref, "/"), "media/")
	}
	if rel == "" || strings.Contains(rel, "\x00") {
		return "", false
	}
	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
		return "", false
	}
	return filepath.Join(s.MediaDir, clean), true
}

// Remove deletes the underlying file for a locally-managed reference.
// External references are skipped without error.
func (s *Store) Remove(ref string) error {
	path, ok := s.LocalPath(ref)
	if !ok {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
