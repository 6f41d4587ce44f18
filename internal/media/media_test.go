package media

import (
	"os"
	"path/filepath"
	"testing"
)

func TestQualify(t *testing.T) {
	s := NewStore("http://localhost:8080/", "/srv/media")

	cases := []struct {
		in, want string
	}{
		{"products/p1/main.jpg", "http://localhost:8080/media/products/p1/main.jpg"},
		{"/media/products/p1/main.jpg", "http://localhost:8080/media/products/p1/main.jpg"},
		{"https://cdn.example.com/x.jpg", "https://cdn.example.com/x.jpg"},
		{"http://localhost:8080/media/a.jpg", "http://localhost:8080/media/a.jpg"},
		{"", ""},
	}
	for _, c := range cases {
		if got := s.Qualify(c.in); got != c.want {
			t.Errorf("Qualify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestLocalPath(t *testing.T) {
	s := NewStore("http://localhost:8080", "/srv/media")

	if p, ok := s.LocalPath("products/p1/main.jpg"); !ok || p != filepath.Join("/srv/media", "products", "p1", "main.jpg") {
		t.Errorf("relative ref: got %q ok=%v", p, ok)
	}
	if p, ok := s.LocalPath("http://localhost:8080/media/products/p1/main.jpg"); !ok || p != filepath.Join("/srv/media", "products", "p1", "main.jpg") {
		t.Errorf("own-host ref: got %q ok=%v", p, ok)
	}
	if _, ok := s.LocalPath("https://cdn.example.com/x.jpg"); ok {
		t.Error("external URL resolved to a local path")
	}
	if _, ok := s.LocalPath("../etc/passwd"); ok {
		t.Error("traversal ref resolved to a local path")
	}
	if _, ok := s.LocalPath("media/../../etc/passwd"); ok {
		t.Error("nested traversal ref resolved to a local path")
	}
	if _, ok := s.LocalPath(""); ok {
		t.Error("empty ref resolved to a local path")
	}
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	s := NewStore("http://localhost:8080", dir)

	target := filepath.Join(dir, "products", "p1", "main.jpg")
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := s.Remove("products/p1/main.jpg"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(target); !os.IsNotExist(err) {
		t.Error("file survived Remove")
	}

	// absent file and external URL are both quiet no-ops
	if err := s.Remove("products/p1/main.jpg"); err != nil {
		t.Errorf("second Remove errored: %v", err)
	}
	if err := s.Remove("https://cdn.example.com/x.jpg"); err != nil {
		t.Errorf("external Remove errored: %v", err)
	}
}
