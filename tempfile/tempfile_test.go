package tempfile

import (
	"os"
	"strings"
	"testing"
)

func TestNewFileIsUniqueAndExists(t *testing.T) {
	a := New(t.TempDir())

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		name, err := a.NewFile(".cfg")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasSuffix(name, ".cfg") {
			t.Errorf("Expected suffix .cfg, got %s", name)
		}
		if _, exists := seen[name]; exists {
			t.Fatalf("Name %s was handed out twice", name)
		}
		seen[name] = struct{}{}

		if _, err := os.Stat(name); err != nil {
			t.Errorf("Expected %s to exist: %v", name, err)
		}
	}

	if n := len(a.Files()); n != 50 {
		t.Errorf("Expected 50 owned files, got %d", n)
	}
}

func TestPurgeRemovesEverything(t *testing.T) {
	a := New(t.TempDir())

	var names []string
	for i := 0; i < 3; i++ {
		name, err := a.NewFile("")
		if err != nil {
			t.Fatal(err)
		}
		names = append(names, name)
	}

	// A file the caller already deleted must not make Purge fail
	if err := os.Remove(names[1]); err != nil {
		t.Fatal(err)
	}

	if err := a.Purge(); err != nil {
		t.Fatal(err)
	}

	for _, name := range names {
		if _, err := os.Stat(name); !os.IsNotExist(err) {
			t.Errorf("Expected %s to be removed, stat returned %v", name, err)
		}
	}

	if n := len(a.Files()); n != 0 {
		t.Errorf("Expected no owned files after Purge, got %d", n)
	}

	// Purging twice is harmless
	if err := a.Purge(); err != nil {
		t.Error(err)
	}
}

func TestRandHeteroglyphs(t *testing.T) {
	s := RandHeteroglyphs(30)
	if len(s) != 30 {
		t.Fatalf("Expected 30 symbols, got %d", len(s))
	}
	for _, r := range s {
		if strings.ContainsRune("ijlouv01", r) {
			t.Errorf("Unexpected symbol %q in %s", r, s)
		}
	}
}
