package files

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestHasTextExtension(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"notes.txt", true},
		{"README.md", true},
		{"server.log", true},
		{"script.py", true},
		{"data.json", true},
		{"feed.xml", true},
		{"index.html", true},
		{"style.css", true},
		{"app.js", true},
		{"image.png", false},
		{"archive.tar.gz", false},
		{"NOTES.TXT", false},
		{"txt", false},
		{"noext", false},
	}

	for _, tt := range tests {
		if got := HasTextExtension(tt.name); got != tt.want {
			t.Errorf("HasTextExtension(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestUUIDNames(t *testing.T) {
	name := UUIDNames()

	if !strings.HasSuffix(name, GeneratedExtension) {
		t.Fatalf("UUIDNames() = %q, want suffix %q", name, GeneratedExtension)
	}

	id, err := uuid.Parse(strings.TrimSuffix(name, GeneratedExtension))
	if err != nil {
		t.Fatalf("UUIDNames() = %q is not a UUID: %v", name, err)
	}
	if id.Version() != 4 {
		t.Errorf("UUID version = %d, want 4", id.Version())
	}
	if !HasTextExtension(name) {
		t.Errorf("generated name %q should pass the text extension gate", name)
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(newError(KindConflict, MsgAlreadyExists, nil)); got != KindConflict {
		t.Errorf("KindOf(conflict) = %v", got)
	}
	if got := KindOf(errPlain("boom")); got != KindInternal {
		t.Errorf("KindOf(plain) = %v, want InternalError", got)
	}
}

type errPlain string

func (e errPlain) Error() string { return string(e) }
