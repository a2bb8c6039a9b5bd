package store

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "plain", input: "test.txt"},
		{name: "no extension", input: "README"},
		{name: "dotfile", input: ".hidden"},
		{name: "double dot inside", input: "a..b.txt"},
		{name: "unicode", input: "notes-ü.md"},
		{name: "spaces", input: "my notes.txt"},
		{name: "max length", input: strings.Repeat("a", MaxNameLength)},
		{name: "empty", input: "", wantErr: true},
		{name: "dot", input: ".", wantErr: true},
		{name: "dotdot", input: "..", wantErr: true},
		{name: "traversal", input: "../secret.txt", wantErr: true},
		{name: "nested traversal", input: "a/../../b", wantErr: true},
		{name: "slash", input: "a/b.txt", wantErr: true},
		{name: "backslash", input: `a\b.txt`, wantErr: true},
		{name: "absolute", input: "/etc/passwd", wantErr: true},
		{name: "NUL", input: "a\x00.txt", wantErr: true},
		{name: "newline", input: "a\n.txt", wantErr: true},
		{name: "DEL", input: "a\x7f.txt", wantErr: true},
		{name: "too long", input: strings.Repeat("a", MaxNameLength+1), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidName) {
					t.Errorf("ValidateName(%q) = %v, want ErrInvalidName", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateName(%q) unexpected error: %v", tt.input, err)
			}
		})
	}
}

func TestResolvePath(t *testing.T) {
	root := t.TempDir()

	got, err := ResolvePath(root, "test.txt")
	if err != nil {
		t.Fatalf("ResolvePath failed: %v", err)
	}
	if filepath.Dir(got) != filepath.Clean(root) {
		t.Errorf("resolved path %q is not directly under %q", got, root)
	}

	if _, err := ResolvePath(root, "../x.txt"); !errors.Is(err, ErrInvalidName) {
		t.Errorf("expected ErrInvalidName for traversal, got %v", err)
	}
}
