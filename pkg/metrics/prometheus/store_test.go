package prometheus

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/marmos91/sandboxfs/pkg/store"
)

func TestResultLabel(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "success"},
		{fmt.Errorf("read a.txt: %w", store.ErrNotFound), "not_found"},
		{fmt.Errorf("create a.txt: %w", store.ErrExists), "exists"},
		{fmt.Errorf("%w: empty name", store.ErrInvalidName), "invalid_name"},
		{store.ErrInvalidEncoding, "invalid_encoding"},
		{store.ErrNotRegular, "not_regular"},
		{context.Canceled, "cancelled"},
		{errors.New("disk full"), "error"},
	}

	for _, tt := range tests {
		if got := resultLabel(tt.err); got != tt.want {
			t.Errorf("resultLabel(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
