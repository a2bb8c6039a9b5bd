package files

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/marmos91/sandboxfs/pkg/store"
	"github.com/marmos91/sandboxfs/pkg/store/fs"
	"github.com/marmos91/sandboxfs/pkg/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func newTestService(t *testing.T, opts Options) (*Service, store.FileStore) {
	t.Helper()
	s, err := memory.NewMemoryFileStore(context.Background())
	require.NoError(t, err)
	return New(s, opts), s
}

func requireKind(t *testing.T, err error, kind Kind, msg string) {
	t.Helper()
	require.Error(t, err)
	var fe *Error
	require.True(t, errors.As(err, &fe), "expected *files.Error, got %T", err)
	assert.Equal(t, kind, fe.Kind)
	if msg != "" {
		assert.Equal(t, msg, fe.Message)
	}
}

// failingStore injects errors into a memory store.
type failingStore struct {
	store.FileStore
	createErr error
	readErr   error
	listErr   error
}

func (f *failingStore) CreateExclusive(ctx context.Context, name, content string) error {
	if f.createErr != nil {
		return f.createErr
	}
	return f.FileStore.CreateExclusive(ctx, name, content)
}

func (f *failingStore) Read(ctx context.Context, name string) (string, error) {
	if f.readErr != nil {
		return "", f.readErr
	}
	return f.FileStore.Read(ctx, name)
}

func (f *failingStore) List(ctx context.Context) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.FileStore.List(ctx)
}

func TestNew_NilStorePanics(t *testing.T) {
	assert.Panics(t, func() { New(nil, Options{}) })
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, Options{})

	names, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	_, err = svc.Create(ctx, "a.txt", ptr("x"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, "b.md", ptr("y"))
	require.NoError(t, err)

	names, err = svc.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a.txt", "b.md"}, names)
}

func TestService_ListFailure(t *testing.T) {
	mem, err := memory.NewMemoryFileStore(context.Background())
	require.NoError(t, err)
	svc := New(&failingStore{FileStore: mem, listErr: errors.New("permission denied")}, Options{})

	_, err = svc.List(context.Background())
	requireKind(t, err, KindInternal, "permission denied")
}

func TestService_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, Options{})

	msg, err := svc.Create(ctx, "notes.txt", ptr("hello"))
	require.NoError(t, err)
	assert.Equal(t, "File 'notes.txt' created successfully.", msg)

	file, err := svc.Get(ctx, "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, &File{Name: "notes.txt", Content: "hello"}, file)
}

func TestService_CreateEmptyContent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, Options{})

	_, err := svc.Create(ctx, "empty.txt", ptr(""))
	require.NoError(t, err)

	file, err := svc.Get(ctx, "empty.txt")
	require.NoError(t, err)
	assert.Equal(t, "", file.Content)
}

func TestService_CreateConflict(t *testing.T) {
	ctx := context.Background()
	svc, s := newTestService(t, Options{})

	_, err := svc.Create(ctx, "notes.txt", ptr("first"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, "notes.txt", ptr("second"))
	requireKind(t, err, KindConflict, MsgAlreadyExists)

	content, err := s.Read(ctx, "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "first", content)
}

func TestService_CreateConflictCheckedBeforeContent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, Options{})

	_, err := svc.Create(ctx, "notes.txt", ptr("first"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, "notes.txt", nil)
	requireKind(t, err, KindConflict, MsgAlreadyExists)
}

func TestService_CreateMissingContent(t *testing.T) {
	ctx := context.Background()
	svc, s := newTestService(t, Options{})

	_, err := svc.Create(ctx, "notes.txt", nil)
	requireKind(t, err, KindInvalidRequest, MsgMissingContent)

	exists, err := s.Exists(ctx, "notes.txt")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestService_CreateRaceLoserGetsConflict(t *testing.T) {
	ctx := context.Background()
	mem, err := memory.NewMemoryFileStore(ctx)
	require.NoError(t, err)

	// The existence check passes but the exclusive create loses.
	svc := New(&failingStore{FileStore: mem, createErr: fmt.Errorf("create x: %w", store.ErrExists)}, Options{})

	_, err = svc.Create(ctx, "x.txt", ptr("data"))
	requireKind(t, err, KindConflict, MsgAlreadyExists)
}

func TestService_InvalidNames(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, Options{})

	for _, name := range []string{"", "..", "../etc/passwd", "a/b.txt", `a\b.txt`, "bad\x00.txt", strings.Repeat("a", 300)} {
		t.Run(fmt.Sprintf("%q", name), func(t *testing.T) {
			_, err := svc.Get(ctx, name)
			assert.Equal(t, KindInvalidRequest, KindOf(err))

			_, err = svc.Create(ctx, name, ptr("x"))
			assert.Equal(t, KindInvalidRequest, KindOf(err))

			_, err = svc.Update(ctx, name, ptr("x"))
			assert.Equal(t, KindInvalidRequest, KindOf(err))

			_, err = svc.Delete(ctx, name)
			assert.Equal(t, KindInvalidRequest, KindOf(err))

			assert.True(t, errors.Is(err, store.ErrInvalidName))
		})
	}
}

func TestService_GetNotFound(t *testing.T) {
	svc, _ := newTestService(t, Options{})

	_, err := svc.Get(context.Background(), "ghost.txt")
	requireKind(t, err, KindNotFound, MsgNotFound)
}

func TestService_GetUnsupportedExtension(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, Options{})

	// Missing files are 404 regardless of extension.
	_, err := svc.Get(ctx, "ghost.bin")
	requireKind(t, err, KindNotFound, MsgNotFound)

	_, err = svc.Create(ctx, "image.bin", ptr("data"))
	require.NoError(t, err)

	_, err = svc.Get(ctx, "image.bin")
	requireKind(t, err, KindInvalidRequest, MsgUnsupportedType)

	_, err = svc.Create(ctx, "README.TXT", ptr("data"))
	require.NoError(t, err)

	_, err = svc.Get(ctx, "README.TXT")
	requireKind(t, err, KindInvalidRequest, MsgUnsupportedType)
}

func TestService_GetInvalidEncoding(t *testing.T) {
	ctx := context.Background()
	svc, s := newTestService(t, Options{})

	require.NoError(t, s.CreateExclusive(ctx, "bad.txt", string([]byte{0xff, 0xfe})))

	_, err := svc.Get(ctx, "bad.txt")
	requireKind(t, err, KindInternal, "")
	assert.True(t, errors.Is(err, store.ErrInvalidEncoding))
}

func TestService_GetReadRace(t *testing.T) {
	ctx := context.Background()
	mem, err := memory.NewMemoryFileStore(ctx)
	require.NoError(t, err)
	require.NoError(t, mem.CreateExclusive(ctx, "gone.txt", "x"))

	svc := New(&failingStore{FileStore: mem, readErr: fmt.Errorf("read gone.txt: %w", store.ErrNotFound)}, Options{})

	_, err = svc.Get(ctx, "gone.txt")
	requireKind(t, err, KindNotFound, MsgNotFound)
}

func TestService_Directory(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := fs.NewFSFileStore(ctx, root)
	require.NoError(t, err)
	svc := New(s, Options{})

	_, err = svc.Create(ctx, "real.txt", ptr("x"))
	require.NoError(t, err)
	require.NoError(t, mkdir(root, "sub.txt"))

	names, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"real.txt"}, names)

	_, err = svc.Get(ctx, "sub.txt")
	requireKind(t, err, KindNotFound, MsgNotFound)

	_, err = svc.Update(ctx, "sub.txt", ptr("x"))
	requireKind(t, err, KindNotFound, MsgNotFound)

	_, err = svc.Delete(ctx, "sub.txt")
	requireKind(t, err, KindNotFound, MsgNotFound)

	// A directory still occupies the name.
	_, err = svc.Create(ctx, "sub.txt", ptr("x"))
	requireKind(t, err, KindConflict, MsgAlreadyExists)
}

func TestService_CreateAnonymous(t *testing.T) {
	ctx := context.Background()
	svc, s := newTestService(t, Options{})

	name, msg, err := svc.CreateAnonymous(ctx, ptr("anon"))
	require.NoError(t, err)
	assert.Equal(t, MsgCreatedAnonymously, msg)
	assert.True(t, strings.HasSuffix(name, GeneratedExtension))
	assert.Len(t, name, 36+len(GeneratedExtension))

	content, err := s.Read(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, "anon", content)

	other, _, err := svc.CreateAnonymous(ctx, ptr("anon"))
	require.NoError(t, err)
	assert.NotEqual(t, name, other)
}

func TestService_CreateAnonymousMissingContent(t *testing.T) {
	svc, s := newTestService(t, Options{})

	_, _, err := svc.CreateAnonymous(context.Background(), nil)
	requireKind(t, err, KindInvalidRequest, MsgMissingContent)

	names, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestService_CreateAnonymousRetriesOnCollision(t *testing.T) {
	ctx := context.Background()

	var calls atomic.Int32
	names := func() string {
		if calls.Add(1) < 3 {
			return "taken.txt"
		}
		return "fresh.txt"
	}

	svc, s := newTestService(t, Options{Names: names})
	require.NoError(t, s.CreateExclusive(ctx, "taken.txt", "original"))

	name, _, err := svc.CreateAnonymous(ctx, ptr("new"))
	require.NoError(t, err)
	assert.Equal(t, "fresh.txt", name)
	assert.Equal(t, int32(3), calls.Load())

	content, err := s.Read(ctx, "taken.txt")
	require.NoError(t, err)
	assert.Equal(t, "original", content)
}

func TestService_CreateAnonymousGivesUp(t *testing.T) {
	ctx := context.Background()
	svc, s := newTestService(t, Options{
		MaxNameAttempts: 2,
		Names:           func() string { return "taken.txt" },
	})
	require.NoError(t, s.CreateExclusive(ctx, "taken.txt", "original"))

	_, _, err := svc.CreateAnonymous(ctx, ptr("new"))
	requireKind(t, err, KindInternal, "could not generate a unique filename after 2 attempts")
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, Options{})

	_, err := svc.Create(ctx, "notes.txt", ptr("hello"))
	require.NoError(t, err)

	msg, err := svc.Update(ctx, "notes.txt", ptr("bye"))
	require.NoError(t, err)
	assert.Equal(t, "File 'notes.txt' modified successfully.", msg)

	file, err := svc.Get(ctx, "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "bye", file.Content)
}

func TestService_UpdateErrors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, Options{})

	// Not found wins over missing content.
	_, err := svc.Update(ctx, "ghost.txt", nil)
	requireKind(t, err, KindNotFound, MsgNotFound)

	_, err = svc.Update(ctx, "ghost.txt", ptr("x"))
	requireKind(t, err, KindNotFound, MsgNotFound)

	_, err = svc.Create(ctx, "notes.txt", ptr("hello"))
	require.NoError(t, err)

	_, err = svc.Update(ctx, "notes.txt", nil)
	requireKind(t, err, KindInvalidRequest, MsgMissingContent)

	file, err := svc.Get(ctx, "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", file.Content)
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, Options{})

	_, err := svc.Create(ctx, "notes.txt", ptr("hello"))
	require.NoError(t, err)

	msg, err := svc.Delete(ctx, "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "File 'notes.txt' deleted successfully.", msg)

	_, err = svc.Get(ctx, "notes.txt")
	requireKind(t, err, KindNotFound, MsgNotFound)

	_, err = svc.Delete(ctx, "notes.txt")
	requireKind(t, err, KindNotFound, MsgNotFound)
}

func TestService_StrictExtensions(t *testing.T) {
	ctx := context.Background()

	lenient, _ := newTestService(t, Options{})
	_, err := lenient.Create(ctx, "data.bin", ptr("x"))
	require.NoError(t, err)

	strict, s := newTestService(t, Options{StrictExtensions: true})

	_, err = strict.Create(ctx, "data.bin", ptr("x"))
	requireKind(t, err, KindInvalidRequest, MsgUnsupportedType)

	require.NoError(t, s.CreateExclusive(ctx, "legacy.bin", "x"))
	_, err = strict.Update(ctx, "legacy.bin", ptr("y"))
	requireKind(t, err, KindInvalidRequest, MsgUnsupportedType)

	// Deleting is always allowed.
	_, err = strict.Delete(ctx, "legacy.bin")
	require.NoError(t, err)

	// Generated names always carry an allowed extension.
	_, _, err = strict.CreateAnonymous(ctx, ptr("x"))
	require.NoError(t, err)
}
