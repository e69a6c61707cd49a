package imagestore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestDiskStoreRoundTrip(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store, err := NewDiskStore(root)
	require.NoError(t, err)

	patient := uuid.New()
	stored, err := store.Store(context.Background(), patient, "xray.jpg", strings.NewReader("image-bytes"))
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(stored.ReferenceToken, "IMG-"))
	require.Equal(t, filepath.Join(root, patient.String()), filepath.Dir(stored.Path))
	require.True(t, strings.HasSuffix(stored.Path, ".jpg"))

	data, err := os.ReadFile(stored.Path)
	require.NoError(t, err)
	require.Equal(t, "image-bytes", string(data))

	require.NoError(t, store.Remove(context.Background(), stored.Path))
	_, err = os.Stat(stored.Path)
	require.True(t, os.IsNotExist(err))
}

func TestDiskStoreRemoveMissingIsNoop(t *testing.T) {
	t.Parallel()

	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Remove(context.Background(), filepath.Join(t.TempDir(), "gone.png")))
}

func TestDiskStoreStripsHostileExtension(t *testing.T) {
	t.Parallel()

	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	stored, err := store.Store(context.Background(), uuid.New(), "../../../etc/passwd", strings.NewReader("x"))
	require.NoError(t, err)
	require.False(t, strings.Contains(stored.Path, ".."))
}

func TestDiskStoreRequiresPatient(t *testing.T) {
	t.Parallel()

	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)
	_, err = store.Store(context.Background(), uuid.Nil, "a.png", strings.NewReader("x"))
	require.Error(t, err)
}
