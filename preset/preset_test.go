package preset

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() Snapshot {
	return Snapshot{
		Name: "lead",
		Values: map[string]float64{
			"mod/chorus/rate": 0.8,
			"delay/echo/time": 420,
		},
		Modes: map[string]int{"mod": 1, "delay": 0},
	}
}

func stores(t *testing.T) map[string]Store {
	fs, err := NewFileStore(t.TempDir(), 4)
	require.NoError(t, err)
	return map[string]Store{
		"memory": NewMemoryStore(4, 0),
		"file":   fs,
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Save(ctx, 2, sample()))
			got, err := s.Load(ctx, 2)
			require.NoError(t, err)
			assert.Equal(t, sample(), got)
		})
	}
}

func TestStoreErrors(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Load(ctx, 1)
			require.ErrorIs(t, err, ErrNotFound)
			_, err = s.Load(ctx, 4)
			require.ErrorIs(t, err, ErrUnknownSlot)
			require.ErrorIs(t, s.Save(ctx, -1, sample()), ErrUnknownSlot)

			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			require.ErrorIs(t, s.Save(cancelled, 0, sample()), context.Canceled)
		})
	}
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(2, 0)
	snap := sample()
	require.NoError(t, s.Save(ctx, 0, snap))
	snap.Values["mod/chorus/rate"] = 3

	got, err := s.Load(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.8, got.Values["mod/chorus/rate"])

	got.Modes["mod"] = 7
	again, err := s.Load(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, again.Modes["mod"])
}

func TestMemoryStoreFull(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(8, 2)
	require.NoError(t, s.Save(ctx, 0, sample()))
	require.NoError(t, s.Save(ctx, 5, sample()))
	require.ErrorIs(t, s.Save(ctx, 6, sample()), ErrStorageFull)
	require.NoError(t, s.Save(ctx, 5, sample()), "overwriting does not need room")
}

func TestFileStoreIgnoresUnknownKeys(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), 2)
	require.NoError(t, err)
	doc := "name: old\nfirmware: 3\nvalues:\n  mod/chorus/rate: 1.5\nmodes: {mod: 0}\n"
	require.NoError(t, os.WriteFile(s.Path(1), []byte(doc), 0o644))

	got, err := s.Load(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "old", got.Name)
	assert.Equal(t, 1.5, got.Values["mod/chorus/rate"])
	assert.Equal(t, 0, got.Modes["mod"])
}

func TestFileStoreCorruptFile(t *testing.T) {
	s, err := NewFileStore(t.TempDir(), 2)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(s.Path(0), []byte("values: [1, 2"), 0o644))
	_, err = s.Load(context.Background(), 0)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestFileStoreLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, 2)
	require.NoError(t, err)
	require.NoError(t, s.Save(context.Background(), 0, sample()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "preset-000.yaml", entries[0].Name())
}
