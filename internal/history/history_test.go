package history

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tanzir71/voice-tray/internal/transcript"
)

func TestSaveAndLoadRoundTripKeepsOrder(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state", "history.json")
	h := transcript.NewHistoryFrom(3, []string{"one", "two", "three", "four"})
	require.NoError(t, Save(path, h))

	entries, warning, err := Load(path)
	require.NoError(t, err)
	require.Empty(t, warning)
	require.Equal(t, []string{"two", "three", "four"}, entries)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".history-*"))
	require.NoError(t, err)
	require.Empty(t, leftovers)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	entries, warning, err := Load(filepath.Join(t.TempDir(), "history.json"))
	require.NoError(t, err)
	require.Empty(t, warning)
	require.Empty(t, entries)
}

func TestLoadCorruptFileWarns(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	entries, warning, err := Load(path)
	require.NoError(t, err)
	require.Empty(t, entries)
	require.Contains(t, warning, "corrupt")
}

func TestSaveEmptyHistoryWritesEmptyList(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, Save(path, transcript.NewHistory(5)))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.JSONEq(t, `{"entries": []}`, string(contents))
}
