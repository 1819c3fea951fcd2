package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/require"
)

func restoreVars(t *testing.T) {
	t.Helper()
	v, c, d, read := Version, Commit, Date, readBuildInfo
	t.Cleanup(func() {
		Version, Commit, Date, readBuildInfo = v, c, d, read
	})
}

func TestStringPrefersLdflagsMetadata(t *testing.T) {
	restoreVars(t)
	Version, Commit, Date = "1.2.3", "abc123", "2026-02-18"
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{
			Main:     debug.Module{Version: "v9.9.9"},
			Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "ffffffffffffffff"}},
		}, true
	}

	got := String()
	require.Contains(t, got, "voicetray 1.2.3")
	require.Contains(t, got, "commit=abc123")
	require.Contains(t, got, "date=2026-02-18")
	require.Contains(t, got, "go=")
}

func TestCurrentFallsBackToBuildInfo(t *testing.T) {
	restoreVars(t)
	Version, Commit, Date = "dev", "none", "unknown"
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{
			Main: debug.Module{Version: "v0.4.0"},
			Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "0123456789abcdef0123"},
				{Key: "vcs.time", Value: "2026-10-01T12:00:00Z"},
				{Key: "vcs.modified", Value: "true"},
			},
		}, true
	}

	info := Current()
	require.Equal(t, "v0.4.0", info.Version)
	require.Equal(t, "0123456789ab", info.Commit)
	require.Equal(t, "2026-10-01T12:00:00Z", info.Date)
	require.True(t, info.Modified)
	require.Contains(t, String(), "commit=0123456789ab-dirty")
}

func TestCurrentIgnoresDevelBuild(t *testing.T) {
	restoreVars(t)
	Version = "dev"
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, true
	}

	require.Equal(t, "dev", Current().Version)

	readBuildInfo = func() (*debug.BuildInfo, bool) { return nil, false }
	require.Equal(t, "dev", Current().Version)
}
