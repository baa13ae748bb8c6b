package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()

	if info.Version != Version {
		t.Errorf("Version = %q, want %q", info.Version, Version)
	}
	if info.Commit == "" || info.BuildTime == "" {
		t.Errorf("Get() = %+v, want commit and build time filled", info)
	}
	if !strings.HasPrefix(info.GoVersion, "go") {
		t.Errorf("GoVersion = %q", info.GoVersion)
	}
	if !strings.Contains(info.Platform, "/") {
		t.Errorf("Platform = %q, want os/arch", info.Platform)
	}
}

func TestApplyVCS(t *testing.T) {
	settings := []debug.BuildSetting{
		{Key: "vcs", Value: "git"},
		{Key: "vcs.revision", Value: "0123456789abcdef0123"},
		{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		{Key: "vcs.modified", Value: "true"},
	}

	tests := []struct {
		name string
		in   Info
		want Info
	}{
		{
			name: "defaults take the vcs stamp",
			in:   Info{Commit: "unknown", BuildTime: "unknown"},
			want: Info{Commit: "0123456789ab", BuildTime: "2026-01-02T03:04:05Z", Modified: true},
		},
		{
			name: "ldflags win",
			in:   Info{Commit: "abc123", BuildTime: "today"},
			want: Info{Commit: "abc123", BuildTime: "today", Modified: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in
			applyVCS(&got, settings)
			if got != tt.want {
				t.Errorf("applyVCS() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestShortCommit(t *testing.T) {
	if got := shortCommit("abc"); got != "abc" {
		t.Errorf("shortCommit(abc) = %q", got)
	}
	if got := shortCommit("0123456789abcdef"); got != "0123456789ab" {
		t.Errorf("shortCommit() = %q", got)
	}
}

func TestString(t *testing.T) {
	s := String()
	if !strings.HasPrefix(s, Version+" (") || !strings.Contains(s, ") built at ") {
		t.Errorf("String() = %q", s)
	}
}
