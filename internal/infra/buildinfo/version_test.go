package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()

	tests := []struct {
		name  string
		value string
	}{
		{"Version", info.Version},
		{"Commit", info.Commit},
		{"BuildTime", info.BuildTime},
		{"GoVersion", info.GoVersion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value == "" {
				t.Errorf("%s field should not be empty", tt.name)
			}
		})
	}
}

func TestString(t *testing.T) {
	info := Get()
	want := info.Version + " (" + info.Commit + ") built at " + info.BuildTime
	if got := String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestResolve_FallsBackToBuildInfo(t *testing.T) {
	bi := &debug.BuildInfo{
		GoVersion: "go1.24.4",
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef0123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	}

	info := resolve(bi)
	if info.GoVersion != "go1.24.4" {
		t.Errorf("GoVersion = %q", info.GoVersion)
	}
	if info.Commit != "0123456789ab" {
		t.Errorf("Commit = %q, want 12 chars of the revision", info.Commit)
	}
	if info.BuildTime != "2026-01-02T03:04:05Z" {
		t.Errorf("BuildTime = %q", info.BuildTime)
	}
}

func TestResolve_InjectedWins(t *testing.T) {
	saved := Commit
	Commit = "injected"
	defer func() { Commit = saved }()

	info := resolve(&debug.BuildInfo{Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc"}}})
	if info.Commit != "injected" {
		t.Errorf("Commit = %q, want injected", info.Commit)
	}
	if !strings.Contains(String(), "injected") {
		t.Error("String() should use injected commit")
	}
}

func TestResolve_Nil(t *testing.T) {
	if got := resolve(nil); got.Version != Version {
		t.Errorf("Version = %q", got.Version)
	}
}
