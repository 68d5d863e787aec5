package tui

import (
	"runtime"
	"testing"
)

func withGOOS(t *testing.T, value string) {
	t.Helper()
	old := goos
	goos = value
	t.Cleanup(func() { goos = old })
}

func TestGetOS(t *testing.T) {
	tests := []struct {
		goos string
		want OSType
	}{
		{"darwin", OSMac},
		{"linux", OSLinux},
		{"windows", OSWindows},
		{"plan9", OSUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			withGOOS(t, tt.goos)
			if got := GetOS(); got != tt.want {
				t.Errorf("GetOS() = %v, want %v", got, tt.want)
			}
		})
	}

	if runtime.GOOS == "linux" && goos != "linux" {
		t.Errorf("goos = %q, want runtime.GOOS", goos)
	}
}

func TestShortcutKey_Get(t *testing.T) {
	key := ShortcutKey{Mac: "ctrl+s", Linux: "alt+s", Windows: "alt+s", Default: "ctrl+s"}
	tests := []struct {
		name string
		goos string
		key  ShortcutKey
		want string
	}{
		{"mac", "darwin", key, "ctrl+s"},
		{"linux", "linux", key, "alt+s"},
		{"windows", "windows", key, "alt+s"},
		{"unknown falls back", "plan9", key, "ctrl+s"},
		{"default only", "linux", ShortcutKey{Default: "o"}, "o"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withGOOS(t, tt.goos)
			if got := tt.key.Get(); got != tt.want {
				t.Errorf("Get() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetShortcutHelp(t *testing.T) {
	withGOOS(t, "linux")
	if got := GetShortcutHelp("save", Shortcuts.Save); got != "M-s save" {
		t.Errorf("GetShortcutHelp() = %q", got)
	}
	if got := GetShortcutHelp("revert", Shortcuts.Revert); got != "^r revert (caution: reverse search)" {
		t.Errorf("GetShortcutHelp() = %q", got)
	}

	withGOOS(t, "darwin")
	if got := GetShortcutHelp("save", Shortcuts.Save); got != "^s save" {
		t.Errorf("GetShortcutHelp() = %q", got)
	}
}

func TestFormatShortcutForHelp(t *testing.T) {
	withGOOS(t, "darwin")
	if got := FormatShortcutForHelp(ShortcutKey{Default: "alt+shift+x"}); got != "⌥⇧x" {
		t.Errorf("FormatShortcutForHelp() = %q", got)
	}
}
