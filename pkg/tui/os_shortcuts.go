package tui

import (
	"runtime"
	"strings"
)

// OSType represents the operating system type
type OSType int

const (
	OSMac OSType = iota
	OSLinux
	OSWindows
	OSUnknown
)

var goos = runtime.GOOS

// GetOS returns the current operating system type
func GetOS() OSType {
	switch goos {
	case "darwin":
		return OSMac
	case "linux":
		return OSLinux
	case "windows":
		return OSWindows
	default:
		return OSUnknown
	}
}

// ShortcutKey is a keyboard shortcut with OS-specific variations
type ShortcutKey struct {
	Mac     string
	Linux   string
	Windows string
	Default string
}

// Get returns the shortcut for the current OS
func (s ShortcutKey) Get() string {
	switch GetOS() {
	case OSMac:
		if s.Mac != "" {
			return s.Mac
		}
	case OSLinux:
		if s.Linux != "" {
			return s.Linux
		}
	case OSWindows:
		if s.Windows != "" {
			return s.Windows
		}
	}
	return s.Default
}

// GetWithWarning returns the shortcut and a warning for known terminal conflicts
func (s ShortcutKey) GetWithWarning() (shortcut string, warning string) {
	shortcut = s.Get()
	if GetOS() == OSLinux {
		switch shortcut {
		case "^s", "ctrl+s":
			warning = "(may need: stty -ixon)"
		case "^r", "ctrl+r":
			warning = "(caution: reverse search)"
		}
	}
	return shortcut, warning
}

// Shortcuts used by the settings editor
var Shortcuts = struct {
	Save    ShortcutKey
	Revert  ShortcutKey
	Compose ShortcutKey
	Preview ShortcutKey
	Copy    ShortcutKey
}{
	Save: ShortcutKey{
		Mac:     "ctrl+s",
		Linux:   "alt+s", // Ctrl+S is XOFF
		Windows: "alt+s",
		Default: "ctrl+s",
	},
	Revert: ShortcutKey{
		Default: "ctrl+r",
	},
	Compose: ShortcutKey{
		Default: "o",
	},
	Preview: ShortcutKey{
		Default: "p",
	},
	Copy: ShortcutKey{
		Default: "y",
	},
}

// GetShortcutHelp returns formatted help text for a shortcut
func GetShortcutHelp(name string, key ShortcutKey) string {
	shortcut, warning := key.GetWithWarning()
	shortcut = FormatShortcutForHelp(ShortcutKey{Default: shortcut})
	if warning != "" {
		return shortcut + " " + name + " " + warning
	}
	return shortcut + " " + name
}

// FormatShortcutForHelp formats a shortcut key for display in help text
func FormatShortcutForHelp(key ShortcutKey) string {
	shortcut := key.Get()
	if GetOS() == OSLinux || GetOS() == OSWindows {
		shortcut = strings.ReplaceAll(shortcut, "alt+", "M-")
	} else {
		shortcut = strings.ReplaceAll(shortcut, "alt+", "⌥")
	}
	shortcut = strings.ReplaceAll(shortcut, "ctrl+", "^")
	shortcut = strings.ReplaceAll(shortcut, "shift+", "⇧")
	return shortcut
}
