package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// StatusFeedback represents a temporary status message
type StatusFeedback struct {
	Message   string
	Icon      string
	ShowUntil time.Time
	Type      StatusType
}

// StatusType represents the type of status message
type StatusType int

const (
	StatusTypeSuccess StatusType = iota
	StatusTypeWarning
	StatusTypeError
	StatusTypeInfo
)

func (t StatusType) icon() string {
	switch t {
	case StatusTypeSuccess:
		return "✓"
	case StatusTypeWarning:
		return "⚠"
	case StatusTypeError:
		return "×"
	}
	return "ℹ"
}

// StatusManager manages temporary status messages. Errors stay until the
// next message replaces them.
type StatusManager struct {
	CurrentStatus   *StatusFeedback
	DefaultDuration time.Duration
}

// NewStatusManager creates a new status manager
func NewStatusManager() *StatusManager {
	return &StatusManager{
		DefaultDuration: 3 * time.Second,
	}
}

// ShowFeedback displays a status message and schedules its removal
func (sm *StatusManager) ShowFeedback(message string, statusType StatusType) tea.Cmd {
	sm.CurrentStatus = &StatusFeedback{
		Message:   message,
		Icon:      statusType.icon(),
		ShowUntil: time.Now().Add(sm.DefaultDuration),
		Type:      statusType,
	}
	if statusType == StatusTypeError {
		return nil
	}

	shown := sm.CurrentStatus
	return tea.Tick(sm.DefaultDuration, func(time.Time) tea.Msg {
		return ClearStatusMsg{status: shown}
	})
}

func (sm *StatusManager) ShowSuccess(message string) tea.Cmd {
	return sm.ShowFeedback(message, StatusTypeSuccess)
}

func (sm *StatusManager) ShowWarning(message string) tea.Cmd {
	return sm.ShowFeedback(message, StatusTypeWarning)
}

func (sm *StatusManager) ShowError(message string) tea.Cmd {
	return sm.ShowFeedback(message, StatusTypeError)
}

func (sm *StatusManager) ShowInfo(message string) tea.Cmd {
	return sm.ShowFeedback(message, StatusTypeInfo)
}

// Clear removes the status if msg belongs to it
func (sm *StatusManager) Clear(msg ClearStatusMsg) {
	if msg.status == nil || msg.status == sm.CurrentStatus {
		sm.CurrentStatus = nil
	}
}

// GetStatus returns the current status line if one is shown
func (sm *StatusManager) GetStatus() (string, StatusType, bool) {
	if sm.CurrentStatus == nil {
		return "", StatusTypeInfo, false
	}
	s := sm.CurrentStatus
	return fmt.Sprintf("%s %s", s.Icon, s.Message), s.Type, true
}

// ClearStatusMsg is sent to clear the status
type ClearStatusMsg struct {
	status *StatusFeedback
}
