// Package toast renders user-facing notifications. The sync and network
// layers talk to a Notifier interface so tests can capture what would
// have been shown.
package toast

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Level is the severity of a notification.
type Level uint8

// Notification severities.
const (
	Info Level = iota
	Success
	Warning
	Error
)

func (l Level) String() string {
	switch l {
	case Info:
		return "info"
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	}

	return "unknown"
}

// Notifier receives user-facing notifications.
type Notifier interface {
	Notify(level Level, message string)
}

// Renderer writes styled notifications to a terminal.
type Renderer struct {
	mu     sync.Mutex
	out    io.Writer
	styles map[Level]lipgloss.Style
}

// NewRenderer returns a Renderer writing to out.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{
		out: out,
		styles: map[Level]lipgloss.Style{
			Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
			Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
			Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
			Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		},
	}
}

// Notify renders one notification line.
func (r *Renderer) Notify(level Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	style, ok := r.styles[level]
	if !ok {
		style = lipgloss.NewStyle()
	}

	fmt.Fprintln(r.out, style.Render(fmt.Sprintf("[%s] %s", level, message)))
}

// Recorder is a Notifier that remembers every notification, for tests.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// Entry is one recorded notification.
type Entry struct {
	Level   Level
	Message string
}

// Notify records the notification.
func (r *Recorder) Notify(level Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, Entry{Level: level, Message: message})
}

// Entries returns a copy of everything recorded so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Entry, len(r.entries))
	copy(out, r.entries)

	return out
}

// Discard is a Notifier that drops everything.
type Discard struct{}

// Notify drops the notification.
func (Discard) Notify(Level, string) {}
