// Package notify builds transient toast notifications and renders them as
// out-of-band fragments appended to the page's toast container.
package notify

import (
	"crypto/rand"
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/oklog/ulid/v2"
)

// Severity selects the visual tone of a toast.
type Severity string

const (
	Success Severity = "success"
	Error   Severity = "error"
	Warning Severity = "warning"
	Info    Severity = "info"
)

// AutoHideDelay is how long a toast stays visible before hiding itself.
const AutoHideDelay = 3000 * time.Millisecond

// ContainerID is the DOM id of the page-wide toast container.
const ContainerID = "toastContainer"

var strict = bluemonday.StrictPolicy()

// ParseSeverity maps free-form input to a Severity, defaulting to Info.
func ParseSeverity(raw string) Severity {
	switch Severity(strings.ToLower(strings.TrimSpace(raw))) {
	case Success:
		return Success
	case Error:
		return Error
	case Warning:
		return Warning
	default:
		return Info
	}
}

// Class returns the background style class for the severity.
func (s Severity) Class() string {
	switch s {
	case Success:
		return "bg-success"
	case Error:
		return "bg-danger"
	case Warning:
		return "bg-warning"
	default:
		return "bg-info"
	}
}

// Icon returns the icon class for the severity.
func (s Severity) Icon() string {
	switch s {
	case Success:
		return "fa-check-circle"
	case Error:
		return "fa-exclamation-circle"
	case Warning:
		return "fa-exclamation-triangle"
	default:
		return "fa-info-circle"
	}
}

// Toast is a single notification. It is never persisted beyond a session flash.
type Toast struct {
	ID       string   `json:"id"`
	Message  string   `json:"message"`
	Severity Severity `json:"tone"`
	DelayMs  int64    `json:"delayMs"`
}

// New creates a toast with a fresh identifier and the standard auto-hide delay.
func New(message string, severity Severity) Toast {
	return Toast{
		ID:       newID(),
		Message:  message,
		Severity: ParseSeverity(string(severity)),
		DelayMs:  AutoHideDelay.Milliseconds(),
	}
}

// FromServer creates a toast from a backend-supplied message, stripping markup.
// When nothing readable remains the fallback message is used instead.
func FromServer(message, fallback string, severity Severity) Toast {
	clean := Sanitize(message)
	if clean == "" {
		clean = fallback
	}
	return New(clean, severity)
}

// Sanitize strips all markup from s and returns plain text; templates escape it again on output.
func Sanitize(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// Class is a template convenience for Severity.Class.
func (t Toast) Class() string { return t.Severity.Class() }

// Icon is a template convenience for Severity.Icon.
func (t Toast) Icon() string { return t.Severity.Icon() }

func newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}
