// Package uidriver is the narrow browser surface the page objects are built
// on. Fields are addressed by selector (CSS or XPath); every call blocks
// until the browser confirms the action or the timeout runs out.
package uidriver

import (
	"errors"
	"fmt"
	"time"
)

// ErrTimeout is returned when a wait or action does not complete in time.
var ErrTimeout = errors.New("uidriver: timed out")

// Field is one located element, or the set of elements a selector matches
// for Count.
type Field interface {
	Fill(value string) error
	// Select picks an option of a <select> by its visible label.
	Select(option string) error
	Click() error
	// ForceClick clicks without waiting for the element to be actionable.
	ForceClick() error
	Hover() error
	Text() (string, error)
	Value() (string, error)
	IsChecked() (bool, error)
	SetChecked(checked bool) error
	Count() (int, error)
	WaitUntil(cond Condition, timeout time.Duration) error
}

// Driver resolves selectors on the current page.
type Driver interface {
	Field(selector string) Field
	// Goto navigates to path relative to the application base URL.
	Goto(path string) error
	// Options returns the non-empty, trimmed option labels of a <select>.
	Options(selector string) ([]string, error)
	URL() string
}

type conditionKind int

const (
	visible conditionKind = iota + 1
	hidden
	enabled
	containsText
)

// Condition is a rendered state a Field can be waited on.
type Condition struct {
	kind conditionKind
	text string
}

var (
	Visible = Condition{kind: visible}
	Hidden  = Condition{kind: hidden}
	Enabled = Condition{kind: enabled}
)

// ContainsText is met when the element's text contains s.
func ContainsText(s string) Condition {
	return Condition{kind: containsText, text: s}
}

// Text returns the expected substring of a ContainsText condition.
func (c Condition) Text() string { return c.text }

func (c Condition) String() string {
	switch c.kind {
	case visible:
		return "visible"
	case hidden:
		return "hidden"
	case enabled:
		return "enabled"
	case containsText:
		return fmt.Sprintf("contains text %q", c.text)
	default:
		return "unknown"
	}
}
