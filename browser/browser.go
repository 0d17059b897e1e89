// Package browser wraps a headless Chrome session behind a small
// capability interface so the scraping logic can be exercised without
// a real browser.
package browser

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrorKind classifies engine failures so callers can tell a timed-out
// wait from broken navigation.
type ErrorKind int

const (
	KindNavigation ErrorKind = iota
	KindTimeout
)

func (k ErrorKind) String() string {
	if k == KindTimeout {
		return "timeout"
	}
	return "navigation"
}

// Error wraps an engine failure with its kind and the operation that
// produced it.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("browser %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsTimeout reports whether err is an engine timeout.
func IsTimeout(err error) bool {
	var be *Error
	return errors.As(err, &be) && be.Kind == KindTimeout
}

// wrap classifies err for op. Context cancellation passes through
// unchanged so shutdown is never mistaken for page trouble.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	kind := KindNavigation
	if errors.Is(err, context.DeadlineExceeded) {
		kind = KindTimeout
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Engine is the capability surface the scraper needs from a browser.
// Selectors starting with a slash are treated as XPath, anything else
// as CSS. Implementations must honor the per-call timeout.
type Engine interface {
	// Navigate loads url and waits for the document to be ready.
	Navigate(ctx context.Context, url string, timeout time.Duration) error
	// Text reads the text of the first element matching sel.
	Text(ctx context.Context, sel string, timeout time.Duration) (string, error)
	// Click activates the first element matching sel.
	Click(ctx context.Context, sel string, timeout time.Duration) error
	// SendKeys focuses the first element matching sel and types keys
	// into it.
	SendKeys(ctx context.Context, sel, keys string, timeout time.Duration) error
	// Visible reports whether sel becomes visible within timeout. A
	// timeout is a negative answer, not an error.
	Visible(ctx context.Context, sel string, timeout time.Duration) (bool, error)
	// Location returns the current page URL, after any redirects.
	Location(ctx context.Context) (string, error)
	// HTML returns the serialized DOM of the current page.
	HTML(ctx context.Context) (string, error)
	// Sleep pauses for d, returning early on context cancellation.
	// Used to let client-side rendering settle.
	Sleep(ctx context.Context, d time.Duration) error
}
