package browser

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"bigfuture-scraper/utils"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const openTabTimeout = 30 * time.Second

// Session is a chromedp-backed Engine bound to one long-lived browser
// process with a single active tab. It is not safe for concurrent use;
// the scrape loop is the only caller.
type Session struct {
	logger *utils.Logger
	parent context.Context
	opts   []chromedp.ExecAllocatorOption

	allocCtx    context.Context
	cancelAlloc context.CancelFunc
	tabCtx      context.Context
	cancelTab   context.CancelFunc
}

// NewSession launches the headless browser and opens the first tab.
// Canceling ctx tears the whole session down.
func NewSession(ctx context.Context, chromeBin string, logger *utils.Logger) (*Session, error) {
	bin := chromeBin
	if bin == "" {
		bin = findChromeBinary()
	}
	logger.Info("[browser] Using browser binary: %s", bin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.UserAgent(userAgent),
	)
	if bin != "" {
		opts = append(opts, chromedp.ExecPath(bin))
	}

	s := &Session{
		logger: logger,
		parent: ctx,
		opts:   opts,
	}
	s.allocCtx, s.cancelAlloc = chromedp.NewExecAllocator(ctx, opts...)

	if err := s.openTab(); err != nil {
		s.cancelAlloc()
		return nil, fmt.Errorf("browser: start session: %w", err)
	}
	return s, nil
}

// openTab creates a fresh tab context and forces the underlying target
// to exist, so a broken browser surfaces here instead of mid-scrape.
func (s *Session) openTab() error {
	// Suppress chromedp log noise
	tabCtx, cancelTab := chromedp.NewContext(s.allocCtx,
		chromedp.WithLogf(func(string, ...interface{}) {}))

	ctx, cancel := context.WithTimeout(tabCtx, openTabTimeout)
	defer cancel()
	if err := chromedp.Run(ctx); err != nil {
		cancelTab()
		return err
	}

	s.tabCtx = tabCtx
	s.cancelTab = cancelTab
	return nil
}

// RecyclePage closes the current tab and opens a new one, bounding
// per-tab memory growth on long runs.
func (s *Session) RecyclePage(ctx context.Context) error {
	if s.cancelTab != nil {
		s.cancelTab()
		s.cancelTab = nil
	}
	if err := s.openTab(); err != nil {
		return wrap("recycle-page", err)
	}
	return nil
}

// RecreateContext tears down the whole browser process and starts a
// fresh one. Used when the session is wedged past page-level recovery.
func (s *Session) RecreateContext(ctx context.Context) error {
	if s.cancelTab != nil {
		s.cancelTab()
		s.cancelTab = nil
	}
	if s.cancelAlloc != nil {
		s.cancelAlloc()
		s.cancelAlloc = nil
	}

	s.allocCtx, s.cancelAlloc = chromedp.NewExecAllocator(s.parent, s.opts...)
	if err := s.openTab(); err != nil {
		return wrap("recreate-context", err)
	}
	return nil
}

// Close shuts the browser down.
func (s *Session) Close() {
	if s.cancelTab != nil {
		s.cancelTab()
	}
	if s.cancelAlloc != nil {
		s.cancelAlloc()
	}
}

// run executes actions against the current tab under a timeout, also
// aborting if the caller's ctx is canceled.
func (s *Session) run(ctx context.Context, op string, timeout time.Duration, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	runCtx, cancel := context.WithTimeout(s.tabCtx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return wrap(op, chromedp.Run(runCtx, actions...))
}

// Navigate loads url and waits for the body to be ready.
func (s *Session) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	return s.run(ctx, "navigate", timeout,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

// Text reads the text of the first match of sel.
func (s *Session) Text(ctx context.Context, sel string, timeout time.Duration) (string, error) {
	var out string
	if err := s.run(ctx, "text", timeout, chromedp.Text(sel, &out, selectorOpt(sel))); err != nil {
		return "", err
	}
	return out, nil
}

// Click activates the first match of sel.
func (s *Session) Click(ctx context.Context, sel string, timeout time.Duration) error {
	return s.run(ctx, "click", timeout, chromedp.Click(sel, selectorOpt(sel)))
}

// SendKeys types keys into the first match of sel.
func (s *Session) SendKeys(ctx context.Context, sel, keys string, timeout time.Duration) error {
	return s.run(ctx, "send-keys", timeout, chromedp.SendKeys(sel, keys, selectorOpt(sel)))
}

// Visible reports whether sel becomes visible within timeout.
func (s *Session) Visible(ctx context.Context, sel string, timeout time.Duration) (bool, error) {
	err := s.run(ctx, "visible", timeout, chromedp.WaitVisible(sel, selectorOpt(sel)))
	if err == nil {
		return true, nil
	}
	if IsTimeout(err) {
		return false, nil
	}
	return false, err
}

// Location returns the current page URL.
func (s *Session) Location(ctx context.Context) (string, error) {
	var loc string
	if err := s.run(ctx, "location", 5*time.Second, chromedp.Location(&loc)); err != nil {
		return "", err
	}
	return loc, nil
}

// HTML returns the serialized DOM of the current page.
func (s *Session) HTML(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, "html", 10*time.Second, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return html, nil
}

// Sleep waits for d or until ctx is done.
func (s *Session) Sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// selectorOpt treats selectors starting with a slash or parenthesis as
// XPath and everything else as CSS.
func selectorOpt(sel string) chromedp.QueryOption {
	if strings.HasPrefix(sel, "/") || strings.HasPrefix(sel, "(") {
		return chromedp.BySearch
	}
	return chromedp.ByQuery
}

// findChromeBinary locates a Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
