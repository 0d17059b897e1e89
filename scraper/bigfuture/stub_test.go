package bigfuture

import (
	"context"
	"sync"
	"time"

	"bigfuture-scraper/browser"
)

// stubEngine scripts browser behavior. Text answers come from texts or
// a textFn override; selectors without an answer time out the way a
// missing element would. Navigation records every URL and follows the
// redirects table when deciding the reported location.
type stubEngine struct {
	mu sync.Mutex

	texts     map[string]string
	textFn    func(sel string) (string, error)
	visible   map[string]bool
	redirects map[string]string
	html      string

	navErr   error
	clickErr error

	navigated []string
	clicked   []string
	keysSent  []string

	onNavigate func(url string)
	onClick    func(sel string)
}

func (s *stubEngine) Navigate(ctx context.Context, url string, _ time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.navigated = append(s.navigated, url)
	hook := s.onNavigate
	err := s.navErr
	s.mu.Unlock()
	if hook != nil {
		hook(url)
	}
	return err
}

func (s *stubEngine) Text(ctx context.Context, sel string, _ time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	fn := s.textFn
	text, ok := s.texts[sel]
	s.mu.Unlock()
	if fn != nil {
		return fn(sel)
	}
	if !ok {
		return "", &browser.Error{Kind: browser.KindTimeout, Op: "text", Err: context.DeadlineExceeded}
	}
	return text, nil
}

func (s *stubEngine) Click(ctx context.Context, sel string, _ time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.clicked = append(s.clicked, sel)
	hook := s.onClick
	err := s.clickErr
	s.mu.Unlock()
	if hook != nil {
		hook(sel)
	}
	return err
}

func (s *stubEngine) SendKeys(ctx context.Context, sel, keys string, _ time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keysSent = append(s.keysSent, keys)
	return nil
}

func (s *stubEngine) Visible(ctx context.Context, sel string, _ time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible[sel], nil
}

func (s *stubEngine) Location(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.navigated) == 0 {
		return "", nil
	}
	last := s.navigated[len(s.navigated)-1]
	if to, ok := s.redirects[last]; ok {
		return to, nil
	}
	return last, nil
}

func (s *stubEngine) HTML(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.html, nil
}

func (s *stubEngine) Sleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

func (s *stubEngine) navCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.navigated)
}

// stubSession adds the lifecycle surface the worker drives.
type stubSession struct {
	stubEngine

	recycles    int
	recreates   int
	recycleErr  error
	recreateErr error
	onRecycle   func()
	onRecreate  func()
}

func (s *stubSession) RecyclePage(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.recycles++
	hook := s.onRecycle
	err := s.recycleErr
	s.mu.Unlock()
	if hook != nil {
		hook()
	}
	return err
}

func (s *stubSession) RecreateContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.recreates++
	hook := s.onRecreate
	err := s.recreateErr
	s.mu.Unlock()
	if hook != nil {
		hook()
	}
	return err
}
