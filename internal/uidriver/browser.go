package uidriver

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"
)

// BrowserOptions configure Launch.
type BrowserOptions struct {
	BaseURL  string
	Headless bool
	SlowMo   time.Duration
	Timeout  time.Duration
	// VideoDir enables video recording for every session when set.
	VideoDir string
	// SkipInstall assumes the driver and browsers are already present.
	SkipInstall bool
	Logger      *slog.Logger
}

// Browser owns the Playwright driver process and one Chromium instance.
// Sessions are isolated browser contexts opened on it.
type Browser struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	opts    BrowserOptions
	logger  *slog.Logger
}

// Launch starts Playwright and Chromium.
func Launch(opts BrowserOptions) (*Browser, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if !opts.SkipInstall && os.Getenv("PLAYWRIGHT_PREINSTALLED") != "1" {
		if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
			return nil, fmt.Errorf("could not install playwright browsers: %w", err)
		}
	}
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		SlowMo:   playwright.Float(ms(opts.SlowMo)),
		Args:     []string{"--start-maximized"},
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}

	logger.Info("Browser launched", "headless", opts.Headless, "slow_mo", opts.SlowMo)
	return &Browser{pw: pw, browser: browser, opts: opts, logger: logger}, nil
}

// SessionOptions configure NewSession.
type SessionOptions struct {
	// StorageState is a storage-state file to restore cookies and local
	// storage from. Ignored when empty or missing.
	StorageState string
}

// NewSession opens a browser context with one page.
func (b *Browser) NewSession(opts SessionOptions) (*Session, error) {
	ctxOpts := playwright.BrowserNewContextOptions{
		NoViewport: playwright.Bool(true),
	}
	if b.opts.VideoDir != "" {
		if err := os.MkdirAll(b.opts.VideoDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create video dir: %w", err)
		}
		ctxOpts.RecordVideo = &playwright.RecordVideo{Dir: b.opts.VideoDir}
	}
	restored := false
	if opts.StorageState != "" {
		if _, err := os.Stat(opts.StorageState); err == nil {
			ctxOpts.StorageStatePath = playwright.String(opts.StorageState)
			restored = true
		}
	}

	bctx, err := b.browser.NewContext(ctxOpts)
	if err != nil {
		return nil, fmt.Errorf("could not create context: %w", err)
	}
	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		return nil, fmt.Errorf("could not create page: %w", err)
	}

	logger := b.logger
	page.OnConsole(func(msg playwright.ConsoleMessage) {
		logger.Debug("Browser console", "type", msg.Type(), "text", msg.Text())
	})

	return &Session{
		PageDriver: NewPageDriver(page, b.opts.BaseURL, b.opts.Timeout),
		context:    bctx,
		page:       page,
		restored:   restored,
		recording:  ctxOpts.RecordVideo != nil,
		logger:     logger,
	}, nil
}

// Close shuts the browser and the driver down.
func (b *Browser) Close() error {
	var errs []error
	if err := b.browser.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close browser: %w", err))
	}
	if err := b.pw.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
	}
	return errors.Join(errs...)
}

// Session is one isolated browser context and its page.
type Session struct {
	*PageDriver
	context   playwright.BrowserContext
	page      playwright.Page
	restored  bool
	recording bool
	logger    *slog.Logger
}

// Restored reports whether the session started from a saved storage state.
func (s *Session) Restored() bool { return s.restored }

// SaveStorageState writes cookies and local storage to path.
func (s *Session) SaveStorageState(path string) error {
	if _, err := s.context.StorageState(path); err != nil {
		return fmt.Errorf("failed to save storage state: %w", err)
	}
	s.logger.Info("Login state saved", "path", path)
	return nil
}

// Screenshot writes a PNG of the current page to path.
func (s *Session) Screenshot(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create screenshot dir: %w", err)
	}
	if _, err := s.page.Screenshot(playwright.PageScreenshotOptions{Path: playwright.String(path)}); err != nil {
		return fmt.Errorf("failed to take screenshot: %w", err)
	}
	s.logger.Info("Screenshot saved", "path", path)
	return nil
}

// VideoPath returns where the page video is written. The file is complete
// only after Close.
func (s *Session) VideoPath() (string, error) {
	if !s.recording {
		return "", errors.New("video recording is not enabled")
	}
	return s.page.Video().Path()
}

// Close closes the page and the context. When keepVideo is false the
// recorded video, if any, is removed.
func (s *Session) Close(keepVideo bool) error {
	video, _ := s.VideoPath()

	var errs []error
	if err := s.page.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close page: %w", err))
	}
	if err := s.context.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close context: %w", err))
	}

	switch {
	case video == "":
	case keepVideo:
		s.logger.Info("Video saved", "path", video)
	default:
		if err := os.Remove(video); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, fmt.Errorf("failed to remove video: %w", err))
		}
	}
	return errors.Join(errs...)
}
