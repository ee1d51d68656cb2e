package steps

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cucumber/godog"

	"github.com/mmynk/stocktake/internal/config"
	"github.com/mmynk/stocktake/internal/pages"
	"github.com/mmynk/stocktake/internal/uidriver"
)

// UseStoreStateTag marks scenarios that start from the saved login state.
const UseStoreStateTag = "@use_store_state"

type sessionKey struct{}

// Suite runs the feature files against one browser.
type Suite struct {
	cfg     *config.Config
	logger  *slog.Logger
	browser *uidriver.Browser
	err     error
}

// NewSuite returns a suite configured by cfg.
func NewSuite(cfg *config.Config, logger *slog.Logger) *Suite {
	if logger == nil {
		logger = slog.Default()
	}
	return &Suite{cfg: cfg, logger: logger}
}

// InitializeTestSuite launches the browser and manages the login state file.
func (s *Suite) InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		s.err = s.setUp()
		if s.err != nil {
			s.logger.Error("Suite setup failed", "error", s.err)
		}
	})
	ctx.AfterSuite(func() {
		s.tearDown()
	})
}

func (s *Suite) setUp() error {
	if err := s.cfg.RequireCredentials(); err != nil {
		return err
	}
	opts := uidriver.BrowserOptions{
		BaseURL:  s.cfg.BaseURL,
		Headless: s.cfg.Headless,
		SlowMo:   s.cfg.SlowMo,
		Timeout:  s.cfg.Timeout,
		Logger:   s.logger,
	}
	if s.cfg.Videos {
		opts.VideoDir = filepath.Join(s.cfg.ArtifactsDir, "videos")
	}
	browser, err := uidriver.Launch(opts)
	if err != nil {
		return err
	}
	s.browser = browser
	return s.ensureLoginState()
}

// ensureLoginState logs in once and saves the storage state, unless a
// state file already exists.
func (s *Suite) ensureLoginState() error {
	if _, err := os.Stat(s.cfg.LoginStateFile); err == nil {
		return nil
	}

	session, err := s.browser.NewSession(uidriver.SessionOptions{})
	if err != nil {
		return err
	}
	defer s.closeSession(session, false)

	login := pages.NewLoginPage(session, s.cfg.Timeout)
	if err := login.Open(); err != nil {
		return err
	}
	if err := login.Login(s.cfg.Email, s.cfg.Password); err != nil {
		return fmt.Errorf("failed to log in for the saved state: %w", err)
	}
	if err := login.ExpectSignedIn(s.cfg.Email); err != nil {
		return err
	}
	return session.SaveStorageState(s.cfg.LoginStateFile)
}

func (s *Suite) tearDown() {
	if err := os.Remove(s.cfg.LoginStateFile); err == nil {
		s.logger.Info("Deleted login state file", "path", s.cfg.LoginStateFile)
	} else if !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("Failed to delete login state file", "path", s.cfg.LoginStateFile, "error", err)
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			s.logger.Warn("Failed to close browser", "error", err)
		}
	}
}

// InitializeScenario opens a browser session per scenario and registers
// every step.
func (s *Suite) InitializeScenario(sc *godog.ScenarioContext) {
	var state *ScenarioState

	sc.Before(func(ctx context.Context, scenario *godog.Scenario) (context.Context, error) {
		if s.err != nil {
			return ctx, fmt.Errorf("suite setup failed: %w", s.err)
		}
		useState := hasTag(scenario, UseStoreStateTag)

		opts := uidriver.SessionOptions{}
		if useState {
			opts.StorageState = s.cfg.LoginStateFile
		}
		session, err := s.browser.NewSession(opts)
		if err != nil {
			return ctx, err
		}

		state = NewScenarioState(s.cfg, session, s.logger.With("scenario", scenario.Name))
		if err := state.start(useState, session.Restored()); err != nil {
			return context.WithValue(ctx, sessionKey{}, session), err
		}
		return context.WithValue(ctx, sessionKey{}, session), nil
	})

	sc.After(func(ctx context.Context, scenario *godog.Scenario, err error) (context.Context, error) {
		session, ok := ctx.Value(sessionKey{}).(*uidriver.Session)
		if !ok {
			return ctx, nil
		}
		failed := err != nil
		if failed && s.cfg.Screenshots {
			path := filepath.Join(s.cfg.ArtifactsDir, "screenshots", artifactName(scenario.Name)+".png")
			if shotErr := session.Screenshot(path); shotErr != nil {
				s.logger.Error("Failed to take screenshot", "error", shotErr)
			}
		}
		s.closeSession(session, failed)
		return ctx, nil
	})

	registerSteps(sc, func() *ScenarioState { return state })
}

type sessionCloser interface {
	Close(keepVideo bool) error
}

func (s *Suite) closeSession(session sessionCloser, keepVideo bool) {
	if err := session.Close(keepVideo); err != nil {
		s.logger.Warn("Failed to close session", "error", err)
	}
}

// start puts the page where every scenario begins: the login form, or the
// dashboard for scenarios using the saved login state. Without a restored
// state those scenarios sign in through the form first.
func (s *ScenarioState) start(useState, restored bool) error {
	login := pages.NewLoginPage(s.driver, s.timeout())
	switch {
	case !useState:
		return login.Open()
	case restored:
		if err := s.driver.Goto("/"); err != nil {
			return err
		}
	default:
		s.logger.Info("No saved login state, signing in through the form")
		if err := login.Open(); err != nil {
			return err
		}
		if err := login.Login(s.cfg.Email, s.cfg.Password); err != nil {
			return err
		}
	}
	return login.ExpectSignedIn(s.cfg.Email)
}

func registerSteps(sc *godog.ScenarioContext, state func() *ScenarioState) {
	registerLoginSteps(sc, state)
	registerDashboardSteps(sc, state)
	registerProductSteps(sc, state)
	registerPurchaseSteps(sc, state)
}

func hasTag(scenario *godog.Scenario, tag string) bool {
	for _, t := range scenario.Tags {
		if t.Name == tag {
			return true
		}
	}
	return false
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// artifactName turns a scenario name into a file name.
func artifactName(scenario string) string {
	name := strings.Trim(unsafeChars.ReplaceAllString(scenario, "_"), "_")
	if name == "" {
		return "scenario"
	}
	return name
}
