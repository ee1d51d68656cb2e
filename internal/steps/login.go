package steps

import (
	"fmt"

	"github.com/cucumber/godog"

	"github.com/mmynk/stocktake/internal/pages"
)

const (
	invalidEmail    = "invalid_user@gmail.com"
	invalidPassword = "invalid!"
)

func registerLoginSteps(sc *godog.ScenarioContext, state func() *ScenarioState) {
	sc.Step(`^user is on login page$`, func() error {
		return state().userIsOnLoginPage()
	})
	sc.Step(`^the user provides correct credentials$`, func() error {
		return state().userProvidesCorrectCredentials()
	})
	sc.Step(`^the user provides invalid credentials - (email|password)$`, func(field string) error {
		return state().userProvidesInvalidCredentials(field)
	})
	sc.Step(`^the user is successfully signed into the Stocktake app$`, func() error {
		return state().userIsSignedIn()
	})
	sc.Step(`^the login attempted has failed$`, func() error {
		return state().loginHasFailed()
	})
}

func (s *ScenarioState) loginPage() *pages.LoginPage {
	return pages.NewLoginPage(s.driver, s.timeout())
}

func (s *ScenarioState) userIsOnLoginPage() error {
	s.logger.Info("User is on login page", "url", s.driver.URL())
	return nil
}

func (s *ScenarioState) userProvidesCorrectCredentials() error {
	s.logger.Info("Submit login with correct credentials")
	return s.loginPage().Login(s.cfg.Email, s.cfg.Password)
}

func (s *ScenarioState) userProvidesInvalidCredentials(field string) error {
	s.logger.Info("Submit login with incorrect credentials", "invalid_field", field)
	switch field {
	case "email":
		return s.loginPage().Login(invalidEmail, s.cfg.Password)
	case "password":
		return s.loginPage().Login(s.cfg.Email, invalidPassword)
	default:
		return fmt.Errorf("unknown credential field %q", field)
	}
}

func (s *ScenarioState) userIsSignedIn() error {
	return s.loginPage().ExpectSignedIn(s.cfg.Email)
}

func (s *ScenarioState) loginHasFailed() error {
	return s.loginPage().ExpectFailed()
}
