package pages

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/mmynk/stocktake/internal/uidriver"
)

const (
	LoginPath = "/login"

	emailInput    = "#email"
	passwordInput = "#password"
	loginButton   = "//button[@type='submit' and text()='Login']"
	userEmail     = "#userEmail"
	loginError    = "#error"
)

// LoginPage is the sign-in form. Fill calls chain; the first failure is
// kept and returned by Submit.
type LoginPage struct {
	d       uidriver.Driver
	timeout time.Duration
	err     error
}

func NewLoginPage(d uidriver.Driver, timeout time.Duration) *LoginPage {
	return &LoginPage{d: d, timeout: orDefault(timeout)}
}

// Open navigates to the login form.
func (p *LoginPage) Open() error {
	return p.d.Goto(LoginPath)
}

func (p *LoginPage) FillEmail(email string) *LoginPage {
	if p.err != nil {
		return p
	}
	slog.Info("Fill login email field", "email", email)
	p.err = p.d.Field(emailInput).Fill(email)
	return p
}

func (p *LoginPage) FillPassword(password string) *LoginPage {
	if p.err != nil {
		return p
	}
	slog.Info("Fill login password field")
	p.err = p.d.Field(passwordInput).Fill(password)
	return p
}

// Submit clicks the login button and returns the first error of the chain.
func (p *LoginPage) Submit() error {
	if p.err != nil {
		err := p.err
		p.err = nil
		return err
	}
	slog.Info("Submit login credentials")
	return p.d.Field(loginButton).Click()
}

// Login fills both fields and submits.
func (p *LoginPage) Login(email, password string) error {
	return p.FillEmail(email).FillPassword(password).Submit()
}

// ExpectSignedIn waits until the header shows email.
func (p *LoginPage) ExpectSignedIn(email string) error {
	if err := p.d.Field(userEmail).WaitUntil(uidriver.ContainsText(email), p.timeout); err != nil {
		return fmt.Errorf("home page should display the user email: %w", err)
	}
	return nil
}

// ExpectFailed waits until the login error message is shown.
func (p *LoginPage) ExpectFailed() error {
	if err := p.d.Field(loginError).WaitUntil(uidriver.ContainsText("Login failed"), p.timeout); err != nil {
		return fmt.Errorf("login failed message should be displayed: %w", err)
	}
	return nil
}
