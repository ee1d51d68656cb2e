package uidriver

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// PageDriver implements Driver over a Playwright page.
type PageDriver struct {
	page    playwright.Page
	baseURL string
	timeout time.Duration
}

// NewPageDriver wraps page. Paths passed to Goto are joined onto baseURL and
// actions use timeout unless a call gives its own.
func NewPageDriver(page playwright.Page, baseURL string, timeout time.Duration) *PageDriver {
	page.SetDefaultTimeout(ms(timeout))
	return &PageDriver{page: page, baseURL: strings.TrimRight(baseURL, "/"), timeout: timeout}
}

// Page exposes the underlying page for session-level operations.
func (d *PageDriver) Page() playwright.Page { return d.page }

func (d *PageDriver) Field(selector string) Field {
	return &locatorField{loc: d.page.Locator(selector), selector: selector}
}

func (d *PageDriver) Goto(path string) error {
	url := d.baseURL + path
	if _, err := d.page.Goto(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, translate(err))
	}
	return nil
}

func (d *PageDriver) Options(selector string) ([]string, error) {
	texts, err := d.page.Locator(selector).Locator("option").AllTextContents()
	if err != nil {
		return nil, fmt.Errorf("failed to read options of %s: %w", selector, translate(err))
	}
	options := make([]string, 0, len(texts))
	for _, t := range texts {
		if t = strings.TrimSpace(t); t != "" {
			options = append(options, t)
		}
	}
	return options, nil
}

func (d *PageDriver) URL() string { return d.page.URL() }

type locatorField struct {
	loc      playwright.Locator
	selector string
}

func (f *locatorField) Fill(value string) error {
	return f.wrap("fill", f.loc.Fill(value))
}

func (f *locatorField) Select(option string) error {
	_, err := f.loc.SelectOption(playwright.SelectOptionValues{Labels: &[]string{option}})
	return f.wrap("select "+option+" in", err)
}

func (f *locatorField) Click() error {
	return f.wrap("click", f.loc.Click())
}

func (f *locatorField) ForceClick() error {
	return f.wrap("force click", f.loc.Click(playwright.LocatorClickOptions{Force: playwright.Bool(true)}))
}

func (f *locatorField) Hover() error {
	return f.wrap("hover", f.loc.Hover())
}

func (f *locatorField) Text() (string, error) {
	text, err := f.loc.InnerText()
	return text, f.wrap("read text of", err)
}

func (f *locatorField) Value() (string, error) {
	value, err := f.loc.InputValue()
	return value, f.wrap("read value of", err)
}

func (f *locatorField) IsChecked() (bool, error) {
	checked, err := f.loc.IsChecked()
	return checked, f.wrap("read checked state of", err)
}

func (f *locatorField) SetChecked(checked bool) error {
	return f.wrap("set checked state of", f.loc.SetChecked(checked))
}

func (f *locatorField) Count() (int, error) {
	n, err := f.loc.Count()
	return n, f.wrap("count", err)
}

func (f *locatorField) WaitUntil(cond Condition, timeout time.Duration) error {
	var err error
	switch cond.kind {
	case visible:
		err = f.loc.WaitFor(playwright.LocatorWaitForOptions{
			State:   playwright.WaitForSelectorStateVisible,
			Timeout: playwright.Float(ms(timeout)),
		})
	case hidden:
		err = f.loc.WaitFor(playwright.LocatorWaitForOptions{
			State:   playwright.WaitForSelectorStateHidden,
			Timeout: playwright.Float(ms(timeout)),
		})
	case enabled:
		err = playwright.NewPlaywrightAssertions().Locator(f.loc).ToBeEnabled(playwright.LocatorAssertionsToBeEnabledOptions{
			Timeout: playwright.Float(ms(timeout)),
		})
	case containsText:
		err = playwright.NewPlaywrightAssertions().Locator(f.loc).ToContainText(cond.text, playwright.LocatorAssertionsToContainTextOptions{
			Timeout: playwright.Float(ms(timeout)),
		})
	default:
		return fmt.Errorf("unsupported condition %s", cond)
	}
	return f.wrap("wait until "+cond.String()+" for", err)
}

func (f *locatorField) wrap(action string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to %s %s: %w", action, f.selector, translate(err))
}

// translate maps Playwright timeouts onto ErrTimeout and keeps the cause.
func translate(err error) error {
	if errors.Is(err, playwright.ErrTimeout) {
		return errors.Join(ErrTimeout, err)
	}
	return err
}

func ms(d time.Duration) float64 {
	return float64(d.Milliseconds())
}

var _ Driver = (*PageDriver)(nil)
