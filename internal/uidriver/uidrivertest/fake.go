// Package uidrivertest provides an in-memory uidriver.Driver for page object
// tests. Fields are plain structs the test arranges; every action is
// recorded so tests can assert on what a page did.
package uidrivertest

import (
	"fmt"
	"strings"
	"time"

	"github.com/mmynk/stocktake/internal/uidriver"
)

// Action is one recorded call on a field or the driver.
type Action struct {
	Kind     string
	Selector string
	Arg      string
}

// Driver is a scriptable uidriver.Driver.
type Driver struct {
	BaseURL string
	Path    string
	Actions []Action

	fields  map[string]*Field
	options map[string][]string
}

// New returns an empty driver.
func New() *Driver {
	return &Driver{
		BaseURL: "http://stocktake.test",
		fields:  make(map[string]*Field),
		options: make(map[string][]string),
	}
}

// Get returns the field for selector, creating an absent one if needed.
func (d *Driver) Get(selector string) *Field {
	f, ok := d.fields[selector]
	if !ok {
		f = &Field{driver: d, selector: selector}
		d.fields[selector] = f
	}
	return f
}

// Set makes selector present with the given rendered text.
func (d *Driver) Set(selector, content string) *Field {
	f := d.Get(selector)
	f.Content = content
	if f.Matches == 0 {
		f.Matches = 1
	}
	return f
}

// Remove makes selector absent again.
func (d *Driver) Remove(selector string) {
	if f, ok := d.fields[selector]; ok {
		f.Matches = 0
	}
}

// SetOptions sets the option labels Options returns for selector.
func (d *Driver) SetOptions(selector string, options ...string) {
	d.options[selector] = options
}

// Did reports whether an action of kind was recorded on selector.
func (d *Driver) Did(kind, selector string) bool {
	for _, a := range d.Actions {
		if a.Kind == kind && a.Selector == selector {
			return true
		}
	}
	return false
}

// ArgsOf returns the arguments of every kind action on selector, in order.
func (d *Driver) ArgsOf(kind, selector string) []string {
	var args []string
	for _, a := range d.Actions {
		if a.Kind == kind && a.Selector == selector {
			args = append(args, a.Arg)
		}
	}
	return args
}

func (d *Driver) record(kind, selector, arg string) {
	d.Actions = append(d.Actions, Action{Kind: kind, Selector: selector, Arg: arg})
}

func (d *Driver) Field(selector string) uidriver.Field { return d.Get(selector) }

func (d *Driver) Goto(path string) error {
	d.record("goto", "", path)
	d.Path = path
	return nil
}

func (d *Driver) Options(selector string) ([]string, error) {
	d.record("options", selector, "")
	return append([]string(nil), d.options[selector]...), nil
}

func (d *Driver) URL() string { return d.BaseURL + d.Path }

// Field is a scripted element.
type Field struct {
	driver   *Driver
	selector string

	Content  string
	Input    string
	Checked  bool
	Matches  int
	Hidden   bool
	Disabled bool
	// Err, when set, is returned by every action.
	Err error
	// OnClick runs after a click is recorded.
	OnClick func() error
	// OnFill runs after a fill is recorded.
	OnFill func(value string) error
}

func (f *Field) present() error {
	if f.Err != nil {
		return f.Err
	}
	if f.Matches == 0 {
		return fmt.Errorf("no element matches %s: %w", f.selector, uidriver.ErrTimeout)
	}
	return nil
}

func (f *Field) Fill(value string) error {
	if err := f.present(); err != nil {
		return err
	}
	f.driver.record("fill", f.selector, value)
	f.Input = value
	if f.OnFill != nil {
		return f.OnFill(value)
	}
	return nil
}

func (f *Field) Select(option string) error {
	if err := f.present(); err != nil {
		return err
	}
	f.driver.record("select", f.selector, option)
	f.Input = option
	return nil
}

func (f *Field) Click() error { return f.click("") }

func (f *Field) ForceClick() error { return f.click("force") }

func (f *Field) click(arg string) error {
	if err := f.present(); err != nil {
		return err
	}
	f.driver.record("click", f.selector, arg)
	if f.OnClick != nil {
		return f.OnClick()
	}
	return nil
}

func (f *Field) Hover() error {
	if err := f.present(); err != nil {
		return err
	}
	f.driver.record("hover", f.selector, "")
	return nil
}

func (f *Field) Text() (string, error) {
	if err := f.present(); err != nil {
		return "", err
	}
	return f.Content, nil
}

func (f *Field) Value() (string, error) {
	if err := f.present(); err != nil {
		return "", err
	}
	return f.Input, nil
}

func (f *Field) IsChecked() (bool, error) {
	if err := f.present(); err != nil {
		return false, err
	}
	return f.Checked, nil
}

func (f *Field) SetChecked(checked bool) error {
	if err := f.present(); err != nil {
		return err
	}
	f.driver.record("check", f.selector, fmt.Sprint(checked))
	f.Checked = checked
	return nil
}

func (f *Field) Count() (int, error) {
	if f.Err != nil {
		return 0, f.Err
	}
	return f.Matches, nil
}

// WaitUntil evaluates cond once; the fake never changes on its own.
func (f *Field) WaitUntil(cond uidriver.Condition, _ time.Duration) error {
	if f.Err != nil {
		return f.Err
	}
	f.driver.record("wait", f.selector, cond.String())

	var ok bool
	switch cond {
	case uidriver.Visible:
		ok = f.Matches > 0 && !f.Hidden
	case uidriver.Hidden:
		ok = f.Matches == 0 || f.Hidden
	case uidriver.Enabled:
		ok = f.Matches > 0 && !f.Disabled
	default:
		ok = f.Matches > 0 && strings.Contains(f.Content, cond.Text())
	}
	if !ok {
		return fmt.Errorf("%s not %s: %w", f.selector, cond, uidriver.ErrTimeout)
	}
	return nil
}

var _ uidriver.Driver = (*Driver)(nil)
