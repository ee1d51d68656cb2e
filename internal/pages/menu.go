package pages

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mmynk/stocktake/internal/uidriver"
)

const (
	sidebarToggle      = ".sidebar-toggle"
	purchaseOrdersMenu = "#purchaseOrdersBtn"
	successMessage     = ".success-message"
)

var (
	newProductMenu      = sidebarItem("New Product")
	newPurchaseMenu     = purchaseSubmenuItem("New Purchase Order")
	draftPurchasesMenu  = purchaseSubmenuItem("Draft Purchase Orders")
	purchaseHistoryMenu = purchaseSubmenuItem("Purchase Orders History")
)

// Section is a named sidebar entry.
type Section struct {
	Name     string
	Selector string
	// InSubmenu entries appear only after the purchase orders menu is opened.
	InSubmenu bool
}

// Sections lists the dashboard sidebar entries in display order.
var Sections = []Section{
	{Name: "Toggle", Selector: sidebarToggle},
	{Name: "Stocktake", Selector: sidebarItem("Stocktake")},
	{Name: "New Product", Selector: newProductMenu},
	{Name: "Transfers", Selector: sidebarItem("Transfers")},
	{Name: "Requests", Selector: sidebarItem("Requests")},
	{Name: "Purchase Orders", Selector: purchaseOrdersMenu},
	{Name: "New Purchase Order", Selector: newPurchaseMenu, InSubmenu: true},
	{Name: "Draft Purchase Orders", Selector: draftPurchasesMenu, InSubmenu: true},
	{Name: "Purchase Orders History", Selector: purchaseHistoryMenu, InSubmenu: true},
	{Name: "Stores", Selector: sidebarItem("Stores")},
	{Name: "Logout", Selector: sidebarItem("Logout")},
}

// Menu is the dashboard sidebar, shared by every page that navigates.
type Menu struct {
	d       uidriver.Driver
	timeout time.Duration
}

func NewMenu(d uidriver.Driver, timeout time.Duration) *Menu {
	return &Menu{d: d, timeout: orDefault(timeout)}
}

// VerifySections checks every sidebar entry is visible and enabled,
// expanding the purchase orders submenu before its entries.
func (m *Menu) VerifySections() error {
	expanded := false
	for _, s := range Sections {
		if s.InSubmenu && !expanded {
			if err := m.d.Field(purchaseOrdersMenu).Click(); err != nil {
				return err
			}
			expanded = true
		}
		f := m.d.Field(s.Selector)
		if err := f.WaitUntil(uidriver.Visible, m.timeout); err != nil {
			return fmt.Errorf("section %s should be visible: %w", s.Name, err)
		}
		if err := f.WaitUntil(uidriver.Enabled, m.timeout); err != nil {
			return fmt.Errorf("section %s should be enabled: %w", s.Name, err)
		}
	}
	return nil
}

func (m *Menu) OpenNewProduct() error {
	slog.Info("Navigate to New Product")
	return m.d.Field(newProductMenu).Click()
}

// OpenNewPurchaseOrder expands the purchase orders menu and opens the new
// purchase order modal. The menu button is flaky to click normally.
func (m *Menu) OpenNewPurchaseOrder() error {
	slog.Info("Open new purchase order modal")
	if err := m.expandPurchaseOrders(); err != nil {
		return err
	}
	return m.d.Field(newPurchaseMenu).ForceClick()
}

func (m *Menu) OpenDraftPurchaseOrders() error {
	slog.Info("Navigate to Draft Purchase Orders")
	if err := m.expandPurchaseOrders(); err != nil {
		return err
	}
	return m.d.Field(draftPurchasesMenu).ForceClick()
}

func (m *Menu) OpenPurchaseOrderHistory() error {
	slog.Info("Navigate to Purchase Orders History")
	if err := m.expandPurchaseOrders(); err != nil {
		return err
	}
	return m.d.Field(purchaseHistoryMenu).ForceClick()
}

func (m *Menu) expandPurchaseOrders() error {
	btn := m.d.Field(purchaseOrdersMenu)
	if err := btn.WaitUntil(uidriver.Visible, m.timeout); err != nil {
		return fmt.Errorf("purchase orders menu should be visible: %w", err)
	}
	if err := btn.WaitUntil(uidriver.Enabled, m.timeout); err != nil {
		return fmt.Errorf("purchase orders menu should be enabled: %w", err)
	}
	if err := btn.Hover(); err != nil {
		return err
	}
	return btn.ForceClick()
}

// SuccessMessage waits for the flash message and returns its text.
func (m *Menu) SuccessMessage() (string, error) {
	f := m.d.Field(successMessage)
	if err := f.WaitUntil(uidriver.Visible, m.timeout); err != nil {
		return "", fmt.Errorf("success message should be displayed: %w", err)
	}
	text, err := f.Text()
	return strings.TrimSpace(text), err
}
