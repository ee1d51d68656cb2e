// Package pages holds the page objects of the Stocktake web app. Pages are
// built on a uidriver.Driver and compose the capabilities they need, such as
// the sidebar Menu, instead of sharing a base type.
package pages

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultTimeout bounds waits on rendered state.
	DefaultTimeout = 5 * time.Second
	// NavigationTimeout bounds waits that follow a menu navigation.
	NavigationTimeout = 10 * time.Second
)

func orDefault(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return DefaultTimeout
	}
	return timeout
}

// xpathLiteral quotes s as an XPath 1.0 string literal.
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = "'" + p + "'"
	}
	return "concat(" + strings.Join(quoted, `, "'", `) + ")"
}

func sidebarItem(label string) string {
	return fmt.Sprintf("//div[@class='sidebar-menu']//span[text()=%s]", xpathLiteral(label))
}

func purchaseSubmenuItem(label string) string {
	return fmt.Sprintf("//div[@id='purchaseSubmenu']//span[text()=%s]", xpathLiteral(label))
}
