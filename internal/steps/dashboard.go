package steps

import (
	"fmt"

	"github.com/cucumber/godog"

	"github.com/mmynk/stocktake/internal/pages"
)

func registerDashboardSteps(sc *godog.ScenarioContext, state func() *ScenarioState) {
	sc.Step(`^user is on dashboard page$`, func() error {
		return state().userIsOnDashboard()
	})
	sc.Step(`^the user inspects the following sections:$`, func(table *godog.Table) error {
		return state().userInspectsSections(table)
	})
	sc.Step(`^they are all visible and enabled$`, func() error {
		return state().sectionsAreVisibleAndEnabled()
	})
}

func (s *ScenarioState) userIsOnDashboard() error {
	s.logger.Info("User is on dashboard page", "url", s.driver.URL())
	return s.loginPage().ExpectSignedIn(s.cfg.Email)
}

// userInspectsSections checks the table lists only known sidebar sections.
func (s *ScenarioState) userInspectsSections(table *godog.Table) error {
	known := make(map[string]bool, len(pages.Sections))
	for _, section := range pages.Sections {
		known[section.Name] = true
	}
	for _, row := range table.Rows {
		if len(row.Cells) == 0 {
			continue
		}
		label := row.Cells[0].Value
		if label == "section" {
			continue
		}
		if !known[label] {
			return fmt.Errorf("unknown dashboard section %q", label)
		}
	}
	return nil
}

func (s *ScenarioState) sectionsAreVisibleAndEnabled() error {
	return s.menu().VerifySections()
}
