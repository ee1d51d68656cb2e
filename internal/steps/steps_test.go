package steps

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/stocktake/internal/auth"
	"github.com/mmynk/stocktake/internal/config"
	"github.com/mmynk/stocktake/internal/fixtures"
	"github.com/mmynk/stocktake/internal/ledger"
	"github.com/mmynk/stocktake/internal/storage/sqlite"
	"github.com/mmynk/stocktake/internal/stubapi"
	"github.com/mmynk/stocktake/internal/uidriver/uidrivertest"
)

// TestFeatures drives a real browser against a running Stocktake app.
func TestFeatures(t *testing.T) {
	if os.Getenv("STOCKTAKE_E2E") != "1" {
		t.Skip("Skipping e2e features (STOCKTAKE_E2E != 1)")
	}

	cfg, err := config.Load("../../.env")
	require.NoError(t, err)

	s := NewSuite(cfg, slog.Default())
	suite := godog.TestSuite{
		Name:                 "stocktake",
		TestSuiteInitializer: s.InitializeTestSuite,
		ScenarioInitializer:  s.InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../../features"},
			Tags:     os.Getenv("STOCKTAKE_TAGS"),
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func testConfig() *config.Config {
	return &config.Config{
		BaseURL:  "http://stocktake.test",
		APIURL:   "http://stocktake.test",
		Email:    "test_user@gmail.com",
		Password: "Test600!",
		Timeout:  time.Second,
	}
}

func newTestState(t *testing.T) (*ScenarioState, *uidrivertest.Driver) {
	t.Helper()
	d := uidrivertest.New()
	s := NewScenarioState(testConfig(), d, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.rand = func(lo, hi int) int { return lo }
	return s, d
}

func TestArtifactName(t *testing.T) {
	assert.Equal(t, "Create_a_new_purchase_order", artifactName("Create a new purchase order"))
	assert.Equal(t, "Failed_login_-_email", artifactName("Failed login - email!"))
	assert.Equal(t, "scenario", artifactName("???"))
}

func TestHasTag(t *testing.T) {
	sc := &godog.Scenario{Tags: []*messages.PickleTag{{Name: "@wip"}, {Name: UseStoreStateTag}}}
	assert.True(t, hasTag(sc, UseStoreStateTag))
	assert.False(t, hasTag(&godog.Scenario{}, UseStoreStateTag))
}

func TestInvalidCredentialSteps(t *testing.T) {
	s, d := newTestState(t)
	d.Set("#email", "")
	d.Set("#password", "")
	d.Set("//button[@type='submit' and text()='Login']", "Login")

	require.NoError(t, s.userProvidesInvalidCredentials("email"))
	assert.Equal(t, []string{invalidEmail}, d.ArgsOf("fill", "#email"))
	assert.Equal(t, []string{"Test600!"}, d.ArgsOf("fill", "#password"))

	require.NoError(t, s.userProvidesInvalidCredentials("password"))
	assert.Equal(t, []string{invalidEmail, "test_user@gmail.com"}, d.ArgsOf("fill", "#email"))
	assert.Equal(t, []string{"Test600!", invalidPassword}, d.ArgsOf("fill", "#password"))

	assert.Error(t, s.userProvidesInvalidCredentials("username"))
}

func table(rows ...[]string) *godog.Table {
	t := &godog.Table{}
	for _, row := range rows {
		r := &messages.PickleTableRow{}
		for _, v := range row {
			r.Cells = append(r.Cells, &messages.PickleTableCell{Value: v})
		}
		t.Rows = append(t.Rows, r)
	}
	return t
}

func TestInspectSections(t *testing.T) {
	s, _ := newTestState(t)

	assert.NoError(t, s.userInspectsSections(table([]string{"section"}, []string{"Stocktake"}, []string{"Logout"})))
	assert.Error(t, s.userInspectsSections(table([]string{"section"}, []string{"Reports"})))
}

func TestOrderStepsNeedOpenOrder(t *testing.T) {
	s, _ := newTestState(t)

	assert.ErrorIs(t, s.addsProduct(1, 1, "1.00"), ledger.ErrPrecondition)
	assert.ErrorIs(t, s.deletesLineItem(1), ledger.ErrPrecondition)
	assert.ErrorIs(t, s.orderTotalIs("0.00"), ledger.ErrPrecondition)
	assert.ErrorIs(t, s.fillsHeader(false), ledger.ErrPrecondition)
	assert.ErrorIs(t, s.addsLineItems(table([]string{"1", "1", "1.00"})), ledger.ErrPrecondition)
}

func TestProductsAreCreatedThroughAPI(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store, err := sqlite.New(filepath.Join(t.TempDir(), "stub.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	stub := stubapi.New(stubapi.Options{
		Store:         store,
		Issuer:        auth.NewTokenIssuer("test-secret", time.Hour),
		Authenticator: auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost),
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, stub.Seed(t.Context(), "test_user@gmail.com", "Test600!"))
	srv := httptest.NewServer(stub.Handler())
	t.Cleanup(srv.Close)

	s, _ := newTestState(t)
	s.newClient = func() *fixtures.Client {
		return fixtures.NewClient(srv.URL, fixtures.WithHTTPClient(srv.Client()))
	}

	require.NoError(t, s.productsAreCreated(t.Context(), 2))
	require.Len(t, s.products, 2)
	assert.Equal(t, s.products[0].Supplier, s.products[1].Supplier)

	_, err = s.productAt(3)
	assert.ErrorIs(t, err, ledger.ErrPrecondition)
}

type closerFunc func(keepVideo bool) error

func (f closerFunc) Close(keepVideo bool) error { return f(keepVideo) }

func TestCloseSessionLogsError(t *testing.T) {
	var buf bytes.Buffer
	s := NewSuite(testConfig(), slog.New(slog.NewTextHandler(&buf, nil)))

	var kept bool
	s.closeSession(closerFunc(func(keepVideo bool) error {
		kept = keepVideo
		return errors.New("context already closed")
	}), true)

	assert.True(t, kept)
	assert.Contains(t, buf.String(), "Failed to close session")
	assert.Contains(t, buf.String(), "context already closed")
}
