package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"budgettracker/internal/logger"
	"budgettracker/internal/server"
	"budgettracker/internal/testutil"
	"budgettracker/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	router := server.New(db, nil, server.Options{
		JWTSecret:         "integration-secret",
		TokenTTL:          time.Hour,
		AuthRatePerMinute: 1000,
	})
	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// mustStatus fails the test unless rec carries the wanted status, and
// returns the decoded body.
func mustStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) map[string]interface{} {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerAndLogin registers a user and returns a bearer token for it.
func (app *testApp) registerAndLogin(t *testing.T, username string) string {
	t.Helper()
	body := fmt.Sprintf(`{"username":%q,"email":"%s@example.com","password":"secret123"}`, username, username)
	mustStatus(t, app.request("POST", "/api/auth/register", body, ""), http.StatusCreated)

	login := fmt.Sprintf(`{"username":%q,"password":"secret123"}`, username)
	result := mustStatus(t, app.request("POST", "/api/auth/login", login, ""), http.StatusOK)
	return result["token"].(string)
}

// categoryID returns the id of the named category owned by the token's user.
func (app *testApp) categoryID(t *testing.T, token, name string) uint {
	t.Helper()
	result := mustStatus(t, app.request("GET", "/api/categories", "", token), http.StatusOK)
	for _, raw := range result["categories"].([]interface{}) {
		cat := raw.(map[string]interface{})
		if cat["name"] == name {
			return uint(cat["category_id"].(float64))
		}
	}
	t.Fatalf("category %q not found", name)
	return 0
}

// assertAmount compares a JSON number against a decimal literal.
func assertAmount(t *testing.T, label string, got interface{}, want string) {
	t.Helper()
	n, ok := got.(float64)
	if !ok {
		t.Fatalf("%s: expected a number, got %T (%v)", label, got, got)
	}
	if !decimal.NewFromFloat(n).Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s: expected %s, got %v", label, want, n)
	}
}
