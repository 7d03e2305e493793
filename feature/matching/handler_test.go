package matching

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	svc, _, _ := setupService(t, nil)
	app := fiber.New()
	NewHandler(svc).RegisterRoutes(app)
	return app
}

func post(t *testing.T, app *fiber.App, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("POST", "/matching/runs", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return resp.StatusCode, out
}

func TestHandler_Run(t *testing.T) {
	app := setupApp(t)

	status, out := post(t, app, `{"policy":"esg"}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "esg", out["policy"])
	assert.EqualValues(t, 4, out["matched"])
	assert.Len(t, out["targets"], 2)
}

func TestHandler_RunConfigError(t *testing.T) {
	app := setupApp(t)

	status, out := post(t, app, `{"policy":"lei_only","types":["indirect"]}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, out["error"], "rule type not in policy")

	status, _ = post(t, app, `{"policy":"nope"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestHandler_RunInvalidBody(t *testing.T) {
	app := setupApp(t)

	status, out := post(t, app, `{"policy":`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "invalid request body", out["error"])
}

func TestHandler_RunStorageError(t *testing.T) {
	svc, _, db := setupService(t, nil)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	app := fiber.New()
	NewHandler(svc).RegisterRoutes(app)

	status, out := post(t, app, `{}`)
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Contains(t, out["error"], "storage error")
}

func TestHandler_Policies(t *testing.T) {
	app := setupApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/matching/policies", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var infos []PolicyInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&infos))
	require.Len(t, infos, 2)
	assert.Equal(t, "esg", infos[0].Name)
	assert.Equal(t, []string{"full"}, infos[1].Types)
}
