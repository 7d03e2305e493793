package loader_test

import (
	"errors"
	"net/http/httptest"
	"testing"

	"esg-matching/core/loader"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFeature struct {
	name    string
	enabled bool
	err     error
	loaded  bool
}

func (f *stubFeature) Name() string    { return f.name }
func (f *stubFeature) IsEnabled() bool { return f.enabled }
func (f *stubFeature) Load(app fiber.Router) error {
	f.loaded = true
	if f.err != nil {
		return f.err
	}
	app.Get("/"+f.name, func(c *fiber.Ctx) error { return c.SendString(f.name) })
	return nil
}

func TestManager_LoadAll(t *testing.T) {
	matching := &stubFeature{name: "matching", enabled: true}
	disabled := &stubFeature{name: "disabled"}

	mgr := loader.NewManager()
	mgr.Register(matching)
	mgr.Register(disabled)

	app := fiber.New()
	require.NoError(t, mgr.LoadAll(app))

	assert.True(t, matching.loaded)
	assert.False(t, disabled.loaded)
	assert.Equal(t, []string{"matching"}, mgr.Enabled())

	resp, err := app.Test(httptest.NewRequest("GET", "/matching", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/disabled", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestManager_LoadAllFailure(t *testing.T) {
	boom := errors.New("boom")
	mgr := loader.NewManager()
	mgr.Register(&stubFeature{name: "broken", enabled: true, err: boom})
	after := &stubFeature{name: "after", enabled: true}
	mgr.Register(after)

	err := mgr.LoadAll(fiber.New())
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "broken")
	assert.False(t, after.loaded)
}

func TestManager_DuplicateName(t *testing.T) {
	mgr := loader.NewManager()
	mgr.Register(&stubFeature{name: "matching", enabled: true})
	mgr.Register(&stubFeature{name: "matching", enabled: true})

	assert.ErrorContains(t, mgr.LoadAll(fiber.New()), "registered twice")
}
