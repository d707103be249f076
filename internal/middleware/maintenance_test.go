package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticFlags map[string]bool

func (f staticFlags) Bool(key string, fallback bool) bool {
	if v, ok := f[key]; ok {
		return v
	}
	return fallback
}

func TestMaintenance(t *testing.T) {
	flags := staticFlags{}
	app := fiber.New()
	app.Use(Maintenance(flags))
	app.All("/*", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	status := func(method, path string) int {
		resp, err := app.Test(httptest.NewRequest(method, path, nil))
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusOK, status("POST", "/api/reviews"))

	flags["maintenance_mode"] = true
	tests := []struct {
		method, path string
		want         int
	}{
		{"GET", "/api/companies", fiber.StatusOK},
		{"POST", "/api/reviews", fiber.StatusServiceUnavailable},
		{"PUT", "/api/companies/1", fiber.StatusServiceUnavailable},
		{"DELETE", "/api/reviews/1", fiber.StatusServiceUnavailable},
		{"POST", "/api/auth/login", fiber.StatusOK},
		{"PUT", "/api/admin/flags/maintenance_mode", fiber.StatusOK},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, status(tc.method, tc.path), tc.method+" "+tc.path)
	}
}
