package integration

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/origin-hub/origin-hub/internal/config"
	"github.com/origin-hub/origin-hub/internal/gateway"
	"github.com/origin-hub/origin-hub/internal/server"
	"github.com/origin-hub/origin-hub/internal/server/routes"
)

// originFixture describes one on-disk origin used by the integration app.
type originFixture struct {
	name   string
	domain string
	files  map[string]string
}

// newIntegrationApp builds the full serving stack (registry + gateway + routes)
// on top of temp directories populated from the fixtures.
func newIntegrationApp(t *testing.T, fixtures ...originFixture) *fiber.App {
	t.Helper()

	disabled := ""
	origins := make([]config.OriginConfig, 0, len(fixtures))
	for _, fx := range fixtures {
		root := t.TempDir()
		for name, content := range fx.files {
			if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0o644); err != nil {
				t.Fatalf("failed to write fixture file %s: %v", name, err)
			}
		}
		origins = append(origins, config.OriginConfig{
			Name:   fx.name,
			Domain: fx.domain,
			Root:   root,
			MimeDB: &disabled,
		})
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	registry, err := server.NewOriginRegistry(&config.Config{
		Global:  config.GlobalConfig{ListenPort: 6000},
		Origins: origins,
	}, logger)
	if err != nil {
		t.Fatalf("failed to create registry: %v", err)
	}

	app, err := server.NewApp(server.AppOptions{
		Logger:     logger,
		Registry:   registry,
		Handler:    gateway.NewHandler(logger),
		ListenPort: 6000,
	})
	if err != nil {
		t.Fatalf("failed to create app: %v", err)
	}
	routes.RegisterDiagnosticsRoutes(app, registry)
	return app
}

func getFrom(t *testing.T, app *fiber.App, host, path string, headers map[string]string) *http.Response {
	t.Helper()

	req := httptest.NewRequest("GET", "http://"+host+path, nil)
	req.Host = host
	req.Header.Set("Host", host)
	for name, value := range headers {
		req.Header.Set(name, value)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request to %s%s failed: %v", host, path, err)
	}
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	return string(body)
}
