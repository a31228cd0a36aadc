package gateway

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
	"github.com/origin-hub/origin-hub/internal/server"
)

func newGatewayApp(t *testing.T) *fiber.App {
	t.Helper()

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "hello.txt"), []byte("0123456789"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	dbPath := filepath.Join(t.TempDir(), "mime.types")
	if err := os.WriteFile(dbPath, []byte("text/plain txt\n"), 0o644); err != nil {
		t.Fatalf("write mime db: %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	registry, err := server.NewOriginRegistry(&config.Config{
		Global: config.GlobalConfig{ListenPort: 5000},
		Origins: []config.OriginConfig{
			{Name: "assets", Domain: "assets.local", Root: root, MimeDB: &dbPath},
		},
	}, logger)
	if err != nil {
		t.Fatalf("registry error: %v", err)
	}

	app, err := server.NewApp(server.AppOptions{
		Logger:     logger,
		Registry:   registry,
		Handler:    NewHandler(logger),
		ListenPort: 5000,
	})
	if err != nil {
		t.Fatalf("app error: %v", err)
	}
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path string, headers map[string]string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, "http://assets.local"+path, nil)
	req.Host = "assets.local"
	req.Header.Set("Host", "assets.local")
	for name, value := range headers {
		req.Header.Set(name, value)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}
	return resp
}

func TestGatewayServesFile(t *testing.T) {
	app := newGatewayApp(t)

	resp := doRequest(t, app, "GET", "/hello.txt", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/plain" {
		t.Fatalf("expected text/plain, got %q", ct)
	}
	if resp.Header.Get("Etag") == "" {
		t.Fatalf("expected etag header")
	}
	if resp.Header.Get("Last-Modified") == "" {
		t.Fatalf("expected last-modified header")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(body) != "0123456789" {
		t.Fatalf("body mismatch: %q", string(body))
	}
	if cl := resp.Header.Get("Content-Length"); cl != "10" {
		t.Fatalf("expected content-length 10, got %q", cl)
	}
}

func TestGatewayConditionalRequest(t *testing.T) {
	app := newGatewayApp(t)

	first := doRequest(t, app, "GET", "/hello.txt", nil)
	etag := first.Header.Get("Etag")
	if etag == "" {
		t.Fatalf("expected etag on first response")
	}

	second := doRequest(t, app, "GET", "/hello.txt", map[string]string{"If-None-Match": etag})
	if second.StatusCode != fiber.StatusNotModified {
		t.Fatalf("expected 304, got %d", second.StatusCode)
	}
	if second.Header.Get("Etag") != etag {
		t.Fatalf("304 must repeat the validator")
	}
	body, _ := io.ReadAll(second.Body)
	if len(body) != 0 {
		t.Fatalf("304 must not carry a body, got %d bytes", len(body))
	}
}

func TestGatewayHeadRequest(t *testing.T) {
	app := newGatewayApp(t)

	resp := doRequest(t, app, "HEAD", "/hello.txt", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if len(body) != 0 {
		t.Fatalf("HEAD must not carry a body, got %d bytes", len(body))
	}
}

func TestGatewayRejectsOtherMethods(t *testing.T) {
	app := newGatewayApp(t)

	resp := doRequest(t, app, "PUT", "/hello.txt", nil)
	if resp.StatusCode != fiber.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}

func TestGatewayMissingFileIsBadGateway(t *testing.T) {
	app := newGatewayApp(t)

	// 取回失败不映射为 404：宿主把它当作一次失败的回源。
	resp := doRequest(t, app, "GET", "/absent.txt", nil)
	if resp.StatusCode != fiber.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
}

func TestGatewayTraversalConfined(t *testing.T) {
	app := newGatewayApp(t)

	resp := doRequest(t, app, "GET", "/../../hello.txt", nil)
	// 词法归一化后仍落在根目录内，等价于 /hello.txt。
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected traversal to collapse inside root, got %d", resp.StatusCode)
	}
}
