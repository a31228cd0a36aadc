package routes

import (
	"github.com/gofiber/fiber/v3"

	"github.com/origin-hub/origin-hub/internal/server"
	"github.com/origin-hub/origin-hub/internal/version"
)

// RegisterDiagnosticsRoutes 暴露 /-/ 诊断接口，供 SRE 查询源站绑定关系与存活状态。
func RegisterDiagnosticsRoutes(app *fiber.App, registry *server.OriginRegistry) {
	if app == nil || registry == nil {
		return
	}

	app.Get("/-/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"version": version.Full(),
		})
	})

	app.Get("/-/origins", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"origins": encodeOrigins(registry.List()),
		})
	})
}

type originPayload struct {
	Name       string `json:"name"`
	Domain     string `json:"domain"`
	Root       string `json:"root"`
	MimeDBMode string `json:"mime_db_mode"`
	MimeCount  int    `json:"mime_count"`
}

func encodeOrigins(routes []server.OriginRoute) []originPayload {
	if len(routes) == 0 {
		return nil
	}
	payload := make([]originPayload, len(routes))
	for i, route := range routes {
		payload[i] = originPayload{
			Name:       route.Config.Name,
			Domain:     route.Config.Domain,
			Root:       route.Backend.Root(),
			MimeDBMode: route.Config.MimeDBMode(),
			MimeCount:  route.Backend.MimeCount(),
		}
	}
	return payload
}
