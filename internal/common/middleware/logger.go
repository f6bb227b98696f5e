package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/hashicorp/go-hclog"
)

// ============================================================
// Logger Middleware
// ============================================================

// Logger пишет журнал запросов в log на уровне info. Пробы /health не пишутся.
func Logger(log hclog.Logger) fiber.Handler {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return logger.New(logger.Config{
		Next: func(c fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/health/")
		},
		Stream: log.Named("access").StandardWriter(&hclog.StandardLoggerOptions{
			ForceLevel: hclog.Info,
		}),
		Format:        "${status} ${latency} ${method} ${path} ${bytesSent}b ${error}\n",
		TimeFormat:    "15:04:05",
		TimeZone:      "Local",
		DisableColors: true,
	})
}
