// middlewares/cors.go

package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

var defaultOrigins = []string{
	"http://localhost:5173",
	"http://127.0.0.1:5173",
}

// CorsMiddleware membuat middleware CORS; origins dipisah koma (CORS_ORIGINS).
func CorsMiddleware(origins string) fiber.Handler {
	list := defaultOrigins
	if s := strings.TrimSpace(origins); s != "" {
		list = nil
		for _, o := range strings.Split(s, ",") {
			if o = strings.TrimSpace(o); o != "" {
				list = append(list, o)
			}
		}
	}
	allowed := strings.Join(list, ", ")
	return cors.New(cors.Config{
		AllowOrigins: allowed,
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		// fiber menolak wildcard + credentials
		AllowCredentials: !strings.Contains(allowed, "*"),
	})
}
