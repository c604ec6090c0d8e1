package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	controller "mailscout/controllers"
)

// SetupRoutes registers the API surface with request logging.
func SetupRoutes(app *fiber.App, vc *controller.VerifyController, fc *controller.FindController) {
	api := app.Group("/api", logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	api.Post("/verify", vc.VerifyEmail)
	api.Post("/bulk-verify", vc.BulkVerify)
	api.Post("/find", fc.FindEmail)
	api.Post("/bulk-find", fc.BulkFind)
}
