package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	registerPageRoutes(app, handler)
	registerAPIRoutes(app, handler)
}

func registerPageRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/favicon.ico", sendNoContent)

	app.Get("/", handler.ShowHomePage)
	app.Get("/about", handler.ShowAboutPage)
	app.Get("/generate-data", handler.ShowGenerateForm)
	app.Post("/generate-data", handler.GenerateData)

	app.Get("/dashboard", handler.ShowDashboardIndex)
	app.Get("/dashboard/view", handler.ShowDashboardView)
	app.Get("/dashboard/record/:record_id", handler.ShowRecord)
	app.Get("/dashboard/analytics", handler.ShowAnalytics)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	dashboardAPI := app.Group("/dashboard/api")
	dashboardAPI.Get("/sleep-data", handler.GetChartData)
	dashboardAPI.Get("/users", handler.GetUsers)

	export := app.Group("/export")
	export.Get("/csv", handler.ExportCSV)
	export.Get("/json", handler.ExportJSON)
}

func sendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
