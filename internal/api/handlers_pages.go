package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/solenne/somna/internal/client"
)

func (handler *Handler) ShowHomePage(c *fiber.Ctx) error {
	users := handler.knownUsers(c)
	return handler.render(c, "home", fiber.Map{
		"Title": "Somna",
		"Users": users,
	})
}

func (handler *Handler) ShowAboutPage(c *fiber.Ctx) error {
	return handler.render(c, "about", fiber.Map{
		"Title": "About",
	})
}

func (handler *Handler) ShowDashboardIndex(c *fiber.Ctx) error {
	users := handler.knownUsers(c)
	return handler.render(c, "dashboard", fiber.Map{
		"Title":       "Dashboard",
		"Users":       users,
		"DefaultDays": handler.defaultDays,
	})
}

// knownUsers fetches the selection dropdown. A remote failure degrades to
// an empty list so the page still renders.
func (handler *Handler) knownUsers(c *fiber.Ctx) []client.UserSummary {
	users, err := handler.dashboard.ListUsers(c.UserContext(), usersDropdownLimit)
	if err != nil {
		handler.logger.Warn("failed to list users", zap.Error(err))
		return []client.UserSummary{}
	}
	return users
}
