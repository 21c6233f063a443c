package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/solenne/somna/internal/services"
)

func (handler *Handler) GetChartData(c *fiber.Ctx) error {
	userID := c.Query("user_id")
	if userID == "" {
		return apiError(c, fiber.StatusBadRequest, "user_id is required")
	}

	days := services.ResolveDays(c.Query("days"), handler.defaultDays)

	chart, err := handler.dashboard.FetchChartData(c.UserContext(), userID, days, time.Now())
	if err != nil {
		handler.logger.Error("failed to fetch chart data",
			zap.String("user_id", userID),
			zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch sleep data")
	}

	return c.JSON(chart)
}

func (handler *Handler) GetUsers(c *fiber.Ctx) error {
	users, err := handler.dashboard.ListUsers(c.UserContext(), usersDropdownLimit)
	if err != nil {
		handler.logger.Error("failed to list users", zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch users")
	}

	return c.JSON(fiber.Map{
		"users": users,
		"count": len(users),
	})
}
