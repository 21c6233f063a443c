package api

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/solenne/somna/internal/services"
)

func (handler *Handler) ShowAnalytics(c *fiber.Ctx) error {
	userID := c.Query("user_id")
	if userID == "" {
		return redirectWithError(c, "/", "Please select a user to view their analytics")
	}

	days := services.ResolveDays(c.Query("days"), handler.defaultDays)

	view, err := handler.dashboard.BuildAnalyticsView(c.UserContext(), userID, days, time.Now())
	if err != nil {
		handler.logger.Error("failed to build analytics view",
			zap.String("user_id", userID),
			zap.Error(err))
		return redirectWithError(c, "/", "Unable to load analytics right now. Please try again later.")
	}

	return handler.render(c, "analytics", fiber.Map{
		"Title":     fmt.Sprintf("Analytics · %s", userID),
		"UserID":    userID,
		"Days":      days,
		"StartDate": view.StartDate,
		"EndDate":   view.EndDate,
		"Analytics": view.Analytics,
		"ChartData": services.BuildChartData(view.Records),
	})
}
