package api

import (
	"fmt"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/solenne/somna/internal/models"
	"github.com/solenne/somna/internal/services"
)

func (handler *Handler) ShowDashboardView(c *fiber.Ctx) error {
	userID := c.Query("user_id")
	if userID == "" {
		return redirectWithError(c, "/", "Please select a user to view their dashboard")
	}

	days := services.ResolveDays(c.Query("days"), handler.defaultDays)

	view, err := handler.dashboard.BuildDashboardView(c.UserContext(), userID, days, time.Now())
	if err != nil {
		handler.logger.Error("failed to build dashboard view",
			zap.String("user_id", userID),
			zap.Error(err))
		return redirectWithError(c, "/", "Unable to load sleep data right now. Please try again later.")
	}

	return handler.render(c, "dashboard_view", fiber.Map{
		"Title":         fmt.Sprintf("Dashboard · %s", userID),
		"UserID":        userID,
		"Days":          days,
		"StartDate":     view.StartDate,
		"EndDate":       view.EndDate,
		"Records":       recentRecords(view.Records, handler.itemsPerPage),
		"RecordCount":   len(view.Records),
		"Analytics":     view.Analytics,
		"ChartData":     services.BuildChartData(view.Records),
		"ExportQuery":   exportQuery(userID, days),
		"ItemsPerPage":  handler.itemsPerPage,
	})
}

// recentRecords returns the newest records up to the page size, for the
// records table under the charts. Records arrive newest first.
func recentRecords(records []models.SleepRecord, pageSize int) []models.SleepRecord {
	if pageSize <= 0 || len(records) <= pageSize {
		return records
	}
	return records[:pageSize]
}

func exportQuery(userID string, days int) string {
	values := url.Values{}
	values.Set("user_id", userID)
	values.Set("days", fmt.Sprintf("%d", days))
	return values.Encode()
}
