package api

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/solenne/somna/internal/services"
)

func (handler *Handler) ShowRecord(c *fiber.Ctx) error {
	recordID := c.Params("record_id")
	userID := c.Query("user_id")
	if userID == "" {
		return redirectWithError(c, "/", "Please select a user to view their dashboard")
	}

	dashboardPath := fmt.Sprintf("/dashboard/view?user_id=%s", userID)

	record, err := handler.dashboard.LookupRecord(c.UserContext(), userID, recordID)
	if err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			return redirectWithError(c, dashboardPath, "Sleep record not found")
		}
		handler.logger.Error("failed to look up sleep record",
			zap.String("user_id", userID),
			zap.String("record_id", recordID),
			zap.Error(err))
		return redirectWithError(c, dashboardPath, "Unable to load the sleep record right now. Please try again later.")
	}

	return handler.render(c, "record", fiber.Map{
		"Title":         fmt.Sprintf("Sleep Record · %s", record.Date),
		"UserID":        userID,
		"Record":        record,
		"DashboardPath": dashboardPath,
	})
}
