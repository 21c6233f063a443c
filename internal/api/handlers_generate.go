package api

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/solenne/somna/internal/client"
)

const (
	generateMinDays     = 1
	generateMaxDays     = 365
	generateDefaultDays = 30
)

func (handler *Handler) ShowGenerateForm(c *fiber.Ctx) error {
	return handler.render(c, "generate", fiber.Map{
		"Title":       "Generate Data",
		"DefaultDays": generateDefaultDays,
	})
}

func (handler *Handler) GenerateData(c *fiber.Ctx) error {
	userID := strings.TrimSpace(c.FormValue("user_id"))
	if userID == "" {
		return redirectWithError(c, "/generate-data", "User ID is required")
	}

	days, validationError := parseGenerateDays(c.FormValue("days"))
	if validationError != "" {
		return redirectWithError(c, "/generate-data", validationError)
	}

	params := client.GenerateParams{
		UserID:             userID,
		Days:               days,
		IncludeTimeSeries:  c.FormValue("include_time_series") == "on",
		SleepQualityTrend:  strings.TrimSpace(c.FormValue("sleep_quality_trend")),
		SleepDurationTrend: strings.TrimSpace(c.FormValue("sleep_duration_trend")),
	}

	result, err := handler.dashboard.Generate(c.UserContext(), params)
	if err != nil {
		handler.logger.Error("failed to generate sleep data",
			zap.String("user_id", userID),
			zap.Int("days", days),
			zap.Error(err))
		return redirectWithError(c, "/generate-data", "Unable to generate sleep data right now. Please try again later.")
	}

	message := fmt.Sprintf("Successfully generated %d sleep records", result.Count)
	dashboardPath := fmt.Sprintf("/dashboard/view?user_id=%s&days=%d", userID, handler.defaultDays)
	return redirectWithSuccess(c, dashboardPath, message)
}

// parseGenerateDays validates the form's days field before any remote call.
// An empty field defaults; anything unparseable or outside [1, 365] is a
// validation error, unlike the dashboard's silent query fallback.
func parseGenerateDays(raw string) (int, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return generateDefaultDays, ""
	}

	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0, "Days must be a whole number"
	}
	if days < generateMinDays || days > generateMaxDays {
		return 0, fmt.Sprintf("Days must be between %d and %d", generateMinDays, generateMaxDays)
	}
	return days, ""
}
