package api

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/solenne/somna/internal/models"
	"github.com/solenne/somna/internal/services"
)

var exportCSVHeaders = []string{
	"date",
	"sleep_start",
	"sleep_end",
	"duration_hours",
	"sleep_quality",
	"deep_sleep_minutes",
	"rem_sleep_minutes",
	"light_sleep_minutes",
	"awake_minutes",
	"heart_rate_avg",
}

func (handler *Handler) ExportCSV(c *fiber.Ctx) error {
	userID, days, status, message := exportUserAndWindow(c, handler.defaultDays)
	if status != 0 {
		return apiError(c, status, message)
	}

	records, err := handler.dashboard.FetchRecords(c.UserContext(), userID, days, time.Now())
	if err != nil {
		handler.logger.Error("failed to fetch records for export",
			zap.String("user_id", userID),
			zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch sleep data")
	}

	var output bytes.Buffer
	writer := csv.NewWriter(&output)
	if err := writer.Write(exportCSVHeaders); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	for index := range records {
		if err := writer.Write(exportCSVRow(&records[index])); err != nil {
			return apiError(c, fiber.StatusInternalServerError, "failed to build export")
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	setExportAttachmentHeaders(c, "text/csv", buildExportFilename(userID, time.Now(), "csv"))
	return c.Send(output.Bytes())
}

func (handler *Handler) ExportJSON(c *fiber.Ctx) error {
	userID, days, status, message := exportUserAndWindow(c, handler.defaultDays)
	if status != 0 {
		return apiError(c, status, message)
	}

	now := time.Now()
	records, err := handler.dashboard.FetchRecords(c.UserContext(), userID, days, now)
	if err != nil {
		handler.logger.Error("failed to fetch records for export",
			zap.String("user_id", userID),
			zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch sleep data")
	}

	startDate, endDate := services.DateRange(now, days)
	payload := fiber.Map{
		"exported_at": now.Format(time.RFC3339),
		"user_id":     userID,
		"start_date":  startDate.Format("2006-01-02"),
		"end_date":    endDate.Format("2006-01-02"),
		"records":     records,
	}

	serialized, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	setExportAttachmentHeaders(c, fiber.MIMEApplicationJSON, buildExportFilename(userID, now, "json"))
	return c.Send(serialized)
}

func exportUserAndWindow(c *fiber.Ctx, defaultDays int) (string, int, int, string) {
	userID := c.Query("user_id")
	if userID == "" {
		return "", 0, fiber.StatusBadRequest, "user_id is required"
	}
	days := services.ResolveDays(c.Query("days"), defaultDays)
	return userID, days, 0, ""
}

func exportCSVRow(record *models.SleepRecord) []string {
	deep := ""
	rem := ""
	light := ""
	awake := ""
	if record.SleepPhases != nil {
		deep = csvIntValue(record.SleepPhases.DeepSleepMinutes)
		rem = csvIntValue(record.SleepPhases.RemSleepMinutes)
		light = csvIntValue(record.SleepPhases.LightSleepMinutes)
		awake = strconv.Itoa(record.SleepPhases.AwakeMinutes)
	}

	heartRate := ""
	if record.HeartRate != nil {
		heartRate = csvFloatValue(record.HeartRate.Average)
	}

	return []string{
		record.Date,
		record.SleepStart.Format(time.RFC3339),
		record.SleepEnd.Format(time.RFC3339),
		strconv.FormatFloat(record.DurationHours(), 'f', 2, 64),
		csvFloatValue(record.SleepQuality),
		deep,
		rem,
		light,
		awake,
		heartRate,
	}
}

func csvIntValue(value *int) string {
	if value == nil {
		return ""
	}
	return strconv.Itoa(*value)
}

func csvFloatValue(value *float64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatFloat(*value, 'f', 1, 64)
}

func buildExportFilename(userID string, now time.Time, extension string) string {
	return fmt.Sprintf("somna-%s-%s.%s", userID, now.Format("2006-01-02"), extension)
}

func setExportAttachmentHeaders(c *fiber.Ctx, contentType string, filename string) {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
}
