package models

import "encoding/json"

// SleepTrend is a directional summary of one metric across an analytics
// window. Purely descriptive.
type SleepTrend struct {
	Metric        string
	Direction     string
	Strength      *float64
	AverageChange *float64
}

func (trend *SleepTrend) UnmarshalJSON(data []byte) error {
	// The service reports the per-day delta as average_change_per_day.
	type payload struct {
		Metric              string   `json:"metric"`
		Direction           string   `json:"direction"`
		Strength            *float64 `json:"strength"`
		AverageChangePerDay *float64 `json:"average_change_per_day"`
	}
	var decoded payload
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	trend.Metric = decoded.Metric
	trend.Direction = decoded.Direction
	trend.Strength = decoded.Strength
	trend.AverageChange = decoded.AverageChangePerDay
	return nil
}

func (trend SleepTrend) MarshalJSON() ([]byte, error) {
	payload := map[string]any{
		"metric":    trend.Metric,
		"direction": trend.Direction,
	}
	if trend.Strength != nil {
		payload["strength"] = *trend.Strength
	}
	if trend.AverageChange != nil {
		payload["average_change"] = *trend.AverageChange
	}
	return json.Marshal(payload)
}

// SleepAnalytics aggregates one user's sleep over a date range: averaged
// statistics, optional trends, and recommendation strings. The remote
// payload nests stats and trends; the model flattens them.
type SleepAnalytics struct {
	UserID    string
	StartDate string
	EndDate   string

	AverageDurationMinutes   *float64
	AverageSleepQuality      *float64
	AverageDeepSleepMinutes  *float64
	AverageRemSleepMinutes   *float64
	AverageLightSleepMinutes *float64
	TotalRecords             *int
	DateRangeDays            *int

	DurationTrend       *SleepTrend
	QualityTrend        *SleepTrend
	ScheduleConsistency *float64
	DurationVariability *float64

	Recommendations []string
}

func (analytics *SleepAnalytics) UnmarshalJSON(data []byte) error {
	type payload struct {
		UserID    string `json:"user_id"`
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
		Stats     struct {
			AverageDurationMinutes   *float64 `json:"average_duration_minutes"`
			AverageSleepQuality      *float64 `json:"average_sleep_quality"`
			AverageDeepSleepMinutes  *float64 `json:"average_deep_sleep_minutes"`
			AverageRemSleepMinutes   *float64 `json:"average_rem_sleep_minutes"`
			AverageLightSleepMinutes *float64 `json:"average_light_sleep_minutes"`
			TotalRecords             *int     `json:"total_records"`
			DateRangeDays            *int     `json:"date_range_days"`
		} `json:"stats"`
		Trends struct {
			DurationTrend       *SleepTrend `json:"duration_trend"`
			QualityTrend        *SleepTrend `json:"quality_trend"`
			ScheduleConsistency *float64    `json:"schedule_consistency"`
			DurationVariability *float64    `json:"duration_variability"`
		} `json:"trends"`
		Recommendations []string `json:"recommendations"`
	}
	var decoded payload
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	analytics.UserID = decoded.UserID
	analytics.StartDate = decoded.StartDate
	analytics.EndDate = decoded.EndDate
	analytics.AverageDurationMinutes = decoded.Stats.AverageDurationMinutes
	analytics.AverageSleepQuality = decoded.Stats.AverageSleepQuality
	analytics.AverageDeepSleepMinutes = decoded.Stats.AverageDeepSleepMinutes
	analytics.AverageRemSleepMinutes = decoded.Stats.AverageRemSleepMinutes
	analytics.AverageLightSleepMinutes = decoded.Stats.AverageLightSleepMinutes
	analytics.TotalRecords = decoded.Stats.TotalRecords
	analytics.DateRangeDays = decoded.Stats.DateRangeDays
	analytics.DurationTrend = decoded.Trends.DurationTrend
	analytics.QualityTrend = decoded.Trends.QualityTrend
	analytics.ScheduleConsistency = decoded.Trends.ScheduleConsistency
	analytics.DurationVariability = decoded.Trends.DurationVariability
	analytics.Recommendations = decoded.Recommendations
	if analytics.Recommendations == nil {
		analytics.Recommendations = []string{}
	}
	return nil
}

// AverageDurationHours converts the averaged duration to hours, nil when
// the average is absent or zero.
func (analytics *SleepAnalytics) AverageDurationHours() *float64 {
	if analytics.AverageDurationMinutes == nil || *analytics.AverageDurationMinutes == 0 {
		return nil
	}
	value := *analytics.AverageDurationMinutes / 60
	return &value
}

func (analytics SleepAnalytics) MarshalJSON() ([]byte, error) {
	stats := map[string]any{}
	if analytics.AverageDurationMinutes != nil {
		stats["average_duration_minutes"] = *analytics.AverageDurationMinutes
	}
	if hours := analytics.AverageDurationHours(); hours != nil {
		stats["average_duration_hours"] = *hours
	}
	if analytics.AverageSleepQuality != nil {
		stats["average_sleep_quality"] = *analytics.AverageSleepQuality
	}
	if analytics.AverageDeepSleepMinutes != nil {
		stats["average_deep_sleep_minutes"] = *analytics.AverageDeepSleepMinutes
	}
	if analytics.AverageRemSleepMinutes != nil {
		stats["average_rem_sleep_minutes"] = *analytics.AverageRemSleepMinutes
	}
	if analytics.AverageLightSleepMinutes != nil {
		stats["average_light_sleep_minutes"] = *analytics.AverageLightSleepMinutes
	}
	if analytics.TotalRecords != nil {
		stats["total_records"] = *analytics.TotalRecords
	}
	if analytics.DateRangeDays != nil {
		stats["date_range_days"] = *analytics.DateRangeDays
	}

	trends := map[string]any{}
	if analytics.DurationTrend != nil {
		trends["duration"] = analytics.DurationTrend
	}
	if analytics.QualityTrend != nil {
		trends["quality"] = analytics.QualityTrend
	}
	if analytics.ScheduleConsistency != nil && *analytics.ScheduleConsistency != 0 {
		trends["schedule_consistency"] = *analytics.ScheduleConsistency
	}
	if analytics.DurationVariability != nil && *analytics.DurationVariability != 0 {
		trends["duration_variability"] = *analytics.DurationVariability
	}

	recommendations := analytics.Recommendations
	if recommendations == nil {
		recommendations = []string{}
	}

	return json.Marshal(map[string]any{
		"user_id":         analytics.UserID,
		"start_date":      analytics.StartDate,
		"end_date":        analytics.EndDate,
		"stats":           stats,
		"trends":          trends,
		"recommendations": recommendations,
	})
}
