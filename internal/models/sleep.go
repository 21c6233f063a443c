package models

import (
	"encoding/json"
	"errors"
)

// SleepPhases is the per-record breakdown of time spent in each sleep stage.
// The three stage fields are optional in the remote payload; awake minutes
// default to zero when absent.
type SleepPhases struct {
	DeepSleepMinutes  *int `json:"deep_sleep_minutes"`
	RemSleepMinutes   *int `json:"rem_sleep_minutes"`
	LightSleepMinutes *int `json:"light_sleep_minutes"`
	AwakeMinutes      int  `json:"awake_minutes"`
}

// TotalMinutes sums all four phases, treating absent values as zero.
func (phases SleepPhases) TotalMinutes() int {
	total := phases.AwakeMinutes
	if phases.DeepSleepMinutes != nil {
		total += *phases.DeepSleepMinutes
	}
	if phases.RemSleepMinutes != nil {
		total += *phases.RemSleepMinutes
	}
	if phases.LightSleepMinutes != nil {
		total += *phases.LightSleepMinutes
	}
	return total
}

func (phases SleepPhases) MarshalJSON() ([]byte, error) {
	payload := map[string]any{
		"awake_minutes": phases.AwakeMinutes,
		"total_minutes": phases.TotalMinutes(),
	}
	if phases.DeepSleepMinutes != nil {
		payload["deep_sleep_minutes"] = *phases.DeepSleepMinutes
	}
	if phases.RemSleepMinutes != nil {
		payload["rem_sleep_minutes"] = *phases.RemSleepMinutes
	}
	if phases.LightSleepMinutes != nil {
		payload["light_sleep_minutes"] = *phases.LightSleepMinutes
	}
	return json.Marshal(payload)
}

// HeartRateData carries the heart-rate summary measured during a sleep
// session. Every field is optional.
type HeartRateData struct {
	Average *float64 `json:"average,omitempty"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Resting *float64 `json:"resting,omitempty"`
}

// SleepTimeSeriesPoint is a single sample within a record's time series.
// Ordering is caller-supplied and never re-sorted here.
type SleepTimeSeriesPoint struct {
	Timestamp       Time     `json:"timestamp"`
	Stage           *string  `json:"stage,omitempty"`
	HeartRate       *float64 `json:"heart_rate,omitempty"`
	Movement        *float64 `json:"movement,omitempty"`
	RespirationRate *float64 `json:"respiration_rate,omitempty"`
}

func (point *SleepTimeSeriesPoint) UnmarshalJSON(data []byte) error {
	type payload struct {
		Timestamp       *Time    `json:"timestamp"`
		Stage           *string  `json:"stage"`
		HeartRate       *float64 `json:"heart_rate"`
		Movement        *float64 `json:"movement"`
		RespirationRate *float64 `json:"respiration_rate"`
	}
	var decoded payload
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	if decoded.Timestamp == nil {
		return errors.New("time series point requires a timestamp")
	}
	point.Timestamp = *decoded.Timestamp
	point.Stage = decoded.Stage
	point.HeartRate = decoded.HeartRate
	point.Movement = decoded.Movement
	point.RespirationRate = decoded.RespirationRate
	return nil
}

// SleepRecord is one sleep session for one user. Optional nested data is
// nil (or an empty time series) when the remote payload omits it; only the
// two session timestamps are required.
type SleepRecord struct {
	ID              string
	UserID          string
	Date            string
	SleepStart      Time
	SleepEnd        Time
	DurationMinutes *int
	SleepPhases     *SleepPhases
	SleepQuality    *float64
	HeartRate       *HeartRateData
	TimeSeries      []SleepTimeSeriesPoint
}

func (record *SleepRecord) UnmarshalJSON(data []byte) error {
	type payload struct {
		ID              string                 `json:"id"`
		RecordID        string                 `json:"record_id"`
		UserID          string                 `json:"user_id"`
		Date            string                 `json:"date"`
		SleepStart      *Time                  `json:"sleep_start"`
		SleepEnd        *Time                  `json:"sleep_end"`
		DurationMinutes *int                   `json:"duration_minutes"`
		SleepPhases     *SleepPhases           `json:"sleep_phases"`
		SleepQuality    *float64               `json:"sleep_quality"`
		HeartRate       *HeartRateData         `json:"heart_rate"`
		TimeSeries      []SleepTimeSeriesPoint `json:"time_series"`
	}
	var decoded payload
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	if decoded.SleepStart == nil {
		return errors.New("sleep record requires sleep_start")
	}
	if decoded.SleepEnd == nil {
		return errors.New("sleep record requires sleep_end")
	}

	record.ID = decoded.ID
	// Some service responses carry the identifier as record_id instead.
	if record.ID == "" {
		record.ID = decoded.RecordID
	}
	record.UserID = decoded.UserID
	record.Date = decoded.Date
	record.SleepStart = *decoded.SleepStart
	record.SleepEnd = *decoded.SleepEnd
	record.DurationMinutes = decoded.DurationMinutes
	record.SleepPhases = decoded.SleepPhases
	record.SleepQuality = decoded.SleepQuality
	record.HeartRate = decoded.HeartRate
	record.TimeSeries = decoded.TimeSeries
	if record.TimeSeries == nil {
		record.TimeSeries = []SleepTimeSeriesPoint{}
	}
	return nil
}

// DurationHours converts the session duration to hours, zero when the
// duration is absent.
func (record SleepRecord) DurationHours() float64 {
	if record.DurationMinutes == nil {
		return 0
	}
	return float64(*record.DurationMinutes) / 60
}

// DeepSleepPercentage is deep sleep as a share of the session duration.
// Nil when phases, the phase value, or the duration is absent, and also
// when the phase value is exactly zero — existing dashboard consumers
// rely on zero rendering as "no data" rather than 0%.
func (record SleepRecord) DeepSleepPercentage() *float64 {
	if record.SleepPhases == nil {
		return nil
	}
	return phasePercentage(record.SleepPhases.DeepSleepMinutes, record.DurationMinutes)
}

// RemSleepPercentage is REM sleep as a share of the session duration.
func (record SleepRecord) RemSleepPercentage() *float64 {
	if record.SleepPhases == nil {
		return nil
	}
	return phasePercentage(record.SleepPhases.RemSleepMinutes, record.DurationMinutes)
}

// LightSleepPercentage is light sleep as a share of the session duration.
func (record SleepRecord) LightSleepPercentage() *float64 {
	if record.SleepPhases == nil {
		return nil
	}
	return phasePercentage(record.SleepPhases.LightSleepMinutes, record.DurationMinutes)
}

// AwakePercentage is awake time as a share of the session duration.
func (record SleepRecord) AwakePercentage() *float64 {
	if record.SleepPhases == nil {
		return nil
	}
	awake := record.SleepPhases.AwakeMinutes
	return phasePercentage(&awake, record.DurationMinutes)
}

func phasePercentage(phaseMinutes *int, durationMinutes *int) *float64 {
	if phaseMinutes == nil || *phaseMinutes == 0 {
		return nil
	}
	if durationMinutes == nil || *durationMinutes == 0 {
		return nil
	}
	value := float64(*phaseMinutes) / float64(*durationMinutes) * 100
	return &value
}

func (record SleepRecord) MarshalJSON() ([]byte, error) {
	payload := map[string]any{
		"id":             record.ID,
		"user_id":        record.UserID,
		"date":           record.Date,
		"sleep_start":    record.SleepStart,
		"sleep_end":      record.SleepEnd,
		"duration_hours": record.DurationHours(),
	}
	if record.DurationMinutes != nil {
		payload["duration_minutes"] = *record.DurationMinutes
	}
	if record.SleepQuality != nil {
		payload["sleep_quality"] = *record.SleepQuality
	}
	if record.SleepPhases != nil {
		payload["sleep_phases"] = record.SleepPhases
		payload["deep_sleep_percentage"] = record.DeepSleepPercentage()
		payload["rem_sleep_percentage"] = record.RemSleepPercentage()
		payload["light_sleep_percentage"] = record.LightSleepPercentage()
		payload["awake_percentage"] = record.AwakePercentage()
	}
	if record.HeartRate != nil {
		payload["heart_rate"] = record.HeartRate
	}
	if len(record.TimeSeries) > 0 {
		payload["time_series"] = record.TimeSeries
	}
	return json.Marshal(payload)
}
