package client

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/solenne/somna/internal/models"
)

// ErrRequestFailed is the uniform failure signal for any transport-level
// problem: network error, non-2xx status, or an undecodable body. Callers
// never see service-specific error codes.
var ErrRequestFailed = errors.New("sleep api request failed")

// DefaultPageSize bounds record and user listings when the caller does not
// ask for a specific page size.
const DefaultPageSize = 100

// SleepAPIClient talks to the remote sleep-data microservice. One HTTP call
// per operation, no retries, no caching.
type SleepAPIClient struct {
	http   *resty.Client
	logger *zap.Logger
}

func New(baseURL string, timeout time.Duration, logger *zap.Logger) *SleepAPIClient {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &SleepAPIClient{
		http:   httpClient,
		logger: logger,
	}
}

// SleepDataParams filters a sleep-record listing. UserID is required; the
// date bounds are optional and serialized as ISO-8601 when present.
type SleepDataParams struct {
	UserID    string
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

// SleepDataResponse is one page of a user's sleep records.
type SleepDataResponse struct {
	Records []models.SleepRecord `json:"records"`
	Count   int                  `json:"count"`
}

// GetSleepData fetches sleep records for a user, optionally bounded by a
// date range.
func (client *SleepAPIClient) GetSleepData(ctx context.Context, params SleepDataParams) (*SleepDataResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	query := map[string]string{
		"user_id": params.UserID,
		"limit":   strconv.Itoa(limit),
		"offset":  strconv.Itoa(params.Offset),
	}
	if params.StartDate != nil {
		query["start_date"] = params.StartDate.Format(time.RFC3339)
	}
	if params.EndDate != nil {
		query["end_date"] = params.EndDate.Format(time.RFC3339)
	}

	payload := &SleepDataResponse{}
	response, err := client.http.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetResult(payload).
		Get("/sleep/data")
	if err := client.checkResponse(response, err, "get sleep data"); err != nil {
		return nil, err
	}
	if payload.Records == nil {
		payload.Records = []models.SleepRecord{}
	}
	return payload, nil
}

// GetSleepAnalytics fetches aggregate analytics for a user over a date
// range. Both dates are required by the remote service.
func (client *SleepAPIClient) GetSleepAnalytics(ctx context.Context, userID string, startDate time.Time, endDate time.Time) (*models.SleepAnalytics, error) {
	analytics := &models.SleepAnalytics{}
	response, err := client.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"user_id":    userID,
			"start_date": startDate.Format(time.RFC3339),
			"end_date":   endDate.Format(time.RFC3339),
		}).
		SetResult(analytics).
		Get("/sleep/analytics")
	if err := client.checkResponse(response, err, "get sleep analytics"); err != nil {
		return nil, err
	}
	return analytics, nil
}

// GenerateParams describes a synthetic-data generation request for a
// trailing window of Days ending now.
type GenerateParams struct {
	UserID             string
	Days               int
	IncludeTimeSeries  bool
	SleepQualityTrend  string
	SleepDurationTrend string
}

// GenerateResponse reports how many records the service created.
type GenerateResponse struct {
	Count int `json:"count"`
}

// GenerateDummyData asks the remote service to create synthetic sleep
// records for testing and demos.
func (client *SleepAPIClient) GenerateDummyData(ctx context.Context, params GenerateParams) (*GenerateResponse, error) {
	days := params.Days
	if days <= 0 {
		days = 30
	}
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	body := map[string]any{
		"user_id":             params.UserID,
		"start_date":          startDate.Format(time.RFC3339),
		"end_date":            endDate.Format(time.RFC3339),
		"include_time_series": params.IncludeTimeSeries,
	}
	if params.SleepQualityTrend != "" {
		body["sleep_quality_trend"] = params.SleepQualityTrend
	}
	if params.SleepDurationTrend != "" {
		body["sleep_duration_trend"] = params.SleepDurationTrend
	}

	payload := &GenerateResponse{}
	response, err := client.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(payload).
		Post("/sleep/generate")
	if err := client.checkResponse(response, err, "generate dummy data"); err != nil {
		return nil, err
	}
	return payload, nil
}

// UserSummary is one entry of the user listing used by selection UIs.
type UserSummary struct {
	UserID      string `json:"user_id"`
	RecordCount int    `json:"record_count"`
}

// UsersResponse is one page of known users.
type UsersResponse struct {
	Users []UserSummary `json:"users"`
	Count int           `json:"count"`
}

// GetUsers lists users known to the remote service.
func (client *SleepAPIClient) GetUsers(ctx context.Context, limit int, offset int) (*UsersResponse, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}

	payload := &UsersResponse{}
	response, err := client.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"limit":  strconv.Itoa(limit),
			"offset": strconv.Itoa(offset),
		}).
		SetResult(payload).
		Get("/sleep/users")
	if err := client.checkResponse(response, err, "get users"); err != nil {
		return nil, err
	}
	if payload.Users == nil {
		payload.Users = []UserSummary{}
	}
	return payload, nil
}

func (client *SleepAPIClient) checkResponse(response *resty.Response, err error, operation string) error {
	if err != nil {
		client.logger.Error("sleep api request failed",
			zap.String("operation", operation),
			zap.Error(err),
		)
		return fmt.Errorf("%s: %v: %w", operation, err, ErrRequestFailed)
	}
	if response.IsError() {
		client.logger.Error("sleep api returned error status",
			zap.String("operation", operation),
			zap.Int("status", response.StatusCode()),
		)
		return fmt.Errorf("%s: status %d: %w", operation, response.StatusCode(), ErrRequestFailed)
	}
	return nil
}
