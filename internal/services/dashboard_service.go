package services

import (
	"context"
	"errors"
	"time"

	"github.com/solenne/somna/internal/client"
	"github.com/solenne/somna/internal/models"
)

// ErrRecordNotFound reports that a record identifier was absent from the
// fetched page of a user's records.
var ErrRecordNotFound = errors.New("sleep record not found")

// SleepAPI is the slice of the remote client the view assembly layer
// depends on.
type SleepAPI interface {
	GetSleepData(ctx context.Context, params client.SleepDataParams) (*client.SleepDataResponse, error)
	GetSleepAnalytics(ctx context.Context, userID string, startDate time.Time, endDate time.Time) (*models.SleepAnalytics, error)
	GenerateDummyData(ctx context.Context, params client.GenerateParams) (*client.GenerateResponse, error)
	GetUsers(ctx context.Context, limit int, offset int) (*client.UsersResponse, error)
}

// DashboardService orchestrates remote calls and shapes domain objects into
// view data. Calls are sequential; the first failure aborts the rest.
type DashboardService struct {
	api             SleepAPI
	recordPageLimit int
}

func NewDashboardService(api SleepAPI, recordPageLimit int) *DashboardService {
	if recordPageLimit <= 0 {
		recordPageLimit = client.DefaultPageSize
	}
	return &DashboardService{
		api:             api,
		recordPageLimit: recordPageLimit,
	}
}

// DashboardView is the context for the per-user dashboard and analytics
// pages.
type DashboardView struct {
	UserID    string
	Days      int
	StartDate time.Time
	EndDate   time.Time
	Records   []models.SleepRecord
	Analytics *models.SleepAnalytics
}

// BuildDashboardView fetches a user's records and analytics for the
// trailing window of days ending now.
func (service *DashboardService) BuildDashboardView(ctx context.Context, userID string, days int, now time.Time) (*DashboardView, error) {
	startDate, endDate := DateRange(now, days)

	data, err := service.api.GetSleepData(ctx, client.SleepDataParams{
		UserID:    userID,
		StartDate: &startDate,
		EndDate:   &endDate,
		Limit:     service.recordPageLimit,
	})
	if err != nil {
		return nil, err
	}

	analytics, err := service.api.GetSleepAnalytics(ctx, userID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	return &DashboardView{
		UserID:    userID,
		Days:      days,
		StartDate: startDate,
		EndDate:   endDate,
		Records:   data.Records,
		Analytics: analytics,
	}, nil
}

// BuildAnalyticsView is the analytics-page variant: aggregate analytics
// first, then the records backing its charts.
func (service *DashboardService) BuildAnalyticsView(ctx context.Context, userID string, days int, now time.Time) (*DashboardView, error) {
	startDate, endDate := DateRange(now, days)

	analytics, err := service.api.GetSleepAnalytics(ctx, userID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	data, err := service.api.GetSleepData(ctx, client.SleepDataParams{
		UserID:    userID,
		StartDate: &startDate,
		EndDate:   &endDate,
		Limit:     service.recordPageLimit,
	})
	if err != nil {
		return nil, err
	}

	return &DashboardView{
		UserID:    userID,
		Days:      days,
		StartDate: startDate,
		EndDate:   endDate,
		Records:   data.Records,
		Analytics: analytics,
	}, nil
}

// FetchRecords fetches one window of a user's records.
func (service *DashboardService) FetchRecords(ctx context.Context, userID string, days int, now time.Time) ([]models.SleepRecord, error) {
	startDate, endDate := DateRange(now, days)

	data, err := service.api.GetSleepData(ctx, client.SleepDataParams{
		UserID:    userID,
		StartDate: &startDate,
		EndDate:   &endDate,
		Limit:     service.recordPageLimit,
	})
	if err != nil {
		return nil, err
	}
	return data.Records, nil
}

// FetchChartData fetches a user's records for the window and projects them
// into chart series.
func (service *DashboardService) FetchChartData(ctx context.Context, userID string, days int, now time.Time) (*ChartData, error) {
	records, err := service.FetchRecords(ctx, userID, days, now)
	if err != nil {
		return nil, err
	}
	return BuildChartData(records), nil
}

// LookupRecord fetches one page of the user's records and scans it for the
// identifier. The remote service exposes no by-id endpoint, so records
// beyond the first page are not found.
func (service *DashboardService) LookupRecord(ctx context.Context, userID string, recordID string) (*models.SleepRecord, error) {
	data, err := service.api.GetSleepData(ctx, client.SleepDataParams{
		UserID: userID,
		Limit:  service.recordPageLimit,
	})
	if err != nil {
		return nil, err
	}

	for index := range data.Records {
		if data.Records[index].ID == recordID {
			return &data.Records[index], nil
		}
	}
	return nil, ErrRecordNotFound
}

// Generate asks the remote service for synthetic records.
func (service *DashboardService) Generate(ctx context.Context, params client.GenerateParams) (*client.GenerateResponse, error) {
	return service.api.GenerateDummyData(ctx, params)
}

// ListUsers fetches users for selection dropdowns.
func (service *DashboardService) ListUsers(ctx context.Context, limit int) ([]client.UserSummary, error) {
	response, err := service.api.GetUsers(ctx, limit, 0)
	if err != nil {
		return nil, err
	}
	return response.Users, nil
}
