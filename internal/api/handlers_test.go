package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/solenne/somna/internal/client"
	"github.com/solenne/somna/internal/models"
	"github.com/solenne/somna/internal/services"
)

type stubSleepAPI struct {
	dataResponse *client.SleepDataResponse
	dataErr      error
	generateErr  error

	dataCalls      []client.SleepDataParams
	analyticsCalls int
	generateCalls  []client.GenerateParams
	usersCalls     int
}

func (stub *stubSleepAPI) GetSleepData(_ context.Context, params client.SleepDataParams) (*client.SleepDataResponse, error) {
	stub.dataCalls = append(stub.dataCalls, params)
	if stub.dataErr != nil {
		return nil, stub.dataErr
	}
	if stub.dataResponse != nil {
		return stub.dataResponse, nil
	}
	return &client.SleepDataResponse{Records: []models.SleepRecord{}}, nil
}

func (stub *stubSleepAPI) GetSleepAnalytics(_ context.Context, _ string, _ time.Time, _ time.Time) (*models.SleepAnalytics, error) {
	stub.analyticsCalls++
	return &models.SleepAnalytics{UserID: "user-1"}, nil
}

func (stub *stubSleepAPI) GenerateDummyData(_ context.Context, params client.GenerateParams) (*client.GenerateResponse, error) {
	stub.generateCalls = append(stub.generateCalls, params)
	if stub.generateErr != nil {
		return nil, stub.generateErr
	}
	return &client.GenerateResponse{Count: params.Days}, nil
}

func (stub *stubSleepAPI) GetUsers(_ context.Context, _ int, _ int) (*client.UsersResponse, error) {
	stub.usersCalls++
	return &client.UsersResponse{Users: []client.UserSummary{{UserID: "user-1", RecordCount: 3}}, Count: 1}, nil
}

const testDefaultDays = 14

func newTestApp(stub *stubSleepAPI) *fiber.App {
	templates := make(map[string]*template.Template, len(pageNames))
	for _, page := range pageNames {
		templates[page] = template.Must(template.New("base").Parse(`{{define "base"}}` + page + ` {{.Title}}{{end}}`))
	}

	handler := &Handler{
		dashboard:    services.NewDashboardService(stub, recordPageLimit),
		logger:       zap.NewNop(),
		templates:    templates,
		defaultDays:  testDefaultDays,
		itemsPerPage: 10,
	}

	app := fiber.New()
	RegisterRoutes(app, handler)
	return app
}

func flashFromResponse(t *testing.T, response *http.Response) FlashPayload {
	t.Helper()
	for _, cookie := range response.Cookies() {
		if cookie.Name != flashCookieName || cookie.Value == "" {
			continue
		}
		decoded, err := base64.RawURLEncoding.DecodeString(cookie.Value)
		if err != nil {
			t.Fatalf("failed to decode flash cookie: %v", err)
		}
		payload := FlashPayload{}
		if err := json.Unmarshal(decoded, &payload); err != nil {
			t.Fatalf("failed to unmarshal flash cookie: %v", err)
		}
		return payload
	}
	return FlashPayload{}
}

func sleepRecord(id string, date string) models.SleepRecord {
	minutes := 480
	return models.SleepRecord{
		ID:              id,
		UserID:          "user-1",
		Date:            date,
		SleepStart:      models.NewTime(time.Date(2025, 6, 1, 22, 0, 0, 0, time.UTC)),
		SleepEnd:        models.NewTime(time.Date(2025, 6, 2, 6, 0, 0, 0, time.UTC)),
		DurationMinutes: &minutes,
	}
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(&stubSleepAPI{})

	response, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", response.StatusCode)
	}
}

func TestDashboardViewRequiresUserID(t *testing.T) {
	stub := &stubSleepAPI{}
	app := newTestApp(stub)

	response, err := app.Test(httptest.NewRequest(http.MethodGet, "/dashboard/view", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if response.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected redirect status 303, got %d", response.StatusCode)
	}
	if location := response.Header.Get("Location"); location != "/" {
		t.Fatalf("expected redirect to /, got %q", location)
	}
	if len(stub.dataCalls) != 0 {
		t.Fatalf("expected no remote calls, got %d", len(stub.dataCalls))
	}
	flash := flashFromResponse(t, response)
	if flash.Error == "" {
		t.Fatal("expected an error flash message")
	}
}

func TestDashboardViewUnparseableDaysFallsBack(t *testing.T) {
	stub := &stubSleepAPI{}
	app := newTestApp(stub)

	response, err := app.Test(httptest.NewRequest(http.MethodGet, "/dashboard/view?user_id=user-1&days=abc", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", response.StatusCode)
	}
	if len(stub.dataCalls) != 1 {
		t.Fatalf("expected one data call, got %d", len(stub.dataCalls))
	}

	params := stub.dataCalls[0]
	if params.StartDate == nil || params.EndDate == nil {
		t.Fatal("expected a bounded date window")
	}
	if want := params.EndDate.AddDate(0, 0, -testDefaultDays); !params.StartDate.Equal(want) {
		t.Fatalf("expected window start %v, got %v", want, *params.StartDate)
	}
}

func TestDashboardViewRemoteFailureRedirectsWithoutFurtherCalls(t *testing.T) {
	stub := &stubSleepAPI{dataErr: errors.New("upstream returned 502")}
	app := newTestApp(stub)

	response, err := app.Test(httptest.NewRequest(http.MethodGet, "/dashboard/view?user_id=user-1", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if response.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected redirect status 303, got %d", response.StatusCode)
	}
	if stub.analyticsCalls != 0 {
		t.Fatalf("expected no analytics call after data failure, got %d", stub.analyticsCalls)
	}
	flash := flashFromResponse(t, response)
	if flash.Error == "" {
		t.Fatal("expected an error flash message")
	}
}

func TestRecordNotFoundRedirectsToDashboard(t *testing.T) {
	stub := &stubSleepAPI{dataResponse: &client.SleepDataResponse{
		Records: []models.SleepRecord{sleepRecord("rec-1", "2025-06-01")},
		Count:   1,
	}}
	app := newTestApp(stub)

	response, err := app.Test(httptest.NewRequest(http.MethodGet, "/dashboard/record/rec-404?user_id=user-1", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if response.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected redirect status 303, got %d", response.StatusCode)
	}
	if location := response.Header.Get("Location"); !strings.Contains(location, "/dashboard/view?user_id=user-1") {
		t.Fatalf("expected redirect to the user's dashboard, got %q", location)
	}
	flash := flashFromResponse(t, response)
	if !strings.Contains(flash.Error, "not found") {
		t.Fatalf("expected a not-found flash message, got %q", flash.Error)
	}
}

func TestRecordDetailRenders(t *testing.T) {
	stub := &stubSleepAPI{dataResponse: &client.SleepDataResponse{
		Records: []models.SleepRecord{sleepRecord("rec-1", "2025-06-01")},
		Count:   1,
	}}
	app := newTestApp(stub)

	response, err := app.Test(httptest.NewRequest(http.MethodGet, "/dashboard/record/rec-1?user_id=user-1", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", response.StatusCode)
	}
}

func TestChartDataRequiresUserID(t *testing.T) {
	app := newTestApp(&stubSleepAPI{})

	response, err := app.Test(httptest.NewRequest(http.MethodGet, "/dashboard/api/sleep-data", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", response.StatusCode)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	payload := map[string]string{}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("expected a JSON error body, got %q", body)
	}
	if payload["error"] == "" {
		t.Fatalf("expected an error field, got %q", body)
	}
}

func TestChartDataEmptyWindowYieldsEmptyArrays(t *testing.T) {
	app := newTestApp(&stubSleepAPI{})

	response, err := app.Test(httptest.NewRequest(http.MethodGet, "/dashboard/api/sleep-data?user_id=user-1", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", response.StatusCode)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	payload := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("failed to decode chart payload: %v", err)
	}
	for _, series := range []string{"dates", "sleep_quality", "duration_hours", "deep_sleep_percentage", "heart_rate_avg"} {
		raw, ok := payload[series]
		if !ok {
			t.Fatalf("expected series %q in payload", series)
		}
		if string(raw) != "[]" {
			t.Fatalf("expected %q to be an empty array, got %s", series, raw)
		}
	}
}

func TestChartDataRemoteFailure(t *testing.T) {
	stub := &stubSleepAPI{dataErr: errors.New("upstream returned 500")}
	app := newTestApp(stub)

	response, err := app.Test(httptest.NewRequest(http.MethodGet, "/dashboard/api/sleep-data?user_id=user-1", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if response.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", response.StatusCode)
	}
}

func TestGenerateRejectsDaysOutOfRangeBeforeRemoteCall(t *testing.T) {
	stub := &stubSleepAPI{}
	app := newTestApp(stub)

	form := url.Values{}
	form.Set("user_id", "user-1")
	form.Set("days", "400")
	request := httptest.NewRequest(http.MethodPost, "/generate-data", strings.NewReader(form.Encode()))
	request.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if response.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected redirect status 303, got %d", response.StatusCode)
	}
	if len(stub.generateCalls) != 0 {
		t.Fatalf("expected no remote call for invalid days, got %d", len(stub.generateCalls))
	}
	flash := flashFromResponse(t, response)
	if !strings.Contains(flash.Error, "between 1 and 365") {
		t.Fatalf("expected a range validation message, got %q", flash.Error)
	}
}

func TestGenerateRequiresUserID(t *testing.T) {
	stub := &stubSleepAPI{}
	app := newTestApp(stub)

	form := url.Values{}
	form.Set("days", "30")
	request := httptest.NewRequest(http.MethodPost, "/generate-data", strings.NewReader(form.Encode()))
	request.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if response.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected redirect status 303, got %d", response.StatusCode)
	}
	if len(stub.generateCalls) != 0 {
		t.Fatalf("expected no remote call without a user, got %d", len(stub.generateCalls))
	}
}

func TestGenerateEmptyDaysDefaults(t *testing.T) {
	stub := &stubSleepAPI{}
	app := newTestApp(stub)

	form := url.Values{}
	form.Set("user_id", "user-1")
	request := httptest.NewRequest(http.MethodPost, "/generate-data", strings.NewReader(form.Encode()))
	request.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if response.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected redirect status 303, got %d", response.StatusCode)
	}
	if len(stub.generateCalls) != 1 {
		t.Fatalf("expected one remote call, got %d", len(stub.generateCalls))
	}
	if stub.generateCalls[0].Days != generateDefaultDays {
		t.Fatalf("expected default days %d, got %d", generateDefaultDays, stub.generateCalls[0].Days)
	}

	flash := flashFromResponse(t, response)
	if !strings.Contains(flash.Success, "generated 30 sleep records") {
		t.Fatalf("expected a success flash with the count, got %q", flash.Success)
	}
	if location := response.Header.Get("Location"); !strings.Contains(location, "/dashboard/view?user_id=user-1") {
		t.Fatalf("expected redirect to the user's dashboard, got %q", location)
	}
}

func TestExportCSV(t *testing.T) {
	record := sleepRecord("rec-1", "2025-06-01")
	quality := 82.5
	record.SleepQuality = &quality
	stub := &stubSleepAPI{dataResponse: &client.SleepDataResponse{
		Records: []models.SleepRecord{record},
		Count:   1,
	}}
	app := newTestApp(stub)

	response, err := app.Test(httptest.NewRequest(http.MethodGet, "/export/csv?user_id=user-1&days=7", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", response.StatusCode)
	}
	if disposition := response.Header.Get(fiber.HeaderContentDisposition); !strings.Contains(disposition, "attachment") {
		t.Fatalf("expected an attachment disposition, got %q", disposition)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "date,sleep_start,sleep_end") {
		t.Fatalf("unexpected header row %q", lines[0])
	}
	if !strings.Contains(lines[1], "2025-06-01") || !strings.Contains(lines[1], "82.5") {
		t.Fatalf("unexpected data row %q", lines[1])
	}
}

func TestExportJSONRequiresUserID(t *testing.T) {
	app := newTestApp(&stubSleepAPI{})

	response, err := app.Test(httptest.NewRequest(http.MethodGet, "/export/json", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if response.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", response.StatusCode)
	}
}

func TestExportJSON(t *testing.T) {
	stub := &stubSleepAPI{dataResponse: &client.SleepDataResponse{
		Records: []models.SleepRecord{sleepRecord("rec-1", "2025-06-01")},
		Count:   1,
	}}
	app := newTestApp(stub)

	response, err := app.Test(httptest.NewRequest(http.MethodGet, "/export/json?user_id=user-1", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", response.StatusCode)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	payload := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("failed to decode export payload: %v", err)
	}
	for _, key := range []string{"exported_at", "user_id", "records"} {
		if _, ok := payload[key]; !ok {
			t.Fatalf("expected key %q in export payload", key)
		}
	}
}

func TestUsersEndpoint(t *testing.T) {
	stub := &stubSleepAPI{}
	app := newTestApp(stub)

	response, err := app.Test(httptest.NewRequest(http.MethodGet, "/dashboard/api/users", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", response.StatusCode)
	}
	if stub.usersCalls != 1 {
		t.Fatalf("expected one users call, got %d", stub.usersCalls)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	if !strings.Contains(string(body), "user-1") {
		t.Fatalf("expected user list in body, got %q", body)
	}
}
