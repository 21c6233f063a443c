package services

import (
	"sort"

	"github.com/solenne/somna/internal/models"
)

// ChartData holds date-aligned series for client-side rendering. The phase
// and heart-rate series only receive values from records that carry that
// nested data, so a sparse series may be shorter than Dates. Consumers must
// key by date, not by index.
type ChartData struct {
	Dates                []string   `json:"dates"`
	SleepQuality         []*float64 `json:"sleep_quality"`
	DurationHours        []float64  `json:"duration_hours"`
	DeepSleepPercentage  []*float64 `json:"deep_sleep_percentage"`
	RemSleepPercentage   []*float64 `json:"rem_sleep_percentage"`
	LightSleepPercentage []*float64 `json:"light_sleep_percentage"`
	HeartRateAvg         []*float64 `json:"heart_rate_avg"`
}

// BuildChartData projects records into parallel chart series, sorted
// ascending by the record date string. Every series is non-nil so zero
// records serialize as empty arrays rather than null.
func BuildChartData(records []models.SleepRecord) *ChartData {
	ordered := make([]models.SleepRecord, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(left, right int) bool {
		return ordered[left].Date < ordered[right].Date
	})

	chart := &ChartData{
		Dates:                make([]string, 0, len(ordered)),
		SleepQuality:         make([]*float64, 0, len(ordered)),
		DurationHours:        make([]float64, 0, len(ordered)),
		DeepSleepPercentage:  make([]*float64, 0, len(ordered)),
		RemSleepPercentage:   make([]*float64, 0, len(ordered)),
		LightSleepPercentage: make([]*float64, 0, len(ordered)),
		HeartRateAvg:         make([]*float64, 0, len(ordered)),
	}

	for index := range ordered {
		record := &ordered[index]
		chart.Dates = append(chart.Dates, record.Date)
		chart.SleepQuality = append(chart.SleepQuality, record.SleepQuality)
		chart.DurationHours = append(chart.DurationHours, record.DurationHours())

		if record.SleepPhases != nil {
			chart.DeepSleepPercentage = append(chart.DeepSleepPercentage, record.DeepSleepPercentage())
			chart.RemSleepPercentage = append(chart.RemSleepPercentage, record.RemSleepPercentage())
			chart.LightSleepPercentage = append(chart.LightSleepPercentage, record.LightSleepPercentage())
		}
		if record.HeartRate != nil {
			chart.HeartRateAvg = append(chart.HeartRateAvg, record.HeartRate.Average)
		}
	}

	return chart
}
