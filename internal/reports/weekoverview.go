package reports

import (
	"sort"
	"time"

	"plume/internal/models"
)

// DayOverview summarizes one calendar day for the weekly view.
type DayOverview struct {
	Date      string `json:"date"`
	Weekday   string `json:"weekday"`
	Confirmed int    `json:"confirmed"`
	Pending   int    `json:"pending"`
	FirstTime string `json:"first_time,omitempty"` // earliest non-cancelled start
}

// WeekOverview builds the seven-day summary for the week containing ref,
// Monday through Sunday.
func WeekOverview(appts []models.Appointment, ref string) ([]DayOverview, error) {
	window, err := DateRange(KindWeekly, ref)
	if err != nil {
		return nil, err
	}
	monday, err := time.Parse(models.DateFormat, window.Start)
	if err != nil {
		return nil, err
	}

	byDate := map[string][]models.Appointment{}
	for _, a := range appts {
		if a.IsCancelled() {
			continue
		}
		byDate[a.Date] = append(byDate[a.Date], a)
	}

	days := make([]DayOverview, 0, 7)
	for i := 0; i < 7; i++ {
		day := monday.AddDate(0, 0, i)
		date := day.Format(models.DateFormat)
		overview := DayOverview{Date: date, Weekday: day.Weekday().String()}

		dayAppts := byDate[date]
		sort.Slice(dayAppts, func(i, j int) bool {
			return dayAppts[i].StartMin < dayAppts[j].StartMin
		})
		for _, a := range dayAppts {
			switch a.Status {
			case models.StatusConfirmed:
				overview.Confirmed++
			case models.StatusPending:
				overview.Pending++
			}
		}
		if len(dayAppts) > 0 {
			overview.FirstTime = dayAppts[0].Time
		}
		days = append(days, overview)
	}
	return days, nil
}
