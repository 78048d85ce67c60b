package reports

import (
	"math"
	"sort"

	"plume/internal/models"
)

// ServiceRevenue is accumulated revenue and bookings for one service name.
type ServiceRevenue struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

// StaffRevenue is accumulated revenue and bookings for one technician.
type StaffRevenue struct {
	TechID  string  `json:"tech_id"`
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

// StaffPerformance extends StaffRevenue with workload figures.
type StaffPerformance struct {
	TechID     string  `json:"tech_id"`
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	Revenue    float64 `json:"revenue"`
	Hours      float64 `json:"hours"`
	AvgRevenue float64 `json:"avg_revenue"`
}

// ClientStats counts unique clients in the window. A client is "new" when
// their in-window appointment count is exactly one; the definition is
// windowed, not account lifetime.
type ClientStats struct {
	Total     int `json:"total"`
	New       int `json:"new"`
	Returning int `json:"returning"`
}

// ServicePopularity ranks services by raw booking count.
type ServicePopularity struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Metrics is the full aggregation result for one report window.
type Metrics struct {
	Window           Window              `json:"window"`
	TotalRevenue     float64             `json:"total_revenue"`
	AppointmentCount int                 `json:"appointment_count"`
	AvgTransaction   float64             `json:"avg_transaction"`
	RevenueByService []ServiceRevenue    `json:"revenue_by_service"`
	RevenueByStaff   []StaffRevenue      `json:"revenue_by_staff"`
	Clients          ClientStats         `json:"clients"`
	StaffPerformance []StaffPerformance  `json:"staff_performance"`
	TopServices      []ServicePopularity `json:"top_services"`
}

// Aggregate computes metrics over the confirmed appointments whose date
// falls inside the window, inclusive on both ends. Cancelled and pending
// appointments never count toward revenue.
func Aggregate(appts []models.Appointment, window Window) Metrics {
	m := Metrics{Window: window}

	var inWindow []models.Appointment
	for _, a := range appts {
		if a.Status != models.StatusConfirmed || !window.Contains(a.Date) {
			continue
		}
		inWindow = append(inWindow, a)
	}

	serviceRevenue := map[string]*ServiceRevenue{}
	staffRevenue := map[string]*StaffRevenue{}
	staffMinutes := map[string]int{}
	clientVisits := map[string]int{}

	for _, a := range inWindow {
		m.TotalRevenue += a.Price
		m.AppointmentCount++

		// Price splits evenly across the appointment's services, each
		// share rounded to the nearest whole unit.
		if len(a.Services) > 0 {
			share := math.Round(a.Price / float64(len(a.Services)))
			for _, name := range a.Services {
				sr, ok := serviceRevenue[name]
				if !ok {
					sr = &ServiceRevenue{Name: name}
					serviceRevenue[name] = sr
				}
				sr.Count++
				sr.Revenue += share
			}
		}

		st, ok := staffRevenue[a.TechID]
		if !ok {
			st = &StaffRevenue{TechID: a.TechID, Name: a.TechName}
			staffRevenue[a.TechID] = st
		}
		st.Count++
		st.Revenue += a.Price
		staffMinutes[a.TechID] += a.Duration

		if key := a.ClientKey(); key != "" {
			clientVisits[key]++
		}
	}

	if m.AppointmentCount > 0 {
		m.AvgTransaction = math.Round(m.TotalRevenue / float64(m.AppointmentCount))
	}

	for _, sr := range serviceRevenue {
		m.RevenueByService = append(m.RevenueByService, *sr)
	}
	sort.Slice(m.RevenueByService, func(i, j int) bool {
		a, b := m.RevenueByService[i], m.RevenueByService[j]
		if a.Revenue != b.Revenue {
			return a.Revenue > b.Revenue
		}
		return a.Name < b.Name
	})

	for _, st := range staffRevenue {
		m.RevenueByStaff = append(m.RevenueByStaff, *st)
	}
	sort.Slice(m.RevenueByStaff, func(i, j int) bool {
		a, b := m.RevenueByStaff[i], m.RevenueByStaff[j]
		if a.Revenue != b.Revenue {
			return a.Revenue > b.Revenue
		}
		return a.Name < b.Name
	})

	for _, visits := range clientVisits {
		m.Clients.Total++
		if visits == 1 {
			m.Clients.New++
		} else {
			m.Clients.Returning++
		}
	}

	for _, st := range m.RevenueByStaff {
		hours := math.Round(float64(staffMinutes[st.TechID])/60*10) / 10
		avg := math.Round(st.Revenue / float64(st.Count))
		m.StaffPerformance = append(m.StaffPerformance, StaffPerformance{
			TechID:     st.TechID,
			Name:       st.Name,
			Count:      st.Count,
			Revenue:    st.Revenue,
			Hours:      hours,
			AvgRevenue: avg,
		})
	}

	for _, sr := range m.RevenueByService {
		m.TopServices = append(m.TopServices, ServicePopularity{Name: sr.Name, Count: sr.Count})
	}
	sort.SliceStable(m.TopServices, func(i, j int) bool {
		return m.TopServices[i].Count > m.TopServices[j].Count
	})
	if len(m.TopServices) > 10 {
		m.TopServices = m.TopServices[:10]
	}

	return m
}
