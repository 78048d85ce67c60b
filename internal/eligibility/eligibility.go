// Package eligibility filters the technician roster and service catalog for
// the current actor and selected date. Both filters are pure functions over
// a snapshot and are recomputed whenever the snapshot or date changes.
package eligibility

import "plume/internal/models"

// Technicians returns the technicians qualified for the selected service ids.
//
// An empty selection qualifies the full roster (the UI shows everyone before
// a service is picked). A technician with no skills is never qualified for a
// non-empty selection. Specialist actors are additionally restricted to the
// technician records linked to their own account.
func Technicians(serviceIDs []string, techs []models.Technician, actor models.Actor) []models.Technician {
	var out []models.Technician
	for _, t := range techs {
		if actor.Role == models.RoleSpecialist && t.UserID != actor.UID {
			continue
		}
		if len(serviceIDs) > 0 && !t.QualifiedFor(serviceIDs) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Services returns the services visible to the actor on the selected date.
//
// Laser-family services are hidden from non-admin actors unless the date is
// laser-enabled; admins always see the full catalog. Non-laser services are
// always visible.
func Services(services []models.Service, date string, laserDates []string, actor models.Actor) []models.Service {
	laserEnabled := false
	for _, d := range laserDates {
		if d == date {
			laserEnabled = true
			break
		}
	}

	var out []models.Service
	for _, s := range services {
		if s.IsLaser() && !actor.IsAdmin() && !laserEnabled {
			continue
		}
		out = append(out, s)
	}
	return out
}
