package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plume/internal/events"
	"plume/internal/models"
	"plume/internal/notify"
)

func newTestStore(t *testing.T, bus *events.Bus) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "test.db"), bus)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func seedCatalog(t *testing.T, st *Store) (models.Service, models.Technician) {
	t.Helper()
	ctx := context.Background()

	sv := models.Service{Name: "Cut", Category: "Hair", Duration: 30, Price: 100}
	require.NoError(t, st.CreateService(ctx, &sv))

	tech := models.Technician{Name: "alice", DisplayName: "Alice", Skills: []string{sv.ID}}
	require.NoError(t, st.CreateTechnician(ctx, &tech))
	return sv, tech
}

func TestSnapshot_RoundTrip(t *testing.T) {
	st := newTestStore(t, nil)
	ctx := context.Background()
	sv, tech := seedCatalog(t, st)

	appt := &models.Appointment{
		ClientName: "Client", ClientPhone: "555",
		TechID: tech.ID, TechName: tech.Name,
		Date: "2026-03-02", Time: "10:00", StartMin: 600,
		Duration: 30, Price: 100, Status: models.StatusConfirmed,
		ServiceIDs: []string{sv.ID}, Services: []string{sv.Name},
	}
	require.NoError(t, st.CreateAppointment(ctx, appt))
	assert.NotEmpty(t, appt.ID)

	_, err := st.ToggleLaserDate(ctx, "2026-03-05")
	require.NoError(t, err)

	snap, err := st.Snapshot(ctx)
	require.NoError(t, err)

	require.Len(t, snap.Services, 1)
	assert.Equal(t, "Cut", snap.Services[0].Name)

	require.Len(t, snap.Technicians, 1)
	assert.Equal(t, []string{sv.ID}, snap.Technicians[0].Skills)

	require.Len(t, snap.Appointments, 1)
	got := snap.Appointments[0]
	assert.Equal(t, appt.ID, got.ID)
	assert.Equal(t, []string{sv.ID}, got.ServiceIDs)
	assert.Equal(t, []string{"Cut"}, got.Services)
	assert.Equal(t, 600, got.StartMin)

	assert.Equal(t, []string{"2026-03-05"}, snap.LaserDates)
}

func TestCreateAppointment_ConflictRecheck(t *testing.T) {
	st := newTestStore(t, nil)
	ctx := context.Background()
	sv, tech := seedCatalog(t, st)

	base := models.Appointment{
		ClientName: "Client", TechID: tech.ID, TechName: tech.Name,
		Date: "2026-03-02", Time: "10:00", StartMin: 600,
		Duration: 60, Price: 100, Status: models.StatusConfirmed,
		ServiceIDs: []string{sv.ID}, Services: []string{sv.Name},
	}
	first := base
	require.NoError(t, st.CreateAppointment(ctx, &first))

	t.Run("overlapping insert rejected", func(t *testing.T) {
		second := base
		second.ID = ""
		second.Time = "10:30"
		second.StartMin = 630
		err := st.CreateAppointment(ctx, &second)
		require.Error(t, err)
		assert.True(t, models.IsConflict(err))

		snap, err := st.Snapshot(ctx)
		require.NoError(t, err)
		assert.Len(t, snap.Appointments, 1) // nothing partially written
	})

	t.Run("touching insert allowed", func(t *testing.T) {
		next := base
		next.ID = ""
		next.Time = "11:00"
		next.StartMin = 660
		assert.NoError(t, st.CreateAppointment(ctx, &next))
	})

	t.Run("other technician unaffected", func(t *testing.T) {
		other := models.Technician{Name: "bob"}
		require.NoError(t, st.CreateTechnician(ctx, &other))

		a := base
		a.ID = ""
		a.TechID = other.ID
		a.TechName = other.Name
		assert.NoError(t, st.CreateAppointment(ctx, &a))
	})

	t.Run("cancelled slot can be rebooked", func(t *testing.T) {
		require.NoError(t, st.UpdateAppointmentStatus(ctx, first.ID, models.StatusCancelled))

		again := base
		again.ID = ""
		assert.NoError(t, st.CreateAppointment(ctx, &again))
	})
}

func TestUpdateAppointmentStatus(t *testing.T) {
	st := newTestStore(t, nil)
	ctx := context.Background()
	sv, tech := seedCatalog(t, st)

	appt := &models.Appointment{
		ClientName: "Client", TechID: tech.ID, TechName: tech.Name,
		Date: "2026-03-02", Time: "10:00", StartMin: 600,
		Duration: 30, Status: models.StatusPending,
		ServiceIDs: []string{sv.ID}, Services: []string{sv.Name},
	}
	require.NoError(t, st.CreateAppointment(ctx, appt))

	require.NoError(t, st.UpdateAppointmentStatus(ctx, appt.ID, models.StatusConfirmed))
	got, err := st.GetAppointment(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, got.Status)

	err = st.UpdateAppointmentStatus(ctx, "missing", models.StatusCancelled)
	assert.True(t, models.IsNotFound(err))
}

func TestCatalogCRUD(t *testing.T) {
	st := newTestStore(t, nil)
	ctx := context.Background()
	sv, tech := seedCatalog(t, st)

	t.Run("update skills", func(t *testing.T) {
		other := models.Service{Name: "Color", Duration: 60, Price: 50}
		require.NoError(t, st.CreateService(ctx, &other))

		require.NoError(t, st.UpdateTechnicianSkills(ctx, tech.ID, []string{sv.ID, other.ID}))
		snap, err := st.Snapshot(ctx)
		require.NoError(t, err)
		assert.Len(t, snap.Technicians[0].Skills, 2)

		err = st.UpdateTechnicianSkills(ctx, "missing", nil)
		assert.True(t, models.IsNotFound(err))
	})

	t.Run("delete service clears skill rows", func(t *testing.T) {
		require.NoError(t, st.DeleteService(ctx, sv.ID))
		snap, err := st.Snapshot(ctx)
		require.NoError(t, err)
		assert.Len(t, snap.Services, 1)
		assert.NotContains(t, snap.Technicians[0].Skills, sv.ID)

		assert.True(t, models.IsNotFound(st.DeleteService(ctx, sv.ID)))
	})

	t.Run("delete technician", func(t *testing.T) {
		require.NoError(t, st.DeleteTechnician(ctx, tech.ID))
		snap, err := st.Snapshot(ctx)
		require.NoError(t, err)
		assert.Empty(t, snap.Technicians)

		assert.True(t, models.IsNotFound(st.DeleteTechnician(ctx, tech.ID)))
	})
}

func TestToggleLaserDate(t *testing.T) {
	st := newTestStore(t, nil)
	ctx := context.Background()

	enabled, err := st.ToggleLaserDate(ctx, "2026-03-05")
	require.NoError(t, err)
	assert.True(t, enabled)

	enabled, err = st.ToggleLaserDate(ctx, "2026-03-05")
	require.NoError(t, err)
	assert.False(t, enabled)

	snap, err := st.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.LaserDates)

	_, err = st.ToggleLaserDate(ctx, "bad-date")
	assert.True(t, models.IsValidation(err))
}

func TestNotifications(t *testing.T) {
	st := newTestStore(t, nil)
	ctx := context.Background()

	n := notify.Notification{
		Type: "new_booking", Title: "New booking confirmed",
		Message: "Client booked Cut with alice", ForAdmin: true, TechID: "t1",
	}
	require.NoError(t, st.Notify(ctx, n))

	admin := models.Actor{Role: models.RoleAdmin}
	list, err := st.ListNotifications(ctx, admin, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].Read)

	specialist := models.Actor{Role: models.RoleSpecialist}
	list, err = st.ListNotifications(ctx, specialist, "t1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = st.ListNotifications(ctx, specialist, "t2")
	require.NoError(t, err)
	assert.Empty(t, list)

	// A specialist without a technician id sees nothing.
	list, err = st.ListNotifications(ctx, specialist, "")
	require.NoError(t, err)
	assert.Empty(t, list)

	adminList, _ := st.ListNotifications(ctx, admin, "")
	require.NoError(t, st.MarkNotificationRead(ctx, adminList[0].ID))
	adminList, _ = st.ListNotifications(ctx, admin, "")
	assert.True(t, adminList[0].Read)

	assert.True(t, models.IsNotFound(st.MarkNotificationRead(ctx, "missing")))
}

func TestPublishesEvents(t *testing.T) {
	bus := events.NewBus()
	var published []events.Event
	for _, topic := range []events.Topic{
		events.TopicServices, events.TopicTechnicians,
		events.TopicAppointments, events.TopicLaserDates,
	} {
		bus.Subscribe(topic, func(e events.Event) { published = append(published, e) })
	}

	st := newTestStore(t, bus)
	ctx := context.Background()
	sv, tech := seedCatalog(t, st)

	appt := &models.Appointment{
		ClientName: "Client", TechID: tech.ID, TechName: tech.Name,
		Date: "2026-03-02", Time: "10:00", StartMin: 600,
		Duration: 30, Status: models.StatusConfirmed,
		ServiceIDs: []string{sv.ID}, Services: []string{sv.Name},
	}
	require.NoError(t, st.CreateAppointment(ctx, appt))
	_, err := st.ToggleLaserDate(ctx, "2026-03-05")
	require.NoError(t, err)

	require.Len(t, published, 4)
	assert.Equal(t, events.TopicServices, published[0].Topic)
	assert.Equal(t, events.TopicTechnicians, published[1].Topic)
	assert.Equal(t, events.TopicAppointments, published[2].Topic)
	assert.Equal(t, "created", published[2].Action)
	assert.Equal(t, appt.ID, published[2].EntityID)
	assert.Equal(t, events.TopicLaserDates, published[3].Topic)
}
