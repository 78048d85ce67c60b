package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plume/internal/booking"
	"plume/internal/models"
	"plume/internal/notify"
	"plume/internal/schedule"
	"plume/internal/store"
)

func notifyFor(techID string) notify.Notification {
	return notify.Notification{
		Type:     "new_booking",
		Title:    "New booking confirmed",
		Message:  "Client booked Cut with alice",
		ForAdmin: true,
		TechID:   techID,
	}
}

// 2026-03-02 is a Monday.
const monday = "2026-03-02"

type testEnv struct {
	handler http.Handler
	store   *store.Store
	cut     models.Service
	laser   models.Service
	alice   models.Technician
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zerolog.New(io.Discard)

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	ctx := context.Background()
	cut := models.Service{Name: "Cut", Category: "Hair", Duration: 30, Price: 100}
	require.NoError(t, st.CreateService(ctx, &cut))
	laser := models.Service{Name: "Laser removal", Category: "Laser", Duration: 45, Price: 300}
	require.NoError(t, st.CreateService(ctx, &laser))

	alice := models.Technician{Name: "alice", UserID: "u-alice", Skills: []string{cut.ID, laser.ID}}
	require.NoError(t, st.CreateTechnician(ctx, &alice))

	gen := schedule.NewGenerator(schedule.DefaultHours())
	svc := booking.NewService(st, nil, gen, logger)
	server := NewServer(st, svc, gen, logger)

	return &testEnv{
		handler: server.Handler(nil),
		store:   st,
		cut:     cut,
		laser:   laser,
		alice:   alice,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, actor models.Actor) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if actor.UID != "" {
		req.Header.Set("X-Actor-UID", actor.UID)
	}
	if actor.Name != "" {
		req.Header.Set("X-Actor-Name", actor.Name)
	}
	if actor.Phone != "" {
		req.Header.Set("X-Actor-Phone", actor.Phone)
	}
	if actor.Role != "" {
		req.Header.Set("X-Actor-Role", string(actor.Role))
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

var (
	clientActor = models.Actor{UID: "u1", Name: "Client", Phone: "555", Role: models.RoleClient}
	adminActor  = models.Actor{UID: "u0", Name: "Owner", Role: models.RoleAdmin}
)

func TestSlotsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet,
		"/api/slots?tech_id="+env.alice.ID+"&date="+monday+"&service_ids="+env.cut.ID,
		nil, clientActor)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SlotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, schedule.ReasonOpen, resp.Reason)
	require.NotEmpty(t, resp.Slots)
	assert.Equal(t, "10:00", resp.Slots[0].Time)

	t.Run("missing params", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/slots?date="+monday, nil, clientActor)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown service", func(t *testing.T) {
		rec := env.do(t, http.MethodGet,
			"/api/slots?tech_id="+env.alice.ID+"&date="+monday+"&service_ids=nope",
			nil, clientActor)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("closed sunday", func(t *testing.T) {
		rec := env.do(t, http.MethodGet,
			"/api/slots?tech_id="+env.alice.ID+"&date=2026-03-01&service_ids="+env.cut.ID,
			nil, clientActor)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp SlotsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, schedule.ReasonClosed, resp.Reason)
	})
}

func TestServicesEndpoint_LaserVisibility(t *testing.T) {
	env := newTestEnv(t)

	count := func(actor models.Actor) int {
		rec := env.do(t, http.MethodGet, "/api/services?date="+monday, nil, actor)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Services []models.Service `json:"services"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return len(resp.Services)
	}

	assert.Equal(t, 1, count(clientActor))
	assert.Equal(t, 2, count(adminActor))

	rec := env.do(t, http.MethodPost, "/api/admin/laser-dates/toggle",
		ToggleLaserDateRequest{Date: monday}, adminActor)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, count(clientActor))
}

func TestBookingFlow(t *testing.T) {
	env := newTestEnv(t)

	create := CreateBookingRequest{
		TechID:     env.alice.ID,
		Date:       monday,
		Time:       "10:00",
		ServiceIDs: []string{env.cut.ID},
	}

	rec := env.do(t, http.MethodPost, "/api/bookings", create, clientActor)
	require.Equal(t, http.StatusCreated, rec.Code)

	var appt models.Appointment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &appt))
	assert.Equal(t, models.StatusConfirmed, appt.Status)
	assert.Equal(t, float64(100), appt.Price)

	t.Run("same slot conflicts", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/bookings", create, clientActor)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("client sees own booking", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/bookings", nil, clientActor)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp booking.ClientAppointments
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		total := len(resp.Upcoming) + len(resp.Pending) + len(resp.Past)
		assert.Equal(t, 1, total)
	})

	t.Run("cancel then rebook", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/bookings/"+appt.ID+"/cancel", nil, clientActor)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = env.do(t, http.MethodPost, "/api/bookings", create, clientActor)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewReader([]byte("{")))
		recorder := httptest.NewRecorder()
		env.handler.ServeHTTP(recorder, req)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestConfirmFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// A consultation that needs admin approval.
	consult := models.Service{Name: "Consultation", Duration: 15, RequiresConfirmation: true}
	require.NoError(t, env.store.CreateService(ctx, &consult))
	require.NoError(t, env.store.UpdateTechnicianSkills(ctx, env.alice.ID,
		[]string{env.cut.ID, env.laser.ID, consult.ID}))

	rec := env.do(t, http.MethodPost, "/api/bookings", CreateBookingRequest{
		TechID: env.alice.ID, Date: monday, Time: "12:00", ServiceIDs: []string{consult.ID},
	}, clientActor)
	require.Equal(t, http.StatusCreated, rec.Code)
	var appt models.Appointment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &appt))
	require.Equal(t, models.StatusPending, appt.Status)

	t.Run("client cannot confirm", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/bookings/"+appt.ID+"/confirm", nil, clientActor)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("admin confirms", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/bookings/"+appt.ID+"/confirm", nil, adminActor)
		require.Equal(t, http.StatusOK, rec.Code)
		var got models.Appointment
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, models.StatusConfirmed, got.Status)
	})
}

func TestAdminEndpoints_RequireAdmin(t *testing.T) {
	env := newTestEnv(t)

	paths := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodPost, "/api/admin/services", CreateServiceRequest{Name: "X", Duration: 10}},
		{http.MethodDelete, "/api/admin/services/" + env.cut.ID, nil},
		{http.MethodPost, "/api/admin/technicians", CreateTechnicianRequest{Name: "bob"}},
		{http.MethodDelete, "/api/admin/technicians/" + env.alice.ID, nil},
		{http.MethodPut, "/api/admin/technicians/" + env.alice.ID + "/skills", UpdateSkillsRequest{}},
		{http.MethodGet, "/api/admin/laser-dates", nil},
		{http.MethodPost, "/api/admin/laser-dates/toggle", ToggleLaserDateRequest{Date: monday}},
		{http.MethodGet, "/api/reports", nil},
		{http.MethodGet, "/api/reports/export", nil},
	}
	for _, p := range paths {
		rec := env.do(t, p.method, p.path, p.body, clientActor)
		assert.Equal(t, http.StatusForbidden, rec.Code, "%s %s", p.method, p.path)
	}
}

func TestReportEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/bookings", CreateBookingRequest{
		TechID: env.alice.ID, Date: monday, Time: "10:00", ServiceIDs: []string{env.cut.ID},
	}, clientActor)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/reports?kind=weekly&date="+monday, nil, adminActor)
	require.Equal(t, http.StatusOK, rec.Code)

	var m struct {
		TotalRevenue     float64 `json:"total_revenue"`
		AppointmentCount int     `json:"appointment_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	assert.Equal(t, float64(100), m.TotalRevenue)
	assert.Equal(t, 1, m.AppointmentCount)

	t.Run("xlsx export", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/reports/export?kind=weekly&date="+monday, nil, adminActor)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
		assert.Equal(t, []byte{'P', 'K'}, rec.Body.Bytes()[:2])
	})

	t.Run("week overview", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/reports/week?date="+monday, nil, clientActor)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Days []struct {
				Date      string `json:"date"`
				Confirmed int    `json:"confirmed"`
			} `json:"days"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Days, 7)
		assert.Equal(t, 1, resp.Days[0].Confirmed)
	})
}

func TestTechniciansEndpoint(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	bob := models.Technician{Name: "bob", UserID: "u-bob", Skills: []string{env.cut.ID}}
	require.NoError(t, env.store.CreateTechnician(ctx, &bob))

	list := func(query string, actor models.Actor) []models.Technician {
		rec := env.do(t, http.MethodGet, "/api/technicians"+query, nil, actor)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Technicians []models.Technician `json:"technicians"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return resp.Technicians
	}

	assert.Len(t, list("", clientActor), 2)
	assert.Len(t, list("?service_ids="+env.laser.ID, clientActor), 1)

	specialist := models.Actor{UID: "u-bob", Name: "bob", Role: models.RoleSpecialist}
	got := list("", specialist)
	require.Len(t, got, 1)
	assert.Equal(t, "bob", got[0].Name)
}

func TestNotificationsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.store.Notify(ctx, notifyFor("t1")))

	rec := env.do(t, http.MethodGet, "/api/notifications", nil, adminActor)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Notifications []struct {
			ID   string `json:"id"`
			Read bool   `json:"read"`
		} `json:"notifications"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Notifications, 1)

	rec = env.do(t, http.MethodPost, "/api/notifications/"+resp.Notifications[0].ID+"/read", nil, adminActor)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/notifications/missing/read", nil, adminActor)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
