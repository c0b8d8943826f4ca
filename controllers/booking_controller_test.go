package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/vastuconnect/booking_backend/models"
	"github.com/vastuconnect/booking_backend/services"
)

type fakeBookings struct {
	createErr  error
	created    *models.CreateBookingRequest
	filter     models.BookingFilter
	updateID   string
	updateReq  models.UpdateBookingRequest
	listBAFor  string
	getResults map[string]*models.Booking
}

func (f *fakeBookings) CreateBooking(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = &req
	return &models.Booking{ID: "b-1", ClientName: req.ClientName, Status: models.BookingStatusPending}, nil
}

func (f *fakeBookings) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	if b, ok := f.getResults[id]; ok {
		return b, nil
	}
	return nil, services.NotFoundErrorf("Booking not found")
}

func (f *fakeBookings) UpdateBooking(ctx context.Context, id string, req models.UpdateBookingRequest) (*models.Booking, error) {
	f.updateID, f.updateReq = id, req
	return &models.Booking{ID: id, Status: req.Status}, nil
}

func (f *fakeBookings) ListBookings(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	f.filter = filter
	return []models.Booking{{ID: "b-1"}}, nil
}

func (f *fakeBookings) ListBABookings(ctx context.Context, baID string) ([]models.Booking, error) {
	f.listBAFor = baID
	return []models.Booking{{ID: "b-1"}, {ID: "b-2"}}, nil
}

func (f *fakeBookings) BookingStats(ctx context.Context) (*models.BookingStats, error) {
	return nil, errors.New("aggregate timed out")
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) models.Response {
	t.Helper()
	var resp models.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return resp
}

const validBookingBody = `{"clientName":"Asha Rao","clientEmail":"asha@example.com","clientPhone":"9876543210",
	"serviceType":"RESIDENTIAL_VASTU","preferredDate":"2099-01-15","preferredTime":"10:30 AM","referralCode":"BAONE"}`

func TestCreateBookingHandler(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		serviceErr  error
		wantStatus  int
		wantMessage string
	}{
		{"created", validBookingBody, nil, http.StatusCreated, "Booking created successfully. We will contact you soon."},
		{"malformed json", `{"clientName":`, nil, http.StatusBadRequest, "Invalid request body"},
		{"bad email", strings.Replace(validBookingBody, "asha@example.com", "asha", 1), nil, http.StatusBadRequest, "Invalid value for ClientEmail (email)"},
		{"missing name", strings.Replace(validBookingBody, `"Asha Rao"`, `""`, 1), nil, http.StatusBadRequest, "Invalid value for ClientName (required)"},
		{"service validation", validBookingBody, services.ValidationErrorf("Please select a date in the future."), http.StatusBadRequest, "Please select a date in the future."},
		{"conflict", validBookingBody, services.ConflictErrorf("busy"), http.StatusConflict, "busy"},
		{"internal", validBookingBody, services.InternalError("Failed to create booking", errors.New("socket closed")), http.StatusInternalServerError, "Failed to create booking"},
		{"foreign error", validBookingBody, errors.New("boom"), http.StatusInternalServerError, "Something went wrong. Please try again later."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeBookings{createErr: tt.serviceErr}
			e := newTestEcho()
			e.POST("/api/bookings", NewBookingController(fake).CreateBooking)

			req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			resp := decodeResponse(t, rec)
			if resp.Status != tt.wantStatus || resp.Message != tt.wantMessage {
				t.Errorf("response = %+v", resp)
			}
			if tt.wantStatus == http.StatusCreated {
				if fake.created == nil || fake.created.ReferralCode != "BAONE" || fake.created.PreferredDate.Year() != 2099 {
					t.Errorf("service got %+v", fake.created)
				}
			}
		})
	}
}

func TestGetBookingHandler(t *testing.T) {
	fake := &fakeBookings{getResults: map[string]*models.Booking{"b-1": {ID: "b-1"}}}
	e := newTestEcho()
	e.GET("/api/bookings/:id", NewBookingController(fake).GetBooking)

	for path, want := range map[string]int{
		"/api/bookings/b-1":     http.StatusOK,
		"/api/bookings/missing": http.StatusNotFound,
	} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != want {
			t.Errorf("GET %s = %d, want %d", path, rec.Code, want)
		}
	}
}

func TestListBookingsHandlerFilters(t *testing.T) {
	fake := &fakeBookings{}
	e := newTestEcho()
	e.GET("/api/admin/bookings", NewBookingController(fake).ListBookings)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/bookings?status=CONFIRMED&serviceType=LAND_ENERGY&startDate=2025-01-01", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if fake.filter.Status != "CONFIRMED" || fake.filter.ServiceType != "LAND_ENERGY" {
		t.Errorf("filter = %+v", fake.filter)
	}
	if fake.filter.StartDate == nil || fake.filter.StartDate.Format("2006-01-02") != "2025-01-01" || fake.filter.EndDate != nil {
		t.Errorf("date filter = %v / %v", fake.filter.StartDate, fake.filter.EndDate)
	}

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/bookings?endDate=yesterday", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad endDate: status = %d, want 400", rec.Code)
	}
}

func TestUpdateBookingHandler(t *testing.T) {
	fake := &fakeBookings{}
	e := newTestEcho()
	e.PATCH("/api/admin/bookings/:id", NewBookingController(fake).UpdateBooking)

	send := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPatch, "/api/admin/bookings/b-9", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	if rec := send(`{"status":"CONFIRMED","serviceAmount":15000}`); rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rec.Code, rec.Body.String())
	}
	if fake.updateID != "b-9" || fake.updateReq.Status != models.BookingStatusConfirmed || *fake.updateReq.ServiceAmount != 15000 {
		t.Errorf("service got %s %+v", fake.updateID, fake.updateReq)
	}

	if rec := send(`{"status":"ARCHIVED"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown status: %d, want 400", rec.Code)
	}
	if rec := send(`{"serviceAmount":-1}`); rec.Code != http.StatusBadRequest {
		t.Errorf("negative amount: %d, want 400", rec.Code)
	}
}

func TestListBABookingsHandler(t *testing.T) {
	fake := &fakeBookings{}
	e := newTestEcho()
	e.GET("/api/ba/bookings", func(c echo.Context) error {
		c.Set("userId", "ba-7")
		return NewBookingController(fake).ListBABookings(c)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ba/bookings", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if fake.listBAFor != "ba-7" {
		t.Errorf("listed bookings for %q, want ba-7", fake.listBAFor)
	}

	var resp struct {
		Data struct {
			Total int `json:"total"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Total != 2 {
		t.Errorf("total = %d, want 2", resp.Data.Total)
	}
}

func TestBookingStatsHandlerHidesForeignErrors(t *testing.T) {
	e := newTestEcho()
	e.GET("/api/admin/bookings/stats", NewBookingController(&fakeBookings{}).BookingStats)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/bookings/stats", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "aggregate timed out") {
		t.Errorf("internal error leaked: %s", rec.Body.String())
	}
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name   string
		checks map[string]HealthCheck
		want   int
	}{
		{"all up", map[string]HealthCheck{"database": func(context.Context) error { return nil }}, http.StatusOK},
		{"redis down", map[string]HealthCheck{
			"database": func(context.Context) error { return nil },
			"redis":    func(context.Context) error { return errors.New("dial tcp: refused") },
		}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEcho()
			e.GET("/health", NewHealthController(tt.checks).Health)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
