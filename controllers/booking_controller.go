package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/vastuconnect/booking_backend/middleware"
	"github.com/vastuconnect/booking_backend/models"
)

// BookingManager is the booking behaviour the HTTP layer needs
type BookingManager interface {
	CreateBooking(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	UpdateBooking(ctx context.Context, id string, req models.UpdateBookingRequest) (*models.Booking, error)
	ListBookings(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error)
	ListBABookings(ctx context.Context, baID string) ([]models.Booking, error)
	BookingStats(ctx context.Context) (*models.BookingStats, error)
}

// BookingController handles booking-related API endpoints
type BookingController struct {
	bookings BookingManager
}

// NewBookingController creates a new booking controller
func NewBookingController(bookings BookingManager) *BookingController {
	return &BookingController{bookings: bookings}
}

// CreateBooking handles a public booking request
func (bc *BookingController) CreateBooking(c echo.Context) error {
	var req models.CreateBookingRequest
	if msg, ok := bindAndValidate(c, &req); !ok {
		return respond(c, http.StatusBadRequest, msg, nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	booking, err := bc.bookings.CreateBooking(ctx, req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "Booking created successfully. We will contact you soon.", booking)
}

func (bc *BookingController) GetBooking(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	booking, err := bc.bookings.GetBooking(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Booking retrieved successfully", booking)
}

// ListBookings returns bookings for the admin, filtered by query parameters
func (bc *BookingController) ListBookings(c echo.Context) error {
	filter := models.BookingFilter{
		ServiceType: strings.TrimSpace(c.QueryParam("serviceType")),
		Status:      strings.TrimSpace(c.QueryParam("status")),
	}
	var err error
	if filter.StartDate, err = parseDateParam(c.QueryParam("startDate")); err != nil {
		return respond(c, http.StatusBadRequest, "Invalid startDate", nil)
	}
	if filter.EndDate, err = parseDateParam(c.QueryParam("endDate")); err != nil {
		return respond(c, http.StatusBadRequest, "Invalid endDate", nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	bookings, err := bc.bookings.ListBookings(ctx, filter)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Bookings retrieved successfully", bookings)
}

// UpdateBooking applies an admin status/notes/amount change
func (bc *BookingController) UpdateBooking(c echo.Context) error {
	var req models.UpdateBookingRequest
	if msg, ok := bindAndValidate(c, &req); !ok {
		return respond(c, http.StatusBadRequest, msg, nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	booking, err := bc.bookings.UpdateBooking(ctx, c.Param("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Booking updated successfully", booking)
}

func (bc *BookingController) BookingStats(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	stats, err := bc.bookings.BookingStats(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Booking statistics retrieved successfully", stats)
}

// ListBABookings returns the bookings referred by the calling BA
func (bc *BookingController) ListBABookings(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	bookings, err := bc.bookings.ListBABookings(ctx, middleware.GetUserIDFromToken(c))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Bookings retrieved successfully", map[string]interface{}{
		"bookings": bookings,
		"total":    len(bookings),
	})
}

func parseDateParam(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := models.ParseFlexibleDate(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
