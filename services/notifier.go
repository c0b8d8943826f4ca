package services

import (
	"fmt"
	"time"

	"github.com/vastuconnect/booking_backend/config"
	"github.com/vastuconnect/booking_backend/models"
	"github.com/vastuconnect/booking_backend/utils"
)

// Notifier tells clients about their bookings. Delivery is best effort.
type Notifier interface {
	BookingReceived(booking *models.Booking)
	BookingConfirmed(booking *models.Booking)
}

// EventPublisher pushes live events to admin dashboards
type EventPublisher interface {
	Publish(event models.Event)
}

type nopNotifier struct{}

func (nopNotifier) BookingReceived(*models.Booking)  {}
func (nopNotifier) BookingConfirmed(*models.Booking) {}

type nopPublisher struct{}

func (nopPublisher) Publish(models.Event) {}

// EmailNotifier mails booking updates to the client
type EmailNotifier struct {
	mailer *utils.Mailer
}

// NewNotifier returns an email notifier, or a no-op one when SMTP is unset
func NewNotifier(mailer *utils.Mailer) Notifier {
	if !mailer.Enabled() {
		return nopNotifier{}
	}
	return &EmailNotifier{mailer: mailer}
}

func (n *EmailNotifier) BookingReceived(booking *models.Booking) {
	body := fmt.Sprintf("Dear %s,\n\nWe have received your %s booking for %s at %s.\nOur team will confirm it shortly.\n\nBooking reference: %s",
		booking.ClientName, serviceLabel(booking.ServiceType),
		booking.PreferredDate.Format("02 Jan 2006"), booking.PreferredTime, booking.ID)
	n.send(booking, "Booking received", body)
}

func (n *EmailNotifier) BookingConfirmed(booking *models.Booking) {
	body := fmt.Sprintf("Dear %s,\n\nYour %s booking on %s at %s is confirmed.\n\nBooking reference: %s",
		booking.ClientName, serviceLabel(booking.ServiceType),
		booking.PreferredDate.Format("02 Jan 2006"), booking.PreferredTime, booking.ID)
	n.send(booking, "Booking confirmed", body)
}

// send runs in the background so SMTP latency never holds a request
func (n *EmailNotifier) send(booking *models.Booking, subject, body string) {
	go func() {
		if err := n.mailer.SendEmail(booking.ClientEmail, subject, body); err != nil {
			config.LogError(config.GetLogger(), "EmailNotifier", "send", subject, booking.ID, err)
		}
	}()
}

func serviceLabel(serviceType string) string {
	switch serviceType {
	case models.ServiceBusinessVastu:
		return "Business Vastu"
	case models.ServiceResidentialVastu:
		return "Residential Vastu"
	case models.ServiceHealingSession:
		return "Healing Session"
	case models.ServiceLandEnergy:
		return "Land Energy"
	}
	return serviceType
}

func newEvent(eventType string, data interface{}, at time.Time) models.Event {
	return models.Event{Type: eventType, Data: data, Timestamp: at}
}
