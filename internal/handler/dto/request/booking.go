package request

import (
	"strings"
	"time"

	"booking-core/internal/domain/booking"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	ServiceID       uuid.UUID  `json:"service_id" binding:"required"`
	PricingOptionID *uuid.UUID `json:"pricing_option_id,omitempty"`
	RequestedStart  time.Time  `json:"requested_start" binding:"required"`
	RequestedEnd    time.Time  `json:"requested_end" binding:"required"`
	Message         *string    `json:"message,omitempty"`
	Phone           *string    `json:"phone,omitempty"`
	Address         *string    `json:"address,omitempty"`
}

func (r CreateBookingRequest) ToSlot() (booking.TimeSlot, error) {
	return booking.NewTimeSlot(r.RequestedStart, r.RequestedEnd)
}

func (r CreateBookingRequest) GetMessage() string { return deref(r.Message) }
func (r CreateBookingRequest) GetPhone() string   { return deref(r.Phone) }
func (r CreateBookingRequest) GetAddress() string { return deref(r.Address) }

type RejectBookingRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type ProposeAlternativeRequest struct {
	Start   time.Time `json:"start" binding:"required"`
	End     time.Time `json:"end" binding:"required"`
	Message *string   `json:"message,omitempty"`
}

func (r ProposeAlternativeRequest) ToSlot() (booking.TimeSlot, error) {
	return booking.NewTimeSlot(r.Start, r.End)
}

func (r ProposeAlternativeRequest) GetMessage() string { return deref(r.Message) }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
