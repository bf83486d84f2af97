//go:build unit || e2e

package builder

import (
	"time"

	dombooking "booking-core/internal/domain/booking"
	reqdto "booking-core/internal/handler/dto/request"
	"booking-core/internal/usecase/queries"
	"booking-core/internal/usecase/shared"

	"github.com/google/uuid"
)

// BaseTime is a Monday morning in UTC so default intervals trigger neither
// the weekend nor the after-hours rule.
var BaseTime = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

type BookingBuilder struct {
	CustomerID      uuid.UUID
	VendorID        uuid.UUID
	ServiceID       uuid.UUID
	ServiceName     string
	PricingOptionID *uuid.UUID
	RequestedStart  time.Time
	RequestedEnd    time.Time
	Message         string
	Phone           string
	Address         string
	Now             time.Time
}

func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		CustomerID:     uuid.New(),
		VendorID:       uuid.New(),
		ServiceID:      uuid.New(),
		ServiceName:    "Deep Cleaning",
		RequestedStart: BaseTime,
		RequestedEnd:   BaseTime.Add(2 * time.Hour),
		Message:        "Please bring supplies",
		Phone:          "+1-555-0100",
		Address:        "12 Main St",
		Now:            BaseTime.Add(-24 * time.Hour),
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) BuildDomain() (*dombooking.Booking, error) {
	slot, err := dombooking.NewTimeSlot(b.RequestedStart, b.RequestedEnd)
	if err != nil {
		return nil, err
	}
	return dombooking.NewBooking(dombooking.NewBookingParams{
		CustomerID:      b.CustomerID,
		VendorID:        b.VendorID,
		ServiceID:       b.ServiceID,
		PricingOptionID: b.PricingOptionID,
		Requested:       slot,
		CustomerMessage: b.Message,
		CustomerPhone:   b.Phone,
		CustomerAddress: b.Address,
	}, b.Now)
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		ServiceID:       b.ServiceID,
		PricingOptionID: b.PricingOptionID,
		RequestedStart:  b.RequestedStart,
		RequestedEnd:    b.RequestedEnd,
		Message:         &b.Message,
		Phone:           &b.Phone,
		Address:         &b.Address,
	}
}

func (b *BookingBuilder) BuildProposeAlternativeDTO() reqdto.ProposeAlternativeRequest {
	msg := "That slot is taken, how about the next morning?"
	return reqdto.ProposeAlternativeRequest{
		Start:   b.RequestedStart.Add(24 * time.Hour),
		End:     b.RequestedEnd.Add(24 * time.Hour),
		Message: &msg,
	}
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	id := uuid.New()
	return &queries.BookingView{
		ID:              id,
		BookingNumber:   "BK-20260302-A1B2C3",
		CustomerID:      b.CustomerID,
		VendorID:        b.VendorID,
		ServiceID:       b.ServiceID,
		ServiceName:     b.ServiceName,
		PricingOptionID: b.PricingOptionID,
		RequestedStart:  b.RequestedStart,
		RequestedEnd:    b.RequestedEnd,
		Status:          dombooking.StatusPending.String(),
		CreatedAt:       b.Now,
		UpdatedAt:       b.Now,
	}
}

func (b *BookingBuilder) BuildListItem() *queries.BookingListItem {
	total := int64(21000)
	return &queries.BookingListItem{
		ID:            uuid.New(),
		BookingNumber: "BK-20260302-A1B2C3",
		ServiceID:     b.ServiceID,
		ServiceName:   b.ServiceName,
		Status:        dombooking.StatusPending.String(),
		Start:         b.RequestedStart,
		End:           b.RequestedEnd,
		TotalCents:    &total,
		CreatedAt:     b.Now,
	}
}

func (b *BookingBuilder) BuildPricingContext() *shared.PricingContext {
	return &shared.PricingContext{
		ServiceID:       b.ServiceID,
		VendorID:        b.VendorID,
		ServiceName:     b.ServiceName,
		HourlyRateCents: 2000,
		DailyRateCents:  10000,
		Currency:        "USD",
		IsActive:        true,
	}
}
