package response

import (
	"encoding/json"
	"time"

	"booking-core/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID              uuid.UUID  `json:"id"`
	BookingNumber   string     `json:"bookingNumber"`
	CustomerID      uuid.UUID  `json:"customerId"`
	VendorID        uuid.UUID  `json:"vendorId"`
	ServiceID       uuid.UUID  `json:"serviceId"`
	ServiceName     string     `json:"serviceName"`
	PricingOptionID *uuid.UUID `json:"pricingOptionId,omitempty"`

	RequestedStart       time.Time  `json:"requestedStart"`
	RequestedEnd         time.Time  `json:"requestedEnd"`
	ConfirmedStart       *time.Time `json:"confirmedStart,omitempty"`
	ConfirmedEnd         *time.Time `json:"confirmedEnd,omitempty"`
	AlternativeStart     *time.Time `json:"alternativeStart,omitempty"`
	AlternativeEnd       *time.Time `json:"alternativeEnd,omitempty"`
	AlternativeMessage   *string    `json:"alternativeMessage,omitempty"`
	AlternativeExpiresAt *time.Time `json:"alternativeExpiresAt,omitempty"`

	Message            *string `json:"message,omitempty"`
	Phone              *string `json:"phone,omitempty"`
	Address            *string `json:"address,omitempty"`
	VendorMessage      *string `json:"vendorMessage,omitempty"`
	RejectionReason    *string `json:"rejectionReason,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`

	Status        string          `json:"status"`
	QueuePosition *int32          `json:"queuePosition,omitempty"`
	Breakdown     json.RawMessage `json:"breakdown,omitempty"`

	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	ConfirmedAt *time.Time `json:"confirmedAt,omitempty"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
}

type BookingListItemResponse struct {
	ID            uuid.UUID `json:"id"`
	BookingNumber string    `json:"bookingNumber"`
	ServiceID     uuid.UUID `json:"serviceId"`
	ServiceName   string    `json:"serviceName"`
	Status        string    `json:"status"`
	QueuePosition *int32    `json:"queuePosition,omitempty"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	TotalCents    *int64    `json:"totalCents,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

type BookingListResponse struct {
	Items      []*BookingListItemResponse `json:"items"`
	NextCursor *string                    `json:"nextCursor,omitempty"`
}

func FromBookingView(view *queries.BookingView) *BookingResponse {
	return &BookingResponse{
		ID:              view.ID,
		BookingNumber:   view.BookingNumber,
		CustomerID:      view.CustomerID,
		VendorID:        view.VendorID,
		ServiceID:       view.ServiceID,
		ServiceName:     view.ServiceName,
		PricingOptionID: view.PricingOptionID,

		RequestedStart:       view.RequestedStart,
		RequestedEnd:         view.RequestedEnd,
		ConfirmedStart:       view.ConfirmedStart,
		ConfirmedEnd:         view.ConfirmedEnd,
		AlternativeStart:     view.AlternativeStart,
		AlternativeEnd:       view.AlternativeEnd,
		AlternativeMessage:   view.AlternativeMessage,
		AlternativeExpiresAt: view.AlternativeExpiresAt,

		Message:            view.CustomerMessage,
		Phone:              view.CustomerPhone,
		Address:            view.CustomerAddress,
		VendorMessage:      view.VendorMessage,
		RejectionReason:    view.RejectionReason,
		CancellationReason: view.CancellationReason,

		Status:        view.Status,
		QueuePosition: view.QueuePosition,
		Breakdown:     view.Breakdown,

		CreatedAt:   view.CreatedAt,
		UpdatedAt:   view.UpdatedAt,
		ConfirmedAt: view.ConfirmedAt,
		StartedAt:   view.StartedAt,
		CompletedAt: view.CompletedAt,
		CancelledAt: view.CancelledAt,
	}
}

func FromBookingList(items []*queries.BookingListItem, next *queries.Cursor) *BookingListResponse {
	resp := &BookingListResponse{
		Items: make([]*BookingListItemResponse, 0, len(items)),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, &BookingListItemResponse{
			ID:            item.ID,
			BookingNumber: item.BookingNumber,
			ServiceID:     item.ServiceID,
			ServiceName:   item.ServiceName,
			Status:        item.Status,
			QueuePosition: item.QueuePosition,
			Start:         item.Start,
			End:           item.End,
			TotalCents:    item.TotalCents,
			CreatedAt:     item.CreatedAt,
		})
	}
	if next != nil && next.After != "" {
		resp.NextCursor = &next.After
	}
	return resp
}
