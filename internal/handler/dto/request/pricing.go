package request

import (
	"time"

	"github.com/google/uuid"
)

type PricePreviewRequest struct {
	ServiceID       uuid.UUID  `json:"service_id" binding:"required"`
	PricingOptionID *uuid.UUID `json:"pricing_option_id,omitempty"`
	Start           time.Time  `json:"start" binding:"required"`
	End             time.Time  `json:"end" binding:"required"`
}
