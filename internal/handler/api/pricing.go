package api

import (
	"net/http"

	reqdto "booking-core/internal/handler/dto/request"
	resdto "booking-core/internal/handler/dto/response"
	"booking-core/internal/handler/httperr"
	"booking-core/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type PricingHandler struct {
	pricingQueries queries.PricingQueries
}

func NewPricingHandler(pricingQueries queries.PricingQueries) *PricingHandler {
	return &PricingHandler{pricingQueries: pricingQueries}
}

// @Summary Preview price
// @Description Quote a window without creating a booking; uses the same calculator as acceptance
// @Tags pricing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.PricePreviewRequest true "Preview request"
// @Success 200 {object} resdto.PriceBreakdownResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /pricing/preview [post]
func (h *PricingHandler) Preview(c *gin.Context) {
	var req reqdto.PricePreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	bd, err := h.pricingQueries.Preview(c.Request.Context(), req.ServiceID, req.PricingOptionID, req.Start, req.End)
	if err != nil {
		abortUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBreakdown(bd))
}
