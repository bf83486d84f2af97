//go:build e2e

package pricing_test

import (
	"net/http"
	"testing"
	"time"

	"booking-core/internal/domain/booking"
	reqdto "booking-core/internal/handler/dto/request"
	resdto "booking-core/internal/handler/dto/response"
	"booking-core/tests/common/authtest"
	"booking-core/tests/common/dbtest"
	"booking-core/tests/common/httptest"
	"booking-core/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const previewURL = "/api/pricing/preview"

type PricingSuite struct {
	e2e.SharedSuite
	jwt *authtest.JWTHelper
}

func (s *PricingSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.jwt = authtest.NewJWTHelper(s.Config.JWT)
}

func TestPricingSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(PricingSuite))
}

func (s *PricingSuite) preview(t *testing.T, token string, req reqdto.PricePreviewRequest) (*resdto.PriceBreakdownResponse, int) {
	t.Helper()

	w := httptest.PerformRequest(t, s.Router, http.MethodPost, previewURL, req, token)
	if w.Code != http.StatusOK {
		return nil, w.Code
	}
	var bd resdto.PriceBreakdownResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &bd))
	return &bd, w.Code
}

func (s *PricingSuite) TestPreview() {
	s.Run("Normal case: hourly quote with the platform fee", func() {
		t := s.T()

		token := s.jwt.GenerateToken(t, uuid.New(), booking.RoleCustomer)
		serviceID := dbtest.CreateTestService(t, s.DB, uuid.New(), 2000, 10000)

		start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour)
		bd, code := s.preview(t, token, reqdto.PricePreviewRequest{
			ServiceID: serviceID,
			Start:     start,
			End:       start.Add(8*time.Hour + 30*time.Minute),
		})
		require.Equal(t, http.StatusOK, code)

		require.Equal(t, "hourly", bd.Method)
		require.Equal(t, 9, bd.TotalHours)
		require.Equal(t, int64(18000), bd.BaseCostCents)
		require.Equal(t, int64(900), bd.PlatformFeeCents)
		require.Equal(t, int64(18900), bd.TotalCents)
		require.Equal(t, "USD", bd.Currency)
	})

	s.Run("Normal case: fixed package bypasses interval math", func() {
		t := s.T()

		token := s.jwt.GenerateToken(t, uuid.New(), booking.RoleCustomer)
		serviceID := dbtest.CreateTestService(t, s.DB, uuid.New(), 2000, 10000)
		optionID := dbtest.CreateTestPricingOption(t, s.DB, serviceID, "Move-out special", 15000, "fixed")

		start := time.Now().UTC().Add(24 * time.Hour)
		bd, code := s.preview(t, token, reqdto.PricePreviewRequest{
			ServiceID:       serviceID,
			PricingOptionID: &optionID,
			Start:           start,
			End:             start.Add(3 * time.Hour),
		})
		require.Equal(t, http.StatusOK, code)

		require.Equal(t, "fixed", bd.Method)
		require.Equal(t, int64(15000), bd.SubtotalCents)
		require.Equal(t, int64(750), bd.PlatformFeeCents)
		require.Equal(t, int64(15750), bd.TotalCents)
	})

	s.Run("Normal case: daily rate for exact multiples of 24h", func() {
		t := s.T()

		token := s.jwt.GenerateToken(t, uuid.New(), booking.RoleCustomer)
		serviceID := dbtest.CreateTestService(t, s.DB, uuid.New(), 2000, 10000)

		start := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Hour)
		bd, code := s.preview(t, token, reqdto.PricePreviewRequest{
			ServiceID: serviceID,
			Start:     start,
			End:       start.Add(48 * time.Hour),
		})
		require.Equal(t, http.StatusOK, code)

		require.Equal(t, "daily", bd.Method)
		require.Equal(t, 2, bd.FullDays)
		require.Equal(t, int64(21000), bd.TotalCents)
	})

	s.Run("Error case: unknown service is 404", func() {
		t := s.T()

		token := s.jwt.GenerateToken(t, uuid.New(), booking.RoleCustomer)
		start := time.Now().UTC().Add(24 * time.Hour)
		_, code := s.preview(t, token, reqdto.PricePreviewRequest{
			ServiceID: uuid.New(),
			Start:     start,
			End:       start.Add(time.Hour),
		})
		require.Equal(t, http.StatusNotFound, code)
	})

	s.Run("Error case: reversed interval is 400", func() {
		t := s.T()

		token := s.jwt.GenerateToken(t, uuid.New(), booking.RoleCustomer)
		serviceID := dbtest.CreateTestService(t, s.DB, uuid.New(), 2000, 10000)

		start := time.Now().UTC().Add(24 * time.Hour)
		_, code := s.preview(t, token, reqdto.PricePreviewRequest{
			ServiceID: serviceID,
			Start:     start,
			End:       start.Add(-time.Hour),
		})
		require.Equal(t, http.StatusBadRequest, code)
	})
}
