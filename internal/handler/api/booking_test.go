//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"booking-core/internal/domain/booking"
	"booking-core/internal/handler/api"
	resdto "booking-core/internal/handler/dto/response"
	"booking-core/internal/usecase/commands"
	"booking-core/internal/usecase/queries"
	"booking-core/tests/common/builder"
	"booking-core/tests/common/httptest"
	"booking-core/tests/common/testutil"
	commandsmock "booking-core/tests/mock/commands"
	queriesmock "booking-core/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockBookingQueries
	handler      *api.BookingHandler

	// identity injected by the fake auth middleware for the current test
	actor booking.Actor
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.handler = api.NewBookingHandler(s.mockCommands, s.mockQueries)

	s.actor = booking.Actor{ID: uuid.New(), Role: booking.RoleCustomer}

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("actor", s.actor)
		c.Next()
	}

	// Setup routes
	s.router.POST("/bookings", authMiddleware, s.handler.Create)
	s.router.GET("/bookings", authMiddleware, s.handler.List)
	s.router.GET("/bookings/:id", authMiddleware, s.handler.Get)
	s.router.POST("/bookings/:id/accept", authMiddleware, s.handler.Accept)
	s.router.POST("/bookings/:id/reject", authMiddleware, s.handler.Reject)
	s.router.POST("/bookings/:id/alternative", authMiddleware, s.handler.ProposeAlternative)
	s.router.POST("/bookings/:id/start", authMiddleware, s.handler.Start)
	s.router.POST("/bookings/:id/complete", authMiddleware, s.handler.Complete)
	s.router.POST("/bookings/:id/cancel", authMiddleware, s.handler.Cancel)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

type testCaseBooking struct {
	name       string
	mutate     func(m map[string]any)
	expectCode int
}

// ================================================================================
// TestCreate
// ================================================================================

func (s *BookingHandlerTestSuite) TestCreate() {
	url := "/bookings"

	reqBody := builder.NewBookingBuilder().BuildCreateRequestDTO()
	returnView := builder.NewBookingBuilder().BuildView()

	s.Run("success: returns 201 Created for valid request", func() {
		s.mockCommands.EXPECT().Create(gomock.Any(), s.actor, gomock.Any()).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(returnView.ID, response.ID)
		s.Equal("pending", response.Status)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		missing := []testCaseBooking{
			{name: "missing field: service_id (required)", mutate: testutil.Field("service_id", nil), expectCode: http.StatusBadRequest},
			{name: "missing field: requested_start (required)", mutate: testutil.Field("requested_start", nil), expectCode: http.StatusBadRequest},
			{name: "missing field: requested_end (required)", mutate: testutil.Field("requested_end", nil), expectCode: http.StatusBadRequest},
		}

		for _, tc := range missing {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "")
			})
		}
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
		}{
			{name: "service not found", commandsError: commands.ErrServiceNotFound, expectedStatus: http.StatusNotFound},
			{name: "service inactive", commandsError: commands.ErrServiceInactive, expectedStatus: http.StatusUnprocessableEntity},
			{name: "domain validation", commandsError: commands.ErrDomainValidation, expectedStatus: http.StatusUnprocessableEntity},
			{name: "invalid interval", commandsError: queries.ErrInvalidInterval, expectedStatus: http.StatusBadRequest},
			{name: "currency mismatch", commandsError: queries.ErrCurrencyMismatch, expectedStatus: http.StatusBadRequest},
			{name: "internal server error", commandsError: errors.New("database error"), expectedStatus: http.StatusInternalServerError},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Create(gomock.Any(), s.actor, gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, "")
			})
		}
	})
}

// ================================================================================
// TestGet
// ================================================================================

func (s *BookingHandlerTestSuite) TestGet() {
	bookingID := uuid.New()
	url := "/bookings/" + bookingID.String()

	returnView := builder.NewBookingBuilder().BuildView()
	returnView.ID = bookingID

	s.Run("success: returns 200 OK with BookingResponse", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.actor.ID, bookingID).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(bookingID, response.ID)
		s.Equal(returnView.BookingNumber, response.BookingNumber)
	})

	s.Run("error: 400 Bad Request for invalid UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/not-a-uuid", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid booking ID")
	})

	s.Run("error: 404 Not Found for missing booking", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.actor.ID, bookingID).
			Return(nil, queries.ErrBookingNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Booking not found")
	})

	s.Run("error: 403 Forbidden for a third party", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.actor.ID, bookingID).
			Return(nil, queries.ErrAccessDenied).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Not allowed")
	})
}

// ================================================================================
// TestList
// ================================================================================

func (s *BookingHandlerTestSuite) TestList() {
	listItem := builder.NewBookingBuilder().BuildListItem()

	s.Run("success: customer listing uses the customer query", func() {
		s.mockQueries.EXPECT().ListByCustomer(gomock.Any(), s.actor.ID, gomock.Nil(), 0).
			Return([]*queries.BookingListItem{listItem}, nil, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings", nil, "bearer-token")

		var response resdto.BookingListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response.Items, 1)
		s.Equal(listItem.ID, response.Items[0].ID)
		s.Nil(response.NextCursor)
	})

	s.Run("success: vendor listing uses the vendor query", func() {
		s.actor = booking.Actor{ID: uuid.New(), Role: booking.RoleVendor}
		s.mockQueries.EXPECT().ListByVendor(gomock.Any(), s.actor.ID, gomock.Nil(), 0).
			Return([]*queries.BookingListItem{listItem}, nil, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings", nil, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)

		s.actor = booking.Actor{ID: uuid.New(), Role: booking.RoleCustomer}
	})

	s.Run("success: limit and cursor are forwarded", func() {
		next := &queries.Cursor{After: "opaque-next"}
		s.mockQueries.EXPECT().ListByCustomer(gomock.Any(), s.actor.ID, &queries.Cursor{After: "opaque-prev"}, 25).
			Return([]*queries.BookingListItem{listItem}, next, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings?limit=25&after=opaque-prev", nil, "bearer-token")

		var response resdto.BookingListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.NotNil(response.NextCursor)
		s.Equal("opaque-next", *response.NextCursor)
	})

	s.Run("error: 400 Bad Request for a malformed cursor", func() {
		s.mockQueries.EXPECT().ListByCustomer(gomock.Any(), s.actor.ID, gomock.Any(), 0).
			Return(nil, nil, queries.ErrInvalidCursor).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings?after=garbage", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "cursor")
	})
}

// ================================================================================
// TestAccept
// ================================================================================

func (s *BookingHandlerTestSuite) TestAccept() {
	bookingID := uuid.New()
	url := "/bookings/" + bookingID.String() + "/accept"

	returnView := builder.NewBookingBuilder().BuildView()
	returnView.ID = bookingID
	returnView.Status = "confirmed"

	s.Run("success: returns 200 OK with the confirmed booking", func() {
		s.mockCommands.EXPECT().Accept(gomock.Any(), s.actor, bookingID).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		var response resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("confirmed", response.Status)
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
		}{
			{name: "overlap conflict", commandsError: commands.ErrBookingConflict, expectedStatus: http.StatusConflict},
			{name: "concurrent modification", commandsError: commands.ErrVersionConflict, expectedStatus: http.StatusConflict},
			{name: "invalid transition", commandsError: commands.ErrInvalidTransition, expectedStatus: http.StatusConflict},
			{name: "wrong actor", commandsError: commands.ErrActorNotAllowed, expectedStatus: http.StatusForbidden},
			{name: "not found", commandsError: commands.ErrBookingNotFound, expectedStatus: http.StatusNotFound},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Accept(gomock.Any(), s.actor, bookingID).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, "")
			})
		}
	})
}

// ================================================================================
// TestReject
// ================================================================================

func (s *BookingHandlerTestSuite) TestReject() {
	bookingID := uuid.New()
	url := "/bookings/" + bookingID.String() + "/reject"

	returnView := builder.NewBookingBuilder().BuildView()
	returnView.ID = bookingID
	returnView.Status = "rejected"

	s.Run("success: returns 200 OK", func() {
		s.mockCommands.EXPECT().Reject(gomock.Any(), s.actor, bookingID, "fully booked").
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"reason": "fully booked"}, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 400 Bad Request when reason is missing", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})
}

// ================================================================================
// TestProposeAlternative
// ================================================================================

func (s *BookingHandlerTestSuite) TestProposeAlternative() {
	bookingID := uuid.New()
	url := "/bookings/" + bookingID.String() + "/alternative"

	b := builder.NewBookingBuilder()
	reqBody := b.BuildProposeAlternativeDTO()
	returnView := b.BuildView()
	returnView.ID = bookingID
	returnView.Status = "alternative_proposed"

	s.Run("success: returns 200 OK with the counter-offer", func() {
		s.mockCommands.EXPECT().ProposeAlternative(gomock.Any(), s.actor, bookingID, gomock.Any()).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response resdto.BookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("alternative_proposed", response.Status)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		missing := []testCaseBooking{
			{name: "missing field: start (required)", mutate: testutil.Field("start", nil), expectCode: http.StatusBadRequest},
			{name: "missing field: end (required)", mutate: testutil.Field("end", nil), expectCode: http.StatusBadRequest},
		}

		for _, tc := range missing {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "")
			})
		}
	})
}

// ================================================================================
// TestStartCompleteCancel
// ================================================================================

func (s *BookingHandlerTestSuite) TestStartCompleteCancel() {
	bookingID := uuid.New()
	returnView := builder.NewBookingBuilder().BuildView()
	returnView.ID = bookingID

	s.Run("start: returns 200 OK", func() {
		returnView.Status = "in_progress"
		s.mockCommands.EXPECT().Start(gomock.Any(), s.actor, bookingID).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings/"+bookingID.String()+"/start", nil, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("start: 422 when the window has not begun", func() {
		s.mockCommands.EXPECT().Start(gomock.Any(), s.actor, bookingID).
			Return(nil, commands.ErrDomainValidation).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings/"+bookingID.String()+"/start", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "")
	})

	s.Run("complete: returns 200 OK", func() {
		returnView.Status = "completed"
		s.mockCommands.EXPECT().Complete(gomock.Any(), s.actor, bookingID).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings/"+bookingID.String()+"/complete", nil, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("cancel: returns 200 OK and forwards the reason", func() {
		returnView.Status = "cancelled"
		s.mockCommands.EXPECT().Cancel(gomock.Any(), s.actor, bookingID, "plans changed").
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings/"+bookingID.String()+"/cancel",
			map[string]any{"reason": "plans changed"}, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("cancel: 409 on terminal booking", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), s.actor, bookingID, "too late").
			Return(nil, commands.ErrInvalidTransition).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings/"+bookingID.String()+"/cancel",
			map[string]any{"reason": "too late"}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "")
	})
}
