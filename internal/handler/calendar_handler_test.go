package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorlink/tutorlink-api/internal/models"
	"github.com/tutorlink/tutorlink-api/internal/service"
	"github.com/tutorlink/tutorlink-api/pkg/response"
)

type calendarAvailabilityStub struct {
	tpl *models.AvailabilityTemplate
}

func (s *calendarAvailabilityStub) GetTemplate(ctx context.Context, tutorID string) (*models.AvailabilityTemplate, error) {
	return s.tpl, nil
}

type calendarBookingsStub struct {
	bookings []models.Booking
}

func (s *calendarBookingsStub) ListForTutorRange(ctx context.Context, tutorID, from, to string) ([]models.Booking, error) {
	return s.bookings, nil
}

func newCalendarHandler() *CalendarHandler {
	availability := &calendarAvailabilityStub{tpl: &models.AvailabilityTemplate{
		TutorID: "tutor-1",
		Days: map[string]models.TimeSlot{
			"Mon": {Enabled: true, Start: "09:00", End: "17:00"},
		},
	}}
	svc := service.NewCalendarService(availability, &calendarBookingsStub{}, nil, 0, nil, nil)
	return NewCalendarHandler(svc)
}

func TestCalendarHandlerMonth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newCalendarHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/tutors/tutor-1/calendar?year=2025&month=11", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "tutor-1"}}

	handler.Month(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	grid, err := json.Marshal(envelope.Data)
	require.NoError(t, err)

	var month models.MonthGrid
	require.NoError(t, json.Unmarshal(grid, &month))
	assert.Equal(t, "tutor-1", month.TutorID)
	assert.Equal(t, 11, month.Month)
	assert.Len(t, month.Days, 30)
}

func TestCalendarHandlerMonthMissingParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newCalendarHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/tutors/tutor-1/calendar", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "tutor-1"}}

	handler.Month(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCalendarHandlerMonthOutOfRange(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newCalendarHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/tutors/tutor-1/calendar?year=2025&month=13", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "tutor-1"}}

	handler.Month(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
