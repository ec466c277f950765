package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorlink/tutorlink-api/internal/middleware"
	"github.com/tutorlink/tutorlink-api/internal/models"
	"github.com/tutorlink/tutorlink-api/internal/service"
	appErrors "github.com/tutorlink/tutorlink-api/pkg/errors"
)

type handlerBookingStore struct {
	bookings map[string]*models.Booking
}

func (s *handlerBookingStore) Create(ctx context.Context, b *models.Booking) error {
	s.bookings[b.ID] = b
	return nil
}

func (s *handlerBookingStore) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
	}
	return b, nil
}

func (s *handlerBookingStore) ListForStudent(ctx context.Context, studentID string) ([]models.Booking, error) {
	return nil, nil
}

func (s *handlerBookingStore) UpdateStatus(ctx context.Context, id string, from, to models.BookingStatus, reason *string) (*models.Booking, error) {
	b := s.bookings[id]
	b.Status = to
	return b, nil
}

func (s *handlerBookingStore) SetProposal(ctx context.Context, id, date, start, end string) (*models.Booking, error) {
	return s.bookings[id], nil
}

func (s *handlerBookingStore) ApplyProposal(ctx context.Context, id string) (*models.Booking, error) {
	return s.bookings[id], nil
}

func (s *handlerBookingStore) ListRecentPast(ctx context.Context, tutorID, before string, limit int) ([]models.Booking, int, error) {
	return nil, 0, nil
}

func (s *handlerBookingStore) ListUpcoming(ctx context.Context, tutorID, from string, limit int) ([]models.Booking, int, error) {
	return nil, 0, nil
}

func (s *handlerBookingStore) ListUnsettledPast(ctx context.Context, before string, limit int) ([]models.Booking, error) {
	return nil, nil
}

func (s *handlerBookingStore) MarkSettled(ctx context.Context, id string) error { return nil }

type handlerTutorReader struct{}

func (handlerTutorReader) GetByUserID(ctx context.Context, userID string) (*models.TutorProfile, error) {
	return &models.TutorProfile{UserID: userID, HourlyRate: 40, Approval: models.TutorApproved}, nil
}

type handlerUserReader struct{}

func (handlerUserReader) FindByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	return map[string]*models.User{}, nil
}

type handlerSlotChecker struct{}

func (handlerSlotChecker) DayStatus(ctx context.Context, tutorID, date string) (*models.DaySlot, error) {
	return &models.DaySlot{Date: date, Status: models.SlotAvailable, Start: "08:00", End: "20:00"}, nil
}

type handlerEscrow struct{}

func (handlerEscrow) Hold(ctx context.Context, studentID, bookingID string, amount float64) error {
	return nil
}
func (handlerEscrow) Refund(ctx context.Context, studentID, bookingID string, amount float64) error {
	return nil
}
func (handlerEscrow) ReleaseToTutor(ctx context.Context, tutorID, bookingID string, amount float64) error {
	return nil
}

type handlerNotifier struct{}

func (handlerNotifier) Notify(ctx context.Context, recipientID, eventType string, bookingID *string, message string) {
}

func newBookingTestHandler() (*BookingHandler, *handlerBookingStore) {
	store := &handlerBookingStore{bookings: map[string]*models.Booking{}}
	svc := service.NewBookingService(store, handlerTutorReader{}, handlerUserReader{},
		handlerSlotChecker{}, handlerEscrow{}, handlerNotifier{}, nil, nil, nil)
	return NewBookingHandler(svc), store
}

func bookingTestContext(t *testing.T, method, target string, body string, claims *models.JWTClaims) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req, err := http.NewRequest(method, target, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	return c, w
}

func TestBookingHandlerCreateUnauthenticated(t *testing.T) {
	handler, _ := newBookingTestHandler()

	c, w := bookingTestContext(t, http.MethodPost, "/bookings", `{}`, nil)
	handler.Create(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBookingHandlerCreateInvalidBody(t *testing.T) {
	handler, _ := newBookingTestHandler()
	claims := &models.JWTClaims{UserID: "student-1", Role: models.RoleStudent}

	c, w := bookingTestContext(t, http.MethodPost, "/bookings", `{"tutor_id":`, claims)
	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// tutor_id must be a UUID
	c, w = bookingTestContext(t, http.MethodPost, "/bookings",
		`{"tutor_id":"not-a-uuid","date":"2999-01-04","start":"10:00","end":"11:00"}`, claims)
	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandlerCreate(t *testing.T) {
	handler, store := newBookingTestHandler()
	claims := &models.JWTClaims{UserID: "student-1", Role: models.RoleStudent}

	body := `{"tutor_id":"7f8d7f0a-3c65-4f3b-9a46-2c3c7a9b51d2","date":"2999-01-04","start":"10:00","end":"11:00"}`
	c, w := bookingTestContext(t, http.MethodPost, "/bookings", body, claims)
	handler.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, store.bookings, 1)
	for _, b := range store.bookings {
		assert.Equal(t, models.BookingPending, b.Status)
		assert.Equal(t, "student-1", b.StudentID)
	}
}

func TestBookingHandlerGetNotFound(t *testing.T) {
	handler, _ := newBookingTestHandler()
	claims := &models.JWTClaims{UserID: "student-1", Role: models.RoleStudent}

	c, w := bookingTestContext(t, http.MethodGet, "/bookings/missing", "", claims)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	handler.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingHandlerCancelForbiddenForStranger(t *testing.T) {
	handler, store := newBookingTestHandler()
	store.bookings["bk-1"] = &models.Booking{
		ID: "bk-1", TutorID: "tutor-1", StudentID: "student-1", Status: models.BookingConfirmed,
	}
	claims := &models.JWTClaims{UserID: "stranger", Role: models.RoleStudent}

	c, w := bookingTestContext(t, http.MethodPost, "/bookings/bk-1/cancel", "", claims)
	c.Params = gin.Params{{Key: "id", Value: "bk-1"}}
	handler.Cancel(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
