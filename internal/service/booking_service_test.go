package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorlink/tutorlink-api/internal/dto"
	"github.com/tutorlink/tutorlink-api/internal/models"
	appErrors "github.com/tutorlink/tutorlink-api/pkg/errors"
)

type bookingStoreStub struct {
	bookings  map[string]*models.Booking
	createErr error
	applyErr  error
	markErrs  map[string]error
	unsettled []models.Booking
	settled   []string
}

func newBookingStoreStub(seed ...*models.Booking) *bookingStoreStub {
	s := &bookingStoreStub{bookings: map[string]*models.Booking{}, markErrs: map[string]error{}}
	for _, b := range seed {
		s.bookings[b.ID] = b
	}
	return s
}

func (s *bookingStoreStub) Create(ctx context.Context, b *models.Booking) error {
	if s.createErr != nil {
		return s.createErr
	}
	copied := *b
	s.bookings[b.ID] = &copied
	return nil
}

func (s *bookingStoreStub) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
	}
	copied := *b
	return &copied, nil
}

func (s *bookingStoreStub) ListForStudent(ctx context.Context, studentID string) ([]models.Booking, error) {
	var list []models.Booking
	for _, b := range s.bookings {
		if b.StudentID == studentID {
			list = append(list, *b)
		}
	}
	return list, nil
}

func (s *bookingStoreStub) UpdateStatus(ctx context.Context, id string, from, to models.BookingStatus, reason *string) (*models.Booking, error) {
	b, ok := s.bookings[id]
	if !ok || b.Status != from {
		return nil, appErrors.Clone(appErrors.ErrConflict, "booking status changed concurrently")
	}
	b.Status = to
	if reason != nil {
		b.RejectedReason = reason
	}
	copied := *b
	return &copied, nil
}

func (s *bookingStoreStub) SetProposal(ctx context.Context, id, date, start, end string) (*models.Booking, error) {
	b, ok := s.bookings[id]
	if !ok || b.Status != models.BookingConfirmed {
		return nil, appErrors.Clone(appErrors.ErrConflict, "booking status changed concurrently")
	}
	b.Status = models.BookingOnHold
	b.ProposedDate, b.ProposedStart, b.ProposedEnd = &date, &start, &end
	copied := *b
	return &copied, nil
}

func (s *bookingStoreStub) ApplyProposal(ctx context.Context, id string) (*models.Booking, error) {
	if s.applyErr != nil {
		return nil, s.applyErr
	}
	b, ok := s.bookings[id]
	if !ok || b.Status != models.BookingOnHold || b.ProposedDate == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "booking status changed concurrently")
	}
	b.Date, b.StartTime, b.EndTime = *b.ProposedDate, *b.ProposedStart, *b.ProposedEnd
	b.Status = models.BookingConfirmed
	b.ProposedDate, b.ProposedStart, b.ProposedEnd = nil, nil, nil
	copied := *b
	return &copied, nil
}

func (s *bookingStoreStub) ListRecentPast(ctx context.Context, tutorID, before string, limit int) ([]models.Booking, int, error) {
	var list []models.Booking
	for _, b := range s.bookings {
		if b.TutorID == tutorID && b.Status == models.BookingConfirmed && b.Date < before {
			list = append(list, *b)
		}
	}
	return list, len(list), nil
}

func (s *bookingStoreStub) ListUpcoming(ctx context.Context, tutorID, from string, limit int) ([]models.Booking, int, error) {
	var list []models.Booking
	for _, b := range s.bookings {
		if b.TutorID == tutorID && b.Status.Active() && b.Status != models.BookingOnHold && b.Date >= from {
			list = append(list, *b)
		}
	}
	return list, len(list), nil
}

func (s *bookingStoreStub) ListUnsettledPast(ctx context.Context, before string, limit int) ([]models.Booking, error) {
	return s.unsettled, nil
}

func (s *bookingStoreStub) MarkSettled(ctx context.Context, id string) error {
	if err, ok := s.markErrs[id]; ok {
		return err
	}
	s.settled = append(s.settled, id)
	return nil
}

type tutorReaderStub struct {
	profiles map[string]*models.TutorProfile
}

func (s *tutorReaderStub) GetByUserID(ctx context.Context, userID string) (*models.TutorProfile, error) {
	p, ok := s.profiles[userID]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "tutor profile not found")
	}
	return p, nil
}

type userReaderStub struct {
	users map[string]*models.User
}

func (s *userReaderStub) FindByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	out := map[string]*models.User{}
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

type slotCheckerStub struct {
	slots map[string]*models.DaySlot
}

func (s *slotCheckerStub) DayStatus(ctx context.Context, tutorID, date string) (*models.DaySlot, error) {
	if slot, ok := s.slots[date]; ok {
		return slot, nil
	}
	return &models.DaySlot{Date: date, Status: models.SlotAvailable, Start: "08:00", End: "20:00"}, nil
}

type escrowCall struct {
	userID    string
	bookingID string
	amount    float64
}

type escrowStub struct {
	holds    []escrowCall
	refunds  []escrowCall
	releases []escrowCall
	holdErr  error
}

func (s *escrowStub) Hold(ctx context.Context, studentID, bookingID string, amount float64) error {
	if s.holdErr != nil {
		return s.holdErr
	}
	s.holds = append(s.holds, escrowCall{studentID, bookingID, amount})
	return nil
}

func (s *escrowStub) Refund(ctx context.Context, studentID, bookingID string, amount float64) error {
	s.refunds = append(s.refunds, escrowCall{studentID, bookingID, amount})
	return nil
}

func (s *escrowStub) ReleaseToTutor(ctx context.Context, tutorID, bookingID string, amount float64) error {
	s.releases = append(s.releases, escrowCall{tutorID, bookingID, amount})
	return nil
}

type notifierCall struct {
	recipientID string
	eventType   string
	message     string
}

type notifierStub struct {
	calls []notifierCall
}

func (s *notifierStub) Notify(ctx context.Context, recipientID, eventType string, bookingID *string, message string) {
	s.calls = append(s.calls, notifierCall{recipientID, eventType, message})
}

type bookingFixture struct {
	svc      *BookingService
	store    *bookingStoreStub
	tutors   *tutorReaderStub
	calendar *slotCheckerStub
	wallet   *escrowStub
	notifier *notifierStub
}

func newBookingFixture(seed ...*models.Booking) *bookingFixture {
	f := &bookingFixture{
		store: newBookingStoreStub(seed...),
		tutors: &tutorReaderStub{profiles: map[string]*models.TutorProfile{
			"tutor-1": {UserID: "tutor-1", HourlyRate: 40, Approval: models.TutorApproved},
			"tutor-unapproved": {UserID: "tutor-unapproved", HourlyRate: 40, Approval: models.TutorPendingApproval},
		}},
		calendar: &slotCheckerStub{slots: map[string]*models.DaySlot{}},
		wallet:   &escrowStub{},
		notifier: &notifierStub{},
	}
	users := &userReaderStub{users: map[string]*models.User{
		"tutor-1":   {ID: "tutor-1", FirstName: "Tina", LastName: "Tutor"},
		"student-1": {ID: "student-1", FirstName: "Sam", LastName: "Student"},
	}}
	f.svc = NewBookingService(f.store, f.tutors, users, f.calendar, f.wallet, f.notifier, nil, nil, nil)
	f.svc.now = func() time.Time { return time.Date(2025, time.November, 15, 12, 0, 0, 0, time.UTC) }
	return f
}

func errCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	return appErrors.FromError(err).Code
}

func TestCreateBooking(t *testing.T) {
	f := newBookingFixture()
	req := dto.CreateBookingRequest{TutorID: "tutor-1", Date: "2025-11-19", Start: "10:00", End: "11:30"}

	booking, err := f.svc.CreateBooking(context.Background(), "student-1", req)
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, booking.Status)
	assert.Equal(t, "ONLINE", booking.LessonType)
	assert.InDelta(t, 60.0, booking.HoldAmount, 0.001)

	require.Len(t, f.wallet.holds, 1)
	assert.Equal(t, "student-1", f.wallet.holds[0].userID)
	assert.InDelta(t, 60.0, f.wallet.holds[0].amount, 0.001)
	assert.Empty(t, f.wallet.refunds)

	require.Len(t, f.notifier.calls, 1)
	assert.Equal(t, "tutor-1", f.notifier.calls[0].recipientID)
	assert.Equal(t, models.NotifyBookingCreated, f.notifier.calls[0].eventType)

	stored, err := f.store.GetByID(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-11-19", stored.Date)
}

func TestCreateBookingRejectsSelf(t *testing.T) {
	f := newBookingFixture()
	req := dto.CreateBookingRequest{TutorID: "student-1", Date: "2025-11-19", Start: "10:00", End: "11:00"}

	_, err := f.svc.CreateBooking(context.Background(), "student-1", req)
	assert.Equal(t, appErrors.ErrValidation.Code, errCode(t, err))
	assert.Empty(t, f.wallet.holds)
}

func TestCreateBookingRejectsPastSlot(t *testing.T) {
	f := newBookingFixture()

	_, err := f.svc.CreateBooking(context.Background(), "student-1",
		dto.CreateBookingRequest{TutorID: "tutor-1", Date: "2025-11-14", Start: "10:00", End: "11:00"})
	assert.Equal(t, appErrors.ErrPastSlot.Code, errCode(t, err))

	// today's slot is past once its start time has been reached
	_, err = f.svc.CreateBooking(context.Background(), "student-1",
		dto.CreateBookingRequest{TutorID: "tutor-1", Date: "2025-11-15", Start: "12:00", End: "13:00"})
	assert.Equal(t, appErrors.ErrPastSlot.Code, errCode(t, err))

	_, err = f.svc.CreateBooking(context.Background(), "student-1",
		dto.CreateBookingRequest{TutorID: "tutor-1", Date: "2025-11-15", Start: "14:00", End: "15:00"})
	assert.NoError(t, err)
}

func TestCreateBookingRequiresApprovedTutor(t *testing.T) {
	f := newBookingFixture()
	req := dto.CreateBookingRequest{TutorID: "tutor-unapproved", Date: "2025-11-19", Start: "10:00", End: "11:00"}

	_, err := f.svc.CreateBooking(context.Background(), "student-1", req)
	assert.Equal(t, appErrors.ErrTutorNotBookable.Code, errCode(t, err))
	assert.Empty(t, f.wallet.holds)
}

func TestCreateBookingSlotOccupied(t *testing.T) {
	f := newBookingFixture()
	f.calendar.slots["2025-11-19"] = &models.DaySlot{Date: "2025-11-19", Status: models.SlotBooked}
	req := dto.CreateBookingRequest{TutorID: "tutor-1", Date: "2025-11-19", Start: "10:00", End: "11:00"}

	_, err := f.svc.CreateBooking(context.Background(), "student-1", req)
	assert.Equal(t, appErrors.ErrSlotUnavailable.Code, errCode(t, err))
	assert.Empty(t, f.wallet.holds)
}

func TestCreateBookingOutsideWindow(t *testing.T) {
	f := newBookingFixture()
	f.calendar.slots["2025-11-19"] = &models.DaySlot{Date: "2025-11-19", Status: models.SlotAvailable, Start: "09:00", End: "12:00"}
	req := dto.CreateBookingRequest{TutorID: "tutor-1", Date: "2025-11-19", Start: "11:00", End: "13:00"}

	_, err := f.svc.CreateBooking(context.Background(), "student-1", req)
	assert.Equal(t, appErrors.ErrValidation.Code, errCode(t, err))
}

func TestCreateBookingRefundsOnLostRace(t *testing.T) {
	f := newBookingFixture()
	f.store.createErr = appErrors.Clone(appErrors.ErrConflict, "slot already has an active booking")
	req := dto.CreateBookingRequest{TutorID: "tutor-1", Date: "2025-11-19", Start: "10:00", End: "11:00"}

	_, err := f.svc.CreateBooking(context.Background(), "student-1", req)
	assert.Equal(t, appErrors.ErrSlotUnavailable.Code, errCode(t, err))

	require.Len(t, f.wallet.holds, 1)
	require.Len(t, f.wallet.refunds, 1)
	assert.Equal(t, f.wallet.holds[0].bookingID, f.wallet.refunds[0].bookingID)
	assert.InDelta(t, f.wallet.holds[0].amount, f.wallet.refunds[0].amount, 0.001)
}

func pendingBooking() *models.Booking {
	return &models.Booking{
		ID: "bk-1", TutorID: "tutor-1", StudentID: "student-1",
		Date: "2025-11-19", StartTime: "10:00", EndTime: "11:00",
		Status: models.BookingPending, HoldAmount: 40,
	}
}

func confirmedBooking() *models.Booking {
	b := pendingBooking()
	b.Status = models.BookingConfirmed
	return b
}

func TestRespondToBookingAccept(t *testing.T) {
	f := newBookingFixture(pendingBooking())

	updated, err := f.svc.RespondToBooking(context.Background(), "tutor-1", "bk-1", true, nil)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, updated.Status)
	assert.Empty(t, f.wallet.refunds)

	require.Len(t, f.notifier.calls, 1)
	assert.Equal(t, "student-1", f.notifier.calls[0].recipientID)
	assert.Equal(t, models.NotifyBookingAccepted, f.notifier.calls[0].eventType)
}

func TestRespondToBookingReject(t *testing.T) {
	f := newBookingFixture(pendingBooking())
	reason := "family emergency"

	updated, err := f.svc.RespondToBooking(context.Background(), "tutor-1", "bk-1", false, &reason)
	require.NoError(t, err)
	assert.Equal(t, models.BookingRejected, updated.Status)
	require.NotNil(t, updated.RejectedReason)
	assert.Equal(t, reason, *updated.RejectedReason)

	require.Len(t, f.wallet.refunds, 1)
	assert.Equal(t, "student-1", f.wallet.refunds[0].userID)
	assert.InDelta(t, 40.0, f.wallet.refunds[0].amount, 0.001)
}

func TestRespondToBookingRejectWithoutReason(t *testing.T) {
	f := newBookingFixture(pendingBooking())

	updated, err := f.svc.RespondToBooking(context.Background(), "tutor-1", "bk-1", false, nil)
	require.NoError(t, err)
	assert.Equal(t, models.BookingRejected, updated.Status)
	assert.Nil(t, updated.RejectedReason)

	require.Len(t, f.wallet.refunds, 1)
	assert.Equal(t, "student-1", f.wallet.refunds[0].userID)
}

func TestRespondToBookingWrongTutor(t *testing.T) {
	f := newBookingFixture(pendingBooking())

	_, err := f.svc.RespondToBooking(context.Background(), "tutor-2", "bk-1", true, nil)
	assert.Equal(t, appErrors.ErrNotOwner.Code, errCode(t, err))
}

func TestRespondToBookingInvalidState(t *testing.T) {
	f := newBookingFixture(confirmedBooking())

	_, err := f.svc.RespondToBooking(context.Background(), "tutor-1", "bk-1", true, nil)
	assert.Equal(t, appErrors.ErrInvalidState.Code, errCode(t, err))

	cancelled := pendingBooking()
	cancelled.Status = models.BookingCancelled
	f = newBookingFixture(cancelled)

	_, err = f.svc.RespondToBooking(context.Background(), "tutor-1", "bk-1", true, nil)
	assert.Equal(t, appErrors.ErrInvalidState.Code, errCode(t, err))

	// the booking record is untouched by the failed response
	stored, getErr := f.store.GetByID(context.Background(), "bk-1")
	require.NoError(t, getErr)
	assert.Equal(t, models.BookingCancelled, stored.Status)
}

func TestCancelBooking(t *testing.T) {
	f := newBookingFixture(confirmedBooking())

	updated, err := f.svc.CancelBooking(context.Background(), "tutor-1", "bk-1")
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, updated.Status)

	require.Len(t, f.wallet.refunds, 1)
	assert.Equal(t, "student-1", f.wallet.refunds[0].userID)

	// the other participant gets notified, not the actor
	require.Len(t, f.notifier.calls, 1)
	assert.Equal(t, "student-1", f.notifier.calls[0].recipientID)
	assert.Equal(t, models.NotifyBookingCancelled, f.notifier.calls[0].eventType)
}

func TestCancelBookingNotParticipant(t *testing.T) {
	f := newBookingFixture(confirmedBooking())

	_, err := f.svc.CancelBooking(context.Background(), "someone-else", "bk-1")
	assert.Equal(t, appErrors.ErrNotParticipant.Code, errCode(t, err))
}

func TestCancelBookingTerminalState(t *testing.T) {
	b := pendingBooking()
	b.Status = models.BookingRejected
	f := newBookingFixture(b)

	_, err := f.svc.CancelBooking(context.Background(), "student-1", "bk-1")
	assert.Equal(t, appErrors.ErrInvalidState.Code, errCode(t, err))
	assert.Empty(t, f.wallet.refunds)
}

func TestRequestReschedule(t *testing.T) {
	f := newBookingFixture(confirmedBooking())
	req := dto.RescheduleRequest{Date: "2025-11-26", Start: "14:00", End: "15:00"}

	updated, err := f.svc.RequestReschedule(context.Background(), "student-1", "bk-1", req)
	require.NoError(t, err)
	assert.Equal(t, models.BookingOnHold, updated.Status)
	require.NotNil(t, updated.ProposedDate)
	assert.Equal(t, "2025-11-26", *updated.ProposedDate)
	// the original slot stays occupied until the tutor decides
	assert.Equal(t, "2025-11-19", updated.Date)

	require.Len(t, f.notifier.calls, 1)
	assert.Equal(t, "tutor-1", f.notifier.calls[0].recipientID)
	assert.Equal(t, models.NotifyRescheduleRequested, f.notifier.calls[0].eventType)
}

func TestRequestRescheduleOnlyStudent(t *testing.T) {
	f := newBookingFixture(confirmedBooking())
	req := dto.RescheduleRequest{Date: "2025-11-26", Start: "14:00", End: "15:00"}

	_, err := f.svc.RequestReschedule(context.Background(), "tutor-1", "bk-1", req)
	assert.Equal(t, appErrors.ErrNotOwner.Code, errCode(t, err))
}

func TestRequestRescheduleOnlyConfirmed(t *testing.T) {
	f := newBookingFixture(pendingBooking())
	req := dto.RescheduleRequest{Date: "2025-11-26", Start: "14:00", End: "15:00"}

	_, err := f.svc.RequestReschedule(context.Background(), "student-1", "bk-1", req)
	assert.Equal(t, appErrors.ErrInvalidState.Code, errCode(t, err))
}

func TestRequestRescheduleProposedSlotTaken(t *testing.T) {
	f := newBookingFixture(confirmedBooking())
	f.calendar.slots["2025-11-26"] = &models.DaySlot{Date: "2025-11-26", Status: models.SlotBooked}
	req := dto.RescheduleRequest{Date: "2025-11-26", Start: "14:00", End: "15:00"}

	_, err := f.svc.RequestReschedule(context.Background(), "student-1", "bk-1", req)
	assert.Equal(t, appErrors.ErrSlotUnavailable.Code, errCode(t, err))
}

func heldBooking() *models.Booking {
	b := confirmedBooking()
	b.Status = models.BookingOnHold
	date, start, end := "2025-11-26", "14:00", "15:00"
	b.ProposedDate, b.ProposedStart, b.ProposedEnd = &date, &start, &end
	return b
}

func TestRespondToRescheduleAccept(t *testing.T) {
	f := newBookingFixture(heldBooking())

	updated, err := f.svc.RespondToReschedule(context.Background(), "tutor-1", "bk-1", true)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, updated.Status)
	assert.Equal(t, "2025-11-26", updated.Date)
	assert.Equal(t, "14:00", updated.StartTime)
	assert.Equal(t, "15:00", updated.EndTime)
	assert.Nil(t, updated.ProposedDate)
	assert.Empty(t, f.wallet.refunds)

	require.Len(t, f.notifier.calls, 1)
	assert.Equal(t, models.NotifyRescheduleApproved, f.notifier.calls[0].eventType)
}

func TestRespondToRescheduleDecline(t *testing.T) {
	f := newBookingFixture(heldBooking())

	updated, err := f.svc.RespondToReschedule(context.Background(), "tutor-1", "bk-1", false)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, updated.Status)

	require.Len(t, f.wallet.refunds, 1)
	assert.Equal(t, "student-1", f.wallet.refunds[0].userID)
	assert.InDelta(t, 40.0, f.wallet.refunds[0].amount, 0.001)

	require.Len(t, f.notifier.calls, 1)
	assert.Equal(t, models.NotifyRescheduleRejected, f.notifier.calls[0].eventType)
}

func TestRespondToRescheduleNoProposal(t *testing.T) {
	f := newBookingFixture(confirmedBooking())

	_, err := f.svc.RespondToReschedule(context.Background(), "tutor-1", "bk-1", true)
	assert.Equal(t, appErrors.ErrInvalidState.Code, errCode(t, err))
}

func TestRespondToRescheduleAcceptProposedDayTaken(t *testing.T) {
	f := newBookingFixture(heldBooking())
	f.calendar.slots["2025-11-26"] = &models.DaySlot{Date: "2025-11-26", Status: models.SlotPending}

	_, err := f.svc.RespondToReschedule(context.Background(), "tutor-1", "bk-1", true)
	assert.Equal(t, appErrors.ErrSlotUnavailable.Code, errCode(t, err))
	assert.Empty(t, f.notifier.calls)
}

func TestRespondToRescheduleAcceptProposedSlotElapsed(t *testing.T) {
	f := newBookingFixture(heldBooking())
	f.svc.now = func() time.Time {
		return time.Date(2025, time.December, 1, 12, 0, 0, 0, time.UTC)
	}

	_, err := f.svc.RespondToReschedule(context.Background(), "tutor-1", "bk-1", true)
	assert.Equal(t, appErrors.ErrPastSlot.Code, errCode(t, err))
}

func TestRespondToRescheduleProposalLostRace(t *testing.T) {
	f := newBookingFixture(heldBooking())
	f.store.applyErr = appErrors.Clone(appErrors.ErrConflict, "proposed slot already has an active booking")

	_, err := f.svc.RespondToReschedule(context.Background(), "tutor-1", "bk-1", true)
	assert.Equal(t, appErrors.ErrSlotUnavailable.Code, errCode(t, err))
}

func TestGetBookingParticipantsOnly(t *testing.T) {
	f := newBookingFixture(confirmedBooking())

	detail, err := f.svc.GetBooking(context.Background(), "student-1", "bk-1")
	require.NoError(t, err)
	assert.Equal(t, "Tina Tutor", detail.TutorName)
	assert.Equal(t, "Sam Student", detail.StudentName)

	_, err = f.svc.GetBooking(context.Background(), "stranger", "bk-1")
	assert.Equal(t, appErrors.ErrNotParticipant.Code, errCode(t, err))
}

func TestSettlePastBookings(t *testing.T) {
	f := newBookingFixture()
	f.store.unsettled = []models.Booking{
		{ID: "bk-old-1", TutorID: "tutor-1", HoldAmount: 40, Status: models.BookingConfirmed, Date: "2025-11-10"},
		{ID: "bk-old-2", TutorID: "tutor-1", HoldAmount: 60, Status: models.BookingConfirmed, Date: "2025-11-12"},
	}
	// another worker settled this one between list and mark
	f.store.markErrs["bk-old-2"] = appErrors.Clone(appErrors.ErrConflict, "booking already settled")

	settled, err := f.svc.SettlePastBookings(context.Background(), 100)
	require.NoError(t, err)
	assert.Equal(t, 1, settled)

	require.Len(t, f.wallet.releases, 1)
	assert.Equal(t, "bk-old-1", f.wallet.releases[0].bookingID)
	assert.Equal(t, "tutor-1", f.wallet.releases[0].userID)
	assert.InDelta(t, 40.0, f.wallet.releases[0].amount, 0.001)
}
