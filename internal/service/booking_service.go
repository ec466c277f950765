package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutorlink/tutorlink-api/internal/dto"
	"github.com/tutorlink/tutorlink-api/internal/models"
	appErrors "github.com/tutorlink/tutorlink-api/pkg/errors"
)

type bookingStore interface {
	Create(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	ListForStudent(ctx context.Context, studentID string) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, id string, from, to models.BookingStatus, reason *string) (*models.Booking, error)
	SetProposal(ctx context.Context, id, date, start, end string) (*models.Booking, error)
	ApplyProposal(ctx context.Context, id string) (*models.Booking, error)
	ListRecentPast(ctx context.Context, tutorID, before string, limit int) ([]models.Booking, int, error)
	ListUpcoming(ctx context.Context, tutorID, from string, limit int) ([]models.Booking, int, error)
	ListUnsettledPast(ctx context.Context, before string, limit int) ([]models.Booking, error)
	MarkSettled(ctx context.Context, id string) error
}

type tutorReader interface {
	GetByUserID(ctx context.Context, userID string) (*models.TutorProfile, error)
}

type userReader interface {
	FindByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
}

type slotChecker interface {
	DayStatus(ctx context.Context, tutorID, date string) (*models.DaySlot, error)
}

type escrow interface {
	Hold(ctx context.Context, studentID, bookingID string, amount float64) error
	Refund(ctx context.Context, studentID, bookingID string, amount float64) error
	ReleaseToTutor(ctx context.Context, tutorID, bookingID string, amount float64) error
}

type notifier interface {
	Notify(ctx context.Context, recipientID, eventType string, bookingID *string, message string)
}

type cacheInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

type transitionObserver interface {
	ObserveTransition(from, to models.BookingStatus)
	ObserveConflict()
}

// BookingService orchestrates the booking lifecycle: creation against the
// reconciled calendar, tutor accept/reject, cancellation, the two-phase
// reschedule flow and settlement of past sessions. Lesson fees are escrowed
// in the student's wallet for the lifetime of the booking.
//
// The database is the authority on concurrency: the pre-insert slot check
// only narrows the race window, the unique index and CAS updates decide it.
type BookingService struct {
	bookings      bookingStore
	tutors        tutorReader
	users         userReader
	calendar      slotChecker
	wallet        escrow
	notifications notifier
	cache         cacheInvalidator
	metrics       transitionObserver
	logger        *zap.Logger
	now           func() time.Time
	recentLimit   int
}

// NewBookingService constructs the orchestrator. cache and metrics may be nil.
func NewBookingService(
	bookings bookingStore,
	tutors tutorReader,
	users userReader,
	calendar slotChecker,
	wallet escrow,
	notifications notifier,
	cache cacheInvalidator,
	metrics transitionObserver,
	logger *zap.Logger,
) *BookingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{
		bookings:      bookings,
		tutors:        tutors,
		users:         users,
		calendar:      calendar,
		wallet:        wallet,
		notifications: notifications,
		cache:         cache,
		metrics:       metrics,
		logger:        logger,
		now:           time.Now,
		recentLimit:   10,
	}
}

// SetRecentLimit overrides the default page size for history and upcoming
// listings. Values below one are ignored.
func (s *BookingService) SetRecentLimit(n int) {
	if n > 0 {
		s.recentLimit = n
	}
}

func (s *BookingService) today() string {
	return s.now().UTC().Format(models.DateLayout)
}

func (s *BookingService) nowClock() string {
	return s.now().UTC().Format("15:04")
}

// validateSlotInput checks formats and rejects past slots. Today's slots are
// past once their start time has been reached.
func (s *BookingService) validateSlotInput(date, start, end string) error {
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "invalid date, expected YYYY-MM-DD")
	}
	startMin, err := models.ClockToMinutes(start)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	endMin, err := models.ClockToMinutes(end)
	if err != nil {
		return appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	if endMin <= startMin {
		return appErrors.Clone(appErrors.ErrValidation, "end must be after start")
	}

	today := s.today()
	if date < today || (date == today && start <= s.nowClock()) {
		return appErrors.Clone(appErrors.ErrPastSlot, "")
	}
	return nil
}

func (s *BookingService) invalidateCalendar(ctx context.Context, tutorID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, fmt.Sprintf("calendar:%s:*", tutorID)); err != nil {
		s.logger.Warn("failed to invalidate calendar cache", zap.String("tutor_id", tutorID), zap.Error(err))
	}
}

func (s *BookingService) observeTransition(from, to models.BookingStatus) {
	if s.metrics != nil {
		s.metrics.ObserveTransition(from, to)
	}
}

func (s *BookingService) observeConflict() {
	if s.metrics != nil {
		s.metrics.ObserveConflict()
	}
}

// CreateBooking reserves a slot for the student. The fee is held before the
// insert; if the insert then loses the race the hold is refunded, so a
// failed create never strands funds.
func (s *BookingService) CreateBooking(ctx context.Context, studentID string, req dto.CreateBookingRequest) (*models.Booking, error) {
	if err := s.validateSlotInput(req.Date, req.Start, req.End); err != nil {
		return nil, err
	}
	if req.TutorID == studentID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "cannot book yourself")
	}

	profile, err := s.tutors.GetByUserID(ctx, req.TutorID)
	if err != nil {
		return nil, err
	}
	if profile.Approval != models.TutorApproved {
		return nil, appErrors.Clone(appErrors.ErrTutorNotBookable, "")
	}

	slot, err := s.calendar.DayStatus(ctx, req.TutorID, req.Date)
	if err != nil {
		return nil, err
	}
	if slot.Status != models.SlotAvailable {
		s.observeConflict()
		return nil, appErrors.Clone(appErrors.ErrSlotUnavailable, "")
	}
	if req.Start < slot.Start || req.End > slot.End {
		return nil, appErrors.Clone(appErrors.ErrValidation, "requested window is outside the tutor's availability")
	}

	startMin, _ := models.ClockToMinutes(req.Start)
	endMin, _ := models.ClockToMinutes(req.End)
	hold := profile.HourlyRate * float64(endMin-startMin) / 60

	lessonType := req.LessonType
	if lessonType == "" {
		lessonType = "ONLINE"
	}

	booking := &models.Booking{
		ID:         uuid.NewString(),
		TutorID:    req.TutorID,
		StudentID:  studentID,
		Date:       req.Date,
		StartTime:  req.Start,
		EndTime:    req.End,
		LessonType: lessonType,
		Status:     models.BookingPending,
		HoldAmount: hold,
	}

	if err := s.wallet.Hold(ctx, studentID, booking.ID, hold); err != nil {
		return nil, err
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		if refundErr := s.wallet.Refund(ctx, studentID, booking.ID, hold); refundErr != nil {
			s.logger.Error("failed to refund hold after create failure",
				zap.String("booking_id", booking.ID),
				zap.Error(refundErr),
			)
		}
		if appErrors.FromError(err).Code == appErrors.ErrConflict.Code {
			s.observeConflict()
			return nil, appErrors.Clone(appErrors.ErrSlotUnavailable, "")
		}
		return nil, err
	}

	s.invalidateCalendar(ctx, req.TutorID)
	s.notifications.Notify(ctx, req.TutorID, models.NotifyBookingCreated, &booking.ID,
		fmt.Sprintf("New booking request for %s %s-%s", booking.Date, booking.StartTime, booking.EndTime))

	s.logger.Info("booking created",
		zap.String("booking_id", booking.ID),
		zap.String("tutor_id", booking.TutorID),
		zap.String("student_id", booking.StudentID),
		zap.String("date", booking.Date),
	)
	return booking, nil
}

// RespondToBooking applies the tutor's accept or reject decision to a
// pending booking. Rejection refunds the student's hold.
func (s *BookingService) RespondToBooking(ctx context.Context, tutorID, bookingID string, accept bool, reason *string) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.TutorID != tutorID {
		return nil, appErrors.Clone(appErrors.ErrNotOwner, "only the booked tutor can respond")
	}

	target := models.BookingConfirmed
	event := models.NotifyBookingAccepted
	if !accept {
		target = models.BookingRejected
		event = models.NotifyBookingRejected
	}

	if err := booking.Status.CanTransition(target); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidState.Code, appErrors.ErrInvalidState.Status, err.Error())
	}

	updated, err := s.bookings.UpdateStatus(ctx, bookingID, booking.Status, target, reason)
	if err != nil {
		s.observeConflict()
		return nil, err
	}
	s.observeTransition(booking.Status, target)

	if !accept {
		if err := s.wallet.Refund(ctx, updated.StudentID, updated.ID, updated.HoldAmount); err != nil {
			s.logger.Error("failed to refund rejected booking", zap.String("booking_id", updated.ID), zap.Error(err))
		}
	}

	s.invalidateCalendar(ctx, updated.TutorID)
	s.notifications.Notify(ctx, updated.StudentID, event, &updated.ID,
		fmt.Sprintf("Your booking for %s %s was %s", updated.Date, updated.StartTime, string(target)))
	return updated, nil
}

// CancelBooking cancels an active booking on behalf of either participant
// and refunds the student's hold. Terminal bookings stay on record.
func (s *BookingService) CancelBooking(ctx context.Context, actorID, bookingID string) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.Participant(actorID) {
		return nil, appErrors.Clone(appErrors.ErrNotParticipant, "")
	}

	if err := booking.Status.CanTransition(models.BookingCancelled); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidState.Code, appErrors.ErrInvalidState.Status, err.Error())
	}

	updated, err := s.bookings.UpdateStatus(ctx, bookingID, booking.Status, models.BookingCancelled, nil)
	if err != nil {
		s.observeConflict()
		return nil, err
	}
	s.observeTransition(booking.Status, models.BookingCancelled)

	if err := s.wallet.Refund(ctx, updated.StudentID, updated.ID, updated.HoldAmount); err != nil {
		s.logger.Error("failed to refund cancelled booking", zap.String("booking_id", updated.ID), zap.Error(err))
	}

	s.invalidateCalendar(ctx, updated.TutorID)
	s.notifications.Notify(ctx, updated.Counterparty(actorID), models.NotifyBookingCancelled, &updated.ID,
		fmt.Sprintf("Booking for %s %s was cancelled", updated.Date, updated.StartTime))
	return updated, nil
}

// RequestReschedule stores the student's proposed replacement slot and puts
// the booking on hold. The original slot stays occupied and the student's
// funds stay escrowed until the tutor decides.
func (s *BookingService) RequestReschedule(ctx context.Context, studentID, bookingID string, req dto.RescheduleRequest) (*models.Booking, error) {
	if err := s.validateSlotInput(req.Date, req.Start, req.End); err != nil {
		return nil, err
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.StudentID != studentID {
		return nil, appErrors.Clone(appErrors.ErrNotOwner, "only the booking student can request a reschedule")
	}
	if err := booking.Status.CanTransition(models.BookingOnHold); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidState.Code, appErrors.ErrInvalidState.Status, err.Error())
	}

	slot, err := s.calendar.DayStatus(ctx, booking.TutorID, req.Date)
	if err != nil {
		return nil, err
	}
	if slot.Status != models.SlotAvailable {
		s.observeConflict()
		return nil, appErrors.Clone(appErrors.ErrSlotUnavailable, "proposed slot is not available")
	}

	updated, err := s.bookings.SetProposal(ctx, bookingID, req.Date, req.Start, req.End)
	if err != nil {
		s.observeConflict()
		return nil, err
	}
	s.observeTransition(models.BookingConfirmed, models.BookingOnHold)

	s.invalidateCalendar(ctx, updated.TutorID)
	s.notifications.Notify(ctx, updated.TutorID, models.NotifyRescheduleRequested, &updated.ID,
		fmt.Sprintf("Reschedule requested: %s %s-%s", req.Date, req.Start, req.End))
	return updated, nil
}

// RespondToReschedule applies the tutor's decision on a held proposal.
// Acceptance moves the booking to the proposed slot and re-confirms it in
// one atomic step; declining cancels the booking entirely and refunds the
// student.
func (s *BookingService) RespondToReschedule(ctx context.Context, tutorID, bookingID string, accept bool) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.TutorID != tutorID {
		return nil, appErrors.Clone(appErrors.ErrNotOwner, "only the booked tutor can respond")
	}
	if booking.Status != models.BookingOnHold || booking.ProposedDate == nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "booking has no pending reschedule proposal")
	}

	if accept {
		// The proposed day may have changed hands, or lapsed into the past,
		// while the proposal sat waiting. Re-check before committing.
		if err := s.validateSlotInput(*booking.ProposedDate, *booking.ProposedStart, *booking.ProposedEnd); err != nil {
			return nil, err
		}
		slot, err := s.calendar.DayStatus(ctx, booking.TutorID, *booking.ProposedDate)
		if err != nil {
			return nil, err
		}
		if slot.Status != models.SlotAvailable {
			s.observeConflict()
			return nil, appErrors.Clone(appErrors.ErrSlotUnavailable, "proposed slot is no longer available")
		}

		updated, err := s.bookings.ApplyProposal(ctx, bookingID)
		if err != nil {
			s.observeConflict()
			if appErrors.FromError(err).Code == appErrors.ErrConflict.Code {
				return nil, appErrors.Clone(appErrors.ErrSlotUnavailable, "proposed slot was taken in the meantime")
			}
			return nil, err
		}
		s.observeTransition(models.BookingOnHold, models.BookingConfirmed)

		s.invalidateCalendar(ctx, updated.TutorID)
		s.notifications.Notify(ctx, updated.StudentID, models.NotifyRescheduleApproved, &updated.ID,
			fmt.Sprintf("Reschedule approved: %s %s-%s", updated.Date, updated.StartTime, updated.EndTime))
		return updated, nil
	}

	updated, err := s.bookings.UpdateStatus(ctx, bookingID, models.BookingOnHold, models.BookingCancelled, nil)
	if err != nil {
		s.observeConflict()
		return nil, err
	}
	s.observeTransition(models.BookingOnHold, models.BookingCancelled)

	if err := s.wallet.Refund(ctx, updated.StudentID, updated.ID, updated.HoldAmount); err != nil {
		s.logger.Error("failed to refund declined reschedule", zap.String("booking_id", updated.ID), zap.Error(err))
	}

	s.invalidateCalendar(ctx, updated.TutorID)
	s.notifications.Notify(ctx, updated.StudentID, models.NotifyRescheduleRejected, &updated.ID,
		"Reschedule declined, booking cancelled and refunded")
	return updated, nil
}

// GetBooking returns one booking with party names, visible to participants
// only.
func (s *BookingService) GetBooking(ctx context.Context, actorID, bookingID string) (*models.BookingDetail, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.Participant(actorID) {
		return nil, appErrors.Clone(appErrors.ErrNotParticipant, "")
	}

	details, err := s.decorate(ctx, []models.Booking{*booking})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// ListStudentBookings returns all of a student's bookings, soonest first.
func (s *BookingService) ListStudentBookings(ctx context.Context, studentID string) ([]models.BookingDetail, error) {
	list, err := s.bookings.ListForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, list)
}

// TutorHistory returns the tutor's recent completed sessions.
func (s *BookingService) TutorHistory(ctx context.Context, tutorID string, limit int) (*models.BookingHistory, error) {
	if limit <= 0 {
		limit = s.recentLimit
	}
	list, total, err := s.bookings.ListRecentPast(ctx, tutorID, s.today(), limit)
	if err != nil {
		return nil, err
	}
	details, err := s.decorate(ctx, list)
	if err != nil {
		return nil, err
	}
	return &models.BookingHistory{Sessions: details, TotalCount: total}, nil
}

// TutorUpcoming returns the tutor's next confirmed and pending sessions.
func (s *BookingService) TutorUpcoming(ctx context.Context, tutorID string, limit int) (*models.BookingHistory, error) {
	if limit <= 0 {
		limit = s.recentLimit
	}
	list, total, err := s.bookings.ListUpcoming(ctx, tutorID, s.today(), limit)
	if err != nil {
		return nil, err
	}
	details, err := s.decorate(ctx, list)
	if err != nil {
		return nil, err
	}
	return &models.BookingHistory{Sessions: details, TotalCount: total}, nil
}

// SettlePastBookings releases escrowed funds to tutors for confirmed
// sessions whose date has passed. MarkSettled runs before the payout so a
// crash between the two under-pays rather than double-pays; an already
// settled row is skipped silently. Returns the number of bookings settled.
func (s *BookingService) SettlePastBookings(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 100
	}
	list, err := s.bookings.ListUnsettledPast(ctx, s.today(), batchSize)
	if err != nil {
		return 0, err
	}

	settled := 0
	for _, b := range list {
		if err := s.bookings.MarkSettled(ctx, b.ID); err != nil {
			if appErrors.FromError(err).Code == appErrors.ErrConflict.Code {
				continue
			}
			s.logger.Error("failed to mark booking settled", zap.String("booking_id", b.ID), zap.Error(err))
			continue
		}
		if err := s.wallet.ReleaseToTutor(ctx, b.TutorID, b.ID, b.HoldAmount); err != nil {
			s.logger.Error("failed to pay out settled booking", zap.String("booking_id", b.ID), zap.Error(err))
			continue
		}
		settled++
	}
	return settled, nil
}

func (s *BookingService) decorate(ctx context.Context, list []models.Booking) ([]models.BookingDetail, error) {
	ids := make([]string, 0, len(list)*2)
	seen := make(map[string]struct{}, len(list)*2)
	for _, b := range list {
		for _, id := range []string{b.TutorID, b.StudentID} {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}

	users := map[string]*models.User{}
	if len(ids) > 0 {
		var err error
		users, err = s.users.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
	}

	details := make([]models.BookingDetail, 0, len(list))
	for _, b := range list {
		d := models.BookingDetail{Booking: b}
		if u, ok := users[b.TutorID]; ok {
			d.TutorName = u.FullName()
		}
		if u, ok := users[b.StudentID]; ok {
			d.StudentName = u.FullName()
		}
		details = append(details, d)
	}
	return details, nil
}
