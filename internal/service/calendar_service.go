package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tutorlink/tutorlink-api/internal/models"
	appErrors "github.com/tutorlink/tutorlink-api/pkg/errors"
)

type availabilityReader interface {
	GetTemplate(ctx context.Context, tutorID string) (*models.AvailabilityTemplate, error)
}

type bookingRangeReader interface {
	ListForTutorRange(ctx context.Context, tutorID, from, to string) ([]models.Booking, error)
}

type calendarCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type faultObserver interface {
	ObserveIntegrityFault()
}

// CalendarService projects a tutor's weekly template onto concrete months
// and reconciles the projection against existing bookings. The projection
// and reconciliation themselves are pure functions; the service adds
// fetching, caching and fault reporting.
type CalendarService struct {
	availability availabilityReader
	bookings     bookingRangeReader
	cache        calendarCache
	cacheTTL     time.Duration
	metrics      faultObserver
	logger       *zap.Logger
	now          func() time.Time
}

// NewCalendarService constructs the service. cache and metrics may be nil.
func NewCalendarService(availability availabilityReader, bookings bookingRangeReader, cache calendarCache, cacheTTL time.Duration, metrics faultObserver, logger *zap.Logger) *CalendarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarService{
		availability: availability,
		bookings:     bookings,
		cache:        cache,
		cacheTTL:     cacheTTL,
		metrics:      metrics,
		logger:       logger,
		now:          time.Now,
	}
}

// NormalizeMonth shifts (year, month) by delta months, normalized to the
// first day of the target month so navigation from e.g. Jan 31 cannot skip
// or wrap a month.
func NormalizeMonth(year int, month time.Month, delta int) (int, time.Month) {
	t := time.Date(year, month+time.Month(delta), 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), t.Month()
}

// DaysInMonth returns the number of calendar days in the month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ProjectMonth expands a weekly template into one candidate per calendar
// day of the target month. Pure: no I/O, no mutation of the template.
func ProjectMonth(tpl *models.AvailabilityTemplate, year int, month time.Month) []models.DayCandidate {
	n := DaysInMonth(year, month)
	candidates := make([]models.DayCandidate, 0, n)

	for day := 1; day <= n; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		key := models.WeekdayKey(date.Weekday())

		candidate := models.DayCandidate{
			Date:    date.Format(models.DateLayout),
			Weekday: key,
		}
		if tpl != nil {
			if slot, ok := tpl.Days[key]; ok && slot.Enabled {
				candidate.Enabled = true
				candidate.Start = slot.Start
				candidate.End = slot.End
			}
		}
		candidates = append(candidates, candidate)
	}
	return candidates
}

// statusRank orders active booking statuses by protectiveness for the
// duplicate-slot tie-break.
func statusRank(s models.BookingStatus) int {
	switch s {
	case models.BookingConfirmed:
		return 3
	case models.BookingOnHold:
		return 2
	case models.BookingPending:
		return 1
	}
	return 0
}

// Reconcile merges one month of candidates with that month's bookings into
// per-date display slots. today is a DateLayout string; dates strictly
// before it are flagged past, and a past pending booking reports expired.
// Cancelled and rejected bookings never occupy a slot. When two active
// bookings share a (date, start) key, the duplicate is reported as an
// integrity fault and the most protective status wins.
func Reconcile(candidates []models.DayCandidate, bookings []models.Booking, today string) ([]models.DaySlot, []models.IntegrityFault) {
	byDate := make(map[string][]models.Booking, len(bookings))
	for _, b := range bookings {
		if !b.Status.Active() {
			continue
		}
		byDate[b.Date] = append(byDate[b.Date], b)
	}

	slots := make([]models.DaySlot, 0, len(candidates))
	var faults []models.IntegrityFault

	for _, cand := range candidates {
		slot := models.DaySlot{
			Date:    cand.Date,
			Weekday: cand.Weekday,
			Past:    cand.Date < today,
			Start:   cand.Start,
			End:     cand.End,
		}

		active := byDate[cand.Date]
		faults = append(faults, duplicateFaults(active)...)

		var winner *models.Booking
		for i := range active {
			if winner == nil || statusRank(active[i].Status) > statusRank(winner.Status) {
				winner = &active[i]
			}
		}

		switch {
		case !cand.Enabled:
			slot.Status = models.SlotDisabled
		case winner == nil:
			slot.Status = models.SlotAvailable
		case winner.Status == models.BookingConfirmed:
			slot.Status = models.SlotBooked
		case winner.Status == models.BookingOnHold:
			slot.Status = models.SlotOnHold
		case slot.Past:
			slot.Status = models.SlotExpired
		default:
			slot.Status = models.SlotPending
		}

		if winner != nil && slot.Status != models.SlotDisabled {
			id := winner.ID
			slot.BookingID = &id
			slot.Start = winner.StartTime
			slot.End = winner.EndTime
		}

		slots = append(slots, slot)
	}
	return slots, faults
}

func duplicateFaults(active []models.Booking) []models.IntegrityFault {
	if len(active) < 2 {
		return nil
	}

	byStart := make(map[string][]string)
	for _, b := range active {
		byStart[b.StartTime] = append(byStart[b.StartTime], b.ID)
	}

	var faults []models.IntegrityFault
	for start, ids := range byStart {
		if len(ids) > 1 {
			faults = append(faults, models.IntegrityFault{
				TutorID:    active[0].TutorID,
				Date:       active[0].Date,
				Start:      start,
				BookingIDs: ids,
			})
		}
	}
	return faults
}

// MonthGrid returns the tutor's reconciled calendar for one month, cached
// for a short TTL. Booking and template writes invalidate the cache.
func (s *CalendarService) MonthGrid(ctx context.Context, tutorID string, year int, month int) (*models.MonthGrid, error) {
	if month < 1 || month > 12 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "month must be between 1 and 12")
	}
	if year < 1 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid year")
	}

	cacheKey := calendarCacheKey(tutorID, year, month)
	if s.cache != nil {
		var cached models.MonthGrid
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	grid, err := s.buildMonthGrid(ctx, tutorID, year, time.Month(month))
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, grid, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache month grid", zap.String("tutor_id", tutorID), zap.Error(err))
		}
	}
	return grid, nil
}

// DayStatus reconciles a single date fresh, bypassing the cache. The
// booking orchestrator calls this immediately before committing a write to
// narrow the race window.
func (s *CalendarService) DayStatus(ctx context.Context, tutorID, date string) (*models.DaySlot, error) {
	parsed, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid date, expected YYYY-MM-DD")
	}

	grid, err := s.buildMonthGrid(ctx, tutorID, parsed.Year(), parsed.Month())
	if err != nil {
		return nil, err
	}
	for i := range grid.Days {
		if grid.Days[i].Date == date {
			return &grid.Days[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "date not in month")
}

func (s *CalendarService) buildMonthGrid(ctx context.Context, tutorID string, year int, month time.Month) (*models.MonthGrid, error) {
	tpl, err := s.availability.GetTemplate(ctx, tutorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load availability template")
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(year, month, DaysInMonth(year, month), 0, 0, 0, 0, time.UTC)

	bookings, err := s.bookings.ListForTutorRange(ctx, tutorID, first.Format(models.DateLayout), last.Format(models.DateLayout))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bookings")
	}

	today := s.now().UTC().Format(models.DateLayout)
	candidates := ProjectMonth(tpl, year, month)
	days, faults := Reconcile(candidates, bookings, today)

	for _, fault := range faults {
		s.logger.Error("duplicate active bookings on one slot",
			zap.String("tutor_id", fault.TutorID),
			zap.String("date", fault.Date),
			zap.String("start", fault.Start),
			zap.Strings("booking_ids", fault.BookingIDs),
		)
		if s.metrics != nil {
			s.metrics.ObserveIntegrityFault()
		}
	}

	return &models.MonthGrid{
		TutorID:            tutorID,
		Year:               year,
		Month:              int(month),
		FirstWeekdayOffset: int(first.Weekday()),
		Days:               days,
	}, nil
}

func calendarCacheKey(tutorID string, year, month int) string {
	return fmt.Sprintf("calendar:%s:%04d-%02d", tutorID, year, month)
}
