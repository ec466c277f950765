package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tutorlink/tutorlink-api/internal/models"
	appErrors "github.com/tutorlink/tutorlink-api/pkg/errors"
	"github.com/tutorlink/tutorlink-api/pkg/export"
)

type bookingRangeLister interface {
	ListForTutorRange(ctx context.Context, tutorID, from, to string) ([]models.Booking, error)
}

// ExportService renders a tutor's booking history as CSV or PDF for admin
// reporting.
type ExportService struct {
	bookings bookingRangeLister
	users    userReader
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	enabled  bool
	logger   *zap.Logger
}

// NewExportService constructs the service.
func NewExportService(bookings bookingRangeLister, users userReader, enabled bool, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		bookings: bookings,
		users:    users,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		enabled:  enabled,
		logger:   logger,
	}
}

var exportHeaders = []string{"Date", "Start", "End", "Student", "Lesson Type", "Status", "Amount"}

// BookingHistory renders the tutor's bookings in [from, to] in the requested
// format ("csv" or "pdf") and returns the payload with its content type.
func (s *ExportService) BookingHistory(ctx context.Context, tutorID, from, to, format string) ([]byte, string, error) {
	if !s.enabled {
		return nil, "", appErrors.Clone(appErrors.ErrForbidden, "exports are disabled")
	}

	list, err := s.bookings.ListForTutorRange(ctx, tutorID, from, to)
	if err != nil {
		return nil, "", err
	}

	ids := make([]string, 0, len(list))
	for _, b := range list {
		ids = append(ids, b.StudentID)
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, "", err
	}

	rows := make([][]string, 0, len(list))
	for _, b := range list {
		student := b.StudentID
		if u, ok := users[b.StudentID]; ok {
			student = u.FullName()
		}
		rows = append(rows, []string{
			b.Date, b.StartTime, b.EndTime, student, b.LessonType,
			string(b.Status), fmt.Sprintf("%.2f", b.HoldAmount),
		})
	}

	dataset := export.Dataset{Headers: exportHeaders, Rows: rows}

	switch format {
	case "csv":
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return payload, "text/csv", nil
	case "pdf":
		payload, err := s.pdf.Render(dataset, fmt.Sprintf("Booking history %s to %s", from, to))
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}
