package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tutorlink/tutorlink-api/internal/service"
	appErrors "github.com/tutorlink/tutorlink-api/pkg/errors"
	"github.com/tutorlink/tutorlink-api/pkg/response"
)

// ExportHandler streams admin booking-history exports.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler creates a new handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// BookingHistory godoc
// @Summary Export tutor booking history
// @Description Render a tutor's bookings in a date range as CSV or PDF
// @Tags Admin
// @Produce octet-stream
// @Param id path string true "Tutor user ID"
// @Param from query string true "Start date YYYY-MM-DD"
// @Param to query string true "End date YYYY-MM-DD"
// @Param format query string true "csv or pdf"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/tutors/{id}/bookings/export [get]
func (h *ExportHandler) BookingHistory(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	format := c.DefaultQuery("format", "csv")
	if from == "" || to == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "from and to are required"))
		return
	}

	payload, contentType, err := h.service.BookingHistory(c.Request.Context(), c.Param("id"), from, to, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("bookings_%s_%s.%s", from, to, format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}
