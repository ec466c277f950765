package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tutorlink/tutorlink-api/internal/dto"
	"github.com/tutorlink/tutorlink-api/internal/models"
	"github.com/tutorlink/tutorlink-api/internal/service"
	appErrors "github.com/tutorlink/tutorlink-api/pkg/errors"
	"github.com/tutorlink/tutorlink-api/pkg/response"
)

// TutorHandler manages marketplace profiles and the admin approval queue.
type TutorHandler struct {
	service *service.TutorService
}

// NewTutorHandler creates a new handler.
func NewTutorHandler(svc *service.TutorService) *TutorHandler {
	return &TutorHandler{service: svc}
}

// Search godoc
// @Summary Search tutors
// @Description List approved tutors matching the filters
// @Tags Tutors
// @Produce json
// @Param subject query string false "Subject filter"
// @Param max_rate query number false "Maximum hourly rate"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /tutors [get]
func (h *TutorHandler) Search(c *gin.Context) {
	var req dto.TutorSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid search query"))
		return
	}

	list, total, err := h.service.Search(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	page := req.Page
	if page <= 0 {
		page = 1
	}
	size := req.PageSize
	if size <= 0 {
		size = 20
	}
	response.JSON(c, http.StatusOK, list, &models.Pagination{Page: page, PageSize: size, TotalCount: total})
}

// MyProfile godoc
// @Summary Get own tutor profile
// @Tags Tutors
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /tutors/me [get]
func (h *TutorHandler) MyProfile(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	profile, err := h.service.Profile(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, profile, nil)
}

// UpsertProfile godoc
// @Summary Create or update tutor profile
// @Description Any change sends the profile back to admin review
// @Tags Tutors
// @Accept json
// @Produce json
// @Param payload body dto.UpsertTutorProfileRequest true "Profile"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /tutors/me [put]
func (h *TutorHandler) UpsertProfile(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.UpsertTutorProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid profile payload"))
		return
	}

	profile, err := h.service.UpsertProfile(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, profile, nil)
}

// PendingApproval godoc
// @Summary List profiles awaiting review
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/tutors/pending [get]
func (h *TutorHandler) PendingApproval(c *gin.Context) {
	list, err := h.service.ListPendingApproval(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, list, nil)
}

// Decide godoc
// @Summary Approve or reject a tutor profile
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Tutor user ID"
// @Param payload body dto.TutorApprovalRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/tutors/{id}/approval [post]
func (h *TutorHandler) Decide(c *gin.Context) {
	var req dto.TutorApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid decision payload"))
		return
	}

	profile, err := h.service.Decide(c.Request.Context(), c.Param("id"), req.Approve, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, profile, nil)
}
