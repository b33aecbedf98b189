package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"syncportal/internal/middleware"
	"syncportal/internal/models"
	"syncportal/internal/review"
	"syncportal/internal/verify"
)

func (h HandlerSet) Dashboard(c *gin.Context) {
	st, _ := middleware.CurrentSession(c)
	role, _ := st.Role()
	view, err := h.views.Dashboard(c.Request.Context(), role)
	h.respond(c, view, err)
}

func (h HandlerSet) Profile(c *gin.Context) {
	view, err := h.views.Profile(c.Request.Context())
	h.respond(c, view, err)
}

func (h HandlerSet) Achievements(c *gin.Context) {
	view, err := h.views.Achievements(c.Request.Context())
	h.respond(c, view, err)
}

func (h HandlerSet) SkillGap(c *gin.Context) {
	view, err := h.views.SkillGap(c.Request.Context())
	h.respond(c, view, err)
}

func (h HandlerSet) HRDashboard(c *gin.Context) {
	view, err := h.views.HRDashboard(c.Request.Context())
	h.respond(c, view, err)
}

func (h HandlerSet) CandidateMetrics(c *gin.Context) {
	view, err := h.views.CandidateMetrics(c.Request.Context(), c.Param("id"))
	h.respond(c, view, err)
}

func (h HandlerSet) Review(c *gin.Context) {
	limit, offset := paging(c)
	view, err := h.views.Review(c.Request.Context(), limit, offset)
	h.respond(c, view, err)
}

// paging reads perPage (1..200, default 50) and 1-based page. Pages whose
// offset would not fit in an int land past the end of any listing.
func paging(c *gin.Context) (int, int) {
	limit := 50
	offset := 0

	if perPage := c.Query("perPage"); perPage != "" {
		if v, err := strconv.Atoi(perPage); err == nil && v > 0 && v <= 200 {
			limit = v
		}
	}
	if page := c.Query("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 1 {
			if v-1 > math.MaxInt/limit {
				offset = math.MaxInt
			} else {
				offset = (v - 1) * limit
			}
		}
	}
	return limit, offset
}

type decisionRequest struct {
	Decision string `json:"decision" binding:"required"`
}

func (h HandlerSet) Decide(c *gin.Context) {
	var req decisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "decision_required"})
		return
	}

	decision := models.PendingStatus(strings.ToUpper(strings.TrimSpace(req.Decision)))
	if err := h.queue.Decide(c.Request.Context(), c.Param("id"), decision); err != nil {
		if errors.Is(err, review.ErrInvalidDecision) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_decision"})
			return
		}
		h.internalError(c, err)
		return
	}

	limit, offset := paging(c)
	view, err := h.views.Review(c.Request.Context(), limit, offset)
	h.respond(c, view, err)
}

type verifyRequest struct {
	Code string `json:"code"`
}

func (h HandlerSet) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_body"})
		return
	}

	outcome, err := h.verifier.Verify(c.Request.Context(), req.Code)
	if err != nil {
		if errors.Is(err, verify.ErrEmptyCode) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "code_required", "state": outcome.State})
			return
		}
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}
