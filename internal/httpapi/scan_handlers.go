package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"classcheck/internal/attendance"
	"classcheck/internal/auth"
	"classcheck/internal/metrics"
	"classcheck/internal/scan"
)

type scanRequest struct {
	Payload string `json:"payload" binding:"required"`
}

// Scan processes a decoded QR payload: parse, debounce, validate, record.
// Validator failures are recovered into a response; the scan loop never
// crashes on a bad scan and the next attempt is a fresh operation.
func (h *Handler) Scan(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.debouncer.Allow(req.Payload) {
		// same physical code read twice within the cooldown window
		metrics.ScansTotal.WithLabelValues("debounced").Inc()
		c.JSON(http.StatusOK, gin.H{"outcome": "debounced"})
		return
	}

	payload, err := scan.ParsePayload(req.Payload)
	if err != nil {
		metrics.ScansTotal.WithLabelValues("malformed_payload").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed payload: expected a scan URL with student_id, qr and session_id"})
		return
	}

	res, err := h.scans.Scan(c.Request.Context(), auth.CallerID(c), payload)
	if err != nil {
		h.scanError(c, err)
		return
	}

	metrics.ScansTotal.WithLabelValues(string(res.Outcome)).Inc()
	c.JSON(http.StatusOK, gin.H{
		"outcome":    res.Outcome,
		"student":    gin.H{"id": res.Student.ID, "name": res.Student.Name, "roll_no": res.Student.RollNo},
		"session":    gin.H{"id": res.Session.ID, "name": res.Session.Name},
		"scanned_at": res.ScannedAt,
	})
}

func (h *Handler) scanError(c *gin.Context, err error) {
	var notActive *attendance.SessionNotActiveError
	switch {
	case errors.Is(err, attendance.ErrSessionNotFound):
		metrics.ScansTotal.WithLabelValues("session_not_found").Inc()
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.As(err, &notActive):
		metrics.ScansTotal.WithLabelValues("session_not_active").Inc()
		c.JSON(http.StatusConflict, gin.H{"error": notActive.Error(), "session_name": notActive.Name})
	case errors.Is(err, attendance.ErrStudentNotFound):
		metrics.ScansTotal.WithLabelValues("student_not_found").Inc()
		c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
	case errors.Is(err, attendance.ErrTokenMismatch):
		metrics.ScansTotal.WithLabelValues("token_mismatch").Inc()
		c.JSON(http.StatusForbidden, gin.H{"error": "QR code validation failed: invalid or tampered token"})
	default:
		metrics.ScansTotal.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
