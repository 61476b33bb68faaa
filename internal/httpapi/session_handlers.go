package httpapi

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"classcheck/internal/auth"
	"classcheck/internal/metrics"
	"classcheck/internal/report"
	"classcheck/internal/session"
)

type createSessionRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateSession registers a session owned by the caller.
func (h *Handler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess, err := h.sessions.Create(c.Request.Context(), auth.CallerID(c), req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, sess)
}

// ListSessions returns the caller's sessions.
func (h *Handler) ListSessions(c *gin.Context) {
	sessions, err := h.sessions.List(c.Request.Context(), auth.CallerID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// GetSession returns one session.
func (h *Handler) GetSession(c *gin.Context) {
	sess, ok := h.ownedSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess)
}

// StartSession activates a session and provisions baseline absent rows.
func (h *Handler) StartSession(c *gin.Context) {
	if _, ok := h.ownedSession(c); !ok {
		return
	}
	res, err := h.sessions.Start(c.Request.Context(), auth.CallerID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, session.ErrAlreadyStarted) {
			c.JSON(http.StatusConflict, gin.H{"error": "session already started"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	metrics.ProvisionedRows.Add(float64(res.Provisioned))
	c.JSON(http.StatusOK, res)
}

// StopSession deactivates a session; stopping twice is benign.
func (h *Handler) StopSession(c *gin.Context) {
	if _, ok := h.ownedSession(c); !ok {
		return
	}
	res, err := h.sessions.Stop(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// ProvisionSession re-runs provisioning on an active session; the repair
// path for a start whose bulk insert failed midway.
func (h *Handler) ProvisionSession(c *gin.Context) {
	if _, ok := h.ownedSession(c); !ok {
		return
	}
	res, err := h.sessions.Provision(c.Request.Context(), auth.CallerID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, session.ErrNotActive) {
			c.JSON(http.StatusConflict, gin.H{"error": "session not active"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	metrics.ProvisionedRows.Add(float64(res.Provisioned))
	c.JSON(http.StatusOK, res)
}

// SessionReport returns the attendance rows and counts for a session.
func (h *Handler) SessionReport(c *gin.Context) {
	if _, ok := h.ownedSession(c); !ok {
		return
	}
	sum, err := h.reports.SessionReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sum)
}

// SessionReportCSV streams the report as a CSV download.
func (h *Handler) SessionReportCSV(c *gin.Context) {
	if _, ok := h.ownedSession(c); !ok {
		return
	}
	sum, err := h.reports.SessionReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="attendance-`+c.Param("id")+`.csv"`)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)
	if err := report.WriteCSV(c.Writer, sum.Rows); err != nil {
		log.Printf("csv export for session %s failed: %v", c.Param("id"), err)
	}
}

// ownedSession loads the session and enforces caller ownership. It writes
// the error response itself when the check fails.
func (h *Handler) ownedSession(c *gin.Context) (session.Session, bool) {
	sess, err := h.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return session.Session{}, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return session.Session{}, false
	}
	if sess.TeacherID != auth.CallerID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your session"})
		return session.Session{}, false
	}
	return sess, true
}
