package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"classcheck/internal/qr"
	"classcheck/internal/roster"
)

type createStudentRequest struct {
	Name   string `json:"name" binding:"required"`
	Email  string `json:"email" binding:"required,email"`
	RollNo string `json:"roll_no" binding:"required"`
}

// CreateStudent registers a student; a fresh QR token is minted server-side.
func (h *Handler) CreateStudent(c *gin.Context) {
	var req createStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st, err := h.roster.Create(c.Request.Context(), req.Name, req.Email, req.RollNo)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, st)
}

// ListStudents returns all students.
func (h *Handler) ListStudents(c *gin.Context) {
	students, err := h.roster.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"students": students})
}

// ImportStudents bulk-creates students from an uploaded CSV file.
func (h *Handler) ImportStudents(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field required"})
		return
	}
	defer file.Close()

	res, err := h.roster.ImportCSV(c.Request.Context(), file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// StudentQR renders the student's QR code for a session as a PNG.
func (h *Handler) StudentQR(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id required"})
		return
	}
	st, err := h.roster.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, roster.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	size := 300
	if v := c.Query("size"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			size = parsed
		}
	}
	img, err := qr.PNG(qr.ScanURL(h.cfg.AppOrigin, st.ID, st.QRToken, sessionID), size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "qr render failed"})
		return
	}
	c.Data(http.StatusOK, "image/png", img)
}

type assignRequest struct {
	StudentIDs []string `json:"student_ids" binding:"required"`
}

// AssignStudents bulk-assigns students to a session.
func (h *Handler) AssignStudents(c *gin.Context) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.roster.AssignAll(c.Request.Context(), c.Param("id"), req.StudentIDs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"assigned": len(req.StudentIDs)})
}

// AssignStudent adds one student to a session; duplicates are no-ops.
func (h *Handler) AssignStudent(c *gin.Context) {
	if err := h.roster.Assign(c.Request.Context(), c.Param("id"), c.Param("studentID")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"assigned": true})
}

// UnassignStudent removes one student from a session; missing pairs are no-ops.
func (h *Handler) UnassignStudent(c *gin.Context) {
	if err := h.roster.Unassign(c.Request.Context(), c.Param("id"), c.Param("studentID")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"assigned": false})
}

// ListEnrolled returns the students assigned to a session.
func (h *Handler) ListEnrolled(c *gin.Context) {
	students, err := h.roster.Enrolled(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"students": students})
}
