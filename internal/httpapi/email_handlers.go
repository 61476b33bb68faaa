package httpapi

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"classcheck/internal/auth"
	"classcheck/internal/queue"
)

// SubmitEmailBatch enqueues a QR email run for the session's enrolled
// students. The worker does the sending; poll GetEmailBatch for counts.
func (h *Handler) SubmitEmailBatch(c *gin.Context) {
	if _, ok := h.ownedSession(c); !ok {
		return
	}

	origin := h.cfg.AppOrigin
	var req struct {
		Origin string `json:"origin"`
	}
	if err := c.ShouldBindJSON(&req); err == nil && req.Origin != "" {
		origin = req.Origin
	}

	batch, err := h.batches.CreateBatch(c.Request.Context(), c.Param("id"), auth.CallerID(c), origin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := h.q.Publish(c.Request.Context(), queue.Message{Type: "email_batch", Body: []byte(batch.ID)}); err != nil {
		log.Printf("queue publish failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "enqueue failed"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"batch_id": batch.ID, "status": batch.Status})
}

// GetEmailBatch reports a batch's aggregate delivery counts.
func (h *Handler) GetEmailBatch(c *gin.Context) {
	batch, err := h.batches.GetBatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if batch == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "batch not found"})
		return
	}
	if batch.TeacherID != auth.CallerID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your batch"})
		return
	}
	c.JSON(http.StatusOK, batch)
}
