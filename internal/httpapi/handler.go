package httpapi

import (
	"github.com/gin-gonic/gin"

	"classcheck/internal/attendance"
	"classcheck/internal/auth"
	"classcheck/internal/config"
	"classcheck/internal/mailer"
	"classcheck/internal/queue"
	"classcheck/internal/report"
	"classcheck/internal/roster"
	"classcheck/internal/scan"
	"classcheck/internal/session"
)

// Handler wires the HTTP surface to the services.
type Handler struct {
	cfg       config.App
	accounts  *auth.Repository
	roster    *roster.Service
	sessions  *session.Service
	scans     *attendance.Service
	reports   *report.Repository
	batches   *mailer.Repository
	q         queue.Queue
	debouncer *scan.Debouncer
}

// New creates a handler.
func New(
	cfg config.App,
	accounts *auth.Repository,
	rosterSvc *roster.Service,
	sessions *session.Service,
	scans *attendance.Service,
	reports *report.Repository,
	batches *mailer.Repository,
	q queue.Queue,
	debouncer *scan.Debouncer,
) *Handler {
	return &Handler{
		cfg:       cfg,
		accounts:  accounts,
		roster:    rosterSvc,
		sessions:  sessions,
		scans:     scans,
		reports:   reports,
		batches:   batches,
		q:         q,
		debouncer: debouncer,
	}
}

// Register mounts all routes on the engine.
func (h *Handler) Register(r *gin.Engine) {
	r.POST("/v1/auth/register", h.RegisterTeacher)
	r.POST("/v1/auth/login", h.Login)
	r.POST("/v1/auth/refresh", h.Refresh)

	v1 := r.Group("/v1", auth.TeacherAuth(h.cfg.JWTSigningKey, h.cfg.JWTIssuer))

	v1.POST("/students", h.CreateStudent)
	v1.GET("/students", h.ListStudents)
	v1.POST("/students/import", h.ImportStudents)
	v1.GET("/students/:id/qr", h.StudentQR)

	v1.POST("/sessions", h.CreateSession)
	v1.GET("/sessions", h.ListSessions)
	v1.GET("/sessions/:id", h.GetSession)
	v1.POST("/sessions/:id/start", h.StartSession)
	v1.POST("/sessions/:id/stop", h.StopSession)
	v1.POST("/sessions/:id/provision", h.ProvisionSession)

	v1.GET("/sessions/:id/students", h.ListEnrolled)
	v1.POST("/sessions/:id/students", h.AssignStudents)
	v1.PUT("/sessions/:id/students/:studentID", h.AssignStudent)
	v1.DELETE("/sessions/:id/students/:studentID", h.UnassignStudent)

	v1.POST("/scan", h.Scan)

	v1.GET("/sessions/:id/report", h.SessionReport)
	v1.GET("/sessions/:id/report.csv", h.SessionReportCSV)

	v1.POST("/sessions/:id/email-qr", h.SubmitEmailBatch)
	v1.GET("/email-batches/:id", h.GetEmailBatch)
}
