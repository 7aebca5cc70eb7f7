// Package api exposes the service over JSON HTTP. Every error answers
// {"success": false, "message": "..."}.
package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Spok95/sitin-tracker/internal/auth"
	"github.com/Spok95/sitin-tracker/internal/service"
)

const identityKey = "identity"

type Handler struct {
	svc          *service.Service
	sessions     *auth.Sessions
	cookie       string
	secureCookie bool
	log          *slog.Logger
}

func New(svc *service.Service, sessions *auth.Sessions, cookieName string, secureCookie bool, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Handler{svc: svc, sessions: sessions, cookie: cookieName, secureCookie: secureCookie, log: log}
}

func (h *Handler) Mount(r gin.IRouter) {
	r.Use(h.session())

	r.POST("/register", h.register)
	r.POST("/login", h.login)
	r.POST("/logout", h.logout)
	r.GET("/announcements", h.listAnnouncements)

	authed := r.Group("", requireLogin())
	authed.GET("/me", h.me)
	authed.GET("/reservations", h.listReservations)
	authed.GET("/students/:idNumber", h.getStudent)
	authed.GET("/semesters", h.semesters)

	student := authed.Group("", requireRole(auth.RoleStudent))
	student.POST("/reserve", h.reserve)
	student.POST("/feedback", h.submitFeedback)

	admin := authed.Group("", requireRole(auth.RoleAdmin))
	admin.POST("/update-reservation", h.updateReservation)
	admin.POST("/create-walkin", h.createWalkIn)
	admin.POST("/add-student-points", h.addStudentPoints)
	admin.POST("/reset-sessions", h.resetSessions)
	admin.GET("/reset-logs", h.resetLogs)
	admin.GET("/students", h.listStudents)
	admin.POST("/announcements", h.postAnnouncement)
	admin.DELETE("/announcements/:id", h.deleteAnnouncement)
	admin.GET("/feedback", h.listFeedback)
	admin.POST("/auto-logout", h.autoLogout)
	admin.GET("/export/records.xlsx", h.exportRecords)
}

// session reads the identity from the session cookie, or a bearer token for
// non-browser clients. A bad token is treated as no session.
func (h *Handler) session() gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, err := c.Cookie(h.cookie)
		if err != nil || tok == "" {
			if v := c.GetHeader("Authorization"); strings.HasPrefix(v, "Bearer ") {
				tok = strings.TrimPrefix(v, "Bearer ")
			}
		}
		if tok != "" {
			if id, err := h.sessions.Parse(tok); err == nil {
				c.Set(identityKey, id)
			}
		}
		c.Next()
	}
}

func identity(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok
}

func requireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := identity(c); !ok {
			fail(c, http.StatusUnauthorized, "Not logged in")
			return
		}
		c.Next()
	}
}

func requireRole(role auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := identity(c)
		if id.Role != role {
			fail(c, http.StatusForbidden, "Forbidden")
			return
		}
		c.Next()
	}
}

func (h *Handler) setSession(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie, token, int(h.sessions.TTL().Seconds()), "/", "", h.secureCookie, true)
}

func (h *Handler) clearSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie, "", -1, "/", "", h.secureCookie, true)
}
