package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Spok95/sitin-tracker/internal/domain/records"
	"github.com/Spok95/sitin-tracker/internal/domain/resets"
	"github.com/Spok95/sitin-tracker/internal/service"
)

type reserveRequest struct {
	Date                string `json:"date"`
	Time                string `json:"time"`
	Purpose             string `json:"purpose"`
	LabRoom             string `json:"labRoom"`
	ProgrammingLanguage string `json:"programmingLanguage"`
}

func (h *Handler) reserve(c *gin.Context) {
	var req reserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	id, _ := identity(c)
	rec, err := h.svc.Reserve(c.Request.Context(), id.Subject, service.ReserveInput{
		Date: req.Date,
		Time: req.Time,
		Details: records.Details{
			Purpose:             req.Purpose,
			LabRoom:             req.LabRoom,
			ProgrammingLanguage: req.ProgrammingLanguage,
		},
	})
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"reservation": rec})
}

type updateReservationRequest struct {
	ID     string         `json:"id"`
	Status records.Status `json:"status"`
}

func (h *Handler) updateReservation(c *gin.Context) {
	var req updateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == "" {
		fail(c, http.StatusBadRequest, "id and status are required")
		return
	}
	rec, st, err := h.svc.UpdateReservation(c.Request.Context(), req.ID, req.Status)
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"reservation": rec, "student": st})
}

func (h *Handler) listReservations(c *gin.Context) {
	id, _ := identity(c)
	f := records.Filter{
		IDNumber: c.Query("idNumber"),
		Status:   records.Status(c.Query("status")),
		From:     c.Query("from"),
		To:       c.Query("to"),
	}
	if v := c.Query("walkIn"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			fail(c, http.StatusBadRequest, "walkIn must be true or false")
			return
		}
		f.WalkIn = &b
	}
	if f.Status != "" && !f.Status.Valid() {
		fail(c, http.StatusBadRequest, "unknown status")
		return
	}
	if !id.IsAdmin() {
		f.IDNumber = id.Subject
	}
	list, err := h.svc.Reservations(c.Request.Context(), f)
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"reservations": list})
}

type walkInRequest struct {
	IDNumber            string `json:"idNumber"`
	Purpose             string `json:"purpose"`
	LabRoom             string `json:"labRoom"`
	ProgrammingLanguage string `json:"programmingLanguage"`
}

func (h *Handler) createWalkIn(c *gin.Context) {
	var req walkInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	rec, st, err := h.svc.CreateWalkIn(c.Request.Context(), service.WalkInInput{
		IDNumber: req.IDNumber,
		Details: records.Details{
			Purpose:             req.Purpose,
			LabRoom:             req.LabRoom,
			ProgrammingLanguage: req.ProgrammingLanguage,
		},
	})
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"sitIn": rec, "student": st})
}

type pointsRequest struct {
	IDNumber string `json:"idNumber"`
}

func (h *Handler) addStudentPoints(c *gin.Context) {
	var req pointsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IDNumber == "" {
		fail(c, http.StatusBadRequest, "idNumber is required")
		return
	}
	res, err := h.svc.AddStudentPoints(c.Request.Context(), req.IDNumber)
	if err != nil {
		h.failErr(c, err)
		return
	}
	msg := "Point added"
	if res.Converted {
		msg = "Points converted to an extra session"
	}
	ok(c, http.StatusOK, gin.H{
		"message":           msg,
		"points":            res.Points,
		"remainingSessions": res.RemainingSessions,
		"converted":         res.Converted,
	})
}

type resetRequest struct {
	ResetType resets.Type `json:"resetType"`
	IDNumber  string      `json:"idNumber"`
	Semester  string      `json:"semester"`
	Year      int         `json:"year"`
}

func (h *Handler) resetSessions(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	admin, _ := identity(c)
	entry, err := h.svc.ResetSessions(c.Request.Context(), resets.Request{
		Type:     req.ResetType,
		IDNumber: req.IDNumber,
		Semester: req.Semester,
		Year:     req.Year,
		AdminID:  admin.Subject,
	})
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"log": entry})
}

func (h *Handler) resetLogs(c *gin.Context) {
	logs, err := h.svc.ResetLogs(c.Request.Context())
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"logs": logs})
}

func (h *Handler) semesters(c *gin.Context) {
	ok(c, http.StatusOK, gin.H{"semesters": h.svc.Semesters()})
}

func (h *Handler) autoLogout(c *gin.Context) {
	n, err := h.svc.AutoLogout(c.Request.Context())
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"closed": n})
}
