package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Spok95/sitin-tracker/internal/auth"
	"github.com/Spok95/sitin-tracker/internal/domain/announcements"
	"github.com/Spok95/sitin-tracker/internal/domain/feedback"
	"github.com/Spok95/sitin-tracker/internal/domain/lifecycle"
	"github.com/Spok95/sitin-tracker/internal/domain/points"
	"github.com/Spok95/sitin-tracker/internal/domain/records"
	"github.com/Spok95/sitin-tracker/internal/domain/resets"
	"github.com/Spok95/sitin-tracker/internal/domain/students"
	"github.com/Spok95/sitin-tracker/internal/service"
	"github.com/Spok95/sitin-tracker/internal/storage"
)

type errorClass struct {
	err     error
	status  int
	message string
}

// Order matters: the first match wins.
var errorClasses = []errorClass{
	{storage.ErrNotFound, http.StatusNotFound, "Not found"},
	{storage.ErrConflict, http.StatusConflict, "Already exists"},
	{lifecycle.ErrQuotaExhausted, http.StatusConflict, "No remaining sessions"},
	{lifecycle.ErrInvalidTransition, http.StatusConflict, ""},
	{lifecycle.ErrWrongStudent, http.StatusBadRequest, ""},
	{points.ErrNoCompletedSessions, http.StatusBadRequest, "Student has no completed sessions"},
	{resets.ErrInvalidSemester, http.StatusBadRequest, ""},
	{resets.ErrInvalidType, http.StatusBadRequest, ""},
	{resets.ErrMissingStudent, http.StatusBadRequest, ""},
	{resets.ErrMissingAdmin, http.StatusBadRequest, ""},
	{service.ErrDuplicateSlot, http.StatusConflict, "You already have a reservation for this slot"},
	{service.ErrActiveSession, http.StatusConflict, "Student already has an active session"},
	{service.ErrInvalidInput, http.StatusBadRequest, ""},
	{service.ErrForbidden, http.StatusForbidden, "Forbidden"},
	{records.ErrInvalid, http.StatusBadRequest, ""},
	{students.ErrInvalid, http.StatusBadRequest, ""},
	{announcements.ErrEmpty, http.StatusBadRequest, ""},
	{feedback.ErrRating, http.StatusBadRequest, ""},
	{feedback.ErrNotFinished, http.StatusBadRequest, ""},
	{feedback.ErrAlreadyGiven, http.StatusConflict, ""},
	{auth.ErrWeakPassword, http.StatusBadRequest, ""},
	{auth.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
	{auth.ErrInvalidSession, http.StatusUnauthorized, "Not logged in"},
}

func classify(err error) (int, string) {
	for _, ec := range errorClasses {
		if errors.Is(err, ec.err) {
			msg := ec.message
			if msg == "" {
				msg = err.Error()
			}
			return ec.status, msg
		}
	}
	return http.StatusInternalServerError, "Internal server error"
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": msg})
}

func (h *Handler) failErr(c *gin.Context, err error) {
	status, msg := classify(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "err", err)
	}
	fail(c, status, msg)
}

func ok(c *gin.Context, status int, body gin.H) {
	if body == nil {
		body = gin.H{}
	}
	body["success"] = true
	c.JSON(status, body)
}
