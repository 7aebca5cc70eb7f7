package api

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Spok95/sitin-tracker/internal/domain/records"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type announcementRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (h *Handler) listAnnouncements(c *gin.Context) {
	list, err := h.svc.Announcements(c.Request.Context())
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"announcements": list})
}

func (h *Handler) postAnnouncement(c *gin.Context) {
	var req announcementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	admin, _ := identity(c)
	a, err := h.svc.PostAnnouncement(c.Request.Context(), admin.Subject, req.Title, req.Content)
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"announcement": a})
}

func (h *Handler) deleteAnnouncement(c *gin.Context) {
	if err := h.svc.DeleteAnnouncement(c.Request.Context(), c.Param("id")); err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, http.StatusOK, nil)
}

type feedbackRequest struct {
	RecordID string `json:"recordId"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

func (h *Handler) submitFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RecordID == "" {
		fail(c, http.StatusBadRequest, "recordId and rating are required")
		return
	}
	id, _ := identity(c)
	fb, err := h.svc.SubmitFeedback(c.Request.Context(), id.Subject, req.RecordID, req.Rating, req.Comment)
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"feedback": fb})
}

func (h *Handler) listFeedback(c *gin.Context) {
	list, err := h.svc.Feedback(c.Request.Context())
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"feedback": list})
}

// exportRecords renders into memory first so a failure still gets a JSON
// error instead of a truncated download.
func (h *Handler) exportRecords(c *gin.Context) {
	f := records.Filter{
		IDNumber: c.Query("idNumber"),
		Status:   records.Status(c.Query("status")),
		From:     c.Query("from"),
		To:       c.Query("to"),
	}
	var buf bytes.Buffer
	if err := h.svc.WriteReport(c.Request.Context(), &buf, f); err != nil {
		h.failErr(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="records.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
