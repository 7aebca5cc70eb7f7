package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Spok95/sitin-tracker/internal/service"
)

type registerRequest struct {
	IDNumber   string `json:"idNumber"`
	FirstName  string `json:"firstName"`
	MiddleName string `json:"middleName"`
	LastName   string `json:"lastName"`
	Course     string `json:"course"`
	YearLevel  int    `json:"yearLevel"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	st, err := h.svc.Register(c.Request.Context(), service.RegisterInput{
		IDNumber:   req.IDNumber,
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
		Course:     req.Course,
		YearLevel:  req.YearLevel,
		Email:      req.Email,
		Password:   req.Password,
	})
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, gin.H{"student": st})
}

type loginRequest struct {
	IDNumber string `json:"idNumber"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	id := req.IDNumber
	if id == "" {
		id = req.Username
	}
	ident, err := h.svc.Login(c.Request.Context(), id, req.Password)
	if err != nil {
		h.failErr(c, err)
		return
	}
	token, err := h.sessions.Issue(ident)
	if err != nil {
		h.failErr(c, err)
		return
	}
	h.setSession(c, token)
	h.log.Info("login", "op", "login", "id", ident.Subject, "role", ident.Role)
	ok(c, http.StatusOK, gin.H{"user": ident, "token": token})
}

func (h *Handler) logout(c *gin.Context) {
	h.clearSession(c)
	ok(c, http.StatusOK, nil)
}

func (h *Handler) me(c *gin.Context) {
	id, _ := identity(c)
	body := gin.H{"user": id}
	if !id.IsAdmin() {
		st, err := h.svc.Student(c.Request.Context(), id.Subject)
		if err != nil {
			h.failErr(c, err)
			return
		}
		body["student"] = st
	}
	ok(c, http.StatusOK, body)
}

func (h *Handler) listStudents(c *gin.Context) {
	list, err := h.svc.Students(c.Request.Context())
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"students": list})
}

func (h *Handler) getStudent(c *gin.Context) {
	id, _ := identity(c)
	idNumber := c.Param("idNumber")
	if !id.IsAdmin() && id.Subject != idNumber {
		fail(c, http.StatusForbidden, "Forbidden")
		return
	}
	st, err := h.svc.Student(c.Request.Context(), idNumber)
	if err != nil {
		h.failErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"student": st})
}
