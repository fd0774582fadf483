package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/UnknownOlympus/herroute/internal/apperr"
	"github.com/UnknownOlympus/herroute/internal/models"
	"github.com/UnknownOlympus/herroute/internal/render"
	"github.com/UnknownOlympus/herroute/internal/view"
	"github.com/gin-gonic/gin"
)

// errorResponse is the body of every failed API call.
type errorResponse struct {
	Error string `json:"error"`
}

type stateResponse struct {
	State   view.State   `json:"state"`
	Display view.Display `json:"display"`
}

type contactForm struct {
	Name    string `form:"name"    binding:"required,max=100"`
	Email   string `form:"email"   binding:"required,email"`
	Message string `form:"message" binding:"required,max=200"`
}

func (s *Server) respondError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		if appErr.Kind == apperr.KindInternal || appErr.Kind == apperr.KindUnknown {
			s.log.ErrorContext(c.Request.Context(), "Request failed", "path", c.FullPath(), "error", err)
		}
		c.JSON(appErr.HTTPStatus(), errorResponse{Error: appErr.Message})
		return
	}

	s.log.ErrorContext(c.Request.Context(), "Request failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}

func backToPage(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleIndex(c *gin.Context) {
	state := controller(c).State()

	notice := ""
	if state.Panel == view.PanelContact {
		switch {
		case c.Query("sent") == "1":
			notice = view.TextFor(state.Language).ContactThanks
		case c.Query("invalid") == "1":
			notice = view.TextFor(state.Language).ContactInvalid
		}
	}

	page, err := s.renderer.Page(state, s.streets.Snapshot(), notice)
	if err != nil {
		s.respondError(c, apperr.Internal("failed to render page", err))
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// handlePanel wraps a transition that cannot fail.
func (s *Server) handlePanel(transition func(*view.Controller)) gin.HandlerFunc {
	return func(c *gin.Context) {
		transition(controller(c))
		backToPage(c)
	}
}

func (s *Server) handlePreset(c *gin.Context) {
	if err := controller(c).SelectPreset(view.Preset(c.PostForm("preset"))); err != nil {
		s.respondError(c, err)
		return
	}
	backToPage(c)
}

func (s *Server) handleLanguage(c *gin.Context) {
	lang, err := models.ParseLanguage(c.PostForm("language"))
	if err != nil {
		s.respondError(c, apperr.Wrap(apperr.KindValidation, "unknown language", err))
		return
	}

	if err = controller(c).SelectLanguage(lang); err != nil {
		s.respondError(c, err)
		return
	}
	backToPage(c)
}

func (s *Server) handleContact(c *gin.Context) {
	var form contactForm
	if err := c.ShouldBind(&form); err != nil {
		s.log.WarnContext(c.Request.Context(), "Invalid contact form", "error", err)
		c.Redirect(http.StatusSeeOther, "/?invalid=1")
		return
	}

	ctx := c.Request.Context()
	s.log.InfoContext(ctx, "Contact message received",
		"name_len", len(form.Name),
		"email_domain", emailDomain(form.Email),
		"message_len", len(form.Message),
	)
	s.log.DebugContext(ctx, "Contact message content",
		"name", form.Name,
		"email", form.Email,
		"message", form.Message,
	)
	s.metrics.ContactMessages.Inc()

	c.Redirect(http.StatusSeeOther, "/?sent=1")
}

func emailDomain(email string) string {
	if at := strings.LastIndexByte(email, '@'); at >= 0 {
		return email[at+1:]
	}
	return ""
}

func (s *Server) handleSearch(c *gin.Context) {
	ctrl := controller(c)

	result, err := s.search.Search(c.Request.Context(), ctrl, c.PostForm("q"))
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			c.JSON(http.StatusNotFound, errorResponse{Error: view.TextFor(ctrl.State().Language).NotFound})
			return
		}
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) handleState(c *gin.Context) {
	state := controller(c).State()
	c.JSON(http.StatusOK, stateResponse{State: state, Display: view.Derive(state)})
}

func (s *Server) handleStreets(c *gin.Context) {
	c.JSON(http.StatusOK, render.Overlays(s.streets.Snapshot()))
}

func (s *Server) handleStreetsGeoJSON(c *gin.Context) {
	body, err := json.Marshal(render.GeoJSON(s.streets.Snapshot()))
	if err != nil {
		s.respondError(c, apperr.Internal("failed to encode streets", err))
		return
	}

	c.Data(http.StatusOK, "application/geo+json", body)
}
