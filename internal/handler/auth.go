package handler

import (
	"net/http"

	"stockatelier/internal/apierror"
	"stockatelier/internal/dto"
	"stockatelier/internal/permissions"
	"stockatelier/internal/service"
	"stockatelier/internal/session"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc      service.AuthService
	sessions *session.Store
	secure   bool
}

func NewAuthHandler(svc service.AuthService, sessions *session.Store, secure bool) *AuthHandler {
	return &AuthHandler{svc: svc, sessions: sessions, secure: secure}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	cookieValue, err := h.sessions.Create(user.ID, user.Username, user.Role)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	h.setCookie(c, cookieValue, int(session.TTL.Seconds()))

	c.JSON(http.StatusOK, dto.LoginResponse{
		Message:  "login successful",
		Username: user.Username,
		Role:     user.Role,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if cookie, err := c.Cookie(session.CookieName); err == nil {
		h.sessions.Destroy(cookie)
	}
	h.setCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Check answers "am I logged in" without the generic 401 envelope: the login
// page polls it and keys off the authenticated flag.
func (h *AuthHandler) Check(c *gin.Context) {
	sess := h.resolve(c)
	if sess == nil {
		c.JSON(http.StatusUnauthorized, dto.CheckResponse{Authenticated: false})
		return
	}
	c.JSON(http.StatusOK, dto.CheckResponse{
		Authenticated: true,
		User: &dto.SessionUser{
			ID:       sess.UserID,
			Username: sess.Username,
			Role:     sess.Role,
		},
	})
}

func (h *AuthHandler) Permissions(c *gin.Context) {
	sess := h.resolve(c)
	if sess == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("authentication required"))
		return
	}
	c.JSON(http.StatusOK, dto.PermissionsResponse{
		Role:        sess.Role,
		Username:    sess.Username,
		Permissions: permissions.ForRole(sess.Role),
	})
}

func (h *AuthHandler) resolve(c *gin.Context) *session.Session {
	cookie, err := c.Cookie(session.CookieName)
	if err != nil {
		return nil
	}
	sess, err := h.sessions.Resolve(cookie)
	if err != nil {
		return nil
	}
	return sess
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, value, maxAge, "/", "", h.secure, true)
}
