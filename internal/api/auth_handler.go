package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/wedding-planner-api/internal/auth"
	"github.com/wedding-planner-api/internal/navigation"
	"github.com/wedding-planner-api/internal/service"
	"github.com/wedding-planner-api/internal/validation"
)

// sessionHeader carries the client session token
const sessionHeader = "X-Session-Token"

// codeStatus maps provider failures to HTTP statuses
var codeStatus = map[auth.Code]int{
	auth.CodeUserNotFound:        http.StatusUnauthorized,
	auth.CodeWrongPassword:       http.StatusUnauthorized,
	auth.CodeInvalidEmail:        http.StatusBadRequest,
	auth.CodeWeakPassword:        http.StatusBadRequest,
	auth.CodeEmailInUse:          http.StatusConflict,
	auth.CodeTooManyRequests:     http.StatusTooManyRequests,
	auth.CodeNetwork:             http.StatusServiceUnavailable,
	auth.CodeOperationNotAllowed: http.StatusForbidden,
	auth.CodeInternal:            http.StatusInternalServerError,
}

// AuthHandler handles session, authentication and navigation endpoints
type AuthHandler struct {
	sessions *auth.Store
	log      zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(services *service.Services, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		sessions: services.Sessions,
		log:      log.With().Str("handler", "auth").Logger(),
	}
}

type sessionResponse struct {
	Token      string           `json:"token"`
	User       *auth.User       `json:"user"`
	Pending    bool             `json:"pending"`
	Navigation navigation.State `json:"navigation"`
}

func describe(token string, sess *auth.Session) sessionResponse {
	return sessionResponse{
		Token:      token,
		User:       sess.Current(),
		Pending:    sess.Pending(),
		Navigation: sess.Navigator().State(),
	}
}

// CreateSession handles POST /v1/auth/session
// Starts a signed-out session at the Splash route
func (h *AuthHandler) CreateSession(c *gin.Context) {
	token, sess := h.sessions.Create()
	c.JSON(http.StatusCreated, describe(token, sess))
}

// GetSession handles GET /v1/auth/session
func (h *AuthHandler) GetSession(c *gin.Context) {
	token, sess, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, describe(token, sess))
}

// EndSession handles DELETE /v1/auth/session
func (h *AuthHandler) EndSession(c *gin.Context) {
	token := c.GetHeader(sessionHeader)
	if !h.sessions.Delete(token) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// SignUp handles POST /v1/auth/signup
// A session is created when the request carries none and kept only if the
// sign-up succeeds.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var form validation.SignUpForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	token, sess, created, ok := h.sessionOrNew(c)
	if !ok {
		return
	}

	if _, err := sess.SignUp(c.Request.Context(), form); err != nil {
		if created {
			h.sessions.Delete(token)
		}
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, describe(token, sess))
}

// SignIn handles POST /v1/auth/signin
// A session is created when the request carries none and kept only if the
// sign-in succeeds.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var form validation.SignInForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	token, sess, created, ok := h.sessionOrNew(c)
	if !ok {
		return
	}

	if _, err := sess.SignIn(c.Request.Context(), form); err != nil {
		if created {
			h.sessions.Delete(token)
		}
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, describe(token, sess))
}

// SignOut handles POST /v1/auth/signout
func (h *AuthHandler) SignOut(c *gin.Context) {
	token, sess, ok := h.session(c)
	if !ok {
		return
	}

	if err := sess.SignOut(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, describe(token, sess))
}

// GetNavigation handles GET /v1/navigation
func (h *AuthHandler) GetNavigation(c *gin.Context) {
	_, sess, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.Navigator().State())
}

// Navigate handles POST /v1/navigation/navigate
func (h *AuthHandler) Navigate(c *gin.Context) {
	_, sess, ok := h.session(c)
	if !ok {
		return
	}

	var req struct {
		Route  navigation.Route `json:"route"`
		Params map[string]any   `json:"params,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := sess.Navigator().Navigate(req.Route, req.Params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sess.Navigator().State())
}

// GoBack handles POST /v1/navigation/back
func (h *AuthHandler) GoBack(c *gin.Context) {
	_, sess, ok := h.session(c)
	if !ok {
		return
	}

	popped := sess.Navigator().GoBack()
	c.JSON(http.StatusOK, gin.H{"popped": popped, "navigation": sess.Navigator().State()})
}

// SelectTab handles PUT /v1/navigation/tab
func (h *AuthHandler) SelectTab(c *gin.Context) {
	_, sess, ok := h.session(c)
	if !ok {
		return
	}

	var req struct {
		Tab navigation.Tab `json:"tab"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := sess.Navigator().SelectTab(req.Tab); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, navigation.ErrNotOnTabs) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sess.Navigator().State())
}

func (h *AuthHandler) session(c *gin.Context) (string, *auth.Session, bool) {
	token := c.GetHeader(sessionHeader)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": sessionHeader + " header is required"})
		return "", nil, false
	}
	sess, ok := h.sessions.Get(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return "", nil, false
	}
	return token, sess, true
}

// sessionOrNew also reports whether the session was created for this request
func (h *AuthHandler) sessionOrNew(c *gin.Context) (string, *auth.Session, bool, bool) {
	if c.GetHeader(sessionHeader) == "" {
		token, sess := h.sessions.Create()
		return token, sess, true, true
	}
	token, sess, ok := h.session(c)
	return token, sess, false, ok
}

// fail maps an authentication error to its response. Provider failures carry
// the code and its fixed message.
func (h *AuthHandler) fail(c *gin.Context, err error) {
	var formErr *auth.FormError
	var authErr *auth.Error

	switch {
	case errors.As(err, &formErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": formErr.Error(), "details": formErr.Errors})
	case errors.Is(err, auth.ErrRequestPending):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &authErr):
		status, ok := codeStatus[authErr.Code]
		if !ok {
			status = http.StatusInternalServerError
		}
		if status >= 500 {
			h.log.Error().Err(err).Msg("Identity provider failed")
		}
		c.JSON(status, gin.H{"error": auth.Message(authErr.Code), "code": authErr.Code})
	default:
		h.log.Error().Err(err).Msg("Authentication request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": auth.DefaultMessage, "code": auth.CodeUnknown})
	}
}
