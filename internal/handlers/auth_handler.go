package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "merlin/internal/errors"
	"merlin/internal/middleware"
	"merlin/internal/models"
	"merlin/internal/services"
)

// AuthHandler handles login, registration and session requests
type AuthHandler struct {
	sessionService services.SessionServicer
	jwtSecret      string
	tokenTTL       time.Duration
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(sessionService services.SessionServicer, jwtSecret string, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		sessionService: sessionService,
		jwtSecret:      jwtSecret,
		tokenTTL:       tokenTTL,
	}
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Name                 string `json:"name" binding:"required,max=255"`
	Email                string `json:"email" binding:"required,email,max=255"`
	Password             string `json:"password" binding:"required,max=128"`
	PasswordConfirmation string `json:"password_confirmation" binding:"required,eqfield=Password"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents the authentication response with token
type AuthResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      models.User `json:"user"`
}

// Register handles user registration
// @Summary     Register a new user
// @Description Create an account on the finance backend and open a session
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "Registration form"
// @Success     201 {object} AuthResponse "User registered and token generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     422 {object} ErrorResponse "Rejected by the finance backend"
// @Failure     502 {object} ErrorResponse "Finance backend unavailable"
// @Router      /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	session, err := h.sessionService.Register(c.Request.Context(), services.RegisterInput{
		Name:                 req.Name,
		Email:                req.Email,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
	}, c.ClientIP())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.respondWithToken(c, http.StatusCreated, session)
}

// Login handles user login
// @Summary     Login user
// @Description Authenticate against the finance backend and get a gateway token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "User login credentials"
// @Success     200 {object} AuthResponse "User authenticated and token generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Failure     502 {object} ErrorResponse "Finance backend unavailable"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	session, err := h.sessionService.Login(c.Request.Context(), req.Email, req.Password, c.ClientIP())
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.respondWithToken(c, http.StatusOK, session)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, session *models.Session) {
	token, expiresAt, err := middleware.GenerateAccessToken(h.jwtSecret, session, h.tokenTTL)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(status, AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      session.User(),
	})
}

// Logout ends the caller's session
// @Summary     Logout
// @Description Revoke the backend token and end the session
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]string "Logged out"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	principal, err := getPrincipal(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.sessionService.Logout(c.Request.Context(), principal); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// GetSession reports whether the caller is logged in
// @Summary     Session status
// @Description Returns the login flag and current user. Works without a token.
// @Tags        auth
// @Produce     json
// @Success     200 {object} services.SessionStatus
// @Router      /session [get]
func (h *AuthHandler) GetSession(c *gin.Context) {
	status, err := h.sessionService.Status(c.GetString(middleware.SessionIDKey))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// GetProfile returns the logged-in user
// @Summary     Get user profile
// @Description Get the profile of the user behind the session
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]models.User "User profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	principal, err := getPrincipal(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": principal.User})
}
