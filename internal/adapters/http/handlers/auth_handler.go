package handlers

import (
	"errors"
	"time"

	"palika-console/internal/config"
	"palika-console/internal/core/services"
	"palika-console/internal/pkg/response"
	"palika-console/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// Login handles user login
// @Summary Login
// @Description Authenticate with email and password, returns token and user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.LoginInput true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	// 1. Parse request body
	var input services.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// 2. Validate
	if errs := validation.LoginSchema.Validate(validation.Values{
		"email":    input.Email,
		"password": input.Password,
	}); errs != nil {
		return response.ValidationFailed(c, errs)
	}

	// 3. Authenticate
	result, err := h.authService.Login(c.UserContext(), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			return response.Unauthorized(c, "Invalid email or password")
		case errors.Is(err, services.ErrUserInactive):
			return response.Forbidden(c, "Account is inactive")
		default:
			return response.InternalServerError(c, "Login failed")
		}
	}

	// 4. Set auth cookies for browser clients
	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)

	return response.Success(c, "Login successful", result)
}

// Register handles user self-registration
// @Summary Register
// @Description Register a new account (role is always staff)
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.RegisterInput true "Registration data"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	// 1. Parse request body
	var input services.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// 2. Validate
	if errs := validation.UserSchema.Validate(validation.Values{
		"name":       input.Name,
		"email":      input.Email,
		"password":   input.Password,
		"role":       "staff",
		"department": numField(input.DepartmentID),
	}); errs != nil {
		return response.ValidationFailed(c, errs)
	}

	// 3. Register
	result, err := h.authService.Register(c.UserContext(), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailAlreadyUsed):
			return response.Conflict(c, "Email already registered")
		case errors.Is(err, services.ErrUnknownDepartment):
			return response.BadRequest(c, "Department not found")
		default:
			return response.InternalServerError(c, "Registration failed")
		}
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)

	return response.Created(c, "Registration successful", result)
}

// Me returns the currently authenticated user
// @Summary Current user
// @Description Returns the user for the presented token
// @Tags auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/user [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID := currentUserID(c)

	user, err := h.authService.GetUserByID(c.UserContext(), userID)
	if err != nil {
		return response.Unauthorized(c, "User not found")
	}

	return response.Success(c, "", user.ToResponse())
}

// Refresh handles token refresh
// @Summary Refresh token
// @Description Rotate the refresh token and issue a new access token
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	// 1. Refresh token from cookie or body
	refreshToken := c.Cookies("refresh_token")
	if refreshToken == "" {
		var body struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := c.BodyParser(&body); err == nil {
			refreshToken = body.RefreshToken
		}
	}
	if refreshToken == "" {
		return response.Unauthorized(c, "Refresh token required")
	}

	// 2. Rotate
	result, err := h.authService.RefreshToken(c.UserContext(), refreshToken)
	if err != nil {
		h.clearAuthCookies(c)
		switch {
		case errors.Is(err, services.ErrTokenExpired):
			return response.Unauthorized(c, "Refresh token expired")
		case errors.Is(err, services.ErrTokenRevoked):
			return response.Unauthorized(c, "Refresh token revoked")
		case errors.Is(err, services.ErrUserInactive):
			return response.Forbidden(c, "Account is inactive")
		default:
			return response.Unauthorized(c, "Invalid refresh token")
		}
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)

	return response.Success(c, "Token refreshed", result)
}

// Logout handles user logout
// @Summary Logout
// @Description Revoke the refresh token and clear auth cookies
// @Tags auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	refreshToken := c.Cookies("refresh_token")
	if refreshToken == "" {
		var body struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := c.BodyParser(&body); err == nil {
			refreshToken = body.RefreshToken
		}
	}

	if refreshToken != "" {
		// Revocation failure still clears the client state
		_ = h.authService.Logout(c.UserContext(), refreshToken)
	}

	h.clearAuthCookies(c)

	return response.Success(c, "Logged out", nil)
}

// setAuthCookies sets the access and refresh token cookies
func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, accessToken, refreshToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Path:     "/",
		Domain:   h.cfg.Cookie.Domain,
		MaxAge:   h.cfg.JWT.AccessTokenMins * 60,
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
	})

	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Path:     "/",
		Domain:   h.cfg.Cookie.Domain,
		MaxAge:   h.cfg.JWT.RefreshTokenDays * 24 * 60 * 60,
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
	})
}

// clearAuthCookies clears the auth cookies
func (h *AuthHandler) clearAuthCookies(c *fiber.Ctx) {
	expired := time.Now().Add(-time.Hour)

	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		Domain:   h.cfg.Cookie.Domain,
		Expires:  expired,
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
	})

	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    "",
		Path:     "/",
		Domain:   h.cfg.Cookie.Domain,
		Expires:  expired,
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
	})
}
