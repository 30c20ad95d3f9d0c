package http

import (
	"stocktrack/internal/auth/usecase"
	"stocktrack/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthHTTPHandler handles HTTP requests for authentication
type AuthHTTPHandler struct {
	usecase        usecase.AuthUsecaseInterface
	cookieName     string
	cookiePath     string
	cookieDomain   string
	cookieMaxAge   int
	cookieSecure   bool
	cookieHTTPOnly bool
	cookieSameSite string

	// onLogout is invoked with the caller's user ID after a successful
	// sign-out so other modules can drop per-user state.
	onLogout func(userID string)
}

// SetLogoutHook registers a callback fired after successful sign-out.
func (h *AuthHTTPHandler) SetLogoutHook(hook func(userID string)) {
	h.onLogout = hook
}

// NewAuthHTTPHandler creates a new authentication HTTP handler
func NewAuthHTTPHandler(
	uc usecase.AuthUsecaseInterface,
	cookieName, cookiePath, cookieDomain string,
	cookieMaxAge int,
	cookieSecure, cookieHTTPOnly bool,
	cookieSameSite string,
) *AuthHTTPHandler {
	return &AuthHTTPHandler{
		usecase:        uc,
		cookieName:     cookieName,
		cookiePath:     cookiePath,
		cookieDomain:   cookieDomain,
		cookieMaxAge:   cookieMaxAge,
		cookieSecure:   cookieSecure,
		cookieHTTPOnly: cookieHTTPOnly,
		cookieSameSite: cookieSameSite,
	}
}

// SetupAuthRoutesWithMiddleware sets up authentication routes with middleware
func (h *AuthHTTPHandler) SetupAuthRoutesWithMiddleware(router fiber.Router, middleware *AuthMiddleware) {
	// Public routes (no authentication required)
	router.Post("/register", h.Register)
	router.Post("/login", h.Login)
	router.Post("/login/federated", h.FederatedLogin)

	// Protected routes (authentication required)
	protected := router.Group("/", middleware.Protect())
	protected.Post("/logout", h.Logout)
	protected.Get("/me", h.GetCurrentUser)
}

// Register handles sign-up. On success no session is issued; the caller
// proceeds to the login entry point.
func (h *AuthHTTPHandler) Register(c *fiber.Ctx) error {
	var req usecase.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	user, err := h.usecase.Register(c.Context(), req)
	if err != nil {
		if err == usecase.ErrEmailTaken {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Email already registered",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":  user,
		"login": LoginPath,
	})
}

// Login handles email/password sign-in
func (h *AuthHTTPHandler) Login(c *fiber.Ctx) error {
	var req usecase.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	user, token, err := h.usecase.Login(c.Context(), req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidCredentials, usecase.ErrUserNotFound:
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid email or password",
			})
		default:
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	h.setCookie(c, token)

	return c.JSON(fiber.Map{
		"user":        user,
		"accessToken": token,
	})
}

// FederatedLogin handles the federated-identity sign-in handshake
func (h *AuthHTTPHandler) FederatedLogin(c *fiber.Ctx) error {
	var req struct {
		ProviderToken string `json:"providerToken"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	user, token, err := h.usecase.FederatedLogin(c.Context(), req.ProviderToken)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Federated sign-in failed",
		})
	}

	h.setCookie(c, token)

	return c.JSON(fiber.Map{
		"user":        user,
		"accessToken": token,
	})
}

// Logout handles sign-out
func (h *AuthHTTPHandler) Logout(c *fiber.Ctx) error {
	token := c.Cookies(h.cookieName)
	if token == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			token = authHeader[7:]
		}
	}

	if token != "" {
		if err := h.usecase.Logout(c.Context(), token); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid session",
			})
		}
	}

	h.clearCookie(c)

	if h.onLogout != nil {
		if userID, err := utils.GetUserIDFromContext(c.UserContext()); err == nil {
			h.onLogout(userID)
		}
	}

	return c.JSON(fiber.Map{
		"message": "Logged out",
		"login":   LoginPath,
	})
}

// GetCurrentUser resolves the caller from the injected context
func (h *AuthHTTPHandler) GetCurrentUser(c *fiber.Ctx) error {
	userID, err := utils.GetUserIDFromContext(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	profile, err := h.usecase.GetProfile(c.Context(), userID)
	if err != nil {
		if err == usecase.ErrProfileNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Profile not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load profile",
		})
	}

	return c.JSON(fiber.Map{
		"profile": profile,
	})
}

func (h *AuthHTTPHandler) setCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     h.cookiePath,
		Domain:   h.cookieDomain,
		MaxAge:   h.cookieMaxAge,
		Secure:   h.cookieSecure,
		HTTPOnly: h.cookieHTTPOnly,
		SameSite: h.cookieSameSite,
	})
}

func (h *AuthHTTPHandler) clearCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     h.cookiePath,
		Domain:   h.cookieDomain,
		MaxAge:   -1,
		Secure:   h.cookieSecure,
		HTTPOnly: h.cookieHTTPOnly,
		SameSite: h.cookieSameSite,
	})
}
