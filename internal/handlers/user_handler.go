package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"recipeapi/internal/models"
	"recipeapi/internal/services"
	"recipeapi/internal/validation"
)

// UserHandler handles HTTP requests for accounts and tokens.
type UserHandler struct {
	authService *services.AuthService
	validate    *validation.Validator
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		authService: authService,
		validate:    validation.New(),
		logger:      logger,
	}
}

// RegisterPublicRoutes registers the routes reachable without a token.
func (h *UserHandler) RegisterPublicRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Post("/", h.HandleCreateUser)
	userRoutes.Post("/token", h.HandleCreateToken)
}

// RegisterRoutes registers the authenticated profile routes.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/me", h.HandleGetProfile)
	userRoutes.Patch("/me", h.HandleUpdateProfile)
	userRoutes.Put("/me", h.HandleReplaceProfile)
}

// CreateUserRequest represents the request body for registration.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=5"`
	Name     string `json:"name" validate:"max=255"`
}

// TokenRequest represents the request body for token issuance.
type TokenRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest carries a partial profile change.
type UpdateProfileRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=5"`
	Name     *string `json:"name" validate:"omitempty,max=255"`
}

type userResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{Email: u.Email, Name: u.Name}
}

// HandleCreateUser handles new user registration.
func (h *UserHandler) HandleCreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}
	if err := h.validate.Validate(req); err != nil {
		return respondError(c, h.logger, err)
	}

	user, err := h.authService.CreateUser(c.UserContext(), req.Email, req.Password, services.UserOptions{Name: req.Name})
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newUserResponse(user))
}

// HandleCreateToken exchanges credentials for a signed token.
func (h *UserHandler) HandleCreateToken(c *fiber.Ctx) error {
	var req TokenRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}
	if err := h.validate.Validate(req); err != nil {
		return respondError(c, h.logger, err)
	}

	token, err := h.authService.LoginUser(c.UserContext(), req.Email, req.Password)
	if err != nil {
		h.logger.Debug("token request rejected", zap.Error(err))
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"token": token})
}

// HandleGetProfile returns the authenticated user's profile.
func (h *UserHandler) HandleGetProfile(c *fiber.Ctx) error {
	user, err := h.authService.GetProfile(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(newUserResponse(user))
}

// HandleUpdateProfile applies a partial profile update.
func (h *UserHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	return h.updateProfile(c, false)
}

// HandleReplaceProfile is the full update; email and name are required.
func (h *UserHandler) HandleReplaceProfile(c *fiber.Ctx) error {
	return h.updateProfile(c, true)
}

func (h *UserHandler) updateProfile(c *fiber.Ctx, full bool) error {
	var req UpdateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}
	if err := h.validate.Validate(req); err != nil {
		return respondError(c, h.logger, err)
	}
	if full {
		if err := h.validate.Var("email", req.Email, "required"); err != nil {
			return respondError(c, h.logger, err)
		}
		if err := h.validate.Var("name", req.Name, "required"); err != nil {
			return respondError(c, h.logger, err)
		}
	}

	user, err := h.authService.UpdateProfile(c.UserContext(), currentUserID(c), services.ProfileUpdate{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(newUserResponse(user))
}
