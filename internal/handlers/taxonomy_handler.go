package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	domainerrors "recipeapi/internal/errors"
	"recipeapi/internal/models"
	"recipeapi/internal/services"
	"recipeapi/internal/validation"
)

// TaxonomyHandler serves the CRUD routes shared by tags and ingredients.
type TaxonomyHandler[T any] struct {
	service  *services.TaxonomyService[T]
	prefix   string
	validate *validation.Validator
	logger   *zap.Logger
}

// NewTagHandler creates the handler mounted at /tags.
func NewTagHandler(service *services.TaxonomyService[models.Tag], logger *zap.Logger) *TaxonomyHandler[models.Tag] {
	return &TaxonomyHandler[models.Tag]{service: service, prefix: "/tags", validate: validation.New(), logger: logger}
}

// NewIngredientHandler creates the handler mounted at /ingredients.
func NewIngredientHandler(service *services.TaxonomyService[models.Ingredient], logger *zap.Logger) *TaxonomyHandler[models.Ingredient] {
	return &TaxonomyHandler[models.Ingredient]{service: service, prefix: "/ingredients", validate: validation.New(), logger: logger}
}

// RegisterRoutes registers the routes with the Fiber router.
func (h *TaxonomyHandler[T]) RegisterRoutes(router fiber.Router) {
	routes := router.Group(h.prefix)
	routes.Get("/", h.HandleList)
	routes.Post("/", h.HandleCreate)
	routes.Get("/:id", h.HandleGet)
	routes.Put("/:id", h.HandleRename)
	routes.Patch("/:id", h.HandleRename)
	routes.Delete("/:id", h.HandleDelete)
}

// NameRequest is the body of every tag or ingredient write.
type NameRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// HandleList lists the caller's entries. ?assigned_only=1 keeps only those
// used by at least one recipe.
func (h *TaxonomyHandler[T]) HandleList(c *fiber.Ctx) error {
	assignedOnly := false
	if raw := c.Query("assigned_only"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return respondError(c, h.logger, domainerrors.ValidationWithDetails("invalid filter", map[string]string{
				"assigned_only": "must be a boolean such as 0 or 1",
			}))
		}
		assignedOnly = parsed
	}

	entries, err := h.service.List(c.UserContext(), currentUserID(c), assignedOnly)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(entries)
}

// HandleCreate creates an entry owned by the caller.
func (h *TaxonomyHandler[T]) HandleCreate(c *fiber.Ctx) error {
	var req NameRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}
	if err := h.validate.Validate(req); err != nil {
		return respondError(c, h.logger, err)
	}

	entry, err := h.service.Create(c.UserContext(), currentUserID(c), req.Name)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// HandleGet returns one of the caller's entries.
func (h *TaxonomyHandler[T]) HandleGet(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	entry, err := h.service.Get(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(entry)
}

// HandleRename serves both PUT and PATCH: name is the only writable field.
func (h *TaxonomyHandler[T]) HandleRename(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	var req NameRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}
	if err := h.validate.Validate(req); err != nil {
		return respondError(c, h.logger, err)
	}

	entry, err := h.service.Rename(c.UserContext(), currentUserID(c), id, req.Name)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(entry)
}

// HandleDelete deletes one of the caller's entries.
func (h *TaxonomyHandler[T]) HandleDelete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if err := h.service.Delete(c.UserContext(), currentUserID(c), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
