package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	domainerrors "recipeapi/internal/errors"
	"recipeapi/internal/models"
	"recipeapi/internal/repositories"
	"recipeapi/internal/services"
	"recipeapi/internal/validation"
)

// RecipeHandler handles HTTP requests for recipes.
type RecipeHandler struct {
	service       *services.RecipeService
	validate      *validation.Validator
	maxImageBytes int64
	logger        *zap.Logger
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(service *services.RecipeService, maxImageBytes int64, logger *zap.Logger) *RecipeHandler {
	return &RecipeHandler{
		service:       service,
		validate:      validation.New(),
		maxImageBytes: maxImageBytes,
		logger:        logger,
	}
}

// RegisterRoutes registers the recipe routes with the Fiber router.
func (h *RecipeHandler) RegisterRoutes(router fiber.Router) {
	recipeRoutes := router.Group("/recipes")
	recipeRoutes.Get("/", h.HandleListRecipes)
	recipeRoutes.Post("/", h.HandleCreateRecipe)
	recipeRoutes.Get("/:id", h.HandleGetRecipe)
	recipeRoutes.Put("/:id", h.HandleReplaceRecipe)
	recipeRoutes.Patch("/:id", h.HandleUpdateRecipe)
	recipeRoutes.Delete("/:id", h.HandleDeleteRecipe)
	recipeRoutes.Post("/:id/image", h.HandleUploadImage)
}

// RecipeRequest is the body of recipe writes. Absent fields are left
// unchanged by PATCH. A "user" key, like any unknown key, is ignored.
type RecipeRequest struct {
	Title       *string          `json:"title" validate:"omitempty,max=255"`
	TimeMinutes *int             `json:"time_minutes" validate:"omitempty,gte=0"`
	Price       *decimal.Decimal `json:"price"`
	Description *string          `json:"description"`
	Link        *string          `json:"link" validate:"omitempty,max=255"`
	Tags        []NameRequest    `json:"tags" validate:"omitempty,dive"`
	Ingredients []NameRequest    `json:"ingredients" validate:"omitempty,dive"`
}

func (r RecipeRequest) changes() services.RecipeChanges {
	return services.RecipeChanges{
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Description: r.Description,
		Link:        r.Link,
		Tags:        names(r.Tags),
		Ingredients: names(r.Ingredients),
	}
}

// names keeps the difference between an absent list (nil) and an empty one.
func names(entries []NameRequest) []string {
	if entries == nil {
		return nil
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}

type recipeResponse struct {
	ID          uint                `json:"id"`
	Title       string              `json:"title"`
	TimeMinutes int                 `json:"time_minutes"`
	Price       string              `json:"price"`
	Link        string              `json:"link"`
	Tags        []models.Tag        `json:"tags"`
	Ingredients []models.Ingredient `json:"ingredients"`
}

type recipeDetailResponse struct {
	recipeResponse
	Description string `json:"description"`
	Image       string `json:"image"`
}

func newRecipeResponse(r *models.Recipe) recipeResponse {
	resp := recipeResponse{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price.StringFixed(2),
		Link:        r.Link,
		Tags:        r.Tags,
		Ingredients: r.Ingredients,
	}
	if resp.Tags == nil {
		resp.Tags = []models.Tag{}
	}
	if resp.Ingredients == nil {
		resp.Ingredients = []models.Ingredient{}
	}
	return resp
}

func (h *RecipeHandler) detail(r *models.Recipe) recipeDetailResponse {
	return recipeDetailResponse{
		recipeResponse: newRecipeResponse(r),
		Description:    r.Description,
		Image:          h.service.ImageURL(r),
	}
}

// HandleListRecipes lists the caller's recipes, optionally filtered by
// ?tags=1,2 and ?ingredients=3.
func (h *RecipeHandler) HandleListRecipes(c *fiber.Ctx) error {
	tagIDs, err := parseIDList("tags", c.Query("tags"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	ingredientIDs, err := parseIDList("ingredients", c.Query("ingredients"))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	recipes, err := h.service.ListRecipes(c.UserContext(), currentUserID(c), repositories.RecipeFilter{
		TagIDs:        tagIDs,
		IngredientIDs: ingredientIDs,
	})
	if err != nil {
		return respondError(c, h.logger, err)
	}

	resp := make([]recipeResponse, 0, len(recipes))
	for i := range recipes {
		resp = append(resp, newRecipeResponse(&recipes[i]))
	}
	return c.JSON(resp)
}

// HandleGetRecipe returns one of the caller's recipes.
func (h *RecipeHandler) HandleGetRecipe(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	recipe, err := h.service.GetRecipe(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(h.detail(recipe))
}

// HandleCreateRecipe creates a recipe with optional nested tags and
// ingredients.
func (h *RecipeHandler) HandleCreateRecipe(c *fiber.Ctx) error {
	req, err := h.parseRecipeRequest(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	recipe, err := h.service.CreateRecipe(c.UserContext(), currentUserID(c), req.changes())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(h.detail(recipe))
}

// HandleUpdateRecipe applies a partial update.
func (h *RecipeHandler) HandleUpdateRecipe(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	req, err := h.parseRecipeRequest(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	recipe, err := h.service.UpdateRecipe(c.UserContext(), currentUserID(c), id, req.changes())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(h.detail(recipe))
}

// HandleReplaceRecipe applies a full update.
func (h *RecipeHandler) HandleReplaceRecipe(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	req, err := h.parseRecipeRequest(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	recipe, err := h.service.ReplaceRecipe(c.UserContext(), currentUserID(c), id, req.changes())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(h.detail(recipe))
}

// HandleDeleteRecipe deletes one of the caller's recipes.
func (h *RecipeHandler) HandleDeleteRecipe(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if err := h.service.DeleteRecipe(c.UserContext(), currentUserID(c), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleUploadImage stores the multipart "image" field as the recipe's
// image.
func (h *RecipeHandler) HandleUploadImage(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return respondError(c, h.logger, domainerrors.ValidationWithDetails("validation failed", map[string]string{
			"image": "no file was submitted",
		}))
	}
	if fileHeader.Size > h.maxImageBytes {
		return respondError(c, h.logger, domainerrors.ValidationWithDetails("validation failed", map[string]string{
			"image": "the submitted file is too large",
		}))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return respondError(c, h.logger, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxImageBytes))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	recipe, err := h.service.UploadImage(c.UserContext(), currentUserID(c), id, fileHeader.Filename, data)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{
		"id":    recipe.ID,
		"image": h.service.ImageURL(recipe),
	})
}

func (h *RecipeHandler) parseRecipeRequest(c *fiber.Ctx) (*RecipeRequest, error) {
	var req RecipeRequest
	if err := parseBody(c, &req); err != nil {
		return nil, err
	}
	if err := h.validate.Validate(req); err != nil {
		return nil, err
	}
	if req.Link != nil && *req.Link != "" {
		if err := h.validate.Var("link", *req.Link, "url"); err != nil {
			return nil, err
		}
	}
	return &req, nil
}
