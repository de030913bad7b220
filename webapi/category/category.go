package category

import (
	"github.com/amirasaad/ledger/pkg/config"
	"github.com/amirasaad/ledger/pkg/domain/category"
	"github.com/amirasaad/ledger/pkg/middleware"
	authsvc "github.com/amirasaad/ledger/pkg/service/auth"
	categorysvc "github.com/amirasaad/ledger/pkg/service/category"
	"github.com/amirasaad/ledger/webapi/common"
	"github.com/gofiber/fiber/v2"
)

func Routes(router fiber.Router, categorySvc *categorysvc.Service, authSvc *authsvc.Service, cfg *config.App) {
	g := router.Group("/categories", middleware.JwtProtected(cfg.Auth.Jwt))
	g.Get("/", ListCategories(categorySvc, authSvc))
	g.Post("/", CreateCategory(categorySvc, authSvc))
	g.Get("/:id", GetCategory(categorySvc, authSvc))
	g.Put("/:id", UpdateCategory(categorySvc, authSvc))
	g.Delete("/:id", DeleteCategory(categorySvc, authSvc))
}

// ListCategories returns the global categories plus the caller's own.
// @Summary List categories
// @Tags categories
// @Produce json
// @Param type query string false "INCOME or EXPENSE"
// @Success 200 {object} common.Response
// @Router /api/categories [get]
// @Security BearerAuth
func ListCategories(categorySvc *categorysvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		var t *category.Type
		if raw := c.Query("type"); raw != "" {
			ct := category.Type(raw)
			t = &ct
		}
		cats, err := categorySvc.List(c.Context(), userID, t)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Categories retrieved successfully", toResponses(cats))
	}
}

// GetCategory returns a global category or one of the caller's.
// @Summary Get a category
// @Tags categories
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} common.Response
// @Failure 403 {object} common.Response
// @Failure 404 {object} common.Response
// @Router /api/categories/{id} [get]
// @Security BearerAuth
func GetCategory(categorySvc *categorysvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		id, err := common.ParamUUID(c, "id")
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		cat, err := categorySvc.Get(c.Context(), userID, id)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Category retrieved successfully", toResponse(cat))
	}
}

// CreateCategory adds a custom category.
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Param request body CreateCategoryRequest true "Category"
// @Success 201 {object} common.Response
// @Failure 409 {object} common.Response
// @Router /api/categories [post]
// @Security BearerAuth
func CreateCategory(categorySvc *categorysvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		input, err := common.BindAndValidate[CreateCategoryRequest](c)
		if input == nil {
			return err
		}
		cat, err := categorySvc.Create(c.Context(), userID, input.Name, category.Type(input.Type))
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Category created successfully", toResponse(cat))
	}
}

// UpdateCategory renames one of the caller's categories.
// @Summary Rename a category
// @Tags categories
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param request body UpdateCategoryRequest true "New name"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Router /api/categories/{id} [put]
// @Security BearerAuth
func UpdateCategory(categorySvc *categorysvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		id, err := common.ParamUUID(c, "id")
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		input, err := common.BindAndValidate[UpdateCategoryRequest](c)
		if input == nil {
			return err
		}
		cat, err := categorySvc.Rename(c.Context(), userID, id, input.Name)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Category updated successfully", toResponse(cat))
	}
}

// DeleteCategory removes an unused custom category.
// @Summary Delete a category
// @Tags categories
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.Response
// @Failure 409 {object} common.Response
// @Router /api/categories/{id} [delete]
// @Security BearerAuth
func DeleteCategory(categorySvc *categorysvc.Service, authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := common.CurrentUserID(c, authSvc)
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		id, err := common.ParamUUID(c, "id")
		if err != nil {
			return common.ErrorJSON(c, err)
		}
		if err := categorySvc.Delete(c.Context(), userID, id); err != nil {
			return common.ErrorJSON(c, err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Category deleted successfully", nil)
	}
}
