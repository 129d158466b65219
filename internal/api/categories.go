package api

import (
	"net/http"
	"strings"

	"github.com/Tanmay-Anand/secure-e-commerce/internal/catalog"
	"github.com/Tanmay-Anand/secure-e-commerce/internal/domain"
	"github.com/Tanmay-Anand/secure-e-commerce/internal/webserver"
	"github.com/labstack/echo/v4"
)

type categoryPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func registerCategoryRoutes() {
	webserver.PubGET("/categories", listCategories)
	webserver.PubGET("/categories/:id", getCategory)
	webserver.PubGET("/categories/:id/products", listCategoryProducts)
	webserver.ApiPOST("/categories", createCategory)
	webserver.ApiPUT("/categories/:id", updateCategory)
	webserver.ApiDELETE("/categories/:id", deleteCategory)
}

func listCategories(c echo.Context) error {
	page, pageSize := parsePagination(c)
	db := GetDB(c).Model(&domain.Category{})

	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		db = db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query categories", err.Error())
	}

	var rows []domain.Category
	if err := db.Order("id").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query categories", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func getCategory(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}
	category, err := getApp(c).CatalogService().GetCategory(c.Request().Context(), id)
	if err != nil {
		return failFrom(c, err)
	}
	return ok(c, category)
}

func listCategoryProducts(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}
	products, err := getApp(c).CatalogService().ProductsByCategory(c.Request().Context(), id)
	if err != nil {
		return failFrom(c, err)
	}
	return ok(c, products)
}

func createCategory(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing identity", nil)
	}
	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category", err.Error())
	}
	category, err := getApp(c).CatalogService().CreateCategory(c.Request().Context(), principal,
		catalog.CategoryInput{Name: payload.Name, Description: payload.Description})
	if err != nil {
		return failFrom(c, err)
	}
	return ok(c, category)
}

func updateCategory(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing identity", nil)
	}
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}
	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category", err.Error())
	}
	category, err := getApp(c).CatalogService().UpdateCategory(c.Request().Context(), principal, id,
		catalog.CategoryInput{Name: payload.Name, Description: payload.Description})
	if err != nil {
		return failFrom(c, err)
	}
	return ok(c, category)
}

func deleteCategory(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing identity", nil)
	}
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}
	if err := getApp(c).CatalogService().DeleteCategory(c.Request().Context(), principal, id); err != nil {
		return failFrom(c, err)
	}
	return ok(c, echo.Map{"id": id})
}
