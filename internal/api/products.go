package api

import (
	"net/http"
	"strings"

	"github.com/Tanmay-Anand/secure-e-commerce/internal/catalog"
	"github.com/Tanmay-Anand/secure-e-commerce/internal/domain"
	"github.com/Tanmay-Anand/secure-e-commerce/internal/webserver"
	"github.com/labstack/echo/v4"
)

type productPayload struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	CategoryID  int64   `json:"category_id,string"`
}

func registerProductRoutes() {
	webserver.PubGET("/products", listProducts)
	webserver.PubGET("/products/:id", getProduct)
	webserver.ApiPOST("/products", createProduct)
	webserver.ApiPUT("/products/:id", updateProduct)
	webserver.ApiDELETE("/products/:id", deleteProduct)
}

func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)

	// Filters: q or name
	q := strings.TrimSpace(c.QueryParam("q"))
	nameFilter := strings.TrimSpace(c.QueryParam("name"))

	// Sorting: field and order
	sortField := strings.TrimSpace(c.QueryParam("sort"))
	order := strings.ToUpper(strings.TrimSpace(c.QueryParam("order")))
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	// whitelist allowed sort columns to avoid SQL injection
	allowed := map[string]string{
		"id":         "id",
		"name":       "name",
		"price":      "price",
		"stock":      "stock",
		"created_at": "created_at",
		"updated_at": "updated_at",
	}
	sortCol, okCol := allowed[sortField]
	if !okCol || sortCol == "" {
		sortCol = "id"
	}

	db := GetDB(c).Model(&domain.Product{})
	if q != "" {
		if strings.EqualFold(db.Name(), "postgres") { //nolint:staticcheck
			db = db.Where("name ILIKE ?", "%"+q+"%")
		} else {
			db = db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
		}
	}
	if nameFilter != "" {
		db = db.Where("name = ?", nameFilter)
	}
	if cat := strings.TrimSpace(c.QueryParam("category_id")); cat != "" {
		db = db.Where("category_id = ?", cat)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	var rows []domain.Product
	if err := db.Order(sortCol + " " + order).Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func getProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	product, err := getApp(c).CatalogService().GetProduct(c.Request().Context(), id)
	if err != nil {
		return failFrom(c, err)
	}
	return ok(c, product)
}

func createProduct(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing identity", nil)
	}
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	product, err := getApp(c).CatalogService().CreateProduct(c.Request().Context(), principal, catalog.ProductInput{
		Name:        payload.Name,
		Description: payload.Description,
		Price:       payload.Price,
		Stock:       payload.Stock,
		CategoryID:  payload.CategoryID,
	})
	if err != nil {
		return failFrom(c, err)
	}
	return ok(c, product)
}

func updateProduct(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing identity", nil)
	}
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	product, err := getApp(c).CatalogService().UpdateProduct(c.Request().Context(), principal, id, catalog.ProductInput{
		Name:        payload.Name,
		Description: payload.Description,
		Price:       payload.Price,
		Stock:       payload.Stock,
		CategoryID:  payload.CategoryID,
	})
	if err != nil {
		return failFrom(c, err)
	}
	return ok(c, product)
}

func deleteProduct(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing identity", nil)
	}
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	if err := getApp(c).CatalogService().DeleteProduct(c.Request().Context(), principal, id); err != nil {
		return failFrom(c, err)
	}
	return ok(c, echo.Map{"id": id})
}
