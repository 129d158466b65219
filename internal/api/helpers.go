package api

import (
	"net/http"
	"strconv"

	"github.com/Tanmay-Anand/secure-e-commerce/internal/app"
	"github.com/Tanmay-Anand/secure-e-commerce/internal/auth"
	"github.com/Tanmay-Anand/secure-e-commerce/internal/domain"
	"github.com/Tanmay-Anand/secure-e-commerce/internal/webserver"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func getApp(c echo.Context) app.AppContext {
	return c.Get(webserver.AppContextKey).(app.AppContext)
}

// GetDB returns the request database handle
func GetDB(c echo.Context) *gorm.DB {
	return getApp(c).DB()
}

// currentPrincipal rebuilds the caller identity from the verified JWT.
func currentPrincipal(c echo.Context) (auth.Principal, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return auth.Principal{}, errors.New("missing identity token")
	}
	claims, ok := token.Claims.(*auth.Claims)
	if !ok {
		return auth.Principal{}, errors.New("unexpected token claims")
	}
	return claims.Principal(), nil
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, echo.Map{"code": "OK", "data": data})
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, echo.Map{"code": code, "message": message, "detail": detail})
}

func paged(c echo.Context, rows interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, echo.Map{
		"code":     "OK",
		"data":     rows,
		"total":    total,
		"page":     page,
		"per_page": pageSize,
	})
}

// failFrom maps the service error taxonomy to envelope codes.
func failFrom(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	case errors.Is(err, domain.ErrNotFound):
		return fail(c, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, domain.ErrForbidden):
		return fail(c, http.StatusForbidden, "FORBIDDEN", err.Error(), nil)
	case errors.Is(err, domain.ErrInsufficientStock):
		return fail(c, http.StatusConflict, "INSUFFICIENT_STOCK", err.Error(), nil)
	case errors.Is(err, domain.ErrInvalidTransition):
		return fail(c, http.StatusBadRequest, "INVALID_TRANSITION", err.Error(), nil)
	case errors.Is(err, domain.ErrAlreadyExists):
		return fail(c, http.StatusConflict, "ALREADY_EXISTS", err.Error(), nil)
	case errors.Is(err, domain.ErrBadCredentials):
		return fail(c, http.StatusUnauthorized, "BAD_CREDENTIALS", err.Error(), nil)
	default:
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Request failed", err.Error())
	}
}

func parsePagination(c echo.Context) (page int, pageSize int) {
	page = 1
	pageSize = 20
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	if ps, err := strconv.Atoi(c.QueryParam("perPage")); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	} else if ps, err := strconv.Atoi(c.QueryParam("pageSize")); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}
	return page, pageSize
}

func parseID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
