package api

import (
	"net/http"

	"github.com/Tanmay-Anand/secure-e-commerce/internal/auth"
	"github.com/Tanmay-Anand/secure-e-commerce/internal/webserver"
	"github.com/labstack/echo/v4"
)

// registerPayload carries no role on purpose: the public endpoint only
// creates customers.
type registerPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func registerAuthRoutes() {
	webserver.PubPOST("/auth/register", registerUser)
	webserver.PubPOST("/auth/login", login)
}

func registerUser(c echo.Context) error {
	var payload registerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse registration", err.Error())
	}
	if payload.Username == "" || payload.Password == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Username and password are required", nil)
	}

	user, err := getApp(c).AuthService().Register(c.Request().Context(),
		payload.Username, payload.Password, payload.Email)
	if err != nil {
		return failFrom(c, err)
	}
	return ok(c, echo.Map{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
	})
}

func login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse credentials", err.Error())
	}

	principal, err := getApp(c).AuthService().Authenticate(c.Request().Context(), payload.Username, payload.Password)
	if err != nil {
		return failFrom(c, err)
	}

	token, err := auth.IssueToken(getApp(c).Config().Web.Secret, principal)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue token", err.Error())
	}
	return ok(c, echo.Map{
		"token":    token,
		"username": principal.Username,
		"role":     principal.Role,
	})
}
