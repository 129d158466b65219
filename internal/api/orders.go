package api

import (
	"net/http"
	"strings"

	"github.com/Tanmay-Anand/secure-e-commerce/internal/domain"
	"github.com/Tanmay-Anand/secure-e-commerce/internal/ordering"
	"github.com/Tanmay-Anand/secure-e-commerce/internal/webserver"
	"github.com/Tanmay-Anand/secure-e-commerce/pkg/common"
	"github.com/labstack/echo/v4"
)

type orderItemPayload struct {
	ProductID int64 `json:"product_id,string"`
	Quantity  int   `json:"quantity"`
}

type placeOrderPayload struct {
	Items []orderItemPayload `json:"items"`
}

type orderStatusPayload struct {
	Status string `json:"status"`
}

func registerOrderRoutes() {
	webserver.ApiPOST("/orders", placeOrder)
	webserver.ApiGET("/orders/my", getMyOrders)
	webserver.ApiGET("/orders", getAllOrders)
	webserver.ApiGET("/orders/:id", getOrderByID)
	webserver.ApiPUT("/orders/:id/status", updateOrderStatus)
}

func placeOrder(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing identity", nil)
	}
	var payload placeOrderPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse order", err.Error())
	}
	if len(payload.Items) == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Order must contain at least one item", nil)
	}
	items := make([]ordering.ItemRequest, 0, len(payload.Items))
	for _, item := range payload.Items {
		if item.Quantity < 1 {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Item quantity must be at least 1", nil)
		}
		items = append(items, ordering.ItemRequest{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	order, err := getApp(c).OrderingService().PlaceOrder(c.Request().Context(), principal, items)
	if err != nil {
		return failFrom(c, err)
	}
	return ok(c, order)
}

func getMyOrders(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing identity", nil)
	}
	orders, err := getApp(c).OrderingService().GetMyOrders(c.Request().Context(), principal)
	if err != nil {
		return failFrom(c, err)
	}
	return ok(c, orders)
}

func getAllOrders(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing identity", nil)
	}
	orders, err := getApp(c).OrderingService().GetAllOrders(c.Request().Context(), principal)
	if err != nil {
		return failFrom(c, err)
	}
	return ok(c, orders)
}

func getOrderByID(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing identity", nil)
	}
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	order, err := getApp(c).OrderingService().GetOrderByID(c.Request().Context(), principal, id)
	if err != nil {
		return failFrom(c, err)
	}
	return ok(c, order)
}

func updateOrderStatus(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing identity", nil)
	}
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	var payload orderStatusPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse status", err.Error())
	}

	// Unknown status strings are a client error and never reach the workflow.
	status := strings.ToUpper(strings.TrimSpace(payload.Status))
	if !common.InSlice(status, domain.OrderStatusValues) {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unknown order status: "+payload.Status, nil)
	}

	order, err := getApp(c).OrderingService().UpdateOrderStatus(c.Request().Context(), principal, id, status)
	if err != nil {
		return failFrom(c, err)
	}
	return ok(c, order)
}
