package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/Tanmay-Anand/secure-e-commerce/internal/auth"
	"github.com/Tanmay-Anand/secure-e-commerce/internal/domain"
	"github.com/Tanmay-Anand/secure-e-commerce/internal/webserver"
	"github.com/araddon/dateparse"
	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
)

type orderExportRow struct {
	ID          int64   `csv:"id"`
	UserID      int64   `csv:"user_id"`
	Status      string  `csv:"status"`
	TotalAmount float64 `csv:"total_amount"`
	ItemCount   int     `csv:"item_count"`
	CreatedAt   string  `csv:"created_at"`
}

func registerExportRoutes() {
	webserver.ApiGET("/orders/export", exportOrders)
}

// parseTimeRange reads optional start/end query params; dateparse accepts
// most human date formats.
func parseTimeRange(c echo.Context) (start, end time.Time, err error) {
	end = time.Now()
	if s := strings.TrimSpace(c.QueryParam("start")); s != "" {
		if start, err = dateparse.ParseLocal(s); err != nil {
			return
		}
	}
	if s := strings.TrimSpace(c.QueryParam("end")); s != "" {
		if end, err = dateparse.ParseLocal(s); err != nil {
			return
		}
	}
	return
}

func queryOrdersInRange(c echo.Context, start, end time.Time) ([]domain.Order, error) {
	db := GetDB(c).Model(&domain.Order{}).Preload("Items")
	if !start.IsZero() {
		db = db.Where("created_at >= ?", start)
	}
	db = db.Where("created_at <= ?", end)

	var orders []domain.Order
	err := db.Order("id").Find(&orders).Error
	return orders, err
}

func exportOrders(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing identity", nil)
	}
	if err := auth.RequireRole(principal, domain.RoleAdmin); err != nil {
		return failFrom(c, err)
	}

	start, end, err := parseTimeRange(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unparsable start/end date", err.Error())
	}
	orders, err := queryOrdersInRange(c, start, end)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}

	rows := make([]orderExportRow, 0, len(orders))
	for _, order := range orders {
		rows = append(rows, orderExportRow{
			ID:          order.ID,
			UserID:      order.UserID,
			Status:      order.Status,
			TotalAmount: order.TotalAmount,
			ItemCount:   len(order.Items),
			CreatedAt:   order.CreatedAt.Format(time.RFC3339),
		})
	}

	switch strings.ToLower(c.QueryParam("format")) {
	case "", "csv":
		c.Response().Header().Set(echo.HeaderContentType, "text/csv")
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="orders.csv"`)
		c.Response().WriteHeader(http.StatusOK)
		return gocsv.Marshal(&rows, c.Response())
	case "xlsx":
		return writeOrdersXlsx(c, rows)
	default:
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "format must be csv or xlsx", nil)
	}
}

func writeOrdersXlsx(c echo.Context, rows []orderExportRow) error {
	book := excelize.NewFile()
	const sheet = "Sheet1"
	headers := []string{"id", "user_id", "status", "total_amount", "item_count", "created_at"}
	for i, header := range headers {
		book.SetCellValue(sheet, fmt.Sprintf("%c1", 'A'+i), header)
	}
	for i, row := range rows {
		line := i + 2
		book.SetCellValue(sheet, fmt.Sprintf("A%d", line), row.ID)
		book.SetCellValue(sheet, fmt.Sprintf("B%d", line), row.UserID)
		book.SetCellValue(sheet, fmt.Sprintf("C%d", line), row.Status)
		book.SetCellValue(sheet, fmt.Sprintf("D%d", line), row.TotalAmount)
		book.SetCellValue(sheet, fmt.Sprintf("E%d", line), row.ItemCount)
		book.SetCellValue(sheet, fmt.Sprintf("F%d", line), row.CreatedAt)
	}

	c.Response().Header().Set(echo.HeaderContentType,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="orders.xlsx"`)
	c.Response().WriteHeader(http.StatusOK)
	return book.Write(c.Response())
}
