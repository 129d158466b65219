package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Tanmay-Anand/secure-e-commerce/internal/auth"
	"github.com/Tanmay-Anand/secure-e-commerce/internal/domain"
	"github.com/Tanmay-Anand/secure-e-commerce/internal/webserver"
	"github.com/Tanmay-Anand/secure-e-commerce/pkg/common"
	"github.com/Tanmay-Anand/secure-e-commerce/pkg/metrics"
	"github.com/labstack/echo/v4"
	"github.com/montanaflynn/stats"
)

func registerStatsRoutes() {
	webserver.ApiGET("/orders/stats", orderStats)
	webserver.ApiGET("/metrics/:name", counterSeries)
}

// orderStats summarizes order values in an optional date range:
// count, revenue, mean/median/p90 order value.
func orderStats(c echo.Context) error {
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

	totals := make(stats.Float64Data, 0, len(orders))
	var revenue float64
	byStatus := map[string]int{}
	for _, order := range orders {
		totals = append(totals, order.TotalAmount)
		revenue += order.TotalAmount
		byStatus[order.Status]++
	}

	summary := echo.Map{
		"count":     len(orders),
		"revenue":   revenue,
		"by_status": byStatus,
	}
	if len(totals) > 0 {
		mean, _ := stats.Mean(totals)
		median, _ := stats.Median(totals)
		p90, _ := stats.Percentile(totals, 90)
		summary["mean_order_value"] = mean
		summary["median_order_value"] = median
		summary["p90_order_value"] = p90
	}
	return ok(c, summary)
}

// counterSeries returns raw data points of one workflow counter.
func counterSeries(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing identity", nil)
	}
	if err := auth.RequireRole(principal, domain.RoleAdmin); err != nil {
		return failFrom(c, err)
	}

	name := c.Param("name")
	known := []string{metrics.OrdersPlaced, metrics.OrdersRejected, metrics.StockConflicts}
	if !common.InSlice(name, known) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Unknown metric: "+name, nil)
	}

	end := time.Now().Unix()
	start := end - 24*3600
	if s, err := strconv.ParseInt(c.QueryParam("start"), 10, 64); err == nil {
		start = s
	}
	if s, err := strconv.ParseInt(c.QueryParam("end"), 10, 64); err == nil {
		end = s
	}

	points, err := metrics.Select(name, start, end)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "METRICS_ERROR", "Failed to query metric", err.Error())
	}
	return ok(c, echo.Map{"metric": name, "points": points})
}
