package app

import (
	"time"

	"github.com/Tanmay-Anand/secure-e-commerce/internal/domain"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	if loc == nil {
		loc = time.Local
	}
	a.sched = cron.New(cron.WithParser(cronParser), cron.WithLocation(loc))

	// hourly low-stock scan
	if _, err := a.sched.AddFunc("@every 1h", a.scanLowStock); err != nil {
		zap.S().Errorf("failed to schedule low stock job: %v", err)
	}

	a.sched.Start()
}

// scanLowStock warns about products whose stock fell under the
// configured threshold so an operator can restock.
func (a *Application) scanLowStock() {
	threshold := a.GetSettingsInt64Value("stock", "low_threshold")
	if threshold <= 0 {
		return
	}

	var products []domain.Product
	if err := a.gormDB.Where("stock < ?", threshold).Find(&products).Error; err != nil {
		zap.L().Error("low stock scan failed", zap.Error(err))
		return
	}
	for _, product := range products {
		zap.L().Warn("product stock below threshold",
			zap.Int64("product_id", product.ID),
			zap.String("name", product.Name),
			zap.Int("stock", product.Stock),
			zap.Int64("threshold", threshold))
	}
}
