package metrics

import (
	"path"
	"sync"
	"time"

	"github.com/nakabonne/tstorage"
	"go.uber.org/zap"
)

// Counter metric names recorded by the ordering workflow.
const (
	OrdersPlaced   = "orders_placed"
	OrdersRejected = "orders_rejected"
	StockConflicts = "stock_conflicts"
)

var (
	storage tstorage.Storage
	once    sync.Once
)

// InitMetrics opens the embedded time-series store under workdir/metrics.
func InitMetrics(workdir string) error {
	var err error
	once.Do(func() {
		storage, err = tstorage.NewStorage(
			tstorage.WithDataPath(path.Join(workdir, "metrics")),
			tstorage.WithTimestampPrecision(tstorage.Seconds),
			tstorage.WithRetention(30*24*time.Hour),
		)
	})
	return err
}

// CounterInc records a single increment for the named counter.
func CounterInc(name string) {
	if storage == nil {
		return
	}
	err := storage.InsertRows([]tstorage.Row{
		{Metric: name, DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: 1}},
	})
	if err != nil {
		zap.S().Warnf("metrics insert failed: %v", err)
	}
}

// Select returns the raw data points for a metric in [start, end].
func Select(name string, start, end int64) ([]*tstorage.DataPoint, error) {
	if storage == nil {
		return nil, nil
	}
	points, err := storage.Select(name, nil, start, end)
	if err == tstorage.ErrNoDataPoints {
		return nil, nil
	}
	return points, err
}

func Close() error {
	if storage == nil {
		return nil
	}
	return storage.Close()
}
