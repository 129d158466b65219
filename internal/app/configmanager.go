package app

import (
	"sync"
	"time"

	"github.com/Tanmay-Anand/secure-e-commerce/internal/domain"
	"github.com/Tanmay-Anand/secure-e-commerce/pkg/common"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ConfigManager caches the sys_config table and hands out typed values.
// The cache reloads lazily after cacheTTL so settings edits take effect
// without a restart.
type ConfigManager struct {
	db       *gorm.DB
	mu       sync.RWMutex
	cache    map[string]string
	loadedAt time.Time
}

const settingsCacheTTL = 30 * time.Second

func NewConfigManager(db *gorm.DB) *ConfigManager {
	cm := &ConfigManager{db: db, cache: map[string]string{}}
	cm.reload()
	return cm
}

func (cm *ConfigManager) reload() {
	var rows []domain.SysConfig
	if err := cm.db.Find(&rows).Error; err != nil {
		zap.L().Error("failed to load settings", zap.Error(err))
		return
	}
	next := make(map[string]string, len(rows))
	for _, row := range rows {
		next[row.Type+"/"+row.Name] = row.Value
	}
	cm.mu.Lock()
	cm.cache = next
	cm.loadedAt = time.Now()
	cm.mu.Unlock()
}

func (cm *ConfigManager) get(category, name string) string {
	cm.mu.RLock()
	stale := time.Since(cm.loadedAt) > settingsCacheTTL
	value := cm.cache[category+"/"+name]
	cm.mu.RUnlock()
	if stale {
		cm.reload()
		cm.mu.RLock()
		value = cm.cache[category+"/"+name]
		cm.mu.RUnlock()
	}
	return value
}

func (cm *ConfigManager) GetString(category, name string) string {
	return cm.get(category, name)
}

func (cm *ConfigManager) GetInt64(category, name string) int64 {
	return cast.ToInt64(cm.get(category, name))
}

func (cm *ConfigManager) GetBool(category, name string) bool {
	return cast.ToBool(cm.get(category, name))
}

// GetSettingsBoolValue implements notify.SettingsSource.
func (cm *ConfigManager) GetSettingsBoolValue(category, name string) bool {
	return cm.GetBool(category, name)
}

// GetCategorySettings returns every setting of one category as a map,
// for struct decoding.
func (cm *ConfigManager) GetCategorySettings(category string) map[string]interface{} {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	out := map[string]interface{}{}
	for key, value := range cm.cache {
		if len(key) > len(category)+1 && key[:len(category)+1] == category+"/" {
			out[key[len(category)+1:]] = value
		}
	}
	return out
}

// SetValue upserts one setting and refreshes the cache.
func (cm *ConfigManager) SetValue(category, name, value string) error {
	var row domain.SysConfig
	err := cm.db.Where("type = ? and name = ?", category, name).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		err = cm.db.Create(&domain.SysConfig{
			ID:        common.UUIDint64(),
			Type:      category,
			Name:      name,
			Value:     value,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}).Error
	} else if err == nil {
		err = cm.db.Model(&domain.SysConfig{}).Where("id = ?", row.ID).
			Updates(map[string]interface{}{"value": value, "updated_at": time.Now()}).Error
	}
	if err != nil {
		return err
	}
	cm.reload()
	return nil
}
