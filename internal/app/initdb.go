package app

import (
	"strings"
	"time"

	"github.com/Tanmay-Anand/secure-e-commerce/internal/domain"
	"github.com/Tanmay-Anand/secure-e-commerce/pkg/common"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func (a *Application) checkSuper() {
	const superUsername = "admin"
	const defaultPassword = "secure-ecommerce"

	var admin domain.User
	err := a.gormDB.Where("username = ?", superUsername).First(&admin).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		hashed, herr := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
		if herr != nil {
			zap.L().Error("failed to hash default admin password", zap.Error(herr))
			return
		}
		if err := a.gormDB.Create(&domain.User{
			ID:        common.UUIDint64(),
			Username:  superUsername,
			Password:  string(hashed),
			Email:     "N/A",
			Role:      domain.RoleAdmin,
			Status:    common.ENABLED,
			LastLogin: time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to create default admin", zap.Error(err))
		} else {
			zap.L().Info("initialized default admin account", zap.String("username", superUsername))
		}
		return
	case err != nil:
		zap.L().Error("failed to query default admin", zap.Error(err))
		return
	}

	resetRole := !strings.EqualFold(admin.Role, domain.RoleAdmin)
	resetStatus := !strings.EqualFold(admin.Status, common.ENABLED)
	if !resetRole && !resetStatus {
		return
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if resetRole {
		updates["role"] = domain.RoleAdmin
	}
	if resetStatus {
		updates["status"] = common.ENABLED
	}
	if err := a.gormDB.Model(&domain.User{}).Where("id = ?", admin.ID).Updates(updates).Error; err != nil {
		zap.L().Error("failed to repair default admin account", zap.Error(err))
		return
	}
	zap.L().Warn("repaired default admin account",
		zap.String("username", superUsername),
		zap.Bool("roleReset", resetRole),
		zap.Bool("statusEnabled", resetStatus))
}

var defaultSettings = []domain.SysConfig{
	{Type: "notify", Name: "mail_enable", Value: "false", Remark: "Send order notification mail"},
	{Type: "smtp", Name: "host", Value: "", Remark: "SMTP server host"},
	{Type: "smtp", Name: "port", Value: "587", Remark: "SMTP server port"},
	{Type: "smtp", Name: "username", Value: "", Remark: "SMTP username"},
	{Type: "smtp", Name: "password", Value: "", Remark: "SMTP password"},
	{Type: "smtp", Name: "from", Value: "noreply@example.com", Remark: "Notification sender address"},
	{Type: "stock", Name: "low_threshold", Value: "5", Remark: "Low stock warning threshold"},
}

func (a *Application) checkSettings() {
	for _, setting := range defaultSettings {
		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", setting.Type, setting.Name).Count(&count)
		if count > 0 {
			continue
		}
		setting.ID = common.UUIDint64()
		setting.CreatedAt = time.Now()
		setting.UpdatedAt = time.Now()
		if err := a.gormDB.Create(&setting).Error; err != nil {
			zap.L().Error("failed to seed setting",
				zap.String("type", setting.Type), zap.String("name", setting.Name), zap.Error(err))
		}
	}
}
