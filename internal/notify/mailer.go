package notify

import (
	"fmt"

	"github.com/Tanmay-Anand/secure-e-commerce/internal/domain"
	"github.com/Tanmay-Anand/secure-e-commerce/internal/ordering"
	evbus "github.com/asaskevich/EventBus"
	"github.com/mitchellh/mapstructure"
	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// SettingsSource exposes the runtime settings the mailer reads on every
// send, so SMTP parameters can change without a restart.
type SettingsSource interface {
	GetSettingsBoolValue(category, key string) bool
	GetCategorySettings(category string) map[string]interface{}
}

type SmtpConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// Mailer sends order notifications. Sending is disabled unless the
// notify/mail_enable setting is on, so the service runs fine without an
// SMTP server. Delivery happens on a bounded worker pool.
type Mailer struct {
	settings    SettingsSource
	pool        *ants.Pool
	lookupEmail func(userID int64) (string, error)
}

func NewMailer(settings SettingsSource, lookupEmail func(userID int64) (string, error)) (*Mailer, error) {
	pool, err := ants.NewPool(8, ants.WithNonblocking(true))
	if err != nil {
		return nil, err
	}
	return &Mailer{settings: settings, pool: pool, lookupEmail: lookupEmail}, nil
}

// Start wires the mailer to the order event topics.
func (m *Mailer) Start(bus evbus.Bus) error {
	if err := bus.SubscribeAsync(ordering.TopicOrderCreated, m.onOrderCreated, false); err != nil {
		return err
	}
	return bus.SubscribeAsync(ordering.TopicOrderStatusChanged, m.onStatusChanged, false)
}

func (m *Mailer) Stop() {
	m.pool.Release()
}

func (m *Mailer) enabled() bool {
	return m.settings.GetSettingsBoolValue("notify", "mail_enable")
}

func (m *Mailer) smtpConfig() (*SmtpConfig, error) {
	raw := m.settings.GetCategorySettings("smtp")
	var cfg SmtpConfig
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &cfg,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, err
	}
	if cfg.Host == "" {
		return nil, errors.New("smtp host not configured")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &cfg, nil
}

func (m *Mailer) onOrderCreated(evt ordering.OrderCreatedEvent) {
	subject := fmt.Sprintf("Order %d received", evt.Order.ID)
	body := fmt.Sprintf("Hello %s,\r\n\r\nyour order %d over %.2f was received and is being processed.\r\n",
		evt.Username, evt.Order.ID, evt.Order.TotalAmount)
	m.deliver(evt.Order.UserID, subject, body)
}

func (m *Mailer) onStatusChanged(evt ordering.OrderStatusChangedEvent) {
	// cancellation and delivery are the states customers care about;
	// intermediate hops are only logged
	if evt.ToStatus != domain.OrderStatusCancelled &&
		evt.ToStatus != domain.OrderStatusDelivered &&
		evt.ToStatus != domain.OrderStatusConfirmed {
		zap.L().Debug("order status changed", zap.Int64("order_id", evt.OrderID), zap.String("to", evt.ToStatus))
		return
	}
	subject := fmt.Sprintf("Order %d is now %s", evt.OrderID, evt.ToStatus)
	body := fmt.Sprintf("Your order %d moved from %s to %s.\r\n", evt.OrderID, evt.FromStatus, evt.ToStatus)
	m.deliver(evt.UserID, subject, body)
}

func (m *Mailer) deliver(userID int64, subject, body string) {
	if !m.enabled() {
		return
	}
	to, err := m.lookupEmail(userID)
	if err != nil || to == "" {
		zap.L().Warn("no recipient address for notification", zap.Int64("user_id", userID), zap.Error(err))
		return
	}
	err = m.pool.Submit(func() {
		if err := m.send(to, subject, body); err != nil {
			zap.L().Error("mail delivery failed", zap.String("to", to), zap.Error(err))
		}
	})
	if err != nil {
		zap.L().Warn("mail pool saturated, dropping notification", zap.String("to", to))
	}
}

func (m *Mailer) send(to, subject, body string) error {
	cfg, err := m.smtpConfig()
	if err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return dialer.DialAndSend(msg)
}
