package email

import "devcraft_backend/internal/config"

// SMTPConfig - настройки SMTP провайдера
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseTLS    bool
}

// ConfigFromApp строит SMTPConfig из общей конфигурации приложения
func ConfigFromApp(cfg *config.Config) *SMTPConfig {
	return &SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
		UseTLS:    cfg.Email.UseTLS,
	}
}
