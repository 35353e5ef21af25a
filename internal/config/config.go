package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // Минуты жизни access-токена
	} `yaml:"jwt"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		UseTLS       bool   `yaml:"use_tls"`
		TemplatesDir string `yaml:"templates_dir"`
	} `yaml:"email"`

	Storage struct {
		Type       string `yaml:"type"`        // local, s3
		BasePath   string `yaml:"base_path"`   // For local storage
		BaseURL    string `yaml:"base_url"`    // Public URL base
		Bucket     string `yaml:"bucket"`      // For S3
		Region     string `yaml:"region"`      // For S3
		AccessKey  string `yaml:"access_key"`  // For S3
		SecretKey  string `yaml:"secret_key"`  // For S3
		Endpoint   string `yaml:"endpoint"`    // For custom S3
		UseSSL     bool   `yaml:"use_ssl"`     // For S3
		PublicRead bool   `yaml:"public_read"` // Make files public
	} `yaml:"storage"`

	Upload struct {
		MaxSize      int64    `yaml:"max_size"`      // Max attachment size in bytes
		AllowedTypes []string `yaml:"allowed_types"` // Allowed MIME types
	} `yaml:"upload"`

	Payment struct {
		// Симуляция платежного провайдера: задержка перед success/failure.
		// Реальной интеграции нет, см. internal/payment.
		DelayMS  int    `yaml:"delay_ms"`
		Currency string `yaml:"currency"`
	} `yaml:"payment"`

	Reconcile struct {
		// Интервал фоновой сверки осиротевших проектов, минуты
		IntervalMinutes int `yaml:"interval_minutes"`
	} `yaml:"reconcile"`

	Admin struct {
		// Первый админ, создаётся при старте если его нет
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
	} `yaml:"admin"`
}

var AppConfig *Config

// LoadConfig загружает конфигурацию.
// Если DATABASE_URL задан в окружении - работаем от env (тесты/докер),
// иначе читаем config.yaml.
func LoadConfig() {
	var cfg Config

	// .env подхватываем до чтения окружения (не ошибка, если файла нет)
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	log.Println("Загрузка конфигурации из переменных окружения")

	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = 60

	cfg.Email.SMTPHost = "smtp.test.com"
	cfg.Email.SMTPPort = 587
	cfg.Email.FromEmail = "noreply@devcraft.test"
	cfg.Email.TemplatesDir = os.Getenv("TEMPLATES_DIR")

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./uploads"
	cfg.Storage.BaseURL = "/api/v1/files"

	cfg.Payment.DelayMS, _ = strconv.Atoi(os.Getenv("PAYMENT_DELAY_MS"))

	cfg.Admin.Email = os.Getenv("ADMIN_EMAIL")
	cfg.Admin.Password = os.Getenv("ADMIN_PASSWORD")

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Upload.MaxSize == 0 {
		cfg.Upload.MaxSize = 10 * 1024 * 1024 // 10MB
	}
	if len(cfg.Upload.AllowedTypes) == 0 {
		cfg.Upload.AllowedTypes = []string{
			"image/jpeg", "image/png", "image/gif", "image/webp",
			"application/pdf", "application/zip",
		}
	}
	if cfg.Payment.DelayMS == 0 {
		cfg.Payment.DelayMS = 1500
	}
	if cfg.Payment.Currency == "" {
		cfg.Payment.Currency = "USD"
	}
	if cfg.Reconcile.IntervalMinutes == 0 {
		cfg.Reconcile.IntervalMinutes = 15
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
