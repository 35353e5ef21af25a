package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"devcraft_backend/internal/app"
	"devcraft_backend/internal/config"
	"devcraft_backend/internal/models"
	"devcraft_backend/pkg/contextkeys"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// TestServer - общий сервер интеграционных тестов.
// Каждый тест работает в своей транзакции: BeginTransaction открывает tx
// и все HTTP-запросы до RollbackTransaction идут через нее (DBMiddleware
// подхватывает tx из request context). Откат возвращает БД в исходное
// состояние, поэтому тесты не мешают друг другу.
type TestServer struct {
	Server *httptest.Server
	DB     *gorm.DB

	mu        sync.Mutex
	currentTx *gorm.DB
}

// NewTestServer создает и настраивает тестовый сервер и БД
func NewTestServer(t *testing.T) *TestServer {
	// Конфиг берет DATABASE_URL (уже с тестовой базой) из os.Getenv()
	config.LoadConfig()
	cfg := config.GetConfig()
	dsn := cfg.Database.DSN

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("Не удалось подключиться к тестовой БД (%s): %v", dsn, err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Client{},
		&models.Service{},
		&models.CustomRequest{},
		&models.Project{},
		&models.Message{},
		&models.PaymentTransaction{},
	)
	if err != nil {
		t.Fatalf("Не удалось выполнить AutoMigrate для тестовой БД: %v", err)
	}

	router, _ := app.SetupRouter(cfg, db)

	ts := &TestServer{DB: db}

	// Внешний хендлер подкладывает текущую тестовую транзакцию
	// в request context до того, как запрос дойдет до gin
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.mu.Lock()
		tx := ts.currentTx
		ts.mu.Unlock()

		if tx != nil {
			ctx := context.WithValue(r.Context(), contextkeys.DBContextKey, tx)
			r = r.WithContext(ctx)
		}
		router.ServeHTTP(w, r)
	}))

	log.Printf("Тестовый сервер запущен, тестовая БД (%s) настроена.", dsn)
	return ts
}

// BeginTransaction открывает транзакцию для текущего теста.
// Последующие HTTP-запросы выполняются внутри нее.
func (ts *TestServer) BeginTransaction(t *testing.T) *gorm.DB {
	tx := ts.DB.Begin()
	if tx.Error != nil {
		t.Fatalf("Не удалось открыть тестовую транзакцию: %v", tx.Error)
	}

	ts.mu.Lock()
	if ts.currentTx != nil {
		ts.mu.Unlock()
		t.Fatal("Предыдущая тестовая транзакция не закрыта (тесты с общим сервером не параллелятся)")
	}
	ts.currentTx = tx
	ts.mu.Unlock()

	return tx
}

// RollbackTransaction откатывает транзакцию теста
func (ts *TestServer) RollbackTransaction(t *testing.T, tx *gorm.DB) {
	ts.mu.Lock()
	ts.currentTx = nil
	ts.mu.Unlock()

	if err := tx.Rollback().Error; err != nil {
		t.Logf("Откат тестовой транзакции: %v", err)
	}
}

func (ts *TestServer) Close() {
	ts.Server.Close()
	sqlDB, _ := ts.DB.DB()
	sqlDB.Close()
}

// SendRequest выполняет HTTP-запрос к тестовому серверу и возвращает
// ответ вместе с прочитанным телом
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	url := ts.Server.URL + path

	var reqBody io.Reader = nil
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Ошибка кодирования JSON для запроса: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("Ошибка создания HTTP-запроса: %v", err)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := ts.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("Ошибка отправки HTTP-запроса: %v", err)
	}

	resBodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("Ошибка чтения тела ответа: %v", err)
	}
	defer res.Body.Close()

	return res, string(resBodyBytes)
}
