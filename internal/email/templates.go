package email

import (
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Имена встроенных шаблонов
const (
	TemplateRequestReceived = "request_received"
	TemplateRequestApproved = "request_approved"
	TemplateRequestRejected = "request_rejected"
	TemplateVerification    = "verification"
)

// TemplateManager реализует TemplateRenderer для управления шаблонами email
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

// NewTemplateManager создает новый менеджер шаблонов со встроенными
// шаблонами по умолчанию. Шаблоны из директории (LoadTemplates) их перекрывают.
func NewTemplateManager() *TemplateManager {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
	}

	for name, tpl := range defaultTemplates {
		// встроенные шаблоны статичны, ошибок парсинга быть не может
		_ = tm.AddTemplate(name, tpl)
	}

	return tm
}

// Render рендерит шаблон с данными
func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// AddTemplate добавляет шаблон в менеджер
func (tm *TemplateManager) AddTemplate(name string, templateStr string) error {
	tpl, err := template.New(name).Parse(templateStr)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()

	return nil
}

// LoadTemplates загружает шаблоны из директории
func (tm *TemplateManager) LoadTemplates(dirPath string) error {
	return filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", path, err)
		}

		templateName := strings.TrimSuffix(filepath.Base(path), ".html")
		if err := tm.AddTemplate(templateName, string(content)); err != nil {
			return fmt.Errorf("failed to add template %s: %w", templateName, err)
		}

		return nil
	})
}

// TemplateNames возвращает список имен загруженных шаблонов
func (tm *TemplateManager) TemplateNames() []string {
	tm.mutex.RLock()
	defer tm.mutex.RUnlock()

	names := make([]string, 0, len(tm.templates))
	for name := range tm.templates {
		names = append(names, name)
	}

	return names
}

var defaultTemplates = map[string]string{
	TemplateRequestReceived: `<h2>Заявка получена</h2>
<p>Здравствуйте, {{.Name}}!</p>
<p>Мы получили вашу заявку на «{{.Category}}» и скоро вернемся с ответом.</p>`,

	TemplateRequestApproved: `<h2>Заявка одобрена</h2>
<p>Здравствуйте, {{.Name}}!</p>
<p>Ваша заявка на «{{.Category}}» одобрена. Стоимость: {{.Price}} {{.Currency}}.</p>
<p>Оплатите заказ в личном кабинете, чтобы мы начали работу.</p>`,

	TemplateRequestRejected: `<h2>Заявка отклонена</h2>
<p>Здравствуйте, {{.Name}}!</p>
<p>К сожалению, мы не сможем взять вашу заявку на «{{.Category}}» в работу.</p>`,

	TemplateVerification: `<h2>Подтверждение email</h2>
<p>Перейдите по ссылке, чтобы подтвердить адрес: <a href="{{.Link}}">{{.Link}}</a></p>`,
}
