package email

// Email представляет email сообщение
type Email struct {
	From     string
	To       []string
	Cc       []string
	Bcc      []string
	Subject  string
	Body     string
	HTMLBody string
}

// TemplateData - данные для рендеринга шаблона
type TemplateData map[string]interface{}
