package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler     *AuthHandler
	CatalogHandler  *CatalogHandler
	RequestHandler  *RequestHandler
	CheckoutHandler *CheckoutHandler
	ProjectHandler  *ProjectHandler
	MessageHandler  *MessageHandler
}
