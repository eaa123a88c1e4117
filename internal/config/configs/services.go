package configs

// Services holds base URLs of the external collaborators the engine talks
// to over HTTP: the shop/product catalog, the media store and the payment
// gateway used for auto-renewal capture.
type Services struct {
	CatalogURL string `env:"CATALOG_URL" envDefault:"http://localhost:8081"`
	MediaURL   string `env:"MEDIA_URL" envDefault:"http://localhost:8082"`
	PaymentURL string `env:"PAYMENT_URL" envDefault:"http://localhost:8083"`
}
