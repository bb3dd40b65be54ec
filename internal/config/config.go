// config.go
package config

import "os"

type Config struct {
	MongoURI    string
	MongoDBName string
	AuthURL     string
	CatalogURL  string
	RabbitURL   string
	Port        string

	// Servicio externo de transformación de imágenes (previews de
	// producción). CloudName vacío = sin previews de producción.
	PreviewCloudName     string
	PreviewFolder        string
	PreviewGarmentHeight int

	// Base de las imágenes de prenda que carga el renderer de lienzo.
	GarmentImageBaseURL string
}

func Load() *Config {
	return &Config{
		MongoURI:             getEnv("MONGO_URI", "mongodb://host.docker.internal:27017"),
		MongoDBName:          getEnv("MONGO_DB_NAME", "custom_apparel_db"),
		AuthURL:              getEnv("AUTH_URL", "http://host.docker.internal:3000"),
		CatalogURL:           getEnv("CATALOG_URL", "http://host.docker.internal:3002"),
		RabbitURL:            getEnv("RABBIT_URL", "amqp://host.docker.internal"),
		Port:                 getEnv("PORT", "8080"),
		PreviewCloudName:     getEnv("PREVIEW_CLOUD_NAME", ""),
		PreviewFolder:        getEnv("PREVIEW_FOLDER", "garments"),
		PreviewGarmentHeight: getEnvInt("PREVIEW_GARMENT_HEIGHT", 1200),
		GarmentImageBaseURL:  getEnv("GARMENT_IMAGE_BASE_URL", ""),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		n := 0
		for _, ch := range value {
			if ch < '0' || ch > '9' {
				return fallback
			}
			n = n*10 + int(ch-'0')
		}
		if n > 0 {
			return n
		}
	}
	return fallback
}
