package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"apparel-design-service/internal/config"
	"apparel-design-service/internal/controller"
	"apparel-design-service/internal/design"
	"apparel-design-service/internal/middleware"
	"apparel-design-service/internal/preview"
	"apparel-design-service/internal/rabbit"
	"apparel-design-service/internal/render"
	"apparel-design-service/internal/repository"
	"apparel-design-service/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("Sin archivo .env; se usan las variables de entorno")
	}
	log.SetOutput(os.Stdout)

	cfg := config.Load()

	// Conexión a MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal(err)
	}
	db := client.Database(cfg.MongoDBName)

	// Repositorio y servicios
	repo := repository.NewMongoOrderRepository(db)
	catalog := service.NewCatalogClient(cfg.CatalogURL)
	orderService := service.NewCustomOrderService(repo, catalog)
	authService := service.NewAuthService(cfg.AuthURL)

	// Motor de composición de diseños
	fonts, err := render.NewFontLibrary()
	if err != nil {
		log.Fatal(err)
	}
	loader := render.NewLoader(8 * time.Second)
	defer loader.Close()

	composer := render.NewComposer(design.DefaultGeometryTable(), fonts, loader)
	garments := render.NewGarmentResolver(cfg.GarmentImageBaseURL)
	previewGen := preview.NewGenerator(preview.Config{
		CloudName:     cfg.PreviewCloudName,
		Folder:        cfg.PreviewFolder,
		GarmentHeight: cfg.PreviewGarmentHeight,
	})

	// Handlers
	ctrl := controller.NewOrderController(orderService, composer, loader, garments, previewGen)

	// Router
	r := gin.Default()

	// Rutas protegidas (requieren token)
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(authService))

	auth.POST("/orders", ctrl.CreateOrder)
	auth.POST("/orders/quote", ctrl.Quote)
	auth.GET("/orders/mine", ctrl.GetMyOrders)
	auth.GET("/orders/:orderId", ctrl.GetOrder)
	auth.GET("/orders/:orderId/progress", ctrl.GetProgress)
	auth.GET("/orders/:orderId/preview", ctrl.GetPreview)
	auth.GET("/orders/:orderId/production-preview", ctrl.GetProductionPreview)
	auth.PATCH("/orders/:orderId/status", ctrl.UpdateStatus)

	// Rutas admin
	admin := auth.Group("/admin")
	admin.Use(middleware.AdminOnly())
	admin.GET("/orders", ctrl.GetAllOrders)
	admin.GET("/orders/state/:state", ctrl.GetAllOrdersByState)
	admin.PUT("/orders/:orderId/final-total", ctrl.SetFinalTotal)

	// Conexión a RabbitMQ
	conn, err := amqp091.Dial(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("Error conectando a RabbitMQ: %v", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("Error creando canal en RabbitMQ: %v", err)
	}

	rabbit.SetupConsumers(ch, orderService)

	// Ejecutar servidor
	log.Infof("Apparel Design Service ejecutándose en puerto %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
