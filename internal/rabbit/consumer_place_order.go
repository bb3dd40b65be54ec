package rabbit

import (
	"context"
	"encoding/json"

	log "github.com/sirupsen/logrus"

	"apparel-design-service/internal/dto"
	"apparel-design-service/internal/service"
)

type PlaceOrderConsumer struct {
	Service *service.CustomOrderService
}

func NewPlaceOrderConsumer(s *service.CustomOrderService) *PlaceOrderConsumer {
	return &PlaceOrderConsumer{Service: s}
}

// Mensaje que publica el checkout cuando se confirma un pedido
// personalizado. El diseño viene en la forma canónica; las formas legadas
// solo existen en documentos viejos, nunca en eventos nuevos.
type PlacedOrderMessage struct {
	CorrelationID string `json:"correlation_id"`
	Exchange      string `json:"exchange"`
	RoutingKey    string `json:"routing_key"`
	Message       struct {
		OrderID       string             `json:"orderId"`
		CartID        string             `json:"cartId"`
		UserID        string             `json:"userId"`
		BaseColor     string             `json:"baseColor"`
		BaseProductID string             `json:"baseProductId"`
		Quantity      int                `json:"quantity"`
		Placements    []dto.PlacementDTO `json:"placements"`
	} `json:"message"`
}

func (c *PlaceOrderConsumer) Handle(msg []byte) error {

	log.Info("[Rabbit] Evento recibido: custom_order_placed")

	var event PlacedOrderMessage
	if err := json.Unmarshal(msg, &event); err != nil {
		log.WithError(err).Error("Error parseando mensaje")
		return err
	}

	// Si la orden ya existe (reentrega del evento), el servicio devuelve
	// ErrOrderAlreadyExists y acá no pasa nada más.
	_, err := c.Service.CreateOrder(
		context.Background(),
		event.Message.OrderID,
		event.Message.UserID,
		dto.CreateOrderRequest{
			BaseColor:     event.Message.BaseColor,
			BaseProductID: event.Message.BaseProductID,
			Quantity:      event.Message.Quantity,
			Placements:    event.Message.Placements,
		},
	)

	if err == service.ErrOrderAlreadyExists {
		log.WithField("orderId", event.Message.OrderID).Info("Orden ya inicializada; se ignora la reentrega")
		return nil
	}
	if err != nil {
		log.WithError(err).Error("❌ Error creando la orden personalizada")
		return err
	}

	log.WithField("orderId", event.Message.OrderID).Info("✔ Orden personalizada inicializada")
	return nil
}
