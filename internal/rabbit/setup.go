// setup.go
package rabbit

import (
	log "github.com/sirupsen/logrus"

	"apparel-design-service/internal/service"

	"github.com/rabbitmq/amqp091-go"
)

func SetupConsumers(ch *amqp091.Channel, svc *service.CustomOrderService) {
	consumer := NewPlaceOrderConsumer(svc)

	// 1. Declarar la queue
	q, err := ch.QueueDeclare(
		"apparel_design_service_orders", // cola exclusiva para tu micro
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.WithError(err).Error("❌ Error declarando queue")
		return
	}

	// 2. Bindear al exchange fanout
	err = ch.QueueBind(
		q.Name,
		"",                    // fanout ignora routing key
		"custom_order_placed", // el exchange correcto
		false,
		nil,
	)
	if err != nil {
		log.WithError(err).Error("❌ Error binding exchange")
		return
	}

	// 3. Consumir
	msgs, err := ch.Consume(
		q.Name,
		"",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.WithError(err).Error("❌ Error al consumir queue")
		return
	}

	go func() {
		for m := range msgs {
			consumer.Handle(m.Body)
		}
	}()

	log.Info("🐰 Suscrito a exchange custom_order_placed (fanout)")
}
