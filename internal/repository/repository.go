package repository

import (
	"context"
	"errors"
	"time"

	"apparel-design-service/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("orden no encontrada")

// Mongo implementation. La colección guarda las cuatro formas históricas
// del diseño tal cual llegaron; acá no se migra nada.
type MongoOrderRepository struct {
	col *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{col: db.Collection("custom_orders")}
}

func (m *MongoOrderRepository) Save(ctx context.Context, o *model.CustomOrder) error {
	now := time.Now().UTC()

	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
		if len(o.History) == 0 {
			// Primer estado en historial
			o.History = []model.StatusRecord{
				{
					Status:    o.Status,
					Timestamp: now,
					UserID:    o.UserID, // creador
					Reason:    "Orden creada",
					Current:   true,
				},
			}
		}
	}
	o.UpdatedAt = now

	filter := bson.M{"order_id": o.OrderID}
	update := bson.M{"$set": o}
	opts := options.Update().SetUpsert(true)
	_, err := m.col.UpdateOne(ctx, filter, update, opts)
	return err
}

func (m *MongoOrderRepository) FindByOrderID(ctx context.Context, orderID string) (*model.CustomOrder, error) {
	var res model.CustomOrder
	err := m.col.FindOne(ctx, bson.M{"order_id": orderID}).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	return &res, err
}

func (m *MongoOrderRepository) UpdateStatus(ctx context.Context, orderID, status string, record model.StatusRecord) error {

	// PASO 1: desmarcar el actual
	filter := bson.M{
		"order_id":        orderID,
		"history.current": true,
	}

	update1 := bson.M{
		"$set": bson.M{
			"history.$.current": false,
		},
	}

	r1, err := m.col.UpdateOne(ctx, filter, update1)
	if err != nil {
		return err
	}
	if r1.MatchedCount == 0 {
		return ErrNotFound
	}

	// PASO 2: actualizar estado + pushear nuevo registro
	filter2 := bson.M{"order_id": orderID}

	update2 := bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now().UTC(),
		},
		"$push": bson.M{
			"history": record,
		},
	}

	_, err = m.col.UpdateOne(ctx, filter2, update2)
	return err
}

// SetFinalTotal fija el total final que decide el staff en la revisión.
// El resto de la foto de precios no se toca nunca.
func (m *MongoOrderRepository) SetFinalTotal(ctx context.Context, orderID string, total float64) error {
	res, err := m.col.UpdateOne(ctx,
		bson.M{"order_id": orderID},
		bson.M{"$set": bson.M{
			"pricing.final_total": total,
			"updated_at":          time.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoOrderRepository) FindAll(ctx context.Context) ([]*model.CustomOrder, error) {
	return m.findMany(ctx, bson.M{})
}

func (m *MongoOrderRepository) FindByStatus(ctx context.Context, status string) ([]*model.CustomOrder, error) {
	return m.findMany(ctx, bson.M{"status": status})
}

func (m *MongoOrderRepository) FindByUserID(ctx context.Context, userID string) ([]*model.CustomOrder, error) {
	return m.findMany(ctx, bson.M{"user_id": userID})
}

func (m *MongoOrderRepository) findMany(ctx context.Context, filter bson.M) ([]*model.CustomOrder, error) {
	cur, err := m.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*model.CustomOrder
	for cur.Next(ctx) {
		var v model.CustomOrder
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, nil
}
