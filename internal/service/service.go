package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"apparel-design-service/internal/design"
	"apparel-design-service/internal/dto"
	"apparel-design-service/internal/model"
)

// Interfaz que debe implementar repository
type OrderRepository interface {
	Save(ctx context.Context, o *model.CustomOrder) error
	FindByOrderID(ctx context.Context, orderID string) (*model.CustomOrder, error)
	UpdateStatus(ctx context.Context, orderID, status string, record model.StatusRecord) error
	SetFinalTotal(ctx context.Context, orderID string, total float64) error
	FindAll(ctx context.Context) ([]*model.CustomOrder, error)
	FindByStatus(ctx context.Context, status string) ([]*model.CustomOrder, error)
	FindByUserID(ctx context.Context, userID string) ([]*model.CustomOrder, error)
}

// PriceSource consulta el precio base de la prenda en el catálogo.
type PriceSource interface {
	BasePrice(ctx context.Context, productID string) float64
}

// Errores de negocio exportados (los usa el controller)
var (
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidTransition  = errors.New("transición de estado inválida")
	ErrFinalState         = errors.New("no se puede cambiar el estado de una orden en estado final")
	ErrOrderAlreadyExists = errors.New("la orden ya fue inicializada previamente")
	ErrInvalidFinalTotal  = errors.New("el total final debe ser mayor a cero")
)

type CustomOrderService struct {
	repo   OrderRepository
	prices PriceSource
}

func NewCustomOrderService(r OrderRepository, p PriceSource) *CustomOrderService {
	return &CustomOrderService{repo: r, prices: p}
}

// Transiciones permitidas (hardcodeadas por estado) para admin y dueño.
// El admin avanza por la secuencia canónica; el dueño solo puede cancelar
// mientras la producción no haya arrancado.
var adminTransitions = map[string][]string{
	design.StatusPendingReview:  {design.StatusApproved, design.StatusCancelled},
	design.StatusApproved:       {design.StatusInDesign, design.StatusCancelled},
	design.StatusInDesign:       {design.StatusInPrinting, design.StatusCancelled},
	design.StatusInPrinting:     {design.StatusReadyForPickup, design.StatusOutForDelivery},
	design.StatusReadyForPickup: {design.StatusOutForDelivery, design.StatusDelivered},
	design.StatusOutForDelivery: {design.StatusDelivered},
}

var userTransitions = map[string][]string{
	design.StatusPendingReview: {design.StatusCancelled},
	design.StatusApproved:      {design.StatusCancelled},
	design.StatusInDesign:      {design.StatusCancelled},
}

// Estados finales
var finalStates = map[string]bool{
	design.StatusDelivered: true,
	design.StatusCancelled: true,
}

func dtoToModelPlacement(in dto.PlacementDTO) model.Placement {
	return model.Placement{
		Area:             in.Area,
		VerticalPosition: in.VerticalPosition,
		DesignType:       in.DesignType,
		DesignText:       in.DesignText,
		DesignFont:       in.DesignFont,
		DesignColor:      in.DesignColor,
		FontSize:         in.FontSize,
		TextBoxWidth:     in.TextBoxWidth,
		DesignImageURL:   in.DesignImageURL,
	}
}

// CreateOrder crea la orden personalizada con su foto de precios y el
// estado inicial PENDING_REVIEW. Se puede invocar desde el consumer Rabbit
// (primario, con orderId propio) o vía API (orderId vacío ⇒ se acuña uno).
func (s *CustomOrderService) CreateOrder(ctx context.Context, orderID, userID string, req dto.CreateOrderRequest) (*model.CustomOrder, error) {

	if orderID != "" {
		// 1. Primero preguntamos si ya existe
		existing, err := s.repo.FindByOrderID(ctx, orderID)

		// 2. Si NO hay error (significa que ya existe), no hacemos nada
		if err == nil && existing != nil {
			return nil, ErrOrderAlreadyExists
		}
		// 3. Si da ErrNotFound, la creamos desde cero
	} else {
		orderID = uuid.New().String()
	}

	quantity := req.Quantity
	if quantity < 1 {
		quantity = 1
	}

	order := &model.CustomOrder{
		OrderID:       orderID,
		UserID:        userID,
		BaseColor:     req.BaseColor,
		BaseProductID: req.BaseProductID,
		Quantity:      quantity,
		Status:        design.StatusPendingReview,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	for _, p := range req.Placements {
		order.Placements = append(order.Placements, dtoToModelPlacement(p))
	}

	// La foto de precios se toma una sola vez, acá.
	base := s.prices.BasePrice(ctx, req.BaseProductID)
	resolved := design.ResolvePlacements(order)
	order.Pricing = design.ComputePricing(base, len(resolved), quantity)

	order.History = []model.StatusRecord{
		{
			Status:    design.StatusPendingReview,
			Current:   true,
			Reason:    "Orden recibida para revisión",
			UserID:    userID,
			Timestamp: time.Now(),
		},
	}

	return order, s.repo.Save(ctx, order)
}

// Quote cotiza sin persistir nada; misma fórmula que CreateOrder.
func (s *CustomOrderService) Quote(ctx context.Context, productID string, placementCount, quantity int) model.Pricing {
	base := s.prices.BasePrice(ctx, productID)
	return design.ComputePricing(base, placementCount, quantity)
}

// Getters
func (s *CustomOrderService) GetByOrderID(ctx context.Context, orderID string) (*model.CustomOrder, error) {
	return s.repo.FindByOrderID(ctx, orderID)
}

func (s *CustomOrderService) GetAll(ctx context.Context) ([]*model.CustomOrder, error) {
	return s.repo.FindAll(ctx)
}

func (s *CustomOrderService) GetByStatus(ctx context.Context, status string) ([]*model.CustomOrder, error) {
	return s.repo.FindByStatus(ctx, design.NormalizeStatus(status))
}

func (s *CustomOrderService) GetByUserID(ctx context.Context, userID string) ([]*model.CustomOrder, error) {
	return s.repo.FindByUserID(ctx, userID)
}

// Progress arma la vista de progreso (completado/actual/próximo) del
// estado guardado, tolerando el vocabulario legado.
func (s *CustomOrderService) Progress(ctx context.Context, orderID string) ([]design.ProgressStep, error) {
	o, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return design.ClassifyCustomProgress(o.Status), nil
}

// UpdateStatus valida y realiza la transición entre estados según las
// reglas de negocio. Los alias legados (ACCEPTED) se normalizan antes de
// mirar cualquier tabla.
func (s *CustomOrderService) UpdateStatus(ctx context.Context, orderID string, newStatus string, reason string, actorID string, isAdmin bool) error {
	ord, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		return err
	}

	current := design.NormalizeStatus(ord.Status)
	newStatus = design.NormalizeStatus(newStatus)

	// Si el estado nuevo es el mismo que ya está, no hacemos nada
	if current == newStatus {
		return nil
	}
	// Si el estado actual es final, no se puede cambiar
	if finalStates[current] {
		return ErrFinalState
	}
	// Si el nuevo estado no es válido, error
	if !design.IsValidCustomStatus(newStatus) {
		return ErrInvalidTransition
	}

	// Determinamos si el actor es el dueño de la orden
	isOwner := ord.UserID == actorID

	// Tiene permiso para hacer cualquier cambio?
	if !isAdmin && !isOwner {
		return ErrForbidden // Ni es admin, ni es el dueño -> Fuera.
	}

	allowedAsAdmin := isAdmin && contains(adminTransitions[current], newStatus)
	allowedAsOwner := isOwner && contains(userTransitions[current], newStatus)

	if !allowedAsAdmin && !allowedAsOwner {
		return ErrInvalidTransition
	}

	record := model.StatusRecord{
		Status:    newStatus,
		Reason:    reason,
		UserID:    actorID,
		Timestamp: time.Now(),
		Current:   true,
	}

	return s.repo.UpdateStatus(ctx, orderID, newStatus, record)
}

// SetFinalTotal guarda el total que decide el staff al revisar la orden.
// Puede pisarse en una revisión posterior; nunca se recalcula solo.
func (s *CustomOrderService) SetFinalTotal(ctx context.Context, orderID string, total float64) error {
	if total <= 0 {
		return ErrInvalidFinalTotal
	}
	return s.repo.SetFinalTotal(ctx, orderID, total)
}

func contains(arr []string, s string) bool {
	for _, v := range arr {
		if v == s {
			return true
		}
	}
	return false
}
