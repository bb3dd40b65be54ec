package controller

import (
	"errors"
	"net/http"
	"slices"
	"strconv"

	"apparel-design-service/internal/design"
	"apparel-design-service/internal/dto"
	"apparel-design-service/internal/model"
	"apparel-design-service/internal/preview"
	"apparel-design-service/internal/render"
	"apparel-design-service/internal/repository"
	"apparel-design-service/internal/service"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	Service  *service.CustomOrderService
	Composer *render.Composer
	Loader   *render.Loader
	Garments *render.GarmentResolver
	Preview  *preview.Generator
}

func NewOrderController(s *service.CustomOrderService, composer *render.Composer, loader *render.Loader, garments *render.GarmentResolver, gen *preview.Generator) *OrderController {
	return &OrderController{
		Service:  s,
		Composer: composer,
		Loader:   loader,
		Garments: garments,
		Preview:  gen,
	}
}

// POST /orders — requiere token
func (ctl *OrderController) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString("userID")
	order, err := ctl.Service.CreateOrder(c.Request.Context(), "", userID, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, order)
}

// POST /orders/quote — cotiza sin persistir
func (ctl *OrderController) Quote(c *gin.Context) {
	var req dto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pricing := ctl.Service.Quote(c.Request.Context(), req.BaseProductID, req.PlacementCount, req.Quantity)
	c.JSON(http.StatusOK, pricing)
}

// GET /orders/mine - user (middleware debe poner userID)
func (ctl *OrderController) GetMyOrders(c *gin.Context) {
	userID := c.GetString("userID")
	orders, err := ctl.Service.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GET /orders/:orderId — dueño o admin
func (ctl *OrderController) GetOrder(c *gin.Context) {
	o, ok := ctl.loadOrderWithAccess(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, o)
}

// GET /orders/:orderId/progress — vista de progreso para la UI
func (ctl *OrderController) GetProgress(c *gin.Context) {
	o, ok := ctl.loadOrderWithAccess(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"orderId": o.OrderID,
		"status":  design.NormalizeStatus(o.Status),
		"steps":   design.ClassifyCustomProgress(o.Status),
	})
}

// GET /orders/:orderId/preview — render del lienzo del lado servidor.
// Query: side=front|back, size, mode=thumbnail|full, guide, active,
// scale, format=png|webp.
func (ctl *OrderController) GetPreview(c *gin.Context) {
	o, ok := ctl.loadOrderWithAccess(c)
	if !ok {
		return
	}

	side := design.AreaFront
	if design.NormalizeArea(c.DefaultQuery("side", "front")) == design.AreaBack {
		side = design.AreaBack
	}

	size := intQuery(c, "size", 600)
	mode := render.ModeFull
	if c.Query("mode") == string(render.ModeThumbnail) {
		mode = render.ModeThumbnail
	}

	placements := design.PlacementsForSide(design.ResolvePlacements(o), side)

	// Mejor esfuerzo: se esperan las imágenes que falten, pero una que no
	// llegue deja su estampado sin imagen, nunca un error.
	garmentURL := ctl.Garments.ImageURL(o.BaseColor, side)
	urls := []string{garmentURL}
	for _, p := range placements {
		urls = append(urls, p.DesignImageURL)
	}
	ctl.Loader.WarmUp(urls)

	base, ok := ctl.Loader.Image(garmentURL)
	if !ok {
		base = render.FlatGarment(render.GarmentRGBA(o.BaseColor), size, size*7/6)
	}

	opts := render.Options{
		Width:  size,
		Height: size * 7 / 6,
		Mode:   mode,
		Guide:  c.Query("guide") == "true",
		Active: intQuery(c, "active", -1),
	}

	scale, _ := strconv.ParseFloat(c.DefaultQuery("scale", "1"), 64)
	format := c.DefaultQuery("format", "png")

	data, err := ctl.Composer.Export(base, placements, opts, scale, format)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	contentType := "image/png"
	if format == "webp" {
		contentType = "image/webp"
	}
	c.Data(http.StatusOK, contentType, data)
}

// GET /orders/:orderId/production-preview — URL compuesta por el servicio
// externo, o null si no hay (la UI cae al lienzo interactivo).
func (ctl *OrderController) GetProductionPreview(c *gin.Context) {
	o, ok := ctl.loadOrderWithAccess(c)
	if !ok {
		return
	}

	var resp dto.ProductionPreviewResponse
	if url := ctl.Preview.URL(o); url != "" {
		resp.URL = &url
	}
	c.JSON(http.StatusOK, resp)
}

// PATCH /orders/:orderId/status — requiere token
func (ctl *OrderController) UpdateStatus(c *gin.Context) {
	orderID := c.Param("orderId")

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actorID := c.GetString("userID")
	perms := c.GetStringSlice("userPermissions")
	isAdmin := slices.Contains(perms, "admin")

	err := ctl.Service.UpdateStatus(
		c.Request.Context(),
		orderID,
		req.Status,
		req.Reason,
		actorID,
		isAdmin,
	)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "status updated"})
}

// PUT /admin/orders/:orderId/final-total - admin only
func (ctl *OrderController) SetFinalTotal(c *gin.Context) {
	orderID := c.Param("orderId")

	var req dto.FinalTotalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ctl.Service.SetFinalTotal(c.Request.Context(), orderID, req.FinalTotal); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "final total updated"})
}

// GET /admin/orders - admin only (middleware AdminOnly)
func (ctl *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := ctl.Service.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GET /admin/orders/state/:state - admin only
func (ctl *OrderController) GetAllOrdersByState(c *gin.Context) {
	state := c.Param("state")
	orders, err := ctl.Service.GetByStatus(c.Request.Context(), state)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// loadOrderWithAccess busca la orden y valida dueño/admin. Escribe la
// respuesta de error por su cuenta cuando devuelve ok=false.
func (ctl *OrderController) loadOrderWithAccess(c *gin.Context) (*model.CustomOrder, bool) {
	orderID := c.Param("orderId")
	actorID := c.GetString("userID")
	perms := c.GetStringSlice("userPermissions")
	isAdmin := slices.Contains(perms, "admin")

	o, err := ctl.Service.GetByOrderID(c.Request.Context(), orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return nil, false
	}

	if !isAdmin && o.UserID != actorID {
		c.JSON(http.StatusForbidden, gin.H{"error": "you cannot view another user's order"})
		return nil, false
	}
	return o, true
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

func intQuery(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return fallback
	}
	return v
}
