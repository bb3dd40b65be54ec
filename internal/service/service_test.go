package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apparel-design-service/internal/design"
	"apparel-design-service/internal/dto"
	"apparel-design-service/internal/model"
	"apparel-design-service/internal/repository"
)

// fakeRepo guarda órdenes en memoria para probar el servicio sin Mongo.
type fakeRepo struct {
	orders map[string]*model.CustomOrder
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{orders: make(map[string]*model.CustomOrder)}
}

func (f *fakeRepo) Save(_ context.Context, o *model.CustomOrder) error {
	f.orders[o.OrderID] = o
	return nil
}

func (f *fakeRepo) FindByOrderID(_ context.Context, orderID string) (*model.CustomOrder, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return o, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, orderID, status string, record model.StatusRecord) error {
	o, ok := f.orders[orderID]
	if !ok {
		return repository.ErrNotFound
	}
	for i := range o.History {
		o.History[i].Current = false
	}
	o.Status = status
	o.History = append(o.History, record)
	return nil
}

func (f *fakeRepo) SetFinalTotal(_ context.Context, orderID string, total float64) error {
	o, ok := f.orders[orderID]
	if !ok {
		return repository.ErrNotFound
	}
	o.Pricing.FinalTotal = &total
	return nil
}

func (f *fakeRepo) FindAll(_ context.Context) ([]*model.CustomOrder, error) {
	var out []*model.CustomOrder
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeRepo) FindByStatus(_ context.Context, status string) ([]*model.CustomOrder, error) {
	var out []*model.CustomOrder
	for _, o := range f.orders {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeRepo) FindByUserID(_ context.Context, userID string) ([]*model.CustomOrder, error) {
	var out []*model.CustomOrder
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

// fakePrices devuelve siempre el mismo precio de catálogo.
type fakePrices struct{ price float64 }

func (f fakePrices) BasePrice(context.Context, string) float64 { return f.price }

func newTestService(repo *fakeRepo) *CustomOrderService {
	return NewCustomOrderService(repo, fakePrices{price: 20})
}

func createRequest() dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		BaseColor:     "black",
		BaseProductID: "prod-1",
		Quantity:      3,
		Placements: []dto.PlacementDTO{
			{Area: "front", DesignType: "text", DesignText: "Hola"},
			{Area: "back", DesignType: "image", DesignImageURL: "http://x/a.png"},
		},
	}
}

func TestCreateOrderSnapshotsPricing(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	o, err := svc.CreateOrder(context.Background(), "orden-1", "user-1", createRequest())
	require.NoError(t, err)

	// (20 + 2*15) * 3
	assert.Equal(t, 20.0, o.Pricing.BasePrice)
	assert.Equal(t, 30.0, o.Pricing.PlacementCost)
	assert.Equal(t, 3, o.Pricing.QuantityMultiplier)
	assert.Equal(t, 150.0, o.Pricing.EstimatedTotal)
	assert.Nil(t, o.Pricing.FinalTotal)

	assert.Equal(t, design.StatusPendingReview, o.Status)
	require.Len(t, o.History, 1)
	assert.True(t, o.History[0].Current)
	assert.Equal(t, "user-1", o.History[0].UserID)

	saved, err := repo.FindByOrderID(context.Background(), "orden-1")
	require.NoError(t, err)
	assert.Equal(t, o, saved)
}

func TestCreateOrderMintsIDWhenEmpty(t *testing.T) {
	svc := newTestService(newFakeRepo())

	o, err := svc.CreateOrder(context.Background(), "", "user-1", createRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, o.OrderID)
}

func TestCreateOrderRejectsDuplicates(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	_, err := svc.CreateOrder(context.Background(), "orden-1", "user-1", createRequest())
	require.NoError(t, err)

	// Redelivery del mismo mensaje: no se pisa nada.
	_, err = svc.CreateOrder(context.Background(), "orden-1", "user-1", createRequest())
	assert.ErrorIs(t, err, ErrOrderAlreadyExists)
}

func TestQuoteDoesNotPersist(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	p := svc.Quote(context.Background(), "prod-1", 2, 3)
	assert.Equal(t, 150.0, p.EstimatedTotal)
	assert.Empty(t, repo.orders)
}

func TestUpdateStatusAdminPath(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	_, err := svc.CreateOrder(context.Background(), "orden-1", "user-1", createRequest())
	require.NoError(t, err)

	err = svc.UpdateStatus(context.Background(), "orden-1", design.StatusApproved, "revisado", "admin-1", true)
	require.NoError(t, err)

	o := repo.orders["orden-1"]
	assert.Equal(t, design.StatusApproved, o.Status)
	require.Len(t, o.History, 2)
	assert.False(t, o.History[0].Current)
	assert.True(t, o.History[1].Current)
}

func TestUpdateStatusRejectsSkippedStep(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	_, _ = svc.CreateOrder(context.Background(), "orden-1", "user-1", createRequest())

	// PENDING_REVIEW no puede saltar directo a IN_PRINTING, ni para admin.
	err := svc.UpdateStatus(context.Background(), "orden-1", design.StatusInPrinting, "", "admin-1", true)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatusNormalizesLegacyAlias(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	_, _ = svc.CreateOrder(context.Background(), "orden-1", "user-1", createRequest())

	// ACCEPTED es el alias legado de APPROVED.
	err := svc.UpdateStatus(context.Background(), "orden-1", design.StatusAccepted, "", "admin-1", true)
	require.NoError(t, err)
	assert.Equal(t, design.StatusApproved, repo.orders["orden-1"].Status)
}

func TestUpdateStatusSameStatusIsNoOp(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	_, _ = svc.CreateOrder(context.Background(), "orden-1", "user-1", createRequest())

	err := svc.UpdateStatus(context.Background(), "orden-1", design.StatusPendingReview, "", "admin-1", true)
	require.NoError(t, err)
	assert.Len(t, repo.orders["orden-1"].History, 1)
}

func TestUpdateStatusOwnerCanCancelEarly(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	_, _ = svc.CreateOrder(context.Background(), "orden-1", "user-1", createRequest())

	err := svc.UpdateStatus(context.Background(), "orden-1", design.StatusCancelled, "me arrepentí", "user-1", false)
	require.NoError(t, err)
	assert.Equal(t, design.StatusCancelled, repo.orders["orden-1"].Status)
}

func TestUpdateStatusOwnerCannotCancelInPrinting(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	_, _ = svc.CreateOrder(context.Background(), "orden-1", "user-1", createRequest())
	repo.orders["orden-1"].Status = design.StatusInPrinting

	err := svc.UpdateStatus(context.Background(), "orden-1", design.StatusCancelled, "", "user-1", false)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatusStrangerIsForbidden(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	_, _ = svc.CreateOrder(context.Background(), "orden-1", "user-1", createRequest())

	err := svc.UpdateStatus(context.Background(), "orden-1", design.StatusCancelled, "", "otro-user", false)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateStatusFinalStateIsLocked(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	_, _ = svc.CreateOrder(context.Background(), "orden-1", "user-1", createRequest())
	repo.orders["orden-1"].Status = design.StatusDelivered

	err := svc.UpdateStatus(context.Background(), "orden-1", design.StatusCancelled, "", "admin-1", true)
	assert.ErrorIs(t, err, ErrFinalState)
}

func TestUpdateStatusUnknownStatus(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	_, _ = svc.CreateOrder(context.Background(), "orden-1", "user-1", createRequest())

	err := svc.UpdateStatus(context.Background(), "orden-1", "EN_PREPARACION", "", "admin-1", true)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatusMissingOrder(t *testing.T) {
	svc := newTestService(newFakeRepo())

	err := svc.UpdateStatus(context.Background(), "no-existe", design.StatusApproved, "", "admin-1", true)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProgressUsesStoredStatus(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	_, _ = svc.CreateOrder(context.Background(), "orden-1", "user-1", createRequest())
	repo.orders["orden-1"].Status = design.StatusInDesign

	steps, err := svc.Progress(context.Background(), "orden-1")
	require.NoError(t, err)
	require.Len(t, steps, 7)
	assert.Equal(t, design.StepCurrent, steps[2].State)
}

func TestSetFinalTotal(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	_, _ = svc.CreateOrder(context.Background(), "orden-1", "user-1", createRequest())

	require.NoError(t, svc.SetFinalTotal(context.Background(), "orden-1", 135.5))
	require.NotNil(t, repo.orders["orden-1"].Pricing.FinalTotal)
	assert.Equal(t, 135.5, *repo.orders["orden-1"].Pricing.FinalTotal)

	// El staff puede pisarlo en otra revisión.
	require.NoError(t, svc.SetFinalTotal(context.Background(), "orden-1", 140))
	assert.Equal(t, 140.0, *repo.orders["orden-1"].Pricing.FinalTotal)

	assert.ErrorIs(t, svc.SetFinalTotal(context.Background(), "orden-1", 0), ErrInvalidFinalTotal)
	assert.ErrorIs(t, svc.SetFinalTotal(context.Background(), "no-existe", 10), repository.ErrNotFound)
}
