package service_test

import (
	"context"
	"testing"

	"shalom/internal/domain"
	"shalom/internal/dto"
	"shalom/internal/model"
	"shalom/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	svc         service.OrderService
	orderRepo   *stubOrderRepo
	productRepo *stubProductRepo
	movRepo     *stubMovementRepo
	customer    *model.Customer
	vehicle     *model.Vehicle
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	customerRepo := newStubCustomerRepo()
	vehicleRepo := newStubVehicleRepo()
	productRepo := newStubProductRepo()
	orderRepo := newStubOrderRepo()
	movRepo := &stubMovementRepo{}

	customer := &model.Customer{FirstName: "Juan", LastName: "Pérez", Phone: "1155667788", IsActive: true}
	require.NoError(t, customerRepo.Create(context.Background(), customer))

	vehicle := &model.Vehicle{
		Plate: "ABC123", Brand: "Toyota", Model: "Corolla",
		CustomerID: customer.ID, IsActive: true,
	}
	require.NoError(t, vehicleRepo.Create(context.Background(), vehicle))

	productRepo.movements = movRepo
	orderRepo.products = productRepo
	orderRepo.movements = movRepo

	stockSvc := service.NewStockService(productRepo, movRepo, nil)
	svc := service.NewOrderService(orderRepo, vehicleRepo, productRepo, stockSvc)

	return &orderFixture{
		svc:         svc,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		movRepo:     movRepo,
		customer:    customer,
		vehicle:     vehicle,
	}
}

func (f *orderFixture) seedProduct(code string, stock int, salePrice int64) *model.Product {
	return f.productRepo.seed(&model.Product{
		Code: code, Name: "Producto " + code, Category: "LUBRICANTES",
		Unit: model.UnitUnidad, StockQuantity: stock,
		PurchasePrice: decimal.NewFromInt(salePrice / 2),
		SalePrice:     decimal.NewFromInt(salePrice),
		IsActive:      true,
	})
}

func strPtr(s string) *string { return &s }

func TestCrearOrdenNumeracionYDefaults(t *testing.T) {
	f := newOrderFixture(t)
	p := f.seedProduct("AC-10W40", 25, 8000)

	order, err := f.svc.Create(context.Background(), dto.CreateOrderRequest{
		VehicleID:    f.vehicle.ID.String(),
		Observations: "Service de 10.000 km",
		Items: []dto.OrderItemRequest{
			{ItemType: model.ItemProduct, ProductID: strPtr(p.ID.String()), Quantity: 4},
			{ItemType: model.ItemService, Description: "Mano de obra", Quantity: 1, UnitPrice: decimal.NewFromInt(15000)},
		},
	}, uuid.New())

	require.NoError(t, err)
	assert.Equal(t, "OS-00001", order.OrderNumber)
	assert.Equal(t, model.OrderPending, order.Status)
	// Customer defaults to the vehicle's owner.
	assert.Equal(t, f.customer.ID, order.CustomerID)

	// Product item borrows name and sale price from the catalog.
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Producto AC-10W40", order.Items[0].Description)
	assert.True(t, order.Items[0].UnitPrice.Equal(decimal.NewFromInt(8000)))
	assert.True(t, order.Items[0].Subtotal.Equal(decimal.NewFromInt(32000)))
	assert.True(t, order.Total.Equal(decimal.NewFromInt(47000)))

	// Creating the order must not move stock.
	assert.Equal(t, 25, p.StockQuantity)

	second, err := f.svc.Create(context.Background(), dto.CreateOrderRequest{
		VehicleID: f.vehicle.ID.String(),
	}, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "OS-00002", second.OrderNumber)
}

func TestCrearOrdenClienteAjeno(t *testing.T) {
	f := newOrderFixture(t)
	otherCustomer := uuid.NewString()

	_, err := f.svc.Create(context.Background(), dto.CreateOrderRequest{
		VehicleID:  f.vehicle.ID.String(),
		CustomerID: &otherCustomer,
	}, uuid.New())

	assert.True(t, domain.IsValidation(err))
}

func TestCompletarOrdenDescuentaStock(t *testing.T) {
	f := newOrderFixture(t)
	oil := f.seedProduct("AC-10W40", 25, 8000)
	filter := f.seedProduct("FIL-01", 30, 3500)

	order, err := f.svc.Create(context.Background(), dto.CreateOrderRequest{
		VehicleID: f.vehicle.ID.String(),
		Items: []dto.OrderItemRequest{
			{ItemType: model.ItemProduct, ProductID: strPtr(oil.ID.String()), Quantity: 4},
			{ItemType: model.ItemProduct, ProductID: strPtr(filter.ID.String()), Quantity: 1},
			{ItemType: model.ItemService, Description: "Cambio de aceite", Quantity: 1, UnitPrice: decimal.NewFromInt(10000)},
		},
	}, uuid.New())
	require.NoError(t, err)

	completed, err := f.svc.Complete(context.Background(), order.ID, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, model.OrderCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)
	assert.Equal(t, 21, oil.StockQuantity)
	assert.Equal(t, 29, filter.StockQuantity)

	// One VENTA movement per product item, referencing the order number.
	require.Len(t, f.movRepo.movements, 2)
	for _, m := range f.movRepo.movements {
		assert.Equal(t, model.MovementVenta, m.MovementType)
		require.NotNil(t, m.Reference)
		assert.Equal(t, order.OrderNumber, *m.Reference)
	}
}

// A shortfall on any item aborts the whole completion, including debits
// already applied to earlier items in the same transaction.
func TestCompletarSinStockAbortaTodo(t *testing.T) {
	f := newOrderFixture(t)
	oil := f.seedProduct("AC-10W40", 25, 8000)
	battery := f.seedProduct("BAT-12V", 0, 52000)

	order, err := f.svc.Create(context.Background(), dto.CreateOrderRequest{
		VehicleID: f.vehicle.ID.String(),
		Items: []dto.OrderItemRequest{
			{ItemType: model.ItemProduct, ProductID: strPtr(oil.ID.String()), Quantity: 4},
			{ItemType: model.ItemProduct, ProductID: strPtr(battery.ID.String()), Quantity: 1},
		},
	}, uuid.New())
	require.NoError(t, err)

	_, err = f.svc.Complete(context.Background(), order.ID, uuid.New())

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, battery.Name, insufficient.Product)

	// The order stays PENDING, the oil debit was rolled back and no
	// movement survived.
	reloaded, err := f.svc.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderPending, reloaded.Status)
	assert.Equal(t, 25, oil.StockQuantity)
	assert.Equal(t, 0, battery.StockQuantity)
	assert.Empty(t, f.movRepo.movements)
}

func TestCompletarDosVecesRechazado(t *testing.T) {
	f := newOrderFixture(t)

	order, err := f.svc.Create(context.Background(), dto.CreateOrderRequest{
		VehicleID: f.vehicle.ID.String(),
		Items: []dto.OrderItemRequest{
			{ItemType: model.ItemService, Description: "Alineación", Quantity: 1, UnitPrice: decimal.NewFromInt(20000)},
		},
	}, uuid.New())
	require.NoError(t, err)

	_, err = f.svc.Complete(context.Background(), order.ID, uuid.New())
	require.NoError(t, err)

	_, err = f.svc.Complete(context.Background(), order.ID, uuid.New())
	var invalidState *domain.InvalidStateError
	assert.ErrorAs(t, err, &invalidState)
}

// A cancellation landing between the status check and the status update
// makes the guarded update match zero rows: the completion aborts and its
// stock debits roll back.
func TestCompletarPierdeCarreraContraCancelacion(t *testing.T) {
	f := newOrderFixture(t)
	oil := f.seedProduct("AC-10W40", 10, 8000)

	order, err := f.svc.Create(context.Background(), dto.CreateOrderRequest{
		VehicleID: f.vehicle.ID.String(),
		Items: []dto.OrderItemRequest{
			{ItemType: model.ItemProduct, ProductID: strPtr(oil.ID.String()), Quantity: 2},
		},
	}, uuid.New())
	require.NoError(t, err)

	f.orderRepo.beforeStatusUpdate = func() {
		f.orderRepo.beforeStatusUpdate = nil
		f.orderRepo.orders[order.ID].Status = model.OrderCancelled
	}

	_, err = f.svc.Complete(context.Background(), order.ID, uuid.New())

	var invalidState *domain.InvalidStateError
	require.ErrorAs(t, err, &invalidState)
	assert.Equal(t, 10, oil.StockQuantity)
	assert.Empty(t, f.movRepo.movements)
}

func TestModificarOrdenNoPendiente(t *testing.T) {
	f := newOrderFixture(t)

	order, err := f.svc.Create(context.Background(), dto.CreateOrderRequest{
		VehicleID: f.vehicle.ID.String(),
	}, uuid.New())
	require.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), order.ID)
	require.NoError(t, err)

	obs := "tarde"
	_, err = f.svc.Update(context.Background(), order.ID, dto.UpdateOrderRequest{Observations: &obs})
	var invalidState *domain.InvalidStateError
	assert.ErrorAs(t, err, &invalidState)

	_, err = f.svc.AddItem(context.Background(), order.ID, dto.OrderItemRequest{
		ItemType: model.ItemService, Description: "x", Quantity: 1, UnitPrice: decimal.NewFromInt(1),
	})
	assert.ErrorAs(t, err, &invalidState)
}

func TestCancelarOrdenNoMueveStock(t *testing.T) {
	f := newOrderFixture(t)
	oil := f.seedProduct("AC-10W40", 25, 8000)

	order, err := f.svc.Create(context.Background(), dto.CreateOrderRequest{
		VehicleID: f.vehicle.ID.String(),
		Items: []dto.OrderItemRequest{
			{ItemType: model.ItemProduct, ProductID: strPtr(oil.ID.String()), Quantity: 4},
		},
	}, uuid.New())
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderCancelled, cancelled.Status)
	assert.Equal(t, 25, oil.StockQuantity)
	assert.Empty(t, f.movRepo.movements)
}

func TestAgregarYQuitarItemRecalculaTotal(t *testing.T) {
	f := newOrderFixture(t)

	order, err := f.svc.Create(context.Background(), dto.CreateOrderRequest{
		VehicleID: f.vehicle.ID.String(),
		Items: []dto.OrderItemRequest{
			{ItemType: model.ItemService, Description: "Mano de obra", Quantity: 2, UnitPrice: decimal.NewFromInt(5000)},
		},
	}, uuid.New())
	require.NoError(t, err)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(10000)))

	updated, err := f.svc.AddItem(context.Background(), order.ID, dto.OrderItemRequest{
		ItemType: model.ItemService, Description: "Repuesto menor", Quantity: 1, UnitPrice: decimal.NewFromInt(3000),
	})
	require.NoError(t, err)
	assert.True(t, updated.Total.Equal(decimal.NewFromInt(13000)))

	itemID := updated.Items[len(updated.Items)-1].ID
	final, err := f.svc.RemoveItem(context.Background(), order.ID, itemID)
	require.NoError(t, err)
	assert.True(t, final.Total.Equal(decimal.NewFromInt(10000)))
}

func TestReemplazoDeItems(t *testing.T) {
	f := newOrderFixture(t)

	order, err := f.svc.Create(context.Background(), dto.CreateOrderRequest{
		VehicleID: f.vehicle.ID.String(),
		Items: []dto.OrderItemRequest{
			{ItemType: model.ItemService, Description: "Diagnóstico", Quantity: 1, UnitPrice: decimal.NewFromInt(5000)},
		},
	}, uuid.New())
	require.NoError(t, err)

	updated, err := f.svc.Update(context.Background(), order.ID, dto.UpdateOrderRequest{
		Items: []dto.OrderItemRequest{
			{ItemType: model.ItemService, Description: "Cambio de pastillas", Quantity: 1, UnitPrice: decimal.NewFromInt(30000)},
			{ItemType: model.ItemService, Description: "Mano de obra", Quantity: 2, UnitPrice: decimal.NewFromInt(8000)},
		},
	})
	require.NoError(t, err)
	assert.Len(t, updated.Items, 2)
	assert.True(t, updated.Total.Equal(decimal.NewFromInt(46000)))
}

func TestEstadisticasDeOrdenes(t *testing.T) {
	f := newOrderFixture(t)

	o1, err := f.svc.Create(context.Background(), dto.CreateOrderRequest{
		VehicleID: f.vehicle.ID.String(),
		Items: []dto.OrderItemRequest{
			{ItemType: model.ItemService, Description: "Service", Quantity: 1, UnitPrice: decimal.NewFromInt(20000)},
		},
	}, uuid.New())
	require.NoError(t, err)
	_, err = f.svc.Complete(context.Background(), o1.ID, uuid.New())
	require.NoError(t, err)

	o2, err := f.svc.Create(context.Background(), dto.CreateOrderRequest{VehicleID: f.vehicle.ID.String()}, uuid.New())
	require.NoError(t, err)
	_, err = f.svc.Cancel(context.Background(), o2.ID)
	require.NoError(t, err)

	stats, err := f.svc.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalOrders)
	assert.Equal(t, int64(1), stats.Completed)
	assert.Equal(t, int64(1), stats.Cancelled)
	assert.True(t, stats.TotalRevenue.Equal(decimal.NewFromInt(20000)))
}
