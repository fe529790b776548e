package service_test

import (
	"context"
	"testing"

	"shalom/internal/domain"
	"shalom/internal/dto"
	"shalom/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildCRMSvc() (service.CRMService, *stubCustomerRepo, *stubVehicleRepo) {
	customerRepo := newStubCustomerRepo()
	vehicleRepo := newStubVehicleRepo()
	return service.NewCRMService(customerRepo, vehicleRepo), customerRepo, vehicleRepo
}

func createCustomer(t *testing.T, svc service.CRMService) uuid.UUID {
	t.Helper()
	c, err := svc.CreateCustomer(context.Background(), dto.CreateCustomerRequest{
		FirstName: "María", LastName: "González", Phone: "11 5566-7788",
	}, uuid.New())
	require.NoError(t, err)
	return c.ID
}

func TestNormalizarPatente(t *testing.T) {
	assert.Equal(t, "AB123CD", service.NormalizePlate(" ab 123 cd "))
	assert.Equal(t, "ABC123", service.NormalizePlate("abc123"))
}

func TestNormalizarTelefono(t *testing.T) {
	assert.Equal(t, "1155667788", service.NormalizePhone(" 11 5566-7788 "))
}

func TestCrearClienteTelefonoInvalido(t *testing.T) {
	svc, _, _ := buildCRMSvc()

	for _, phone := range []string{"", "abc", "12345", "+12 34"} {
		_, err := svc.CreateCustomer(context.Background(), dto.CreateCustomerRequest{
			FirstName: "Juan", LastName: "Pérez", Phone: phone,
		}, uuid.New())
		assert.True(t, domain.IsValidation(err), "teléfono %q debería ser rechazado", phone)
	}
}

func TestCrearClienteNormalizaTelefono(t *testing.T) {
	svc, _, _ := buildCRMSvc()

	c, err := svc.CreateCustomer(context.Background(), dto.CreateCustomerRequest{
		FirstName: "  Juan ", LastName: "Pérez", Phone: "11 5566-7788",
	}, uuid.New())

	require.NoError(t, err)
	assert.Equal(t, "Juan", c.FirstName)
	assert.Equal(t, "1155667788", c.Phone)
	assert.True(t, c.IsActive)
}

func TestCrearVehiculoNormalizaYValidaPatente(t *testing.T) {
	svc, _, _ := buildCRMSvc()
	ownerID := createCustomer(t, svc)

	v, err := svc.CreateVehicle(context.Background(), dto.CreateVehicleRequest{
		Plate: "ab 123 cd", Brand: "Ford", Model: "Focus",
		CustomerID: ownerID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, "AB123CD", v.Plate)

	// Old format also passes.
	_, err = svc.CreateVehicle(context.Background(), dto.CreateVehicleRequest{
		Plate: "xyz789", Brand: "Fiat", Model: "Cronos",
		CustomerID: ownerID.String(),
	})
	assert.NoError(t, err)
}

func TestCrearVehiculoPatenteInvalida(t *testing.T) {
	svc, _, _ := buildCRMSvc()
	ownerID := createCustomer(t, svc)

	for _, plate := range []string{"123ABC", "A123CD", "ABCD123", "AB12CD"} {
		_, err := svc.CreateVehicle(context.Background(), dto.CreateVehicleRequest{
			Plate: plate, Brand: "Ford", Model: "Focus",
			CustomerID: ownerID.String(),
		})
		assert.True(t, domain.IsValidation(err), "patente %q debería ser rechazada", plate)
	}
}

func TestCrearVehiculoPatenteDuplicada(t *testing.T) {
	svc, _, _ := buildCRMSvc()
	ownerID := createCustomer(t, svc)

	_, err := svc.CreateVehicle(context.Background(), dto.CreateVehicleRequest{
		Plate: "ABC123", Brand: "Ford", Model: "Focus", CustomerID: ownerID.String(),
	})
	require.NoError(t, err)

	// Same plate, different casing/spacing: still a duplicate.
	_, err = svc.CreateVehicle(context.Background(), dto.CreateVehicleRequest{
		Plate: "abc 123", Brand: "Fiat", Model: "Cronos", CustomerID: ownerID.String(),
	})
	assert.True(t, domain.IsValidation(err))
}

func TestCrearVehiculoDuenoInexistente(t *testing.T) {
	svc, _, _ := buildCRMSvc()

	_, err := svc.CreateVehicle(context.Background(), dto.CreateVehicleRequest{
		Plate: "ABC123", Brand: "Ford", Model: "Focus",
		CustomerID: uuid.NewString(),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBuscarVehiculoPorPatenteNormaliza(t *testing.T) {
	svc, _, _ := buildCRMSvc()
	ownerID := createCustomer(t, svc)

	created, err := svc.CreateVehicle(context.Background(), dto.CreateVehicleRequest{
		Plate: "AB123CD", Brand: "Ford", Model: "Focus", CustomerID: ownerID.String(),
	})
	require.NoError(t, err)

	found, err := svc.GetVehicleByPlate(context.Background(), "ab 123 cd")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestActualizarKilometraje(t *testing.T) {
	svc, _, _ := buildCRMSvc()
	ownerID := createCustomer(t, svc)

	v, err := svc.CreateVehicle(context.Background(), dto.CreateVehicleRequest{
		Plate: "ABC123", Brand: "Ford", Model: "Focus",
		Mileage: 50000, CustomerID: ownerID.String(),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateMileage(context.Background(), v.ID, dto.UpdateMileageRequest{Mileage: 60000})
	require.NoError(t, err)
	assert.Equal(t, 60000, updated.CurrentMileage)

	// A lower reading is rejected here; corrections go through the general
	// update endpoint.
	_, err = svc.UpdateMileage(context.Background(), v.ID, dto.UpdateMileageRequest{Mileage: 55000})
	assert.True(t, domain.IsValidation(err))

	lower := 55000
	corrected, err := svc.UpdateVehicle(context.Background(), v.ID, dto.UpdateVehicleRequest{Mileage: &lower})
	require.NoError(t, err)
	assert.Equal(t, 55000, corrected.CurrentMileage)
}

func TestActualizarClienteParcial(t *testing.T) {
	svc, _, _ := buildCRMSvc()
	id := createCustomer(t, svc)

	email := "maria@example.com"
	updated, err := svc.UpdateCustomer(context.Background(), id, dto.UpdateCustomerRequest{
		Phone: "11 0000 1111",
		Email: &email,
	})
	require.NoError(t, err)
	assert.Equal(t, "María", updated.FirstName)
	assert.Equal(t, "1100001111", updated.Phone)
	require.NotNil(t, updated.Email)
	assert.Equal(t, email, *updated.Email)
}
