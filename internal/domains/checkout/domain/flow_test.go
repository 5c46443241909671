package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeForm() FormState {
	return FormState{
		FirstName:      "Ana",
		LastName:       "Gomez",
		Email:          "ana@example.com",
		Phone:          "3001234567",
		Address:        "Calle 1 # 2-3",
		City:           "Bogota",
		State:          "Cundinamarca",
		ZipCode:        "110111",
		ShippingMethod: "interrapidisimo_bogota",
		PaymentMethod:  "transfer",
	}
}

func TestCanAdvance_InfoStepRequiresEveryField(t *testing.T) {
	assert.True(t, CanAdvance(StepInfo, completeForm()))

	blank := func(mutate func(*FormState)) FormState {
		form := completeForm()
		mutate(&form)
		return form
	}
	tests := []struct {
		name string
		form FormState
	}{
		{"first name", blank(func(f *FormState) { f.FirstName = "" })},
		{"last name", blank(func(f *FormState) { f.LastName = "  " })},
		{"email", blank(func(f *FormState) { f.Email = "" })},
		{"phone", blank(func(f *FormState) { f.Phone = "" })},
		{"address", blank(func(f *FormState) { f.Address = "" })},
		{"city", blank(func(f *FormState) { f.City = "" })},
		{"state", blank(func(f *FormState) { f.State = "" })},
		{"zip code", blank(func(f *FormState) { f.ZipCode = "" })},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, CanAdvance(StepInfo, tt.form))
		})
	}
}

func TestCanAdvance_ShippingAndPaymentSteps(t *testing.T) {
	form := completeForm()
	assert.True(t, CanAdvance(StepShipping, form))
	assert.True(t, CanAdvance(StepPayment, form))

	form.ShippingMethod = "carrier_unknown"
	assert.False(t, CanAdvance(StepShipping, form))
	form.ShippingMethod = ""
	assert.False(t, CanAdvance(StepShipping, form))

	form.PaymentMethod = "cash"
	assert.False(t, CanAdvance(StepPayment, form))

	assert.False(t, CanAdvance(Step(0), form))
}

func TestShippingMethodCatalog(t *testing.T) {
	methods := ShippingMethods()
	require.Len(t, methods, 2)

	bogota, err := ShippingMethodByID("interrapidisimo_bogota")
	require.NoError(t, err)
	assert.Equal(t, int64(10000), bogota.Price)

	other, err := ShippingMethodByID("interrapidisimo_other_cities")
	require.NoError(t, err)
	assert.Equal(t, int64(14500), other.Price)

	_, err = ShippingMethodByID("dhl")
	assert.ErrorIs(t, err, ErrUnknownShippingMethod)
}

func TestPaymentMethodCatalog(t *testing.T) {
	methods := PaymentMethods()
	require.Len(t, methods, 1)
	assert.Equal(t, "transfer", methods[0].ID)

	_, err := PaymentMethodByID("cash")
	assert.ErrorIs(t, err, ErrUnknownPaymentMethod)
}

func TestComputeTotals(t *testing.T) {
	totals, err := ComputeTotals(25000, "interrapidisimo_bogota")
	require.NoError(t, err)
	assert.Equal(t, int64(25000), totals.Subtotal)
	assert.Equal(t, int64(10000), totals.ShippingCost)
	assert.Equal(t, int64(35000), totals.Total)

	_, err = ComputeTotals(25000, "dhl")
	assert.ErrorIs(t, err, ErrUnknownShippingMethod)
}

func TestFullName(t *testing.T) {
	form := FormState{FirstName: " Ana ", LastName: " Gomez "}
	assert.Equal(t, "Ana Gomez", form.FullName())
	assert.Equal(t, "Ana", FormState{FirstName: "Ana"}.FullName())
}
