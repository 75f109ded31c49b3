package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/service-manager/internal/model"
	"github.com/mmeshcher/service-manager/internal/pricing"
	"github.com/mmeshcher/service-manager/internal/repository"
)

type fixture struct {
	svc    *Service
	repo   *stubRepo
	totals *stubTotals

	customerID int64
	assetID    int64
	repID      int64
	employeeID int64
	materialID int64
	clock      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := newStubRepo()
	totals := newStubTotals()
	svc := NewService(repo, totals, nil)

	f := &fixture{svc: svc, repo: repo, totals: totals}
	f.clock = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return f.clock }

	ctx := context.Background()

	customer, err := repo.CreateCustomer(ctx, model.Customer{Name: "Acme", Status: model.RecordStatusActive})
	require.NoError(t, err)
	f.customerID = customer.ID

	asset, err := repo.CreateCustomerAsset(ctx, model.CustomerAsset{CustomerID: customer.ID, AssetID: 1, Status: model.RecordStatusActive})
	require.NoError(t, err)
	f.assetID = asset.ID

	rep, err := repo.CreateRepresentative(ctx, model.CustomerRepresentative{FirstName: "Ivan", LastName: "Petrov", CustomerID: customer.ID, Status: model.RecordStatusActive})
	require.NoError(t, err)
	f.repID = rep.ID

	emp, err := repo.CreateEmployee(ctx, model.Employee{FirstName: "Olga", LastName: "Sidorova", Status: model.RecordStatusActive})
	require.NoError(t, err)
	f.employeeID = emp.ID

	mat, err := repo.CreateMaterial(ctx, model.Material{Name: "Toner", UnitPrice: decimal.RequireFromString("100.00"), Status: model.RecordStatusActive})
	require.NoError(t, err)
	f.materialID = mat.ID

	return f
}

func (f *fixture) openOrder(t *testing.T) int64 {
	t.Helper()
	o, err := f.svc.CreateOrder(context.Background(), OrderInput{
		CustomerID:      f.customerID,
		CustomerAssetID: f.assetID,
		HandedOverBy:    f.repID,
	})
	require.NoError(t, err)
	return o.ID
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewService_Defaults(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo, nil, nil)

	require.NotNil(t, svc.totals)
	require.NotNil(t, svc.logger)
	require.NoError(t, svc.Close())
	assert.True(t, repo.closed)
}

func TestCreateCustomer_Validation(t *testing.T) {
	svc := NewService(newStubRepo(), nil, nil)

	tests := []struct {
		name  string
		input CustomerInput
	}{
		{name: "empty name", input: CustomerInput{Email: "a@b.com", Phone: "0888123456", TypeID: 1}},
		{name: "bad email", input: CustomerInput{Name: "Acme", Email: "nope", Phone: "0888123456", TypeID: 1}},
		{name: "bad phone", input: CustomerInput{Name: "Acme", Email: "a@b.com", Phone: "call me", TypeID: 1}},
		{name: "missing type", input: CustomerInput{Name: "Acme", Email: "a@b.com", Phone: "0888123456"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateCustomer(context.Background(), tt.input)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCreateCustomer_TrimsInput(t *testing.T) {
	svc := NewService(newStubRepo(), nil, nil)
	vat := "  "

	c, err := svc.CreateCustomer(context.Background(), CustomerInput{
		Name:   "  Acme  ",
		VAT:    &vat,
		Email:  "office@acme.com",
		Phone:  "+359 2 981 2345",
		TypeID: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme", c.Name)
	assert.Nil(t, c.VAT)
	assert.Equal(t, model.RecordStatusActive, c.Status)
}

func TestUpdateCustomer_Inactive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.svc.DeleteCustomer(ctx, f.customerID))

	_, err := f.svc.UpdateCustomer(ctx, f.customerID, CustomerInput{
		Name: "Acme", Email: "a@b.com", Phone: "0888123456", TypeID: 1,
	})
	assert.ErrorIs(t, err, ErrInactive)
}

func TestListCustomers_ExcludesInactiveByDefault(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other, err := f.repo.CreateCustomer(ctx, model.Customer{Name: "Gone", Status: model.RecordStatusActive})
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteCustomer(ctx, other.ID))

	active, err := f.svc.ListCustomers(ctx, model.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, active, 1)

	all, err := f.svc.ListCustomers(ctx, model.ListFilter{IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCreateMaterialCategory_NameLength(t *testing.T) {
	svc := NewService(newStubRepo(), nil, nil)

	_, err := svc.CreateMaterialCategory(context.Background(), "a name that is far too long")
	assert.ErrorIs(t, err, ErrValidation)

	c, err := svc.CreateMaterialCategory(context.Background(), " Parts ")
	require.NoError(t, err)
	assert.Equal(t, "Parts", c.Name)
}

func TestCreateMaterial_NegativePrice(t *testing.T) {
	svc := NewService(newStubRepo(), nil, nil)

	_, err := svc.CreateMaterial(context.Background(), MaterialInput{Name: "Toner", UnitPrice: dec("-1"), CategoryID: 1})
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, pricing.ErrNegativePrice)
}

func TestCreateMaterial_PriceOutOfStorageRange(t *testing.T) {
	svc := NewService(newStubRepo(), nil, nil)

	for _, price := range []string{"10.005", "10000000000"} {
		_, err := svc.CreateMaterial(context.Background(), MaterialInput{Name: "Toner", UnitPrice: dec(price), CategoryID: 1})
		assert.ErrorIs(t, err, ErrValidation, price)
		assert.ErrorIs(t, err, pricing.ErrPriceOutOfRange, price)
	}

	m, err := svc.CreateMaterial(context.Background(), MaterialInput{Name: "Toner", UnitPrice: dec("9999999999.99"), CategoryID: 1})
	require.NoError(t, err)
	assert.Equal(t, "9999999999.99", m.UnitPrice.String())
}

func TestValidationErrorMessage(t *testing.T) {
	svc := NewService(newStubRepo(), nil, nil)

	_, err := svc.CreateBrand(context.Background(), "  ")
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "validation failed: name: required", err.Error())

	_, err = svc.CreateMaterial(context.Background(), MaterialInput{Name: "Toner", UnitPrice: dec("-1"), CategoryID: 1})
	assert.Equal(t, "validation failed: unit price must not be negative", err.Error())
}

func TestCreateCustomerAsset_InactiveAsset(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	asset, err := f.repo.CreateAsset(ctx, model.Asset{ModelNumber: "M1", Status: model.RecordStatusInactive})
	require.NoError(t, err)

	_, err = f.svc.CreateCustomerAsset(ctx, f.customerID, CustomerAssetInput{AssetID: asset.ID})
	assert.ErrorIs(t, err, ErrInactive)

	_, err = f.svc.CreateCustomerAsset(ctx, f.customerID, CustomerAssetInput{AssetID: 999})
	assert.ErrorIs(t, err, repository.ErrReferenceNotFound)
}

func TestCreateOrder(t *testing.T) {
	f := newFixture(t)

	o, err := f.svc.CreateOrder(context.Background(), OrderInput{
		CustomerID:      f.customerID,
		CustomerAssetID: f.assetID,
		HandedOverBy:    f.repID,
	})
	require.NoError(t, err)

	assert.Equal(t, model.OrderStateOpen, o.State)
	assert.Equal(t, "0.00", o.TotalAmountDue)
	assert.False(t, o.IsServiced)
	assert.False(t, o.IsCompleted)
	assert.Nil(t, o.ServicedOn)
	assert.Nil(t, o.CompletedOn)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", o.Reference.String())
}

func TestCreateOrder_Ownership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	stranger, err := f.repo.CreateCustomer(ctx, model.Customer{Name: "Other", Status: model.RecordStatusActive})
	require.NoError(t, err)
	foreignAsset, err := f.repo.CreateCustomerAsset(ctx, model.CustomerAsset{CustomerID: stranger.ID, Status: model.RecordStatusActive})
	require.NoError(t, err)
	foreignRep, err := f.repo.CreateRepresentative(ctx, model.CustomerRepresentative{CustomerID: stranger.ID, Status: model.RecordStatusActive})
	require.NoError(t, err)

	tests := []struct {
		name    string
		input   OrderInput
		wantErr error
	}{
		{
			name:    "asset of another customer",
			input:   OrderInput{CustomerID: f.customerID, CustomerAssetID: foreignAsset.ID, HandedOverBy: f.repID},
			wantErr: ErrAssetNotOwned,
		},
		{
			name:    "representative of another customer",
			input:   OrderInput{CustomerID: f.customerID, CustomerAssetID: f.assetID, HandedOverBy: foreignRep.ID},
			wantErr: ErrNotOwned,
		},
		{
			name:    "unknown customer",
			input:   OrderInput{CustomerID: 999, CustomerAssetID: f.assetID, HandedOverBy: f.repID},
			wantErr: repository.ErrReferenceNotFound,
		},
		{
			name:    "missing fields",
			input:   OrderInput{CustomerID: f.customerID},
			wantErr: ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateOrder(ctx, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestOrderLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.openOrder(t)

	serviced, err := f.svc.MarkServiced(ctx, id, f.employeeID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStateServiced, serviced.State)
	require.NotNil(t, serviced.ServicedBy)
	assert.Equal(t, f.employeeID, *serviced.ServicedBy)
	require.NotNil(t, serviced.ServicedOn)
	assert.True(t, serviced.ServicedOn.Equal(f.clock))

	_, err = f.svc.MarkServiced(ctx, id, f.employeeID)
	assert.ErrorIs(t, err, model.ErrAlreadyServiced)

	f.clock = f.clock.Add(2 * time.Hour)
	completed, err := f.svc.MarkCompleted(ctx, id, f.employeeID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStateCompleted, completed.State)
	assert.False(t, completed.CompletedOn.Before(*completed.ServicedOn))

	handed, err := f.svc.HandOver(ctx, id, f.repID)
	require.NoError(t, err)
	require.NotNil(t, handed.HandedOverTo)
	assert.Equal(t, f.repID, *handed.HandedOverTo)
}

func TestMarkCompleted_BeforeServiced(t *testing.T) {
	f := newFixture(t)
	id := f.openOrder(t)

	_, err := f.svc.MarkCompleted(context.Background(), id, f.employeeID)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestMarkServiced_ActorChecks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.openOrder(t)

	_, err := f.svc.MarkServiced(ctx, id, 999)
	assert.ErrorIs(t, err, repository.ErrReferenceNotFound)

	gone, err := f.repo.CreateEmployee(ctx, model.Employee{Status: model.RecordStatusInactive})
	require.NoError(t, err)
	_, err = f.svc.MarkServiced(ctx, id, gone.ID)
	assert.ErrorIs(t, err, ErrInactive)
}

func TestMarkServiced_DeletedOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.openOrder(t)
	require.NoError(t, f.svc.DeleteOrder(ctx, id))

	_, err := f.svc.MarkServiced(ctx, id, f.employeeID)
	assert.ErrorIs(t, err, model.ErrOrderInactive)
}

func TestHandOver_ForeignRepresentative(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.openOrder(t)

	stranger, err := f.repo.CreateCustomer(ctx, model.Customer{Status: model.RecordStatusActive})
	require.NoError(t, err)
	rep, err := f.repo.CreateRepresentative(ctx, model.CustomerRepresentative{CustomerID: stranger.ID, Status: model.RecordStatusActive})
	require.NoError(t, err)

	_, err = f.svc.HandOver(ctx, id, rep.ID)
	assert.ErrorIs(t, err, ErrNotOwned)
}

func TestLinesAndTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.openOrder(t)

	line, err := f.svc.AddLine(ctx, id, LineInput{MaterialID: f.materialID, Quantity: dec("3"), Discount: dec("10")})
	require.NoError(t, err)
	assert.True(t, line.UnitPrice.Equal(dec("100")))
	assert.Equal(t, "Toner", line.MaterialName)
	assert.Equal(t, "270.00", pricing.FormatAmount(line.Total()))

	cheap, err := f.repo.CreateMaterial(ctx, model.Material{Name: "Cleaning", UnitPrice: dec("55.00"), Status: model.RecordStatusActive})
	require.NoError(t, err)
	_, err = f.svc.AddLine(ctx, id, LineInput{MaterialID: cheap.ID, Quantity: dec("1"), Discount: dec("10")})
	require.NoError(t, err)

	total, err := f.svc.OrderTotal(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "319.50", total)
	assert.Equal(t, "319.50", f.totals.values[id])

	calls := f.repo.getOrderCalls
	again, err := f.svc.OrderTotal(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, total, again)
	assert.Equal(t, calls, f.repo.getOrderCalls, "second read must come from the cache")

	_, err = f.svc.UpdateLine(ctx, line.ID, LineInput{Quantity: dec("1"), Discount: dec("0")})
	require.NoError(t, err)
	assert.Contains(t, f.totals.invalidated, id)

	total, err = f.svc.OrderTotal(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "149.50", total)

	require.NoError(t, f.svc.RemoveLine(ctx, line.ID))
	summary, err := f.svc.GetOrder(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "49.50", summary.TotalAmountDue)
	assert.Len(t, summary.Lines, 1)
}

func TestAddLine_KeepsSnapshotPrice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.openOrder(t)

	line, err := f.svc.AddLine(ctx, id, LineInput{MaterialID: f.materialID, Quantity: dec("1")})
	require.NoError(t, err)

	_, err = f.svc.UpdateMaterial(ctx, f.materialID, MaterialInput{Name: "Toner", UnitPrice: dec("150"), CategoryID: 1})
	require.NoError(t, err)

	summary, err := f.svc.GetOrder(ctx, id)
	require.NoError(t, err)
	require.Len(t, summary.Lines, 1)
	assert.Equal(t, line.ID, summary.Lines[0].ID)
	assert.Equal(t, "100.00", summary.TotalAmountDue)
}

func TestAddLine_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.openOrder(t)

	inactive, err := f.repo.CreateMaterial(ctx, model.Material{Name: "Old", UnitPrice: dec("1"), Status: model.RecordStatusInactive})
	require.NoError(t, err)

	tests := []struct {
		name    string
		input   LineInput
		wantErr error
	}{
		{name: "no material", input: LineInput{Quantity: dec("1")}, wantErr: ErrValidation},
		{name: "unknown material", input: LineInput{MaterialID: 999, Quantity: dec("1")}, wantErr: repository.ErrReferenceNotFound},
		{name: "inactive material", input: LineInput{MaterialID: inactive.ID, Quantity: dec("1")}, wantErr: ErrMaterialInactive},
		{name: "zero quantity", input: LineInput{MaterialID: f.materialID, Quantity: dec("0")}, wantErr: pricing.ErrNonPositiveQuantity},
		{name: "negative quantity", input: LineInput{MaterialID: f.materialID, Quantity: dec("-2")}, wantErr: ErrValidation},
		{name: "discount over 100", input: LineInput{MaterialID: f.materialID, Quantity: dec("1"), Discount: dec("120")}, wantErr: pricing.ErrDiscountOutOfRange},
		{name: "quantity finer than stored", input: LineInput{MaterialID: f.materialID, Quantity: dec("0.0004")}, wantErr: pricing.ErrQuantityOutOfRange},
		{name: "quantity too large", input: LineInput{MaterialID: f.materialID, Quantity: dec("12345678901.5")}, wantErr: pricing.ErrQuantityOutOfRange},
		{name: "discount finer than stored", input: LineInput{MaterialID: f.materialID, Quantity: dec("1"), Discount: dec("12.345")}, wantErr: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.AddLine(ctx, id, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAddLine_CompletedOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.openOrder(t)

	_, err := f.svc.MarkServiced(ctx, id, f.employeeID)
	require.NoError(t, err)
	_, err = f.svc.MarkCompleted(ctx, id, f.employeeID)
	require.NoError(t, err)

	_, err = f.svc.AddLine(ctx, id, LineInput{MaterialID: f.materialID, Quantity: dec("1")})
	assert.ErrorIs(t, err, model.ErrAlreadyCompleted)
}

func TestOrderTotal_CacheFailureFallsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.openOrder(t)

	_, err := f.svc.AddLine(ctx, id, LineInput{MaterialID: f.materialID, Quantity: dec("2"), Discount: dec("50")})
	require.NoError(t, err)

	f.totals.err = errStub
	total, err := f.svc.OrderTotal(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "100.00", total)
}

func TestOrderTotal_LineChangedDuringReadIsNotCached(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.openOrder(t)

	f.repo.afterGetOrder = func() {
		_, err := f.svc.AddLine(ctx, id, LineInput{MaterialID: f.materialID, Quantity: dec("3"), Discount: dec("10")})
		require.NoError(t, err)
	}

	stale, err := f.svc.OrderTotal(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "0.00", stale)
	assert.NotContains(t, f.totals.values, id)

	total, err := f.svc.OrderTotal(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "270.00", total)
	assert.Equal(t, "270.00", f.totals.values[id])
}

func TestGetOrder_DoesNotFillCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.openOrder(t)

	_, err := f.svc.GetOrder(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, f.totals.values)
}

func TestOrderTotal_UnknownOrder(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.OrderTotal(context.Background(), 999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.openOrder(t)
	second := f.openOrder(t)
	deleted := f.openOrder(t)

	_, err := f.svc.AddLine(ctx, first, LineInput{MaterialID: f.materialID, Quantity: dec("1")})
	require.NoError(t, err)
	_, err = f.svc.MarkServiced(ctx, second, f.employeeID)
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteOrder(ctx, deleted))

	calls := f.repo.getOrderCalls
	orders, err := f.svc.ListOrders(ctx, model.OrderListFilter{})
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "100.00", orders[0].TotalAmountDue)
	assert.Equal(t, "0.00", orders[1].TotalAmountDue)
	assert.Equal(t, model.OrderStateServiced, orders[1].State)
	assert.Equal(t, calls, f.repo.getOrderCalls, "totals must come from one bulk line query")
	assert.Equal(t, 1, f.repo.listLinesCalls)

	state := model.OrderStateServiced
	serviced, err := f.svc.ListOrders(ctx, model.OrderListFilter{State: &state})
	require.NoError(t, err)
	require.Len(t, serviced, 1)
	assert.Equal(t, second, serviced[0].ID)

	all, err := f.svc.ListOrders(ctx, model.OrderListFilter{ListFilter: model.ListFilter{IncludeInactive: true}})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	customer := int64(999)
	none, err := f.svc.ListOrders(ctx, model.OrderListFilter{CustomerID: &customer})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestNotes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.openOrder(t)

	_, err := f.svc.AddNote(ctx, id, f.employeeID, "   ")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.AddNote(ctx, id, f.employeeID, "received with scratches")
	require.NoError(t, err)
	_, err = f.svc.AddNote(ctx, id, f.employeeID, "drum replaced")
	require.NoError(t, err)

	notes, err := f.svc.ListNotes(ctx, id)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "drum replaced", notes[0].Note)
	assert.Equal(t, f.employeeID, notes[0].AuthorID)

	_, err = f.svc.ListNotes(ctx, 999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
