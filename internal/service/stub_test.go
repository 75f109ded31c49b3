package service

import (
	"context"
	"errors"
	"time"

	"github.com/mmeshcher/service-manager/internal/model"
	"github.com/mmeshcher/service-manager/internal/repository"
)

// stubRepo хранит записи в памяти и повторяет поведение PostgresRepository
// в части, важной для сервиса.
type stubRepo struct {
	nextID int64

	customers       map[int64]model.Customer
	representatives map[int64]model.CustomerRepresentative
	departments     map[int64]model.CustomerDepartment
	customerAssets  map[int64]model.CustomerAsset
	assets          map[int64]model.Asset
	materials       map[int64]model.Material
	employees       map[int64]model.Employee
	orders          map[int64]model.ServiceOrder
	lines           map[int64]model.ServiceOrderLine
	notes           []model.ServiceOrderNote

	getOrderCalls  int
	listLinesCalls int
	updateErr      error
	closed         bool

	// afterGetOrder вызывается после того, как GetOrder прочитал заказ, но до возврата результата.
	afterGetOrder func()
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		customers:       map[int64]model.Customer{},
		representatives: map[int64]model.CustomerRepresentative{},
		departments:     map[int64]model.CustomerDepartment{},
		customerAssets:  map[int64]model.CustomerAsset{},
		assets:          map[int64]model.Asset{},
		materials:       map[int64]model.Material{},
		employees:       map[int64]model.Employee{},
		orders:          map[int64]model.ServiceOrder{},
		lines:           map[int64]model.ServiceOrderLine{},
	}
}

func (s *stubRepo) id() int64 {
	s.nextID++
	return s.nextID
}

func get[T any](m map[int64]T, id int64) (*T, error) {
	v, ok := m[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &v, nil
}

func (s *stubRepo) Close() error {
	s.closed = true
	return nil
}

func (s *stubRepo) CreateCustomerType(_ context.Context, name string) (*model.CustomerType, error) {
	return &model.CustomerType{ID: s.id(), Name: name}, nil
}

func (s *stubRepo) ListCustomerTypes(context.Context) ([]model.CustomerType, error) { return nil, nil }

func (s *stubRepo) CreateCustomer(_ context.Context, c model.Customer) (*model.Customer, error) {
	c.ID = s.id()
	s.customers[c.ID] = c
	return &c, nil
}

func (s *stubRepo) UpdateCustomer(_ context.Context, c model.Customer) (*model.Customer, error) {
	if _, ok := s.customers[c.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	s.customers[c.ID] = c
	return &c, nil
}

func (s *stubRepo) GetCustomer(_ context.Context, id int64) (*model.Customer, error) {
	return get(s.customers, id)
}

func (s *stubRepo) ListCustomers(_ context.Context, f model.ListFilter) ([]model.Customer, error) {
	var res []model.Customer
	for _, c := range s.customers {
		if f.IncludeInactive || c.Status == model.RecordStatusActive {
			res = append(res, c)
		}
	}
	return res, nil
}

func (s *stubRepo) DeleteCustomer(_ context.Context, id int64) error {
	c, ok := s.customers[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.Status = model.RecordStatusInactive
	s.customers[id] = c
	return nil
}

func (s *stubRepo) CreateRepresentative(_ context.Context, p model.CustomerRepresentative) (*model.CustomerRepresentative, error) {
	p.ID = s.id()
	s.representatives[p.ID] = p
	return &p, nil
}

func (s *stubRepo) UpdateRepresentative(_ context.Context, p model.CustomerRepresentative) (*model.CustomerRepresentative, error) {
	s.representatives[p.ID] = p
	return &p, nil
}

func (s *stubRepo) GetRepresentative(_ context.Context, id int64) (*model.CustomerRepresentative, error) {
	return get(s.representatives, id)
}

func (s *stubRepo) ListRepresentatives(context.Context, int64, model.ListFilter) ([]model.CustomerRepresentative, error) {
	return nil, nil
}

func (s *stubRepo) DeleteRepresentative(context.Context, int64) error { return nil }

func (s *stubRepo) CreateDepartment(_ context.Context, d model.CustomerDepartment) (*model.CustomerDepartment, error) {
	d.ID = s.id()
	s.departments[d.ID] = d
	return &d, nil
}

func (s *stubRepo) GetDepartment(_ context.Context, id int64) (*model.CustomerDepartment, error) {
	return get(s.departments, id)
}

func (s *stubRepo) ListDepartments(context.Context, int64, model.ListFilter) ([]model.CustomerDepartment, error) {
	return nil, nil
}

func (s *stubRepo) DeleteDepartment(context.Context, int64) error { return nil }

func (s *stubRepo) CreateCustomerAsset(_ context.Context, a model.CustomerAsset) (*model.CustomerAsset, error) {
	a.ID = s.id()
	s.customerAssets[a.ID] = a
	return &a, nil
}

func (s *stubRepo) UpdateCustomerAsset(_ context.Context, a model.CustomerAsset) (*model.CustomerAsset, error) {
	s.customerAssets[a.ID] = a
	return &a, nil
}

func (s *stubRepo) GetCustomerAsset(_ context.Context, id int64) (*model.CustomerAsset, error) {
	return get(s.customerAssets, id)
}

func (s *stubRepo) ListCustomerAssets(context.Context, int64, model.ListFilter) ([]model.CustomerAsset, error) {
	return nil, nil
}

func (s *stubRepo) DeleteCustomerAsset(context.Context, int64) error { return nil }

func (s *stubRepo) CreateBrand(_ context.Context, name string) (*model.Brand, error) {
	return &model.Brand{ID: s.id(), Name: name}, nil
}

func (s *stubRepo) ListBrands(context.Context) ([]model.Brand, error) { return nil, nil }

func (s *stubRepo) CreateAssetCategory(_ context.Context, name string) (*model.AssetCategory, error) {
	return &model.AssetCategory{ID: s.id(), Name: name}, nil
}

func (s *stubRepo) ListAssetCategories(context.Context) ([]model.AssetCategory, error) {
	return nil, nil
}

func (s *stubRepo) CreateAsset(_ context.Context, a model.Asset) (*model.Asset, error) {
	a.ID = s.id()
	s.assets[a.ID] = a
	return &a, nil
}

func (s *stubRepo) GetAsset(_ context.Context, id int64) (*model.Asset, error) {
	return get(s.assets, id)
}

func (s *stubRepo) ListAssets(context.Context, model.ListFilter) ([]model.Asset, error) {
	return nil, nil
}

func (s *stubRepo) DeleteAsset(context.Context, int64) error { return nil }

func (s *stubRepo) CreateMaterialCategory(_ context.Context, name string) (*model.MaterialCategory, error) {
	return &model.MaterialCategory{ID: s.id(), Name: name}, nil
}

func (s *stubRepo) ListMaterialCategories(context.Context) ([]model.MaterialCategory, error) {
	return nil, nil
}

func (s *stubRepo) CreateMaterial(_ context.Context, m model.Material) (*model.Material, error) {
	m.ID = s.id()
	s.materials[m.ID] = m
	return &m, nil
}

func (s *stubRepo) UpdateMaterial(_ context.Context, m model.Material) (*model.Material, error) {
	s.materials[m.ID] = m
	return &m, nil
}

func (s *stubRepo) GetMaterial(_ context.Context, id int64) (*model.Material, error) {
	return get(s.materials, id)
}

func (s *stubRepo) ListMaterials(context.Context, model.ListFilter) ([]model.Material, error) {
	return nil, nil
}

func (s *stubRepo) DeleteMaterial(_ context.Context, id int64) error {
	m, ok := s.materials[id]
	if !ok {
		return repository.ErrNotFound
	}
	m.Status = model.RecordStatusInactive
	s.materials[id] = m
	return nil
}

func (s *stubRepo) CreateRole(_ context.Context, name string) (*model.Role, error) {
	return &model.Role{ID: s.id(), Name: name}, nil
}

func (s *stubRepo) ListRoles(context.Context) ([]model.Role, error) { return nil, nil }

func (s *stubRepo) CreateEmployee(_ context.Context, e model.Employee) (*model.Employee, error) {
	e.ID = s.id()
	s.employees[e.ID] = e
	return &e, nil
}

func (s *stubRepo) GetEmployee(_ context.Context, id int64) (*model.Employee, error) {
	return get(s.employees, id)
}

func (s *stubRepo) ListEmployees(context.Context, model.ListFilter) ([]model.Employee, error) {
	return nil, nil
}

func (s *stubRepo) DeleteEmployee(context.Context, int64) error { return nil }

func (s *stubRepo) CreateOrder(_ context.Context, o model.ServiceOrder) (*model.ServiceOrder, error) {
	o.ID = s.id()
	o.CreatedAt = time.Now()
	s.orders[o.ID] = o
	return &o, nil
}

func (s *stubRepo) GetOrder(_ context.Context, id int64) (*model.ServiceOrder, error) {
	s.getOrderCalls++
	o, err := get(s.orders, id)
	if err != nil {
		return nil, err
	}
	o.Lines = s.orderLines(id)
	if hook := s.afterGetOrder; hook != nil {
		s.afterGetOrder = nil
		hook()
	}
	return o, nil
}

func (s *stubRepo) orderLines(orderID int64) []model.ServiceOrderLine {
	var res []model.ServiceOrderLine
	for id := int64(1); id <= s.nextID; id++ {
		if l, ok := s.lines[id]; ok && l.OrderID == orderID {
			res = append(res, l)
		}
	}
	return res
}

func (s *stubRepo) ListOrders(_ context.Context, f model.OrderListFilter) ([]model.ServiceOrder, error) {
	var res []model.ServiceOrder
	for id := int64(1); id <= s.nextID; id++ {
		o, ok := s.orders[id]
		if !ok {
			continue
		}
		if !f.IncludeInactive && o.Status == model.RecordStatusInactive {
			continue
		}
		if f.State != nil && o.State() != *f.State {
			continue
		}
		if f.CustomerID != nil && o.CustomerID != *f.CustomerID {
			continue
		}
		res = append(res, o)
	}
	return res, nil
}

func (s *stubRepo) DeleteOrder(_ context.Context, id int64) error {
	o, ok := s.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	o.Status = model.RecordStatusInactive
	s.orders[id] = o
	return nil
}

func (s *stubRepo) UpdateOrderState(_ context.Context, id int64, apply func(o *model.ServiceOrder) error) (*model.ServiceOrder, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	o, ok := s.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if err := apply(&o); err != nil {
		return nil, err
	}
	s.orders[id] = o
	o.Lines = s.orderLines(id)
	return &o, nil
}

func (s *stubRepo) AddLine(_ context.Context, l model.ServiceOrderLine) (*model.ServiceOrderLine, error) {
	m, ok := s.materials[l.MaterialID]
	if !ok {
		return nil, repository.ErrReferenceNotFound
	}
	l.ID = s.id()
	l.MaterialName = m.Name
	s.lines[l.ID] = l
	return &l, nil
}

func (s *stubRepo) GetLine(_ context.Context, id int64) (*model.ServiceOrderLine, error) {
	return get(s.lines, id)
}

func (s *stubRepo) UpdateLine(_ context.Context, l model.ServiceOrderLine) (*model.ServiceOrderLine, error) {
	if _, ok := s.lines[l.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	s.lines[l.ID] = l
	return &l, nil
}

func (s *stubRepo) RemoveLine(_ context.Context, id int64) error {
	if _, ok := s.lines[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.lines, id)
	return nil
}

func (s *stubRepo) ListOrderLines(_ context.Context, orderIDs []int64) (map[int64][]model.ServiceOrderLine, error) {
	s.listLinesCalls++
	res := make(map[int64][]model.ServiceOrderLine, len(orderIDs))
	for _, id := range orderIDs {
		if lines := s.orderLines(id); len(lines) > 0 {
			res[id] = lines
		}
	}
	return res, nil
}

func (s *stubRepo) AddNote(_ context.Context, n model.ServiceOrderNote) (*model.ServiceOrderNote, error) {
	n.ID = s.id()
	s.notes = append(s.notes, n)
	return &n, nil
}

func (s *stubRepo) ListNotes(_ context.Context, orderID int64) ([]model.ServiceOrderNote, error) {
	var res []model.ServiceOrderNote
	for i := len(s.notes) - 1; i >= 0; i-- {
		if s.notes[i].OrderID == orderID {
			res = append(res, s.notes[i])
		}
	}
	return res, nil
}

// stubTotals запоминает итоговые суммы и их поколения и может возвращать ошибку на каждую операцию.
type stubTotals struct {
	values      map[int64]string
	generations map[int64]int64
	err         error
	invalidated []int64
}

func newStubTotals() *stubTotals {
	return &stubTotals{values: map[int64]string{}, generations: map[int64]int64{}}
}

func (c *stubTotals) Generation(_ context.Context, id int64) (int64, error) {
	if c.err != nil {
		return 0, c.err
	}
	return c.generations[id], nil
}

func (c *stubTotals) Get(_ context.Context, id int64) (string, bool, error) {
	if c.err != nil {
		return "", false, c.err
	}
	v, ok := c.values[id]
	return v, ok, nil
}

func (c *stubTotals) Set(_ context.Context, id, generation int64, total string) error {
	if c.err != nil {
		return c.err
	}
	if c.generations[id] == generation {
		c.values[id] = total
	}
	return nil
}

func (c *stubTotals) Invalidate(_ context.Context, id int64) error {
	c.invalidated = append(c.invalidated, id)
	c.generations[id]++
	delete(c.values, id)
	return c.err
}

func (c *stubTotals) Close() error { return nil }

var errStub = errors.New("stub failure")
