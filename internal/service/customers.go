package service

import (
	"context"
	"strings"

	"github.com/mmeshcher/service-manager/internal/model"
	"github.com/mmeshcher/service-manager/internal/validation"
)

// CustomerInput описывает данные для создания или изменения клиента.
type CustomerInput struct {
	Name   string  `json:"name" validate:"required,max=100"`
	VAT    *string `json:"vat" validate:"omitempty,max=20"`
	Email  string  `json:"email_address" validate:"required,email,max=254"`
	Phone  string  `json:"phone_number" validate:"required,phone,max=20"`
	TypeID int64   `json:"type_id" validate:"required,gt=0"`
}

func (in CustomerInput) normalized() CustomerInput {
	in.Name = strings.TrimSpace(in.Name)
	in.VAT = trimPtr(in.VAT)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	return in
}

// RepresentativeInput описывает данные представителя клиента.
type RepresentativeInput struct {
	FirstName string  `json:"first_name" validate:"required,max=20"`
	LastName  string  `json:"last_name" validate:"required,max=20"`
	Email     *string `json:"email_address" validate:"omitempty,email,max=254"`
	Phone     string  `json:"phone_number" validate:"required,phone,max=20"`
}

func (in RepresentativeInput) normalized() RepresentativeInput {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = trimPtr(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	return in
}

// CustomerAssetInput описывает технику клиента.
type CustomerAssetInput struct {
	SerialNumber  *string `json:"serial_number" validate:"omitempty,max=20"`
	ProductNumber *string `json:"product_number" validate:"omitempty,max=20"`
	AssetID       int64   `json:"asset_id" validate:"required,gt=0"`
}

func (in CustomerAssetInput) normalized() CustomerAssetInput {
	in.SerialNumber = trimPtr(in.SerialNumber)
	in.ProductNumber = trimPtr(in.ProductNumber)
	return in
}

// CreateCustomerType создаёт тип клиента.
func (s *Service) CreateCustomerType(ctx context.Context, name string) (*model.CustomerType, error) {
	name, err := checkName(name, 100)
	if err != nil {
		return nil, invalid(err)
	}
	return s.repo.CreateCustomerType(ctx, name)
}

// ListCustomerTypes возвращает все типы клиентов.
func (s *Service) ListCustomerTypes(ctx context.Context) ([]model.CustomerType, error) {
	return s.repo.ListCustomerTypes(ctx)
}

// CreateCustomer создаёт клиента.
func (s *Service) CreateCustomer(ctx context.Context, in CustomerInput) (*model.Customer, error) {
	in = in.normalized()
	if err := validation.Struct(in); err != nil {
		return nil, invalid(err)
	}

	return s.repo.CreateCustomer(ctx, model.Customer{
		Name:   in.Name,
		VAT:    in.VAT,
		Email:  in.Email,
		Phone:  in.Phone,
		TypeID: in.TypeID,
		Status: model.RecordStatusActive,
	})
}

// UpdateCustomer изменяет данные клиента. Удалённого клиента изменить нельзя.
func (s *Service) UpdateCustomer(ctx context.Context, id int64, in CustomerInput) (*model.Customer, error) {
	in = in.normalized()
	if err := validation.Struct(in); err != nil {
		return nil, invalid(err)
	}

	current, err := s.repo.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireActive(current.Status, "customer"); err != nil {
		return nil, err
	}

	current.Name = in.Name
	current.VAT = in.VAT
	current.Email = in.Email
	current.Phone = in.Phone
	current.TypeID = in.TypeID
	return s.repo.UpdateCustomer(ctx, *current)
}

// GetCustomer возвращает клиента по идентификатору.
func (s *Service) GetCustomer(ctx context.Context, id int64) (*model.Customer, error) {
	return s.repo.GetCustomer(ctx, id)
}

// ListCustomers возвращает клиентов. Удалённые записи попадают в выборку только по явному запросу.
func (s *Service) ListCustomers(ctx context.Context, f model.ListFilter) ([]model.Customer, error) {
	return s.repo.ListCustomers(ctx, f.Normalize())
}

// DeleteCustomer помечает клиента неактивным.
func (s *Service) DeleteCustomer(ctx context.Context, id int64) error {
	return s.repo.DeleteCustomer(ctx, id)
}

// activeCustomer возвращает клиента, если он существует и не удалён.
func (s *Service) activeCustomer(ctx context.Context, id int64) (*model.Customer, error) {
	c, err := s.repo.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireActive(c.Status, "customer"); err != nil {
		return nil, err
	}
	return c, nil
}

// CreateRepresentative добавляет представителя активному клиенту.
func (s *Service) CreateRepresentative(ctx context.Context, customerID int64, in RepresentativeInput) (*model.CustomerRepresentative, error) {
	in = in.normalized()
	if err := validation.Struct(in); err != nil {
		return nil, invalid(err)
	}
	if _, err := s.activeCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	return s.repo.CreateRepresentative(ctx, model.CustomerRepresentative{
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Email:      in.Email,
		Phone:      in.Phone,
		CustomerID: customerID,
		Status:     model.RecordStatusActive,
	})
}

// UpdateRepresentative изменяет контактные данные представителя.
func (s *Service) UpdateRepresentative(ctx context.Context, id int64, in RepresentativeInput) (*model.CustomerRepresentative, error) {
	in = in.normalized()
	if err := validation.Struct(in); err != nil {
		return nil, invalid(err)
	}

	current, err := s.repo.GetRepresentative(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireActive(current.Status, "representative"); err != nil {
		return nil, err
	}

	current.FirstName = in.FirstName
	current.LastName = in.LastName
	current.Email = in.Email
	current.Phone = in.Phone
	return s.repo.UpdateRepresentative(ctx, *current)
}

// ListRepresentatives возвращает представителей клиента.
func (s *Service) ListRepresentatives(ctx context.Context, customerID int64, f model.ListFilter) ([]model.CustomerRepresentative, error) {
	if _, err := s.repo.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	return s.repo.ListRepresentatives(ctx, customerID, f.Normalize())
}

// DeleteRepresentative помечает представителя неактивным.
func (s *Service) DeleteRepresentative(ctx context.Context, id int64) error {
	return s.repo.DeleteRepresentative(ctx, id)
}

// CreateDepartment добавляет подразделение активному клиенту.
func (s *Service) CreateDepartment(ctx context.Context, customerID int64, name string) (*model.CustomerDepartment, error) {
	name, err := checkName(name, 100)
	if err != nil {
		return nil, invalid(err)
	}
	if _, err := s.activeCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	return s.repo.CreateDepartment(ctx, model.CustomerDepartment{
		Name:       name,
		CustomerID: customerID,
		Status:     model.RecordStatusActive,
	})
}

// ListDepartments возвращает подразделения клиента.
func (s *Service) ListDepartments(ctx context.Context, customerID int64, f model.ListFilter) ([]model.CustomerDepartment, error) {
	if _, err := s.repo.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	return s.repo.ListDepartments(ctx, customerID, f.Normalize())
}

// DeleteDepartment помечает подразделение неактивным.
func (s *Service) DeleteDepartment(ctx context.Context, id int64) error {
	return s.repo.DeleteDepartment(ctx, id)
}

// CreateCustomerAsset регистрирует технику клиента. Модель техники должна быть активной.
func (s *Service) CreateCustomerAsset(ctx context.Context, customerID int64, in CustomerAssetInput) (*model.CustomerAsset, error) {
	in = in.normalized()
	if err := validation.Struct(in); err != nil {
		return nil, invalid(err)
	}
	if _, err := s.activeCustomer(ctx, customerID); err != nil {
		return nil, err
	}

	asset, err := s.repo.GetAsset(ctx, in.AssetID)
	if err != nil {
		return nil, reference("asset", err)
	}
	if err := requireActive(asset.Status, "asset"); err != nil {
		return nil, err
	}

	return s.repo.CreateCustomerAsset(ctx, model.CustomerAsset{
		SerialNumber:  in.SerialNumber,
		ProductNumber: in.ProductNumber,
		CustomerID:    customerID,
		AssetID:       in.AssetID,
		Status:        model.RecordStatusActive,
	})
}

// UpdateCustomerAsset изменяет серийный и продуктовый номера техники клиента.
// Модель техники и владелец после регистрации не меняются.
func (s *Service) UpdateCustomerAsset(ctx context.Context, id int64, in CustomerAssetInput) (*model.CustomerAsset, error) {
	in = in.normalized()

	current, err := s.repo.GetCustomerAsset(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.AssetID == 0 {
		in.AssetID = current.AssetID
	}
	if err := validation.Struct(in); err != nil {
		return nil, invalid(err)
	}
	if in.AssetID != current.AssetID {
		return nil, invalid(&validation.Error{Fields: []validation.FieldError{{Field: "asset_id", Rule: "immutable"}}})
	}
	if err := requireActive(current.Status, "customer asset"); err != nil {
		return nil, err
	}

	current.SerialNumber = in.SerialNumber
	current.ProductNumber = in.ProductNumber
	return s.repo.UpdateCustomerAsset(ctx, *current)
}

// ListCustomerAssets возвращает технику клиента.
func (s *Service) ListCustomerAssets(ctx context.Context, customerID int64, f model.ListFilter) ([]model.CustomerAsset, error) {
	if _, err := s.repo.GetCustomer(ctx, customerID); err != nil {
		return nil, err
	}
	return s.repo.ListCustomerAssets(ctx, customerID, f.Normalize())
}

// DeleteCustomerAsset помечает технику клиента неактивной.
func (s *Service) DeleteCustomerAsset(ctx context.Context, id int64) error {
	return s.repo.DeleteCustomerAsset(ctx, id)
}

// GetRepresentative возвращает представителя клиента по идентификатору.
func (s *Service) GetRepresentative(ctx context.Context, id int64) (*model.CustomerRepresentative, error) {
	return s.repo.GetRepresentative(ctx, id)
}

// GetCustomerAsset возвращает технику клиента по идентификатору.
func (s *Service) GetCustomerAsset(ctx context.Context, id int64) (*model.CustomerAsset, error) {
	return s.repo.GetCustomerAsset(ctx, id)
}
