// Package service реализует бизнес-логику учёта сервисных заказов.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/service-manager/internal/cache"
	"github.com/mmeshcher/service-manager/internal/model"
	"github.com/mmeshcher/service-manager/internal/repository"
	"github.com/mmeshcher/service-manager/internal/validation"
)

var (
	// ErrValidation возвращается, если входные данные не прошли проверку.
	ErrValidation = validation.ErrInvalid
	// ErrNotOwned возвращается, если связанная запись принадлежит другому клиенту.
	ErrNotOwned = errors.New("record does not belong to the customer")
	// ErrInactive возвращается при ссылке на удалённую запись.
	ErrInactive = errors.New("referenced record is inactive")

	// ErrAssetNotOwned возвращается, если техника в заказе принадлежит другому клиенту.
	ErrAssetNotOwned = fmt.Errorf("customer asset: %w", ErrNotOwned)
	// ErrMaterialInactive возвращается при добавлении в заказ удалённого материала.
	ErrMaterialInactive = fmt.Errorf("material: %w", ErrInactive)
)

// Repository описывает контракт доступа к данным, используемый сервисом.
type Repository interface {
	Close() error

	CreateCustomerType(ctx context.Context, name string) (*model.CustomerType, error)
	ListCustomerTypes(ctx context.Context) ([]model.CustomerType, error)
	CreateCustomer(ctx context.Context, c model.Customer) (*model.Customer, error)
	UpdateCustomer(ctx context.Context, c model.Customer) (*model.Customer, error)
	GetCustomer(ctx context.Context, id int64) (*model.Customer, error)
	ListCustomers(ctx context.Context, f model.ListFilter) ([]model.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error

	CreateRepresentative(ctx context.Context, p model.CustomerRepresentative) (*model.CustomerRepresentative, error)
	UpdateRepresentative(ctx context.Context, p model.CustomerRepresentative) (*model.CustomerRepresentative, error)
	GetRepresentative(ctx context.Context, id int64) (*model.CustomerRepresentative, error)
	ListRepresentatives(ctx context.Context, customerID int64, f model.ListFilter) ([]model.CustomerRepresentative, error)
	DeleteRepresentative(ctx context.Context, id int64) error

	CreateDepartment(ctx context.Context, d model.CustomerDepartment) (*model.CustomerDepartment, error)
	GetDepartment(ctx context.Context, id int64) (*model.CustomerDepartment, error)
	ListDepartments(ctx context.Context, customerID int64, f model.ListFilter) ([]model.CustomerDepartment, error)
	DeleteDepartment(ctx context.Context, id int64) error

	CreateCustomerAsset(ctx context.Context, a model.CustomerAsset) (*model.CustomerAsset, error)
	UpdateCustomerAsset(ctx context.Context, a model.CustomerAsset) (*model.CustomerAsset, error)
	GetCustomerAsset(ctx context.Context, id int64) (*model.CustomerAsset, error)
	ListCustomerAssets(ctx context.Context, customerID int64, f model.ListFilter) ([]model.CustomerAsset, error)
	DeleteCustomerAsset(ctx context.Context, id int64) error

	CreateBrand(ctx context.Context, name string) (*model.Brand, error)
	ListBrands(ctx context.Context) ([]model.Brand, error)
	CreateAssetCategory(ctx context.Context, name string) (*model.AssetCategory, error)
	ListAssetCategories(ctx context.Context) ([]model.AssetCategory, error)
	CreateAsset(ctx context.Context, a model.Asset) (*model.Asset, error)
	GetAsset(ctx context.Context, id int64) (*model.Asset, error)
	ListAssets(ctx context.Context, f model.ListFilter) ([]model.Asset, error)
	DeleteAsset(ctx context.Context, id int64) error

	CreateMaterialCategory(ctx context.Context, name string) (*model.MaterialCategory, error)
	ListMaterialCategories(ctx context.Context) ([]model.MaterialCategory, error)
	CreateMaterial(ctx context.Context, m model.Material) (*model.Material, error)
	UpdateMaterial(ctx context.Context, m model.Material) (*model.Material, error)
	GetMaterial(ctx context.Context, id int64) (*model.Material, error)
	ListMaterials(ctx context.Context, f model.ListFilter) ([]model.Material, error)
	DeleteMaterial(ctx context.Context, id int64) error

	CreateRole(ctx context.Context, name string) (*model.Role, error)
	ListRoles(ctx context.Context) ([]model.Role, error)
	CreateEmployee(ctx context.Context, e model.Employee) (*model.Employee, error)
	GetEmployee(ctx context.Context, id int64) (*model.Employee, error)
	ListEmployees(ctx context.Context, f model.ListFilter) ([]model.Employee, error)
	DeleteEmployee(ctx context.Context, id int64) error

	CreateOrder(ctx context.Context, o model.ServiceOrder) (*model.ServiceOrder, error)
	GetOrder(ctx context.Context, id int64) (*model.ServiceOrder, error)
	ListOrders(ctx context.Context, f model.OrderListFilter) ([]model.ServiceOrder, error)
	DeleteOrder(ctx context.Context, id int64) error
	UpdateOrderState(ctx context.Context, id int64, apply func(o *model.ServiceOrder) error) (*model.ServiceOrder, error)

	AddLine(ctx context.Context, l model.ServiceOrderLine) (*model.ServiceOrderLine, error)
	GetLine(ctx context.Context, id int64) (*model.ServiceOrderLine, error)
	UpdateLine(ctx context.Context, l model.ServiceOrderLine) (*model.ServiceOrderLine, error)
	RemoveLine(ctx context.Context, id int64) error
	ListOrderLines(ctx context.Context, orderIDs []int64) (map[int64][]model.ServiceOrderLine, error)

	AddNote(ctx context.Context, n model.ServiceOrderNote) (*model.ServiceOrderNote, error)
	ListNotes(ctx context.Context, orderID int64) ([]model.ServiceOrderNote, error)
}

// Service содержит бизнес-логику учёта сервисных заказов.
type Service struct {
	repo   Repository
	totals cache.OrderTotals
	logger *zap.Logger
	now    func() time.Time
}

// NewService создаёт сервис с указанным репозиторием и кэшем итоговых сумм.
// Если кэш не передан, используется cache.Noop.
func NewService(repo Repository, totals cache.OrderTotals, logger *zap.Logger) *Service {
	if totals == nil {
		totals = cache.Noop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:   repo,
		totals: totals,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	var errs []error
	if s.totals != nil {
		errs = append(errs, s.totals.Close())
	}
	if s.repo != nil {
		errs = append(errs, s.repo.Close())
	}
	return errors.Join(errs...)
}

// invalid помечает ошибку как ошибку валидации. Ошибки validation уже несут этот признак.
func invalid(err error) error {
	if errors.Is(err, ErrValidation) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

// checkName проверяет наименование справочной записи и возвращает его без пробелов по краям.
func checkName(name string, maxLen int) (string, error) {
	name = strings.TrimSpace(name)
	if err := validation.Var("name", name, fmt.Sprintf("required,max=%d", maxLen)); err != nil {
		return "", err
	}
	return name, nil
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func requireActive(status model.RecordStatus, what string) error {
	if status == model.RecordStatusInactive {
		return fmt.Errorf("%w: %s", ErrInactive, what)
	}
	return nil
}

// reference превращает отсутствие связанной записи в ошибку неизвестной ссылки.
func reference(what string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s", repository.ErrReferenceNotFound, what)
	}
	return fmt.Errorf("get %s: %w", what, err)
}
