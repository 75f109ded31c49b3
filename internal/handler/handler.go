// Package handler содержит HTTP-обработчики JSON API сервиса учёта сервисных заказов.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mmeshcher/service-manager/internal/middleware"
	"github.com/mmeshcher/service-manager/internal/model"
	"github.com/mmeshcher/service-manager/internal/repository"
	"github.com/mmeshcher/service-manager/internal/service"
	"github.com/mmeshcher/service-manager/internal/validation"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	CreateCustomerType(ctx context.Context, name string) (*model.CustomerType, error)
	ListCustomerTypes(ctx context.Context) ([]model.CustomerType, error)
	CreateCustomer(ctx context.Context, in service.CustomerInput) (*model.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, in service.CustomerInput) (*model.Customer, error)
	GetCustomer(ctx context.Context, id int64) (*model.Customer, error)
	ListCustomers(ctx context.Context, f model.ListFilter) ([]model.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error

	CreateRepresentative(ctx context.Context, customerID int64, in service.RepresentativeInput) (*model.CustomerRepresentative, error)
	UpdateRepresentative(ctx context.Context, id int64, in service.RepresentativeInput) (*model.CustomerRepresentative, error)
	GetRepresentative(ctx context.Context, id int64) (*model.CustomerRepresentative, error)
	ListRepresentatives(ctx context.Context, customerID int64, f model.ListFilter) ([]model.CustomerRepresentative, error)
	DeleteRepresentative(ctx context.Context, id int64) error

	CreateDepartment(ctx context.Context, customerID int64, name string) (*model.CustomerDepartment, error)
	ListDepartments(ctx context.Context, customerID int64, f model.ListFilter) ([]model.CustomerDepartment, error)
	DeleteDepartment(ctx context.Context, id int64) error

	CreateCustomerAsset(ctx context.Context, customerID int64, in service.CustomerAssetInput) (*model.CustomerAsset, error)
	UpdateCustomerAsset(ctx context.Context, id int64, in service.CustomerAssetInput) (*model.CustomerAsset, error)
	GetCustomerAsset(ctx context.Context, id int64) (*model.CustomerAsset, error)
	ListCustomerAssets(ctx context.Context, customerID int64, f model.ListFilter) ([]model.CustomerAsset, error)
	DeleteCustomerAsset(ctx context.Context, id int64) error

	CreateBrand(ctx context.Context, name string) (*model.Brand, error)
	ListBrands(ctx context.Context) ([]model.Brand, error)
	CreateAssetCategory(ctx context.Context, name string) (*model.AssetCategory, error)
	ListAssetCategories(ctx context.Context) ([]model.AssetCategory, error)
	CreateAsset(ctx context.Context, in service.AssetInput) (*model.Asset, error)
	GetAsset(ctx context.Context, id int64) (*model.Asset, error)
	ListAssets(ctx context.Context, f model.ListFilter) ([]model.Asset, error)
	DeleteAsset(ctx context.Context, id int64) error

	CreateMaterialCategory(ctx context.Context, name string) (*model.MaterialCategory, error)
	ListMaterialCategories(ctx context.Context) ([]model.MaterialCategory, error)
	CreateMaterial(ctx context.Context, in service.MaterialInput) (*model.Material, error)
	UpdateMaterial(ctx context.Context, id int64, in service.MaterialInput) (*model.Material, error)
	GetMaterial(ctx context.Context, id int64) (*model.Material, error)
	ListMaterials(ctx context.Context, f model.ListFilter) ([]model.Material, error)
	DeleteMaterial(ctx context.Context, id int64) error

	CreateRole(ctx context.Context, name string) (*model.Role, error)
	ListRoles(ctx context.Context) ([]model.Role, error)
	CreateEmployee(ctx context.Context, in service.EmployeeInput) (*model.Employee, error)
	GetEmployee(ctx context.Context, id int64) (*model.Employee, error)
	ListEmployees(ctx context.Context, f model.ListFilter) ([]model.Employee, error)
	DeleteEmployee(ctx context.Context, id int64) error

	CreateOrder(ctx context.Context, in service.OrderInput) (*model.OrderSummary, error)
	GetOrder(ctx context.Context, id int64) (*model.OrderSummary, error)
	ListOrders(ctx context.Context, f model.OrderListFilter) ([]model.OrderSummary, error)
	DeleteOrder(ctx context.Context, id int64) error
	MarkServiced(ctx context.Context, orderID, actorID int64) (*model.OrderSummary, error)
	MarkCompleted(ctx context.Context, orderID, actorID int64) (*model.OrderSummary, error)
	HandOver(ctx context.Context, orderID, representativeID int64) (*model.OrderSummary, error)
	OrderTotal(ctx context.Context, orderID int64) (string, error)

	AddLine(ctx context.Context, orderID int64, in service.LineInput) (*model.ServiceOrderLine, error)
	UpdateLine(ctx context.Context, lineID int64, in service.LineInput) (*model.ServiceOrderLine, error)
	RemoveLine(ctx context.Context, lineID int64) error

	AddNote(ctx context.Context, orderID, authorID int64, text string) (*model.ServiceOrderNote, error)
	ListNotes(ctx context.Context, orderID int64) ([]model.ServiceOrderNote, error)
}

// Handler реализует HTTP-обработчики API.
type Handler struct {
	service Service
	logger  *zap.Logger
	metrics *middleware.Metrics
	options RouterOptions
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, metrics *middleware.Metrics, opts RouterOptions) *Handler {
	if metrics == nil {
		metrics = middleware.NewMetrics()
	}
	return &Handler{
		service: s,
		logger:  logger,
		metrics: metrics,
		options: opts,
	}
}

type errorResponse struct {
	Error  string                  `json:"error"`
	Fields []validation.FieldError `json:"fields,omitempty"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response error", zap.Error(err))
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return false
	}
	return true
}

func (h *Handler) idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return 0, false
	}
	return id, true
}

// listFilter разбирает параметры include_inactive, limit и offset.
func (h *Handler) listFilter(w http.ResponseWriter, r *http.Request) (model.ListFilter, bool) {
	q := r.URL.Query()
	var f model.ListFilter

	if v := q.Get("include_inactive"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid include_inactive"})
			return f, false
		}
		f.IncludeInactive = b
	}

	for _, p := range []struct {
		name string
		dst  *int
	}{{"limit", &f.Limit}, {"offset", &f.Offset}} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid " + p.name})
			return f, false
		}
		*p.dst = n
	}

	return f.Normalize(), true
}

// handleError переводит ошибку сервиса в HTTP-ответ.
func (h *Handler) handleError(w http.ResponseWriter, op string, err error) {
	var verr *validation.Error

	switch {
	case errors.As(err, &verr):
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error(), Fields: verr.Fields})
	case errors.Is(err, service.ErrValidation):
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, repository.ErrReferenceNotFound),
		errors.Is(err, service.ErrNotOwned):
		h.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	case errors.Is(err, repository.ErrDuplicate),
		errors.Is(err, model.ErrInvalidTransition),
		errors.Is(err, model.ErrAlreadyServiced),
		errors.Is(err, model.ErrAlreadyCompleted),
		errors.Is(err, model.ErrOrderInactive),
		errors.Is(err, service.ErrInactive):
		h.writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		h.logger.Error(op+" error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
