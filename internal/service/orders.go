package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mmeshcher/service-manager/internal/model"
	"github.com/mmeshcher/service-manager/internal/pricing"
	"github.com/mmeshcher/service-manager/internal/validation"
)

// OrderInput описывает данные для открытия сервисного заказа.
type OrderInput struct {
	CustomerID      int64  `json:"customer_id" validate:"required,gt=0"`
	CustomerAssetID int64  `json:"customer_asset_id" validate:"required,gt=0"`
	HandedOverBy    int64  `json:"handed_over_by" validate:"required,gt=0"`
	DepartmentID    *int64 `json:"department_id" validate:"omitempty,gt=0"`
}

// LineInput описывает строку заказа. При изменении строки MaterialID не используется.
type LineInput struct {
	MaterialID int64           `json:"material_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	Discount   decimal.Decimal `json:"discount"`
}

// CreateOrder открывает сервисный заказ. Техника, представитель и подразделение
// должны принадлежать клиенту заказа.
func (s *Service) CreateOrder(ctx context.Context, in OrderInput) (*model.OrderSummary, error) {
	if err := validation.Struct(in); err != nil {
		return nil, invalid(err)
	}

	customer, err := s.repo.GetCustomer(ctx, in.CustomerID)
	if err != nil {
		return nil, reference("customer", err)
	}
	if err := requireActive(customer.Status, "customer"); err != nil {
		return nil, err
	}

	asset, err := s.repo.GetCustomerAsset(ctx, in.CustomerAssetID)
	if err != nil {
		return nil, reference("customer asset", err)
	}
	if asset.CustomerID != customer.ID {
		return nil, ErrAssetNotOwned
	}
	if err := requireActive(asset.Status, "customer asset"); err != nil {
		return nil, err
	}

	rep, err := s.repo.GetRepresentative(ctx, in.HandedOverBy)
	if err != nil {
		return nil, reference("representative", err)
	}
	if rep.CustomerID != customer.ID {
		return nil, fmt.Errorf("representative: %w", ErrNotOwned)
	}
	if err := requireActive(rep.Status, "representative"); err != nil {
		return nil, err
	}

	if in.DepartmentID != nil {
		dep, err := s.repo.GetDepartment(ctx, *in.DepartmentID)
		if err != nil {
			return nil, reference("department", err)
		}
		if dep.CustomerID != customer.ID {
			return nil, fmt.Errorf("department: %w", ErrNotOwned)
		}
		if err := requireActive(dep.Status, "department"); err != nil {
			return nil, err
		}
	}

	order, err := s.repo.CreateOrder(ctx, model.NewServiceOrder(customer.ID, asset.ID, rep.ID, in.DepartmentID))
	if err != nil {
		return nil, err
	}

	s.logger.Info("service order created",
		zap.Int64("order_id", order.ID),
		zap.String("reference", order.Reference.String()),
		zap.Int64("customer_id", order.CustomerID),
	)

	summary := order.Summary()
	return &summary, nil
}

// GetOrder возвращает заказ со строками, стадией и итоговой суммой.
func (s *Service) GetOrder(ctx context.Context, id int64) (*model.OrderSummary, error) {
	order, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	summary := order.Summary()
	return &summary, nil
}

// ListOrders возвращает заказы с итоговыми суммами.
func (s *Service) ListOrders(ctx context.Context, f model.OrderListFilter) ([]model.OrderSummary, error) {
	f.ListFilter = f.ListFilter.Normalize()

	orders, err := s.repo.ListOrders(ctx, f)
	if err != nil {
		return nil, err
	}

	res := make([]model.OrderSummary, 0, len(orders))
	if len(orders) == 0 {
		return res, nil
	}

	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	lines, err := s.repo.ListOrderLines(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, o := range orders {
		res = append(res, model.OrderSummary{
			ServiceOrder:   o,
			State:          o.State(),
			TotalAmountDue: model.LinesTotal(lines[o.ID]),
		})
	}
	return res, nil
}

// DeleteOrder помечает заказ неактивным. Строки и заметки заказа сохраняются.
func (s *Service) DeleteOrder(ctx context.Context, id int64) error {
	if err := s.repo.DeleteOrder(ctx, id); err != nil {
		return err
	}
	s.invalidateTotal(ctx, id)
	return nil
}

// MarkServiced отмечает заказ обслуженным от имени сотрудника actorID.
func (s *Service) MarkServiced(ctx context.Context, orderID, actorID int64) (*model.OrderSummary, error) {
	if _, err := s.activeEmployee(ctx, actorID); err != nil {
		return nil, err
	}

	order, err := s.repo.UpdateOrderState(ctx, orderID, func(o *model.ServiceOrder) error {
		return o.MarkServiced(actorID, s.now())
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("service order serviced", zap.Int64("order_id", orderID), zap.Int64("employee_id", actorID))
	summary := order.Summary()
	return &summary, nil
}

// MarkCompleted завершает обслуженный заказ от имени сотрудника actorID.
func (s *Service) MarkCompleted(ctx context.Context, orderID, actorID int64) (*model.OrderSummary, error) {
	if _, err := s.activeEmployee(ctx, actorID); err != nil {
		return nil, err
	}

	order, err := s.repo.UpdateOrderState(ctx, orderID, func(o *model.ServiceOrder) error {
		return o.MarkCompleted(actorID, s.now())
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("service order completed", zap.Int64("order_id", orderID), zap.Int64("employee_id", actorID))
	summary := order.Summary()
	return &summary, nil
}

// HandOver фиксирует возврат техники представителю клиента после завершения заказа.
func (s *Service) HandOver(ctx context.Context, orderID, representativeID int64) (*model.OrderSummary, error) {
	rep, err := s.repo.GetRepresentative(ctx, representativeID)
	if err != nil {
		return nil, reference("representative", err)
	}
	if err := requireActive(rep.Status, "representative"); err != nil {
		return nil, err
	}

	order, err := s.repo.UpdateOrderState(ctx, orderID, func(o *model.ServiceOrder) error {
		if rep.CustomerID != o.CustomerID {
			return fmt.Errorf("representative: %w", ErrNotOwned)
		}
		return o.HandOver(rep.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("service order handed over",
		zap.Int64("order_id", orderID),
		zap.String("representative", rep.FullName()),
	)
	summary := order.Summary()
	return &summary, nil
}

// OrderTotal возвращает итоговую сумму заказа в формате «0.00».
// Ошибки кэша не прерывают расчёт.
func (s *Service) OrderTotal(ctx context.Context, orderID int64) (string, error) {
	total, ok, err := s.totals.Get(ctx, orderID)
	if err != nil {
		s.logger.Warn("order total cache read failed", zap.Int64("order_id", orderID), zap.Error(err))
	}
	if ok {
		return total, nil
	}

	gen, genErr := s.totals.Generation(ctx, orderID)
	if genErr != nil {
		s.logger.Warn("order total cache generation read failed", zap.Int64("order_id", orderID), zap.Error(genErr))
	}

	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return "", err
	}

	total = order.TotalAmountDue()
	if genErr == nil {
		s.storeTotal(ctx, orderID, gen, total)
	}
	return total, nil
}

// storeTotal кэширует сумму, рассчитанную по состоянию заказа на поколении generation.
func (s *Service) storeTotal(ctx context.Context, orderID, generation int64, total string) {
	if err := s.totals.Set(ctx, orderID, generation, total); err != nil {
		s.logger.Warn("order total cache write failed", zap.Int64("order_id", orderID), zap.Error(err))
	}
}

func (s *Service) invalidateTotal(ctx context.Context, orderID int64) {
	if err := s.totals.Invalidate(ctx, orderID); err != nil {
		s.logger.Warn("order total cache invalidation failed", zap.Int64("order_id", orderID), zap.Error(err))
	}
}

// editableOrder возвращает заказ, строки которого ещё можно менять.
func (s *Service) editableOrder(ctx context.Context, orderID int64) (*model.ServiceOrder, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == model.RecordStatusInactive {
		return nil, model.ErrOrderInactive
	}
	if order.IsCompleted {
		return nil, model.ErrAlreadyCompleted
	}
	return order, nil
}

// AddLine добавляет материал в заказ. Цена за единицу берётся из каталога на момент добавления.
func (s *Service) AddLine(ctx context.Context, orderID int64, in LineInput) (*model.ServiceOrderLine, error) {
	if in.MaterialID <= 0 {
		return nil, invalid(&validation.Error{Fields: []validation.FieldError{{Field: "material_id", Rule: "required"}}})
	}

	if _, err := s.editableOrder(ctx, orderID); err != nil {
		return nil, err
	}

	material, err := s.repo.GetMaterial(ctx, in.MaterialID)
	if err != nil {
		return nil, reference("material", err)
	}
	if material.Status == model.RecordStatusInactive {
		return nil, ErrMaterialInactive
	}

	line := model.ServiceOrderLine{
		OrderID:    orderID,
		MaterialID: material.ID,
		UnitPrice:  material.UnitPrice,
		Quantity:   in.Quantity,
		Discount:   in.Discount,
	}
	if err := pricing.Validate(line.PricingLine()); err != nil {
		return nil, invalid(err)
	}

	res, err := s.repo.AddLine(ctx, line)
	if err != nil {
		return nil, err
	}

	s.invalidateTotal(ctx, orderID)
	return res, nil
}

// UpdateLine изменяет количество и скидку строки заказа.
func (s *Service) UpdateLine(ctx context.Context, lineID int64, in LineInput) (*model.ServiceOrderLine, error) {
	line, err := s.repo.GetLine(ctx, lineID)
	if err != nil {
		return nil, err
	}
	if _, err := s.editableOrder(ctx, line.OrderID); err != nil {
		return nil, err
	}

	line.Quantity = in.Quantity
	line.Discount = in.Discount
	if err := pricing.Validate(line.PricingLine()); err != nil {
		return nil, invalid(err)
	}

	res, err := s.repo.UpdateLine(ctx, *line)
	if err != nil {
		return nil, err
	}

	s.invalidateTotal(ctx, line.OrderID)
	return res, nil
}

// RemoveLine удаляет строку из заказа.
func (s *Service) RemoveLine(ctx context.Context, lineID int64) error {
	line, err := s.repo.GetLine(ctx, lineID)
	if err != nil {
		return err
	}
	if _, err := s.editableOrder(ctx, line.OrderID); err != nil {
		return err
	}

	if err := s.repo.RemoveLine(ctx, lineID); err != nil {
		return err
	}

	s.invalidateTotal(ctx, line.OrderID)
	return nil
}

// AddNote добавляет заметку сотрудника к заказу.
func (s *Service) AddNote(ctx context.Context, orderID, authorID int64, text string) (*model.ServiceOrderNote, error) {
	text = strings.TrimSpace(text)
	if err := validation.Var("note", text, "required,max=2000"); err != nil {
		return nil, invalid(err)
	}

	if _, err := s.repo.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}
	if _, err := s.activeEmployee(ctx, authorID); err != nil {
		return nil, err
	}

	return s.repo.AddNote(ctx, model.ServiceOrderNote{
		OrderID:  orderID,
		AuthorID: authorID,
		Note:     text,
	})
}

// ListNotes возвращает заметки заказа, начиная с последних.
func (s *Service) ListNotes(ctx context.Context, orderID int64) ([]model.ServiceOrderNote, error) {
	if _, err := s.repo.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}
	return s.repo.ListNotes(ctx, orderID)
}
