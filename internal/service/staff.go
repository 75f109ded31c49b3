package service

import (
	"context"
	"strings"

	"github.com/mmeshcher/service-manager/internal/model"
	"github.com/mmeshcher/service-manager/internal/validation"
)

// EmployeeInput описывает данные сотрудника.
type EmployeeInput struct {
	FirstName string `json:"first_name" validate:"required,max=30"`
	LastName  string `json:"last_name" validate:"required,max=30"`
	Email     string `json:"email" validate:"required,email,max=254"`
	RoleID    *int64 `json:"role_id" validate:"omitempty,gt=0"`
}

// CreateRole создаёт должность.
func (s *Service) CreateRole(ctx context.Context, name string) (*model.Role, error) {
	name, err := checkName(name, 50)
	if err != nil {
		return nil, invalid(err)
	}
	return s.repo.CreateRole(ctx, name)
}

// ListRoles возвращает все должности.
func (s *Service) ListRoles(ctx context.Context) ([]model.Role, error) {
	return s.repo.ListRoles(ctx)
}

// CreateEmployee создаёт сотрудника.
func (s *Service) CreateEmployee(ctx context.Context, in EmployeeInput) (*model.Employee, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.Struct(in); err != nil {
		return nil, invalid(err)
	}

	return s.repo.CreateEmployee(ctx, model.Employee{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		RoleID:    in.RoleID,
		Status:    model.RecordStatusActive,
	})
}

// GetEmployee возвращает сотрудника по идентификатору.
func (s *Service) GetEmployee(ctx context.Context, id int64) (*model.Employee, error) {
	return s.repo.GetEmployee(ctx, id)
}

// ListEmployees возвращает сотрудников.
func (s *Service) ListEmployees(ctx context.Context, f model.ListFilter) ([]model.Employee, error) {
	return s.repo.ListEmployees(ctx, f.Normalize())
}

// DeleteEmployee помечает сотрудника неактивным.
func (s *Service) DeleteEmployee(ctx context.Context, id int64) error {
	return s.repo.DeleteEmployee(ctx, id)
}

// activeEmployee возвращает сотрудника, от имени которого выполняется действие.
func (s *Service) activeEmployee(ctx context.Context, id int64) (*model.Employee, error) {
	e, err := s.repo.GetEmployee(ctx, id)
	if err != nil {
		return nil, reference("employee", err)
	}
	if err := requireActive(e.Status, "employee"); err != nil {
		return nil, err
	}
	return e, nil
}
