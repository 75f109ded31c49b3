package repository

import (
	"context"

	"github.com/mmeshcher/service-manager/internal/model"
)

// CreateRole создаёт должность.
func (r *PostgresRepository) CreateRole(ctx context.Context, name string) (*model.Role, error) {
	n, err := r.createNamed(ctx, "roles", name)
	if err != nil {
		return nil, err
	}
	return &model.Role{ID: n.ID, Name: n.Name, Audit: n.Audit}, nil
}

// ListRoles возвращает все должности.
func (r *PostgresRepository) ListRoles(ctx context.Context) ([]model.Role, error) {
	items, err := r.listNamed(ctx, "roles")
	if err != nil {
		return nil, err
	}
	res := make([]model.Role, 0, len(items))
	for _, n := range items {
		res = append(res, model.Role{ID: n.ID, Name: n.Name, Audit: n.Audit})
	}
	return res, nil
}

const employeeColumns = `id, first_name, last_name, email, role_id, status, created_at, updated_at`

func scanEmployee(row rowScanner) (model.Employee, error) {
	var e model.Employee
	err := row.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.RoleID, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// CreateEmployee создаёт сотрудника.
func (r *PostgresRepository) CreateEmployee(ctx context.Context, e model.Employee) (*model.Employee, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO employees (first_name, last_name, email, role_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+employeeColumns,
		e.FirstName, e.LastName, e.Email, e.RoleID,
	)
	res, err := scanEmployee(row)
	if err != nil {
		return nil, classify("insert employee", err)
	}
	return &res, nil
}

// GetEmployee возвращает сотрудника по идентификатору.
func (r *PostgresRepository) GetEmployee(ctx context.Context, id int64) (*model.Employee, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)
	res, err := scanEmployee(row)
	if err != nil {
		return nil, classify("select employee", err)
	}
	return &res, nil
}

// ListEmployees возвращает сотрудников.
func (r *PostgresRepository) ListEmployees(ctx context.Context, f model.ListFilter) ([]model.Employee, error) {
	f = f.Normalize()
	rows, err := r.pool.Query(ctx,
		`SELECT `+employeeColumns+`
		 FROM employees
		 WHERE ($1 OR status = 'active')
		 ORDER BY last_name, first_name
		 LIMIT $2 OFFSET $3`,
		f.IncludeInactive, f.Limit, f.Offset,
	)
	if err != nil {
		return nil, classify("select employees", err)
	}
	return collect(rows, scanEmployee)
}

// DeleteEmployee помечает сотрудника неактивным.
func (r *PostgresRepository) DeleteEmployee(ctx context.Context, id int64) error {
	return r.softDelete(ctx, "employees", id)
}
