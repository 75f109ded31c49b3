package repository

import (
	"context"

	"github.com/mmeshcher/service-manager/internal/model"
)

// CreateCustomerType создаёт тип клиента.
func (r *PostgresRepository) CreateCustomerType(ctx context.Context, name string) (*model.CustomerType, error) {
	n, err := r.createNamed(ctx, "customer_types", name)
	if err != nil {
		return nil, err
	}
	return &model.CustomerType{ID: n.ID, Name: n.Name, Audit: n.Audit}, nil
}

// ListCustomerTypes возвращает все типы клиентов.
func (r *PostgresRepository) ListCustomerTypes(ctx context.Context) ([]model.CustomerType, error) {
	items, err := r.listNamed(ctx, "customer_types")
	if err != nil {
		return nil, err
	}
	res := make([]model.CustomerType, 0, len(items))
	for _, n := range items {
		res = append(res, model.CustomerType{ID: n.ID, Name: n.Name, Audit: n.Audit})
	}
	return res, nil
}

const customerColumns = `id, name, vat, email_address, phone_number, type_id, status, created_at, updated_at`

func scanCustomer(row rowScanner) (model.Customer, error) {
	var c model.Customer
	err := row.Scan(&c.ID, &c.Name, &c.VAT, &c.Email, &c.Phone, &c.TypeID, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// CreateCustomer создаёт клиента.
func (r *PostgresRepository) CreateCustomer(ctx context.Context, c model.Customer) (*model.Customer, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO customers (name, vat, email_address, phone_number, type_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+customerColumns,
		c.Name, c.VAT, c.Email, c.Phone, c.TypeID,
	)
	res, err := scanCustomer(row)
	if err != nil {
		return nil, classify("insert customer", err)
	}
	return &res, nil
}

// UpdateCustomer изменяет данные клиента.
func (r *PostgresRepository) UpdateCustomer(ctx context.Context, c model.Customer) (*model.Customer, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE customers
		 SET name = $2, vat = $3, email_address = $4, phone_number = $5, type_id = $6, updated_at = now()
		 WHERE id = $1
		 RETURNING `+customerColumns,
		c.ID, c.Name, c.VAT, c.Email, c.Phone, c.TypeID,
	)
	res, err := scanCustomer(row)
	if err != nil {
		return nil, classify("update customer", err)
	}
	return &res, nil
}

// GetCustomer возвращает клиента по идентификатору независимо от статуса.
func (r *PostgresRepository) GetCustomer(ctx context.Context, id int64) (*model.Customer, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
	res, err := scanCustomer(row)
	if err != nil {
		return nil, classify("select customer", err)
	}
	return &res, nil
}

// ListCustomers возвращает клиентов, упорядоченных по наименованию.
func (r *PostgresRepository) ListCustomers(ctx context.Context, f model.ListFilter) ([]model.Customer, error) {
	f = f.Normalize()
	rows, err := r.pool.Query(ctx,
		`SELECT `+customerColumns+`
		 FROM customers
		 WHERE ($1 OR status = 'active')
		 ORDER BY name, id
		 LIMIT $2 OFFSET $3`,
		f.IncludeInactive, f.Limit, f.Offset,
	)
	if err != nil {
		return nil, classify("select customers", err)
	}
	return collect(rows, scanCustomer)
}

// DeleteCustomer помечает клиента неактивным.
func (r *PostgresRepository) DeleteCustomer(ctx context.Context, id int64) error {
	return r.softDelete(ctx, "customers", id)
}

const representativeColumns = `id, first_name, last_name, email_address, phone_number, customer_id, status, created_at, updated_at`

func scanRepresentative(row rowScanner) (model.CustomerRepresentative, error) {
	var p model.CustomerRepresentative
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Phone, &p.CustomerID, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// CreateRepresentative создаёт представителя клиента.
func (r *PostgresRepository) CreateRepresentative(ctx context.Context, p model.CustomerRepresentative) (*model.CustomerRepresentative, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO customer_representatives (first_name, last_name, email_address, phone_number, customer_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+representativeColumns,
		p.FirstName, p.LastName, p.Email, p.Phone, p.CustomerID,
	)
	res, err := scanRepresentative(row)
	if err != nil {
		return nil, classify("insert representative", err)
	}
	return &res, nil
}

// UpdateRepresentative изменяет контактные данные представителя.
func (r *PostgresRepository) UpdateRepresentative(ctx context.Context, p model.CustomerRepresentative) (*model.CustomerRepresentative, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE customer_representatives
		 SET first_name = $2, last_name = $3, email_address = $4, phone_number = $5, updated_at = now()
		 WHERE id = $1
		 RETURNING `+representativeColumns,
		p.ID, p.FirstName, p.LastName, p.Email, p.Phone,
	)
	res, err := scanRepresentative(row)
	if err != nil {
		return nil, classify("update representative", err)
	}
	return &res, nil
}

// GetRepresentative возвращает представителя по идентификатору.
func (r *PostgresRepository) GetRepresentative(ctx context.Context, id int64) (*model.CustomerRepresentative, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+representativeColumns+` FROM customer_representatives WHERE id = $1`, id)
	res, err := scanRepresentative(row)
	if err != nil {
		return nil, classify("select representative", err)
	}
	return &res, nil
}

// ListRepresentatives возвращает представителей клиента.
func (r *PostgresRepository) ListRepresentatives(ctx context.Context, customerID int64, f model.ListFilter) ([]model.CustomerRepresentative, error) {
	f = f.Normalize()
	rows, err := r.pool.Query(ctx,
		`SELECT `+representativeColumns+`
		 FROM customer_representatives
		 WHERE customer_id = $1 AND ($2 OR status = 'active')
		 ORDER BY first_name, last_name
		 LIMIT $3 OFFSET $4`,
		customerID, f.IncludeInactive, f.Limit, f.Offset,
	)
	if err != nil {
		return nil, classify("select representatives", err)
	}
	return collect(rows, scanRepresentative)
}

// DeleteRepresentative помечает представителя неактивным.
func (r *PostgresRepository) DeleteRepresentative(ctx context.Context, id int64) error {
	return r.softDelete(ctx, "customer_representatives", id)
}

const departmentColumns = `id, name, customer_id, status, created_at, updated_at`

func scanDepartment(row rowScanner) (model.CustomerDepartment, error) {
	var d model.CustomerDepartment
	err := row.Scan(&d.ID, &d.Name, &d.CustomerID, &d.Status, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

// CreateDepartment создаёт подразделение клиента.
func (r *PostgresRepository) CreateDepartment(ctx context.Context, d model.CustomerDepartment) (*model.CustomerDepartment, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO customer_departments (name, customer_id) VALUES ($1, $2) RETURNING `+departmentColumns,
		d.Name, d.CustomerID,
	)
	res, err := scanDepartment(row)
	if err != nil {
		return nil, classify("insert department", err)
	}
	return &res, nil
}

// GetDepartment возвращает подразделение по идентификатору.
func (r *PostgresRepository) GetDepartment(ctx context.Context, id int64) (*model.CustomerDepartment, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+departmentColumns+` FROM customer_departments WHERE id = $1`, id)
	res, err := scanDepartment(row)
	if err != nil {
		return nil, classify("select department", err)
	}
	return &res, nil
}

// ListDepartments возвращает подразделения клиента.
func (r *PostgresRepository) ListDepartments(ctx context.Context, customerID int64, f model.ListFilter) ([]model.CustomerDepartment, error) {
	f = f.Normalize()
	rows, err := r.pool.Query(ctx,
		`SELECT `+departmentColumns+`
		 FROM customer_departments
		 WHERE customer_id = $1 AND ($2 OR status = 'active')
		 ORDER BY name
		 LIMIT $3 OFFSET $4`,
		customerID, f.IncludeInactive, f.Limit, f.Offset,
	)
	if err != nil {
		return nil, classify("select departments", err)
	}
	return collect(rows, scanDepartment)
}

// DeleteDepartment помечает подразделение неактивным.
func (r *PostgresRepository) DeleteDepartment(ctx context.Context, id int64) error {
	return r.softDelete(ctx, "customer_departments", id)
}

const customerAssetColumns = `id, serial_number, product_number, customer_id, asset_id, status, created_at, updated_at`

func scanCustomerAsset(row rowScanner) (model.CustomerAsset, error) {
	var a model.CustomerAsset
	err := row.Scan(&a.ID, &a.SerialNumber, &a.ProductNumber, &a.CustomerID, &a.AssetID, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// CreateCustomerAsset регистрирует технику клиента.
func (r *PostgresRepository) CreateCustomerAsset(ctx context.Context, a model.CustomerAsset) (*model.CustomerAsset, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO customer_assets (serial_number, product_number, customer_id, asset_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+customerAssetColumns,
		a.SerialNumber, a.ProductNumber, a.CustomerID, a.AssetID,
	)
	res, err := scanCustomerAsset(row)
	if err != nil {
		return nil, classify("insert customer asset", err)
	}
	return &res, nil
}

// UpdateCustomerAsset изменяет серийный и продуктовый номера техники клиента.
func (r *PostgresRepository) UpdateCustomerAsset(ctx context.Context, a model.CustomerAsset) (*model.CustomerAsset, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE customer_assets
		 SET serial_number = $2, product_number = $3, updated_at = now()
		 WHERE id = $1
		 RETURNING `+customerAssetColumns,
		a.ID, a.SerialNumber, a.ProductNumber,
	)
	res, err := scanCustomerAsset(row)
	if err != nil {
		return nil, classify("update customer asset", err)
	}
	return &res, nil
}

// GetCustomerAsset возвращает технику клиента по идентификатору.
func (r *PostgresRepository) GetCustomerAsset(ctx context.Context, id int64) (*model.CustomerAsset, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+customerAssetColumns+` FROM customer_assets WHERE id = $1`, id)
	res, err := scanCustomerAsset(row)
	if err != nil {
		return nil, classify("select customer asset", err)
	}
	return &res, nil
}

// ListCustomerAssets возвращает технику клиента, упорядоченную по категории, бренду и модели.
func (r *PostgresRepository) ListCustomerAssets(ctx context.Context, customerID int64, f model.ListFilter) ([]model.CustomerAsset, error) {
	f = f.Normalize()
	rows, err := r.pool.Query(ctx,
		`SELECT ca.id, ca.serial_number, ca.product_number, ca.customer_id, ca.asset_id, ca.status, ca.created_at, ca.updated_at
		 FROM customer_assets ca
		 JOIN assets a ON a.id = ca.asset_id
		 JOIN asset_categories c ON c.id = a.category_id
		 JOIN brands b ON b.id = a.brand_id
		 WHERE ca.customer_id = $1 AND ($2 OR ca.status = 'active')
		 ORDER BY c.name, b.name, a.model_name, ca.serial_number
		 LIMIT $3 OFFSET $4`,
		customerID, f.IncludeInactive, f.Limit, f.Offset,
	)
	if err != nil {
		return nil, classify("select customer assets", err)
	}
	return collect(rows, scanCustomerAsset)
}

// DeleteCustomerAsset помечает технику клиента неактивной.
func (r *PostgresRepository) DeleteCustomerAsset(ctx context.Context, id int64) error {
	return r.softDelete(ctx, "customer_assets", id)
}
