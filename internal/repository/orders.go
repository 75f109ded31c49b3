package repository

import (
	"context"
	"fmt"

	"github.com/mmeshcher/service-manager/internal/model"
)

const orderColumns = `id, reference, customer_id, customer_asset_id, handed_over_by, department_id,
	is_serviced, is_completed, serviced_by, serviced_on, completed_by, completed_on,
	handed_over_to, status, created_at, updated_at`

func scanOrder(row rowScanner) (model.ServiceOrder, error) {
	var o model.ServiceOrder
	err := row.Scan(
		&o.ID, &o.Reference, &o.CustomerID, &o.CustomerAssetID, &o.HandedOverBy, &o.DepartmentID,
		&o.IsServiced, &o.IsCompleted, &o.ServicedBy, &o.ServicedOn, &o.CompletedBy, &o.CompletedOn,
		&o.HandedOverTo, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

// CreateOrder сохраняет новый сервисный заказ.
func (r *PostgresRepository) CreateOrder(ctx context.Context, o model.ServiceOrder) (*model.ServiceOrder, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO service_orders (reference, customer_id, customer_asset_id, handed_over_by, department_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+orderColumns,
		o.Reference, o.CustomerID, o.CustomerAssetID, o.HandedOverBy, o.DepartmentID,
	)
	res, err := scanOrder(row)
	if err != nil {
		return nil, classify("insert order", err)
	}
	return &res, nil
}

// GetOrder возвращает заказ вместе со строками.
func (r *PostgresRepository) GetOrder(ctx context.Context, id int64) (*model.ServiceOrder, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM service_orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if err != nil {
		return nil, classify("select order", err)
	}

	o.Lines, err = r.ListLines(ctx, id)
	if err != nil {
		return nil, err
	}

	return &o, nil
}

// ListOrders возвращает заголовки заказов, начиная с последних.
func (r *PostgresRepository) ListOrders(ctx context.Context, f model.OrderListFilter) ([]model.ServiceOrder, error) {
	lf := f.ListFilter.Normalize()

	var state *string
	if f.State != nil {
		s := string(*f.State)
		state = &s
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+`
		 FROM service_orders
		 WHERE ($1 OR status = 'active')
		   AND ($2::bigint IS NULL OR customer_id = $2)
		   AND ($3::text IS NULL OR
		        CASE WHEN is_completed THEN 'completed' WHEN is_serviced THEN 'serviced' ELSE 'open' END = $3)
		 ORDER BY created_at DESC, id DESC
		 LIMIT $4 OFFSET $5`,
		lf.IncludeInactive, f.CustomerID, state, lf.Limit, lf.Offset,
	)
	if err != nil {
		return nil, classify("select orders", err)
	}
	return collect(rows, scanOrder)
}

// DeleteOrder помечает заказ неактивным. Строки и заметки заказа сохраняются.
func (r *PostgresRepository) DeleteOrder(ctx context.Context, id int64) error {
	return r.softDelete(ctx, "service_orders", id)
}

// UpdateOrderState блокирует заказ, применяет к нему переход жизненного цикла и сохраняет результат.
// Ошибка функции apply откатывает транзакцию и возвращается без изменений.
func (r *PostgresRepository) UpdateOrderState(ctx context.Context, id int64, apply func(o *model.ServiceOrder) error) (*model.ServiceOrder, error) {
	var updated model.ServiceOrder

	err := r.withRetry(ctx, func() error {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback(ctx)

		o, err := scanOrder(tx.QueryRow(ctx,
			`SELECT `+orderColumns+` FROM service_orders WHERE id = $1 FOR UPDATE`, id,
		))
		if err != nil {
			return classify("lock order", err)
		}

		if err := apply(&o); err != nil {
			return err
		}

		o, err = scanOrder(tx.QueryRow(ctx,
			`UPDATE service_orders
			 SET is_serviced = $2, serviced_by = $3, serviced_on = $4,
			     is_completed = $5, completed_by = $6, completed_on = $7,
			     handed_over_to = $8, updated_at = now()
			 WHERE id = $1
			 RETURNING `+orderColumns,
			id, o.IsServiced, o.ServicedBy, o.ServicedOn,
			o.IsCompleted, o.CompletedBy, o.CompletedOn, o.HandedOverTo,
		))
		if err != nil {
			return classify("update order state", err)
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit tx: %w", err)
		}

		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	updated.Lines, err = r.ListLines(ctx, id)
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

const lineSelect = `SELECT l.id, l.order_id, l.material_id, m.name, l.unit_price, l.quantity, l.discount, l.created_at, l.updated_at`

func scanLine(row rowScanner) (model.ServiceOrderLine, error) {
	var l model.ServiceOrderLine
	err := row.Scan(&l.ID, &l.OrderID, &l.MaterialID, &l.MaterialName, &l.UnitPrice, &l.Quantity, &l.Discount, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

// AddLine добавляет строку в заказ.
func (r *PostgresRepository) AddLine(ctx context.Context, l model.ServiceOrderLine) (*model.ServiceOrderLine, error) {
	row := r.pool.QueryRow(ctx,
		`WITH l AS (
		   INSERT INTO service_order_lines (order_id, material_id, unit_price, quantity, discount)
		   VALUES ($1, $2, $3, $4, $5)
		   RETURNING *
		 )
		 `+lineSelect+`
		 FROM l JOIN materials m ON m.id = l.material_id`,
		l.OrderID, l.MaterialID, l.UnitPrice, l.Quantity, l.Discount,
	)
	res, err := scanLine(row)
	if err != nil {
		return nil, classify("insert line", err)
	}
	return &res, nil
}

// GetLine возвращает строку заказа по идентификатору.
func (r *PostgresRepository) GetLine(ctx context.Context, id int64) (*model.ServiceOrderLine, error) {
	row := r.pool.QueryRow(ctx,
		lineSelect+` FROM service_order_lines l JOIN materials m ON m.id = l.material_id WHERE l.id = $1`,
		id,
	)
	res, err := scanLine(row)
	if err != nil {
		return nil, classify("select line", err)
	}
	return &res, nil
}

// UpdateLine изменяет количество и скидку строки заказа.
func (r *PostgresRepository) UpdateLine(ctx context.Context, l model.ServiceOrderLine) (*model.ServiceOrderLine, error) {
	row := r.pool.QueryRow(ctx,
		`WITH l AS (
		   UPDATE service_order_lines
		   SET quantity = $2, discount = $3, updated_at = now()
		   WHERE id = $1
		   RETURNING *
		 )
		 `+lineSelect+`
		 FROM l JOIN materials m ON m.id = l.material_id`,
		l.ID, l.Quantity, l.Discount,
	)
	res, err := scanLine(row)
	if err != nil {
		return nil, classify("update line", err)
	}
	return &res, nil
}

// RemoveLine удаляет строку заказа.
func (r *PostgresRepository) RemoveLine(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM service_order_lines WHERE id = $1`, id)
	if err != nil {
		return classify("delete line", err)
	}
	return checkAffected(tag)
}

// ListLines возвращает строки заказа в порядке добавления.
func (r *PostgresRepository) ListLines(ctx context.Context, orderID int64) ([]model.ServiceOrderLine, error) {
	rows, err := r.pool.Query(ctx,
		lineSelect+`
		 FROM service_order_lines l
		 JOIN materials m ON m.id = l.material_id
		 WHERE l.order_id = $1
		 ORDER BY l.id`,
		orderID,
	)
	if err != nil {
		return nil, classify("select lines", err)
	}
	return collect(rows, scanLine)
}

// ListOrderLines возвращает строки нескольких заказов одним запросом, сгруппированные по заказу.
func (r *PostgresRepository) ListOrderLines(ctx context.Context, orderIDs []int64) (map[int64][]model.ServiceOrderLine, error) {
	rows, err := r.pool.Query(ctx,
		lineSelect+`
		 FROM service_order_lines l
		 JOIN materials m ON m.id = l.material_id
		 WHERE l.order_id = ANY($1)
		 ORDER BY l.order_id, l.id`,
		orderIDs,
	)
	if err != nil {
		return nil, classify("select order lines", err)
	}

	lines, err := collect(rows, scanLine)
	if err != nil {
		return nil, err
	}

	res := make(map[int64][]model.ServiceOrderLine, len(orderIDs))
	for _, l := range lines {
		res[l.OrderID] = append(res[l.OrderID], l)
	}
	return res, nil
}

const noteColumns = `id, order_id, author_id, note, created_at, updated_at`

func scanNote(row rowScanner) (model.ServiceOrderNote, error) {
	var n model.ServiceOrderNote
	err := row.Scan(&n.ID, &n.OrderID, &n.AuthorID, &n.Note, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}

// AddNote добавляет заметку к заказу.
func (r *PostgresRepository) AddNote(ctx context.Context, n model.ServiceOrderNote) (*model.ServiceOrderNote, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO service_order_notes (order_id, author_id, note) VALUES ($1, $2, $3) RETURNING `+noteColumns,
		n.OrderID, n.AuthorID, n.Note,
	)
	res, err := scanNote(row)
	if err != nil {
		return nil, classify("insert note", err)
	}
	return &res, nil
}

// ListNotes возвращает заметки заказа, начиная с последних.
func (r *PostgresRepository) ListNotes(ctx context.Context, orderID int64) ([]model.ServiceOrderNote, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+noteColumns+`
		 FROM service_order_notes
		 WHERE order_id = $1
		 ORDER BY created_at DESC, id DESC`,
		orderID,
	)
	if err != nil {
		return nil, classify("select notes", err)
	}
	return collect(rows, scanNote)
}
