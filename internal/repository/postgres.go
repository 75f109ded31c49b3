// Package repository содержит реализацию доступа к данным в PostgreSQL.
package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/mmeshcher/service-manager/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var (
	// ErrNotFound возвращается, если запись не найдена.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate возвращается при нарушении уникальности.
	ErrDuplicate = errors.New("record already exists")
	// ErrReferenceNotFound возвращается, если запись ссылается на несуществующую связанную запись.
	ErrReferenceNotFound = errors.New("referenced record not found")
)

// PostgresRepository предоставляет доступ к хранилищу данных в PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository создаёт новый репозиторий и инициализирует схему БД через миграции.
func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &PostgresRepository{pool: pool}

	if err := r.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return r, nil
}

func (r *PostgresRepository) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// Close закрывает пул соединений с БД.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

var retryDelays = []time.Duration{1 * time.Second, 3 * time.Second, 5 * time.Second}

func (r *PostgresRepository) withRetry(ctx context.Context, fn func() error) error {
	var err error

	for i := 0; i <= len(retryDelays); i++ {
		err = fn()
		if err == nil {
			return nil
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		if !isRetryable(err) || i == len(retryDelays) {
			break
		}

		timer := time.NewTimer(retryDelays[i])
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
	}
	return isConnectionError(err)
}

func isConnectionError(err error) bool {
	return strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "broken pipe") ||
		strings.Contains(err.Error(), "connection reset by peer")
}

// classify переводит ошибки драйвера в ошибки репозитория.
func classify(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
		case pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%w: %s", ErrReferenceNotFound, pgErr.ConstraintName)
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// softDelete помечает запись таблицы неактивной.
func (r *PostgresRepository) softDelete(ctx context.Context, table string, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE `+table+` SET status = $2, updated_at = now() WHERE id = $1`,
		id, string(model.RecordStatusInactive),
	)
	if err != nil {
		return classify("soft delete "+table, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func checkAffected(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// collect читает все строки результата через функцию сканирования.
func collect[T any](rows pgx.Rows, scan func(rowScanner) (T, error)) ([]T, error) {
	defer rows.Close()

	res := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		res = append(res, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// named описывает справочники, у которых есть только наименование.
type named struct {
	ID   int64
	Name string
	model.Audit
}

func scanNamed(row rowScanner) (named, error) {
	var n named
	err := row.Scan(&n.ID, &n.Name, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}

func (r *PostgresRepository) createNamed(ctx context.Context, table, name string) (named, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO `+table+` (name) VALUES ($1) RETURNING id, name, created_at, updated_at`,
		name,
	)
	n, err := scanNamed(row)
	if err != nil {
		return named{}, classify("insert "+table, err)
	}
	return n, nil
}

func (r *PostgresRepository) listNamed(ctx context.Context, table string) ([]named, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at, updated_at FROM `+table+` ORDER BY name`)
	if err != nil {
		return nil, classify("select "+table, err)
	}
	return collect(rows, scanNamed)
}
