package repository

import (
	"context"

	"github.com/mmeshcher/service-manager/internal/model"
)

// CreateBrand создаёт бренд.
func (r *PostgresRepository) CreateBrand(ctx context.Context, name string) (*model.Brand, error) {
	n, err := r.createNamed(ctx, "brands", name)
	if err != nil {
		return nil, err
	}
	return &model.Brand{ID: n.ID, Name: n.Name, Audit: n.Audit}, nil
}

// ListBrands возвращает все бренды.
func (r *PostgresRepository) ListBrands(ctx context.Context) ([]model.Brand, error) {
	items, err := r.listNamed(ctx, "brands")
	if err != nil {
		return nil, err
	}
	res := make([]model.Brand, 0, len(items))
	for _, n := range items {
		res = append(res, model.Brand{ID: n.ID, Name: n.Name, Audit: n.Audit})
	}
	return res, nil
}

// CreateAssetCategory создаёт категорию техники.
func (r *PostgresRepository) CreateAssetCategory(ctx context.Context, name string) (*model.AssetCategory, error) {
	n, err := r.createNamed(ctx, "asset_categories", name)
	if err != nil {
		return nil, err
	}
	return &model.AssetCategory{ID: n.ID, Name: n.Name, Audit: n.Audit}, nil
}

// ListAssetCategories возвращает все категории техники.
func (r *PostgresRepository) ListAssetCategories(ctx context.Context) ([]model.AssetCategory, error) {
	items, err := r.listNamed(ctx, "asset_categories")
	if err != nil {
		return nil, err
	}
	res := make([]model.AssetCategory, 0, len(items))
	for _, n := range items {
		res = append(res, model.AssetCategory{ID: n.ID, Name: n.Name, Audit: n.Audit})
	}
	return res, nil
}

const assetColumns = `id, model_number, model_name, brand_id, category_id, status, created_at, updated_at`

func scanAsset(row rowScanner) (model.Asset, error) {
	var a model.Asset
	err := row.Scan(&a.ID, &a.ModelNumber, &a.ModelName, &a.BrandID, &a.CategoryID, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// CreateAsset добавляет модель техники в каталог.
func (r *PostgresRepository) CreateAsset(ctx context.Context, a model.Asset) (*model.Asset, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO assets (model_number, model_name, brand_id, category_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+assetColumns,
		a.ModelNumber, a.ModelName, a.BrandID, a.CategoryID,
	)
	res, err := scanAsset(row)
	if err != nil {
		return nil, classify("insert asset", err)
	}
	return &res, nil
}

// GetAsset возвращает модель техники по идентификатору.
func (r *PostgresRepository) GetAsset(ctx context.Context, id int64) (*model.Asset, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+assetColumns+` FROM assets WHERE id = $1`, id)
	res, err := scanAsset(row)
	if err != nil {
		return nil, classify("select asset", err)
	}
	return &res, nil
}

// ListAssets возвращает модели техники каталога.
func (r *PostgresRepository) ListAssets(ctx context.Context, f model.ListFilter) ([]model.Asset, error) {
	f = f.Normalize()
	rows, err := r.pool.Query(ctx,
		`SELECT `+assetColumns+`
		 FROM assets
		 WHERE ($1 OR status = 'active')
		 ORDER BY model_name, model_number
		 LIMIT $2 OFFSET $3`,
		f.IncludeInactive, f.Limit, f.Offset,
	)
	if err != nil {
		return nil, classify("select assets", err)
	}
	return collect(rows, scanAsset)
}

// DeleteAsset помечает модель техники неактивной.
func (r *PostgresRepository) DeleteAsset(ctx context.Context, id int64) error {
	return r.softDelete(ctx, "assets", id)
}

// CreateMaterialCategory создаёт категорию материалов.
func (r *PostgresRepository) CreateMaterialCategory(ctx context.Context, name string) (*model.MaterialCategory, error) {
	n, err := r.createNamed(ctx, "material_categories", name)
	if err != nil {
		return nil, err
	}
	return &model.MaterialCategory{ID: n.ID, Name: n.Name, Audit: n.Audit}, nil
}

// ListMaterialCategories возвращает все категории материалов.
func (r *PostgresRepository) ListMaterialCategories(ctx context.Context) ([]model.MaterialCategory, error) {
	items, err := r.listNamed(ctx, "material_categories")
	if err != nil {
		return nil, err
	}
	res := make([]model.MaterialCategory, 0, len(items))
	for _, n := range items {
		res = append(res, model.MaterialCategory{ID: n.ID, Name: n.Name, Audit: n.Audit})
	}
	return res, nil
}

const materialColumns = `id, name, unit_price, category_id, status, created_at, updated_at`

func scanMaterial(row rowScanner) (model.Material, error) {
	var m model.Material
	err := row.Scan(&m.ID, &m.Name, &m.UnitPrice, &m.CategoryID, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// CreateMaterial добавляет материал в каталог.
func (r *PostgresRepository) CreateMaterial(ctx context.Context, m model.Material) (*model.Material, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO materials (name, unit_price, category_id) VALUES ($1, $2, $3) RETURNING `+materialColumns,
		m.Name, m.UnitPrice, m.CategoryID,
	)
	res, err := scanMaterial(row)
	if err != nil {
		return nil, classify("insert material", err)
	}
	return &res, nil
}

// UpdateMaterial изменяет наименование, цену и категорию материала.
// Уже добавленные в заказы строки сохраняют прежнюю цену.
func (r *PostgresRepository) UpdateMaterial(ctx context.Context, m model.Material) (*model.Material, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE materials
		 SET name = $2, unit_price = $3, category_id = $4, updated_at = now()
		 WHERE id = $1
		 RETURNING `+materialColumns,
		m.ID, m.Name, m.UnitPrice, m.CategoryID,
	)
	res, err := scanMaterial(row)
	if err != nil {
		return nil, classify("update material", err)
	}
	return &res, nil
}

// GetMaterial возвращает материал по идентификатору.
func (r *PostgresRepository) GetMaterial(ctx context.Context, id int64) (*model.Material, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+materialColumns+` FROM materials WHERE id = $1`, id)
	res, err := scanMaterial(row)
	if err != nil {
		return nil, classify("select material", err)
	}
	return &res, nil
}

// ListMaterials возвращает материалы каталога.
func (r *PostgresRepository) ListMaterials(ctx context.Context, f model.ListFilter) ([]model.Material, error) {
	f = f.Normalize()
	rows, err := r.pool.Query(ctx,
		`SELECT `+materialColumns+`
		 FROM materials
		 WHERE ($1 OR status = 'active')
		 ORDER BY name
		 LIMIT $2 OFFSET $3`,
		f.IncludeInactive, f.Limit, f.Offset,
	)
	if err != nil {
		return nil, classify("select materials", err)
	}
	return collect(rows, scanMaterial)
}

// DeleteMaterial помечает материал неактивным.
func (r *PostgresRepository) DeleteMaterial(ctx context.Context, id int64) error {
	return r.softDelete(ctx, "materials", id)
}
