package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmeshcher/service-manager/internal/model"
	"github.com/mmeshcher/service-manager/internal/pricing"
	"github.com/mmeshcher/service-manager/internal/validation"
)

// AssetInput описывает модель техники каталога.
type AssetInput struct {
	ModelNumber string `json:"model_number" validate:"required,max=20"`
	ModelName   string `json:"model_name" validate:"required,max=100"`
	BrandID     int64  `json:"brand_id" validate:"required,gt=0"`
	CategoryID  int64  `json:"category_id" validate:"required,gt=0"`
}

// MaterialInput описывает материал или услугу каталога.
type MaterialInput struct {
	Name       string          `json:"name" validate:"required,max=100"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	CategoryID int64           `json:"category_id" validate:"required,gt=0"`
}

func (in MaterialInput) check() error {
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return invalid(err)
	}
	if err := pricing.ValidatePrice(in.UnitPrice); err != nil {
		return invalid(err)
	}
	return nil
}

// CreateBrand создаёт производителя техники.
func (s *Service) CreateBrand(ctx context.Context, name string) (*model.Brand, error) {
	name, err := checkName(name, 100)
	if err != nil {
		return nil, invalid(err)
	}
	return s.repo.CreateBrand(ctx, name)
}

// ListBrands возвращает всех производителей.
func (s *Service) ListBrands(ctx context.Context) ([]model.Brand, error) {
	return s.repo.ListBrands(ctx)
}

// CreateAssetCategory создаёт категорию техники.
func (s *Service) CreateAssetCategory(ctx context.Context, name string) (*model.AssetCategory, error) {
	name, err := checkName(name, 100)
	if err != nil {
		return nil, invalid(err)
	}
	return s.repo.CreateAssetCategory(ctx, name)
}

// ListAssetCategories возвращает все категории техники.
func (s *Service) ListAssetCategories(ctx context.Context) ([]model.AssetCategory, error) {
	return s.repo.ListAssetCategories(ctx)
}

// CreateAsset добавляет модель техники в каталог.
func (s *Service) CreateAsset(ctx context.Context, in AssetInput) (*model.Asset, error) {
	in.ModelNumber = strings.TrimSpace(in.ModelNumber)
	in.ModelName = strings.TrimSpace(in.ModelName)
	if err := validation.Struct(in); err != nil {
		return nil, invalid(err)
	}

	return s.repo.CreateAsset(ctx, model.Asset{
		ModelNumber: in.ModelNumber,
		ModelName:   in.ModelName,
		BrandID:     in.BrandID,
		CategoryID:  in.CategoryID,
		Status:      model.RecordStatusActive,
	})
}

// GetAsset возвращает модель техники по идентификатору.
func (s *Service) GetAsset(ctx context.Context, id int64) (*model.Asset, error) {
	return s.repo.GetAsset(ctx, id)
}

// ListAssets возвращает модели техники.
func (s *Service) ListAssets(ctx context.Context, f model.ListFilter) ([]model.Asset, error) {
	return s.repo.ListAssets(ctx, f.Normalize())
}

// DeleteAsset помечает модель техники неактивной.
func (s *Service) DeleteAsset(ctx context.Context, id int64) error {
	return s.repo.DeleteAsset(ctx, id)
}

// CreateMaterialCategory создаёт категорию материалов.
func (s *Service) CreateMaterialCategory(ctx context.Context, name string) (*model.MaterialCategory, error) {
	name, err := checkName(name, 20)
	if err != nil {
		return nil, invalid(err)
	}
	return s.repo.CreateMaterialCategory(ctx, name)
}

// ListMaterialCategories возвращает все категории материалов.
func (s *Service) ListMaterialCategories(ctx context.Context) ([]model.MaterialCategory, error) {
	return s.repo.ListMaterialCategories(ctx)
}

// CreateMaterial добавляет материал в каталог. Цена не может быть отрицательной.
func (s *Service) CreateMaterial(ctx context.Context, in MaterialInput) (*model.Material, error) {
	if err := in.check(); err != nil {
		return nil, err
	}

	return s.repo.CreateMaterial(ctx, model.Material{
		Name:       strings.TrimSpace(in.Name),
		UnitPrice:  in.UnitPrice,
		CategoryID: in.CategoryID,
		Status:     model.RecordStatusActive,
	})
}

// UpdateMaterial изменяет материал. Новая цена применяется только к строкам, добавленным позже.
func (s *Service) UpdateMaterial(ctx context.Context, id int64, in MaterialInput) (*model.Material, error) {
	if err := in.check(); err != nil {
		return nil, err
	}

	current, err := s.repo.GetMaterial(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireActive(current.Status, "material"); err != nil {
		return nil, err
	}

	current.Name = strings.TrimSpace(in.Name)
	current.UnitPrice = in.UnitPrice
	current.CategoryID = in.CategoryID
	return s.repo.UpdateMaterial(ctx, *current)
}

// GetMaterial возвращает материал по идентификатору.
func (s *Service) GetMaterial(ctx context.Context, id int64) (*model.Material, error) {
	return s.repo.GetMaterial(ctx, id)
}

// ListMaterials возвращает материалы каталога.
func (s *Service) ListMaterials(ctx context.Context, f model.ListFilter) ([]model.Material, error) {
	return s.repo.ListMaterials(ctx, f.Normalize())
}

// DeleteMaterial помечает материал неактивным. Строки заказов с этим материалом сохраняются.
func (s *Service) DeleteMaterial(ctx context.Context, id int64) error {
	if err := s.repo.DeleteMaterial(ctx, id); err != nil {
		return fmt.Errorf("delete material: %w", err)
	}
	return nil
}
