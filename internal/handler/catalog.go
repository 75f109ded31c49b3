package handler

import (
	"net/http"

	"github.com/mmeshcher/service-manager/internal/service"
)

// CreateBrand создаёт производителя.
func (h *Handler) CreateBrand(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !h.decode(w, r, &req) {
		return
	}

	b, err := h.service.CreateBrand(r.Context(), req.Name)
	if err != nil {
		h.handleError(w, "create brand", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, b)
}

// ListBrands возвращает производителей.
func (h *Handler) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.service.ListBrands(r.Context())
	if err != nil {
		h.handleError(w, "list brands", err)
		return
	}
	h.writeJSON(w, http.StatusOK, brands)
}

// CreateAssetCategory создаёт категорию техники.
func (h *Handler) CreateAssetCategory(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !h.decode(w, r, &req) {
		return
	}

	c, err := h.service.CreateAssetCategory(r.Context(), req.Name)
	if err != nil {
		h.handleError(w, "create asset category", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, c)
}

// ListAssetCategories возвращает категории техники.
func (h *Handler) ListAssetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListAssetCategories(r.Context())
	if err != nil {
		h.handleError(w, "list asset categories", err)
		return
	}
	h.writeJSON(w, http.StatusOK, categories)
}

// CreateAsset добавляет модель техники в каталог.
func (h *Handler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	var req service.AssetInput
	if !h.decode(w, r, &req) {
		return
	}

	a, err := h.service.CreateAsset(r.Context(), req)
	if err != nil {
		h.handleError(w, "create asset", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, a)
}

// GetAsset возвращает модель техники.
func (h *Handler) GetAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	a, err := h.service.GetAsset(r.Context(), id)
	if err != nil {
		h.handleError(w, "get asset", err)
		return
	}
	h.writeJSON(w, http.StatusOK, a)
}

// ListAssets возвращает модели техники.
func (h *Handler) ListAssets(w http.ResponseWriter, r *http.Request) {
	f, ok := h.listFilter(w, r)
	if !ok {
		return
	}

	assets, err := h.service.ListAssets(r.Context(), f)
	if err != nil {
		h.handleError(w, "list assets", err)
		return
	}
	h.writeJSON(w, http.StatusOK, assets)
}

// DeleteAsset помечает модель техники неактивной.
func (h *Handler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteAsset(r.Context(), id); err != nil {
		h.handleError(w, "delete asset", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateMaterialCategory создаёт категорию материалов.
func (h *Handler) CreateMaterialCategory(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !h.decode(w, r, &req) {
		return
	}

	c, err := h.service.CreateMaterialCategory(r.Context(), req.Name)
	if err != nil {
		h.handleError(w, "create material category", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, c)
}

// ListMaterialCategories возвращает категории материалов.
func (h *Handler) ListMaterialCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListMaterialCategories(r.Context())
	if err != nil {
		h.handleError(w, "list material categories", err)
		return
	}
	h.writeJSON(w, http.StatusOK, categories)
}

// CreateMaterial добавляет материал в каталог.
func (h *Handler) CreateMaterial(w http.ResponseWriter, r *http.Request) {
	var req service.MaterialInput
	if !h.decode(w, r, &req) {
		return
	}

	m, err := h.service.CreateMaterial(r.Context(), req)
	if err != nil {
		h.handleError(w, "create material", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, m)
}

// UpdateMaterial изменяет материал.
func (h *Handler) UpdateMaterial(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	var req service.MaterialInput
	if !h.decode(w, r, &req) {
		return
	}

	m, err := h.service.UpdateMaterial(r.Context(), id, req)
	if err != nil {
		h.handleError(w, "update material", err)
		return
	}
	h.writeJSON(w, http.StatusOK, m)
}

// GetMaterial возвращает материал.
func (h *Handler) GetMaterial(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	m, err := h.service.GetMaterial(r.Context(), id)
	if err != nil {
		h.handleError(w, "get material", err)
		return
	}
	h.writeJSON(w, http.StatusOK, m)
}

// ListMaterials возвращает материалы.
func (h *Handler) ListMaterials(w http.ResponseWriter, r *http.Request) {
	f, ok := h.listFilter(w, r)
	if !ok {
		return
	}

	materials, err := h.service.ListMaterials(r.Context(), f)
	if err != nil {
		h.handleError(w, "list materials", err)
		return
	}
	h.writeJSON(w, http.StatusOK, materials)
}

// DeleteMaterial помечает материал неактивным.
func (h *Handler) DeleteMaterial(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteMaterial(r.Context(), id); err != nil {
		h.handleError(w, "delete material", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
