package handler

import (
	"net/http"

	"github.com/mmeshcher/service-manager/internal/service"
)

type nameRequest struct {
	Name string `json:"name"`
}

// CreateCustomerType создаёт тип клиента.
func (h *Handler) CreateCustomerType(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !h.decode(w, r, &req) {
		return
	}

	t, err := h.service.CreateCustomerType(r.Context(), req.Name)
	if err != nil {
		h.handleError(w, "create customer type", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, t)
}

// ListCustomerTypes возвращает типы клиентов.
func (h *Handler) ListCustomerTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.service.ListCustomerTypes(r.Context())
	if err != nil {
		h.handleError(w, "list customer types", err)
		return
	}
	h.writeJSON(w, http.StatusOK, types)
}

// CreateCustomer создаёт клиента.
func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req service.CustomerInput
	if !h.decode(w, r, &req) {
		return
	}

	c, err := h.service.CreateCustomer(r.Context(), req)
	if err != nil {
		h.handleError(w, "create customer", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, c)
}

// UpdateCustomer изменяет данные клиента.
func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	var req service.CustomerInput
	if !h.decode(w, r, &req) {
		return
	}

	c, err := h.service.UpdateCustomer(r.Context(), id, req)
	if err != nil {
		h.handleError(w, "update customer", err)
		return
	}
	h.writeJSON(w, http.StatusOK, c)
}

// GetCustomer возвращает клиента.
func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	c, err := h.service.GetCustomer(r.Context(), id)
	if err != nil {
		h.handleError(w, "get customer", err)
		return
	}
	h.writeJSON(w, http.StatusOK, c)
}

// ListCustomers возвращает клиентов.
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	f, ok := h.listFilter(w, r)
	if !ok {
		return
	}

	customers, err := h.service.ListCustomers(r.Context(), f)
	if err != nil {
		h.handleError(w, "list customers", err)
		return
	}
	h.writeJSON(w, http.StatusOK, customers)
}

// DeleteCustomer помечает клиента неактивным.
func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteCustomer(r.Context(), id); err != nil {
		h.handleError(w, "delete customer", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateRepresentative добавляет представителя клиента.
func (h *Handler) CreateRepresentative(w http.ResponseWriter, r *http.Request) {
	customerID, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	var req service.RepresentativeInput
	if !h.decode(w, r, &req) {
		return
	}

	p, err := h.service.CreateRepresentative(r.Context(), customerID, req)
	if err != nil {
		h.handleError(w, "create representative", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, p)
}

// UpdateRepresentative изменяет представителя клиента.
func (h *Handler) UpdateRepresentative(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	var req service.RepresentativeInput
	if !h.decode(w, r, &req) {
		return
	}

	p, err := h.service.UpdateRepresentative(r.Context(), id, req)
	if err != nil {
		h.handleError(w, "update representative", err)
		return
	}
	h.writeJSON(w, http.StatusOK, p)
}

// GetRepresentative возвращает представителя клиента.
func (h *Handler) GetRepresentative(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	p, err := h.service.GetRepresentative(r.Context(), id)
	if err != nil {
		h.handleError(w, "get representative", err)
		return
	}
	h.writeJSON(w, http.StatusOK, p)
}

// ListRepresentatives возвращает представителей клиента.
func (h *Handler) ListRepresentatives(w http.ResponseWriter, r *http.Request) {
	customerID, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	f, ok := h.listFilter(w, r)
	if !ok {
		return
	}

	reps, err := h.service.ListRepresentatives(r.Context(), customerID, f)
	if err != nil {
		h.handleError(w, "list representatives", err)
		return
	}
	h.writeJSON(w, http.StatusOK, reps)
}

// DeleteRepresentative помечает представителя неактивным.
func (h *Handler) DeleteRepresentative(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteRepresentative(r.Context(), id); err != nil {
		h.handleError(w, "delete representative", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateDepartment добавляет подразделение клиента.
func (h *Handler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	customerID, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	var req nameRequest
	if !h.decode(w, r, &req) {
		return
	}

	d, err := h.service.CreateDepartment(r.Context(), customerID, req.Name)
	if err != nil {
		h.handleError(w, "create department", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, d)
}

// ListDepartments возвращает подразделения клиента.
func (h *Handler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	customerID, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	f, ok := h.listFilter(w, r)
	if !ok {
		return
	}

	deps, err := h.service.ListDepartments(r.Context(), customerID, f)
	if err != nil {
		h.handleError(w, "list departments", err)
		return
	}
	h.writeJSON(w, http.StatusOK, deps)
}

// DeleteDepartment помечает подразделение неактивным.
func (h *Handler) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteDepartment(r.Context(), id); err != nil {
		h.handleError(w, "delete department", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateCustomerAsset регистрирует технику клиента.
func (h *Handler) CreateCustomerAsset(w http.ResponseWriter, r *http.Request) {
	customerID, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	var req service.CustomerAssetInput
	if !h.decode(w, r, &req) {
		return
	}

	a, err := h.service.CreateCustomerAsset(r.Context(), customerID, req)
	if err != nil {
		h.handleError(w, "create customer asset", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, a)
}

// UpdateCustomerAsset изменяет технику клиента.
func (h *Handler) UpdateCustomerAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	var req service.CustomerAssetInput
	if !h.decode(w, r, &req) {
		return
	}

	a, err := h.service.UpdateCustomerAsset(r.Context(), id, req)
	if err != nil {
		h.handleError(w, "update customer asset", err)
		return
	}
	h.writeJSON(w, http.StatusOK, a)
}

// GetCustomerAsset возвращает технику клиента.
func (h *Handler) GetCustomerAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	a, err := h.service.GetCustomerAsset(r.Context(), id)
	if err != nil {
		h.handleError(w, "get customer asset", err)
		return
	}
	h.writeJSON(w, http.StatusOK, a)
}

// ListCustomerAssets возвращает технику клиента.
func (h *Handler) ListCustomerAssets(w http.ResponseWriter, r *http.Request) {
	customerID, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	f, ok := h.listFilter(w, r)
	if !ok {
		return
	}

	assets, err := h.service.ListCustomerAssets(r.Context(), customerID, f)
	if err != nil {
		h.handleError(w, "list customer assets", err)
		return
	}
	h.writeJSON(w, http.StatusOK, assets)
}

// DeleteCustomerAsset помечает технику клиента неактивной.
func (h *Handler) DeleteCustomerAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteCustomerAsset(r.Context(), id); err != nil {
		h.handleError(w, "delete customer asset", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
