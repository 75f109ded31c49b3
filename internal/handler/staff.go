package handler

import (
	"net/http"

	"github.com/mmeshcher/service-manager/internal/service"
)

// CreateRole создаёт должность.
func (h *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if !h.decode(w, r, &req) {
		return
	}

	role, err := h.service.CreateRole(r.Context(), req.Name)
	if err != nil {
		h.handleError(w, "create role", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, role)
}

// ListRoles возвращает должности.
func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.service.ListRoles(r.Context())
	if err != nil {
		h.handleError(w, "list roles", err)
		return
	}
	h.writeJSON(w, http.StatusOK, roles)
}

// CreateEmployee создаёт сотрудника.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req service.EmployeeInput
	if !h.decode(w, r, &req) {
		return
	}

	e, err := h.service.CreateEmployee(r.Context(), req)
	if err != nil {
		h.handleError(w, "create employee", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, e)
}

// GetEmployee возвращает сотрудника.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	e, err := h.service.GetEmployee(r.Context(), id)
	if err != nil {
		h.handleError(w, "get employee", err)
		return
	}
	h.writeJSON(w, http.StatusOK, e)
}

// ListEmployees возвращает сотрудников.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	f, ok := h.listFilter(w, r)
	if !ok {
		return
	}

	employees, err := h.service.ListEmployees(r.Context(), f)
	if err != nil {
		h.handleError(w, "list employees", err)
		return
	}
	h.writeJSON(w, http.StatusOK, employees)
}

// DeleteEmployee помечает сотрудника неактивным.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteEmployee(r.Context(), id); err != nil {
		h.handleError(w, "delete employee", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
