package handler

import (
	"net/http"
	"strconv"

	"github.com/mmeshcher/service-manager/internal/middleware"
	"github.com/mmeshcher/service-manager/internal/model"
	"github.com/mmeshcher/service-manager/internal/service"
)

// CreateOrder открывает сервисный заказ.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req service.OrderInput
	if !h.decode(w, r, &req) {
		return
	}

	o, err := h.service.CreateOrder(r.Context(), req)
	if err != nil {
		h.handleError(w, "create order", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, o)
}

// GetOrder возвращает заказ со строками и итоговой суммой.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	o, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		h.handleError(w, "get order", err)
		return
	}
	h.writeJSON(w, http.StatusOK, o)
}

// ListOrders возвращает заказы. Поддерживает фильтры customer_id и state.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	lf, ok := h.listFilter(w, r)
	if !ok {
		return
	}
	f := model.OrderListFilter{ListFilter: lf}

	q := r.URL.Query()
	if v := q.Get("customer_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid customer_id"})
			return
		}
		f.CustomerID = &id
	}
	if v := q.Get("state"); v != "" {
		state := model.OrderState(v)
		switch state {
		case model.OrderStateOpen, model.OrderStateServiced, model.OrderStateCompleted:
			f.State = &state
		default:
			h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid state"})
			return
		}
	}

	orders, err := h.service.ListOrders(r.Context(), f)
	if err != nil {
		h.handleError(w, "list orders", err)
		return
	}
	h.writeJSON(w, http.StatusOK, orders)
}

// DeleteOrder помечает заказ неактивным.
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteOrder(r.Context(), id); err != nil {
		h.handleError(w, "delete order", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MarkServiced отмечает заказ обслуженным от имени сотрудника из заголовка X-Employee-ID.
func (h *Handler) MarkServiced(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	employeeID, ok := middleware.GetEmployeeIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	o, err := h.service.MarkServiced(r.Context(), id, employeeID)
	if err != nil {
		h.handleError(w, "mark order serviced", err)
		return
	}
	h.writeJSON(w, http.StatusOK, o)
}

// MarkCompleted завершает заказ от имени сотрудника из заголовка X-Employee-ID.
func (h *Handler) MarkCompleted(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	employeeID, ok := middleware.GetEmployeeIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	o, err := h.service.MarkCompleted(r.Context(), id, employeeID)
	if err != nil {
		h.handleError(w, "mark order completed", err)
		return
	}
	h.writeJSON(w, http.StatusOK, o)
}

type handOverRequest struct {
	RepresentativeID int64 `json:"representative_id"`
}

// HandOver фиксирует возврат техники представителю клиента.
func (h *Handler) HandOver(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	var req handOverRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.RepresentativeID <= 0 {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "representative_id is required"})
		return
	}

	o, err := h.service.HandOver(r.Context(), id, req.RepresentativeID)
	if err != nil {
		h.handleError(w, "hand over order", err)
		return
	}
	h.writeJSON(w, http.StatusOK, o)
}

type totalResponse struct {
	OrderID        int64  `json:"order_id"`
	TotalAmountDue string `json:"total_amount_due"`
}

// OrderTotal возвращает итоговую сумму заказа.
func (h *Handler) OrderTotal(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	total, err := h.service.OrderTotal(r.Context(), id)
	if err != nil {
		h.handleError(w, "order total", err)
		return
	}
	h.writeJSON(w, http.StatusOK, totalResponse{OrderID: id, TotalAmountDue: total})
}

// AddLine добавляет строку в заказ.
func (h *Handler) AddLine(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	var req service.LineInput
	if !h.decode(w, r, &req) {
		return
	}

	line, err := h.service.AddLine(r.Context(), id, req)
	if err != nil {
		h.handleError(w, "add line", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, line)
}

// UpdateLine изменяет количество и скидку строки заказа.
func (h *Handler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	var req service.LineInput
	if !h.decode(w, r, &req) {
		return
	}

	line, err := h.service.UpdateLine(r.Context(), id, req)
	if err != nil {
		h.handleError(w, "update line", err)
		return
	}
	h.writeJSON(w, http.StatusOK, line)
}

// RemoveLine удаляет строку заказа.
func (h *Handler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.RemoveLine(r.Context(), id); err != nil {
		h.handleError(w, "remove line", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type noteRequest struct {
	Note string `json:"note"`
}

// AddNote добавляет заметку к заказу от имени сотрудника из заголовка X-Employee-ID.
func (h *Handler) AddNote(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}
	employeeID, ok := middleware.GetEmployeeIDFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	var req noteRequest
	if !h.decode(w, r, &req) {
		return
	}

	n, err := h.service.AddNote(r.Context(), id, employeeID, req.Note)
	if err != nil {
		h.handleError(w, "add note", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, n)
}

// ListNotes возвращает заметки заказа, начиная с последних.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id")
	if !ok {
		return
	}

	notes, err := h.service.ListNotes(r.Context(), id)
	if err != nil {
		h.handleError(w, "list notes", err)
		return
	}
	h.writeJSON(w, http.StatusOK, notes)
}
