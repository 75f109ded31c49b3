package model

// Role описывает должность сотрудника.
type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Audit
}

// Employee описывает сотрудника, который обслуживает заказы и оставляет заметки.
type Employee struct {
	ID        int64        `json:"id"`
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
	Email     string       `json:"email"`
	RoleID    *int64       `json:"role_id,omitempty"`
	Status    RecordStatus `json:"status"`
	Audit
}
