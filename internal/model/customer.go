package model

// CustomerType классифицирует клиентов.
type CustomerType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Audit
}

// Customer описывает клиента сервисного центра.
type Customer struct {
	ID     int64        `json:"id"`
	Name   string       `json:"name"`
	VAT    *string      `json:"vat,omitempty"`
	Email  string       `json:"email_address"`
	Phone  string       `json:"phone_number"`
	TypeID int64        `json:"type_id"`
	Status RecordStatus `json:"status"`
	Audit
}

// CustomerRepresentative описывает контактное лицо клиента, которое передаёт и забирает технику.
type CustomerRepresentative struct {
	ID         int64        `json:"id"`
	FirstName  string       `json:"first_name"`
	LastName   string       `json:"last_name"`
	Email      *string      `json:"email_address,omitempty"`
	Phone      string       `json:"phone_number"`
	CustomerID int64        `json:"customer_id"`
	Status     RecordStatus `json:"status"`
	Audit
}

// FullName возвращает имя и фамилию представителя.
func (r CustomerRepresentative) FullName() string {
	return r.FirstName + " " + r.LastName
}

// CustomerDepartment описывает подразделение клиента.
type CustomerDepartment struct {
	ID         int64        `json:"id"`
	Name       string       `json:"name"`
	CustomerID int64        `json:"customer_id"`
	Status     RecordStatus `json:"status"`
	Audit
}

// CustomerAsset описывает конкретный экземпляр техники клиента на обслуживании.
type CustomerAsset struct {
	ID            int64        `json:"id"`
	SerialNumber  *string      `json:"serial_number,omitempty"`
	ProductNumber *string      `json:"product_number,omitempty"`
	CustomerID    int64        `json:"customer_id"`
	AssetID       int64        `json:"asset_id"`
	Status        RecordStatus `json:"status"`
	Audit
}
