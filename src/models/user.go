package models

type User struct {
	ID                   string  `json:"id"`
	IdentityID           string  `json:"identity_id"`
	Email                string  `json:"email"`
	FirstName            string  `json:"first_name"`
	LastName             string  `json:"last_name"`
	DateOfBirth          string  `json:"date_of_birth"`
	Address1             string  `json:"address1"`
	City                 string  `json:"city"`
	State                string  `json:"state"`
	PostalCode           string  `json:"postal_code"`
	SSNSealed            string  `json:"-"`
	ProcessorCustomerID  *string `json:"processor_customer_id"`
	ProcessorCustomerURL *string `json:"-"`
	CreatedAt            string  `json:"created_at"`
}
