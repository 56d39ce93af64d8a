package models

// CommissionRequest is a submitted commission form. It is never persisted.
type CommissionRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Service     string `json:"service"`
	Description string `json:"description"`
	Budget      string `json:"budget"`
	Deadline    string `json:"deadline"`
}
