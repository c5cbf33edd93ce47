package entity

import "time"

// Supplier representa un proveedor del exterior al que se le ordenan contenedores.
type Supplier struct {
	ID          string
	Name        string
	ContactName string
	Email       string
	Phone       string
	Country     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
