package domain

// User identifies a staff member of the sales application. Password material
// never reaches this process; credentials are forwarded to the backend and
// forgotten.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
