package domain

// Role es el rol de un empleado dentro de la aplicación.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleHR       Role = "hr"
	RoleEmployee Role = "employee"
)

// Valid indica si el rol es uno de los conocidos.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleHR, RoleEmployee:
		return true
	}
	return false
}

// Principal identifica al empleado dueño de un token.
type Principal struct {
	EmployeeID string `json:"employee_id"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
}
