package enums

import (
	"fmt"
	"strings"
)

// Role is the closed set of account roles recognised by the API.
type Role string

const (
	RoleCliente       Role = "Cliente"
	RoleVendedor      Role = "Vendedor"
	RoleBodega        Role = "Bodega"
	RoleAdministrador Role = "Administrador"
)

var validRoles = []Role{
	RoleCliente,
	RoleVendedor,
	RoleBodega,
	RoleAdministrador,
}

// Roles returns every known role in declaration order.
func Roles() []Role {
	return append([]Role(nil), validRoles...)
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is one of the canonical roles.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRole converts raw input into a canonical Role. Matching ignores case
// and surrounding whitespace so "cliente" and "CLIENTE" resolve to RoleCliente.
func ParseRole(value string) (Role, error) {
	trimmed := strings.TrimSpace(value)
	for _, candidate := range validRoles {
		if strings.EqualFold(string(candidate), trimmed) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
