package domain

import (
	"fmt"
	"strings"
)

// Role is the fixed identity class of an account.
type Role string

const (
	RoleStudent         Role = "STUDENT"
	RoleSupremoDigital  Role = "SUPREMO_DIGITAL"
	RoleGlobalizador    Role = "GLOBALIZADOR"
	RoleOperacionesTICs Role = "OPERACIONES_TICS"
	RoleTecnologiaIT    Role = "TECNOLOGIA_IT"
	RoleDTE             Role = "DTE"
	RoleCiberseguridad  Role = "CIBERSEGURIDAD"
	RolePasantes        Role = "PASANTES"
)

// RoleCapabilities lists what a role may do.
type RoleCapabilities struct {
	Label               string
	Level               int
	CanManageUsers      bool
	CanAssignCategories bool
	CanViewAllTickets   bool
	CanDeleteTickets    bool
	DefaultCategories   []Category
}

var roleTable = map[Role]RoleCapabilities{
	RoleSupremoDigital: {
		Label: "Supremo Digital", Level: 100,
		CanManageUsers: true, CanAssignCategories: true, CanViewAllTickets: true, CanDeleteTickets: true,
		DefaultCategories: AllCategories(),
	},
	RoleGlobalizador: {
		Label: "Globalizador", Level: 90,
		CanManageUsers: true, CanAssignCategories: true, CanViewAllTickets: true, CanDeleteTickets: true,
		DefaultCategories: AllCategories(),
	},
	RoleOperacionesTICs: {
		Label: "Operaciones TICs", Level: 70,
		DefaultCategories: []Category{CategoryRedes, CategoryEquipos},
	},
	RoleTecnologiaIT: {
		Label: "Tecnología IT", Level: 70,
		DefaultCategories: []Category{CategorySigeiPass, CategorySoftware},
	},
	RoleDTE: {
		Label: "DTE", Level: 70,
		DefaultCategories: []Category{CategoryVirtualPass, CategoryAcademicRequest},
	},
	RoleCiberseguridad: {
		Label: "CiberSeguridad", Level: 70,
		DefaultCategories: []Category{CategoryEmailPass},
	},
	RolePasantes: {
		Label: "Pasantes", Level: 50,
		DefaultCategories: []Category{CategoryOther},
	},
	RoleStudent: {
		Label: "Estudiante", Level: 0,
	},
}

// creatableRoles is the role-creation policy: creator -> roles it may grant.
var creatableRoles = map[Role][]Role{
	RoleSupremoDigital: {
		RoleSupremoDigital, RoleGlobalizador, RoleOperacionesTICs, RoleTecnologiaIT,
		RoleDTE, RoleCiberseguridad, RolePasantes,
	},
	RoleGlobalizador: {
		RoleGlobalizador, RoleOperacionesTICs, RoleTecnologiaIT,
		RoleDTE, RoleCiberseguridad, RolePasantes,
	},
}

// StaffRoles returns every non-student role ordered by tier.
func StaffRoles() []Role {
	return []Role{
		RoleSupremoDigital, RoleGlobalizador, RoleOperacionesTICs, RoleTecnologiaIT,
		RoleDTE, RoleCiberseguridad, RolePasantes,
	}
}

// CapabilitiesOf returns the capabilities of a role. Unknown roles are a
// programming error and panic.
func CapabilitiesOf(role Role) RoleCapabilities {
	caps, ok := roleTable[role]
	if !ok {
		panic(fmt.Sprintf("domain: unknown role %q", string(role)))
	}
	caps.DefaultCategories = append([]Category(nil), caps.DefaultCategories...)
	return caps
}

// CanCreateRole reports whether creator may create an account with role target.
func CanCreateRole(creator, target Role) bool {
	if !CapabilitiesOf(creator).CanManageUsers {
		return false
	}
	for _, r := range creatableRoles[creator] {
		if r == target {
			return true
		}
	}
	return false
}

// CanDeleteRole reports whether actor may delete an account holding role target.
// Self-deletion is checked separately since it depends on identity, not role.
func CanDeleteRole(actor, target Role) bool {
	if !CapabilitiesOf(actor).CanManageUsers {
		return false
	}
	if target == RoleStudent {
		return true
	}
	return CanCreateRole(actor, target)
}

// CreatableRoles returns the roles creator may grant.
func CreatableRoles(creator Role) []Role {
	return append([]Role(nil), creatableRoles[creator]...)
}

// IsStaff reports whether the role belongs to a staff member.
func (r Role) IsStaff() bool {
	return r.Valid() && r != RoleStudent
}

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	_, ok := roleTable[r]
	return ok
}

// Label returns the display text for the role.
func (r Role) Label() string {
	return CapabilitiesOf(r).Label
}

// ParseRole converts a wire value into a Role.
func ParseRole(value string) (Role, bool) {
	role := Role(strings.ToUpper(strings.TrimSpace(value)))
	if !role.Valid() {
		return "", false
	}
	return role, true
}
