package domain

import "strings"

// Category is the subject-matter classification of a ticket.
type Category string

const (
	CategorySigeiPass       Category = "SIGEI_PASS"
	CategoryVirtualPass     Category = "VIRTUAL_PASS"
	CategoryEmailPass       Category = "EMAIL_PASS"
	CategoryAcademicRequest Category = "ACADEMIC_REQUEST"
	CategoryRedes           Category = "REDES"
	CategoryEquipos         Category = "EQUIPOS"
	CategorySoftware        Category = "SOFTWARE"
	CategoryOther           Category = "OTHER"
)

var categoryLabels = map[Category]string{
	CategorySigeiPass:       "Contraseña SIGEI",
	CategoryVirtualPass:     "Plataforma Virtual",
	CategoryEmailPass:       "Correo Institucional",
	CategoryAcademicRequest: "Solicitud Académica",
	CategoryRedes:           "Redes y Conectividad",
	CategoryEquipos:         "Equipos y Hardware",
	CategorySoftware:        "Software y Aplicaciones",
	CategoryOther:           "Otros",
}

// AllCategories returns the closed category set in canonical order.
func AllCategories() []Category {
	return []Category{
		CategorySigeiPass, CategoryVirtualPass, CategoryEmailPass, CategoryAcademicRequest,
		CategoryRedes, CategoryEquipos, CategorySoftware, CategoryOther,
	}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the display text for c.
func (c Category) Label() string {
	return categoryLabels[c]
}

// ParseCategory accepts either the code or the display label.
func ParseCategory(value string) (Category, bool) {
	value = strings.TrimSpace(value)
	if c := Category(strings.ToUpper(value)); c.Valid() {
		return c, true
	}
	for c, label := range categoryLabels {
		if strings.EqualFold(label, value) {
			return c, true
		}
	}
	return "", false
}

// NormalizeCategories removes duplicates and returns the set in canonical order.
// The result is never nil.
func NormalizeCategories(in []Category) []Category {
	seen := make(map[Category]struct{}, len(in))
	for _, c := range in {
		seen[c] = struct{}{}
	}
	out := make([]Category, 0, len(seen))
	for _, c := range AllCategories() {
		if _, ok := seen[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// ContainsCategory reports whether set includes c.
func ContainsCategory(set []Category, c Category) bool {
	for _, item := range set {
		if item == c {
			return true
		}
	}
	return false
}
