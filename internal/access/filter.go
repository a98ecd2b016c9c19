// Package access derives ticket visibility and mutation rights from the role
// capability table and a staff member's assigned categories.
package access

import "github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/domain"

// VisibleTickets returns the subset of tickets user may list, preserving order.
//
// Department staff see their categories plus anything personally assigned to
// them, so revoking a category never hides in-flight work.
func VisibleTickets(user *domain.User, tickets []domain.Ticket) []domain.Ticket {
	if user == nil {
		return nil
	}
	if user.Capabilities().CanViewAllTickets {
		return append([]domain.Ticket(nil), tickets...)
	}
	out := make([]domain.Ticket, 0, len(tickets))
	for i := range tickets {
		if visible(user, &tickets[i]) {
			out = append(out, tickets[i])
		}
	}
	return out
}

func visible(user *domain.User, t *domain.Ticket) bool {
	if user.IsStudent() {
		return t.RequesterID == user.ID
	}
	return domain.ContainsCategory(user.AssignedCategories(), t.Category) || t.AssignedToID() == user.ID
}

// CanManage reports whether user may change status, transfer or reprioritize t.
func CanManage(user *domain.User, t *domain.Ticket) bool {
	if user == nil || t == nil {
		return false
	}
	return user.Capabilities().CanViewAllTickets || (t.IsAssigned() && t.AssignedToID() == user.ID)
}

// CanSeeTicket reports whether user may open t.
func CanSeeTicket(user *domain.User, t *domain.Ticket) bool {
	if user == nil || t == nil {
		return false
	}
	if CanManage(user, t) || t.RequesterID == user.ID {
		return true
	}
	return !user.IsStudent() && domain.ContainsCategory(user.AssignedCategories(), t.Category)
}
