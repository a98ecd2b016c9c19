package domain

import "time"

// TicketStats is derived from the current tickets and never stored.
type TicketStats struct {
	Total         int
	Open          int
	InProgress    int
	Resolved      int
	Closed        int
	TodayCreated  int
	TodayResolved int
}

// ComputeStats counts tickets by status. "Today" is the calendar day of now
// in now's location.
func ComputeStats(tickets []Ticket, now time.Time) TicketStats {
	stats := TicketStats{Total: len(tickets)}
	for i := range tickets {
		t := &tickets[i]
		switch t.Status {
		case TicketStatusOpen:
			stats.Open++
		case TicketStatusInProgress:
			stats.InProgress++
		case TicketStatusResolved:
			stats.Resolved++
		case TicketStatusClosed:
			stats.Closed++
		}
		if sameDay(t.CreatedAt, now) {
			stats.TodayCreated++
		}
		if t.ResolvedAt != nil && sameDay(*t.ResolvedAt, now) {
			stats.TodayResolved++
		}
	}
	return stats
}

func sameDay(a, now time.Time) bool {
	a = a.In(now.Location())
	y1, m1, d1 := a.Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
