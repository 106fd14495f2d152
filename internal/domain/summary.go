package domain

import (
	"sort"
	"time"
)

// TicketsSummary partitions one board fetch into per-status buckets. Every
// fetched ticket lands in exactly one bucket.
type TicketsSummary struct {
	Open       []Ticket
	InProgress []Ticket
	InReview   []Ticket
	Blocked    []Ticket
	Done       []Ticket
}

// Add places a ticket in the bucket matching its status. Unknown statuses
// report false and leave the summary unchanged.
func (s *TicketsSummary) Add(t Ticket) bool {
	switch t.Status {
	case TicketStatusOpen:
		s.Open = append(s.Open, t)
	case TicketStatusInProgress:
		s.InProgress = append(s.InProgress, t)
	case TicketStatusInReview:
		s.InReview = append(s.InReview, t)
	case TicketStatusBlocked:
		s.Blocked = append(s.Blocked, t)
	case TicketStatusDone:
		s.Done = append(s.Done, t)
	default:
		return false
	}
	return true
}

// Bucket returns the tickets filed under a known status.
func (s *TicketsSummary) Bucket(status TicketStatus) []Ticket {
	switch status {
	case TicketStatusOpen:
		return s.Open
	case TicketStatusInProgress:
		return s.InProgress
	case TicketStatusInReview:
		return s.InReview
	case TicketStatusBlocked:
		return s.Blocked
	case TicketStatusDone:
		return s.Done
	}
	return nil
}

// SortBuckets orders every bucket by start date ascending, preserving fetch
// order on ties.
func (s *TicketsSummary) SortBuckets() {
	for _, bucket := range [][]Ticket{s.Open, s.InProgress, s.InReview, s.Blocked, s.Done} {
		b := bucket
		sort.SliceStable(b, func(i, j int) bool {
			return b[i].StartDate < b[j].StartDate
		})
	}
}

// Active flattens the non-done buckets in report order.
func (s *TicketsSummary) Active() []Ticket {
	out := make([]Ticket, 0, len(s.Open)+len(s.InProgress)+len(s.InReview)+len(s.Blocked))
	out = append(out, s.Open...)
	out = append(out, s.InProgress...)
	out = append(out, s.InReview...)
	out = append(out, s.Blocked...)
	return out
}

// Total counts tickets across all buckets.
func (s *TicketsSummary) Total() int {
	return len(s.Open) + len(s.InProgress) + len(s.InReview) + len(s.Blocked) + len(s.Done)
}

// CompletedTicket pairs a done ticket with the time it was moved to done.
type CompletedTicket struct {
	Ticket
	CompletedAt time.Time
}
