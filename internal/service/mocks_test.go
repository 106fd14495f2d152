package service

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/board-report/internal/domain"
	"github.com/spec-kit/board-report/internal/events"
)

// fakeCarrier implements CarrierClient for testing.
type fakeCarrier struct {
	mu            sync.Mutex
	Tickets       []domain.Ticket
	Entries       []domain.AuditLogEntry
	TicketsErr    error
	AuditErr      error
	FetchCount    int
	AuditCount    int
	LastProjectID string
	LastBoardID   string
	LastTicketIDs []int64
	LastSince     time.Time
}

func (f *fakeCarrier) FetchTickets(ctx context.Context, projectID, boardID string) ([]domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.FetchCount++
	f.LastProjectID = projectID
	f.LastBoardID = boardID

	if f.TicketsErr != nil {
		return nil, f.TicketsErr
	}
	return f.Tickets, nil
}

func (f *fakeCarrier) FetchAuditLogs(ctx context.Context, projectID string, ticketIDs []int64, since time.Time) ([]domain.AuditLogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.AuditCount++
	f.LastTicketIDs = ticketIDs
	f.LastSince = since

	if f.AuditErr != nil {
		return nil, f.AuditErr
	}
	return f.Entries, nil
}

type sentMail struct {
	Subject string
	Body    string
}

// fakeMailer implements mailer.Mailer for testing.
type fakeMailer struct {
	mu   sync.Mutex
	Err  error
	Sent []sentMail
}

func (f *fakeMailer) SendReport(ctx context.Context, subject, htmlBody string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return f.Err
	}
	f.Sent = append(f.Sent, sentMail{Subject: subject, Body: htmlBody})
	return nil
}

// recordingDispatcher captures published events.
type recordingDispatcher struct {
	mu     sync.Mutex
	Events []events.Event
}

func (d *recordingDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Events = append(d.Events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {}

func (d *recordingDispatcher) Types() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()

	types := make([]events.EventType, 0, len(d.Events))
	for _, event := range d.Events {
		types = append(types, event.Type)
	}
	return types
}
