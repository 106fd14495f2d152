package render

import (
	"bytes"
	"embed"
	"html/template"
	"strings"
	"time"

	"github.com/spec-kit/board-report/internal/domain"
)

//go:embed template/board_summary.html
var templateFS embed.FS

const timestampLayout = "2006-01-02 15:04:05"

// Renderer produces the board summary email body.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded summary template.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("board_summary.html").
		Funcs(templateFuncs()).
		ParseFS(templateFS, "template/board_summary.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Report carries one run's composed data.
type Report struct {
	Engagement  string
	GeneratedAt time.Time
	Summary     *domain.TicketsSummary
	Risks       []domain.Ticket
	Completed   []domain.CompletedTicket
}

type summaryView struct {
	Engagement string
	Date       string
	Counts     []countRow
	Active     []ticketRow
	Completed  []completedRow
}

type countRow struct {
	Label string
	Count int
}

type ticketRow struct {
	Title     string
	Assignee  string
	Status    string
	Severity  string
	StartDate string
}

type completedRow struct {
	Title       string
	Assignee    string
	CompletedAt string
}

// RenderBoardSummary executes the template against one run's data.
func (r *Renderer) RenderBoardSummary(report Report) (string, error) {
	summary := report.Summary
	if summary == nil {
		summary = &domain.TicketsSummary{}
	}

	view := summaryView{
		Engagement: report.Engagement,
		Date:       report.GeneratedAt.Format(timestampLayout),
		Counts: []countRow{
			{Label: "Open", Count: len(summary.Open)},
			{Label: "In Progress", Count: len(summary.InProgress)},
			{Label: "In Review", Count: len(summary.InReview)},
			{Label: "Blocked", Count: len(summary.Blocked)},
			{Label: "Done", Count: len(summary.Done)},
			{Label: "Risks", Count: len(report.Risks)},
		},
	}

	for _, ticket := range summary.Active() {
		view.Active = append(view.Active, ticketRow{
			Title:     ticket.Title,
			Assignee:  assigneeName(ticket.Assignee),
			Status:    string(ticket.Status),
			Severity:  string(ticket.Severity),
			StartDate: ticket.StartDate,
		})
	}
	for _, done := range report.Completed {
		view.Completed = append(view.Completed, completedRow{
			Title:       done.Title,
			Assignee:    assigneeName(done.Assignee),
			CompletedAt: done.CompletedAt.Format(timestampLayout),
		})
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func assigneeName(a *domain.Assignee) string {
	if a == nil {
		return ""
	}
	return a.Name
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"toLower": strings.ToLower,
		"toUpper": strings.ToUpper,
	}
}
