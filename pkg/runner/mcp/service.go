// Package mcp provides the Model Context Protocol server integration for daily.
package mcp

import (
	"context"
	"errors"
	"strings"
	"time"

	"tableflip.dev/daily/pkg/app"
	"tableflip.dev/daily/pkg/bullet"
	"tableflip.dev/daily/pkg/report"
	"tableflip.dev/daily/pkg/store"
	"tableflip.dev/daily/pkg/suggest"
)

// Service coordinates the report operations shared by the MCP server.
type Service struct {
	App *app.Service
}

// ErrReportNotFound is returned when a history reference cannot be resolved.
var ErrReportNotFound = errors.New("report not found")

// GenerateOptions captures the parameters used to generate a report.
type GenerateOptions struct {
	User   string
	Dept   string
	Date   string
	Fields map[string]string
}

// ReportDTO is a transport-friendly projection of a stored report.
type ReportDTO struct {
	ID        string            `json:"id"`
	User      string            `json:"user"`
	Dept      string            `json:"dept"`
	Date      string            `json:"date"`
	Generated string            `json:"generated,omitempty"`
	Order     []string          `json:"order"`
	Sections  map[string]string `json:"sections"`
	Report    string            `json:"report"`
}

// HistorySummary describes one history entry without its text.
type HistorySummary struct {
	Index int    `json:"index"`
	ID    string `json:"id"`
	User  string `json:"user"`
	Dept  string `json:"dept"`
	Date  string `json:"date"`
	Items int    `json:"items"`
}

// NewService builds a service wrapper using the provided persistence layer.
func NewService(p store.Persistence) *Service {
	return &Service{App: &app.Service{Persistence: p}}
}

func (s *Service) ready() error {
	if s.App == nil || s.App.Persistence == nil {
		return errors.New("persistence is not configured")
	}
	return nil
}

// Normalize labels each line of text.
func (s *Service) Normalize(text string) string {
	return bullet.Normalize(text)
}

// Suggest returns writing advice for text.
func (s *Service) Suggest(text string) []string {
	return suggest.Suggest(text)
}

// Generate composes and stores a report. An empty date means today.
func (s *Service) Generate(ctx context.Context, opts GenerateOptions) (ReportDTO, error) {
	if err := s.ready(); err != nil {
		return ReportDTO{}, err
	}
	date := opts.Date
	if strings.TrimSpace(date) == "" {
		date = "today"
	}
	form := report.Form{
		Header: report.Header{User: opts.User, Dept: opts.Dept, Date: date},
		Fields: opts.Fields,
	}
	e, err := s.App.Generate(ctx, form)
	if err != nil {
		return ReportDTO{}, err
	}
	return toReportDTO(e), nil
}

// ListHistory returns up to limit summaries, most recent first. A limit of
// zero or less returns everything.
func (s *Service) ListHistory(ctx context.Context, limit int) ([]HistorySummary, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	all, err := s.App.History(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	out := make([]HistorySummary, 0, len(all))
	for i, e := range all {
		items := 0
		for _, key := range e.Order {
			items += bullet.Count(e.Section(key))
		}
		out = append(out, HistorySummary{
			Index: i + 1,
			ID:    e.ID,
			User:  e.User,
			Dept:  e.Dept,
			Date:  e.Date,
			Items: items,
		})
	}
	return out, nil
}

// GetHistory resolves ref by id or 1-based index.
func (s *Service) GetHistory(ctx context.Context, ref string) (ReportDTO, error) {
	if err := s.ready(); err != nil {
		return ReportDTO{}, err
	}
	e, ok := s.App.Lookup(ctx, ref)
	if !ok {
		return ReportDTO{}, ErrReportNotFound
	}
	return toReportDTO(e), nil
}

// DeleteHistory removes the report ref refers to and returns its id, or ""
// when nothing matched.
func (s *Service) DeleteHistory(ctx context.Context, ref string) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	return s.App.Delete(ctx, ref)
}

// Template returns the active template.
func (s *Service) Template() (report.Template, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.App.Template()
}

func toReportDTO(e *report.Entry) ReportDTO {
	dto := ReportDTO{
		ID:       e.ID,
		User:     e.User,
		Dept:     e.Dept,
		Date:     e.Date,
		Order:    append([]string{}, e.Order...),
		Sections: make(map[string]string, len(e.Sections)),
		Report:   e.FullText,
	}
	for k, v := range e.Sections {
		dto.Sections[k] = v
	}
	if !e.Generated.IsZero() {
		dto.Generated = e.Generated.Format(time.RFC3339)
	}
	return dto
}
