package app

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"tableflip.dev/daily/pkg/logging"
	"tableflip.dev/daily/pkg/report"
	"tableflip.dev/daily/pkg/store"
	"tableflip.dev/daily/pkg/suggest"
	"tableflip.dev/daily/pkg/timeutil"
)

// Service provides high-level operations for reports and history.
// It wraps persistence and composition so UIs and CLIs can share logic.
type Service struct {
	Persistence store.Persistence
	Logger      *zap.Logger
	// Now is the clock; time.Now when nil.
	Now func() time.Time
}

var (
	errNoPersistence = errors.New("app: no persistence configured")

	// ErrNotFound is returned when a history reference matches nothing.
	ErrNotFound = errors.New("app: report not found")
)

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Today is the service clock's date in ISO form.
func (s *Service) Today() string {
	return timeutil.Today(s.now())
}

func (s *Service) log() *zap.Logger {
	return logging.OrNop(s.Logger)
}

// Template returns the active template.
func (s *Service) Template() (report.Template, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	return s.Persistence.Template(), nil
}

// SaveTemplate replaces the active template.
func (s *Service) SaveTemplate(t report.Template) error {
	if s.Persistence == nil {
		return errNoPersistence
	}
	return s.Persistence.SaveTemplate(t)
}

// ResetTemplate restores the built-in template.
func (s *Service) ResetTemplate() error {
	if s.Persistence == nil {
		return errNoPersistence
	}
	return s.Persistence.ResetTemplate()
}

// Carry returns the tomorrow plan to carry into today for user and dept:
// the carried slot first, then the most recent history entry.
func (s *Service) Carry(ctx context.Context, user, dept string) string {
	if s.Persistence == nil {
		return ""
	}
	key := report.UserKey(strings.TrimSpace(user), strings.TrimSpace(dept))
	if plan := s.Persistence.Carry(key); plan != "" {
		return plan
	}
	return s.Persistence.LastTomorrowPlan(ctx, key)
}

// Prefill returns the form a shell should open with: the cached form, with
// today's date when none is set and the carried plan in an empty today
// section. A cached form from an earlier day starts over on today with the
// carried plan, unless it was imported from history.
func (s *Service) Prefill(ctx context.Context) (report.Form, error) {
	if s.Persistence == nil {
		return report.Form{}, errNoPersistence
	}
	f := s.Persistence.Form()
	now := s.now()
	today := timeutil.Today(now)
	if strings.TrimSpace(f.Date) == "" {
		f.Date = today
	} else if date, err := timeutil.ParseDate(f.Date, now); err == nil && date < today && f.Imported == "" {
		f = report.Form{Header: report.Header{User: f.User, Dept: f.Dept, Date: today}}
	}
	if strings.TrimSpace(f.Field(report.KeyToday)) == "" && f.User != "" && f.Dept != "" {
		if plan := s.Carry(ctx, f.User, f.Dept); plan != "" {
			f.SetField(report.KeyToday, plan)
		}
	}
	return f, nil
}

// SaveForm caches a form in progress.
func (s *Service) SaveForm(f report.Form) error {
	if s.Persistence == nil {
		return errNoPersistence
	}
	return s.Persistence.SaveForm(f)
}

// Generate composes a report from the form, stores it in history, carries
// its tomorrow plan forward and caches the form. A *report.ValidationError
// means nothing was stored.
func (s *Service) Generate(ctx context.Context, form report.Form) (*report.Entry, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	now := s.now()
	header, err := form.Header.Validate(now)
	if err != nil {
		return nil, err
	}
	tmpl := s.Persistence.Template()
	carry := s.Carry(ctx, header.User, header.Dept)

	r, err := report.Compose(header, form.Fields, tmpl, carry, now)
	if err != nil {
		return nil, err
	}

	raw := make(map[string]string, len(tmpl))
	for _, key := range tmpl.Keys() {
		raw[key] = form.Field(key)
	}
	e := &report.Entry{Report: r, Raw: raw, Generated: now}
	if err := s.Persistence.Put(e); err != nil {
		return nil, err
	}
	s.log().Info("generated report", zap.String("id", e.ID), zap.Strings("sections", r.Order))

	if tmpl.Has(report.KeyTomorrow) {
		if err := s.Persistence.SaveCarry(r.UserKey(), r.Section(report.KeyTomorrow)); err != nil {
			return e, err
		}
	}
	if err := s.Persistence.SaveForm(report.Form{Header: r.Header, Fields: raw}); err != nil {
		return e, err
	}
	return e, nil
}

// History lists stored reports, most recent first.
func (s *Service) History(ctx context.Context) ([]*report.Entry, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	return s.Persistence.List(ctx), nil
}

// Lookup resolves ref as a history id, or as a 1-based position in History.
func (s *Service) Lookup(ctx context.Context, ref string) (*report.Entry, bool) {
	if s.Persistence == nil {
		return nil, false
	}
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, false
	}
	if e, ok := s.Persistence.Get(ctx, ref); ok {
		return e, true
	}
	n, err := strconv.Atoi(ref)
	if err != nil || n < 1 {
		return nil, false
	}
	all := s.Persistence.List(ctx)
	if n > len(all) {
		return nil, false
	}
	return all[n-1], true
}

// Delete removes the report ref refers to. Unknown references are a no-op
// and return an empty id.
func (s *Service) Delete(ctx context.Context, ref string) (string, error) {
	if s.Persistence == nil {
		return "", errNoPersistence
	}
	e, ok := s.Lookup(ctx, ref)
	if !ok {
		s.log().Debug("delete of unknown report ignored", zap.String("ref", ref))
		return "", nil
	}
	if err := s.Persistence.Delete(e.ID); err != nil {
		return "", err
	}
	return e.ID, nil
}

// Import loads a stored report back into the cached form so it can be
// edited and generated again.
func (s *Service) Import(ctx context.Context, ref string) (report.Form, error) {
	if s.Persistence == nil {
		return report.Form{}, errNoPersistence
	}
	e, ok := s.Lookup(ctx, ref)
	if !ok {
		return report.Form{}, ErrNotFound
	}
	f := report.FormFromEntry(e)
	if err := s.Persistence.SaveForm(f); err != nil {
		return report.Form{}, err
	}
	return f, nil
}

// SuggestForm runs the suggestion engine over the today and tomorrow text.
func (s *Service) SuggestForm(form report.Form) []string {
	return suggest.Suggest(form.Field(report.KeyToday) + "\n" + form.Field(report.KeyTomorrow))
}

// Watch subscribes to persistence change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	return s.Persistence.Watch(ctx)
}
