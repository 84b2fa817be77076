package teaui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"tableflip.dev/daily/pkg/app"
	"tableflip.dev/daily/pkg/logging"
)

// UI runs the terminal form.
type UI struct {
	Service *app.Service
}

func (u *UI) Do(ctx context.Context) error {
	if u.Service == nil {
		return errors.New("can not open ui, no service")
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := New(u.Service)
	m.ctx = ctx
	if events, err := u.Service.Watch(ctx); err == nil {
		m = m.WithEvents(events)
	} else {
		logging.OrNop(u.Service.Logger).Warn("store watch unavailable", zap.Error(err))
	}

	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok {
		return fm.Err()
	}
	return nil
}
