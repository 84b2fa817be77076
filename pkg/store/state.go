package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"tableflip.dev/daily/pkg/report"
)

// State is the on-disk form cache: the last header and section text the user
// worked on, plus the carried tomorrow plan per user_dept key.
type State struct {
	report.Form
	Tomorrow map[string]string `json:"tomorrow"`
}

func (p *persistence) statePath() string {
	return filepath.Join(p.basePath, stateFile)
}

// loadState never fails; unreadable state is logged and treated as empty.
func (p *persistence) loadState() State {
	s := State{}
	data, err := os.ReadFile(p.statePath())
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			p.logger.Warn("cannot read state, starting empty", zap.Error(err))
		}
	} else if err := json.Unmarshal(data, &s); err != nil {
		p.logger.Warn("malformed state, starting empty", zap.String("path", p.statePath()), zap.Error(err))
		s = State{}
	}
	if s.Tomorrow == nil {
		s.Tomorrow = make(map[string]string)
	}
	return s
}

func (p *persistence) saveState(s State) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode state: %w", err)
	}
	if err := writeFileAtomic(p.statePath(), data); err != nil {
		return fmt.Errorf("store: save state: %w", err)
	}
	return nil
}

// Form returns the cached form.
func (p *persistence) Form() report.Form {
	return p.loadState().Form
}

// SaveForm replaces the cached form, keeping carried plans.
func (p *persistence) SaveForm(f report.Form) error {
	s := p.loadState()
	s.Form = f
	return p.saveState(s)
}

// Carry returns the carried tomorrow plan for userKey.
func (p *persistence) Carry(userKey string) string {
	return p.loadState().Tomorrow[userKey]
}

// SaveCarry records plan as the carried tomorrow plan for userKey.
func (p *persistence) SaveCarry(userKey, plan string) error {
	s := p.loadState()
	s.Tomorrow[userKey] = plan
	return p.saveState(s)
}
