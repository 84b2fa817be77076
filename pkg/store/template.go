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

func (p *persistence) templatePath() string {
	return filepath.Join(p.basePath, templateFile)
}

// Template returns the saved template, repaired if needed, or the built-in
// default when nothing usable is on disk.
func (p *persistence) Template() report.Template {
	fallback := report.DefaultTemplate(p.variant)

	data, err := os.ReadFile(p.templatePath())
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			p.logger.Warn("cannot read template, using default", zap.Error(err))
		}
		return fallback
	}
	t, err := report.ParseTemplate(data)
	if err != nil {
		p.logger.Warn("malformed template, using default", zap.String("path", p.templatePath()), zap.Error(err))
		return fallback
	}
	t, dropped := t.Repair()
	for _, d := range dropped {
		p.logger.Warn("ignoring template section", zap.String("section", d))
	}
	if len(t) == 0 {
		return fallback
	}
	return t
}

// SaveTemplate validates and writes t.
func (p *persistence) SaveTemplate(t report.Template) error {
	if err := t.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode template: %w", err)
	}
	if err := writeFileAtomic(p.templatePath(), data); err != nil {
		return fmt.Errorf("store: save template: %w", err)
	}
	return nil
}

// ResetTemplate removes the saved template so the default applies again.
func (p *persistence) ResetTemplate() error {
	if err := os.Remove(p.templatePath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("store: reset template: %w", err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
