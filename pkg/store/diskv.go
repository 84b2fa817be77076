package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/peterbourgon/diskv/v3"
	"go.uber.org/zap"

	"tableflip.dev/daily/pkg/logging"
	"tableflip.dev/daily/pkg/report"
)

// Persistence defines the persistence contract for reports, the template and
// the form state.
type Persistence interface {
	Put(e *report.Entry) error
	List(ctx context.Context) []*report.Entry
	Get(ctx context.Context, id string) (*report.Entry, bool)
	Delete(id string) error
	LastTomorrowPlan(ctx context.Context, userKey string) string

	Template() report.Template
	SaveTemplate(t report.Template) error
	ResetTemplate() error

	Form() report.Form
	SaveForm(f report.Form) error
	Carry(userKey string) string
	SaveCarry(userKey, plan string) error

	Watch(ctx context.Context) (<-chan Event, error)
}

const (
	historyDir   = "history"
	templateFile = "template.json"
	stateFile    = "state.json"
	recordExt    = ".json"
	// appendSep separates a token from its sequence number under the
	// append policy: token, token~2, token~3, ...
	appendSep = "~"
)

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config, logger *zap.Logger) (Persistence, error) {
	if cfg == nil {
		fc, err := LoadConfig()
		if err != nil {
			return nil, err
		}
		cfg = fc
	}

	basePath := cfg.BasePath()
	if strings.TrimSpace(basePath) == "" {
		return nil, errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(filepath.Join(basePath, historyDir), 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}

	return &persistence{
		d: diskv.New(diskv.Options{
			BasePath:          filepath.Join(basePath, historyDir),
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			// Other processes may write the same directory; always read disk.
			CacheSizeMax: 0,
		}),
		basePath: basePath,
		policy:   cfg.HistoryPolicy(),
		variant:  cfg.TemplateVariant(),
		logger:   logging.OrNop(logger).Named("store"),
	}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
	policy   Policy
	variant  string
	logger   *zap.Logger
}

func (p *persistence) read(key string) (*report.Entry, error) {
	val, err := p.d.Read(key)
	if err != nil {
		return nil, err
	}
	e := &report.Entry{}
	if err := json.Unmarshal(val, e); err != nil {
		repaired, rerr := repairEntry(val)
		if rerr != nil {
			return nil, err
		}
		p.logger.Warn("repaired malformed history record", zap.String("id", key), zap.Error(err))
		e = repaired
	}
	e.ID = key
	return e, nil
}

func (p *persistence) keys(ctx context.Context) []string {
	var keys []string
	for key := range p.d.Keys(ctx.Done()) {
		if key == "" {
			continue
		}
		keys = append(keys, key)
	}
	return keys
}

// List returns every readable entry, most recent first. Unreadable records
// are logged and skipped.
func (p *persistence) List(ctx context.Context) []*report.Entry {
	all := make([]*report.Entry, 0)
	for _, key := range p.keys(ctx) {
		e, err := p.read(key)
		if err != nil {
			p.logger.Warn("skipping unreadable history record", zap.String("id", key), zap.Error(err))
			continue
		}
		all = append(all, e)
	}
	SortEntries(all)
	return all
}

// Get returns the entry stored under id.
func (p *persistence) Get(_ context.Context, id string) (*report.Entry, bool) {
	if id == "" || !p.d.Has(id) {
		return nil, false
	}
	e, err := p.read(id)
	if err != nil {
		p.logger.Warn("unreadable history record", zap.String("id", id), zap.Error(err))
		return nil, false
	}
	return e, true
}

// Put stores e under its token, or under the next free sequenced token when
// the append policy is active. e.ID is set to the key used.
func (p *persistence) Put(e *report.Entry) error {
	if e == nil {
		return errors.New("store: nil entry")
	}
	token := e.Token()
	key := token
	if p.policy == PolicyAppend {
		key = p.nextAppendKey(token)
	}
	e.ID = key
	if e.Generated.IsZero() {
		e.Generated = time.Now()
	}
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", key, err)
	}
	if err := p.d.Write(key, data); err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	p.logger.Debug("stored report", zap.String("id", key), zap.String("policy", string(p.policy)))
	return nil
}

func (p *persistence) nextAppendKey(token string) string {
	if !p.d.Has(token) {
		return token
	}
	next := 2
	prefix := token + appendSep
	for key := range p.d.KeysPrefix(prefix, nil) {
		n, err := strconv.Atoi(strings.TrimPrefix(key, prefix))
		if err != nil {
			continue
		}
		if n >= next {
			next = n + 1
		}
	}
	return prefix + strconv.Itoa(next)
}

// Delete removes the entry stored under id. Missing ids are ignored.
func (p *persistence) Delete(id string) error {
	if id == "" || !p.d.Has(id) {
		return nil
	}
	if err := p.d.Erase(id); err != nil {
		return fmt.Errorf("store: delete %s: %w", id, err)
	}
	return nil
}

// LastTomorrowPlan returns the tomorrow plan of the most recent entry for
// userKey, or "" when the user has no history.
func (p *persistence) LastTomorrowPlan(ctx context.Context, userKey string) string {
	return LastTomorrowPlan(p.List(ctx), userKey)
}

// LastTomorrowPlan scans entries (in any order) for userKey and returns the
// tomorrow plan of the latest one by ISO date, then generation time.
func LastTomorrowPlan(entries []*report.Entry, userKey string) string {
	var latest *report.Entry
	for _, e := range entries {
		if e == nil || e.UserKey() != userKey {
			continue
		}
		if latest == nil || newer(e, latest) {
			latest = e
		}
	}
	if latest == nil {
		return ""
	}
	return latest.Section(report.KeyTomorrow)
}

// SortEntries orders entries most recent first: date, then generation time,
// then id, all descending.
func SortEntries(entries []*report.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		left, right := entries[i], entries[j]
		if left == nil || right == nil {
			return left != nil
		}
		return newer(left, right)
	})
}

func newer(a, b *report.Entry) bool {
	if a.Date != b.Date {
		return a.Date > b.Date
	}
	if !a.Generated.Equal(b.Generated) {
		return a.Generated.After(b.Generated)
	}
	return a.ID > b.ID
}

// Record file names are the key itself, so history files named after their
// plain token are found as-is. Only bytes a file name cannot hold are escaped,
// plus % so that escapes round-trip.
func keyToPathTransform(key string) *diskv.PathKey {
	return &diskv.PathKey{
		Path:     []string{},
		FileName: escapeKey(key) + recordExt,
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	if len(pathKey.Path) > 0 || !strings.HasSuffix(pathKey.FileName, recordExt) {
		return ""
	}
	key, err := url.PathUnescape(strings.TrimSuffix(pathKey.FileName, recordExt))
	if err != nil {
		return ""
	}
	return key
}

func escapeKey(key string) string {
	var b strings.Builder
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c == '%', c == '/', c == '\\', c < 0x20, c == 0x7f:
			fmt.Fprintf(&b, "%%%02X", c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
