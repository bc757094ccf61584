package config

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"llmgateway/logger"
)

var (
	// ErrNameRequired is returned when a provider or group is upserted without a name.
	ErrNameRequired = errors.New("name is required")
	// ErrNotFound is returned when a delete targets a record that does not exist.
	ErrNotFound = errors.New("not found")
)

const keyAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Store owns the four flat JSON documents that make up the gateway's
// persisted state: providers, groups, access keys, and aggregate stats.
// Reads and writes are read-mostly; each document has its own lock so a
// write to one never blocks a read of another.
type Store struct {
	dir string

	providersMu sync.RWMutex
	providers   map[string]Provider

	groupsMu sync.RWMutex
	groups   map[string]Group

	keysMu sync.RWMutex
	keys   map[string]AccessKey

	statsMu sync.Mutex
	stats   map[string]*ProviderStats
}

// Open loads (or lazily creates) the four JSON documents under dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating config dir: %w", err)
	}

	s := &Store{dir: dir}

	providers := make(map[string]Provider)
	if err := loadJSON(s.path("providers.json"), &providers); err != nil {
		return nil, err
	}
	s.providers = providers

	groups := make(map[string]Group)
	if err := loadJSON(s.path("groups.json"), &groups); err != nil {
		return nil, err
	}
	s.groups = groups

	keys := make(map[string]AccessKey)
	if err := loadJSON(s.path("keys.json"), &keys); err != nil {
		return nil, err
	}
	s.keys = keys

	stats := make(map[string]*ProviderStats)
	if err := loadJSON(s.path("stats.json"), &stats); err != nil {
		return nil, err
	}
	s.stats = stats

	return s, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

// Reload re-reads all four documents from disk, replacing the in-memory
// state wholesale. Used by Watcher after an external edit.
func (s *Store) Reload() error {
	providers := make(map[string]Provider)
	if err := loadJSON(s.path("providers.json"), &providers); err != nil {
		return err
	}
	groups := make(map[string]Group)
	if err := loadJSON(s.path("groups.json"), &groups); err != nil {
		return err
	}
	keys := make(map[string]AccessKey)
	if err := loadJSON(s.path("keys.json"), &keys); err != nil {
		return err
	}
	stats := make(map[string]*ProviderStats)
	if err := loadJSON(s.path("stats.json"), &stats); err != nil {
		return err
	}

	s.providersMu.Lock()
	s.providers = providers
	s.providersMu.Unlock()

	s.groupsMu.Lock()
	s.groups = groups
	s.groupsMu.Unlock()

	s.keysMu.Lock()
	s.keys = keys
	s.keysMu.Unlock()

	s.statsMu.Lock()
	s.stats = stats
	s.statsMu.Unlock()

	return nil
}

func loadJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// saveJSON writes via a temp file in the same directory followed by a
// rename, so a reader never observes a partially written document.
func saveJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("renaming %s: %w", tmp, err)
	}
	return nil
}

// --- Providers ---

// ListProviders returns all configured providers, in no particular order.
func (s *Store) ListProviders() []Provider {
	s.providersMu.RLock()
	defer s.providersMu.RUnlock()

	out := make([]Provider, 0, len(s.providers))
	for _, p := range s.providers {
		out = append(out, p)
	}
	return out
}

// GetProvider returns a provider by name.
func (s *Store) GetProvider(name string) (Provider, bool) {
	s.providersMu.RLock()
	defer s.providersMu.RUnlock()
	p, ok := s.providers[name]
	return p, ok
}

// UpsertProvider creates or replaces a provider, keyed by name.
func (s *Store) UpsertProvider(p Provider) error {
	if p.Name == "" {
		return ErrNameRequired
	}

	s.providersMu.Lock()
	defer s.providersMu.Unlock()

	s.providers[p.Name] = p
	if err := saveJSON(s.path("providers.json"), s.providers); err != nil {
		logger.Error("failed to persist providers", "error", err.Error())
		return err
	}
	return nil
}

// DeleteProvider removes a provider by name.
func (s *Store) DeleteProvider(name string) error {
	s.providersMu.Lock()
	defer s.providersMu.Unlock()

	if _, ok := s.providers[name]; !ok {
		return ErrNotFound
	}
	delete(s.providers, name)
	if err := saveJSON(s.path("providers.json"), s.providers); err != nil {
		logger.Error("failed to persist providers", "error", err.Error())
		return err
	}
	return nil
}

// --- Groups ---

// ListGroups returns all configured groups.
func (s *Store) ListGroups() []Group {
	s.groupsMu.RLock()
	defer s.groupsMu.RUnlock()

	out := make([]Group, 0, len(s.groups))
	for _, g := range s.groups {
		out = append(out, g)
	}
	return out
}

// GetGroup returns a group by name.
func (s *Store) GetGroup(name string) (Group, bool) {
	s.groupsMu.RLock()
	defer s.groupsMu.RUnlock()
	g, ok := s.groups[name]
	return g, ok
}

// UpsertGroup creates or replaces a group, keyed by name; rejects a missing name.
func (s *Store) UpsertGroup(g Group) error {
	if g.Name == "" {
		return ErrNameRequired
	}

	s.groupsMu.Lock()
	defer s.groupsMu.Unlock()

	s.groups[g.Name] = g
	if err := saveJSON(s.path("groups.json"), s.groups); err != nil {
		logger.Error("failed to persist groups", "error", err.Error())
		return err
	}
	return nil
}

// DeleteGroup removes a group by name.
func (s *Store) DeleteGroup(name string) error {
	s.groupsMu.Lock()
	defer s.groupsMu.Unlock()

	if _, ok := s.groups[name]; !ok {
		return ErrNotFound
	}
	delete(s.groups, name)
	if err := saveJSON(s.path("groups.json"), s.groups); err != nil {
		logger.Error("failed to persist groups", "error", err.Error())
		return err
	}
	return nil
}

// --- Access keys ---

// ListKeys returns all access keys.
func (s *Store) ListKeys() []AccessKey {
	s.keysMu.RLock()
	defer s.keysMu.RUnlock()

	out := make([]AccessKey, 0, len(s.keys))
	for _, k := range s.keys {
		out = append(out, k)
	}
	return out
}

// MatchToken returns the access key whose token equals the presented bearer
// token, if any.
func (s *Store) MatchToken(token string) (AccessKey, bool) {
	s.keysMu.RLock()
	defer s.keysMu.RUnlock()

	for _, k := range s.keys {
		if k.Token == token {
			return k, true
		}
	}
	return AccessKey{}, false
}

// UpsertKey creates or replaces an access key. A missing ID is generated; a
// missing token is synthesized as "sk-<9 random chars>".
func (s *Store) UpsertKey(k AccessKey) (AccessKey, error) {
	if k.ID == "" {
		id, err := randomID(12)
		if err != nil {
			return AccessKey{}, err
		}
		k.ID = id
	}
	if k.Token == "" {
		tok, err := randomToken()
		if err != nil {
			return AccessKey{}, err
		}
		k.Token = tok
	}

	s.keysMu.Lock()
	defer s.keysMu.Unlock()

	s.keys[k.ID] = k
	if err := saveJSON(s.path("keys.json"), s.keys); err != nil {
		logger.Error("failed to persist keys", "error", err.Error())
		return AccessKey{}, err
	}
	return k, nil
}

// DeleteKey removes an access key by id.
func (s *Store) DeleteKey(id string) error {
	s.keysMu.Lock()
	defer s.keysMu.Unlock()

	if _, ok := s.keys[id]; !ok {
		return ErrNotFound
	}
	delete(s.keys, id)
	if err := saveJSON(s.path("keys.json"), s.keys); err != nil {
		logger.Error("failed to persist keys", "error", err.Error())
		return err
	}
	return nil
}

// --- Aggregate stats ---

// IncrementFailure bumps a provider's lifetime failure counter by one and
// persists stats.json. The increment and the write both happen under
// statsMu, so concurrent increments within this process are serialized. A
// failed write is logged and otherwise ignored: the counter is advisory.
func (s *Store) IncrementFailure(provider string) {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()

	st, ok := s.stats[provider]
	if !ok {
		st = &ProviderStats{}
		s.stats[provider] = st
	}
	st.Failures++

	if err := saveJSON(s.path("stats.json"), s.stats); err != nil {
		logger.Error("failed to persist stats", "error", err.Error())
	}
}

// GetStats returns a snapshot of every provider's aggregate stats.
func (s *Store) GetStats() map[string]ProviderStats {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()

	out := make(map[string]ProviderStats, len(s.stats))
	for name, st := range s.stats {
		out[name] = *st
	}
	return out
}

func randomID(n int) (string, error) {
	return randomFromAlphabet(n)
}

func randomToken() (string, error) {
	suffix, err := randomFromAlphabet(9)
	if err != nil {
		return "", err
	}
	return "sk-" + suffix, nil
}

func randomFromAlphabet(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating random id: %w", err)
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = keyAlphabet[int(b)%len(keyAlphabet)]
	}
	return string(out), nil
}
