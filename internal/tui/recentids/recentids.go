// ABOUTME: Remembers the login IDs recently used on this machine
// ABOUTME: Stored as JSON next to the config so the login screen can suggest them

package recentids

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// MaxRecentIDs is the maximum number of login IDs to keep
const MaxRecentIDs = 5

// RecentIDs manages the list of recently used login IDs
type RecentIDs struct {
	configDir string
	ids       []string
}

type recentData struct {
	IDs []string `json:"login_ids"`
}

// New creates a RecentIDs manager with the given config directory
func New(configDir string) *RecentIDs {
	return &RecentIDs{configDir: configDir}
}

func (r *RecentIDs) configFile() string {
	return filepath.Join(r.configDir, "recent.json")
}

// Load reads the list from disk; a missing or corrupt file yields an empty list
func (r *RecentIDs) Load() ([]string, error) {
	data, err := os.ReadFile(r.configFile())
	if os.IsNotExist(err) {
		r.ids = []string{}
		return r.ids, nil
	}
	if err != nil {
		return nil, err
	}

	var recent recentData
	if err := json.Unmarshal(data, &recent); err != nil {
		r.ids = []string{}
		return r.ids, nil
	}

	r.ids = make([]string, 0, len(recent.IDs))
	for _, id := range recent.IDs {
		if strings.TrimSpace(id) != "" {
			r.ids = append(r.ids, id)
		}
	}
	return r.ids, nil
}

// Save writes the list to disk, trimmed to MaxRecentIDs
func (r *RecentIDs) Save(ids []string) error {
	if err := os.MkdirAll(r.configDir, 0o700); err != nil {
		return err
	}

	if len(ids) > MaxRecentIDs {
		ids = ids[:MaxRecentIDs]
	}
	r.ids = ids

	data, err := json.MarshalIndent(recentData{IDs: ids}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.configFile(), data, 0o600)
}

// Add moves id to the front of the list
func (r *RecentIDs) Add(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	if r.ids == nil {
		if _, err := r.Load(); err != nil {
			r.ids = []string{}
		}
	}

	ids := make([]string, 0, len(r.ids)+1)
	ids = append(ids, id)
	for _, existing := range r.ids {
		if existing != id {
			ids = append(ids, existing)
		}
	}
	return r.Save(ids)
}

// List returns the current list, loading it on first use
func (r *RecentIDs) List() []string {
	if r.ids == nil {
		r.Load()
	}
	return r.ids
}
