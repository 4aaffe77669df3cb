package storage

import (
	"encoding/json"
	"fmt"

	"github.com/drapaimern/lumina/internal/observability"
	"github.com/drapaimern/lumina/pkg/models"
)

// Fixed device-store keys, mirroring the keys the original board used.
const (
	TasksKey = "lumina-tasks"
	ThemeKey = "lumina-theme"
)

// TaskRepository persists the whole task collection as one JSON blob under
// TasksKey. Every mutation saves the full collection; there is no batching
// and no partial recovery of malformed entries.
type TaskRepository interface {
	// Load returns the persisted collection. A missing or malformed blob
	// yields an empty collection; failures are logged, never surfaced.
	Load() []models.Task
	// Save serializes and writes the collection unconditionally.
	Save(tasks []models.Task) error
}

type kvTaskRepository struct {
	kv  KVStore
	log observability.EventLog
}

// NewTaskRepository creates a TaskRepository over the given KVStore.
// log may be nil.
func NewTaskRepository(kv KVStore, log observability.EventLog) TaskRepository {
	return &kvTaskRepository{kv: kv, log: log}
}

func (r *kvTaskRepository) Load() []models.Task {
	raw, ok, err := r.kv.Get(TasksKey)
	if err != nil {
		observability.RecordWarn(r.log, observability.EventStorageParseFail,
			"reading task blob failed", map[string]any{"error": err.Error()})
		return []models.Task{}
	}
	if !ok {
		return []models.Task{}
	}

	var tasks []models.Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		observability.RecordWarn(r.log, observability.EventStorageParseFail,
			"task blob is malformed, starting empty", map[string]any{"error": err.Error()})
		return []models.Task{}
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks
}

func (r *kvTaskRepository) Save(tasks []models.Task) error {
	if tasks == nil {
		tasks = []models.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("serializing tasks: %w", err)
	}
	if err := r.kv.Set(TasksKey, string(data)); err != nil {
		observability.RecordWarn(r.log, observability.EventStorageWriteFail,
			"persisting tasks failed", map[string]any{"error": err.Error()})
		return fmt.Errorf("persisting tasks: %w", err)
	}
	return nil
}

// LoadTheme returns the persisted theme preference ("dark" or "light"),
// falling back to the given ambient default. Unrecognized values fall back
// too.
func LoadTheme(kv KVStore, fallback string) string {
	raw, ok, err := kv.Get(ThemeKey)
	if err != nil || !ok {
		return fallback
	}
	if raw != "dark" && raw != "light" {
		return fallback
	}
	return raw
}

// SaveTheme persists the theme preference. Last write wins.
func SaveTheme(kv KVStore, theme string) error {
	return kv.Set(ThemeKey, theme)
}
