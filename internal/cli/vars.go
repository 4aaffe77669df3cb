package cli

import (
	"github.com/drapaimern/lumina/internal/ai"
	"github.com/drapaimern/lumina/internal/observability"
	"github.com/drapaimern/lumina/internal/storage"
	"github.com/drapaimern/lumina/pkg/models"
)

// Service instances, set during app initialization in internal/app.go.
var (
	BasePath    string
	Cfg         *models.Config
	KV          storage.KVStore
	Repo        storage.TaskRepository
	Assist      ai.Assistant
	EventLog    observability.EventLog
	MetricsCalc observability.MetricsCalculator
)
