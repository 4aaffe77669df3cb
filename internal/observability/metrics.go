package observability

import (
	"fmt"
	"time"
)

// Metrics holds usage counters derived from the event log. They feed the
// stats command and the MCP get_metrics tool.
type Metrics struct {
	TasksCreated      int        `json:"tasks_created"`
	TasksCompleted    int        `json:"tasks_completed"`
	TasksDeleted      int        `json:"tasks_deleted"`
	EnhancesApplied   int        `json:"enhances_applied"`
	ProposalsAccepted int        `json:"proposals_accepted"`
	ProposalsRejected int        `json:"proposals_rejected"`
	AIFailures        int        `json:"ai_failures"`
	EventCount        int        `json:"event_count"`
	OldestEvent       *time.Time `json:"oldest_event,omitempty"`
	NewestEvent       *time.Time `json:"newest_event,omitempty"`
}

// MetricsCalculator derives metrics from the event log.
type MetricsCalculator interface {
	Calculate(since time.Time) (*Metrics, error)
}

type metricsCalculator struct {
	eventLog EventLog
}

// NewMetricsCalculator creates a MetricsCalculator reading from the given EventLog.
func NewMetricsCalculator(eventLog EventLog) MetricsCalculator {
	return &metricsCalculator{eventLog: eventLog}
}

// Calculate reads all events since the given time and aggregates them.
func (mc *metricsCalculator) Calculate(since time.Time) (*Metrics, error) {
	events, err := mc.eventLog.Read(EventFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("reading events for metrics: %w", err)
	}

	m := &Metrics{EventCount: len(events)}
	for i, event := range events {
		if i == 0 {
			t := event.Time
			m.OldestEvent = &t
		}
		t := event.Time
		m.NewestEvent = &t

		switch event.Type {
		case EventTaskCreated:
			m.TasksCreated++
		case EventTaskStatusChanged:
			if status, ok := event.Data["new_status"].(string); ok && status == "COMPLETED" {
				m.TasksCompleted++
			}
		case EventTaskDeleted:
			m.TasksDeleted++
		case EventEnhanceApplied:
			m.EnhancesApplied++
		case EventProposalAccepted:
			m.ProposalsAccepted++
		case EventProposalRejected:
			m.ProposalsRejected++
		case EventAIRequestFailed:
			m.AIFailures++
		}
	}
	return m, nil
}
