package ai

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/guilamu/distillpress/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	usageLogKey = "distillpress_usage_log"
	usageLogMax = 10
)

// Action types recorded in the usage log.
const (
	ActionChatCompletion = "chat_completion"
	ActionChatWithSystem = "chat_with_system"
)

// UsageLogEntry is one recorded provider request. Nil counters mean the
// provider did not report that figure.
type UsageLogEntry struct {
	Timestamp        time.Time `json:"timestamp"`
	ActionType       string    `json:"action_type"`
	Model            string    `json:"model"`
	CostPoints       *int      `json:"cost_points"`
	PromptTokens     *int      `json:"prompt_tokens"`
	CompletionTokens *int      `json:"completion_tokens"`
	TotalTokens      *int      `json:"total_tokens"`
}

// UsageLog is a bounded, newest-first request log persisted as a single
// JSON option row. It is diagnostic, not authoritative: last-write-wins
// under concurrent writers is acceptable.
type UsageLog struct {
	db *gorm.DB
	mu sync.Mutex
}

func NewUsageLog(db *gorm.DB) *UsageLog { return &UsageLog{db: db} }

// Record prepends an entry and truncates the log to the most recent
// entries.
func (l *UsageLog) Record(entry UsageLogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.load()
	if err != nil {
		return err
	}

	entries = append([]UsageLogEntry{entry}, entries...)
	if len(entries) > usageLogMax {
		entries = entries[:usageLogMax]
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	opt := models.OptionModel{Name: usageLogKey, Value: string(data)}
	return l.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&opt).Error
}

// List returns the logged entries, newest first.
func (l *UsageLog) List() ([]UsageLogEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load()
}

func (l *UsageLog) load() ([]UsageLogEntry, error) {
	var opt models.OptionModel
	err := l.db.Where("name = ?", usageLogKey).First(&opt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []UsageLogEntry{}, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []UsageLogEntry
	if err := json.Unmarshal([]byte(opt.Value), &entries); err != nil {
		// A corrupt log row is diagnostic data only; start fresh.
		return []UsageLogEntry{}, nil
	}
	return entries, nil
}
