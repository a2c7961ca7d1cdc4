package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
// Results are returned newest first.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// ActivityKind names a learner activity event.
type ActivityKind string

const (
	ActivityLevelUnlocked      ActivityKind = "level_unlocked"
	ActivityTreasureAdded      ActivityKind = "treasure_added"
	ActivityTreasureRemoved    ActivityKind = "treasure_removed"
	ActivityChallengeStarted   ActivityKind = "challenge_started"
	ActivityChallengeCompleted ActivityKind = "challenge_completed"
	ActivityStoryFinished      ActivityKind = "story_finished"
	ActivityStorySaved         ActivityKind = "story_saved"
	ActivityStoryDeleted       ActivityKind = "story_deleted"
	ActivityProgressReset      ActivityKind = "progress_reset"
)

// ActivityEventData captures a single learner activity.
type ActivityEventData struct {
	Kind        ActivityKind
	SessionID   string // challenge session, when applicable
	LevelID     int
	CharacterID int
	Detail      string
}

// ActivityEventRecord is a persisted activity event.
type ActivityEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	ActivityEventData
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a persisted LLM request event.
type LLMRequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// ActivityLog is the append side of the activity stream.
type ActivityLog interface {
	AppendActivity(ctx context.Context, data ActivityEventData) error
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	ActivityLog

	// QueryActivity returns activity events matching opts, newest first.
	QueryActivity(ctx context.Context, opts QueryOpts) ([]ActivityEventRecord, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events matching opts, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns a single LLM event by id, or nil if none exists.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)
}
