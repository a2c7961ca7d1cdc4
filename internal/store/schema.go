package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table names.
const (
	recordsTable  = "records"
	activityTable = "activity_events"
	llmTable      = "llm_request_events"
)

// eventColumns are shared by every event table: a row id, the global
// sequence, and the wall-clock timestamp.
func eventColumns(extra ...*schema.Column) []*schema.Column {
	cols := []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
	}
	return append(cols, extra...)
}

var (
	// RecordsColumns holds the columns for the "records" table.
	RecordsColumns = []*schema.Column{
		{Name: "key", Type: field.TypeString},
		{Name: "value", Type: field.TypeBytes},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// RecordsTable holds the persisted key/value records.
	RecordsTable = &schema.Table{
		Name:       recordsTable,
		Columns:    RecordsColumns,
		PrimaryKey: []*schema.Column{RecordsColumns[0]},
	}

	// ActivityColumns holds the columns for the "activity_events" table.
	ActivityColumns = eventColumns(
		&schema.Column{Name: "kind", Type: field.TypeString},
		&schema.Column{Name: "session_id", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "level_id", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "character_id", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "detail", Type: field.TypeString, Default: ""},
	)
	// ActivityTable records learner activity (unlocks, treasures, stories).
	ActivityTable = &schema.Table{
		Name:       activityTable,
		Columns:    ActivityColumns,
		PrimaryKey: []*schema.Column{ActivityColumns[0]},
		Indexes: []*schema.Index{
			{Name: "activityevent_kind", Columns: []*schema.Column{ActivityColumns[3]}},
		},
	}

	// LLMColumns holds the columns for the "llm_request_events" table.
	LLMColumns = eventColumns(
		&schema.Column{Name: "provider", Type: field.TypeString},
		&schema.Column{Name: "model", Type: field.TypeString},
		&schema.Column{Name: "purpose", Type: field.TypeString},
		&schema.Column{Name: "input_tokens", Type: field.TypeInt},
		&schema.Column{Name: "output_tokens", Type: field.TypeInt},
		&schema.Column{Name: "latency_ms", Type: field.TypeInt64},
		&schema.Column{Name: "success", Type: field.TypeBool},
		&schema.Column{Name: "error_message", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "request_body", Type: field.TypeString, Size: 1 << 20, Default: ""},
		&schema.Column{Name: "response_body", Type: field.TypeString, Size: 1 << 20, Default: ""},
	)
	// LLMTable records every LLM API call.
	LLMTable = &schema.Table{
		Name:       llmTable,
		Columns:    LLMColumns,
		PrimaryKey: []*schema.Column{LLMColumns[0]},
	}

	// Tables holds every table migrated by Open.
	Tables = []*schema.Table{
		RecordsTable,
		ActivityTable,
		LLMTable,
	}
)
