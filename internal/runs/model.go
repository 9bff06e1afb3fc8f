package runs

import "time"

// Run is one completed pipeline invocation in the history table.
type Run struct {
	ID         string `gorm:"primaryKey;size:36"`
	Rows       int
	DurationMS int64
	// Components holds a JSON object of component -> "ok" or failure message.
	Components string `gorm:"type:text"`
	CreatedAt  time.Time
}

func (Run) TableName() string {
	return "pipeline_runs"
}
