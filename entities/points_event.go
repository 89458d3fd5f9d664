package entities

const (
	EventNewReport      = "new_report"
	EventConfirmIssue   = "confirm_issue"
	EventReportResolved = "report_resolved"
)

// PointsEvent is emitted by the Report Service whenever a citizen does
// something worth points, either over HTTP or the events topic.
type PointsEvent struct {
	EventID   string `json:"event_id,omitempty"`
	UserID    uint   `json:"user_id"`
	EventType string `json:"event_type"`
}

type PointsEventResult struct {
	Message     string `json:"message"`
	UserID      uint   `json:"user_id"`
	PointsAdded int    `json:"points_added"`
	NewTotal    int    `json:"new_total"`
}

// PointsAuditRecord is published to the audit topic after an event is applied.
type PointsAuditRecord struct {
	EventID     string `json:"event_id"`
	UserID      uint   `json:"user_id"`
	EventType   string `json:"event_type"`
	PointsAdded int    `json:"points_added"`
	NewTotal    int    `json:"new_total"`
	ProcessedAt int64  `json:"processed_at"`
}
