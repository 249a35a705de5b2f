package models

import "time"

// Visit statuses
const (
	VisitStatusScheduled = "scheduled"
	VisitStatusCompleted = "completed"
	VisitStatusCancelled = "cancelled"
)

// AllowedVisitStatuses lists the statuses a visit may carry, in the order used by error messages
var AllowedVisitStatuses = []string{VisitStatusScheduled, VisitStatusCompleted, VisitStatusCancelled}

// Visit represents the visits table
// Visits are read-only for the API; they are written by seeding and import tooling
type Visit struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	VisitDate       Date      `gorm:"type:date;not null;index" json:"visitDate"`
	Status          string    `gorm:"size:20;not null;index" json:"status"`
	DurationMinutes int       `gorm:"not null;default:0" json:"durationMinutes"`
	Notes           *string   `gorm:"type:text" json:"notes"`
	RepID           uint      `gorm:"column:rep_id;not null;index" json:"-"`
	HcpID           uint      `gorm:"column:hcp_id;not null;index" json:"-"`
	TerritoryID     uint      `gorm:"column:territory_id;not null;index" json:"-"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`

	// Relationships
	Rep       *SalesRep  `gorm:"foreignKey:RepID" json:"rep"`
	Hcp       *Hcp       `gorm:"foreignKey:HcpID" json:"hcp"`
	Territory *Territory `gorm:"foreignKey:TerritoryID" json:"territory"`
}

// TableName specifies the table name for Visit model
func (Visit) TableName() string {
	return "visits"
}

// IsValidVisitStatus reports whether status is one of AllowedVisitStatuses
func IsValidVisitStatus(status string) bool {
	for _, allowed := range AllowedVisitStatuses {
		if status == allowed {
			return true
		}
	}
	return false
}
