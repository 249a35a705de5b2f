package models

import "time"

// Hcp represents the hcps table (healthcare providers visited by reps)
// The (name, area_tag) pair is unique
type Hcp struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null;uniqueIndex:idx_hcps_name_area_tag" json:"name"`
	AreaTag   string    `gorm:"column:area_tag;size:255;not null;default:'';uniqueIndex:idx_hcps_name_area_tag" json:"areaTag"`
	Specialty string    `gorm:"size:255;not null" json:"specialty"`
	Phone     *string   `gorm:"size:50" json:"phone"`
	Email     *string   `gorm:"size:255" json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for Hcp model
func (Hcp) TableName() string {
	return "hcps"
}

// SalesRep represents the sales_reps table
type SalesRep struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null;index" json:"name"`
	Email       *string   `gorm:"size:255" json:"email"`
	TerritoryID *uint     `gorm:"column:territory_id;index" json:"territoryId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Relationships
	Territory *Territory `gorm:"foreignKey:TerritoryID" json:"territory,omitempty"`
}

// TableName specifies the table name for SalesRep model
func (SalesRep) TableName() string {
	return "sales_reps"
}

// Territory represents the territories table
type Territory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Code      string    `gorm:"size:50;not null;uniqueIndex" json:"code"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for Territory model
func (Territory) TableName() string {
	return "territories"
}
