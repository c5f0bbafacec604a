package models

// Skill is something a user can offer or seek.
type Skill struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Category string `gorm:"size:100;not null" json:"category"`
}

// TableName specifies the table name for GORM
func (Skill) TableName() string {
	return "skills"
}
