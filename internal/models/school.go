package models

// School is the only persisted entity. Rows are inserted once and never
// updated or deleted by the service.
type School struct {
	ID      uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name    string `json:"name" gorm:"not null;size:255"`
	Address string `json:"address" gorm:"type:text;not null"`
	City    string `json:"city" gorm:"not null;size:100"`
	State   string `json:"state" gorm:"not null;size:100"`
	Contact int64  `json:"contact" gorm:"not null"`
	Image   string `json:"image" gorm:"type:text;not null"`
	EmailID string `json:"email_id" gorm:"column:email_id;not null;size:255"`
}

func (School) TableName() string {
	return "schools"
}
