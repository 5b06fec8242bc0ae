package models

// ContactModel is one message submitted through the contact form.
type ContactModel struct {
	Base
	Name    string `json:"name"    gorm:"not null"`
	Email   string `json:"email"   gorm:"not null"`
	Subject string `json:"subject" gorm:"not null"`
	Message string `json:"message" gorm:"type:text;not null"`
	Read    bool   `json:"read"    gorm:"not null;default:false"`
}

func (ContactModel) TableName() string { return "contacts" }
