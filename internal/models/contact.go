package models

// ContactStatus tracks inbox handling of a submission.
type ContactStatus string

const (
	ContactNew      ContactStatus = "new"
	ContactRead     ContactStatus = "read"
	ContactArchived ContactStatus = "archived"
)

func (s ContactStatus) Valid() bool {
	switch s {
	case ContactNew, ContactRead, ContactArchived:
		return true
	}
	return false
}

// ContactSubmissionModel is a lead captured by the public contact form.
type ContactSubmissionModel struct {
	Base
	Name          string        `json:"name"           gorm:"not null"`
	Email         string        `json:"email"          gorm:"index;not null"`
	Company       string        `json:"company"`
	JobTitle      string        `json:"job_title"`
	CompanySize   string        `json:"company_size"`
	MonthlyVolume string        `json:"monthly_volume"`
	Timeline      string        `json:"timeline"`
	Message       string        `json:"message"        gorm:"type:text"`
	Source        string        `json:"source"`
	LeadScore     int           `json:"lead_score"     gorm:"index"`
	LeadTier      string        `json:"lead_tier"      gorm:"type:varchar(8);index"`
	Status        ContactStatus `json:"status"         gorm:"type:varchar(16);index;not null;default:'new'"`
	IP            string        `json:"-"`
}

func (ContactSubmissionModel) TableName() string { return "contact_submissions" }
