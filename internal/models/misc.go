package models

// OptionModel is a key-value store for site configuration. Value holds JSON.
type OptionModel struct {
	ID    uint   `json:"-"     gorm:"primaryKey;autoIncrement"`
	Name  string `json:"name"  gorm:"uniqueIndex;not null"`
	Value string `json:"value" gorm:"type:longtext"`
}

func (OptionModel) TableName() string { return "options" }

// MediaModel records a file uploaded to object storage.
type MediaModel struct {
	Base
	Key         string `json:"key"          gorm:"uniqueIndex;not null"`
	URL         string `json:"url"          gorm:"not null"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	UploaderID  string `json:"uploader_id"  gorm:"type:char(36);index"`
}

func (MediaModel) TableName() string { return "media" }
