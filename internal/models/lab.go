package models

// Lab is the originating laboratory/organization of a bill or report.
// Deduplicated by labId first, then by case-insensitive name match.
type Lab struct {
	BaseModel
	LabID   string `gorm:"uniqueIndex;size:100;not null" json:"labId"`
	Name    string `gorm:"size:255;not null;index" json:"name"`
	Email   string `gorm:"size:255" json:"email,omitempty"`
	Phone   string `gorm:"size:50" json:"phone,omitempty"`
	Address string `gorm:"size:500" json:"address,omitempty"`
	City    string `gorm:"size:100" json:"city,omitempty"`
	State   string `gorm:"size:100" json:"state,omitempty"`
	Country string `gorm:"size:100" json:"country,omitempty"`
}
