package model

// swagger:model Participant
type Participant struct {
	BaseModel
	FirstName    string `gorm:"size:100;not null" json:"firstName"`
	LastName     string `gorm:"size:100" json:"lastName"`
	Email        string `gorm:"size:100;unique;not null" json:"email"`
	Phone        string `gorm:"size:40" json:"phone"`
	Timezone     string `gorm:"size:64" json:"timezone"`
	CRMContactID string `gorm:"size:64;index" json:"crmContactId"` // cached external contact id, refreshed on sync
}

func (Participant) TableName() string {
	return "participants"
}
