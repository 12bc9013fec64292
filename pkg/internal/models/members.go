package models

type MemberList struct {
	BaseModel

	Name    string   `json:"name"`
	Members []Member `json:"members" gorm:"many2many:member_list_members"`
	Surveys []Survey `json:"surveys"`
}

// Member is deleted automatically once its last list membership is removed.
type Member struct {
	BaseModel

	Lot     string `json:"lot"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`

	Lists []MemberList `json:"lists" gorm:"many2many:member_list_members"`
}
