package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	QuestionTypeMultiSingle = "MULTI_SINGLE"
	QuestionTypeMultiMulti  = "MULTI_MULTI"
	QuestionTypeYesNo       = "YES_NO"
	QuestionTypeRating5     = "RATING_5"
	QuestionTypeParagraph   = "PARAGRAPH"
)

type Survey struct {
	BaseModel

	Title       string    `json:"title"`
	Description string    `json:"description"`
	OpensAt     time.Time `json:"opens_at"`
	ClosesAt    time.Time `json:"closes_at"`

	MemberListID uint       `json:"member_list_id"`
	MemberList   MemberList `json:"member_list"`

	InitialSentAt        *time.Time `json:"initial_sent_at"`
	NotifyOnMinResponses bool       `json:"notify_on_min_responses"`
	MinResponses         int        `json:"min_responses"`

	Questions []Question `json:"questions"`
	Responses []Response `json:"responses"`
}

func (s Survey) Closed(now time.Time) bool {
	return now.After(s.ClosesAt)
}

// ShowWhenRule hides a question until the answer of the question at the
// trigger sort order satisfies the operator against Value.
type ShowWhenRule struct {
	Question int    `json:"question"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

type Question struct {
	BaseModel

	SurveyID  uint                              `json:"survey_id"`
	Text      string                            `json:"text"`
	Type      string                            `json:"type"`
	Options   datatypes.JSONSlice[string]       `json:"options"`
	SortOrder int                               `json:"sort_order"`
	Required  bool                              `json:"required"`
	ShowWhen  *datatypes.JSONType[ShowWhenRule] `json:"show_when"`
}
