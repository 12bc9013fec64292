package models

import "time"

// Response walks a linear lifecycle: unsubmitted (SubmittedAt nil), submitted,
// then signed. Signed implies SubmittedAt is set. The token is a bearer
// capability embedded in the member's distribution link.
type Response struct {
	BaseModel

	SurveyID uint   `json:"survey_id"`
	MemberID uint   `json:"member_id"`
	Member   Member `json:"member"`

	Token          string     `json:"-" gorm:"uniqueIndex"`
	SubmittedAt    *time.Time `json:"submitted_at"`
	SignatureToken *string    `json:"-"`
	Signed         bool       `json:"signed"`
	SignedAt       *time.Time `json:"signed_at"`

	Answers []Answer `json:"answers"`
}

func (r Response) Submitted() bool {
	return r.SubmittedAt != nil
}

// Answer holds one value per (response, question) pair. Array values are
// stored JSON-encoded; answers are replaced wholesale on resubmission.
type Answer struct {
	BaseModel

	ResponseID uint   `json:"response_id"`
	QuestionID uint   `json:"question_id"`
	Value      string `json:"value"`
}

type Reminder struct {
	BaseModel

	SurveyID    uint      `json:"survey_id"`
	MemberID    uint      `json:"member_id"`
	SentAt      time.Time `json:"sent_at"`
	ReminderNum int       `json:"reminder_num"`
}
