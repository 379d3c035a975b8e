package domain

import "time"

// ApplicationStatus is the lifecycle state of an application.
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusAccepted ApplicationStatus = "accepted"
	StatusRejected ApplicationStatus = "rejected"
)

// Terminal reports whether no further transition is allowed from s.
func (s ApplicationStatus) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// Answer pairs a form question with the submitter's response. Multi-select
// answers are joined into Values; single-value kinds use Values[0].
type Answer struct {
	QuestionID string   `bson:"question_id" json:"questionId"`
	Label      string   `bson:"label" json:"label"`
	Values     []string `bson:"values" json:"values"`
}

// Submitter is the identity snapshot captured at submission time. It is
// denormalized into the application so the record stays meaningful even if
// the identity record changes later.
type Submitter struct {
	UserID      string `bson:"user_id" json:"userId"`
	DisplayName string `bson:"display_name" json:"displayName"`
	AvatarURL   string `bson:"avatar_url,omitempty" json:"avatarUrl,omitempty"`
}

// Application is a guild-scoped submission against a form. Status moves from
// pending to exactly one of accepted/rejected and never again; the decision
// fields are set in the same write as that transition.
type Application struct {
	ID          string            `bson:"_id" json:"id"`
	GuildID     string            `bson:"guild_id" json:"guildId"`
	FormID      string            `bson:"form_id" json:"formId"`
	Submitter   Submitter         `bson:"submitter" json:"submitter"`
	Answers     []Answer          `bson:"answers" json:"answers"`
	Status      ApplicationStatus `bson:"status" json:"status"`
	SubmittedAt time.Time         `bson:"submitted_at" json:"submittedAt"`

	ReviewerID   string     `bson:"reviewer_id,omitempty" json:"reviewerId,omitempty"`
	ReviewerName string     `bson:"reviewer_name,omitempty" json:"reviewerName,omitempty"`
	DecidedAt    *time.Time `bson:"decided_at,omitempty" json:"decidedAt,omitempty"`
}

// SideEffectState describes the outcome of one best-effort step of a
// decision.
type SideEffectState string

const (
	SideEffectNotAttempted SideEffectState = "not_attempted"
	SideEffectSucceeded    SideEffectState = "succeeded"
	SideEffectFailed       SideEffectState = "failed"
)

// DecisionResult aggregates the outcome of a decide call so the caller can
// compose a single summary. The status transition is the durable part;
// role mutation and notification are best-effort and reported as-is.
type DecisionResult struct {
	Application       *Application    `json:"application"`
	RoleMutation      SideEffectState `json:"roleMutation"`
	RoleError         string          `json:"roleError,omitempty"`
	Notification      SideEffectState `json:"notification"`
	NotificationError string          `json:"notificationError,omitempty"`
}
