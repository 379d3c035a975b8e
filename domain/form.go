package domain

import "time"

// QuestionKind enumerates the supported question input types.
type QuestionKind string

const (
	QuestionText        QuestionKind = "text"
	QuestionTextarea    QuestionKind = "textarea"
	QuestionSelect      QuestionKind = "select"
	QuestionMultiSelect QuestionKind = "multi_select"
)

// Question is a single entry of a form.
type Question struct {
	ID       string       `bson:"id" json:"id"`
	Label    string       `bson:"label" json:"label"`
	Kind     QuestionKind `bson:"kind" json:"kind"`
	Options  []string     `bson:"options,omitempty" json:"options,omitempty"`
	Required bool         `bson:"required" json:"required"`
}

// Form is a guild-scoped application form. The id is immutable once
// created; everything else may be edited by a guild administrator.
type Form struct {
	ID        string     `bson:"_id" json:"id"`
	GuildID   string     `bson:"guild_id" json:"guildId"`
	Title     string     `bson:"title" json:"title"`
	Questions []Question `bson:"questions" json:"questions"`

	// Optional submission window. A zero value means unbounded on that side.
	OpensAt  *time.Time `bson:"opens_at,omitempty" json:"opensAt,omitempty"`
	ClosesAt *time.Time `bson:"closes_at,omitempty" json:"closesAt,omitempty"`

	// Channel notified on new submissions, with its message template.
	NotificationChannelID string `bson:"notification_channel_id,omitempty" json:"notificationChannelId,omitempty"`
	MessageTemplate       string `bson:"message_template,omitempty" json:"messageTemplate,omitempty"`

	// Legacy single role, assigned on accept only. Used when the guild is
	// not premium.
	RoleToAssign string `bson:"role_to_assign,omitempty" json:"roleToAssign,omitempty"`

	// Premium tier: per-outcome role lists and message templates.
	RolesOnAccept []string `bson:"roles_on_accept,omitempty" json:"rolesOnAccept,omitempty"`
	RolesOnReject []string `bson:"roles_on_reject,omitempty" json:"rolesOnReject,omitempty"`
	AcceptMessage string   `bson:"accept_message,omitempty" json:"acceptMessage,omitempty"`
	RejectMessage string   `bson:"reject_message,omitempty" json:"rejectMessage,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// AcceptsSubmissionsAt reports whether the form's submission window is open
// at the given instant.
func (f *Form) AcceptsSubmissionsAt(t time.Time) bool {
	if f.OpensAt != nil && t.Before(*f.OpensAt) {
		return false
	}
	if f.ClosesAt != nil && t.After(*f.ClosesAt) {
		return false
	}
	return true
}

// GuildSettings holds per-guild configuration. Premium gates the multi-role
// and custom-template features; it defaults to false for unknown guilds.
type GuildSettings struct {
	GuildID   string    `bson:"_id" json:"guildId"`
	IsPremium bool      `bson:"is_premium" json:"isPremium"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
