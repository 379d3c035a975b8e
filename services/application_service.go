package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/guildforms/guildforms/domain"
	"github.com/guildforms/guildforms/errors"
	"github.com/guildforms/guildforms/internal/discord"
)

// ApplicationService is the application lifecycle engine: it runs the
// submission pipeline and the decision orchestration with its best-effort
// side effects. The stored application record is always the source of
// truth; role mutation and notification failures never roll it back.
type ApplicationService struct {
	forms        domain.FormRepository
	applications domain.ApplicationRepository
	entitlements *EntitlementService
	notifier     *NotificationService
	platform     discord.Platform
}

// NewApplicationService creates a new ApplicationService.
func NewApplicationService(
	forms domain.FormRepository,
	applications domain.ApplicationRepository,
	entitlements *EntitlementService,
	notifier *NotificationService,
	platform discord.Platform,
) *ApplicationService {
	return &ApplicationService{
		forms:        forms,
		applications: applications,
		entitlements: entitlements,
		notifier:     notifier,
		platform:     platform,
	}
}

const defaultSubmissionTemplate = "New application from {userName} for {formTitle}"

// List returns a guild's applications, newest first, narrowed by filter.
func (s *ApplicationService) List(ctx context.Context, guildID string, filter domain.ApplicationFilter) ([]*domain.Application, error) {
	return s.applications.ListByGuild(ctx, guildID, filter)
}

// Submit validates and persists a new pending application, then fires the
// advisory channel notification when the form configures one. The
// notification is never allowed to fail the submission.
func (s *ApplicationService) Submit(
	ctx context.Context,
	guildID, formID string,
	submitter domain.Submitter,
	answers []domain.Answer,
) (*domain.Application, error) {
	if submitter.UserID == "" || len(answers) == 0 {
		return nil, errors.NewBadRequest("submission payload is missing")
	}

	form, err := s.forms.GetByID(ctx, formID)
	if err != nil {
		return nil, err
	}
	if form.GuildID != guildID {
		return nil, errors.NewNotFound("form not found in this guild")
	}

	now := time.Now().UTC()
	if !form.AcceptsSubmissionsAt(now) {
		return nil, errors.NewBadRequest("form is not accepting submissions")
	}

	app := &domain.Application{
		ID:          uuid.NewString(),
		GuildID:     guildID,
		FormID:      form.ID,
		Submitter:   submitter,
		Answers:     answers,
		Status:      domain.StatusPending,
		SubmittedAt: now,
	}
	if err := s.applications.Create(ctx, app); err != nil {
		return nil, err
	}

	s.notifySubmission(ctx, form, submitter)

	return app, nil
}

// notifySubmission posts the new-submission message to the form's channel,
// if one is configured and its id is well-formed. Failures are logged and
// swallowed.
func (s *ApplicationService) notifySubmission(ctx context.Context, form *domain.Form, submitter domain.Submitter) {
	if form.NotificationChannelID == "" {
		return
	}
	if !domain.ValidSnowflake(form.NotificationChannelID) {
		log.Warn().
			Str("form_id", form.ID).
			Str("channel_id", form.NotificationChannelID).
			Msg("Skipping submission notification: malformed channel id")
		return
	}

	tpl := form.MessageTemplate
	if tpl == "" {
		tpl = defaultSubmissionTemplate
	}
	message := RenderTemplate(tpl, TemplateVars{
		UserName:  submitter.DisplayName,
		FormTitle: form.Title,
	})

	if err := s.notifier.SendToChannel(ctx, form.NotificationChannelID, message); err != nil {
		log.Warn().Err(err).
			Str("form_id", form.ID).
			Str("channel_id", form.NotificationChannelID).
			Msg("Submission notification failed")
	}
}

// roleActionKind tags the role mutation resolved for a decision.
type roleActionKind int

const (
	noRoleAction roleActionKind = iota
	legacySingleRole
	tieredRoleLists
)

// roleAction is the role mutation a decision will attempt, resolved once
// from the form configuration and the guild's tier. add=false means the
// roles are removed.
type roleAction struct {
	kind    roleActionKind
	add     bool
	roleIDs []string
}

// resolveRoleAction applies the precedence rule: on a premium guild the
// outcome-specific role lists win; the legacy single role is an accept-only
// fallback for everyone else.
func resolveRoleAction(form *domain.Form, premium bool, outcome domain.ApplicationStatus) roleAction {
	if premium {
		switch outcome {
		case domain.StatusAccepted:
			if len(form.RolesOnAccept) > 0 {
				return roleAction{kind: tieredRoleLists, add: true, roleIDs: form.RolesOnAccept}
			}
		case domain.StatusRejected:
			if len(form.RolesOnReject) > 0 {
				return roleAction{kind: tieredRoleLists, add: false, roleIDs: form.RolesOnReject}
			}
		}
	}
	if outcome == domain.StatusAccepted && form.RoleToAssign != "" {
		return roleAction{kind: legacySingleRole, add: true, roleIDs: []string{form.RoleToAssign}}
	}
	return roleAction{kind: noRoleAction}
}

const (
	fallbackAcceptMessage = "Your application for {formTitle} has been accepted. Welcome!"
	fallbackRejectMessage = "Your application for {formTitle} has been rejected."
)

// Decide applies the one-shot status transition and orchestrates the
// best-effort side effects: entitlement-gated role mutation and an optional
// direct message to the submitter. The returned result reports each step so
// the caller can compose a single summary.
func (s *ApplicationService) Decide(
	ctx context.Context,
	guildID, appID string,
	outcome domain.ApplicationStatus,
	reviewerID, reviewerName string,
	sendDirectMessage bool,
) (*domain.DecisionResult, error) {
	if outcome != domain.StatusAccepted && outcome != domain.StatusRejected {
		return nil, errors.NewBadRequest(fmt.Sprintf("invalid outcome %q", outcome))
	}

	app, err := s.applications.Decide(ctx, guildID, appID, outcome, reviewerID, reviewerName, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	result := &domain.DecisionResult{
		Application:  app,
		RoleMutation: domain.SideEffectNotAttempted,
		Notification: domain.SideEffectNotAttempted,
	}

	form, err := s.forms.GetByID(ctx, app.FormID)
	if err != nil {
		// The decision itself is durable; without the form there is no role
		// or template configuration, so the side effects degrade.
		log.Warn().Err(err).
			Str("application_id", app.ID).
			Str("form_id", app.FormID).
			Msg("Form lookup failed after decision, skipping role mutation")
		form = &domain.Form{ID: app.FormID, GuildID: guildID}
	}

	premium, err := s.entitlements.IsPremium(ctx, guildID)
	if err != nil {
		log.Warn().Err(err).Str("guild_id", guildID).Msg("Premium lookup failed, treating guild as non-premium")
		premium = false
	}

	s.mutateRoles(ctx, result, form, premium, outcome, app)

	if sendDirectMessage {
		s.notifyDecision(ctx, result, form, premium, outcome, app)
	}

	return result, nil
}

func (s *ApplicationService) mutateRoles(
	ctx context.Context,
	result *domain.DecisionResult,
	form *domain.Form,
	premium bool,
	outcome domain.ApplicationStatus,
	app *domain.Application,
) {
	action := resolveRoleAction(form, premium, outcome)
	if action.kind == noRoleAction {
		return
	}

	for _, roleID := range action.roleIDs {
		if !domain.ValidSnowflake(roleID) {
			result.RoleMutation = domain.SideEffectFailed
			result.RoleError = fmt.Sprintf("invalid role id %q", roleID)
			return
		}
	}

	// The submitter may have left the guild since applying.
	if _, err := s.platform.FetchMember(ctx, app.GuildID, app.Submitter.UserID); err != nil {
		log.Warn().Err(err).
			Str("application_id", app.ID).
			Str("guild_id", app.GuildID).
			Str("user_id", app.Submitter.UserID).
			Msg("Member lookup failed, skipping role mutation")
		result.RoleMutation = domain.SideEffectFailed
		result.RoleError = fmt.Sprintf("member lookup failed: %v", err)
		return
	}

	var err error
	if action.add {
		err = s.platform.AddMemberRoles(ctx, app.GuildID, app.Submitter.UserID, action.roleIDs)
	} else {
		err = s.platform.RemoveMemberRoles(ctx, app.GuildID, app.Submitter.UserID, action.roleIDs)
	}
	if err != nil {
		log.Warn().Err(err).
			Str("application_id", app.ID).
			Str("guild_id", app.GuildID).
			Msg("Role mutation failed")
		result.RoleMutation = domain.SideEffectFailed
		result.RoleError = err.Error()
		return
	}
	result.RoleMutation = domain.SideEffectSucceeded
}

func (s *ApplicationService) notifyDecision(
	ctx context.Context,
	result *domain.DecisionResult,
	form *domain.Form,
	premium bool,
	outcome domain.ApplicationStatus,
	app *domain.Application,
) {
	tpl := decisionTemplate(form, premium, outcome)

	serverName := ""
	if guild, err := s.platform.FetchGuild(ctx, app.GuildID); err == nil {
		serverName = guild.Name
	}

	message := RenderTemplate(tpl, TemplateVars{
		UserName:   app.Submitter.DisplayName,
		FormTitle:  form.Title,
		ServerName: serverName,
	})

	if err := s.notifier.SendDirect(ctx, app.Submitter.UserID, message); err != nil {
		result.Notification = domain.SideEffectFailed
		result.NotificationError = err.Error()
		return
	}
	result.Notification = domain.SideEffectSucceeded
}

// decisionTemplate picks the outcome message: premium guilds may configure
// their own, everyone else gets the fixed fallback.
func decisionTemplate(form *domain.Form, premium bool, outcome domain.ApplicationStatus) string {
	if premium {
		if outcome == domain.StatusAccepted && form.AcceptMessage != "" {
			return form.AcceptMessage
		}
		if outcome == domain.StatusRejected && form.RejectMessage != "" {
			return form.RejectMessage
		}
	}
	if outcome == domain.StatusAccepted {
		return fallbackAcceptMessage
	}
	return fallbackRejectMessage
}
