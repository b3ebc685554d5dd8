package organization

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/better-auth-admin/better-auth-admin/internal/authapi"
	"github.com/better-auth-admin/better-auth-admin/internal/web/handler"
)

// finish records the action and either re-renders the detail page with the
// failure or redirects with notice.
func (s *Service) finish(c *fiber.Ctx, action, orgID, notice, failed string, err error) error {
	s.record(c, action, authapi.Organization{ID: orgID}, err)

	if err != nil {
		log.Error().Err(err).Str("organization", orgID).Str("action", action).Msg("organization action failed")

		return s.renderDetail(c, orgID, "", authapi.Message(err, failed))
	}

	return c.Redirect(withNotice(DetailPath(orgID), notice))
}

// Delete removes the organization and returns to the list.
func (s *Service) Delete(c *fiber.Ctx) error {
	orgID := c.Params("id")

	err := s.api.DeleteOrganization(handler.APIContext(c), orgID)
	s.record(c, "organization.delete", authapi.Organization{ID: orgID}, err)

	if err != nil {
		log.Error().Err(err).Str("organization", orgID).Msg("failed to delete organization")

		return s.renderDetail(c, orgID, "", authapi.Message(err, ErrMsgDelete))
	}

	s.members.Invalidate(orgID)

	return c.Redirect(withNotice(Path, "deleted"))
}

// UpdateMemberRole changes the role of one member.
func (s *Service) UpdateMemberRole(c *fiber.Ctx) error {
	orgID := c.Params("id")

	var form RoleForm
	if err := c.BodyParser(&form); err != nil {
		return s.renderDetail(c, orgID, "", ErrMsgInvalidForm)
	}

	if msg := handler.Validator.FirstMessage(form, roleRules, ErrMsgUpdateMemberRole); msg != "" {
		return s.renderDetail(c, orgID, "", msg)
	}

	err := s.api.UpdateMemberRole(handler.APIContext(c), orgID, c.Params("memberID"), form.Role)
	if err == nil {
		s.members.Invalidate(orgID)
	}

	return s.finish(c, "organization.member_role", orgID, "role", ErrMsgUpdateMemberRole, err)
}

// RemoveMember removes one member.
func (s *Service) RemoveMember(c *fiber.Ctx) error {
	orgID := c.Params("id")

	err := s.api.RemoveMember(handler.APIContext(c), orgID, c.Params("memberID"))
	if err == nil {
		s.members.Invalidate(orgID)
	}

	return s.finish(c, "organization.member_remove", orgID, "removed", ErrMsgRemoveMember, err)
}

// Invite sends an invitation.
func (s *Service) Invite(c *fiber.Ctx) error {
	orgID := c.Params("id")

	var form InviteForm
	if err := c.BodyParser(&form); err != nil {
		return s.renderDetail(c, orgID, "", ErrMsgInvalidForm)
	}

	form.normalize()

	if msg := handler.Validator.FirstMessage(form, inviteRules, ErrMsgInvite); msg != "" {
		return s.renderDetail(c, orgID, "", msg)
	}

	_, err := s.api.InviteMember(handler.APIContext(c), orgID, form.Email, form.Role)

	return s.finish(c, "organization.invite", orgID, "invited", ErrMsgInvite, err)
}

// CancelInvitation cancels a pending invitation.
func (s *Service) CancelInvitation(c *fiber.Ctx) error {
	orgID := c.Params("id")

	err := s.api.CancelInvitation(handler.APIContext(c), c.Params("invitationID"))

	return s.finish(c, "organization.invitation_cancel", orgID, "canceled", ErrMsgCancelInvitation, err)
}
