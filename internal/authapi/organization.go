package authapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

type orgIDBody struct {
	OrganizationID string `json:"organizationId"`
}

// ListOrganizations calls organization/list.
func (c *Client) ListOrganizations(ctx context.Context) ([]Organization, error) {
	var out []Organization
	if _, err := c.call(ctx, "list-organizations", http.MethodGet, "/organization/list", nil, nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// GetFullOrganization calls organization/get-full-organization.
func (c *Client) GetFullOrganization(ctx context.Context, orgID string) (*FullOrganization, error) {
	query := url.Values{"organizationId": {orgID}}

	var out FullOrganization

	_, err := c.call(ctx, "get-full-organization", http.MethodGet, "/organization/get-full-organization", query, nil, &out)
	if errors.Is(err, ErrEmptyResponse) {
		return nil, ErrOrganizationNotFound
	}

	if err != nil {
		return nil, err
	}

	return &out, nil
}

// CreateOrganization calls organization/create.
func (c *Client) CreateOrganization(ctx context.Context, in OrganizationInput) (*Organization, error) {
	var out Organization
	if _, err := c.call(ctx, "create-organization", http.MethodPost, "/organization/create", nil, in, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// UpdateOrganization calls organization/update.
func (c *Client) UpdateOrganization(ctx context.Context, orgID string, in OrganizationInput) (*Organization, error) {
	body := struct {
		OrganizationID string            `json:"organizationId"`
		Data           OrganizationInput `json:"data"`
	}{OrganizationID: orgID, Data: in}

	var out Organization
	if _, err := c.call(ctx, "update-organization", http.MethodPost, "/organization/update", nil, body, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// DeleteOrganization calls organization/delete.
func (c *Client) DeleteOrganization(ctx context.Context, orgID string) error {
	_, err := c.call(ctx, "delete-organization", http.MethodPost, "/organization/delete", nil, orgIDBody{orgID}, nil)
	return err
}

// UpdateMemberRole calls organization/update-member-role.
func (c *Client) UpdateMemberRole(ctx context.Context, orgID, memberID, role string) error {
	body := struct {
		MemberID       string `json:"memberId"`
		Role           string `json:"role"`
		OrganizationID string `json:"organizationId"`
	}{MemberID: memberID, Role: role, OrganizationID: orgID}

	_, err := c.call(ctx, "update-member-role", http.MethodPost, "/organization/update-member-role", nil, body, nil)

	return err
}

// RemoveMember calls organization/remove-member.
func (c *Client) RemoveMember(ctx context.Context, orgID, memberIDOrEmail string) error {
	body := struct {
		MemberIDOrEmail string `json:"memberIdOrEmail"`
		OrganizationID  string `json:"organizationId"`
	}{MemberIDOrEmail: memberIDOrEmail, OrganizationID: orgID}

	_, err := c.call(ctx, "remove-member", http.MethodPost, "/organization/remove-member", nil, body, nil)

	return err
}

// InviteMember calls organization/invite-member.
func (c *Client) InviteMember(ctx context.Context, orgID, email, role string) (*Invitation, error) {
	body := struct {
		Email          string `json:"email"`
		Role           string `json:"role"`
		OrganizationID string `json:"organizationId"`
	}{Email: email, Role: role, OrganizationID: orgID}

	var out Invitation
	if _, err := c.call(ctx, "invite-member", http.MethodPost, "/organization/invite-member", nil, body, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// CancelInvitation calls organization/cancel-invitation.
func (c *Client) CancelInvitation(ctx context.Context, invitationID string) error {
	body := struct {
		InvitationID string `json:"invitationId"`
	}{InvitationID: invitationID}

	_, err := c.call(ctx, "cancel-invitation", http.MethodPost, "/organization/cancel-invitation", nil, body, nil)

	return err
}

// CheckSlug reports whether slug is still free. The server answers a taken
// slug with 400, which is reported as false without error.
func (c *Client) CheckSlug(ctx context.Context, slug string) (bool, error) {
	body := struct {
		Slug string `json:"slug"`
	}{Slug: slug}

	var out struct {
		Status bool `json:"status"`
	}

	_, err := c.call(ctx, "check-slug", http.MethodPost, "/organization/check-slug", nil, body, &out)
	if StatusOf(err) == http.StatusBadRequest {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return out.Status, nil
}
