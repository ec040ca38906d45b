package dto

type InviteRequest struct {
	Email string `json:"email"`
}

func (r InviteRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.Email == "" {
		errors["email"] = "Email is required"
	}
	return errors
}

type AcceptInvitationRequest struct {
	Token string `json:"token"`
}

func (r AcceptInvitationRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.Token == "" {
		errors["token"] = "Token is required"
	}
	return errors
}

type RemoveTeamMemberRequest struct {
	MemberID string `json:"memberId"`
}

func (r RemoveTeamMemberRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.MemberID == "" {
		errors["memberId"] = "Member id is required"
	}
	return errors
}
