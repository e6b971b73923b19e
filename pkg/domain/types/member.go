package types

import "fmt"

// MemberRole represents the approval roster a member belongs to
type MemberRole string

const (
	MemberRoleCommittee   MemberRole = "COMMITTEE"
	MemberRoleScrumMaster MemberRole = "SCRUM_MASTER"
	MemberRoleManager     MemberRole = "MANAGER"
)

// AllMemberRoles returns all valid member roles
func AllMemberRoles() []MemberRole {
	return []MemberRole{
		MemberRoleCommittee,
		MemberRoleScrumMaster,
		MemberRoleManager,
	}
}

// IsValid checks if the member role is valid
func (r MemberRole) IsValid() bool {
	switch r {
	case MemberRoleCommittee, MemberRoleScrumMaster, MemberRoleManager:
		return true
	default:
		return false
	}
}

// IsCompanyScoped reports whether the roster is maintained per company.
// The committee is a single global roster.
func (r MemberRole) IsCompanyScoped() bool {
	return r != MemberRoleCommittee
}

// String returns the string representation of the member role
func (r MemberRole) String() string {
	return string(r)
}

// ParseMemberRole parses a string into a MemberRole
func ParseMemberRole(s string) (MemberRole, error) {
	r := MemberRole(s)
	if !r.IsValid() {
		return "", fmt.Errorf("invalid member role: %s", s)
	}
	return r, nil
}

// RosterRole maps an approval level to the roster that supplies its quorum
// denominator. Manager approvals do not use a roster; the acting manager is
// the single required approver.
func RosterRole(level ApprovalLevel) (MemberRole, bool) {
	switch level {
	case ApprovalLevelCommittee:
		return MemberRoleCommittee, true
	case ApprovalLevelIT:
		return MemberRoleScrumMaster, true
	default:
		return "", false
	}
}
