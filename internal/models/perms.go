package models

// Role names stored in user_roles.
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
)

type Perms struct {
	ViewAllReports bool
	HandleReport   bool
	BanUser        bool
	ModerateForum  bool
}

func PermsForRoles(roles []string) Perms {
	perms := Perms{}
	for _, r := range roles {
		switch r {
		case RoleAdmin, RoleModerator:
			perms.ViewAllReports = true
			perms.HandleReport = true
			perms.BanUser = true
			perms.ModerateForum = true
		}
	}
	return perms
}

func (p Perms) Level() UserLevel {
	if p.ModerateForum {
		return LevelModerator
	}
	return LevelMember
}
