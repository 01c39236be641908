package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTargetTypeValid(t *testing.T) {
	require := require.New(t)
	require.True(TargetTypeDmail.Valid())
	require.True(TargetTypeComment.Valid())
	require.True(TargetTypeForumPost.Valid())
	require.False(TargetType("essay").Valid())
	require.False(TargetType("").Valid())
}

func TestReportStatusValid(t *testing.T) {
	require := require.New(t)
	require.True(ReportStatusPending.Valid())
	require.True(ReportStatusRejected.Valid())
	require.True(ReportStatusHandled.Valid())
	require.False(ReportStatus("open").Valid())
}

func TestReportReqValidate(t *testing.T) {
	require := require.New(t)

	req := ReportReq{Reason: "spam", TargetType: TargetTypeComment, TargetID: 1}
	require.NoError(req.Validate())

	req = ReportReq{Reason: "spam", TargetType: TargetType("user"), TargetID: 1}
	require.Equal(ErrBadTargetType, req.Validate())

	req = ReportReq{Reason: "", TargetType: TargetTypeDmail, TargetID: 1}
	require.Equal(ErrEmptyReason, req.Validate())

	req = ReportReq{Reason: "   \n", TargetType: TargetTypeDmail, TargetID: 1}
	require.Equal(ErrEmptyReason, req.Validate())
}

func TestPermsForRoles(t *testing.T) {
	require := require.New(t)

	none := PermsForRoles(nil)
	require.False(none.ViewAllReports)
	require.False(none.HandleReport)
	require.Equal(LevelMember, none.Level())

	mod := PermsForRoles([]string{RoleModerator})
	require.True(mod.ViewAllReports)
	require.True(mod.HandleReport)
	require.True(mod.BanUser)
	require.Equal(LevelModerator, mod.Level())

	admin := PermsForRoles([]string{"somethingelse", RoleAdmin})
	require.True(admin.HandleReport)
}

func TestReportedContentReference(t *testing.T) {
	require := require.New(t)
	require.Equal("dmail #3", ReportedContent{Type: TargetTypeDmail, ID: 3}.Reference())
	require.Equal("comment #9", ReportedContent{Type: TargetTypeComment, ID: 9}.Reference())
	require.Equal("forum #12", ReportedContent{Type: TargetTypeForumPost, ID: 12}.Reference())
}
