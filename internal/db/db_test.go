package db

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gitlab.com/corvna/modboard/internal/models"
)

// The tests below run against a real database, like the rest of the
// db package always has. Set MODBOARD_TEST_DATABASE_URL to run them.
var (
	testSDB     *SharedDB
	testUserSeq int
)

func testDB(t *testing.T) *SharedDB {
	t.Helper()
	url := os.Getenv("MODBOARD_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("MODBOARD_TEST_DATABASE_URL not set")
	}
	if testSDB != nil {
		return testSDB
	}

	// Reset database before testing
	if err := MigrateDown(url); err != nil {
		t.Fatal(err)
	}
	if err := MigrateUp(url); err != nil {
		t.Fatal(err)
	}

	cfg := &models.EnvConfig{DatabaseURL: url, Debug: true}
	sdb, err := Connect(cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	// First user is the system account (and gets the admin role).
	system := &models.User{Name: "system", Email: "system@modboard.test"}
	_, err = sdb.CreateUser(context.Background(), system, "longenough1!")
	if err != nil {
		t.Fatal(err)
	}
	cfg.SystemUserID = system.ID

	testSDB = &sdb
	return testSDB
}

func mockUser(t *testing.T, sdb *SharedDB) (*models.User, UserH) {
	t.Helper()
	testUserSeq++
	user := &models.User{
		Name:  fmt.Sprintf("pippo%d", testUserSeq),
		Email: fmt.Sprintf("pippo%d@strana.com", testUserSeq),
	}
	uH, err := sdb.CreateUser(context.Background(), user, "longenough1!")
	require.NoError(t, err)
	return user, *uH
}

func mockModerator(t *testing.T, sdb *SharedDB) (*models.User, UserH) {
	t.Helper()
	user, uH := mockUser(t, sdb)
	err := assignRole(context.Background(), sdb.db, user.ID, models.RoleModerator)
	require.NoError(t, err)
	return user, uH
}

func mockComment(t *testing.T, sdb *SharedDB, authorH UserH, body string) *models.Comment {
	t.Helper()
	siteH, err := sdb.GetSiteH(context.Background(), &authorH)
	require.NoError(t, err)
	comment := &models.Comment{Body: body}
	require.NoError(t, siteH.CreateComment(context.Background(), authorH, comment))
	return comment
}

func siteHFor(t *testing.T, sdb *SharedDB, uH *UserH) *SiteH {
	t.Helper()
	siteH, err := sdb.GetSiteH(context.Background(), uH)
	require.NoError(t, err)
	return siteH
}

func TestCreateReport(t *testing.T) {
	sdb := testDB(t)
	require := require.New(t)
	ctx := context.Background()

	_, authorH := mockUser(t, sdb)
	_, reporterH := mockUser(t, sdb)
	comment := mockComment(t, sdb, authorH, "a perfectly horrible comment")

	siteH := siteHFor(t, sdb, &reporterH)
	report, err := siteH.CreateReport(ctx, reporterH, models.ReportReq{
		Reason:     "offensive",
		TargetType: models.TargetTypeComment,
		TargetID:   comment.ID,
	})
	require.NoError(err)
	require.Equal(models.ReportStatusPending, report.Status)
	require.Equal(reporterH.ID(), report.CreatorID)

	// A second report from the same user on the same content fails,
	// and nothing new is persisted.
	_, err = siteH.CreateReport(ctx, reporterH, models.ReportReq{
		Reason:     "offensive again",
		TargetType: models.TargetTypeComment,
		TargetID:   comment.ID,
	})
	require.Equal(models.ErrDuplicateReport, err)

	// Someone else can still report the same content.
	_, otherH := mockUser(t, sdb)
	otherSiteH := siteHFor(t, sdb, &otherH)
	_, err = otherSiteH.CreateReport(ctx, otherH, models.ReportReq{
		Reason:     "same here",
		TargetType: models.TargetTypeComment,
		TargetID:   comment.ID,
	})
	require.NoError(err)
}

func TestCreateReportValidation(t *testing.T) {
	sdb := testDB(t)
	require := require.New(t)
	ctx := context.Background()

	_, authorH := mockUser(t, sdb)
	_, reporterH := mockUser(t, sdb)
	comment := mockComment(t, sdb, authorH, "fine comment")
	siteH := siteHFor(t, sdb, &reporterH)

	_, err := siteH.CreateReport(ctx, reporterH, models.ReportReq{
		Reason:     "",
		TargetType: models.TargetTypeComment,
		TargetID:   comment.ID,
	})
	require.Equal(models.ErrEmptyReason, err)

	_, err = siteH.CreateReport(ctx, reporterH, models.ReportReq{
		Reason:     "bad",
		TargetType: models.TargetType("essay"),
		TargetID:   comment.ID,
	})
	require.Equal(models.ErrBadTargetType, err)

	_, err = siteH.CreateReport(ctx, reporterH, models.ReportReq{
		Reason:     "bad",
		TargetType: models.TargetTypeComment,
		TargetID:   999999,
	})
	require.Equal(models.ErrNotFound, err)
}

func TestCreateReportPostsForumNotice(t *testing.T) {
	sdb := testDB(t)
	require := require.New(t)
	ctx := context.Background()

	_, authorH := mockUser(t, sdb)
	reporter, reporterH := mockUser(t, sdb)
	comment := mockComment(t, sdb, authorH, "noticeable nastiness")

	siteH := siteHFor(t, sdb, &reporterH)
	report, err := siteH.CreateReport(ctx, reporterH, models.ReportReq{
		Reason:     "harassment",
		TargetType: models.TargetTypeComment,
		TargetID:   comment.ID,
	})
	require.NoError(err)

	topic, err := ensureReportsTopic(ctx, sdb.db, sdb.config.SystemUserID)
	require.NoError(err)
	require.Equal(ReportsTopicTitle, topic.Title)
	require.Equal(models.LevelModerator, topic.MinLevel)

	// The notice quotes the report and the offending content.
	var bodies []string
	sql := "SELECT body FROM forum_posts WHERE topic_id = $1 ORDER BY id"
	rows, err := sdb.db.Query(ctx, sql, topic.ID)
	require.NoError(err)
	defer rows.Close()
	for rows.Next() {
		var b string
		require.NoError(rows.Scan(&b))
		bodies = append(bodies, b)
	}
	require.NotEmpty(bodies)
	last := bodies[len(bodies)-1]
	require.Contains(last, fmt.Sprintf("modreport #%d", report.ID))
	require.Contains(last, reporter.Name)
	require.Contains(last, "harassment")
	require.Contains(last, "> noticeable nastiness")
}

func TestUpdateReportStatusSideEffects(t *testing.T) {
	sdb := testDB(t)
	require := require.New(t)
	ctx := context.Background()

	_, authorH := mockUser(t, sdb)
	reporter, reporterH := mockUser(t, sdb)
	_, modH := mockModerator(t, sdb)
	comment := mockComment(t, sdb, authorH, "reported content")

	reporterSiteH := siteHFor(t, sdb, &reporterH)
	report, err := reporterSiteH.CreateReport(ctx, reporterH, models.ReportReq{
		Reason:     "spam",
		TargetType: models.TargetTypeComment,
		TargetID:   comment.ID,
	})
	require.NoError(err)

	modSiteH := siteHFor(t, sdb, &modH)
	updated, err := modSiteH.UpdateReportStatus(ctx, modH, report.ID, models.ReportStatusHandled)
	require.NoError(err)
	require.Equal(models.ReportStatusHandled, updated.Status)

	notifs, err := NewNotificationService(sdb.db).List(ctx, reporter.ID)
	require.NoError(err)
	require.Len(notifs, 1)
	require.Equal(models.NotifTypeReportHandled, notifs[0].NotifType)

	actions, err := NewModLogService(sdb.db).List(ctx)
	require.NoError(err)
	msg := fmt.Sprintf("handled modreport #%d", report.ID)
	count := 0
	for _, a := range actions {
		if a.Message == msg {
			count++
			require.Equal(modH.ID(), a.ActorID)
		}
	}
	require.Equal(1, count)

	// Writing the same status again fires nothing new.
	_, err = modSiteH.UpdateReportStatus(ctx, modH, report.ID, models.ReportStatusHandled)
	require.NoError(err)

	notifs, err = NewNotificationService(sdb.db).List(ctx, reporter.ID)
	require.NoError(err)
	require.Len(notifs, 1)

	actions, err = NewModLogService(sdb.db).List(ctx)
	require.NoError(err)
	count = 0
	for _, a := range actions {
		if a.Message == msg {
			count++
		}
	}
	require.Equal(1, count)
}

func TestUpdateReportStatusPermsAndErrors(t *testing.T) {
	sdb := testDB(t)
	require := require.New(t)
	ctx := context.Background()

	_, plainH := mockUser(t, sdb)
	_, modH := mockModerator(t, sdb)

	plainSiteH := siteHFor(t, sdb, &plainH)
	_, err := plainSiteH.UpdateReportStatus(ctx, plainH, 1, models.ReportStatusHandled)
	require.Equal(models.ErrPermDenied, err)

	modSiteH := siteHFor(t, sdb, &modH)
	_, err = modSiteH.UpdateReportStatus(ctx, modH, 999999, models.ReportStatusHandled)
	require.Equal(models.ErrNotFound, err)

	_, err = modSiteH.UpdateReportStatus(ctx, modH, 1, models.ReportStatus("resolved"))
	require.Equal(models.ErrInvalidFormat, err)
}

func TestReportVisibility(t *testing.T) {
	sdb := testDB(t)
	require := require.New(t)
	ctx := context.Background()

	_, authorH := mockUser(t, sdb)
	_, aliceH := mockUser(t, sdb)
	_, bobH := mockUser(t, sdb)
	_, modH := mockModerator(t, sdb)

	aliceComment := mockComment(t, sdb, authorH, "alice will report this")
	bobComment := mockComment(t, sdb, authorH, "bob will report this")

	aliceSiteH := siteHFor(t, sdb, &aliceH)
	aliceReport, err := aliceSiteH.CreateReport(ctx, aliceH, models.ReportReq{
		Reason: "rude", TargetType: models.TargetTypeComment, TargetID: aliceComment.ID,
	})
	require.NoError(err)

	bobSiteH := siteHFor(t, sdb, &bobH)
	_, err = bobSiteH.CreateReport(ctx, bobH, models.ReportReq{
		Reason: "rude", TargetType: models.TargetTypeComment, TargetID: bobComment.ID,
	})
	require.NoError(err)

	// Alice only sees her own report.
	visible, err := aliceSiteH.ListReports(ctx, &aliceH)
	require.NoError(err)
	require.Len(visible, 1)
	require.Equal(aliceReport.ID, visible[0].ID)

	// The moderator sees everything, newest first.
	all, err := siteHFor(t, sdb, &modH).ListReports(ctx, &modH)
	require.NoError(err)
	require.GreaterOrEqual(len(all), 2)
	for i := 1; i < len(all); i++ {
		require.True(all[i-1].ID > all[i].ID ||
			all[i-1].CreatedAt.After(all[i].CreatedAt) ||
			all[i-1].CreatedAt.Equal(all[i].CreatedAt))
	}
}

func TestSearchReports(t *testing.T) {
	sdb := testDB(t)
	require := require.New(t)
	ctx := context.Background()

	_, authorH := mockUser(t, sdb)
	_, reporterH := mockUser(t, sdb)
	_, modH := mockModerator(t, sdb)
	comment := mockComment(t, sdb, authorH, "searchable content")

	reporterSiteH := siteHFor(t, sdb, &reporterH)
	report, err := reporterSiteH.CreateReport(ctx, reporterH, models.ReportReq{
		Reason:     "extremely distinctive reason xyzzy",
		TargetType: models.TargetTypeComment,
		TargetID:   comment.ID,
	})
	require.NoError(err)

	modSiteH := siteHFor(t, sdb, &modH)

	found, err := modSiteH.SearchReports(ctx, &modH, models.ReportFilter{
		ReasonContains: "XYZZY",
	})
	require.NoError(err)
	require.Len(found, 1)
	require.Equal(report.ID, found[0].ID)

	targetType := models.TargetTypeComment
	creatorID := reporterH.ID()
	found, err = modSiteH.SearchReports(ctx, &modH, models.ReportFilter{
		TargetType: &targetType,
		CreatorID:  &creatorID,
	})
	require.NoError(err)
	require.Len(found, 1)

	status := models.ReportStatusHandled
	found, err = modSiteH.SearchReports(ctx, &modH, models.ReportFilter{
		ID:     &report.ID,
		Status: &status,
	})
	require.NoError(err)
	require.Len(found, 0)
}

func TestAutobanSpammer(t *testing.T) {
	sdb := testDB(t)
	require := require.New(t)
	ctx := context.Background()

	spammer, spammerH := mockUser(t, sdb)
	_, victimH := mockUser(t, sdb)

	spammerSiteH := siteHFor(t, sdb, &spammerH)
	dmail := &models.Dmail{
		ToUserID: victimH.ID(),
		Title:    "great offer",
		Body:     "free money!!! click here to claim your lottery jackpot",
	}
	require.NoError(spammerSiteH.CreateDmail(ctx, spammerH, dmail))

	victimSiteH := siteHFor(t, sdb, &victimH)
	_, err := victimSiteH.CreateReport(ctx, victimH, models.ReportReq{
		Reason:     "abuse",
		TargetType: models.TargetTypeDmail,
		TargetID:   dmail.ID,
	})
	require.NoError(err)

	banned, err := isBanned(ctx, sdb.db, spammer.ID)
	require.NoError(err)
	require.True(banned)

	// A banned spammer can't log back in.
	_, err = sdb.Login(ctx, spammer.Email, "longenough1!")
	require.Equal(models.ErrBanned, err)
}
