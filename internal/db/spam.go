package db

import (
	"context"
	"regexp"

	"github.com/georgysavva/scany/pgxscan"
	"gitlab.com/corvna/modboard/internal/models"
)

// How many of the user's most recent bodies the detector inspects.
const spamSampleSize = 20

var spamWords = []string{
	"viagra", "lottery", "jackpot", "casino",
	"free money", "click here", "buy now", "limited offer",
	"crypto giveaway", "double your",
}

var (
	spamLinkPattern     = regexp.MustCompile(`(?i)(https?://\S+|www\.\S+\.\S+)`)
	spamRepeatedPattern = regexp.MustCompile(`(.)\1{6,}`)
)

type spamDetector struct {
	db           DBTX
	wordPatterns []*regexp.Regexp
}

func NewSpamDetector(db DBTX) *spamDetector {
	patterns := make([]*regexp.Regexp, 0, len(spamWords))
	for _, w := range spamWords {
		patterns = append(patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(w)+`\b`))
	}
	return &spamDetector{db: db, wordPatterns: patterns}
}

func (d *spamDetector) looksSpammy(body string) bool {
	for _, re := range d.wordPatterns {
		if re.MatchString(body) {
			return true
		}
	}
	if spamLinkPattern.MatchString(body) && spamRepeatedPattern.MatchString(body) {
		return true
	}
	return false
}

// IsSpammer inspects the user's recent content. The user is convicted
// when at least half of the sampled bodies look like spam.
func (d *spamDetector) IsSpammer(ctx context.Context, userID int) (bool, error) {
	bodies, err := d.recentBodies(ctx, userID)
	if err != nil {
		return false, err
	}
	matched := 0
	for _, b := range bodies {
		if d.looksSpammy(b) {
			matched++
		}
	}
	return matched > 0 && matched*2 >= len(bodies), nil
}

func (d *spamDetector) recentBodies(ctx context.Context, userID int) ([]string, error) {
	var bodies []string
	err := pgxscan.Select(ctx, d.db, &bodies,
		`SELECT body FROM (
			SELECT body, created_at FROM dmails WHERE from_user_id = $1
			UNION ALL
			SELECT body, created_at FROM comments WHERE author_id = $1
			UNION ALL
			SELECT body, created_at FROM forum_posts WHERE author_id = $1
		) AS bodies
		ORDER BY created_at DESC
		LIMIT $2`,
		userID, spamSampleSize)
	if err != nil {
		return nil, err
	}
	return bodies, nil
}

// BanSpammer inserts a ban row. Re-banning an already banned user is
// a no-op.
func (d *spamDetector) BanSpammer(ctx context.Context, userID int) error {
	sql, args, _ := psql.
		Insert("banned_users").
		Columns("user_id", "motivation").
		Values(userID, models.BanMotivationSpam).
		Suffix("ON CONFLICT (user_id) DO NOTHING").
		ToSql()
	_, err := d.db.Exec(ctx, sql, args...)
	return err
}

func isBanned(ctx context.Context, db DBTX, userID int) (bool, error) {
	var banned bool
	err := pgxscan.Get(ctx, db, &banned,
		"SELECT exists(SELECT 1 FROM banned_users WHERE user_id = $1)", userID)
	if err != nil {
		return false, err
	}
	return banned, nil
}
