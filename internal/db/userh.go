package db

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/pgxscan"
	"gitlab.com/corvna/modboard/internal/models"
	"gitlab.com/corvna/modboard/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

type userPerms struct {
	Read   bool
	Delete bool
}

// UserH is the capability handle of an authenticated user.
type UserH struct {
	id       int
	perms    userPerms
	sharedDB DBTX
}

func (h UserH) ID() int {
	return h.id
}

func (sdb *SharedDB) GetUserH(ctx context.Context, token string) (UserH, error) {
	sql, args, _ := psql.
		Select("user_id").
		From("tokens").
		Where(sq.Eq{"token": token}).
		ToSql()

	uH := UserH{
		sharedDB: sdb.db,
		perms: userPerms{
			Read:   true,
			Delete: true,
		},
	}
	row := sdb.db.QueryRow(ctx, sql, args...)
	err := row.Scan(&uH.id)
	if err != nil {
		return uH, err
	}
	return uH, nil
}

func (h UserH) Read(ctx context.Context) (*models.User, error) {
	if !h.perms.Read {
		return nil, models.ErrPermDenied
	}
	user := &models.User{}
	sql, args, _ := psql.
		Select("users.id", "users.name", "users.email").
		From("users").
		Where(sq.Eq{"id": h.id}).
		ToSql()

	err := pgxscan.Get(ctx, h.sharedDB, user, sql, args...)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func insertUser(ctx context.Context, db DBTX, user *models.User, hash []byte) error {
	sql, args, _ := psql.
		Insert("users").
		Columns("name", "email", "passwd_hash").
		Values(user.Name, user.Email, hash).
		Suffix("RETURNING id").
		ToSql()

	row := db.QueryRow(ctx, sql, args...)
	return row.Scan(&user.ID)
}

func (sdb *SharedDB) CreateUser(ctx context.Context, user *models.User, passwd string) (*UserH, error) {
	if !utils.ValidateEmail(user.Email) {
		return nil, models.ErrInvalidFormat
	}
	if len(passwd) < 8 {
		return nil, models.ErrWeakPasswd
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(passwd), sdb.bcryptCost)
	if err != nil {
		return nil, err
	}

	err = execTx(ctx, sdb.db, func(ctx context.Context, tx DBTX) error {
		err := insertUser(ctx, tx, user, hash)
		if violatesConstraint(err, "users_email_key") {
			return models.ErrEmailAlreadyUsed
		} else if err != nil {
			return err
		}

		// Assign admin role if first user
		sql, args, _ := psql.Select("COUNT(*)").From("users").ToSql()
		c := 0
		row := tx.QueryRow(ctx, sql, args...)
		err = row.Scan(&c)
		if err != nil {
			return err
		}
		if c == 1 {
			return assignRole(ctx, tx, user.ID, models.RoleAdmin)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &UserH{
		id:       user.ID,
		perms:    userPerms{Read: true, Delete: true},
		sharedDB: sdb.db,
	}, nil
}

func (sdb *SharedDB) Login(ctx context.Context, email string, passwd string) (token string, err error) {
	sql, args, _ := psql.
		Select("id", "passwd_hash").
		From("users").
		Where(sq.Eq{"email": email}).
		ToSql()

	var data struct {
		ID         int
		PasswdHash string
	}
	err = pgxscan.Get(ctx, sdb.db, &data, sql, args...)
	if err != nil {
		return "", err
	}
	err = bcrypt.CompareHashAndPassword([]byte(data.PasswdHash), []byte(passwd))
	if err != nil {
		return "", err
	}

	banned, err := isBanned(ctx, sdb.db, data.ID)
	if err != nil {
		return "", err
	}
	if banned {
		return "", models.ErrBanned
	}

	// Insert a new token
	token = utils.GenToken(TokenLen)
	sql, args, _ = psql.
		Insert("tokens").
		Columns("user_id", "token").
		Values(data.ID, token).
		ToSql()

	_, err = sdb.db.Exec(ctx, sql, args...)
	if err != nil {
		return "", err
	}
	return token, nil
}

func (sdb *SharedDB) Signout(ctx context.Context, token string) error {
	_, err := sdb.db.Exec(ctx, "DELETE FROM tokens WHERE tokens.token = $1", token)
	return err
}

func assignRole(ctx context.Context, db DBTX, userID int, roleName string) error {
	sql, args, _ := psql.
		Insert("user_roles").
		Columns("user_id", "role_name").
		Values(userID, roleName).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	_, err := db.Exec(ctx, sql, args...)
	return err
}

func listUserRoles(ctx context.Context, db DBTX, userID int) ([]string, error) {
	var roles []string
	sql, args, _ := psql.
		Select("role_name").
		From("user_roles").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	err := pgxscan.Select(ctx, db, &roles, sql, args...)
	if err != nil {
		return nil, err
	}
	return roles, nil
}

func readPublicUser(ctx context.Context, db DBTX, userID int) (*models.UserView, error) {
	user := &models.UserView{}
	sql, args, _ := psql.
		Select("users.id", "users.name", "users.email", "users.created_at").
		From("users").
		Where(sq.Eq{"users.id": userID}).
		ToSql()

	err := pgxscan.Get(ctx, db, user, sql, args...)
	if err != nil {
		return nil, err
	}
	return user, nil
}
