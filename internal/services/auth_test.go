package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/studyai-backend/internal/logger"
	"github.com/yungbote/studyai-backend/internal/repos"
	"github.com/yungbote/studyai-backend/internal/repos/testutil"
	"github.com/yungbote/studyai-backend/internal/types"
)

// avatarSpy records whether the user row was already committed when
// the avatar step ran.
type avatarSpy struct {
	tx      *gorm.DB
	calls   int
	rowSeen bool
	fail    bool
}

func (a *avatarSpy) CreateAndUploadUserAvatar(ctx context.Context, user *types.User) error {
	a.calls++
	if a.fail {
		return fmt.Errorf("bucket offline")
	}
	var count int64
	if err := a.tx.WithContext(ctx).Model(&types.User{}).Where("id = ?", user.ID).Count(&count).Error; err == nil {
		a.rowSeen = count == 1
	}
	return nil
}

type failingUserRepo struct {
	repos.UserRepo
}

func (f *failingUserRepo) Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
	return nil, fmt.Errorf("insert refused")
}

func newTestAuthService(tx *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, avatar AvatarService) AuthService {
	tokenRepo := repos.NewUserTokenRepo(tx, log)
	return NewAuthService(tx, log, userRepo, avatar, tokenRepo, "test-secret", time.Hour, 24*time.Hour)
}

func TestRegisterUserAvatarRunsAfterInsert(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	spy := &avatarSpy{tx: tx}
	svc := newTestAuthService(tx, log, repos.NewUserRepo(tx, log), spy)

	u := &types.User{
		Email:     "avatar-order@example.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Password:  "supersecret",
	}
	require.NoError(t, svc.RegisterUser(ctx, u))
	assert.Equal(t, 1, spy.calls)
	assert.True(t, spy.rowSeen, "avatar step ran before the user row existed")
}

func TestRegisterUserFailedInsertSkipsAvatar(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	spy := &avatarSpy{tx: tx}
	userRepo := &failingUserRepo{UserRepo: repos.NewUserRepo(tx, log)}
	svc := newTestAuthService(tx, log, userRepo, spy)

	u := &types.User{
		Email:     "avatar-skip@example.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Password:  "supersecret",
	}
	require.Error(t, svc.RegisterUser(ctx, u))
	assert.Equal(t, 0, spy.calls, "avatar must not upload for a registration that never committed")
}

func TestRegisterUserAvatarFailureKeepsUser(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	spy := &avatarSpy{tx: tx, fail: true}
	userRepo := repos.NewUserRepo(tx, log)
	svc := newTestAuthService(tx, log, userRepo, spy)

	u := &types.User{
		Email:     "avatar-cosmetic@example.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Password:  "supersecret",
	}
	require.NoError(t, svc.RegisterUser(ctx, u))
	assert.Equal(t, 1, spy.calls)

	var count int64
	require.NoError(t, tx.WithContext(ctx).Model(&types.User{}).Where("email = ?", u.Email).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
