package services

import (
	"context"
	"testing"
	"time"

	"penjahit-backend/models"
	"penjahit-backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed_Idempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, Seed(ctx, db, nil))
	require.NoError(t, Seed(ctx, db, nil))

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.EqualValues(t, 1, users)

	_, err := NewAuthService(db, nil).Me(ctx, 1)
	require.NoError(t, err)

	var garments int64
	require.NoError(t, db.Model(&models.GarmentType{}).Count(&garments).Error)
	assert.EqualValues(t, len(seedGarments), garments)

	svc := NewGarmentService(db)
	templates, err := svc.Templates(ctx, "JP001")
	require.NoError(t, err)
	assert.Len(t, templates, 7)

	templates, err = svc.Templates(ctx, "JP003")
	require.NoError(t, err)
	require.Len(t, templates, 8)
	assert.Equal(t, "JPD", templates[7].Code)
	assert.False(t, templates[7].IsRequired)

	next, err := svc.Create(ctx, GarmentInput{Name: "Jas Pria"})
	require.NoError(t, err)
	assert.Equal(t, "JP010", next.ID)
}

func TestSeed_AdminCanLogIn(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, Seed(context.Background(), db, nil))

	res, err := NewAuthService(db, utils.NewTokenIssuer("test-secret", time.Hour)).Login(context.Background(), LoginInput{
		Username: DefaultAdminUsername,
		Password: DefaultAdminPassword,
	})
	require.NoError(t, err)
	assert.Equal(t, "Administrator", res.User.FullName)
}
