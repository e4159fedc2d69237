package model_test

import (
	"testing"
	"time"

	"github.com/azerothdev/azeroth-api/model"
	"github.com/azerothdev/azeroth-api/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoMigrate_InsertAndQuery(t *testing.T) {
	db := testutil.SetupTestDB(t)

	// User
	user := &model.User{Username: "test_user", PasswordHash: "hash", Email: "t@example.com", Role: model.RoleUser, Enabled: true}
	require.NoError(t, db.Create(user).Error)
	assert.Greater(t, user.ID, int64(0))

	var found model.User
	require.NoError(t, db.First(&found, user.ID).Error)
	assert.Equal(t, "test_user", found.Username)

	// Catalog
	faction := &model.Faction{Name: model.FactionAlliance}
	require.NoError(t, db.Create(faction).Error)

	class := &model.Class{Name: "WARRIOR"}
	require.NoError(t, db.Create(class).Error)

	race := &model.Race{Name: "HUMAN", FactionID: faction.ID, Classes: []model.Class{*class}}
	require.NoError(t, db.Create(race).Error)

	var raceFound model.Race
	require.NoError(t, db.Preload("Classes").First(&raceFound, race.ID).Error)
	require.Len(t, raceFound.Classes, 1)
	assert.Equal(t, "WARRIOR", raceFound.Classes[0].Name)

	// Guild
	guild := &model.Guild{Name: "TestGuild", Realm: "Sanguino", FactionID: faction.ID}
	require.NoError(t, db.Create(guild).Error)

	// Player
	player := &model.Player{
		Name:      "Hero",
		UserID:    user.ID,
		FactionID: faction.ID,
		RaceID:    race.ID,
		ClassID:   class.ID,
		GuildID:   &guild.ID,
	}
	require.NoError(t, db.Create(player).Error)
	assert.Greater(t, player.ID, int64(0))
	assert.Equal(t, 1, player.Level)
	assert.Equal(t, int64(0), player.Experience)

	// Achievement + Progress
	ach := &model.Achievement{Title: "First steps", Description: "Reach level 10", RewardPoints: 500, TargetValue: 1}
	require.NoError(t, db.Create(ach).Error)

	prog := &model.Progress{
		PlayerID:      player.ID,
		AchievementID: ach.ID,
		Status:        model.StatusInProgress,
		TargetValue:   ach.TargetValue,
	}
	require.NoError(t, db.Create(prog).Error)

	// The (player, achievement) pair is unique.
	dup := &model.Progress{PlayerID: player.ID, AchievementID: ach.ID, Status: model.StatusInProgress, TargetValue: 1}
	assert.Error(t, db.Create(dup).Error)

	// AuditLog
	al := &model.AuditLog{
		TraceID: "trace-001", Action: "grant_experience",
		CreatedAt: time.Now(),
	}
	require.NoError(t, db.Create(al).Error)
}
