package rest_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/azerothdev/azeroth-api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAchievementList(t *testing.T) {
	r, db := newServer(t)
	token := loginPlayer1(t, r)

	var catalog int64
	db.Model(&model.Achievement{}).Count(&catalog)

	w := getReq(r, "/api/achievements/list?size=100", "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, float64(catalog), resp["total"])
}

func TestAchievementDetail(t *testing.T) {
	r, db := newServer(t)
	token := loginPlayer1(t, r)

	var ach model.Achievement
	require.NoError(t, db.Where("title = ?", "Firelord").First(&ach).Error)

	w := getReq(r, fmt.Sprintf("/api/achievements/%d", ach.ID), "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "Firelord", resp["title"])
	assert.Equal(t, float64(15000), resp["reward_points"])
}

func TestAchievementCreate_AdminOnly(t *testing.T) {
	r, _ := newServer(t)
	userToken := loginPlayer1(t, r)
	adminToken := loginAdmin(t, r)

	body := map[string]interface{}{
		"title":         "Insane in the Membrane",
		"description":   "Earn exalted reputation with five rival factions",
		"reward_points": 25000,
		"target_value":  5,
	}
	assert.Equal(t, http.StatusForbidden,
		postJSON(r, "/api/achievements", body, "Authorization", "Bearer "+userToken).Code)

	w := postJSON(r, "/api/achievements", body, "Authorization", "Bearer "+adminToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, float64(5), decode(t, w)["target_value"])
}

func TestAchievementCreate_Validation(t *testing.T) {
	r, _ := newServer(t)
	adminToken := loginAdmin(t, r)

	// Zero target is rejected.
	w := postJSON(r, "/api/achievements", map[string]interface{}{
		"title": "Broken", "description": "x", "reward_points": 100, "target_value": 0,
	}, "Authorization", "Bearer "+adminToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAchievementUpdate_DoesNotTouchExistingProgress(t *testing.T) {
	r, db := newServer(t)
	userToken := loginPlayer1(t, r)
	adminToken := loginAdmin(t, r)

	playerID := createPlayer(t, r, db, userToken, "Steady")
	require.Equal(t, http.StatusOK, putJSON(r,
		fmt.Sprintf("/api/players/%d/achievements/init", playerID), nil,
		"Authorization", "Bearer "+userToken).Code)

	var ach model.Achievement
	require.NoError(t, db.Where("title = ?", "Murloc Hunter").First(&ach).Error)
	origTarget := ach.TargetValue

	w := putJSON(r, fmt.Sprintf("/api/achievements/%d", ach.ID), map[string]interface{}{
		"title":         ach.Title,
		"description":   ach.Description,
		"reward_points": ach.RewardPoints,
		"target_value":  origTarget + 25,
	}, "Authorization", "Bearer "+adminToken)
	require.Equal(t, http.StatusOK, w.Code)

	// The player's row keeps the target it was created with.
	var prog model.Progress
	require.NoError(t, db.Where("player_id = ? AND achievement_id = ?", playerID, ach.ID).
		First(&prog).Error)
	assert.Equal(t, origTarget, prog.TargetValue)
}

func TestAchievementDelete_CascadesProgress(t *testing.T) {
	r, db := newServer(t)
	userToken := loginPlayer1(t, r)
	adminToken := loginAdmin(t, r)

	playerID := createPlayer(t, r, db, userToken, "Affected")
	require.Equal(t, http.StatusOK, putJSON(r,
		fmt.Sprintf("/api/players/%d/achievements/init", playerID), nil,
		"Authorization", "Bearer "+userToken).Code)

	var ach model.Achievement
	require.NoError(t, db.Where("title = ?", "Kobold Exterminator").First(&ach).Error)

	w := deleteReq(r, fmt.Sprintf("/api/achievements/%d", ach.ID),
		"Authorization", "Bearer "+adminToken)
	require.Equal(t, http.StatusOK, w.Code)

	var remaining int64
	db.Model(&model.Progress{}).Where("achievement_id = ?", ach.ID).Count(&remaining)
	assert.Equal(t, int64(0), remaining)
}
