package rest_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/azerothdev/azeroth-api/api/rest"
	"github.com/azerothdev/azeroth-api/config"
	"github.com/azerothdev/azeroth-api/game/achievement"
	mw "github.com/azerothdev/azeroth-api/middleware"
	"github.com/azerothdev/azeroth-api/model"
	"github.com/azerothdev/azeroth-api/scheduler"
	"github.com/azerothdev/azeroth-api/seed"
	"github.com/azerothdev/azeroth-api/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testGame = config.GameConfig{PageSize: 10, RankingTop: 100}

// newServer builds a router with the full route table and a seeded in-memory
// DB. The seed data includes the admin/player1/player2 accounts.
func newServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	require.NoError(t, seed.Run(db, zap.NewNop()))
	c := testutil.SetupTestCache(t)
	sec := config.SecurityConfig{JWTSecret: "test-secret", JWTTTLH: 72 * time.Hour}

	tracker := achievement.NewTracker(db, zap.NewNop())
	sched := scheduler.New(zap.NewNop())
	t.Cleanup(sched.Stop)

	authH := rest.NewAuthHandler(db, c, sec)
	playerH := rest.NewPlayerHandler(db, tracker, nil, testGame)
	catalogH := rest.NewCatalogHandler(db)
	guildH := rest.NewGuildHandler(db, testGame)
	achH := rest.NewAchievementHandler(db, testGame)
	progH := rest.NewProgressHandler(db, tracker, nil)
	rankH := rest.NewRankingHandler(db, c, testGame, zap.NewNop())
	adminH := rest.NewAdminHandler(db, sched, nil)

	authed := mw.Auth(sec, c)

	r := gin.New()
	api := r.Group("/api")

	authG := api.Group("/auth")
	authG.POST("/register", authH.Register)
	authG.POST("/login", authH.Login)
	authG.POST("/logout", authed, authH.Logout)
	authG.POST("/refresh", authed, authH.Refresh)

	playersG := api.Group("/players", authed)
	playersG.POST("", playerH.Create)
	playersG.GET("/list", playerH.List)
	playersG.GET("/:id", playerH.Detail)
	playersG.PUT("/:id", playerH.Update)
	playersG.DELETE("/:id", playerH.Delete)
	playersG.PUT("/:id/guild", playerH.AssignGuild)
	playersG.DELETE("/:id/guild", playerH.RemoveGuild)
	playersG.PUT("/:id/experience", playerH.GrantExperience)
	playersG.PUT("/:id/achievements/init", playerH.InitAchievements)
	playersG.GET("/:id/achievements", playerH.ListAchievements)

	factionsG := api.Group("/factions", authed)
	factionsG.GET("/list", catalogH.ListFactions)
	factionsG.GET("/:id", catalogH.FactionDetail)

	racesG := api.Group("/races", authed)
	racesG.GET("/list", catalogH.ListRaces)
	racesG.GET("/:id", catalogH.RaceDetail)
	racesG.POST("", mw.RequireAdmin(), catalogH.CreateRace)
	racesG.PUT("/:id", mw.RequireAdmin(), catalogH.UpdateRace)
	racesG.DELETE("/:id", mw.RequireAdmin(), catalogH.DeleteRace)

	classesG := api.Group("/classes", authed)
	classesG.GET("/list", catalogH.ListClasses)
	classesG.GET("/:id", catalogH.ClassDetail)

	api.GET("/expansions/list", authed, catalogH.ListExpansions)

	guildsG := api.Group("/guilds", authed)
	guildsG.POST("", mw.RequireAdmin(), guildH.Create)
	guildsG.GET("/list", guildH.List)
	guildsG.GET("/:id", guildH.Detail)
	guildsG.PUT("/:id", mw.RequireAdmin(), guildH.Update)
	guildsG.DELETE("/:id", mw.RequireAdmin(), guildH.Delete)
	guildsG.GET("/:id/player-count", guildH.PlayerCount)

	achG := api.Group("/achievements", authed)
	achG.GET("/list", achH.List)
	achG.GET("/:id", achH.Detail)
	achG.POST("", mw.RequireAdmin(), achH.Create)
	achG.PUT("/:id", mw.RequireAdmin(), achH.Update)
	achG.DELETE("/:id", mw.RequireAdmin(), achH.Delete)

	api.PUT("/progress/:playerID/:achievementID", authed, progH.Advance)

	api.GET("/ranking/exp", authed, rankH.TopExp)

	adminG := api.Group("/admin", authed, mw.RequireAdmin())
	adminG.GET("/metrics", adminH.Metrics)
	adminG.GET("/scheduler", adminH.Scheduler)
	adminG.POST("/users/:id/ban", adminH.BanUser)
	adminG.POST("/ranking/refresh", rankH.Refresh)

	return r, db
}

// login authenticates one of the seeded accounts and returns a token.
func login(t *testing.T, r *gin.Engine, username, password string) string {
	t.Helper()
	w := postJSON(r, "/api/auth/login", map[string]string{
		"username": username, "password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, "login %s: %s", username, w.Body.String())
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp["token"].(string)
}

func loginAdmin(t *testing.T, r *gin.Engine) string {
	return login(t, r, "admin", "admin123")
}

func loginPlayer1(t *testing.T, r *gin.Engine) string {
	return login(t, r, "player1", "player123")
}

// createPlayer makes a player through the API using the seeded Human race
// and Warrior class.
func createPlayer(t *testing.T, r *gin.Engine, db *gorm.DB, token, name string) int64 {
	t.Helper()
	var race model.Race
	require.NoError(t, db.Where("name = ?", "Human").First(&race).Error)
	var class model.Class
	require.NoError(t, db.Where("name = ?", "Warrior").First(&class).Error)

	w := postJSON(r, "/api/players", map[string]interface{}{
		"name":       name,
		"faction_id": race.FactionID,
		"race_id":    race.ID,
		"class_id":   class.ID,
	}, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusCreated, w.Code, "create player: %s", w.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return int64(resp["id"].(float64))
}

func postJSON(r *gin.Engine, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	return jsonReq(r, http.MethodPost, path, body, headers...)
}

func putJSON(r *gin.Engine, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	return jsonReq(r, http.MethodPut, path, body, headers...)
}

func jsonReq(r *gin.Engine, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func getReq(r *gin.Engine, path string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func deleteReq(r *gin.Engine, path string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodDelete, path, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}
