package audit

import (
	"context"
	"testing"
	"time"

	"github.com/azerothdev/azeroth-api/model"
	"github.com/azerothdev/azeroth-api/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLogAndFlush(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := New(db, zap.NewNop())

	playerID := int64(7)
	svc.Log(Entry{
		TraceID:    "trace-1",
		PlayerID:   &playerID,
		PlayerName: "Thrall",
		Action:     "player.grant_exp",
		Request:    map[string]float64{"amount": 500},
		IP:         "10.0.0.1",
		DurationMs: 12,
	})
	svc.Stop(context.Background())

	var rows []model.AuditLog
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "player.grant_exp", rows[0].Action)
	assert.Equal(t, "Thrall", rows[0].PlayerName)
	require.NotNil(t, rows[0].PlayerID)
	assert.Equal(t, playerID, *rows[0].PlayerID)
	assert.JSONEq(t, `{"amount":500}`, string(rows[0].Request))
	assert.Equal(t, 12, rows[0].DurationMs)
}

func TestStopDrainsQueue(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := New(db, zap.NewNop())

	for i := 0; i < 250; i++ {
		svc.Log(Entry{TraceID: "t", Action: "progress.complete"})
	}
	svc.Stop(context.Background())

	var count int64
	db.Model(&model.AuditLog{}).Count(&count)
	assert.Equal(t, int64(250), count)
}

func TestStopIsIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := New(db, zap.NewNop())
	svc.Stop(context.Background())
	svc.Stop(context.Background()) // must not panic
}

func TestCleanup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := New(db, zap.NewNop())
	defer svc.Stop(context.Background())

	old := model.AuditLog{TraceID: "old", Action: "player.create"}
	require.NoError(t, db.Create(&old).Error)
	// Push the row past the retention window.
	require.NoError(t, db.Model(&old).
		Update("created_at", time.Now().Add(-48*time.Hour)).Error)
	fresh := model.AuditLog{TraceID: "fresh", Action: "player.create"}
	require.NoError(t, db.Create(&fresh).Error)

	deleted, err := svc.Cleanup(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var rows []model.AuditLog
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "fresh", rows[0].TraceID)
}
