package db_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"Gin_postgres_redis_equipment_tracker/db"
	"Gin_postgres_redis_equipment_tracker/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestRepo(t *testing.T) *db.Repo {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	return db.NewRepo(gdb)
}

func seedUser(t *testing.T, r *db.Repo, name, email, role string) string {
	t.Helper()
	p := &models.Profile{
		ID:           uuid.NewString(),
		FullName:     name,
		Email:        email,
		PasswordHash: "x",
	}
	require.NoError(t, r.CreateProfile(context.Background(), p, role))
	return p.ID
}

func seedEquipment(t *testing.T, r *db.Repo, name string, actorID string) *models.Equipment {
	t.Helper()
	e := &models.Equipment{Name: name, Type: "camera"}
	require.NoError(t, r.CreateEquipment(context.Background(), e, actorID))
	return e
}

func seedRequest(t *testing.T, r *db.Repo, equipmentID, userID string) *models.Request {
	t.Helper()
	req, err := r.SubmitRequest(context.Background(), db.SubmitRequestInput{
		EquipmentID: equipmentID,
		UserID:      userID,
		BorrowDate:  futureDate(1),
		ReturnDate:  futureDate(5),
	})
	require.NoError(t, err)
	return req
}

func futureDate(days int) time.Time {
	now := time.Now().UTC()
	d := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return d.AddDate(0, 0, days)
}
