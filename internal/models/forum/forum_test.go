package forum

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory SQLite database with foreign keys
// enforced, migrates the schema and seeds the default category. The single
// connection keeps the FK pragma applied to every statement.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&User{},
		&Category{},
		&Question{},
		&Answer{},
		&Comment{},
		&QuestionVote{},
		&AnswerVote{},
	))

	require.NoError(t, SeedCategories(context.Background(), db))

	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *User {
	t.Helper()
	u, err := RegisterUser(context.Background(), db, username, "secret123", username+"@example.com")
	require.NoError(t, err)
	return u
}

func seedQuestion(t *testing.T, db *gorm.DB, author *User, subject string) *Question {
	t.Helper()
	q, err := CreateQuestion(context.Background(), db, author.ID, nil, subject, "content of "+subject)
	require.NoError(t, err)
	return q
}

func seedAnswer(t *testing.T, db *gorm.DB, author *User, q *Question, content string) *Answer {
	t.Helper()
	a, err := CreateAnswer(context.Background(), db, author.ID, q.ID, content)
	require.NoError(t, err)
	return a
}

// setCreatedAt pins a row's creation time so ordering tests don't depend on
// the wall clock during the run.
func setCreatedAt(t *testing.T, db *gorm.DB, model interface{}, id interface{}, at time.Time) {
	t.Helper()
	err := db.Model(model).Where("id = ?", id).UpdateColumn("created_at", at).Error
	require.NoError(t, err)
}
