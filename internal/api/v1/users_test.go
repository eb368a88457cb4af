package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	v1 "github.com/goboardhq/goboard/internal/api/v1"
	"github.com/goboardhq/goboard/internal/auth"
	"github.com/goboardhq/goboard/internal/config"
	"github.com/goboardhq/goboard/internal/models"
	"github.com/goboardhq/goboard/internal/models/forum"
	"github.com/goboardhq/goboard/pkg/logger"
	storage "github.com/goboardhq/goboard/pkg/redis"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestApp stands up the handlers against an in-memory SQLite store and a
// miniredis instance, so flows that span the token signer, the store and
// Redis run for real.
func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
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
	require.NoError(t, db.AutoMigrate(models.RegisterModels()...))
	require.NoError(t, forum.SeedCategories(context.Background(), db))

	mr := miniredis.RunT(t)
	rclient := &storage.RedisClient{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}

	log, err := logger.NewLogger(logger.WithOutputDir(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(log.Close)

	auth.SetSecret("test-signing-secret")

	v1.Setup(db, rclient, log, &config.Config{AppURL: "http://localhost:3000"})

	app := fiber.New()
	app.Post("/api/v1/auth/reset-password", v1.ResetPassword)
	return app, db
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestResetPasswordTokenSingleUse(t *testing.T) {
	app, db := newTestApp(t)
	ctx := context.Background()

	u, err := forum.RegisterUser(ctx, db, "resetter", "oldpass123", "resetter@example.com")
	require.NoError(t, err)

	token, err := auth.GeneratePasswordResetToken(u.Email)
	require.NoError(t, err)

	payload := map[string]string{
		"token":            token,
		"new_password":     "freshpass1",
		"confirm_password": "freshpass1",
	}
	resp := postJSON(t, app, "/api/v1/auth/reset-password", payload)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	_, err = forum.AuthenticateUser(ctx, db, "resetter", "freshpass1")
	require.NoError(t, err)

	// The same token a second time is refused and changes nothing.
	payload["new_password"] = "sneakypass2"
	payload["confirm_password"] = "sneakypass2"
	resp = postJSON(t, app, "/api/v1/auth/reset-password", payload)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	_, err = forum.AuthenticateUser(ctx, db, "resetter", "freshpass1")
	require.NoError(t, err)
	_, err = forum.AuthenticateUser(ctx, db, "resetter", "sneakypass2")
	require.Error(t, err)
}

func TestResetPasswordRejectsBadTokens(t *testing.T) {
	app, db := newTestApp(t)
	ctx := context.Background()

	_, err := forum.RegisterUser(ctx, db, "victim", "oldpass123", "victim@example.com")
	require.NoError(t, err)

	// Garbage token.
	resp := postJSON(t, app, "/api/v1/auth/reset-password", map[string]string{
		"token":            "not.a.token",
		"new_password":     "freshpass1",
		"confirm_password": "freshpass1",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// A session token must not pass as a reset token.
	u, err := forum.GetUserBy(ctx, db, "username = ?", []interface{}{"victim"})
	require.NoError(t, err)
	sessionToken, err := auth.GenerateSessionToken(u.ID)
	require.NoError(t, err)
	resp = postJSON(t, app, "/api/v1/auth/reset-password", map[string]string{
		"token":            sessionToken,
		"new_password":     "freshpass1",
		"confirm_password": "freshpass1",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	_, err = forum.AuthenticateUser(ctx, db, "victim", "oldpass123")
	require.NoError(t, err)
}
