package forum

import (
	"context"
	"testing"

	"github.com/goboardhq/goboard/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	u, err := RegisterUser(ctx, db, "alice", "secret123", "  Alice@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotEqual(t, "secret123", u.Password, "password must be stored hashed")

	got, err := AuthenticateUser(ctx, db, "alice", "secret123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = AuthenticateUser(ctx, db, "alice", "wrongpass")
	require.Error(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, utils.CodeOf(err))

	_, err = AuthenticateUser(ctx, db, "nobody", "secret123")
	require.Error(t, err)
	assert.Equal(t, fiber.StatusNotFound, utils.CodeOf(err))
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, err := RegisterUser(ctx, db, "bob", "secret123", "bob@example.com")
	require.NoError(t, err)

	_, err = RegisterUser(ctx, db, "bob", "other456", "bob2@example.com")
	require.Error(t, err)
	assert.Equal(t, fiber.StatusConflict, utils.CodeOf(err))

	_, err = RegisterUser(ctx, db, "bobby", "other456", "bob@example.com")
	require.Error(t, err)
	assert.Equal(t, fiber.StatusConflict, utils.CodeOf(err))
}

func TestRegisterRequiresFields(t *testing.T) {
	db := newTestDB(t)

	_, err := RegisterUser(context.Background(), db, "", "secret123", "x@example.com")
	require.Error(t, err)
	assert.Equal(t, fiber.StatusBadRequest, utils.CodeOf(err))
}

func TestChangePassword(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := seedUser(t, db, "carol")

	err := ChangePassword(ctx, db, u, "wrongpass", "newpass123")
	require.Error(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, utils.CodeOf(err))

	err = ChangePassword(ctx, db, u, "secret123", "secret123")
	require.Error(t, err)
	assert.Equal(t, fiber.StatusConflict, utils.CodeOf(err))

	require.NoError(t, ChangePassword(ctx, db, u, "secret123", "newpass123"))

	_, err = AuthenticateUser(ctx, db, "carol", "newpass123")
	require.NoError(t, err)
	_, err = AuthenticateUser(ctx, db, "carol", "secret123")
	require.Error(t, err)
}

func TestSetPasswordSkipsOldCheck(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := seedUser(t, db, "dave")

	require.NoError(t, SetPassword(ctx, db, u, "resetpass1"))

	_, err := AuthenticateUser(ctx, db, "dave", "resetpass1")
	require.NoError(t, err)
}

func TestDeleteUserCascadesContent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	author := seedUser(t, db, "erin")
	other := seedUser(t, db, "frank")

	q := seedQuestion(t, db, author, "cascade check")
	a := seedAnswer(t, db, other, q, "answer by frank")
	_, err := CreateQuestionComment(ctx, db, other.ID, q.ID, "comment by frank")
	require.NoError(t, err)

	require.NoError(t, DeleteUser(ctx, db, author.ID))

	_, err = GetUserBy(ctx, db, "id = ?", []interface{}{author.ID})
	assert.Equal(t, fiber.StatusNotFound, utils.CodeOf(err))

	// The question goes with its author, and everything under the question
	// goes with the question.
	_, err = GetQuestionBy(ctx, db, "id = ?", []interface{}{q.ID})
	assert.Equal(t, fiber.StatusNotFound, utils.CodeOf(err))
	_, err = GetAnswerBy(ctx, db, "id = ?", []interface{}{a.ID})
	assert.Equal(t, fiber.StatusNotFound, utils.CodeOf(err))

	var commentCount int64
	require.NoError(t, db.Model(&Comment{}).Count(&commentCount).Error)
	assert.Zero(t, commentCount)

	// The other user is untouched.
	_, err = GetUserBy(ctx, db, "id = ?", []interface{}{other.ID})
	require.NoError(t, err)
}
