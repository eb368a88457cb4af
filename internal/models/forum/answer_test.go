package forum

import (
	"context"
	"testing"

	"github.com/goboardhq/goboard/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAnswer(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	asker := seedUser(t, db, "asker")
	helper := seedUser(t, db, "helper")
	q := seedQuestion(t, db, asker, "needs an answer")

	a, err := CreateAnswer(ctx, db, helper.ID, q.ID, "  try this  ")
	require.NoError(t, err)
	assert.Equal(t, "try this", a.Content)
	assert.Nil(t, a.ModifyDate)

	_, err = CreateAnswer(ctx, db, helper.ID, uuid.New(), "orphan")
	require.Error(t, err)
	assert.Equal(t, fiber.StatusNotFound, utils.CodeOf(err))

	_, err = CreateAnswer(ctx, db, helper.ID, q.ID, "   ")
	require.Error(t, err)
	assert.Equal(t, fiber.StatusBadRequest, utils.CodeOf(err))
}

func TestUpdateAnswerAuthorOnly(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	asker := seedUser(t, db, "asker")
	helper := seedUser(t, db, "helper")
	q := seedQuestion(t, db, asker, "question")
	a := seedAnswer(t, db, helper, q, "first draft")

	_, err := UpdateAnswer(ctx, db, a.ID, asker.ID, "not yours")
	require.Error(t, err)
	assert.Equal(t, fiber.StatusForbidden, utils.CodeOf(err))

	updated, err := UpdateAnswer(ctx, db, a.ID, helper.ID, "second draft")
	require.NoError(t, err)
	assert.Equal(t, "second draft", updated.Content)
	require.NotNil(t, updated.ModifyDate)
}

func TestDeleteAnswerCascades(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	asker := seedUser(t, db, "asker")
	helper := seedUser(t, db, "helper")
	q := seedQuestion(t, db, asker, "question")
	a := seedAnswer(t, db, helper, q, "doomed answer")

	_, err := CreateAnswerComment(ctx, db, asker.ID, a.ID, "thanks")
	require.NoError(t, err)
	require.NoError(t, VoteAnswer(ctx, db, a.ID, asker.ID))

	err = DeleteAnswer(ctx, db, a.ID, asker.ID)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusForbidden, utils.CodeOf(err))

	require.NoError(t, DeleteAnswer(ctx, db, a.ID, helper.ID))

	var comments, votes int64
	require.NoError(t, db.Model(&Comment{}).Count(&comments).Error)
	require.NoError(t, db.Model(&AnswerVote{}).Count(&votes).Error)
	assert.Zero(t, comments)
	assert.Zero(t, votes)

	// The question stays.
	_, err = GetQuestionBy(ctx, db, "id = ?", []interface{}{q.ID})
	require.NoError(t, err)
}
