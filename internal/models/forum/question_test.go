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

func TestCreateQuestionDefaults(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "asker")

	q, err := CreateQuestion(ctx, db, author.ID, nil, "  how do goroutines work?  ", "details here")
	require.NoError(t, err)

	assert.Equal(t, "how do goroutines work?", q.Subject)
	assert.Equal(t, DefaultCategoryName, q.Category.Name)
	assert.Zero(t, q.ViewCount)
	assert.Nil(t, q.ModifyDate)

	got, err := GetQuestionBy(ctx, db, "id = ?", []interface{}{q.ID}, "Author", "Category")
	require.NoError(t, err)
	assert.Equal(t, author.Username, got.Author.Username)
	assert.Equal(t, DefaultCategoryName, got.Category.Name)
}

func TestCreateQuestionValidation(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "asker")

	_, err := CreateQuestion(ctx, db, author.ID, nil, "   ", "content")
	require.Error(t, err)
	assert.Equal(t, fiber.StatusBadRequest, utils.CodeOf(err))

	unknown := uuid.New()
	_, err = CreateQuestion(ctx, db, author.ID, &unknown, "subject", "content")
	require.Error(t, err)
	assert.Equal(t, fiber.StatusNotFound, utils.CodeOf(err))
}

func TestUpdateQuestionAuthorOnly(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "asker")
	other := seedUser(t, db, "lurker")
	q := seedQuestion(t, db, author, "original subject")

	_, err := UpdateQuestion(ctx, db, q.ID, other.ID, "hijacked", "nope", q.CategoryID)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusForbidden, utils.CodeOf(err))

	updated, err := UpdateQuestion(ctx, db, q.ID, author.ID, "edited subject", "edited content", q.CategoryID)
	require.NoError(t, err)
	assert.Equal(t, "edited subject", updated.Subject)
	require.NotNil(t, updated.ModifyDate)
}

func TestDeleteQuestionAuthorOnly(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "asker")
	other := seedUser(t, db, "lurker")
	q := seedQuestion(t, db, author, "to be deleted")

	err := DeleteQuestion(ctx, db, q.ID, other.ID)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusForbidden, utils.CodeOf(err))

	require.NoError(t, DeleteQuestion(ctx, db, q.ID, author.ID))
	_, err = GetQuestionBy(ctx, db, "id = ?", []interface{}{q.ID})
	assert.Equal(t, fiber.StatusNotFound, utils.CodeOf(err))
}

func TestDeleteQuestionCascades(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "asker")
	helper := seedUser(t, db, "helper")

	q := seedQuestion(t, db, author, "with children")
	a := seedAnswer(t, db, helper, q, "an answer")
	_, err := CreateQuestionComment(ctx, db, helper.ID, q.ID, "a comment")
	require.NoError(t, err)
	_, err = CreateAnswerComment(ctx, db, author.ID, a.ID, "a reply comment")
	require.NoError(t, err)
	require.NoError(t, VoteQuestion(ctx, db, q.ID, helper.ID))
	require.NoError(t, VoteAnswer(ctx, db, a.ID, author.ID))

	require.NoError(t, DeleteQuestion(ctx, db, q.ID, author.ID))

	var answers, comments, qvotes, avotes int64
	require.NoError(t, db.Model(&Answer{}).Count(&answers).Error)
	require.NoError(t, db.Model(&Comment{}).Count(&comments).Error)
	require.NoError(t, db.Model(&QuestionVote{}).Count(&qvotes).Error)
	require.NoError(t, db.Model(&AnswerVote{}).Count(&avotes).Error)
	assert.Zero(t, answers)
	assert.Zero(t, comments)
	assert.Zero(t, qvotes)
	assert.Zero(t, avotes)

	// Authors survive their content.
	_, err = GetUserBy(ctx, db, "id = ?", []interface{}{helper.ID})
	require.NoError(t, err)
}

func TestIncrementViewCount(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	author := seedUser(t, db, "asker")
	q := seedQuestion(t, db, author, "popular question")

	for i := 0; i < 3; i++ {
		require.NoError(t, IncrementViewCount(ctx, db, q.ID))
	}

	got, err := GetQuestionBy(ctx, db, "id = ?", []interface{}{q.ID})
	require.NoError(t, err)
	assert.Equal(t, 3, got.ViewCount)

	err = IncrementViewCount(ctx, db, uuid.New())
	require.Error(t, err)
	assert.Equal(t, fiber.StatusNotFound, utils.CodeOf(err))
}
