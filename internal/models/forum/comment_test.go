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

func TestCommentParents(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	asker := seedUser(t, db, "asker")
	helper := seedUser(t, db, "helper")
	q := seedQuestion(t, db, asker, "question")
	a := seedAnswer(t, db, helper, q, "answer")

	qc, err := CreateQuestionComment(ctx, db, helper.ID, q.ID, "on the question")
	require.NoError(t, err)
	require.NotNil(t, qc.QuestionID)
	assert.Nil(t, qc.AnswerID)

	ac, err := CreateAnswerComment(ctx, db, asker.ID, a.ID, "on the answer")
	require.NoError(t, err)
	require.NotNil(t, ac.AnswerID)
	assert.Nil(t, ac.QuestionID)

	// Both resolve to the same question, the answer comment through its answer.
	qq, err := QuestionForComment(ctx, db, qc)
	require.NoError(t, err)
	assert.Equal(t, q.ID, qq.ID)
	aq, err := QuestionForComment(ctx, db, ac)
	require.NoError(t, err)
	assert.Equal(t, q.ID, aq.ID)
}

func TestCommentSingleParentConstraint(t *testing.T) {
	db := newTestDB(t)
	asker := seedUser(t, db, "asker")
	q := seedQuestion(t, db, asker, "question")
	a := seedAnswer(t, db, asker, q, "answer")

	// Both parents set at once violates the schema's CHECK.
	bad := &Comment{
		ID:         uuid.New(),
		Content:    "ambiguous",
		AuthorID:   asker.ID,
		QuestionID: &q.ID,
		AnswerID:   &a.ID,
	}
	err := db.Create(bad).Error
	require.Error(t, err)

	// So does a comment with no parent at all.
	orphan := &Comment{
		ID:       uuid.New(),
		Content:  "floating",
		AuthorID: asker.ID,
	}
	err = db.Create(orphan).Error
	require.Error(t, err)
}

func TestCommentUnknownParent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	asker := seedUser(t, db, "asker")

	_, err := CreateQuestionComment(ctx, db, asker.ID, uuid.New(), "lost")
	require.Error(t, err)
	assert.Equal(t, fiber.StatusNotFound, utils.CodeOf(err))

	_, err = CreateAnswerComment(ctx, db, asker.ID, uuid.New(), "lost")
	require.Error(t, err)
	assert.Equal(t, fiber.StatusNotFound, utils.CodeOf(err))
}

func TestUpdateAndDeleteCommentAuthorOnly(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	asker := seedUser(t, db, "asker")
	other := seedUser(t, db, "other")
	q := seedQuestion(t, db, asker, "question")

	c, err := CreateQuestionComment(ctx, db, asker.ID, q.ID, "first take")
	require.NoError(t, err)
	assert.Nil(t, c.ModifyDate)

	_, err = UpdateComment(ctx, db, c.ID, other.ID, "hijack")
	require.Error(t, err)
	assert.Equal(t, fiber.StatusForbidden, utils.CodeOf(err))

	updated, err := UpdateComment(ctx, db, c.ID, asker.ID, "second take")
	require.NoError(t, err)
	assert.Equal(t, "second take", updated.Content)
	require.NotNil(t, updated.ModifyDate)

	err = DeleteComment(ctx, db, c.ID, other.ID)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusForbidden, utils.CodeOf(err))

	require.NoError(t, DeleteComment(ctx, db, c.ID, asker.ID))
	_, err = GetCommentBy(ctx, db, "id = ?", []interface{}{c.ID})
	assert.Equal(t, fiber.StatusNotFound, utils.CodeOf(err))
}
