package forum

import (
	"context"
	"strings"
	"time"

	"github.com/goboardhq/goboard/pkg/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment hangs off exactly one parent thread: a question or an answer,
// never both. The XOR is a CHECK constraint on the table, not a convention.
type Comment struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Content    string     `gorm:"type:text;not null" json:"content" validate:"required"`
	CreatedAt  time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	ModifyDate *time.Time `json:"modify_date"`
	AuthorID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_comment_author" json:"author_id"`
	QuestionID *uuid.UUID `gorm:"type:uuid;index:idx_comment_question;check:chk_comments_single_parent,(question_id IS NULL) != (answer_id IS NULL)" json:"question_id"`
	AnswerID   *uuid.UUID `gorm:"type:uuid;index:idx_comment_answer" json:"answer_id"`

	Author   User      `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"author"`
	Question *Question `gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Answer   *Answer   `gorm:"foreignKey:AnswerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// CreateQuestionComment attaches a comment to a question.
func CreateQuestionComment(ctx context.Context, db *gorm.DB, authorID, questionID uuid.UUID, content string) (*Comment, error) {
	if _, err := GetQuestionBy(ctx, db, "id = ?", []interface{}{questionID}); err != nil {
		return nil, err
	}
	return createComment(ctx, db, &Comment{
		ID:         uuid.New(),
		AuthorID:   authorID,
		QuestionID: &questionID,
	}, content)
}

// CreateAnswerComment attaches a comment to an answer.
func CreateAnswerComment(ctx context.Context, db *gorm.DB, authorID, answerID uuid.UUID, content string) (*Comment, error) {
	if _, err := GetAnswerBy(ctx, db, "id = ?", []interface{}{answerID}); err != nil {
		return nil, err
	}
	return createComment(ctx, db, &Comment{
		ID:       uuid.New(),
		AuthorID: authorID,
		AnswerID: &answerID,
	}, content)
}

func createComment(ctx context.Context, db *gorm.DB, c *Comment, content string) (*Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, utils.NewError(utils.ErrBadRequest.Code, "content is required")
	}
	c.Content = content
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to create comment")
	}
	return c, nil
}

// GetCommentBy retrieves a comment by condition, with optional preloading of relationships.
func GetCommentBy(ctx context.Context, db *gorm.DB, condition string, args []interface{}, preload ...string) (*Comment, error) {
	var c Comment
	query := db.WithContext(ctx).Where(condition, args...)
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&c).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewError(utils.ErrNotFound.Code, "Comment not found")
		}
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to fetch comment")
	}
	return &c, nil
}

// UpdateComment edits the content. Author-only; stamps the modify date.
func UpdateComment(ctx context.Context, db *gorm.DB, id, actorID uuid.UUID, content string) (*Comment, error) {
	c, err := GetCommentBy(ctx, db, "id = ?", []interface{}{id})
	if err != nil {
		return nil, err
	}
	if c.AuthorID != actorID {
		return nil, utils.NewError(utils.ErrForbidden.Code, "only the author can modify this comment")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, utils.NewError(utils.ErrBadRequest.Code, "content is required")
	}

	now := time.Now()
	c.Content = content
	c.ModifyDate = &now
	if err := db.WithContext(ctx).Save(c).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to update comment")
	}
	return c, nil
}

// DeleteComment removes the comment. Only the author may delete.
func DeleteComment(ctx context.Context, db *gorm.DB, id, actorID uuid.UUID) error {
	c, err := GetCommentBy(ctx, db, "id = ?", []interface{}{id})
	if err != nil {
		return err
	}
	if c.AuthorID != actorID {
		return utils.NewError(utils.ErrForbidden.Code, "only the author can delete this comment")
	}
	if err := db.WithContext(ctx).Delete(c).Error; err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to delete comment")
	}
	return nil
}

// QuestionForComment resolves the question a comment belongs to, walking
// through the answer when the comment hangs off one.
func QuestionForComment(ctx context.Context, db *gorm.DB, c *Comment) (*Question, error) {
	if c.QuestionID != nil {
		return GetQuestionBy(ctx, db, "id = ?", []interface{}{*c.QuestionID})
	}
	a, err := GetAnswerBy(ctx, db, "id = ?", []interface{}{*c.AnswerID})
	if err != nil {
		return nil, err
	}
	return GetQuestionBy(ctx, db, "id = ?", []interface{}{a.QuestionID})
}
