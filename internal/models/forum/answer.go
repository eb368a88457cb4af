package forum

import (
	"context"
	"strings"
	"time"

	"github.com/goboardhq/goboard/pkg/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Answer struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Content    string     `gorm:"type:text;not null" json:"content" validate:"required"`
	CreatedAt  time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	ModifyDate *time.Time `json:"modify_date"`
	QuestionID uuid.UUID  `gorm:"type:uuid;not null;index:idx_answer_question" json:"question_id"`
	AuthorID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_answer_author" json:"author_id"`

	Question Question  `gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Author   User      `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"author"`
	Comments []Comment `gorm:"foreignKey:AnswerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// CreateAnswer appends an answer to an existing question.
func CreateAnswer(ctx context.Context, db *gorm.DB, authorID, questionID uuid.UUID, content string) (*Answer, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, utils.NewError(utils.ErrBadRequest.Code, "content is required")
	}
	if _, err := GetQuestionBy(ctx, db, "id = ?", []interface{}{questionID}); err != nil {
		return nil, err
	}

	a := &Answer{
		ID:         uuid.New(),
		Content:    content,
		QuestionID: questionID,
		AuthorID:   authorID,
	}
	if err := db.WithContext(ctx).Create(a).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to create answer")
	}
	return a, nil
}

// GetAnswerBy retrieves an answer by condition, with optional preloading of relationships.
func GetAnswerBy(ctx context.Context, db *gorm.DB, condition string, args []interface{}, preload ...string) (*Answer, error) {
	var a Answer
	query := db.WithContext(ctx).Where(condition, args...)
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&a).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewError(utils.ErrNotFound.Code, "Answer not found")
		}
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to fetch answer")
	}
	return &a, nil
}

// UpdateAnswer edits the content. Author-only; stamps the modify date.
func UpdateAnswer(ctx context.Context, db *gorm.DB, id, actorID uuid.UUID, content string) (*Answer, error) {
	a, err := GetAnswerBy(ctx, db, "id = ?", []interface{}{id})
	if err != nil {
		return nil, err
	}
	if a.AuthorID != actorID {
		return nil, utils.NewError(utils.ErrForbidden.Code, "only the author can modify this answer")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, utils.NewError(utils.ErrBadRequest.Code, "content is required")
	}

	now := time.Now()
	a.Content = content
	a.ModifyDate = &now
	if err := db.WithContext(ctx).Save(a).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to update answer")
	}
	return a, nil
}

// DeleteAnswer removes the answer and, via cascade, its comments and votes.
// Only the author may delete.
func DeleteAnswer(ctx context.Context, db *gorm.DB, id, actorID uuid.UUID) error {
	a, err := GetAnswerBy(ctx, db, "id = ?", []interface{}{id})
	if err != nil {
		return err
	}
	if a.AuthorID != actorID {
		return utils.NewError(utils.ErrForbidden.Code, "only the author can delete this answer")
	}
	if err := db.WithContext(ctx).Delete(a).Error; err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to delete answer")
	}
	return nil
}
