package forum

import (
	"context"
	"strings"
	"time"

	"github.com/goboardhq/goboard/pkg/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Question struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Subject    string     `gorm:"size:200;not null" json:"subject" validate:"required,max=200"`
	Content    string     `gorm:"type:text;not null" json:"content" validate:"required"`
	ViewCount  int        `gorm:"not null;default:0" json:"view_count"`
	CreatedAt  time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	ModifyDate *time.Time `json:"modify_date"`
	AuthorID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_question_author" json:"author_id"`
	CategoryID uuid.UUID  `gorm:"type:uuid;not null;index:idx_question_category" json:"category_id"`

	Author   User      `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"author"`
	Category Category  `gorm:"foreignKey:CategoryID" json:"category"`
	Answers  []Answer  `gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Comments []Comment `gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// CreateQuestion creates a question for the author. A nil categoryID falls
// back to the default category. View count starts at zero and the modify
// date stays unset until the first edit.
func CreateQuestion(ctx context.Context, db *gorm.DB, authorID uuid.UUID, categoryID *uuid.UUID, subject, content string) (*Question, error) {
	subject = strings.TrimSpace(subject)
	content = strings.TrimSpace(content)
	if subject == "" || content == "" {
		return nil, utils.NewError(utils.ErrBadRequest.Code, "subject and content are required")
	}

	var cat *Category
	var err error
	if categoryID != nil {
		cat, err = GetCategoryBy(ctx, db, "id = ?", []interface{}{*categoryID})
	} else {
		cat, err = GetCategoryBy(ctx, db, "name = ?", []interface{}{DefaultCategoryName})
	}
	if err != nil {
		return nil, err
	}

	q := &Question{
		ID:         uuid.New(),
		Subject:    subject,
		Content:    content,
		AuthorID:   authorID,
		CategoryID: cat.ID,
	}
	if err := db.WithContext(ctx).Create(q).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to create question")
	}
	q.Category = *cat
	return q, nil
}

// GetQuestionBy retrieves a question by condition, with optional preloading of relationships.
func GetQuestionBy(ctx context.Context, db *gorm.DB, condition string, args []interface{}, preload ...string) (*Question, error) {
	var q Question
	query := db.WithContext(ctx).Where(condition, args...)
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&q).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewError(utils.ErrNotFound.Code, "Question not found")
		}
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to fetch question")
	}
	return &q, nil
}

// UpdateQuestion edits subject, content and category. Only the author may
// edit; the modify date is stamped with the current time.
func UpdateQuestion(ctx context.Context, db *gorm.DB, id, actorID uuid.UUID, subject, content string, categoryID uuid.UUID) (*Question, error) {
	q, err := GetQuestionBy(ctx, db, "id = ?", []interface{}{id})
	if err != nil {
		return nil, err
	}
	if q.AuthorID != actorID {
		return nil, utils.NewError(utils.ErrForbidden.Code, "only the author can modify this question")
	}

	subject = strings.TrimSpace(subject)
	content = strings.TrimSpace(content)
	if subject == "" || content == "" {
		return nil, utils.NewError(utils.ErrBadRequest.Code, "subject and content are required")
	}
	if _, err := GetCategoryBy(ctx, db, "id = ?", []interface{}{categoryID}); err != nil {
		return nil, err
	}

	now := time.Now()
	q.Subject = subject
	q.Content = content
	q.CategoryID = categoryID
	q.ModifyDate = &now
	if err := db.WithContext(ctx).Save(q).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to update question")
	}
	return q, nil
}

// DeleteQuestion removes the question. Its answers, comments and votes go
// with it through the schema cascade rules. Only the author may delete.
func DeleteQuestion(ctx context.Context, db *gorm.DB, id, actorID uuid.UUID) error {
	q, err := GetQuestionBy(ctx, db, "id = ?", []interface{}{id})
	if err != nil {
		return err
	}
	if q.AuthorID != actorID {
		return utils.NewError(utils.ErrForbidden.Code, "only the author can delete this question")
	}
	if err := db.WithContext(ctx).Delete(q).Error; err != nil {
		return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to delete question")
	}
	return nil
}

// IncrementViewCount bumps the view count atomically in SQL, so concurrent
// detail loads don't lose updates. Every fetch counts; there is no dedup.
func IncrementViewCount(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	result := db.WithContext(ctx).Model(&Question{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if result.Error != nil {
		return utils.WrapError(result.Error, utils.ErrInternalServerError.Code, "Failed to increment view count")
	}
	if result.RowsAffected == 0 {
		return utils.NewError(utils.ErrNotFound.Code, "Question not found")
	}
	return nil
}
