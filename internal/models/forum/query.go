package forum

import (
	"context"
	"strings"

	"github.com/goboardhq/goboard/pkg/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Page sizes mirror the board's listing views.
const (
	QuestionPageSize     = 10
	AnswerPageSize       = 5
	RecentAnswerPageSize = 15
	ProfileItemLimit     = 5
)

// AnswerSort selects the ordering of a question's answer listing.
type AnswerSort string

const (
	SortRecent    AnswerSort = "recent"
	SortRecommend AnswerSort = "recommend"
)

// QuestionPage is one window of a question listing.
type QuestionPage struct {
	Items   []Question `json:"items"`
	Total   int64      `json:"total"`
	Page    int        `json:"page"`
	PerPage int        `json:"per_page"`
}

// AnswerPage is one window of an answer listing.
type AnswerPage struct {
	Items   []Answer `json:"items"`
	Total   int64    `json:"total"`
	Page    int      `json:"page"`
	PerPage int      `json:"per_page"`
}

// Profile is a user's public profile: the latest few items of each content
// type plus the total counts.
type Profile struct {
	User          User       `json:"user"`
	Questions     []Question `json:"questions"`
	Answers       []Answer   `json:"answers"`
	Comments      []Comment  `json:"comments"`
	QuestionCount int64      `json:"question_count"`
	AnswerCount   int64      `json:"answer_count"`
	CommentCount  int64      `json:"comment_count"`
}

// ListQuestions returns one page of a category's questions, newest first.
// A non-empty keyword filters case-insensitively against the subject, the
// content, the author's username, any answer's content, or any answer's
// author's username. Pages past the end come back empty, not as an error.
func ListQuestions(ctx context.Context, db *gorm.DB, categoryID uuid.UUID, keyword string, page int) (*QuestionPage, error) {
	if page < 1 {
		page = 1
	}

	query := db.WithContext(ctx).Model(&Question{}).
		Where("questions.category_id = ?", categoryID)

	keyword = strings.TrimSpace(keyword)
	if keyword != "" {
		pattern := "%" + strings.ToLower(keyword) + "%"
		query = query.
			Joins("JOIN users ON users.id = questions.author_id").
			Where(`LOWER(questions.subject) LIKE ?
				OR LOWER(questions.content) LIKE ?
				OR LOWER(users.username) LIKE ?
				OR questions.id IN (
					SELECT answers.question_id FROM answers
					JOIN users AS answer_authors ON answer_authors.id = answers.author_id
					WHERE LOWER(answers.content) LIKE ? OR LOWER(answer_authors.username) LIKE ?
				)`,
				pattern, pattern, pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to count questions")
	}

	var items []Question
	err := query.
		Order("questions.created_at DESC").
		Limit(QuestionPageSize).
		Offset((page - 1) * QuestionPageSize).
		Preload("Author").
		Preload("Category").
		Find(&items).Error
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to list questions")
	}

	return &QuestionPage{Items: items, Total: total, Page: page, PerPage: QuestionPageSize}, nil
}

// ListAnswers returns one page of a question's answers. SortRecent orders
// by creation time descending. SortRecommend orders by voter-set size
// descending, counted over the vote junction with an outer join so
// zero-vote answers rank as zero, ties broken newest first.
func ListAnswers(ctx context.Context, db *gorm.DB, questionID uuid.UUID, sort AnswerSort, page int) (*AnswerPage, error) {
	if page < 1 {
		page = 1
	}

	query := db.WithContext(ctx).Model(&Answer{}).
		Where("answers.question_id = ?", questionID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to count answers")
	}

	switch sort {
	case SortRecommend:
		votes := db.Model(&AnswerVote{}).
			Select("answer_id, COUNT(*) AS num_voter").
			Group("answer_id")
		query = query.
			Joins("LEFT JOIN (?) AS votes ON votes.answer_id = answers.id", votes).
			Order("COALESCE(votes.num_voter, 0) DESC, answers.created_at DESC")
	default:
		query = query.Order("answers.created_at DESC")
	}

	var items []Answer
	err := query.
		Limit(AnswerPageSize).
		Offset((page - 1) * AnswerPageSize).
		Preload("Author").
		Find(&items).Error
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to list answers")
	}

	return &AnswerPage{Items: items, Total: total, Page: page, PerPage: AnswerPageSize}, nil
}

// RecentAnswers is the global answer feed, newest first. The inner joins
// drop answers whose question or author row is gone.
func RecentAnswers(ctx context.Context, db *gorm.DB, page int) (*AnswerPage, error) {
	if page < 1 {
		page = 1
	}

	query := db.WithContext(ctx).Model(&Answer{}).
		Joins("JOIN questions ON questions.id = answers.question_id").
		Joins("JOIN users ON users.id = answers.author_id")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to count answers")
	}

	var items []Answer
	err := query.
		Order("answers.created_at DESC").
		Limit(RecentAnswerPageSize).
		Offset((page - 1) * RecentAnswerPageSize).
		Preload("Author").
		Preload("Question").
		Find(&items).Error
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to list recent answers")
	}

	return &AnswerPage{Items: items, Total: total, Page: page, PerPage: RecentAnswerPageSize}, nil
}

// GetUserProfile assembles a user's profile: the latest five questions,
// answers and comments each, plus the total counts.
func GetUserProfile(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*Profile, error) {
	u, err := GetUserBy(ctx, db, "id = ?", []interface{}{userID})
	if err != nil {
		return nil, err
	}

	p := &Profile{User: *u}

	err = db.WithContext(ctx).Model(&Question{}).
		Where("author_id = ?", userID).
		Order("created_at DESC").
		Limit(ProfileItemLimit).
		Find(&p.Questions).Error
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to load profile questions")
	}
	err = db.WithContext(ctx).Model(&Answer{}).
		Where("author_id = ?", userID).
		Order("created_at DESC").
		Limit(ProfileItemLimit).
		Find(&p.Answers).Error
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to load profile answers")
	}
	err = db.WithContext(ctx).Model(&Comment{}).
		Where("author_id = ?", userID).
		Order("created_at DESC").
		Limit(ProfileItemLimit).
		Find(&p.Comments).Error
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to load profile comments")
	}

	if err := db.WithContext(ctx).Model(&Question{}).Where("author_id = ?", userID).Count(&p.QuestionCount).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to count profile questions")
	}
	if err := db.WithContext(ctx).Model(&Answer{}).Where("author_id = ?", userID).Count(&p.AnswerCount).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to count profile answers")
	}
	if err := db.WithContext(ctx).Model(&Comment{}).Where("author_id = ?", userID).Count(&p.CommentCount).Error; err != nil {
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to count profile comments")
	}

	return p, nil
}

// LatestQuestion returns the most recently created question across all
// categories, or NotFound when the board is empty. The index page uses it
// to pick a landing category.
func LatestQuestion(ctx context.Context, db *gorm.DB) (*Question, error) {
	var q Question
	err := db.WithContext(ctx).
		Order("created_at DESC").
		Preload("Category").
		First(&q).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.NewError(utils.ErrNotFound.Code, "Question not found")
		}
		return nil, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to fetch latest question")
	}
	return &q, nil
}
