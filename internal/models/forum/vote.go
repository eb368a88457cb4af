package forum

import (
	"context"
	"time"

	"github.com/goboardhq/goboard/pkg/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vote errors are surfaced as warnings, not hard failures: the request that
// triggered them still completes.
var (
	ErrSelfVote      = utils.NewError(utils.ErrConflict.Code, "you cannot recommend your own post")
	ErrDuplicateVote = utils.NewError(utils.ErrConflict.Code, "you already recommended this post")
)

// QuestionVote is the voter-set junction for questions. The composite
// primary key is the unique (user, question) pair, so a duplicate vote is
// rejected by the schema even when two requests race past the existence
// check.
type QuestionVote struct {
	UserID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	QuestionID uuid.UUID `gorm:"type:uuid;primaryKey" json:"question_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`

	User     User     `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Question Question `gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// AnswerVote is the voter-set junction for answers.
type AnswerVote struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	AnswerID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"answer_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	User   User   `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Answer Answer `gorm:"foreignKey:AnswerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// VoteQuestion adds the voter to the question's voter set. One vote per
// user per question, never on your own question, and no unvote.
func VoteQuestion(ctx context.Context, db *gorm.DB, questionID, voterID uuid.UUID) error {
	q, err := GetQuestionBy(ctx, db, "id = ?", []interface{}{questionID})
	if err != nil {
		return err
	}
	if q.AuthorID == voterID {
		return ErrSelfVote
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&QuestionVote{}).
			Where("user_id = ? AND question_id = ?", voterID, questionID).
			Count(&count).Error; err != nil {
			return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to check vote")
		}
		if count > 0 {
			return ErrDuplicateVote
		}
		if err := tx.Create(&QuestionVote{UserID: voterID, QuestionID: questionID}).Error; err != nil {
			if isDuplicateErr(err) {
				return ErrDuplicateVote
			}
			return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to record vote")
		}
		return nil
	})
}

// VoteAnswer adds the voter to the answer's voter set, with the same rules
// as VoteQuestion.
func VoteAnswer(ctx context.Context, db *gorm.DB, answerID, voterID uuid.UUID) error {
	a, err := GetAnswerBy(ctx, db, "id = ?", []interface{}{answerID})
	if err != nil {
		return err
	}
	if a.AuthorID == voterID {
		return ErrSelfVote
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&AnswerVote{}).
			Where("user_id = ? AND answer_id = ?", voterID, answerID).
			Count(&count).Error; err != nil {
			return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to check vote")
		}
		if count > 0 {
			return ErrDuplicateVote
		}
		if err := tx.Create(&AnswerVote{UserID: voterID, AnswerID: answerID}).Error; err != nil {
			if isDuplicateErr(err) {
				return ErrDuplicateVote
			}
			return utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to record vote")
		}
		return nil
	})
}

// QuestionVoteCount returns the size of a question's voter set.
func QuestionVoteCount(ctx context.Context, db *gorm.DB, questionID uuid.UUID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&QuestionVote{}).
		Where("question_id = ?", questionID).
		Count(&count).Error
	if err != nil {
		return 0, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to count votes")
	}
	return count, nil
}

// AnswerVoteCount returns the size of an answer's voter set.
func AnswerVoteCount(ctx context.Context, db *gorm.DB, answerID uuid.UUID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&AnswerVote{}).
		Where("answer_id = ?", answerID).
		Count(&count).Error
	if err != nil {
		return 0, utils.WrapError(err, utils.ErrInternalServerError.Code, "Failed to count votes")
	}
	return count, nil
}
