package models

import forum "github.com/goboardhq/goboard/internal/models/forum"

// RegisterModels lists every table for automigration, parents before
// children so foreign keys resolve.
func RegisterModels() []interface{} {
	return []interface{}{
		&forum.User{},
		&forum.Category{},
		&forum.Question{},
		&forum.Answer{},
		&forum.Comment{},
		&forum.QuestionVote{},
		&forum.AnswerVote{},
	}
}

type (
	User         = forum.User
	Category     = forum.Category
	Question     = forum.Question
	Answer       = forum.Answer
	Comment      = forum.Comment
	QuestionVote = forum.QuestionVote
	AnswerVote   = forum.AnswerVote
)

var (
	RegisterUser     = forum.RegisterUser
	AuthenticateUser = forum.AuthenticateUser
	SeedCategories   = forum.SeedCategories
	CreateQuestion   = forum.CreateQuestion
	CreateAnswer     = forum.CreateAnswer
)
