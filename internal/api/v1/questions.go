package v1

import (
	"fmt"

	"github.com/goboardhq/goboard/internal/auth"
	"github.com/goboardhq/goboard/internal/models/forum"
	"github.com/goboardhq/goboard/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// parseIDParam reads a uuid route parameter.
func parseIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, utils.NewError(utils.ErrBadRequest.Code, fmt.Sprintf("Invalid %s", name))
	}
	return id, nil
}

// Index points the client at the listing of the most recently active
// category, falling back to the default category on an empty board.
func Index(c *fiber.Ctx) error {
	category := forum.DefaultCategoryName
	if q, err := forum.LatestQuestion(c.Context(), DB); err == nil && q.Category.Name != "" {
		category = q.Category.Name
	}
	return c.Redirect("/api/v1/questions?category="+category, fiber.StatusFound)
}

// ListQuestions returns one page of a category's questions, optionally
// filtered by keyword.
func ListQuestions(c *fiber.Ctx) error {
	name := c.Query("category", forum.DefaultCategoryName)
	keyword := c.Query("kw")
	page := c.QueryInt("page", 1)

	category, err := forum.GetCategoryBy(c.Context(), DB, "name = ?", []interface{}{name})
	if err != nil {
		Logger.Warn(c.Context()).WithFields("category", name).Logs("Question listing for unknown category")
		return utils.SendError(c, err)
	}

	result, err := forum.ListQuestions(c.Context(), DB, category.ID, keyword, page)
	if err != nil {
		Logger.Error(c.Context()).WithFields("error", err).Logs("Failed to list questions")
		return utils.SendError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"category":  category,
		"keyword":   keyword,
		"questions": result,
	})
}

// GetQuestion returns a question's detail view: rendered content, comments,
// vote count and one page of answers. Every hit bumps the view counter.
func GetQuestion(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	sort := forum.AnswerSort(c.Query("so", string(forum.SortRecent)))
	if sort != forum.SortRecommend {
		sort = forum.SortRecent
	}
	page := c.QueryInt("page", 1)

	if err := forum.IncrementViewCount(c.Context(), DB, id); err != nil {
		return utils.SendError(c, err)
	}

	question, err := forum.GetQuestionBy(c.Context(), DB, "id = ?", []interface{}{id},
		"Author", "Category", "Comments", "Comments.Author")
	if err != nil {
		return utils.SendError(c, err)
	}

	voteCount, err := forum.QuestionVoteCount(c.Context(), DB, id)
	if err != nil {
		Logger.Error(c.Context()).WithFields("error", err).Logs("Failed to count question votes")
		return utils.SendError(c, err)
	}

	answers, err := forum.ListAnswers(c.Context(), DB, id, sort, page)
	if err != nil {
		Logger.Error(c.Context()).WithFields("error", err).Logs("Failed to list answers")
		return utils.SendError(c, err)
	}

	answerItems := make([]fiber.Map, 0, len(answers.Items))
	for _, a := range answers.Items {
		count, err := forum.AnswerVoteCount(c.Context(), DB, a.ID)
		if err != nil {
			return utils.SendError(c, err)
		}
		answerItems = append(answerItems, fiber.Map{
			"id":           a.ID,
			"content":      a.Content,
			"content_html": utils.RenderMarkdown(a.Content),
			"author":       a.Author,
			"created_at":   a.CreatedAt,
			"modify_date":  a.ModifyDate,
			"vote_count":   count,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"question": fiber.Map{
			"id":           question.ID,
			"subject":      question.Subject,
			"content":      question.Content,
			"content_html": utils.RenderMarkdown(question.Content),
			"author":       question.Author,
			"category":     question.Category,
			"comments":     question.Comments,
			"view_count":   question.ViewCount,
			"vote_count":   voteCount,
			"created_at":   question.CreatedAt,
			"modify_date":  question.ModifyDate,
		},
		"answers": fiber.Map{
			"items":    answerItems,
			"total":    answers.Total,
			"page":     answers.Page,
			"per_page": answers.PerPage,
		},
		"sort": sort,
	})
}

// CreateQuestion posts a new question. Omitting category_id files it under
// the default category.
func CreateQuestion(c *fiber.Ctx) error {
	type QuestionRequest struct {
		Subject    string `json:"subject" validate:"required,max=200"`
		Content    string `json:"content" validate:"required"`
		CategoryID string `json:"category_id" validate:"omitempty,uuid4"`
	}

	qr := new(QuestionRequest)
	if err := utils.StrictBodyParser(c, qr); err != nil {
		Logger.Warn(c.Context()).WithFields("error", err).Logs(fmt.Sprintf("Failed to parse question request: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request format",
		})
	}

	if err := Validator.Validate(qr); err != nil {
		Logger.Warn(c.Context()).WithFields("errors", err).Logs("Question validation failed")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": err,
		})
	}

	var categoryID *uuid.UUID
	if qr.CategoryID != "" {
		parsed, err := uuid.Parse(qr.CategoryID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid category_id",
			})
		}
		categoryID = &parsed
	}

	user := auth.CurrentUser(c)
	question, err := forum.CreateQuestion(c.Context(), DB, user.ID, categoryID, qr.Subject, qr.Content)
	if err != nil {
		Logger.Warn(c.Context()).WithFields("user_id", user.ID.String()).Logs(fmt.Sprintf("Failed to create question: %v", err))
		return utils.SendError(c, err)
	}

	Logger.Info(c.Context()).WithFields("question_id", question.ID.String()).Logs("Question created")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Question created",
		"question": question,
	})
}

// UpdateQuestion edits a question. Only the author may edit.
func UpdateQuestion(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	type QuestionUpdateRequest struct {
		Subject    string `json:"subject" validate:"required,max=200"`
		Content    string `json:"content" validate:"required"`
		CategoryID string `json:"category_id" validate:"required,uuid4"`
	}

	qr := new(QuestionUpdateRequest)
	if err := utils.StrictBodyParser(c, qr); err != nil {
		Logger.Warn(c.Context()).WithFields("error", err).Logs(fmt.Sprintf("Failed to parse question update: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request format",
		})
	}

	if err := Validator.Validate(qr); err != nil {
		Logger.Warn(c.Context()).WithFields("errors", err).Logs("Question update validation failed")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": err,
		})
	}

	categoryID, err := uuid.Parse(qr.CategoryID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid category_id",
		})
	}

	user := auth.CurrentUser(c)
	question, err := forum.UpdateQuestion(c.Context(), DB, id, user.ID, qr.Subject, qr.Content, categoryID)
	if err != nil {
		Logger.Warn(c.Context()).WithFields("question_id", id.String()).Logs(fmt.Sprintf("Question update rejected: %v", err))
		return utils.SendError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":  "Question updated",
		"question": question,
	})
}

// DeleteQuestion removes a question and, through the schema, its answers,
// comments and votes. Only the author may delete.
func DeleteQuestion(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	user := auth.CurrentUser(c)
	if err := forum.DeleteQuestion(c.Context(), DB, id, user.ID); err != nil {
		Logger.Warn(c.Context()).WithFields("question_id", id.String()).Logs(fmt.Sprintf("Question delete rejected: %v", err))
		return utils.SendError(c, err)
	}

	Logger.Info(c.Context()).WithFields("question_id", id.String()).Logs("Question deleted")

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Question deleted",
	})
}

// VoteQuestion records the current user's recommendation of a question.
func VoteQuestion(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	user := auth.CurrentUser(c)
	if err := forum.VoteQuestion(c.Context(), DB, id, user.ID); err != nil {
		Logger.Warn(c.Context()).WithFields("question_id", id.String()).Logs(fmt.Sprintf("Question vote rejected: %v", err))
		return utils.SendError(c, err)
	}

	count, err := forum.QuestionVoteCount(c.Context(), DB, id)
	if err != nil {
		return utils.SendError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":    "Vote recorded",
		"vote_count": count,
	})
}
