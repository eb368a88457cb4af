package v1

import (
	"fmt"

	"github.com/goboardhq/goboard/internal/auth"
	"github.com/goboardhq/goboard/internal/models/forum"
	"github.com/goboardhq/goboard/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

// CreateAnswer posts an answer on a question.
func CreateAnswer(c *fiber.Ctx) error {
	questionID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	type AnswerRequest struct {
		Content string `json:"content" validate:"required"`
	}

	ar := new(AnswerRequest)
	if err := utils.StrictBodyParser(c, ar); err != nil {
		Logger.Warn(c.Context()).WithFields("error", err).Logs(fmt.Sprintf("Failed to parse answer request: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request format",
		})
	}

	if err := Validator.Validate(ar); err != nil {
		Logger.Warn(c.Context()).WithFields("errors", err).Logs("Answer validation failed")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": err,
		})
	}

	user := auth.CurrentUser(c)
	answer, err := forum.CreateAnswer(c.Context(), DB, user.ID, questionID, ar.Content)
	if err != nil {
		Logger.Warn(c.Context()).WithFields("question_id", questionID.String()).Logs(fmt.Sprintf("Failed to create answer: %v", err))
		return utils.SendError(c, err)
	}

	Logger.Info(c.Context()).WithFields("answer_id", answer.ID.String()).Logs("Answer created")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Answer created",
		"answer":  answer,
	})
}

// UpdateAnswer edits an answer. Only the author may edit.
func UpdateAnswer(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	type AnswerRequest struct {
		Content string `json:"content" validate:"required"`
	}

	ar := new(AnswerRequest)
	if err := utils.StrictBodyParser(c, ar); err != nil {
		Logger.Warn(c.Context()).WithFields("error", err).Logs(fmt.Sprintf("Failed to parse answer update: %v", err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request format",
		})
	}

	if err := Validator.Validate(ar); err != nil {
		Logger.Warn(c.Context()).WithFields("errors", err).Logs("Answer update validation failed")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": err,
		})
	}

	user := auth.CurrentUser(c)
	answer, err := forum.UpdateAnswer(c.Context(), DB, id, user.ID, ar.Content)
	if err != nil {
		Logger.Warn(c.Context()).WithFields("answer_id", id.String()).Logs(fmt.Sprintf("Answer update rejected: %v", err))
		return utils.SendError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Answer updated",
		"answer":  answer,
	})
}

// DeleteAnswer removes an answer and, through the schema, its comments and
// votes. Only the author may delete.
func DeleteAnswer(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	user := auth.CurrentUser(c)
	if err := forum.DeleteAnswer(c.Context(), DB, id, user.ID); err != nil {
		Logger.Warn(c.Context()).WithFields("answer_id", id.String()).Logs(fmt.Sprintf("Answer delete rejected: %v", err))
		return utils.SendError(c, err)
	}

	Logger.Info(c.Context()).WithFields("answer_id", id.String()).Logs("Answer deleted")

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Answer deleted",
	})
}

// VoteAnswer records the current user's recommendation of an answer.
func VoteAnswer(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	user := auth.CurrentUser(c)
	if err := forum.VoteAnswer(c.Context(), DB, id, user.ID); err != nil {
		Logger.Warn(c.Context()).WithFields("answer_id", id.String()).Logs(fmt.Sprintf("Answer vote rejected: %v", err))
		return utils.SendError(c, err)
	}

	count, err := forum.AnswerVoteCount(c.Context(), DB, id)
	if err != nil {
		return utils.SendError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":    "Vote recorded",
		"vote_count": count,
	})
}

// RecentAnswers is the site-wide feed of the newest answers with the
// questions they belong to.
func RecentAnswers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)

	result, err := forum.RecentAnswers(c.Context(), DB, page)
	if err != nil {
		Logger.Error(c.Context()).WithFields("error", err).Logs("Failed to list recent answers")
		return utils.SendError(c, err)
	}

	items := make([]fiber.Map, 0, len(result.Items))
	for _, a := range result.Items {
		items = append(items, fiber.Map{
			"id":         a.ID,
			"content":    a.Content,
			"author":     a.Author,
			"created_at": a.CreatedAt,
			"question": fiber.Map{
				"id":      a.Question.ID,
				"subject": a.Question.Subject,
			},
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"answers": fiber.Map{
			"items":    items,
			"total":    result.Total,
			"page":     result.Page,
			"per_page": result.PerPage,
		},
	})
}
