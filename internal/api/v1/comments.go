package v1

import (
	"fmt"

	"github.com/goboardhq/goboard/internal/auth"
	"github.com/goboardhq/goboard/internal/models/forum"
	"github.com/goboardhq/goboard/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type commentRequest struct {
	Content string `json:"content" validate:"required"`
}

func parseCommentRequest(c *fiber.Ctx) (*commentRequest, error) {
	cr := new(commentRequest)
	if err := utils.StrictBodyParser(c, cr); err != nil {
		Logger.Warn(c.Context()).WithFields("error", err).Logs(fmt.Sprintf("Failed to parse comment request: %v", err))
		return nil, utils.NewError(utils.ErrBadRequest.Code, "Invalid request format")
	}
	if verr := Validator.Validate(cr); verr != nil {
		Logger.Warn(c.Context()).WithFields("errors", verr).Logs("Comment validation failed")
		details := make([]string, 0, len(verr.Errors))
		for _, e := range verr.Errors {
			details = append(details, e.Msg)
		}
		return nil, utils.NewError(utils.ErrBadRequest.Code, "Validation failed", details...)
	}
	return cr, nil
}

// CreateQuestionComment posts a comment directly on a question.
func CreateQuestionComment(c *fiber.Ctx) error {
	questionID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	cr, err := parseCommentRequest(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	user := auth.CurrentUser(c)
	comment, err := forum.CreateQuestionComment(c.Context(), DB, user.ID, questionID, cr.Content)
	if err != nil {
		Logger.Warn(c.Context()).WithFields("question_id", questionID.String()).Logs(fmt.Sprintf("Failed to create comment: %v", err))
		return utils.SendError(c, err)
	}

	Logger.Info(c.Context()).WithFields("comment_id", comment.ID.String()).Logs("Comment created")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Comment created",
		"comment": comment,
	})
}

// CreateAnswerComment posts a comment on an answer.
func CreateAnswerComment(c *fiber.Ctx) error {
	answerID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	cr, err := parseCommentRequest(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	user := auth.CurrentUser(c)
	comment, err := forum.CreateAnswerComment(c.Context(), DB, user.ID, answerID, cr.Content)
	if err != nil {
		Logger.Warn(c.Context()).WithFields("answer_id", answerID.String()).Logs(fmt.Sprintf("Failed to create comment: %v", err))
		return utils.SendError(c, err)
	}

	Logger.Info(c.Context()).WithFields("comment_id", comment.ID.String()).Logs("Comment created")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Comment created",
		"comment": comment,
	})
}

// UpdateComment edits a comment. Only the author may edit.
func UpdateComment(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	cr, err := parseCommentRequest(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	user := auth.CurrentUser(c)
	comment, err := forum.UpdateComment(c.Context(), DB, id, user.ID, cr.Content)
	if err != nil {
		Logger.Warn(c.Context()).WithFields("comment_id", id.String()).Logs(fmt.Sprintf("Comment update rejected: %v", err))
		return utils.SendError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Comment updated",
		"comment": comment,
	})
}

// DeleteComment removes a comment. Only the author may delete.
func DeleteComment(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	user := auth.CurrentUser(c)
	if err := forum.DeleteComment(c.Context(), DB, id, user.ID); err != nil {
		Logger.Warn(c.Context()).WithFields("comment_id", id.String()).Logs(fmt.Sprintf("Comment delete rejected: %v", err))
		return utils.SendError(c, err)
	}

	Logger.Info(c.Context()).WithFields("comment_id", id.String()).Logs("Comment deleted")

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Comment deleted",
	})
}
