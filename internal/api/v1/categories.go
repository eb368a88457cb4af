package v1

import (
	"github.com/goboardhq/goboard/internal/models/forum"
	"github.com/goboardhq/goboard/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

// ListCategories returns every board category, sorted by name.
func ListCategories(c *fiber.Ctx) error {
	categories, err := forum.ListCategories(c.Context(), DB)
	if err != nil {
		Logger.Error(c.Context()).WithFields("error", err).Logs("Failed to list categories")
		return utils.SendError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"categories": categories,
	})
}
