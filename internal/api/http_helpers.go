package api

import (
	"github.com/gofiber/fiber/v2"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func redirectWithError(c *fiber.Ctx, path string, message string) error {
	setFlashCookie(c, FlashPayload{Error: message})
	return c.Redirect(path, fiber.StatusSeeOther)
}

func redirectWithSuccess(c *fiber.Ctx, path string, message string) error {
	setFlashCookie(c, FlashPayload{Success: message})
	return c.Redirect(path, fiber.StatusSeeOther)
}
