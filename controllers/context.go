package controllers

import (
	"shopguard/config"

	"github.com/gofiber/fiber/v2"
)

// JWT claims survive the round trip as float64, so the locals set by
// the auth middleware are narrowed here in one place.

func shopIDFrom(ctx *fiber.Ctx) uint {
	v, _ := ctx.Locals("shopID").(float64)
	return uint(v)
}

func userIDFrom(ctx *fiber.Ctx) uint {
	v, _ := ctx.Locals("userID").(float64)
	return uint(v)
}

// errorBody builds a failure response. The underlying cause is echoed
// only in development; production clients get the message alone.
func errorBody(message string, err error) fiber.Map {
	body := fiber.Map{
		"success": false,
		"message": message,
	}
	if err != nil && config.IsDevelopment() {
		body["error"] = err.Error()
	}
	return body
}
