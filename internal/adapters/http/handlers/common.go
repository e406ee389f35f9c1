package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// parseID reads the :id route parameter as an unsigned integer.
func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// currentUserID reads the authenticated user's ID set by the auth middleware.
func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}

// currentRole reads the authenticated user's role set by the auth middleware.
func currentRole(c *fiber.Ctx) string {
	role, _ := c.Locals("role").(string)
	return role
}

// numField maps a numeric form value so zero reads as "not provided"
// for the validation layer.
func numField(n interface{}) interface{} {
	switch v := n.(type) {
	case uint:
		if v == 0 {
			return nil
		}
	case int:
		if v == 0 {
			return nil
		}
	case *uint:
		if v == nil {
			return nil
		}
		return *v
	}
	return n
}
