package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ipotrack/ipo-backend/services"
)

type AuthHandler struct {
	Service *services.AuthService
}

func NewAuthHandler(service *services.AuthService) *AuthHandler {
	return &AuthHandler{Service: service}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input services.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}

	user, tokens, err := h.Service.Register(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully",
		"access":  tokens.Access,
		"refresh": tokens.Refresh,
		"user":    user,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}

	user, tokens, err := h.Service.Login(c.Context(), input.Username, input.Password)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"access":  tokens.Access,
		"refresh": tokens.Refresh,
		"user":    user,
	})
}

func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var input struct {
		Refresh string `json:"refresh"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid request body",
		})
	}

	tokens, err := h.Service.Refresh(c.Context(), input.Refresh)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"access": tokens.Access})
}

func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	user, err := h.Service.GetUserByID(c.Context(), actorID(c))
	if err != nil {
		return respondError(c, err)
	}
	if user == nil {
		return respondNotFound(c, "user not found")
	}
	return c.JSON(user)
}
