package controllers

import (
	"errors"
	"time"

	"shopguard/config"
	"shopguard/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(DB *gorm.DB) *AuthController {
	return &AuthController{DB: DB}
}

// Login authenticates phone + PIN and issues the bearer token the POS
// devices and the dashboard both use. The shop scope rides inside the
// token so no request payload can point at another shop's data.
func (c *AuthController) Login(ctx *fiber.Ctx) error {
	var input struct {
		Phone string `json:"phone"`
		Pin   string `json:"pin"`
	}

	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request",
		})
	}

	if input.Phone == "" || input.Pin == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Missing required fields",
		})
	}

	var user models.User
	result := c.DB.Where("phone = ? AND is_active = ?", input.Phone, true).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid phone or PIN",
			})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to query user",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PinHash), []byte(input.Pin)); err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid phone or PIN",
		})
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": float64(user.ID),
		"shop_id": float64(user.ShopID),
		"role":    user.Role,
		"name":    user.FullName,
		"jti":     uuid.New().String(),
		"iat":     now.Unix(),
		"exp":     now.Add(time.Duration(config.JWTExpiration) * time.Second).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.JWTSecret))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to sign token",
		})
	}

	ctx.Cookie(config.GetTokenCookie(signed))

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"data": fiber.Map{
			"token": signed,
			"user": fiber.Map{
				"id":        user.ID,
				"full_name": user.FullName,
				"role":      user.Role,
				"shop_id":   user.ShopID,
			},
		},
	})
}

// Me returns the authenticated user's profile.
func (c *AuthController) Me(ctx *fiber.Ctx) error {
	var user models.User
	if err := c.DB.Preload("Shop").First(&user, userIDFrom(ctx)).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "User not found",
		})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "User found",
		"data":    user,
	})
}

func (c *AuthController) Logout(ctx *fiber.Ctx) error {
	ctx.Cookie(config.GetTokenCookie(""))
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Logout successful",
	})
}
