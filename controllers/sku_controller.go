package controllers

import (
	"errors"
	"time"

	"shopguard/models"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SkuController struct {
	DB *gorm.DB
}

func NewSkuController(DB *gorm.DB) *SkuController {
	return &SkuController{DB: DB}
}

type skuInput struct {
	Brand          string `json:"brand" validate:"required,min=2"`
	Size           string `json:"size" validate:"required,min=1"`
	IsCarton       bool   `json:"is_carton"`
	UnitsPerCarton int    `json:"units_per_carton" validate:"gte=0"`
}

// CreateSku adds a catalog entry. The brand/size/carton triple is the
// product identity; asking for an existing one is a conflict, not a
// silent update.
func (c *SkuController) CreateSku(ctx *fiber.Ctx) error {
	var input skuInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(errorBody("Invalid request body", err))
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(errorBody("Validation failed", err))
	}

	var existing models.SKU
	err := c.DB.Where("brand = ? AND size = ? AND is_carton = ?",
		input.Brand, input.Size, input.IsCarton).First(&existing).Error
	if err == nil {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"message": "SKU already exists",
			"data":    existing,
		})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return ctx.Status(fiber.StatusInternalServerError).JSON(errorBody("Failed to query catalog", err))
	}

	unitsPerCarton := input.UnitsPerCarton
	if !input.IsCarton {
		unitsPerCarton = 0
	} else if unitsPerCarton == 0 {
		unitsPerCarton = 12
	}

	sku := models.SKU{
		Brand:          input.Brand,
		Size:           input.Size,
		IsCarton:       input.IsCarton,
		UnitsPerCarton: unitsPerCarton,
		IsActive:       true,
		CreatedBy:      int(userIDFrom(ctx)),
	}
	if err := c.DB.Create(&sku).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(errorBody("Failed to create SKU", err))
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "SKU created successfully",
		"data":    sku,
	})
}

// GetSkus lists the catalog. Discontinued entries are included only
// when asked for, so old audit rows can still resolve their product.
func (c *SkuController) GetSkus(ctx *fiber.Ctx) error {
	query := c.DB.Order("brand ASC, size ASC")
	if ctx.Query("include_inactive") != "true" {
		query = query.Where("is_active = ?", true)
	}

	var skus []models.SKU
	if err := query.Find(&skus).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(errorBody("Failed to fetch catalog", err))
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "SKUs found",
		"data":    skus,
	})
}

// DeactivateSku discontinues a catalog entry. History referencing the
// SKU stays intact; it just stops being sellable and auditable.
func (c *SkuController) DeactivateSku(ctx *fiber.Ctx) error {
	skuID, err := ctx.ParamsInt("id")
	if err != nil || skuID <= 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid SKU id",
		})
	}

	now := time.Now()
	result := c.DB.Model(&models.SKU{}).
		Where("id = ? AND is_active = ?", skuID, true).
		Updates(map[string]interface{}{
			"is_active":       false,
			"discontinued_at": &now,
		})
	if result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(errorBody("Failed to deactivate SKU", result.Error))
	}
	if result.RowsAffected == 0 {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "SKU not found or already inactive",
		})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "SKU deactivated",
	})
}
