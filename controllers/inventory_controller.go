package controllers

import (
	"errors"

	"shopguard/models"
	"shopguard/repositories"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type InventoryController struct {
	DB     *gorm.DB
	Ledger *repositories.LedgerRepository
}

func NewInventoryController(DB *gorm.DB) *InventoryController {
	return &InventoryController{
		DB:     DB,
		Ledger: repositories.NewLedgerRepository(DB),
	}
}

// GetInventory lists the shop's ledger with catalog info attached.
// Negative quantities are returned as-is; the dashboard renders them
// as oversell warnings.
func (c *InventoryController) GetInventory(ctx *fiber.Ctx) error {
	var rows []models.Inventory
	err := c.DB.Preload("Sku").
		Where("shop_id = ?", shopIDFrom(ctx)).
		Order("sku_id ASC").
		Find(&rows).Error
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(errorBody("Failed to fetch inventory", err))
	}

	var totalUnits int
	var totalValue float64
	oversold := 0
	for _, row := range rows {
		totalUnits += row.Quantity
		if row.Quantity > 0 {
			totalValue += float64(row.Quantity) * row.CostPrice
		} else if row.Quantity < 0 {
			oversold++
		}
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Inventory found",
		"data": fiber.Map{
			"items": rows,
			"summary": fiber.Map{
				"total_skus":        len(rows),
				"total_units":       totalUnits,
				"total_stock_value": totalValue,
				"oversold_skus":     oversold,
			},
		},
	})
}

// GetInventoryBySku returns one ledger row.
func (c *InventoryController) GetInventoryBySku(ctx *fiber.Ctx) error {
	skuID := queryInt(ctx, "sku_id", 0)
	if skuID <= 0 {
		if v, err := ctx.ParamsInt("sku_id"); err == nil {
			skuID = v
		}
	}
	if skuID <= 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "sku_id is required",
		})
	}

	var row models.Inventory
	err := c.DB.Preload("Sku").
		Where("shop_id = ? AND sku_id = ?", shopIDFrom(ctx), skuID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Inventory not found",
			})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(errorBody("Failed to fetch inventory", err))
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Inventory found",
		"data":    row,
	})
}

type restockInput struct {
	SkuID        uint    `json:"sku_id" validate:"required"`
	OrderedQty   int     `json:"ordered_qty" validate:"required,gt=0"`
	ReceivedQty  *int    `json:"received_qty" validate:"required,gte=0"`
	CostPrice    float64 `json:"cost_price" validate:"required,gt=0"`
	SellingPrice float64 `json:"selling_price" validate:"required,gt=0"`
	SupplierName string  `json:"supplier_name" validate:"required,min=2"`
}

// Restock records a supplier delivery and credits the ledger with the
// received quantity. Short deliveries keep their discrepancy on the
// restock record.
func (c *InventoryController) Restock(ctx *fiber.Ctx) error {
	var input restockInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(errorBody("Invalid request body", err))
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(errorBody("Validation failed", err))
	}

	var sku models.SKU
	if err := c.DB.Where("id = ? AND is_active = ?", input.SkuID, true).First(&sku).Error; err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "SKU not found or discontinued",
		})
	}

	restock, quantityAfter, err := c.Ledger.ApplyRestock(shopIDFrom(ctx), userIDFrom(ctx), repositories.RestockInput{
		SkuID:        input.SkuID,
		OrderedQty:   input.OrderedQty,
		ReceivedQty:  *input.ReceivedQty,
		CostPrice:    input.CostPrice,
		SellingPrice: input.SellingPrice,
		SupplierName: input.SupplierName,
	})
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(errorBody("Failed to record restock", err))
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Restock recorded",
		"data": fiber.Map{
			"restock":        restock,
			"quantity_after": quantityAfter,
		},
	})
}

type decantInput struct {
	CartonSkuID uint `json:"carton_sku_id" validate:"required"`
	UnitSkuID   uint `json:"unit_sku_id" validate:"required"`
	Cartons     int  `json:"cartons" validate:"required,gt=0"`
}

// Decant breaks cartons into sellable units. The carton SKU and the
// unit SKU must share a brand and the carton must actually be a carton.
func (c *InventoryController) Decant(ctx *fiber.Ctx) error {
	var input decantInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(errorBody("Invalid request body", err))
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(errorBody("Validation failed", err))
	}

	var carton, unit models.SKU
	if err := c.DB.First(&carton, input.CartonSkuID).Error; err != nil || !carton.IsCarton {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "carton_sku_id is not a carton SKU",
		})
	}
	if err := c.DB.First(&unit, input.UnitSkuID).Error; err != nil || unit.IsCarton {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "unit_sku_id is not a unit SKU",
		})
	}
	if carton.Brand != unit.Brand {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "carton and unit SKU must share a brand",
		})
	}

	decant, err := c.Ledger.ApplyDecant(shopIDFrom(ctx), userIDFrom(ctx), repositories.DecantInput{
		CartonSkuID:    input.CartonSkuID,
		UnitSkuID:      input.UnitSkuID,
		Cartons:        input.Cartons,
		UnitsPerCarton: carton.UnitsPerCarton,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrInsufficientCartons) {
			return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success": false,
				"message": "Not enough cartons in stock",
			})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(errorBody("Failed to record decant", err))
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Decant recorded",
		"data":    decant,
	})
}
