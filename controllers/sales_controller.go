package controllers

import (
	"errors"
	"strconv"
	"time"

	"shopguard/config"
	"shopguard/repositories"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SalesController is the sync endpoint the offline POS devices talk
// to. A device queues sales locally and pushes the whole backlog when
// connectivity returns; the batch may contain events the server has
// already seen.
type SalesController struct {
	DB     *gorm.DB
	Ledger *repositories.LedgerRepository
	Sales  *repositories.SalesRepository
}

func NewSalesController(DB *gorm.DB) *SalesController {
	return &SalesController{
		DB:     DB,
		Ledger: repositories.NewLedgerRepository(DB),
		Sales:  repositories.NewSalesRepository(DB),
	}
}

type saleEventInput struct {
	SaleID    string    `json:"sale_id" validate:"required,min=8"`
	SkuID     uint      `json:"sku_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
	UnitPrice float64   `json:"unit_price" validate:"gte=0"`
	SoldAt    time.Time `json:"sold_at" validate:"required"`
}

// Only the envelope is validated up front. Each sale event is checked
// individually inside the apply loop so one malformed event is
// rejected on its own and the rest of the batch still lands.
type syncInput struct {
	DeviceID string           `json:"device_id" validate:"required,min=3"`
	Sales    []saleEventInput `json:"sales" validate:"required,min=1,max=500"`
}

type eventOutcome struct {
	SaleID string `json:"sale_id"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// SyncSales applies a device's queued sales exactly once each. Every
// event settles independently: one bad event never blocks the rest of
// the batch, and re-sending an already-acknowledged batch is harmless
// because duplicates are recognised, reported and skipped.
func (c *SalesController) SyncSales(ctx *fiber.Ctx) error {
	var input syncInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(errorBody("Invalid request body", err))
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(errorBody("Validation failed", err))
	}

	shopID := shopIDFrom(ctx)
	userID := userIDFrom(ctx)

	var (
		applied    int
		duplicates int
		failed     int
		outcomes   = make([]eventOutcome, 0, len(input.Sales))
	)

	for _, ev := range input.Sales {
		if err := validate.Struct(ev); err != nil {
			failed++
			outcomes = append(outcomes, eventOutcome{SaleID: ev.SaleID, Status: "error", Error: err.Error()})
			continue
		}

		result, err := c.Ledger.ApplySale(shopID, userID, input.DeviceID, repositories.SaleInput{
			SaleID:    ev.SaleID,
			SkuID:     ev.SkuID,
			Quantity:  ev.Quantity,
			UnitPrice: ev.UnitPrice,
			SoldAt:    ev.SoldAt,
		})

		switch {
		case err != nil && errors.Is(err, repositories.ErrSkuNotInLedger):
			failed++
			outcomes = append(outcomes, eventOutcome{SaleID: ev.SaleID, Status: "error", Error: "unknown sku for this shop"})
		case err != nil:
			failed++
			detail := "failed to apply sale"
			if config.IsDevelopment() {
				detail = err.Error()
			}
			outcomes = append(outcomes, eventOutcome{SaleID: ev.SaleID, Status: "error", Error: detail})
		case result == repositories.SaleDuplicate:
			duplicates++
			outcomes = append(outcomes, eventOutcome{SaleID: ev.SaleID, Status: "duplicate"})
		default:
			applied++
			outcomes = append(outcomes, eventOutcome{SaleID: ev.SaleID, Status: "applied"})
		}
	}

	status := fiber.StatusOK
	if failed > 0 && failed < len(input.Sales) {
		status = fiber.StatusMultiStatus
	} else if failed == len(input.Sales) {
		status = fiber.StatusBadRequest
	}

	return ctx.Status(status).JSON(fiber.Map{
		"success": failed == 0,
		"message": "Sync processed",
		"data": fiber.Map{
			"received":   len(input.Sales),
			"applied":    applied,
			"duplicates": duplicates,
			"failed":     failed,
			"results":    outcomes,
		},
	})
}

// GetSalesHistory lists synced sales, filterable by sku, device and age.
func (c *SalesController) GetSalesHistory(ctx *fiber.Ctx) error {
	filter := repositories.SalesFilter{
		DeviceID: ctx.Query("device_id"),
		Days:     queryInt(ctx, "days", 7),
		Limit:    queryInt(ctx, "limit", 100),
		Offset:   queryInt(ctx, "offset", 0),
	}
	if skuID, err := strconv.Atoi(ctx.Query("sku_id", "0")); err == nil {
		filter.SkuID = uint(skuID)
	}

	rows, err := c.Sales.History(shopIDFrom(ctx), filter)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(errorBody("Failed to fetch sales history", err))
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Sales found",
		"data":    rows,
	})
}

// GetSalesSummary returns window totals plus the top-selling SKUs.
func (c *SalesController) GetSalesSummary(ctx *fiber.Ctx) error {
	days := queryInt(ctx, "days", 7)

	summary, err := c.Sales.Summary(shopIDFrom(ctx), days)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(errorBody("Failed to build sales summary", err))
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Summary built",
		"data":    summary,
	})
}

func queryInt(ctx *fiber.Ctx, key string, fallback int) int {
	v, err := strconv.Atoi(ctx.Query(key, strconv.Itoa(fallback)))
	if err != nil {
		return fallback
	}
	return v
}
