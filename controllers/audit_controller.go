package controllers

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"shopguard/config"
	"shopguard/engine"
	"shopguard/models"
	"shopguard/repositories"
	"shopguard/services"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// AuditController settles physical counts against the ledger. This is
// the only place accumulated drift turns into an audit record, an
// alert, and a fresh ledger checkpoint.
type AuditController struct {
	DB       *gorm.DB
	Ledger   *repositories.LedgerRepository
	Audits   *repositories.AuditRepository
	Notifier services.Notifier
	Now      func() time.Time
}

func NewAuditController(DB *gorm.DB, notifier services.Notifier) *AuditController {
	return &AuditController{
		DB:       DB,
		Ledger:   repositories.NewLedgerRepository(DB),
		Audits:   repositories.NewAuditRepository(DB),
		Notifier: notifier,
		Now:      time.Now,
	}
}

type verifyInput struct {
	SkuID       uint   `json:"sku_id" validate:"required"`
	CountedQty  *int   `json:"counted_quantity" validate:"required,gte=0"`
	TriggerType string `json:"trigger_type"`
	DeviceID    string `json:"device_id"`
}

// VerifyCount settles a submitted shelf count. The audit record, the
// alert (when the variance is material) and the checkpoint reset
// commit in one transaction; the owner notification happens after the
// commit so a dead SMTP server cannot roll back a settled count.
func (c *AuditController) VerifyCount(ctx *fiber.Ctx) error {
	var input verifyInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(errorBody("Invalid request body", err))
	}

	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(errorBody("Validation failed", err))
	}

	triggerType := input.TriggerType
	if triggerType == "" {
		triggerType = "MANUAL"
	}

	shopID := shopIDFrom(ctx)
	userID := userIDFrom(ctx)
	now := c.Now()
	counted := *input.CountedQty

	var (
		assessment engine.Assessment
		auditLog   models.AuditLog
		alert      *models.Alert
		sku        models.SKU
	)

	err := c.DB.Transaction(func(tx *gorm.DB) error {
		var inv models.Inventory
		err := tx.Preload("Sku").
			Where("shop_id = ? AND sku_id = ?", shopID, input.SkuID).
			First(&inv).Error
		if err != nil {
			return err
		}
		sku = inv.Sku

		assessment = engine.AssessCount(inv.Quantity, counted, inv.CostPrice)

		auditLog = models.AuditLog{
			ShopID:          shopID,
			SkuID:           input.SkuID,
			UserID:          userID,
			TriggerType:     triggerType,
			ExpectedQty:     assessment.ExpectedQty,
			ActualQty:       assessment.ActualQty,
			Variance:        assessment.Variance,
			VariancePercent: assessment.VariancePercent,
			EstimatedLoss:   assessment.EstimatedLoss,
			Severity:        assessment.Severity,
		}
		if err := tx.Create(&auditLog).Error; err != nil {
			return err
		}

		if assessment.Outcome == engine.MaterialVariance {
			alert = &models.Alert{
				ShopID:          shopID,
				SkuID:           input.SkuID,
				AuditLogID:      auditLog.ID,
				Severity:        assessment.Severity,
				Message:         alertMessage(assessment, sku),
				ExpectedQty:     assessment.ExpectedQty,
				ActualQty:       assessment.ActualQty,
				Variance:        assessment.Variance,
				VariancePercent: assessment.VariancePercent,
				EstimatedLoss:   assessment.EstimatedLoss,
			}
			if err := tx.Create(alert).Error; err != nil {
				return err
			}
		}

		return c.Ledger.ResetCheckpoint(tx, shopID, input.SkuID, counted, now)
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "SKU not found for this shop",
			})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(errorBody("Failed to settle count", err))
	}

	if assessment.SendNotification {
		recipient := config.AlertRecipient
		if recipient == "" {
			var shop models.Shop
			if c.DB.First(&shop, shopID).Error == nil {
				recipient = shop.OwnerPhone
			}
		}
		subject := fmt.Sprintf("Stock alert: %s %s", sku.Brand, sku.Size)
		if err := c.Notifier.NotifyOwner(recipient, subject, alertMessage(assessment, sku)); err != nil {
			// Notification failure never unwinds a settled count.
			fmt.Println("Warning: owner notification failed:", err)
		}
	}

	response := fiber.Map{
		"success":          true,
		"message":          "Count settled",
		"audit_id":         auditLog.ID,
		"expected_count":   assessment.ExpectedQty,
		"actual_count":     assessment.ActualQty,
		"variance":         assessment.Variance,
		"variance_percent": assessment.VariancePercent,
		"estimated_loss":   assessment.EstimatedLoss,
		"severity":         assessment.Severity,
		"status":           assessment.Status,
		"alert_created":    alert != nil,
	}
	if alert != nil {
		response["alert_id"] = alert.ID
	}
	return ctx.Status(fiber.StatusOK).JSON(response)
}

func alertMessage(a engine.Assessment, sku models.SKU) string {
	if a.Variance < 0 {
		return fmt.Sprintf("Missing %d units of %s %s", -a.Variance, sku.Brand, sku.Size)
	}
	return fmt.Sprintf("Excess %d units of %s %s", a.Variance, sku.Brand, sku.Size)
}

// GetAuditHistory lists settled counts for the dashboard.
func (c *AuditController) GetAuditHistory(ctx *fiber.Ctx) error {
	filter := repositories.AuditFilter{
		Severity: ctx.Query("severity"),
		Days:     queryInt(ctx, "days", 30),
		Limit:    queryInt(ctx, "limit", 100),
		Offset:   queryInt(ctx, "offset", 0),
	}
	if skuID, err := strconv.Atoi(ctx.Query("sku_id", "0")); err == nil {
		filter.SkuID = uint(skuID)
	}

	rows, err := c.Audits.History(shopIDFrom(ctx), filter)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(errorBody("Failed to fetch audit history", err))
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Audits found",
		"data":    rows,
	})
}

// ExportAudits streams the audit history as a spreadsheet for the
// owner's accountant.
func (c *AuditController) ExportAudits(ctx *fiber.Ctx) error {
	rows, err := c.Audits.History(shopIDFrom(ctx), repositories.AuditFilter{
		Days: queryInt(ctx, "days", 30),
	})
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(errorBody("Failed to fetch audit history", err))
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Audits"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Date", "Brand", "Size", "Trigger", "Expected", "Counted", "Variance", "Variance %", "Severity", "Est. Loss", "Counted By"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, row := range rows {
		values := []interface{}{
			row.CreatedAt.Format("2006-01-02 15:04"),
			row.Brand,
			row.Size,
			row.TriggerType,
			row.ExpectedQty,
			row.ActualQty,
			row.Variance,
			row.VariancePercent,
			row.Severity,
			row.EstimatedLoss,
			row.CountedBy,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(errorBody("Failed to build spreadsheet", err))
	}

	filename := fmt.Sprintf("audits_%s.xlsx", c.Now().Format("20060102"))
	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return ctx.Send(buf.Bytes())
}
