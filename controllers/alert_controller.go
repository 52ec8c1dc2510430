package controllers

import (
	"errors"
	"strconv"
	"time"

	"shopguard/models"
	"shopguard/repositories"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AlertController struct {
	DB     *gorm.DB
	Alerts *repositories.AlertRepository
}

func NewAlertController(DB *gorm.DB) *AlertController {
	return &AlertController{
		DB:     DB,
		Alerts: repositories.NewAlertRepository(DB),
	}
}

// GetAlerts lists the shop's alerts, newest first.
func (c *AlertController) GetAlerts(ctx *fiber.Ctx) error {
	filter := repositories.AlertFilter{
		Status:   ctx.Query("status"),
		Severity: ctx.Query("severity"),
		Days:     queryInt(ctx, "days", 30),
		Limit:    queryInt(ctx, "limit", 100),
		Offset:   queryInt(ctx, "offset", 0),
	}

	rows, err := c.Alerts.List(shopIDFrom(ctx), filter)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(errorBody("Failed to fetch alerts", err))
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Alerts found",
		"data":    rows,
	})
}

// GetAlertSummary returns severity counts plus estimated loss for the
// dashboard header.
func (c *AlertController) GetAlertSummary(ctx *fiber.Ctx) error {
	days := queryInt(ctx, "days", 30)

	summary, err := c.Alerts.Summary(shopIDFrom(ctx), days)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(errorBody("Failed to build alert summary", err))
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Summary built",
		"data":    summary,
	})
}

// GetAlertDetails returns one alert with its originating audit record.
func (c *AlertController) GetAlertDetails(ctx *fiber.Ctx) error {
	alertID, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid alert id",
		})
	}

	var alert models.Alert
	if err := c.DB.Where("id = ? AND shop_id = ?", alertID, shopIDFrom(ctx)).First(&alert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Alert not found",
			})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(errorBody("Failed to fetch alert", err))
	}

	var audit models.AuditLog
	c.DB.Where("id = ?", alert.AuditLogID).First(&audit)

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Alert found",
		"data": fiber.Map{
			"alert": alert,
			"audit": audit,
		},
	})
}

// AcknowledgeAlert moves a new alert to acknowledged. Any staff member
// can acknowledge; only an owner can resolve.
func (c *AlertController) AcknowledgeAlert(ctx *fiber.Ctx) error {
	alertID, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid alert id",
		})
	}

	result := c.DB.Model(&models.Alert{}).
		Where("id = ? AND shop_id = ? AND status = ?", alertID, shopIDFrom(ctx), models.AlertStatusNew).
		Update("status", models.AlertStatusAcknowledged)
	if result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(errorBody("Failed to update alert", result.Error))
	}
	if result.RowsAffected == 0 {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Alert not found or already acknowledged",
		})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Alert acknowledged",
	})
}

// ResolveAlert closes an alert with a note. Owner only, enforced at
// the route layer.
func (c *AlertController) ResolveAlert(ctx *fiber.Ctx) error {
	alertID, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid alert id",
		})
	}

	var input struct {
		Notes string `json:"notes"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	now := time.Now()
	result := c.DB.Model(&models.Alert{}).
		Where("id = ? AND shop_id = ? AND status <> ?", alertID, shopIDFrom(ctx), models.AlertStatusResolved).
		Updates(map[string]interface{}{
			"status":           models.AlertStatusResolved,
			"resolved_by":      userIDFrom(ctx),
			"resolved_at":      &now,
			"resolution_notes": input.Notes,
		})
	if result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(errorBody("Failed to resolve alert", result.Error))
	}
	if result.RowsAffected == 0 {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Alert not found or already resolved",
		})
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Alert resolved",
	})
}
