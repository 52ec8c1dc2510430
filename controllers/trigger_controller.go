package controllers

import (
	"fmt"
	"time"

	"shopguard/config"
	"shopguard/engine"
	"shopguard/repositories"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/exp/rand"
	"gorm.io/gorm"
)

// TriggerController answers the POS poll "should this device run a
// spot check right now". Decisions are stateless: nothing is persisted
// until the staff member actually submits a count.
type TriggerController struct {
	DB       *gorm.DB
	Velocity *repositories.VelocityRepository
	Sample   func() float64
	Now      func() time.Time
}

func NewTriggerController(DB *gorm.DB) *TriggerController {
	rng := rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	return &TriggerController{
		DB:       DB,
		Velocity: repositories.NewVelocityRepository(DB),
		Sample:   rng.Float64,
		Now:      time.Now,
	}
}

func triggerPolicy() engine.Config {
	return engine.Config{
		RandomProbability:     config.RandomCheckProbability,
		VolumeMultiplier:      config.VolumeSpikeMultiplier,
		TimeThresholdHours:    config.TimeThresholdHours,
		SalesCounterThreshold: config.SalesCounterThreshold,
	}
}

// GetTriggerCount evaluates the trigger policy against the busiest
// recently-sold SKU of the caller's shop. The device polls this
// between sales; a positive answer locks the POS screen into a count
// prompt until the staff member answers or the timeout passes.
func (c *TriggerController) GetTriggerCount(ctx *fiber.Ctx) error {
	deviceID := ctx.Query("device_id")
	if deviceID == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "device_id is required",
		})
	}

	now := c.Now()
	snapshot, err := c.Velocity.TopCandidate(shopIDFrom(ctx), now)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(errorBody("Failed to compute sales velocity", err))
	}

	if snapshot == nil {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"success":        true,
			"should_trigger": false,
			"reason":         "no recent sales activity",
		})
	}

	decision := engine.Evaluate(triggerPolicy(), *snapshot, now, c.Sample())
	metadata := fiber.Map{
		"device_id":         deviceID,
		"last_hour_sales":   snapshot.LastHourSales,
		"seven_day_avg":     snapshot.SevenDayAvg,
		"hours_since_count": decision.HoursSinceCount,
		"sales_since_count": snapshot.SalesSinceCount,
		"evaluated_at":      now,
	}

	if !decision.ShouldTrigger {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"success":        true,
			"should_trigger": false,
			"reason":         "no trigger rule fired",
			"metadata":       metadata,
		})
	}

	metadata["all_triggers"] = decision.Fired
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":        true,
		"should_trigger": true,
		"type":           decision.Winner.Type,
		"priority":       decision.Winner.Priority,
		"reason":         decision.Winner.Reason,
		"sku_to_check": fiber.Map{
			"id":            snapshot.SkuID,
			"brand":         snapshot.Brand,
			"size":          snapshot.Size,
			"current_stock": snapshot.CurrentStock,
		},
		"prompt": fmt.Sprintf("Quick Check: How many %s %s on shelf?", snapshot.Brand, snapshot.Size),
		"ui_config": fiber.Map{
			"background_color": "#D4AF37",
			"ui_locked":        true,
			"timeout_seconds":  config.TriggerTimeoutSeconds,
		},
		"metadata": metadata,
	})
}

// GetTheftPatterns runs the shift-pattern heuristics over one SKU's
// sale timestamps, owner dashboard only.
func (c *TriggerController) GetTheftPatterns(ctx *fiber.Ctx) error {
	skuID := queryInt(ctx, "sku_id", 0)
	if skuID <= 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "sku_id is required",
		})
	}

	now := c.Now()
	times, err := c.Velocity.SaleTimes(shopIDFrom(ctx), uint(skuID), now.Add(-24*time.Hour))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(errorBody("Failed to load sale history", err))
	}

	report := engine.DetectTheftPatterns(engine.DefaultPatternConfig(), times, now)

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Patterns evaluated",
		"data":    report,
	})
}
