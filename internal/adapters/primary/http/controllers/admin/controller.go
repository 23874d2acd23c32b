package admin

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	horoscopeUsecase "github.com/sgavka/mystic-bots-sub000/internal/usecases/horoscope"
)

type Controller struct {
	HoroscopeService *horoscopeUsecase.Service
	Log              *slog.Logger
}

func New(
	horoscopeService *horoscopeUsecase.Service,
	log *slog.Logger,
) *Controller {
	return &Controller{
		HoroscopeService: horoscopeService,
		Log:              log,
	}
}

func (c *Controller) RegisterRoutes(router *gin.Engine) {
	admin := router.Group("/admin")
	{
		admin.POST("/sweeps/:name", c.runSweep)
		admin.POST("/subscriptions/activate", c.activateSubscription)
		admin.POST("/subscriptions/cancel", c.cancelSubscription)
	}
}

// SweepResponse результат ручного запуска свипа
type SweepResponse struct {
	Success      bool   `json:"success"`
	Processed    int    `json:"processed"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// runSweep запускает свип вручную, не дожидаясь планировщика
func (c *Controller) runSweep(ctx *gin.Context) {
	name := ctx.Param("name")

	var (
		processed int
		err       error
	)

	switch name {
	case "generation":
		processed, err = c.HoroscopeService.GenerateDailyForAllUsers(ctx.Request.Context())
	case "daily-notification":
		processed, err = c.HoroscopeService.SendDailyNotifications(ctx.Request.Context())
	case "periodic-teaser":
		processed, err = c.HoroscopeService.SendPeriodicTeasers(ctx.Request.Context())
	case "expiry-reminder":
		processed, err = c.HoroscopeService.SendExpiryReminders(ctx.Request.Context())
	case "expired-notification":
		processed, err = c.HoroscopeService.SendExpiredNotifications(ctx.Request.Context())
	default:
		ctx.JSON(http.StatusNotFound, SweepResponse{
			Success:      false,
			ErrorMessage: "unknown sweep: " + name,
		})
		return
	}

	if err != nil {
		c.Log.Error("manual sweep failed", "sweep", name, "error", err)
		ctx.JSON(http.StatusInternalServerError, SweepResponse{
			Success:      false,
			Processed:    processed,
			ErrorMessage: err.Error(),
		})
		return
	}

	c.Log.Info("manual sweep completed", "sweep", name, "processed", processed)
	ctx.JSON(http.StatusOK, SweepResponse{
		Success:   true,
		Processed: processed,
	})
}

// SubscriptionRequest запрос на ручное управление подпиской
type SubscriptionRequest struct {
	TelegramUserID int64   `json:"telegram_user_id" binding:"required"`
	PaymentRef     *string `json:"payment_ref,omitempty"`
}

// SubscriptionResponse результат операции с подпиской
type SubscriptionResponse struct {
	Success      bool   `json:"success"`
	ExpiresAt    string `json:"expires_at,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// activateSubscription активирует или продлевает подписку вручную -
// оплата принимается вне бота, оператор фиксирует её здесь
func (c *Controller) activateSubscription(ctx *gin.Context) {
	var req SubscriptionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.Log.Warn("failed to bind subscription request", "error", err)
		ctx.JSON(http.StatusBadRequest, SubscriptionResponse{
			Success:      false,
			ErrorMessage: "invalid request: " + err.Error(),
		})
		return
	}

	user, err := c.HoroscopeService.UserRepo.GetByTelegramID(ctx.Request.Context(), req.TelegramUserID)
	if err != nil {
		ctx.JSON(http.StatusNotFound, SubscriptionResponse{
			Success:      false,
			ErrorMessage: "user not found",
		})
		return
	}

	subscription, err := c.HoroscopeService.ActivateOrRenew(
		ctx.Request.Context(),
		user.ID,
		c.HoroscopeService.Cfg.SubscriptionDuration,
		req.PaymentRef,
	)
	if err != nil {
		c.Log.Error("failed to activate subscription", "error", err, "user_id", user.ID)
		ctx.JSON(http.StatusInternalServerError, SubscriptionResponse{
			Success:      false,
			ErrorMessage: err.Error(),
		})
		return
	}

	response := SubscriptionResponse{Success: true}
	if subscription.ExpiresAt != nil {
		response.ExpiresAt = subscription.ExpiresAt.Format("2006-01-02T15:04:05Z07:00")
	}
	ctx.JSON(http.StatusOK, response)
}

// cancelSubscription отменяет активную подписку пользователя
func (c *Controller) cancelSubscription(ctx *gin.Context) {
	var req SubscriptionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, SubscriptionResponse{
			Success:      false,
			ErrorMessage: "invalid request: " + err.Error(),
		})
		return
	}

	user, err := c.HoroscopeService.UserRepo.GetByTelegramID(ctx.Request.Context(), req.TelegramUserID)
	if err != nil {
		ctx.JSON(http.StatusNotFound, SubscriptionResponse{
			Success:      false,
			ErrorMessage: "user not found",
		})
		return
	}

	cancelled, err := c.HoroscopeService.Cancel(ctx.Request.Context(), user.ID)
	if err != nil {
		c.Log.Error("failed to cancel subscription", "error", err, "user_id", user.ID)
		ctx.JSON(http.StatusInternalServerError, SubscriptionResponse{
			Success:      false,
			ErrorMessage: err.Error(),
		})
		return
	}

	if !cancelled {
		ctx.JSON(http.StatusConflict, SubscriptionResponse{
			Success:      false,
			ErrorMessage: "no active subscription",
		})
		return
	}

	ctx.JSON(http.StatusOK, SubscriptionResponse{Success: true})
}
