package public_validate_promo

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SBP-AppointmentService/internal/api/handlers"
	catalogRepo "github.com/m04kA/SBP-AppointmentService/internal/infra/storage/catalog"
	"github.com/m04kA/SBP-AppointmentService/internal/service/pricing"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingCode        = "код обязателен"
	msgInvalidSubtotal    = "некорректная сумма чека"
	msgTenantNotFound     = "салон не найден"
)

type Handler struct {
	tenants TenantResolver
	pricing PricingService
	logger  Logger
}

func NewHandler(tenants TenantResolver, pricing PricingService, logger Logger) *Handler {
	return &Handler{
		tenants: tenants,
		pricing: pricing,
		logger:  logger,
	}
}

// Handle POST /public/{tenantSlug}/promo-codes/validate
// Проверка кода перед записью: счётчики применений не трогаются
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	slug := vars["tenantSlug"]

	tenant, err := h.tenants.GetTenantBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrTenantNotFound) {
			h.logger.Warn("POST /public/{slug}/promo-codes/validate - Tenant not found: slug=%s", slug)
			handlers.RespondNotFound(w, msgTenantNotFound)
			return
		}
		h.logger.Error("POST /public/{slug}/promo-codes/validate - Failed to resolve tenant: slug=%s, error=%v",
			slug, err)
		handlers.RespondInternalError(w)
		return
	}

	var req ValidatePromoRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /public/{slug}/promo-codes/validate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	req.Code = strings.TrimSpace(req.Code)
	if req.Code == "" {
		handlers.RespondBadRequest(w, msgMissingCode)
		return
	}
	if req.Subtotal < 0 {
		handlers.RespondBadRequest(w, msgInvalidSubtotal)
		return
	}

	resolved, err := h.pricing.ResolveCode(r.Context(), tenant.ID, req.Code, req.Subtotal, time.Now())
	if err != nil {
		var reason string
		switch {
		case errors.Is(err, pricing.ErrCodeNotFound):
			reason = reasonNotFound
		case errors.Is(err, pricing.ErrCodeInactive):
			reason = reasonInactive
		case errors.Is(err, pricing.ErrPromotionNotRunning):
			reason = reasonNotRunning
		case errors.Is(err, pricing.ErrUsageLimitReached):
			reason = reasonUsageLimitReached
		case errors.Is(err, pricing.ErrMinSpendNotMet):
			reason = reasonMinSpendNotMet
		default:
			h.logger.Error("POST /public/{slug}/promo-codes/validate - Failed to resolve code: tenant_id=%d, code=%s, error=%v",
				tenant.ID, req.Code, err)
			handlers.RespondInternalError(w)
			return
		}

		h.logger.Info("POST /public/{slug}/promo-codes/validate - Code rejected: tenant_id=%d, code=%s, reason=%s",
			tenant.ID, req.Code, reason)
		handlers.RespondJSON(w, http.StatusOK, rejectedResponse(req.Code, reason))
		return
	}

	h.logger.Info("POST /public/{slug}/promo-codes/validate - Code valid: tenant_id=%d, code=%s, amount=%.2f",
		tenant.ID, req.Code, resolved.Amount)
	handlers.RespondJSON(w, http.StatusOK, validResponse(req.Code, resolved))
}
