package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/learnhub-backend/internal/http/response"
	"github.com/yungbote/learnhub-backend/internal/platform/logger"
	"github.com/yungbote/learnhub-backend/internal/services"
)

type VipHandler struct {
	log      *logger.Logger
	purchase services.PurchaseService
}

func NewVipHandler(log *logger.Logger, purchase services.PurchaseService) *VipHandler {
	return &VipHandler{log: log.With("handler", "VipHandler"), purchase: purchase}
}

// POST /api/vip/purchase
func (h *VipHandler) PurchaseVip(c *gin.Context) {
	var req struct {
		UserID string `json:"userId"`
		PlanID string `json:"planId"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	userID, err := parseID(req.UserID, "userId")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	planID, err := parseID(req.PlanID, "planId")
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	if err := requireSelf(c, userID); err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	if err := h.purchase.PurchaseVip(c.Request.Context(), userID, planID); err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"message": "VIP plan purchased successfully"})
}

// GET /api/vip/plans
func (h *VipHandler) ListPlans(c *gin.Context) {
	plans, err := h.purchase.ListVipPlans(c.Request.Context())
	if err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"plans": plans})
}
