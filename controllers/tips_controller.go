package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/danilofelipe32/nutriscan100/services"
)

type TipsController struct {
	tips  services.TipsProvider
	meals *services.AnalysisService
	comps *services.CompositionService
}

func NewTipsController(tips services.TipsProvider, meals *services.AnalysisService, comps *services.CompositionService) *TipsController {
	return &TipsController{tips: tips, meals: meals, comps: comps}
}

func (ctl *TipsController) Tips(c *gin.Context) {
	text, err := ctl.tips.HealthTips(c.Request.Context(), ctl.meals.History(), ctl.comps.History())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tips": text})
}
