package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/danilofelipe32/nutriscan100/services"
)

type AnalysisController struct {
	svc *services.AnalysisService
}

func NewAnalysisController(svc *services.AnalysisService) *AnalysisController {
	return &AnalysisController{svc: svc}
}

type analyzeRequest struct {
	ImageBase64 string `json:"image_base64" binding:"required"` // data URI
}

func (ctl *AnalysisController) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	rec, history, err := ctl.svc.AnalyzeMeal(c.Request.Context(), req.ImageBase64)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"record": rec, "history": history})
}

func (ctl *AnalysisController) History(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"history": ctl.svc.History()})
}

func (ctl *AnalysisController) RemoveAt(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index must be an integer"})
		return
	}
	history, err := ctl.svc.RemoveAt(index)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

func (ctl *AnalysisController) Clear(c *gin.Context) {
	if err := ctl.svc.Clear(); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
