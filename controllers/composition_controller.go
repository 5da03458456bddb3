package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/danilofelipe32/nutriscan100/models"
	"github.com/danilofelipe32/nutriscan100/services"
)

type CompositionController struct {
	svc *services.CompositionService
}

func NewCompositionController(svc *services.CompositionService) *CompositionController {
	return &CompositionController{svc: svc}
}

type evaluateRequest struct {
	DateOfBirth   string  `json:"date_of_birth" binding:"required"`
	Sex           string  `json:"sex" binding:"required"`
	ActivityLevel string  `json:"activity_level" binding:"required"`
	WeightKg      float64 `json:"weight_kg" binding:"required"`
	HeightCm      float64 `json:"height_cm" binding:"required"`
}

func (ctl *CompositionController) Evaluate(c *gin.Context) {
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date_of_birth must be YYYY-MM-DD"})
		return
	}
	sex, err := models.ParseSex(req.Sex)
	if err != nil {
		abortWithError(c, err)
		return
	}
	level, err := models.ParseActivityLevel(req.ActivityLevel)
	if err != nil {
		abortWithError(c, err)
		return
	}

	rec, history, err := ctl.svc.Evaluate(models.BiometricInput{
		DateOfBirth:   dob,
		Sex:           sex,
		ActivityLevel: level,
		WeightKg:      req.WeightKg,
		HeightCm:      req.HeightCm,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"record": rec, "history": history})
}

func (ctl *CompositionController) History(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"history": ctl.svc.History()})
}

func (ctl *CompositionController) RemoveAt(c *gin.Context) {
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

func (ctl *CompositionController) Clear(c *gin.Context) {
	if err := ctl.svc.Clear(); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
