package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/danilofelipe32/nutriscan100/controllers"
)

// Controllers holds every controller the router mounts. They are constructed
// once at startup with their dependencies injected.
type Controllers struct {
	Composition *controllers.CompositionController
	Analysis    *controllers.AnalysisController
	Tips        *controllers.TipsController
	Realtime    *controllers.RealtimeController
}

func SetupRouter(ctl Controllers) *gin.Engine {
	r := gin.Default()

	api := r.Group("/api")
	{
		comp := api.Group("/composition")
		{
			comp.POST("/evaluate", ctl.Composition.Evaluate)
			comp.GET("/history", ctl.Composition.History)
			comp.DELETE("/history/:index", ctl.Composition.RemoveAt)
			comp.DELETE("/history", ctl.Composition.Clear)
		}

		meals := api.Group("/meals")
		{
			meals.POST("/analyze", ctl.Analysis.Analyze)
			meals.GET("/history", ctl.Analysis.History)
			meals.DELETE("/history/:index", ctl.Analysis.RemoveAt)
			meals.DELETE("/history", ctl.Analysis.Clear)
		}

		api.GET("/tips", ctl.Tips.Tips)
	}

	r.GET("/ws/events", ctl.Realtime.EventsWS)

	return r
}
