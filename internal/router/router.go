package router

import (
	"github.com/fasthttp/router"

	apiHandler "github.com/taskstream/backend/api/handler"
)

type Handlers struct {
	Task       *apiHandler.TaskHandler
	Preference *apiHandler.PreferenceHandler
	Health     *apiHandler.HealthHandler
}

func New(handlers Handlers) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Task intents
	r.GET("/api/v1/tasks", handlers.Task.GetTasks)
	r.POST("/api/v1/tasks", handlers.Task.SubmitTask)
	r.PUT("/api/v1/tasks/{id}", handlers.Task.UpdateTask)
	r.DELETE("/api/v1/tasks/{id}", handlers.Task.DeleteTask)
	r.POST("/api/v1/tasks/{id}/toggle", handlers.Task.ToggleCompleted)
	r.POST("/api/v1/tasks/{id}/priority", handlers.Task.TogglePriority)

	// Local preferences
	r.GET("/api/v1/preferences/theme", handlers.Preference.GetTheme)
	r.PUT("/api/v1/preferences/theme", handlers.Preference.SetTheme)

	return r
}
