package httpserver

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"projecthub/internal/handler"
)

type Handlers struct {
	Auth         *handler.AuthHandler
	Project      *handler.ProjectHandler
	Task         *handler.TaskHandler
	Member       *handler.MemberHandler
	Expense      *handler.ExpenseHandler
	Comment      *handler.CommentHandler
	Attachment   *handler.AttachmentHandler
	User         *handler.UserHandler
	Notification *handler.NotificationHandler
	Activity     *handler.ActivityHandler
	Dashboard    *handler.DashboardHandler
}

type Router struct {
	Engine *gin.Engine
}

func NewRouter(h Handlers, jwtSecret string, db *pgxpool.Pool) *Router {
	r := gin.Default()
	r.Use(MetricsMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})
	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(500, gin.H{"status": "db_not_ready", "error": err.Error()})
			return
		}

		c.JSON(200, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public
	r.POST("/register", h.Auth.Register)
	r.POST("/login", h.Auth.Login)
	r.POST("/auth/google", h.Auth.GoogleSignIn)

	// Protected
	auth := r.Group("/")
	auth.Use(AuthMiddleware(jwtSecret))
	{
		auth.GET("/me", h.User.Me)
		auth.GET("/users", h.User.List)

		auth.GET("/projects", h.Project.List)
		auth.POST("/projects", h.Project.Create)
		auth.GET("/projects/:id", h.Project.Get)
		auth.PUT("/projects/:id", h.Project.Update)
		auth.DELETE("/projects/:id", h.Project.Delete)

		auth.GET("/projects/:id/tasks", h.Task.ListByProject)
		auth.GET("/projects/:id/members", h.Member.List)
		auth.POST("/projects/:id/members", h.Member.Add)
		auth.GET("/projects/:id/expenses", h.Expense.ListByProject)
		auth.POST("/projects/:id/expenses", h.Expense.Create)

		auth.GET("/tasks", h.Task.List)
		auth.POST("/tasks", h.Task.Create)
		auth.GET("/tasks/:id", h.Task.Get)
		auth.PUT("/tasks/:id", h.Task.Update)
		auth.DELETE("/tasks/:id", h.Task.Delete)
		auth.POST("/tasks/:id/assign", h.Task.Assign)
		auth.POST("/tasks/:id/unassign", h.Task.Unassign)

		auth.GET("/tasks/:id/comments", h.Comment.ListByTask)
		auth.POST("/tasks/:id/comments", h.Comment.Create)
		auth.DELETE("/comments/:id", h.Comment.Delete)

		auth.GET("/tasks/:id/attachments", h.Attachment.ListByTask)
		auth.POST("/tasks/:id/attachments", h.Attachment.Upload)
		auth.GET("/attachments/:id", h.Attachment.Download)
		auth.DELETE("/attachments/:id", h.Attachment.Delete)

		auth.DELETE("/members/:id", h.Member.Remove)
		auth.DELETE("/expenses/:id", h.Expense.Delete)

		auth.GET("/notifications", h.Notification.List)
		auth.POST("/notifications/:id/read", h.Notification.MarkRead)

		auth.GET("/activity", h.Activity.List)
		auth.GET("/dashboard/stats", h.Dashboard.Stats)
	}

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
