package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"projecthub/internal/config"
	"projecthub/internal/db"
	"projecthub/internal/event"
	"projecthub/internal/handler"
	"projecthub/internal/httpserver"
	"projecthub/internal/repository"
	"projecthub/internal/service"
	"projecthub/internal/storage"
	"projecthub/pkg/logger"
	"projecthub/pkg/mq"
	"projecthub/pkg/outbox"
)

func main() {
	cfg := config.Load()

	logg := logger.New(cfg.Log.Level, cfg.Log.File)
	defer logg.Sync()

	dbConn, err := db.NewConnection(cfg.DB, logg)
	if err != nil {
		logg.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		logg.Fatal("Failed to init MQ publisher", zap.Error(err))
	}
	defer publisher.Close()

	store, err := storage.NewLocalStore(cfg.Upload.Dir)
	if err != nil {
		logg.Fatal("Failed to init upload store", zap.Error(err))
	}

	// Repositories
	userRepo := repository.NewUserRepository(dbConn, logg)
	projectRepo := repository.NewProjectRepository(dbConn, logg)
	taskRepo := repository.NewTaskRepository(dbConn, logg)
	memberRepo := repository.NewMemberRepository(dbConn, logg)
	expenseRepo := repository.NewExpenseRepository(dbConn, logg)
	commentRepo := repository.NewCommentRepository(dbConn, logg)
	attachmentRepo := repository.NewAttachmentRepository(dbConn, logg)
	activityRepo := repository.NewActivityRepository(dbConn, logg)
	notificationRepo := repository.NewNotificationRepository(dbConn, logg)

	// Event fan-out
	recorder := event.NewRecorder(event.Snapshot{
		Users:     userRepo,
		Logs:      activityRepo,
		Assignees: taskRepo,
	})
	dispatcher := event.NewDispatcher(recorder, event.NewNotifier(), activityRepo, notificationRepo, logg)

	// Services
	authz := service.NewAuthz(projectRepo)
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.Google.ClientID, logg)
	projectService := service.NewProjectService(projectRepo, memberRepo, authz, dispatcher, logg)
	taskService := service.NewTaskService(taskRepo, projectRepo, authz, dispatcher, logg)
	memberService := service.NewMemberService(memberRepo, projectRepo, authz, dispatcher)
	expenseService := service.NewExpenseService(expenseRepo, projectRepo, authz, dispatcher)
	commentService := service.NewCommentService(commentRepo, taskRepo, authz)
	attachmentService := service.NewAttachmentService(attachmentRepo, taskRepo, store, authz, logg)
	dashboardService := service.NewDashboardService(taskRepo, projectRepo)

	// Handlers
	handlers := httpserver.Handlers{
		Auth:         handler.NewAuthHandler(authService, logg),
		Project:      handler.NewProjectHandler(projectService, logg),
		Task:         handler.NewTaskHandler(taskService, logg),
		Member:       handler.NewMemberHandler(memberService, logg),
		Expense:      handler.NewExpenseHandler(expenseService, logg),
		Comment:      handler.NewCommentHandler(commentService),
		Attachment:   handler.NewAttachmentHandler(attachmentService, logg),
		User:         handler.NewUserHandler(userRepo),
		Notification: handler.NewNotificationHandler(notificationRepo),
		Activity:     handler.NewActivityHandler(activityRepo),
		Dashboard:    handler.NewDashboardHandler(dashboardService),
	}

	// Outbox relay for notification.created events. Only the server writes
	// outbox rows, so it owns the single relay loop.
	outboxRepo := outbox.NewRepository(dbConn)
	outboxDispatcher := outbox.NewDispatcher(outboxRepo, publisher, logg)
	go outboxDispatcher.Start(context.Background())

	router := httpserver.NewRouter(handlers, cfg.JWT.Secret, dbConn)

	logg.Info("Starting API server", zap.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server start failed: %v", err)
	}
}
