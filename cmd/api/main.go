package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anudeepvarma123/TalentTrack/internal/auth"
	"github.com/anudeepvarma123/TalentTrack/internal/config"
	"github.com/anudeepvarma123/TalentTrack/internal/database"
	"github.com/anudeepvarma123/TalentTrack/internal/handlers"
	"github.com/anudeepvarma123/TalentTrack/internal/logger"
	"github.com/anudeepvarma123/TalentTrack/internal/mailer"
	"github.com/anudeepvarma123/TalentTrack/internal/mq"
	"github.com/anudeepvarma123/TalentTrack/internal/repositories"
	"github.com/anudeepvarma123/TalentTrack/internal/services"
)

const serviceName = "talenttrack-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(serviceName, "INFO").Fatal(logger.Entry{
			Action:  "config_load_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
	}
	log := logger.New(serviceName, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewConnection(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal(logger.Entry{Action: "db_connect_failed", Message: err.Error(), Error: &logger.ErrObj{Msg: err.Error()}})
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal(logger.Entry{Action: "db_migrate_failed", Message: err.Error(), Error: &logger.ErrObj{Msg: err.Error()}})
	}

	credentialRepo := repositories.NewCredentialRepository(db)
	employeeRepo := repositories.NewEmployeeRepository(db)
	leaveRepo := repositories.NewLeaveRepository(db)

	resetMailer, closeMailer := newResetMailer(ctx, cfg, log)
	defer closeMailer()

	tokens := auth.NewTokenService(cfg.JWT)
	authService := services.NewAuthService(credentialRepo, employeeRepo, tokens, resetMailer, cfg, log)
	leaveService := services.NewLeaveService(leaveRepo, employeeRepo, cfg.Leave, log)
	employeeService := services.NewEmployeeService(employeeRepo, credentialRepo, authService, log)

	gin.SetMode(gin.ReleaseMode)
	router := handlers.NewRouter(handlers.RouterDeps{
		Auth:           authService,
		Leaves:         leaveService,
		Employees:      employeeService,
		Guard:          auth.NewGuard(tokens, log),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Log:            log,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info(logger.Entry{Action: "server_started", Message: "listening on " + srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(logger.Entry{Action: "server_failed", Message: err.Error(), Error: &logger.ErrObj{Msg: err.Error()}})
		}
	}()

	<-ctx.Done()
	log.Info(logger.Entry{Action: "server_stopping", Message: "shutdown signal received"})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(logger.Entry{Action: "server_shutdown_failed", Message: err.Error(), Error: &logger.ErrObj{Msg: err.Error()}})
	}
}

// newResetMailer picks the delivery transport named by MAIL_TRANSPORT.
func newResetMailer(ctx context.Context, cfg config.Config, log *logger.Logger) (services.ResetMailer, func()) {
	switch cfg.Mail.Transport {
	case config.MailTransportSMTP:
		return mailer.NewSMTPMailer(cfg.Mail, log), func() {}
	case config.MailTransportAMQP:
		conn, err := mq.NewRabbitMQ(ctx, cfg.AMQP, log)
		if err != nil {
			log.Fatal(logger.Entry{Action: "rabbitmq_connect_failed", Message: err.Error(), Error: &logger.ErrObj{Msg: err.Error()}})
		}
		return mailer.NewAMQPMailer(conn, cfg.AMQP, log), conn.Close
	default:
		log.Warn(logger.Entry{Action: "mail_transport_log", Message: "reset links are logged, not sent"})
		return mailer.NewLogMailer(log), func() {}
	}
}
