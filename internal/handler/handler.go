package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/ja"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	ja_translations "github.com/go-playground/validator/v10/translations/ja"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/meiwakai-dev/shift-optimizer/backend/internal/config"
	"github.com/meiwakai-dev/shift-optimizer/backend/internal/domain"
)

// Repository は handler が利用する永続化操作。実体は repository.Repository
type Repository interface {
	GetUserByID(id int64) (*domain.User, error)
	GetUserByUsername(username string) (*domain.User, error)
	UpdateUser(user *domain.User) error

	CreateStaff(staff *domain.Staff) error
	GetAllStaff() ([]*domain.Staff, error)
	GetActiveStaff() ([]*domain.Staff, error)
	GetStaffByID(id string) (*domain.Staff, error)
	UpdateStaff(staff *domain.Staff) error
	DeleteStaff(id string) error

	GetWeeklyShiftByWeek(weekStartDate string) (*domain.WeeklyShift, error)
	GetAllWeeklyShifts() ([]*domain.WeeklyShift, error)
	GetWeeklyShiftsByDateRange(startDate, endDate string) ([]*domain.WeeklyShift, error)
	UpdateWeeklyShift(shift *domain.WeeklyShift) error
	UpsertWeeklyShiftByWeek(shift *domain.WeeklyShift) error
	DeleteWeeklyShift(id string) error
}

// NotificationPublisher はメッセージキューへの送信操作。実体は amqp.Channel
type NotificationPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type Handler struct {
	validate            *validator.Validate
	config              *config.Config
	repository          Repository
	translator          ut.Translator
	notificationChannel NotificationPublisher
	redisClient         *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo Repository, notificationCh NotificationPublisher, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	ja := ja.New()
	uni := ut.New(ja, ja)
	trans, _ := uni.GetTranslator("ja")
	if err := ja_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:            validate,
		config:              cfg,
		repository:          repo,
		translator:          trans,
		notificationChannel: notificationCh,
		redisClient:         rdb,

		Mux: chi.NewRouter(),
	}, nil
}

// redisContext は redis 操作用のタイムアウト付き context を返す
func (h *Handler) redisContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationExpiration)*time.Minute)
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 認証関連
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// 以下の API はログイン後のみ呼び出せる
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/staff", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateStaff)
			r.Get("/", h.GetAllStaff) // スタッフ一覧はシフト表示に必要なので全員が取得できる
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.staffRecord)
				r.Get("/", h.GetStaff)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateStaff)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/deactivate", h.DeactivateStaff)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteStaff)
			})
		})

		r.Route("/shifts", func(r chi.Router) {
			r.Get("/", h.GetWeeklyShifts)
			r.Route("/{weekStartDate}", func(r chi.Router) {
				r.Use(h.weeklyShift)
				r.Get("/", h.GetWeeklyShift)
				r.Get("/statistics", h.GetWeeklyShiftStatistics)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/assignments", h.UpdateWeeklyShiftAssignments)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).With(h.myInfo).Post("/confirm", h.ConfirmWeeklyShift)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteWeeklyShift)
			})
		})

		r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/optimization", h.RunOptimization)
	})
}
