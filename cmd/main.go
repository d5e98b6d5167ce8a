package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	checkoutAppointmentHandler "github.com/m04kA/SBP-AppointmentService/internal/api/handlers/checkout_appointment"
	createAppointmentHandler "github.com/m04kA/SBP-AppointmentService/internal/api/handlers/create_appointment"
	deleteBookingPolicyHandler "github.com/m04kA/SBP-AppointmentService/internal/api/handlers/delete_booking_policy"
	getAppointmentHandler "github.com/m04kA/SBP-AppointmentService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/m04kA/SBP-AppointmentService/internal/api/handlers/get_available_slots"
	getBookingPolicyHandler "github.com/m04kA/SBP-AppointmentService/internal/api/handlers/get_booking_policy"
	getCustomerAppointmentsHandler "github.com/m04kA/SBP-AppointmentService/internal/api/handlers/get_customer_appointments"
	getInvoiceHandler "github.com/m04kA/SBP-AppointmentService/internal/api/handlers/get_invoice"
	healthzHandler "github.com/m04kA/SBP-AppointmentService/internal/api/handlers/healthz"
	listAppointmentsHandler "github.com/m04kA/SBP-AppointmentService/internal/api/handlers/list_appointments"
	listBookingPoliciesHandler "github.com/m04kA/SBP-AppointmentService/internal/api/handlers/list_booking_policies"
	publicBookHandler "github.com/m04kA/SBP-AppointmentService/internal/api/handlers/public_book"
	publicCancelAppointmentHandler "github.com/m04kA/SBP-AppointmentService/internal/api/handlers/public_cancel_appointment"
	publicManageAppointmentHandler "github.com/m04kA/SBP-AppointmentService/internal/api/handlers/public_manage_appointment"
	publicSlotsHandler "github.com/m04kA/SBP-AppointmentService/internal/api/handlers/public_slots"
	publicValidatePromoHandler "github.com/m04kA/SBP-AppointmentService/internal/api/handlers/public_validate_promo"
	updateAppointmentHandler "github.com/m04kA/SBP-AppointmentService/internal/api/handlers/update_appointment"
	updateBookingPolicyHandler "github.com/m04kA/SBP-AppointmentService/internal/api/handlers/update_booking_policy"
	"github.com/m04kA/SBP-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SBP-AppointmentService/internal/config"
	"github.com/m04kA/SBP-AppointmentService/internal/events"
	"github.com/m04kA/SBP-AppointmentService/internal/infra/migrate"
	appointmentRepo "github.com/m04kA/SBP-AppointmentService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SBP-AppointmentService/internal/infra/storage/catalog"
	invoiceRepo "github.com/m04kA/SBP-AppointmentService/internal/infra/storage/invoice"
	policyRepo "github.com/m04kA/SBP-AppointmentService/internal/infra/storage/policy"
	promoRepo "github.com/m04kA/SBP-AppointmentService/internal/infra/storage/promo"
	reminderLogRepo "github.com/m04kA/SBP-AppointmentService/internal/infra/storage/reminderlog"
	scheduleRepo "github.com/m04kA/SBP-AppointmentService/internal/infra/storage/schedule"
	tokenRepo "github.com/m04kA/SBP-AppointmentService/internal/infra/storage/token"
	giftCardServiceClient "github.com/m04kA/SBP-AppointmentService/internal/integrations/giftcardservice"
	notifyServiceClient "github.com/m04kA/SBP-AppointmentService/internal/integrations/notifyservice"
	reminderServiceClient "github.com/m04kA/SBP-AppointmentService/internal/integrations/reminderservice"
	appointmentsService "github.com/m04kA/SBP-AppointmentService/internal/service/appointments"
	invoicesService "github.com/m04kA/SBP-AppointmentService/internal/service/invoices"
	policyService "github.com/m04kA/SBP-AppointmentService/internal/service/policy"
	pricingService "github.com/m04kA/SBP-AppointmentService/internal/service/pricing"
	tokensService "github.com/m04kA/SBP-AppointmentService/internal/service/tokens"
	checkoutAppointmentUC "github.com/m04kA/SBP-AppointmentService/internal/usecase/checkout_appointment"
	createAppointmentUC "github.com/m04kA/SBP-AppointmentService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/m04kA/SBP-AppointmentService/internal/usecase/get_available_slots"
	"github.com/m04kA/SBP-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SBP-AppointmentService/pkg/logger"
	"github.com/m04kA/SBP-AppointmentService/pkg/metrics"
	"github.com/m04kA/SBP-AppointmentService/pkg/simpletxmanager"
	"github.com/m04kA/SBP-AppointmentService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SBP-AppointmentService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Применяем миграции схемы
	if err := migrate.Up(db, log); err != nil {
		log.Fatal("Failed to apply migrations: %v", err)
	}

	// Инициализируем интеграционных клиентов
	giftCardClient := giftCardServiceClient.NewClient(
		cfg.GiftCardService.URL,
		time.Duration(cfg.GiftCardService.Timeout)*time.Second,
		log,
	)
	notifyClient := notifyServiceClient.NewClient(
		cfg.NotificationService.URL,
		time.Duration(cfg.NotificationService.Timeout)*time.Second,
		log,
	)
	reminderClient := reminderServiceClient.NewClient(
		cfg.ReminderService.URL,
		time.Duration(cfg.ReminderService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (GiftCardService=%s, NotificationService=%s, ReminderService=%s)",
		cfg.GiftCardService.URL, cfg.NotificationService.URL, cfg.ReminderService.URL)

	// Инициализируем репозитории (с метриками или без)
	var (
		appointmentRepository *appointmentRepo.Repository
		catalogRepository     *catalogRepo.Repository
		invoiceRepository     *invoiceRepo.Repository
		policyRepository      *policyRepo.Repository
		promoRepository       *promoRepo.Repository
		reminderLogRepository *reminderLogRepo.Repository
		scheduleRepository    *scheduleRepo.Repository
		tokenRepository       *tokenRepo.Repository
	)

	// Интерфейс для transaction manager (используется в сервисах и usecases)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		// Инициализируем репозитории с обёрткой метрик
		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		catalogRepository = catalogRepo.NewRepository(wrappedDB)
		invoiceRepository = invoiceRepo.NewRepository(wrappedDB)
		policyRepository = policyRepo.NewRepository(wrappedDB)
		promoRepository = promoRepo.NewRepository(wrappedDB)
		reminderLogRepository = reminderLogRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		tokenRepository = tokenRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		// Инициализируем репозитории без метрик
		appointmentRepository = appointmentRepo.NewRepository(db)
		catalogRepository = catalogRepo.NewRepository(db)
		invoiceRepository = invoiceRepo.NewRepository(db)
		policyRepository = policyRepo.NewRepository(db)
		promoRepository = promoRepo.NewRepository(db)
		reminderLogRepository = reminderLogRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		tokenRepository = tokenRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Шина доменных событий: уведомления клиентам и напоминания о визитах
	var eventsMetrics events.MetricsCollector
	if cfg.Metrics.Enabled {
		eventsMetrics = metricsCollector
	}
	dispatcher := events.NewDispatcher(
		cfg.Events.BufferSize,
		[]events.Sink{
			events.NewNotificationSink(notifyClient),
			events.NewReminderSink(reminderClient, reminderLogRepository),
		},
		log,
		eventsMetrics,
		cfg.Metrics.ServiceName,
	)

	timeProvider := &appointmentsService.RealTimeProvider{}

	// Инициализируем сервисы
	pricingSvc := pricingService.NewService(promoRepository, log)
	tokensSvc := tokensService.NewService(
		tokenRepository,
		appointmentRepository,
		policyRepository,
		txMgr,
		dispatcher,
		timeProvider,
		cfg.Booking.TokenTTLDays,
		log,
	)
	appointmentsSvc := appointmentsService.NewService(
		appointmentRepository,
		catalogRepository,
		txMgr,
		dispatcher,
		timeProvider,
		log,
	)
	policySvc := policyService.NewService(policyRepository, catalogRepository, log)
	invoicesSvc := invoicesService.NewService(invoiceRepository, log)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		policyRepository,
		catalogRepository,
		log,
	)

	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		policyRepository,
		catalogRepository,
		pricingSvc,
		tokensSvc,
		txMgr,
		dispatcher,
		log,
	)

	checkoutAppointmentUseCase := checkoutAppointmentUC.NewUseCase(
		appointmentRepository,
		invoiceRepository,
		catalogRepository,
		pricingSvc,
		giftCardClient,
		txMgr,
		dispatcher,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentsSvc, log)
	listAppointments := listAppointmentsHandler.NewHandler(appointmentsSvc, log)
	updateAppointment := updateAppointmentHandler.NewHandler(appointmentsSvc, log)
	checkoutAppointment := checkoutAppointmentHandler.NewHandler(checkoutAppointmentUseCase, log)
	getCustomerAppointments := getCustomerAppointmentsHandler.NewHandler(appointmentsSvc, log)
	getInvoice := getInvoiceHandler.NewHandler(invoicesSvc, log)
	getBookingPolicy := getBookingPolicyHandler.NewHandler(policySvc, log)
	listBookingPolicies := listBookingPoliciesHandler.NewHandler(policySvc, log)
	updateBookingPolicy := updateBookingPolicyHandler.NewHandler(policySvc, log)
	deleteBookingPolicy := deleteBookingPolicyHandler.NewHandler(policySvc, log)
	publicSlots := publicSlotsHandler.NewHandler(catalogRepository, getAvailableSlotsUseCase, log)
	publicBook := publicBookHandler.NewHandler(catalogRepository, createAppointmentUseCase, log)
	publicValidatePromo := publicValidatePromoHandler.NewHandler(catalogRepository, pricingSvc, log)
	publicManageAppointment := publicManageAppointmentHandler.NewHandler(tokensSvc, log)
	publicCancelAppointment := publicCancelAppointmentHandler.NewHandler(tokensSvc, log)
	health := healthzHandler.NewHandler(db, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Health check
	r.HandleFunc("/healthz", health.Handle).Methods(http.MethodGet)

	// ============================================================
	// PUBLIC ROUTES (виджет онлайн-записи, без аутентификации)
	// ============================================================

	public := r.PathPrefix("/public").Subrouter()

	// Самообслуживание по токену (регистрируется раньше маршрутов со slug,
	// чтобы "manage" не перехватывался как slug салона)
	public.HandleFunc("/manage/{token}", publicManageAppointment.Handle).Methods(http.MethodGet)
	public.HandleFunc("/manage/{token}/cancel", publicCancelAppointment.Handle).Methods(http.MethodPost)

	// Свободные слоты салона
	public.HandleFunc("/{tenantSlug}/slots", publicSlots.Handle).Methods(http.MethodGet)

	// Онлайн-запись
	public.HandleFunc("/{tenantSlug}/appointments", publicBook.Handle).Methods(http.MethodPost)

	// Проверка промокода
	public.HandleFunc("/{tenantSlug}/promo-codes/validate", publicValidatePromo.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (back-office, требуют заголовков аутентификации)
	// ============================================================

	api := r.PathPrefix("/api/v1").Subrouter()
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Слоты ---
	protected.HandleFunc("/slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// --- Записи ---
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}", updateAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/checkout", checkoutAppointment.Handle).Methods(http.MethodPost)

	// История записей клиента
	protected.HandleFunc("/customers/{customerId}/appointments", getCustomerAppointments.Handle).Methods(http.MethodGet)

	// --- Счета ---
	protected.HandleFunc("/invoices/{invoiceId}", getInvoice.Handle).Methods(http.MethodGet)

	// --- Политики бронирования ---
	protected.HandleFunc("/policies/resolve", getBookingPolicy.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/policies", listBookingPolicies.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/policies", updateBookingPolicy.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/policies", deleteBookingPolicy.Handle).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Дожидаемся доставки оставшихся доменных событий
	dispatcher.Close()

	log.Info("Server stopped gracefully")
}
