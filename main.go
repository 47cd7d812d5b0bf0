package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"hirehelper-service/handlers"
	"hirehelper-service/logging"
	"hirehelper-service/middleware"
	"hirehelper-service/repositories"
	"hirehelper-service/services"
	"hirehelper-service/utils"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	logging.InitLogger()

	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting HireHelper Service...")
	if err := godotenv.Load(".env"); err != nil {
		logging.Logger.Warnf("Event ID: ENV_LOAD_WARNING, Description: No .env file loaded: %v", err)
	}

	mongoURI := os.Getenv("MONGO_URI")
	mongoDBName := os.Getenv("MONGO_DB_NAME")
	if mongoURI == "" || mongoDBName == "" {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: MONGO_URI and MONGO_DB_NAME must be set.")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: JWT_SECRET is not set in the environment variables.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer client.Disconnect(ctx)

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", mongoURI)

	db := client.Database(mongoDBName)

	userRepo := repositories.NewUserRepo(db)
	taskRepo := repositories.NewTaskRepo(db, userRepo)
	requestRepo := repositories.NewRequestRepo(db, userRepo)
	acceptedTaskRepo := repositories.NewAcceptedTaskRepo(db)
	notificationRepo := repositories.NewNotificationRepo(db)

	for _, ensure := range []func(context.Context) error{
		userRepo.EnsureIndexes,
		taskRepo.EnsureIndexes,
		requestRepo.EnsureIndexes,
		acceptedTaskRepo.EnsureIndexes,
		notificationRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			logging.Logger.Fatalf("Event ID: DB_INDEX_FAILED, Description: Failed to create indexes: %v", err)
		}
	}
	logging.Logger.Info("Event ID: DB_INDEXES_READY, Description: MongoDB indexes are in place.")

	emailBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "email-cb",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})

	var mailer services.EmailSender
	if os.Getenv("EMAIL_PASSWORD") != "" {
		mailer = utils.NewSMTPMailerFromEnv()
	} else {
		logging.Logger.Warn("Event ID: EMAIL_DISABLED, Description: EMAIL_PASSWORD is not set, outgoing emails are disabled.")
	}

	identityClient := services.NewJWTIdentityClient(jwtSecret)

	notificationService := services.NewNotificationService(notificationRepo, mailer, emailBreaker)
	requestService := services.NewRequestService(taskRepo, requestRepo, acceptedTaskRepo, userRepo, notificationService)
	taskService := services.NewTaskService(taskRepo, requestRepo, acceptedTaskRepo, userRepo, notificationService)
	userService := services.NewUserService(userRepo)

	requestHandler := handlers.NewRequestHandler(requestService)
	taskHandler := handlers.NewTaskHandler(taskService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	userHandler := handlers.NewUserHandler(userService)

	authMiddleware := middleware.NewAuthMiddleware(identityClient, userRepo)
	auth := func(h http.HandlerFunc) http.Handler {
		return authMiddleware.RequireAuth(h)
	}

	r := mux.NewRouter()

	// Auth
	r.HandleFunc("/api/auth/sync", userHandler.SyncUser).Methods(http.MethodPost)
	r.Handle("/api/auth/me", auth(userHandler.GetCurrentUser)).Methods(http.MethodGet)
	r.Handle("/api/auth/account", auth(userHandler.DeleteAccount)).Methods(http.MethodDelete)
	r.Handle("/api/users/profile", auth(userHandler.UpdateProfile)).Methods(http.MethodPut)
	r.Handle("/api/users/stats", auth(userHandler.GetUserStats)).Methods(http.MethodGet)
	r.HandleFunc("/api/users/{id}", userHandler.GetUserProfile).Methods(http.MethodGet)

	// Tasks
	r.Handle("/api/tasks", authMiddleware.OptionalAuth(http.HandlerFunc(taskHandler.GetTasks))).Methods(http.MethodGet)
	r.Handle("/api/tasks", auth(taskHandler.CreateTask)).Methods(http.MethodPost)
	r.Handle("/api/tasks/my/tasks", auth(taskHandler.GetMyTasks)).Methods(http.MethodGet)
	r.Handle("/api/tasks/stats/overview", auth(taskHandler.GetTaskStats)).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/{id}", taskHandler.GetTaskByID).Methods(http.MethodGet)
	r.Handle("/api/tasks/{id}", auth(taskHandler.UpdateTask)).Methods(http.MethodPut)
	r.Handle("/api/tasks/{id}", auth(taskHandler.DeleteTask)).Methods(http.MethodDelete)
	r.Handle("/api/tasks/{id}/complete", auth(taskHandler.CompleteTask)).Methods(http.MethodPatch)
	r.Handle("/api/tasks/{id}/cancel", auth(taskHandler.CancelTask)).Methods(http.MethodPatch)
	r.Handle("/api/tasks/{id}/review", auth(taskHandler.RateHelper)).Methods(http.MethodPost)

	// Requests
	r.Handle("/api/requests", auth(requestHandler.CreateRequest)).Methods(http.MethodPost)
	r.Handle("/api/requests/received", auth(requestHandler.GetReceivedRequests)).Methods(http.MethodGet)
	r.Handle("/api/requests/sent", auth(requestHandler.GetSentRequests)).Methods(http.MethodGet)
	r.Handle("/api/requests/stats/overview", auth(requestHandler.GetRequestStats)).Methods(http.MethodGet)
	r.Handle("/api/requests/{id}", auth(requestHandler.GetRequestByID)).Methods(http.MethodGet)
	r.Handle("/api/requests/{id}/accept", auth(requestHandler.AcceptRequest)).Methods(http.MethodPatch)
	r.Handle("/api/requests/{id}/reject", auth(requestHandler.RejectRequest)).Methods(http.MethodPatch)
	r.Handle("/api/requests/{id}", auth(requestHandler.DeleteRequest)).Methods(http.MethodDelete)

	// Notifications
	r.Handle("/api/notifications", auth(notificationHandler.GetNotifications)).Methods(http.MethodGet)
	r.Handle("/api/notifications", auth(notificationHandler.DeleteAllNotifications)).Methods(http.MethodDelete)
	r.Handle("/api/notifications/unread/count", auth(notificationHandler.GetUnreadCount)).Methods(http.MethodGet)
	r.Handle("/api/notifications/read-all", auth(notificationHandler.MarkAllAsRead)).Methods(http.MethodPatch)
	r.Handle("/api/notifications/{id}/read", auth(notificationHandler.MarkAsRead)).Methods(http.MethodPatch)
	r.Handle("/api/notifications/{id}", auth(notificationHandler.DeleteNotification)).Methods(http.MethodDelete)

	corsRouter := enableCORS(r)

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	serverAddress := fmt.Sprintf(":%s", serverPort)
	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", serverAddress)

	if err := http.ListenAndServe(serverAddress, corsRouter); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}
