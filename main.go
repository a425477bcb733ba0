package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	"p9e.in/civicgrid/config"
	"p9e.in/civicgrid/handlers"
	"p9e.in/civicgrid/pkg/routing"
	"p9e.in/civicgrid/pkg/workflow"
	"p9e.in/civicgrid/routes"
	"p9e.in/civicgrid/stores"
)

var (
	Version   = "dev"
	BuildTime = ""
)

func main() {

	versionFlag := flag.Bool("version", false, "Print version info and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("Version:   %s\n", Version)
		fmt.Printf("BuildTime: %s\n", BuildTime)
		os.Exit(0)
	}

	config.LoadEnv()

	db, err := config.Connect()
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	// Run migrations
	if err := config.Migrations(db); err != nil {
		log.Fatalf("could not run migrations: %v", err)
	}

	// Run seeding (will skip if data already exists)
	if err := config.RunAllSeeding(db); err != nil {
		log.Printf("Warning: seeding encountered issues: %v", err)
	}

	redisClient, err := config.ConnectRedis()
	if err != nil {
		log.Fatalf("could not connect to redis: %v", err)
	}

	// Stores share the one DB handle; nothing holds it globally.
	reportStore := stores.NewReportStore(db)
	departmentStore := stores.NewDepartmentStore(db)
	auditStore := stores.NewAuditStore(db)
	userStore := stores.NewUserStore(db)

	engine := routing.NewEngine(departmentStore)
	detector := routing.NewProximityDetector(reportStore)
	wf := workflow.New(reportStore, auditStore)

	rateLimit := 5
	if v := os.Getenv("REPORT_RATE_LIMIT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			rateLimit = parsed
		}
	}

	handler := routes.RegisterRoutes(routes.Deps{
		Auth:            handlers.NewAuthHandler(userStore),
		Reports:         handlers.NewReportHandler(engine, detector, wf, reportStore, userStore),
		Departments:     handlers.NewDepartmentHandler(departmentStore),
		Users:           handlers.NewUserHandler(userStore),
		Analytics:       handlers.NewAnalyticsHandler(db),
		Redis:           redisClient,
		ReportRateLimit: rateLimit,
	})
	handlerWithCORS := enableCORS(handler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("Server starting at port", port)
	log.Fatal(http.ListenAndServe(":"+port, handlerWithCORS))
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Required CORS headers
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With, X-Citizen-Email")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")

		// Handle preflight (OPTIONS)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
