package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/rmoliveira/quotation-service/internal/config"
	"github.com/rmoliveira/quotation-service/internal/es"
	"github.com/rmoliveira/quotation-service/internal/handlers"
	"github.com/rmoliveira/quotation-service/internal/logging"
	loggingmw "github.com/rmoliveira/quotation-service/internal/middleware/logging"
	"github.com/rmoliveira/quotation-service/internal/mykafka"
	"github.com/rmoliveira/quotation-service/internal/service/catalog"
	"github.com/rmoliveira/quotation-service/internal/service/quote"
	httpserver "github.com/rmoliveira/quotation-service/internal/transport/http"
)

const productIndex = "product"

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	jwtSecret := []byte(configuration.JWT_SECRET)
	if len(jwtSecret) == 0 {
		log.Fatal("JWT_SECRET is required")
	}

	// Kafka and Elasticsearch are optional collaborators: the intake
	// and triage paths work without them.
	var prod *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		prod, err = mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
		if err != nil {
			log.Fatal(err)
		}
		defer prod.Close()
	}

	searchHandler := &handlers.SearchHandler{Index: productIndex}
	productHandler := &handlers.ProductHandler{
		Catalog:  &catalog.Service{DB: db},
		Producer: prod,
		Index:    productIndex,
	}
	if configuration.ES_URL != "" {
		esClient, err := es.NewClient(configuration)
		if err != nil {
			log.Fatal(err)
		}
		searchHandler.ES = esClient
		productHandler.ES = esClient
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		DB:             db,
		AuthHandler:    &handlers.AuthHandler{DB: db, JWTSecret: jwtSecret},
		ProductHandler: productHandler,
		QuoteHandler:   &handlers.QuoteHandler{Service: &quote.Service{DB: db}, Producer: prod},
		SearchHandler:  searchHandler,
		JWTSecret:      jwtSecret,
	}

	httpserver.Register(e, &deps)

	addr := ":8080"
	if configuration.PORT != "" {
		addr = ":" + configuration.PORT
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
