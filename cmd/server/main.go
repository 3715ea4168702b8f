package main

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/dineflow/api/internal/checkout"
	"github.com/dineflow/api/internal/config"
	"github.com/dineflow/api/internal/enum"
	"github.com/dineflow/api/internal/models"
	"github.com/dineflow/api/internal/notify"
	"github.com/dineflow/api/internal/payment"
	"github.com/dineflow/api/internal/promo"
	"github.com/dineflow/api/internal/router"
	"github.com/dineflow/api/internal/service"
	"github.com/dineflow/api/internal/store"
	"github.com/dineflow/api/internal/ws"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	taxRate, err := decimal.NewFromString(cfg.TaxRate)
	if err != nil {
		log.Fatalf("invalid TAX_RATE %q: %v", cfg.TaxRate, err)
	}

	settings := store.NewSettingsStore(store.Settings{
		RestaurantName: cfg.RestaurantName,
		WhatsAppNumber: cfg.WhatsAppNumber,
		CurrencySymbol: cfg.CurrencySymbol,
		TaxRate:        taxRate,
		UPIVPA:         cfg.UPIVPA,
	})

	mem := store.NewMemory()
	seedCatalog(ctx, mem)
	bootstrapAdmin(ctx, mem, cfg)

	// Orders go to Postgres when configured; everything else is served
	// from memory and reseeded on restart.
	var orders store.OrderStore = mem
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("connect postgres: %v", err)
		}
		defer pool.Close()

		pg := store.NewPostgresOrders(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Fatalf("ensure schema: %v", err)
		}
		orders = pg
		log.Println("Using Postgres order store")
	}

	var sessions checkout.SessionStore = checkout.NewMemorySessions()
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("parse REDIS_URL: %v", err)
		}
		sessions = checkout.NewRedisSessions(redis.NewClient(opts))
		log.Println("Using Redis checkout sessions")
	}

	var sink notify.Sink = notify.LogSink{}
	if cfg.KafkaBrokers != "" {
		writer := &kafka.Writer{
			Addr:     kafka.TCP(strings.Split(cfg.KafkaBrokers, ",")...),
			Balancer: &kafka.LeastBytes{},
		}
		defer writer.Close()
		sink = notify.NewKafkaSink(writer)
		log.Println("Using Kafka notification sink")
	}
	notifier := notify.NewNotifier(sink, cfg.RestaurantName, cfg.CurrencySymbol)

	orderService := service.NewOrderService(orders)
	pipeline := checkout.NewPipeline(
		sessions,
		mem,
		mem,
		promo.NewValidator(mem),
		payment.NewSimulatedGateway(),
		orderService,
		notifier,
		settings,
	)

	hub := ws.NewHub()
	go hub.Run()

	r := router.New(cfg, router.Deps{
		Menu:         mem,
		Categories:   mem,
		Tables:       mem,
		Orders:       orders,
		Offers:       mem,
		Users:        mem,
		Settings:     settings,
		OrderService: orderService,
		Pipeline:     pipeline,
		Notifier:     notifier,
		Hub:          hub,
	})

	log.Printf("Starting server on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal(err)
	}
}

func bootstrapAdmin(ctx context.Context, mem *store.Memory, cfg *config.Config) {
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash admin password: %v", err)
	}
	if _, err := mem.CreateUser(ctx, models.User{
		Username:     cfg.AdminUsername,
		PasswordHash: hash,
		Role:         enum.UserRoleAdmin,
	}); err != nil {
		log.Fatalf("create admin user: %v", err)
	}
}
