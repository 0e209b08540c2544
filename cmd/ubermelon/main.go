package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"ubermelon/internal/catalog"
	"ubermelon/internal/customer"
	"ubermelon/internal/session"
	"ubermelon/internal/web"
	"ubermelon/pkg/kit"
)

const sessionSweepEvery = 10 * time.Minute

func main() {
	seed := flag.Bool("seed", false, "load the flat files into Postgres and exit")
	flag.Parse()

	_ = godotenv.Load()

	service := "ubermelon"
	log := kit.NewLogger(service, os.Getenv("LOG_LEVEL"))
	defer func() { _ = log.Sync() }()

	port := getenv("PORT", "8080")
	dataDir := getenv("DATA_DIR", "data")
	dbURL := os.Getenv("DATABASE_URL")

	secret := os.Getenv("SESSION_SECRET")
	if len(secret) < 32 {
		log.Fatal("SESSION_SECRET is required and must be at least 32 chars")
	}

	melonStore, err := catalog.LoadFile(filepath.Join(dataDir, "melons.txt"))
	if err != nil {
		log.Fatal("load catalog failed", zap.Error(err))
	}
	customerStore, err := customer.LoadFile(filepath.Join(dataDir, "customers.txt"))
	if err != nil {
		log.Fatal("load customers failed", zap.Error(err))
	}

	var (
		catalogStore catalog.Store  = melonStore
		custStore    customer.Store = customerStore
	)

	if dbURL != "" {
		db, err := sql.Open("pgx", dbURL)
		if err != nil {
			log.Fatal("open database failed", zap.Error(err))
		}
		defer db.Close()

		catalogDB := catalog.NewPostgresStore(db)
		customerDB := customer.NewPostgresStore(db)

		if *seed {
			runSeed(log, melonStore, customerStore, catalogDB, customerDB)
			return
		}

		catalogStore = catalogDB
		custStore = customerDB
	} else if *seed {
		log.Fatal("-seed requires DATABASE_URL")
	}

	ttl := session.DefaultTTL
	sessions := session.NewManager(ttl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sessions.Run(ctx, sessionSweepEvery)

	s := &web.Server{
		Log:        log,
		Catalog:    catalogStore,
		Customers:  custStore,
		Verify:     pickVerifier(log),
		Sessions:   sessions,
		Tokens:     session.NewTokenMaker(secret),
		SessionTTL: ttl,
	}

	reg := prometheus.NewRegistry()
	h := web.NewHandler(s, web.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: os.Getenv("METRICS_TOKEN") != "",
		MetricsToken:   os.Getenv("METRICS_TOKEN"),
	})

	if err := kit.RunHTTPServer(":"+port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func runSeed(log *zap.Logger, melons *catalog.MemStore, customers *customer.MemStore,
	catalogDB *catalog.PostgresStore, customerDB *customer.PostgresStore) {

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	products, _ := melons.List(ctx)
	if err := catalogDB.Seed(ctx, products); err != nil {
		log.Fatal("seed products failed", zap.Error(err))
	}
	if err := customerDB.Seed(ctx, customers.All()); err != nil {
		log.Fatal("seed customers failed", zap.Error(err))
	}

	log.Info("seed complete",
		zap.Int("products", len(products)),
		zap.Int("customers", len(customers.All())))
}

func pickVerifier(log *zap.Logger) customer.Verifier {
	switch scheme := getenv("PASSWORD_SCHEME", "bcrypt"); scheme {
	case "bcrypt":
		return customer.BcryptVerifier{}
	case "plain":
		log.Warn("PASSWORD_SCHEME=plain: comparing plaintext credentials")
		return customer.PlainVerifier{}
	default:
		log.Fatal("unknown PASSWORD_SCHEME", zap.String("scheme", scheme))
		return nil
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
