package main

import (
	"context"
	"time"

	"gitlab.com/dirk.krummacker/mini-crm/internal/config"
	"gitlab.com/dirk.krummacker/mini-crm/internal/logger"
	"gitlab.com/dirk.krummacker/mini-crm/internal/model"
	"gitlab.com/dirk.krummacker/mini-crm/internal/observability"
	"gitlab.com/dirk.krummacker/mini-crm/internal/service"
	"gitlab.com/dirk.krummacker/mini-crm/internal/store"
	"go.uber.org/zap"
)

const serviceName = "mini-crm"

// Usage example on the command line:
// > PORT=8080 MONGO_URI=mongodb://localhost:27017 GIN_MODE=release GIN_LOGGING=OFF go run main.go
// > PORT=8080 STORE=mysql DBHOST=localhost:3306 DBUSER=dirk DBPWD=bullo92 go run main.go
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logger.New(cfg, serviceName)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	shutdownTracing, err := observability.InitTracing(cfg.TracingEnabled)
	if err != nil {
		log.Fatal("could not initialize tracing", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(ctx)
	}()

	contactStore, closeStore := openStore(cfg, log)
	defer closeStore()

	handler := service.NewHandler(contactStore, model.NewContactSchema(), log)
	router := service.SetupHttpRouter(handler, service.RouterOptions{
		ServiceName:    serviceName,
		RequestLogging: cfg.RequestLogging,
		AllowOrigins:   cfg.CORSOrigins,
		Logger:         log,
	})

	log.Info("HTTP server running", zap.String("port", cfg.Port), zap.String("store", cfg.Store))
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

// openStore connects to the configured backend and returns the store together with a function
// that releases the connection.
func openStore(cfg config.Config, log *zap.Logger) (service.ContactStore, func()) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch cfg.Store {
	case config.StoreMySQL:
		sqlDB, err := store.OpenMySQL(cfg.MySQL)
		if err != nil {
			log.Fatal("could not open mysql", zap.Error(err))
		}
		mysqlStore, err := store.NewMySQLStore(sqlDB)
		if err != nil {
			log.Fatal("could not prepare statements", zap.Error(err))
		}
		return mysqlStore, func() { _ = mysqlStore.Close() }
	default:
		client, err := store.Connect(ctx, cfg.MongoURI)
		if err != nil {
			log.Fatal("could not connect to mongodb", zap.Error(err))
		}
		coll := client.Database(cfg.MongoDatabase).Collection(store.CollectionName)
		mongoStore, err := store.OpenMongoStore(ctx, coll)
		if err != nil {
			_ = client.Disconnect(context.Background())
			log.Fatal("could not ensure indexes", zap.Error(err))
		}
		log.Info("MongoDB connected", zap.String("database", cfg.MongoDatabase))
		return mongoStore, func() { _ = client.Disconnect(context.Background()) }
	}
}
