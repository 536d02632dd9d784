package main

import (
	"log/slog"
	"os"

	"comanda/internal/config"
	"comanda/internal/domain/model"
	"comanda/internal/events"
	"comanda/internal/handler"
	"comanda/internal/infra/db"
	infraRepo "comanda/internal/infra/repository"
	"comanda/internal/server"
	"comanda/internal/usecase"

	"github.com/joho/godotenv"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	//.envは無くても動く（本番は環境変数で渡す）
	if err := godotenv.Load(".env"); err != nil {
		log.Info(".env not loaded", "error", err)
	}

	cfg := config.Load()

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		log.Error("db connect failed", "error", err)
		os.Exit(1)
	}

	if err := gormDB.AutoMigrate(
		&model.Table{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		log.Error("migrate failed", "error", err)
		os.Exit(1)
	}

	//変更通知のハブ
	hub := events.NewHub(log)

	//Repository（GORM実装）生成
	tableRepo := infraRepo.NewTableGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//Usecase生成
	tableUC := usecase.NewTableUsecase(tableRepo, hub)
	productUC := usecase.NewProductUsecase(productRepo, hub)
	orderUC := usecase.NewOrderUsecase(txManager, hub)

	//Handler生成
	tableH := handler.NewTableHandler(tableUC)
	productH := handler.NewProductHandler(productUC)
	orderH := handler.NewOrderHandler(orderUC)
	eventsH := handler.NewEventsHandler(hub, log)

	//Server起動
	e := server.New(cfg, tableH, productH, orderH, eventsH)

	addr := ":" + cfg.Port
	log.Info("starting server", "addr", addr, "env", cfg.GoEnv)

	if err := server.Start(e, addr); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
