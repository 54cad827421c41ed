package main

import (
	"log"

	"app/internal/audit"
	"app/internal/config"
	"app/internal/handler"
	"app/internal/infra/db"
	"app/internal/infra/filestore"
	infraRepo "app/internal/infra/repository"
	repo "app/internal/repository"
	"app/internal/server"
	"app/internal/usecase"

	"github.com/joho/godotenv"
)

func main() {
	//.envは無ければ無視
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	var (
		mode      config.StorageMode
		tx        repo.TransactionManager
		customers repo.CustomerRepository
		admins    repo.AdminRepository
		sessions  repo.SessionRepository
		auditRepo repo.AuditLogRepository
	)

	//DBに届くかで一度だけバックエンドを決める
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Printf("postgres unreachable, falling back to file storage: %v", err)

		store, serr := filestore.New(cfg.DataDir, cfg.Location)
		if serr != nil {
			log.Fatal(serr)
		}
		mode = config.StorageModeFile
		tx = filestore.NewTxManagerFile(store)
		customers = filestore.NewCustomerFileRepository(store)
		admins = filestore.NewAdminFileRepository(store)
		sessions = filestore.NewSessionFileRepository(store)
		auditRepo = filestore.NewAuditLogFileRepository(store)
	} else {
		if err := db.Migrate(gormDB); err != nil {
			log.Fatal(err)
		}
		//古いデプロイに足りない列をここで揃える（リクエスト経路では触らない）
		if err := db.EnsureOrderSchema(gormDB); err != nil {
			log.Fatal(err)
		}
		mode = config.StorageModeRelational
		tx = infraRepo.NewTxManagerGorm(gormDB, cfg.Location)
		customers = infraRepo.NewCustomerGormRepository(gormDB)
		admins = infraRepo.NewAdminGormRepository(gormDB)
		sessions = infraRepo.NewSessionGormRepository(gormDB)
		auditRepo = infraRepo.NewAuditLogGormRepository(gormDB)
	}
	log.Printf("storage mode: %s", mode)

	//監査ログは非同期sink。落ちても本処理は失敗しない
	auditLogger := audit.NewLogger(auditRepo, 64)
	defer auditLogger.Close()

	//Usecase生成
	orderUC := usecase.NewOrderUsecase(tx, customers)
	adminOrderUC := usecase.NewAdminOrderUsecase(tx, auditLogger)
	auditLogUC := usecase.NewAuditLogUsecase(auditRepo)
	authUC := usecase.NewAuthUsecase(admins, sessions, cfg.SessionTTL)

	//Handler生成・ルート登録
	e := server.New()
	handler.NewOrderHandler(orderUC).RegisterRoutes(e)
	handler.NewAdminOrderHandler(adminOrderUC, auditLogUC).RegisterRoutes(e, sessions, admins, cfg.SessionTTL)
	handler.NewAuthHandler(authUC).RegisterRoutes(e, sessions, admins, cfg.SessionTTL)

	//Server起動
	if err := server.Start(e, cfg.Port); err != nil {
		log.Fatal(err)
	}
}
