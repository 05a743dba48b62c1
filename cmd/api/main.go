package main

import (
	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/server"
	"app/internal/store"
	"app/internal/usecase"

	"github.com/joho/godotenv"
)

func main() {
	//.envがあれば読む（本番は環境変数のみ）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		panic(err)
	}
	if err := gormDB.AutoMigrate(
		&model.Product{},
		&model.OfferDocument{},
		&model.LineItem{},
	); err != nil {
		panic(err)
	}

	//Repository（GORM実装）生成
	offerRepo := infraRepo.NewOfferGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)

	//編集中ドキュメントの置き場（プロセスで1つ）
	docs := store.NewDocumentStore()

	//Usecase生成
	offerUC := usecase.NewOfferUsecase(offerRepo, productRepo)
	composerUC := usecase.NewComposerUsecase(docs, offerRepo, productRepo)

	//Handler生成
	offerH := handler.NewOfferHandler(offerUC)
	composerH := handler.NewComposerHandler(composerUC)

	//Server起動
	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	if err := server.Start(addr, cfg, offerH, composerH); err != nil {
		panic(err)
	}
}
