package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mokuso/internal/compose"
	"mokuso/internal/handlers"
	"mokuso/internal/jobs"
	"mokuso/internal/params"
	"mokuso/internal/state"
	"mokuso/internal/storage"
	"mokuso/internal/stream"
	"mokuso/internal/version"
)

func main() {
	// .envファイルを読み込み（存在しない場合はスキップ）
	_ = godotenv.Load()

	// 環境変数からポート番号を取得（デフォルト: 8080）
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// データベースパス（デフォルト: data/mokuso.db）
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "data/mokuso.db"
	}

	// データベース接続
	db, err := storage.Open(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	// コンポーネントの組み立て
	sessions := storage.NewSessionRepository(db)
	store := state.NewStore()
	generator := params.NewGenerator()
	composer := compose.NewComposer()
	manager := jobs.NewManager(store, sessions, composer, generator)
	streamer := stream.NewStreamer(store)

	jobHandler := handlers.NewJobHandler(manager, sessions, streamer)

	// Echoインスタンスの作成
	e := echo.New()

	// ミドルウェアの設定
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// ルートの登録
	e.POST("/api/generate", jobHandler.Generate)
	e.GET("/api/status/:id", jobHandler.Status)
	e.GET("/api/status/stream/:id", jobHandler.Stream)
	e.GET("/api/result/:id", jobHandler.Result)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "ok",
			"version": version.Version,
		})
	})

	// サーバー起動
	log.Printf("Starting Mokuso v%s on port %s", version.Version, port)
	if err := e.Start(fmt.Sprintf(":%s", port)); err != nil {
		log.Fatal(err)
	}
}
