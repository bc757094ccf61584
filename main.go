// Command llmgateway runs the LLM gateway: a reverse proxy that fans a
// chat-completion request out across weighted candidate providers, fails
// over on error, traces every attempt to a JSONL log, and exposes an admin
// CRUD surface over its own configuration.
package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"llmgateway/api"
	"llmgateway/auth"
	"llmgateway/config"
	"llmgateway/front"
	"llmgateway/health"
	"llmgateway/logger"
	"llmgateway/provider"
	"llmgateway/proxy"
	"llmgateway/requestlog"
	"llmgateway/router"
)

//go:embed ui/admin/*
var adminUI embed.FS

func main() {
	cli := config.ParseCLI(os.Args[1:])

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "INFO"
	}
	logger.Init(logLevel)

	store, err := config.Open(cli.ConfigDir)
	if err != nil {
		log.Fatalf("failed to open config dir: %v", err)
	}

	seedPath := filepath.Join(cli.ConfigDir, "seed.yaml")
	if err := store.SeedIfEmpty(seedPath); err != nil {
		log.Fatalf("failed to seed config: %v", err)
	}

	if err := os.MkdirAll(cli.LogDir, 0o755); err != nil {
		log.Fatalf("failed to create log dir: %v", err)
	}
	recorder, err := requestlog.NewRecorder(cli.LogDir)
	if err != nil {
		log.Fatalf("failed to open request log: %v", err)
	}
	defer recorder.Close()

	tracker := health.NewTracker()
	selector := router.NewSelector(store, tracker)
	clients := provider.NewManager()

	watcher, err := config.NewWatcher(store)
	if err != nil {
		log.Fatalf("failed to create config watcher: %v", err)
	}
	if err := watcher.Start(); err != nil {
		log.Fatalf("failed to start config watcher: %v", err)
	}
	defer watcher.Stop()

	proxyHandler := proxy.NewHandler(store, tracker, selector, clients, recorder)
	modelsHandler := proxy.NewModelsHandler(store)

	srv := startHTTPServer(cli, store, tracker, proxyHandler, modelsHandler)

	logger.Info("llmgateway started", "host", cli.Host, "port", cli.Port, "configDir", cli.ConfigDir, "logDir", cli.LogDir)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err.Error())
	}
}

func startHTTPServer(cli *config.CLI, store *config.Store, tracker *health.Tracker, proxyHandler *proxy.Handler, modelsHandler *proxy.ModelsHandler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(front.Recovery())
	r.Use(front.CORS(!cli.NoCORS))
	r.Use(front.BodyLimit())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	clientGroup := r.Group("/v1")
	clientGroup.Use(auth.ClientAuth(store))
	{
		clientGroup.POST("/chat/completions", proxyHandler.HandleChatCompletions)
		clientGroup.POST("/messages", proxyHandler.HandleMessages)
		clientGroup.GET("/models", modelsHandler.HandleListModels)
	}

	api.RegisterRoutes(r, store, tracker, cli.LogDir)

	registerAdminUI(r)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cli.Host, cli.Port),
		Handler:      r,
		ReadTimeout:  120 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err.Error())
		}
	}()

	return srv
}

// registerAdminUI serves the embedded dashboard as individual routes rather
// than a wildcard static handler, so it can live alongside /admin/api
// without the two conflicting in gin's routing tree.
func registerAdminUI(r *gin.Engine) {
	adminFS, err := fs.Sub(adminUI, "ui/admin")
	if err != nil {
		logger.Error("failed to load embedded admin UI", "error", err.Error())
		return
	}

	r.GET("/admin", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/admin/")
	})
	r.GET("/admin/", func(c *gin.Context) {
		data, err := fs.ReadFile(adminFS, "index.html")
		if err != nil {
			c.String(http.StatusInternalServerError, "failed to load dashboard")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", data)
	})
	r.GET("/admin/app.js", func(c *gin.Context) {
		data, err := fs.ReadFile(adminFS, "app.js")
		if err != nil {
			c.String(http.StatusInternalServerError, "failed to load script")
			return
		}
		c.Data(http.StatusOK, "application/javascript; charset=utf-8", data)
	})
}
