package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"upnext/internal/auth"
	"upnext/internal/compose"
	"upnext/internal/images"
	"upnext/internal/library"
	"upnext/internal/settings"
	synchub "upnext/internal/sync"
	"upnext/internal/tags"
	"upnext/pkg/database"
	"upnext/pkg/logger"
	"upnext/pkg/utils"
)

func main() {
	utils.LoadEnv()
	log := logger.Get()
	srvCfg := utils.LoadServerConfig()

	dbCfg := database.DefaultConfig()
	db := database.MustOpen(dbCfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.WithError(err).Fatal("db migrate failed")
	}

	store, err := settings.NewStore(srvCfg.DataDir)
	if err != nil {
		log.WithError(err).Fatal("load settings failed")
	}

	if !srvCfg.GinDebug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	hub := synchub.NewHub()

	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "db_error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": dbCfg.Path, "ws_clients": hub.Count()})
	})

	// Session token for the embedded webview. It is minted per process
	// start and handed to the wrapper through a file in the data dir.
	sessCfg := utils.LoadSessionConfig()
	tokenSvc := auth.TokenService{
		Secret:   []byte(sessCfg.Secret),
		Issuer:   sessCfg.Issuer,
		Duration: sessCfg.Duration,
	}
	token, _, err := tokenSvc.Sign("desktop")
	if err != nil {
		log.WithError(err).Fatal("mint session token failed")
	}
	tokenPath := filepath.Join(srvCfg.DataDir, "session_token")
	if err := os.WriteFile(tokenPath, []byte(token), 0o600); err != nil {
		log.WithError(err).Fatal("write session token failed")
	}

	itemsRepo := library.NewRepo(db)
	tagsRepo := tags.NewRepo(db)

	protected := router.Group("/")
	protected.Use(auth.SessionMiddleware(tokenSvc))

	protected.GET("/ws", synchub.WSHandler(hub))
	images.NewHandler(itemsRepo).RegisterRoutes(protected)

	api := protected.Group("/api")
	library.NewHandler(itemsRepo, hub).RegisterRoutes(api)
	tags.NewHandler(tagsRepo).RegisterRoutes(api)
	settings.NewHandler(store).RegisterRoutes(api)

	vis := compose.NewVisibility(store)
	compose.NewHandler(itemsRepo, tagsRepo, vis, hub).RegisterRoutes(api)

	httpSrv := &http.Server{
		Addr:    srvCfg.Addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srvCfg.Addr).Info("HTTP server listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.WithField("signal", sig.String()).Info("shutdown signal received")
	case err := <-errCh:
		log.WithError(err).Error("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http shutdown error")
	}
	_ = os.Remove(tokenPath)
	log.Info("server stopped")
}
