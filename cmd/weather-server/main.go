// The weather server exposes the weather gateway over HTTP: a method/params
// envelope on POST /mcp and a static capability document on GET /capabilities.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dileep-u-k/weather-chat/internal/gateway"
	"github.com/dileep-u-k/weather-chat/internal/mcp"

	"github.com/gin-gonic/gin"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("❌ FATAL: Configuration Error: %v", err)
	}
	log.Println("✅ Configuration loaded.")

	handler, err := gateway.New(cfg.OpenWeatherAPIKey)
	if err != nil {
		log.Fatalf("❌ FATAL: %v", err)
	}

	gin.SetMode(os.Getenv("GIN_MODE"))
	engine := gin.Default()

	engine.POST("/mcp", func(c *gin.Context) {
		var req mcp.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, handler.Handle(c.Request.Context(), req))
	})

	engine.GET("/capabilities", func(c *gin.Context) {
		c.JSON(http.StatusOK, mcp.Capabilities())
	})

	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	srv := &http.Server{Addr: addr, Handler: engine}

	log.Printf("🌤️  Starting MCP Weather Server on %s", addr)
	log.Println("Available endpoints:")
	log.Println("  POST /mcp - Handle MCP requests")
	log.Println("  GET  /capabilities - Get server capabilities")

	runServerWithGracefulShutdown(srv)
}

// runServerWithGracefulShutdown handles the server lifecycle.
func runServerWithGracefulShutdown(srv *http.Server) {
	go func() {
		log.Printf("👂 Weather server is listening on http://%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Listen error: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("❌ Server shutdown failed:", err)
	}

	log.Println("👋 Server exited gracefully.")
}
