/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mautops/testimonial-gin/docs"
	"github.com/mautops/testimonial-gin/internal/api"
	"github.com/mautops/testimonial-gin/internal/config"
	"github.com/mautops/testimonial-gin/internal/container"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the API server",
	Long: `Start the Testimonial Gin API server.
The server will listen on the configured host and port, serve the admin
testimonial interfaces under /admin/testimonials and the storefront
interfaces under /testimonials.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. 加载配置
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyServerFlags(cmd, cfg)

		// 2. 初始化日志
		logger, err := api.NewLoggerFromConfig(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		api.SetLogger(logger)
		if config.IsProduction(cfg) {
			gin.SetMode(gin.ReleaseMode)
		}

		// 配置文件变更时热更新日志级别
		if configPath != "" {
			watcher := config.NewWatcher(cfg, configPath)
			watcher.OnChange(func(newCfg *config.Config) {
				api.ApplyLogLevel(logger, newCfg.Log.Level)
				logger.WithField("level", newCfg.Log.Level).Info("config reloaded")
			})
			if err := watcher.Start(); err != nil {
				logger.WithError(err).Warn("config watcher disabled")
			}
			defer watcher.Stop()
		}

		// 3. 初始化追踪
		tracing, err := api.InitTracing(cmd.Context(), cfg.Tracing)
		if err != nil {
			return fmt.Errorf("failed to initialize tracing: %w", err)
		}

		// 4. 初始化容器
		ctr, err := container.NewContainer(cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize container: %w", err)
		}
		defer ctr.Close()
		ctr.Collector().Start()

		// 5. 设置路由
		// 如果 host 是 0.0.0.0, Swagger 使用 localhost
		swaggerHost := cfg.Server.Host
		if swaggerHost == "0.0.0.0" {
			swaggerHost = "localhost"
		}
		docs.SwaggerInfo.Host = fmt.Sprintf("%s:%d", swaggerHost, cfg.Server.Port)

		router := api.SetupRoutes(ctr.RouterDeps(tracing))
		router.NoRoute(func(c *gin.Context) {
			api.Error(c, http.StatusNotFound, "route not found", "the requested route does not exist")
		})

		// 6. 启动服务器
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		srv := &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.WithField("addr", addr).Info("server starting")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		// 等待中断信号
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
		case err := <-errCh:
			return fmt.Errorf("failed to start server: %w", err)
		}

		logger.Info("shutting down server")

		// 优雅关闭
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.WithError(err).Error("server forced to shutdown")
		}
		if err := tracing.Shutdown(ctx); err != nil {
			logger.WithError(err).Warn("failed to flush traces")
		}

		logger.Info("server exited")
		return nil
	},
}

// applyServerFlags 命令行参数覆盖配置文件
func applyServerFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("host") {
		cfg.Server.Host, _ = cmd.Flags().GetString("host")
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port, _ = cmd.Flags().GetInt("port")
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// 服务器配置标志
	serverCmd.Flags().String("host", "0.0.0.0", "Server host")
	serverCmd.Flags().Int("port", 8080, "Server port")
}

// LoadConfig 加载配置
func LoadConfig(configPath string) (*config.Config, error) {
	return config.Load(configPath)
}

// newCommandLogger 命令行工具使用的日志记录器
func newCommandLogger(cfg *config.Config) *logrus.Logger {
	logger, err := api.NewLoggerFromConfig(&cfg.Log)
	if err != nil {
		return api.GetLogger()
	}
	return logger
}
