package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"ecgenius/config"
	"ecgenius/diagnostics"
	"ecgenius/logger"
	"ecgenius/middleware"
	"ecgenius/models"
	"ecgenius/router"
	"ecgenius/service"
	"ecgenius/store"

	"github.com/spf13/cobra"
)

// @title ECGenius API
// @version 1.0
// @description 心电预测服务：提交样本、登记患者、获取报告
// @host localhost:5000
// @BasePath /

const version = "1.0.0"

var (
	configFile  string
	port        string
	showVersion bool
)

var rootCmd = &cobra.Command{
	Use:           "ecgenius",
	Short:         "ECGenius ECG prediction service",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("ECGenius v%s\n", version)
			return nil
		}
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "外部配置文件路径（可选）")
	rootCmd.Flags().StringVarP(&port, "port", "p", "", "监听端口，如: 5000 或 :5000")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "v", false, "显示版本信息")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// 加载配置（内置配置 + 可选的外部配置覆盖）
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 命令行参数覆盖端口配置
	if port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	config.PrintConfig(log.Printf)

	// 初始化存储
	records, err := store.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer records.Close()

	audit := middleware.NewAuditLogger(log.With("component", "audit"), cfg.Log.AuditBuffer, cfg.Log.AuditBodyLimit)
	defer audit.Close()

	deps := router.Deps{
		Store:       records,
		Diagnostics: diagnostics.NewStub(cfg.Diagnostics),
		IDs:         models.NewIDGenerator(),
		Audit:       audit,
		Log:         log,
	}
	if email := service.NewEmailService(&cfg.Email); email.Enabled() {
		notifier := service.NewAsyncNotifier(email, log.With("component", "email"), 30*time.Second)
		defer notifier.Wait()
		deps.Notifier = notifier
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router.SetupRouter(cfg, deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("ECGenius started",
			"addr", cfg.Server.Port,
			"store", cfg.Store.Driver,
			"swagger", fmt.Sprintf("http://localhost%s/swagger/index.html", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
