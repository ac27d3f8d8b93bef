package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "barberbooking",
	Short: "SMC-BarberBooking - запись клиентов к мастерам барбершопа",
	Long: `Сервис записи к мастерам: свободные слоты, запись без пересечений,
отмена и завершение записей, настройки бронирования салона.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.toml", "путь к файлу конфигурации")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	// Отмена контекста по SIGINT/SIGTERM запускает graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
