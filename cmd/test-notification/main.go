package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/hrsuite/requisition-flow/internal/config"
	"github.com/hrsuite/requisition-flow/internal/email"
)

// Isolated test for the SMTP delivery path
// This verifies relay connectivity and credentials without full system integration

func main() {
	fmt.Println("=== SMTP Notification Test ===")
	fmt.Println("This tool sends a test message through the configured mail relay")
	fmt.Println()

	if len(os.Args) < 2 {
		fmt.Println("Usage: test-notification <recipient-address>")
		os.Exit(1)
	}
	recipient := os.Args[1]

	_ = gotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if !cfg.NotificationsEnabled() {
		log.Fatalf("SMTP is not configured: set smtp.host (and SMTP_* env vars for credentials)")
	}

	fmt.Printf("Relay: %s:%d\n", cfg.SMTP.Host, cfg.SMTP.Port)
	fmt.Printf("From:  %s\n", cfg.SMTP.From)
	fmt.Printf("To:    %s\n", recipient)

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	sender := email.NewSender(email.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		Timeout:  cfg.SMTP.Timeout,
	}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Println("\n[Step 1] Sending test message...")
	subject := "Prueba de notificaciones - Requisición de personal"
	body := fmt.Sprintf("Mensaje de prueba enviado el %s.\n\nSi recibe este correo, el relevo SMTP está configurado correctamente.",
		time.Now().Format("2006-01-02 15:04:05"))

	if err := sender.Send(ctx, []string{recipient}, subject, body); err != nil {
		log.Fatalf("✗ Delivery failed: %v", err)
	}

	fmt.Println("✓ Message accepted by relay")
	fmt.Println("\nCheck the recipient inbox to confirm end-to-end delivery.")
}
