package main

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/suiso11/kaikeisinsei/internal/bot"
	"github.com/suiso11/kaikeisinsei/internal/drive"
	"github.com/suiso11/kaikeisinsei/internal/expense"
	"github.com/suiso11/kaikeisinsei/internal/ledger"
	"github.com/suiso11/kaikeisinsei/internal/parsing"
	"github.com/suiso11/kaikeisinsei/internal/scanning"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("kaikei-bot")
	var (
		port          = fs.IntLong("port", 8080, "HTTP server port")
		dbPath        = fs.StringLong("db", "kaikei.db", "Database file path")
		storagePath   = fs.StringLong("storage", "./receipts", "Storage directory path")
		scannerType   = fs.StringLong("scanner", "vision", "Scanner type: 'vision' or 'gemini'")
		credentials   = fs.StringLong("credentials", "", "Google service account credentials file (or use application default credentials)")
		geminiKey     = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel   = fs.StringLong("gemini-model", "gemini-2.5-flash", "Google Gemini model name")
		spreadsheetID = fs.StringLong("spreadsheet-id", "", "Google Sheets spreadsheet ID of the ledger")
		sheetGID      = fs.IntLong("sheet-gid", 0, "Sheet GID within the spreadsheet")
		sheetName     = fs.StringLong("sheet-name", "", "Sheet name (overrides --sheet-gid lookup)")
		driveFolder   = fs.StringLong("drive-folder", "", "Google Drive folder ID for receipt uploads (optional)")
		telegramToken = fs.StringLong("telegram-token", "", "Telegram bot token (optional, disables the bot when empty)")
		authUser      = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass      = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		showVersion   = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("KAIKEI"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Check version flag after parsing
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	if *spreadsheetID == "" {
		slog.Error("Spreadsheet ID is required. Set --spreadsheet-id flag or KAIKEI_SPREADSHEET_ID environment variable")
		os.Exit(1)
	}

	// Initialize database
	slog.Info("Initializing database...")
	db, err := expense.NewBoltDB(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Initialize scanner based on type
	var scanner scanning.Scanner
	switch *scannerType {
	case "vision":
		slog.Info("Initializing Cloud Vision scanner...")
		scanner, err = scanning.NewVision(*credentials)
		if err != nil {
			slog.Error("Failed to initialize Cloud Vision", "error", err)
			os.Exit(1)
		}
	case "gemini":
		// Get Gemini API key from flag or environment
		apiKey := *geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			slog.Error("Gemini API key is required. Set --gemini-key flag or GEMINI_API_KEY environment variable")
			os.Exit(1)
		}
		slog.Info("Initializing Gemini scanner...", "model", *geminiModel)
		scanner, err = scanning.NewGemini(apiKey, *geminiModel)
		if err != nil {
			slog.Error("Failed to initialize Gemini", "error", err)
			os.Exit(1)
		}
	default:
		slog.Error("Invalid scanner type", "type", *scannerType, "valid", "vision or gemini")
		os.Exit(1)
	}
	defer scanner.Close()

	// Initialize storage
	slog.Info("Initializing storage...")
	store, err := expense.NewLocalStorage(*storagePath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	// Initialize ledger
	slog.Info("Initializing ledger...", "spreadsheet_id", *spreadsheetID)
	sheets, err := ledger.NewSheets(*credentials, *spreadsheetID, int64(*sheetGID), *sheetName)
	if err != nil {
		slog.Error("Failed to initialize ledger", "error", err)
		os.Exit(1)
	}

	// Initialize Drive uploads
	uploader, err := drive.NewUploader(*credentials, *driveFolder)
	if err != nil {
		slog.Error("Failed to initialize Drive uploads", "error", err)
		os.Exit(1)
	}

	// Initialize service
	expenseService := expense.NewService(db, scanner, store, parsing.New(), sheets, uploader)

	// Initialize server
	basicAuth := expense.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	}
	server := expense.NewServer(expenseService, basicAuth)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start Telegram bot when a token is configured
	if *telegramToken != "" {
		tgBot, err := bot.New(*telegramToken, expenseService)
		if err != nil {
			slog.Error("Failed to initialize Telegram bot", "error", err)
			os.Exit(1)
		}
		go tgBot.Run(ctx)
	}

	// Start server in goroutine
	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr))
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}
