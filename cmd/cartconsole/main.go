package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/erazemk/cartconsole/internal/client"
	"github.com/erazemk/cartconsole/internal/config"
	"github.com/erazemk/cartconsole/internal/console"
	"github.com/erazemk/cartconsole/internal/db"
	"github.com/erazemk/cartconsole/internal/logger"
	"github.com/erazemk/cartconsole/internal/web"
)

const usage = `Usage: cartconsole <command> [flags]

Commands:
  serve           run the web console
  create          add an item to a cart
  update          replace an item in a cart
  retrieve        show one item, or a whole cart without -product
  delete          delete one item, or a whole cart without -product
  search          list items matching -customer and/or -product
  checkout        check out one item
  checkout-cart   check out a whole cart

Action commands use the API location saved on the web console's settings
page (read from -db), unless -api or -prefix is given.

Run "cartconsole <command> -h" for the command's flags.
`

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "error: loading .env: %v\n", err)
		os.Exit(1)
	}

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	switch cmd := os.Args[1]; cmd {
	case "serve":
		os.Exit(cmdServe(os.Args[2:]))
	case "-h", "-help", "--help", "help":
		fmt.Fprint(os.Stdout, usage)
	default:
		action, ok := console.ParseAction(cmd)
		if !ok || action == console.ActionClear {
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n%s", cmd, usage)
			os.Exit(1)
		}
		os.Exit(cmdAction(action, os.Args[2:]))
	}
}

func cmdServe(args []string) int {
	flags := flag.NewFlagSet("serve", flag.ContinueOnError)

	var configPath, addr, dbPath, logPath string
	flags.StringVar(&configPath, "config", "", "")
	flags.StringVar(&configPath, "c", "", "")
	flags.StringVar(&addr, "addr", "", "")
	flags.StringVar(&addr, "a", "", "")
	flags.StringVar(&dbPath, "db", "", "")
	flags.StringVar(&dbPath, "d", "", "")
	flags.StringVar(&logPath, "log", "", "")
	flags.StringVar(&logPath, "l", "", "")

	flags.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: cartconsole serve [flags]

Flags:
  -c, -config <path>      YAML config file (default: $CONFIG_PATH, else environment only)
  -a, -addr <host:port>   listen address (default: :8081)
  -d, -db <path>          SQLite settings database (default: cartconsole.sqlite3)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
  -h, -help               show this help and exit
`)
	}

	if err := flags.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 1
	}

	cfg, err := config.Load(config.Path(configPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if addr != "" {
		cfg.HTTPServer.Address = addr
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if logPath != "" {
		cfg.Log.Path = logPath
	}

	log, closeLog, err := logger.Setup(cfg.Env, cfg.Log.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer closeLog()

	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		log.Error("failed to open database", "error", err)
		return 1
	}
	defer database.Close()

	if err := db.EnsureSchema(database); err != nil {
		log.Error("failed to ensure database schema", "error", err)
		return 1
	}
	log.Info("database ready", "path", cfg.Database.Path)

	router, err := web.NewRouter(database, cfg.ShopcartAPI, log)
	if err != nil {
		log.Error("failed to set up web router", "error", err)
		return 1
	}

	server := &http.Server{
		Addr:              cfg.HTTPServer.Address,
		Handler:           router,
		ReadHeaderTimeout: cfg.HTTPServer.ReadHeaderTimeout,
		ReadTimeout:       cfg.HTTPServer.ReadTimeout,
		WriteTimeout:      cfg.HTTPServer.WriteTimeout,
		IdleTimeout:       cfg.HTTPServer.IdleTimeout,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		log.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Error("server forced to shutdown", "error", err)
		}
	}()

	log.Info("server started",
		"addr", cfg.HTTPServer.Address,
		"env", cfg.Env,
		"api", cfg.ShopcartAPI.BaseURL+client.NormalizePrefix(cfg.ShopcartAPI.Prefix),
	)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		return 1
	}

	log.Info("server stopped")
	return 0
}

func cmdAction(action console.Action, args []string) int {
	flags := flag.NewFlagSet(string(action), flag.ContinueOnError)

	var configPath, dbPath, apiURL, prefix string
	var form console.Form
	flags.StringVar(&configPath, "config", "", "YAML config file (default: $CONFIG_PATH)")
	flags.StringVar(&dbPath, "db", "", "settings database with the web console's saved API location (default: from config)")
	flags.StringVar(&apiURL, "api", "", "shopcart API base URL (default: from config)")
	flags.StringVar(&prefix, "prefix", "", "shopcart resource prefix (default: from config)")
	flags.StringVar(&form.CustomerID, "customer", "", "customer (shopcart) id")
	flags.StringVar(&form.ProductID, "product", "", "product id")
	flags.StringVar(&form.Quantity, "quantity", "", "quantity")
	flags.StringVar(&form.Price, "price", "", "price, sent as given")

	if err := flags.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 1
	}

	cfg, err := config.Load(config.Path(configPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}

	// Output belongs to the view; logs go to stderr.
	log := logger.New(cfg.Env, os.Stderr, os.Stderr)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	settings, err := resolveAPI(ctx, cfg.ShopcartAPI, cfg.Database.Path)
	if err != nil {
		log.Warn("failed to read saved api settings, using config", "error", err)
	}
	if apiURL != "" {
		settings.BaseURL = apiURL
	}
	if prefix != "" {
		settings.Prefix = prefix
	}

	api := client.New(settings.BaseURL, settings.Prefix, client.NewHTTPClient(cfg.ShopcartAPI.Timeout))
	view, err := console.New(api, log).Run(ctx, action, console.View{Form: form})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	printView(os.Stdout, view)
	if view.Flash.Kind == console.FlashDanger {
		return 1
	}
	return 0
}
