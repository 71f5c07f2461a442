package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"
	"time"

	"genoscope/contexts"
	gsm "genoscope/middleware"
	"genoscope/models"
	"genoscope/mvc"
	"genoscope/remote"
	"genoscope/server"
	"genoscope/tools"

	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
)

func main() {
	stdioMode := flag.Bool("stdio", false, "serve JSON-RPC over stdin/stdout instead of HTTP")
	flag.Parse()

	// Gather environment variables
	_ = godotenv.Load()

	var cfg models.Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	// Positional port overrides: [httpPort [wsPort]]
	if args := flag.Args(); len(args) > 0 {
		cfg.Server.HttpPort = args[0]
		if len(args) > 1 {
			cfg.Server.WebSocketPort = args[1]
		}
	}

	fmt.Printf("Using : \n"+

		"\tDebug : %t \n\n"+

		"\tServer Name : %s \n"+
		"\tServer Version : %s \n"+
		"\tUI Call Timeout : %d ms\n\n"+

		"\tUniProt Url : %s\n"+
		"\tRCSB Search Url : %s\n"+
		"\tAlphaFold Url : %s\n"+
		"\tInterProScan Url : %s\n"+
		"\tEvo2 Url : %s\n\n"+

		"Running on HTTP Port : %s\n"+
		"Running on WebSocket Port : %s\n",

		cfg.Debug,
		cfg.Server.Name,
		cfg.Server.Version,
		cfg.Server.UiCallTimeoutMs,
		cfg.External.UniProtUrl,
		cfg.External.RcsbUrl,
		cfg.External.AlphaFoldUrl,
		cfg.External.InterProUrl,
		cfg.External.Evo2Url,
		cfg.Server.HttpPort,
		cfg.Server.WebSocketPort)
	// --

	// Service Singletons
	registry := tools.NewRegistry()
	tools.RegisterLocals(registry)

	rpc := server.NewService(&cfg, registry)
	tools.RegisterUI(registry, rpc.DispatchUI)

	adapters := remote.NewAdapters(&cfg)
	tools.RegisterRemote(registry, adapters.Dispatch)

	if *stdioMode {
		if err := rpc.RunStdio(context.Background(), os.Stdin, os.Stdout); err != nil {
			fmt.Printf("[%s] - stdio transport failed: %v\n", time.Now(), err)
			os.Exit(1)
		}
		return
	}

	// Fail fast when another instance holds the ports
	if err := server.Preflight(cfg.Server.HttpPort, cfg.Server.WebSocketPort); err != nil {
		fmt.Printf("[%s] - %v\n", time.Now(), err)
		fmt.Println("Is another genoscope-server already running?")
		os.Exit(1)
	}

	// Instantiate Server
	e := echo.New()

	// Configure Server
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.POST},
	}))

	// -- Override handlers with "custom Genoscope" context
	//		to be able to provide variables and global singletons
	e.Use(func(h echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &contexts.GenoscopeContext{
				Context:    c,
				Config:     &cfg,
				RpcService: rpc,
			}
			return h(cc)
		}
	})

	// Begin MVC Routes
	// -- Root
	e.GET("/", mvc.GetServiceInfo)

	// -- Service Info
	e.GET("/service-info", mvc.GetServiceInfo)

	// -- JSON-RPC over plain HTTP
	e.POST("/mcp", mvc.PostRpc,
		// middleware
		gsm.MandateJsonContentType)

	// -- JSON-RPC over SSE with its companion message endpoint
	e.GET("/events", mvc.GetEvents)
	e.POST("/messages", mvc.PostMessage,
		// middleware
		gsm.MandateJsonContentType,
		gsm.MandateClientIdAttribute)

	// WebSocket transport: UI frames and JSON-RPC on one socket
	wsServer := &http.Server{
		Addr:    ":" + cfg.Server.WebSocketPort,
		Handler: rpc.WebSocketHandler(),
	}
	go func() {
		if wsErr := wsServer.ListenAndServe(); wsErr != nil && wsErr != http.ErrServerClosed {
			fmt.Printf("[%s] - websocket transport failed: %v\n", time.Now(), wsErr)
			os.Exit(1)
		}
	}()

	// Run until interrupted, then drain both transports. Shutting the
	// listeners down does not reach hijacked websocket connections, so
	// rpc.Shutdown closes those itself, rejecting any pending UI calls.
	go func() {
		if httpErr := e.Start(":" + cfg.Server.HttpPort); httpErr != nil && httpErr != http.ErrServerClosed {
			fmt.Printf("[%s] - http transport failed: %v\n", time.Now(), httpErr)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Printf("[%s] - Shutting down!\n", time.Now())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if shutdownErr := e.Shutdown(ctx); shutdownErr != nil {
		fmt.Println(shutdownErr)
	}
	rpc.Shutdown()
	if shutdownErr := wsServer.Shutdown(ctx); shutdownErr != nil {
		fmt.Println(shutdownErr)
	}
}
