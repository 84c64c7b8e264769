// Command ynca-control is an interactive controller for Yamaha AV
// receivers speaking the YNCA protocol.
//
// This command demonstrates the full client library:
//   - CLI argument parsing with optional YAML configuration
//   - Receiver discovery over mDNS
//   - Capability discovery and zone initialization
//   - Interactive command interface
//   - Protocol capture to a CBOR log file
//
// Usage:
//
//	ynca-control [flags]
//
// Flags:
//
//	-config string     Configuration file path (YAML)
//	-host string       Receiver address (host or host:port); discovered via mDNS when empty
//	-log-level string  Log level: debug, info, warn, error (default "info")
//	-capture string    Write a protocol capture to this file
//
// Examples:
//
//	# Connect to a known receiver
//	ynca-control -host 192.168.1.20
//
//	# Discover a receiver on the LAN and capture the session
//	ynca-control -capture session.cbor -log-level debug
//
// Interactive Commands:
//
//	status   - Show receiver status
//	zones    - List available zones
//	power <zone> on|off - Switch a zone on or to standby
//	volume <zone> <dB>  - Set volume
//	mute <zone> on|off  - Set mute
//	input <zone> <name> - Select an input
//	scene <zone> <1-4>  - Activate a scene
//	quit     - Exit
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ynca-protocol/ynca-go/cmd/ynca-control/interactive"
	"github.com/ynca-protocol/ynca-go/pkg/discovery"
	ylog "github.com/ynca-protocol/ynca-go/pkg/log"
	"github.com/ynca-protocol/ynca-go/pkg/receiver"
	"github.com/ynca-protocol/ynca-go/pkg/transport"
	"github.com/ynca-protocol/ynca-go/pkg/wire"
)

// Config holds the controller configuration. Values from the YAML
// config file fill in flags the user did not set.
type Config struct {
	Host        string `yaml:"host"`
	LogLevel    string `yaml:"log_level"`
	CapturePath string `yaml:"capture_path"`
}

var (
	configFile string
	config     Config
)

func init() {
	flag.StringVar(&configFile, "config", "", "Configuration file path (YAML)")
	flag.StringVar(&config.Host, "host", "", "Receiver address; discovered via mDNS when empty")
	flag.StringVar(&config.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.StringVar(&config.CapturePath, "capture", "", "Write a protocol capture to this file")
}

func main() {
	flag.Parse()

	if configFile != "" {
		if err := loadConfigFile(configFile, &config); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
	}

	level, err := parseLogLevel(config.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	logHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger := slog.New(logHandler)

	// Protocol capture
	protoLogger := ylog.Logger(ylog.NoopLogger{})
	if config.CapturePath != "" {
		fileLogger, err := ylog.NewFileLogger(config.CapturePath)
		if err != nil {
			logger.Error("failed to open capture file", "path", config.CapturePath, "error", err)
			os.Exit(1)
		}
		defer fileLogger.Close()
		protoLogger = ylog.NewMultiLogger(fileLogger, ylog.NewSlogAdapter(logger))
		logger.Info("capturing protocol traffic", "path", config.CapturePath)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	address := config.Host
	if address == "" {
		address, err = discoverReceiver(ctx, logger)
		if err != nil {
			logger.Error("discovery failed", "error", err)
			os.Exit(1)
		}
	}

	// The receiver consumes events from the connection; the connection
	// needs the handler up front, so route through a captured variable.
	var rcv *receiver.Receiver
	conn := transport.NewConnection(transport.Config{
		Logger:         logger,
		ProtocolLogger: protoLogger,
	}, func(status wire.Status, subunit, function, value string) {
		rcv.OnEvent(status, subunit, function, value)
	})
	rcv = receiver.NewReceiver(conn, receiver.Config{Logger: logger})

	logger.Info("connecting", "address", address)
	if err := conn.Connect(ctx, address); err != nil {
		logger.Error("connect failed", "address", address, "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	if err := rcv.Initialize(ctx); err != nil {
		logger.Error("initialization failed", "error", err)
		os.Exit(1)
	}
	logger.Info("receiver ready",
		"model", rcv.ModelName(),
		"firmware", rcv.FirmwareVersion(),
		"zones", len(rcv.Zones()))

	ic, err := interactive.New(rcv, conn)
	if err != nil {
		logger.Error("failed to create interactive controller", "error", err)
		os.Exit(1)
	}
	// Redirect log output through readline to avoid interfering with input
	logger = slog.New(slog.NewTextHandler(ic.Stdout(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	go ic.Run(ctx, cancel)

	// Wait for shutdown signal or context cancellation
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received signal", "signal", sig.String())
	case <-ctx.Done():
		// Cancelled by the interactive quit command
	}

	logger.Info("shutting down")
}

// loadConfigFile reads a YAML config file. File values only fill in
// settings the flags left empty, so flags always win.
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.Host == "" {
		cfg.Host = fileCfg.Host
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if cfg.CapturePath == "" {
		cfg.CapturePath = fileCfg.CapturePath
	}
	return nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch s {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level: %s (use: debug, info, warn, error)", s)
	}
}

// discoverReceiver browses mDNS and returns the address of the first
// receiver found.
func discoverReceiver(ctx context.Context, logger *slog.Logger) (string, error) {
	logger.Info("no host configured, browsing for receivers")

	browser := discovery.NewBrowser(discovery.BrowserConfig{})

	browseCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	results, err := browser.Browse(browseCtx)
	if err != nil {
		return "", err
	}

	svc, ok := <-results
	if !ok {
		return "", discovery.ErrNotFound
	}

	logger.Info("discovered receiver",
		"instance", svc.InstanceName,
		"address", svc.Address(),
		"model", svc.Model)
	return svc.Address(), nil
}
