// Package logging provides structured logging channels for the composition engine.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Channel represents a logical logging channel for different system components
type Channel string

const (
	// System channels
	ChannelSystem   Channel = "system"   // General system operations
	ChannelStartup  Channel = "startup"  // Application startup and initialization
	ChannelShutdown Channel = "shutdown" // Application shutdown and cleanup

	// Engine channels
	ChannelRender   Channel = "render"   // Preview and final rendering
	ChannelRegistry Channel = "registry" // Portlet registration and manifest overlays
	ChannelMedia    Channel = "media"    // Image probing and variant generation

	// Infrastructure channels
	ChannelDatabase  Channel = "database"   // Blueprint persistence
	ChannelSlowQuery Channel = "slow-query" // Slow database queries
	ChannelCache     Channel = "cache"      // Fragment cache operations
	ChannelHTTP      Channel = "http"       // Request handling

	// Development and debugging channels
	ChannelDebug Channel = "debug"
)

// AllChannels lists every channel in creation order
var AllChannels = []Channel{
	ChannelSystem, ChannelStartup, ChannelShutdown,
	ChannelRender, ChannelRegistry, ChannelMedia,
	ChannelDatabase, ChannelSlowQuery, ChannelCache, ChannelHTTP,
	ChannelDebug,
}

// ChanneledLogger provides structured logging with multiple channels
type ChanneledLogger struct {
	channels map[Channel]*slog.Logger
	files    []*os.File
	config   *LoggerConfig
	configMu sync.RWMutex
}

// LoggerConfig contains configuration options for the channeled logger
type LoggerConfig struct {
	// Output configuration
	OutputToFile    bool      `json:"outputToFile"`
	OutputToConsole bool      `json:"outputToConsole"`
	LogDirectory    string    `json:"logDirectory"`
	Writer          io.Writer `json:"-"` // Overrides console and file output when set

	// Formatting configuration
	JSONFormat    bool `json:"jsonFormat"`
	IncludeSource bool `json:"includeSource"`

	// Level configuration per channel
	DefaultLevel  slog.Level             `json:"defaultLevel"`
	ChannelLevels map[Channel]slog.Level `json:"channelLevels"`
}

// DefaultLoggerConfig returns a sensible default configuration
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: true,
		LogDirectory:    "logs",
		JSONFormat:      true,
		IncludeSource:   false,
		DefaultLevel:    slog.LevelInfo,
		ChannelLevels:   make(map[Channel]slog.Level),
	}
}

// NewChanneledLogger creates a new channeled logger with the given configuration
func NewChanneledLogger(config *LoggerConfig) (*ChanneledLogger, error) {
	if config == nil {
		config = DefaultLoggerConfig()
	}
	if config.ChannelLevels == nil {
		config.ChannelLevels = make(map[Channel]slog.Level)
	}

	logger := &ChanneledLogger{
		channels: make(map[Channel]*slog.Logger),
		config:   config,
	}

	if config.OutputToFile && config.Writer == nil {
		if err := os.MkdirAll(config.LogDirectory, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	for _, channel := range AllChannels {
		channelLogger, err := logger.createChannelLogger(channel)
		if err != nil {
			return nil, fmt.Errorf("failed to create logger for channel %s: %w", channel, err)
		}
		logger.channels[channel] = channelLogger
	}

	return logger, nil
}

// NewDiscardLogger returns a logger that drops everything; used by tests and tools
func NewDiscardLogger() *ChanneledLogger {
	logger, _ := NewChanneledLogger(&LoggerConfig{Writer: io.Discard, DefaultLevel: slog.LevelError})
	return logger
}

func (cl *ChanneledLogger) createChannelLogger(channel Channel) (*slog.Logger, error) {
	cl.configMu.RLock()
	defer cl.configMu.RUnlock()

	level := cl.config.DefaultLevel
	if channelLevel, exists := cl.config.ChannelLevels[channel]; exists {
		level = channelLevel
	}

	var writers []io.Writer
	if cl.config.Writer != nil {
		writers = append(writers, cl.config.Writer)
	} else {
		if cl.config.OutputToConsole {
			writers = append(writers, os.Stdout)
		}
		if cl.config.OutputToFile {
			path := filepath.Join(cl.config.LogDirectory, fmt.Sprintf("%s.log", string(channel)))
			file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err != nil {
				return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
			}
			cl.files = append(cl.files, file)
			writers = append(writers, file)
		}
	}

	var writer io.Writer
	switch len(writers) {
	case 0:
		writer = os.Stdout
	case 1:
		writer = writers[0]
	default:
		writer = io.MultiWriter(writers...)
	}

	handlerOpts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cl.config.IncludeSource,
	}

	var handler slog.Handler
	if cl.config.JSONFormat {
		handler = slog.NewJSONHandler(writer, handlerOpts)
	} else {
		handler = slog.NewTextHandler(writer, handlerOpts)
	}

	return slog.New(handler).With(slog.String("channel", string(channel))), nil
}

func (cl *ChanneledLogger) System() *slog.Logger    { return cl.GetChannel(ChannelSystem) }
func (cl *ChanneledLogger) Startup() *slog.Logger   { return cl.GetChannel(ChannelStartup) }
func (cl *ChanneledLogger) Shutdown() *slog.Logger  { return cl.GetChannel(ChannelShutdown) }
func (cl *ChanneledLogger) Render() *slog.Logger    { return cl.GetChannel(ChannelRender) }
func (cl *ChanneledLogger) Registry() *slog.Logger  { return cl.GetChannel(ChannelRegistry) }
func (cl *ChanneledLogger) Media() *slog.Logger     { return cl.GetChannel(ChannelMedia) }
func (cl *ChanneledLogger) Database() *slog.Logger  { return cl.GetChannel(ChannelDatabase) }
func (cl *ChanneledLogger) SlowQuery() *slog.Logger { return cl.GetChannel(ChannelSlowQuery) }
func (cl *ChanneledLogger) Cache() *slog.Logger     { return cl.GetChannel(ChannelCache) }
func (cl *ChanneledLogger) HTTP() *slog.Logger      { return cl.GetChannel(ChannelHTTP) }
func (cl *ChanneledLogger) Debug() *slog.Logger     { return cl.GetChannel(ChannelDebug) }

// GetChannel returns a logger for a specific channel
func (cl *ChanneledLogger) GetChannel(channel Channel) *slog.Logger {
	cl.configMu.RLock()
	defer cl.configMu.RUnlock()
	if logger, exists := cl.channels[channel]; exists {
		return logger
	}
	return cl.channels[ChannelSystem]
}

// WithOperation returns a logger with operation context
func (cl *ChanneledLogger) WithOperation(channel Channel, operation string) *slog.Logger {
	return cl.GetChannel(channel).With(slog.String("operation", operation))
}

type contextKey string

// RequestIDKey is the context key the HTTP layer stores request IDs under
const RequestIDKey contextKey = "requestId"

// WithContext returns a logger carrying the request ID found in ctx, if any
func (cl *ChanneledLogger) WithContext(channel Channel, ctx context.Context) *slog.Logger {
	logger := cl.GetChannel(channel)
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		logger = logger.With(slog.String("requestId", requestID))
	}
	return logger
}

// LogRenderOperation logs a completed render pass
func (cl *ChanneledLogger) LogRenderOperation(mode, class, uid string, duration time.Duration, success bool) {
	logger := cl.Render().With(
		slog.String("mode", mode),
		slog.String("class", class),
		slog.String("uid", uid),
		slog.Duration("duration", duration),
	)
	if success {
		logger.Debug("Render completed")
	} else {
		logger.Warn("Render produced fallback markup")
	}
}

// LogSlowQuery logs a slow database query
func (cl *ChanneledLogger) LogSlowQuery(query string, duration time.Duration) {
	cl.SlowQuery().Warn("Slow query detected",
		slog.String("query", cl.sanitizeQuery(query)),
		slog.Duration("duration", duration),
	)
}

// LogCacheOperation logs cache operations with performance context
func (cl *ChanneledLogger) LogCacheOperation(operation, key string, hit bool, duration time.Duration) {
	logger := cl.Cache().With(
		slog.String("operation", operation),
		slog.String("key", key),
		slog.Bool("hit", hit),
		slog.Duration("duration", duration),
	)
	if hit {
		logger.Debug("Cache hit")
	} else {
		logger.Debug("Cache miss")
	}
}

// LogError logs an error with appropriate context and channel
func (cl *ChanneledLogger) LogError(channel Channel, operation string, err error, metadata map[string]any) {
	logger := cl.GetChannel(channel).With(
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
	for key, value := range metadata {
		logger = logger.With(slog.Any(key, value))
	}
	logger.Error("Operation failed")
}

// LogStartupPhase logs application startup phases
func (cl *ChanneledLogger) LogStartupPhase(phase string, duration time.Duration, success bool, metadata map[string]any) {
	logger := cl.Startup().With(
		slog.String("phase", phase),
		slog.Duration("duration", duration),
		slog.Bool("success", success),
	)
	for key, value := range metadata {
		logger = logger.With(slog.Any(key, value))
	}

	if success {
		logger.Info("Startup phase completed")
	} else {
		logger.Error("Startup phase failed")
	}
}

func (cl *ChanneledLogger) sanitizeQuery(query string) string {
	query = strings.Join(strings.Fields(query), " ")
	if len(query) > 500 {
		query = query[:500] + "..."
	}
	return query
}

// Close closes the per-channel log files
func (cl *ChanneledLogger) Close() error {
	cl.System().Info("Channeled logger shutting down")
	var firstErr error
	for _, f := range cl.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	cl.files = nil
	return firstErr
}

// GetConfig returns the current logger configuration
func (cl *ChanneledLogger) GetConfig() *LoggerConfig {
	return cl.config
}

// SetChannelLevel dynamically sets the log level for a specific channel
func (cl *ChanneledLogger) SetChannelLevel(channel Channel, level slog.Level) error {
	cl.configMu.Lock()
	if _, exists := cl.channels[channel]; !exists {
		cl.configMu.Unlock()
		return fmt.Errorf("channel %s does not exist", channel)
	}
	cl.config.ChannelLevels[channel] = level
	cl.configMu.Unlock()

	newLogger, err := cl.createChannelLogger(channel)
	if err != nil {
		return fmt.Errorf("failed to recreate logger for channel %s: %w", channel, err)
	}

	cl.configMu.Lock()
	cl.channels[channel] = newLogger
	cl.configMu.Unlock()

	cl.System().Info("Channel log level updated dynamically",
		slog.String("channel", string(channel)),
		slog.String("level", level.String()),
	)
	return nil
}

// GetChannelLevels returns the current log levels for all channels.
func (cl *ChanneledLogger) GetChannelLevels() map[string]string {
	cl.configMu.RLock()
	defer cl.configMu.RUnlock()

	levels := make(map[string]string)
	for channel := range cl.channels {
		if level, ok := cl.config.ChannelLevels[channel]; ok {
			levels[string(channel)] = level.String()
		} else {
			levels[string(channel)] = cl.config.DefaultLevel.String()
		}
	}
	return levels
}

// ParseLevel maps LOG_LEVEL values onto slog levels, defaulting to info
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
