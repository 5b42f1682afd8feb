package utils

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

const envPrefix = "RINGRACE_"

// Config holds the runtime-tunable parameters. Ring geometry stays compile-time.
type Config struct {
	// Timing
	EngineTickPeriod time.Duration `json:"engineTickPeriod"` // Game step + render cadence
	HeartbeatPeriod  time.Duration `json:"heartbeatPeriod"`  // Slow trace timer, 0 disables
	WarmUpDelay      time.Duration `json:"warmUpDelay"`      // Wait before tickers start

	// Player buttons
	MinPressDuration time.Duration `json:"minPressDuration"` // Shorter press/release pairs are bounce

	// Game button classifier
	ButtonDebounce time.Duration `json:"buttonDebounce"` // Edges closer than this to the last accepted edge are ignored
	DoubleClickGap time.Duration `json:"doubleClickGap"` // Max release-to-press gap for a double click
	LongPress      time.Duration `json:"longPress"`      // Hold time that turns a press into a long press

	// Queues
	EdgeQueueSize    int `json:"edgeQueueSize"`    // Interrupt-side ring capacity (power of two)
	InputMailboxSize int `json:"inputMailboxSize"` // Input actor mailbox
	GameMailboxSize  int `json:"gameMailboxSize"`  // Game actor mailbox

	// Outer surfaces
	ListenAddr string `json:"listenAddr"` // Virtual strip HTTP server, empty disables
	Terminal   bool   `json:"terminal"`   // Draw the ring on stdout
	Keyboard   bool   `json:"keyboard"`   // Read buttons from the keyboard
	LogLevel   string `json:"logLevel"`
}

// DefaultConfig returns a Config struct with default values.
func DefaultConfig() Config {
	return Config{
		EngineTickPeriod: 125 * time.Millisecond,
		HeartbeatPeriod:  time.Second,
		WarmUpDelay:      50 * time.Millisecond,

		MinPressDuration: 1 * time.Millisecond,

		ButtonDebounce: 50 * time.Millisecond,
		DoubleClickGap: 400 * time.Millisecond,
		LongPress:      800 * time.Millisecond,

		EdgeQueueSize:    2048,
		InputMailboxSize: 2048,
		GameMailboxSize:  128,

		ListenAddr: ":3001",
		Terminal:   true,
		Keyboard:   true,
		LogLevel:   "info",
	}
}

// Validate checks the invariants the actors rely on.
func (c Config) Validate() error {
	switch {
	case c.EngineTickPeriod <= 0:
		return fmt.Errorf("%w: engine tick period must be positive, got %s", ErrInvalidConfig, c.EngineTickPeriod)
	case c.HeartbeatPeriod < 0:
		return fmt.Errorf("%w: heartbeat period must not be negative", ErrInvalidConfig)
	case c.WarmUpDelay < 0 || c.WarmUpDelay > MaxWarmUpDelay:
		return fmt.Errorf("%w: warm-up delay must be within [0, %s], got %s", ErrInvalidConfig, MaxWarmUpDelay, c.WarmUpDelay)
	case c.MinPressDuration < 0:
		return fmt.Errorf("%w: min press duration must not be negative", ErrInvalidConfig)
	case c.LongPress <= c.ButtonDebounce:
		return fmt.Errorf("%w: long press (%s) must exceed button debounce (%s)", ErrInvalidConfig, c.LongPress, c.ButtonDebounce)
	case c.DoubleClickGap <= 0:
		return fmt.Errorf("%w: double click gap must be positive", ErrInvalidConfig)
	case c.EdgeQueueSize < 2 || c.EdgeQueueSize&(c.EdgeQueueSize-1) != 0:
		return fmt.Errorf("%w: edge queue size must be a power of two >= 2, got %d", ErrInvalidConfig, c.EdgeQueueSize)
	case c.InputMailboxSize <= 0 || c.GameMailboxSize <= 0:
		return fmt.Errorf("%w: mailbox sizes must be positive", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig starts from DefaultConfig, applies an optional .env file and then
// RINGRACE_* environment variables, and validates the result.
func LoadConfig(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	cfg := DefaultConfig()
	loaders := []func() error{
		durationVar("ENGINE_TICK", &cfg.EngineTickPeriod),
		durationVar("HEARTBEAT", &cfg.HeartbeatPeriod),
		durationVar("WARM_UP", &cfg.WarmUpDelay),
		durationVar("MIN_PRESS", &cfg.MinPressDuration),
		durationVar("BUTTON_DEBOUNCE", &cfg.ButtonDebounce),
		durationVar("DOUBLE_CLICK_GAP", &cfg.DoubleClickGap),
		durationVar("LONG_PRESS", &cfg.LongPress),
		intVar("EDGE_QUEUE_SIZE", &cfg.EdgeQueueSize),
		intVar("INPUT_MAILBOX_SIZE", &cfg.InputMailboxSize),
		intVar("GAME_MAILBOX_SIZE", &cfg.GameMailboxSize),
		stringVar("LISTEN_ADDR", &cfg.ListenAddr),
		boolVar("TERMINAL", &cfg.Terminal),
		boolVar("KEYBOARD", &cfg.Keyboard),
		stringVar("LOG_LEVEL", &cfg.LogLevel),
	}
	for _, load := range loaders {
		if err := load(); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + name)
	return v, ok && v != ""
}

func durationVar(name string, dst *time.Duration) func() error {
	return func() error {
		raw, ok := lookup(name)
		if !ok {
			return nil
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("%w: %s%s=%q: %v", ErrInvalidConfig, envPrefix, name, raw, err)
		}
		*dst = d
		return nil
	}
}

func intVar(name string, dst *int) func() error {
	return func() error {
		raw, ok := lookup(name)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: %s%s=%q: %v", ErrInvalidConfig, envPrefix, name, raw, err)
		}
		*dst = n
		return nil
	}
}

func boolVar(name string, dst *bool) func() error {
	return func() error {
		raw, ok := lookup(name)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%w: %s%s=%q: %v", ErrInvalidConfig, envPrefix, name, raw, err)
		}
		*dst = b
		return nil
	}
}

func stringVar(name string, dst *string) func() error {
	return func() error {
		if raw, ok := lookup(name); ok {
			*dst = raw
		}
		return nil
	}
}
