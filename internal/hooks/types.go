package hooks

// Config is the top-level configuration for hooks loaded from .drapery.hooks.yml.
type Config struct {
	Version int         `yaml:"version"`
	Hooks   HooksConfig `yaml:"hooks"`
}

// HooksConfig lists the commands run for each event. Commands for one event
// run in order.
type HooksConfig struct {
	OrderPlaced  []*HookConfig `yaml:"order_placed"`
	CaptureSaved []*HookConfig `yaml:"capture_saved"`
}

// HookConfig defines a single hook's configuration.
type HookConfig struct {
	Command string `yaml:"command"`
	Timeout int    `yaml:"timeout"` // seconds, default 30
}

// DefaultTimeout is the default timeout for hook execution in seconds.
const DefaultTimeout = 30
