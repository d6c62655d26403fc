package hooks

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/mark3labs/drapery/internal/logger"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the hooks configuration file.
const ConfigFileName = ".drapery.hooks.yml"

// LoadConfig loads the hooks configuration from the working directory.
// Returns nil if the config file doesn't exist (hooks are optional).
// Returns an error only if the file exists but cannot be parsed.
func LoadConfig(workDir string) (*Config, error) {
	configPath := filepath.Join(workDir, ConfigFileName)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("No hooks config found at %s", configPath)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read hooks config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse hooks config: %w", err)
	}

	logger.Debug("Loaded hooks config from %s (version: %d)", configPath, cfg.Version)
	return &cfg, nil
}

// Example is the starter configuration written by 'drapery setup --hooks'.
func Example() *Config {
	return &Config{
		Version: 1,
		Hooks: HooksConfig{
			OrderPlaced: []*HookConfig{
				{Command: "echo 'Order {{order}}: {{fabric}}, ${{total}}' >> orders.log", Timeout: DefaultTimeout},
			},
			CaptureSaved: []*HookConfig{
				{Command: "echo 'Saved {{path}}'", Timeout: 10},
			},
		},
	}
}

// WriteConfig writes cfg to the hooks file in workDir and returns its path.
func WriteConfig(workDir string, cfg *Config) (string, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshaling hooks config: %w", err)
	}
	path := filepath.Join(workDir, ConfigFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing hooks config: %w", err)
	}
	return path, nil
}

// Variables holds the values substituted into hook commands.
type Variables struct {
	Order   string // {{order}}: order number
	Fabric  string // {{fabric}}: fabric name
	Total   string // {{total}}: order total, e.g. 838.75
	Session string // {{session}}: wizard session id
	Path    string // {{path}}: saved capture file
}

// Execute runs a hook command and returns its output.
// On failure or timeout the problem is reported in the output and the error
// is nil; placing an order never fails because a hook did. Only context
// cancellation is returned as an error.
func Execute(ctx context.Context, hook *HookConfig, workDir string, vars Variables) (string, error) {
	if hook == nil || hook.Command == "" {
		return "", nil
	}

	command := expandVariables(hook.Command, vars)
	logger.Debug("Executing hook command: %s", command)

	timeout := hook.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	execCtx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
	defer cancel()

	cmd := exec.CommandContext(execCtx, "sh", "-c", command)
	cmd.Dir = workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	if execCtx.Err() == context.DeadlineExceeded {
		logger.Warn("Hook command timed out after %ds: %s", timeout, command)
		return fmt.Sprintf("[Hook timed out after %ds]\nPartial output:\n%s", timeout, stdout.String()), nil
	}

	if err != nil {
		logger.Warn("Hook command failed: %v", err)
		output := stdout.String()
		if stderr.Len() > 0 {
			output += "\n[stderr]\n" + stderr.String()
		}
		return fmt.Sprintf("[Hook command failed: %v]\n%s", err, output), nil
	}

	output := stdout.String()
	if stderr.Len() > 0 {
		output += "\n[stderr]\n" + stderr.String()
	}
	return output, nil
}

// ExecuteAll runs each hook in order and joins their outputs with a blank
// line. It stops early only if ctx is cancelled.
func ExecuteAll(ctx context.Context, hooks []*HookConfig, workDir string, vars Variables) (string, error) {
	var outputs []string
	for _, h := range hooks {
		out, err := Execute(ctx, h, workDir, vars)
		if err != nil {
			return strings.Join(outputs, "\n"), err
		}
		if out != "" {
			outputs = append(outputs, out)
		}
	}
	return strings.Join(outputs, "\n"), nil
}

// expandVariables replaces {{variable}} placeholders in the command string.
func expandVariables(command string, vars Variables) string {
	return strings.NewReplacer(
		"{{order}}", vars.Order,
		"{{fabric}}", vars.Fabric,
		"{{total}}", vars.Total,
		"{{session}}", vars.Session,
		"{{path}}", vars.Path,
	).Replace(command)
}
