package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// applyFallbacks fills values that depend on other settings or legacy environment variables
func (c *Config) applyFallbacks() {
	keys := c.Server.APIKeys
	if len(keys) == 0 {
		if apiKeysEnv := os.Getenv(EnvPrefix + "_SERVER_APIKEYS"); apiKeysEnv != "" {
			keys = []string{apiKeysEnv}
		}
	}
	// env values arrive as one comma-separated entry
	c.Server.APIKeys = splitKeys(strings.Join(keys, ","))

	// Legacy support
	if c.AI.APIKey == "" {
		c.AI.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	if c.Server.TLS.Mode == "mutual" && c.Server.TLS.ClientAuthPolicy == "" {
		c.Server.TLS.ClientAuthPolicy = "require"
	}
	if c.Server.TLS.MinVersion == "" && c.Server.TLS.Mode != "disabled" {
		c.Server.TLS.MinVersion = "1.2"
	}

	if c.Observability.ServiceInstance == "" {
		if hostname, err := os.Hostname(); err == nil {
			c.Observability.ServiceInstance = fmt.Sprintf("%s-%s", c.Observability.ServiceName, hostname)
		} else {
			c.Observability.ServiceInstance = fmt.Sprintf("%s-1", c.Observability.ServiceName)
		}
	}
}

func splitKeys(s string) []string {
	var keys []string
	for part := range strings.SplitSeq(s, ",") {
		if k := strings.TrimSpace(part); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// loadPromptsFromFiles replaces inline prompts with the content of any configured prompt file
func (c *Config) loadPromptsFromFiles() error {
	for _, p := range []*PromptConfig{&c.AI.CustomPrompts, &c.AI.Insight.CustomPrompts} {
		if p.SystemPromptFile != "" {
			content, err := loadPromptFromFile(p.SystemPromptFile, "system")
			if err != nil {
				return err
			}
			p.SystemPrompt = content
		}
		if p.UserPromptFile != "" {
			content, err := loadPromptFromFile(p.UserPromptFile, "user")
			if err != nil {
				return err
			}
			p.UserPrompt = content
		}
	}
	return nil
}

func loadPromptFromFile(filePath, promptType string) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s prompt file '%s': %w", promptType, filePath, err)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s prompt file not found: %s", promptType, absPath)
		}
		return "", fmt.Errorf("failed to read %s prompt file '%s': %w", promptType, absPath, err)
	}

	trimmed := strings.TrimSpace(string(content))
	if trimmed == "" {
		return "", fmt.Errorf("%s prompt file '%s' is empty", promptType, absPath)
	}

	log.Printf("[CONFIG] Loaded %s prompt from file: %s (%d characters)", promptType, absPath, len(trimmed))
	return trimmed, nil
}

// logConfigurationSources logs a summary of configuration sources being used
func (c *Config) logConfigurationSources(configFileUsed string) {
	if configFileUsed != "" {
		log.Printf("[CONFIG] Config file: %s", configFileUsed)
	} else {
		log.Println("[CONFIG] Config file: None (using defaults)")
	}

	envVars := []string{
		EnvPrefix + "_AI_ENABLED",
		EnvPrefix + "_AI_APIKEY",
		EnvPrefix + "_AI_MODEL",
		EnvPrefix + "_SERVER_PORT",
		EnvPrefix + "_SERVER_APIKEYS",
		EnvPrefix + "_APP_LOGLEVEL",
		EnvPrefix + "_STORE_PATH",
		EnvPrefix + "_CATALOG_FILE",
		EnvPrefix + "_VAULT_ENABLED",
		"GEMINI_API_KEY",
	}
	for _, envVar := range envVars {
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}
		if strings.Contains(strings.ToLower(envVar), "key") {
			value = "***MASKED***"
		}
		log.Printf("[CONFIG] Env %s=%s", envVar, value)
	}

	apiKey := "***NOT SET***"
	if c.AI.APIKey != "" {
		apiKey = "***CONFIGURED***"
	}
	log.Printf("[CONFIG] AI enabled=%t provider=%s model=%s key=%s", c.AI.Enabled, c.AI.Provider, c.AI.Model, apiKey)
	log.Printf("[CONFIG] Store path=%s catalog=%q watch=%t", c.Store.Path, c.Catalog.File, c.Catalog.Watch)
	log.Printf("[CONFIG] Server %s:%s tls=%s vault=%t observability=%t",
		c.Server.Host, c.Server.Port, c.Server.TLS.Mode, c.Vault.Enabled, c.Observability.Enabled)
}
