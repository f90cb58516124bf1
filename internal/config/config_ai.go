package config

// applyOperationDefaults applies global defaults to operation-specific configuration
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.Timeout == nil {
		timeout := c.AI.Timeout
		opCfg.Timeout = &timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.MaxRetries == nil {
		retries := c.AI.MaxRetries
		opCfg.MaxRetries = &retries
	}
	if opCfg.Temperature == nil {
		temperature := c.AI.Temperature
		opCfg.Temperature = &temperature
	}
	if opCfg.UseSystemPrompts == nil {
		use := c.AI.UseSystemPrompts
		opCfg.UseSystemPrompts = &use
	}

	if opCfg.CustomPrompts.SystemPrompt == "" {
		opCfg.CustomPrompts.SystemPrompt = c.AI.CustomPrompts.SystemPrompt
	}
	if opCfg.CustomPrompts.UserPrompt == "" {
		opCfg.CustomPrompts.UserPrompt = c.AI.CustomPrompts.UserPrompt
	}
}

// GetInsightConfig returns the AI configuration for insight generation with
// every unset field resolved against the global AI settings.
func (c *Config) GetInsightConfig() OperationAIConfig {
	cfg := c.AI.Insight
	c.applyOperationDefaults(&cfg)
	return cfg
}
