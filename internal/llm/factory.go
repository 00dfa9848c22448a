package llm

import (
	"fmt"
	"sort"
	"sync"

	"contractlens/internal/config"
	"contractlens/internal/port"
)

// ProviderFactory creates an LLMClient from the model configuration.
type ProviderFactory func(cfg *config.LLMConfig) (port.LLMClient, error)

// registry of provider factories, populated by init() in each provider package.
var (
	mu        sync.RWMutex
	providers = map[string]ProviderFactory{}
)

// RegisterProvider registers a provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	mu.Lock()
	defer mu.Unlock()
	providers[name] = factory
}

// Providers returns the registered provider names in sorted order.
func Providers() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewClient creates an LLMClient for cfg.Provider using the registered factory.
func NewClient(cfg *config.LLMConfig) (port.LLMClient, error) {
	mu.RLock()
	factory, ok := providers[cfg.Provider]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown llm provider: %s (registered: %v)", cfg.Provider, Providers())
	}
	return factory(cfg)
}
