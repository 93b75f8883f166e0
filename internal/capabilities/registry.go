package capabilities

import (
	"embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// knownProviders lists the embedded capability files
var knownProviders = []string{"openai", "scripted"}

// Registry manages model capabilities across all providers
type Registry struct {
	providers map[string]*ProviderCapabilities
	mu        sync.RWMutex
}

// NewRegistry creates a new capability registry and loads embedded YAML files
func NewRegistry() (*Registry, error) {
	r := &Registry{
		providers: make(map[string]*ProviderCapabilities),
	}

	for _, provider := range knownProviders {
		data, err := configFiles.ReadFile(fmt.Sprintf("config/%s.yaml", provider))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s capabilities: %w", provider, err)
		}
		if err := r.Load(provider, data); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Load parses one provider's capability YAML and registers it under provider
func (r *Registry) Load(provider string, data []byte) error {
	var providerCaps ProviderCapabilities
	if err := yaml.Unmarshal(data, &providerCaps); err != nil {
		return fmt.Errorf("failed to unmarshal %s capabilities: %w", provider, err)
	}
	if len(providerCaps.Models) == 0 {
		return fmt.Errorf("%s capabilities declare no models", provider)
	}

	r.mu.Lock()
	r.providers[provider] = &providerCaps
	r.mu.Unlock()

	return nil
}

// GetModelCapabilities returns capabilities for a specific model
func (r *Registry) GetModelCapabilities(provider, model string) (*ModelCapabilities, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	providerCaps, ok := r.providers[provider]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}

	for i := range providerCaps.Models {
		if providerCaps.Models[i].ID == model {
			return &providerCaps.Models[i], nil
		}
	}

	return nil, fmt.Errorf("unknown model %s for provider %s", model, provider)
}

// RequireTools returns an error unless model is known and supports tool calling
func (r *Registry) RequireTools(provider, model string) (*ModelCapabilities, error) {
	caps, err := r.GetModelCapabilities(provider, model)
	if err != nil {
		return nil, err
	}
	if !caps.SupportsTools {
		return nil, fmt.Errorf("model %s does not support tool calling", model)
	}
	return caps, nil
}

// DefaultModel returns the first model listed for provider
func (r *Registry) DefaultModel(provider string) (string, error) {
	models, err := r.ListProviderModels(provider)
	if err != nil {
		return "", err
	}
	return models[0].ID, nil
}

// ListProviderModels returns all models for a provider (ordered as defined in YAML)
func (r *Registry) ListProviderModels(provider string) ([]ModelCapabilities, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	providerCaps, ok := r.providers[provider]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}

	return providerCaps.Models, nil
}

// GetAllProviders returns the registered provider names, sorted
func (r *Registry) GetAllProviders() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	providers := make([]string, 0, len(r.providers))
	for provider := range r.providers {
		providers = append(providers, provider)
	}
	sort.Strings(providers)
	return providers
}
