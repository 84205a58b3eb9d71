package calendar

import (
	"fmt"
	"sort"
)

// DefaultProviderFactory is the default implementation of ProviderFactory
type DefaultProviderFactory struct {
	providers map[string]func() Provider
}

// NewDefaultProviderFactory creates a new default provider factory
func NewDefaultProviderFactory() *DefaultProviderFactory {
	return &DefaultProviderFactory{
		providers: make(map[string]func() Provider),
	}
}

// RegisterProvider registers a provider constructor function
func (f *DefaultProviderFactory) RegisterProvider(providerType string, constructor func() Provider) {
	f.providers[providerType] = constructor
}

// CreateProvider creates a new calendar provider instance based on the type
func (f *DefaultProviderFactory) CreateProvider(providerType string) (Provider, error) {
	constructor, exists := f.providers[providerType]
	if !exists {
		return nil, fmt.Errorf("unsupported provider type: %s (supported: %v)", providerType, f.SupportedTypes())
	}
	return constructor(), nil
}

// SupportedTypes returns the registered provider types in sorted order
func (f *DefaultProviderFactory) SupportedTypes() []string {
	types := make([]string, 0, len(f.providers))
	for providerType := range f.providers {
		types = append(types, providerType)
	}
	sort.Strings(types)
	return types
}
