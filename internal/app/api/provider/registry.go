package provider

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"audio2text/internal/app/api"
	"audio2text/internal/app/errors"
)

// ProviderCreator loads a backend from its options.
type ProviderCreator func(ctx context.Context, opts api.LoadOptions) (api.Transcriber, error)

var (
	providerRegistry = make(map[string]ProviderCreator)
	registryMutex    sync.RWMutex
)

// RegisterProvider registers a provider creator function. Backends call it
// from init.
func RegisterProvider(providerType string, creator ProviderCreator) {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	providerRegistry[providerType] = creator
}

// GetProviderCreator returns the creator function for a provider type
func GetProviderCreator(providerType string) (ProviderCreator, error) {
	registryMutex.RLock()
	defer registryMutex.RUnlock()

	creator, ok := providerRegistry[providerType]
	if !ok {
		return nil, errors.Wrapf(errors.ErrBackendNotFound, "%q (registered: %v)", providerType, listLocked())
	}
	return creator, nil
}

// ListRegisteredProviders returns all registered provider types, sorted
func ListRegisteredProviders() []string {
	registryMutex.RLock()
	defer registryMutex.RUnlock()
	return listLocked()
}

func listLocked() []string {
	providers := make([]string, 0, len(providerRegistry))
	for providerType := range providerRegistry {
		providers = append(providers, providerType)
	}
	sort.Strings(providers)
	return providers
}

// NamedLoader resolves a registered backend by name when Load is called, so
// an unknown name surfaces as a backend load failure.
type NamedLoader struct {
	Name string
}

// NewNamedLoader creates a loader for the named backend.
func NewNamedLoader(name string) *NamedLoader {
	return &NamedLoader{Name: name}
}

// Load implements api.Loader.
func (l *NamedLoader) Load(ctx context.Context, opts api.LoadOptions) (api.Transcriber, error) {
	creator, err := GetProviderCreator(l.Name)
	if err != nil {
		return nil, err
	}

	opts.Log().Debug("Loading transcription backend",
		zap.String("backend", l.Name),
		zap.String("model", opts.Model),
		zap.String("device", opts.Device))

	transcriber, err := creator(ctx, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "backend %s", l.Name)
	}
	return transcriber, nil
}
