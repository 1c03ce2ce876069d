package config

import "fmt"

// DomainConfig holds the configurable limits of the funding model
type DomainConfig struct {
	// Document limits
	MaxDocumentBytes   int64
	MaxCollectionItems int

	// Goal chain rules
	StrictGoalChain bool // reject projects whose goals do not form one chain

	// Listing
	MaxListResults int

	// Feature flags
	EnableEventPublishing bool
	EnableXMLProjection   bool
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		MaxDocumentBytes:   1 << 20,
		MaxCollectionItems: 1000,

		StrictGoalChain: false,

		MaxListResults: 100,

		EnableEventPublishing: true,
		EnableXMLProjection:   true,
	}
}

// ProductionDomainConfig returns production-specific configuration
func ProductionDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()

	config.MaxDocumentBytes = 256 << 10
	config.MaxCollectionItems = 500
	config.StrictGoalChain = true

	return config
}

// DevelopmentDomainConfig returns development-specific configuration
func DevelopmentDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()

	// Permissive for local data loading
	config.MaxDocumentBytes = 8 << 20
	config.MaxCollectionItems = 10000
	config.MaxListResults = 1000
	config.EnableEventPublishing = false

	return config
}

// LoadDomainConfig loads domain configuration based on environment
func LoadDomainConfig(environment string) *DomainConfig {
	switch environment {
	case "production":
		return ProductionDomainConfig()
	case "development":
		return DevelopmentDomainConfig()
	default:
		return DefaultDomainConfig()
	}
}

// Validate checks if the configuration is valid
func (c *DomainConfig) Validate() error {
	if c.MaxDocumentBytes <= 0 {
		return fmt.Errorf("max document bytes must be positive, got %d", c.MaxDocumentBytes)
	}
	if c.MaxCollectionItems <= 0 {
		return fmt.Errorf("max collection items must be positive, got %d", c.MaxCollectionItems)
	}
	if c.MaxListResults <= 0 {
		return fmt.Errorf("max list results must be positive, got %d", c.MaxListResults)
	}
	return nil
}
