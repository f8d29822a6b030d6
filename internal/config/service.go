package config

// ServiceConfig holds the gateway's collaborator endpoints and the
// classification threshold applied to every detector call.
type ServiceConfig struct {
	Name              string  `mapstructure:"name"`
	CatalogURL        string  `mapstructure:"catalog_url"`
	DetectorURL       string  `mapstructure:"detector_url"`
	DetectorThreshold float64 `mapstructure:"detector_threshold"`
}
