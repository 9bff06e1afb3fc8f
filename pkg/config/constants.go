package config

// EnvPrefix scopes every environment variable the service reads.
const EnvPrefix = "WEAVEAI"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)
