// Package config loads service configuration with Viper.
//
// A YAML file is read first, then a .env file is merged into the process
// environment, then prefixed environment variables override file values.
// A double underscore separates nesting levels:
//
//	CONTAO_SERVER__PORT=8081        -> server.port
//	CONTAO_AUTH__JWT__SECRET=...    -> auth.jwt.secret
//
// Projects embed ServiceConfig into their own struct and call Load:
//
//	var cfg AppConfig
//	err := config.Load("corebundle", &cfg, config.WithEnvPrefix("CONTAO"))
package config
