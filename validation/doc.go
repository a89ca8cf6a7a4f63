// Package validation checks configuration structs and request input.
//
// Struct validates `validate` tags through go-playground/validator and
// names fields by their mapstructure (or form) key, so a message points at
// the config entry to fix:
//
//	type ServerConfig struct {
//	    Port int `mapstructure:"port" validate:"min=1,max=65535"`
//	}
//	err := validation.Struct(cfg) // "server.port: must be at most 65535"
//
// Form collects field errors of hand-read input such as a login form:
//
//	f := validation.NewForm()
//	f.Required("username", username).MaxLength("username", username, 64)
//	if err := f.Err(); err != nil { ... }
package validation
