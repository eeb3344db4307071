// Package validation checks configuration structs and command arguments.
//
// Struct validation uses go-playground/validator tags and reports fields by
// their config key:
//
//	type Config struct {
//	    Addr string `mapstructure:"addr" validate:"omitempty,hostname_port"`
//	}
//	err := validation.Validate(cfg)
//
// Programmatic validation collects errors fluently:
//
//	err := validation.New().Required("deal_id", id).MaxLength("deal_id", id, 256).Err()
package validation
