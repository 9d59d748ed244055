//go:build !tinygo

package config

import (
	"github.com/go-playground/validator/v10"

	"envmon/errcode"
)

var validate = validator.New()

// Validate checks field ranges and cross-field ordering.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return &errcode.E{C: errcode.InvalidConfig, Op: "validate", Msg: err.Error(), Err: err}
	}
	return nil
}
