package spotly

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func init() {
	// Report fields by their wire name so validation messages line up
	// with what the user typed, not with Go struct fields.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "schema"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
}

// validateForm runs struct validation and converts any failure into the
// standard invalid_argument envelope. A validation failure never
// reaches the network.
func validateForm(form any) error {
	if err := validate.Struct(form); err != nil {
		return toError(err)
	}
	return nil
}
