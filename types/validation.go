package types

import "github.com/go-playground/validator/v10"

// Validate is the shared validator instance used by the request structs in
// the types subpackages. Cross-field rules (date ordering and similar) live
// in each struct's Validate method on top of the tag checks.
var Validate = validator.New()
