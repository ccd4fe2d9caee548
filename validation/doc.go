// Package validation validates request inputs with struct tags before they
// are sent to the backend.
//
// Tags follow go-playground/validator; field names in errors use the json
// tag so messages match the wire format.
//
//	type LoginRequest struct {
//	    Email    string `json:"email" validate:"required,email"`
//	    Password string `json:"password" validate:"required"`
//	}
//	if err := validation.Validate(req); err != nil {
//	    var verr *validation.Error
//	    errors.As(err, &verr) // verr.Fields lists each failure
//	}
package validation
