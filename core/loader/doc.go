// Package loader registers the HTTP features of the server.
//
// A feature bundles a service and its handler behind the Feature interface:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// Manager.LoadAll loads the enabled features in registration order and stops
// at the first failure. A name registered twice is an error. The start command
// registers the 'matching' and 'integrity' features.
package loader
