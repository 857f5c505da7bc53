// Package inputs turns raw CI step inputs into a domain.Inputs record.
//
// Parsing is pure: values are read through a Lookup function, so the same
// code serves environment variables, a config file, or a test map. Every
// problem is collected and returned together as ConfigurationErrors.
package inputs
