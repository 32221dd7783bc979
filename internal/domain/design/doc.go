// Package design resolves a design system selection into install artifacts.
//
// A Config picks one record from each Vocabulary table. Resolver.Validate
// reports every invalid field at once; BuildRegistryTheme and
// BuildRegistryBase derive the theme and base bundles. None of them depend
// on anything but the config and the vocabulary they were given.
package design
