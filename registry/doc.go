// Package registry maps (section, field) pairs to ordered strategy chains.
//
// The table is data: a new corpus section is onboarded by adding rows, not
// code. Rows can be overridden from YAML; every strategy ID is checked
// against the strategy catalog when the registry is built.
package registry
