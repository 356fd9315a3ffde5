// Package dataset provides the columnar record store the analytics engine
// runs on: loading from CSV or XLSX sources, nullable cell access with
// typed parsing, content fingerprinting, and the capability probe that
// decides once per dataset which optional columns are available.
//
// A Dataset is built once per session and treated as read-only afterward.
// Only *LoadError escapes this package as a hard failure; absent optional
// columns are reflected in Features and degrade dependent behavior instead
// of erroring.
package dataset
