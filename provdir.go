// Package provdir extracts structured records for training providers
// listed in a paginated web directory. It navigates from a list view into
// per-provider detail pages, recovers program offerings from disclosure
// widgets (accordions, collapse panels) on heterogeneous markup, and
// persists records incrementally to tabular storage.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, goquery/, sqlite/).
package provdir
