// Package catalog aggregates artifact registry search results.
//
// # Overview
//
// A registry search returns one record per artifact version. The catalog
// collapses those into a [GroupView]: one record per (group, name) key,
// the one with the greatest version. Full histories are fetched lazily with
// [Client.ExpandVersions] and dependency declarations with
// [Client.ResolveDependency].
//
// # Version Ordering
//
// [CompareVersions] is a numeric-aware string comparison, not semantic
// versioning. Versions are split into maximal runs of digits and
// non-digits; two digit runs compare as numbers, anything else compares
// byte-wise. "1.10" sorts above "1.9", and "1.0-SNAPSHOT" sorts above
// "1.0" because the longer run list wins once the shared prefix is equal.
//
// # Live Search
//
// [LiveSearch] debounces keystrokes and tags every request with a
// generation number. Only the response for the latest generation is
// delivered, so a slow response for an old query never replaces a newer
// one.
package catalog
