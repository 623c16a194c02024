// Package categories owns the extension-to-category mapping: the built-in
// defaults, the user overlay that replaces categories whole, format
// validation for names and extensions, and the classifier the sort engine
// consults each cycle.
//
// Persistence is three JSON files under the workspace state directory:
// categories.json (built-in, written once from DefaultMapping),
// user_categories.json (optional overlay), and removed_categories.json
// (tombstones for deleted built-in categories, so a deletion survives the
// overlay merge on reload). All writes go through an atomic temp-file
// rename so readers never see a partial file.
package categories
