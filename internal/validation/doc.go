// Package validation runs data quality rules against a loaded star schema.
//
// Rules are static descriptors grouped in four categories: duplicates,
// referential integrity, missing or malformed data, and consistency. Every
// rule runs on each validation, whatever earlier rules found. Each result
// keeps the number of offending rows and a few example rows. The overall
// verdict is FAIL when any ERROR rule found rows.
//
// Validation runs in a read-only transaction that is always rolled back. It
// never repairs data.
package validation
