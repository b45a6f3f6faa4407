// Package beans provides runtime struct introspection and field-by-field copying.
//
// The Engine discovers the exported fields of arbitrary structs, caches one
// accessor Index per type and uses it to copy, diff and normalize values.
//
// Basic Usage
//
//	engine := beans.New()
//	report, err := engine.CopyNonNull(&dst, &src)
//
// # Copy Rules
//
// Copy walks the source index in declaration order and, for every readable field:
//  1. Finds the destination field with the same name (optionally by json tag or case-insensitively)
//  2. Skips it when copyNulls is false and the source value is null
//  3. Applies a registered converter, pair scope first, then global
//  4. Otherwise assigns or converts the value when the types allow it, and skips it silently when they do not
//
// # Null
//
// A value is null when it is a nil pointer, interface, map, slice, func or chan,
// an empty or "null" sqlboiler types.JSON, or a driver.Valuer reporting nil, which
// covers every github.com/aarondl/null type with Valid unset. Writing null stores
// the field's zero value. Scalars are never null.
//
// # Struct Tags
//
//	type User struct {
//	    Name     string
//	    Password string `bean:"-"`        // not indexed, never copied
//	    Created  time.Time `bean:"readonly"` // read but never written
//	}
//
// Any other bean tag value makes the type fail introspection.
//
// # Embedded Structs
//
// Embedded struct fields (including pointer-to-struct) are flattened following Go's
// promotion rules. Reading through a nil embedded pointer yields null; writing allocates it.
//
// # Partial Failures
//
// Operations that touch many fields report per-field failures in a Report instead of
// aborting. Structural failures are returned as *IntrospectionError, *ConstructionError
// or *InvalidArgumentError.
//
// # Thread Safety
//
// The Engine and its Cache are safe for concurrent use. Each type is introspected
// at most once and cached for the life of the process; registries are copy-on-write.
package beans
