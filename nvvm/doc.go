// Package nvvm turns the loosely-typed "nvvm.annotations" metadata of a
// compilation unit into the strongly-typed queries the nvptx backend
// asks everywhere: is this global a texture, is this function a kernel,
// what thread-block shape does it require, and so on.
//
// # Cache
//
// Queries go through a Cache, an explicitly constructed object that maps
// (module, symbol, property) to the ordered integer values recorded in
// the module's annotation list. Records are built lazily: the first
// query for a symbol scans the module's annotation list once and folds
// every entry targeting that symbol into one record.
//
// The cache performs no change detection. Whoever mutates a module's
// annotations, or destroys a module, must call Invalidate for it first;
// querying with a stale or dead module identity otherwise returns stale
// data. The nvptx Pipeline wires Invalidate into module teardown.
//
// # Concurrency
//
// One mutex guards the whole cache, held across the full check-miss,
// scan, insert sequence, so a record is populated at most once and never
// observed half-built. Queries for unrelated symbols serialize on that
// lock; the unit of parallelism in the backend is the module, not the
// symbol, so the coarse lock is an accepted trade-off.
//
// # Errors
//
// A missing property is not an error: lookups report it with a false
// second result. Structurally invalid annotation data (unpaired
// name/value operands, non-string names, non-integer or oversized
// values, flag properties with values other than 1) is reported as a
// *MalformedError, since compiling past it would miscompile silently.
package nvvm
