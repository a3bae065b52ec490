// Package ir defines the compilation-unit representation for the nvptx backend.
//
// The IR is designed to be:
//   - Source-agnostic: Not tied to any specific frontend (CUDA, OpenCL, NVVM)
//   - Minimal: It models what the backend queries, namely symbols,
//     functions, call sites, and out-of-band metadata
//   - Stable: Units and objects are identified by handles, not addresses
//
// # Structure
//
// The IR is organized around a Module type that contains:
//   - Types: Type definitions referenced by globals and functions
//   - Globals: Module-scope variables (textures, surfaces, samplers, ...)
//   - Functions: Function declarations with arguments and attributes
//   - Named metadata: Ordered lists of loosely-typed metadata nodes,
//     keyed by name (e.g. "nvvm.annotations")
//
// Every Module carries a process-unique ModuleID assigned at construction.
// Consumers that key state by module (such as the nvvm annotation cache)
// key by this ID rather than by pointer, so a destroyed module's identity
// is never observed again by accident.
//
// # Metadata
//
// Metadata operands are deliberately loosely typed: MetadataOperand is a
// sum of global references, strings, integers, and null. Producers can
// emit malformed annotation entries, and consumers such as the nvvm
// package surface those as errors instead of panicking.
package ir
