// Package tasks implements the concurrent audio migration pipeline.
//
// # Core Operation
//
// [Engine.Run] executes one migration:
//
//  1. Enumerate eligible files across the configured folders (concurrent
//     listings; any failure here is fatal and no pipeline starts).
//  2. Feed the units to a bounded pool of workers in enumeration order.
//  3. Each worker runs the per-file pipeline: download → hash → dedup
//     check → (parse → upload) → playlist attach → done.
//  4. Return once every unit has reached a terminal state.
//
// # Shared State
//
// Four components are mutated by concurrent workers, each owning one
// exclusive-access boundary:
//
//   - [DedupCache] : content hash → media id, first writer wins
//   - [Aggregator] : completed files and transferred bytes
//   - [Registry] : live per-file [TaskState] records for the renderer
//   - [FailureCollector] : append-only failures in completion order
//
// The renderer polls [Aggregator.Snapshot] and [Registry.ListActive]; it
// never holds a lock longer than a snapshot copy.
//
// # Duplicate Handling
//
// A content hash triggers at most one upload once an earlier unit has
// resolved it; later units with the same hash skip parse and upload
// entirely. Identical content racing through concurrent first uploads is
// not prevented from uploading twice; see [DedupCache].
//
// # Error Policy
//
// Per-unit failures are recorded and never propagate to other units. The
// unit still reaches its guaranteed completion step, so the completed-file
// count equals the total at run end regardless of failures.
package tasks
