// Package parallel runs independent jobs with bounded concurrency.
//
// It provides:
//   - WorkerPool: indexed jobs, a worker limit and optional fail-fast cancellation
//   - Run: runs one batch and reports the failure with the lowest index
//   - Stats: job counts and busy time, summed across batches with Add
//
// The sorter uses it to sort leaf segments and to perform the independent merges
// of one merge pass concurrently.
package parallel
