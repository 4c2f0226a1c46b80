// Package sorter orders task records with a validated sorting method.
//
// A Sorter compiles the method's attributes into a Comparator and runs a stable
// top-down merge sort over the records. Every record's effective values are
// resolved once, in input order, before any comparison, so the error that
// aborts a sort is always the one at the lowest record index.
//
// # Comparison
//
// For each attribute the two effective values are classified against the
// attribute target with its operator. Values in the preferred class sort first
// and ties inside a class fall back to the natural order of the values. The
// per-attribute signal (-1, 0 or 1) is negated when reverse is set and scaled by
// weight. The signed contributions are summed; the sign of the sum orders the pair.
//
// When the sum cancels to zero although some attributes disagreed, the first
// disagreeing attribute in sequence order decides, unless one of the attributes
// that tied for the pair is marked stable. Null values never rank a pair.
//
// # Parallelism
//
// Collections larger than Options.ParallelThreshold are split using the same
// recursion tree as the sequential sort. Leaf segments are sorted concurrently
// and each merge pass runs its independent merges concurrently, so the output is
// identical to the sequential result.
package sorter
