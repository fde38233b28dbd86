// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package stream provides protected streams: wrappers over shared
// channels whose chained reads and writes are queued into a batch and
// applied as one uninterruptible unit.
//
// A wrapper's Read or Write starts a batch; ThenRead and ThenWrite extend
// it; Commit (or Close, usually deferred) takes the channel lock from the
// registry and replays the queued actions in order. No other batch on the
// same channel can run between the first and last action of a commit.
//
//	out := stream.NewWriter(buf)
//	defer out.Close()
//
//	err := out.Write("id ").ThenWrite(id).ThenWrite("\n").Commit()
//
// A read-write batch over two distinct channels takes both locks in
// registry order. The same channel in both roles is locked once.
//
// # Blocking
//
// Channel reads run while the channel lock is held. A read that waits for
// input stalls every other batch on that channel until it returns. This
// is the price of atomicity; keep interactive reads out of batches that
// share a channel with latency sensitive writers.
//
// # Lifetimes
//
// A wrapper must outlive every batch built from it. Slots passed to
// ThenRead, and pointers passed to ThenWrite, must remain valid until the
// batch is committed. Neither condition is checked beyond the registry
// lookup at commit time.
package stream
