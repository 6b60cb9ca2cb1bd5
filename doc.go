// Package tracetrim normalizes instruction-trace logs to a fixed width.
//
// Emulator traces such as nestest.log carry columns (PPU position, cycle
// counts) that a CPU-only implementation cannot reproduce yet. Cutting every
// line to the first 73 columns leaves the address, opcode bytes, disassembly
// and registers, which can then be compared line for line against a
// reference trace. Each subpackage can be used independently:
//
//   - trim: the file and stream transform, configuration and error kinds
//   - truncate: width-bounded prefix truncation of a single line
//   - width: rune and byte width counters
//   - linefile: lazy line reader and atomic line writer
//   - compare: first-divergence comparison against a reference trace
//   - watch: re-run a job when a file changes
//
// # Quick Start
//
// Trim a trace:
//
//	import "github.com/randalmurphal/tracetrim/trim"
//	stats, err := trim.Run(ctx, trim.DefaultConfig())
//
// Compare it against the reference:
//
//	import "github.com/randalmurphal/tracetrim/compare"
//	res, err := compare.Files(ctx, "modifiedtest.log", "nestest.log", compare.Options{MaxWidth: 73})
//
// The tracetrim command in cmd/tracetrim wraps both.
package tracetrim
