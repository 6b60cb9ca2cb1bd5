// Package compare checks a trimmed trace against a reference trace line by line.
//
// Both inputs are read lazily and in lockstep. When MaxWidth is set each
// line is cut to that width before comparison, so an untrimmed emulator log
// can be checked directly against a trimmed reference. The first
// MaxMismatches differences are reported with the 1-based line and column
// where the lines diverge.
//
//	res, err := compare.Files(ctx, "modifiedtest.log", "nestest.log", compare.Options{MaxWidth: 73})
//	if err != nil {
//	    return err
//	}
//	if !res.Equal() {
//	    m := res.Mismatches[0]
//	    fmt.Printf("line %d col %d: want %q got %q\n", m.Line, m.Column, m.Expected, m.Actual)
//	}
package compare
