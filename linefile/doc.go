// Package linefile reads and writes line-oriented text files one record at a time.
//
// A record is one line without its terminator. Reader accepts "\n" and "\r\n"
// terminated input and tolerates a missing final terminator. Writer appends
// exactly one "\n" to every record it writes.
//
// # Reading
//
// Records is a lazy, single-use sequence. Lines are read on demand through a
// bufio.Reader, so there is no per-line length cap and memory stays bounded by
// the longest line:
//
//	r, err := linefile.NewReader("nestest.log")
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//	for rec := range r.Records() {
//	    ...
//	}
//	if err := r.Err(); err != nil {
//	    return err
//	}
//
// # Writing
//
// Writer either writes to a temporary file in the destination directory and
// renames it into place on Commit (atomic mode, the default), or truncates the
// destination and writes it directly. Close without Commit discards the
// output in both modes:
//
//	w, err := linefile.Create("modifiedtest.log", linefile.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//	...
//	return w.Commit()
package linefile
