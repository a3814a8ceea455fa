package text

import "io"

// Unlimited is the drain limit that renders every queued line.
const Unlimited = -1

// Lines is an ordered buffer of rows. The front of the buffer is the oldest
// row and is drained first.
type Lines []Line

// FromStrings builds unstyled lines, one per string.
func FromStrings(rows ...string) (Lines, error) {
	out := make(Lines, 0, len(rows))
	for _, r := range rows {
		l, err := Plain(r)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

// Len returns the number of rows.
func (ls Lines) Len() int { return len(ls) }

// IsEmpty reports whether there are no rows.
func (ls Lines) IsEmpty() bool { return len(ls) == 0 }

// DisplayLen returns the summed display width of every row.
func (ls Lines) DisplayLen() int {
	n := 0
	for _, l := range ls {
		n += l.Len()
	}
	return n
}

// Append moves the rows of other to the end of ls. The caller must not reuse
// other afterwards.
func (ls *Lines) Append(other Lines) {
	*ls = append(*ls, other...)
}

// count resolves a drain limit against the buffer length.
func (ls Lines) count(limit int) int {
	if limit < 0 || limit > len(ls) {
		return len(ls)
	}
	return limit
}

// WritePrefix writes up to limit rows from the front without removing them
// and returns how many were written. Use Unlimited to write every row.
func (ls Lines) WritePrefix(w io.Writer, limit int) (int, error) {
	n := ls.count(limit)
	for i := 0; i < n; i++ {
		if err := ls[i].Render(w); err != nil {
			return i, err
		}
	}
	return n, nil
}

// Discard removes n rows from the front.
func (ls *Lines) Discard(n int) {
	if n <= 0 {
		return
	}
	if n >= len(*ls) {
		*ls = nil
		return
	}
	clear((*ls)[:n])
	*ls = (*ls)[n:]
}

// Render writes up to limit rows from the front and removes exactly the rows
// that were written. Rows past the limit stay queued for the next call.
func (ls *Lines) Render(w io.Writer, limit int) (int, error) {
	n, err := ls.WritePrefix(w, limit)
	ls.Discard(n)
	return n, err
}

// ShrinkTo keeps at most height rows, each truncated to width cells.
func (ls Lines) ShrinkTo(width, height int) Lines {
	if height < 0 {
		height = 0
	}
	if len(ls) > height {
		ls = ls[:height]
	}
	out := make(Lines, len(ls))
	for i, l := range ls {
		out[i] = l.Truncate(width)
	}
	return out
}
