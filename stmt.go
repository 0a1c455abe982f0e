package main

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/google/btree"
)

//
// A set of wrapper routines around the btree package.  The tree owns
// the program, ordered by line number.  The executor addresses lines
// by index, so we keep a sorted snapshot that is rebuilt lazily after
// every edit
//

const programTreeDegree = 16

type programStore struct {
	tree     *btree.BTreeG[programLine]
	snapshot []programLine
	stale    bool
	maxLines int
}

func lessLine(a, b programLine) bool {

	return a.number < b.number
}

func newProgramStore(maxLines int) *programStore {

	return &programStore{
		tree:     btree.NewG[programLine](programTreeDegree, lessLine),
		maxLines: maxLines,
	}
}

//
// Insert, replace or delete a line.  Empty text deletes the line,
// and deleting a line that does not exist is not an error
//

func (ps *programStore) store(number int, text string) {

	if number < minLineNumber || number > maxLineNumber {
		runtimeError(errSyntax, "%s: %d", EILLEGALLINENUMBER, number)
	}

	key := programLine{number: number}

	if text == "" {
		if _, ok := ps.tree.Delete(key); ok {
			ps.stale = true
		}
		return
	}

	if !ps.tree.Has(key) && ps.tree.Len() >= ps.maxLines {
		runtimeError(errResourceExhausted, EPROGRAMTOOLARGE)
	}

	ps.tree.ReplaceOrInsert(programLine{number: number, text: text})
	ps.stale = true
}

func (ps *programStore) clear() {

	ps.tree.Clear(false)
	ps.snapshot = nil
	ps.stale = false
}

func (ps *programStore) lines() []programLine {

	if ps.stale {
		ps.snapshot = make([]programLine, 0, ps.tree.Len())
		ps.tree.Ascend(func(pl programLine) bool {
			ps.snapshot = append(ps.snapshot, pl)
			return true
		})
		ps.stale = false
	}

	return ps.snapshot
}

func (ps *programStore) len() int {

	return ps.tree.Len()
}

func (ps *programStore) line(idx int) programLine {

	lines := ps.lines()
	basicAssert(idx >= 0 && idx < len(lines), "line index out of range")

	return lines[idx]
}

//
// Map a line number to its index
//

func (ps *programStore) find(number int) (int, bool) {

	lines := ps.lines()

	idx := sort.Search(len(lines), func(i int) bool {
		return lines[i].number >= number
	})

	return idx, idx < len(lines) && lines[idx].number == number
}

//
// List lines from..to inclusive; 0 means unbounded
//

func (ps *programStore) list(w io.Writer, from, to int) error {

	var err error

	ps.tree.Ascend(func(pl programLine) bool {
		if from > 0 && pl.number < from {
			return true
		}

		if to > 0 && pl.number > to {
			return false
		}

		_, err = fmt.Fprintf(w, "%d %s\n", pl.number, pl.text)

		return err == nil
	})

	return err
}

func (ps *programStore) save(w io.Writer) error {

	return ps.list(w, 0, 0)
}

//
// Replace the program with the numbered lines read from r.  A first
// line starting with '#' (a shebang) is skipped, as are blank lines.
// Lines without a line number are reported and ignored
//

func (ps *programStore) load(r io.Reader, warn io.Writer) error {

	ps.clear()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for n := 1; sc.Scan(); n++ {
		text := strings.TrimSpace(sc.Text())

		if n == 1 && strings.HasPrefix(text, "#") {
			continue
		}

		if text == "" {
			continue
		}

		number, rest, ok := splitLineNumber(text)
		if !ok {
			fmt.Fprintf(warn, "Ignoring unnumbered line %d: %s\n", n, text)
			continue
		}

		ps.store(number, rest)
	}

	return sc.Err()
}

//
// Split a leading line number off a line of text.  ok is false when
// the text does not start with a digit.  A number out of range is
// raised as an error, since the line was meant for the program
//

func splitLineNumber(text string) (int, string, bool) {

	i := 0
	for i < len(text) && isDigit(rune(text[i])) {
		i++
	}

	if i == 0 {
		return 0, "", false
	}

	number, err := strconv.Atoi(text[:i])
	if err != nil || number < minLineNumber || number > maxLineNumber {
		runtimeError(errSyntax, "%s: %s", EILLEGALLINENUMBER, text[:i])
	}

	return number, strings.TrimSpace(text[i:]), true
}
