// Package dictionary implements an in-memory byte-keyed prefix tree used to
// answer spell-check membership queries. The tree is built once at startup
// from a newline-delimited word list and is read-only thereafter, so no
// synchronization is required once Build returns.
package dictionary

import (
	"bufio"
	"fmt"
	"os"
)

// node is one trie node. A node stores no byte of its own: its byte is its
// index in the parent's children table, and the root has none. children is a
// byte-indexed table rather than a scanned list: lookup cost matters more
// here than the modest per-node memory overhead, since every worker consults
// the dictionary on every non-empty line.
type node struct {
	terminal bool
	children [256]*node
}

// Dictionary is an immutable-after-build trie of words.
type Dictionary struct {
	root *node
}

// New returns an empty dictionary containing no words. Useful for tests;
// production startup should use Build.
func New() *Dictionary {
	return &Dictionary{root: &node{}}
}

// Build reads path, one word per line (LF or CRLF terminated, both
// stripped), and returns a Dictionary containing every non-empty line.
// Duplicate lines are tolerated. Build fails if the file cannot be opened,
// and also if reading it fails, including when a line is longer than 1 MiB.
func Build(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary %q: %w", path, err)
	}
	defer f.Close()

	d := New()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		d.insert(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read dictionary %q: %w", path, err)
	}
	return d, nil
}

// insert walks from the root, creating children as needed, and marks the
// final node terminal. The empty string is a no-op: it never becomes a
// member, matching the source dictionary format where blank lines are
// ignored.
func (d *Dictionary) insert(word string) {
	if word == "" {
		return
	}
	cur := d.root
	for i := 0; i < len(word); i++ {
		b := word[i]
		if cur.children[b] == nil {
			cur.children[b] = &node{}
		}
		cur = cur.children[b]
	}
	cur.terminal = true
}

// Contains reports whether word was previously inserted, exact byte match,
// case-sensitive. The empty string is never a member.
func (d *Dictionary) Contains(word string) bool {
	if word == "" {
		return false
	}
	cur := d.root
	for i := 0; i < len(word); i++ {
		cur = cur.children[word[i]]
		if cur == nil {
			return false
		}
	}
	return cur.terminal
}
