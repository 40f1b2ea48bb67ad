package brain

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"
)

// The snapshot is a sequential gob record of three values in fixed
// order: the template count, the bot name, and the trie itself.

// CorruptSnapshot is returned by Restore when a snapshot can't be
// decoded.  The in-memory index is left untouched.
type CorruptSnapshot struct {
	Err error
}

func (e *CorruptSnapshot) Error() string {
	return fmt.Sprintf("corrupt brain snapshot: %v", e.Err)
}

func (e *CorruptSnapshot) Unwrap() error {
	return e.Err
}

// Save writes the current patterns to w.  To restore later, use
// Restore.
func (b *Brain) Save(w io.Writer) error {
	enc := gob.NewEncoder(w)
	if err := enc.Encode(b.templates); err != nil {
		return err
	}
	if err := enc.Encode(b.botName); err != nil {
		return err
	}
	return enc.Encode(b.root)
}

// SaveFile writes the current patterns to the named file.
func (b *Brain) SaveFile(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := b.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Restore replaces the Brain's contents with a previously Saved
// snapshot.  On error the Brain is unchanged: a corrupt or truncated
// snapshot must never partially populate the index.
func (b *Brain) Restore(r io.Reader) error {
	var (
		dec       = gob.NewDecoder(r)
		templates int
		botName   string
		root      *node
	)
	if err := dec.Decode(&templates); err != nil {
		return &CorruptSnapshot{err}
	}
	if err := dec.Decode(&botName); err != nil {
		return &CorruptSnapshot{err}
	}
	if err := dec.Decode(&root); err != nil {
		return &CorruptSnapshot{err}
	}
	if root == nil {
		root = newNode()
	}

	b.templates = templates
	b.botName = botName
	b.root = root

	return nil
}

// RestoreFile loads a snapshot from the named file.
func (b *Brain) RestoreFile(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return b.Restore(f)
}
