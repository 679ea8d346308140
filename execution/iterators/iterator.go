package iterators

import (
	"fmt"
	"io"
	"strings"

	"github.com/ryogrid/SamehadaScan/common"
	"github.com/ryogrid/SamehadaScan/errors"
	"github.com/ryogrid/SamehadaScan/storage/page"
	"github.com/ryogrid/SamehadaScan/storage/table/schema"
	"github.com/ryogrid/SamehadaScan/storage/tuple"
)

const (
	ErrNoMoreTuples   = errors.Error("no more tuples")
	ErrIteratorClosed = errors.Error("iterator is closed")
)

type ScanKind int32

const (
	KindHeapScan ScanKind = iota
	KindIndexScan
	KindKeyScan
)

func (k ScanKind) String() string {
	switch k {
	case KindHeapScan:
		return "HeapScan"
	case KindIndexScan:
		return "IndexScan"
	case KindKeyScan:
		return "KeyScan"
	}
	return fmt.Sprintf("ScanKind(%d)", int32(k))
}

// Iterator is the protocol shared by the access methods of this package.
//
// A scan is open right after construction. Restart and GetNext are only
// valid while open, and Close moves the scan to the closed state for good.
// Restart returns nil whenever the scan is open again afterwards; when it
// returns an error the scan is closed.
// HasNext never changes the state of a scan and reports false once closed.
//
// The set of implementations is closed: HeapScan, IndexScan and KeyScan.
type Iterator interface {
	IsOpen() bool
	Close() error
	Restart() error
	HasNext() bool
	GetNext() (*tuple.Tuple, error)
	Explain(w io.Writer, depth int)

	GetSchema() *schema.Schema
	Kind() ScanKind
	// GetLastRID returns the identity of the tuple returned by the last
	// successful GetNext. ok is false before the first one, after Restart
	// and after Close.
	GetLastRID() (rid page.RID, ok bool)

	sealed()
}

// WithScan calls fn with it and closes it afterwards, also when fn returns
// an error or panics. The error of fn takes precedence over the one of Close.
func WithScan(it Iterator, fn func(Iterator) error) (err error) {
	defer func() {
		if !it.IsOpen() {
			return
		}
		if cerr := it.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(it)
}

// Drain reads every remaining tuple of it
func Drain(it Iterator) ([]*tuple.Tuple, error) {
	ret := make([]*tuple.Tuple, 0)
	for it.HasNext() {
		t, err := it.GetNext()
		if err != nil {
			return ret, err
		}
		ret = append(ret, t)
	}
	if !it.IsOpen() {
		return ret, ErrIteratorClosed
	}
	return ret, nil
}

// scanBase holds the state every access method tracks besides its cursor
type scanBase struct {
	schema  *schema.Schema
	lastRID page.RID
	hasLast bool
}

func (b *scanBase) GetSchema() *schema.Schema {
	return b.schema
}

func (b *scanBase) GetLastRID() (page.RID, bool) {
	return b.lastRID, b.hasLast
}

func (b *scanBase) setLastRID(rid page.RID) {
	b.lastRID = rid
	b.hasLast = true
}

func (b *scanBase) clearLastRID() {
	b.lastRID = page.RID{}
	b.hasLast = false
}

func (b *scanBase) sealed() {}

// explainDepth clamps the depth of a scan line so that the line of the
// cursor it wraps still fits one level deeper
func explainDepth(depth int) int {
	if depth < 0 {
		return 0
	}
	if depth > common.MaxExplainDepth-1 {
		return common.MaxExplainDepth - 1
	}
	return depth
}

// explainLine writes one line of Explain output. Write errors are ignored.
func explainLine(w io.Writer, depth int, format string, a ...interface{}) {
	fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), fmt.Sprintf(format, a...))
}

// cursorLine is the Explain line of a storage cursor, or of its absence
func cursorLine(open bool, cursor fmt.Stringer) string {
	if !open {
		return "<closed>"
	}
	return cursor.String()
}

func logScan(kind ScanKind, event string, target string) {
	common.ShPrintf(common.DEBUG_INFO, "%s %s: %s\n", kind, event, target)
}
