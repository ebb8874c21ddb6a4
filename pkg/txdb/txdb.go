// Package txdb loads transaction databases and prepares them for mining.
//
// The text format is the SPMF transaction format: one transaction per line,
// items as space-separated non-negative integers. A line may carry an
// explicit transaction id after a pipe ("3 7 9|42"); plain lines are numbered
// 1, 2, 3, ... in file order. Empty lines and lines starting with '#', '%' or
// '@' are skipped and do not consume an id.
//
// Transaction ids must be strictly increasing and items must not repeat
// within a transaction. Both are rejected at load time so the mining engine
// never sees them.
package txdb

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	errs "github.com/matzehuels/sppgrowth/pkg/errors"
)

// maxLineSize bounds a single transaction line.
const maxLineSize = 16 << 20

// Transaction is one row of the database.
type Transaction struct {
	TID   int   `json:"tid"`
	Items []int `json:"items"`
}

// Database is an ordered set of transactions.
type Database struct {
	Transactions []Transaction
	// LastTID is the largest transaction id, the horizon of the database.
	LastTID int
}

// Len returns the number of transactions.
func (db *Database) Len() int { return len(db.Transactions) }

// Items returns the distinct items of the database in ascending order.
func (db *Database) Items() []int {
	seen := make(map[int]struct{})
	for _, tx := range db.Transactions {
		for _, item := range tx.Items {
			seen[item] = struct{}{}
		}
	}
	items := make([]int, 0, len(seen))
	for item := range seen {
		items = append(items, item)
	}
	slices.Sort(items)
	return items
}

// add validates and appends one transaction.
func (db *Database) add(tid int, items []int, line int) error {
	if tid <= db.LastTID {
		return errs.New(errs.ErrCodeUnorderedTID,
			"line %d: transaction id %d does not follow %d", line, tid, db.LastTID)
	}
	seen := make(map[int]struct{}, len(items))
	for _, item := range items {
		if _, dup := seen[item]; dup {
			return errs.New(errs.ErrCodeDuplicateItem,
				"line %d: item %d repeated in transaction %d", line, item, tid)
		}
		seen[item] = struct{}{}
	}
	db.Transactions = append(db.Transactions, Transaction{TID: tid, Items: items})
	db.LastTID = tid
	return nil
}

// New builds a database from in-memory rows numbered 1, 2, 3, ...
func New(rows [][]int) (*Database, error) {
	db := &Database{Transactions: make([]Transaction, 0, len(rows))}
	for i, row := range rows {
		for _, item := range row {
			if item < 0 {
				return nil, errs.New(errs.ErrCodeInvalidTransaction,
					"row %d: negative item %d", i+1, item)
			}
		}
		if err := db.add(i+1, slices.Clone(row), i+1); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// Parse reads a database in SPMF transaction format.
func Parse(r io.Reader) (*Database, error) {
	db := &Database{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line, next := 0, 1
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if skip(text) {
			continue
		}

		body, stamp, stamped := strings.Cut(text, "|")
		tid := next
		if stamped {
			v, err := strconv.Atoi(strings.TrimSpace(stamp))
			if err != nil || v < 1 {
				return nil, errs.Wrap(errs.ErrCodeInvalidTransaction, err,
					"line %d: bad transaction id %q", line, stamp)
			}
			tid = v
		}

		items, err := parseItems(body, line)
		if err != nil {
			return nil, err
		}
		if err := db.add(tid, items, line); err != nil {
			return nil, err
		}
		next = tid + 1
	}
	if err := sc.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read transactions")
	}
	return db, nil
}

func skip(text string) bool {
	if text == "" {
		return true
	}
	switch text[0] {
	case '#', '%', '@':
		return true
	}
	return false
}

func parseItems(body string, line int) ([]int, error) {
	fields := strings.Fields(body)
	items := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidTransaction, err,
				"line %d: item %q is not an integer", line, f)
		}
		if v < 0 {
			return nil, errs.New(errs.ErrCodeInvalidTransaction,
				"line %d: negative item %d", line, v)
		}
		items = append(items, v)
	}
	return items, nil
}

// Open reads a database from path. Files ending in ".gz" are gunzipped and
// files ending in ".zst" are zstd-decoded on the fly.
func Open(path string) (*Database, error) {
	if err := errs.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()

	var r io.Reader = f
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "gzip %s", path)
		}
		defer zr.Close()
		r = zr
	case ".zst":
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "zstd %s", path)
		}
		defer zr.Close()
		r = zr
	}
	return Parse(r)
}
