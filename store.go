package fundbook

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/mgirard/fundbook/date"
)

// Store is the default ledger store: an in-memory account tree, transaction
// list and price database, persisted as a single JSONL file. Each line is an
// object discriminated by its "kind" property: account, transaction or price.
// The format is append-friendly and diff-friendly, the file is meant to live
// in a private git repository.
type Store struct {
	path     string
	accounts map[string]bool // set of colon-joined account paths
	txs      []*LedgerTransaction
	prices   *PriceDB

	editing bool
	ended   bool
	saves   int
}

// storeLine is the union of all line shapes in the store file.
type storeLine struct {
	Kind string `json:"kind"`

	// kind: account
	Path string `json:"path,omitempty"`

	// kind: transaction
	ID          string    `json:"id,omitempty"`
	Date        date.Date `json:"date,omitzero"`
	Description string    `json:"description,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	Postings    []Posting `json:"postings,omitempty"`

	// kind: price
	On        date.Date `json:"on,omitzero"`
	Commodity string    `json:"commodity,omitempty"`
	Price     Price     `json:"price,omitzero"`
}

// NewStore creates an empty in-memory store with no backing file.
func NewStore() *Store {
	return &Store{
		accounts: make(map[string]bool),
		prices:   NewPriceDB(),
	}
}

// OpenStore reads a store from its JSONL file. A missing file is a fatal
// error: the account tree must exist before an import run can resolve
// anything into it.
func OpenStore(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open ledger file %q: %w", path, err)
	}
	defer f.Close()

	st, err := decodeStore(f)
	if err != nil {
		return nil, fmt.Errorf("cannot read ledger file %q: %w", path, err)
	}
	st.path = path
	return st, nil
}

// decodeStore reads the JSONL stream line by line.
func decodeStore(r io.Reader) (*Store, error) {
	st := NewStore()
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var l storeLine
		if err := json.Unmarshal([]byte(line), &l); err != nil {
			return nil, fmt.Errorf("line %d: not a valid json object: %w", n, err)
		}
		switch l.Kind {
		case "account":
			st.DeclareAccount(strings.Split(l.Path, ":")...)
		case "transaction":
			st.txs = append(st.txs, &LedgerTransaction{
				ID:          l.ID,
				Date:        l.Date,
				Description: l.Description,
				Notes:       l.Notes,
				Postings:    l.Postings,
			})
		case "price":
			st.prices.load(Quote{On: l.On, Commodity: l.Commodity, Price: l.Price})
		default:
			return nil, fmt.Errorf("line %d: unknown kind %q", n, l.Kind)
		}
	}
	return st, scanner.Err()
}

// DeclareAccount creates the account at the given path, along with every
// missing intermediate account, and returns its reference.
func (st *Store) DeclareAccount(path ...string) AccountRef {
	var ref AccountRef
	for _, segment := range path {
		ref = ref.Child(segment)
		st.accounts[ref.String()] = true
	}
	return ref
}

// LookupAccount finds a direct child account by name under a parent.
func (st *Store) LookupAccount(parent AccountRef, name string) (AccountRef, bool) {
	child := parent.Child(name)
	if !st.accounts[child.String()] {
		return AccountRef{}, false
	}
	return child, true
}

// BeginEdit opens a transaction edit. Edits never nest.
func (st *Store) BeginEdit() error {
	if st.ended {
		return errors.New("session already ended")
	}
	if st.editing {
		return errors.New("an edit is already open")
	}
	st.editing = true
	return nil
}

// CommitEdit closes the open edit and appends the transaction. The store
// re-checks the zero-sum invariant: an unbalanced transaction must never
// enter the book, whatever the caller did.
func (st *Store) CommitEdit(tx *LedgerTransaction) error {
	if !st.editing {
		return errors.New("no edit open")
	}
	if len(tx.Postings) == 0 {
		return errors.New("transaction has no postings")
	}
	if err := tx.CheckBalance(); err != nil {
		st.editing = false
		return err
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	st.txs = append(st.txs, tx)
	st.editing = false
	return nil
}

// RollbackEdit closes the open edit and discards any pending transaction.
func (st *Store) RollbackEdit() error {
	if !st.editing {
		return errors.New("no edit open")
	}
	st.editing = false
	return nil
}

// BeginPrices opens the price database bracket for the run.
func (st *Store) BeginPrices() error { return st.prices.Begin() }

// AddPrice stages a price quotation in the open bracket.
func (st *Store) AddPrice(on date.Date, commodity string, price Price) error {
	return st.prices.Add(Quote{On: on, Commodity: commodity, Price: price})
}

// CommitPrices closes the bracket and merges the staged quotations.
func (st *Store) CommitPrices() error { return st.prices.Commit() }

// Save writes the whole store back to its file. Stores without a backing
// file only count the call; that is what tests use.
func (st *Store) Save() error {
	st.saves++
	if st.path == "" {
		return nil
	}
	f, err := os.Create(st.path)
	if err != nil {
		return fmt.Errorf("cannot write ledger file %q: %w", st.path, err)
	}
	defer f.Close()
	return st.encode(f)
}

// encode writes accounts first, then transactions, then prices, each on its
// own line, in stable order.
func (st *Store) encode(w io.Writer) error {
	paths := make([]string, 0, len(st.accounts))
	for path := range st.accounts {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		if err := writeLine(w, storeLine{Kind: "account", Path: path}); err != nil {
			return err
		}
	}
	for _, tx := range st.txs {
		line := storeLine{
			Kind:        "transaction",
			ID:          tx.ID,
			Date:        tx.Date,
			Description: tx.Description,
			Notes:       tx.Notes,
			Postings:    tx.Postings,
		}
		if err := writeLine(w, line); err != nil {
			return err
		}
	}
	for _, q := range st.prices.All() {
		if err := writeLine(w, storeLine{Kind: "price", On: q.On, Commodity: q.Commodity, Price: q.Price}); err != nil {
			return err
		}
	}
	return nil
}

func writeLine(w io.Writer, l storeLine) error {
	data, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("cannot marshal store line: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// End closes the session. An edit still open is rolled back first, so a
// failing run never leaves a dangling open edit behind.
func (st *Store) End() error {
	if st.editing {
		st.editing = false
	}
	st.ended = true
	return nil
}

// Transactions returns the committed transactions in commit order.
func (st *Store) Transactions() []*LedgerTransaction { return st.txs }

// Prices returns the store's price database.
func (st *Store) Prices() *PriceDB { return st.prices }

// SaveCount returns how many times Save was called on this store.
func (st *Store) SaveCount() int { return st.saves }

var _ Session = (*Store)(nil)
