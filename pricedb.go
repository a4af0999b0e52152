package fundbook

import (
	"errors"
	"sort"

	"github.com/mgirard/fundbook/date"
)

// Quote is one price quotation: a commodity's unit price on a day.
type Quote struct {
	On        date.Date
	Commodity string
	Price     Price
}

// PriceDB is the ledger's price database. Quotations added during a run are
// staged inside a single Begin/Commit bracket that spans the whole run; a
// bracket that is never committed leaves the database untouched.
type PriceDB struct {
	open      bool
	staged    []Quote
	committed map[string]map[date.Date]Price // commodity -> day -> price
}

// NewPriceDB creates an empty price database.
func NewPriceDB() *PriceDB {
	return &PriceDB{committed: make(map[string]map[date.Date]Price)}
}

// Begin opens the staging bracket. Brackets never nest.
func (db *PriceDB) Begin() error {
	if db.open {
		return errors.New("price bracket already open")
	}
	db.open = true
	db.staged = db.staged[:0]
	return nil
}

// Add stages a quotation. A later quotation for the same commodity and day
// replaces the earlier one at commit time.
func (db *PriceDB) Add(q Quote) error {
	if !db.open {
		return errors.New("no price bracket open")
	}
	db.staged = append(db.staged, q)
	return nil
}

// Commit merges all staged quotations and closes the bracket.
func (db *PriceDB) Commit() error {
	if !db.open {
		return errors.New("no price bracket open")
	}
	for _, q := range db.staged {
		db.load(q)
	}
	db.staged = nil
	db.open = false
	return nil
}

// load inserts a quotation directly, bypassing the bracket. Used while
// decoding a persisted store.
func (db *PriceDB) load(q Quote) {
	days, ok := db.committed[q.Commodity]
	if !ok {
		days = make(map[date.Date]Price)
		db.committed[q.Commodity] = days
	}
	days[q.On] = q.Price
}

// Price returns the committed quotation for a commodity on a day.
func (db *PriceDB) Price(commodity string, on date.Date) (Price, bool) {
	p, ok := db.committed[commodity][on]
	return p, ok
}

// Len returns the number of committed quotations.
func (db *PriceDB) Len() int {
	n := 0
	for _, days := range db.committed {
		n += len(days)
	}
	return n
}

// All returns every committed quotation sorted by commodity then day, the
// order the store persists them in.
func (db *PriceDB) All() []Quote {
	quotes := make([]Quote, 0, db.Len())
	for commodity, days := range db.committed {
		for on, price := range days {
			quotes = append(quotes, Quote{On: on, Commodity: commodity, Price: price})
		}
	}
	sort.Slice(quotes, func(i, j int) bool {
		if quotes[i].Commodity != quotes[j].Commodity {
			return quotes[i].Commodity < quotes[j].Commodity
		}
		return quotes[i].On.Before(quotes[j].On)
	})
	return quotes
}
