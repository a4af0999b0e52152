package fundbook

import (
	"strings"

	gocache "github.com/patrickmn/go-cache"
)

// Category selects which branch of the account tree a resolution targets.
type Category string

const (
	CategoryAsset   Category = "asset"
	CategoryRevenue Category = "revenue"
)

// pathTable maps a category to the fixed leading segments of its account
// path. The plan type and owner are appended as further segments, and asset
// paths end with the fund leaf.
var pathTable = map[Category][]string{
	CategoryAsset:   {"Assets", "Investments"},
	CategoryRevenue: {"Income", "Distributions"},
}

// AccountOverride redirects a single fund code to a fixed parent and revenue
// account pair, bypassing the computed path entirely.
type AccountOverride struct {
	Parent  []string // parent path for the asset account
	Revenue []string // full path of the revenue account
}

// TrustFundCode is the fund code of the family-trust holding whose accounts
// live outside the per-plan tree. Its override applies before any lookup.
const TrustFundCode = "7789"

// DefaultOverrides is the compiled-in override table.
var DefaultOverrides = map[string]AccountOverride{
	TrustFundCode: {
		Parent:  []string{"Assets", "Trust", "Family Trust"},
		Revenue: []string{"Income", "Trust Distributions"},
	},
}

// Resolver resolves (category, plan type, owner, fund) tuples to concrete
// account references by walking the ledger's account tree. Resolutions are
// memoized: a statement repeats the same tuple for every trade of a fund.
type Resolver struct {
	session   Session
	overrides map[string]AccountOverride
	cache     *gocache.Cache
}

// NewResolver creates a resolver over an open session using the default
// override table.
func NewResolver(session Session) *Resolver {
	return NewResolverWithOverrides(session, DefaultOverrides)
}

// NewResolverWithOverrides creates a resolver with an explicit override table.
func NewResolverWithOverrides(session Session, overrides map[string]AccountOverride) *Resolver {
	return &Resolver{
		session:   session,
		overrides: overrides,
		cache:     gocache.New(gocache.NoExpiration, 0),
	}
}

// Resolve walks the given path segments from the tree root and returns the
// account found at the end, or an AccountNotFound naming the first missing
// segment and the path consumed so far.
func (r *Resolver) Resolve(segments ...string) (AccountRef, error) {
	key := strings.Join(segments, "\x00")
	if cached, ok := r.cache.Get(key); ok {
		return cached.(AccountRef), nil
	}
	var ref AccountRef
	for i, segment := range segments {
		child, ok := r.session.LookupAccount(ref, segment)
		if !ok {
			return AccountRef{}, &AccountNotFound{Missing: segment, Consumed: segments[:i]}
		}
		ref = child
	}
	r.cache.Set(key, ref, gocache.NoExpiration)
	return ref, nil
}

// fundLeaf is the leaf account name of a fund, e.g. "MFC 3212".
func fundLeaf(company, fund string) string { return company + " " + fund }

// ResolveTrade fills the trade's asset and revenue account references for
// the given plan type and owner. The fixed fund-code override is applied
// before the general path computation.
func (r *Resolver) ResolveTrade(plan PlanType, owner string, t *TransactionRecord) error {
	leaf := fundLeaf(t.Company, t.Fund)

	if o, ok := r.overrides[t.Fund]; ok {
		account, err := r.Resolve(append(append([]string{}, o.Parent...), leaf)...)
		if err != nil {
			return err
		}
		revenue, err := r.Resolve(o.Revenue...)
		if err != nil {
			return err
		}
		t.Account, t.Revenue = account, revenue
		return nil
	}

	assetPath := append(append([]string{}, pathTable[CategoryAsset]...), string(plan), owner, leaf)
	account, err := r.Resolve(assetPath...)
	if err != nil {
		return err
	}
	revenuePath := append(append([]string{}, pathTable[CategoryRevenue]...), string(plan), owner)
	revenue, err := r.Resolve(revenuePath...)
	if err != nil {
		return err
	}
	t.Account, t.Revenue = account, revenue
	return nil
}

// ResolvePrice resolves the asset account holding the quoted fund, whose
// commodity tags the price quotation.
func (r *Resolver) ResolvePrice(plan PlanType, owner string, p *PriceRecord) (AccountRef, error) {
	leaf := fundLeaf(p.Company, p.Fund)
	if o, ok := r.overrides[p.Fund]; ok {
		return r.Resolve(append(append([]string{}, o.Parent...), leaf)...)
	}
	path := append(append([]string{}, pathTable[CategoryAsset]...), string(plan), owner, leaf)
	return r.Resolve(path...)
}
