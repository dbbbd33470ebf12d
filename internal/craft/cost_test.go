package craft_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hkeating27/Red-Crafter/internal/catalog"
	"github.com/hkeating27/Red-Crafter/internal/craft"
	"github.com/hkeating27/Red-Crafter/internal/market"
)

// fakeMarket serves canned listings per item and counts fetches.
type fakeMarket struct {
	listings map[int][]market.Listing
	errs     map[int]error
	calls    map[int]int
}

func newFakeMarket() *fakeMarket {
	return &fakeMarket{
		listings: make(map[int][]market.Listing),
		errs:     make(map[int]error),
		calls:    make(map[int]int),
	}
}

func (f *fakeMarket) price(itemID, price int) *fakeMarket {
	f.listings[itemID] = []market.Listing{{PricePerUnit: price}}
	return f
}

func (f *fakeMarket) Listings(ctx context.Context, world string, itemID int) ([]market.Listing, error) {
	f.calls[itemID]++
	if err := f.errs[itemID]; err != nil {
		return nil, err
	}
	return f.listings[itemID], nil
}

func buildCatalog(recipes ...catalog.Recipe) *catalog.Catalog {
	c := &catalog.Catalog{Recipes: recipes, ByID: make(map[int]catalog.Recipe)}
	for _, r := range recipes {
		c.ByID[r.ItemID] = r
	}
	return c
}

func recipe(itemID int, name string, outputQty int, ings ...catalog.Ingredient) catalog.Recipe {
	return catalog.Recipe{ItemID: itemID, Name: name, OutputQty: outputQty, Ingredients: ings}
}

func ing(itemID int, name string, qty int) catalog.Ingredient {
	return catalog.Ingredient{ItemID: itemID, Name: name, Qty: qty}
}

func TestEvaluateCost_MarketOnlyForNonCraftable(t *testing.T) {
	fm := newFakeMarket().price(42, 250)
	sess := craft.NewSession("Adamantoise", buildCatalog(), fm, nil)

	cost, note := sess.EvaluateCost(context.Background(), 42)
	assert.Equal(t, 250, cost)
	assert.Equal(t, craft.NoteMarketOnly, note)
}

func TestEvaluateCost_MarketOnlyWithNoDataMemoizesZero(t *testing.T) {
	fm := newFakeMarket()
	fm.errs[42] = errors.New("upstream down")
	sess := craft.NewSession("Adamantoise", buildCatalog(), fm, nil)

	cost, note := sess.EvaluateCost(context.Background(), 42)
	assert.Equal(t, 0, cost)
	assert.Equal(t, craft.NoteMarketOnly, note)

	cost, note = sess.EvaluateCost(context.Background(), 42)
	assert.Equal(t, 0, cost)
	assert.Equal(t, craft.NoteMemoized, note)
	assert.Equal(t, 1, fm.calls[42], "cached zero must not refetch")
}

func TestEvaluateCost_CraftCheaper(t *testing.T) {
	cat := buildCatalog(
		recipe(101, "Iron Ingot", 1, ing(201, "Iron Ore", 3)),
	)
	fm := newFakeMarket().price(101, 50).price(201, 10)
	sess := craft.NewSession("Adamantoise", cat, fm, nil)

	cost, note := sess.EvaluateCost(context.Background(), 101)
	assert.Equal(t, 30, cost)
	assert.Equal(t, craft.NoteCraftCheaper, note)
}

func TestEvaluateCost_MarketCheaper(t *testing.T) {
	cat := buildCatalog(
		recipe(101, "Iron Ingot", 1, ing(201, "Iron Ore", 5)),
	)
	fm := newFakeMarket().price(101, 40).price(201, 10)
	sess := craft.NewSession("Adamantoise", cat, fm, nil)

	cost, note := sess.EvaluateCost(context.Background(), 101)
	assert.Equal(t, 40, cost)
	assert.Equal(t, craft.NoteMarketCheaper, note)
}

func TestEvaluateCost_TieFavorsCraft(t *testing.T) {
	cat := buildCatalog(
		recipe(101, "Iron Ingot", 1, ing(201, "Iron Ore", 5)),
	)
	fm := newFakeMarket().price(101, 50).price(201, 10)
	sess := craft.NewSession("Adamantoise", cat, fm, nil)

	cost, note := sess.EvaluateCost(context.Background(), 101)
	assert.Equal(t, 50, cost)
	assert.Equal(t, craft.NoteCraftCheaper, note)
}

func TestEvaluateCost_CraftOnlyWhenMarketUnavailable(t *testing.T) {
	cat := buildCatalog(
		recipe(101, "Iron Ingot", 1, ing(201, "Iron Ore", 5)),
	)
	fm := newFakeMarket().price(201, 10) // no listings for 101
	sess := craft.NewSession("Adamantoise", cat, fm, nil)

	cost, note := sess.EvaluateCost(context.Background(), 101)
	assert.Equal(t, 50, cost)
	assert.Equal(t, craft.NoteCraftOnly, note)
}

func TestEvaluateCost_OutputQuantityRoundsUp(t *testing.T) {
	cat := buildCatalog(
		recipe(103, "Growth Formula", 3, ing(202, "Quicksand", 1)),
	)
	fm := newFakeMarket().price(202, 100) // sum 100, yield 3 -> ceil(100/3)
	sess := craft.NewSession("Adamantoise", cat, fm, nil)

	cost, note := sess.EvaluateCost(context.Background(), 103)
	assert.Equal(t, 34, cost)
	assert.Equal(t, craft.NoteCraftOnly, note)
}

func TestEvaluateCost_ZeroOutputQtyUsesIngredientSum(t *testing.T) {
	// Zero yield: the ingredient sum is the unit cost, no division.
	cat := buildCatalog(
		recipe(130, "Phantom Batch", 0, ing(201, "Iron Ore", 2)),
	)
	fm := newFakeMarket().price(201, 10) // no listings for 130
	sess := craft.NewSession("Adamantoise", cat, fm, nil)

	cost, note := sess.EvaluateCost(context.Background(), 130)
	assert.Equal(t, 20, cost)
	assert.Equal(t, craft.NoteCraftOnly, note)
}

func TestEvaluateCost_NonPositiveIngredientQuantitiesIgnored(t *testing.T) {
	cat := buildCatalog(
		recipe(101, "Iron Ingot", 1,
			ing(201, "Iron Ore", 2),
			ing(299, "Legacy Filler", 0),
			ing(298, "Broken Entry", -3),
		),
	)
	fm := newFakeMarket().price(201, 10)
	sess := craft.NewSession("Adamantoise", cat, fm, nil)

	cost, _ := sess.EvaluateCost(context.Background(), 101)
	assert.Equal(t, 20, cost)
	assert.Zero(t, fm.calls[299], "no-op ingredients must not be priced")
	assert.Zero(t, fm.calls[298])
}

func TestEvaluateCost_MissingIngredientAbortsWithoutMemo(t *testing.T) {
	cat := buildCatalog(
		recipe(101, "Iron Ingot", 1, ing(201, "Iron Ore", 3)),
	)
	fm := newFakeMarket() // no data anywhere
	sess := craft.NewSession("Adamantoise", cat, fm, nil)

	cost, note := sess.EvaluateCost(context.Background(), 101)
	assert.Equal(t, 0, cost)
	assert.Equal(t, "missing ingredient cost for Iron Ore (201) [market-only]", note)

	// The failure itself is not memoized: a second call re-runs the
	// computation and fails again (the ingredient's cached zero now
	// short-circuits it), rather than answering "memoized".
	cost, note = sess.EvaluateCost(context.Background(), 101)
	assert.Equal(t, 0, cost)
	assert.Equal(t, "missing ingredient cost for Iron Ore (201) [memoized]", note)
	assert.Equal(t, 1, fm.calls[201], "the ingredient price is not refetched")
}

func TestEvaluateCost_DirectCycle(t *testing.T) {
	cat := buildCatalog(
		recipe(301, "Ouroboros Ring", 1, ing(301, "Ouroboros Ring", 1)),
	)
	fm := newFakeMarket()
	sess := craft.NewSession("Adamantoise", cat, fm, nil)

	cost, note := sess.EvaluateCost(context.Background(), 301)
	assert.Equal(t, 0, cost)
	assert.Contains(t, note, craft.NoteCycle)
}

func TestEvaluateCost_TransitiveCycleDoesNotCorruptSession(t *testing.T) {
	cat := buildCatalog(
		recipe(301, "Alpha", 1, ing(302, "Beta", 1)),
		recipe(302, "Beta", 1, ing(301, "Alpha", 1)),
		recipe(303, "Gamma", 1, ing(201, "Iron Ore", 2)),
	)
	fm := newFakeMarket().price(201, 10)
	sess := craft.NewSession("Adamantoise", cat, fm, nil)

	cost, note := sess.EvaluateCost(context.Background(), 301)
	assert.Equal(t, 0, cost)
	assert.Contains(t, note, craft.NoteCycle)

	// An unrelated item evaluated afterwards in the same session is fine.
	cost, note = sess.EvaluateCost(context.Background(), 303)
	assert.Equal(t, 20, cost)
	assert.Equal(t, craft.NoteCraftOnly, note)
}

func TestEvaluateCost_MemoizedResultIsStableWithinSession(t *testing.T) {
	fm := newFakeMarket().price(42, 100)
	sess := craft.NewSession("Adamantoise", buildCatalog(), fm, nil)

	cost, note := sess.EvaluateCost(context.Background(), 42)
	require.Equal(t, 100, cost)
	require.Equal(t, craft.NoteMarketOnly, note)

	// Market moves mid-session; the session must not notice.
	fm.price(42, 500)

	cost, note = sess.EvaluateCost(context.Background(), 42)
	assert.Equal(t, 100, cost)
	assert.Equal(t, craft.NoteMemoized, note)
	assert.Equal(t, 1, fm.calls[42])
}

func TestEvaluateCost_SessionsAreIndependent(t *testing.T) {
	fm := newFakeMarket().price(42, 100)
	cat := buildCatalog()

	first := craft.NewSession("Adamantoise", cat, fm, nil)
	cost, _ := first.EvaluateCost(context.Background(), 42)
	require.Equal(t, 100, cost)

	fm.price(42, 500)

	second := craft.NewSession("Adamantoise", cat, fm, nil)
	cost, note := second.EvaluateCost(context.Background(), 42)
	assert.Equal(t, 500, cost, "a fresh session sees the fresh snapshot")
	assert.Equal(t, craft.NoteMarketOnly, note)
}

func TestPrice_OneFetchPerItemPerSession(t *testing.T) {
	fm := newFakeMarket().price(7, 33)
	sess := craft.NewSession("Adamantoise", buildCatalog(), fm, nil)

	assert.Equal(t, 33, sess.Price(context.Background(), 7))
	assert.Equal(t, 33, sess.Price(context.Background(), 7))
	assert.Equal(t, 1, fm.calls[7])
}

func TestPrice_FailedLookupIsCachedAsZero(t *testing.T) {
	fm := newFakeMarket()
	fm.errs[7] = errors.New("timeout")
	sess := craft.NewSession("Adamantoise", buildCatalog(), fm, nil)

	assert.Equal(t, 0, sess.Price(context.Background(), 7))
	assert.Equal(t, 0, sess.Price(context.Background(), 7))
	assert.Equal(t, 1, fm.calls[7], "a failed lookup is not retried within the session")
}
