package cart

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wouhouch/hub/internal/domain/catalog"
	"github.com/wouhouch/hub/internal/infrastructure/localstore"
	"github.com/wouhouch/hub/internal/pkg/logger"
	"github.com/wouhouch/hub/internal/pkg/notify"
)

func product(id, title, price string) catalog.Product {
	return catalog.Product{ID: id, Title: title, Price: decimal.RequireFromString(price), IsActive: true}
}

func newStorage(t *testing.T, backend localstore.Backend) *localstore.Storage {
	t.Helper()
	s, err := localstore.New(backend, "browser-1")
	require.NoError(t, err)
	return s
}

func newStore(t *testing.T) (*Store, *localstore.Storage, *notify.Collector) {
	t.Helper()
	storage := newStorage(t, localstore.NewMemoryBackend())
	n := notify.NewCollector()
	return NewStore(context.Background(), storage, n, logger.Discard()), storage, n
}

func TestAddItem_MergesSameSelection(t *testing.T) {
	ctx := context.Background()
	store, _, n := newStore(t)
	a := product("A", "Whey", "10")

	store.AddItem(ctx, a, nil, 2)
	snap := store.AddItem(ctx, a, nil, 3)

	require.Len(t, snap.Items, 1)
	assert.Equal(t, 5, snap.Items[0].Qty)
	assert.True(t, decimal.NewFromInt(50).Equal(snap.Total))
	assert.Equal(t, 5, snap.ItemCount)

	assert.Equal(t, []notify.Notification{
		{Level: notify.LevelSuccess, Message: "Added Whey to cart"},
		{Level: notify.LevelSuccess, Message: "Updated Whey quantity"},
	}, n.Drain())
}

func TestAddItem_VariantsAreSeparateLines(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newStore(t)
	tee := product("T", "Tee", "25")
	m := &catalog.Variant{ID: "m", ProductID: "T", Type: catalog.VariantSize, Value: "M"}
	l := &catalog.Variant{ID: "l", ProductID: "T", Type: catalog.VariantSize, Value: "L"}

	store.AddItem(ctx, tee, m, 1)
	store.AddItem(ctx, tee, l, 1)
	store.AddItem(ctx, tee, nil, 1)
	store.AddItem(ctx, tee, m, 4)

	items := store.Items()
	require.Len(t, items, 3)
	assert.Equal(t, 5, items[0].Qty)
	assert.Equal(t, "l", items[1].VariantID())
	assert.Equal(t, "", items[2].VariantID())
}

func TestAddItem_RepeatedAddsSumQuantities(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newStore(t)
	a := product("A", "Creatine", "3.5")

	want := 0
	for _, q := range []int{1, 4, 2, 7, 1} {
		store.AddItem(ctx, a, nil, q)
		want += q
	}

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, want, items[0].Qty)
	assert.Equal(t, want, store.ItemCount())
	assert.True(t, decimal.RequireFromString("52.5").Equal(store.Total()))
}

func TestAddItem_NonPositiveQtyDefaultsToOne(t *testing.T) {
	store, _, _ := newStore(t)
	snap := store.AddItem(context.Background(), product("A", "A", "1"), nil, 0)
	assert.Equal(t, 1, snap.ItemCount)
}

func TestTotals_MixedCart(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newStore(t)

	store.AddItem(ctx, product("A", "A", "10"), nil, 1)
	snap := store.AddItem(ctx, product("B", "B", "5"), nil, 2)

	assert.Equal(t, 3, snap.ItemCount)
	assert.True(t, decimal.NewFromInt(20).Equal(snap.Total))
	assert.Equal(t, snap.ItemCount, store.ItemCount())
	assert.True(t, snap.Total.Equal(store.Total()))
}

func TestUpdateQuantity(t *testing.T) {
	tests := []struct {
		name    string
		qty     int
		wantLen int
	}{
		{name: "absolute set", qty: 7, wantLen: 1},
		{name: "zero removes", qty: 0, wantLen: 0},
		{name: "negative removes", qty: -5, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store, _, _ := newStore(t)
			store.AddItem(ctx, product("A", "A", "2"), nil, 3)

			snap := store.UpdateQuantity(ctx, "A", tt.qty, "")
			require.Len(t, snap.Items, tt.wantLen)
			if tt.wantLen == 1 {
				assert.Equal(t, tt.qty, snap.Items[0].Qty)
				assert.True(t, decimal.NewFromInt(14).Equal(snap.Total))
			}
		})
	}
}

func TestUpdateQuantity_ZeroEqualsRemove(t *testing.T) {
	ctx := context.Background()
	viaUpdate, _, _ := newStore(t)
	viaRemove, _, _ := newStore(t)

	for _, s := range []*Store{viaUpdate, viaRemove} {
		s.AddItem(ctx, product("A", "A", "2"), nil, 3)
		s.AddItem(ctx, product("B", "B", "4"), nil, 1)
	}

	viaUpdate.UpdateQuantity(ctx, "A", 0, "")
	viaRemove.RemoveItem(ctx, "A", "")

	assert.Equal(t, viaRemove.Items(), viaUpdate.Items())
}

func TestRemoveItem_MissingIsNoop(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newStore(t)
	store.AddItem(ctx, product("A", "A", "2"), nil, 1)

	snap := store.RemoveItem(ctx, "Z", "")
	assert.Len(t, snap.Items, 1)

	snap = store.RemoveItem(ctx, "A", "some-variant")
	assert.Len(t, snap.Items, 1)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	store, storage, _ := newStore(t)
	store.AddItem(ctx, product("A", "A", "2"), nil, 1)

	snap := store.Clear(ctx)
	assert.Empty(t, snap.Items)
	assert.True(t, snap.Total.IsZero())

	raw, ok, err := storage.GetItem(ctx, localstore.KeyCart)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", raw)
}

func TestPersistence_RoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := localstore.NewMemoryBackend()
	storage := newStorage(t, backend)

	first := NewStore(ctx, storage, nil, logger.Discard())
	first.AddItem(ctx, product("A", "Whey", "89.90"), &catalog.Variant{ID: "v1", ProductID: "A", Type: catalog.VariantFlavor, Value: "Vanilla", Stock: 3}, 2)
	first.AddItem(ctx, product("B", "Tee", "25"), nil, 1)

	second := NewStore(ctx, newStorage(t, backend), nil, logger.Discard())

	want, err := json.Marshal(first.Items())
	require.NoError(t, err)
	got, err := json.Marshal(second.Items())
	require.NoError(t, err)
	assert.JSONEq(t, string(want), string(got))
	assert.Len(t, second.Items(), 2)
	assert.True(t, first.Total().Equal(second.Total()))
}

func TestLoad_CorruptPayloadYieldsEmptyCart(t *testing.T) {
	ctx := context.Background()
	storage := newStorage(t, localstore.NewMemoryBackend())
	require.NoError(t, storage.SetItem(ctx, localstore.KeyCart, "{not json"))

	store := NewStore(ctx, storage, nil, logger.Discard())
	assert.Empty(t, store.Items())
	assert.Equal(t, 0, store.ItemCount())
}

func TestLoad_DropsInvalidLines(t *testing.T) {
	ctx := context.Background()
	storage := newStorage(t, localstore.NewMemoryBackend())
	require.NoError(t, storage.SetItem(ctx, localstore.KeyCart,
		`[{"product":{"id":"A","title":"A","price":1,"collection":"APPAREL"},"qty":2},{"product":{"id":"B","collection":"APPAREL"},"qty":0}]`))

	store := NewStore(ctx, storage, nil, logger.Discard())
	require.Len(t, store.Items(), 1)
	assert.Equal(t, "A", store.Items()[0].Product.ID)
}

type failingBackend struct{ localstore.Backend }

func (failingBackend) Get(context.Context, string, string) (string, bool, error) {
	return "", false, errors.New("storage down")
}

func (failingBackend) Set(context.Context, string, string, string) error {
	return errors.New("storage down")
}

func TestStorageFailuresAreNotFatal(t *testing.T) {
	ctx := context.Background()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	store := NewStore(ctx, newStorage(t, failingBackend{}), nil, log)
	snap := store.AddItem(ctx, product("A", "A", "2"), nil, 2)
	assert.Equal(t, 2, snap.ItemCount)
}

type countingRecorder struct{ kinds []string }

func (c *countingRecorder) RecordCartMutation(kind string) { c.kinds = append(c.kinds, kind) }

func TestSubscribeAndRecorder(t *testing.T) {
	ctx := context.Background()
	rec := &countingRecorder{}
	store := NewStore(ctx, newStorage(t, localstore.NewMemoryBackend()), nil, logger.Discard(), WithRecorder(rec))

	var counts []int
	unsubscribe := store.Subscribe(func(s Snapshot) { counts = append(counts, s.ItemCount) })

	store.AddItem(ctx, product("A", "A", "1"), nil, 2)
	store.UpdateQuantity(ctx, "A", 5, "")
	unsubscribe()
	store.Clear(ctx)

	assert.Equal(t, []int{2, 5}, counts)
	assert.Equal(t, []string{"add", "update", "clear"}, rec.kinds)
}
