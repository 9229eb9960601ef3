package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/openshelf/stockroom/internal/actorcontext"
	"github.com/openshelf/stockroom/internal/clock"
	logdomain "github.com/openshelf/stockroom/internal/inventorylog/domain"
	logrepository "github.com/openshelf/stockroom/internal/inventorylog/repository"
	"github.com/openshelf/stockroom/internal/product/domain"
	"github.com/openshelf/stockroom/internal/product/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	// one named in-memory database per test, shared across pooled connections
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	db.Exec(`CREATE TABLE IF NOT EXISTS products (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		unit TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		brand TEXT NOT NULL DEFAULT '',
		stock INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		image TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`)
	db.Exec(`CREATE TABLE IF NOT EXISTS inventory_logs (
		id BIGINT PRIMARY KEY,
		product_id BIGINT NOT NULL,
		old_quantity INTEGER NOT NULL,
		new_quantity INTEGER NOT NULL,
		delta INTEGER NOT NULL,
		actor TEXT NOT NULL DEFAULT 'system',
		created_at TIMESTAMP NOT NULL
	)`)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return &Service{
		db:      db,
		log:     zaptest.NewLogger(t),
		genID:   node,
		clock:   clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
		repo:    repository.Provide(),
		logRepo: logrepository.Provide(),
	}, db
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func logCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Table("inventory_logs").Count(&n).Error)
	return n
}

func TestCreateDerivesStatus(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	inStock, err := svc.Create(ctx, domain.CreateRequest{Name: "Widget", Stock: intPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInStock, inStock.Status)

	outOfStock, err := svc.Create(ctx, domain.CreateRequest{Name: "Gadget"})
	require.NoError(t, err)
	assert.Equal(t, 0, outOfStock.Stock)
	assert.Equal(t, domain.StatusOutOfStock, outOfStock.Status)
}

func TestCreateValidation(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(ctx, domain.CreateRequest{Name: "Widget", Stock: intPtr(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidStock)

	assert.Equal(t, int64(0), logCount(t, db))
}

func TestUpdateStockChangeWritesOneLogEntry(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{Name: "Widget", Stock: intPtr(5)})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, domain.UpdateRequest{ID: created.ID, Stock: intPtr(2)})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Stock)
	assert.Equal(t, domain.StatusInStock, updated.Status)

	entries, err := svc.History(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 5, entries[0].OldQuantity)
	assert.Equal(t, 2, entries[0].NewQuantity)
	assert.Equal(t, -3, entries[0].Delta)
	assert.Equal(t, "system", entries[0].Actor)

	assert.Equal(t, int64(1), logCount(t, db))
}

func TestUpdateWithoutStockWritesNoLogEntry(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{Name: "Widget", Stock: intPtr(5)})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, domain.UpdateRequest{ID: created.ID, Name: strPtr("Widget Pro")})
	require.NoError(t, err)
	assert.Equal(t, "Widget Pro", updated.Name)
	assert.Equal(t, 5, updated.Stock)
	assert.Equal(t, int64(0), logCount(t, db))
}

func TestUpdateUnchangedStockWritesNoLogEntry(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{Name: "Widget", Stock: intPtr(5)})
	require.NoError(t, err)

	_, err = svc.Update(ctx, domain.UpdateRequest{ID: created.ID, Stock: intPtr(5)})
	require.NoError(t, err)
	assert.Equal(t, int64(0), logCount(t, db))
}

func TestUpdateToZeroDerivesOutOfStock(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{Name: "Widget", Stock: intPtr(5)})
	require.NoError(t, err)

	// partial update that touches other fields alongside stock
	updated, err := svc.Update(ctx, domain.UpdateRequest{
		ID:    created.ID,
		Brand: strPtr("Acme"),
		Stock: intPtr(0),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOutOfStock, updated.Status)
	assert.Equal(t, "Acme", updated.Brand)

	entries, err := svc.History(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, -5, entries[0].Delta)
}

func TestUpdateActorFromContext(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := actorcontext.WithActor(context.Background(), "alice")

	created, err := svc.Create(ctx, domain.CreateRequest{Name: "Widget", Stock: intPtr(1)})
	require.NoError(t, err)

	_, err = svc.Update(ctx, domain.UpdateRequest{ID: created.ID, Stock: intPtr(4)})
	require.NoError(t, err)

	entries, err := svc.History(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "alice", entries[0].Actor)
}

func TestUpdateNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Update(context.Background(), domain.UpdateRequest{ID: "12345", Stock: intPtr(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Update(context.Background(), domain.UpdateRequest{ID: "not-a-number"})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

type failingLogRepo struct {
	logdomain.Repository
	err error
}

func (f *failingLogRepo) Insert(ctx context.Context, db *gorm.DB, entry *logdomain.Entry) error {
	_ = ctx
	_ = db
	_ = entry
	return f.err
}

type failingProductRepo struct {
	domain.Repository
	updateErr    error
	failCreateAt int
	creates      int
}

func (f *failingProductRepo) Update(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	return f.Repository.Update(ctx, db, product)
}

func (f *failingProductRepo) Create(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	f.creates++
	if f.failCreateAt > 0 && f.creates >= f.failCreateAt {
		return errors.New("insert rejected")
	}
	return f.Repository.Create(ctx, db, product)
}

func TestUpdateSucceedsWhenLogInsertFails(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{Name: "Widget", Stock: intPtr(5)})
	require.NoError(t, err)

	svc.logRepo = &failingLogRepo{Repository: svc.logRepo, err: errors.New("log store down")}

	// the product write committed, so the update reports success even
	// though no audit entry could be recorded
	updated, err := svc.Update(ctx, domain.UpdateRequest{ID: created.ID, Stock: intPtr(2)})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Stock)

	stored, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Stock)
	assert.Equal(t, int64(0), logCount(t, db))
}

func TestFailedPersistWritesNoLogEntry(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{Name: "Widget", Stock: intPtr(5)})
	require.NoError(t, err)

	realRepo := svc.repo
	svc.repo = &failingProductRepo{Repository: realRepo, updateErr: errors.New("write rejected")}

	_, err = svc.Update(ctx, domain.UpdateRequest{ID: created.ID, Stock: intPtr(2)})
	require.Error(t, err)
	assert.Equal(t, int64(0), logCount(t, db))

	svc.repo = realRepo
	stored, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Stock)
}

func TestListFiltersAndPagination(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for i := 1; i <= 25; i++ {
		_, err := svc.Create(ctx, domain.CreateRequest{
			Name:     fmt.Sprintf("Widget %02d", i),
			Category: "Hardware",
			Stock:    intPtr(i),
		})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, domain.CreateRequest{Name: "Gadget", Category: "Electronics"})
	require.NoError(t, err)

	t.Run("NameSubstringCaseInsensitive", func(t *testing.T) {
		resp, err := svc.List(ctx, domain.ListRequest{Name: "wIdGeT", Page: 1, Size: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(25), resp.Total)
		for _, item := range resp.Items {
			assert.True(t, strings.Contains(strings.ToLower(item.Name), "widget"))
		}
	})

	t.Run("CategoryExactMatch", func(t *testing.T) {
		resp, err := svc.List(ctx, domain.ListRequest{Category: "Electronics", Page: 1, Size: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.Total)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "Gadget", resp.Items[0].Name)
	})

	t.Run("SecondPage", func(t *testing.T) {
		resp, err := svc.List(ctx, domain.ListRequest{Name: "Widget", Page: 2, Size: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(25), resp.Total)
		require.Len(t, resp.Items, 10)
		assert.Equal(t, "Widget 11", resp.Items[0].Name)
		assert.Equal(t, "Widget 20", resp.Items[9].Name)
	})

	t.Run("SortByStockDescending", func(t *testing.T) {
		resp, err := svc.List(ctx, domain.ListRequest{Name: "Widget", Page: 1, Size: 5, SortBy: "stock", OrderBy: "desc"})
		require.NoError(t, err)
		require.Len(t, resp.Items, 5)
		assert.Equal(t, 25, resp.Items[0].Stock)
		assert.Equal(t, 21, resp.Items[4].Stock)
	})

	t.Run("UnknownSortFallsBackToName", func(t *testing.T) {
		resp, err := svc.List(ctx, domain.ListRequest{Page: 1, Size: 5, SortBy: "; DROP TABLE products"})
		require.NoError(t, err)
		require.Len(t, resp.Items, 5)
		assert.Equal(t, "Gadget", resp.Items[0].Name)
	})
}

func TestDeleteKeepsHistory(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{Name: "Widget", Stock: intPtr(5)})
	require.NoError(t, err)
	_, err = svc.Update(ctx, domain.UpdateRequest{ID: created.ID, Stock: intPtr(8)})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	resp, err := svc.List(ctx, domain.ListRequest{Page: 1, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.Total)

	// the audit trail outlives the product
	entries, err := svc.History(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 3, entries[0].Delta)
}

func TestDeleteNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	assert.ErrorIs(t, svc.Delete(context.Background(), "99999"), domain.ErrNotFound)
}

func TestImportAppliesRowPolicy(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	input := strings.NewReader(strings.Join([]string{
		"name,category,stock,status,image",
		"Hammer,Tools,12,In Stock,",
		" ,,abc,Bogus,",
		"Screwdriver,,5,Out of Stock,http://img/s.png",
	}, "\n"))

	created, err := svc.Import(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, 3, created)
	assert.Equal(t, int64(0), logCount(t, db), "import must not write audit entries")

	resp, err := svc.List(ctx, domain.ListRequest{Page: 1, Size: 10})
	require.NoError(t, err)
	require.Equal(t, int64(3), resp.Total)

	byName := map[string]domain.Response{}
	for _, item := range resp.Items {
		byName[item.Name] = item
	}

	blank := byName["Unnamed Product"]
	assert.Equal(t, "General", blank.Category)
	assert.Equal(t, 0, blank.Stock)
	assert.Equal(t, domain.StatusOutOfStock, blank.Status)

	// a stock-inconsistent status column is ignored; status is derived
	screwdriver := byName["Screwdriver"]
	assert.Equal(t, 5, screwdriver.Stock)
	assert.Equal(t, domain.StatusInStock, screwdriver.Status)
	assert.Equal(t, "General", screwdriver.Category)
}

func TestImportAbortsOnPersistFailure(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	svc.repo = &failingProductRepo{Repository: svc.repo, failCreateAt: 2}

	input := strings.NewReader(strings.Join([]string{
		"name,category,stock,status,image",
		"Hammer,Tools,12,,",
		"Screwdriver,Tools,5,,",
		"Wrench,Tools,3,,",
	}, "\n"))

	created, err := svc.Import(ctx, input)
	require.Error(t, err)
	assert.Equal(t, 1, created, "rows committed before the failure stay counted")

	// the first row stays committed; nothing after the failure lands
	var total int64
	require.NoError(t, db.Table("products").Count(&total).Error)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, int64(0), logCount(t, db))
}

func TestExportRoundTripsHeaderAndRows(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{
		Name: "Widget", Unit: "pcs", Category: "Hardware", Brand: "Acme", Stock: intPtr(7),
	})
	require.NoError(t, err)

	var out strings.Builder
	require.NoError(t, svc.Export(ctx, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "name,unit,category,brand,stock,status,image", lines[0])
	assert.Equal(t, "Widget,pcs,Hardware,Acme,7,In Stock,", lines[1])
}

func TestExportQuotesCommaValues(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{Name: "Bolt, hex", Stock: intPtr(1)})
	require.NoError(t, err)

	var out strings.Builder
	require.NoError(t, svc.Export(ctx, &out))
	assert.Contains(t, out.String(), `"Bolt, hex"`)
}
