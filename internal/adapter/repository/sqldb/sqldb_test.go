package sqldb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/gget5897-gif/brainrot-bot/internal/domain"
	"github.com/gget5897-gif/brainrot-bot/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Connect(context.Background(), filepath.Join(t.TempDir(), "test.db"), logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func createListing(t *testing.T, repo *ListingRepository, sellerID int64, title string, createdAt time.Time) *domain.Listing {
	t.Helper()
	l, err := domain.NewListing(sellerID, title, "desc", "10", "@seller", createdAt, 72*time.Hour)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), l))
	require.NotZero(t, l.ID)
	return l
}

func TestParseDSN(t *testing.T) {
	tests := []struct {
		in     string
		driver Driver
		dsn    string
	}{
		{"", DriverSQLite, "file:brainrot_shop.db?" + sqlitePragmas},
		{"postgres://u:p@h/db", DriverPostgres, "postgres://u:p@h/db"},
		{"postgresql://h/db", DriverPostgres, "postgresql://h/db"},
		{"sqlite://shop.db", DriverSQLite, "file:shop.db?" + sqlitePragmas},
		{"sqlite:///var/shop.db", DriverSQLite, "file:/var/shop.db?" + sqlitePragmas},
		{"file:x.db?mode=memory", DriverSQLite, "file:x.db?mode=memory"},
		{"data/shop.db", DriverSQLite, "file:data/shop.db?" + sqlitePragmas},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			driver, dsn := ParseDSN(tt.in)
			assert.Equal(t, tt.driver, driver)
			assert.Equal(t, tt.dsn, dsn)
		})
	}
}

func TestRebind(t *testing.T) {
	q := `SELECT * FROM t WHERE a = ? AND b = ?`
	assert.Equal(t, q, rebind(DriverSQLite, q))
	assert.Equal(t, `SELECT * FROM t WHERE a = $1 AND b = $2`, rebind(DriverPostgres, q))
}

func TestMigrate_Idempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Migrate(context.Background()))
}

func TestListingRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewListingRepository(newTestDB(t), logger.NewNop())

	l := createListing(t, repo, 100, "Skibidi toilet", testNow)

	got, err := repo.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "Skibidi toilet", got.Title)
	assert.Equal(t, "seller", got.Contact)
	assert.Equal(t, testNow, got.CreatedAt)
	assert.Equal(t, testNow.Add(72*time.Hour), got.ExpiresAt)
	assert.Nil(t, got.LastExtendedAt)
	assert.False(t, got.ExpiryNotified)

	require.NoError(t, repo.UpdateField(ctx, l.ID, domain.FieldPrice, "25"))
	got, err = repo.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, "25", got.Price)

	err = repo.UpdateField(ctx, l.ID, domain.ListingField("seller_id"), "1")
	assert.ErrorIs(t, err, domain.ErrValidation)
	err = repo.UpdateField(ctx, 9999, domain.FieldPrice, "1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	deleted, err := repo.Delete(ctx, l.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = repo.Delete(ctx, l.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = repo.GetByID(ctx, l.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListingRepository_ActiveAndQuota(t *testing.T) {
	ctx := context.Background()
	repo := NewListingRepository(newTestDB(t), logger.NewNop())

	old := createListing(t, repo, 1, "old", testNow.Add(-80*time.Hour))
	a := createListing(t, repo, 1, "a", testNow.Add(-2*time.Hour))
	b := createListing(t, repo, 2, "b", testNow.Add(-time.Hour))

	active, err := repo.ListActive(ctx, testNow)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, a.ID, active[0].ID)
	assert.Equal(t, b.ID, active[1].ID)

	n, err := repo.CountActive(ctx, testNow)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	mine, err := repo.ListBySeller(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, a.ID, mine[0].ID)
	assert.Equal(t, old.ID, mine[1].ID)

	n, err = repo.CountCreatedSince(ctx, 1, testNow.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// rows are hard-deleted, so a deleted listing frees its slot
	_, err = repo.Delete(ctx, a.ID)
	require.NoError(t, err)
	n, err = repo.CountCreatedSince(ctx, 1, testNow.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestListingRepository_RenewAndExpiring(t *testing.T) {
	ctx := context.Background()
	repo := NewListingRepository(newTestDB(t), logger.NewNop())

	// expires at testNow+2h
	l := createListing(t, repo, 1, "soon", testNow.Add(-70*time.Hour))
	createListing(t, repo, 1, "later", testNow)

	due, err := repo.ListExpiring(ctx, testNow, testNow.Add(6*time.Hour))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, l.ID, due[0].ID)

	require.NoError(t, repo.MarkExpiryNotified(ctx, l.ID))
	due, err = repo.ListExpiring(ctx, testNow, testNow.Add(6*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, due)

	newExpiry := testNow.Add(72 * time.Hour)
	require.NoError(t, repo.Renew(ctx, l.ID, newExpiry, testNow))
	got, err := repo.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, newExpiry, got.ExpiresAt)
	require.NotNil(t, got.LastExtendedAt)
	assert.Equal(t, testNow, *got.LastExtendedAt)
	assert.False(t, got.ExpiryNotified)

	assert.ErrorIs(t, repo.Renew(ctx, 4242, newExpiry, testNow), domain.ErrNotFound)
}

func TestListingRepository_Unchecked(t *testing.T) {
	ctx := context.Background()
	repo := NewListingRepository(newTestDB(t), logger.NewNop())

	stale := createListing(t, repo, 1, "stale", testNow.Add(-71*time.Hour))
	createListing(t, repo, 1, "fresh", testNow.Add(-time.Hour))
	createListing(t, repo, 1, "expired", testNow.Add(-100*time.Hour))

	got, err := repo.ListUnchecked(ctx, testNow, testNow.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, stale.ID, got[0].ID)

	require.NoError(t, repo.TouchChecked(ctx, stale.ID, testNow))
	got, err = repo.ListUnchecked(ctx, testNow, testNow.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t), logger.NewNop())

	u, err := repo.Ensure(ctx, domain.Profile{ID: 5, Username: "ann"}, testNow)
	require.NoError(t, err)
	assert.Equal(t, "ann", u.Username)
	assert.Equal(t, testNow, u.RegisteredAt)

	require.NoError(t, repo.SetBan(ctx, 5, true, "scam"))
	require.NoError(t, repo.SetWhitelist(ctx, 5, true))
	require.NoError(t, repo.SetDailyLimit(ctx, 5, 2))

	// profile refresh keeps moderation columns and the registration time
	u, err = repo.RefreshProfile(ctx, domain.Profile{ID: 5, Username: "ann2", FirstName: "Ann"}, testNow.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "ann2", u.Username)
	assert.Equal(t, "Ann", u.FirstName)
	assert.True(t, u.IsBanned)
	assert.Equal(t, "scam", u.BanReason)
	assert.True(t, u.IsWhitelisted)
	assert.Equal(t, 2, u.DailyLimit)
	assert.Equal(t, testNow, u.RegisteredAt)

	require.NoError(t, repo.SetBan(ctx, 5, false, "ignored"))
	u, err = repo.GetByID(ctx, 5)
	require.NoError(t, err)
	assert.False(t, u.IsBanned)
	assert.Empty(t, u.BanReason)

	_, err = repo.GetByID(ctx, 77)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.SetBan(ctx, 77, true, "x"), domain.ErrNotFound)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestReviewRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewReviewRepository(newTestDB(t), logger.NewNop())

	mk := func(buyer int64, rating int, at time.Time) *domain.Review {
		rv, err := domain.NewReview(1, buyer, nil, rating, "ok", at)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, rv))
		return rv
	}
	r1 := mk(2, 5, testNow)
	r2 := mk(3, 4, testNow.Add(time.Minute))
	r3 := mk(4, 4, testNow.Add(-time.Minute))

	ids, err := repo.ListPendingIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{r3.ID, r1.ID, r2.ID}, ids)

	rating, err := repo.SellerRating(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, rating.Count)

	ok, err := repo.Approve(ctx, r1.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.Approve(ctx, r1.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = repo.Approve(ctx, r2.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	rating, err = repo.SellerRating(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.Rating{Average: 4.5, Count: 2}, rating)

	deleted, err := repo.Delete(ctx, r3.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	ids, err = repo.ListPendingIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	got, err := repo.GetByID(ctx, r1.ID)
	require.NoError(t, err)
	assert.True(t, got.IsModerated)
	assert.Nil(t, got.ListingID)

	assert.ErrorIs(t, repo.Create(ctx, &domain.Review{SellerID: 1, BuyerID: 2, Rating: 9}), domain.ErrValidation)
}

func TestAdminActionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewAdminActionRepository(newTestDB(t), logger.NewNop())

	target := int64(42)
	require.NoError(t, repo.Create(ctx, &domain.AdminAction{
		AdminID: 1, ActionType: domain.ActionBan, TargetID: &target,
		TargetType: domain.TargetUser, Reason: "spam", CreatedAt: testNow,
	}))
	require.NoError(t, repo.Create(ctx, &domain.AdminAction{
		AdminID: 1, ActionType: domain.ActionUnban, TargetID: &target,
		TargetType: domain.TargetUser, CreatedAt: testNow.Add(time.Minute),
	}))

	got, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.ActionUnban, got[0].ActionType)
	assert.Equal(t, domain.ActionBan, got[1].ActionType)
	assert.Equal(t, "spam", got[1].Reason)
	require.NotNil(t, got[1].TargetID)
	assert.Equal(t, int64(42), *got[1].TargetID)

	got, err = repo.ListRecent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
