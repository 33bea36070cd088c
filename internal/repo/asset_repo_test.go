package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Pissaia92/assetforge-plataform/internal/db"
	"github.com/Pissaia92/assetforge-plataform/pkg/logger"
)

func setupTestDB(t *testing.T) *db.DB {
	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	err = gormDB.AutoMigrate(&db.Asset{})
	require.NoError(t, err)

	return &db.DB{DB: gormDB}
}

func newTestRepo(t *testing.T) *AssetRepository {
	return NewAssetRepository(setupTestDB(t), logger.New("test", "error"))
}

func notebookSpec(serial string) AssetSpec {
	return AssetSpec{
		Name:         "Dev Laptop",
		AssetType:    db.TypeNotebook,
		Model:        "ThinkPad T14",
		SerialNumber: serial,
		Status:       db.StatusInStock,
	}
}

func TestCreateAndGetAsset(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, notebookSpec("SN-001"))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Nil(t, created.UpdatedAt)
	assert.Nil(t, created.Assignee)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dev Laptop", got.Name)
	assert.Equal(t, db.TypeNotebook, got.AssetType)
	assert.Equal(t, "ThinkPad T14", got.Model)
	assert.Equal(t, "SN-001", got.SerialNumber)
	assert.Equal(t, db.StatusInStock, got.Status)
	assert.Nil(t, got.UpdatedAt)
}

func TestCreateDefaultsStatus(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	spec := notebookSpec("SN-002")
	spec.Status = ""
	created, err := repo.Create(ctx, spec)
	require.NoError(t, err)
	assert.Equal(t, db.StatusInStock, created.Status)
}

func TestCreateDuplicateSerial(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, notebookSpec("SN-DUP"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, notebookSpec("SN-DUP"))
	assert.ErrorIs(t, err, ErrDuplicateSerial)

	// Conflict must never leave a second record behind.
	assets, err := repo.List(ctx, 0, 100)
	require.NoError(t, err)
	assert.Len(t, assets, 1)
}

func TestGetNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Get(context.Background(), 999)
	assert.ErrorIs(t, err, ErrAssetNotFound)
}

func TestListPagination(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	serials := []string{"SN-A", "SN-B", "SN-C"}
	for _, sn := range serials {
		_, err := repo.Create(ctx, notebookSpec(sn))
		require.NoError(t, err)
	}

	all, err := repo.List(ctx, 0, 100)
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Insertion order.
	assert.Equal(t, "SN-A", all[0].SerialNumber)
	assert.Equal(t, "SN-C", all[2].SerialNumber)

	page, err := repo.List(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "SN-B", page[0].SerialNumber)
}

func TestUpdateAsset(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, notebookSpec("SN-010"))
	require.NoError(t, err)
	require.Nil(t, created.UpdatedAt)

	updated, err := repo.Update(ctx, created.ID, AssetSpec{
		Name:         "Loaner Laptop",
		AssetType:    db.TypeNotebook,
		Model:        "ThinkPad X1",
		SerialNumber: "SN-010",
		Status:       db.StatusInRepair,
	})
	require.NoError(t, err)
	assert.Equal(t, "Loaner Laptop", updated.Name)
	assert.Equal(t, "ThinkPad X1", updated.Model)
	assert.Equal(t, db.StatusInRepair, updated.Status)
	require.NotNil(t, updated.UpdatedAt)
	assert.Equal(t, created.CreatedAt.Unix(), updated.CreatedAt.Unix())

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Loaner Laptop", got.Name)
	require.NotNil(t, got.UpdatedAt)
}

func TestUpdateNotFoundHasNoSideEffect(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, notebookSpec("SN-011"))
	require.NoError(t, err)

	_, err = repo.Update(ctx, 999, notebookSpec("SN-OTHER"))
	assert.ErrorIs(t, err, ErrAssetNotFound)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "SN-011", got.SerialNumber)
	assert.Nil(t, got.UpdatedAt)
}

func TestUpdateDoesNotTouchAssignee(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, notebookSpec("SN-012"))
	require.NoError(t, err)

	_, err = repo.UpdateStatusAndAssignee(ctx, created.ID, db.StatusInUse, "E42")
	require.NoError(t, err)

	updated, err := repo.Update(ctx, created.ID, notebookSpec("SN-012"))
	require.NoError(t, err)

	got, err := repo.Get(ctx, updated.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Assignee)
	assert.Equal(t, "E42", *got.Assignee)
}

func TestDeleteAsset(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, notebookSpec("SN-020"))
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "SN-020", deleted.SerialNumber)

	_, err = repo.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrAssetNotFound)

	_, err = repo.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, ErrAssetNotFound)
}

func TestUpdateStatusAndAssignee(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, notebookSpec("SN-030"))
	require.NoError(t, err)

	before := time.Now().UTC().Add(-time.Second)
	updated, err := repo.UpdateStatusAndAssignee(ctx, created.ID, db.StatusInUse, "E1")
	require.NoError(t, err)
	assert.Equal(t, db.StatusInUse, updated.Status)
	require.NotNil(t, updated.Assignee)
	assert.Equal(t, "E1", *updated.Assignee)
	require.NotNil(t, updated.UpdatedAt)
	assert.True(t, updated.UpdatedAt.After(before))

	_, err = repo.UpdateStatusAndAssignee(ctx, 999, db.StatusInUse, "E1")
	assert.ErrorIs(t, err, ErrAssetNotFound)
}

func TestCountByStatus(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	a, err := repo.Create(ctx, notebookSpec("SN-040"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, notebookSpec("SN-041"))
	require.NoError(t, err)
	_, err = repo.UpdateStatusAndAssignee(ctx, a.ID, db.StatusInUse, "E9")
	require.NoError(t, err)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[db.StatusInStock])
	assert.Equal(t, int64(1), counts[db.StatusInUse])
}
