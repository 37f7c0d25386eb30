package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/agriaid/pkg/log"
)

func newTestRepo(t *testing.T) *KnowledgeRepo {
	t.Helper()

	ctx, cleanup := log.NewContextWithLogger(context.Background(), false)
	t.Cleanup(cleanup)

	db, err := NewDB(ctx, filepath.Join(t.TempDir(), "agriaid.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewKnowledgeRepo(db)
}

func TestKnowledgeRepo_Agency(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	ctx := context.Background()

	da, err := repo.Agency(ctx, "DA")
	require.NoError(t, err)
	require.NotNil(t, da)
	assert.Equal(t, "Department of Agriculture", da.Name)
	assert.Equal(t, "1888", da.Hotline)

	missing, err := repo.Agency(ctx, "NASA")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestKnowledgeRepo_RegionalOfficeFor(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	ctx := context.Background()

	office, err := repo.RegionalOfficeFor(ctx, "La Trinidad, Benguet")
	require.NoError(t, err)
	require.NotNil(t, office)
	assert.Equal(t, "CAR", office.Region)

	none, err := repo.RegionalOfficeFor(ctx, "somewhere else entirely")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestKnowledgeRepo_ProvincialOfficeFor(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)

	office, err := repo.ProvincialOfficeFor(context.Background(), "barangay near Cebu City")
	require.NoError(t, err)
	require.NotNil(t, office)
	assert.Equal(t, "Cebu", office.Province)
}

func TestKnowledgeRepo_CropMatching(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	ctx := context.Background()

	crop, err := repo.CropMatching(ctx, "how do i plant rice in the wet season")
	require.NoError(t, err)
	require.NotNil(t, crop)
	assert.Equal(t, "palay", crop.Name)
	assert.Contains(t, crop.Aliases, "bigas")
	assert.NotEmpty(t, crop.BestPractices)

	none, err := repo.CropMatching(ctx, "strawberry jam recipe")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestKnowledgeRepo_Programs(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)

	programs, err := repo.Programs(context.Background())
	require.NoError(t, err)
	assert.Len(t, programs, 7)

	options, err := repo.FinancingOptions(context.Background())
	require.NoError(t, err)
	assert.Len(t, options, 4)
}

func TestKnowledgeRepo_PestsMatching(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	ctx := context.Background()

	byName, err := repo.PestsMatching(ctx, "how to control armyworm infestation")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "armyworm", byName[0].Name)
	assert.Contains(t, byName[0].Crops, "corn")

	byCrop, err := repo.PestsMatching(ctx, "pests attacking my palay field")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(byCrop), 3)
}

func TestKnowledgeRepo_Season(t *testing.T) {
	t.Parallel()

	repo := newTestRepo(t)
	ctx := context.Background()

	wet, err := repo.Season(ctx, "wet")
	require.NoError(t, err)
	require.NotNil(t, wet)
	assert.Equal(t, "June-November", wet.Months)
	assert.NotEmpty(t, wet.Activities)

	none, err := repo.Season(ctx, "typhoon")
	require.NoError(t, err)
	assert.Nil(t, none)
}
