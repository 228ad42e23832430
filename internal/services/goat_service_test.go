package services_test

import (
	"encoding/base64"
	"fmt"
	"os"
	"sync"
	"testing"

	"ternak/internal/models"
	"ternak/internal/repositories"
	"ternak/internal/services"
	"ternak/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockEventPublisher is a mock implementation of services.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishListingEvent(event string, payload map[string]interface{}) error {
	args := m.Called(event, payload)
	return args.Error(0)
}

// testGoatService wires a GoatService over in-memory repositories and a
// temp-dir blob store, the same shape main builds in production.
func testGoatService(t *testing.T, publisher services.EventPublisher) (*services.GoatService, *repositories.MockGoatRepository, *repositories.MockImageRepository, *storage.LocalStore, string) {
	t.Helper()

	dir := t.TempDir()
	blobs, err := storage.NewLocalStore(dir)
	require.NoError(t, err)

	goatRepo := repositories.NewMockGoatRepository()
	imageRepo := repositories.NewMockImageRepository()
	imageService := services.NewImageService(imageRepo, blobs)

	userRepo := new(MockUserRepository)
	userRepo.On("GetByID", "owner-1").Return(&models.User{
		ID:       "owner-1",
		Email:    "farmer@example.com",
		FarmName: "Green Valley",
		Address:  "Jl. Kambing 1",
	}, nil)

	svc := services.NewGoatService(goatRepo, userRepo, imageRepo, imageService, publisher)
	return svc, goatRepo, imageRepo, blobs, dir
}

func sampleGoat(tag string) *models.Goat {
	return &models.Goat{
		OwnerID:   "owner-1",
		RFIDTag:   tag,
		Name:      "G1",
		Gender:    "Male",
		Breed:     "Etawa",
		BirthDate: "2020-01-01",
		Weight:    10,
		Height:    20,
	}
}

func dataURI(content string) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte(content))
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return len(entries)
}

func TestGoatService_UpsertByTag_CreatesThenUpdates(t *testing.T) {
	svc, goatRepo, _, _, _ := testGoatService(t, nil)

	first, warnings, err := svc.UpsertByTag(sampleGoat("T1"), nil)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, models.StringList{"Healthy"}, first.HealthStatus)
	assert.False(t, first.AddedAt.IsZero())

	// Second registration under the same tag must mutate, not duplicate.
	second := sampleGoat("T1")
	second.Weight = 15
	updated, _, err := svc.UpsertByTag(second, nil)
	require.NoError(t, err)
	assert.Equal(t, first.ID, updated.ID)
	assert.Equal(t, 15.0, updated.Weight)

	goats, err := goatRepo.GetByOwner("owner-1")
	require.NoError(t, err)
	assert.Len(t, goats, 1)
	assert.Equal(t, 15.0, goats[0].Weight)
}

func TestGoatService_UpsertByTag_RejectsMissingTag(t *testing.T) {
	svc, _, _, _, _ := testGoatService(t, nil)

	goat := sampleGoat("  ")
	_, _, err := svc.UpsertByTag(goat, nil)
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestGoatService_UpsertByTag_UnknownOwner(t *testing.T) {
	dir := t.TempDir()
	blobs, err := storage.NewLocalStore(dir)
	require.NoError(t, err)

	goatRepo := repositories.NewMockGoatRepository()
	imageRepo := repositories.NewMockImageRepository()
	userRepo := new(MockUserRepository)
	userRepo.On("GetByID", "ghost").Return(nil, fmt.Errorf("user with ID ghost not found"))

	svc := services.NewGoatService(goatRepo, userRepo, imageRepo, services.NewImageService(imageRepo, blobs), nil)

	goat := sampleGoat("T1")
	goat.OwnerID = "ghost"
	_, _, err = svc.UpsertByTag(goat, nil)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestGoatService_UpsertByTag_ReplacesImages(t *testing.T) {
	svc, _, imageRepo, _, dir := testGoatService(t, nil)

	goat, _, err := svc.UpsertByTag(sampleGoat("T1"), []string{
		dataURI("one"), dataURI("two"), dataURI("three"),
	})
	require.NoError(t, err)

	images, err := imageRepo.GetByGoat(goat.ID)
	require.NoError(t, err)
	require.Len(t, images, 3)
	assert.Equal(t, 3, countFiles(t, dir))

	// An upsert carrying two new payloads fully replaces the three old ones,
	// records and blobs both.
	_, warnings, err := svc.UpsertByTag(sampleGoat("T1"), []string{
		dataURI("four"), dataURI("five"),
	})
	require.NoError(t, err)
	assert.Empty(t, warnings)

	images, err = imageRepo.GetByGoat(goat.ID)
	require.NoError(t, err)
	assert.Len(t, images, 2)
	assert.Equal(t, 2, countFiles(t, dir))
}

func TestGoatService_UpsertByTag_ConcurrentSameTag(t *testing.T) {
	svc, goatRepo, imageRepo, _, dir := testGoatService(t, nil)

	// Two simultaneous upserts for one tag must be serialized: afterwards
	// the image records and the blobs on disk describe exactly one batch.
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			payloads := []string{dataURI(fmt.Sprintf("a%d", n)), dataURI(fmt.Sprintf("b%d", n))}
			_, _, err := svc.UpsertByTag(sampleGoat("T1"), payloads)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	goat, err := goatRepo.GetByTag("T1")
	require.NoError(t, err)
	images, err := imageRepo.GetByGoat(goat.ID)
	require.NoError(t, err)
	assert.Len(t, images, 2)
	assert.Equal(t, len(images), countFiles(t, dir))
}

func TestGoatService_UpdateGoat(t *testing.T) {
	svc, _, _, _, _ := testGoatService(t, nil)

	goat, _, err := svc.UpsertByTag(sampleGoat("T1"), nil)
	require.NoError(t, err)

	price := 1500.0
	forSale := true
	updated, err := svc.UpdateGoat(goat.ID, models.GoatUpdate{
		SalePrice: &price,
		ForSale:   &forSale,
	})
	require.NoError(t, err)
	assert.Equal(t, 1500.0, updated.SalePrice)
	assert.True(t, updated.ForSale)
	// Untouched fields survive a partial update.
	assert.Equal(t, "G1", updated.Name)
	assert.Equal(t, 10.0, updated.Weight)

	_, err = svc.UpdateGoat("no-such-goat", models.GoatUpdate{SalePrice: &price})
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestGoatService_UpdateGoat_PublishesEvents(t *testing.T) {
	publisher := new(MockEventPublisher)
	publisher.On("PublishListingEvent", "goat.listed", mock.Anything).Return(nil).Once()
	publisher.On("PublishListingEvent", "goat.sold", mock.Anything).Return(nil).Once()

	svc, _, _, _, _ := testGoatService(t, publisher)

	goat, _, err := svc.UpsertByTag(sampleGoat("T1"), nil)
	require.NoError(t, err)

	forSale := true
	_, err = svc.UpdateGoat(goat.ID, models.GoatUpdate{ForSale: &forSale})
	require.NoError(t, err)

	sold := true
	_, err = svc.UpdateGoat(goat.ID, models.GoatUpdate{Sold: &sold})
	require.NoError(t, err)

	// Flipping sold again must not re-publish.
	_, err = svc.UpdateGoat(goat.ID, models.GoatUpdate{Sold: &sold})
	require.NoError(t, err)

	publisher.AssertExpectations(t)
}

func TestGoatService_DeleteGoat_Cascades(t *testing.T) {
	svc, _, imageRepo, _, dir := testGoatService(t, nil)

	goat, _, err := svc.UpsertByTag(sampleGoat("T1"), []string{dataURI("one"), dataURI("two")})
	require.NoError(t, err)

	warnings, err := svc.DeleteGoat(goat.ID)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	images, err := imageRepo.GetByGoat(goat.ID)
	require.NoError(t, err)
	assert.Empty(t, images)
	assert.Equal(t, 0, countFiles(t, dir))

	_, err = svc.GetGoat(goat.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = svc.DeleteGoat(goat.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestGoatService_GoatsForOwner_AnnotatesFirstImage(t *testing.T) {
	svc, _, _, _, _ := testGoatService(t, nil)

	withImages, _, err := svc.UpsertByTag(sampleGoat("T1"), []string{dataURI("one"), dataURI("two")})
	require.NoError(t, err)
	bare, _, err := svc.UpsertByTag(sampleGoat("T2"), nil)
	require.NoError(t, err)

	summaries, err := svc.GoatsForOwner("owner-1")
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	byID := map[string]models.GoatSummary{}
	for _, s := range summaries {
		byID[s.ID] = s
	}
	assert.Contains(t, byID[withImages.ID].ImageURL, "/uploads/")
	assert.Contains(t, byID[withImages.ID].ImageURL, "img0")
	assert.Empty(t, byID[bare.ID].ImageURL)
}

func TestGoatService_GetGoat_Detail(t *testing.T) {
	svc, _, _, _, _ := testGoatService(t, nil)

	goat, _, err := svc.UpsertByTag(sampleGoat("T1"), []string{dataURI("one"), dataURI("two")})
	require.NoError(t, err)

	detail, err := svc.GetGoat(goat.ID)
	require.NoError(t, err)
	assert.Len(t, detail.ImageURLs, 2)
	require.NotNil(t, detail.Owner)
	assert.Equal(t, "Green Valley", detail.Owner.FarmName)
	assert.Equal(t, "Jl. Kambing 1", detail.Owner.Address)
}

func TestGoatService_MarketplaceFeed(t *testing.T) {
	svc, _, _, _, _ := testGoatService(t, nil)

	listed := sampleGoat("T1")
	listed.ForSale = true
	listed.SalePrice = 2000
	_, _, err := svc.UpsertByTag(listed, []string{dataURI("one")})
	require.NoError(t, err)

	unlisted := sampleGoat("T2")
	_, _, err = svc.UpsertByTag(unlisted, nil)
	require.NoError(t, err)

	soldOut := sampleGoat("T3")
	soldOut.ForSale = true
	soldOut.Sold = true
	_, _, err = svc.UpsertByTag(soldOut, nil)
	require.NoError(t, err)

	feed, err := svc.MarketplaceFeed()
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "T1", feed[0].RFIDTag)
	assert.Equal(t, "Green Valley", feed[0].FarmName)
	assert.Equal(t, "Jl. Kambing 1", feed[0].FarmAddress)
	assert.Contains(t, feed[0].ImageURL, "/uploads/")
}
