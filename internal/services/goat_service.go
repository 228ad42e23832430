package services

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"ternak/internal/models"
	"ternak/internal/repositories"
)

// EventPublisher is the slice of the RabbitMQ client the goat service needs.
// A nil publisher is allowed; events are then skipped with a log line.
type EventPublisher interface {
	PublishListingEvent(event string, payload map[string]interface{}) error
}

// keyedMutex hands out one mutex per key, serializing upsert-plus-replace
// flows for the same RFID tag. Two concurrent upserts for one tag would
// otherwise interleave their cleanup and write phases.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for key and returns its unlock function. Mutexes
// are kept for the process lifetime; the key space (RFID tags) is small.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// GoatService handles business logic for goat records and the marketplace.
type GoatService struct {
	goatRepo  repositories.GoatRepository
	userRepo  repositories.UserRepository
	imageRepo repositories.ImageRepository
	images    *ImageService
	publisher EventPublisher
	tagLocks  *keyedMutex
}

// NewGoatService creates a new GoatService.
func NewGoatService(
	goatRepo repositories.GoatRepository,
	userRepo repositories.UserRepository,
	imageRepo repositories.ImageRepository,
	images *ImageService,
	publisher EventPublisher,
) *GoatService {
	return &GoatService{
		goatRepo:  goatRepo,
		userRepo:  userRepo,
		imageRepo: imageRepo,
		images:    images,
		publisher: publisher,
		tagLocks:  newKeyedMutex(),
	}
}

// UpsertByTag registers a goat under its RFID tag, or overwrites the mutable
// fields of the existing record for that tag. AddedAt is refreshed either
// way. When imagePayloads is non-empty, the batch fully replaces all images
// previously linked to the goat. The whole flow is serialized per tag.
func (s *GoatService) UpsertByTag(incoming *models.Goat, imagePayloads []string) (*models.Goat, []string, error) {
	tag := strings.TrimSpace(incoming.RFIDTag)
	if tag == "" {
		return nil, nil, fmt.Errorf("%w: rfidTag is required", ErrInvalidInput)
	}
	incoming.RFIDTag = tag

	// Verify the owner resolves to a real farm account before writing.
	if _, err := s.userRepo.GetByID(incoming.OwnerID); err != nil {
		return nil, nil, fmt.Errorf("%w: owner %s", ErrNotFound, incoming.OwnerID)
	}

	if len(incoming.HealthStatus) == 0 {
		incoming.HealthStatus = models.StringList{"Healthy"}
	}

	unlock := s.tagLocks.Lock(tag)
	defer unlock()

	var (
		goat      *models.Goat
		wasListed bool
	)

	existing, err := s.goatRepo.GetByTag(tag)
	if err == nil {
		// Full overwrite of the mutable fields; identity and bookkeeping
		// columns stay with the existing record.
		wasListed = existing.ForSale
		existing.OwnerID = incoming.OwnerID
		existing.Name = incoming.Name
		existing.Gender = incoming.Gender
		existing.Breed = incoming.Breed
		existing.BirthDate = incoming.BirthDate
		existing.Weight = incoming.Weight
		existing.Height = incoming.Height
		existing.HealthStatus = incoming.HealthStatus
		existing.SalePrice = incoming.SalePrice
		existing.ForSale = incoming.ForSale
		existing.Sold = incoming.Sold
		existing.AddedAt = time.Now()

		if err := s.goatRepo.Update(existing); err != nil {
			return nil, nil, fmt.Errorf("failed to upsert goat %s: %w", tag, err)
		}
		goat = existing
	} else {
		incoming.AddedAt = time.Now()
		if err := s.goatRepo.Create(incoming); err != nil {
			return nil, nil, fmt.Errorf("failed to create goat %s: %w", tag, err)
		}
		goat = incoming
	}

	var warnings []string
	if len(imagePayloads) > 0 {
		_, warnings, err = s.images.ReplaceImages(goat.ID, imagePayloads)
		if err != nil {
			return nil, warnings, fmt.Errorf("failed to replace images for goat %s: %w", goat.ID, err)
		}
	}

	if goat.ForSale && !wasListed {
		s.publishEvent("goat.listed", goat)
	}

	return goat, warnings, nil
}

// UpdateGoat applies a partial marketplace update (commonly price, for-sale
// and sold flags) to an existing goat.
func (s *GoatService) UpdateGoat(id string, upd models.GoatUpdate) (*models.Goat, error) {
	goat, err := s.goatRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: goat with ID %s", ErrNotFound, id)
	}

	wasListed := goat.ForSale
	wasSold := goat.Sold

	if upd.Name != nil {
		goat.Name = *upd.Name
	}
	if upd.Breed != nil {
		goat.Breed = *upd.Breed
	}
	if upd.Weight != nil {
		goat.Weight = *upd.Weight
	}
	if upd.Height != nil {
		goat.Height = *upd.Height
	}
	if upd.HealthStatus != nil {
		goat.HealthStatus = *upd.HealthStatus
	}
	if upd.SalePrice != nil {
		goat.SalePrice = *upd.SalePrice
	}
	if upd.ForSale != nil {
		goat.ForSale = *upd.ForSale
	}
	if upd.Sold != nil {
		goat.Sold = *upd.Sold
	}

	if err := s.goatRepo.Update(goat); err != nil {
		return nil, fmt.Errorf("failed to update goat %s: %w", id, err)
	}

	if goat.ForSale && !wasListed {
		s.publishEvent("goat.listed", goat)
	}
	if goat.Sold && !wasSold {
		s.publishEvent("goat.sold", goat)
	}

	return goat, nil
}

// DeleteGoat removes a goat and cascades to its image metadata. Blob removal
// is attempted for every image; failures come back as warnings rather than
// aborting the delete.
func (s *GoatService) DeleteGoat(id string) ([]string, error) {
	if _, err := s.goatRepo.GetByID(id); err != nil {
		return nil, fmt.Errorf("%w: goat with ID %s", ErrNotFound, id)
	}

	warnings := s.images.Cleanup(id)

	if err := s.goatRepo.Delete(id); err != nil {
		return warnings, fmt.Errorf("failed to delete goat %s: %w", id, err)
	}
	return warnings, nil
}

// GoatsForOwner lists an owner's goats newest-first, each annotated with the
// URL of its first image.
func (s *GoatService) GoatsForOwner(ownerID string) ([]models.GoatSummary, error) {
	goats, err := s.goatRepo.GetByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goats for owner %s: %w", ownerID, err)
	}

	summaries := make([]models.GoatSummary, 0, len(goats))
	for _, g := range goats {
		summary := models.GoatSummary{Goat: g}
		if images, err := s.imageRepo.GetByGoat(g.ID); err == nil && len(images) > 0 {
			summary.ImageURL = images[0].URL
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// GetGoat returns a single goat with its full ordered image list and a
// snapshot of the owning farm's public fields.
func (s *GoatService) GetGoat(id string) (*models.GoatDetail, error) {
	goat, err := s.goatRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: goat with ID %s", ErrNotFound, id)
	}

	detail := models.GoatDetail{
		Goat:      *goat,
		ImageURLs: make([]string, 0),
	}

	if images, err := s.imageRepo.GetByGoat(goat.ID); err == nil {
		for _, img := range images {
			detail.ImageURLs = append(detail.ImageURLs, img.URL)
		}
	}

	// Historical records stored the owner reference inconsistently; a lookup
	// miss degrades to a nil owner snapshot rather than failing the read.
	if owner, err := s.userRepo.GetByID(goat.OwnerID); err == nil {
		profile := owner.PublicProfile()
		detail.Owner = &profile
	}

	return &detail, nil
}

// MarketplaceFeed returns every goat flagged for sale, newest listed first,
// annotated with its first image and the selling farm's name and address.
func (s *GoatService) MarketplaceFeed() ([]models.Listing, error) {
	goats, err := s.goatRepo.GetForSale()
	if err != nil {
		return nil, fmt.Errorf("failed to load marketplace feed: %w", err)
	}

	listings := make([]models.Listing, 0, len(goats))
	for _, g := range goats {
		listing := models.Listing{Goat: g}
		if images, err := s.imageRepo.GetByGoat(g.ID); err == nil && len(images) > 0 {
			listing.ImageURL = images[0].URL
		}
		if owner, err := s.userRepo.GetByID(g.OwnerID); err == nil {
			listing.FarmName = owner.FarmName
			listing.FarmAddress = owner.Address
		}
		listings = append(listings, listing)
	}
	return listings, nil
}

// publishEvent sends a marketplace event if a publisher is configured. A
// publish failure only logs a warning; the store write has already happened.
func (s *GoatService) publishEvent(event string, goat *models.Goat) {
	if s.publisher == nil {
		log.Println("RabbitMQ client is not initialized. Skipping message publication.")
		return
	}

	payload := map[string]interface{}{
		"goatID":    goat.ID,
		"rfidTag":   goat.RFIDTag,
		"ownerID":   goat.OwnerID,
		"salePrice": goat.SalePrice,
	}
	if err := s.publisher.PublishListingEvent(event, payload); err != nil {
		log.Printf("Warning: Failed to publish %s event for goat %s: %v", event, goat.ID, err)
	} else {
		log.Printf("Successfully published %s event for goat %s", event, goat.ID)
	}
}
