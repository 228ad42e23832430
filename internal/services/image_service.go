package services

import (
	"encoding/base64"
	"fmt"
	"log"
	"regexp"
	"sort"
	"sync"
	"time"

	"ternak/internal/models"
	"ternak/internal/repositories"
	"ternak/internal/storage"
)

// dataURIPattern matches inline image payloads of the form
// "data:image/jpeg;base64,<payload>". Entries that don't match are skipped,
// never failed.
var dataURIPattern = regexp.MustCompile(`^data:([a-zA-Z0-9.+/-]+);base64,(.+)$`)

// extByMediaType maps declared media types to blob file extensions. Anything
// unknown falls back to .jpg, matching the historical naming scheme.
var extByMediaType = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageService converts batches of inline base64 images into blobs plus
// metadata records, and cleans up superseded ones.
type ImageService struct {
	imageRepo repositories.ImageRepository
	blobs     storage.BlobStore
}

// NewImageService creates a new ImageService.
func NewImageService(imageRepo repositories.ImageRepository, blobs storage.BlobStore) *ImageService {
	return &ImageService{
		imageRepo: imageRepo,
		blobs:     blobs,
	}
}

// ReplaceImages removes every image currently linked to the goat (records and
// blobs) and writes the new batch in its place. Per-item failures are
// collected as warnings; the batch itself never aborts.
func (s *ImageService) ReplaceImages(goatID string, payloads []string) ([]models.Image, []string, error) {
	warnings := s.Cleanup(goatID)

	images, writeWarnings, err := s.AddImages(goatID, payloads)
	warnings = append(warnings, writeWarnings...)
	return images, warnings, err
}

// AddImages decodes and persists a batch of inline base64 payloads for the
// goat. Writes run concurrently; the method waits for all of them before
// returning. Invalid entries are skipped with an indexed warning.
func (s *ImageService) AddImages(goatID string, payloads []string) ([]models.Image, []string, error) {
	type entry struct {
		index int
		data  []byte
		ext   string
	}

	var entries []entry
	var warnings []string

	for i, payload := range payloads {
		match := dataURIPattern.FindStringSubmatch(payload)
		if match == nil {
			warnings = append(warnings, fmt.Sprintf("image %d: not a valid data URI, skipped", i))
			continue
		}

		data, err := base64.StdEncoding.DecodeString(match[2])
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("image %d: base64 decode failed, skipped", i))
			continue
		}

		ext, ok := extByMediaType[match[1]]
		if !ok {
			ext = ".jpg"
		}
		entries = append(entries, entry{index: i, data: data, ext: ext})
	}

	now := time.Now().UnixMilli()

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		images []models.Image
	)

	for _, e := range entries {
		wg.Add(1)
		go func(e entry) {
			defer wg.Done()

			fileName := fmt.Sprintf("%d_%s_img%d%s", now, goatID, e.index, e.ext)
			if err := s.blobs.Save(fileName, e.data); err != nil {
				mu.Lock()
				warnings = append(warnings, fmt.Sprintf("image %d: %v", e.index, err))
				mu.Unlock()
				return
			}

			gid := goatID
			img := models.Image{
				GoatID:   &gid,
				FileName: fileName,
				URL:      s.blobs.URL(fileName),
				Position: e.index,
			}
			if err := s.imageRepo.Create(&img); err != nil {
				mu.Lock()
				warnings = append(warnings, fmt.Sprintf("image %d: %v", e.index, err))
				mu.Unlock()
				return
			}

			mu.Lock()
			images = append(images, img)
			mu.Unlock()
		}(e)
	}
	wg.Wait()

	sort.Slice(images, func(i, j int) bool {
		return images[i].Position < images[j].Position
	})
	return images, warnings, nil
}

// SaveUpload persists a single already-decoded file, as received by the
// legacy multipart upload route. Unlike the batch path it is additive: it
// never touches images already linked to the goat.
func (s *ImageService) SaveUpload(goatID *string, originalName string, data []byte, notes string) (*models.Image, error) {
	owner := "unlinked"
	if goatID != nil {
		owner = *goatID
	}
	fileName := fmt.Sprintf("%d_%s_img0.jpg", time.Now().UnixMilli(), owner)
	_ = originalName // original name is not preserved; the composed name avoids collisions

	if err := s.blobs.Save(fileName, data); err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	img := models.Image{
		GoatID:   goatID,
		FileName: fileName,
		URL:      s.blobs.URL(fileName),
		Notes:    notes,
	}
	if err := s.imageRepo.Create(&img); err != nil {
		return nil, fmt.Errorf("failed to record upload: %w", err)
	}
	return &img, nil
}

// Cleanup removes every blob and metadata record linked to the goat. A blob
// that fails to delete is logged and reported as a warning, and never stops
// the rest of the cleanup.
func (s *ImageService) Cleanup(goatID string) []string {
	var warnings []string

	existing, err := s.imageRepo.GetByGoat(goatID)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("failed to list images for goat %s: %v", goatID, err))
		return warnings
	}

	for _, img := range existing {
		if err := s.blobs.Remove(img.FileName); err != nil {
			log.Printf("Warning: could not remove blob %s: %v", img.FileName, err)
			warnings = append(warnings, fmt.Sprintf("blob %s not removed: %v", img.FileName, err))
		}
	}

	if err := s.imageRepo.DeleteByGoat(goatID); err != nil {
		warnings = append(warnings, fmt.Sprintf("failed to delete image records for goat %s: %v", goatID, err))
	}
	return warnings
}
