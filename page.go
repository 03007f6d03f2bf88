package photoengine

import (
	"context"
	"slices"
)

// ThumbnailsToShowMax is how many following photos the detail page shows.
const ThumbnailsToShowMax = 12

// PhotoPageData is everything the photo detail template renders.
type PhotoPageData struct {
	Meta  Metadata
	Photo Photo

	// Grid holds the photos following Photo, never Photo itself.
	Grid []Photo

	// Neighbors is the contiguous feed window around Photo, used for the
	// prev/next link panel: preceding photos, Photo, following photos.
	Neighbors []Photo
}

// LoadPhotoPage fetches photoID and its neighbor window. It returns
// ErrNotFound when the photo does not exist; callers redirect on that.
// Fetches run in sequence because each window depends on the photo.
func LoadPhotoPage(ctx context.Context, f PhotoFetcher, cfg SiteConfig, photoID string) (PhotoPageData, error) {
	photo, err := f.GetPhoto(ctx, photoID)
	if err != nil {
		return PhotoPageData{}, err
	}

	before, err := f.GetPhotosTakenBeforePhoto(ctx, photo, 1)
	if err != nil {
		return PhotoPageData{}, err
	}
	after, err := f.GetPhotosTakenAfterPhotoInclusive(ctx, photo, ThumbnailsToShowMax+1)
	if err != nil {
		return PhotoPageData{}, err
	}

	// before comes back nearest first; flip it into feed order.
	before = slices.Clone(before)
	slices.Reverse(before)
	neighbors := append(before, after...)

	var grid []Photo
	if len(after) > 1 {
		grid = after[1:]
	}

	return PhotoPageData{
		Meta:      MetadataForPhoto(cfg, photo),
		Photo:     photo,
		Grid:      grid,
		Neighbors: neighbors,
	}, nil
}

// AdjacentPhotos finds photo in neighbors and returns the photos on either
// side of it. Either result is nil at the ends of the window.
func AdjacentPhotos(photo Photo, neighbors []Photo) (prev, next *Photo) {
	i := slices.IndexFunc(neighbors, func(p Photo) bool { return p.ID == photo.ID })
	if i < 0 {
		return nil, nil
	}
	if i > 0 {
		prev = &neighbors[i-1]
	}
	if i+1 < len(neighbors) {
		next = &neighbors[i+1]
	}
	return prev, next
}
