// Package memory holds the canonical in-memory DirectoryStore. It backs the
// process when no database is configured and is seeded from the CSV import
// pipeline at startup.
package memory

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hotspotsapp/wifi-directory/internal/domain/entities"
	"github.com/hotspotsapp/wifi-directory/internal/domain/geo"
	"github.com/hotspotsapp/wifi-directory/internal/domain/repositories"
	apperrors "github.com/hotspotsapp/wifi-directory/pkg/errors"
)

type favoritePair struct {
	userID    int
	hotspotID int
}

// Store implements repositories.DirectoryStore on in-memory collections.
type Store struct {
	users    *collection[entities.User]
	hotspots *collection[entities.Hotspot]
	reviews  *collection[entities.Review]
	photos   *collection[entities.Photo]

	favMu     sync.Mutex
	favNextID int
	favOrder  []favoritePair
	favorites map[favoritePair]entities.Favorite

	now func() time.Time
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		users:     newCollection[entities.User](),
		hotspots:  newCollection[entities.Hotspot](),
		reviews:   newCollection[entities.Review](),
		photos:    newCollection[entities.Photo](),
		favNextID: 1,
		favorites: make(map[favoritePair]entities.Favorite),
		now:       time.Now,
	}
}

var _ repositories.DirectoryStore = (*Store)(nil)

// GetUser retrieves a user by ID.
func (s *Store) GetUser(_ context.Context, id int) (*entities.User, error) {
	user, ok := s.users.get(id)
	if !ok {
		return nil, apperrors.NewNotFoundError("user not found")
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username.
func (s *Store) GetUserByUsername(_ context.Context, username string) (*entities.User, error) {
	for _, user := range s.users.all() {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, apperrors.NewNotFoundError("user not found")
}

// CreateUser creates a user. Usernames are unique.
func (s *Store) CreateUser(_ context.Context, input repositories.NewUser) (*entities.User, error) {
	user, ok := s.users.insertUnless(
		func(u entities.User) bool { return u.Username == input.Username },
		func(id int) entities.User {
			return entities.User{
				ID:       id,
				Username: input.Username,
				Password: input.Password,
			}
		},
	)
	if !ok {
		return nil, apperrors.NewConflictError("username already taken")
	}
	return &user, nil
}

// ListApproved returns approved hotspots in insertion order.
func (s *Store) ListApproved(_ context.Context) ([]*entities.Hotspot, error) {
	out := []*entities.Hotspot{}
	for _, h := range s.hotspots.all() {
		if h.ModerationStatus == entities.ModerationApproved {
			hs := h
			out = append(out, &hs)
		}
	}
	return out, nil
}

// GetHotspotByID returns a hotspot regardless of moderation status.
func (s *Store) GetHotspotByID(_ context.Context, id int) (*entities.Hotspot, error) {
	h, ok := s.hotspots.get(id)
	if !ok {
		return nil, apperrors.NewNotFoundError("hotspot not found")
	}
	return &h, nil
}

// CreateHotspot stores a user submission. Moderation status, verification and
// rating fields are server-assigned regardless of input.
func (s *Store) CreateHotspot(_ context.Context, input repositories.NewHotspot) (*entities.Hotspot, error) {
	submittedBy := input.SubmittedBy
	if submittedBy == nil {
		user := "user"
		submittedBy = &user
	}
	h := s.hotspots.insert(func(id int) entities.Hotspot {
		return entities.Hotspot{
			ID:               id,
			Name:             input.Name,
			Address:          input.Address,
			Category:         input.Category,
			Latitude:         input.Latitude,
			Longitude:        input.Longitude,
			IsFree:           input.IsFree,
			WifiPassword:     input.WifiPassword,
			Description:      input.Description,
			IsVerified:       false,
			ModerationStatus: entities.ModerationPending,
			SubmittedBy:      submittedBy,
			AverageRating:    0,
			ReviewCount:      0,
			IsSponsored:      input.IsSponsored,
			CreatedAt:        s.now(),
		}
	})
	return &h, nil
}

// SearchHotspots matches the query case-insensitively against name, address
// or category, restricted to approved hotspots.
func (s *Store) SearchHotspots(_ context.Context, query string) ([]*entities.Hotspot, error) {
	lower := strings.ToLower(query)
	out := []*entities.Hotspot{}
	for _, h := range s.hotspots.all() {
		if h.ModerationStatus != entities.ModerationApproved {
			continue
		}
		if strings.Contains(strings.ToLower(h.Name), lower) ||
			strings.Contains(strings.ToLower(h.Address), lower) ||
			strings.Contains(strings.ToLower(h.Category), lower) {
			hs := h
			out = append(out, &hs)
		}
	}
	return out, nil
}

// NearLocation returns approved hotspots within radiusKm of the reference
// point, nearest first.
func (s *Store) NearLocation(_ context.Context, lat, lng, radiusKm float64) ([]*entities.Hotspot, error) {
	type scored struct {
		hotspot  entities.Hotspot
		distance float64
	}
	matches := []scored{}
	for _, h := range s.hotspots.all() {
		if h.ModerationStatus != entities.ModerationApproved {
			continue
		}
		d := geo.DistanceKm(lat, lng, h.Latitude, h.Longitude)
		if d <= radiusKm {
			matches = append(matches, scored{hotspot: h, distance: d})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].distance < matches[j].distance
	})
	out := make([]*entities.Hotspot, 0, len(matches))
	for i := range matches {
		out = append(out, &matches[i].hotspot)
	}
	return out, nil
}

// ListPending returns pending hotspots oldest-first by creation time.
func (s *Store) ListPending(_ context.Context) ([]*entities.Hotspot, error) {
	out := []*entities.Hotspot{}
	for _, h := range s.hotspots.all() {
		if h.ModerationStatus == entities.ModerationPending {
			hs := h
			out = append(out, &hs)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// ApproveHotspot transitions pending -> approved. Missing IDs and hotspots
// that already left the pending state are left untouched.
func (s *Store) ApproveHotspot(_ context.Context, id int) error {
	s.transitionModeration(id, entities.ModerationApproved)
	return nil
}

// RejectHotspot transitions pending -> rejected.
func (s *Store) RejectHotspot(_ context.Context, id int) error {
	s.transitionModeration(id, entities.ModerationRejected)
	return nil
}

func (s *Store) transitionModeration(id int, next entities.ModerationStatus) {
	s.hotspots.update(id, func(h entities.Hotspot) entities.Hotspot {
		if h.ModerationStatus == entities.ModerationPending {
			h.ModerationStatus = next
		}
		return h
	})
}

// BulkImport inserts pre-validated records as approved and verified, tagged
// as coming from the CSV import source.
func (s *Store) BulkImport(_ context.Context, hotspots []repositories.NewHotspot) error {
	source := "csv_import"
	for _, input := range hotspots {
		input := input
		s.hotspots.insert(func(id int) entities.Hotspot {
			return entities.Hotspot{
				ID:               id,
				Name:             input.Name,
				Address:          input.Address,
				Category:         input.Category,
				Latitude:         input.Latitude,
				Longitude:        input.Longitude,
				IsFree:           input.IsFree,
				WifiPassword:     input.WifiPassword,
				Description:      input.Description,
				IsVerified:       true,
				ModerationStatus: entities.ModerationApproved,
				SubmittedBy:      &source,
				AverageRating:    0,
				ReviewCount:      0,
				IsSponsored:      input.IsSponsored,
				CreatedAt:        s.now(),
			}
		})
	}
	return nil
}

// ListReviews returns a hotspot's reviews newest-first.
func (s *Store) ListReviews(_ context.Context, hotspotID int) ([]*entities.Review, error) {
	out := []*entities.Review{}
	for _, r := range s.reviews.all() {
		if r.HotspotID == hotspotID {
			rv := r
			out = append(out, &rv)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// CreateReview stores a review. Reviews are created approved in this core.
func (s *Store) CreateReview(_ context.Context, input repositories.NewReview) (*entities.Review, error) {
	r := s.reviews.insert(func(id int) entities.Review {
		return entities.Review{
			ID:        id,
			UserID:    input.UserID,
			HotspotID: input.HotspotID,
			Rating:    input.Rating,
			Comment:   input.Comment,
			PhotoURL:  input.PhotoURL,
			Status:    entities.ReviewApproved,
			CreatedAt: s.now(),
		}
	})
	return &r, nil
}

// RecomputeRating recalculates a hotspot's average rating and review count
// from its approved reviews, rounded to one decimal place. With no approved
// reviews both fields reset to zero.
func (s *Store) RecomputeRating(_ context.Context, hotspotID int) error {
	var sum, count int
	for _, r := range s.reviews.all() {
		if r.HotspotID == hotspotID && r.Status == entities.ReviewApproved {
			sum += r.Rating
			count++
		}
	}
	s.hotspots.update(hotspotID, func(h entities.Hotspot) entities.Hotspot {
		if count == 0 {
			h.AverageRating = 0
			h.ReviewCount = 0
			return h
		}
		avg := float64(sum) / float64(count)
		h.AverageRating = math.Round(avg*10) / 10
		h.ReviewCount = count
		return h
	})
	return nil
}

// ListApprovedPhotos returns a hotspot's approved photos newest-first.
func (s *Store) ListApprovedPhotos(_ context.Context, hotspotID int) ([]*entities.Photo, error) {
	out := []*entities.Photo{}
	for _, p := range s.photos.all() {
		if p.HotspotID == hotspotID && p.Approved {
			ph := p
			out = append(out, &ph)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// CreatePhoto stores a photo awaiting moderation.
func (s *Store) CreatePhoto(_ context.Context, input repositories.NewPhoto) (*entities.Photo, error) {
	p := s.photos.insert(func(id int) entities.Photo {
		return entities.Photo{
			ID:        id,
			UserID:    input.UserID,
			HotspotID: input.HotspotID,
			PhotoURL:  input.PhotoURL,
			Approved:  false,
			CreatedAt: s.now(),
		}
	})
	return &p, nil
}

// ApprovePhoto marks a photo approved. Missing IDs are a no-op.
func (s *Store) ApprovePhoto(_ context.Context, id int) error {
	s.photos.update(id, func(p entities.Photo) entities.Photo {
		p.Approved = true
		return p
	})
	return nil
}

// AddFavorite bookmarks a hotspot for a user. Re-adding an existing pair is
// a no-op.
func (s *Store) AddFavorite(_ context.Context, userID, hotspotID int) error {
	s.favMu.Lock()
	defer s.favMu.Unlock()

	pair := favoritePair{userID: userID, hotspotID: hotspotID}
	if _, exists := s.favorites[pair]; exists {
		return nil
	}
	s.favorites[pair] = entities.Favorite{
		ID:        s.favNextID,
		UserID:    userID,
		HotspotID: hotspotID,
		CreatedAt: s.now(),
	}
	s.favNextID++
	s.favOrder = append(s.favOrder, pair)
	return nil
}

// RemoveFavorite removes a bookmark. Absent pairs are a no-op.
func (s *Store) RemoveFavorite(_ context.Context, userID, hotspotID int) error {
	s.favMu.Lock()
	defer s.favMu.Unlock()

	pair := favoritePair{userID: userID, hotspotID: hotspotID}
	if _, exists := s.favorites[pair]; !exists {
		return nil
	}
	delete(s.favorites, pair)
	for i, p := range s.favOrder {
		if p == pair {
			s.favOrder = append(s.favOrder[:i], s.favOrder[i+1:]...)
			break
		}
	}
	return nil
}

// IsFavorite reports whether the pair exists.
func (s *Store) IsFavorite(_ context.Context, userID, hotspotID int) (bool, error) {
	s.favMu.Lock()
	defer s.favMu.Unlock()

	_, exists := s.favorites[favoritePair{userID: userID, hotspotID: hotspotID}]
	return exists, nil
}

// ListFavorites returns the approved hotspots a user bookmarked, in the
// order the bookmarks were added.
func (s *Store) ListFavorites(_ context.Context, userID int) ([]*entities.Hotspot, error) {
	s.favMu.Lock()
	pairs := make([]favoritePair, 0, len(s.favOrder))
	for _, p := range s.favOrder {
		if p.userID == userID {
			pairs = append(pairs, p)
		}
	}
	s.favMu.Unlock()

	out := []*entities.Hotspot{}
	for _, p := range pairs {
		h, ok := s.hotspots.get(p.hotspotID)
		if ok && h.ModerationStatus == entities.ModerationApproved {
			hs := h
			out = append(out, &hs)
		}
	}
	return out, nil
}
