// internal/app/store/shortlinks/shortstore.go
package shortstore

import (
	"context"
	"time"

	"github.com/sranand/allochub/internal/app/store/jsonstore"
	"github.com/sranand/allochub/internal/app/system/faults"
	"github.com/sranand/allochub/internal/app/system/shortcode"
	"github.com/sranand/allochub/internal/domain/models"
)

// Store provides access to the short_urls collection, keyed by code.
type Store struct {
	files *jsonstore.Store
}

func New(files *jsonstore.Store) *Store {
	return &Store{files: files}
}

func (s *Store) all() (map[string]models.ShortLink, error) {
	links := make(map[string]models.ShortLink)
	if _, err := s.files.Load(jsonstore.ShortURLs, &links); err != nil {
		return nil, err
	}
	return links, nil
}

// List returns every short link.
func (s *Store) List() ([]models.ShortLink, error) {
	all, err := s.all()
	if err != nil {
		return nil, err
	}
	links := make([]models.ShortLink, 0, len(all))
	for _, l := range all {
		links = append(links, l)
	}
	return links, nil
}

// Get returns a link without touching its click statistics.
func (s *Store) Get(code string) (models.ShortLink, error) {
	all, err := s.all()
	if err != nil {
		return models.ShortLink{}, err
	}
	l, ok := all[code]
	if !ok {
		return models.ShortLink{}, faults.New(faults.NotFound, "short code "+code+" not found")
	}
	return l, nil
}

// Generate mints a fresh code for target and stores the mapping. A code
// collision with an existing entry is retried with a new draw.
func (s *Store) Generate(ctx context.Context, target string) (models.ShortLink, error) {
	var link models.ShortLink
	err := s.files.Update(ctx, jsonstore.ShortURLs, func() error {
		all, err := s.all()
		if err != nil {
			return err
		}
		var code string
		for attempt := 0; ; attempt++ {
			code, err = shortcode.New()
			if err != nil {
				return err
			}
			if _, taken := all[code]; !taken {
				break
			}
			if attempt >= 10 {
				return faults.New(faults.IOError, "could not find a free short code")
			}
		}
		link = models.ShortLink{
			Code:      code,
			TargetURL: target,
			CreatedAt: time.Now().UTC(),
		}
		all[code] = link
		return s.files.Save(jsonstore.ShortURLs, all)
	})
	return link, err
}

// Resolve looks up a code and, on a hit, increments its click count and
// stamps the access time. An unknown code mutates nothing.
func (s *Store) Resolve(ctx context.Context, code string) (models.ShortLink, error) {
	var link models.ShortLink
	err := s.files.Update(ctx, jsonstore.ShortURLs, func() error {
		all, err := s.all()
		if err != nil {
			return err
		}
		l, ok := all[code]
		if !ok {
			return faults.New(faults.NotFound, "short code "+code+" not found")
		}
		now := time.Now().UTC()
		l.Clicks++
		l.LastAccessedAt = &now
		all[code] = l
		link = l
		return s.files.Save(jsonstore.ShortURLs, all)
	})
	return link, err
}

// Remove deletes a short link. The caller archives it first.
func (s *Store) Remove(ctx context.Context, code string) (models.ShortLink, error) {
	var removed models.ShortLink
	err := s.files.Update(ctx, jsonstore.ShortURLs, func() error {
		all, err := s.all()
		if err != nil {
			return err
		}
		l, ok := all[code]
		if !ok {
			return faults.New(faults.NotFound, "short code "+code+" not found")
		}
		removed = l
		delete(all, code)
		return s.files.Save(jsonstore.ShortURLs, all)
	})
	return removed, err
}
