package services

import (
	"errors"
	"sync"

	"gorm.io/gorm"

	apperrors "stockhub/internal/errors"
	"stockhub/internal/models"
)

// lookupService resolves classification names against the lookup tables.
// Successful resolutions are cached; misses are not, so rows added later
// become visible without a restart.
type lookupService struct {
	db *gorm.DB

	mu         sync.RWMutex
	countries  map[string]models.Country
	exchanges  map[string]models.Exchange
	assetKinds map[string]models.AssetClass
}

// NewLookupService creates a new LookupServicer.
func NewLookupService(db *gorm.DB) LookupServicer {
	return &lookupService{
		db:         db,
		countries:  make(map[string]models.Country),
		exchanges:  make(map[string]models.Exchange),
		assetKinds: make(map[string]models.AssetClass),
	}
}

// ResolveCountry resolves a country by name.
func (s *lookupService) ResolveCountry(name string) (*models.Country, error) {
	s.mu.RLock()
	if c, ok := s.countries[name]; ok {
		s.mu.RUnlock()
		return &c, nil
	}
	s.mu.RUnlock()

	var country models.Country
	if err := s.find(&country, name); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.countries[name] = country
	s.mu.Unlock()
	return &country, nil
}

// ResolveExchange resolves an exchange by name.
func (s *lookupService) ResolveExchange(name string) (*models.Exchange, error) {
	s.mu.RLock()
	if e, ok := s.exchanges[name]; ok {
		s.mu.RUnlock()
		return &e, nil
	}
	s.mu.RUnlock()

	var exchange models.Exchange
	if err := s.find(&exchange, name); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.exchanges[name] = exchange
	s.mu.Unlock()
	return &exchange, nil
}

// ResolveAssetClass resolves an asset class by name.
func (s *lookupService) ResolveAssetClass(name string) (*models.AssetClass, error) {
	s.mu.RLock()
	if a, ok := s.assetKinds[name]; ok {
		s.mu.RUnlock()
		return &a, nil
	}
	s.mu.RUnlock()

	var class models.AssetClass
	if err := s.find(&class, name); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.assetKinds[name] = class
	s.mu.Unlock()
	return &class, nil
}

// find loads a lookup row by name into dest.
func (s *lookupService) find(dest interface{}, name string) error {
	if err := s.db.Where("name = ?", name).First(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.WithMessage(apperrors.ErrUnknownClassification, "unknown classification: "+name)
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
