package licensing_test

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Licencias-api/internal/application/dto"
	"github.com/jhoicas/Licencias-api/internal/application/licensing"
	"github.com/jhoicas/Licencias-api/internal/domain"
	"github.com/jhoicas/Licencias-api/internal/domain/entity"
	"github.com/jhoicas/Licencias-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria de los puertos de persistencia. El TxRunner serializa los
// callbacks con un mutex, que es exactamente la garantía que da el lock de
// fila en PostgreSQL para una misma licencia, y restaura un snapshot del store
// si el callback falla (rollback).
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu          sync.RWMutex
	brands      map[string]*entity.Brand
	products    map[string]*entity.Product
	keys        map[string]*entity.LicenseKey
	licenses    map[string]*entity.License
	activations map[string]*entity.Activation
}

func newMemStore() *memStore {
	return &memStore{
		brands:      map[string]*entity.Brand{},
		products:    map[string]*entity.Product{},
		keys:        map[string]*entity.LicenseKey{},
		licenses:    map[string]*entity.License{},
		activations: map[string]*entity.Activation{},
	}
}

func (s *memStore) snapshot() *memStore {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := newMemStore()
	for k, v := range s.brands {
		c := *v
		snap.brands[k] = &c
	}
	for k, v := range s.products {
		c := *v
		snap.products[k] = &c
	}
	for k, v := range s.keys {
		c := *v
		snap.keys[k] = &c
	}
	for k, v := range s.licenses {
		c := *v
		snap.licenses[k] = &c
	}
	for k, v := range s.activations {
		c := *v
		snap.activations[k] = &c
	}
	return snap
}

func (s *memStore) restore(snap *memStore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.brands = snap.brands
	s.products = snap.products
	s.keys = snap.keys
	s.licenses = snap.licenses
	s.activations = snap.activations
}

// ── BrandRepository ───────────────────────────────────────────────────────────

type memBrandRepo struct{ s *memStore }

func (r *memBrandRepo) Create(b *entity.Brand) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *b
	r.s.brands[b.ID] = &c
	return nil
}

func (r *memBrandRepo) GetByID(id string) (*entity.Brand, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if b, ok := r.s.brands[id]; ok {
		c := *b
		return &c, nil
	}
	return nil, nil
}

func (r *memBrandRepo) GetByAPIKeyHash(hash string) (*entity.Brand, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, b := range r.s.brands {
		if b.APIKeyHash == hash {
			c := *b
			return &c, nil
		}
	}
	return nil, nil
}

// ── ProductRepository ─────────────────────────────────────────────────────────

type memProductRepo struct{ s *memStore }

func (r *memProductRepo) Create(p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.products {
		if existing.BrandID == p.BrandID && existing.Code == p.Code {
			return domain.ErrDuplicate
		}
	}
	c := *p
	r.s.products[p.ID] = &c
	return nil
}

func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if p, ok := r.s.products[id]; ok {
		c := *p
		return &c, nil
	}
	return nil, nil
}

func (r *memProductRepo) GetByTokenHash(hash string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.products {
		if p.TokenHash == hash {
			c := *p
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) GetByBrandAndCode(brandID, code string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.products {
		if p.BrandID == brandID && p.Code == code {
			c := *p
			return &c, nil
		}
	}
	return nil, nil
}

// ── LicenseKeyRepository ──────────────────────────────────────────────────────

type memLicenseKeyRepo struct{ s *memStore }

func (r *memLicenseKeyRepo) Create(k *entity.LicenseKey) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.keys {
		if existing.BrandID == k.BrandID && existing.CustomerEmail == k.CustomerEmail {
			return domain.ErrDuplicate
		}
	}
	c := *k
	r.s.keys[k.ID] = &c
	return nil
}

func (r *memLicenseKeyRepo) GetByID(id string) (*entity.LicenseKey, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if k, ok := r.s.keys[id]; ok {
		c := *k
		return &c, nil
	}
	return nil, nil
}

func (r *memLicenseKeyRepo) GetByValue(value string) (*entity.LicenseKey, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, k := range r.s.keys {
		if k.Key == value {
			c := *k
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memLicenseKeyRepo) GetByBrandAndEmail(brandID, customerEmail string) (*entity.LicenseKey, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, k := range r.s.keys {
		if k.BrandID == brandID && k.CustomerEmail == customerEmail {
			c := *k
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memLicenseKeyRepo) ListByEmail(customerEmail string) ([]*entity.LicenseKey, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.LicenseKey
	for _, k := range r.s.keys {
		if k.CustomerEmail == customerEmail {
			c := *k
			out = append(out, &c)
		}
	}
	return out, nil
}

// ── LicenseRepository ─────────────────────────────────────────────────────────

type memLicenseRepo struct{ s *memStore }

func (r *memLicenseRepo) productCode(productID string) string {
	if p, ok := r.s.products[productID]; ok {
		return p.Code
	}
	return ""
}

func (r *memLicenseRepo) GetByID(id string) (*entity.License, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if l, ok := r.s.licenses[id]; ok {
		c := *l
		c.ProductCode = r.productCode(l.ProductID)
		return &c, nil
	}
	return nil, nil
}

// GetForUpdate en el fake equivale a GetByID: la exclusión la da el mutex del
// TxRunner, que serializa las secciones críticas como el lock de fila real.
func (r *memLicenseRepo) GetForUpdate(id string) (*entity.License, error) {
	return r.GetByID(id)
}

func (r *memLicenseRepo) Upsert(l *entity.License) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.licenses {
		if existing.LicenseKeyID == l.LicenseKeyID && existing.ProductID == l.ProductID {
			existing.Status = l.Status
			existing.ExpiresAt = l.ExpiresAt
			existing.MaxSeats = l.MaxSeats
			existing.UpdatedAt = time.Now()
			return nil
		}
	}
	c := *l
	r.s.licenses[l.ID] = &c
	return nil
}

func (r *memLicenseRepo) Update(l *entity.License) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.licenses[l.ID]
	if !ok {
		return domain.ErrNotFound
	}
	existing.Status = l.Status
	existing.ExpiresAt = l.ExpiresAt
	existing.MaxSeats = l.MaxSeats
	existing.UpdatedAt = time.Now()
	return nil
}

func (r *memLicenseRepo) ListByLicenseKey(licenseKeyID string) ([]*entity.License, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.License
	for _, l := range r.s.licenses {
		if l.LicenseKeyID == licenseKeyID {
			c := *l
			c.ProductCode = r.productCode(l.ProductID)
			out = append(out, &c)
		}
	}
	return out, nil
}

// ── ActivationRepository ──────────────────────────────────────────────────────

type memActivationRepo struct{ s *memStore }

func (r *memActivationRepo) Create(a *entity.Activation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.activations {
		if existing.LicenseID == a.LicenseID && existing.InstanceIdentifier == a.InstanceIdentifier && existing.RevokedAt == nil {
			return domain.ErrDuplicate
		}
	}
	c := *a
	r.s.activations[a.ID] = &c
	return nil
}

func (r *memActivationRepo) CountActive(licenseID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, a := range r.s.activations {
		if a.LicenseID == licenseID && a.RevokedAt == nil {
			n++
		}
	}
	return n, nil
}

func (r *memActivationRepo) GetActive(licenseID, instanceIdentifier string) (*entity.Activation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, a := range r.s.activations {
		if a.LicenseID == licenseID && a.InstanceIdentifier == instanceIdentifier && a.RevokedAt == nil {
			c := *a
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memActivationRepo) Revoke(id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.activations[id]
	if !ok || a.RevokedAt != nil {
		return domain.ErrNotFound
	}
	a.RevokedAt = &at
	return nil
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

type memTxRunner struct {
	s  *memStore
	mu sync.Mutex
}

func (r *memTxRunner) Run(_ context.Context, fn func(repository.LicenseRepository, repository.ActivationRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := r.s.snapshot()
	if err := fn(&memLicenseRepo{s: r.s}, &memActivationRepo{s: r.s}); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

func (r *memTxRunner) RunProvision(_ context.Context, fn func(repository.LicenseKeyRepository, repository.LicenseRepository, repository.ProductRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := r.s.snapshot()
	if err := fn(&memLicenseKeyRepo{s: r.s}, &memLicenseRepo{s: r.s}, &memProductRepo{s: r.s}); err != nil {
		r.s.restore(snap)
		return err
	}
	return nil
}

// ── StatusCache ───────────────────────────────────────────────────────────────

type memStatusCache struct {
	mu      sync.Mutex
	entries map[string]*dto.LicenseKeyStatusResponse
	sets    int
}

func newMemStatusCache() *memStatusCache {
	return &memStatusCache{entries: map[string]*dto.LicenseKeyStatusResponse{}}
}

func (c *memStatusCache) Get(_ context.Context, keyValue string) (*dto.LicenseKeyStatusResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	resp, ok := c.entries[keyValue]
	return resp, ok
}

func (c *memStatusCache) Set(_ context.Context, keyValue string, resp *dto.LicenseKeyStatusResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[keyValue] = resp
	c.sets++
}

// ──────────────────────────────────────────────────────────────────────────────
// Harness: store + repos + casos de uso listos, con datos mínimos sembrados.
// ──────────────────────────────────────────────────────────────────────────────

type harness struct {
	store          *memStore
	txRunner       *memTxRunner
	brandRepo      *memBrandRepo
	productRepo    *memProductRepo
	keyRepo        *memLicenseKeyRepo
	licenseRepo    *memLicenseRepo
	activationRepo *memActivationRepo
}

func newHarness() *harness {
	s := newMemStore()
	return &harness{
		store:          s,
		txRunner:       &memTxRunner{s: s},
		brandRepo:      &memBrandRepo{s: s},
		productRepo:    &memProductRepo{s: s},
		keyRepo:        &memLicenseKeyRepo{s: s},
		licenseRepo:    &memLicenseRepo{s: s},
		activationRepo: &memActivationRepo{s: s},
	}
}

func (h *harness) activationUC(cache licensing.StatusCache) *licensing.ActivationUseCase {
	return licensing.NewActivationUseCase(h.txRunner, h.keyRepo, h.licenseRepo, h.activationRepo, cache)
}

func (h *harness) seedBrand(name, role string) *entity.Brand {
	b := &entity.Brand{ID: uuid.New().String(), Name: name, APIKeyHash: "hash-" + name, Role: role}
	_ = h.brandRepo.Create(b)
	return b
}

func (h *harness) seedProduct(brandID, code string) *entity.Product {
	p := &entity.Product{ID: uuid.New().String(), BrandID: brandID, Code: code, Name: strings.ToUpper(code), TokenHash: "hash-" + code}
	_ = h.productRepo.Create(p)
	return p
}

func (h *harness) seedKey(brandID, email string) *entity.LicenseKey {
	k := &entity.LicenseKey{ID: uuid.New().String(), BrandID: brandID, Key: strings.ToUpper(uuid.New().String()), CustomerEmail: email}
	_ = h.keyRepo.Create(k)
	return k
}

func (h *harness) seedLicense(keyID, productID, status string, expiresAt time.Time, maxSeats *int) *entity.License {
	l := &entity.License{
		ID:           uuid.New().String(),
		LicenseKeyID: keyID,
		ProductID:    productID,
		Status:       status,
		ExpiresAt:    expiresAt,
		MaxSeats:     maxSeats,
	}
	_ = h.licenseRepo.Upsert(l)
	return l
}

func seats(n int) *int { return &n }
