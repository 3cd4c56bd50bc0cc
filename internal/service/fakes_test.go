package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/Keerthana22gh/pg-management-system/internal/domain"
	"github.com/Keerthana22gh/pg-management-system/internal/repository"
	"github.com/Keerthana22gh/pg-management-system/internal/storage"
	"github.com/Keerthana22gh/pg-management-system/pkg/kafka"
)

// memDB is an in-memory database behind every fake repository. WithTx
// snapshots it and restores the snapshot when fn fails.
type memDB struct {
	mu sync.Mutex

	users       map[int64]domain.User
	rooms       map[int64]domain.Room
	tenants     map[int64]domain.Tenant
	payments    map[int64]domain.RentPayment
	maintenance map[int64]domain.MaintenanceRequest
	vacate      map[int64]domain.VacateRequest
	nextID      int64
	clock       time.Time

	// fail makes the named operation return the error
	fail map[string]error
}

func newMemDB() *memDB {
	return &memDB{
		users:       map[int64]domain.User{},
		rooms:       map[int64]domain.Room{},
		tenants:     map[int64]domain.Tenant{},
		payments:    map[int64]domain.RentPayment{},
		maintenance: map[int64]domain.MaintenanceRequest{},
		vacate:      map[int64]domain.VacateRequest{},
		clock:       time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
		fail:        map[string]error{},
	}
}

func (db *memDB) id() int64 {
	db.nextID++
	return db.nextID
}

// tick returns strictly increasing timestamps so created_at ordering is stable
func (db *memDB) tick() time.Time {
	db.clock = db.clock.Add(time.Second)
	return db.clock
}

func (db *memDB) check(op string) error {
	if err, ok := db.fail[op]; ok {
		return err
	}
	return nil
}

func (db *memDB) repos() *repository.Repositories {
	return &repository.Repositories{
		Users:       &fakeUsers{db},
		Rooms:       &fakeRooms{db},
		Tenants:     &fakeTenants{db},
		Payments:    &fakePayments{db},
		Maintenance: &fakeMaintenance{db},
		Vacate:      &fakeVacate{db},
	}
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (db *memDB) WithTx(ctx context.Context, fn func(repos *repository.Repositories) error) error {
	db.mu.Lock()
	snapUsers, snapRooms, snapTenants := copyMap(db.users), copyMap(db.rooms), copyMap(db.tenants)
	snapPayments, snapMaint, snapVacate := copyMap(db.payments), copyMap(db.maintenance), copyMap(db.vacate)
	db.mu.Unlock()

	if err := fn(db.repos()); err != nil {
		db.mu.Lock()
		db.users, db.rooms, db.tenants = snapUsers, snapRooms, snapTenants
		db.payments, db.maintenance, db.vacate = snapPayments, snapMaint, snapVacate
		db.mu.Unlock()
		return err
	}
	return nil
}

func (db *memDB) seedRoom(number string, occupied bool) *domain.Room {
	db.mu.Lock()
	defer db.mu.Unlock()
	r := domain.Room{ID: db.id(), RoomNumber: number, Floor: 1, Occupied: occupied}
	db.rooms[r.ID] = r
	return &r
}

// seedTenant creates an active tenant login in a fresh occupied room
func (db *memDB) seedTenant(name, roomNumber string) (*domain.User, *domain.Tenant) {
	room := db.seedRoom(roomNumber, true)

	db.mu.Lock()
	defer db.mu.Unlock()
	u := domain.User{ID: db.id(), LoginID: name, PasswordHash: "x", Role: domain.RoleTenant, IsActive: true}
	db.users[u.ID] = u
	roomID := room.ID
	t := domain.Tenant{ID: db.id(), UserID: u.ID, Name: name, RoomID: &roomID}
	db.tenants[t.ID] = t
	return &u, &t
}

type fakeUsers struct{ db *memDB }

func (f *fakeUsers) Create(_ context.Context, u *domain.User) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if err := f.db.check("users.create"); err != nil {
		return err
	}
	for _, existing := range f.db.users {
		if existing.LoginID == u.LoginID {
			return domain.ErrLoginIDTaken
		}
	}
	u.ID = f.db.id()
	u.CreatedAt = f.db.tick()
	f.db.users[u.ID] = *u
	return nil
}

func (f *fakeUsers) GetByLoginID(_ context.Context, loginID string) (*domain.User, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if err := f.db.check("users.get"); err != nil {
		return nil, err
	}
	for _, u := range f.db.users {
		if u.LoginID == loginID {
			u := u
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	u, ok := f.db.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUsers) SetActive(_ context.Context, id int64, active bool) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if err := f.db.check("users.set_active"); err != nil {
		return err
	}
	u, ok := f.db.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.IsActive = active
	f.db.users[id] = u
	return nil
}

type fakeRooms struct{ db *memDB }

func (f *fakeRooms) Create(_ context.Context, r *domain.Room) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, existing := range f.db.rooms {
		if existing.RoomNumber == r.RoomNumber {
			return domain.ErrRoomNumberTaken
		}
	}
	r.ID = f.db.id()
	f.db.rooms[r.ID] = *r
	return nil
}

func (f *fakeRooms) List(_ context.Context) ([]*domain.Room, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	out := make([]*domain.Room, 0, len(f.db.rooms))
	for _, r := range f.db.rooms {
		r := r
		out = append(out, &r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomNumber < out[j].RoomNumber })
	return out, nil
}

func (f *fakeRooms) GetByIDForUpdate(_ context.Context, id int64) (*domain.Room, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	r, ok := f.db.rooms[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &r, nil
}

func (f *fakeRooms) SetOccupied(_ context.Context, id int64, occupied bool) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if err := f.db.check("rooms.set_occupied"); err != nil {
		return err
	}
	r, ok := f.db.rooms[id]
	if !ok {
		return domain.ErrNotFound
	}
	r.Occupied = occupied
	f.db.rooms[id] = r
	return nil
}

type fakeTenants struct{ db *memDB }

func (f *fakeTenants) withRoom(t domain.Tenant) *domain.Tenant {
	if t.RoomID != nil {
		if r, ok := f.db.rooms[*t.RoomID]; ok {
			t.Room = &r
		}
	}
	return &t
}

func (f *fakeTenants) Create(_ context.Context, t *domain.Tenant) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if err := f.db.check("tenants.create"); err != nil {
		return err
	}
	t.ID = f.db.id()
	f.db.tenants[t.ID] = *t
	return nil
}

func (f *fakeTenants) List(_ context.Context) ([]*domain.Tenant, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	out := make([]*domain.Tenant, 0, len(f.db.tenants))
	for _, t := range f.db.tenants {
		out = append(out, f.withRoom(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeTenants) GetByUserID(_ context.Context, userID int64) (*domain.Tenant, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if err := f.db.check("tenants.get_by_user"); err != nil {
		return nil, err
	}
	for _, t := range f.db.tenants {
		if t.UserID == userID {
			return f.withRoom(t), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeTenants) GetByID(_ context.Context, id int64) (*domain.Tenant, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	t, ok := f.db.tenants[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return f.withRoom(t), nil
}

type fakePayments struct{ db *memDB }

func (f *fakePayments) Create(_ context.Context, p *domain.RentPayment) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if err := f.db.check("payments.create"); err != nil {
		return err
	}
	p.ID = f.db.id()
	p.CreatedAt = f.db.tick()
	f.db.payments[p.ID] = *p
	return nil
}

func (f *fakePayments) sorted(keep func(domain.RentPayment) bool) []*domain.RentPayment {
	out := make([]*domain.RentPayment, 0)
	for _, p := range f.db.payments {
		if keep(p) {
			p := p
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month > out[j].Month
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (f *fakePayments) ListAll(_ context.Context) ([]*domain.RentPayment, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	return f.sorted(func(domain.RentPayment) bool { return true }), nil
}

func (f *fakePayments) ListByTenant(_ context.Context, tenantID int64) ([]*domain.RentPayment, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	return f.sorted(func(p domain.RentPayment) bool { return p.TenantID == tenantID }), nil
}

func (f *fakePayments) GetByIDForUpdate(_ context.Context, id int64) (*domain.RentPayment, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	p, ok := f.db.payments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (f *fakePayments) UpdateStatus(_ context.Context, p *domain.RentPayment) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	stored, ok := f.db.payments[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Status = p.Status
	f.db.payments[p.ID] = stored
	return nil
}

type fakeMaintenance struct{ db *memDB }

func (f *fakeMaintenance) Create(_ context.Context, m *domain.MaintenanceRequest) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	m.ID = f.db.id()
	m.CreatedAt = f.db.tick()
	m.UpdatedAt = m.CreatedAt
	f.db.maintenance[m.ID] = *m
	return nil
}

func (f *fakeMaintenance) sorted(keep func(domain.MaintenanceRequest) bool) []*domain.MaintenanceRequest {
	out := make([]*domain.MaintenanceRequest, 0)
	for _, m := range f.db.maintenance {
		if keep(m) {
			m := m
			out = append(out, &m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeMaintenance) ListAll(_ context.Context) ([]*domain.MaintenanceRequest, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	return f.sorted(func(domain.MaintenanceRequest) bool { return true }), nil
}

func (f *fakeMaintenance) ListByTenant(_ context.Context, tenantID int64) ([]*domain.MaintenanceRequest, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	return f.sorted(func(m domain.MaintenanceRequest) bool { return m.TenantID == tenantID }), nil
}

func (f *fakeMaintenance) GetByIDForUpdate(_ context.Context, id int64) (*domain.MaintenanceRequest, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	m, ok := f.db.maintenance[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &m, nil
}

func (f *fakeMaintenance) UpdateStatus(_ context.Context, m *domain.MaintenanceRequest) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	stored, ok := f.db.maintenance[m.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Status = m.Status
	stored.UpdatedAt = f.db.tick()
	m.UpdatedAt = stored.UpdatedAt
	f.db.maintenance[m.ID] = stored
	return nil
}

type fakeVacate struct{ db *memDB }

func (f *fakeVacate) Create(_ context.Context, v *domain.VacateRequest) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	v.ID = f.db.id()
	v.CreatedAt = f.db.tick()
	v.UpdatedAt = v.CreatedAt
	f.db.vacate[v.ID] = *v
	return nil
}

func (f *fakeVacate) sorted(keep func(domain.VacateRequest) bool) []*domain.VacateRequest {
	out := make([]*domain.VacateRequest, 0)
	for _, v := range f.db.vacate {
		if keep(v) {
			v := v
			out = append(out, &v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeVacate) ListAll(_ context.Context) ([]*domain.VacateRequest, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	return f.sorted(func(domain.VacateRequest) bool { return true }), nil
}

func (f *fakeVacate) ListByTenant(_ context.Context, tenantID int64) ([]*domain.VacateRequest, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	return f.sorted(func(v domain.VacateRequest) bool { return v.TenantID == tenantID }), nil
}

func (f *fakeVacate) GetByIDForUpdate(_ context.Context, id int64) (*domain.VacateRequest, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	v, ok := f.db.vacate[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &v, nil
}

func (f *fakeVacate) Update(_ context.Context, v *domain.VacateRequest) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.vacate[v.ID]; !ok {
		return domain.ErrNotFound
	}
	v.UpdatedAt = f.db.tick()
	f.db.vacate[v.ID] = *v
	return nil
}

func (f *fakeVacate) HasOpen(_ context.Context, tenantID int64) (bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, v := range f.db.vacate {
		if v.TenantID == tenantID && v.Status.IsOpen() {
			return true, nil
		}
	}
	return false, nil
}

// recordingPublisher keeps every published event
type recordingPublisher struct {
	mu     sync.Mutex
	events []*kafka.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, e *kafka.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() {}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// failingBlobStore fails uploads
type failingBlobStore struct {
	*storage.MemoryStore
}

func (failingBlobStore) Upload(context.Context, string, io.Reader, int64, string) error {
	return errors.New("bucket unreachable")
}

var (
	_ repository.Transactor = (*memDB)(nil)
	_ kafka.Publisher       = (*recordingPublisher)(nil)
)
