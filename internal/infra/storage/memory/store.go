package memory

import (
	"sync"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

// Store хранилище в памяти процесса: драйвер database.driver = "memory" и тесты
type Store struct {
	mu sync.RWMutex

	shops        map[int64]domain.Shop
	staff        map[int64]domain.StaffMember
	services     map[int64]domain.Service
	appointments map[int64]domain.Appointment
	configs      map[int64]domain.BookingConfig
	outbox       []domain.OutboxEvent

	nextAppointmentID int64
	nextConfigID      int64
	nextOutboxID      int64

	locksMu    sync.Mutex
	staffLocks map[int64]chan struct{}
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		shops:        make(map[int64]domain.Shop),
		staff:        make(map[int64]domain.StaffMember),
		services:     make(map[int64]domain.Service),
		appointments: make(map[int64]domain.Appointment),
		configs:      make(map[int64]domain.BookingConfig),
		staffLocks:   make(map[int64]chan struct{}),
	}
}

// AddShop добавляет салон
func (s *Store) AddShop(shop domain.Shop) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shops[shop.ID] = shop
}

// AddStaff добавляет мастера
func (s *Store) AddStaff(staff domain.StaffMember) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staff[staff.ID] = staff
}

// AddService добавляет услугу
func (s *Store) AddService(service domain.Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services[service.ID] = service
}

// Appointments репозиторий записей
func (s *Store) Appointments() *AppointmentRepository {
	return &AppointmentRepository{store: s}
}

// Staff репозиторий мастеров
func (s *Store) Staff() *StaffRepository {
	return &StaffRepository{store: s}
}

// Shops репозиторий салонов
func (s *Store) Shops() *ShopRepository {
	return &ShopRepository{store: s}
}

// Services каталог услуг
func (s *Store) Services() *ServiceRepository {
	return &ServiceRepository{store: s}
}

// Configs репозиторий конфигурации бронирования
func (s *Store) Configs() *ConfigRepository {
	return &ConfigRepository{store: s}
}

// Outbox репозиторий исходящих событий
func (s *Store) Outbox() *OutboxRepository {
	return &OutboxRepository{store: s}
}

// staffLock семафор мастера на один слот, его можно ждать с учетом ctx
func (s *Store) staffLock(staffID int64) chan struct{} {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	ch, ok := s.staffLocks[staffID]
	if !ok {
		ch = make(chan struct{}, 1)
		s.staffLocks[staffID] = ch
	}
	return ch
}
