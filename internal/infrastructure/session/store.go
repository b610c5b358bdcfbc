// Package session guarda el estado de trabajo de cada usuario en memoria
// con expiración: el token del upstream, la empresa seleccionada, el rango
// de fechas por empresa y el egreso abierto en el detalle.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/joseolvr/egresos-bridge/internal/domain"
	"github.com/joseolvr/egresos-bridge/internal/domain/entity"
)

// Session es el estado de trabajo de un usuario autenticado.
type Session struct {
	ID      string
	Token   string // token del upstream, nunca sale del servidor
	Empresa *entity.Empresa

	// RangoFechas guarda el último rango consultado por guid de empresa,
	// para que al volver a una empresa se recupere la consulta anterior.
	RangoFechas map[string]entity.RangoFechas

	// EgresoSeleccionado es el documento abierto en el detalle, con los
	// campos precalculados que dejó la lista.
	EgresoSeleccionado *entity.Registro

	mu sync.RWMutex
}

// Store administra las sesiones con expiración deslizante.
type Store struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewStore crea el almacén. ttl es la vigencia de cada sesión; la limpieza
// de expiradas corre al doble del ttl.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		cache: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

// Create registra una sesión nueva para un token del upstream.
func (s *Store) Create(token string) *Session {
	ses := &Session{
		ID:          uuid.NewString(),
		Token:       token,
		RangoFechas: make(map[string]entity.RangoFechas),
	}
	s.cache.Set(ses.ID, ses, s.ttl)
	return ses
}

// Get devuelve la sesión si existe y no ha expirado, renovando su vigencia.
func (s *Store) Get(id string) (*Session, error) {
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	ses := v.(*Session)
	// expiración deslizante: cada uso renueva la sesión
	s.cache.Set(id, ses, s.ttl)
	return ses, nil
}

// Delete elimina la sesión (logout).
func (s *Store) Delete(id string) {
	s.cache.Delete(id)
}

// SetEmpresa fija la empresa de trabajo de la sesión.
func (ses *Session) SetEmpresa(e entity.Empresa) {
	ses.mu.Lock()
	defer ses.mu.Unlock()
	ses.Empresa = &e
}

// GetEmpresa devuelve la empresa seleccionada, o error si no hay ninguna.
func (ses *Session) GetEmpresa() (entity.Empresa, error) {
	ses.mu.RLock()
	defer ses.mu.RUnlock()
	if ses.Empresa == nil {
		return entity.Empresa{}, domain.ErrEmpresaNoSeleccionada
	}
	return *ses.Empresa, nil
}

// SetRango guarda el rango de fechas consultado para una empresa.
func (ses *Session) SetRango(guidEmpresa string, r entity.RangoFechas) {
	ses.mu.Lock()
	defer ses.mu.Unlock()
	ses.RangoFechas[guidEmpresa] = r
}

// GetRango devuelve el último rango consultado para una empresa.
func (ses *Session) GetRango(guidEmpresa string) (entity.RangoFechas, bool) {
	ses.mu.RLock()
	defer ses.mu.RUnlock()
	r, ok := ses.RangoFechas[guidEmpresa]
	return r, ok
}

// SetEgreso guarda el egreso abierto en el detalle.
func (ses *Session) SetEgreso(reg *entity.Registro) {
	ses.mu.Lock()
	defer ses.mu.Unlock()
	ses.EgresoSeleccionado = reg
}

// GetEgreso devuelve el egreso abierto, o error si no hay ninguno.
func (ses *Session) GetEgreso() (*entity.Registro, error) {
	ses.mu.RLock()
	defer ses.mu.RUnlock()
	if ses.EgresoSeleccionado == nil {
		return nil, domain.ErrEgresoNoSeleccionado
	}
	return ses.EgresoSeleccionado, nil
}
