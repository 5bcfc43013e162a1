package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// ViewState - состояние просмотра расписания одного пользователя:
// смещение видимой недели и выбранный фильтр. Живет на сервере,
// привязано к пользователю и передается в запросы явно.
type ViewState struct {
	WeekOffset int    `json:"week_offset"`
	FilterKind string `json:"filter_kind"` // "subject" или "year_group"
	FilterID   string `json:"filter_id"`
}

// ViewStateService хранит состояние просмотра по пользователям
type ViewStateService struct {
	states *cache.Cache
}

// NewViewStateService создает новое хранилище состояний просмотра
func NewViewStateService(ttl time.Duration) *ViewStateService {
	return &ViewStateService{states: cache.New(ttl, 30*time.Minute)}
}

// Get возвращает состояние пользователя (нулевое, если не сохранено)
func (s *ViewStateService) Get(userID uuid.UUID) ViewState {
	if v, ok := s.states.Get(userID.String()); ok {
		if st, ok := v.(ViewState); ok {
			return st
		}
	}
	return ViewState{}
}

// Set сохраняет состояние пользователя
func (s *ViewStateService) Set(userID uuid.UUID, st ViewState) {
	s.states.SetDefault(userID.String(), st)
}

// Shift сдвигает смещение недели и возвращает новое состояние
func (s *ViewStateService) Shift(userID uuid.UUID, delta int) ViewState {
	st := s.Get(userID)
	st.WeekOffset += delta
	s.Set(userID, st)
	return st
}

// Reset сбрасывает состояние пользователя (текущая неделя, без фильтра)
func (s *ViewStateService) Reset(userID uuid.UUID) {
	s.states.Delete(userID.String())
}
