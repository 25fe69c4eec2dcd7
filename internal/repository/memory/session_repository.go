package memory

import (
	"strconv"
	"sync"
	"time"

	"pdq-assistant-be/pkg/questionnaire"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps active questionnaire sessions in memory. Sessions
// refresh their TTL on every save, so only abandoned conversations expire.
//
// The lock table serializes Start/Advance/Cancel per chat id. Lock entries
// are never removed; the set of distinct chat ids a process sees is small
// compared to the sessions themselves.
type SessionRepository struct {
	cache *cache.Cache

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewSessionRepository() *SessionRepository {
	// Abandoned sessions are dropped after a day; purge hourly
	c := cache.New(24*time.Hour, 1*time.Hour)
	return &SessionRepository{
		cache: c,
		locks: make(map[int64]*sync.Mutex),
	}
}

func key(chatId int64) string {
	return strconv.FormatInt(chatId, 10)
}

func (r *SessionRepository) Save(session *questionnaire.Session) {
	r.cache.Set(key(session.ChatId), session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(chatId int64) (*questionnaire.Session, bool) {
	if x, found := r.cache.Get(key(chatId)); found {
		return x.(*questionnaire.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(chatId int64) {
	r.cache.Delete(key(chatId))
}

// WithLock runs fn while holding the chat's mutex. Distinct chats do not
// contend.
func (r *SessionRepository) WithLock(chatId int64, fn func()) {
	r.mu.Lock()
	l, ok := r.locks[chatId]
	if !ok {
		l = &sync.Mutex{}
		r.locks[chatId] = l
	}
	r.mu.Unlock()

	l.Lock()
	defer l.Unlock()
	fn()
}
