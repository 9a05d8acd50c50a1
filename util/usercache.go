package util

import (
	"container/list"
	"sync"

	"gorm.io/gorm"
)

// userLRU maps user IDs to emails for the security log, bounded by capacity.
type userLRU struct {
	mu       sync.Mutex
	ll       *list.List
	cache    map[string]*list.Element
	capacity int
}

type userEntry struct {
	userID string
	email  string
}

var (
	userCache   *userLRU
	userCacheMu sync.RWMutex
)

// InitUserEmailCache initializes the LRU cache with given capacity.
// If capacity <= 0, a default of 1000 is used.
func InitUserEmailCache(capacity int) {
	if capacity <= 0 {
		capacity = 1000
	}
	userCacheMu.Lock()
	defer userCacheMu.Unlock()
	userCache = &userLRU{
		ll:       list.New(),
		cache:    make(map[string]*list.Element),
		capacity: capacity,
	}
}

func getUserCache() *userLRU {
	userCacheMu.RLock()
	defer userCacheMu.RUnlock()
	return userCache
}

// UserEmailCacheGet returns email and true if present in cache.
func UserEmailCacheGet(userID string) (string, bool) {
	c := getUserCache()
	if c == nil {
		return "", false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if ele, ok := c.cache[userID]; ok {
		c.ll.MoveToFront(ele)
		return ele.Value.(userEntry).email, true
	}
	return "", false
}

// UserEmailCacheSet sets the email for a userID in the cache.
func UserEmailCacheSet(userID, email string) {
	c := getUserCache()
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if ele, ok := c.cache[userID]; ok {
		c.ll.MoveToFront(ele)
		ele.Value = userEntry{userID: userID, email: email}
		return
	}
	c.cache[userID] = c.ll.PushFront(userEntry{userID: userID, email: email})
	if c.ll.Len() > c.capacity {
		tail := c.ll.Back()
		delete(c.cache, tail.Value.(userEntry).userID)
		c.ll.Remove(tail)
	}
}

// UserEmailCacheDelete forgets a user, e.g. after their email changes.
func UserEmailCacheDelete(userID string) {
	c := getUserCache()
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if ele, ok := c.cache[userID]; ok {
		c.ll.Remove(ele)
		delete(c.cache, userID)
	}
}

// GetUserEmail returns the email for userID using cache, falling back to DB.
func GetUserEmail(db *gorm.DB, userID string) string {
	if userID == "" {
		return ""
	}
	if email, ok := UserEmailCacheGet(userID); ok {
		return email
	}
	if db == nil {
		return ""
	}
	var u struct{ Email string }
	if err := db.Table("users").Select("email").Where("id = ?", userID).Take(&u).Error; err != nil {
		return ""
	}
	if u.Email != "" {
		UserEmailCacheSet(userID, u.Email)
	}
	return u.Email
}
