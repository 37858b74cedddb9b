package db

import (
	"log"
	"sync"

	"github.com/dgraph-io/ristretto"
)

// Cached views are keyed per user so a new bank link can drop exactly
// that user's entries. Key membership is tracked on the side because
// ristretto has no scan.
var (
	Cache        *ristretto.Cache
	BankViewKeys = struct {
		sync.RWMutex
		m map[string]map[string]struct{} // user id -> cache keys
	}{m: make(map[string]map[string]struct{})}
)

func InitCache() {
	var err error
	Cache, err = ristretto.NewCache(&ristretto.Config{
		NumCounters: 10000, // number of keys to track frequency of
		MaxCost:     10000,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		log.Fatalf("failed to initialize cache: %v", err)
	}
}

// SetBankViewCache stores a cached bank/balance view for a user.
func SetBankViewCache(userID, cacheKey string, value interface{}) {
	BankViewKeys.Lock()
	if BankViewKeys.m[userID] == nil {
		BankViewKeys.m[userID] = make(map[string]struct{})
	}
	BankViewKeys.m[userID][cacheKey] = struct{}{}
	BankViewKeys.Unlock()
	Cache.Set(cacheKey, value, 1)
	Cache.Wait()
}

// GetBankViewCache reads a cached bank/balance view.
func GetBankViewCache(cacheKey string) (interface{}, bool) {
	return Cache.Get(cacheKey)
}

// InvalidateBankViews drops every cached view for the user. Called when
// a new bank account is linked so subsequent reads see the new link.
func InvalidateBankViews(userID string) {
	BankViewKeys.Lock()
	for key := range BankViewKeys.m[userID] {
		Cache.Del(key)
	}
	delete(BankViewKeys.m, userID)
	BankViewKeys.Unlock()
}
