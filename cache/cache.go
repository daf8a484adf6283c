// Package cache keeps shanten results so that repeated hands are not
// searched again. The shell and long simulations evaluate the same hands
// over and over.
package cache

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/domino14/tenpai/pattern"
	"github.com/domino14/tenpai/shanten"
)

type cache struct {
	sync.Mutex
	memos map[string]*Memo
}

// GlobalMemoCache holds one memo per strategy and pattern.
var GlobalMemoCache *cache

var createOnce sync.Once

func (c *cache) get(s shanten.Strategy, p pattern.WinPattern, capacity int) (*Memo, error) {
	key := fmt.Sprintf("%v/%v", s, p)
	c.Lock()
	defer c.Unlock()
	if m, ok := c.memos[key]; ok {
		log.Debug().Str("key", key).Msg("getting memo from cache")
		return m, nil
	}
	log.Debug().Str("key", key).Int("capacity", capacity).Msg("creating memo")
	w, err := shanten.New(s, p)
	if err != nil {
		return nil, err
	}
	m := Memoize(w, capacity)
	c.memos[key] = m
	return m, nil
}

func CreateGlobalMemoCache() {
	GlobalMemoCache = &cache{memos: make(map[string]*Memo)}
}

// Load returns the shared memo for strategy s searching for p, creating it
// with the given capacity the first time.
func Load(s shanten.Strategy, p pattern.WinPattern, capacity int) (*Memo, error) {
	createOnce.Do(func() {
		if GlobalMemoCache == nil {
			CreateGlobalMemoCache()
		}
	})
	return GlobalMemoCache.get(s, p, capacity)
}
