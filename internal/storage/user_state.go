package storage

import (
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/easeaico/her-line/internal/types"
)

// DefaultShardCount is used when NewUserStore is given a non-positive count.
const DefaultShardCount = 32

type userShard struct {
	mu    sync.Mutex
	users map[string]*types.UserState
}

// UserStore keeps per-user state in memory for the process lifetime.
//
// Users are spread over shards by hash; every read-modify-write runs under
// its shard lock, so updates for one user are serialized. Entries are never
// evicted: the map grows with the number of distinct users seen.
type UserStore struct {
	shards []*userShard
}

// NewUserStore returns an empty store with shardCount shards.
func NewUserStore(shardCount int) *UserStore {
	if shardCount <= 0 {
		shardCount = DefaultShardCount
	}
	shards := make([]*userShard, shardCount)
	for i := range shards {
		shards[i] = &userShard{users: make(map[string]*types.UserState)}
	}
	return &UserStore{shards: shards}
}

func (s *UserStore) shardFor(userID string) *userShard {
	return s.shards[xxhash.Sum64String(userID)%uint64(len(s.shards))]
}

// Get returns a copy of the user's state and whether it exists. It never
// creates an entry.
func (s *UserStore) Get(userID string) (types.UserState, bool) {
	shard := s.shardFor(userID)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	state, ok := shard.users[userID]
	if !ok {
		return types.UserState{}, false
	}
	return *state, true
}

// Update runs fn on the user's state under the shard lock, creating the
// entry on first use, and returns a copy of the result. fn must not call
// back into the store.
func (s *UserStore) Update(userID string, fn func(state *types.UserState)) types.UserState {
	shard := s.shardFor(userID)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	state, ok := shard.users[userID]
	if !ok {
		state = &types.UserState{}
		shard.users[userID] = state
	}
	fn(state)
	return *state
}

// Len returns the number of users with state.
func (s *UserStore) Len() int {
	total := 0
	for _, shard := range s.shards {
		shard.mu.Lock()
		total += len(shard.users)
		shard.mu.Unlock()
	}
	return total
}
