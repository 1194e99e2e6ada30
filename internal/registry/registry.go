package registry

import (
	"sort"
	"sync"
)

// Pusher is the outbound sink of one live connection. Push must never block;
// it returns false when the frame was dropped (closed or backed-up queue).
type Pusher interface {
	Push(payload []byte) bool
}

type entry struct {
	connID string
	userID string
	pusher Pusher
	groups map[string]struct{}
}

// Registry is the bidirectional mapping between live connection ids and
// resolved user ids, plus per-connection group membership. It is the single
// source of truth for "who is online right now" in this process.
type Registry struct {
	mu     sync.RWMutex
	conns  map[string]*entry            // connID -> entry
	byUser map[string]map[string]*entry // userID -> connID -> entry
	groups map[string]map[string]*entry // groupID -> connID -> entry
}

func New() *Registry {
	return &Registry{
		conns:  make(map[string]*entry),
		byUser: make(map[string]map[string]*entry),
		groups: make(map[string]map[string]*entry),
	}
}

// Register records the connID -> userID mapping. It always succeeds and is
// idempotent per connID; a second call for the same connID wins. The return
// value reports whether the user went from offline to online.
func (r *Registry) Register(connID, userID string, p Pusher) (cameOnline bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.conns[connID]; ok {
		r.detachLocked(old)
	}

	e := &entry{connID: connID, userID: userID, pusher: p, groups: make(map[string]struct{})}
	r.conns[connID] = e

	set := r.byUser[userID]
	if set == nil {
		set = make(map[string]*entry)
		r.byUser[userID] = set
	}
	cameOnline = len(set) == 0
	set[connID] = e
	return cameOnline
}

// Unregister removes the mapping for connID and returns the user id that was
// associated with it. wentOffline reports whether this was the user's last
// live connection. Unknown connIDs are a no-op, not an error.
func (r *Registry) Unregister(connID string) (userID string, wentOffline, existed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.conns[connID]
	if !ok {
		return "", false, false
	}
	r.detachLocked(e)
	return e.userID, r.byUser[e.userID] == nil, true
}

// detachLocked removes e from every index. Callers hold the write lock.
func (r *Registry) detachLocked(e *entry) {
	delete(r.conns, e.connID)
	if set := r.byUser[e.userID]; set != nil {
		delete(set, e.connID)
		if len(set) == 0 {
			delete(r.byUser, e.userID)
		}
	}
	for groupID := range e.groups {
		if members := r.groups[groupID]; members != nil {
			delete(members, e.connID)
			if len(members) == 0 {
				delete(r.groups, groupID)
			}
		}
	}
}

// UserID returns the user id resolved for connID.
func (r *Registry) UserID(connID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[connID]
	if !ok {
		return "", false
	}
	return e.userID, true
}

// IsOnline reports whether at least one registered connection maps to userID.
func (r *Registry) IsOnline(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser[userID]) > 0
}

// OnlineUserIDs returns a sorted snapshot of all distinct user ids with at
// least one live connection.
func (r *Registry) OnlineUserIDs() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.byUser))
	for userID := range r.byUser {
		ids = append(ids, userID)
	}
	r.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

// JoinGroup adds connID to the group's membership. Groups are implicit:
// created by first join, gone when the last member leaves. Returns false
// when connID is not registered.
func (r *Registry) JoinGroup(connID, groupID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.conns[connID]
	if !ok {
		return false
	}
	e.groups[groupID] = struct{}{}

	members := r.groups[groupID]
	if members == nil {
		members = make(map[string]*entry)
		r.groups[groupID] = members
	}
	members[connID] = e
	return true
}

// LeaveGroup removes connID from the group's membership. No-op when the
// connection never joined.
func (r *Registry) LeaveGroup(connID, groupID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.conns[connID]
	if !ok {
		return
	}
	delete(e.groups, groupID)
	if members := r.groups[groupID]; members != nil {
		delete(members, connID)
		if len(members) == 0 {
			delete(r.groups, groupID)
		}
	}
}

// UserPushers returns the sinks of every connection resolved to userID,
// excluding excludeConnID when non-empty.
func (r *Registry) UserPushers(userID, excludeConnID string) []Pusher {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := r.byUser[userID]
	if len(set) == 0 {
		return nil
	}
	out := make([]Pusher, 0, len(set))
	for connID, e := range set {
		if connID == excludeConnID {
			continue
		}
		out = append(out, e.pusher)
	}
	return out
}

// GroupPushers returns the sinks of every connection joined to groupID,
// excluding excludeConnID when non-empty.
func (r *Registry) GroupPushers(groupID, excludeConnID string) []Pusher {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.groups[groupID]
	if len(members) == 0 {
		return nil
	}
	out := make([]Pusher, 0, len(members))
	for connID, e := range members {
		if connID == excludeConnID {
			continue
		}
		out = append(out, e.pusher)
	}
	return out
}

// AllPushers returns the sinks of every registered connection.
func (r *Registry) AllPushers() []Pusher {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Pusher, 0, len(r.conns))
	for _, e := range r.conns {
		out = append(out, e.pusher)
	}
	return out
}
