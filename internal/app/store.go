package app

import "github.com/awesome-cap/hashmap"

// roomStore is the hub's concurrent room registry, keyed by room code
type roomStore struct {
	get  func(roomCode string) (*GameSession, bool)
	set  func(roomCode string, session *GameSession)
	del  func(roomCode string)
	each func(fn func(session *GameSession))
}

func newRoomStore() roomStore {
	rooms := hashmap.New()

	return roomStore{
		get: func(roomCode string) (*GameSession, bool) {
			if v, ok := rooms.Get(roomCode); ok {
				return v.(*GameSession), true
			}
			return nil, false
		},
		set: func(roomCode string, session *GameSession) {
			rooms.Set(roomCode, session)
		},
		del: func(roomCode string) {
			rooms.Del(roomCode)
		},
		each: func(fn func(session *GameSession)) {
			rooms.Foreach(func(e *hashmap.Entry) {
				fn(e.Value().(*GameSession))
			})
		},
	}
}

// list snapshots the registered sessions
func (r roomStore) list() []*GameSession {
	sessions := make([]*GameSession, 0)
	r.each(func(session *GameSession) {
		sessions = append(sessions, session)
	})
	return sessions
}
