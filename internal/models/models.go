package models

// All returns every model the schema migrates, in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Video{},
		&Comment{},
		&Tweet{},
		&Like{},
		&Playlist{},
		&PlaylistVideo{},
		&Subscription{},
		&WatchHistoryEntry{},
		&SystemLog{},
	}
}
