package domain

import "time"

// Favorite is a user's bookmarked room with the room details snapshotted
// at the time it was added. The client addresses favorites by room id.
type Favorite struct {
	UserID       string    `json:"-"`
	RoomID       int       `json:"id"`
	RoomName     string    `json:"name"`
	RoomPrice    float64   `json:"price"`
	RoomImage    string    `json:"image"`
	FavoriteTime time.Time `json:"favoriteTime"`
}
