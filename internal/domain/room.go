package domain

// Room is a bookable homestay room. Rooms are seeded by migration and
// treated as read-only by the service.
type Room struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Price        float64  `json:"price"`
	Description  string   `json:"description"`
	Image        string   `json:"image"`
	Tags         []string `json:"tags"`
	Rating       float64  `json:"rating"`
	Location     string   `json:"location"`
	Facilities   []string `json:"facilities"`
	CheckInTime  string   `json:"checkInTime"`
	CheckOutTime string   `json:"checkOutTime"`
}

// RoomFilter narrows room listings. Keyword matches against name,
// description, and tags; Tag requires an exact tag match; nil price
// bounds are ignored.
type RoomFilter struct {
	Keyword  string
	Tag      string
	MinPrice *float64
	MaxPrice *float64
}
