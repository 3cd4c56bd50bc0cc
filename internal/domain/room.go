package domain

import "strings"

// Room is a rentable room
type Room struct {
	ID         int64
	RoomNumber string
	Floor      int
	Occupied   bool
}

// NewRoom validates and builds an unoccupied room
func NewRoom(roomNumber string, floor int) (*Room, error) {
	roomNumber = strings.TrimSpace(roomNumber)

	v := validator{}
	v.check(roomNumber != "", "room_number", "is required")
	v.check(len(roomNumber) <= 16, "room_number", "must be at most 16 characters")
	v.check(floor >= 0, "floor", "must not be negative")
	if err := v.err(); err != nil {
		return nil, err
	}

	return &Room{RoomNumber: roomNumber, Floor: floor}, nil
}
