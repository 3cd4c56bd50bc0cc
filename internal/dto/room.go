package dto

import "github.com/Keerthana22gh/pg-management-system/internal/domain"

// CreateRoomRequest represents a request to add a room
type CreateRoomRequest struct {
	RoomNumber string `json:"room_number" binding:"required,max=16"`
	Floor      Int    `json:"floor"`
}

// RoomResponse represents a room in responses. Embedded under "rooms"
// when joined to a tenant.
type RoomResponse struct {
	ID         int64  `json:"id"`
	RoomNumber string `json:"room_number"`
	Floor      int    `json:"floor"`
	Occupied   bool   `json:"occupied"`
}

// FromRoom converts a domain Room to RoomResponse
func FromRoom(r *domain.Room) *RoomResponse {
	if r == nil {
		return nil
	}
	return &RoomResponse{
		ID:         r.ID,
		RoomNumber: r.RoomNumber,
		Floor:      r.Floor,
		Occupied:   r.Occupied,
	}
}

// FromRooms converts a slice of rooms, never returning nil
func FromRooms(rooms []*domain.Room) []*RoomResponse {
	out := make([]*RoomResponse, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, FromRoom(r))
	}
	return out
}
