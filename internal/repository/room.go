package repository

import (
	"context"

	"github.com/Keerthana22gh/pg-management-system/internal/domain"
)

// PostgresRoomRepository implements RoomRepository using PostgreSQL
type PostgresRoomRepository struct {
	db DBTX
}

// NewPostgresRoomRepository creates a new PostgresRoomRepository
func NewPostgresRoomRepository(db DBTX) *PostgresRoomRepository {
	return &PostgresRoomRepository{db: db}
}

func scanRoom(row rowScanner) (*domain.Room, error) {
	room := &domain.Room{}
	if err := row.Scan(&room.ID, &room.RoomNumber, &room.Floor, &room.Occupied); err != nil {
		return nil, err
	}
	return room, nil
}

func listRoomsQuery() (string, []interface{}, error) {
	return psql.Select("id", "room_number", "floor", "occupied").
		From("rooms").
		OrderBy("room_number ASC").
		ToSql()
}

// Create creates a new room
func (r *PostgresRoomRepository) Create(ctx context.Context, room *domain.Room) error {
	query, args, err := psql.Insert("rooms").
		Columns("room_number", "floor", "occupied").
		Values(room.RoomNumber, room.Floor, room.Occupied).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return err
	}
	return translate(r.db.QueryRow(ctx, query, args...).Scan(&room.ID), "create room")
}

// List returns all rooms ordered by room number
func (r *PostgresRoomRepository) List(ctx context.Context) ([]*domain.Room, error) {
	query, args, err := listRoomsQuery()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err, "list rooms")
	}
	defer rows.Close()

	rooms := make([]*domain.Room, 0)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, translate(err, "scan room")
		}
		rooms = append(rooms, room)
	}
	return rooms, translate(rows.Err(), "list rooms")
}

// GetByIDForUpdate locks and returns a room
func (r *PostgresRoomRepository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Room, error) {
	query, args, err := psql.Select("id", "room_number", "floor", "occupied").
		From("rooms").
		Where("id = ?", id).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, err
	}
	room, err := scanRoom(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translate(err, "lock room")
	}
	return room, nil
}

// SetOccupied flips a room's occupied flag
func (r *PostgresRoomRepository) SetOccupied(ctx context.Context, id int64, occupied bool) error {
	query, args, err := psql.Update("rooms").
		Set("occupied", occupied).
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return translate(err, "set room occupied")
	}
	return expectOne(tag, "set room occupied")
}
