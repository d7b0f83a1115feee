package climate

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Repository defines the interface for climate persistence operations.
type Repository interface {
	CreateRoom(ctx context.Context, room *Room) error
	ListRooms(ctx context.Context) ([]Room, error)
	GetRoom(ctx context.Context, id string) (*Room, error)
	UpdateRoom(ctx context.Context, room *Room) error
	UpdateRoomThreshold(ctx context.Context, id string, patch *ThresholdPatch) (*Room, error)
	DeleteRoom(ctx context.Context, id string) error

	CreateSensor(ctx context.Context, sensor *Sensor) error
	ListSensors(ctx context.Context) ([]Sensor, error)
	ListSensorsByRoom(ctx context.Context, roomID string) ([]Sensor, error)
	GetSensor(ctx context.Context, id string) (*Sensor, error)
	TouchSensor(ctx context.Context, id string, seenAt time.Time) error
	DeleteSensor(ctx context.Context, id string) error

	CreateDevice(ctx context.Context, device *ClimateDevice) error
	ListDevicesByRoom(ctx context.Context, roomID string) ([]ClimateDevice, error)
	GetDevice(ctx context.Context, id string) (*ClimateDevice, error)
	FindDeviceByType(ctx context.Context, roomID, deviceType string) (*ClimateDevice, error)
	UpdateDeviceStatus(ctx context.Context, id, status string) error
	DeleteDevice(ctx context.Context, id string) error

	InsertReading(ctx context.Context, reading *SensorReading) error
	GetReading(ctx context.Context, id int64) (*SensorReading, error)
	ListRecentReadings(ctx context.Context, sensorID string, limit int) ([]SensorReading, error)
	ListReadingsByRoomSince(ctx context.Context, roomID string, since time.Time) ([]SensorReading, error)
	ListReadingsSince(ctx context.Context, since time.Time) ([]SensorReading, error)
	ListReadingsByRoomBetween(ctx context.Context, roomID string, start, end time.Time) ([]SensorReading, error)
	ListReadingsBetween(ctx context.Context, start, end time.Time) ([]SensorReading, error)

	InsertAlert(ctx context.Context, alert *Alert) error
	ListAlertsByRoom(ctx context.Context, roomID string, limit int) ([]Alert, error)
	CountAlertsByRoomSince(ctx context.Context, roomID string, since time.Time) (int, error)
	ResolveAlert(ctx context.Context, id int64) error

	InsertCommand(ctx context.Context, cmd *DeviceCommand) error
	ListCommandsByDevice(ctx context.Context, deviceID string, limit int) ([]DeviceCommand, error)

	// InTx runs fn with a repository bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back
	// otherwise. Nested calls reuse the enclosing transaction.
	InTx(ctx context.Context, fn func(Repository) error) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
	q  querier
}

// querier abstracts *sql.DB and *sql.Tx so every query method can run
// inside or outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NewSQLiteRepository creates a new SQLite-backed climate repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, q: db}
}

// InTx runs fn with a repository bound to a single transaction.
func (r *SQLiteRepository) InTx(ctx context.Context, fn func(Repository) error) error {
	if _, ok := r.q.(*sql.Tx); ok {
		// Already inside a transaction.
		return fn(r)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	txRepo := &SQLiteRepository{db: r.db, q: tx}
	if err := fn(txRepo); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// =============================================================================
// Rooms
// =============================================================================

// CreateRoom inserts a new room into the database.
func (r *SQLiteRepository) CreateRoom(ctx context.Context, room *Room) error {
	now := time.Now().UTC()
	room.CreatedAt = now
	room.UpdatedAt = now
	const query = `INSERT INTO rooms (id, name, description, temp_min, temp_max,
		humidity_min, humidity_max, auto_control_enabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.q.ExecContext(ctx, query,
		room.ID, room.Name, nullIfEmpty(room.Description),
		nullFloat(room.TempMin), nullFloat(room.TempMax),
		nullFloat(room.HumidityMin), nullFloat(room.HumidityMax),
		boolToInt(room.AutoControlEnabled),
		formatTime(now), formatTime(now))
	if err != nil {
		return fmt.Errorf("inserting room %s: %w", room.ID, err)
	}
	return nil
}

// ListRooms returns all rooms ordered by name.
func (r *SQLiteRepository) ListRooms(ctx context.Context) ([]Room, error) {
	const query = `SELECT id, name, description, temp_min, temp_max,
		humidity_min, humidity_max, auto_control_enabled, created_at, updated_at
		FROM rooms ORDER BY name`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying rooms: %w", err)
	}
	defer rows.Close()

	var rooms []Room
	for rows.Next() {
		rm, err := scanRoomRow(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, *rm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating room rows: %w", err)
	}
	return rooms, nil
}

// GetRoom returns a single room by ID.
func (r *SQLiteRepository) GetRoom(ctx context.Context, id string) (*Room, error) {
	const query = `SELECT id, name, description, temp_min, temp_max,
		humidity_min, humidity_max, auto_control_enabled, created_at, updated_at
		FROM rooms WHERE id = ?`
	return scanRoom(r.q.QueryRowContext(ctx, query, id))
}

// UpdateRoom updates an existing room record.
func (r *SQLiteRepository) UpdateRoom(ctx context.Context, room *Room) error {
	const query = `UPDATE rooms SET name = ?, description = ?, temp_min = ?,
		temp_max = ?, humidity_min = ?, humidity_max = ?, auto_control_enabled = ?,
		updated_at = ?
		WHERE id = ?`
	result, err := r.q.ExecContext(ctx, query,
		room.Name, nullIfEmpty(room.Description),
		nullFloat(room.TempMin), nullFloat(room.TempMax),
		nullFloat(room.HumidityMin), nullFloat(room.HumidityMax),
		boolToInt(room.AutoControlEnabled),
		formatTime(time.Now().UTC()), room.ID)
	if err != nil {
		return fmt.Errorf("updating room %s: %w", room.ID, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrRoomNotFound
	}
	return nil
}

// UpdateRoomThreshold applies a partial threshold update to a room.
//
// Absent patch fields keep their current value. The merged limits are
// validated before being written; an inconsistent result returns
// ErrInvalidThreshold and leaves the room unchanged.
func (r *SQLiteRepository) UpdateRoomThreshold(ctx context.Context, id string, patch *ThresholdPatch) (*Room, error) {
	var updated *Room
	err := r.InTx(ctx, func(txRepo Repository) error {
		room, err := txRepo.GetRoom(ctx, id)
		if err != nil {
			return err
		}
		patch.Apply(room)
		if err := validateLimits(room.TempMin, room.TempMax, room.HumidityMin, room.HumidityMax); err != nil {
			return err
		}
		if err := txRepo.UpdateRoom(ctx, room); err != nil {
			return err
		}
		updated = room
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteRoom removes a single room by ID.
// Sensors, devices, readings, and alerts cascade.
func (r *SQLiteRepository) DeleteRoom(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, "DELETE FROM rooms WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting room %s: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrRoomNotFound
	}
	return nil
}

// =============================================================================
// Sensors
// =============================================================================

// CreateSensor inserts a new sensor into the database.
func (r *SQLiteRepository) CreateSensor(ctx context.Context, sensor *Sensor) error {
	now := time.Now().UTC()
	sensor.CreatedAt = now
	sensor.UpdatedAt = now
	const query = `INSERT INTO sensors (id, room_id, name, type, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.q.ExecContext(ctx, query,
		sensor.ID, sensor.RoomID, sensor.Name, sensor.Type,
		boolToInt(sensor.IsActive), formatTime(now), formatTime(now))
	if err != nil {
		return fmt.Errorf("inserting sensor %s: %w", sensor.ID, err)
	}
	return nil
}

// ListSensors returns all sensors ordered by name.
func (r *SQLiteRepository) ListSensors(ctx context.Context) ([]Sensor, error) {
	const query = `SELECT id, room_id, name, type, is_active, last_seen_at, created_at, updated_at
		FROM sensors ORDER BY name`
	return r.querySensors(ctx, query)
}

// ListSensorsByRoom returns sensors for a specific room.
func (r *SQLiteRepository) ListSensorsByRoom(ctx context.Context, roomID string) ([]Sensor, error) {
	const query = `SELECT id, room_id, name, type, is_active, last_seen_at, created_at, updated_at
		FROM sensors WHERE room_id = ? ORDER BY name`
	return r.querySensors(ctx, query, roomID)
}

// GetSensor returns a single sensor by ID.
func (r *SQLiteRepository) GetSensor(ctx context.Context, id string) (*Sensor, error) {
	const query = `SELECT id, room_id, name, type, is_active, last_seen_at, created_at, updated_at
		FROM sensors WHERE id = ?`
	row := r.q.QueryRowContext(ctx, query, id)

	var s Sensor
	var isActive int
	var lastSeen sql.NullString
	var createdAt, updatedAt string
	err := row.Scan(&s.ID, &s.RoomID, &s.Name, &s.Type, &isActive, &lastSeen, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSensorNotFound
		}
		return nil, fmt.Errorf("scanning sensor: %w", err)
	}
	s.IsActive = isActive != 0
	if lastSeen.Valid {
		t := parseTime(lastSeen.String)
		s.LastSeenAt = &t
	}
	s.CreatedAt = parseTime(createdAt)
	s.UpdatedAt = parseTime(updatedAt)
	return &s, nil
}

// TouchSensor records when a sensor was last heard from.
func (r *SQLiteRepository) TouchSensor(ctx context.Context, id string, seenAt time.Time) error {
	const query = `UPDATE sensors SET last_seen_at = ?, updated_at = ? WHERE id = ?`
	result, err := r.q.ExecContext(ctx, query, formatTime(seenAt), formatTime(time.Now().UTC()), id)
	if err != nil {
		return fmt.Errorf("touching sensor %s: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrSensorNotFound
	}
	return nil
}

// DeleteSensor removes a single sensor by ID. Readings cascade.
func (r *SQLiteRepository) DeleteSensor(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, "DELETE FROM sensors WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting sensor %s: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrSensorNotFound
	}
	return nil
}

// querySensors executes a query and returns a slice of Sensor.
func (r *SQLiteRepository) querySensors(ctx context.Context, query string, args ...any) ([]Sensor, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sensors: %w", err)
	}
	defer rows.Close()

	var sensors []Sensor
	for rows.Next() {
		var s Sensor
		var isActive int
		var lastSeen sql.NullString
		var createdAt, updatedAt string
		if err := rows.Scan(&s.ID, &s.RoomID, &s.Name, &s.Type, &isActive, &lastSeen, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning sensor row: %w", err)
		}
		s.IsActive = isActive != 0
		if lastSeen.Valid {
			t := parseTime(lastSeen.String)
			s.LastSeenAt = &t
		}
		s.CreatedAt = parseTime(createdAt)
		s.UpdatedAt = parseTime(updatedAt)
		sensors = append(sensors, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sensor rows: %w", err)
	}
	return sensors, nil
}

// =============================================================================
// Devices
// =============================================================================

// CreateDevice inserts a new climate device into the database.
func (r *SQLiteRepository) CreateDevice(ctx context.Context, device *ClimateDevice) error {
	now := time.Now().UTC()
	device.CreatedAt = now
	device.UpdatedAt = now
	if device.Status == "" {
		device.Status = DeviceStatusOff
	}
	const query = `INSERT INTO climate_devices (id, room_id, type, name, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.q.ExecContext(ctx, query,
		device.ID, device.RoomID, device.Type, device.Name, device.Status,
		formatTime(now), formatTime(now))
	if err != nil {
		return fmt.Errorf("inserting device %s: %w", device.ID, err)
	}
	return nil
}

// ListDevicesByRoom returns devices for a specific room.
func (r *SQLiteRepository) ListDevicesByRoom(ctx context.Context, roomID string) ([]ClimateDevice, error) {
	const query = `SELECT id, room_id, type, name, status, created_at, updated_at
		FROM climate_devices WHERE room_id = ? ORDER BY name`
	rows, err := r.q.QueryContext(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("querying devices: %w", err)
	}
	defer rows.Close()

	var devices []ClimateDevice
	for rows.Next() {
		d, err := scanDeviceRow(rows)
		if err != nil {
			return nil, err
		}
		devices = append(devices, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating device rows: %w", err)
	}
	return devices, nil
}

// GetDevice returns a single device by ID.
func (r *SQLiteRepository) GetDevice(ctx context.Context, id string) (*ClimateDevice, error) {
	const query = `SELECT id, room_id, type, name, status, created_at, updated_at
		FROM climate_devices WHERE id = ?`
	return scanDevice(r.q.QueryRowContext(ctx, query, id))
}

// FindDeviceByType returns the room's device of the given type.
// With several matches the first by name wins.
func (r *SQLiteRepository) FindDeviceByType(ctx context.Context, roomID, deviceType string) (*ClimateDevice, error) {
	const query = `SELECT id, room_id, type, name, status, created_at, updated_at
		FROM climate_devices WHERE room_id = ? AND type = ? ORDER BY name LIMIT 1`
	return scanDevice(r.q.QueryRowContext(ctx, query, roomID, deviceType))
}

// UpdateDeviceStatus sets a device's status.
func (r *SQLiteRepository) UpdateDeviceStatus(ctx context.Context, id, status string) error {
	const query = `UPDATE climate_devices SET status = ?, updated_at = ? WHERE id = ?`
	result, err := r.q.ExecContext(ctx, query, status, formatTime(time.Now().UTC()), id)
	if err != nil {
		return fmt.Errorf("updating device %s status: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

// DeleteDevice removes a single device by ID.
func (r *SQLiteRepository) DeleteDevice(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, "DELETE FROM climate_devices WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting device %s: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

// scanDevice scans a single row into a ClimateDevice (for QueryRow).
func scanDevice(row *sql.Row) (*ClimateDevice, error) {
	var d ClimateDevice
	var createdAt, updatedAt string
	err := row.Scan(&d.ID, &d.RoomID, &d.Type, &d.Name, &d.Status, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("scanning device: %w", err)
	}
	d.CreatedAt = parseTime(createdAt)
	d.UpdatedAt = parseTime(updatedAt)
	return &d, nil
}

// scanDeviceRow scans a device from a Rows cursor.
func scanDeviceRow(rows *sql.Rows) (*ClimateDevice, error) {
	var d ClimateDevice
	var createdAt, updatedAt string
	err := rows.Scan(&d.ID, &d.RoomID, &d.Type, &d.Name, &d.Status, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("scanning device row: %w", err)
	}
	d.CreatedAt = parseTime(createdAt)
	d.UpdatedAt = parseTime(updatedAt)
	return &d, nil
}

// =============================================================================
// Readings
// =============================================================================

// InsertReading inserts a reading and sets its generated ID.
func (r *SQLiteRepository) InsertReading(ctx context.Context, reading *SensorReading) error {
	if reading.CreatedAt.IsZero() {
		reading.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO sensor_readings (sensor_id, temperature, humidity, is_anomaly, recorded_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	result, err := r.q.ExecContext(ctx, query,
		reading.SensorID, nullFloat(reading.Temperature), nullFloat(reading.Humidity),
		boolToInt(reading.IsAnomaly), formatTime(reading.RecordedAt), formatTime(reading.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting reading for sensor %s: %w", reading.SensorID, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading insert id: %w", err)
	}
	reading.ID = id
	return nil
}

// GetReading returns a single reading by ID.
func (r *SQLiteRepository) GetReading(ctx context.Context, id int64) (*SensorReading, error) {
	const query = `SELECT id, sensor_id, temperature, humidity, is_anomaly, recorded_at, created_at
		FROM sensor_readings WHERE id = ?`
	row := r.q.QueryRowContext(ctx, query, id)

	var rd SensorReading
	var temp, hum sql.NullFloat64
	var isAnomaly int
	var recordedAt, createdAt string
	err := row.Scan(&rd.ID, &rd.SensorID, &temp, &hum, &isAnomaly, &recordedAt, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrReadingNotFound
		}
		return nil, fmt.Errorf("scanning reading: %w", err)
	}
	if temp.Valid {
		rd.Temperature = &temp.Float64
	}
	if hum.Valid {
		rd.Humidity = &hum.Float64
	}
	rd.IsAnomaly = isAnomaly != 0
	rd.RecordedAt = parseTime(recordedAt)
	rd.CreatedAt = parseTime(createdAt)
	return &rd, nil
}

// ListRecentReadings returns the newest readings for a sensor, newest
// first.
func (r *SQLiteRepository) ListRecentReadings(ctx context.Context, sensorID string, limit int) ([]SensorReading, error) {
	const query = `SELECT id, sensor_id, temperature, humidity, is_anomaly, recorded_at, created_at
		FROM sensor_readings WHERE sensor_id = ?
		ORDER BY recorded_at DESC, id DESC LIMIT ?`
	return r.queryReadings(ctx, query, sensorID, limit)
}

// ListReadingsByRoomSince returns readings from all of a room's sensors
// recorded at or after the given time, oldest first.
func (r *SQLiteRepository) ListReadingsByRoomSince(ctx context.Context, roomID string, since time.Time) ([]SensorReading, error) {
	const query = `SELECT sr.id, sr.sensor_id, sr.temperature, sr.humidity, sr.is_anomaly, sr.recorded_at, sr.created_at
		FROM sensor_readings sr
		JOIN sensors s ON s.id = sr.sensor_id
		WHERE s.room_id = ? AND sr.recorded_at >= ?
		ORDER BY sr.recorded_at ASC, sr.id ASC`
	return r.queryReadings(ctx, query, roomID, formatTime(since))
}

// ListReadingsSince returns readings from every sensor recorded at or
// after the given time, oldest first.
func (r *SQLiteRepository) ListReadingsSince(ctx context.Context, since time.Time) ([]SensorReading, error) {
	const query = `SELECT id, sensor_id, temperature, humidity, is_anomaly, recorded_at, created_at
		FROM sensor_readings WHERE recorded_at >= ?
		ORDER BY recorded_at ASC, id ASC`
	return r.queryReadings(ctx, query, formatTime(since))
}

// ListReadingsByRoomBetween returns a room's readings recorded within
// [start, end), oldest first.
func (r *SQLiteRepository) ListReadingsByRoomBetween(ctx context.Context, roomID string, start, end time.Time) ([]SensorReading, error) {
	const query = `SELECT sr.id, sr.sensor_id, sr.temperature, sr.humidity, sr.is_anomaly, sr.recorded_at, sr.created_at
		FROM sensor_readings sr
		JOIN sensors s ON s.id = sr.sensor_id
		WHERE s.room_id = ? AND sr.recorded_at >= ? AND sr.recorded_at < ?
		ORDER BY sr.recorded_at ASC, sr.id ASC`
	return r.queryReadings(ctx, query, roomID, formatTime(start), formatTime(end))
}

// ListReadingsBetween returns readings from every sensor recorded
// within [start, end), oldest first.
func (r *SQLiteRepository) ListReadingsBetween(ctx context.Context, start, end time.Time) ([]SensorReading, error) {
	const query = `SELECT id, sensor_id, temperature, humidity, is_anomaly, recorded_at, created_at
		FROM sensor_readings WHERE recorded_at >= ? AND recorded_at < ?
		ORDER BY recorded_at ASC, id ASC`
	return r.queryReadings(ctx, query, formatTime(start), formatTime(end))
}

// queryReadings executes a query and returns a slice of SensorReading.
func (r *SQLiteRepository) queryReadings(ctx context.Context, query string, args ...any) ([]SensorReading, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying readings: %w", err)
	}
	defer rows.Close()

	var readings []SensorReading
	for rows.Next() {
		var rd SensorReading
		var temp, hum sql.NullFloat64
		var isAnomaly int
		var recordedAt, createdAt string
		if err := rows.Scan(&rd.ID, &rd.SensorID, &temp, &hum, &isAnomaly, &recordedAt, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning reading row: %w", err)
		}
		if temp.Valid {
			rd.Temperature = &temp.Float64
		}
		if hum.Valid {
			rd.Humidity = &hum.Float64
		}
		rd.IsAnomaly = isAnomaly != 0
		rd.RecordedAt = parseTime(recordedAt)
		rd.CreatedAt = parseTime(createdAt)
		readings = append(readings, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reading rows: %w", err)
	}
	return readings, nil
}

// =============================================================================
// Alerts
// =============================================================================

// InsertAlert inserts an alert and sets its generated ID.
func (r *SQLiteRepository) InsertAlert(ctx context.Context, alert *Alert) error {
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO alerts (room_id, sensor_id, reading_id, alert_type,
		severity, message, value, threshold_value, is_resolved, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.q.ExecContext(ctx, query,
		alert.RoomID, nullStr(alert.SensorID), nullInt(alert.ReadingID),
		alert.Type, alert.Severity, alert.Message,
		nullFloat(alert.Value), nullFloat(alert.ThresholdValue),
		boolToInt(alert.IsResolved), formatTime(alert.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting alert for room %s: %w", alert.RoomID, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("alert insert id: %w", err)
	}
	alert.ID = id
	return nil
}

// ListAlertsByRoom returns the newest alerts for a room, newest first.
func (r *SQLiteRepository) ListAlertsByRoom(ctx context.Context, roomID string, limit int) ([]Alert, error) {
	const query = `SELECT id, room_id, sensor_id, reading_id, alert_type, severity,
		message, value, threshold_value, is_resolved, created_at, resolved_at
		FROM alerts WHERE room_id = ?
		ORDER BY created_at DESC, id DESC LIMIT ?`
	rows, err := r.q.QueryContext(ctx, query, roomID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying alerts: %w", err)
	}
	defer rows.Close()

	var alerts []Alert
	for rows.Next() {
		var a Alert
		var sensorID sql.NullString
		var readingID sql.NullInt64
		var value, threshold sql.NullFloat64
		var isResolved int
		var createdAt string
		var resolvedAt sql.NullString
		if err := rows.Scan(&a.ID, &a.RoomID, &sensorID, &readingID, &a.Type, &a.Severity,
			&a.Message, &value, &threshold, &isResolved, &createdAt, &resolvedAt); err != nil {
			return nil, fmt.Errorf("scanning alert row: %w", err)
		}
		if sensorID.Valid {
			a.SensorID = &sensorID.String
		}
		if readingID.Valid {
			a.ReadingID = &readingID.Int64
		}
		if value.Valid {
			a.Value = &value.Float64
		}
		if threshold.Valid {
			a.ThresholdValue = &threshold.Float64
		}
		a.IsResolved = isResolved != 0
		a.CreatedAt = parseTime(createdAt)
		if resolvedAt.Valid {
			t := parseTime(resolvedAt.String)
			a.ResolvedAt = &t
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating alert rows: %w", err)
	}
	return alerts, nil
}

// CountAlertsByRoomSince counts alerts raised for a room at or after
// the given time.
func (r *SQLiteRepository) CountAlertsByRoomSince(ctx context.Context, roomID string, since time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM alerts WHERE room_id = ? AND created_at >= ?`
	var n int
	if err := r.q.QueryRowContext(ctx, query, roomID, formatTime(since)).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting alerts for room %s: %w", roomID, err)
	}
	return n, nil
}

// ResolveAlert marks an alert resolved.
func (r *SQLiteRepository) ResolveAlert(ctx context.Context, id int64) error {
	const query = `UPDATE alerts SET is_resolved = 1, resolved_at = ? WHERE id = ? AND is_resolved = 0`
	result, err := r.q.ExecContext(ctx, query, formatTime(time.Now().UTC()), id)
	if err != nil {
		return fmt.Errorf("resolving alert %d: %w", id, err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	if n == 0 {
		return ErrAlertNotFound
	}
	return nil
}

// =============================================================================
// Device commands
// =============================================================================

// InsertCommand inserts a device command audit record and sets its
// generated ID.
func (r *SQLiteRepository) InsertCommand(ctx context.Context, cmd *DeviceCommand) error {
	if cmd.IssuedAt.IsZero() {
		cmd.IssuedAt = time.Now().UTC()
	}
	const query = `INSERT INTO device_commands (device_id, reading_id, action, reason, issued_at)
		VALUES (?, ?, ?, ?, ?)`
	result, err := r.q.ExecContext(ctx, query,
		cmd.DeviceID, nullInt(cmd.ReadingID), cmd.Action,
		nullIfEmpty(cmd.Reason), formatTime(cmd.IssuedAt))
	if err != nil {
		return fmt.Errorf("inserting command for device %s: %w", cmd.DeviceID, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("command insert id: %w", err)
	}
	cmd.ID = id
	return nil
}

// ListCommandsByDevice returns the newest commands for a device,
// newest first.
func (r *SQLiteRepository) ListCommandsByDevice(ctx context.Context, deviceID string, limit int) ([]DeviceCommand, error) {
	const query = `SELECT id, device_id, reading_id, action, reason, issued_at
		FROM device_commands WHERE device_id = ?
		ORDER BY issued_at DESC, id DESC LIMIT ?`
	rows, err := r.q.QueryContext(ctx, query, deviceID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying commands: %w", err)
	}
	defer rows.Close()

	var cmds []DeviceCommand
	for rows.Next() {
		var c DeviceCommand
		var readingID sql.NullInt64
		var reason sql.NullString
		var issuedAt string
		if err := rows.Scan(&c.ID, &c.DeviceID, &readingID, &c.Action, &reason, &issuedAt); err != nil {
			return nil, fmt.Errorf("scanning command row: %w", err)
		}
		if readingID.Valid {
			c.ReadingID = &readingID.Int64
		}
		if reason.Valid {
			c.Reason = reason.String
		}
		c.IssuedAt = parseTime(issuedAt)
		cmds = append(cmds, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating command rows: %w", err)
	}
	return cmds, nil
}

// =============================================================================
// Scan and conversion helpers
// =============================================================================

// scanRoom scans a single row into a Room (for QueryRow).
func scanRoom(row *sql.Row) (*Room, error) {
	var rm Room
	var description sql.NullString
	var tempMin, tempMax, humMin, humMax sql.NullFloat64
	var autoControl int
	var createdAt, updatedAt string

	err := row.Scan(&rm.ID, &rm.Name, &description, &tempMin, &tempMax,
		&humMin, &humMax, &autoControl, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("scanning room: %w", err)
	}
	if description.Valid {
		rm.Description = description.String
	}
	rm.TempMin = floatPtr(tempMin)
	rm.TempMax = floatPtr(tempMax)
	rm.HumidityMin = floatPtr(humMin)
	rm.HumidityMax = floatPtr(humMax)
	rm.AutoControlEnabled = autoControl != 0
	rm.CreatedAt = parseTime(createdAt)
	rm.UpdatedAt = parseTime(updatedAt)
	return &rm, nil
}

// scanRoomRow scans a room from a Rows cursor.
func scanRoomRow(rows *sql.Rows) (*Room, error) {
	var rm Room
	var description sql.NullString
	var tempMin, tempMax, humMin, humMax sql.NullFloat64
	var autoControl int
	var createdAt, updatedAt string

	err := rows.Scan(&rm.ID, &rm.Name, &description, &tempMin, &tempMax,
		&humMin, &humMax, &autoControl, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("scanning room row: %w", err)
	}
	if description.Valid {
		rm.Description = description.String
	}
	rm.TempMin = floatPtr(tempMin)
	rm.TempMax = floatPtr(tempMax)
	rm.HumidityMin = floatPtr(humMin)
	rm.HumidityMax = floatPtr(humMax)
	rm.AutoControlEnabled = autoControl != 0
	rm.CreatedAt = parseTime(createdAt)
	rm.UpdatedAt = parseTime(updatedAt)
	return &rm, nil
}

// nullStr converts a *string to a sql.NullString for nullable columns.
func nullStr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// nullIfEmpty converts an empty string to a NULL column value.
func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// floatPtr converts a scanned sql.NullFloat64 back to a *float64.
func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

// nullFloat converts a *float64 to sql.NullFloat64 for nullable columns.
func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

// nullInt converts a *int64 to sql.NullInt64 for nullable columns.
func nullInt(i *int64) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *i, Valid: true}
}

// boolToInt converts a bool to its SQLite INTEGER representation.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// formatTime serialises a timestamp as RFC3339 UTC for TEXT columns.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// parseTime parses an ISO 8601 timestamp from SQLite.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		// Try the SQLite default format without timezone.
		t, err = time.Parse("2006-01-02T15:04:05Z", s)
		if err != nil {
			return time.Time{}
		}
	}
	return t
}
