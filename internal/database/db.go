package database

import (
	"aqipredict/internal/features"
	"aqipredict/internal/metrics"
	"aqipredict/internal/models"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// DateLayout is the day-precision format of observed_on
const DateLayout = "2006-01-02"

// LagDays are the offsets looked up for a prediction day, in LagHistory order
var LagDays = []int{1, 2, 7}

// DB represents the database connection
type DB struct {
	conn *sql.DB
}

// LagLookup is the lag history resolved for one location and day
type LagLookup struct {
	Location string            `json:"location"`
	Date     string            `json:"date"`
	Lags     models.LagHistory `json:"lags"`
	Missing  []int             `json:"missing"` // lag days that fell back to the default
}

// NewDB creates a new database connection and initializes the schema
// dsn format: "username:password@tcp(host:port)/dbname?parseTime=true"
// example: "aqi:aqi@tcp(localhost:3306)/aqi?parseTime=true"
func NewDB(dsn string) (*DB, error) {
	conn, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)

	db := &DB{conn: conn}

	if err := db.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

func (db *DB) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS aqi_observations (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			location VARCHAR(255) NOT NULL,
			observed_on DATE NOT NULL,
			aqi DOUBLE NOT NULL,
			UNIQUE KEY uq_observations_location_day (location, observed_on),
			INDEX idx_observations_observed_on (observed_on)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}

	return nil
}

func (db *DB) recordStats() {
	stats := db.conn.Stats()
	metrics.UpdateDBConnectionStats(stats.OpenConnections, stats.InUse, stats.Idle)
}

// StoreObservation upserts the AQI observed for a location on a day
func (db *DB) StoreObservation(obs models.Observation) error {
	defer db.recordStats()

	query := `INSERT INTO aqi_observations (location, observed_on, aqi) VALUES (?, ?, ?)
	          ON DUPLICATE KEY UPDATE aqi = VALUES(aqi)`
	queryStart := time.Now()
	_, err := db.conn.Exec(query, obs.Location, obs.ObservedOn.Format(DateLayout), obs.AQI)
	metrics.RecordDBQuery("INSERT", "aqi_observations", time.Since(queryStart), err)
	if err != nil {
		return fmt.Errorf("failed to store observation for %s on %s: %w",
			obs.Location, obs.ObservedOn.Format(DateLayout), err)
	}
	return nil
}

// StoreObservations upserts a batch in one transaction
func (db *DB) StoreObservations(observations []models.Observation) error {
	if len(observations) == 0 {
		log.Printf("No observations")
		return nil
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Will be ignored if committed

	stmt, err := tx.Prepare(`INSERT INTO aqi_observations (location, observed_on, aqi) VALUES (?, ?, ?)
	                         ON DUPLICATE KEY UPDATE aqi = VALUES(aqi)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	queryStart := time.Now()
	for _, obs := range observations {
		if _, err = stmt.Exec(obs.Location, obs.ObservedOn.Format(DateLayout), obs.AQI); err != nil {
			return fmt.Errorf("failed to insert observation for %s on %s: %w",
				obs.Location, obs.ObservedOn.Format(DateLayout), err)
		}
	}

	err = tx.Commit()
	metrics.RecordDBQuery("INSERT", "aqi_observations", time.Since(queryStart), err)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("✓ Stored %d observations", len(observations))
	return nil
}

// GetObservations retrieves observations for a location since a day, newest first
func (db *DB) GetObservations(location string, since time.Time, limit int) ([]models.Observation, error) {
	query := `SELECT id, location, observed_on, aqi FROM aqi_observations
	          WHERE location = ? AND observed_on >= ? ORDER BY observed_on DESC LIMIT ?`
	queryStart := time.Now()
	rows, err := db.conn.Query(query, location, since.Format(DateLayout), limit)
	metrics.RecordDBQuery("SELECT", "aqi_observations", time.Since(queryStart), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query observations: %w", err)
	}
	defer rows.Close()

	var observations []models.Observation
	for rows.Next() {
		var o models.Observation
		if err := rows.Scan(&o.ID, &o.Location, &o.ObservedOn, &o.AQI); err != nil {
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}
		observations = append(observations, o)
	}

	return observations, rows.Err()
}

// GetLagHistory resolves the AQI observed 1, 2 and 7 days before date.
// Days without an observation take features.DefaultLagAQI.
func (db *DB) GetLagHistory(location string, date time.Time) (*LagLookup, error) {
	days := LagDates(date)

	query := `SELECT observed_on, aqi FROM aqi_observations WHERE location = ? AND observed_on IN (?, ?, ?)`
	queryStart := time.Now()
	rows, err := db.conn.Query(query, location, days[0], days[1], days[2])
	metrics.RecordDBQuery("SELECT", "aqi_observations", time.Since(queryStart), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query lag history: %w", err)
	}
	defer rows.Close()

	observed := make(map[string]float64, len(days))
	for rows.Next() {
		var (
			day time.Time
			aqi float64
		)
		if err := rows.Scan(&day, &aqi); err != nil {
			return nil, fmt.Errorf("failed to scan lag observation: %w", err)
		}
		observed[day.Format(DateLayout)] = aqi
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lag observations: %w", err)
	}

	lookup := ResolveLags(location, date, observed)
	return &lookup, nil
}

// LagDates returns the observed_on keys for each of LagDays before date
func LagDates(date time.Time) []string {
	dates := make([]string, len(LagDays))
	for i, lag := range LagDays {
		dates[i] = date.AddDate(0, 0, -lag).Format(DateLayout)
	}
	return dates
}

// ResolveLags fills a LagHistory from observed values keyed by day
func ResolveLags(location string, date time.Time, observed map[string]float64) LagLookup {
	values := make([]float64, len(LagDays))
	missing := []int{}

	for i, day := range LagDates(date) {
		aqi, ok := observed[day]
		if !ok {
			aqi = features.DefaultLagAQI
			missing = append(missing, LagDays[i])
		}
		values[i] = aqi
	}

	return LagLookup{
		Location: location,
		Date:     date.Format(DateLayout),
		Lags:     models.LagHistory{Lag1: values[0], Lag2: values[1], Lag7: values[2]},
		Missing:  missing,
	}
}

// GetLocationsWithData returns a set of all locations that have observations
func (db *DB) GetLocationsWithData() (map[string]bool, error) {
	query := `SELECT DISTINCT location FROM aqi_observations`
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to get locations with data: %w", err)
	}
	defer rows.Close()

	locations := make(map[string]bool)
	for rows.Next() {
		var location string
		if err := rows.Scan(&location); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locations[location] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locations: %w", err)
	}

	return locations, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}
