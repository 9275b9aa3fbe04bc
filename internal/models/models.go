// Package models defines the core data structures for users, plants, cafes and likes.
package models

import (
	"time"

	"github.com/lib/pq"
)

const (
	// DefaultProfileImage is stored when a user leaves the image URL empty.
	DefaultProfileImage = "/static/images/default-pic.png"
	// DefaultCafeImage is stored when a cafe is saved without an image URL.
	DefaultCafeImage = "/static/images/default-cafe.jpg"
	// DefaultPlantImage is used when the catalog record carries no usable image.
	DefaultPlantImage = "/static/images/default-plant.png"
)

// User represents an application user with credentials.
type User struct {
	// ID is the unique identifier for the user.
	ID int64 `db:"id" json:"id"`
	// Username is the login name chosen by the user.
	Username string `db:"username" json:"username"`
	// Admin grants the right to add and edit cafes.
	Admin       bool   `db:"admin" json:"admin"`
	Email       string `db:"email" json:"email"`
	FirstName   string `db:"first_name" json:"first_name"`
	LastName    string `db:"last_name" json:"last_name"`
	Description string `db:"description" json:"description"`
	ImageURL    string `db:"image_url" json:"image_url"`
	// HashedPassword is the bcrypt hash of the user's password.
	HashedPassword string    `db:"hashed_password" json:"-"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// FullName returns "first last".
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Plant is a catalog record cached locally, keyed by the catalog's own id.
type Plant struct {
	ID             int64          `db:"id" json:"id"`
	APIID          int64          `db:"api_id" json:"api_id"`
	CommonName     string         `db:"common_name" json:"common_name"`
	ScientificName pq.StringArray `db:"scientific_name" json:"scientific_name"`
	Cycle          string         `db:"cycle" json:"cycle"`
	Watering       string         `db:"watering" json:"watering"`
	Sunlight       pq.StringArray `db:"sunlight" json:"sunlight"`
	ImageURL       string         `db:"image_url" json:"image_url"`
	SyncedAt       time.Time      `db:"synced_at" json:"synced_at"`
}

// City is static reference data for cafes.
type City struct {
	Code  string `db:"code" json:"code"`
	Name  string `db:"name" json:"name"`
	State string `db:"state" json:"state"`
}

// Cafe is an admin-curated place.
type Cafe struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	URL         string `db:"url" json:"url"`
	Address     string `db:"address" json:"address"`
	CityCode    string `db:"city_code" json:"city_code"`
	ImageURL    string `db:"image_url" json:"image_url"`
	// CityName and CityState are filled by queries that join cities.
	CityName  string `db:"city_name" json:"city_name,omitempty"`
	CityState string `db:"city_state" json:"city_state,omitempty"`
}

// Location returns "city, state" for display.
func (c *Cafe) Location() string {
	return c.CityName + ", " + c.CityState
}

// LikeKind selects which entity a like refers to.
type LikeKind string

const (
	// LikePlant is a like on a plant.
	LikePlant LikeKind = "plant"
	// LikeCafe is a like on a cafe.
	LikeCafe LikeKind = "cafe"
)

// Valid reports whether k is a known like kind.
func (k LikeKind) Valid() bool {
	return k == LikePlant || k == LikeCafe
}
