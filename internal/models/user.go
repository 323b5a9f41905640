package models

import (
	"time"

	"github.com/google/uuid"
)

// User описывает сущность пользователя платформы.
type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	Username     string     `db:"username" json:"username"`
	PasswordHash string     `db:"password_hash" json:"-"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Profile описывает публичный профиль креатора.
type Profile struct {
	UserID           uuid.UUID  `db:"user_id" json:"user_id"`
	DisplayName      string     `db:"display_name" json:"display_name"`
	Bio              *string    `db:"bio" json:"bio,omitempty"`
	Disciplines      []string   `db:"disciplines" json:"disciplines"`
	Location         *string    `db:"location" json:"location,omitempty"`
	Latitude         *float64   `db:"latitude" json:"latitude,omitempty"`
	Longitude        *float64   `db:"longitude" json:"longitude,omitempty"`
	Website          *string    `db:"website" json:"website,omitempty"`
	Instagram        *string    `db:"instagram" json:"instagram,omitempty"`
	PhotoID          *uuid.UUID `db:"photo_id" json:"photo_id,omitempty"`
	AvailableForWork bool       `db:"available_for_work" json:"available_for_work"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// Session представляет сохранённую сессию пользователя.
type Session struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	RefreshToken string    `db:"refresh_token" json:"refresh_token"`
	UserAgent    *string   `db:"user_agent" json:"user_agent,omitempty"`
	IPAddress    *string   `db:"ip_address" json:"ip_address,omitempty"`
	ExpiresAt    time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// ProfileCard компактное представление профиля для списков и обогащения избранного.
type ProfileCard struct {
	UserID      uuid.UUID  `db:"user_id" json:"user_id"`
	Username    string     `db:"username" json:"username"`
	DisplayName string     `db:"display_name" json:"display_name"`
	Disciplines []string   `db:"disciplines" json:"disciplines"`
	Location    *string    `db:"location" json:"location,omitempty"`
	PhotoID     *uuid.UUID `db:"photo_id" json:"photo_id,omitempty"`
}

// ProfileSearchResult результат поиска профилей.
type ProfileSearchResult struct {
	UserID           uuid.UUID  `json:"user_id"`
	Username         string     `json:"username"`
	DisplayName      string     `json:"display_name"`
	Bio              *string    `json:"bio,omitempty"`
	Disciplines      []string   `json:"disciplines,omitempty"`
	Location         *string    `json:"location,omitempty"`
	PhotoID          *uuid.UUID `json:"photo_id,omitempty"`
	AvailableForWork bool       `json:"available_for_work"`
	CreatedAt        time.Time  `json:"created_at"`
}
