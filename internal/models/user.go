package models

import (
	"time"
)

// User represents a registered account
type User struct {
	ID             string    `json:"id" bson:"id"`
	Email          string    `json:"email" bson:"email"`
	HashedPassword string    `json:"-" bson:"hashed_password"`
	FullName       string    `json:"full_name" bson:"full_name"`
	IsAdmin        bool      `json:"is_admin" bson:"is_admin"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}

// UserCreate is the registration request body
type UserCreate struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required"`
}

// UserLogin is the login request body
type UserLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Token is the login response
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
