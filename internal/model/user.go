package model

import "time"

// User is an end customer (`users` table).  Users own cart, favorite and
// detection-log rows.
type User struct {
    ID           uint64    `json:"id"`
    Name         string    `json:"name"`
    Surname      string    `json:"surname"`
    Username     string    `json:"username"`
    Email        string    `json:"email"`
    PasswordHash string    `json:"-"`
    City         string    `json:"city"`
    PhoneNumber  string    `json:"phoneNumber"`
    ProfilePic   Image     `json:"profilePic"`
    CreatedAt    time.Time `json:"createdAt"`
    UpdatedAt    time.Time `json:"updatedAt"`
}
