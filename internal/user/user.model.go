package user

import "time"

type User struct {
	ID             string    `json:"id"`
	ClerkID        string    `json:"clerkId"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	FullName       string    `json:"fullName"`
	EmailVerified  bool      `json:"emailVerified"`
	Goal           string    `json:"goal"`
	ActivityLevel  string    `json:"activityLevel"`
	CurrentWeight  float64   `json:"currentWeight"`
	TargetWeight   float64   `json:"targetWeight"`
	Gender         string    `json:"gender"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
