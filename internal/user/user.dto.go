package user

type CreateUserRequest struct {
	ClerkID  string `json:"clerkId" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=30"`
	FullName string `json:"fullName" validate:"required"`
}

type UpdateProfileRequest struct {
	Username       string   `json:"username,omitempty"`
	FullName       string   `json:"fullName,omitempty"`
	Goal           string   `json:"goal,omitempty"`
	ActivityLevel  string   `json:"activityLevel,omitempty"`
	CurrentWeight  *float64 `json:"currentWeight,omitempty"`
	TargetWeight   *float64 `json:"targetWeight,omitempty"`
	Gender         string   `json:"gender,omitempty"`
	ProfilePicture string   `json:"profilePicture,omitempty"`
}
