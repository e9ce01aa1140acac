package models

// Admin is a back-office operator allowed to confirm, cancel and list.
type Admin struct {
	ID           int64  `json:"admin_id"`
	FullName     string `json:"full_name"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
}
