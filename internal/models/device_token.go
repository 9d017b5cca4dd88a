package models

// DeviceToken is a Firebase Cloud Messaging registration token for one of a
// driver's devices.
type DeviceToken struct {
	ID         int64  `json:"id" db:"id"`
	ProfileID  string `json:"profile_id" db:"profile_id"`
	Token      string `json:"token" db:"token"`
	DeviceType string `json:"device_type" db:"device_type"` // "ios" or "android"
	CreatedAt  int64  `json:"created_at" db:"created_at"`
	UpdatedAt  int64  `json:"updated_at" db:"updated_at"`
}

type RegisterDeviceTokenRequest struct {
	Token      string `json:"token"`
	DeviceType string `json:"device_type"`
}
