package models

import "github.com/jroosing/mockserver/internal/config"

// ConfigResponse is the API response for GET /config.
type ConfigResponse struct {
	Server  config.ServerConfig  `json:"server"`
	Logging config.LoggingConfig `json:"logging"`
	Admin   config.AdminConfig   `json:"admin"`
}
