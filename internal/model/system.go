package model

// VersionInfo describes the running build: app version, applied schema
// migration and the optional features it ships with.
type VersionInfo struct {
	AppVersion    string          `json:"app_version"`
	DbVersion     string          `json:"db_version"`
	Features      map[string]bool `json:"features"`
	ImportSources []string        `json:"import_sources"` // Broker statement formats accepted by /api/import
}
