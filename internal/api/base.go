package api

// DefaultBaseURL is the single source of truth for the CLI API target.
const DefaultBaseURL = "http://localhost:8000"

// apiPrefix is prepended to every endpoint path.
const apiPrefix = "/api"
