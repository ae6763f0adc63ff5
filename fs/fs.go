// Package appfs exposes embedded application assets: database migrations
// and the default seed data.
package appfs

import "embed"

//go:embed migrations seed.json
var FS embed.FS

// DefaultSeedPath is the embedded seed data file. All seeded accounts use
// the password "password".
const DefaultSeedPath = "seed.json"
