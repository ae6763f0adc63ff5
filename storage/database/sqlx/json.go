// Package sqlxrepos implements the domain repositories over Postgres.
// Structured sub-records (user meta, visibility, step logs) live in JSONB
// columns; a seq column preserves store insertion order.
package sqlxrepos

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core/assignment"
	"github.com/trezcool/kazi/core/submission"
	"github.com/trezcool/kazi/core/user"
)

func scanJSON(src, dst interface{}) error {
	switch data := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(data, dst)
	case string:
		return json.Unmarshal([]byte(data), dst)
	}
	return errors.Errorf("unsupported JSONB source type %T", src)
}

type metaJSON user.Meta

func (m metaJSON) Value() (driver.Value, error) { return json.Marshal(m) }
func (m *metaJSON) Scan(src interface{}) error  { return scanJSON(src, m) }

type visibilityJSON struct {
	assignment.Visibility
}

func (v visibilityJSON) Value() (driver.Value, error) { return json.Marshal(v) }
func (v *visibilityJSON) Scan(src interface{}) error  { return scanJSON(src, v) }

type stringsJSON []string

func (s stringsJSON) Value() (driver.Value, error) {
	if s == nil {
		s = stringsJSON{}
	}
	return json.Marshal(s)
}
func (s *stringsJSON) Scan(src interface{}) error { return scanJSON(src, s) }

type stepsJSON []submission.ConfirmationStep

func (s stepsJSON) Value() (driver.Value, error) {
	if s == nil {
		s = stepsJSON{}
	}
	return json.Marshal(s)
}
func (s *stepsJSON) Scan(src interface{}) error { return scanJSON(src, s) }
