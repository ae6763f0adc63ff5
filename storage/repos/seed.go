package storerepos

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core/assignment"
	"github.com/trezcool/kazi/core/submission"
	"github.com/trezcool/kazi/core/user"
	"github.com/trezcool/kazi/storage/store"
)

// SeedData mirrors the bootstrap seed document.
type SeedData struct {
	Users       []user.User             `json:"users"`
	Assignments []assignment.Assignment `json:"assignments"`
	Submissions []submission.Submission `json:"submissions"`
}

// Seed runs the one-time bootstrap: it populates the collections from r and
// sets the seed flag. Once the flag is set, subsequent calls are no-ops.
// Unlike regular reads, any failure here propagates; the application cannot
// run without seed data.
func Seed(st store.Store, r io.Reader) error {
	seeded, err := st.Seeded()
	if err != nil {
		return errors.Wrap(err, "checking seed flag")
	}
	if seeded {
		return nil
	}

	var data SeedData
	if err = json.NewDecoder(r).Decode(&data); err != nil {
		return errors.Wrap(err, "decoding seed data")
	}

	collections := map[string]interface{}{
		store.Users:       data.Users,
		store.Assignments: data.Assignments,
		store.Submissions: data.Submissions,
	}
	for name, records := range collections {
		raw, err := json.Marshal(records)
		if err != nil {
			return errors.Wrap(err, "encoding seed collection "+name)
		}
		if err = st.Put(name, raw); err != nil {
			return errors.Wrap(err, "seeding collection "+name)
		}
	}
	return errors.Wrap(st.MarkSeeded(), "marking store seeded")
}
