package submission

import (
	"math"

	"github.com/trezcool/kazi/core/user"
)

// Stats are per-assignment completion statistics over the eligible
// student set. Confirmed + Pending + NotSubmitted == Total always holds.
type Stats struct {
	Confirmed    int `json:"confirmed"`
	Pending      int `json:"pending"`
	NotSubmitted int `json:"notSubmitted"`
	Total        int `json:"total"`
	Percentage   int `json:"percentage"`
}

// ComputeStats derives completion statistics from the eligible students and
// the assignment's submissions. Submissions from students outside the
// eligible set are ignored; eligible students with no submission count as
// not submitted.
func ComputeStats(eligible []user.User, subs []Submission) Stats {
	eligibleIDs := make(map[string]struct{}, len(eligible))
	for _, usr := range eligible {
		eligibleIDs[usr.ID] = struct{}{}
	}

	st := Stats{Total: len(eligible)}
	for _, sub := range subs {
		if _, ok := eligibleIDs[sub.StudentID]; !ok {
			continue
		}
		switch sub.Status {
		case StatusConfirmed:
			st.Confirmed++
		case StatusSubmitted:
			st.Pending++
		}
	}
	st.NotSubmitted = st.Total - st.Confirmed - st.Pending
	if st.Total > 0 {
		st.Percentage = int(math.Round(float64(st.Confirmed) / float64(st.Total) * 100))
	}
	return st
}
