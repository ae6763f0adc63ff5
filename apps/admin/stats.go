package main

import (
	"fmt"

	"github.com/trezcool/kazi/core/submission"
)

// stats prints completion statistics for an assignment over its class.
func (cli *commandLine) stats(assignmentID string) error {
	asg, err := cli.asgRepo.GetAssignmentByID(assignmentID)
	if err != nil {
		return err
	}
	eligible, err := cli.usrRepo.FilterStudentsByClass(asg.Course)
	if err != nil {
		return err
	}
	subs, err := cli.subRepo.FilterSubmissionsByAssignment(asg.ID)
	if err != nil {
		return err
	}
	stats := submission.ComputeStats(eligible, subs)

	fmt.Printf("%s (%s)\n", asg.Title, asg.Course)
	fmt.Printf("  confirmed:     %d\n", stats.Confirmed)
	fmt.Printf("  pending:       %d\n", stats.Pending)
	fmt.Printf("  not submitted: %d\n", stats.NotSubmitted)
	fmt.Printf("  total:         %d (%d%% confirmed)\n", stats.Total, stats.Percentage)
	return nil
}
