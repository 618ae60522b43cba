package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pcasconnect/campus/core/session"
	"github.com/pcasconnect/campus/gateway"
)

func newMarkCmd(app *application) *cobra.Command {
	var (
		subjectID int
		periodID  int
		date      string
		absent    []int
	)
	cmd := &cobra.Command{
		Use:   "mark",
		Short: "Mark a period's attendance (teachers and HODs)",
		Long: `Fetches the subject's roll list and submits one attendance record per
student: absent for the ids passed via --absent, present for everyone else.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, ok := app.sessions.Current()
			if !ok {
				return errors.New("not signed in; run login first")
			}
			if sess.Role != session.RoleTeacher && sess.Role != session.RoleHOD {
				return fmt.Errorf("a %s session cannot mark attendance", sess.Role)
			}
			if date == "" {
				date = time.Now().Format("2006-01-02")
			}

			students, err := app.gw.StudentsInSubject(cmd.Context(), subjectID)
			if err != nil {
				return err
			}
			absentSet := make(map[int]bool, len(absent))
			for _, id := range absent {
				absentSet[id] = true
			}
			marks := make([]gateway.AttendanceMark, 0, len(students))
			for _, st := range students {
				status := "P"
				if absentSet[st.ID] {
					status = "A"
				}
				marks = append(marks, gateway.AttendanceMark{StudentID: st.ID, Status: status})
			}

			res, err := app.gw.MarkAttendance(cmd.Context(), sess.SubjectID, subjectID, periodID, date, marks)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (saved %d, skipped %d)\n", res.Message, res.Saved, res.Skipped)
			return nil
		},
	}
	cmd.Flags().IntVar(&subjectID, "subject", 0, "subject id")
	cmd.Flags().IntVar(&periodID, "period", 0, "period id")
	cmd.Flags().StringVar(&date, "date", "", "date (YYYY-MM-DD), defaults to today")
	cmd.Flags().IntSliceVar(&absent, "absent", nil, "student ids to mark absent")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("period")
	return cmd
}
