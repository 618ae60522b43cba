package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pcasconnect/campus/core/nav"
)

func newHODCmd(app *application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hod",
		Short: "Head-of-department operations",
	}
	cmd.AddCommand(
		newPromoteCmd(app),
		newAssignCmd(app),
		newAnnounceCmd(app),
	)
	return cmd
}

func newPromoteCmd(app *application) *cobra.Command {
	var semester int
	cmd := &cobra.Command{
		Use:   "promote",
		Short: "Promote the department's students of one semester to the next",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireRole(app, nav.RouteHODHome)
			if err != nil {
				return err
			}
			res, err := app.gw.PromoteStudents(cmd.Context(), sess.DepartmentID, semester)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}
	cmd.Flags().IntVar(&semester, "semester", 0, "current semester to promote from")
	_ = cmd.MarkFlagRequired("semester")
	return cmd
}

func newAssignCmd(app *application) *cobra.Command {
	var (
		teacherID int
		subjectID int
	)
	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Assign a teacher to a subject",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireRole(app, nav.RouteHODHome); err != nil {
				return err
			}
			res, err := app.gw.AssignTeacher(cmd.Context(), teacherID, subjectID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}
	cmd.Flags().IntVar(&teacherID, "teacher", 0, "teacher id")
	cmd.Flags().IntVar(&subjectID, "subject", 0, "subject id")
	_ = cmd.MarkFlagRequired("teacher")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

func newAnnounceCmd(app *application) *cobra.Command {
	var (
		title    string
		content  string
		audience string
	)
	cmd := &cobra.Command{
		Use:   "announce",
		Short: "Post an announcement to the department",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := requireRole(app, nav.RouteHODHome)
			if err != nil {
				return err
			}
			res, err := app.gw.PostAnnouncement(cmd.Context(), sess.SubjectID, title, content, audience, sess.DepartmentID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "announcement title")
	cmd.Flags().StringVar(&content, "content", "", "announcement body")
	cmd.Flags().StringVar(&audience, "audience", "students", "audience: students, teachers or all")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}
