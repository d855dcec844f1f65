package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"workplate/internal/models"
)

var taskFlags = []cli.Flag{
	&cli.StringFlag{Name: "title", Usage: "Task title."},
	&cli.StringFlag{Name: "description", Usage: "Longer description."},
	&cli.StringFlag{Name: "link", Usage: "URL of the ticket or doc."},
	&cli.StringFlag{Name: "project", Usage: "Project name."},
	&cli.StringFlag{Name: "priority", Usage: "P0, P1, P2 or P3."},
	&cli.StringFlag{Name: "size", Usage: "S, M, L or XL."},
	&cli.StringFlag{Name: "status", Usage: "plate, backlog or done."},
	&cli.BoolFlag{Name: "blocking", Usage: "Mark the task as blocking others."},
}

func tasksCommand() *cli.Command {
	return &cli.Command{
		Name:  "tasks",
		Usage: "Manage the plate, the backlog and done tasks.",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List tasks, optionally of one status.",
				Flags: []cli.Flag{&cli.StringFlag{Name: "status", Usage: "plate, backlog or done."}},
				Action: func(c *cli.Context) error {
					a, err := newApp()
					if err != nil {
						return err
					}
					tasks, err := a.tasks.List(c.Context, models.TaskStatus(c.String("status")))
					if err != nil {
						return err
					}
					printTasks(os.Stdout, tasks)
					return nil
				},
			},
			{
				Name:      "add",
				Usage:     "Create a task. New tasks go on the plate unless --status says otherwise.",
				ArgsUsage: "TITLE",
				Flags:     taskFlags[1:],
				Action: func(c *cli.Context) error {
					a, err := newApp()
					if err != nil {
						return err
					}
					task, err := a.tasks.Create(c.Context, models.CreateTaskInput{
						Title:       c.Args().First(),
						Description: c.String("description"),
						Blocking:    c.Bool("blocking"),
						Link:        c.String("link"),
						Priority:    models.Priority(c.String("priority")),
						Project:     c.String("project"),
						Size:        models.Size(c.String("size")),
						Status:      models.TaskStatus(c.String("status")),
					})
					if err != nil {
						return err
					}
					fmt.Println(task.ID)
					return nil
				},
			},
			{
				Name:      "edit",
				Usage:     "Change the given fields of a task.",
				ArgsUsage: "ID",
				Flags:     taskFlags,
				Action: func(c *cli.Context) error {
					a, err := newApp()
					if err != nil {
						return err
					}
					_, err = a.tasks.Update(c.Context, c.Args().First(), updateInput(c))
					return err
				},
			},
			{
				Name:      "done",
				Usage:     "Mark a task as done.",
				ArgsUsage: "ID",
				Action: func(c *cli.Context) error {
					a, err := newApp()
					if err != nil {
						return err
					}
					_, err = a.tasks.MoveToStatus(c.Context, c.Args().First(), models.TaskStatusDone)
					return err
				},
			},
			{
				Name:      "move",
				Usage:     "Move a task to another status.",
				ArgsUsage: "ID STATUS",
				Action: func(c *cli.Context) error {
					if c.NArg() != 2 {
						return fmt.Errorf("expected a task id and a status")
					}
					a, err := newApp()
					if err != nil {
						return err
					}
					_, err = a.tasks.MoveToStatus(c.Context, c.Args().Get(0), models.TaskStatus(c.Args().Get(1)))
					return err
				},
			},
			{
				Name:      "reorder",
				Usage:     "Move a task to a position within its status (starting at 0).",
				ArgsUsage: "ID POSITION",
				Action: func(c *cli.Context) error {
					if c.NArg() != 2 {
						return fmt.Errorf("expected a task id and a position")
					}
					position, err := strconv.Atoi(c.Args().Get(1))
					if err != nil {
						return fmt.Errorf("invalid position %q: %w", c.Args().Get(1), err)
					}
					a, err := newApp()
					if err != nil {
						return err
					}
					return a.tasks.Reorder(c.Context, c.Args().Get(0), position)
				},
			},
			{
				Name:      "rm",
				Usage:     "Delete a task.",
				ArgsUsage: "ID",
				Action: func(c *cli.Context) error {
					a, err := newApp()
					if err != nil {
						return err
					}
					return a.tasks.Delete(c.Context, c.Args().First())
				},
			},
		},
	}
}

// updateInput collects only the flags that were given.
func updateInput(c *cli.Context) models.UpdateTaskInput {
	var in models.UpdateTaskInput
	str := func(name string) *string {
		if !c.IsSet(name) {
			return nil
		}
		v := c.String(name)
		return &v
	}
	in.Title = str("title")
	in.Description = str("description")
	in.Link = str("link")
	in.Project = str("project")
	if v := str("priority"); v != nil {
		p := models.Priority(*v)
		in.Priority = &p
	}
	if v := str("size"); v != nil {
		s := models.Size(*v)
		in.Size = &s
	}
	if v := str("status"); v != nil {
		s := models.TaskStatus(*v)
		in.Status = &s
	}
	if c.IsSet("blocking") {
		b := c.Bool("blocking")
		in.Blocking = &b
	}
	return in
}

func printTasks(w io.Writer, tasks []*models.Task) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tPRI\tSIZE\tPROJECT\tTITLE")
	for _, t := range tasks {
		title := t.Title
		if t.Blocking {
			title += " [blocking]"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.Status, t.Priority, t.Size, t.Project, title)
	}
	tw.Flush()
}
